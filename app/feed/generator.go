package feed

import (
	"bytes"
	"cmp"
	"encoding/xml"
	"fmt"
	"html"
	"time"

	"github.com/samber/lo"
)

const enclosureType = "image/jpeg"

type Generator struct {
	version string
}

func NewGenerator(version string) *Generator {
	return &Generator{version: version}
}

func (g *Generator) Run(variant Variant, meta Metadata, items []Item) ([]byte, error) {
	if err := g.validate(items); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	buf.WriteString(`<?xml version="1.0" encoding="UTF-8"?>`)
	buf.WriteString("\n")

	switch variant {
	case VariantRSS:
		g.writeRSS(&buf, meta, items)
	case VariantAtom:
		g.writeAtom(&buf, meta, items)
	default:
		return nil, &SynthesisError{Reason: "unsupported variant", Err: fmt.Errorf("%w: %s", ErrUnknownVariant, variant)}
	}

	return buf.Bytes(), nil
}

func (g *Generator) validate(items []Item) error {
	for i, item := range items {
		if item.GUID() == "" {
			return &SynthesisError{Reason: fmt.Sprintf("entry %d has no identifier", i)}
		}
	}

	duplicates := lo.FindDuplicatesBy(items, func(item Item) string {
		return item.GUID()
	})
	if len(duplicates) > 0 {
		return &SynthesisError{Reason: fmt.Sprintf("duplicate entry identifier %s", duplicates[0].GUID())}
	}

	return nil
}

func (g *Generator) writeRSS(buf *bytes.Buffer, meta Metadata, items []Item) {
	buf.WriteString(`<rss version="2.0" xmlns:content="http://purl.org/rss/1.0/modules/content/" xmlns:atom="http://www.w3.org/2005/Atom">`)
	buf.WriteString("\n  <channel>\n")

	g.writeElement(buf, "title", meta.Title(), 4)
	g.writeElement(buf, "link", meta.SourceURL, 4)
	g.writeElement(buf, "description", meta.Description(), 4)

	if meta.SelfURL != "" {
		buf.WriteString(fmt.Sprintf("    <atom:link href=\"%s\" rel=\"self\" type=\"application/rss+xml\" />\n",
			html.EscapeString(meta.SelfURL)))
	}

	g.writeElement(buf, "lastBuildDate", meta.BuildTime.Format(time.RFC1123Z), 4)
	g.writeElement(buf, "generator", g.generatorName(), 4)

	for _, item := range items {
		g.writeRSSItem(buf, item)
	}

	buf.WriteString("  </channel>\n</rss>\n")
}

func (g *Generator) writeRSSItem(buf *bytes.Buffer, item Item) {
	buf.WriteString("    <item>\n")

	buf.WriteString("      <guid isPermaLink=\"false\">")
	xml.EscapeText(buf, []byte(item.GUID()))
	buf.WriteString("</guid>\n")

	g.writeElement(buf, "title", item.DisplayTitle(), 6)
	g.writeElement(buf, "link", item.Link, 6)
	g.writeElement(buf, "author", item.Artist, 6)
	g.writeElement(buf, "description", item.Content, 6)
	g.writeElement(buf, "pubDate", item.PublishedAt.Format(time.RFC1123Z), 6)

	// RSS 2.0 requires length; the image size is unknown.
	buf.WriteString(fmt.Sprintf("      <enclosure url=\"%s\" length=\"0\" type=\"%s\" />\n",
		html.EscapeString(item.ImageURL), enclosureType))

	buf.WriteString("    </item>\n")
}

func (g *Generator) writeAtom(buf *bytes.Buffer, meta Metadata, items []Item) {
	buf.WriteString(`<feed xmlns="http://www.w3.org/2005/Atom">`)
	buf.WriteString("\n")

	g.writeElement(buf, "id", meta.SourceURL, 2)
	g.writeElement(buf, "title", meta.Title(), 2)
	g.writeElement(buf, "updated", meta.BuildTime.Format(time.RFC3339), 2)
	g.writeLink(buf, meta.SourceURL, "alternate", "", 2)
	if meta.SelfURL != "" {
		g.writeLink(buf, meta.SelfURL, "self", "", 2)
	}
	g.writeElement(buf, "subtitle", meta.Description(), 2)
	g.writeElement(buf, "generator", g.generatorName(), 2)

	for _, item := range items {
		g.writeAtomEntry(buf, meta, item)
	}

	buf.WriteString("</feed>\n")
}

func (g *Generator) writeAtomEntry(buf *bytes.Buffer, meta Metadata, item Item) {
	buf.WriteString("  <entry>\n")

	g.writeElement(buf, "id", item.GUID(), 4)
	g.writeElement(buf, "title", item.DisplayTitle(), 4)
	g.writeElement(buf, "updated", item.PublishedAt.Format(time.RFC3339), 4)
	g.writeElement(buf, "published", item.PublishedAt.Format(time.RFC3339), 4)

	// Atom requires an author on every entry; the feed element has none.
	buf.WriteString("    <author>\n")
	g.writeElement(buf, "name", cmp.Or(item.Artist, meta.Account), 6)
	buf.WriteString("    </author>\n")

	g.writeLink(buf, item.Link, "alternate", "", 4)
	g.writeLink(buf, item.ImageURL, "enclosure", enclosureType, 4)

	if item.Content != "" {
		buf.WriteString("    <content type=\"html\">")
		xml.EscapeText(buf, []byte(item.Content))
		buf.WriteString("</content>\n")
	}

	buf.WriteString("  </entry>\n")
}

func (g *Generator) writeLink(buf *bytes.Buffer, href, rel, mimeType string, indent int) {
	if href == "" {
		return
	}

	g.writeIndent(buf, indent)
	buf.WriteString(fmt.Sprintf("<link href=\"%s\" rel=\"%s\"", html.EscapeString(href), rel))
	if mimeType != "" {
		buf.WriteString(fmt.Sprintf(" type=\"%s\" length=\"0\"", mimeType))
	}
	buf.WriteString(" />\n")
}

func (g *Generator) writeElement(buf *bytes.Buffer, tag, content string, indent int) {
	if content == "" {
		return
	}

	g.writeIndent(buf, indent)
	buf.WriteString("<")
	buf.WriteString(tag)
	buf.WriteString(">")
	xml.EscapeText(buf, []byte(content))
	buf.WriteString("</")
	buf.WriteString(tag)
	buf.WriteString(">\n")
}

func (g *Generator) writeIndent(buf *bytes.Buffer, indent int) {
	for i := 0; i < indent; i++ {
		buf.WriteByte(' ')
	}
}

func (g *Generator) generatorName() string {
	return fmt.Sprintf("Bandcamp-Comb/%s", g.version)
}
