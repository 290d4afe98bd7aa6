package feed

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/lysyi3m/bandcamp-comb/app/metrics"
	"github.com/samber/lo"
)

type Extractor struct {
	rules     *Rules
	sanitizer *Sanitizer
	dates     *DateNormalizer
	base      *url.URL
}

func NewExtractor(rules *Rules, sanitizer *Sanitizer, dates *DateNormalizer, sourceURL string) (*Extractor, error) {
	base, err := url.Parse(sourceURL)
	if err != nil {
		return nil, fmt.Errorf("invalid source URL: %w", err)
	}

	return &Extractor{
		rules:     rules,
		sanitizer: sanitizer,
		dates:     dates,
		base:      base,
	}, nil
}

// Run returns the stories of the page oldest-first. Stories with a missing
// field are left out and reported in the returned error slice.
func (e *Extractor) Run(data []byte) ([]Item, []error, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	stories := doc.Find(e.rules.Item)
	slog.Debug("Found stories in the feed", "count", stories.Length())

	items := make([]Item, 0, stories.Length())
	var skipped []error

	stories.Each(func(i int, story *goquery.Selection) {
		item, err := e.extractItem(i, story)
		if err != nil {
			slog.Warn("Skipping story", "index", i, "error", err)
			skipped = append(skipped, err)
			return
		}
		items = append(items, item)
	})

	// The page lists stories newest-first.
	items = lo.Reverse(items)

	return items, skipped, nil
}

func (e *Extractor) extractItem(index int, story *goquery.Selection) (Item, error) {
	token, ok := story.Attr(e.rules.TokenAttribute)
	token = strings.TrimSpace(token)
	if !ok || token == "" {
		return Item{}, &FieldMissingError{Index: index, Field: "token"}
	}

	values := make(map[string]string, len(requiredFields))
	for _, name := range requiredFields {
		value, ok := e.lookup(story, e.rules.Fields[name])
		if !ok {
			return Item{}, &FieldMissingError{Index: index, Field: name}
		}
		values[name] = value
	}

	link, ok := e.absolute(values[FieldLink])
	if !ok {
		return Item{}, &FieldMissingError{Index: index, Field: FieldLink}
	}

	imageURL, ok := e.absolute(values[FieldImage])
	if !ok {
		return Item{}, &FieldMissingError{Index: index, Field: FieldImage}
	}

	content, err := e.sanitizer.Run(story)
	if err != nil {
		return Item{}, fmt.Errorf("story %d: %w", index, err)
	}

	publishedAt, err := e.dates.Run(values[FieldDate])
	if err != nil {
		var dateErr *DateParseError
		if !errors.As(err, &dateErr) {
			return Item{}, fmt.Errorf("story %d: %w", index, err)
		}
		slog.Warn("Unexpected date format, using current time", "index", index, "date", dateErr.Text)
		metrics.DateFallbacks.Inc()
	}

	return Item{
		Token:       token,
		Title:       values[FieldTitle],
		Artist:      values[FieldArtist],
		Link:        link,
		ImageURL:    imageURL,
		DateText:    values[FieldDate],
		PublishedAt: publishedAt,
		Content:     content,
	}, nil
}

// lookup reports false when the element, or the requested attribute, is absent.
func (e *Extractor) lookup(story *goquery.Selection, rule FieldRule) (string, bool) {
	sel := story.Find(rule.Selector).First()
	if sel.Length() == 0 {
		return "", false
	}

	if rule.Attribute == "" {
		return strings.TrimSpace(sel.Text()), true
	}

	value, ok := sel.Attr(rule.Attribute)
	value = strings.TrimSpace(value)
	if !ok || value == "" {
		return "", false
	}
	return value, true
}

func (e *Extractor) absolute(raw string) (string, bool) {
	ref, err := url.Parse(raw)
	if err != nil {
		return "", false
	}

	resolved := e.base.ResolveReference(ref)
	if resolved.Host == "" || (resolved.Scheme != "http" && resolved.Scheme != "https") {
		return "", false
	}
	return resolved.String(), true
}
