package feed

import (
	"fmt"
	"time"
)

type Variant int

const (
	VariantRSS Variant = iota
	VariantAtom
)

var Variants = []Variant{VariantRSS, VariantAtom}

func (v Variant) String() string {
	switch v {
	case VariantRSS:
		return "rss"
	case VariantAtom:
		return "atom"
	default:
		return fmt.Sprintf("variant(%d)", int(v))
	}
}

func (v Variant) ContentType() string {
	return "application/xml; charset=utf-8"
}

// Item is one story from the activity feed, ready to be rendered as an entry.
type Item struct {
	Token       string // data-story-tralbum-key, opaque
	Title       string
	Artist      string
	Link        string
	ImageURL    string
	DateText    string
	PublishedAt time.Time
	Content     string
}

func (i Item) GUID() string {
	if i.Link == "" || i.Token == "" {
		return ""
	}
	return i.Link + "#" + i.Token
}

func (i Item) DisplayTitle() string {
	return fmt.Sprintf("%s by %s", i.Title, i.Artist)
}

// Metadata describes the document as a whole.
type Metadata struct {
	Account   string
	SourceURL string
	SelfURL   string
	BuildTime time.Time
}

func (m Metadata) Title() string {
	return fmt.Sprintf("Bandcamp %s Feed", m.Account)
}

func (m Metadata) Description() string {
	return fmt.Sprintf("RSS feed of %s Bandcamp news feed", m.Account)
}
