package feed

import (
	"bytes"
	"fmt"
	"time"

	"github.com/mmcdole/gofeed"
)

// Summary is what a feed reader sees in a generated document.
type Summary struct {
	Type      string
	Title     string
	GUIDs     []string
	Published []time.Time
}

// Parser reads a generated document back with gofeed, the way a feed reader would.
type Parser struct {
	gofeedParser *gofeed.Parser
}

func NewParser() *Parser {
	return &Parser{
		gofeedParser: gofeed.NewParser(),
	}
}

func (p *Parser) Run(data []byte) (*Summary, error) {
	feed, err := p.gofeedParser.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed: %w", err)
	}

	summary := &Summary{
		Type:      feed.FeedType,
		Title:     feed.Title,
		GUIDs:     make([]string, 0, len(feed.Items)),
		Published: make([]time.Time, 0, len(feed.Items)),
	}

	for _, item := range feed.Items {
		summary.GUIDs = append(summary.GUIDs, item.GUID)
		if item.PublishedParsed != nil {
			summary.Published = append(summary.Published, *item.PublishedParsed)
		}
	}

	return summary, nil
}
