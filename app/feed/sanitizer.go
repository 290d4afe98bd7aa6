package feed

import (
	"fmt"
	"html"
	"log/slog"

	"github.com/PuerkitoBio/goquery"
)

type Sanitizer struct {
	rules        []RemoveRule
	wrapperClass string
}

func NewSanitizer(rules *Rules) *Sanitizer {
	return &Sanitizer{
		rules:        rules.Remove,
		wrapperClass: rules.WrapperClass,
	}
}

// Run works on a detached copy of story, so the parsed page is left untouched.
// Each rule removes the first match only; rules without a match are skipped.
func (s *Sanitizer) Run(story *goquery.Selection) (string, error) {
	fragment := story.Clone()

	for _, rule := range s.rules {
		match := fragment.Find(rule.Selector()).First()
		if match.Length() == 0 {
			continue
		}
		match.Remove()
		slog.Debug("Removed element from story", "selector", rule.Selector())
	}

	markup, err := goquery.OuterHtml(fragment)
	if err != nil {
		return "", fmt.Errorf("failed to render story: %w", err)
	}

	return fmt.Sprintf(`<div class="%s">%s</div>`, html.EscapeString(s.wrapperClass), markup), nil
}
