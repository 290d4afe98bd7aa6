package feed

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultRules(t *testing.T) {
	rules := DefaultRules()

	if rules.Item != "li.story.nr" {
		t.Errorf("Expected item selector 'li.story.nr', got '%s'", rules.Item)
	}
	if rules.TokenAttribute != "data-story-tralbum-key" {
		t.Errorf("Unexpected token attribute: %s", rules.TokenAttribute)
	}
	if rules.Fields[FieldLink].Attribute != "href" {
		t.Errorf("Expected link rule to read href, got '%s'", rules.Fields[FieldLink].Attribute)
	}
	if rules.Fields[FieldImage].Selector != "img.tralbum-art-large" {
		t.Errorf("Unexpected image selector: %s", rules.Fields[FieldImage].Selector)
	}

	expectedRemovals := []string{
		"div.tralbum-owners",
		"div.story-sidebar",
		"div.tralbum-wrapper-collect-controls",
		"span.track_play_time",
	}
	if len(rules.Remove) != len(expectedRemovals) {
		t.Fatalf("Expected %d removal rules, got %d", len(expectedRemovals), len(rules.Remove))
	}
	for i, selector := range expectedRemovals {
		if rules.Remove[i].Selector() != selector {
			t.Errorf("Removal %d: expected %s, got %s", i, selector, rules.Remove[i].Selector())
		}
	}
	if rules.WrapperClass != "collection-item-container" {
		t.Errorf("Unexpected wrapper class: %s", rules.WrapperClass)
	}
}

func TestLoadRulesFromFile(t *testing.T) {
	content := `
item: article.story
token_attribute: data-id
fields:
  title: {selector: h2}
  artist: {selector: .by}
  link: {selector: a.permalink, attribute: href}
  image: {selector: img, attribute: src}
  date: {selector: time}
remove:
  - element: div
    class: ads
`
	path := filepath.Join(t.TempDir(), "rules.yml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write rules file: %v", err)
	}

	rules, err := LoadRules(path)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if rules.Item != "article.story" {
		t.Errorf("Expected item selector 'article.story', got '%s'", rules.Item)
	}
	if len(rules.Remove) != 1 || rules.Remove[0].Selector() != "div.ads" {
		t.Errorf("Unexpected removal rules: %+v", rules.Remove)
	}
	if rules.WrapperClass != "collection-item-container" {
		t.Errorf("Expected default wrapper class, got '%s'", rules.WrapperClass)
	}
}

func TestLoadRulesEmptyPathUsesDefaults(t *testing.T) {
	rules, err := LoadRules("")
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if rules.Item != DefaultRules().Item {
		t.Errorf("Expected default rules, got item selector %s", rules.Item)
	}
}

func TestLoadRulesMissingFile(t *testing.T) {
	if _, err := LoadRules(filepath.Join(t.TempDir(), "missing.yml")); err == nil {
		t.Error("Expected error for missing rules file")
	}
}

func TestParseRulesValidation(t *testing.T) {
	tests := []struct {
		name    string
		content string
		message string
	}{
		{
			name:    "missing item",
			content: "token_attribute: x\n",
			message: "item selector is required",
		},
		{
			name:    "missing token attribute",
			content: "item: li\n",
			message: "token attribute is required",
		},
		{
			name:    "missing field",
			content: "item: li\ntoken_attribute: x\nfields:\n  title: {selector: h2}\n",
			message: "requires a selector",
		},
		{
			name: "incomplete removal",
			content: `item: li
token_attribute: x
fields:
  title: {selector: a}
  artist: {selector: a}
  link: {selector: a, attribute: href}
  image: {selector: img, attribute: src}
  date: {selector: time}
remove:
  - element: div
`,
			message: "must have element and class",
		},
		{
			name:    "invalid yaml",
			content: "item: [unclosed",
			message: "failed to parse YAML",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseRules([]byte(tt.content))
			if err == nil {
				t.Fatal("Expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.message) {
				t.Errorf("Expected error containing %q, got: %v", tt.message, err)
			}
		})
	}
}
