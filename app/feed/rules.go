package feed

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed rules.yml
var defaultRules []byte

type FieldRule struct {
	Selector  string `yaml:"selector"`
	Attribute string `yaml:"attribute"`
}

type RemoveRule struct {
	Element string `yaml:"element"`
	Class   string `yaml:"class"`
}

func (r RemoveRule) Selector() string {
	return r.Element + "." + r.Class
}

type Rules struct {
	Item           string               `yaml:"item"`
	TokenAttribute string               `yaml:"token_attribute"`
	Fields         map[string]FieldRule `yaml:"fields"`
	Remove         []RemoveRule         `yaml:"remove"`
	WrapperClass   string               `yaml:"wrapper_class"`
}

const (
	FieldTitle  = "title"
	FieldArtist = "artist"
	FieldLink   = "link"
	FieldImage  = "image"
	FieldDate   = "date"
)

var requiredFields = []string{FieldTitle, FieldArtist, FieldLink, FieldImage, FieldDate}

func DefaultRules() *Rules {
	rules, err := ParseRules(defaultRules)
	if err != nil {
		panic(fmt.Sprintf("embedded rules are invalid: %v", err))
	}
	return rules
}

// LoadRules reads rules from path, or returns the embedded defaults when path is empty.
func LoadRules(path string) (*Rules, error) {
	if path == "" {
		return DefaultRules(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	rules, err := ParseRules(data)
	if err != nil {
		return nil, fmt.Errorf("invalid rules %s: %w", path, err)
	}
	return rules, nil
}

func ParseRules(data []byte) (*Rules, error) {
	var rules Rules
	if err := yaml.Unmarshal(data, &rules); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if rules.WrapperClass == "" {
		rules.WrapperClass = "collection-item-container"
	}

	if err := rules.Validate(); err != nil {
		return nil, err
	}
	return &rules, nil
}

func (r *Rules) Validate() error {
	if r.Item == "" {
		return fmt.Errorf("item selector is required")
	}
	if r.TokenAttribute == "" {
		return fmt.Errorf("token attribute is required")
	}

	for _, name := range requiredFields {
		rule, ok := r.Fields[name]
		if !ok || rule.Selector == "" {
			return fmt.Errorf("field %s requires a selector", name)
		}
	}

	for i, rule := range r.Remove {
		if rule.Element == "" || rule.Class == "" {
			return fmt.Errorf("remove rule at index %d must have element and class", i)
		}
	}

	return nil
}
