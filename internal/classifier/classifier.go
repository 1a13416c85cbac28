// Package classifier assigns a category to clipboard text using an ordered
// table of line-anchored regular expressions.
//
// The rule table is data: the built-in table ships as an embedded YAML file
// and can be replaced by a user rules file with the same schema.
package classifier

import (
	_ "embed"
	"fmt"
	"os"
	"regexp"
	"strings"
	"unicode"

	"gopkg.in/yaml.v3"

	"github.com/HendryAvila/ortu/internal/history"
)

//go:embed rules.yaml
var defaultRules []byte

// Rule maps a category to the patterns that select it.
type Rule struct {
	Category string   `yaml:"category"`
	Patterns []string `yaml:"patterns"`
}

// RuleSet is the schema of a rules file. Buckets is optional and, when
// present, replaces the store's virtual bucket table.
type RuleSet struct {
	Rules   []Rule          `yaml:"rules"`
	Buckets history.Buckets `yaml:"buckets,omitempty"`
}

type compiledRule struct {
	category string
	patterns []*regexp.Regexp
}

// Classifier evaluates rules in order; the first match wins.
type Classifier struct {
	rules []compiledRule
}

// New compiles rules into a Classifier. Patterns are compiled in multiline
// mode so ^ anchors at every line start.
func New(rules []Rule) (*Classifier, error) {
	c := &Classifier{rules: make([]compiledRule, 0, len(rules))}
	for i, r := range rules {
		category := strings.TrimSpace(r.Category)
		if category == "" {
			return nil, fmt.Errorf("classifier: rule %d: empty category", i)
		}
		if len(r.Patterns) == 0 {
			return nil, fmt.Errorf("classifier: rule %q: no patterns", category)
		}
		cr := compiledRule{category: category}
		for _, p := range r.Patterns {
			re, err := regexp.Compile("(?m)" + p)
			if err != nil {
				return nil, fmt.Errorf("classifier: rule %q: %w", category, err)
			}
			cr.patterns = append(cr.patterns, re)
		}
		c.rules = append(c.rules, cr)
	}
	return c, nil
}

// Default returns the Classifier built from the embedded rule table.
func Default() (*Classifier, error) {
	set, err := ParseRules(defaultRules)
	if err != nil {
		return nil, fmt.Errorf("classifier: embedded rules: %w", err)
	}
	return New(set.Rules)
}

// ParseRules decodes a YAML rule set.
func ParseRules(data []byte) (*RuleSet, error) {
	var set RuleSet
	if err := yaml.Unmarshal(data, &set); err != nil {
		return nil, fmt.Errorf("failed to parse rules yaml: %w", err)
	}
	if len(set.Rules) == 0 {
		return nil, fmt.Errorf("rules yaml defines no rules")
	}
	return &set, nil
}

// LoadRules reads a user rules file.
func LoadRules(path string) (*RuleSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("classifier: read rules file: %w", err)
	}
	set, err := ParseRules(data)
	if err != nil {
		return nil, fmt.Errorf("classifier: %s: %w", path, err)
	}
	return set, nil
}

// Classify returns the category of the first rule with a pattern matching
// text. ok is false when no rule matches.
func (c *Classifier) Classify(text string) (category string, ok bool) {
	text = asciiSpaces(text)
	for _, r := range c.rules {
		for _, re := range r.patterns {
			if re.MatchString(text) {
				return r.category, true
			}
		}
	}
	return "", false
}

// asciiSpaces folds non-ASCII whitespace such as U+00A0 to a plain space
// so \s in a pattern matches it.
func asciiSpaces(text string) string {
	return strings.Map(func(r rune) rune {
		if r > unicode.MaxASCII && unicode.IsSpace(r) {
			return ' '
		}
		return r
	}, text)
}

// Categories lists the rule categories in evaluation order.
func (c *Classifier) Categories() []string {
	out := make([]string, len(c.rules))
	for i, r := range c.rules {
		out[i] = r.category
	}
	return out
}

// SimilarityFinder supplies the category of previously stored content that
// resembles text. history.Store implements it.
type SimilarityFinder interface {
	FindSimilarCategory(content string) (string, bool, error)
}

// Resolve classifies text and falls back to finder when no rule matches.
// A finder error is treated as no match and returned alongside.
func (c *Classifier) Resolve(text string, finder SimilarityFinder) (*string, error) {
	if cat, ok := c.Classify(text); ok {
		return &cat, nil
	}
	if finder == nil {
		return nil, nil
	}
	cat, ok, err := finder.FindSimilarCategory(text)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	return &cat, nil
}
