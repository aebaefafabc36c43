package extract

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/andybalholm/cascadia"
)

// Kind identifies how a Rule derives a value from a page.
type Kind string

const (
	// KindText takes the first non-blank text node under the matched elements.
	KindText Kind = "text"
	// KindAttr takes the first non-blank attribute value among the matched elements.
	KindAttr Kind = "attr"
	// KindNth takes the Index-th text node across the matched elements, blank
	// nodes included. It depends on the page keeping the same node layout.
	KindNth Kind = "nth"
	// KindRegex applies Pattern to the text of each matched element and keeps
	// the first match.
	KindRegex Kind = "regex"
	// KindJoin joins every non-blank text node under the matched elements
	// with a single space.
	KindJoin Kind = "join"
)

// Rule is a single strategy for deriving one field value.
type Rule struct {
	Kind     Kind   `yaml:"kind" json:"kind"`
	Selector string `yaml:"selector,omitempty" json:"selector,omitempty"`
	Attr     string `yaml:"attr,omitempty" json:"attr,omitempty"`
	Index    int    `yaml:"index,omitempty" json:"index,omitempty"`
	Pattern  string `yaml:"pattern,omitempty" json:"pattern,omitempty"`
	// Own limits text-based kinds to direct child text nodes.
	Own bool `yaml:"own,omitempty" json:"own,omitempty"`
}

// FieldRules is the ordered fallback chain for one output field.
type FieldRules struct {
	Field string `yaml:"field" json:"field"`
	Rules []Rule `yaml:"rules" json:"rules"`
}

// Field builds a fallback chain for field.
func Field(field string, rules ...Rule) FieldRules {
	return FieldRules{Field: field, Rules: rules}
}

// Text selects the first non-blank descendant text node.
func Text(selector string) Rule {
	return Rule{Kind: KindText, Selector: selector}
}

// OwnText selects the first non-blank direct child text node.
func OwnText(selector string) Rule {
	return Rule{Kind: KindText, Selector: selector, Own: true}
}

// Attr selects an attribute value.
func Attr(selector, attr string) Rule {
	return Rule{Kind: KindAttr, Selector: selector, Attr: attr}
}

// Nth picks the index-th descendant text node.
func Nth(selector string, index int) Rule {
	return Rule{Kind: KindNth, Selector: selector, Index: index}
}

// OwnNth picks the index-th direct child text node.
func OwnNth(selector string, index int) Rule {
	return Rule{Kind: KindNth, Selector: selector, Index: index, Own: true}
}

// Regex captures pattern from the text of the matched elements.
func Regex(selector, pattern string) Rule {
	return Rule{Kind: KindRegex, Selector: selector, Pattern: pattern}
}

// Join concatenates all descendant text nodes.
func Join(selector string) Rule {
	return Rule{Kind: KindJoin, Selector: selector}
}

// Validate checks that the rule is well formed and its selector and pattern compile.
func (r Rule) Validate() error {
	switch r.Kind {
	case KindText, KindJoin:
	case KindAttr:
		if strings.TrimSpace(r.Attr) == "" {
			return fmt.Errorf("attr rule %q: missing attribute name", r.Selector)
		}
	case KindNth:
		if r.Index < 0 {
			return fmt.Errorf("nth rule %q: negative index %d", r.Selector, r.Index)
		}
	case KindRegex:
		if _, err := regexp.Compile(r.Pattern); err != nil {
			return fmt.Errorf("regex rule %q: %w", r.Selector, err)
		}
		if r.Pattern == "" {
			return fmt.Errorf("regex rule %q: empty pattern", r.Selector)
		}
	default:
		return fmt.Errorf("unknown rule kind %q", r.Kind)
	}

	if r.Selector == "" {
		if r.Kind == KindRegex {
			return nil
		}
		return fmt.Errorf("%s rule: empty selector", r.Kind)
	}
	if _, err := cascadia.Compile(r.Selector); err != nil {
		return fmt.Errorf("%s rule: invalid selector %q: %w", r.Kind, r.Selector, err)
	}
	return nil
}
