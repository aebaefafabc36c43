package extract

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"sjsage522/mpcontacts/internal/contact"

	"github.com/PuerkitoBio/goquery"
)

// Extractor turns one member profile page into a contact.Record. It is
// immutable once built and safe for concurrent use.
type Extractor struct {
	fields    []compiledField
	constants []constant
}

type compiledField struct {
	name  string
	rules []compiledRule
}

type compiledRule struct {
	Rule
	re *regexp.Regexp
}

type constant struct {
	field string
	value string
}

// New compiles the field rules and constants of a site profile.
func New(fields []FieldRules, constants map[string]string) (*Extractor, error) {
	e := &Extractor{}

	for _, f := range fields {
		if !contact.IsField(f.Field) {
			return nil, fmt.Errorf("unknown field %q", f.Field)
		}
		if f.Field == contact.FieldURL {
			return nil, fmt.Errorf("field %q is set from the page address and cannot have rules", f.Field)
		}

		cf := compiledField{name: f.Field}
		for i, r := range f.Rules {
			if err := r.Validate(); err != nil {
				return nil, fmt.Errorf("field %s rule %d: %w", f.Field, i, err)
			}
			cr := compiledRule{Rule: r}
			if r.Kind == KindRegex {
				cr.re = regexp.MustCompile(r.Pattern)
			}
			cf.rules = append(cf.rules, cr)
		}
		e.fields = append(e.fields, cf)
	}

	keys := make([]string, 0, len(constants))
	for k := range constants {
		if !contact.IsField(k) || k == contact.FieldURL {
			return nil, fmt.Errorf("constant %q is not a settable field", k)
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		e.constants = append(e.constants, constant{field: k, value: constants[k]})
	}

	return e, nil
}

// Extract builds exactly one record from doc. Fields whose rules all come up
// empty stay empty. Url is always pageURL.
func (e *Extractor) Extract(doc *goquery.Document, pageURL string) contact.Record {
	var rec contact.Record

	for _, f := range e.fields {
		for _, r := range f.rules {
			if v := r.apply(doc.Selection); v != "" {
				rec.Set(f.name, v)
				break
			}
		}
	}

	for _, c := range e.constants {
		rec.Set(c.field, c.value)
	}

	rec.Url = pageURL
	return rec
}

// Misses lists the rule-driven fields that came out empty in rec.
func (e *Extractor) Misses(rec contact.Record) []string {
	var missed []string
	for _, f := range e.fields {
		if rec.Get(f.name) == "" {
			missed = append(missed, f.name)
		}
	}
	return missed
}

func (r compiledRule) apply(root *goquery.Selection) string {
	sel := root
	if r.Selector != "" {
		sel = root.Find(r.Selector)
	}
	if sel.Length() == 0 {
		return ""
	}

	switch r.Kind {
	case KindText:
		if nodes := nonBlank(textNodes(sel, r.Own)); len(nodes) > 0 {
			return nodes[0]
		}

	case KindAttr:
		var val string
		sel.EachWithBreak(func(_ int, s *goquery.Selection) bool {
			if v, ok := s.Attr(r.Attr); ok && strings.TrimSpace(v) != "" {
				val = strings.TrimSpace(v)
				return false
			}
			return true
		})
		return val

	case KindNth:
		nodes := textNodes(sel, r.Own)
		if r.Index < len(nodes) {
			return strings.TrimSpace(nodes[r.Index])
		}

	case KindRegex:
		var val string
		sel.EachWithBreak(func(_ int, s *goquery.Selection) bool {
			val = firstMatch(r.re, s.Text())
			return val == ""
		})
		return val

	case KindJoin:
		return strings.Join(nonBlank(textNodes(sel, r.Own)), " ")
	}

	return ""
}

// firstMatch returns capture group 1 when the pattern has one, else the whole match.
func firstMatch(re *regexp.Regexp, text string) string {
	if re == nil || text == "" {
		return ""
	}
	sm := re.FindStringSubmatch(text)
	if len(sm) == 0 {
		return ""
	}
	if len(sm) > 1 {
		return strings.TrimSpace(sm[1])
	}
	return strings.TrimSpace(sm[0])
}
