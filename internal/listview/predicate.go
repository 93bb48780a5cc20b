package listview

import (
	"fmt"
	"regexp"
	"slices"
	"strings"

	"golang.org/x/text/cases"
)

// Wildcard is the equality input that matches every record.
const Wildcard = "ALL"

// MatchKind selects how a filter input is compared with a field value.
type MatchKind int

const (
	// MatchSubstring keeps records whose field contains the input, ignoring case.
	MatchSubstring MatchKind = iota
	// MatchEqual keeps records whose field equals the input exactly.
	MatchEqual
)

// String returns the kind name used in help output.
func (k MatchKind) String() string {
	switch k {
	case MatchSubstring:
		return "contains"
	case MatchEqual:
		return "equals"
	default:
		return fmt.Sprintf("MatchKind(%d)", int(k))
	}
}

// fieldNamePattern accepts identifiers and dotted paths such as "category.name".
var fieldNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_.]*$`)

// validFieldName reports whether name can address a record field.
func validFieldName(name string) bool {
	return fieldNamePattern.MatchString(name) && !strings.HasSuffix(name, ".") && !strings.Contains(name, "..")
}

// FilterField declares one filterable field of a page.
type FilterField struct {
	// Name is the record field the predicate reads.
	Name string
	// Kind selects substring or equality matching.
	Kind MatchKind
	// Choices lists the accepted inputs of an equality field. Wildcard is
	// always accepted. An empty list accepts any input.
	Choices []string
}

// Predicate is a FilterField together with its current input.
type Predicate struct {
	FilterField

	Value string
}

// Active reports whether the predicate constrains the result.
// Empty inputs and the equality wildcard are inactive.
func (p Predicate) Active() bool {
	if p.Value == "" {
		return false
	}
	return p.Kind != MatchEqual || p.Value != Wildcard
}

// Match reports whether r satisfies the predicate.
//
// A missing field reads as "" for substring predicates and never satisfies an
// active equality predicate.
func (p Predicate) Match(r Record) bool {
	caser := cases.Fold()
	return p.matchFolded(r, &caser, caser.String(p.Value))
}

// matchFolded is Match with the substring input already folded by caser.
func (p Predicate) matchFolded(r Record, caser *cases.Caser, needle string) bool {
	if !p.Active() {
		return true
	}
	if p.Kind == MatchEqual {
		v, ok := r.Get(p.Name)
		if !ok {
			return false
		}
		return stringify(v) == p.Value
	}
	return strings.Contains(caser.String(r.String(p.Name)), needle)
}

// fold applies Unicode case folding to a single value.
func fold(s string) string {
	return cases.Fold().String(s)
}

// FilterSpec is the ordered set of predicates of a page. The zero value
// declares no fields and matches everything.
//
// FilterSpec is a value type: With returns a modified copy.
type FilterSpec struct {
	predicates []Predicate
}

// NewFilterSpec declares the filterable fields of a page. Equality fields
// start at Wildcard and substring fields start empty, so the new spec is the
// identity filter.
//
// Returns a ConfigurationError for malformed or duplicate field names.
func NewFilterSpec(fields ...FilterField) (FilterSpec, error) {
	seen := make(map[string]bool, len(fields))
	preds := make([]Predicate, 0, len(fields))
	for _, f := range fields {
		if !validFieldName(f.Name) {
			return FilterSpec{}, configError("filter field", f.Name, "malformed field name")
		}
		if seen[f.Name] {
			return FilterSpec{}, configError("filter field", f.Name, "declared more than once")
		}
		seen[f.Name] = true

		p := Predicate{FilterField: f}
		p.Choices = slices.Clone(f.Choices)
		if f.Kind == MatchEqual {
			p.Value = Wildcard
		}
		preds = append(preds, p)
	}
	return FilterSpec{predicates: preds}, nil
}

// With returns a copy of f whose input for field is value.
//
// Equality inputs are matched case-insensitively against the declared
// choices and stored in their canonical spelling. Unknown fields and
// values outside the choices are ConfigurationErrors.
func (f FilterSpec) With(field, value string) (FilterSpec, error) {
	if !validFieldName(field) {
		return f, configError("filter field", field, "malformed field name")
	}
	i := f.index(field)
	if i < 0 {
		return f, configError("filter field", field,
			"not filterable here (fields: "+strings.Join(f.Fields(), ", ")+")")
	}

	value = strings.TrimSpace(value)
	p := f.predicates[i]
	if p.Kind == MatchEqual && value != "" && len(p.Choices) > 0 {
		canonical, ok := canonicalChoice(p.Choices, value)
		if !ok {
			return f, configError("filter value", value,
				fmt.Sprintf("%s accepts %s, %s", field, Wildcard, strings.Join(p.Choices, ", ")))
		}
		value = canonical
	}

	preds := slices.Clone(f.predicates)
	preds[i].Value = value
	return FilterSpec{predicates: preds}, nil
}

func canonicalChoice(choices []string, value string) (string, bool) {
	if strings.EqualFold(value, Wildcard) {
		return Wildcard, true
	}
	for _, c := range choices {
		if strings.EqualFold(c, value) {
			return c, true
		}
	}
	return "", false
}

// Value returns the current input for field ("" when the field is unknown).
func (f FilterSpec) Value(field string) string {
	if i := f.index(field); i >= 0 {
		return f.predicates[i].Value
	}
	return ""
}

// Has reports whether field is declared.
func (f FilterSpec) Has(field string) bool {
	return f.index(field) >= 0
}

// Fields returns the declared field names in declaration order.
func (f FilterSpec) Fields() []string {
	names := make([]string, 0, len(f.predicates))
	for _, p := range f.predicates {
		names = append(names, p.Name)
	}
	return names
}

// Predicates returns a copy of the predicates in declaration order.
func (f FilterSpec) Predicates() []Predicate {
	return slices.Clone(f.predicates)
}

// Active returns the predicates that currently constrain the result.
func (f FilterSpec) Active() []Predicate {
	var active []Predicate
	for _, p := range f.predicates {
		if p.Active() {
			active = append(active, p)
		}
	}
	return active
}

// IsIdentity reports whether f matches every record.
func (f FilterSpec) IsIdentity() bool {
	return len(f.Active()) == 0
}

// Reset returns f with every input back at its initial value.
func (f FilterSpec) Reset() FilterSpec {
	preds := slices.Clone(f.predicates)
	for i := range preds {
		preds[i].Value = ""
		if preds[i].Kind == MatchEqual {
			preds[i].Value = Wildcard
		}
	}
	return FilterSpec{predicates: preds}
}

func (f FilterSpec) index(field string) int {
	return slices.IndexFunc(f.predicates, func(p Predicate) bool { return p.Name == field })
}

// Matches reports whether r satisfies every active predicate of f.
func Matches(r Record, f FilterSpec) bool {
	return newMatcher(f).match(r)
}

// Filter returns the records of source that match f, in source order.
func Filter(source []Record, f FilterSpec) []Record {
	m := newMatcher(f)
	out := make([]Record, 0, len(source))
	for _, r := range source {
		if m.match(r) {
			out = append(out, r)
		}
	}
	return out
}

// matcher evaluates the active predicates of a FilterSpec with one Caser
// and inputs folded once.
type matcher struct {
	caser   cases.Caser
	active  []Predicate
	needles []string
}

func newMatcher(f FilterSpec) *matcher {
	m := &matcher{caser: cases.Fold()}
	for _, p := range f.predicates {
		if !p.Active() {
			continue
		}
		m.active = append(m.active, p)
		m.needles = append(m.needles, m.caser.String(p.Value))
	}
	return m
}

func (m *matcher) match(r Record) bool {
	for i, p := range m.active {
		if !p.matchFolded(r, &m.caser, m.needles[i]) {
			return false
		}
	}
	return true
}
