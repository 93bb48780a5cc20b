package listview

import (
	"cmp"
	"slices"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/cases"
)

// Direction is the sort direction.
type Direction int

const (
	// Ascending orders smallest first.
	Ascending Direction = iota
	// Descending orders largest first.
	Descending
)

// String returns "asc" or "desc".
func (d Direction) String() string {
	if d == Descending {
		return "desc"
	}
	return "asc"
}

// Toggle returns the opposite direction.
func (d Direction) Toggle() Direction {
	if d == Descending {
		return Ascending
	}
	return Descending
}

// ParseDirection parses "asc", "ascending", "desc" or "descending" (any case).
// The empty string means Ascending.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "asc", "ascending":
		return Ascending, nil
	case "desc", "descending":
		return Descending, nil
	default:
		return Ascending, configError("sort direction", s, "must be asc or desc")
	}
}

// SortSpec names the active sort field and direction.
// An empty Field leaves records in source order.
type SortSpec struct {
	Field     string
	Direction Direction
}

// String renders the spec as "field:direction".
func (s SortSpec) String() string {
	if s.Field == "" {
		return ""
	}
	return s.Field + ":" + s.Direction.String()
}

// Comparator orders two field values and returns a negative number, zero or a
// positive number. Either value may be nil when the field is missing.
type Comparator func(a, b any) int

// Lexical compares stringified values after case folding. It is the default
// comparator for fields without a registered one.
func Lexical(a, b any) int {
	return strings.Compare(fold(stringify(a)), fold(stringify(b)))
}

// Chronological compares timestamps. Values that cannot be parsed sort as the
// minimum, below every valid timestamp.
func Chronological(a, b any) int {
	ta, okA := ParseTime(a)
	tb, okB := ParseTime(b)
	switch {
	case !okA && !okB:
		return 0
	case !okA:
		return -1
	case !okB:
		return 1
	default:
		return ta.Compare(tb)
	}
}

// BoolPriority ranks false before true, so ascending order lists unread
// (seen=false) items first.
func BoolPriority(a, b any) int {
	return cmp.Compare(boolRank(a), boolRank(b))
}

// Numeric compares numbers. Values that are not numbers sort as the minimum.
func Numeric(a, b any) int {
	fa, okA := toFloat(a)
	fb, okB := toFloat(b)
	switch {
	case !okA && !okB:
		return 0
	case !okA:
		return -1
	case !okB:
		return 1
	default:
		return cmp.Compare(fa, fb)
	}
}

// timeLayouts are tried in order by ParseTime. The second covers zone-less
// backend timestamps with or without fractional seconds.
var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	time.DateOnly,
}

// ParseTime converts a time.Time or a timestamp string into a time.Time.
func ParseTime(v any) (time.Time, bool) {
	switch x := v.(type) {
	case time.Time:
		return x, !x.IsZero()
	case string:
		s := strings.TrimSpace(x)
		if s == "" {
			return time.Time{}, false
		}
		for _, layout := range timeLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t, true
			}
		}
	}
	return time.Time{}, false
}

func boolRank(v any) int {
	switch x := v.(type) {
	case bool:
		if x {
			return 1
		}
	case string:
		if b, err := strconv.ParseBool(x); err == nil && b {
			return 1
		}
	}
	return 0
}

func toFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	case float64:
		return x, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

// SortField registers a comparator for one sortable field. A nil Compare
// means Lexical.
type SortField struct {
	Name    string
	Compare Comparator
}

// Registry maps sortable field names to comparators. A nil *Registry sorts
// every field lexically.
type Registry struct {
	comparators map[string]Comparator
	lexical     map[string]bool
	order       []string
}

// NewRegistry builds a registry from the sortable fields of a page.
// Returns a ConfigurationError for malformed or duplicate names.
func NewRegistry(fields ...SortField) (*Registry, error) {
	r := &Registry{
		comparators: make(map[string]Comparator, len(fields)),
		lexical:     make(map[string]bool, len(fields)),
	}
	for _, f := range fields {
		if !validFieldName(f.Name) {
			return nil, configError("sort field", f.Name, "malformed field name")
		}
		if _, dup := r.comparators[f.Name]; dup {
			return nil, configError("sort field", f.Name, "registered more than once")
		}
		c := f.Compare
		if c == nil {
			c = Lexical
			r.lexical[f.Name] = true
		}
		r.comparators[f.Name] = c
		r.order = append(r.order, f.Name)
	}
	return r, nil
}

// Sortable reports whether field has a registered comparator.
func (r *Registry) Sortable(field string) bool {
	if r == nil {
		return false
	}
	_, ok := r.comparators[field]
	return ok
}

// Fields returns the sortable field names in registration order.
func (r *Registry) Fields() []string {
	if r == nil {
		return nil
	}
	return slices.Clone(r.order)
}

// Lookup returns the comparator for field, falling back to Lexical.
func (r *Registry) Lookup(field string) Comparator {
	if r != nil {
		if c, ok := r.comparators[field]; ok {
			return c
		}
	}
	return Lexical
}

// Validate returns a ConfigurationError when s names a field that is not
// sortable. The empty field (source order) is always valid.
func (r *Registry) Validate(s SortSpec) error {
	if s.Field == "" || r.Sortable(s.Field) {
		return nil
	}
	return configError("sort field", s.Field, "not sortable here (fields: "+strings.Join(r.Fields(), ", ")+")")
}

// Compare orders a and b by s and returns -1, 0 or 1.
// Descending inverts the result.
func (r *Registry) Compare(a, b Record, s SortSpec) int {
	av, _ := a.Get(s.Field)
	bv, _ := b.Get(s.Field)
	res := cmp.Compare(r.Lookup(s.Field)(av, bv), 0)
	if s.Direction == Descending {
		res = -res
	}
	return res
}

// Sort returns a stably sorted copy of records. Records with equal keys keep
// their input order in both directions. The input slice is not modified.
//
// Keys are read once per record. Lexical keys are folded once with a single
// Caser instead of on every comparison.
func (r *Registry) Sort(records []Record, s SortSpec) []Record {
	if s.Field == "" {
		return slices.Clone(records)
	}

	type keyed struct {
		rec Record
		key any
	}
	lexical := r.foldsLexically(s.Field)
	caser := cases.Fold()
	items := make([]keyed, len(records))
	for i, rec := range records {
		v, _ := rec.Get(s.Field)
		if lexical {
			v = caser.String(stringify(v))
		}
		items[i] = keyed{rec: rec, key: v}
	}

	compare := r.Lookup(s.Field)
	slices.SortStableFunc(items, func(a, b keyed) int {
		var res int
		if lexical {
			res = strings.Compare(a.key.(string), b.key.(string))
		} else {
			res = cmp.Compare(compare(a.key, b.key), 0)
		}
		if s.Direction == Descending {
			res = -res
		}
		return res
	})

	sorted := make([]Record, len(items))
	for i, it := range items {
		sorted[i] = it.rec
	}
	return sorted
}

// foldsLexically reports whether field sorts with the default lexical
// comparator, either registered without one or not registered at all.
func (r *Registry) foldsLexically(field string) bool {
	if r == nil {
		return true
	}
	if _, ok := r.comparators[field]; !ok {
		return true
	}
	return r.lexical[field]
}
