package listview

import (
	"fmt"
	"maps"
	"strconv"
	"time"
)

// IDField is the identity field carried by every record.
const IDField = "id"

// Record is one immutable row of domain data keyed by field name.
// Values are scalars: string, bool, integer, float, time.Time or nil.
// Records are never modified in place; use With to derive an updated copy.
type Record map[string]any

// ID returns the record identity in string form.
func (r Record) ID() string {
	return r.String(IDField)
}

// Get returns the value of field and whether it is present and non-nil.
func (r Record) Get(field string) (any, bool) {
	v, ok := r[field]
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}

// String returns the stringified value of field, or "" when it is missing.
func (r Record) String(field string) string {
	v, ok := r.Get(field)
	if !ok {
		return ""
	}
	return stringify(v)
}

// With returns a copy of r with field set to value.
func (r Record) With(field string, value any) Record {
	out := make(Record, len(r)+1)
	maps.Copy(out, r)
	out[field] = value
	return out
}

// ReplaceByID returns a copy of records where the record sharing updated's id
// is replaced by updated. Records with other ids keep their position.
func ReplaceByID(records []Record, updated Record) []Record {
	out := make([]Record, len(records))
	id := updated.ID()
	for i, rec := range records {
		if rec.ID() == id {
			out[i] = updated
			continue
		}
		out[i] = rec
	}
	return out
}

func stringify(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case time.Time:
		return x.Format(time.RFC3339)
	case bool:
		return strconv.FormatBool(x)
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}
