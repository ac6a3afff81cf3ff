// Package fields classifies record fields and holds the per-operation allow-lists.
package fields

import (
	"sort"

	"github.com/samber/lo"
)

// Kind classifies how a field is encoded in the raw collection.
type Kind int

const (
	// Plain fields hold native JSON scalars.
	Plain Kind = iota
	// WrappedInteger fields hold {"$numberLong": "..."} before normalization.
	WrappedInteger
	// WrappedDate fields hold {"$date": "..."} before normalization.
	WrappedDate
)

func (k Kind) String() string {
	switch k {
	case WrappedInteger:
		return "wrapped_integer"
	case WrappedDate:
		return "wrapped_date"
	default:
		return "plain"
	}
}

// Operation names an engine operation that restricts which fields it accepts.
type Operation string

const (
	OpUniqueValues Operation = "unique_values"
	OpStatistics   Operation = "statistics"
)

// Field describes one known record field.
type Field struct {
	Name        string `json:"name"`
	Kind        Kind   `json:"-"`
	Type        string `json:"type"`
	Description string `json:"description"`
}

// Registry maps field names to their kinds and operations to their allowed fields.
type Registry struct {
	idField string
	fields  map[string]Field
	order   []string
	allowed map[Operation][]string
}

// NewRegistry builds a registry. Fields not listed are Plain.
func NewRegistry(idField string, fields []Field, allowed map[Operation][]string) *Registry {
	r := &Registry{
		idField: idField,
		fields:  make(map[string]Field, len(fields)),
		allowed: make(map[Operation][]string, len(allowed)),
	}
	for _, f := range fields {
		if _, seen := r.fields[f.Name]; !seen {
			r.order = append(r.order, f.Name)
		}
		r.fields[f.Name] = f
	}
	for op, names := range allowed {
		r.allowed[op] = lo.Uniq(names)
	}
	return r
}

// IDField returns the name of the record identifier field.
func (r *Registry) IDField() string {
	return r.idField
}

// Kind returns the kind of a field; unknown fields are Plain.
func (r *Registry) Kind(name string) Kind {
	if f, ok := r.fields[name]; ok {
		return f.Kind
	}
	return Plain
}

// IsDate reports whether name is a date field.
func (r *Registry) IsDate(name string) bool {
	return r.Kind(name) == WrappedDate
}

// Allowed reports whether op may be run against field.
func (r *Registry) Allowed(op Operation, field string) bool {
	return lo.Contains(r.allowed[op], field)
}

// AllowList returns a copy of the fields op accepts, in declaration order.
func (r *Registry) AllowList(op Operation) []string {
	names := r.allowed[op]
	out := make([]string, len(names))
	copy(out, names)
	return out
}

// Fields returns the described fields in declaration order.
func (r *Registry) Fields() []Field {
	return lo.Map(r.order, func(name string, _ int) Field { return r.fields[name] })
}

// DateFields returns the names of all date fields, sorted.
func (r *Registry) DateFields() []string {
	names := lo.Filter(r.order, func(name string, _ int) bool { return r.fields[name].Kind == WrappedDate })
	sort.Strings(names)
	return names
}
