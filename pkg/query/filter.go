package query

import (
	"strings"

	"github.com/ssargent/cpgrams/pkg/extjson"
)

// Condition is a compiled predicate over a normalized record.
//
// This is a sealed interface: only types in this package implement it, so
// type switches over conditions are exhaustive.
//
// Condition types:
//   - Always: matches every record
//   - Equals: field = value
//   - AnyOf: field = any of values
//   - Range: from <= field <= to, either bound optional
//   - Prefix: field is a string starting with prefix
//   - And, Or: composition
type Condition interface {
	Match(record *extjson.Object) bool
	conditionNode()
}

// Always matches every record. An empty filter compiles to Always.
type Always struct{}

func (Always) conditionNode() {}

func (Always) Match(*extjson.Object) bool { return true }

// Equals matches records whose field equals Value. Numbers compare numerically.
type Equals struct {
	Field string
	Value any
}

func (Equals) conditionNode() {}

func (c Equals) Match(r *extjson.Object) bool {
	v, ok := r.Get(c.Field)
	if !ok {
		return false
	}
	return extjson.SameType(v, c.Value) && extjson.Equal(v, c.Value)
}

// AnyOf matches records whose field equals one of Values.
type AnyOf struct {
	Field  string
	Values []any
}

func (AnyOf) conditionNode() {}

func (c AnyOf) Match(r *extjson.Object) bool {
	v, ok := r.Get(c.Field)
	if !ok {
		return false
	}
	for _, want := range c.Values {
		if extjson.SameType(v, want) && extjson.Equal(v, want) {
			return true
		}
	}
	return false
}

// Range matches records whose field lies within the inclusive bounds.
// A nil bound is open. Values of a different type than the bounds never match.
type Range struct {
	Field string
	From  any
	To    any
}

func (Range) conditionNode() {}

func (c Range) Match(r *extjson.Object) bool {
	v, ok := r.Get(c.Field)
	if !ok || v == nil {
		return false
	}
	if c.From != nil {
		if !extjson.SameType(v, c.From) || extjson.Compare(v, c.From) < 0 {
			return false
		}
	}
	if c.To != nil {
		if !extjson.SameType(v, c.To) || extjson.Compare(v, c.To) > 0 {
			return false
		}
	}
	return true
}

// Prefix matches records whose field is a string starting with Prefix.
// It lets a bare date such as "2023-01-01" match any time of that day.
type Prefix struct {
	Field  string
	Prefix string
}

func (Prefix) conditionNode() {}

func (c Prefix) Match(r *extjson.Object) bool {
	v, ok := r.Get(c.Field)
	if !ok {
		return false
	}
	s, ok := v.(string)
	return ok && strings.HasPrefix(s, c.Prefix)
}

// And matches when every condition matches.
type And struct {
	Conditions []Condition
}

func (And) conditionNode() {}

func (c And) Match(r *extjson.Object) bool {
	for _, cond := range c.Conditions {
		if !cond.Match(r) {
			return false
		}
	}
	return true
}

// Or matches when at least one condition matches.
type Or struct {
	Conditions []Condition
}

func (Or) conditionNode() {}

func (c Or) Match(r *extjson.Object) bool {
	for _, cond := range c.Conditions {
		if cond.Match(r) {
			return true
		}
	}
	return false
}
