package listing

import (
	"strings"
)

// Op identifies the kind of a Condition.
type Op int

const (
	// OpEquals requires the field to equal Value exactly.
	OpEquals Op = iota + 1
	// OpContains requires the field to contain Value, ignoring case.
	OpContains
	// OpRange requires the numeric field to lie within [Min, Max]; a nil bound is open.
	OpRange
	// OpNotIn rejects records whose field is one of Values, or absent when Null is set.
	OpNotIn
)

func (o Op) String() string {
	switch o {
	case OpEquals:
		return "equals"
	case OpContains:
		return "contains"
	case OpRange:
		return "range"
	case OpNotIn:
		return "not_in"
	default:
		return "unknown"
	}
}

// Condition is a single constraint on one field.
type Condition struct {
	Op     Op
	Field  string
	Value  string
	Min    *float64
	Max    *float64
	Values []string
	Null   bool
}

// Equals builds an exact-match condition.
func Equals(field, value string) Condition {
	return Condition{Op: OpEquals, Field: field, Value: value}
}

// Contains builds a case-insensitive substring condition. The value is stored case-folded.
func Contains(field, value string) Condition {
	return Condition{Op: OpContains, Field: field, Value: strings.ToLower(value)}
}

// Between builds an inclusive numeric range; either bound may be nil.
func Between(field string, lower, upper *float64) Condition {
	return Condition{Op: OpRange, Field: field, Min: lower, Max: upper}
}

// NotIn builds an exclusion condition. With null set, absent and null values are excluded too.
func NotIn(field string, null bool, values ...string) Condition {
	return Condition{Op: OpNotIn, Field: field, Values: values, Null: null}
}

// Filter is a conjunction of conditions. The zero value matches every record.
type Filter struct {
	Conditions []Condition
}

// Where returns a filter over the given conditions.
func Where(conditions ...Condition) Filter {
	return Filter{Conditions: conditions}
}

// And returns a copy of f with extra conditions appended.
func (f Filter) And(conditions ...Condition) Filter {
	out := make([]Condition, 0, len(f.Conditions)+len(conditions))
	out = append(out, f.Conditions...)
	out = append(out, conditions...)
	return Filter{Conditions: out}
}

// IsEmpty reports whether the filter has no conditions.
func (f Filter) IsEmpty() bool {
	return len(f.Conditions) == 0
}

// Matches evaluates the filter against a listing in memory.
func (f Filter) Matches(l *Listing) bool {
	if l == nil {
		return false
	}
	for _, c := range f.Conditions {
		if !c.Matches(l) {
			return false
		}
	}
	return true
}

// Matches evaluates a single condition against a listing.
func (c Condition) Matches(l *Listing) bool {
	switch c.Op {
	case OpEquals:
		v, ok := l.stringField(c.Field)
		return ok && v == c.Value
	case OpContains:
		v, ok := l.stringField(c.Field)
		return ok && strings.Contains(strings.ToLower(v), c.Value)
	case OpRange:
		v, ok := l.numberField(c.Field)
		if !ok {
			return false
		}
		if c.Min != nil && v < *c.Min {
			return false
		}
		if c.Max != nil && v > *c.Max {
			return false
		}
		return true
	case OpNotIn:
		v, ok := l.stringField(c.Field)
		if !ok {
			return !c.Null
		}
		for _, excluded := range c.Values {
			if v == excluded {
				return false
			}
		}
		return true
	default:
		return false
	}
}
