// Package cachekit defines the Cache Client contract (spec.md §4.1): a keyed
// store with TTL, numeric counters, list primitives, bulk operations, and atomic
// conditional ops. cachekit/memory provides the in-process reference
// implementation every provider must behave like.
package cachekit

import "infracore/errkind"

// State is the three-way result of a cache read (spec.md §3.2).
type State int

const (
	// Absent means the key does not exist (or has expired).
	Absent State = iota
	// PresentNull means the key exists but an explicit null was stored.
	PresentNull
	// Present means the key exists with a materialized value.
	Present
)

// Value is the result of a Get/GetAll call: a three-state result carrying the
// decoded value only when State is Present.
type Value struct {
	state State
	val   any
}

// AbsentValue is the canonical "key does not exist" result.
func AbsentValue() Value { return Value{state: Absent} }

// NullValue is the canonical "key exists, value is explicitly null" result.
func NullValue() Value { return Value{state: PresentNull} }

// PresentValue wraps a materialized value as a Present result.
func PresentValue(v any) Value { return Value{state: Present, val: v} }

func (v Value) State() State     { return v.state }
func (v Value) IsAbsent() bool   { return v.state == Absent }
func (v Value) IsNull() bool     { return v.state == PresentNull }
func (v Value) IsPresent() bool  { return v.state == Present }

// Raw returns the underlying decoded value and whether the result was Present.
func (v Value) Raw() (any, bool) { return v.val, v.state == Present }

// As type-asserts a Present value to T. Absent and PresentNull values return
// (zero, false, nil); a Present value of another type returns an
// errkind.TypeMismatch error. It is a generic helper, not a contract method (Go interfaces can't carry their own
// type parameters), mirroring how the spec's get<T> is generic per-call.
func As[T any](v Value) (T, bool, error) {
	var zero T
	switch v.state {
	case Absent:
		return zero, false, nil
	case PresentNull:
		return zero, false, nil
	default:
		t, ok := v.val.(T)
		if !ok {
			return zero, false, errkind.Newf(errkind.TypeMismatch, "cachekit: stored value is %T, not %T", v.val, zero)
		}
		return t, true, nil
	}
}
