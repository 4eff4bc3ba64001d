package value

import (
	"errors"
	"reflect"
)

// ErrMismatch is returned by Downcast when the stored concrete type does not
// match the requested type.
var ErrMismatch = errors.New("value: stored type does not match requested type")

// ErrAbsent is returned by Downcast when the Option carried no value at all.
var ErrAbsent = errors.New("value: no value present")

// Value is a type-erased, owned payload with runtime downcasting. It is the
// TypeId-keyed Any-style container described for implementations where the
// set of payload types is not closed in advance: any concrete Go type can be
// stored, and the reflect.Type recorded at construction time is the sole
// authority used to accept or reject a later downcast.
//
// A Value is moved by ownership across channel boundaries (sessions,
// task queue, executor) and only borrowed for the duration of an action
// call; it is never mutated in place and never shared between concurrently
// running actions.
type Value struct {
	typ reflect.Type
	raw any
}

// Of wraps v in a Value. Of(nil) returns the zero Value.
func Of(v any) Value {
	if v == nil {
		return Value{}
	}
	return Value{typ: reflect.TypeOf(v), raw: v}
}

// Type reports the concrete type the Value was constructed with, or nil for
// the zero Value.
func (v Value) Type() reflect.Type { return v.typ }

// IsZero reports whether v was constructed from a nil interface.
func (v Value) IsZero() bool { return v.typ == nil }

// As attempts to downcast v to T. It reports false, not an error, so that
// call sites that only need a presence check can skip the error allocation.
func As[T any](v Value) (T, bool) {
	var zero T
	if v.typ == nil {
		return zero, false
	}
	t, ok := v.raw.(T)
	return t, ok
}

// Downcast borrows the value carried by an Option[Value] as a T, failing with
// ErrAbsent if the option is None and ErrMismatch if the stored concrete type
// does not match T. This is the presence+downcast contract actions use to
// read their in-edge arguments.
func Downcast[T any](o Option[Value]) (T, error) {
	var zero T
	v, ok := o.Get()
	if !ok {
		return zero, ErrAbsent
	}
	t, ok := As[T](v)
	if !ok {
		return zero, ErrMismatch
	}
	return t, nil
}
