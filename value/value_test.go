package value

import (
	"errors"
	"testing"
)

func TestAsMatchesConcreteType(t *testing.T) {
	v := Of(42)
	got, ok := As[int](v)
	if !ok || got != 42 {
		t.Fatalf("As[int] = %v, %v; want 42, true", got, ok)
	}
}

func TestAsRejectsMismatch(t *testing.T) {
	v := Of(42)
	_, ok := As[string](v)
	if ok {
		t.Fatalf("As[string] on an int Value should fail")
	}
}

func TestDowncastAbsent(t *testing.T) {
	_, err := Downcast[int](None[Value]())
	if !errors.Is(err, ErrAbsent) {
		t.Fatalf("Downcast on None = %v; want ErrAbsent", err)
	}
}

func TestDowncastMismatch(t *testing.T) {
	_, err := Downcast[string](Some(Of(42)))
	if !errors.Is(err, ErrMismatch) {
		t.Fatalf("Downcast mismatch = %v; want ErrMismatch", err)
	}
}

func TestDowncastSuccess(t *testing.T) {
	got, err := Downcast[int](Some(Of(7)))
	if err != nil || got != 7 {
		t.Fatalf("Downcast = %v, %v; want 7, nil", got, err)
	}
}

func TestOptionSomeNone(t *testing.T) {
	s := Some(3)
	if v, ok := s.Get(); !ok || v != 3 {
		t.Fatalf("Some(3).Get() = %v, %v", v, ok)
	}
	n := None[int]()
	if _, ok := n.Get(); ok {
		t.Fatalf("None().Get() reported present")
	}
	if !s.IsSome() || s.IsNone() {
		t.Fatalf("Some should report IsSome")
	}
	if !n.IsNone() || n.IsSome() {
		t.Fatalf("None should report IsNone")
	}
}
