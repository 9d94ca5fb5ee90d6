// Package partial implements the recovery monad every combinator in
// pkg/parser is built on: a value that may be present, absent, or present
// alongside diagnostics describing what went wrong while producing it.
package partial

import "github.com/conneroisu/nixast/pkg/diag"

// Partial[T] carries an optional value plus the diagnostics accumulated
// while trying to produce it. Unlike a plain (T, error) pair, a Partial
// can hold both a usable value and errors at once — the central trick
// that lets a parse keep going after something goes wrong.
type Partial[T any] struct {
	value   T
	present bool
	errors  diag.Errors
}

// Of wraps a value with no errors.
func Of[T any](value T) Partial[T] {
	return Partial[T]{value: value, present: true}
}

// WithErrors builds a Partial from an optional value and a set of
// diagnostics. Passing present=false models a case where nothing could be
// produced at all.
func WithErrors[T any](value T, present bool, errors diag.Errors) Partial[T] {
	return Partial[T]{value: value, present: present, errors: errors}
}

// FromOption builds a Partial from a possibly-nil pointer, with no errors.
func FromOption[T any](value *T) Partial[T] {
	if value == nil {
		return Partial[T]{}
	}
	return Partial[T]{value: *value, present: true}
}

// Failure builds a valueless Partial carrying only diagnostics.
func Failure[T any](errors diag.Errors) Partial[T] {
	return Partial[T]{errors: errors}
}

// HasErrors reports whether any diagnostic has been accumulated.
func (p Partial[T]) HasErrors() bool { return p.errors.Len() > 0 }

// Errors returns the accumulated diagnostics.
func (p Partial[T]) Errors() diag.Errors { return p.errors }

// Value returns the carried value, if any, and whether it is present.
func (p Partial[T]) Value() (T, bool) { return p.value, p.present }

// ExtendErrors returns a Partial with other's diagnostics appended after
// this one's, keeping the same value.
func (p Partial[T]) ExtendErrors(other diag.Errors) Partial[T] {
	errs := p.errors
	errs.Extend(other)
	return Partial[T]{value: p.value, present: p.present, errors: errs}
}

// Verify succeeds only when a value is present and no diagnostics were
// accumulated; otherwise it reports the accumulated diagnostics as they
// are, which is an empty collection when the value is missing and nothing
// was recorded.
func Verify[T any](p Partial[T]) (T, diag.Errors, bool) {
	if p.present && !p.HasErrors() {
		return p.value, diag.Errors{}, true
	}
	return p.value, p.errors, false
}

// Map transforms a present value, leaving errors and absence untouched.
func Map[T, U any](p Partial[T], f func(T) U) Partial[U] {
	if !p.present {
		return Partial[U]{errors: p.errors}
	}
	return Partial[U]{value: f(p.value), present: true, errors: p.errors}
}

// FlatMap chains a value-producing step that may itself fail. Errors from
// both p and the step are accumulated, p's errors first.
func FlatMap[T, U any](p Partial[T], f func(T) Partial[U]) Partial[U] {
	if !p.present {
		return Partial[U]{errors: p.errors}
	}
	next := f(p.value)
	errs := p.errors
	errs.Extend(next.errors)
	return Partial[U]{value: next.value, present: next.present, errors: errs}
}

// MapErr transforms the accumulated diagnostics, leaving the value alone.
func MapErr[T any](p Partial[T], f func(diag.Errors) diag.Errors) Partial[T] {
	return Partial[T]{value: p.value, present: p.present, errors: f(p.errors)}
}

// Combine2 merges two Partials into one built by f, only when both sides
// have a value present; diagnostics from both are kept regardless, a's
// first. This is the workhorse behind every binary-operator fold in
// pkg/parser.
func Combine2[A, B, R any](a Partial[A], b Partial[B], f func(A, B) R) Partial[R] {
	errs := a.errors
	errs.Extend(b.errors)
	if !a.present || !b.present {
		return Partial[R]{errors: errs}
	}
	return Partial[R]{value: f(a.value, b.value), present: true, errors: errs}
}

// Combine3 is Combine2 for three sides at once, a's errors first, then
// b's, then c's.
func Combine3[A, B, C, R any](a Partial[A], b Partial[B], c Partial[C], f func(A, B, C) R) Partial[R] {
	errs := a.errors
	errs.Extend(b.errors)
	errs.Extend(c.errors)
	if !a.present || !b.present || !c.present {
		return Partial[R]{errors: errs}
	}
	return Partial[R]{value: f(a.value, b.value, c.value), present: true, errors: errs}
}

// CollectSlice merges a slice of Partial[T] into a single Partial[[]T]:
// present iff every element was present, with every element's diagnostics
// concatenated in order.
func CollectSlice[T any](parts []Partial[T]) Partial[[]T] {
	out := make([]T, 0, len(parts))
	var errs diag.Errors
	present := true
	for _, p := range parts {
		errs.Extend(p.errors)
		if !p.present {
			present = false
			continue
		}
		out = append(out, p.value)
	}
	return Partial[[]T]{value: out, present: present, errors: errs}
}
