package partial

import (
	"github.com/conneroisu/nixast/internal/ast"
	"github.com/conneroisu/nixast/pkg/cursor"
	"github.com/conneroisu/nixast/pkg/diag"
)

// ParseFunc is the shape every combinator in this package (and every
// grammar production in pkg/parser) is built from: given a cursor
// position, it either does not apply at all (ok == false, cursor
// untouched — the caller should try an alternative) or applies and
// returns the advanced cursor and whatever it managed to build, errors
// and all.
type ParseFunc[T any] func(cursor.Tokens) (cursor.Tokens, Partial[T], bool)

// Matcher consumes a single fixed token (a keyword, an operator, a
// delimiter) if it is present, without building a value.
type Matcher func(cursor.Tokens) (cursor.Tokens, bool)

// Pair bundles two combinator results, standing in for the tuples Rust
// gets for free.
type Pair[A, B any] struct {
	First  A
	Second B
}

func unexpected[T any](at cursor.Tokens) Partial[T] {
	var errs diag.Errors
	errs.Push(diag.UnexpectedToken(at.Current().Description(), at.Current().Span))
	return Partial[T]{errors: errs}
}

// ExpectTerminated runs f, then tries to consume term. If term is missing,
// f's value is kept anyway and a diagnostic naming the missing terminator
// is appended — the input is not consumed further, so parsing can
// continue from right where the terminator should have been.
func ExpectTerminated[T any](f ParseFunc[T], term Matcher, label string) ParseFunc[T] {
	return func(input cursor.Tokens) (cursor.Tokens, Partial[T], bool) {
		rest, p, ok := f(input)
		if !ok {
			return input, p, false
		}
		if after, matched := term(rest); matched {
			return after, p, true
		}
		var errs diag.Errors
		errs.Push(diag.Diagnostic{
			Severity: diag.Error,
			Message:  "expected " + label,
			Primary:  diag.Label{Span: rest.Current().Span, Message: "expected " + label + " here"},
		})
		return rest, p.ExtendErrors(errs), true
	}
}

// PairPartial sequences two combinators, merging their diagnostics in
// order; the combined value is present only if both sides produced one.
func PairPartial[A, B any](first ParseFunc[A], second ParseFunc[B]) ParseFunc[Pair[A, B]] {
	return func(input cursor.Tokens) (cursor.Tokens, Partial[Pair[A, B]], bool) {
		rest1, p1, ok1 := first(input)
		if !ok1 {
			return input, Partial[Pair[A, B]]{}, false
		}
		rest2, p2, ok2 := second(rest1)
		if !ok2 {
			return input, Partial[Pair[A, B]]{errors: p1.Errors()}, false
		}
		av, aPresent := p1.Value()
		bv, bPresent := p2.Value()
		errs := p1.Errors()
		errs.Extend(p2.Errors())
		return rest2, Partial[Pair[A, B]]{
			value:   Pair[A, B]{First: av, Second: bv},
			present: aPresent && bPresent,
			errors:  errs,
		}, true
	}
}

// MapPartialSpanned runs f, then builds a U from the span of tokens f
// consumed plus f's value.
func MapPartialSpanned[T, U any](f ParseFunc[T], build func(ast.Span, T) U) ParseFunc[U] {
	return func(input cursor.Tokens) (cursor.Tokens, Partial[U], bool) {
		rest, p, ok := f(input)
		if !ok {
			return input, Partial[U]{}, false
		}
		span := cursor.SpanBetween(input, rest)
		return rest, Map(p, func(v T) U { return build(span, v) }), true
	}
}

// VerifyFull requires f to produce a value with no diagnostics at all; any
// other outcome is treated as "does not apply here" (ok == false, no
// tokens consumed), letting a caller fall back to another alternative or
// surface its own diagnostic.
func VerifyFull[T any](f ParseFunc[T]) ParseFunc[T] {
	return func(input cursor.Tokens) (cursor.Tokens, Partial[T], bool) {
		rest, p, ok := f(input)
		if !ok {
			return input, p, false
		}
		if _, _, valid := Verify(p); !valid {
			return input, Partial[T]{errors: p.Errors()}, false
		}
		return rest, p, true
	}
}

// ManyTillPartial repeatedly applies f until termCheck reports that the
// terminator has been reached (termCheck peeks, it never consumes). A
// position where f does not apply is recorded as an unexpected-token
// diagnostic and skipped one token at a time so that one bad token never
// stalls or aborts the whole list: elements that produced no value are left
// out, and the list itself is always present.
func ManyTillPartial[T any](f ParseFunc[T], termCheck func(cursor.Tokens) bool) ParseFunc[[]T] {
	return func(input cursor.Tokens) (cursor.Tokens, Partial[[]T], bool) {
		rest := input
		var items []Partial[T]
		for !rest.AtEOF() && !termCheck(rest) {
			next, p, ok := f(rest)
			if !ok {
				items = append(items, unexpected[T](rest))
				rest = rest.Advance(1)
				continue
			}
			items = append(items, p)
			if next.Len() == rest.Len() {
				// f matched but consumed nothing: force progress.
				rest = rest.Advance(1)
				continue
			}
			rest = next
		}
		return rest, collectPresent(items), true
	}
}

// collectPresent merges list elements like CollectSlice, except that an
// absent element is dropped instead of making the whole list absent; every
// element's diagnostics are still kept, in order.
func collectPresent[T any](parts []Partial[T]) Partial[[]T] {
	out := make([]T, 0, len(parts))
	var errs diag.Errors
	for _, p := range parts {
		errs.Extend(p.errors)
		if p.present {
			out = append(out, p.value)
		}
	}
	return Partial[[]T]{value: out, present: true, errors: errs}
}

// SeparatedListPartial parses a required first element with f, then
// repeatedly expects sep followed by another f until termCheck reports
// the terminator. A missing separator or a bad element is recorded as a
// diagnostic and skipped one token at a time, same recovery policy as
// ManyTillPartial.
func SeparatedListPartial[T any](f ParseFunc[T], sep Matcher, termCheck func(cursor.Tokens) bool) ParseFunc[[]T] {
	return func(input cursor.Tokens) (cursor.Tokens, Partial[[]T], bool) {
		rest, first, ok := f(input)
		if !ok {
			return input, Partial[[]T]{}, false
		}
		items := []Partial[T]{first}
		for !rest.AtEOF() && !termCheck(rest) {
			afterSep, matched := sep(rest)
			if !matched {
				items = append(items, unexpected[T](rest))
				rest = rest.Advance(1)
				continue
			}
			next, p, ok := f(afterSep)
			if !ok {
				items = append(items, unexpected[T](afterSep))
				rest = afterSep.Advance(1)
				continue
			}
			items = append(items, p)
			rest = next
		}
		return rest, collectPresent(items), true
	}
}
