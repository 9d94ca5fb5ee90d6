// Package ast defines the syntax tree produced by pkg/parser: every node
// carries a Span, and the tree is built even over malformed input.
package ast

import "fmt"

// Span is a half-open byte range [Start, End) into the source text that
// produced it. A zero Span ({0, 0}) is distinguishable from a real span
// only by context; nodes synthesized without source backing should not
// occur outside of tests.
type Span struct {
	Start int
	End   int
}

// NewSpan builds a Span, swapping the bounds if they arrived reversed.
func NewSpan(start, end int) Span {
	if end < start {
		start, end = end, start
	}
	return Span{Start: start, End: end}
}

// Merge returns the smallest span covering both a and b.
func Merge(a, b Span) Span {
	start := a.Start
	if b.Start < start {
		start = b.Start
	}
	end := a.End
	if b.End > end {
		end = b.End
	}
	return Span{Start: start, End: end}
}

// Len reports the number of bytes covered by the span.
func (s Span) Len() int {
	return s.End - s.Start
}

func (s Span) String() string {
	return fmt.Sprintf("%d..%d", s.Start, s.End)
}

// Spanned is implemented by every AST node.
type Spanned interface {
	Span() Span
}
