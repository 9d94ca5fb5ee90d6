// Package cursor provides a zero-copy view over a scanned token slice, the
// input type every parser combinator in pkg/parser and pkg/partial reads
// from and advances over.
package cursor

import (
	"github.com/conneroisu/nixast/internal/ast"
	"github.com/conneroisu/nixast/internal/token"
)

// Tokens is a slice of a larger token array; advancing a Tokens never
// copies the backing array, it only narrows the slice.
type Tokens struct {
	toks []token.Token
}

// New wraps a full token slice (normally ending in an EOF token) as a
// cursor positioned at its first token.
func New(toks []token.Token) Tokens {
	return Tokens{toks: toks}
}

// Len reports how many tokens remain, including the trailing EOF token.
func (t Tokens) Len() int { return len(t.toks) }

// AtEOF reports whether the cursor is positioned at (or past) the EOF
// token.
func (t Tokens) AtEOF() bool {
	return len(t.toks) == 0 || t.toks[0].Kind == token.EOF
}

// Current returns the token at the cursor's position. Past the end of the
// underlying slice it synthesizes an EOF token rather than panicking.
func (t Tokens) Current() token.Token {
	if len(t.toks) == 0 {
		return token.Token{Kind: token.EOF}
	}
	return t.toks[0]
}

// Peek returns the token n positions ahead of Current (Peek(0) == Current).
func (t Tokens) Peek(n int) token.Token {
	if n < 0 || n >= len(t.toks) {
		return token.Token{Kind: token.EOF}
	}
	return t.toks[n]
}

// Advance returns a cursor n tokens further along, clamped at the end of
// the slice (never past a synthetic EOF).
func (t Tokens) Advance(n int) Tokens {
	if n > len(t.toks) {
		n = len(t.toks)
	}
	return Tokens{toks: t.toks[n:]}
}

// Take splits the cursor into its first n tokens and the remainder.
func (t Tokens) Take(n int) (head []token.Token, rest Tokens) {
	if n > len(t.toks) {
		n = len(t.toks)
	}
	return t.toks[:n], Tokens{toks: t.toks[n:]}
}

// ToSpan computes the span covering every token still in the cursor. The
// span consumed between two cursor positions is computed by SpanBetween,
// not by this method.
func (t Tokens) ToSpan() ast.Span {
	if len(t.toks) == 0 {
		return ast.Span{}
	}
	sp := t.toks[0].Span
	for _, tok := range t.toks[1:] {
		sp = ast.Merge(sp, tok.Span)
	}
	return sp
}

// SpanBetween computes the span of tokens consumed going from `before` to
// `after` (after must be a suffix of before, i.e. the result of advancing
// it). Used by map_partial_spanned-style helpers.
func SpanBetween(before, after Tokens) ast.Span {
	consumed := len(before.toks) - len(after.toks)
	if consumed <= 0 {
		// Nothing consumed: fall back to the position of the next token,
		// an empty span at that point.
		pos := before.Current().Span
		return ast.Span{Start: pos.Start, End: pos.Start}
	}
	head := before.toks[:consumed]
	sp := head[0].Span
	for _, tok := range head[1:] {
		sp = ast.Merge(sp, tok.Span)
	}
	return sp
}
