package parser

import (
	"github.com/conneroisu/nixast/internal/ast"
	"github.com/conneroisu/nixast/internal/token"
	"github.com/conneroisu/nixast/pkg/cursor"
	"github.com/conneroisu/nixast/pkg/partial"
)

// parseAttrSegment parses one `.`-separated component of an attribute
// path: a bare identifier, a string literal, or a `${...}` interpolation.
func parseAttrSegment(input cursor.Tokens) (cursor.Tokens, partial.Partial[ast.AttrSegment], bool) {
	switch input.Current().Kind {
	case token.IDENT:
		tok := input.Current()
		ident := ast.NewIdent(tok.Literal, tok.Span)
		seg := ast.AttrSegment{Ident: ident, Span: tok.Span}
		return input.Advance(1), partial.Of(seg), true

	case token.STRING:
		rest, str, ok := buildString(input)
		if !ok {
			return input, partial.Partial[ast.AttrSegment]{}, false
		}
		return rest, partial.Map(str, func(s *ast.String) ast.AttrSegment {
			return ast.AttrSegment{Str: s, Span: s.Span()}
		}), true

	case token.DOLLAR_LBRACE:
		rest, interp, ok := parseStandaloneInterpolation(input)
		if !ok {
			return input, partial.Partial[ast.AttrSegment]{}, false
		}
		return rest, partial.Map(interp, func(i *ast.Interpolation) ast.AttrSegment {
			return ast.AttrSegment{Interp: i, Span: i.Span()}
		}), true
	}
	return input, partial.Partial[ast.AttrSegment]{}, false
}

// parseAttrPath parses a required first segment, then zero or more
// `.segment` continuations.
func parseAttrPath(input cursor.Tokens) (cursor.Tokens, partial.Partial[ast.AttrPath], bool) {
	rest, first, ok := parseAttrSegment(skipComments(input))
	if !ok {
		return input, partial.Partial[ast.AttrPath]{}, false
	}
	segs := []partial.Partial[ast.AttrSegment]{first}
	for {
		probe := skipComments(rest)
		if probe.Current().Kind != token.DOT {
			break
		}
		afterDot := skipComments(probe.Advance(1))
		next, seg, segOK := parseAttrSegment(afterDot)
		if !segOK {
			break
		}
		segs = append(segs, seg)
		rest = next
	}
	result := partial.Map(partial.CollectSlice(segs), func(segments []ast.AttrSegment) ast.AttrPath {
		return ast.NewAttrPath(segments)
	})
	return rest, result, true
}
