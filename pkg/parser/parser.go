package parser

import (
	"github.com/conneroisu/nixast/internal/ast"
	"github.com/conneroisu/nixast/pkg/cursor"
	"github.com/conneroisu/nixast/pkg/diag"
	"github.com/conneroisu/nixast/pkg/lexer"
)

// sortBySpan reorders errs by primary-span start offset. Lexer and parser
// diagnostics are accumulated in two separate passes that do not interleave
// by source position on their own, so every public entry point sorts
// before returning.
func sortBySpan(errs diag.Errors) diag.Errors {
	sorted := errs.Sorted()
	out := diag.NewErrors()
	for _, d := range sorted {
		out.Push(d)
	}
	return out
}

// ParseExpression is the best-effort entry point: it always returns
// whatever AST could be built, paired with every diagnostic accumulated
// along the way. A nil Expr means nothing could be built at all (e.g.
// empty input).
func ParseExpression(text string) (ast.Expr, diag.Errors) {
	toks, lexErrs := lexer.Lex(text)
	cur := cursor.New(toks)
	var errs diag.Errors
	errs.Extend(lexErrs)

	rest, result, ok := parseExpr(cur)
	if !ok {
		errs.Push(diag.UnexpectedToken(rest.Current().Description(), rest.Current().Span))
		return nil, sortBySpan(errs)
	}
	val, present := result.Value()
	errs.Extend(result.Errors())
	if !present {
		return nil, sortBySpan(errs)
	}
	errs = appendTrailingGarbage(errs, rest)
	return val, sortBySpan(errs)
}

// ParseExpressionStrict succeeds only when ParseExpression produced no
// diagnostics at all; diag.Errors implements error, so a non-nil second
// return value is usable directly as a Go error.
func ParseExpressionStrict(text string) (ast.Expr, error) {
	expr, errs := ParseExpression(text)
	if errs.Len() > 0 {
		return nil, errs
	}
	return expr, nil
}

// ParseSourceFile parses a whole document: an optional leading doc comment
// followed by its single top-level expression.
func ParseSourceFile(text string) (*ast.SourceFile, diag.Errors) {
	toks, lexErrs := lexer.Lex(text)
	cur := cursor.New(toks)
	var errs diag.Errors
	errs.Extend(lexErrs)

	rest, commentText, commentSpan, hasComment := collectLeadingComments(cur)
	var comment *ast.Comment
	if hasComment {
		c := ast.NewComment(commentText, commentSpan)
		comment = &c
	}

	next, result, ok := parseExpr(rest)
	if !ok {
		errs.Push(diag.UnexpectedToken(next.Current().Description(), next.Current().Span))
		return nil, sortBySpan(errs)
	}
	val, present := result.Value()
	errs.Extend(result.Errors())
	if !present {
		return nil, sortBySpan(errs)
	}
	errs = appendTrailingGarbage(errs, next)
	return ast.NewSourceFile(comment, val), sortBySpan(errs)
}

// appendTrailingGarbage flags any non-comment tokens left over after the
// top-level expression has been fully parsed.
func appendTrailingGarbage(errs diag.Errors, rest cursor.Tokens) diag.Errors {
	rest = skipComments(rest)
	if rest.AtEOF() {
		return errs
	}
	errs.Push(diag.UnexpectedToken(rest.Current().Description(), rest.Current().Span))
	return errs
}
