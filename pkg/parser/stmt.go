package parser

import (
	"github.com/conneroisu/nixast/internal/ast"
	"github.com/conneroisu/nixast/internal/token"
	"github.com/conneroisu/nixast/pkg/cursor"
	"github.com/conneroisu/nixast/pkg/partial"
)

func parseWith(input cursor.Tokens) (cursor.Tokens, partial.Partial[ast.Expr], bool) {
	if input.Current().Kind != token.WITH {
		return input, partial.Partial[ast.Expr]{}, false
	}
	rest := input.Advance(1)
	rest, env := requireOperand(parseExpr, rest)
	rest, hasSemi := matchKind(token.SEMI)(rest)
	if !hasSemi {
		env = env.ExtendErrors(expectedErrors(rest, "`;`"))
	}
	next, body := requireOperand(parseExpr, rest)
	span := cursor.SpanBetween(input, next)
	result := partial.Combine2(env, body, func(e, b ast.Expr) ast.Expr {
		return ast.Expr(ast.NewWith(e, b, span))
	})
	return next, result, true
}

func parseAssert(input cursor.Tokens) (cursor.Tokens, partial.Partial[ast.Expr], bool) {
	if input.Current().Kind != token.ASSERT {
		return input, partial.Partial[ast.Expr]{}, false
	}
	rest := input.Advance(1)
	rest, cond := requireOperand(parseExpr, rest)
	rest, hasSemi := matchKind(token.SEMI)(rest)
	if !hasSemi {
		cond = cond.ExtendErrors(expectedErrors(rest, "`;`"))
	}
	next, body := requireOperand(parseExpr, rest)
	span := cursor.SpanBetween(input, next)
	result := partial.Combine2(cond, body, func(c, b ast.Expr) ast.Expr {
		return ast.Expr(ast.NewAssert(c, b, span))
	})
	return next, result, true
}

// parseLetIn handles `let binds... in body`. The legacy `let { binds }`
// form (no body, no `in`) is left to atomic.go's parseLet, disambiguated
// here by a single-token lookahead.
func parseLetIn(input cursor.Tokens) (cursor.Tokens, partial.Partial[ast.Expr], bool) {
	if input.Current().Kind != token.LET {
		return input, partial.Partial[ast.Expr]{}, false
	}
	if skipComments(input.Advance(1)).Current().Kind == token.LBRACE {
		return input, partial.Partial[ast.Expr]{}, false
	}
	rest := input.Advance(1)
	isIn := func(t cursor.Tokens) bool { return t.Current().Kind == token.IN }
	rest, binds := parseBindList(rest, isIn)
	rest, hasIn := matchKind(token.IN)(rest)
	if !hasIn {
		binds = binds.ExtendErrors(expectedErrors(rest, "keyword `in`"))
	}
	next, body := requireOperand(parseExpr, rest)
	span := cursor.SpanBetween(input, next)
	result := partial.Combine2(binds, body, func(bs []ast.Bind, b ast.Expr) ast.Expr {
		return ast.Expr(ast.NewLetIn(bs, b, span))
	})
	return next, result, true
}
