package parser

import (
	"strconv"

	"github.com/conneroisu/nixast/internal/ast"
	"github.com/conneroisu/nixast/internal/token"
	"github.com/conneroisu/nixast/pkg/cursor"
	"github.com/conneroisu/nixast/pkg/diag"
	"github.com/conneroisu/nixast/pkg/partial"
)

// parseAtomic is the bottom of the precedence stack: identifiers,
// literals, parenthesized expressions, lists, strings, interpolations, and
// the three set-producing forms (plain, rec, legacy let).
func parseAtomic(input cursor.Tokens) (cursor.Tokens, partial.Partial[ast.Expr], bool) {
	cur := input.Current()
	switch cur.Kind {
	case token.IDENT:
		return input.Advance(1), partial.Of[ast.Expr](ast.NewIdent(cur.Literal, cur.Span)), true

	case token.LPAREN:
		return parseParen(input)

	case token.LBRACE:
		return parseSet(input)

	case token.LBRACKET:
		return parseList(input)

	case token.STRING:
		rest, str, ok := buildString(input)
		if !ok {
			return input, partial.Partial[ast.Expr]{}, false
		}
		return rest, partial.Map(str, func(s *ast.String) ast.Expr { return ast.Expr(s) }), true

	case token.DOLLAR_LBRACE:
		rest, interp, ok := parseStandaloneInterpolation(input)
		if !ok {
			return input, partial.Partial[ast.Expr]{}, false
		}
		return rest, partial.Map(interp, func(i *ast.Interpolation) ast.Expr { return ast.Expr(i) }), true

	case token.REC:
		return parseRec(input)

	case token.LET:
		return parseLet(input)

	case token.NULL_KW:
		return input.Advance(1), partial.Of[ast.Expr](ast.NewNull(cur.Span)), true

	case token.TRUE_KW:
		return input.Advance(1), partial.Of[ast.Expr](ast.NewBool(true, cur.Span)), true

	case token.FALSE_KW:
		return input.Advance(1), partial.Of[ast.Expr](ast.NewBool(false, cur.Span)), true

	case token.INT:
		return parseIntLiteral(input)

	case token.FLOAT:
		return parseFloatLiteral(input)

	case token.PATH:
		return input.Advance(1), partial.Of[ast.Expr](ast.NewPath(cur.Literal, false, cur.Span)), true

	case token.PATH_TEMPLATE:
		return input.Advance(1), partial.Of[ast.Expr](ast.NewPath(cur.Literal, true, cur.Span)), true

	case token.URI:
		return input.Advance(1), partial.Of[ast.Expr](ast.NewUri(cur.Literal, cur.Span)), true
	}
	return input, partial.Partial[ast.Expr]{}, false
}

func parseIntLiteral(input cursor.Tokens) (cursor.Tokens, partial.Partial[ast.Expr], bool) {
	cur := input.Current()
	v, err := strconv.ParseInt(cur.Literal, 10, 64)
	if err != nil {
		var errs diag.Errors
		errs.Push(diag.InvalidNumericLiteral(cur.Literal, err.Error(), cur.Span))
		return input.Advance(1), partial.WithErrors[ast.Expr](ast.NewErrorExpr(cur.Span), true, errs), true
	}
	return input.Advance(1), partial.Of[ast.Expr](ast.NewInt(v, cur.Span)), true
}

func parseFloatLiteral(input cursor.Tokens) (cursor.Tokens, partial.Partial[ast.Expr], bool) {
	cur := input.Current()
	v, err := strconv.ParseFloat(cur.Literal, 64)
	if err != nil {
		var errs diag.Errors
		errs.Push(diag.InvalidNumericLiteral(cur.Literal, err.Error(), cur.Span))
		return input.Advance(1), partial.WithErrors[ast.Expr](ast.NewErrorExpr(cur.Span), true, errs), true
	}
	return input.Advance(1), partial.Of[ast.Expr](ast.NewFloat(v, cur.Span)), true
}

func parseParen(input cursor.Tokens) (cursor.Tokens, partial.Partial[ast.Expr], bool) {
	openTok := input.Current()
	inside := input.Advance(1)
	rest, inner := requireOperand(parseExpr, inside)
	rest, closeErrs, hasClose := expectCloseDelim(openTok, inside, rest, token.RPAREN)
	if !hasClose {
		inner = inner.ExtendErrors(closeErrs)
	}
	span := cursor.SpanBetween(input, rest)
	result := partial.Map(inner, func(e ast.Expr) ast.Expr { return ast.Expr(ast.NewParen(e, span)) })
	return rest, result, true
}

func parseSet(input cursor.Tokens) (cursor.Tokens, partial.Partial[ast.Expr], bool) {
	openTok := input.Current()
	inside := input.Advance(1)
	rest, binds := parseBindList(inside, isCloseDelim)
	rest, closeErrs, hasClose := expectCloseDelim(openTok, inside, rest, token.RBRACE)
	if !hasClose {
		binds = binds.ExtendErrors(closeErrs)
	}
	span := cursor.SpanBetween(input, rest)
	result := partial.Map(binds, func(bs []ast.Bind) ast.Expr { return ast.Expr(ast.NewSet(bs, span)) })
	return rest, result, true
}

func parseRec(input cursor.Tokens) (cursor.Tokens, partial.Partial[ast.Expr], bool) {
	afterRec := skipComments(input.Advance(1))
	if afterRec.Current().Kind != token.LBRACE {
		var errs diag.Errors
		errs.Push(diag.UnexpectedToken(afterRec.Current().Description(), afterRec.Current().Span))
		return afterRec, partial.WithErrors[ast.Expr](ast.NewErrorExpr(afterRec.Current().Span), true, errs), true
	}
	openTok := afterRec.Current()
	inside := afterRec.Advance(1)
	rest, binds := parseBindList(inside, isCloseDelim)
	rest, closeErrs, hasClose := expectCloseDelim(openTok, inside, rest, token.RBRACE)
	if !hasClose {
		binds = binds.ExtendErrors(closeErrs)
	}
	span := cursor.SpanBetween(input, rest)
	result := partial.Map(binds, func(bs []ast.Bind) ast.Expr { return ast.Expr(ast.NewRec(bs, span)) })
	return rest, result, true
}

// parseLet handles the legacy `let { binds }` set-producing form. Called
// only from atomic dispatch, after parseLetIn has already declined a `let`
// not immediately followed by `{`.
func parseLet(input cursor.Tokens) (cursor.Tokens, partial.Partial[ast.Expr], bool) {
	afterLet := skipComments(input.Advance(1))
	if afterLet.Current().Kind != token.LBRACE {
		return input, partial.Partial[ast.Expr]{}, false
	}
	openTok := afterLet.Current()
	inside := afterLet.Advance(1)
	rest, binds := parseBindList(inside, isCloseDelim)
	rest, closeErrs, hasClose := expectCloseDelim(openTok, inside, rest, token.RBRACE)
	if !hasClose {
		binds = binds.ExtendErrors(closeErrs)
	}
	span := cursor.SpanBetween(input, rest)
	result := partial.Map(binds, func(bs []ast.Bind) ast.Expr { return ast.Expr(ast.NewLet(bs, span)) })
	return rest, result, true
}

func parseList(input cursor.Tokens) (cursor.Tokens, partial.Partial[ast.Expr], bool) {
	openTok := input.Current()
	inside := input.Advance(1)
	rest, elems := parseListElems(inside)
	rest, closeErrs, hasClose := expectCloseDelim(openTok, inside, rest, token.RBRACKET)
	if !hasClose {
		elems = elems.ExtendErrors(closeErrs)
	}
	span := cursor.SpanBetween(input, rest)
	result := partial.Map(elems, func(es []ast.Expr) ast.Expr { return ast.Expr(ast.NewList(es, span)) })
	return rest, result, true
}

// parseListElems parses list elements at the projection level: atomic plus
// attribute selection, but neither unary prefixes nor juxtaposed function
// application, both of which require parens inside a list.
func parseListElems(input cursor.Tokens) (cursor.Tokens, partial.Partial[[]ast.Expr]) {
	elem := func(t cursor.Tokens) (cursor.Tokens, partial.Partial[ast.Expr], bool) {
		return parseProject(skipComments(t))
	}
	isEnd := func(t cursor.Tokens) bool { return isCloseDelim(skipComments(t)) }
	rest, items, _ := partial.ManyTillPartial(elem, isEnd)(input)
	rest = skipComments(rest)
	return rest, items
}
