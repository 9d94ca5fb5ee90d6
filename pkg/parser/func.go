package parser

import (
	"github.com/conneroisu/nixast/internal/ast"
	"github.com/conneroisu/nixast/internal/token"
	"github.com/conneroisu/nixast/pkg/cursor"
	"github.com/conneroisu/nixast/pkg/partial"
)

// scanMatchingBrace walks forward from a cursor positioned at `{`, tracking
// nested `{`/`${` depth, and returns the cursor just past the matching `}`.
// It returns ok == false only on Eof; the caller falls back to treating
// the brace as a set literal when the scan runs off the end of input.
func scanMatchingBrace(t cursor.Tokens) (cursor.Tokens, bool) {
	depth := 1
	rest := t.Advance(1)
	for {
		cur := rest.Current()
		if cur.IsEOF() {
			return rest, false
		}
		switch cur.Kind {
		case token.LBRACE, token.DOLLAR_LBRACE:
			depth++
		case token.RBRACE:
			depth--
			if depth == 0 {
				return rest.Advance(1), true
			}
		}
		rest = rest.Advance(1)
	}
}

// lambdaFormalsLookahead decides, with bounded lookahead to the matching
// `}`, whether a `{` starting at input opens a formals lambda rather than a
// plain set literal.
func lambdaFormalsLookahead(input cursor.Tokens) bool {
	if input.Current().Kind != token.LBRACE {
		return false
	}
	after, ok := scanMatchingBrace(input)
	if !ok {
		return false
	}
	after = skipComments(after)
	if after.Current().Kind == token.COLON {
		return true
	}
	return after.Current().Kind == token.AT &&
		after.Peek(1).Kind == token.IDENT &&
		after.Peek(2).Kind == token.COLON
}

// parseFnDecl tries the two lambda forms: `ident:`, and `{formals}:` with
// an optional `@ident` binder before or after the braces.
func parseFnDecl(input cursor.Tokens) (cursor.Tokens, partial.Partial[ast.Expr], bool) {
	cur := input.Current()

	if cur.Kind == token.IDENT && input.Peek(1).Kind == token.COLON {
		name := ast.NewIdent(cur.Literal, cur.Span)
		rest := input.Advance(2)
		next, body := requireOperand(parseExpr, rest)
		span := cursor.SpanBetween(input, next)
		result := partial.Map(body, func(b ast.Expr) ast.Expr {
			return ast.Expr(ast.NewFnDeclSimple(name, b, span))
		})
		return next, result, true
	}

	if cur.Kind == token.IDENT && input.Peek(1).Kind == token.AT && input.Peek(2).Kind == token.LBRACE {
		extra := ast.NewIdent(cur.Literal, cur.Span)
		braceCursor := input.Advance(2)
		if !lambdaFormalsLookahead(braceCursor) {
			return input, partial.Partial[ast.Expr]{}, false
		}
		return parseFormalsLambda(input, extra, braceCursor)
	}

	if cur.Kind == token.LBRACE && lambdaFormalsLookahead(input) {
		return parseFormalsLambda(input, nil, input)
	}

	return input, partial.Partial[ast.Expr]{}, false
}

func parseFormalsLambda(start cursor.Tokens, extraBefore *ast.Ident, braceCursor cursor.Tokens) (cursor.Tokens, partial.Partial[ast.Expr], bool) {
	rest := braceCursor.Advance(1) // past `{`
	rest, formals, ellipsis := parseFormalsBody(rest)
	rest, hasClose := matchKind(token.RBRACE)(rest)
	if !hasClose {
		formals = formals.ExtendErrors(expectedErrors(rest, "`}`"))
	}

	extra := extraBefore
	if probe := skipComments(rest); extra == nil && probe.Current().Kind == token.AT && probe.Peek(1).Kind == token.IDENT {
		tok := probe.Peek(1)
		extra = ast.NewIdent(tok.Literal, tok.Span)
		rest = probe.Advance(2)
	}

	rest, hasColon := matchKind(token.COLON)(rest)
	if !hasColon {
		formals = formals.ExtendErrors(expectedErrors(rest, "`:`"))
	}

	next, body := requireOperand(parseExpr, rest)
	span := cursor.SpanBetween(start, next)
	result := partial.Combine2(formals, body, func(fs []ast.Formal, b ast.Expr) ast.Expr {
		return ast.Expr(ast.NewFnDeclFormals(fs, ellipsis, extra, b, span))
	})
	return next, result, true
}

// parseFormalsBody parses the comma-separated formal list of a `{...}`
// lambda parameter set, positioned just past the opening brace. A trailing
// `...` sets ellipsis and ends the list without itself being a formal.
func parseFormalsBody(input cursor.Tokens) (cursor.Tokens, partial.Partial[[]ast.Formal], bool) {
	rest := input
	var items []partial.Partial[ast.Formal]
	ellipsis := false
	for {
		rest = skipComments(rest)
		cur := rest.Current()
		if cur.Kind == token.RBRACE || cur.IsEOF() {
			break
		}
		if cur.Kind == token.ELLIPSIS {
			ellipsis = true
			rest = rest.Advance(1)
			break
		}
		next, f, ok := parseFormal(rest)
		if !ok {
			items = append(items, unexpectedFormal(rest))
			rest = rest.Advance(1)
		} else {
			items = append(items, f)
			rest = next
		}
		rest = skipComments(rest)
		if rest.Current().Kind == token.COMMA {
			rest = rest.Advance(1)
			continue
		}
		break
	}
	return rest, partial.CollectSlice(items), ellipsis
}

func unexpectedFormal(at cursor.Tokens) partial.Partial[ast.Formal] {
	cur := at.Current()
	return partial.WithErrors(ast.Formal{}, false, expectedErrors(at, cur.Description()))
}

func parseFormal(input cursor.Tokens) (cursor.Tokens, partial.Partial[ast.Formal], bool) {
	if input.Current().Kind != token.IDENT {
		return input, partial.Partial[ast.Formal]{}, false
	}
	tok := input.Current()
	name := ast.NewIdent(tok.Literal, tok.Span)
	rest := input.Advance(1)
	probe := skipComments(rest)
	if probe.Current().Kind != token.QUESTION {
		return rest, partial.Of(ast.Formal{Name: name, Span: tok.Span}), true
	}
	rest = probe.Advance(1)
	next, def := requireOperand(parseExpr, rest)
	span := cursor.SpanBetween(input, next)
	result := partial.Map(def, func(d ast.Expr) ast.Formal {
		return ast.Formal{Name: name, Default: d, Span: span}
	})
	return next, result, true
}
