package parser

import (
	"github.com/conneroisu/nixast/internal/ast"
	"github.com/conneroisu/nixast/internal/token"
	"github.com/conneroisu/nixast/pkg/cursor"
	"github.com/conneroisu/nixast/pkg/partial"
)

// parseExpr is the entry point every statement body, binding value, and
// lambda body is parsed at. A run of leading comments is skipped first,
// since a comment can precede any sub-expression, not only a binding
// (those attach their own leading comment separately, in bind.go).
func parseExpr(input cursor.Tokens) (cursor.Tokens, partial.Partial[ast.Expr], bool) {
	return parseFunction(skipComments(input))
}

func skipComments(t cursor.Tokens) cursor.Tokens {
	for t.Current().Kind == token.COMMENT {
		t = t.Advance(1)
	}
	return t
}

// parseFunction tries each statement/lambda head in turn, falling back to
// the if/else and then the binary-operator chain.
func parseFunction(input cursor.Tokens) (cursor.Tokens, partial.Partial[ast.Expr], bool) {
	if rest, p, ok := parseFnDecl(input); ok {
		return rest, p, true
	}
	if rest, p, ok := parseWith(input); ok {
		return rest, p, true
	}
	if rest, p, ok := parseAssert(input); ok {
		return rest, p, true
	}
	if rest, p, ok := parseLetIn(input); ok {
		return rest, p, true
	}
	return parseIfElse(input)
}

func parseIfElse(input cursor.Tokens) (cursor.Tokens, partial.Partial[ast.Expr], bool) {
	if input.Current().Kind != token.IF {
		return parseImply(input)
	}
	rest := input.Advance(1)

	rest, cond := parseExprOrAt(rest, token.THEN)
	rest, hasThen := matchKind(token.THEN)(rest)
	if !hasThen {
		cond = cond.ExtendErrors(expectedErrors(rest, "keyword `then`"))
	}

	rest, body := parseExprOrAt(rest, token.ELSE)
	rest, hasElse := matchKind(token.ELSE)(rest)
	if !hasElse {
		body = body.ExtendErrors(expectedErrors(rest, "keyword `else`"))
	}

	next, fallback := requireOperand(parseExpr, rest)

	span := cursor.SpanBetween(input, next)
	result := partial.Combine3(cond, body, fallback, func(c, b, f ast.Expr) ast.Expr {
		return ast.NewIf(c, b, f, span)
	})
	return next, result, true
}

// parseExprOrAt parses a sub-expression, except when the very next token
// is already the expected terminator — in that case the clause was left
// empty, and an ast.ErrorExpr is synthesized in its place without
// consuming the terminator, so the caller's terminator check still sees
// it.
func parseExprOrAt(input cursor.Tokens, term token.Kind) (cursor.Tokens, partial.Partial[ast.Expr]) {
	if input.Current().Kind == term {
		cur := input.Current()
		return input, partial.WithErrors[ast.Expr](ast.NewErrorExpr(cur.Span), true, expectedErrors(input, cur.Description()))
	}
	return requireOperand(parseExpr, input)
}

func parseImply(input cursor.Tokens) (cursor.Tokens, partial.Partial[ast.Expr], bool) {
	return leftAssocChain(parseOr, map[token.Kind]ast.BinaryOp{
		token.IMPLY: ast.OpImpl,
	})(input)
}

func parseOr(input cursor.Tokens) (cursor.Tokens, partial.Partial[ast.Expr], bool) {
	return leftAssocChain(parseAnd, map[token.Kind]ast.BinaryOp{
		token.OR_OR: ast.OpOr,
	})(input)
}

func parseAnd(input cursor.Tokens) (cursor.Tokens, partial.Partial[ast.Expr], bool) {
	return leftAssocChain(parseEquality, map[token.Kind]ast.BinaryOp{
		token.AND_AND: ast.OpAnd,
	})(input)
}

func parseEquality(input cursor.Tokens) (cursor.Tokens, partial.Partial[ast.Expr], bool) {
	return nonAssocBinary(parseCompare, map[token.Kind]ast.BinaryOp{
		token.EQ_EQ:  ast.OpEq,
		token.NOT_EQ: ast.OpNotEq,
	})(input)
}

func parseCompare(input cursor.Tokens) (cursor.Tokens, partial.Partial[ast.Expr], bool) {
	return nonAssocBinary(parseHasAttr, map[token.Kind]ast.BinaryOp{
		token.LT_EQ: ast.OpLessThanEq,
		token.LT:    ast.OpLessThan,
		token.GT_EQ: ast.OpGreaterThanEq,
		token.GT:    ast.OpGreaterThan,
	})(input)
}

// parseHasAttr handles `e ? attr.path`. The right-hand side is parsed at
// the next-tighter level, which reads a dotted path as a projection over
// its first segment; the operator does not chain.
func parseHasAttr(input cursor.Tokens) (cursor.Tokens, partial.Partial[ast.Expr], bool) {
	return nonAssocBinary(parseUpdate, map[token.Kind]ast.BinaryOp{
		token.QUESTION: ast.OpHasAttr,
	})(input)
}

func parseUpdate(input cursor.Tokens) (cursor.Tokens, partial.Partial[ast.Expr], bool) {
	return rightAssocChain(parseSum, token.UPDATE, ast.OpUpdate)(input)
}

func parseSum(input cursor.Tokens) (cursor.Tokens, partial.Partial[ast.Expr], bool) {
	return leftAssocChain(parseProduct, map[token.Kind]ast.BinaryOp{
		token.ADD: ast.OpAdd,
		token.SUB: ast.OpSub,
	})(input)
}

func parseProduct(input cursor.Tokens) (cursor.Tokens, partial.Partial[ast.Expr], bool) {
	return leftAssocChain(parseConcat, map[token.Kind]ast.BinaryOp{
		token.MUL: ast.OpMul,
		token.DIV: ast.OpDiv,
	})(input)
}

func parseConcat(input cursor.Tokens) (cursor.Tokens, partial.Partial[ast.Expr], bool) {
	return rightAssocChain(parseUnary, token.CONCAT, ast.OpConcat)(input)
}

// parseUnary handles an optional `-`/`!` prefix. The operand of a prefix
// is parsed at this same level, so prefixes chain left to right: `--x`
// is Neg(Neg(x)) and `!-x` is Not(Neg(x)). A prefix that turns out to
// have nothing valid after it still produces Unary(op, Error) rather
// than backtracking the prefix away; with no prefix at all, a position
// nothing else applies to falls through to parseErrorExpr, the single
// one-token-consuming recovery step for this whole precedence stack.
func parseUnary(input cursor.Tokens) (cursor.Tokens, partial.Partial[ast.Expr], bool) {
	in := skipComments(input)
	var op ast.UnaryOp
	switch in.Current().Kind {
	case token.SUB:
		op = ast.OpNeg
	case token.NOT:
		op = ast.OpNot
	default:
		next, operand, ok := parseApply(in)
		if !ok {
			return parseErrorExpr(in)
		}
		return next, operand, true
	}

	rest := in.Advance(1)
	next, operand := requireOperand(parseUnary, rest)
	span := cursor.SpanBetween(in, next)
	result := partial.Map(operand, func(e ast.Expr) ast.Expr { return ast.NewUnary(op, e, span) })
	return next, result, true
}

// parseApply resolves a trailing `or fallback`: it attaches to a bare
// projection's own Fallback slot, or otherwise wraps the whole
// expression in an Or node; an orphan `or` is kept, not rejected, so a
// downstream validator can decide what to make of it.
func parseApply(input cursor.Tokens) (cursor.Tokens, partial.Partial[ast.Expr], bool) {
	in := skipComments(input)
	rest, base, ok := parseFnApp(in)
	if !ok {
		return input, partial.Partial[ast.Expr]{}, false
	}
	probe := skipComments(rest)
	if probe.Current().Kind != token.OR {
		return rest, base, true
	}
	afterOr := probe.Advance(1)
	next, fallback := requireOperand(parseApply, afterOr)
	span := cursor.SpanBetween(in, next)
	result := partial.Combine2(base, fallback, func(b, f ast.Expr) ast.Expr {
		if proj, isProj := b.(*ast.Proj); isProj && proj.Fallback == nil {
			return ast.NewProj(proj.Base, proj.Attr, f, span)
		}
		return ast.NewOr(b, f, span)
	})
	return next, result, true
}

// startsNewBinding reports whether t is positioned at a bare `ident =`,
// the shape a binding's attribute name takes. No valid expression
// continues with a bare `=` immediately after an identifier, so a
// dangling value that would otherwise swallow this identifier as a
// function argument stops here instead, letting the bind list recover
// into the next binding rather than one bind with a bogus application.
func startsNewBinding(t cursor.Tokens) bool {
	return t.Current().Kind == token.IDENT && t.Peek(1).Kind == token.EQ
}

func parseFnApp(input cursor.Tokens) (cursor.Tokens, partial.Partial[ast.Expr], bool) {
	rest, result, ok := parseProject(input)
	if !ok {
		return input, partial.Partial[ast.Expr]{}, false
	}
	for {
		if startsNewBinding(skipComments(rest)) {
			break
		}
		next, arg, argOK := parseProject(rest)
		if !argOK {
			break
		}
		result = partial.Combine2(result, arg, func(f, a ast.Expr) ast.Expr {
			return ast.NewFnApp(f, a, ast.Merge(f.Span(), a.Span()))
		})
		rest = next
	}
	return rest, result, true
}

func parseProject(input cursor.Tokens) (cursor.Tokens, partial.Partial[ast.Expr], bool) {
	in := skipComments(input)
	rest, base, ok := parseAtomic(in)
	if !ok {
		return input, partial.Partial[ast.Expr]{}, false
	}
	probe := skipComments(rest)
	if probe.Current().Kind != token.DOT {
		return rest, base, true
	}
	verified := partial.VerifyFull(parseAttrPath)
	next, path, pathOK := verified(probe.Advance(1))
	if !pathOK {
		return rest, base, true
	}
	attrPath, _ := path.Value()
	span := cursor.SpanBetween(in, next)
	result := partial.Map(base, func(b ast.Expr) ast.Expr {
		return ast.NewProj(b, attrPath, nil, span)
	})
	return next, result, true
}
