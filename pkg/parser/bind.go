package parser

import (
	"strings"

	"github.com/conneroisu/nixast/internal/ast"
	"github.com/conneroisu/nixast/internal/token"
	"github.com/conneroisu/nixast/pkg/cursor"
	"github.com/conneroisu/nixast/pkg/diag"
	"github.com/conneroisu/nixast/pkg/partial"
)

// collectLeadingComments merges a run of consecutive comment tokens into a
// single doc-comment block: a sequence of whitespace-separated line
// comments is one doc comment, not several.
func collectLeadingComments(input cursor.Tokens) (cursor.Tokens, string, ast.Span, bool) {
	if input.Current().Kind != token.COMMENT {
		return input, "", ast.Span{}, false
	}
	first := input.Current()
	last := first
	var texts []string
	rest := input
	for rest.Current().Kind == token.COMMENT {
		last = rest.Current()
		texts = append(texts, last.Literal)
		rest = rest.Advance(1)
	}
	return rest, strings.Join(texts, "\n"), ast.Merge(first.Span, last.Span), true
}

// parseBindList parses the bindings of a set, rec set, legacy let set, or
// letIn, stopping at isTerm (checked past any trailing comments, which are
// then consumed without producing a spurious diagnostic).
func parseBindList(input cursor.Tokens, isTerm func(cursor.Tokens) bool) (cursor.Tokens, partial.Partial[[]ast.Bind]) {
	term := func(t cursor.Tokens) bool { return isTerm(skipComments(t)) }
	rest, binds, _ := partial.ManyTillPartial(parseBind, term)(input)
	rest = skipComments(rest)
	return rest, binds
}

func parseBind(input cursor.Tokens) (cursor.Tokens, partial.Partial[ast.Bind], bool) {
	rest, comment, _, _ := collectLeadingComments(input)
	if rest.Current().Kind == token.INHERIT {
		return parseInherit(input, rest)
	}
	return parseSimpleBind(input, rest, comment)
}

func parseInherit(start, rest cursor.Tokens) (cursor.Tokens, partial.Partial[ast.Bind], bool) {
	rest = skipComments(rest.Advance(1)) // past `inherit`

	var fromExpr partial.Partial[ast.Expr]
	hasFrom := false
	if rest.Current().Kind == token.LPAREN {
		openTok := rest.Current()
		afterParen := rest.Advance(1)
		next, e := requireOperand(parseExpr, afterParen)
		next, closeErrs, hasClose := expectCloseDelim(openTok, afterParen, next, token.RPAREN)
		if !hasClose {
			e = e.ExtendErrors(closeErrs)
		}
		rest = next
		fromExpr = e
		hasFrom = true
	}

	var names []*ast.Ident
	for {
		rest = skipComments(rest)
		if rest.Current().Kind != token.IDENT {
			break
		}
		tok := rest.Current()
		names = append(names, ast.NewIdent(tok.Literal, tok.Span))
		rest = rest.Advance(1)
	}

	var errs diag.Errors
	if len(names) == 0 {
		errs.Push(diag.UnexpectedToken(rest.Current().Description(), rest.Current().Span))
	}
	rest, hasSemi := matchKind(token.SEMI)(rest)
	if !hasSemi {
		errs.Extend(retagSynchronizationError(expectedErrors(rest, "`;`"), "to terminate this inherit"))
	}

	span := cursor.SpanBetween(start, rest)
	if hasFrom {
		result := partial.Map(fromExpr, func(e ast.Expr) ast.Bind {
			return ast.Bind(ast.NewInheritExprBind(e, names, span))
		})
		return rest, result.ExtendErrors(errs), true
	}
	node := ast.Bind(ast.NewInheritBind(names, span))
	return rest, partial.WithErrors(node, true, errs), true
}

// bindLabel renders a best-effort display name for a binding's attribute
// path, used only to give a synchronization diagnostic somewhere to point
// besides a bare "expected `;`".
func bindLabel(path partial.Partial[ast.AttrPath]) string {
	p, ok := path.Value()
	if !ok {
		return "?"
	}
	parts := make([]string, len(p.Segments))
	for i, seg := range p.Segments {
		if seg.Ident != nil {
			parts[i] = seg.Ident.Name
		} else {
			parts[i] = "${...}"
		}
	}
	return strings.Join(parts, ".")
}

func parseSimpleBind(start, rest cursor.Tokens, comment string) (cursor.Tokens, partial.Partial[ast.Bind], bool) {
	next, path, ok := parseAttrPath(rest)
	if !ok {
		return start, partial.Partial[ast.Bind]{}, false
	}
	next, hasEq := matchKind(token.EQ)(next)
	if !hasEq {
		path = path.ExtendErrors(expectedErrors(next, "`=`"))
	}
	final, value := requireOperand(parseExpr, next)
	final, hasSemi := matchKind(token.SEMI)(final)
	if !hasSemi {
		value = value.ExtendErrors(retagSynchronizationError(expectedErrors(final, "`;`"), "to terminate binding `"+bindLabel(path)+"`"))
	}
	span := cursor.SpanBetween(start, final)
	result := partial.Combine2(path, value, func(p ast.AttrPath, v ast.Expr) ast.Bind {
		return ast.Bind(ast.NewSimpleBind(comment, p, v, span))
	})
	return final, result, true
}
