package parser

import (
	"github.com/conneroisu/nixast/internal/ast"
	"github.com/conneroisu/nixast/internal/token"
	"github.com/conneroisu/nixast/pkg/cursor"
	"github.com/conneroisu/nixast/pkg/diag"
	"github.com/conneroisu/nixast/pkg/partial"
)

// matchKind consumes the current token if it has the given kind, looking
// past any comment trivia in front of it. On a non-match nothing is
// consumed, comments included, so a doc comment ahead of the next binding
// stays available to whoever collects it.
func matchKind(kind token.Kind) partial.Matcher {
	return func(t cursor.Tokens) (cursor.Tokens, bool) {
		probe := skipComments(t)
		if probe.Current().Kind == kind {
			return probe.Advance(1), true
		}
		return t, false
	}
}

// isCloseDelimKind reports whether k is closing punctuation. Closers are
// part of every construct's follow set: recovery loops stop at them and
// parseErrorExpr refuses them, so the delimiter check that owns them can
// produce an incorrect- or unclosed-delimiter diagnostic instead of a
// generic unexpected-token one.
func isCloseDelimKind(k token.Kind) bool {
	switch k {
	case token.RPAREN, token.RBRACE, token.RBRACKET:
		return true
	}
	return false
}

func isCloseDelim(t cursor.Tokens) bool { return isCloseDelimKind(t.Current().Kind) }

// parseErrorExpr is the bottom-of-the-stack fallback: it hard-fails (ok
// == false, no tokens consumed) at Eof and at closing delimiters — both
// belong to an enclosing construct's terminator handling, which has
// better diagnostics for them; everywhere else it consumes exactly one
// token and reports it as unexpected, never looping forever on a bad
// token.
func parseErrorExpr(input cursor.Tokens) (cursor.Tokens, partial.Partial[ast.Expr], bool) {
	cur := input.Current()
	if cur.IsEOF() || isCloseDelimKind(cur.Kind) {
		return input, partial.Partial[ast.Expr]{}, false
	}
	var errs diag.Errors
	errs.Push(diag.UnexpectedToken(cur.Description(), cur.Span))
	node := ast.Expr(ast.NewErrorExpr(cur.Span))
	return input.Advance(1), partial.WithErrors(node, true, errs), true
}

// requireOperand runs lower; if lower does not apply at all (including
// at Eof), it is not treated as backtracking past the operator that was
// already consumed to get here — instead an ast.ErrorExpr placeholder is
// synthesized at the current position, so a dangling operator like
// "1 + " still folds into Binary(Add, 1, Error) instead of silently
// dropping the "+".
func requireOperand(lower partial.ParseFunc[ast.Expr], at cursor.Tokens) (cursor.Tokens, partial.Partial[ast.Expr]) {
	rest, p, ok := lower(at)
	if ok {
		return rest, p
	}
	cur := at.Current()
	var errs diag.Errors
	errs.Push(diag.UnexpectedToken(cur.Description(), cur.Span))
	return at, partial.WithErrors[ast.Expr](ast.NewErrorExpr(cur.Span), true, errs)
}

var delimChars = map[token.Kind]byte{
	token.LPAREN: '(', token.RPAREN: ')',
	token.LBRACE: '{', token.RBRACE: '}',
	token.LBRACKET: '[', token.RBRACKET: ']',
	token.DOLLAR_LBRACE: '{',
}

var openerFor = map[token.Kind]token.Kind{
	token.RPAREN:   token.LPAREN,
	token.RBRACE:   token.LBRACE,
	token.RBRACKET: token.LBRACKET,
}

// matchesOpener reports whether open is an opener that closer closes;
// `}` closes both `{` and `${`.
func matchesOpener(closer, open token.Kind) bool {
	want := openerFor[closer]
	return open == want || (want == token.LBRACE && open == token.DOLLAR_LBRACE)
}

// findCandidateOpener scans the tokens between a construct's opening
// delimiter and a mismatched closer for the most recent unmatched opener
// the closer could legitimately close, used as the incorrect-delimiter
// diagnostic's candidate label. Returns nil when every opener in the
// range was properly closed.
func findCandidateOpener(inside, until cursor.Tokens, closer token.Kind) *ast.Span {
	var stack []token.Token
	for t := inside; t.Len() > until.Len(); t = t.Advance(1) {
		cur := t.Current()
		switch cur.Kind {
		case token.LPAREN, token.LBRACKET, token.LBRACE, token.DOLLAR_LBRACE:
			stack = append(stack, cur)
		case token.RPAREN, token.RBRACKET, token.RBRACE:
			if n := len(stack); n > 0 && matchesOpener(cur.Kind, stack[n-1].Kind) {
				stack = stack[:n-1]
			}
		}
	}
	for i := len(stack) - 1; i >= 0; i-- {
		if matchesOpener(closer, stack[i].Kind) {
			sp := stack[i].Span
			return &sp
		}
	}
	return nil
}

// expectCloseDelim consumes the close delimiter want if it is present
// (past any comment trivia). When a different close delimiter sits there
// instead, the incorrect-delimiter diagnostic names the offender, points
// at the still-unclosed opener, and, when the construct's body holds an
// unmatched opener the offender could close, labels that as the likely
// intended match; the offending token is left unconsumed so an enclosing
// construct can still claim it as its own terminator. At Eof the opener
// is reported unclosed. Any other token gets the plain
// expected-terminator diagnostic.
func expectCloseDelim(openTok token.Token, inside, at cursor.Tokens, want token.Kind) (cursor.Tokens, diag.Errors, bool) {
	probe := skipComments(at)
	cur := probe.Current()
	if cur.Kind == want {
		return probe.Advance(1), diag.Errors{}, true
	}
	var errs diag.Errors
	if cur.IsEOF() {
		errs.Push(diag.UnclosedDelimiter(delimChars[openTok.Kind], openTok.Span))
		return at, errs, false
	}
	if isCloseDelimKind(cur.Kind) {
		openSpan := openTok.Span
		candidate := findCandidateOpener(inside, probe, cur.Kind)
		errs.Push(diag.IncorrectDelimiter(delimChars[cur.Kind], cur.Span, candidate, &openSpan))
		return at, errs, false
	}
	return at, expectedErrors(probe, "`"+string(delimChars[want])+"`"), false
}

// expectedErrors builds the diagnostic for a missing required terminator
// (keyword, delimiter, punctuation) at the current position.
func expectedErrors(at cursor.Tokens, label string) diag.Errors {
	var errs diag.Errors
	errs.Push(diag.Diagnostic{
		Severity: diag.Error,
		Message:  "expected " + label,
		Primary:  diag.Label{Span: at.Current().Span, Message: "expected " + label + " here"},
	})
	return errs
}

// retagSynchronizationError runs a recovery-point diagnostic builder
// through partial.MapErr, appending context to its message so a missing
// terminator reads as e.g. "expected `;` to terminate binding `foo`"
// rather than a bare "expected `;`" with no indication of what it was
// terminating.
func retagSynchronizationError(errs diag.Errors, context string) diag.Errors {
	tagged := partial.MapErr(partial.WithErrors(struct{}{}, true, errs), func(errs diag.Errors) diag.Errors {
		var out diag.Errors
		for _, d := range errs.All() {
			d.Message += " " + context
			out.Push(d)
		}
		return out
	})
	return tagged.Errors()
}

// leftAssocChain builds a left-associative binary-operator level: lower
// (op lower)*, folding left to right.
func leftAssocChain(lower partial.ParseFunc[ast.Expr], alts map[token.Kind]ast.BinaryOp) partial.ParseFunc[ast.Expr] {
	return func(input cursor.Tokens) (cursor.Tokens, partial.Partial[ast.Expr], bool) {
		rest, lhs, ok := lower(input)
		if !ok {
			return input, partial.Partial[ast.Expr]{}, false
		}
		for {
			probe := skipComments(rest)
			op, matched := alts[probe.Current().Kind]
			if !matched {
				break
			}
			afterOp := probe.Advance(1)
			next, rhs := requireOperand(lower, afterOp)
			lhs = partial.Combine2(lhs, rhs, func(l, r ast.Expr) ast.Expr {
				return ast.NewBinary(op, l, r, ast.Merge(l.Span(), r.Span()))
			})
			rest = next
		}
		return rest, lhs, true
	}
}

// nonAssocBinary builds a level with at most one operator application:
// lower (op lower)?.
func nonAssocBinary(lower partial.ParseFunc[ast.Expr], alts map[token.Kind]ast.BinaryOp) partial.ParseFunc[ast.Expr] {
	return func(input cursor.Tokens) (cursor.Tokens, partial.Partial[ast.Expr], bool) {
		rest, lhs, ok := lower(input)
		if !ok {
			return input, partial.Partial[ast.Expr]{}, false
		}
		probe := skipComments(rest)
		op, matched := alts[probe.Current().Kind]
		if !matched {
			return rest, lhs, true
		}
		afterOp := probe.Advance(1)
		next, rhs := requireOperand(lower, afterOp)
		result := partial.Combine2(lhs, rhs, func(l, r ast.Expr) ast.Expr {
			return ast.NewBinary(op, l, r, ast.Merge(l.Span(), r.Span()))
		})
		return next, result, true
	}
}

// rightAssocChain builds a right-associative binary-operator level:
// lower (sep lower)*, folding right to left so that a sep b sep c parses
// as Binary(op, a, Binary(op, b, c)).
func rightAssocChain(lower partial.ParseFunc[ast.Expr], sep token.Kind, op ast.BinaryOp) partial.ParseFunc[ast.Expr] {
	return func(input cursor.Tokens) (cursor.Tokens, partial.Partial[ast.Expr], bool) {
		rest, first, ok := lower(input)
		if !ok {
			return input, partial.Partial[ast.Expr]{}, false
		}
		items := []partial.Partial[ast.Expr]{first}
		for {
			probe := skipComments(rest)
			if probe.Current().Kind != sep {
				break
			}
			afterSep := probe.Advance(1)
			next, item := requireOperand(lower, afterSep)
			items = append(items, item)
			rest = next
		}
		if len(items) == 1 {
			return rest, items[0], true
		}
		folded := partial.Map(partial.CollectSlice(items), func(exprs []ast.Expr) ast.Expr {
			last := exprs[len(exprs)-1]
			for i := len(exprs) - 2; i >= 0; i-- {
				lhs := exprs[i]
				last = ast.NewBinary(op, lhs, last, ast.Merge(lhs.Span(), last.Span()))
			}
			return last
		})
		return rest, folded, true
	}
}
