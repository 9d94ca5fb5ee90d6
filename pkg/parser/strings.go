package parser

import (
	"github.com/conneroisu/nixast/internal/ast"
	"github.com/conneroisu/nixast/internal/token"
	"github.com/conneroisu/nixast/pkg/cursor"
	"github.com/conneroisu/nixast/pkg/diag"
	"github.com/conneroisu/nixast/pkg/lexer"
	"github.com/conneroisu/nixast/pkg/partial"
)

// buildString splits a STRING token's raw, undecoded literal into
// fragments, recursively lexing and parsing each `${...}` body at its
// true offset in the original source. This is where the lexer/parser
// split of string-interpolation responsibility (pkg/lexer emits one
// opaque token per string; pkg/parser does the fragment work) actually
// happens.
func buildString(input cursor.Tokens) (cursor.Tokens, partial.Partial[*ast.String], bool) {
	tok := input.Current()
	if tok.Kind != token.STRING {
		return input, partial.Partial[*ast.String]{}, false
	}
	quoteLen := 1
	if tok.Indented {
		quoteLen = 2
	}
	base := tok.Span.Start + quoteLen
	fragments, errs := splitStringFragments(tok.Literal, base, tok.Indented)
	node := ast.NewString(fragments, tok.Indented, tok.Span)
	return input.Advance(1), partial.WithErrors(node, true, errs), true
}

// parseStandaloneInterpolation handles a `${...}` that appears outside of
// a string literal (a dynamic attribute name, or one segment of an
// attribute path). Unlike the string case, the tokens inside it were
// already lexed normally by the enclosing pass, so no recursive re-lex
// is needed here.
func parseStandaloneInterpolation(input cursor.Tokens) (cursor.Tokens, partial.Partial[*ast.Interpolation], bool) {
	if input.Current().Kind != token.DOLLAR_LBRACE {
		return input, partial.Partial[*ast.Interpolation]{}, false
	}
	openTok := input.Current()
	rest := input.Advance(1)
	next, inner, ok := parseExpr(rest)
	if !ok {
		next, inner = requireOperand(parseExpr, rest)
	}
	next, closeErrs, hasClose := expectCloseDelim(openTok, rest, next, token.RBRACE)
	if !hasClose {
		inner = inner.ExtendErrors(closeErrs)
	}
	span := cursor.SpanBetween(input, next)
	result := partial.Map(inner, func(e ast.Expr) *ast.Interpolation {
		return ast.NewInterpolation(e, span)
	})
	return next, result, true
}

// parseInterpolationBody re-lexes and parses the raw text between a
// string's `${` and its matching `}`, with every span shifted so it
// lands at its true position in the original source.
func parseInterpolationBody(raw string, base int) (ast.Expr, diag.Errors) {
	toks, lexErrs := lexer.LexAt(raw, base)
	cur := cursor.New(toks)
	var errs diag.Errors
	errs.Extend(lexErrs)

	_, result, ok := parseExpr(cur)
	if !ok {
		errs.Push(diag.UnexpectedToken(cur.Current().Description(), cur.Current().Span))
		return ast.NewErrorExpr(ast.NewSpan(base, base+len(raw))), errs
	}
	val, present := result.Value()
	errs.Extend(result.Errors())
	if !present {
		return ast.NewErrorExpr(ast.NewSpan(base, base+len(raw))), errs
	}
	return val, errs
}

// scanInterpolationEnd finds the index just past the `}` matching the
// `${` whose body begins at start, mirroring the lexer's balance
// tracking: a `{`/`}` that sits inside a nested double-quoted string is
// inert and never moves the depth. Returns closed == false (and
// len(raw)) when no matching `}` exists.
func scanInterpolationEnd(raw string, start int) (end int, closed bool) {
	depth := 1
	j := start
	for j < len(raw) {
		switch raw[j] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return j + 1, true
			}
		case '"':
			j = skipNestedString(raw, j+1)
			continue
		}
		j++
	}
	return len(raw), false
}

// skipNestedString advances past a double-quoted string whose opening
// quote has already been consumed, honoring backslash escapes and
// recursing through any interpolation it contains. Returns the index
// just past the closing quote, or len(raw) if the string never closes.
func skipNestedString(raw string, j int) int {
	for j < len(raw) {
		switch {
		case raw[j] == '"':
			return j + 1
		case raw[j] == '\\' && j+1 < len(raw):
			j += 2
		case raw[j] == '$' && j+1 < len(raw) && raw[j+1] == '{':
			j, _ = scanInterpolationEnd(raw, j+2)
		default:
			j++
		}
	}
	return j
}

func decodeEscape(c byte) []byte {
	switch c {
	case 'n':
		return []byte{'\n'}
	case 'r':
		return []byte{'\r'}
	case 't':
		return []byte{'\t'}
	case '\\':
		return []byte{'\\'}
	case '"':
		return []byte{'"'}
	case '$':
		return []byte{'$'}
	default:
		return []byte{c}
	}
}

// splitStringFragments walks raw (a string token's undecoded inner
// text), decoding escapes, splitting off `${...}` interpolations, and
// merging adjacent literal runs into a single fragment each.
func splitStringFragments(raw string, base int, indented bool) ([]ast.StringFragment, diag.Errors) {
	var frags []ast.StringFragment
	var errs diag.Errors
	var buf []byte
	bufStart := base
	i := 0

	flush := func(end int) {
		if len(buf) == 0 {
			return
		}
		frags = append(frags, ast.LiteralFragment(string(buf), ast.NewSpan(bufStart, end)))
		buf = buf[:0]
	}

	for i < len(raw) {
		c := raw[i]
		pos := base + i

		if c == '$' && i+1 < len(raw) && raw[i+1] == '{' {
			flush(pos)
			end, closed := scanInterpolationEnd(raw, i+2)
			inner := raw[i+2:]
			if closed {
				inner = raw[i+2 : end-1]
			}
			expr, innerErrs := parseInterpolationBody(inner, base+i+2)
			errs.Extend(innerErrs)
			frags = append(frags, ast.InterpFragment(ast.NewInterpolation(expr, ast.NewSpan(pos, base+end))))
			i = end
			bufStart = base + i
			continue
		}

		if !indented && c == '\\' && i+1 < len(raw) {
			buf = append(buf, decodeEscape(raw[i+1])...)
			i += 2
			continue
		}

		if indented && c == '\'' && i+2 < len(raw) && raw[i+1] == '\'' {
			switch raw[i+2] {
			case '$':
				buf = append(buf, '$')
				i += 3
				continue
			case '\'':
				buf = append(buf, '\'', '\'')
				i += 3
				continue
			case '\\':
				if i+3 < len(raw) {
					buf = append(buf, decodeEscape(raw[i+3])...)
					i += 4
					continue
				}
				i += 3
				continue
			}
		}

		buf = append(buf, c)
		i++
	}
	flush(base + len(raw))
	return frags, errs
}
