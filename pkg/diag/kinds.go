package diag

import (
	"fmt"

	"github.com/conneroisu/nixast/internal/ast"
)

// UnexpectedToken reports a token that could not be used to continue the
// current parse. description is the human-readable noun phrase produced
// by token.Token.Description.
func UnexpectedToken(description string, span ast.Span) Diagnostic {
	return Diagnostic{
		Severity: Error,
		Message:  fmt.Sprintf("unexpected token: %s", description),
		Primary:  Label{Span: span, Message: "found unexpected token here"},
	}
}

// IncorrectDelimiter reports a closing delimiter that does not match the
// innermost open delimiter. candidate, if non-nil, is the span of a
// different open delimiter the closer plausibly closes instead; unclosed,
// if non-nil, is the span of the open delimiter that is actually left
// unclosed by this token.
func IncorrectDelimiter(delim byte, span ast.Span, candidate, unclosed *ast.Span) Diagnostic {
	d := Diagnostic{
		Severity: Error,
		Message:  fmt.Sprintf("incorrect close delimiter: `%c`", delim),
		Primary:  Label{Span: span, Message: "incorrect close delimiter"},
	}
	if candidate != nil {
		d.Secondary = append(d.Secondary, Label{Span: *candidate, Message: "close delimiter possibly meant for this"})
	}
	if unclosed != nil {
		d.Secondary = append(d.Secondary, Label{Span: *unclosed, Message: "unmatched delimiter"})
	}
	return d
}

// UnclosedDelimiter reports an open delimiter with no matching closer
// before end of input.
func UnclosedDelimiter(delim byte, span ast.Span) Diagnostic {
	return Diagnostic{
		Severity: Error,
		Message:  fmt.Sprintf("unclosed delimiter: `%c`", delim),
		Primary:  Label{Span: span, Message: "unclosed delimiter"},
	}
}

// UnknownLexeme reports a byte sequence the lexer could not classify as
// any known token.
func UnknownLexeme(lexeme string, span ast.Span) Diagnostic {
	return Diagnostic{
		Severity: Error,
		Message:  fmt.Sprintf("unknown lexeme: %q", lexeme),
		Primary:  Label{Span: span, Message: "not a recognized token"},
	}
}

// InvalidNumericLiteral reports a numeric literal the lexer recognized the
// shape of but could not convert (overflow, malformed exponent, etc).
func InvalidNumericLiteral(lexeme string, reason string, span ast.Span) Diagnostic {
	return Diagnostic{
		Severity: Error,
		Message:  fmt.Sprintf("invalid numeric literal %q: %s", lexeme, reason),
		Primary:  Label{Span: span, Message: "invalid numeric literal"},
	}
}
