// Package token defines the fixed lexical token set produced by pkg/lexer.
package token

import "github.com/conneroisu/nixast/internal/ast"

// Kind identifies the lexical category of a Token.
type Kind int

const (
	EOF Kind = iota
	ILLEGAL

	COMMENT

	IDENT
	INT
	FLOAT
	PATH
	PATH_TEMPLATE
	URI
	STRING // a whole "..." or ''...'' literal; Literal holds its raw,
	// undecoded inner text (escapes and ${...} left verbatim) for the
	// parser to split into fragments and recursively lex.

	// keywords
	ASSERT
	ELSE
	IF
	IN
	INHERIT
	LET
	NULL_KW
	OR
	REC
	THEN
	TRUE_KW
	FALSE_KW
	WITH

	// operators
	ADD
	SUB
	MUL
	DIV
	EQ_EQ
	NOT_EQ
	LT
	LT_EQ
	GT
	GT_EQ
	AND_AND
	OR_OR
	CONCAT
	UPDATE
	QUESTION
	IMPLY
	NOT

	// punctuation
	AT
	COLON
	COMMA
	DOT
	ELLIPSIS
	EQ
	LBRACE
	RBRACE
	LBRACKET
	RBRACKET
	LPAREN
	RPAREN
	SEMI
	DOLLAR_LBRACE // `${`, opening a standalone interpolation outside a string
)

var names = map[Kind]string{
	EOF: "end of file", ILLEGAL: "illegal token",
	COMMENT: "comment",
	IDENT:   "identifier", INT: "integer", FLOAT: "float",
	PATH: "path", PATH_TEMPLATE: "path template", URI: "uri",
	STRING: "string",
	ASSERT: "keyword `assert`", ELSE: "keyword `else`", IF: "keyword `if`",
	IN: "keyword `in`", INHERIT: "keyword `inherit`", LET: "keyword `let`",
	NULL_KW: "keyword `null`", OR: "keyword `or`", REC: "keyword `rec`",
	THEN: "keyword `then`", TRUE_KW: "keyword `true`", FALSE_KW: "keyword `false`",
	WITH: "keyword `with`",
	ADD:  "operator `+`", SUB: "operator `-`", MUL: "operator `*`", DIV: "operator `/`",
	EQ_EQ: "operator `==`", NOT_EQ: "operator `!=`",
	LT: "operator `<`", LT_EQ: "operator `<=`", GT: "operator `>`", GT_EQ: "operator `>=`",
	AND_AND: "operator `&&`", OR_OR: "operator `||`",
	CONCAT: "operator `++`", UPDATE: "operator `//`",
	QUESTION: "operator `?`", IMPLY: "operator `->`", NOT: "operator `!`",
	AT: "`@`", COLON: "`:`", COMMA: "`,`", DOT: "`.`", ELLIPSIS: "`...`",
	EQ: "`=`", LBRACE: "`{`", RBRACE: "`}`", LBRACKET: "`[`", RBRACKET: "`]`",
	LPAREN: "`(`", RPAREN: "`)`", SEMI: "`;`",
	DOLLAR_LBRACE: "`${`",
}

// String renders the bare kind name, used in debug output.
func (k Kind) String() string {
	if s, ok := names[k]; ok {
		return s
	}
	return "unknown"
}

// Keywords maps reserved words to their keyword Kind.
var Keywords = map[string]Kind{
	"assert": ASSERT, "else": ELSE, "if": IF, "in": IN, "inherit": INHERIT,
	"let": LET, "null": NULL_KW, "or": OR, "rec": REC, "then": THEN,
	"true": TRUE_KW, "false": FALSE_KW, "with": WITH,
}

// LookupIdent classifies an identifier-shaped lexeme as a keyword Kind, or
// returns IDENT if it is not reserved.
func LookupIdent(s string) Kind {
	if kind, ok := Keywords[s]; ok {
		return kind
	}
	return IDENT
}

// Token is one lexical token: its kind, the literal text it was scanned
// from, and its source span.
type Token struct {
	Kind    Kind
	Literal string
	Span    ast.Span
	// Indented is set on STRING tokens lexed from the ''...'' form rather
	// than "...".
	Indented bool
}

// Description is a human-readable noun phrase for this token, used when
// formatting diagnostics (e.g. "keyword `then`", "operator `+`").
func (t Token) Description() string {
	if t.Kind == IDENT {
		return "identifier `" + t.Literal + "`"
	}
	return t.Kind.String()
}

func (t Token) IsEOF() bool { return t.Kind == EOF }
