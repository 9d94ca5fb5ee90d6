// Package lexer turns Nix source text into a token.Token slice, the input
// pkg/parser's cursor is built over. It never fails outright: unrecognized
// input becomes an ILLEGAL token paired with a diagnostic, so a caller
// always gets a complete token stream to recover from.
package lexer

import (
	"github.com/conneroisu/nixast/internal/ast"
	"github.com/conneroisu/nixast/internal/token"
	"github.com/conneroisu/nixast/pkg/diag"
)

// Lexer scans one input string into tokens, byte by byte.
type Lexer struct {
	input        string
	position     int
	readPosition int
	ch           byte

	errors diag.Errors
}

// New primes a Lexer positioned at the first byte of input.
func New(input string) *Lexer {
	l := &Lexer{input: input}
	l.readChar()
	return l
}

// Lex tokenizes the whole input in one pass, including a trailing EOF
// token, and returns any diagnostics accumulated along the way.
func Lex(input string) ([]token.Token, diag.Errors) {
	l := New(input)
	var toks []token.Token
	for {
		tok := l.NextToken()
		toks = append(toks, tok)
		if tok.Kind == token.EOF {
			break
		}
	}
	return toks, l.errors
}

// LexAt tokenizes input exactly like Lex, but shifts every token's and
// diagnostic's span forward by base bytes. pkg/parser uses this to re-lex
// a string's ${...} interpolation bodies so their spans land at their
// true position in the original source, not at offset 0 of the
// substring.
func LexAt(input string, base int) ([]token.Token, diag.Errors) {
	toks, errs := Lex(input)
	shifted := make([]token.Token, len(toks))
	for i, t := range toks {
		t.Span = ast.NewSpan(t.Span.Start+base, t.Span.End+base)
		shifted[i] = t
	}
	var shiftedErrs diag.Errors
	for _, d := range errs.All() {
		shiftedErrs.Push(shiftDiagnostic(d, base))
	}
	return shifted, shiftedErrs
}

func shiftSpan(s ast.Span, base int) ast.Span {
	return ast.NewSpan(s.Start+base, s.End+base)
}

func shiftDiagnostic(d diag.Diagnostic, base int) diag.Diagnostic {
	d.Primary.Span = shiftSpan(d.Primary.Span, base)
	shiftedSecondary := make([]diag.Label, len(d.Secondary))
	for i, lbl := range d.Secondary {
		lbl.Span = shiftSpan(lbl.Span, base)
		shiftedSecondary[i] = lbl
	}
	d.Secondary = shiftedSecondary
	return d
}

func (l *Lexer) readChar() {
	if l.readPosition >= len(l.input) {
		l.ch = 0
	} else {
		l.ch = l.input[l.readPosition]
	}
	l.position = l.readPosition
	l.readPosition++
}

func (l *Lexer) peekChar() byte {
	if l.readPosition >= len(l.input) {
		return 0
	}
	return l.input[l.readPosition]
}

func (l *Lexer) peekAt(offset int) byte {
	idx := l.position + offset
	if idx < 0 || idx >= len(l.input) {
		return 0
	}
	return l.input[idx]
}

func isLetter(ch byte) bool {
	return ch == '_' || (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

func isDigit(ch byte) bool { return ch >= '0' && ch <= '9' }

func isIdentChar(ch byte) bool {
	return isLetter(ch) || isDigit(ch) || ch == '\'' || ch == '-'
}

func isPathSegChar(ch byte) bool {
	return isLetter(ch) || isDigit(ch) || ch == '.' || ch == '_' || ch == '-' || ch == '+'
}

func (l *Lexer) skipWhitespace() {
	for l.ch == ' ' || l.ch == '\t' || l.ch == '\n' || l.ch == '\r' {
		l.readChar()
	}
}

func (l *Lexer) errorf(lexeme string, span ast.Span) {
	l.errors.Push(diag.UnknownLexeme(lexeme, span))
}

// NextToken scans and returns the next token, advancing the lexer past it.
func (l *Lexer) NextToken() token.Token {
	l.skipWhitespace()

	start := l.position

	switch {
	case l.ch == 0:
		return token.Token{Kind: token.EOF, Span: ast.NewSpan(start, start)}

	case l.ch == '#':
		return l.readLineComment(start)

	case l.ch == '/' && l.peekChar() == '*':
		return l.readBlockComment(start)

	case l.ch == '"':
		return l.readDoubleQuotedString(start)

	case l.ch == '\'' && l.peekChar() == '\'':
		return l.readIndentedString(start)

	case l.ch == '~':
		if tok, ok := l.tryReadPath(start); ok {
			return tok
		}
		l.readChar()
		l.errorf("~", ast.NewSpan(start, l.position))
		return token.Token{Kind: token.ILLEGAL, Literal: "~", Span: ast.NewSpan(start, l.position)}

	case l.ch == '.':
		if l.peekChar() == '.' && l.peekAt(2) == '.' {
			l.readChar()
			l.readChar()
			l.readChar()
			return token.Token{Kind: token.ELLIPSIS, Literal: "...", Span: ast.NewSpan(start, l.position)}
		}
		if l.peekChar() == '/' {
			if tok, ok := l.tryReadPath(start); ok {
				return tok
			}
		}
		l.readChar()
		return token.Token{Kind: token.DOT, Literal: ".", Span: ast.NewSpan(start, l.position)}

	case l.ch == '/':
		if l.peekChar() == '/' {
			l.readChar()
			l.readChar()
			return token.Token{Kind: token.UPDATE, Literal: "//", Span: ast.NewSpan(start, l.position)}
		}
		if tok, ok := l.tryReadPath(start); ok {
			return tok
		}
		l.readChar()
		return token.Token{Kind: token.DIV, Literal: "/", Span: ast.NewSpan(start, l.position)}

	case l.ch == '<':
		if l.peekChar() == '=' {
			l.readChar()
			l.readChar()
			return token.Token{Kind: token.LT_EQ, Literal: "<=", Span: ast.NewSpan(start, l.position)}
		}
		if tok, ok := l.tryReadPathTemplate(start); ok {
			return tok
		}
		l.readChar()
		return token.Token{Kind: token.LT, Literal: "<", Span: ast.NewSpan(start, l.position)}

	case l.ch == '$' && l.peekChar() == '{':
		l.readChar()
		l.readChar()
		return token.Token{Kind: token.DOLLAR_LBRACE, Literal: "${", Span: ast.NewSpan(start, l.position)}

	case isDigit(l.ch):
		return l.readNumber(start)

	case isLetter(l.ch):
		if tok, ok := l.tryReadURI(start); ok {
			return tok
		}
		if tok, ok := l.tryReadPath(start); ok {
			return tok
		}
		return l.readIdentifier(start)

	default:
		return l.readOperator(start)
	}
}

func (l *Lexer) readLineComment(start int) token.Token {
	for l.ch != '\n' && l.ch != 0 {
		l.readChar()
	}
	end := l.position
	for end > start && (l.input[end-1] == ' ' || l.input[end-1] == '\t' || l.input[end-1] == '\r') {
		end--
	}
	return token.Token{Kind: token.COMMENT, Literal: l.input[start:end], Span: ast.NewSpan(start, end)}
}

func (l *Lexer) readBlockComment(start int) token.Token {
	l.readChar() // '/'
	l.readChar() // '*'
	for {
		if l.ch == 0 {
			l.errors.Push(diag.UnclosedDelimiter('*', ast.NewSpan(start, start+2)))
			break
		}
		if l.ch == '*' && l.peekChar() == '/' {
			l.readChar()
			l.readChar()
			break
		}
		l.readChar()
	}
	return token.Token{Kind: token.COMMENT, Literal: l.input[start:l.position], Span: ast.NewSpan(start, l.position)}
}

func (l *Lexer) readIdentifier(start int) token.Token {
	for isIdentChar(l.ch) {
		l.readChar()
	}
	lit := l.input[start:l.position]
	kind := token.LookupIdent(lit)
	return token.Token{Kind: kind, Literal: lit, Span: ast.NewSpan(start, l.position)}
}

func (l *Lexer) readNumber(start int) token.Token {
	for isDigit(l.ch) {
		l.readChar()
	}
	isFloat := false
	if l.ch == '.' && isDigit(l.peekChar()) {
		isFloat = true
		l.readChar()
		for isDigit(l.ch) {
			l.readChar()
		}
	}
	if l.ch == 'e' || l.ch == 'E' {
		save, saveRead, saveCh := l.position, l.readPosition, l.ch
		l.readChar()
		if l.ch == '+' || l.ch == '-' {
			l.readChar()
		}
		if isDigit(l.ch) {
			isFloat = true
			for isDigit(l.ch) {
				l.readChar()
			}
		} else {
			l.position, l.readPosition, l.ch = save, saveRead, saveCh
		}
	}
	lit := l.input[start:l.position]
	kind := token.INT
	if isFloat {
		kind = token.FLOAT
	}
	return token.Token{Kind: kind, Literal: lit, Span: ast.NewSpan(start, l.position)}
}

// tryReadPath attempts to scan a maximal path literal starting at the
// lexer's current position. It never partially consumes: on failure the
// lexer position is left untouched.
func (l *Lexer) tryReadPath(start int) (token.Token, bool) {
	i := start
	if l.input[i] == '~' {
		i++
		if i >= len(l.input) || l.input[i] != '/' {
			return token.Token{}, false
		}
	}
	sawSlash := false
	for i < len(l.input) {
		c := l.input[i]
		if isPathSegChar(c) {
			i++
			continue
		}
		if c == '/' {
			next := byte(0)
			if i+1 < len(l.input) {
				next = l.input[i+1]
			}
			if next == '/' || next == '*' {
				break
			}
			if isPathSegChar(next) || next == '$' {
				sawSlash = true
				i++
				continue
			}
			break
		}
		break
	}
	if !sawSlash {
		return token.Token{}, false
	}
	lit := l.input[start:i]
	for l.position < i {
		l.readChar()
	}
	return token.Token{Kind: token.PATH, Literal: lit, Span: ast.NewSpan(start, i)}, true
}

// tryReadPathTemplate scans `<name/sub>`, used for `<nixpkgs>` style
// search-path references. Fails (and consumes nothing) if no matching
// unbroken `>` is found before whitespace.
func (l *Lexer) tryReadPathTemplate(start int) (token.Token, bool) {
	i := start + 1
	segStart := i
	for i < len(l.input) && (isPathSegChar(l.input[i]) || l.input[i] == '/') {
		i++
	}
	if i == segStart || i >= len(l.input) || l.input[i] != '>' {
		return token.Token{}, false
	}
	i++
	lit := l.input[start:i]
	for l.position < i {
		l.readChar()
	}
	return token.Token{Kind: token.PATH_TEMPLATE, Literal: lit, Span: ast.NewSpan(start, i)}, true
}

// tryReadURI scans `scheme:` followed by one or more URI-legal characters.
// The colon must be immediately adjacent to the scheme (no whitespace) and
// at least one legal character must follow it; otherwise this is not a
// URI, and the caller falls back to lexing a bare identifier, leaving
// `ident : body`-shaped lambda formals alone.
func (l *Lexer) tryReadURI(start int) (token.Token, bool) {
	i := start
	for i < len(l.input) && (isLetter(l.input[i]) || isDigit(l.input[i]) || l.input[i] == '+' || l.input[i] == '-' || l.input[i] == '.') {
		i++
	}
	if i == start || i >= len(l.input) || l.input[i] != ':' {
		return token.Token{}, false
	}
	i++
	if i >= len(l.input) || !isURILegal(l.input[i]) {
		return token.Token{}, false
	}
	for i < len(l.input) && isURILegal(l.input[i]) {
		i++
	}
	lit := l.input[start:i]
	for l.position < i {
		l.readChar()
	}
	return token.Token{Kind: token.URI, Literal: lit, Span: ast.NewSpan(start, i)}, true
}

// isURILegal reports whether ch may appear in a URI literal's path/query
// portion, per the grammar's URI-legal character set.
func isURILegal(ch byte) bool {
	switch ch {
	case '%', '/', '?', ':', '@', '&', '=', '+', '$', ',', '-', '_', '.', '!', '~', '*', '\'':
		return true
	}
	return isLetter(ch) || isDigit(ch)
}

func (l *Lexer) readDoubleQuotedString(start int) token.Token {
	l.readChar() // opening quote
	contentStart := l.position
	unterminated := false
	for {
		if l.ch == 0 {
			unterminated = true
			break
		}
		if l.ch == '"' {
			break
		}
		if l.ch == '\\' {
			l.readChar()
			if l.ch != 0 {
				l.readChar()
			}
			continue
		}
		if l.ch == '$' && l.peekChar() == '{' {
			l.skipBalancedInterpolation()
			continue
		}
		l.readChar()
	}
	content := l.input[contentStart:l.position]
	if unterminated {
		l.errors.Push(diag.UnclosedDelimiter('"', ast.NewSpan(start, start+1)))
	} else {
		l.readChar() // closing quote
	}
	return token.Token{Kind: token.STRING, Literal: content, Span: ast.NewSpan(start, l.position)}
}

func (l *Lexer) readIndentedString(start int) token.Token {
	l.readChar() // first '
	l.readChar() // second '
	contentStart := l.position
	unterminated := false
	for {
		if l.ch == 0 {
			unterminated = true
			break
		}
		if l.ch == '\'' && l.peekChar() == '\'' {
			switch l.peekAt(2) {
			case '$', '\'', '\\':
				l.readChar()
				l.readChar()
				l.readChar()
				continue
			}
			break
		}
		if l.ch == '$' && l.peekChar() == '{' {
			l.skipBalancedInterpolation()
			continue
		}
		l.readChar()
	}
	content := l.input[contentStart:l.position]
	if unterminated {
		l.errors.Push(diag.UnclosedDelimiter('\'', ast.NewSpan(start, start+2)))
	} else {
		l.readChar()
		l.readChar()
	}
	return token.Token{Kind: token.STRING, Literal: content, Indented: true, Span: ast.NewSpan(start, l.position)}
}

func (l *Lexer) skipBalancedInterpolation() {
	l.readChar() // '$'
	l.readChar() // '{'
	depth := 1
	for depth > 0 {
		switch l.ch {
		case 0:
			l.errors.Push(diag.UnclosedDelimiter('{', ast.NewSpan(l.position, l.position)))
			return
		case '{':
			depth++
		case '}':
			depth--
		case '"':
			// a nested string literal may itself contain `}`; skip it
			// wholesale so depth tracking isn't confused by it.
			l.skipNestedStringForBraceTracking()
			continue
		}
		l.readChar()
	}
}

func (l *Lexer) skipNestedStringForBraceTracking() {
	l.readChar() // opening quote
	for l.ch != '"' && l.ch != 0 {
		if l.ch == '\\' {
			l.readChar()
			if l.ch != 0 {
				l.readChar()
			}
			continue
		}
		if l.ch == '$' && l.peekChar() == '{' {
			l.skipBalancedInterpolation()
			continue
		}
		l.readChar()
	}
	if l.ch == '"' {
		l.readChar()
	}
}

var twoCharOps = map[[2]byte]token.Kind{
	{'=', '='}: token.EQ_EQ,
	{'!', '='}: token.NOT_EQ,
	{'>', '='}: token.GT_EQ,
	{'&', '&'}: token.AND_AND,
	{'|', '|'}: token.OR_OR,
	{'+', '+'}: token.CONCAT,
	{'-', '>'}: token.IMPLY,
}

var oneCharOps = map[byte]token.Kind{
	'+': token.ADD, '-': token.SUB, '*': token.MUL,
	'=': token.EQ, '!': token.NOT, '>': token.GT,
	'@': token.AT, ':': token.COLON, ',': token.COMMA,
	'{': token.LBRACE, '}': token.RBRACE,
	'[': token.LBRACKET, ']': token.RBRACKET,
	'(': token.LPAREN, ')': token.RPAREN,
	';': token.SEMI, '?': token.QUESTION,
}

func (l *Lexer) readOperator(start int) token.Token {
	pair := [2]byte{l.ch, l.peekChar()}
	if kind, ok := twoCharOps[pair]; ok {
		l.readChar()
		l.readChar()
		return token.Token{Kind: kind, Literal: string(pair[:]), Span: ast.NewSpan(start, l.position)}
	}
	ch := l.ch
	if kind, ok := oneCharOps[ch]; ok {
		l.readChar()
		return token.Token{Kind: kind, Literal: string(ch), Span: ast.NewSpan(start, l.position)}
	}
	l.readChar()
	lex := l.input[start:l.position]
	l.errorf(lex, ast.NewSpan(start, l.position))
	return token.Token{Kind: token.ILLEGAL, Literal: lex, Span: ast.NewSpan(start, l.position)}
}
