// Package printer renders a parsed AST back into Nix source text. It
// performs no inference of operator precedence: the parser always wraps
// an explicit grouping in a Paren node, so the printer's job is just to
// walk the tree and write out each construct's surface syntax.
package printer

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/conneroisu/nixast/internal/ast"
)

// Print renders a single expression.
func Print(e ast.Expr) string {
	var b strings.Builder
	writeExpr(&b, e)
	return b.String()
}

// PrettyPrint is the round-trip printer's entry point: it accepts either
// a bare ast.Expr or a *ast.SourceFile and renders it to source text.
func PrettyPrint(node any) string {
	switch n := node.(type) {
	case *ast.SourceFile:
		return PrintSourceFile(n)
	case ast.Expr:
		return Print(n)
	default:
		return fmt.Sprintf("<unprintable %T>", node)
	}
}

// PrintSourceFile renders a whole document: its leading doc comment, if
// any, followed by its expression.
func PrintSourceFile(f *ast.SourceFile) string {
	var b strings.Builder
	if f.Comment != nil {
		writeComment(&b, *f.Comment)
		b.WriteByte('\n')
	}
	writeExpr(&b, f.Expr)
	return b.String()
}

// writeComment writes a comment's text verbatim: the lexer's COMMENT
// token literal already includes the leading `#` or surrounding `/* */`,
// and a multi-line doc-comment block was already joined with newlines by
// the parser, so nothing is added here.
func writeComment(b *strings.Builder, c ast.Comment) {
	b.WriteString(c.Text)
}

func writeExpr(b *strings.Builder, e ast.Expr) {
	switch n := e.(type) {
	case *ast.Paren:
		b.WriteByte('(')
		writeExpr(b, n.Inner)
		b.WriteByte(')')

	case *ast.Ident:
		b.WriteString(n.Name)

	case *ast.Interpolation:
		b.WriteString("${")
		writeExpr(b, n.Inner)
		b.WriteByte('}')

	case *ast.Int:
		b.WriteString(strconv.FormatInt(n.Value, 10))

	case *ast.Float:
		b.WriteString(strconv.FormatFloat(n.Value, 'g', -1, 64))

	case *ast.Bool:
		b.WriteString(strconv.FormatBool(n.Value))

	case *ast.Null:
		b.WriteString("null")

	case *ast.Path:
		b.WriteString(n.Value)

	case *ast.Uri:
		b.WriteString(n.Value)

	case *ast.List:
		writeList(b, n)

	case *ast.String:
		writeString(b, n)

	case *ast.Set:
		writeBinds(b, "", n.Binds)

	case *ast.Rec:
		writeBinds(b, "rec ", n.Binds)

	case *ast.Let:
		writeBinds(b, "let ", n.Binds)

	case *ast.LetIn:
		b.WriteString("let ")
		writeBindList(b, n.Binds)
		b.WriteString(" in ")
		writeExpr(b, n.Body)

	case *ast.Unary:
		b.WriteString(n.Op.String())
		writeExpr(b, n.Operand)

	case *ast.Binary:
		writeExpr(b, n.LHS)
		b.WriteByte(' ')
		b.WriteString(n.Op.String())
		b.WriteByte(' ')
		writeExpr(b, n.RHS)

	case *ast.Proj:
		writeExpr(b, n.Base)
		b.WriteByte('.')
		writeAttrPath(b, n.Attr)
		if n.Fallback != nil {
			b.WriteString(" or ")
			writeExpr(b, n.Fallback)
		}

	case *ast.If:
		b.WriteString("if ")
		writeExpr(b, n.Cond)
		b.WriteString(" then ")
		writeExpr(b, n.Body)
		b.WriteString(" else ")
		writeExpr(b, n.Fallback)

	case *ast.Or:
		writeExpr(b, n.Expr)
		b.WriteString(" or ")
		writeExpr(b, n.Fallback)

	case *ast.Assert:
		b.WriteString("assert ")
		writeExpr(b, n.Cond)
		b.WriteString("; ")
		writeExpr(b, n.Body)

	case *ast.With:
		b.WriteString("with ")
		writeExpr(b, n.Env)
		b.WriteString("; ")
		writeExpr(b, n.Body)

	case *ast.FnDeclSimple:
		b.WriteString(n.Name.Name)
		b.WriteString(": ")
		writeExpr(b, n.Body)

	case *ast.FnDeclFormals:
		writeFormals(b, n)

	case *ast.FnApp:
		writeExpr(b, n.Func)
		b.WriteByte(' ')
		writeExpr(b, n.Arg)

	case *ast.ErrorExpr:
		b.WriteString("<error>")

	case *ast.Trap:
		b.WriteString("<trap>")

	default:
		fmt.Fprintf(b, "<unprintable %T>", n)
	}
}

func writeList(b *strings.Builder, n *ast.List) {
	b.WriteString("[ ")
	for i, e := range n.Elems {
		if i > 0 {
			b.WriteByte(' ')
		}
		writeExpr(b, e)
	}
	b.WriteString(" ]")
}

func writeString(b *strings.Builder, n *ast.String) {
	if n.Indented {
		b.WriteString("''")
		for _, f := range n.Fragments {
			writeStringFragment(b, f, true)
		}
		b.WriteString("''")
		return
	}
	b.WriteByte('"')
	for _, f := range n.Fragments {
		writeStringFragment(b, f, false)
	}
	b.WriteByte('"')
}

// escapeQuoted re-applies the escapes splitStringFragments decoded while
// lexing, so that printing and re-lexing a fragment round-trips to the same
// text: a literal backslash must come back out as `\\`, not bare `\`, or a
// following ordinary character would be swallowed as a bogus escape on
// re-lex; `"` and `${` must stay escaped or they would end the string or
// open a spurious interpolation.
func escapeQuoted(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '\\' || c == '"':
			b.WriteByte('\\')
			b.WriteByte(c)
		case c == '$' && i+1 < len(s) && s[i+1] == '{':
			b.WriteString(`\$`)
		case c == '\n':
			b.WriteString(`\n`)
		case c == '\r':
			b.WriteString(`\r`)
		case c == '\t':
			b.WriteString(`\t`)
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

// escapeIndented re-applies the `''...''`-string escapes: a literal `''` or
// `${`-introducing `$` must be written back out using the doubled-quote
// escape forms, since the indented string's own terminator syntax has no
// backslash-escape at all.
func escapeIndented(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '$' && i+1 < len(s) && s[i+1] == '{':
			b.WriteString(`''$`)
		case c == '\'' && i+1 < len(s) && s[i+1] == '\'':
			b.WriteString(`'''`)
			i++
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

func writeStringFragment(b *strings.Builder, f ast.StringFragment, indented bool) {
	if f.Interp != nil {
		writeExpr(b, f.Interp)
		return
	}
	if indented {
		b.WriteString(escapeIndented(f.Text))
		return
	}
	b.WriteString(escapeQuoted(f.Text))
}

func writeAttrPath(b *strings.Builder, p ast.AttrPath) {
	for i, seg := range p.Segments {
		if i > 0 {
			b.WriteByte('.')
		}
		writeAttrSegment(b, seg)
	}
}

func writeAttrSegment(b *strings.Builder, seg ast.AttrSegment) {
	switch {
	case seg.Ident != nil:
		b.WriteString(seg.Ident.Name)
	case seg.Interp != nil:
		writeExpr(b, seg.Interp)
	case seg.Str != nil:
		writeString(b, seg.Str)
	}
}

func writeBinds(b *strings.Builder, prefix string, binds []ast.Bind) {
	b.WriteString(prefix)
	b.WriteString("{ ")
	for _, bind := range binds {
		writeBind(b, bind)
		b.WriteByte(' ')
	}
	b.WriteByte('}')
}

func writeBindList(b *strings.Builder, binds []ast.Bind) {
	for i, bind := range binds {
		if i > 0 {
			b.WriteByte(' ')
		}
		writeBind(b, bind)
	}
}

func writeBind(b *strings.Builder, bind ast.Bind) {
	switch n := bind.(type) {
	case *ast.SimpleBind:
		if n.Comment != "" {
			writeComment(b, ast.NewComment(n.Comment, n.Span()))
			b.WriteByte('\n')
		}
		writeAttrPath(b, n.Path)
		b.WriteString(" = ")
		writeExpr(b, n.Value)
		b.WriteByte(';')

	case *ast.InheritBind:
		b.WriteString("inherit")
		for _, name := range n.Names {
			b.WriteByte(' ')
			b.WriteString(name.Name)
		}
		b.WriteByte(';')

	case *ast.InheritExprBind:
		b.WriteString("inherit (")
		writeExpr(b, n.From)
		b.WriteByte(')')
		for _, name := range n.Names {
			b.WriteByte(' ')
			b.WriteString(name.Name)
		}
		b.WriteByte(';')
	}
}

func writeFormals(b *strings.Builder, n *ast.FnDeclFormals) {
	b.WriteString("{ ")
	for i, f := range n.Formals {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(f.Name.Name)
		if f.Default != nil {
			b.WriteString(" ? ")
			writeExpr(b, f.Default)
		}
	}
	if n.Ellipsis {
		if len(n.Formals) > 0 {
			b.WriteString(", ")
		}
		b.WriteString("...")
	}
	b.WriteString(" }")
	if n.Extra != nil {
		b.WriteByte('@')
		b.WriteString(n.Extra.Name)
	}
	b.WriteString(": ")
	writeExpr(b, n.Body)
}
