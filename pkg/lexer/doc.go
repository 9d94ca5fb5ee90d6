// Package lexer provides lexical analysis for the Nix expression language.
//
// The lexer is the first stage of the parsing pipeline, converting raw
// source text into a token.Token slice for pkg/cursor and pkg/parser to
// walk. It is a single pass, byte-oriented scanner and never rejects
// input outright: anything it cannot classify becomes an ILLEGAL token
// paired with a diag.Diagnostic, so the caller always gets a complete token
// stream to recover from.
//
// Token Recognition:
//   - Keywords: if, then, else, let, in, with, assert, or, rec, inherit
//   - Identifiers, integers, floats
//   - Strings: "..." with \-escapes and ${...} interpolation, and the
//     indented ''...'' form with its own ''$/'''/''\ escapes
//   - Paths: ./rel, /abs, ~/home, bare foo/bar, and <search/path> templates
//   - URIs: scheme://...
//   - The full Nix operator and delimiter set
//
// Comments (both `#` line and `/* */` block) are preserved as COMMENT
// tokens rather than discarded, since pkg/parser attaches leading comments
// to bindings and source files as documentation.
//
// Usage Example:
//
//	toks, errs := lexer.Lex("let x = 42; in x + 1")
//	if errs.Len() > 0 {
//	    // errs.Sorted() for source-order diagnostics
//	}
package lexer
