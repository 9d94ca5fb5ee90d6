// Package parser implements a recursive-descent, precedence-climbing
// parser for the Nix expression language, built entirely on
// pkg/partial's recovery combinators: every production returns a value
// even over malformed input, paired with whatever diagnostics were
// needed to get there.
//
// Architecture:
//
// One function per precedence level, from loosest to tightest:
//
//	function (fnDecl | with | assert | letIn | ifElse)
//	  -> imply -> or -> and -> equality -> compare -> hasAttr -> update
//	  -> sum -> product -> concat -> unary -> apply -> fnApp
//	  -> project -> atomic
//
// Binary operator levels are built from three generic fold shapes
// (helpers.go): left-associative (sum, product, and, or, imply),
// non-associative single-optional-operator (equality, compare, hasAttr), and
// right-associative (update, concat). A missing right operand never
// aborts the level: it is replaced with an *ast.ErrorExpr and a
// diagnostic, so "1 + " still parses to Binary(Add, 1, Error).
//
// Sets, lists, and binding lists use pkg/partial's ManyTillPartial for
// their many-until recovery loop. Lambda
// formals are disambiguated from a plain set literal with a bounded
// forward scan to the matching `}` (func.go).
//
// The lexer hands the parser whole, undecoded STRING tokens; splitting
// them into literal/interpolation fragments and recursively lexing each
// `${...}` body happens here (strings.go), not in pkg/lexer.
package parser
