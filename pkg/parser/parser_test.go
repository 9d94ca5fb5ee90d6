package parser

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conneroisu/nixast/internal/ast"
	"github.com/conneroisu/nixast/pkg/diag"
)

func mustParse(t *testing.T, input string) ast.Expr {
	t.Helper()
	expr, errs := ParseExpression(input)
	require.Zero(t, errs.Len(), "ParseExpression(%q) returned diagnostics: %v", input, errs)
	require.NotNil(t, expr, "ParseExpression(%q) returned nil expression", input)
	return expr
}

func TestIntegerLiteralExpression(t *testing.T) {
	expr := mustParse(t, "5")
	i, ok := expr.(*ast.Int)
	require.True(t, ok, "expr not *ast.Int, got %T", expr)
	assert.Equal(t, int64(5), i.Value)
}

func TestIdentifierExpression(t *testing.T) {
	expr := mustParse(t, "foobar")
	id, ok := expr.(*ast.Ident)
	require.True(t, ok, "expr not *ast.Ident, got %T", expr)
	assert.Equal(t, "foobar", id.Name)
}

func TestArithmeticPrecedence(t *testing.T) {
	// `+` is looser than `*`.
	expr := mustParse(t, "1 + 2 * 3")

	add, ok := expr.(*ast.Binary)
	require.True(t, ok, "expr not *ast.Binary, got %T", expr)
	assert.Equal(t, ast.OpAdd, add.Op)
	assert.Equal(t, ast.NewInt(1, add.LHS.Span()), add.LHS)

	mul, ok := add.RHS.(*ast.Binary)
	require.True(t, ok, "add.RHS not *ast.Binary, got %T", add.RHS)
	assert.Equal(t, ast.OpMul, mul.Op)
	assert.Equal(t, ast.NewInt(2, mul.LHS.Span()), mul.LHS)
	assert.Equal(t, ast.NewInt(3, mul.RHS.Span()), mul.RHS)
}

func TestProjectionWithFallback(t *testing.T) {
	expr := mustParse(t, "a.b.c or 4")

	proj, ok := expr.(*ast.Proj)
	require.True(t, ok, "expr not *ast.Proj, got %T", expr)
	assert.Equal(t, "a", proj.Base.(*ast.Ident).Name)
	require.Len(t, proj.Attr.Segments, 2)
	assert.Equal(t, "b", proj.Attr.Segments[0].Ident.Name)
	assert.Equal(t, "c", proj.Attr.Segments[1].Ident.Name)
	require.NotNil(t, proj.Fallback)
	assert.Equal(t, int64(4), proj.Fallback.(*ast.Int).Value)
}

func TestSetLiteral(t *testing.T) {
	expr := mustParse(t, "{ x = 1; y = 2; }")

	set, ok := expr.(*ast.Set)
	require.True(t, ok, "expr not *ast.Set, got %T", expr)
	require.Len(t, set.Binds, 2)

	b0, ok := set.Binds[0].(*ast.SimpleBind)
	require.True(t, ok, "set.Binds[0] not *ast.SimpleBind, got %T", set.Binds[0])
	assert.Equal(t, "x", b0.Path.Segments[0].Ident.Name)
	assert.Equal(t, int64(1), b0.Value.(*ast.Int).Value)

	b1, ok := set.Binds[1].(*ast.SimpleBind)
	require.True(t, ok, "set.Binds[1] not *ast.SimpleBind, got %T", set.Binds[1])
	assert.Equal(t, "y", b1.Path.Segments[0].Ident.Name)
	assert.Equal(t, int64(2), b1.Value.(*ast.Int).Value)
}

func TestSetMissingSemicolonRecovers(t *testing.T) {
	// A missing `;` between bindings still recovers both bindings, with
	// a diagnostic attached.
	expr, errs := ParseExpression("{ x = 1 y = 2; }")
	assert.Greater(t, errs.Len(), 0, "expected diagnostics for missing `;`")

	set, ok := expr.(*ast.Set)
	require.True(t, ok, "expr not *ast.Set, got %T", expr)
	require.Len(t, set.Binds, 2)
	assert.Equal(t, "x", set.Binds[0].(*ast.SimpleBind).Path.Segments[0].Ident.Name)
	assert.Equal(t, "y", set.Binds[1].(*ast.SimpleBind).Path.Segments[0].Ident.Name)
}

func TestMissingSemicolonDiagnosticNamesTheBinding(t *testing.T) {
	_, errs := ParseExpression("{ x = 1 y = 2; }")
	require.Greater(t, errs.Len(), 0)

	found := false
	for _, d := range errs.All() {
		if strings.Contains(d.Message, "to terminate binding `x`") {
			found = true
		}
	}
	assert.True(t, found, "expected a diagnostic naming the binding it was terminating, got: %v", errs.All())
}

func TestLetInExpression(t *testing.T) {
	expr := mustParse(t, "let x = 1; in x + x")

	letIn, ok := expr.(*ast.LetIn)
	require.True(t, ok, "expr not *ast.LetIn, got %T", expr)
	require.Len(t, letIn.Binds, 1)

	b0 := letIn.Binds[0].(*ast.SimpleBind)
	assert.Equal(t, "x", b0.Path.Segments[0].Ident.Name)
	assert.Equal(t, int64(1), b0.Value.(*ast.Int).Value)

	add, ok := letIn.Body.(*ast.Binary)
	require.True(t, ok, "letIn.Body not *ast.Binary, got %T", letIn.Body)
	assert.Equal(t, ast.OpAdd, add.Op)
	assert.Equal(t, "x", add.LHS.(*ast.Ident).Name)
	assert.Equal(t, "x", add.RHS.(*ast.Ident).Name)
}

func TestLegacyLetSet(t *testing.T) {
	expr := mustParse(t, "let { x = 1; }")

	let, ok := expr.(*ast.Let)
	require.True(t, ok, "expr not *ast.Let, got %T", expr)
	require.Len(t, let.Binds, 1)
}

func TestFormalsLambda(t *testing.T) {
	expr := mustParse(t, "{a, b ? 2, ...}@args: a + b")

	fn, ok := expr.(*ast.FnDeclFormals)
	require.True(t, ok, "expr not *ast.FnDeclFormals, got %T", expr)
	require.Len(t, fn.Formals, 2)

	assert.Equal(t, "a", fn.Formals[0].Name.Name)
	assert.Nil(t, fn.Formals[0].Default)

	assert.Equal(t, "b", fn.Formals[1].Name.Name)
	require.NotNil(t, fn.Formals[1].Default)
	assert.Equal(t, int64(2), fn.Formals[1].Default.(*ast.Int).Value)

	assert.True(t, fn.Ellipsis)
	require.NotNil(t, fn.Extra)
	assert.Equal(t, "args", fn.Extra.Name)

	add, ok := fn.Body.(*ast.Binary)
	require.True(t, ok, "fn.Body not *ast.Binary, got %T", fn.Body)
	assert.Equal(t, ast.OpAdd, add.Op)
	assert.Equal(t, "a", add.LHS.(*ast.Ident).Name)
	assert.Equal(t, "b", add.RHS.(*ast.Ident).Name)
}

func TestSimpleLambda(t *testing.T) {
	expr := mustParse(t, "x: x + 2")

	fn, ok := expr.(*ast.FnDeclSimple)
	require.True(t, ok, "expr not *ast.FnDeclSimple, got %T", expr)
	assert.Equal(t, "x", fn.Name.Name)

	add, ok := fn.Body.(*ast.Binary)
	require.True(t, ok, "fn.Body not *ast.Binary, got %T", fn.Body)
	assert.Equal(t, "x", add.LHS.(*ast.Ident).Name)
	assert.Equal(t, int64(2), add.RHS.(*ast.Int).Value)
}

func TestTrailingOperatorRecovers(t *testing.T) {
	// A dangling operator keeps the operator in the tree, paired with a
	// synthesized error operand.
	expr, errs := ParseExpression("1 + ")
	assert.Greater(t, errs.Len(), 0, "expected diagnostics for trailing operator")

	add, ok := expr.(*ast.Binary)
	require.True(t, ok, "expr not *ast.Binary, got %T", expr)
	assert.Equal(t, ast.OpAdd, add.Op)
	assert.Equal(t, int64(1), add.LHS.(*ast.Int).Value)
	_, isErr := add.RHS.(*ast.ErrorExpr)
	assert.True(t, isErr, "add.RHS not *ast.ErrorExpr, got %T", add.RHS)
}

func TestEmptyInput(t *testing.T) {
	expr, errs := ParseExpression("")
	assert.Nil(t, expr)
	assert.Greater(t, errs.Len(), 0, "expected diagnostics for empty input")
}

func TestUnbalancedBraceRecovers(t *testing.T) {
	expr, errs := ParseExpression("{ x = 1;")
	assert.Greater(t, errs.Len(), 0, "expected diagnostics for unclosed `{`")

	set, ok := expr.(*ast.Set)
	require.True(t, ok, "expr not *ast.Set, got %T", expr)
	assert.Len(t, set.Binds, 1)
}

func TestNestedInterpolation(t *testing.T) {
	expr := mustParse(t, `"a${"b${c}d"}e"`)

	str, ok := expr.(*ast.String)
	require.True(t, ok, "expr not *ast.String, got %T", expr)
	require.Len(t, str.Fragments, 3)
	assert.Equal(t, "a", str.Fragments[0].Text)

	require.NotNil(t, str.Fragments[1].Interp)
	inner, ok := str.Fragments[1].Interp.Inner.(*ast.String)
	require.True(t, ok, "inner interpolation not *ast.String, got %T", str.Fragments[1].Interp.Inner)
	require.Len(t, inner.Fragments, 3)
	assert.Equal(t, "b", inner.Fragments[0].Text)
	assert.Equal(t, "d", inner.Fragments[2].Text)

	require.NotNil(t, inner.Fragments[1].Interp)
	assert.Equal(t, "c", inner.Fragments[1].Interp.Inner.(*ast.Ident).Name)
	assert.Equal(t, "e", str.Fragments[2].Text)
}

func TestFunctionApplicationLeftAssociative(t *testing.T) {
	expr := mustParse(t, "add 1 2")

	app, ok := expr.(*ast.FnApp)
	require.True(t, ok, "expr not *ast.FnApp, got %T", expr)
	inner, ok := app.Func.(*ast.FnApp)
	require.True(t, ok, "app.Func not *ast.FnApp, got %T", app.Func)
	assert.Equal(t, "add", inner.Func.(*ast.Ident).Name)
	assert.Equal(t, int64(1), inner.Arg.(*ast.Int).Value)
	assert.Equal(t, int64(2), app.Arg.(*ast.Int).Value)
}

func TestListLiteral(t *testing.T) {
	expr := mustParse(t, "[ 1 2 3 ]")

	list, ok := expr.(*ast.List)
	require.True(t, ok, "expr not *ast.List, got %T", expr)
	require.Len(t, list.Elems, 3)
	for i, want := range []int64{1, 2, 3} {
		assert.Equal(t, want, list.Elems[i].(*ast.Int).Value)
	}
}

func TestIfThenElse(t *testing.T) {
	expr := mustParse(t, "if x then 1 else 2")

	ifExpr, ok := expr.(*ast.If)
	require.True(t, ok, "expr not *ast.If, got %T", expr)
	assert.Equal(t, "x", ifExpr.Cond.(*ast.Ident).Name)
	assert.Equal(t, int64(1), ifExpr.Body.(*ast.Int).Value)
	assert.Equal(t, int64(2), ifExpr.Fallback.(*ast.Int).Value)
}

func TestLogicalPrecedence(t *testing.T) {
	// `||` is looser than `&&`.
	expr := mustParse(t, "a || b && c")

	or, ok := expr.(*ast.Binary)
	require.True(t, ok, "expr not *ast.Binary, got %T", expr)
	assert.Equal(t, ast.OpOr, or.Op)
	assert.Equal(t, "a", or.LHS.(*ast.Ident).Name)

	and, ok := or.RHS.(*ast.Binary)
	require.True(t, ok, "or.RHS not *ast.Binary, got %T", or.RHS)
	assert.Equal(t, ast.OpAnd, and.Op)
	assert.Equal(t, "b", and.LHS.(*ast.Ident).Name)
	assert.Equal(t, "c", and.RHS.(*ast.Ident).Name)
}

func TestUpdateRightAssociative(t *testing.T) {
	expr := mustParse(t, "a // b // c")

	outer, ok := expr.(*ast.Binary)
	require.True(t, ok, "expr not *ast.Binary, got %T", expr)
	assert.Equal(t, ast.OpUpdate, outer.Op)
	assert.Equal(t, "a", outer.LHS.(*ast.Ident).Name)

	inner, ok := outer.RHS.(*ast.Binary)
	require.True(t, ok, "outer.RHS not *ast.Binary, got %T", outer.RHS)
	assert.Equal(t, ast.OpUpdate, inner.Op)
	assert.Equal(t, "b", inner.LHS.(*ast.Ident).Name)
	assert.Equal(t, "c", inner.RHS.(*ast.Ident).Name)
}

func TestUnaryOperators(t *testing.T) {
	tests := []struct {
		input string
		op    ast.UnaryOp
	}{
		{"-15", ast.OpNeg},
		{"!true", ast.OpNot},
	}

	for _, tt := range tests {
		expr := mustParse(t, tt.input)
		un, ok := expr.(*ast.Unary)
		require.True(t, ok, "expr not *ast.Unary, got %T", expr)
		assert.Equal(t, tt.op, un.Op)
	}
}

func TestWithExpression(t *testing.T) {
	expr := mustParse(t, "with a; b")

	with, ok := expr.(*ast.With)
	require.True(t, ok, "expr not *ast.With, got %T", expr)
	assert.Equal(t, "a", with.Env.(*ast.Ident).Name)
	assert.Equal(t, "b", with.Body.(*ast.Ident).Name)
}

func TestAssertExpression(t *testing.T) {
	expr := mustParse(t, "assert a; b")

	assertExpr, ok := expr.(*ast.Assert)
	require.True(t, ok, "expr not *ast.Assert, got %T", expr)
	assert.Equal(t, "a", assertExpr.Cond.(*ast.Ident).Name)
	assert.Equal(t, "b", assertExpr.Body.(*ast.Ident).Name)
}

func TestInheritBind(t *testing.T) {
	expr := mustParse(t, "{ inherit a b; }")

	set, ok := expr.(*ast.Set)
	require.True(t, ok, "expr not *ast.Set, got %T", expr)
	inh, ok := set.Binds[0].(*ast.InheritBind)
	require.True(t, ok, "set.Binds[0] not *ast.InheritBind, got %T", set.Binds[0])
	require.Len(t, inh.Names, 2)
	assert.Equal(t, "a", inh.Names[0].Name)
	assert.Equal(t, "b", inh.Names[1].Name)
}

func TestInheritExprBind(t *testing.T) {
	expr := mustParse(t, "{ inherit (pkgs) a b; }")

	set, ok := expr.(*ast.Set)
	require.True(t, ok, "expr not *ast.Set, got %T", expr)
	inh, ok := set.Binds[0].(*ast.InheritExprBind)
	require.True(t, ok, "set.Binds[0] not *ast.InheritExprBind, got %T", set.Binds[0])
	assert.Equal(t, "pkgs", inh.From.(*ast.Ident).Name)
	require.Len(t, inh.Names, 2)
	assert.Equal(t, "a", inh.Names[0].Name)
	assert.Equal(t, "b", inh.Names[1].Name)
}

func TestAttrPathSegmentNames(t *testing.T) {
	// Exercises go-cmp structural comparison for a shape (a slice of
	// plain names extracted from the parsed tree) deep enough that
	// manual index-by-index assertions would be unwieldy.
	got := mustParse(t, "{ a.b.c = 1; }")
	set := got.(*ast.Set)
	path := set.Binds[0].(*ast.SimpleBind).Path

	names := make([]string, len(path.Segments))
	for i, seg := range path.Segments {
		names[i] = seg.Ident.Name
	}

	diff := cmp.Diff([]string{"a", "b", "c"}, names)
	assert.Empty(t, diff)
}

func TestChainedUnaryPrefixes(t *testing.T) {
	expr := mustParse(t, "--x")
	outer, ok := expr.(*ast.Unary)
	require.True(t, ok, "expr not *ast.Unary, got %T", expr)
	assert.Equal(t, ast.OpNeg, outer.Op)

	inner, ok := outer.Operand.(*ast.Unary)
	require.True(t, ok, "outer.Operand not *ast.Unary, got %T", outer.Operand)
	assert.Equal(t, ast.OpNeg, inner.Op)
	assert.Equal(t, "x", inner.Operand.(*ast.Ident).Name)

	expr = mustParse(t, "!-x")
	outer = expr.(*ast.Unary)
	assert.Equal(t, ast.OpNot, outer.Op)
	assert.Equal(t, ast.OpNeg, outer.Operand.(*ast.Unary).Op)
}

func TestHasAttrOperator(t *testing.T) {
	expr := mustParse(t, "s ? a")
	bin, ok := expr.(*ast.Binary)
	require.True(t, ok, "expr not *ast.Binary, got %T", expr)
	assert.Equal(t, ast.OpHasAttr, bin.Op)
	assert.Equal(t, "s", bin.LHS.(*ast.Ident).Name)
	assert.Equal(t, "a", bin.RHS.(*ast.Ident).Name)

	expr = mustParse(t, "s ? a.b")
	bin = expr.(*ast.Binary)
	require.Equal(t, ast.OpHasAttr, bin.Op)
	proj, ok := bin.RHS.(*ast.Proj)
	require.True(t, ok, "bin.RHS not *ast.Proj, got %T", bin.RHS)
	assert.Equal(t, "a", proj.Base.(*ast.Ident).Name)
}

func TestOrphanOrProducesOrNode(t *testing.T) {
	expr := mustParse(t, "x or 2")
	orNode, ok := expr.(*ast.Or)
	require.True(t, ok, "expr not *ast.Or, got %T", expr)
	assert.Equal(t, "x", orNode.Expr.(*ast.Ident).Name)
	assert.Equal(t, int64(2), orNode.Fallback.(*ast.Int).Value)
}

func TestApplicationBindsLooserThanProjection(t *testing.T) {
	expr := mustParse(t, "a b.c")
	app, ok := expr.(*ast.FnApp)
	require.True(t, ok, "expr not *ast.FnApp, got %T", expr)
	assert.Equal(t, "a", app.Func.(*ast.Ident).Name)

	proj, ok := app.Arg.(*ast.Proj)
	require.True(t, ok, "app.Arg not *ast.Proj, got %T", app.Arg)
	assert.Equal(t, "b", proj.Base.(*ast.Ident).Name)
	require.Len(t, proj.Attr.Segments, 1)
	assert.Equal(t, "c", proj.Attr.Segments[0].Ident.Name)
}

func TestLambdaBodyTakesRestOfExpression(t *testing.T) {
	expr := mustParse(t, "a: b c")
	fn, ok := expr.(*ast.FnDeclSimple)
	require.True(t, ok, "expr not *ast.FnDeclSimple, got %T", expr)

	app, ok := fn.Body.(*ast.FnApp)
	require.True(t, ok, "fn.Body not *ast.FnApp, got %T", fn.Body)
	assert.Equal(t, "b", app.Func.(*ast.Ident).Name)
	assert.Equal(t, "c", app.Arg.(*ast.Ident).Name)
}

func TestProjectionFallbackBindsToWholePath(t *testing.T) {
	expr := mustParse(t, "a.b.c or d")
	proj, ok := expr.(*ast.Proj)
	require.True(t, ok, "expr not *ast.Proj, got %T", expr)
	assert.Equal(t, "a", proj.Base.(*ast.Ident).Name)
	assert.Len(t, proj.Attr.Segments, 2)
	assert.Equal(t, "d", proj.Fallback.(*ast.Ident).Name)
}

func TestDiagnosticsSortedBySpanStart(t *testing.T) {
	_, errs := ParseExpression("{ a = ; b = ; }")
	require.Greater(t, errs.Len(), 1)

	all := errs.All()
	for i := 1; i < len(all); i++ {
		assert.LessOrEqual(t, all[i-1].Primary.Span.Start, all[i].Primary.Span.Start,
			"diagnostics out of source order: %v", all)
	}
}

func TestCommentInsertionDoesNotChangeAST(t *testing.T) {
	plain := mustParse(t, "1 + 2")
	commented := mustParse(t, "1 + /* interlude */ 2")

	add := plain.(*ast.Binary)
	addC := commented.(*ast.Binary)
	assert.Equal(t, add.Op, addC.Op)
	assert.Equal(t, add.LHS.(*ast.Int).Value, addC.LHS.(*ast.Int).Value)
	assert.Equal(t, add.RHS.(*ast.Int).Value, addC.RHS.(*ast.Int).Value)
}

func TestBindingDocCommentAttaches(t *testing.T) {
	expr := mustParse(t, "{ # the x binding\n x = 1; }")
	set := expr.(*ast.Set)
	require.Len(t, set.Binds, 1)

	bind := set.Binds[0].(*ast.SimpleBind)
	assert.Equal(t, "# the x binding", bind.Comment)
}

func TestParseExpressionStrict(t *testing.T) {
	expr, err := ParseExpressionStrict("1 + 2")
	require.NoError(t, err)
	require.NotNil(t, expr)

	_, err = ParseExpressionStrict("1 + ")
	require.Error(t, err)
	var errs diag.Errors
	require.ErrorAs(t, err, &errs)
	assert.Greater(t, errs.Len(), 0)
}

func TestSourceFileCommentSpanEndsAtLastNonWhitespace(t *testing.T) {
	f, errs := ParseSourceFile("# hi   \n\n5")
	require.Zero(t, errs.Len())
	require.NotNil(t, f.Comment)

	assert.Equal(t, 0, f.Comment.Span().Start)
	assert.Equal(t, len("# hi"), f.Comment.Span().End,
		"comment span must end at its last non-whitespace byte")
}

func TestSourceFileWithoutComment(t *testing.T) {
	f, errs := ParseSourceFile("5")
	require.Zero(t, errs.Len())
	assert.Nil(t, f.Comment)
	assert.Equal(t, int64(5), f.Expr.(*ast.Int).Value)
}

func TestTrailingGarbageIsDiagnosed(t *testing.T) {
	_, errs := ParseExpression("1 + 2 }")
	assert.Greater(t, errs.Len(), 0)
}

func TestNodeSpansEncloseChildSpans(t *testing.T) {
	input := "let x = 1; in x + x"
	expr := mustParse(t, input)

	letIn := expr.(*ast.LetIn)
	outer := letIn.Span()
	assert.GreaterOrEqual(t, outer.End, len(input)-1)

	for _, b := range letIn.Binds {
		assert.LessOrEqual(t, outer.Start, b.Span().Start)
		assert.GreaterOrEqual(t, outer.End, b.Span().End)
	}
	body := letIn.Body.Span()
	assert.LessOrEqual(t, outer.Start, body.Start)
	assert.GreaterOrEqual(t, outer.End, body.End)

	add := letIn.Body.(*ast.Binary)
	assert.LessOrEqual(t, body.Start, add.LHS.Span().Start)
	assert.GreaterOrEqual(t, body.End, add.RHS.Span().End)
}

func TestImplicationLeftFold(t *testing.T) {
	expr := mustParse(t, "a -> b -> c")
	outer, ok := expr.(*ast.Binary)
	require.True(t, ok)
	assert.Equal(t, ast.OpImpl, outer.Op)

	inner, ok := outer.LHS.(*ast.Binary)
	require.True(t, ok, "implication must fold from the left, got RHS %T", outer.RHS)
	assert.Equal(t, "a", inner.LHS.(*ast.Ident).Name)
	assert.Equal(t, "b", inner.RHS.(*ast.Ident).Name)
	assert.Equal(t, "c", outer.RHS.(*ast.Ident).Name)
}

func TestConcatRightAssociative(t *testing.T) {
	expr := mustParse(t, "a ++ b ++ c")
	outer := expr.(*ast.Binary)
	assert.Equal(t, ast.OpConcat, outer.Op)
	assert.Equal(t, "a", outer.LHS.(*ast.Ident).Name)

	inner, ok := outer.RHS.(*ast.Binary)
	require.True(t, ok, "`++` must fold from the right, got LHS %T", outer.LHS)
	assert.Equal(t, "b", inner.LHS.(*ast.Ident).Name)
	assert.Equal(t, "c", inner.RHS.(*ast.Ident).Name)
}

func TestExtraBinderBeforeBraces(t *testing.T) {
	expr := mustParse(t, "args@{a, b}: a")
	fn, ok := expr.(*ast.FnDeclFormals)
	require.True(t, ok, "expr not *ast.FnDeclFormals, got %T", expr)
	require.NotNil(t, fn.Extra)
	assert.Equal(t, "args", fn.Extra.Name)
	assert.False(t, fn.Ellipsis)
	require.Len(t, fn.Formals, 2)
}

func TestRecSet(t *testing.T) {
	expr := mustParse(t, "rec { x = 1; y = x; }")
	rec, ok := expr.(*ast.Rec)
	require.True(t, ok, "expr not *ast.Rec, got %T", expr)
	assert.Len(t, rec.Binds, 2)
}

func TestDynamicAttrName(t *testing.T) {
	expr := mustParse(t, "{ ${name} = 1; }")
	set := expr.(*ast.Set)
	require.Len(t, set.Binds, 1)

	bind := set.Binds[0].(*ast.SimpleBind)
	require.Len(t, bind.Path.Segments, 1)
	require.NotNil(t, bind.Path.Segments[0].Interp)
	assert.Equal(t, "name", bind.Path.Segments[0].Interp.Inner.(*ast.Ident).Name)
}

func TestTotalityOnPathologicalInputs(t *testing.T) {
	inputs := []string{
		"}{][)(",
		"let let let",
		"if if if",
		"${",
		`"unterminated`,
		"''unterminated",
		";;;",
		"= = =",
		"{ x = ",
		"(((((",
	}
	for _, in := range inputs {
		assert.NotPanics(t, func() {
			ParseExpression(in)
			ParseSourceFile(in)
		}, "input %q", in)
	}
}

func TestLargeInputDoesNotPanic(t *testing.T) {
	var b strings.Builder
	b.WriteString("[ ")
	for i := 0; i < 50000; i++ {
		b.WriteString("1 ")
	}
	b.WriteString("]")

	expr, errs := ParseExpression(b.String())
	require.Zero(t, errs.Len())
	list := expr.(*ast.List)
	assert.Len(t, list.Elems, 50000)
}

func TestInterpolationWithNestedStringBraces(t *testing.T) {
	// A literal `}` inside a nested string must not end the enclosing
	// interpolation early.
	expr := mustParse(t, `"foo${ "}" }bar"`)

	str, ok := expr.(*ast.String)
	require.True(t, ok, "expr not *ast.String, got %T", expr)
	require.Len(t, str.Fragments, 3)
	assert.Equal(t, "foo", str.Fragments[0].Text)

	require.NotNil(t, str.Fragments[1].Interp)
	inner, ok := str.Fragments[1].Interp.Inner.(*ast.String)
	require.True(t, ok, "interpolation body not *ast.String, got %T", str.Fragments[1].Interp.Inner)
	require.Len(t, inner.Fragments, 1)
	assert.Equal(t, "}", inner.Fragments[0].Text)

	assert.Equal(t, "bar", str.Fragments[2].Text)
}

func TestInterpolationWithEscapedBraceInNestedString(t *testing.T) {
	expr := mustParse(t, `"a${ "\"}\"" }b"`)

	str := expr.(*ast.String)
	require.Len(t, str.Fragments, 3)
	inner, ok := str.Fragments[1].Interp.Inner.(*ast.String)
	require.True(t, ok)
	require.Len(t, inner.Fragments, 1)
	assert.Equal(t, `"}"`, inner.Fragments[0].Text)
	assert.Equal(t, "b", str.Fragments[2].Text)
}

func findDiagnostic(errs diag.Errors, substr string) *diag.Diagnostic {
	for _, d := range errs.All() {
		if strings.Contains(d.Message, substr) {
			found := d
			return &found
		}
	}
	return nil
}

func TestIncorrectCloseDelimiter(t *testing.T) {
	_, errs := ParseExpression("(1}")
	require.Greater(t, errs.Len(), 0)

	d := findDiagnostic(errs, "incorrect close delimiter")
	require.NotNil(t, d, "expected an incorrect-delimiter diagnostic, got: %v", errs.All())
	assert.Contains(t, d.Message, "`}`")

	// The still-unclosed `(` is attached as a secondary label.
	require.NotEmpty(t, d.Secondary)
	unmatched := d.Secondary[len(d.Secondary)-1]
	assert.Equal(t, 0, unmatched.Span.Start)
	assert.Equal(t, 1, unmatched.Span.End)
}

func TestIncorrectCloseDelimiterInsideList(t *testing.T) {
	expr, errs := ParseExpression("[ 1 )")
	require.NotNil(t, findDiagnostic(errs, "incorrect close delimiter"), "got: %v", errs.All())

	list, ok := expr.(*ast.List)
	require.True(t, ok, "expr not *ast.List, got %T", expr)
	require.Len(t, list.Elems, 1)
	assert.Equal(t, int64(1), list.Elems[0].(*ast.Int).Value)
}

func TestMismatchedCloserLeftForEnclosingConstruct(t *testing.T) {
	// The `)` is diagnosed as the wrong closer for the set, but stays
	// unconsumed so it can still close the surrounding paren.
	expr, errs := ParseExpression("( { x = 1; )")
	require.Equal(t, 1, errs.Len(), "got: %v", errs.All())
	assert.Contains(t, errs.All()[0].Message, "incorrect close delimiter")

	paren, ok := expr.(*ast.Paren)
	require.True(t, ok, "expr not *ast.Paren, got %T", expr)
	set, ok := paren.Inner.(*ast.Set)
	require.True(t, ok, "paren.Inner not *ast.Set, got %T", paren.Inner)
	assert.Len(t, set.Binds, 1)
}

func TestUnclosedDelimiterAtEOF(t *testing.T) {
	tests := []struct {
		input string
		delim string
	}{
		{"( 1", "`(`"},
		{"{ x = 1;", "`{`"},
		{"[ 1 2", "`[`"},
	}
	for _, tt := range tests {
		_, errs := ParseExpression(tt.input)
		d := findDiagnostic(errs, "unclosed delimiter")
		require.NotNil(t, d, "input %q: got %v", tt.input, errs.All())
		assert.Contains(t, d.Message, tt.delim, "input %q", tt.input)
	}
}
