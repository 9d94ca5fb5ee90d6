package diag

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conneroisu/nixast/internal/ast"
)

func TestHasErrorsOnlyCountsErrorSeverity(t *testing.T) {
	var errs Errors
	errs.Push(Diagnostic{Severity: Note, Message: "note only"})
	assert.False(t, errs.HasErrors())

	errs.Push(Diagnostic{Severity: Error, Message: "a real problem"})
	assert.True(t, errs.HasErrors())
	assert.Equal(t, 2, errs.Len())
}

func TestSortedOrdersByPrimarySpanStart(t *testing.T) {
	var errs Errors
	errs.Push(Diagnostic{Message: "second", Primary: Label{Span: ast.Span{Start: 10, End: 11}}})
	errs.Push(Diagnostic{Message: "first", Primary: Label{Span: ast.Span{Start: 1, End: 2}}})

	sorted := errs.Sorted()
	require.Len(t, sorted, 2)
	assert.Equal(t, "first", sorted[0].Message)
	assert.Equal(t, "second", sorted[1].Message)

	// Sorted must not mutate insertion order.
	all := errs.All()
	assert.Equal(t, "second", all[0].Message)
}

func TestExtendAppendsInOrder(t *testing.T) {
	var a, b Errors
	a.Push(Diagnostic{Message: "a1"})
	b.Push(Diagnostic{Message: "b1"})
	b.Push(Diagnostic{Message: "b2"})

	a.Extend(b)
	require.Equal(t, 3, a.Len())
	assert.Equal(t, []string{"a1", "b1", "b2"}, messages(a))
}

func messages(errs Errors) []string {
	out := make([]string, 0, errs.Len())
	for _, d := range errs.All() {
		out = append(out, d.Message)
	}
	return out
}

func TestErrorsErrorStringSummarizesCount(t *testing.T) {
	var empty Errors
	assert.Equal(t, "no errors", empty.Error())

	var one Errors
	one.Push(UnexpectedToken("keyword `then`", ast.Span{Start: 0, End: 4}))
	assert.Contains(t, one.Error(), "unexpected token")

	var many Errors
	many.Push(UnexpectedToken("keyword `then`", ast.Span{Start: 0, End: 4}))
	many.Push(UnknownLexeme("`", ast.Span{Start: 5, End: 6}))
	assert.Contains(t, many.Error(), "and 1 more diagnostic")
}

func TestIncorrectDelimiterAttachesSecondaryLabels(t *testing.T) {
	candidate := ast.Span{Start: 0, End: 1}
	unclosed := ast.Span{Start: 5, End: 6}
	d := IncorrectDelimiter(')', ast.Span{Start: 10, End: 11}, &candidate, &unclosed)
	require.Len(t, d.Secondary, 2)
	assert.Equal(t, candidate, d.Secondary[0].Span)
	assert.Equal(t, unclosed, d.Secondary[1].Span)
	assert.Equal(t, Error, d.Severity)
}

func TestIncorrectDelimiterOmitsNilSecondaryLabels(t *testing.T) {
	d := IncorrectDelimiter('}', ast.Span{Start: 0, End: 1}, nil, nil)
	assert.Empty(t, d.Secondary)
}

func TestInvalidNumericLiteralMessageIncludesReason(t *testing.T) {
	d := InvalidNumericLiteral("1e", "malformed exponent", ast.Span{Start: 0, End: 2})
	assert.Contains(t, d.Message, "malformed exponent")
	assert.Contains(t, d.Message, "1e")
}
