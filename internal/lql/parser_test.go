package lql

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testFields = []string{"title", "description", "status", "assignee", "priority", "project", "created", "updated"}

func parseQuery(t *testing.T, input string) *Query {
	t.Helper()
	q, errs := Parse(input, testFields)
	require.Empty(t, errs, "input %q", input)
	require.NotNil(t, q)
	return q
}

func TestParser_SimpleComparison(t *testing.T) {
	q := parseQuery(t, `status = "Open"`)

	cmp, ok := q.Expr.(*CompareExpr)
	require.True(t, ok)
	assert.Equal(t, "status", cmp.Field)
	assert.Equal(t, CompEQ, cmp.Op)
	assert.Equal(t, "Open", cmp.Value.Raw)
	assert.Equal(t, LitString, cmp.Value.Type)
	assert.Empty(t, q.OrderBy)
}

func TestParser_BareValue(t *testing.T) {
	q := parseQuery(t, "priority = High")

	cmp, ok := q.Expr.(*CompareExpr)
	require.True(t, ok)
	assert.Equal(t, "High", cmp.Value.Raw)
	assert.Equal(t, LitString, cmp.Value.Type)
}

func TestParser_FieldCaseInsensitive(t *testing.T) {
	q := parseQuery(t, `STATUS = "Open"`)

	cmp, ok := q.Expr.(*CompareExpr)
	require.True(t, ok)
	assert.Equal(t, "status", cmp.Field)
}

func TestParser_AndBindsTighterThanOr(t *testing.T) {
	q := parseQuery(t, `status = "Open" or status = "Backlog" and priority = "High"`)

	// a or (b and c)
	or, ok := q.Expr.(*BinaryExpr)
	require.True(t, ok)
	assert.Equal(t, LogicOr, or.Op)

	_, ok = or.Left.(*CompareExpr)
	assert.True(t, ok)

	and, ok := or.Right.(*BinaryExpr)
	require.True(t, ok)
	assert.Equal(t, LogicAnd, and.Op)
}

func TestParser_ParensOverridePrecedence(t *testing.T) {
	q := parseQuery(t, `(status = "Open" or status = "Backlog") and priority = "High"`)

	and, ok := q.Expr.(*BinaryExpr)
	require.True(t, ok)
	assert.Equal(t, LogicAnd, and.Op)

	or, ok := and.Left.(*BinaryExpr)
	require.True(t, ok)
	assert.Equal(t, LogicOr, or.Op)
}

func TestParser_Not(t *testing.T) {
	q := parseQuery(t, `not status = "Done"`)

	not, ok := q.Expr.(*NotExpr)
	require.True(t, ok)
	cmp, ok := not.Expr.(*CompareExpr)
	require.True(t, ok)
	assert.Equal(t, "status", cmp.Field)
}

func TestParser_InList(t *testing.T) {
	q := parseQuery(t, `priority in ["High", "Urgent"]`)

	in, ok := q.Expr.(*InExpr)
	require.True(t, ok)
	assert.Equal(t, "priority", in.Field)
	require.Len(t, in.Values, 2)
	assert.Equal(t, "High", in.Values[0].Raw)
	assert.Equal(t, "Urgent", in.Values[1].Raw)
}

func TestParser_EmptyInList(t *testing.T) {
	_, errs := Parse("priority in []", testFields)
	require.NotEmpty(t, errs)
	assert.Contains(t, errs[0].Message, "non-empty list")
}

func TestParser_OrderBy(t *testing.T) {
	q := parseQuery(t, `status = "Open" order by created desc, title`)

	require.Len(t, q.OrderBy, 2)
	assert.Equal(t, OrderItem{Field: "created", Desc: true}, q.OrderBy[0])
	assert.Equal(t, OrderItem{Field: "title", Desc: false}, q.OrderBy[1])
}

func TestParser_OrderByOnly(t *testing.T) {
	q := parseQuery(t, "order by updated desc")

	assert.Nil(t, q.Expr)
	require.Len(t, q.OrderBy, 1)
	assert.Equal(t, "updated", q.OrderBy[0].Field)
	assert.True(t, q.OrderBy[0].Desc)
}

func TestParser_UnknownFieldSuggestion(t *testing.T) {
	_, errs := Parse(`statu = "Open"`, testFields)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Message, "unknown field 'statu'")
	assert.Equal(t, "did you mean 'status'?", errs[0].Suggestion)
}

func TestParser_UnknownFieldNoSuggestion(t *testing.T) {
	_, errs := Parse(`zzzzzzzz = 1`, testFields)
	require.Len(t, errs, 1)
	assert.Empty(t, errs[0].Suggestion)
}

func TestParser_UnknownFieldSingleDiagnostic(t *testing.T) {
	// The rest of the comparison is skipped after a bad field name, so one
	// typo produces one error, not a cascade.
	inputs := []string{
		`statu = "Open"`,
		`statu != "Open"`,
		"statu > 2024-06-01",
		`statu in ["High", "Urgent"]`,
		"order by createdd desc",
	}
	for _, input := range inputs {
		_, errs := Parse(input, testFields)
		require.Len(t, errs, 1, "input %q: %v", input, errs)
		assert.Contains(t, errs[0].Message, "unknown field", "input %q", input)
	}
}

func TestParser_ErrorPositions(t *testing.T) {
	_, errs := Parse(`status = "Open" banana`, testFields)
	require.NotEmpty(t, errs)
	assert.Contains(t, errs[0].Message, "unexpected")
	assert.Equal(t, 17, errs[0].Col)
}

func TestParser_EmptyInput(t *testing.T) {
	_, errs := Parse("", testFields)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Message, "empty query")
}

func TestParser_MissingValue(t *testing.T) {
	_, errs := Parse("status =", testFields)
	require.NotEmpty(t, errs)
	assert.Contains(t, errs[0].Message, "expected literal value")
}

func TestParser_MissingOperator(t *testing.T) {
	_, errs := Parse("status Open", testFields)
	require.NotEmpty(t, errs)
	assert.Contains(t, errs[0].Message, "expected comparison operator")
}

func TestParser_NeverPanics(t *testing.T) {
	inputs := []string{
		"(((", ")))", "= = =", "and or not",
		`status = "Open" and`, "in [1,2", "order by", "order by ,",
		`not not not status != 'x'`, "[,]", `"unterminated`,
	}
	for _, input := range inputs {
		assert.NotPanics(t, func() {
			Parse(input, testFields)
		}, "input %q", input)
	}
}

func TestLevenshtein(t *testing.T) {
	assert.Equal(t, 0, Levenshtein("status", "status"))
	assert.Equal(t, 1, Levenshtein("statu", "status"))
	assert.Equal(t, 3, Levenshtein("kitten", "sitting"))
	assert.Equal(t, 5, Levenshtein("", "hello"))
}
