package search

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lodestar-hq/lodestar/internal/lql"
)

func compileQuery(t *testing.T, input string) *Plan {
	t.Helper()
	q, errs := lql.Parse(input, FieldNames())
	require.Empty(t, errs, "input %q", input)
	plan, err := Compile(q)
	require.NoError(t, err)
	return plan
}

func TestCompile_RelationEquality(t *testing.T) {
	plan := compileQuery(t, `status = "Open"`)

	match, ok := plan.Predicate.(RelationMatch)
	require.True(t, ok)
	assert.Equal(t, "statuses", match.Relation.Table)
	assert.Equal(t, "status_id", match.Relation.FK)
	assert.Equal(t, []string{"name"}, match.Relation.NameCols)
	assert.Equal(t, []string{"Open"}, match.Values)
}

func TestCompile_RelationInequality(t *testing.T) {
	plan := compileQuery(t, `status != "Done"`)

	not, ok := plan.Predicate.(Not)
	require.True(t, ok)
	match, ok := not.Pred.(RelationMatch)
	require.True(t, ok)
	assert.Equal(t, []string{"Done"}, match.Values)
}

func TestCompile_AssigneeMatchesNameOrEmail(t *testing.T) {
	plan := compileQuery(t, "assignee = ana@example.com")

	match, ok := plan.Predicate.(RelationMatch)
	require.True(t, ok)
	assert.Equal(t, "users", match.Relation.Table)
	assert.Equal(t, []string{"name", "email"}, match.Relation.NameCols)
	assert.Equal(t, []string{"ana@example.com"}, match.Values)
}

func TestCompile_TextEquality(t *testing.T) {
	plan := compileQuery(t, `title = "Login broken"`)

	cmp, ok := plan.Predicate.(Compare)
	require.True(t, ok)
	assert.Equal(t, Compare{Column: "title", Op: OpEQ, Value: "Login broken"}, cmp)
}

func TestCompile_TextRejectsRangeOps(t *testing.T) {
	q, errs := lql.Parse(`title > "a"`, FieldNames())
	require.Empty(t, errs)
	_, err := Compile(q)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "supports only = and !=")
}

func TestCompile_TimeComparison(t *testing.T) {
	plan := compileQuery(t, "created > 2024-06-01")

	cmp, ok := plan.Predicate.(Compare)
	require.True(t, ok)
	assert.Equal(t, "created_at", cmp.Column)
	assert.Equal(t, OpGT, cmp.Op)
	assert.Equal(t, time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), cmp.Value)
}

func TestCompile_InvalidTimeLiteral(t *testing.T) {
	q, errs := lql.Parse(`created > "tomorrow"`, FieldNames())
	require.Empty(t, errs)
	_, err := Compile(q)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid time literal")
}

func TestCompile_InListOverRelation(t *testing.T) {
	plan := compileQuery(t, `priority in ["High", "Urgent"]`)

	match, ok := plan.Predicate.(RelationMatch)
	require.True(t, ok)
	assert.Equal(t, "priorities", match.Relation.Table)
	assert.Equal(t, []string{"High", "Urgent"}, match.Values)
}

func TestCompile_BooleanStructure(t *testing.T) {
	plan := compileQuery(t, `status = "Open" and not project = "Atlas"`)

	and, ok := plan.Predicate.(And)
	require.True(t, ok)
	require.Len(t, and.Preds, 2)

	_, ok = and.Preds[0].(RelationMatch)
	assert.True(t, ok)

	not, ok := and.Preds[1].(Not)
	require.True(t, ok)
	_, ok = not.Pred.(RelationMatch)
	assert.True(t, ok)
}

func TestCompile_SortKeys(t *testing.T) {
	plan := compileQuery(t, `status = "Open" order by created desc, title`)

	assert.Equal(t, []SortKey{
		{Column: "created_at", Desc: true},
		{Column: "title", Desc: false},
	}, plan.SortKeys)
}

func TestCompile_UnsortableField(t *testing.T) {
	q, errs := lql.Parse("order by description", FieldNames())
	require.Empty(t, errs)
	_, err := Compile(q)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not sortable")
}

func TestCompile_Deterministic(t *testing.T) {
	input := `(status = "Open" or priority in ["High"]) and created > 2024-01-01 order by created desc`

	first := compileQuery(t, input)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, compileQuery(t, input))
	}
}

func TestFallback_Shape(t *testing.T) {
	plan := Fallback("  login broken  ")

	tc, ok := plan.Predicate.(TextContains)
	require.True(t, ok)
	assert.Equal(t, []string{"title", "description"}, tc.Columns)
	assert.Equal(t, "login broken", tc.Term)
	assert.Empty(t, plan.SortKeys)
}

func TestCursor_RoundTrip(t *testing.T) {
	id := uuid.New()
	token := EncodeCursor(id)

	got, ok := DecodeCursor(token)
	require.True(t, ok)
	assert.Equal(t, id, got)
}

func TestCursor_Malformed(t *testing.T) {
	for _, token := range []string{"", "not base64 !!", "bm90IGpzb24", EncodeCursor(uuid.Nil)} {
		_, ok := DecodeCursor(token)
		assert.False(t, ok, "token %q", token)
	}
}
