package suggest

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lodestar-hq/lodestar/internal/store"
)

func newTestEngine(t *testing.T) (*Engine, *store.Store, uuid.UUID) {
	t.Helper()
	db, err := store.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	st := store.New(db, zerolog.Nop())
	require.NoError(t, st.Migrate(context.Background()))
	return NewEngine(st), st, uuid.New()
}

func seedCandidates(t *testing.T, st *store.Store, tenant uuid.UUID) {
	t.Helper()
	ctx := context.Background()

	for _, name := range []string{"Backlog", "Open", "In Progress", "Done"} {
		require.NoError(t, st.InsertStatus(ctx, &store.Status{WorkspaceID: tenant, Name: name}))
	}
	for rank, name := range []string{"Urgent", "High", "Medium", "Low"} {
		require.NoError(t, st.InsertPriority(ctx, &store.Priority{WorkspaceID: tenant, Name: name, Rank: rank}))
	}
	require.NoError(t, st.InsertUser(ctx, &store.User{WorkspaceID: tenant, Name: "Ana Silva", Email: "ana@example.com"}))
	require.NoError(t, st.InsertUser(ctx, &store.User{WorkspaceID: tenant, Name: "Ben Okafor", Email: "ben@example.com"}))
	require.NoError(t, st.InsertProject(ctx, &store.Project{WorkspaceID: tenant, Name: "Atlas"}))
	require.NoError(t, st.InsertProject(ctx, &store.Project{WorkspaceID: tenant, Name: "Borealis"}))
}

func TestSuggest_ScopedPopulatesOneList(t *testing.T) {
	engine, st, tenant := newTestEngine(t)
	seedCandidates(t, st, tenant)

	set, err := engine.Suggest(context.Background(), tenant, "o", FieldStatus)
	require.NoError(t, err)

	// "Backlog", "Open", "In Progress", "Done" all contain an 'o'.
	assert.Len(t, set.Statuses, 4)
	assert.Empty(t, set.Users)
	assert.Empty(t, set.Priorities)
	assert.Empty(t, set.Projects)
}

func TestSuggest_UnscopedQueriesAllCategories(t *testing.T) {
	engine, st, tenant := newTestEngine(t)
	seedCandidates(t, st, tenant)

	set, err := engine.Suggest(context.Background(), tenant, "", "")
	require.NoError(t, err)

	assert.NotEmpty(t, set.Statuses)
	assert.NotEmpty(t, set.Users)
	assert.NotEmpty(t, set.Priorities)
	assert.NotEmpty(t, set.Projects)
}

func TestSuggest_MatchIsCaseInsensitiveSubstring(t *testing.T) {
	engine, st, tenant := newTestEngine(t)
	seedCandidates(t, st, tenant)

	set, err := engine.Suggest(context.Background(), tenant, "PROG", FieldStatus)
	require.NoError(t, err)
	require.Len(t, set.Statuses, 1)
	assert.Equal(t, "In Progress", set.Statuses[0].Name)
}

func TestSuggest_UserMatchesEmail(t *testing.T) {
	engine, st, tenant := newTestEngine(t)
	seedCandidates(t, st, tenant)

	set, err := engine.Suggest(context.Background(), tenant, "ana@", FieldAssignee)
	require.NoError(t, err)
	require.Len(t, set.Users, 1)
	assert.Equal(t, "Ana Silva", set.Users[0].Name)
}

func TestSuggest_PrioritiesOrderedByRank(t *testing.T) {
	engine, st, tenant := newTestEngine(t)
	seedCandidates(t, st, tenant)

	set, err := engine.Suggest(context.Background(), tenant, "", FieldPriority)
	require.NoError(t, err)
	require.Len(t, set.Priorities, 4)
	assert.Equal(t, "Urgent", set.Priorities[0].Name)
	assert.Equal(t, "Low", set.Priorities[3].Name)
}

func TestSuggest_Caps(t *testing.T) {
	engine, st, tenant := newTestEngine(t)
	ctx := context.Background()

	for i := 0; i < 15; i++ {
		require.NoError(t, st.InsertStatus(ctx, &store.Status{
			WorkspaceID: tenant,
			Name:        fmt.Sprintf("Stage %02d", i),
		}))
	}

	scoped, err := engine.Suggest(ctx, tenant, "stage", FieldStatus)
	require.NoError(t, err)
	assert.Len(t, scoped.Statuses, scopedCap)

	unscoped, err := engine.Suggest(ctx, tenant, "stage", "")
	require.NoError(t, err)
	assert.Len(t, unscoped.Statuses, unscopedCap)
}

func TestSuggest_TenantScoped(t *testing.T) {
	engine, st, tenant := newTestEngine(t)
	seedCandidates(t, st, tenant)

	other := uuid.New()
	set, err := engine.Suggest(context.Background(), other, "", "")
	require.NoError(t, err)
	assert.Empty(t, set.Statuses)
	assert.Empty(t, set.Users)
	assert.Empty(t, set.Priorities)
	assert.Empty(t, set.Projects)
}

func TestSuggest_UnknownField(t *testing.T) {
	engine, _, tenant := newTestEngine(t)

	_, err := engine.Suggest(context.Background(), tenant, "x", "flavor")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown suggestion field")
}

func TestSuggest_EmptyListsAreNonNil(t *testing.T) {
	engine, _, tenant := newTestEngine(t)

	set, err := engine.Suggest(context.Background(), tenant, "nothing", FieldProject)
	require.NoError(t, err)
	assert.NotNil(t, set.Projects)
	assert.NotNil(t, set.Statuses)
}
