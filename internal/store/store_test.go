package store

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_RegistersDriver(t *testing.T) {
	db, err := Open(":memory:")
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, db.Ping())
}

func TestOpenMigrateRoundTrip(t *testing.T) {
	ctx := context.Background()

	db, err := Open(":memory:")
	require.NoError(t, err)
	defer db.Close()

	st := New(db, zerolog.Nop())
	require.NoError(t, st.Migrate(ctx))

	tenant := uuid.New()
	status := &Status{WorkspaceID: tenant, Name: "Open"}
	require.NoError(t, st.InsertStatus(ctx, status))

	issue := &Issue{
		WorkspaceID: tenant,
		Title:       "roundtrip",
		StatusID:    status.ID,
	}
	require.NoError(t, st.InsertIssue(ctx, issue))

	got, err := st.IssueByID(ctx, tenant, issue.ID)
	require.NoError(t, err)
	assert.Equal(t, "roundtrip", got.Title)
	assert.Equal(t, status.ID, got.StatusID)
}
