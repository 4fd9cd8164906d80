package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lodestar-hq/lodestar/internal/store"
)

type env struct {
	store  *store.Store
	srv    *httptest.Server
	tenant uuid.UUID
	actor  uuid.UUID
}

func newEnv(t *testing.T) *env {
	t.Helper()
	db, err := store.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	st := store.New(db, zerolog.Nop())
	require.NoError(t, st.Migrate(context.Background()))

	srv := httptest.NewServer(Router(st, zerolog.Nop()))
	t.Cleanup(srv.Close)

	return &env{store: st, srv: srv, tenant: uuid.New(), actor: uuid.New()}
}

// do issues a request with the identity headers set, decoding the JSON
// response into out when it is non-nil.
func (e *env) do(t *testing.T, method, path string, body any, out any) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, e.srv.URL+path, &buf)
	require.NoError(t, err)
	req.Header.Set("X-Actor-ID", e.actor.String())
	req.Header.Set("X-Workspace-ID", e.tenant.String())

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp
}

func TestHealthz(t *testing.T) {
	e := newEnv(t)

	resp, err := http.Get(e.srv.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestIdentityRequired(t *testing.T) {
	e := newEnv(t)

	// No headers at all.
	resp, err := http.Post(e.srv.URL+"/v1/search", "application/json", bytes.NewBufferString(`{}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// Actor present, workspace missing.
	req, err := http.NewRequest(http.MethodPost, e.srv.URL+"/v1/search", bytes.NewBufferString(`{}`))
	require.NoError(t, err)
	req.Header.Set("X-Actor-ID", uuid.NewString())
	resp2, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp2.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp2.StatusCode)

	// Malformed workspace id.
	req, err = http.NewRequest(http.MethodPost, e.srv.URL+"/v1/search", bytes.NewBufferString(`{}`))
	require.NoError(t, err)
	req.Header.Set("X-Actor-ID", uuid.NewString())
	req.Header.Set("X-Workspace-ID", "not-a-uuid")
	resp3, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp3.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp3.StatusCode)
}

func TestSearchEndpoint(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	status := &store.Status{WorkspaceID: e.tenant, Name: "Open"}
	require.NoError(t, e.store.InsertStatus(ctx, status))
	for i := 0; i < 3; i++ {
		require.NoError(t, e.store.InsertIssue(ctx, &store.Issue{
			WorkspaceID: e.tenant,
			Title:       fmt.Sprintf("issue %d", i),
			StatusID:    status.ID,
		}))
	}

	var page struct {
		Items []json.RawMessage `json:"items"`
		Total int               `json:"total"`
	}
	resp := e.do(t, http.MethodPost, "/v1/search", map[string]any{"query": `status = "Open"`}, &page)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, page.Items, 3)
	assert.Equal(t, 3, page.Total)
}

func TestSearchEndpoint_BadSyntaxIsNotAnError(t *testing.T) {
	e := newEnv(t)

	var page struct {
		Items []json.RawMessage `json:"items"`
	}
	resp := e.do(t, http.MethodPost, "/v1/search", map[string]any{"query": "((("}, &page)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotNil(t, page.Items)
}

func TestFilterLifecycle(t *testing.T) {
	e := newEnv(t)

	var created store.SavedFilter
	resp := e.do(t, http.MethodPost, "/v1/filters", map[string]any{
		"name":  "my bugs",
		"query": `status = "Open"`,
	}, &created)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, e.actor, created.OwnerID)

	var updated store.SavedFilter
	resp = e.do(t, http.MethodPatch, "/v1/filters/"+created.ID.String(), map[string]any{
		"name": "renamed",
	}, &updated)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "renamed", updated.Name)

	var listed struct {
		Filters []*store.SavedFilter `json:"filters"`
	}
	resp = e.do(t, http.MethodGet, "/v1/filters", nil, &listed)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, listed.Filters, 1)

	resp = e.do(t, http.MethodDelete, "/v1/filters/"+created.ID.String(), nil, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = e.do(t, http.MethodGet, "/v1/filters", nil, &listed)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, listed.Filters)
}

func TestFilterOwnershipOverHTTP(t *testing.T) {
	e := newEnv(t)

	var created store.SavedFilter
	resp := e.do(t, http.MethodPost, "/v1/filters", map[string]any{
		"name":   "shared",
		"query":  "q",
		"shared": true,
	}, &created)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	// Same tenant, different actor.
	other := &env{store: e.store, srv: e.srv, tenant: e.tenant, actor: uuid.New()}

	resp = other.do(t, http.MethodPatch, "/v1/filters/"+created.ID.String(), map[string]any{
		"name": "stolen",
	}, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	// Different tenant never even sees it.
	foreign := &env{store: e.store, srv: e.srv, tenant: uuid.New(), actor: e.actor}
	resp = foreign.do(t, http.MethodPatch, "/v1/filters/"+created.ID.String(), map[string]any{
		"name": "x",
	}, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestSuggestEndpoint(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	require.NoError(t, e.store.InsertStatus(ctx, &store.Status{WorkspaceID: e.tenant, Name: "Open"}))
	require.NoError(t, e.store.InsertStatus(ctx, &store.Status{WorkspaceID: e.tenant, Name: "Done"}))

	var set struct {
		Statuses []*store.Status `json:"statuses"`
		Users    []*store.User   `json:"users"`
	}
	resp := e.do(t, http.MethodGet, "/v1/suggest?partial=op&field=status", nil, &set)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, set.Statuses, 1)
	assert.Equal(t, "Open", set.Statuses[0].Name)
	assert.Empty(t, set.Users)

	resp = e.do(t, http.MethodGet, "/v1/suggest?field=flavor", nil, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
