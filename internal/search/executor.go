package search

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/lodestar-hq/lodestar/internal/lql"
	"github.com/lodestar-hq/lodestar/internal/store"
)

// Page size bounds per entry point.
const (
	DefaultLimit = 50
	MaxLimit     = 200

	QuickDefaultLimit = 10
	QuickMaxLimit     = 50
)

// Request is one search invocation: a raw query string plus pagination.
type Request struct {
	Query  string `json:"query"`
	Cursor string `json:"cursor,omitempty"`
	Limit  int    `json:"limit,omitempty"`
}

// ResultPage is one page of search results. NextCursor is present exactly
// when the page is full; it signals that more records may exist, not that
// they do. Total is an independent count over the same predicate, not the
// same snapshot instant as Items.
type ResultPage struct {
	Items      []*store.Issue `json:"items"`
	NextCursor string         `json:"next_cursor,omitempty"`
	Total      int            `json:"total"`
}

// QuickResult holds the two bounded quick-search lists.
type QuickResult struct {
	Issues   []*store.Issue   `json:"issues"`
	Projects []*store.Project `json:"projects"`
}

// Executor turns raw query strings into executed, paginated result pages.
// It is stateless between calls; the store owns all shared state.
type Executor struct {
	store *store.Store
	log   zerolog.Logger
}

// NewExecutor creates an executor over the record store.
func NewExecutor(st *store.Store, log zerolog.Logger) *Executor {
	return &Executor{store: st, log: log.With().Str("component", "search").Logger()}
}

// Search parses, plans, and executes a query. Input that does not parse as
// LQL is never an error: it degrades to substring matching via the fallback
// plan. Only store failures surface to the caller.
func (e *Executor) Search(ctx context.Context, tenantID uuid.UUID, req Request) (*ResultPage, error) {
	limit := clampLimit(req.Limit, DefaultLimit, MaxLimit)
	plan := e.planFor(req.Query)
	keys := effectiveSortKeys(plan)
	t := issuesTable()

	sel := e.store.IssueSelector(tenantID)
	if plan.Predicate != nil {
		sel.Where(renderPredicate(t, plan.Predicate))
	}

	if req.Cursor != "" {
		if lastID, ok := DecodeCursor(req.Cursor); ok {
			row, err := e.store.IssueByID(ctx, tenantID, lastID)
			switch {
			case err == nil:
				sel.Where(afterPredicate(t, keys, row))
			case errors.Is(err, store.ErrNotFound):
				// Cursor row is gone; restart from the first page.
			default:
				return nil, err
			}
		}
	}

	sel.OrderBy(orderColumns(t, keys)...).Limit(limit)
	items, err := e.store.QueryIssues(ctx, sel)
	if err != nil {
		return nil, err
	}

	countSel := e.store.IssueCountSelector(tenantID)
	if plan.Predicate != nil {
		countSel.Where(renderPredicate(t, plan.Predicate))
	}
	total, err := e.store.QueryIssueCount(ctx, countSel)
	if err != nil {
		return nil, err
	}

	page := &ResultPage{Items: items, Total: total}
	if page.Items == nil {
		page.Items = []*store.Issue{}
	}
	if len(items) == limit {
		page.NextCursor = EncodeCursor(items[len(items)-1].ID)
	}
	return page, nil
}

// QuickSearch returns two independent bounded lists for the given term.
func (e *Executor) QuickSearch(ctx context.Context, tenantID uuid.UUID, term string, limit int) (*QuickResult, error) {
	limit = clampLimit(limit, QuickDefaultLimit, QuickMaxLimit)

	issues, err := e.store.QuickSearchIssues(ctx, tenantID, term, limit)
	if err != nil {
		return nil, err
	}
	projects, err := e.store.MatchProjects(ctx, tenantID, term, limit)
	if err != nil {
		return nil, err
	}

	res := &QuickResult{Issues: issues, Projects: projects}
	if res.Issues == nil {
		res.Issues = []*store.Issue{}
	}
	if res.Projects == nil {
		res.Projects = []*store.Project{}
	}
	return res, nil
}

// planFor selects the structured plan when the query parses and compiles,
// and the text fallback otherwise.
func (e *Executor) planFor(raw string) *Plan {
	if strings.TrimSpace(raw) == "" {
		return &Plan{}
	}
	q, parseErrs := lql.Parse(raw, FieldNames())
	if len(parseErrs) > 0 {
		e.log.Debug().Str("query", raw).Str("reason", parseErrs[0].Error()).Msg("falling back to text search")
		return Fallback(raw)
	}
	plan, err := Compile(q)
	if err != nil {
		e.log.Debug().Str("query", raw).Str("reason", err.Error()).Msg("falling back to text search")
		return Fallback(raw)
	}
	return plan
}

func clampLimit(limit, def, max int) int {
	if limit <= 0 {
		return def
	}
	if limit > max {
		return max
	}
	return limit
}
