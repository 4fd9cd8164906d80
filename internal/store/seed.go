package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Seed populates a workspace with a small development dataset. It is only
// wired behind the config flag; production schemas start empty.
func (s *Store) Seed(ctx context.Context, tenantID uuid.UUID) error {
	statuses := []*Status{
		{WorkspaceID: tenantID, Name: "Backlog"},
		{WorkspaceID: tenantID, Name: "Open"},
		{WorkspaceID: tenantID, Name: "In Progress"},
		{WorkspaceID: tenantID, Name: "Done"},
	}
	for _, st := range statuses {
		if err := s.InsertStatus(ctx, st); err != nil {
			return err
		}
	}

	priorities := []*Priority{
		{WorkspaceID: tenantID, Name: "Urgent", Rank: 0},
		{WorkspaceID: tenantID, Name: "High", Rank: 1},
		{WorkspaceID: tenantID, Name: "Medium", Rank: 2},
		{WorkspaceID: tenantID, Name: "Low", Rank: 3},
	}
	for _, p := range priorities {
		if err := s.InsertPriority(ctx, p); err != nil {
			return err
		}
	}

	users := []*User{
		{WorkspaceID: tenantID, Name: "Ana Flores", Email: "ana@example.com"},
		{WorkspaceID: tenantID, Name: "Ravi Nair", Email: "ravi@example.com"},
	}
	for _, u := range users {
		if err := s.InsertUser(ctx, u); err != nil {
			return err
		}
	}

	project := &Project{WorkspaceID: tenantID, Name: "Launch"}
	if err := s.InsertProject(ctx, project); err != nil {
		return err
	}

	base := time.Now().UTC().Add(-24 * time.Hour)
	for i := 0; i < 12; i++ {
		issue := &Issue{
			WorkspaceID: tenantID,
			Title:       fmt.Sprintf("Sample issue %d", i+1),
			Description: "Seeded for local development",
			StatusID:    statuses[i%len(statuses)].ID,
			AssigneeID:  &users[i%len(users)].ID,
			PriorityID:  &priorities[i%len(priorities)].ID,
			ProjectID:   &project.ID,
			CreatedAt:   base.Add(time.Duration(i) * time.Minute),
		}
		if err := s.InsertIssue(ctx, issue); err != nil {
			return err
		}
	}

	s.log.Info().Str("workspace", tenantID.String()).Msg("seeded development data")
	return nil
}
