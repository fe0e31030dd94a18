// Package memory holds map-backed implementations of the project and command
// store contracts. They back the unit tests and let the service run without
// Postgres in development.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	cmddomain "github.com/emergent-shell/shell-backend/internal/commands/domain"
	projdomain "github.com/emergent-shell/shell-backend/internal/projects/domain"
)

// ProjectStore mirrors the Postgres project repository. Every exported
// method is a single atomic operation under the mutex, matching the
// one-statement-per-mutation rule of the SQL layer.
type ProjectStore struct {
	mu    sync.RWMutex
	items map[string]projdomain.Project
	order []string
}

func NewProjectStore() *ProjectStore {
	return &ProjectStore{items: make(map[string]projdomain.Project)}
}

func (s *ProjectStore) Create(_ context.Context, p projdomain.Project) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for {
		id, err := projdomain.NewPublicID("proj")
		if err != nil {
			return "", err
		}
		if _, exists := s.items[id]; exists {
			continue
		}
		p.ID = id
		break
	}

	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	s.items[p.ID] = p
	s.order = append(s.order, p.ID)
	return p.ID, nil
}

func (s *ProjectStore) ListByOwner(_ context.Context, ownerID string) ([]projdomain.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]projdomain.Project, 0, 16)
	// Newest first, as the SQL repo orders by created_at desc.
	for i := len(s.order) - 1; i >= 0; i-- {
		p := s.items[s.order[i]]
		if p.OwnerID == ownerID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *ProjectStore) Get(_ context.Context, id, ownerID string) (projdomain.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.items[id]
	if !ok || p.OwnerID != ownerID {
		return projdomain.Project{}, projdomain.ErrNotFound
	}
	return p, nil
}

func (s *ProjectStore) UpdateCode(_ context.Context, id, ownerID, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.items[id]
	if !ok || p.OwnerID != ownerID {
		return projdomain.ErrNotFound
	}
	p.Code = code
	s.items[id] = p
	return nil
}

// CommandStore mirrors the Postgres command repository, including the
// guarded single-shot Complete patch.
type CommandStore struct {
	mu    sync.RWMutex
	items map[string]cmddomain.Command
}

func NewCommandStore() *CommandStore {
	return &CommandStore{items: make(map[string]cmddomain.Command)}
}

func (s *CommandStore) InsertPending(_ context.Context, c cmddomain.Command) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items[c.ID] = c
	return nil
}

func (s *CommandStore) Get(_ context.Context, id, ownerID string) (cmddomain.Command, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.items[id]
	if !ok || c.OwnerID != ownerID {
		return cmddomain.Command{}, cmddomain.ErrNotFound
	}
	return c, nil
}

func (s *CommandStore) ListByOwner(_ context.Context, ownerID, projectID string, limit int) ([]cmddomain.Command, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]cmddomain.Command, 0, limit)
	for _, c := range s.items {
		if c.OwnerID != ownerID {
			continue
		}
		if projectID != "" && c.ProjectID != projectID {
			continue
		}
		out = append(out, c)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].Timestamp.After(out[j].Timestamp)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *CommandStore) Complete(_ context.Context, id, output string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.items[id]
	if !ok || c.Status != cmddomain.StatusPending {
		return false, nil
	}

	now := time.Now().UTC()
	c.Status = cmddomain.StatusCompleted
	c.Output = output
	c.CompletedAt = &now
	s.items[id] = c
	return true, nil
}

func (s *CommandStore) CompleteStale(_ context.Context, cutoff time.Time, output string) ([]cmddomain.Command, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []cmddomain.Command
	now := time.Now().UTC()
	for id, c := range s.items {
		if c.Status != cmddomain.StatusPending || !c.Timestamp.Before(cutoff) {
			continue
		}
		c.Status = cmddomain.StatusCompleted
		c.Output = output
		c.CompletedAt = &now
		s.items[id] = c
		out = append(out, c)
	}
	return out, nil
}
