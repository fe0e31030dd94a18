// Package service exposes the project boundary operations. Reads fail closed
// (empty results) for unresolved identities; writes reject them.
package service

import (
	"context"
	"strings"

	"github.com/emergent-shell/shell-backend/internal/auth"
	"github.com/emergent-shell/shell-backend/internal/projects/domain"
)

// Store is the project persistence contract, satisfied by the Postgres repo
// and the in-memory store.
type Store interface {
	Create(ctx context.Context, p domain.Project) (string, error)
	ListByOwner(ctx context.Context, ownerID string) ([]domain.Project, error)
	Get(ctx context.Context, id, ownerID string) (domain.Project, error)
	UpdateCode(ctx context.Context, id, ownerID, code string) error
}

type Service struct {
	store Store
}

func New(store Store) *Service {
	return &Service{store: store}
}

// Create inserts a project for ownerID. Language defaults to "javascript"
// when unspecified.
func (s *Service) Create(ctx context.Context, p domain.Project) (string, error) {
	if strings.TrimSpace(p.OwnerID) == "" {
		return "", auth.ErrNotAuthenticated
	}
	if _, err := domain.ParseProjectType(string(p.Type)); err != nil {
		return "", err
	}
	if p.Language == "" {
		p.Language = "javascript"
	}
	return s.store.Create(ctx, p)
}

// List returns the owner's projects, or nothing for an unresolved identity.
func (s *Service) List(ctx context.Context, ownerID string) ([]domain.Project, error) {
	if strings.TrimSpace(ownerID) == "" {
		return []domain.Project{}, nil
	}
	return s.store.ListByOwner(ctx, ownerID)
}

// Get returns ErrNotFound for missing and non-owned projects alike.
func (s *Service) Get(ctx context.Context, id, ownerID string) (domain.Project, error) {
	if strings.TrimSpace(ownerID) == "" {
		return domain.Project{}, domain.ErrNotFound
	}
	return s.store.Get(ctx, id, ownerID)
}

// UpdateCode overwrites the project's code (last write wins).
func (s *Service) UpdateCode(ctx context.Context, id, ownerID, code string) error {
	if strings.TrimSpace(ownerID) == "" {
		return domain.ErrNotFound
	}
	return s.store.UpdateCode(ctx, id, ownerID, code)
}
