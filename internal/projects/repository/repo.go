package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/emergent-shell/shell-backend/internal/projects/domain"
)

const idPrefix = "proj"

// Repo persists projects in Postgres.
type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{db: db}
}

const projectColumns = `id, name, type, language, code, coalesce(description, ''), owner_id, is_public, created_at`

func scanProject(row pgx.Row) (domain.Project, error) {
	var p domain.Project
	err := row.Scan(&p.ID, &p.Name, &p.Type, &p.Language, &p.Code, &p.Description, &p.OwnerID, &p.IsPublic, &p.CreatedAt)
	return p, err
}

// Create inserts a new project owned by p.OwnerID and returns its id.
func (r *Repo) Create(ctx context.Context, p domain.Project) (string, error) {
	if p.Name == "" {
		return "", fmt.Errorf("name required")
	}
	if p.OwnerID == "" {
		return "", fmt.Errorf("owner id required")
	}

	for i := 0; i < 5; i++ {
		id, err := domain.NewPublicID(idPrefix)
		if err != nil {
			return "", err
		}

		const q = `
insert into projects (id, name, type, language, code, description, owner_id, is_public)
values ($1, $2, $3, $4, $5, nullif($6, ''), $7, $8)
returning id;
`
		err = r.db.QueryRow(ctx, q, id, p.Name, p.Type, p.Language, p.Code, p.Description, p.OwnerID, p.IsPublic).Scan(&id)
		if err == nil {
			return id, nil
		}

		// unique violation on id → retry
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			continue
		}
		return "", err
	}

	return "", fmt.Errorf("failed to generate unique project id")
}

// ListByOwner returns all projects for the given owner, newest first.
func (r *Repo) ListByOwner(ctx context.Context, ownerID string) ([]domain.Project, error) {
	const q = `
select ` + projectColumns + `
from projects
where owner_id = $1
order by created_at desc;
`
	rows, err := r.db.Query(ctx, q, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.Project, 0, 16)
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// Get returns a project scoped to its owner. A missing row and an ownership
// mismatch are indistinguishable to the caller.
func (r *Repo) Get(ctx context.Context, id, ownerID string) (domain.Project, error) {
	const q = `
select ` + projectColumns + `
from projects
where id = $1 and owner_id = $2;
`
	p, err := scanProject(r.db.QueryRow(ctx, q, id, ownerID))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Project{}, domain.ErrNotFound
	}
	return p, err
}

// UpdateCode replaces the project's code. Last write wins; there is no
// concurrency token. The ownership check is part of the statement itself.
func (r *Repo) UpdateCode(ctx context.Context, id, ownerID, code string) error {
	const q = `
update projects
set code = $3
where id = $1 and owner_id = $2;
`
	ct, err := r.db.Exec(ctx, q, id, ownerID, code)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
