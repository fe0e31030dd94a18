package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/emergent-shell/shell-backend/internal/commands/domain"
)

// Repo persists commands in Postgres. Every statement is a single atomic
// insert or patch; ownership lives in the WHERE clause, never in a prior
// read.
type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{db: db}
}

const commandColumns = `id, command, coalesce(project_id, ''), owner_id, status, output, created_at, completed_at`

func scanCommand(row pgx.Row) (domain.Command, error) {
	var c domain.Command
	err := row.Scan(&c.ID, &c.Command, &c.ProjectID, &c.OwnerID, &c.Status, &c.Output, &c.Timestamp, &c.CompletedAt)
	return c, err
}

// InsertPending stores a freshly submitted command with the placeholder
// output (phase 1 of the dispatch protocol).
func (r *Repo) InsertPending(ctx context.Context, c domain.Command) error {
	const q = `
insert into commands (id, command, project_id, owner_id, status, output, created_at)
values ($1, $2, nullif($3, ''), $4, $5, $6, $7);
`
	_, err := r.db.Exec(ctx, q, c.ID, c.Command, c.ProjectID, c.OwnerID, c.Status, c.Output, c.Timestamp)
	return err
}

// Get returns a command scoped to its owner; a mismatch reads as not found.
func (r *Repo) Get(ctx context.Context, id, ownerID string) (domain.Command, error) {
	const q = `
select ` + commandColumns + `
from commands
where id = $1 and owner_id = $2;
`
	c, err := scanCommand(r.db.QueryRow(ctx, q, id, ownerID))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Command{}, domain.ErrNotFound
	}
	return c, err
}

// ListByOwner returns the newest commands for (owner) or (owner, project),
// descending by creation time, capped at limit.
func (r *Repo) ListByOwner(ctx context.Context, ownerID, projectID string, limit int) ([]domain.Command, error) {
	const q = `
select ` + commandColumns + `
from commands
where owner_id = $1 and ($2 = '' or project_id = $2)
order by created_at desc
limit $3;
`
	rows, err := r.db.Query(ctx, q, ownerID, projectID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.Command, 0, limit)
	for rows.Next() {
		c, err := scanCommand(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// Complete patches the output and flips pending→completed. The status guard
// makes the transition happen at most once, so re-running phase 2 (or racing
// the janitor) is safe. Returns false when the command was already completed.
func (r *Repo) Complete(ctx context.Context, id, output string) (bool, error) {
	const q = `
update commands
set status = $3, output = $2, completed_at = now()
where id = $1 and status = $4;
`
	ct, err := r.db.Exec(ctx, q, id, output, domain.StatusCompleted, domain.StatusPending)
	if err != nil {
		return false, err
	}
	return ct.RowsAffected() > 0, nil
}

// CompleteStale completes every command still pending from before the cutoff
// and returns them so the caller can publish patch events.
func (r *Repo) CompleteStale(ctx context.Context, cutoff time.Time, output string) ([]domain.Command, error) {
	const q = `
update commands
set status = $3, output = $2, completed_at = now()
where status = $4 and created_at < $1
returning ` + commandColumns + `;
`
	rows, err := r.db.Query(ctx, q, cutoff, output, domain.StatusCompleted, domain.StatusPending)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Command
	for rows.Next() {
		c, err := scanCommand(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
