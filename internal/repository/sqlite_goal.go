package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/telos-app/telos/internal/db"
	"github.com/telos-app/telos/internal/domain"
)

// SQLiteGoalRepo implements GoalRepo over a SQLite connection or transaction.
type SQLiteGoalRepo struct {
	db db.DBTX
}

// NewSQLiteGoalRepo creates a new SQLiteGoalRepo.
func NewSQLiteGoalRepo(dbtx db.DBTX) *SQLiteGoalRepo {
	return &SQLiteGoalRepo{db: dbtx}
}

func (r *SQLiteGoalRepo) Create(ctx context.Context, g *domain.Goal) error {
	query := `INSERT INTO goals (id, statement, domain_tag, archived_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		g.ID,
		g.Statement,
		g.DomainTag,
		nullableTimeToString(g.ArchivedAt, time.RFC3339),
		g.CreatedAt.Format(time.RFC3339),
		g.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting goal: %w", err)
	}
	return nil
}

func (r *SQLiteGoalRepo) GetByID(ctx context.Context, id string) (*domain.Goal, error) {
	query := `SELECT id, statement, domain_tag, archived_at, created_at, updated_at
		FROM goals WHERE id = ?`
	g, err := scanGoal(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("goal %s: %w", id, domain.ErrNotFound)
	}
	return g, err
}

func (r *SQLiteGoalRepo) List(ctx context.Context, includeArchived bool) ([]*domain.Goal, error) {
	query := `SELECT id, statement, domain_tag, archived_at, created_at, updated_at
		FROM goals`
	if !includeArchived {
		query += ` WHERE archived_at IS NULL`
	}
	query += ` ORDER BY created_at`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing goals: %w", err)
	}
	defer rows.Close()

	var out []*domain.Goal
	for rows.Next() {
		g, err := scanGoal(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

func (r *SQLiteGoalRepo) Update(ctx context.Context, g *domain.Goal) error {
	query := `UPDATE goals SET statement = ?, domain_tag = ?, archived_at = ?, updated_at = ?
		WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		g.Statement,
		g.DomainTag,
		nullableTimeToString(g.ArchivedAt, time.RFC3339),
		nowUTC(),
		g.ID,
	)
	if err != nil {
		return fmt.Errorf("updating goal: %w", err)
	}
	return requireRow(res, g.ID)
}

func (r *SQLiteGoalRepo) Archive(ctx context.Context, id string) error {
	query := `UPDATE goals SET archived_at = ?, updated_at = ? WHERE id = ? AND archived_at IS NULL`
	res, err := r.db.ExecContext(ctx, query, nowUTC(), nowUTC(), id)
	if err != nil {
		return fmt.Errorf("archiving goal: %w", err)
	}
	return requireRow(res, id)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanGoal(row rowScanner) (*domain.Goal, error) {
	var g domain.Goal
	var archivedAt sql.NullString
	var createdAt, updatedAt string
	if err := row.Scan(&g.ID, &g.Statement, &g.DomainTag, &archivedAt, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning goal: %w", err)
	}
	g.ArchivedAt = parseNullableTime(archivedAt, time.RFC3339)
	g.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	g.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	return &g, nil
}

// requireRow converts a zero-row update into domain.ErrNotFound.
func requireRow(res sql.Result, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", id, domain.ErrNotFound)
	}
	return nil
}
