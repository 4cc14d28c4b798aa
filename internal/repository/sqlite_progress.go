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

// SQLiteProgressRepo implements ProgressRepo. One counters row per goal.
type SQLiteProgressRepo struct {
	db db.DBTX
}

// NewSQLiteProgressRepo creates a new SQLiteProgressRepo.
func NewSQLiteProgressRepo(dbtx db.DBTX) *SQLiteProgressRepo {
	return &SQLiteProgressRepo{db: dbtx}
}

func (r *SQLiteProgressRepo) Get(ctx context.Context, goalID string) (*domain.ProgressCounters, error) {
	row := r.db.QueryRowContext(ctx, `SELECT goal_id, total_actions, completed_actions,
			current_streak, longest_streak, last_activity_at, updated_at
		FROM progress_counters WHERE goal_id = ?`, goalID)

	var c domain.ProgressCounters
	var lastActivity sql.NullString
	var updatedAt string
	err := row.Scan(&c.GoalID, &c.TotalActions, &c.CompletedActions,
		&c.CurrentStreak, &c.LongestStreak, &lastActivity, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("progress counters for goal %s: %w", goalID, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("scanning progress counters: %w", err)
	}
	c.LastActivityAt = parseNullableTime(lastActivity, time.RFC3339)
	c.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	return &c, nil
}

func (r *SQLiteProgressRepo) Upsert(ctx context.Context, c *domain.ProgressCounters) error {
	_, err := r.db.ExecContext(ctx, `INSERT INTO progress_counters
			(goal_id, total_actions, completed_actions, current_streak, longest_streak, last_activity_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(goal_id) DO UPDATE SET
			total_actions = excluded.total_actions,
			completed_actions = excluded.completed_actions,
			current_streak = excluded.current_streak,
			longest_streak = excluded.longest_streak,
			last_activity_at = excluded.last_activity_at,
			updated_at = excluded.updated_at`,
		c.GoalID,
		c.TotalActions,
		c.CompletedActions,
		c.CurrentStreak,
		c.LongestStreak,
		nullableTimeToString(c.LastActivityAt, time.RFC3339),
		c.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("upserting progress counters: %w", err)
	}
	return nil
}
