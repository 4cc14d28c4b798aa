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

// SQLiteDiscoveryRepo implements DiscoverySessionRepo. Sessions are saved
// whole: the session row is upserted and the turn rows rewritten from the
// in-memory slice, so the row set always mirrors the value last saved.
type SQLiteDiscoveryRepo struct {
	db db.DBTX
}

// NewSQLiteDiscoveryRepo creates a new SQLiteDiscoveryRepo.
func NewSQLiteDiscoveryRepo(dbtx db.DBTX) *SQLiteDiscoveryRepo {
	return &SQLiteDiscoveryRepo{db: dbtx}
}

func (r *SQLiteDiscoveryRepo) Save(ctx context.Context, s *domain.DiscoverySession) error {
	_, err := r.db.ExecContext(ctx, `INSERT INTO discovery_sessions
			(id, goal_id, depth_level, status, root_motivation, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			depth_level = excluded.depth_level,
			status = excluded.status,
			root_motivation = excluded.root_motivation,
			updated_at = excluded.updated_at`,
		s.ID,
		s.GoalID,
		s.DepthLevel,
		string(s.Status),
		s.RootMotivation,
		s.CreatedAt.Format(time.RFC3339),
		s.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("upserting discovery session: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, `DELETE FROM discovery_turns WHERE session_id = ?`, s.ID); err != nil {
		return fmt.Errorf("clearing discovery turns: %w", err)
	}
	for _, t := range s.Turns {
		_, err := r.db.ExecContext(ctx, `INSERT INTO discovery_turns
				(session_id, depth_level, question, reflection, user_response, asked_at)
			VALUES (?, ?, ?, ?, ?, ?)`,
			s.ID, t.DepthLevel, t.Question, t.Reflection, t.UserResponse,
			t.AskedAt.Format(time.RFC3339),
		)
		if err != nil {
			return fmt.Errorf("inserting discovery turn %d: %w", t.DepthLevel, err)
		}
	}
	return nil
}

func (r *SQLiteDiscoveryRepo) GetByID(ctx context.Context, id string) (*domain.DiscoverySession, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id, goal_id, depth_level, status, root_motivation, created_at, updated_at
		FROM discovery_sessions WHERE id = ?`, id)
	s, err := r.scanSession(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("discovery session %s: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	if err := r.loadTurns(ctx, s); err != nil {
		return nil, err
	}
	return s, nil
}

func (r *SQLiteDiscoveryRepo) GetActiveByGoal(ctx context.Context, goalID string) (*domain.DiscoverySession, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id, goal_id, depth_level, status, root_motivation, created_at, updated_at
		FROM discovery_sessions
		WHERE goal_id = ? AND status = 'in_progress'
		ORDER BY created_at DESC LIMIT 1`, goalID)
	s, err := r.scanSession(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("active session for goal %s: %w", goalID, domain.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	if err := r.loadTurns(ctx, s); err != nil {
		return nil, err
	}
	return s, nil
}

func (r *SQLiteDiscoveryRepo) ListByGoal(ctx context.Context, goalID string) ([]*domain.DiscoverySession, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, goal_id, depth_level, status, root_motivation, created_at, updated_at
		FROM discovery_sessions WHERE goal_id = ? ORDER BY created_at`, goalID)
	if err != nil {
		return nil, fmt.Errorf("listing discovery sessions: %w", err)
	}
	defer rows.Close()

	var out []*domain.DiscoverySession
	for rows.Next() {
		s, err := r.scanSession(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, s := range out {
		if err := r.loadTurns(ctx, s); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (r *SQLiteDiscoveryRepo) scanSession(row rowScanner) (*domain.DiscoverySession, error) {
	var s domain.DiscoverySession
	var status, createdAt, updatedAt string
	err := row.Scan(&s.ID, &s.GoalID, &s.DepthLevel, &status, &s.RootMotivation, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning discovery session: %w", err)
	}
	s.Status = domain.SessionStatus(status)
	s.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	s.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	return &s, nil
}

func (r *SQLiteDiscoveryRepo) loadTurns(ctx context.Context, s *domain.DiscoverySession) error {
	rows, err := r.db.QueryContext(ctx, `SELECT depth_level, question, reflection, user_response, asked_at
		FROM discovery_turns WHERE session_id = ? ORDER BY depth_level`, s.ID)
	if err != nil {
		return fmt.Errorf("loading discovery turns: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var t domain.DiscoveryTurn
		var askedAt string
		if err := rows.Scan(&t.DepthLevel, &t.Question, &t.Reflection, &t.UserResponse, &askedAt); err != nil {
			return fmt.Errorf("scanning discovery turn: %w", err)
		}
		t.AskedAt, _ = time.Parse(time.RFC3339, askedAt)
		s.Turns = append(s.Turns, t)
	}
	return rows.Err()
}
