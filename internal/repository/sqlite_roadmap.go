package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/telos-app/telos/internal/db"
	"github.com/telos-app/telos/internal/domain"
)

// SQLiteRoadmapRepo implements RoadmapRepo. A roadmap is saved whole: the
// roadmap row is upserted and every node row rewritten from the in-memory
// tree, so refine and decompose edits replace the stored tree in one pass.
type SQLiteRoadmapRepo struct {
	db db.DBTX
}

// NewSQLiteRoadmapRepo creates a new SQLiteRoadmapRepo.
func NewSQLiteRoadmapRepo(dbtx db.DBTX) *SQLiteRoadmapRepo {
	return &SQLiteRoadmapRepo{db: dbtx}
}

func (r *SQLiteRoadmapRepo) Save(ctx context.Context, rm *domain.Roadmap) error {
	_, err := r.db.ExecContext(ctx, `INSERT INTO roadmaps
			(id, goal_id, title, root_motivation, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			root_motivation = excluded.root_motivation,
			status = excluded.status,
			updated_at = excluded.updated_at`,
		rm.ID,
		rm.GoalID,
		rm.Title,
		rm.RootMotivation,
		string(rm.Status),
		rm.CreatedAt.Format(time.RFC3339),
		rm.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("upserting roadmap: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, `DELETE FROM roadmap_nodes WHERE roadmap_id = ?`, rm.ID); err != nil {
		return fmt.Errorf("clearing roadmap nodes: %w", err)
	}

	// Parents are inserted before children so the self-referencing foreign
	// key holds within the rewrite.
	for _, phase := range rm.Phases {
		if err := r.insertNode(ctx, rm.ID, phase); err != nil {
			return err
		}
		for _, leaf := range phase.Children {
			if err := r.insertNode(ctx, rm.ID, leaf); err != nil {
				return err
			}
		}
	}
	return nil
}

func (r *SQLiteRoadmapRepo) insertNode(ctx context.Context, roadmapID string, n *domain.RoadmapNode) error {
	var parentID any
	if n.ParentID != nil {
		parentID = *n.ParentID
	}
	_, err := r.db.ExecContext(ctx, `INSERT INTO roadmap_nodes
			(id, roadmap_id, parent_id, title, description, rationale, tip,
			 duration_min, category, order_index, is_completed, completed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		n.ID, roadmapID, parentID, n.Title, n.Description, n.Rationale, n.Tip,
		n.DurationMin, string(n.Category), n.OrderIndex,
		boolToInt(n.IsCompleted),
		nullableTimeToString(n.CompletedAt, time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting roadmap node %s: %w", n.ID, err)
	}
	return nil
}

func (r *SQLiteRoadmapRepo) GetByID(ctx context.Context, id string) (*domain.Roadmap, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id, goal_id, title, root_motivation, status, created_at, updated_at
		FROM roadmaps WHERE id = ?`, id)
	rm, err := r.scanRoadmap(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("roadmap %s: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	if err := r.loadTree(ctx, rm); err != nil {
		return nil, err
	}
	return rm, nil
}

func (r *SQLiteRoadmapRepo) GetActiveByGoal(ctx context.Context, goalID string) (*domain.Roadmap, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id, goal_id, title, root_motivation, status, created_at, updated_at
		FROM roadmaps
		WHERE goal_id = ? AND status = 'active'
		ORDER BY created_at DESC LIMIT 1`, goalID)
	rm, err := r.scanRoadmap(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("active roadmap for goal %s: %w", goalID, domain.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	if err := r.loadTree(ctx, rm); err != nil {
		return nil, err
	}
	return rm, nil
}

func (r *SQLiteRoadmapRepo) ListByGoal(ctx context.Context, goalID string) ([]*domain.Roadmap, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, goal_id, title, root_motivation, status, created_at, updated_at
		FROM roadmaps WHERE goal_id = ? ORDER BY created_at`, goalID)
	if err != nil {
		return nil, fmt.Errorf("listing roadmaps: %w", err)
	}
	defer rows.Close()

	var out []*domain.Roadmap
	for rows.Next() {
		rm, err := r.scanRoadmap(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rm)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, rm := range out {
		if err := r.loadTree(ctx, rm); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (r *SQLiteRoadmapRepo) scanRoadmap(row rowScanner) (*domain.Roadmap, error) {
	var rm domain.Roadmap
	var status, createdAt, updatedAt string
	err := row.Scan(&rm.ID, &rm.GoalID, &rm.Title, &rm.RootMotivation, &status, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning roadmap: %w", err)
	}
	rm.Status = domain.RoadmapStatus(status)
	rm.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	rm.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	return &rm, nil
}

// loadTree rebuilds the two-level tree from node rows, ordered by
// order_index within each sibling group.
func (r *SQLiteRoadmapRepo) loadTree(ctx context.Context, rm *domain.Roadmap) error {
	rows, err := r.db.QueryContext(ctx, `SELECT id, parent_id, title, description, rationale, tip,
			duration_min, category, order_index, is_completed, completed_at
		FROM roadmap_nodes WHERE roadmap_id = ?`, rm.ID)
	if err != nil {
		return fmt.Errorf("loading roadmap nodes: %w", err)
	}
	defer rows.Close()

	byID := make(map[string]*domain.RoadmapNode)
	var all []*domain.RoadmapNode
	for rows.Next() {
		var n domain.RoadmapNode
		var parentID, completedAt sql.NullString
		var category string
		var isCompleted int
		err := rows.Scan(&n.ID, &parentID, &n.Title, &n.Description, &n.Rationale, &n.Tip,
			&n.DurationMin, &category, &n.OrderIndex, &isCompleted, &completedAt)
		if err != nil {
			return fmt.Errorf("scanning roadmap node: %w", err)
		}
		if parentID.Valid {
			pid := parentID.String
			n.ParentID = &pid
		}
		n.Category = domain.NodeCategory(category)
		n.IsCompleted = intToBool(isCompleted)
		n.CompletedAt = parseNullableTime(completedAt, time.RFC3339)
		byID[n.ID] = &n
		all = append(all, &n)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	for _, n := range all {
		if n.ParentID == nil {
			rm.Phases = append(rm.Phases, n)
			continue
		}
		parent, ok := byID[*n.ParentID]
		if !ok {
			return fmt.Errorf("roadmap node %s references missing parent %s", n.ID, *n.ParentID)
		}
		parent.Children = append(parent.Children, n)
	}

	sort.SliceStable(rm.Phases, func(i, j int) bool { return rm.Phases[i].OrderIndex < rm.Phases[j].OrderIndex })
	for _, p := range rm.Phases {
		children := p.Children
		sort.SliceStable(children, func(i, j int) bool { return children[i].OrderIndex < children[j].OrderIndex })
	}
	return nil
}
