package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenDB_CreatesSchema(t *testing.T) {
	conn, err := OpenDB(":memory:")
	require.NoError(t, err)
	defer conn.Close()

	for _, table := range []string{
		"goals", "discovery_sessions", "discovery_turns",
		"roadmaps", "roadmap_nodes", "progress_counters",
	} {
		var name string
		err := conn.QueryRow(
			`SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, table,
		).Scan(&name)
		require.NoError(t, err, "table %s must exist", table)
		assert.Equal(t, table, name)
	}
}

func TestMigrate_Idempotent(t *testing.T) {
	conn, err := OpenDB(":memory:")
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, Migrate(conn))
	require.NoError(t, Migrate(conn))
}

func TestOpenDB_ForeignKeyCascade(t *testing.T) {
	conn, err := OpenDB(":memory:")
	require.NoError(t, err)
	defer conn.Close()

	_, err = conn.Exec(`INSERT INTO goals (id, statement, created_at, updated_at)
		VALUES ('g1', 'test', '2026-01-01T00:00:00Z', '2026-01-01T00:00:00Z')`)
	require.NoError(t, err)
	_, err = conn.Exec(`INSERT INTO roadmaps (id, goal_id, title, created_at, updated_at)
		VALUES ('r1', 'g1', 'map', '2026-01-01T00:00:00Z', '2026-01-01T00:00:00Z')`)
	require.NoError(t, err)
	_, err = conn.Exec(`INSERT INTO roadmap_nodes (id, roadmap_id, title)
		VALUES ('n1', 'r1', 'phase')`)
	require.NoError(t, err)

	_, err = conn.Exec(`DELETE FROM goals WHERE id = 'g1'`)
	require.NoError(t, err)

	var count int
	require.NoError(t, conn.QueryRow(`SELECT COUNT(*) FROM roadmap_nodes`).Scan(&count))
	assert.Equal(t, 0, count, "node rows cascade with the goal")
}

func TestOpenDB_RejectsOrphanSession(t *testing.T) {
	conn, err := OpenDB(":memory:")
	require.NoError(t, err)
	defer conn.Close()

	_, err = conn.Exec(`INSERT INTO discovery_sessions (id, goal_id, created_at, updated_at)
		VALUES ('s1', 'missing-goal', '2026-01-01T00:00:00Z', '2026-01-01T00:00:00Z')`)
	assert.Error(t, err, "foreign keys are enforced")
}
