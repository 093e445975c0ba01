package db

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := OpenDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestMigrate_Idempotent(t *testing.T) {
	db := openTestDB(t)

	err := Migrate(db)
	require.NoError(t, err)

	err = Migrate(db)
	require.NoError(t, err)
}

func TestMigrate_CreatesAllTables(t *testing.T) {
	db := openTestDB(t)

	expected := []string{"users", "missions", "user_progress"}
	for _, table := range expected {
		var name string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name=?`, table).Scan(&name)
		require.NoError(t, err, "table %s should exist", table)
		assert.Equal(t, table, name)
	}
}

func TestMigrate_CreatesIndexes(t *testing.T) {
	db := openTestDB(t)

	expected := []string{
		"idx_users_handle",
		"idx_users_village",
		"idx_users_district",
		"idx_missions_category",
		"idx_progress_user",
		"idx_progress_mission",
		"idx_progress_status",
	}
	for _, idx := range expected {
		var name string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type='index' AND name=?`, idx).Scan(&name)
		require.NoError(t, err, "index %s should exist", idx)
	}
}

func seedUserAndMission(t *testing.T, db *sql.DB) {
	t.Helper()
	_, err := db.Exec(`INSERT INTO users (id, handle, created_at, updated_at) VALUES ('u1', 'asha', '2025-01-01T00:00:00Z', '2025-01-01T00:00:00Z')`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO missions (id, title, category, created_at, updated_at) VALUES ('m1', 'Soil', 'soil_health', '2025-01-01T00:00:00Z', '2025-01-01T00:00:00Z')`)
	require.NoError(t, err)
}

func TestMigrate_ProgressUniquePerUserMission(t *testing.T) {
	db := openTestDB(t)
	seedUserAndMission(t, db)

	insert := `INSERT INTO user_progress (id, user_id, mission_id, created_at, updated_at) VALUES (?, 'u1', 'm1', '2025-01-01T00:00:00Z', '2025-01-01T00:00:00Z')`
	_, err := db.Exec(insert, "p1")
	require.NoError(t, err)

	_, err = db.Exec(insert, "p2")
	require.Error(t, err, "second progress row for the same user and mission should be rejected")
	assert.Contains(t, err.Error(), "UNIQUE")
}

func TestMigrate_RejectsUnknownCategory(t *testing.T) {
	db := openTestDB(t)

	_, err := db.Exec(`INSERT INTO missions (id, title, category, created_at, updated_at) VALUES ('m1', 'X', 'astrology', '2025-01-01T00:00:00Z', '2025-01-01T00:00:00Z')`)
	require.Error(t, err)
}

func TestMigrate_ProgressCascadesWithUser(t *testing.T) {
	db := openTestDB(t)
	seedUserAndMission(t, db)

	_, err := db.Exec(`INSERT INTO user_progress (id, user_id, mission_id, created_at, updated_at) VALUES ('p1', 'u1', 'm1', '2025-01-01T00:00:00Z', '2025-01-01T00:00:00Z')`)
	require.NoError(t, err)

	_, err = db.Exec(`DELETE FROM users WHERE id = 'u1'`)
	require.NoError(t, err)

	var count int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM user_progress`).Scan(&count))
	assert.Equal(t, 0, count)
}

func TestMigrate_DerivesDriftedLevels(t *testing.T) {
	db := openTestDB(t)
	seedUserAndMission(t, db)

	_, err := db.Exec(`UPDATE users SET total_xp = 250, current_level = 1 WHERE id = 'u1'`)
	require.NoError(t, err)

	require.NoError(t, Migrate(db))

	var level int
	require.NoError(t, db.QueryRow(`SELECT current_level FROM users WHERE id = 'u1'`).Scan(&level))
	assert.Equal(t, 3, level)
}
