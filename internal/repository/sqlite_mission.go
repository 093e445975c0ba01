package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/farmquest/internal/db"
	"github.com/alexanderramin/farmquest/internal/domain"
)

// SQLiteMissionRepo implements MissionRepo using a SQLite database. Cards are
// stored as a JSON array in the cards column.
type SQLiteMissionRepo struct {
	db db.DBTX
}

// NewSQLiteMissionRepo creates a new SQLiteMissionRepo.
func NewSQLiteMissionRepo(conn db.DBTX) *SQLiteMissionRepo {
	return &SQLiteMissionRepo{db: conn}
}

const missionColumns = `id, title, description, category, estimated_duration, xp_reward,
	target_crops, cards, is_active, created_at, updated_at`

func (r *SQLiteMissionRepo) Create(ctx context.Context, m *domain.Mission) error {
	crops, cards, err := encodeMissionJSON(m)
	if err != nil {
		return err
	}
	query := `INSERT INTO missions (` + missionColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err = r.db.ExecContext(ctx, query,
		m.ID,
		m.Title,
		m.Description,
		string(m.Category),
		m.EstimatedDuration,
		m.XPReward,
		crops,
		cards,
		boolToInt(m.IsActive),
		m.CreatedAt.UTC().Format(time.RFC3339),
		m.UpdatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting mission: %w", err)
	}
	return nil
}

func (r *SQLiteMissionRepo) GetByID(ctx context.Context, id string) (*domain.Mission, error) {
	query := `SELECT ` + missionColumns + ` FROM missions WHERE id = ?`
	m, err := scanMission(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("mission %s: %w", id, ErrNotFound)
	}
	return m, err
}

func (r *SQLiteMissionRepo) List(ctx context.Context, f MissionFilter) ([]*domain.Mission, error) {
	var where []string
	var args []any
	if !f.IncludeInactive {
		where = append(where, "is_active = 1")
	}
	if f.Category != "" {
		where = append(where, "category = ?")
		args = append(args, string(f.Category))
	}
	query := `SELECT ` + missionColumns + ` FROM missions`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY created_at, rowid"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing missions: %w", err)
	}
	defer rows.Close()

	var missions []*domain.Mission
	for rows.Next() {
		m, err := scanMission(rows)
		if err != nil {
			return nil, err
		}
		missions = append(missions, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating missions: %w", err)
	}
	return missions, nil
}

// Update replaces an authored mission. Used by catalogue re-imports; progress
// rows keep pointing at the same mission ID.
func (r *SQLiteMissionRepo) Update(ctx context.Context, m *domain.Mission) error {
	crops, cards, err := encodeMissionJSON(m)
	if err != nil {
		return err
	}
	query := `UPDATE missions SET title = ?, description = ?, category = ?, estimated_duration = ?,
		xp_reward = ?, target_crops = ?, cards = ?, is_active = ?, updated_at = ?
		WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		m.Title,
		m.Description,
		string(m.Category),
		m.EstimatedDuration,
		m.XPReward,
		crops,
		cards,
		boolToInt(m.IsActive),
		m.UpdatedAt.UTC().Format(time.RFC3339),
		m.ID,
	)
	if err != nil {
		return fmt.Errorf("updating mission: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("mission %s: %w", m.ID, ErrNotFound)
	}
	return nil
}

func encodeMissionJSON(m *domain.Mission) (string, string, error) {
	crops, err := encodeJSON(m.TargetCrops)
	if err != nil {
		return "", "", err
	}
	cards, err := encodeJSON(m.Cards)
	if err != nil {
		return "", "", err
	}
	return crops, cards, nil
}

func scanMission(row rowScanner) (*domain.Mission, error) {
	var m domain.Mission
	var category, crops, cards, createdAt, updatedAt string
	var active int

	err := row.Scan(
		&m.ID, &m.Title, &m.Description, &category,
		&m.EstimatedDuration, &m.XPReward,
		&crops, &cards, &active, &createdAt, &updatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning mission: %w", err)
	}

	m.Category = domain.MissionCategory(category)
	m.IsActive = intToBool(active)
	if err := decodeJSON(crops, &m.TargetCrops); err != nil {
		return nil, fmt.Errorf("mission %s target_crops: %w", m.ID, err)
	}
	if err := decodeJSON(cards, &m.Cards); err != nil {
		return nil, fmt.Errorf("mission %s cards: %w", m.ID, err)
	}
	m.CreatedAt, m.UpdatedAt, err = parseTimestamps(createdAt, updatedAt)
	if err != nil {
		return nil, err
	}
	return &m, nil
}
