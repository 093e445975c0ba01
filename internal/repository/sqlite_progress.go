package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/farmquest/internal/db"
	"github.com/alexanderramin/farmquest/internal/domain"
)

// SQLiteProgressRepo implements ProgressRepo using a SQLite database.
// quiz_answers is stored as a JSON object keyed by card index.
type SQLiteProgressRepo struct {
	db db.DBTX
}

// NewSQLiteProgressRepo creates a new SQLiteProgressRepo.
func NewSQLiteProgressRepo(conn db.DBTX) *SQLiteProgressRepo {
	return &SQLiteProgressRepo{db: conn}
}

const progressColumns = `id, user_id, mission_id, status, current_card_index, quiz_answers,
	photo_proof_url, completed_at, xp_earned, created_at, updated_at`

func (r *SQLiteProgressRepo) Create(ctx context.Context, p *domain.UserProgress) error {
	answers, err := encodeAnswers(p.QuizAnswers)
	if err != nil {
		return err
	}
	query := `INSERT INTO user_progress (` + progressColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err = r.db.ExecContext(ctx, query,
		p.ID,
		p.UserID,
		p.MissionID,
		string(p.Status),
		p.CurrentCardIndex,
		answers,
		p.PhotoProofURL,
		nullableTimeToString(p.CompletedAt, time.RFC3339),
		nullableIntToValue(p.XPEarned),
		p.CreatedAt.UTC().Format(time.RFC3339),
		p.UpdatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting progress: %w", err)
	}
	return nil
}

func (r *SQLiteProgressRepo) GetByID(ctx context.Context, id string) (*domain.UserProgress, error) {
	query := `SELECT ` + progressColumns + ` FROM user_progress WHERE id = ?`
	p, err := scanProgress(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("progress %s: %w", id, ErrNotFound)
	}
	return p, err
}

func (r *SQLiteProgressRepo) Find(ctx context.Context, userID, missionID string) (*domain.UserProgress, error) {
	query := `SELECT ` + progressColumns + ` FROM user_progress WHERE user_id = ? AND mission_id = ?`
	p, err := scanProgress(r.db.QueryRowContext(ctx, query, userID, missionID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("progress for user %s mission %s: %w", userID, missionID, ErrNotFound)
	}
	return p, err
}

func (r *SQLiteProgressRepo) ListByUser(ctx context.Context, userID string) ([]*domain.UserProgress, error) {
	query := `SELECT ` + progressColumns + ` FROM user_progress WHERE user_id = ? ORDER BY created_at, rowid`
	return r.list(ctx, query, userID)
}

func (r *SQLiteProgressRepo) List(ctx context.Context) ([]*domain.UserProgress, error) {
	query := `SELECT ` + progressColumns + ` FROM user_progress ORDER BY created_at, rowid`
	return r.list(ctx, query)
}

func (r *SQLiteProgressRepo) CountCompleted(ctx context.Context) (map[string]int, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT user_id, COUNT(*) FROM user_progress WHERE status = 'completed' GROUP BY user_id`)
	if err != nil {
		return nil, fmt.Errorf("counting completed progress: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var userID string
		var n int
		if err := rows.Scan(&userID, &n); err != nil {
			return nil, fmt.Errorf("scanning completed count: %w", err)
		}
		counts[userID] = n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating completed counts: %w", err)
	}
	return counts, nil
}

func (r *SQLiteProgressRepo) Update(ctx context.Context, p *domain.UserProgress) error {
	answers, err := encodeAnswers(p.QuizAnswers)
	if err != nil {
		return err
	}
	query := `UPDATE user_progress SET status = ?, current_card_index = ?, quiz_answers = ?,
		photo_proof_url = ?, completed_at = ?, xp_earned = ?, updated_at = ?
		WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		string(p.Status),
		p.CurrentCardIndex,
		answers,
		p.PhotoProofURL,
		nullableTimeToString(p.CompletedAt, time.RFC3339),
		nullableIntToValue(p.XPEarned),
		p.UpdatedAt.UTC().Format(time.RFC3339),
		p.ID,
	)
	if err != nil {
		return fmt.Errorf("updating progress: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("progress %s: %w", p.ID, ErrNotFound)
	}
	return nil
}

func (r *SQLiteProgressRepo) list(ctx context.Context, query string, args ...any) ([]*domain.UserProgress, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing progress: %w", err)
	}
	defer rows.Close()

	var out []*domain.UserProgress
	for rows.Next() {
		p, err := scanProgress(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating progress: %w", err)
	}
	return out, nil
}

func encodeAnswers(answers map[int]int) (string, error) {
	if answers == nil {
		return "{}", nil
	}
	return encodeJSON(answers)
}

func scanProgress(row rowScanner) (*domain.UserProgress, error) {
	var p domain.UserProgress
	var status, answers, createdAt, updatedAt string
	var completedAt sql.NullString
	var xpEarned sql.NullInt64

	err := row.Scan(
		&p.ID, &p.UserID, &p.MissionID, &status, &p.CurrentCardIndex,
		&answers, &p.PhotoProofURL, &completedAt, &xpEarned,
		&createdAt, &updatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning progress: %w", err)
	}

	p.Status = domain.ProgressStatus(status)
	p.QuizAnswers = map[int]int{}
	if err := decodeJSON(answers, &p.QuizAnswers); err != nil {
		return nil, fmt.Errorf("progress %s quiz_answers: %w", p.ID, err)
	}
	p.CompletedAt = parseNullableTime(completedAt, time.RFC3339)
	p.XPEarned = nullableIntFromSQL(xpEarned)
	p.CreatedAt, p.UpdatedAt, err = parseTimestamps(createdAt, updatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
