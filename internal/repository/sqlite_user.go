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

// SQLiteUserRepo implements UserRepo using a SQLite database.
type SQLiteUserRepo struct {
	db db.DBTX
}

// NewSQLiteUserRepo creates a new SQLiteUserRepo.
func NewSQLiteUserRepo(conn db.DBTX) *SQLiteUserRepo {
	return &SQLiteUserRepo{db: conn}
}

const userColumns = `id, handle, full_name, phone, date_of_birth, village, district, state,
	farm_size, farm_size_unit, primary_crops, preferred_language, onboarding_completed,
	total_xp, current_level, sustainability_score, current_streak, longest_streak,
	last_activity_date, badges_earned, created_at, updated_at`

func (r *SQLiteUserRepo) Create(ctx context.Context, u *domain.User) error {
	crops, err := encodeJSON(u.PrimaryCrops)
	if err != nil {
		return err
	}
	badges, err := encodeJSON(u.BadgesEarned)
	if err != nil {
		return err
	}
	query := `INSERT INTO users (` + userColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err = r.db.ExecContext(ctx, query,
		u.ID,
		u.Handle,
		u.FullName,
		u.Phone,
		nullableTimeToString(u.DateOfBirth, domain.DateLayout),
		u.Village,
		u.District,
		u.State,
		u.FarmSize,
		domain.CoalesceStr(u.FarmSizeUnit, "acres"),
		crops,
		u.PreferredLanguage,
		boolToInt(u.OnboardingCompleted),
		u.TotalXP,
		domain.LevelFor(u.TotalXP),
		u.SustainabilityScore,
		u.CurrentStreak,
		u.LongestStreak,
		nullableTimeToString(u.LastActivityDate, domain.DateLayout),
		badges,
		u.CreatedAt.UTC().Format(time.RFC3339),
		u.UpdatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting user: %w", err)
	}
	return nil
}

func (r *SQLiteUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = ?`
	u, err := scanUser(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("user %s: %w", id, ErrNotFound)
	}
	return u, err
}

func (r *SQLiteUserRepo) GetByHandle(ctx context.Context, handle string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE LOWER(handle) = LOWER(?)`
	u, err := scanUser(r.db.QueryRowContext(ctx, query, handle))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("user %q: %w", handle, ErrNotFound)
	}
	return u, err
}

// List returns all users in creation order. The order is the tie-break for
// equal leaderboard scores.
func (r *SQLiteUserRepo) List(ctx context.Context) ([]*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY created_at, rowid`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}
	defer rows.Close()

	var users []*domain.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating users: %w", err)
	}
	return users, nil
}

// Update writes every mutable column. current_level is always derived from
// total_xp at write time.
func (r *SQLiteUserRepo) Update(ctx context.Context, u *domain.User) error {
	crops, err := encodeJSON(u.PrimaryCrops)
	if err != nil {
		return err
	}
	badges, err := encodeJSON(u.BadgesEarned)
	if err != nil {
		return err
	}
	query := `UPDATE users SET handle = ?, full_name = ?, phone = ?, date_of_birth = ?,
		village = ?, district = ?, state = ?, farm_size = ?, farm_size_unit = ?,
		primary_crops = ?, preferred_language = ?, onboarding_completed = ?,
		total_xp = ?, current_level = ?, sustainability_score = ?, current_streak = ?,
		longest_streak = ?, last_activity_date = ?, badges_earned = ?, updated_at = ?
		WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		u.Handle,
		u.FullName,
		u.Phone,
		nullableTimeToString(u.DateOfBirth, domain.DateLayout),
		u.Village,
		u.District,
		u.State,
		u.FarmSize,
		domain.CoalesceStr(u.FarmSizeUnit, "acres"),
		crops,
		u.PreferredLanguage,
		boolToInt(u.OnboardingCompleted),
		u.TotalXP,
		domain.LevelFor(u.TotalXP),
		u.SustainabilityScore,
		u.CurrentStreak,
		u.LongestStreak,
		nullableTimeToString(u.LastActivityDate, domain.DateLayout),
		badges,
		u.UpdatedAt.UTC().Format(time.RFC3339),
		u.ID,
	)
	if err != nil {
		return fmt.Errorf("updating user: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("user %s: %w", u.ID, ErrNotFound)
	}
	return nil
}

func scanUser(row rowScanner) (*domain.User, error) {
	var u domain.User
	var dob, lastActivity sql.NullString
	var crops, badges, createdAt, updatedAt string
	var onboarded int

	err := row.Scan(
		&u.ID, &u.Handle, &u.FullName, &u.Phone, &dob,
		&u.Village, &u.District, &u.State,
		&u.FarmSize, &u.FarmSizeUnit, &crops, &u.PreferredLanguage, &onboarded,
		&u.TotalXP, &u.CurrentLevel, &u.SustainabilityScore,
		&u.CurrentStreak, &u.LongestStreak,
		&lastActivity, &badges, &createdAt, &updatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning user: %w", err)
	}

	u.OnboardingCompleted = intToBool(onboarded)
	u.DateOfBirth = parseNullableTime(dob, domain.DateLayout)
	u.LastActivityDate = parseNullableTime(lastActivity, domain.DateLayout)
	if err := decodeJSON(crops, &u.PrimaryCrops); err != nil {
		return nil, fmt.Errorf("user %s primary_crops: %w", u.ID, err)
	}
	if err := decodeJSON(badges, &u.BadgesEarned); err != nil {
		return nil, fmt.Errorf("user %s badges_earned: %w", u.ID, err)
	}
	u.CreatedAt, u.UpdatedAt, err = parseTimestamps(createdAt, updatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}
