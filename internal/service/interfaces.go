package service

import (
	"context"

	"github.com/alexanderramin/farmquest/internal/domain"
	"github.com/alexanderramin/farmquest/internal/importer"
)

type UserService interface {
	// EnsureUser returns the user with the given handle, creating a fresh
	// record that still needs onboarding when none exists.
	EnsureUser(ctx context.Context, handle string) (*domain.User, error)
	Me(ctx context.Context, sess Session) (*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)
	UpdateProfile(ctx context.Context, sess Session, patch domain.ProfilePatch) (*domain.User, error)
	Onboard(ctx context.Context, sess Session, profile domain.OnboardingProfile) (*domain.User, error)
	ClaimDailyBonus(ctx context.Context, sess Session) (*DailyBonusResult, error)
	Profile(ctx context.Context, sess Session) (*ProfileStats, error)
}

type MissionService interface {
	List(ctx context.Context, q MissionQuery) ([]*domain.Mission, error)
	Get(ctx context.Context, id string) (*domain.Mission, error)
	Search(ctx context.Context, query string) ([]*domain.Mission, error)
	// Today returns the personalised missions for the home screen.
	Today(ctx context.Context, sess Session) ([]MissionView, error)
	// Overview pairs every active mission with the user's progress on it.
	Overview(ctx context.Context, sess Session, q MissionQuery) ([]MissionView, error)
	Progress(ctx context.Context, sess Session) ([]*domain.UserProgress, error)
	// Start finds or creates the user's progress on a mission and returns a
	// navigator positioned on its cursor.
	Start(ctx context.Context, sess Session, missionID string) (*Navigator, error)
}

type LeaderboardService interface {
	Leaderboard(ctx context.Context, sess Session, scope domain.LeaderboardScope) (*domain.Leaderboard, error)
}

// ImportResult holds the outcome of a catalogue import.
type ImportResult struct {
	Created int
	Updated int
	Cards   int
}

type ImportService interface {
	ImportCatalog(ctx context.Context, filePath string) (*ImportResult, error)
	ImportCatalogFromSchema(ctx context.Context, schema *importer.CatalogSchema) (*ImportResult, error)
}

// MissionQuery narrows mission listings. Crop keeps missions whose target
// crops match it; empty fields match everything.
type MissionQuery struct {
	Category domain.MissionCategory
	Crop     string
}

// MissionView is a mission with the requesting user's status on it.
type MissionView struct {
	Mission  *domain.Mission
	Progress *domain.UserProgress
	Status   domain.ProgressStatus
	Percent  int
}

// DailyBonusResult reports the outcome of a session-start bonus claim.
type DailyBonusResult struct {
	User      *domain.User
	Bonus     domain.DailyBonus
	NewBadges []string
}

// ProfileStats is the aggregate shown on the profile screen.
type ProfileStats struct {
	User              *domain.User
	CompletedMissions int
	InProgress        int
	XPFromMissions    int
	CorrectQuizzes    int
	LevelProgress     int
	Badges            []domain.BadgeInfo
}
