package repository

import (
	"context"

	"github.com/alexanderramin/farmquest/internal/domain"
)

// MissionFilter narrows MissionRepo.List. Zero values match everything.
type MissionFilter struct {
	Category        domain.MissionCategory
	IncludeInactive bool
}

type UserRepo interface {
	Create(ctx context.Context, u *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByHandle(ctx context.Context, handle string) (*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)
	Update(ctx context.Context, u *domain.User) error
}

type MissionRepo interface {
	Create(ctx context.Context, m *domain.Mission) error
	GetByID(ctx context.Context, id string) (*domain.Mission, error)
	List(ctx context.Context, f MissionFilter) ([]*domain.Mission, error)
	Update(ctx context.Context, m *domain.Mission) error
}

type ProgressRepo interface {
	Create(ctx context.Context, p *domain.UserProgress) error
	GetByID(ctx context.Context, id string) (*domain.UserProgress, error)
	// Find returns the progress for a (user, mission) pair.
	Find(ctx context.Context, userID, missionID string) (*domain.UserProgress, error)
	ListByUser(ctx context.Context, userID string) ([]*domain.UserProgress, error)
	List(ctx context.Context) ([]*domain.UserProgress, error)
	// CountCompleted returns completed progress counts keyed by user ID.
	CountCompleted(ctx context.Context) (map[string]int, error)
	Update(ctx context.Context, p *domain.UserProgress) error
}
