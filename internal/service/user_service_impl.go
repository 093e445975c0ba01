package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/farmquest/internal/db"
	"github.com/alexanderramin/farmquest/internal/domain"
	"github.com/alexanderramin/farmquest/internal/repository"
	"github.com/google/uuid"
)

type userService struct {
	users    repository.UserRepo
	progress repository.ProgressRepo
	missions repository.MissionRepo
	uow      db.UnitOfWork
	observer UseCaseObserver
}

func NewUserService(
	users repository.UserRepo,
	progress repository.ProgressRepo,
	missions repository.MissionRepo,
	uow db.UnitOfWork,
	observers ...UseCaseObserver,
) UserService {
	return &userService{
		users:    users,
		progress: progress,
		missions: missions,
		uow:      uow,
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *userService) EnsureUser(ctx context.Context, handle string) (*domain.User, error) {
	handle = strings.TrimSpace(handle)
	if handle == "" || strings.ContainsAny(handle, " \t\n") {
		return nil, &domain.ValidationError{Code: domain.ErrCodeInvalidProfile, Message: fmt.Sprintf("invalid handle %q", handle)}
	}

	u, err := s.users.GetByHandle(ctx, handle)
	if err == nil {
		return u, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	now := time.Now().UTC()
	u = &domain.User{
		ID:           uuid.New().String(),
		Handle:       handle,
		FarmSizeUnit: "acres",
		CurrentLevel: 1,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.users.Create(ctx, u); err != nil {
		// Lost a race with another process creating the same handle.
		if existing, getErr := s.users.GetByHandle(ctx, handle); getErr == nil {
			return existing, nil
		}
		return nil, err
	}
	return u, nil
}

func (s *userService) Me(ctx context.Context, sess Session) (*domain.User, error) {
	return s.users.GetByID(ctx, sess.UserID)
}

func (s *userService) List(ctx context.Context) ([]*domain.User, error) {
	return s.users.List(ctx)
}

func (s *userService) UpdateProfile(ctx context.Context, sess Session, patch domain.ProfilePatch) (user *domain.User, err error) {
	defer observe(ctx, s.observer, "update-profile", time.Now(), map[string]any{"user": sess.UserID}, &err)

	if patch.FarmSize != nil && *patch.FarmSize <= 0 {
		return nil, &domain.ValidationError{Code: domain.ErrCodeInvalidProfile, Message: "farm size must be positive"}
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		users := repository.NewSQLiteUserRepo(tx)
		u, err := users.GetByID(ctx, sess.UserID)
		if err != nil {
			return err
		}
		patch.Apply(u, sess.Now())
		if err := users.Update(ctx, u); err != nil {
			return err
		}
		user = u
		return nil
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (s *userService) Onboard(ctx context.Context, sess Session, profile domain.OnboardingProfile) (user *domain.User, err error) {
	defer observe(ctx, s.observer, "onboard", time.Now(), map[string]any{"user": sess.UserID}, &err)

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		users := repository.NewSQLiteUserRepo(tx)
		u, err := users.GetByID(ctx, sess.UserID)
		if err != nil {
			return err
		}
		onboarded, err := domain.CompleteOnboarding(*u, profile, sess.Today(), sess.Now())
		if err != nil {
			return err
		}
		if err := users.Update(ctx, &onboarded); err != nil {
			return err
		}
		user = &onboarded
		return nil
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (s *userService) ClaimDailyBonus(ctx context.Context, sess Session) (result *DailyBonusResult, err error) {
	fields := map[string]any{"user": sess.UserID}
	defer observe(ctx, s.observer, "daily-bonus", time.Now(), fields, &err)

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		users := repository.NewSQLiteUserRepo(tx)
		u, err := users.GetByID(ctx, sess.UserID)
		if err != nil {
			return err
		}
		if !u.OnboardingCompleted {
			return &domain.ValidationError{Code: domain.ErrCodeNotOnboarded, Message: "complete onboarding first"}
		}

		updated, bonus := domain.EvaluateDailyBonus(*u, sess.Today(), sess.Now())
		result = &DailyBonusResult{User: u, Bonus: bonus}
		if !bonus.Granted {
			return nil
		}

		updated, earned, err := awardBadges(ctx,
			repository.NewSQLiteProgressRepo(tx), repository.NewSQLiteMissionRepo(tx), updated, sess.Now())
		if err != nil {
			return err
		}
		if err := users.Update(ctx, &updated); err != nil {
			return err
		}
		result.User = &updated
		result.NewBadges = earned
		return nil
	})
	if err != nil {
		return nil, err
	}
	fields["granted"] = result.Bonus.Granted
	fields["streak"] = result.Bonus.Streak
	return result, nil
}

func (s *userService) Profile(ctx context.Context, sess Session) (*ProfileStats, error) {
	u, err := s.users.GetByID(ctx, sess.UserID)
	if err != nil {
		return nil, err
	}
	records, err := s.progress.ListByUser(ctx, u.ID)
	if err != nil {
		return nil, err
	}

	stats := &ProfileStats{User: u, LevelProgress: u.LevelProgress()}
	for _, p := range records {
		if !p.IsCompleted() {
			stats.InProgress++
			continue
		}
		stats.CompletedMissions++
		stats.XPFromMissions += domain.Deref(p.XPEarned, 0)
		m, err := s.missions.GetByID(ctx, p.MissionID)
		if errors.Is(err, repository.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		stats.CorrectQuizzes += m.CountCorrect(p.QuizAnswers)
	}
	for _, key := range u.BadgesEarned {
		stats.Badges = append(stats.Badges, domain.LookupBadge(key))
	}
	return stats, nil
}
