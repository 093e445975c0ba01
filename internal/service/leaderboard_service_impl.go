package service

import (
	"context"
	"time"

	"github.com/alexanderramin/farmquest/internal/domain"
	"github.com/alexanderramin/farmquest/internal/repository"
)

// LeaderboardLimit is how many ranked entries a leaderboard shows.
const LeaderboardLimit = 20

type leaderboardService struct {
	users    repository.UserRepo
	progress repository.ProgressRepo
	observer UseCaseObserver
}

func NewLeaderboardService(users repository.UserRepo, progress repository.ProgressRepo, observers ...UseCaseObserver) LeaderboardService {
	return &leaderboardService{
		users:    users,
		progress: progress,
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *leaderboardService) Leaderboard(ctx context.Context, sess Session, scope domain.LeaderboardScope) (board *domain.Leaderboard, err error) {
	fields := map[string]any{"scope": string(scope)}
	defer observe(ctx, s.observer, "leaderboard", time.Now(), fields, &err)

	current, err := s.users.GetByID(ctx, sess.UserID)
	if err != nil {
		return nil, err
	}
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}
	completed, err := s.progress.CountCompleted(ctx)
	if err != nil {
		return nil, err
	}

	ranked := domain.RankUsers(users, completed, current, scope, LeaderboardLimit)
	fields["effective_scope"] = string(ranked.Scope)
	fields["total"] = ranked.TotalUsers
	return &ranked, nil
}
