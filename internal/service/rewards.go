package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/farmquest/internal/domain"
	"github.com/alexanderramin/farmquest/internal/repository"
)

// badgeStats gathers badge inputs for u from its progress records. Missions
// removed from the catalogue still count as completed but contribute no
// quiz answers.
func badgeStats(ctx context.Context, progress repository.ProgressRepo, missions repository.MissionRepo, u *domain.User) (domain.BadgeStats, error) {
	stats := domain.BadgeStats{
		CurrentStreak:       u.CurrentStreak,
		SustainabilityScore: u.SustainabilityScore,
	}
	records, err := progress.ListByUser(ctx, u.ID)
	if err != nil {
		return stats, fmt.Errorf("loading progress for badges: %w", err)
	}
	for _, p := range records {
		if !p.IsCompleted() {
			continue
		}
		stats.CompletedMissions++
		m, err := missions.GetByID(ctx, p.MissionID)
		if errors.Is(err, repository.ErrNotFound) {
			continue
		}
		if err != nil {
			return stats, err
		}
		stats.CorrectQuizzes += m.CountCorrect(p.QuizAnswers)
	}
	return stats, nil
}

// awardBadges applies any badges u now qualifies for and returns the new keys.
func awardBadges(ctx context.Context, progress repository.ProgressRepo, missions repository.MissionRepo, u domain.User, now time.Time) (domain.User, []string, error) {
	stats, err := badgeStats(ctx, progress, missions, &u)
	if err != nil {
		return u, nil, err
	}
	earned := domain.EarnableBadges(&u, stats)
	if len(earned) == 0 {
		return u, nil, nil
	}
	return domain.ApplyReward(u, domain.RewardDelta{Badges: earned}, now), earned, nil
}
