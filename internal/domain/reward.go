package domain

import (
	"slices"
	"time"
)

const (
	WelcomeXP             = 50
	WelcomeSustainability = 10
	DailyBonusXP          = 10
	MissionSustainability = 5
)

// RewardDelta is a change to a user's reward counters. Onboarding, the daily
// bonus and mission completion all express their effect as a delta.
type RewardDelta struct {
	XP             int
	Sustainability int
	Badges         []string
}

// IsZero reports whether applying the delta would change nothing.
func (d RewardDelta) IsZero() bool {
	return d.XP == 0 && d.Sustainability == 0 && len(d.Badges) == 0
}

// ApplyReward returns a copy of u with the delta applied. XP never goes
// down, the level is re-derived and badges stay a set.
func ApplyReward(u User, d RewardDelta, now time.Time) User {
	if d.XP > 0 {
		u.TotalXP += d.XP
	}
	u.CurrentLevel = LevelFor(u.TotalXP)
	u.SustainabilityScore += d.Sustainability

	badges := slices.Clone(u.BadgesEarned)
	for _, b := range d.Badges {
		if !slices.Contains(badges, b) {
			badges = append(badges, b)
		}
	}
	u.BadgesEarned = badges
	u.UpdatedAt = now
	return u
}
