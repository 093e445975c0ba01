package domain

import (
	"strings"
	"time"
)

// OnboardingProfile holds the answers collected by the four-step wizard.
type OnboardingProfile struct {
	FullName          string
	Phone             string
	DateOfBirth       *time.Time
	Village           string
	District          string
	State             string
	FarmSize          float64
	FarmSizeUnit      string
	PrimaryCrops      []string
	PreferredLanguage string
}

// Validate applies the per-step completeness checks of the wizard.
func (p OnboardingProfile) Validate() error {
	var missing []string
	if strings.TrimSpace(p.FullName) == "" {
		missing = append(missing, "full name")
	}
	if strings.TrimSpace(p.Phone) == "" {
		missing = append(missing, "phone")
	}
	if strings.TrimSpace(p.Village) == "" {
		missing = append(missing, "village")
	}
	if strings.TrimSpace(p.District) == "" {
		missing = append(missing, "district")
	}
	if strings.TrimSpace(p.State) == "" {
		missing = append(missing, "state")
	}
	if p.FarmSize <= 0 {
		missing = append(missing, "farm size")
	}
	if len(p.PrimaryCrops) == 0 {
		missing = append(missing, "primary crops")
	}
	if p.PreferredLanguage == "" {
		missing = append(missing, "preferred language")
	}
	if len(missing) > 0 {
		return newValidationError(ErrCodeInvalidProfile, "missing %s", strings.Join(missing, ", "))
	}
	return nil
}

// CompleteOnboarding fills in the profile and grants the welcome reward.
// The user starts at streak 1 with today as the last activity.
func CompleteOnboarding(u User, p OnboardingProfile, today time.Time, now time.Time) (User, error) {
	if u.OnboardingCompleted {
		return u, newValidationError(ErrCodeAlreadyOnboarded, "user %s is already onboarded", CoalesceStr(u.Handle, u.ID))
	}
	if err := p.Validate(); err != nil {
		return u, err
	}

	u.FullName = strings.TrimSpace(p.FullName)
	u.Phone = strings.TrimSpace(p.Phone)
	u.DateOfBirth = p.DateOfBirth
	u.Village = strings.TrimSpace(p.Village)
	u.District = strings.TrimSpace(p.District)
	u.State = p.State
	u.FarmSize = p.FarmSize
	u.FarmSizeUnit = CoalesceStr(p.FarmSizeUnit, "acres")
	u.PrimaryCrops = p.PrimaryCrops
	u.PreferredLanguage = p.PreferredLanguage
	u.OnboardingCompleted = true

	day := CalendarDate(today)
	u.CurrentStreak = 1
	u.LongestStreak = max(1, u.LongestStreak)
	u.LastActivityDate = &day

	u = ApplyReward(u, RewardDelta{
		XP:             WelcomeXP,
		Sustainability: WelcomeSustainability,
		Badges:         []string{BadgeWelcomeFarmer},
	}, now)
	return u, nil
}
