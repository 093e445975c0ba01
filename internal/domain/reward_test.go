package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dayPtr(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func TestLevelFor(t *testing.T) {
	assert.Equal(t, 1, LevelFor(0))
	assert.Equal(t, 1, LevelFor(99))
	assert.Equal(t, 2, LevelFor(100))
	assert.Equal(t, 3, LevelFor(250))
	assert.Equal(t, 1, LevelFor(-5))
}

func TestApplyReward_AccumulatesAndDerivesLevel(t *testing.T) {
	u := User{TotalXP: 90, CurrentLevel: 1, SustainabilityScore: 10}
	got := ApplyReward(u, RewardDelta{XP: 40, Sustainability: 5}, testNow)

	assert.Equal(t, 130, got.TotalXP)
	assert.Equal(t, 2, got.CurrentLevel)
	assert.Equal(t, 15, got.SustainabilityScore)
	assert.Equal(t, 90, u.TotalXP, "input should not be mutated")
}

func TestApplyReward_NegativeXPIgnored(t *testing.T) {
	u := User{TotalXP: 90}
	got := ApplyReward(u, RewardDelta{XP: -50}, testNow)
	assert.Equal(t, 90, got.TotalXP)
}

func TestApplyReward_BadgesAreASet(t *testing.T) {
	u := User{BadgesEarned: []string{BadgeWelcomeFarmer}}
	got := ApplyReward(u, RewardDelta{Badges: []string{BadgeWelcomeFarmer, BadgeFirstMission}}, testNow)
	assert.Equal(t, []string{BadgeWelcomeFarmer, BadgeFirstMission}, got.BadgesEarned)
	assert.Equal(t, []string{BadgeWelcomeFarmer}, u.BadgesEarned)
}

func TestEarnableBadges(t *testing.T) {
	u := &User{BadgesEarned: []string{BadgeFirstMission}}
	got := EarnableBadges(u, BadgeStats{CompletedMissions: 3, CurrentStreak: 5, SustainabilityScore: 50, CorrectQuizzes: 9})
	assert.Equal(t, []string{BadgeStreak5, BadgeEcoWarrior}, got)

	got = EarnableBadges(u, BadgeStats{CorrectQuizzes: 10})
	assert.Equal(t, []string{BadgeQuizMaster}, got)
}

func TestEvaluateDailyBonus_SameDayNoop(t *testing.T) {
	today := time.Date(2025, 6, 15, 18, 30, 0, 0, time.UTC)
	u := User{TotalXP: 60, CurrentStreak: 3, LongestStreak: 4, LastActivityDate: dayPtr(2025, 6, 15)}

	got, bonus := EvaluateDailyBonus(u, today, testNow)
	assert.False(t, bonus.Granted)
	assert.Equal(t, u, got)
	assert.Equal(t, 3, bonus.Streak)
}

func TestEvaluateDailyBonus_YesterdayExtendsStreak(t *testing.T) {
	u := User{TotalXP: 60, CurrentStreak: 3, LongestStreak: 3, LastActivityDate: dayPtr(2025, 6, 14)}

	got, bonus := EvaluateDailyBonus(u, testNow, testNow)
	assert.True(t, bonus.Granted)
	assert.Equal(t, 4, got.CurrentStreak)
	assert.Equal(t, 4, got.LongestStreak)
	assert.Equal(t, 70, got.TotalXP)
	require.NotNil(t, got.LastActivityDate)
	assert.Equal(t, *dayPtr(2025, 6, 15), *got.LastActivityDate)
}

func TestEvaluateDailyBonus_OlderDateResets(t *testing.T) {
	u := User{TotalXP: 60, CurrentStreak: 7, LongestStreak: 9, LastActivityDate: dayPtr(2025, 6, 10)}

	got, bonus := EvaluateDailyBonus(u, testNow, testNow)
	assert.True(t, bonus.Granted)
	assert.Equal(t, 1, got.CurrentStreak)
	assert.Equal(t, 9, got.LongestStreak, "longest streak is kept")
	assert.Equal(t, 70, got.TotalXP)
}

func TestEvaluateDailyBonus_FirstActivity(t *testing.T) {
	got, bonus := EvaluateDailyBonus(User{}, testNow, testNow)
	assert.True(t, bonus.Granted)
	assert.Equal(t, 1, got.CurrentStreak)
	assert.Equal(t, 1, got.LongestStreak)
	assert.Equal(t, DailyBonusXP, got.TotalXP)
}

func TestEvaluateDailyBonus_AcrossMonthBoundary(t *testing.T) {
	u := User{CurrentStreak: 2, LastActivityDate: dayPtr(2025, 2, 28)}
	got, _ := EvaluateDailyBonus(u, time.Date(2025, 3, 1, 7, 0, 0, 0, time.UTC), testNow)
	assert.Equal(t, 3, got.CurrentStreak)
}

func TestCompleteOnboarding_GrantsWelcomeReward(t *testing.T) {
	profile := OnboardingProfile{
		FullName: "Asha Patil", Phone: "+91 9000000000",
		Village: "Wadgaon", District: "Pune", State: "Maharashtra",
		FarmSize: 2.5, PrimaryCrops: []string{"Rice"}, PreferredLanguage: "marathi",
	}
	got, err := CompleteOnboarding(User{ID: "u1", Handle: "asha"}, profile, testNow, testNow)
	require.NoError(t, err)

	assert.True(t, got.OnboardingCompleted)
	assert.Equal(t, WelcomeXP, got.TotalXP)
	assert.Equal(t, 1, got.CurrentLevel)
	assert.Equal(t, WelcomeSustainability, got.SustainabilityScore)
	assert.Equal(t, 1, got.CurrentStreak)
	assert.Equal(t, 1, got.LongestStreak)
	assert.Equal(t, "acres", got.FarmSizeUnit)
	assert.Equal(t, []string{BadgeWelcomeFarmer}, got.BadgesEarned)
	assert.Equal(t, "Asha", got.DisplayName())

	_, err = CompleteOnboarding(got, profile, testNow, testNow)
	assert.ErrorIs(t, err, &ValidationError{Code: ErrCodeAlreadyOnboarded})
}

func TestCompleteOnboarding_MissingFields(t *testing.T) {
	_, err := CompleteOnboarding(User{ID: "u1"}, OnboardingProfile{FullName: "A"}, testNow, testNow)
	require.Error(t, err)
	assert.ErrorIs(t, err, &ValidationError{Code: ErrCodeInvalidProfile})
	assert.Contains(t, err.Error(), "phone")
	assert.Contains(t, err.Error(), "primary crops")
}
