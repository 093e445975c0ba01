package service

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/alexanderramin/farmquest/internal/domain"
	"github.com/alexanderramin/farmquest/internal/repository"
	"github.com/alexanderramin/farmquest/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupUserService(t *testing.T) (UserService, *sql.DB, *repository.SQLiteUserRepo) {
	t.Helper()
	database := testutil.NewTestDB(t)
	users := repository.NewSQLiteUserRepo(database)
	svc := NewUserService(users,
		repository.NewSQLiteProgressRepo(database),
		repository.NewSQLiteMissionRepo(database),
		testutil.NewTestUoW(database))
	return svc, database, users
}

func sessionAt(userID string, at time.Time) Session {
	return Session{UserID: userID, Clock: func() time.Time { return at }}
}

func validProfile() domain.OnboardingProfile {
	return domain.OnboardingProfile{
		FullName:          "Ravi Kumar",
		Phone:             "+91 9876543210",
		Village:           "Rampur",
		District:          "Pune",
		State:             "Maharashtra",
		FarmSize:          2.5,
		PrimaryCrops:      []string{"Rice", "Wheat"},
		PreferredLanguage: "hindi",
	}
}

func TestEnsureUser_CreatesOnceThenReturnsExisting(t *testing.T) {
	svc, _, _ := setupUserService(t)
	ctx := context.Background()

	u, err := svc.EnsureUser(ctx, "ravi")
	require.NoError(t, err)
	assert.False(t, u.OnboardingCompleted)
	assert.Equal(t, 1, u.CurrentLevel)

	again, err := svc.EnsureUser(ctx, "RAVI")
	require.NoError(t, err)
	assert.Equal(t, u.ID, again.ID, "handles are case-insensitive")

	_, err = svc.EnsureUser(ctx, "two words")
	require.ErrorIs(t, err, &domain.ValidationError{Code: domain.ErrCodeInvalidProfile})
	_, err = svc.EnsureUser(ctx, "  ")
	require.Error(t, err)
}

func TestOnboard_GrantsWelcomeReward(t *testing.T) {
	svc, _, users := setupUserService(t)
	ctx := context.Background()

	u, err := svc.EnsureUser(ctx, "ravi")
	require.NoError(t, err)

	sess := sessionAt(u.ID, fixedNow)
	onboarded, err := svc.Onboard(ctx, sess, validProfile())
	require.NoError(t, err)
	assert.True(t, onboarded.OnboardingCompleted)

	stored, err := users.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.WelcomeXP, stored.TotalXP)
	assert.Equal(t, domain.WelcomeSustainability, stored.SustainabilityScore)
	assert.Equal(t, 1, stored.CurrentStreak)
	assert.Equal(t, []string{domain.BadgeWelcomeFarmer}, stored.BadgesEarned)
	require.NotNil(t, stored.LastActivityDate)
	assert.Equal(t, "2025-06-15", stored.LastActivityDate.Format(domain.DateLayout))
	assert.Equal(t, []string{"Rice", "Wheat"}, stored.PrimaryCrops)

	_, err = svc.Onboard(ctx, sess, validProfile())
	require.ErrorIs(t, err, &domain.ValidationError{Code: domain.ErrCodeAlreadyOnboarded})

	stored, err = users.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.WelcomeXP, stored.TotalXP, "second onboarding must not pay out again")
}

func TestOnboard_IncompleteProfileRejected(t *testing.T) {
	svc, _, users := setupUserService(t)
	ctx := context.Background()

	u, err := svc.EnsureUser(ctx, "ravi")
	require.NoError(t, err)

	profile := validProfile()
	profile.PrimaryCrops = nil
	profile.FarmSize = 0
	_, err = svc.Onboard(ctx, sessionAt(u.ID, fixedNow), profile)
	require.ErrorIs(t, err, &domain.ValidationError{Code: domain.ErrCodeInvalidProfile})
	assert.Contains(t, err.Error(), "farm size")
	assert.Contains(t, err.Error(), "primary crops")

	stored, err := users.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.False(t, stored.OnboardingCompleted)
	assert.Zero(t, stored.TotalXP)
}

func TestClaimDailyBonus(t *testing.T) {
	yesterday := fixedNow.AddDate(0, 0, -1)
	lastWeek := fixedNow.AddDate(0, 0, -7)

	tests := []struct {
		name        string
		opts        []testutil.UserOption
		wantGranted bool
		wantStreak  int
		wantXP      int
	}{
		{"same day", []testutil.UserOption{testutil.WithStreak(3, fixedNow), testutil.WithXP(100)}, false, 3, 100},
		{"yesterday extends", []testutil.UserOption{testutil.WithStreak(3, yesterday), testutil.WithXP(100)}, true, 4, 110},
		{"gap resets", []testutil.UserOption{testutil.WithStreak(3, lastWeek), testutil.WithXP(100)}, true, 1, 110},
		{"first activity", []testutil.UserOption{testutil.WithXP(100)}, true, 1, 110},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _, users := setupUserService(t)
			ctx := context.Background()
			opts := append([]testutil.UserOption{testutil.WithOnboarded("Rampur", "Pune")}, tt.opts...)
			u := testutil.NewTestUser("ravi", opts...)
			require.NoError(t, users.Create(ctx, u))

			res, err := svc.ClaimDailyBonus(ctx, sessionAt(u.ID, fixedNow))
			require.NoError(t, err)
			assert.Equal(t, tt.wantGranted, res.Bonus.Granted)
			assert.Equal(t, tt.wantStreak, res.Bonus.Streak)

			stored, err := users.GetByID(ctx, u.ID)
			require.NoError(t, err)
			assert.Equal(t, tt.wantXP, stored.TotalXP)
			assert.Equal(t, tt.wantStreak, stored.CurrentStreak)
			assert.GreaterOrEqual(t, stored.LongestStreak, stored.CurrentStreak)
		})
	}
}

func TestClaimDailyBonus_OncePerDay(t *testing.T) {
	svc, _, users := setupUserService(t)
	ctx := context.Background()
	u := testutil.NewTestUser("ravi", testutil.WithOnboarded("Rampur", "Pune"),
		testutil.WithStreak(1, fixedNow.AddDate(0, 0, -1)))
	require.NoError(t, users.Create(ctx, u))

	sess := sessionAt(u.ID, fixedNow)
	first, err := svc.ClaimDailyBonus(ctx, sess)
	require.NoError(t, err)
	assert.True(t, first.Bonus.Granted)

	second, err := svc.ClaimDailyBonus(ctx, sess)
	require.NoError(t, err)
	assert.False(t, second.Bonus.Granted)

	stored, err := users.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.DailyBonusXP, stored.TotalXP)
}

func TestClaimDailyBonus_AwardsStreakBadge(t *testing.T) {
	svc, _, users := setupUserService(t)
	ctx := context.Background()
	u := testutil.NewTestUser("ravi", testutil.WithOnboarded("Rampur", "Pune"),
		testutil.WithStreak(4, fixedNow.AddDate(0, 0, -1)))
	require.NoError(t, users.Create(ctx, u))

	res, err := svc.ClaimDailyBonus(ctx, sessionAt(u.ID, fixedNow))
	require.NoError(t, err)
	assert.Equal(t, 5, res.Bonus.Streak)
	assert.Equal(t, []string{domain.BadgeStreak5}, res.NewBadges)
	assert.Contains(t, res.User.BadgesEarned, domain.BadgeStreak5)
}

func TestClaimDailyBonus_RequiresOnboarding(t *testing.T) {
	svc, _, _ := setupUserService(t)
	ctx := context.Background()
	u, err := svc.EnsureUser(ctx, "ravi")
	require.NoError(t, err)

	_, err = svc.ClaimDailyBonus(ctx, sessionAt(u.ID, fixedNow))
	require.ErrorIs(t, err, &domain.ValidationError{Code: domain.ErrCodeNotOnboarded})
}

func TestClaimDailyBonus_RollbackOnUpdateFailure(t *testing.T) {
	_, database, users := setupUserService(t)
	ctx := context.Background()
	u := testutil.NewTestUser("ravi", testutil.WithOnboarded("Rampur", "Pune"), testutil.WithXP(40))
	require.NoError(t, users.Create(ctx, u))

	failUoW := &testutil.FailingUoW{
		DB:         database,
		FailOnExec: 1,
		Err:        fmt.Errorf("injected user update failure"),
	}
	svc := NewUserService(users,
		repository.NewSQLiteProgressRepo(database),
		repository.NewSQLiteMissionRepo(database),
		failUoW)

	_, err := svc.ClaimDailyBonus(ctx, sessionAt(u.ID, fixedNow))
	require.Error(t, err)

	stored, err := users.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, 40, stored.TotalXP)
	assert.Nil(t, stored.LastActivityDate)
}

func TestUpdateProfile(t *testing.T) {
	svc, _, users := setupUserService(t)
	ctx := context.Background()
	u := testutil.NewTestUser("ravi", testutil.WithOnboarded("Rampur", "Pune"), testutil.WithXP(70))
	require.NoError(t, users.Create(ctx, u))
	sess := sessionAt(u.ID, fixedNow)

	village := "Shirur"
	size := 4.0
	updated, err := svc.UpdateProfile(ctx, sess, domain.ProfilePatch{
		Village:      &village,
		FarmSize:     &size,
		PrimaryCrops: []string{"Cotton"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Shirur", updated.Village)

	stored, err := users.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "Shirur", stored.Village)
	assert.Equal(t, "Pune", stored.District, "unset fields are untouched")
	assert.Equal(t, 4.0, stored.FarmSize)
	assert.Equal(t, []string{"Cotton"}, stored.PrimaryCrops)
	assert.Equal(t, 70, stored.TotalXP)

	bad := -1.0
	_, err = svc.UpdateProfile(ctx, sess, domain.ProfilePatch{FarmSize: &bad})
	require.ErrorIs(t, err, &domain.ValidationError{Code: domain.ErrCodeInvalidProfile})

	_, err = svc.UpdateProfile(ctx, sessionAt("missing", fixedNow), domain.ProfilePatch{Village: &village})
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestProfile_AggregatesProgress(t *testing.T) {
	svc, database, users := setupUserService(t)
	ctx := context.Background()
	missions := repository.NewSQLiteMissionRepo(database)
	progress := repository.NewSQLiteProgressRepo(database)

	u := testutil.NewTestUser("ravi", testutil.WithOnboarded("Rampur", "Pune"),
		testutil.WithXP(150), testutil.WithBadges(domain.BadgeWelcomeFarmer, "retired_badge"))
	require.NoError(t, users.Create(ctx, u))

	quiz := testutil.NewTestMission("Quiz", testutil.WithCards(
		testutil.QuizCard("A", 0), testutil.QuizCard("B", 1)))
	other := testutil.NewTestMission("Other")
	require.NoError(t, missions.Create(ctx, quiz))
	require.NoError(t, missions.Create(ctx, other))
	require.NoError(t, progress.Create(ctx, testutil.NewTestProgress(u.ID, quiz.ID,
		testutil.WithAnswers(map[int]int{0: 0, 1: 0}), testutil.WithCompleted(50))))
	require.NoError(t, progress.Create(ctx, testutil.NewTestProgress(u.ID, other.ID, testutil.WithCursor(1))))

	stats, err := svc.Profile(ctx, sessionAt(u.ID, fixedNow))
	require.NoError(t, err)
	assert.Equal(t, 1, stats.CompletedMissions)
	assert.Equal(t, 1, stats.InProgress)
	assert.Equal(t, 50, stats.XPFromMissions)
	assert.Equal(t, 1, stats.CorrectQuizzes)
	assert.Equal(t, 50, stats.LevelProgress)
	require.Len(t, stats.Badges, 2)
	assert.Equal(t, "Welcome Farmer", stats.Badges[0].Name)
	assert.Equal(t, "retired_badge", stats.Badges[1].Name, "unknown keys fall back to the raw key")
}
