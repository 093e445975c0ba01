package repository

import (
	"context"
	"testing"
	"time"

	"github.com/alexanderramin/farmquest/internal/domain"
	"github.com/alexanderramin/farmquest/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRepo_CreateAndGet(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteUserRepo(db)
	ctx := context.Background()

	last := time.Date(2025, 6, 14, 0, 0, 0, 0, time.UTC)
	u := testutil.NewTestUser("asha",
		testutil.WithOnboarded("Wadgaon", "Pune"),
		testutil.WithXP(230),
		testutil.WithStreak(4, last),
		testutil.WithBadges(domain.BadgeWelcomeFarmer, domain.BadgeFirstMission),
	)
	require.NoError(t, repo.Create(ctx, u))

	byID, err := repo.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "asha", byID.Handle)
	assert.Equal(t, "Wadgaon", byID.Village)
	assert.Equal(t, 230, byID.TotalXP)
	assert.Equal(t, 3, byID.CurrentLevel)
	assert.Equal(t, 4, byID.CurrentStreak)
	assert.True(t, byID.OnboardingCompleted)
	assert.Equal(t, []string{"Rice"}, byID.PrimaryCrops)
	assert.Equal(t, []string{domain.BadgeWelcomeFarmer, domain.BadgeFirstMission}, byID.BadgesEarned)
	require.NotNil(t, byID.LastActivityDate)
	assert.Equal(t, last, *byID.LastActivityDate)

	byHandle, err := repo.GetByHandle(ctx, "ASHA")
	require.NoError(t, err)
	assert.Equal(t, u.ID, byHandle.ID, "handle lookup is case-insensitive")
}

func TestUserRepo_GetByID_NotFound(t *testing.T) {
	repo := NewSQLiteUserRepo(testutil.NewTestDB(t))

	_, err := repo.GetByID(context.Background(), "nonexistent")
	assert.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = repo.GetByHandle(context.Background(), "nobody")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUserRepo_DuplicateHandleRejected(t *testing.T) {
	repo := NewSQLiteUserRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, testutil.NewTestUser("ravi")))
	assert.Error(t, repo.Create(ctx, testutil.NewTestUser("ravi")))
}

func TestUserRepo_UpdateDerivesLevel(t *testing.T) {
	repo := NewSQLiteUserRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	u := testutil.NewTestUser("meena")
	require.NoError(t, repo.Create(ctx, u))

	u.TotalXP = 199
	u.CurrentLevel = 9 // stale value must not be persisted
	u.Village = "Khed"
	require.NoError(t, repo.Update(ctx, u))

	got, err := repo.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, 199, got.TotalXP)
	assert.Equal(t, 2, got.CurrentLevel)
	assert.Equal(t, "Khed", got.Village)
}

func TestUserRepo_UpdateMissing(t *testing.T) {
	repo := NewSQLiteUserRepo(testutil.NewTestDB(t))

	err := repo.Update(context.Background(), testutil.NewTestUser("ghost"))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUserRepo_ListInCreationOrder(t *testing.T) {
	repo := NewSQLiteUserRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	for _, h := range []string{"a", "b", "c"} {
		require.NoError(t, repo.Create(ctx, testutil.NewTestUser(h)))
	}

	users, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, users, 3)
	assert.Equal(t, "a", users[0].Handle)
	assert.Equal(t, "b", users[1].Handle)
	assert.Equal(t, "c", users[2].Handle)
}
