package repository

import (
	"context"
	"testing"

	"github.com/alexanderramin/farmquest/internal/domain"
	"github.com/alexanderramin/farmquest/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMissionRepo_CreateAndGetRoundTripsCards(t *testing.T) {
	repo := NewSQLiteMissionRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	m := testutil.NewTestMission("Compost 101",
		testutil.WithCards(
			testutil.TextCard("Why compost"),
			testutil.QuizCard("Best ratio?", 1, "1:1", "3:1", "10:1"),
			testutil.PhotoProofCard("Your pile"),
		),
		testutil.WithTargetCrops("rice", "wheat"),
		testutil.WithXPReward(40),
	)
	require.NoError(t, repo.Create(ctx, m))

	got, err := repo.GetByID(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, "Compost 101", got.Title)
	assert.Equal(t, 40, got.XPReward)
	assert.Equal(t, []string{"rice", "wheat"}, got.TargetCrops)
	require.Len(t, got.Cards, 3)
	assert.Equal(t, domain.CardQuiz, got.Cards[1].Type)
	assert.Equal(t, []string{"1:1", "3:1", "10:1"}, got.Cards[1].QuizOptions)
	require.NotNil(t, got.Cards[1].CorrectOption)
	assert.Equal(t, 1, *got.Cards[1].CorrectOption)
	assert.True(t, got.HasPhotoProof())
	assert.True(t, got.IsActive)
}

func TestMissionRepo_GetByID_NotFound(t *testing.T) {
	repo := NewSQLiteMissionRepo(testutil.NewTestDB(t))

	_, err := repo.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMissionRepo_ListFilters(t *testing.T) {
	repo := NewSQLiteMissionRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, testutil.NewTestMission("Soil")))
	require.NoError(t, repo.Create(ctx, testutil.NewTestMission("Drip", testutil.WithCategory(domain.CategoryWaterManagement))))
	require.NoError(t, repo.Create(ctx, testutil.NewTestMission("Old", testutil.WithInactive())))

	active, err := repo.List(ctx, MissionFilter{})
	require.NoError(t, err)
	assert.Len(t, active, 2)

	all, err := repo.List(ctx, MissionFilter{IncludeInactive: true})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	water, err := repo.List(ctx, MissionFilter{Category: domain.CategoryWaterManagement})
	require.NoError(t, err)
	require.Len(t, water, 1)
	assert.Equal(t, "Drip", water[0].Title)
}

func TestMissionRepo_Update(t *testing.T) {
	repo := NewSQLiteMissionRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	m := testutil.NewTestMission("Soil")
	require.NoError(t, repo.Create(ctx, m))

	m.Title = "Soil Testing"
	m.Cards = append(m.Cards, testutil.TextCard("Wrap up"))
	require.NoError(t, repo.Update(ctx, m))

	got, err := repo.GetByID(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, "Soil Testing", got.Title)
	assert.Len(t, got.Cards, 3)
}
