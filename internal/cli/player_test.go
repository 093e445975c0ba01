package cli

import (
	"context"
	"testing"
	"time"

	"github.com/alexanderramin/farmquest/internal/domain"
	"github.com/alexanderramin/farmquest/internal/service"
	"github.com/alexanderramin/farmquest/internal/teatest"
	"github.com/alexanderramin/farmquest/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPlayerDriver(t *testing.T, f *cliFixture, missionID string) (*teatest.Driver, *service.Navigator) {
	t.Helper()
	ctx := context.Background()
	nav, sess, err := startNavigator(ctx, f.app, missionID)
	require.NoError(t, err)
	return teatest.New(t, newMissionPlayer(ctx, f.app, sess.UserID, nav), teatest.WithSize(100, 40)), nav
}

func TestMissionPlayer_QuizThenProof(t *testing.T) {
	f := testApp(t)
	f.addMission(t, "compost", testutil.WithXPReward(60), testutil.WithCards(
		testutil.TextCard("Why compost"),
		testutil.QuizCard("Which goes in?", 1, "Plastic", "Leaves"),
		testutil.PhotoProofCard("Show your pit"),
	))
	d, nav := newPlayerDriver(t, f, "compost")
	d.RequireView("Card 1 of 3", "Why compost")

	d.Press("right")
	d.RequireView("Card 2 of 3", "1) Plastic", "2) Leaves")

	d.Press("enter")
	d.RequireView("answer required")
	assert.Equal(t, 1, nav.Cursor())

	d.Press("2")
	d.RequireView("▸ 2) Leaves")
	assert.NotContains(t, d.View(), "answer required")

	d.Press("p")
	d.RequireView("Photo proof is taken on the last card.")

	d.Press("n")
	d.RequireView("Card 3 of 3", "Take a photo")

	d.Press("enter")
	d.RequireView("Press p to add your photo proof.")
	assert.Equal(t, service.NavNeedsProof, nav.State())

	d.Press("p")
	d.Type("https://photos.example/pit.jpg")
	d.Press("enter")
	d.RequireView("Mission complete!", "+60 XP", "First Mission", "Press q to return.")
	assert.Equal(t, service.NavCompleted, nav.State())

	d.Press("q")
	assert.True(t, d.Quitting)
}

func TestMissionPlayer_BackAndCancelProof(t *testing.T) {
	f := testApp(t)
	f.addMission(t, "mulch", testutil.WithCards(
		testutil.TextCard("Spread mulch"),
		testutil.PhotoProofCard("Show mulch"),
	))
	d, nav := newPlayerDriver(t, f, "mulch")

	d.Press("left")
	assert.Equal(t, 0, nav.Cursor(), "back on the first card stays put")

	d.Press("l", "p")
	d.RequireView("enter to submit")
	d.Type("nope")
	d.Press("esc")
	assert.NotContains(t, d.View(), "enter to submit")
	assert.False(t, d.Quitting, "esc in proof mode only closes the prompt")

	d.Press("h")
	d.RequireView("Card 1 of 2")

	d.Press("esc")
	assert.True(t, d.Quitting)
}

func TestMissionPlayer_ProofWithoutStore(t *testing.T) {
	f := testApp(t)
	f.app.Photos = nil
	f.addMission(t, "mulch", testutil.WithCards(testutil.PhotoProofCard("Show mulch")))
	d, nav := newPlayerDriver(t, f, "mulch")

	d.Press("p")
	d.Type("pit.jpg")
	d.Press("enter")
	d.RequireView("photo storage is not configured", "enter to submit")
	assert.Equal(t, service.NavOnCard, nav.State())
}

func TestOnboardingAnswers_ToProfile(t *testing.T) {
	a := onboardingAnswers{
		FullName:    "  Asha Patil ",
		Phone:       "+91 90000 00000",
		DateOfBirth: "1990-04-12",
		Village:     "Rampur",
		District:    "Pune",
		State:       "Maharashtra",
		FarmSize:    "2.5",
		FarmUnit:    "hectares",
		Crops:       []string{"Rice"},
		Language:    "marathi",
	}
	p, err := a.toProfile()
	require.NoError(t, err)
	assert.Equal(t, "Asha Patil", p.FullName)
	assert.InDelta(t, 2.5, p.FarmSize, 0.001)
	require.NotNil(t, p.DateOfBirth)
	assert.Equal(t, time.Date(1990, 4, 12, 0, 0, 0, 0, time.UTC), *p.DateOfBirth)
	require.NoError(t, p.Validate())

	a.DateOfBirth = "12/04/1990"
	_, err = a.toProfile()
	assert.ErrorContains(t, err, "YYYY-MM-DD")
}

func TestWizardValidators(t *testing.T) {
	assert.Error(t, validateRequired("  "))
	assert.NoError(t, validateRequired("Rampur"))
	assert.Error(t, validatePositiveFloat("0"))
	assert.Error(t, validatePositiveFloat("two"))
	assert.NoError(t, validatePositiveFloat(" 1.5 "))
	assert.NoError(t, validateOptionalDate(""))
	assert.Error(t, validateOptionalDate("1990-13-01"))
}

func TestPlayerError_UsesValidationMessage(t *testing.T) {
	assert.Equal(t, "answer required", playerError(domain.ErrAnswerRequired))
}
