package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/alexanderramin/farmquest/internal/domain"
	"github.com/alexanderramin/farmquest/internal/photostore"
	"github.com/alexanderramin/farmquest/internal/repository"
	"github.com/alexanderramin/farmquest/internal/service"
	"github.com/alexanderramin/farmquest/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var cliNow = time.Date(2025, 6, 15, 9, 30, 0, 0, time.UTC)

var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*m`)

type cliFixture struct {
	app      *App
	users    *repository.SQLiteUserRepo
	missions *repository.SQLiteMissionRepo
	photoDir string
}

// testApp wires a full App backed by an in-memory DB for CLI integration tests.
func testApp(t *testing.T) *cliFixture {
	t.Helper()
	database := testutil.NewTestDB(t)
	uow := testutil.NewTestUoW(database)

	users := repository.NewSQLiteUserRepo(database)
	missions := repository.NewSQLiteMissionRepo(database)
	progress := repository.NewSQLiteProgressRepo(database)
	photoDir := t.TempDir()

	return &cliFixture{
		app: &App{
			Users:       service.NewUserService(users, progress, missions, uow),
			Missions:    service.NewMissionService(users, missions, progress, uow),
			Leaderboard: service.NewLeaderboardService(users, progress),
			Import:      service.NewImportService(missions, uow),
			Photos:      photostore.NewLocalStore(photoDir),
			DefaultUser: "asha",
			Clock:       func() time.Time { return cliNow },
		},
		users:    users,
		missions: missions,
		photoDir: photoDir,
	}
}

func (f *cliFixture) addMission(t *testing.T, id string, opts ...testutil.MissionOption) *domain.Mission {
	t.Helper()
	m := testutil.NewTestMission(id, opts...)
	m.ID = id
	require.NoError(t, f.missions.Create(context.Background(), m))
	return m
}

// executeCmd runs a cobra command and captures stdout/stderr.
func executeCmd(t *testing.T, app *App, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd(app)
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return ansiPattern.ReplaceAllString(buf.String(), ""), err
}

var onboardArgs = []string{
	"onboard",
	"--name", "Asha Patil",
	"--phone", "+91 90000 00000",
	"--village", "Rampur",
	"--district", "Pune",
	"--state", "Maharashtra",
	"--farm-size", "2.5",
	"--crops", "Wheat,Rice",
}

func TestOnboardCmd_WithFlags(t *testing.T) {
	f := testApp(t)

	out, err := executeCmd(t, f.app, onboardArgs...)
	require.NoError(t, err)
	assert.Contains(t, out, "Welcome to FarmQuest, Asha!")
	assert.Contains(t, out, "+50 XP")

	u, err := f.users.GetByHandle(context.Background(), "asha")
	require.NoError(t, err)
	assert.True(t, u.OnboardingCompleted)
	assert.Equal(t, []string{"Wheat", "Rice"}, u.PrimaryCrops)
	assert.Equal(t, "english", u.PreferredLanguage)

	_, err = executeCmd(t, f.app, onboardArgs...)
	require.ErrorIs(t, err, &domain.ValidationError{Code: domain.ErrCodeAlreadyOnboarded})
}

func TestOnboardCmd_MissingFields(t *testing.T) {
	f := testApp(t)
	_, err := executeCmd(t, f.app, "onboard", "--name", "Asha")
	require.ErrorIs(t, err, &domain.ValidationError{Code: domain.ErrCodeInvalidProfile})

	_, err = executeCmd(t, f.app, "onboard", "--name", "Asha", "--farm-size", "lots")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "farm size")
}

func TestRootCmd_NoUser(t *testing.T) {
	f := testApp(t)
	f.app.DefaultUser = ""
	_, err := executeCmd(t, f.app, "home")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no user selected")

	out, err := executeCmd(t, f.app, "--user", "ravi")
	require.NoError(t, err)
	assert.Contains(t, out, "Welcome, ravi!")
	assert.Contains(t, out, "farmquest onboard")
}

func TestHomeCmd_AfterOnboarding(t *testing.T) {
	f := testApp(t)
	f.addMission(t, "soil-ph")
	_, err := executeCmd(t, f.app, onboardArgs...)
	require.NoError(t, err)

	out, err := executeCmd(t, f.app, "home")
	require.NoError(t, err)
	assert.Contains(t, out, "Namaste, Asha")
	assert.Contains(t, out, "already claimed")
	assert.Contains(t, out, "TODAY'S MISSIONS")
	assert.Contains(t, out, "1. soil-ph")
}

func TestBonusCmd_GrantsNextDay(t *testing.T) {
	f := testApp(t)
	_, err := executeCmd(t, f.app, "bonus")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "farmquest onboard")

	_, err = executeCmd(t, f.app, onboardArgs...)
	require.NoError(t, err)

	f.app.Clock = func() time.Time { return cliNow.AddDate(0, 0, 1) }
	out, err := executeCmd(t, f.app, "bonus")
	require.NoError(t, err)
	assert.Contains(t, out, "Daily bonus")
	assert.Contains(t, out, "streak 2")

	u, err := f.users.GetByHandle(context.Background(), "asha")
	require.NoError(t, err)
	assert.Equal(t, domain.WelcomeXP+domain.DailyBonusXP, u.TotalXP)
}

func TestMissionListCmd_Filters(t *testing.T) {
	f := testApp(t)
	f.addMission(t, "soil-ph")
	f.addMission(t, "drip", testutil.WithCategory(domain.CategoryWaterManagement))

	out, err := executeCmd(t, f.app, "mission", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "soil-ph")
	assert.Contains(t, out, "drip")

	out, err = executeCmd(t, f.app, "mission", "list", "--category", "water_management")
	require.NoError(t, err)
	assert.Contains(t, out, "drip")
	assert.NotContains(t, out, "soil-ph")

	_, err = executeCmd(t, f.app, "mission", "list", "--category", "weather")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must be one of")
}

func TestMissionShowAndSearch(t *testing.T) {
	f := testApp(t)
	m := f.addMission(t, "soil-ph")
	m.Title = "Test Your Soil pH"
	require.NoError(t, f.missions.Update(context.Background(), m))
	f.addMission(t, "drip")

	out, err := executeCmd(t, f.app, "mission", "show", "soil")
	require.NoError(t, err)
	assert.Contains(t, out, "TEST YOUR SOIL PH")
	assert.Contains(t, out, "Check")

	out, err = executeCmd(t, f.app, "mission", "search", "soil")
	require.NoError(t, err)
	assert.Contains(t, out, "Test Your Soil pH")

	_, err = executeCmd(t, f.app, "mission", "show", "nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mission not found")
}

func TestMissionSearchCmd_MatchesTitlesOnly(t *testing.T) {
	f := testApp(t)
	m := f.addMission(t, "drip")
	m.Description = "Keep the soil moist with less water"
	require.NoError(t, f.missions.Update(context.Background(), m))

	search := newMissionSearchCmd(f.app)
	assert.NotContains(t, search.Short, "description")

	out, err := executeCmd(t, f.app, "mission", "search", "moist")
	require.NoError(t, err)
	assert.Contains(t, out, "No missions found.")

	out, err = executeCmd(t, f.app, "mission", "search", "drp")
	require.NoError(t, err)
	assert.Contains(t, out, "drip")
}

func TestResolveMissionID_AmbiguousPrefix(t *testing.T) {
	f := testApp(t)
	f.addMission(t, "drip-basics")
	f.addMission(t, "drip-advanced")

	_, err := resolveMissionID(context.Background(), f.app, "drip")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ambiguous")

	id, err := resolveMissionID(context.Background(), f.app, "DRIP-A")
	require.NoError(t, err)
	assert.Equal(t, "drip-advanced", id)
}

func TestMissionCmd_StepThroughAndProof(t *testing.T) {
	f := testApp(t)
	f.addMission(t, "compost", testutil.WithXPReward(60), testutil.WithCards(
		testutil.TextCard("Why compost"),
		testutil.QuizCard("Which goes in?", 1, "Plastic", "Leaves"),
		testutil.PhotoProofCard("Show your pit"),
	))

	out, err := executeCmd(t, f.app, "mission", "start", "compost")
	require.NoError(t, err)
	assert.Contains(t, out, "Card 1 of 3")

	out, err = executeCmd(t, f.app, "mission", "next", "compost")
	require.NoError(t, err)
	assert.Contains(t, out, "Card 2 of 3")

	_, err = executeCmd(t, f.app, "mission", "next", "compost")
	require.ErrorIs(t, err, &domain.ValidationError{Code: domain.ErrCodeAnswerRequired})

	_, err = executeCmd(t, f.app, "m", "next", "compost", "--answer", "5")
	require.ErrorIs(t, err, &domain.ValidationError{Code: domain.ErrCodeInvalidAnswer})

	out, err = executeCmd(t, f.app, "m", "next", "compost", "-a", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "Card 3 of 3")

	out, err = executeCmd(t, f.app, "mission", "back", "compost")
	require.NoError(t, err)
	assert.Contains(t, out, "▸ 2) Leaves")

	_, err = executeCmd(t, f.app, "mission", "next", "compost")
	require.NoError(t, err)
	out, err = executeCmd(t, f.app, "mission", "next", "compost")
	require.NoError(t, err)
	assert.Contains(t, out, "mission proof compost")

	photo := filepath.Join(t.TempDir(), "pit.jpg")
	require.NoError(t, os.WriteFile(photo, []byte("jpeg"), 0o644))
	out, err = executeCmd(t, f.app, "mission", "proof", "compost", photo)
	require.NoError(t, err)
	assert.Contains(t, out, "Mission complete")
	assert.Contains(t, out, "+60 XP")
	assert.Contains(t, out, "First Mission")

	entries, err := os.ReadDir(filepath.Join(f.photoDir, "proofs"))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "one user directory under proofs/")
}

func TestMissionProofCmd_URLWithoutStore(t *testing.T) {
	f := testApp(t)
	f.app.Photos = nil
	f.addMission(t, "mulch", testutil.WithCards(testutil.PhotoProofCard("Show mulch")))

	_, err := executeCmd(t, f.app, "mission", "proof", "mulch", "pit.jpg")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not configured")

	out, err := executeCmd(t, f.app, "mission", "proof", "mulch", "https://photos.example/mulch.jpg")
	require.NoError(t, err)
	assert.Contains(t, out, "Mission complete")
}

func TestMissionImportCmd(t *testing.T) {
	f := testApp(t)
	path := filepath.Join(t.TempDir(), "catalogue.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
  "missions": [
    {
      "id": "neem-spray",
      "title": "Make Neem Spray",
      "description": "A natural pest repellent.",
      "category": "pest_control",
      "cards": [
        {"type": "text", "title": "Why neem", "content": "Neem repels aphids."},
        {"type": "quiz", "title": "Best time to spray?", "content": "", "quiz_options": ["Noon", "Evening"], "correct_option": 1}
      ]
    }
  ]
}`), 0o644))

	out, err := executeCmd(t, f.app, "mission", "import", path)
	require.NoError(t, err)
	assert.Contains(t, out, "1 created, 0 updated, 2 cards")

	m, err := f.missions.GetByID(context.Background(), "neem-spray")
	require.NoError(t, err)
	assert.Equal(t, domain.CategoryPestControl, m.Category)

	_, err = executeCmd(t, f.app, "mission", "import", filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
}

func TestLeaderboardCmd_Scope(t *testing.T) {
	f := testApp(t)
	ctx := context.Background()
	require.NoError(t, f.users.Create(ctx, testutil.NewTestUser("bala", testutil.WithOnboarded("Rampur", "Pune"), testutil.WithXP(300))))
	require.NoError(t, f.users.Create(ctx, testutil.NewTestUser("chitra", testutil.WithOnboarded("Nandgaon", "Nashik"), testutil.WithXP(100))))
	_, err := executeCmd(t, f.app, onboardArgs...)
	require.NoError(t, err)

	out, err := executeCmd(t, f.app, "leaderboard", "--scope", "village")
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(out, "Test Farmer"), "only bala shares the village")
	assert.Contains(t, out, "Asha Patil (you)")
	assert.Contains(t, out, "You are #2 of 2")

	_, err = executeCmd(t, f.app, "leaderboard", "--scope", "planet")
	require.Error(t, err)
}

func TestProfileCmd_SetAndShow(t *testing.T) {
	f := testApp(t)
	_, err := executeCmd(t, f.app, onboardArgs...)
	require.NoError(t, err)

	out, err := executeCmd(t, f.app, "profile", "set", "--village", "Shirur", "--farm-size", "4")
	require.NoError(t, err)
	assert.Contains(t, out, "Profile updated")

	u, err := f.users.GetByHandle(context.Background(), "asha")
	require.NoError(t, err)
	assert.Equal(t, "Shirur", u.Village)
	assert.Equal(t, "Pune", u.District, "unset flags leave fields alone")
	assert.InDelta(t, 4.0, u.FarmSize, 0.001)

	out, err = executeCmd(t, f.app, "profile")
	require.NoError(t, err)
	assert.Contains(t, out, "Shirur, Pune, Maharashtra")
	assert.Contains(t, out, "Welcome Farmer")

	_, err = executeCmd(t, f.app, "profile", "set", "--farm-size", "-1")
	require.ErrorIs(t, err, &domain.ValidationError{Code: domain.ErrCodeInvalidProfile})
}

func TestServeCmd_Unavailable(t *testing.T) {
	f := testApp(t)
	_, err := executeCmd(t, f.app, "serve")
	require.Error(t, err)

	called := false
	f.app.Serve = func(context.Context) error { called = true; return nil }
	_, err = executeCmd(t, f.app, "serve")
	require.NoError(t, err)
	assert.True(t, called)
}

func TestMissionPlayCmd_RequiresTerminal(t *testing.T) {
	f := testApp(t)
	f.addMission(t, "soil-ph")
	_, err := executeCmd(t, f.app, "mission", "play", "soil-ph")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "needs a terminal")
}
