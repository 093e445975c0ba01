package testutil

import (
	"time"

	"github.com/alexanderramin/farmquest/internal/domain"
	"github.com/google/uuid"
)

// User options
type UserOption func(*domain.User)

// WithOnboarded fills a complete profile and marks onboarding done without
// granting the welcome reward.
func WithOnboarded(village, district string) UserOption {
	return func(u *domain.User) {
		u.FullName = "Test Farmer"
		u.Phone = "+91 9000000000"
		u.Village = village
		u.District = district
		u.State = "Maharashtra"
		u.FarmSize = 2
		u.FarmSizeUnit = "acres"
		u.PrimaryCrops = []string{"Rice"}
		u.PreferredLanguage = "english"
		u.OnboardingCompleted = true
	}
}

func WithXP(xp int) UserOption {
	return func(u *domain.User) {
		u.TotalXP = xp
		u.CurrentLevel = domain.LevelFor(xp)
	}
}

func WithSustainability(score int) UserOption {
	return func(u *domain.User) {
		u.SustainabilityScore = score
	}
}

func WithStreak(current int, lastActivity time.Time) UserOption {
	return func(u *domain.User) {
		day := domain.CalendarDate(lastActivity)
		u.CurrentStreak = current
		u.LongestStreak = max(u.LongestStreak, current)
		u.LastActivityDate = &day
	}
}

func WithCrops(crops ...string) UserOption {
	return func(u *domain.User) {
		u.PrimaryCrops = crops
	}
}

func WithBadges(keys ...string) UserOption {
	return func(u *domain.User) {
		u.BadgesEarned = keys
	}
}

func NewTestUser(handle string, opts ...UserOption) *domain.User {
	now := time.Now().UTC()
	u := &domain.User{
		ID:           uuid.New().String(),
		Handle:       handle,
		FarmSizeUnit: "acres",
		CurrentLevel: 1,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// Card builders
func TextCard(title string) domain.ContentCard {
	return domain.ContentCard{Type: domain.CardText, Title: title, Content: title + " content"}
}

// QuizCard builds a quiz card whose correct answer is options[correct].
func QuizCard(title string, correct int, options ...string) domain.ContentCard {
	if len(options) == 0 {
		options = []string{"Yes", "No"}
	}
	return domain.ContentCard{Type: domain.CardQuiz, Title: title, QuizOptions: options, CorrectOption: &correct}
}

func PhotoProofCard(title string) domain.ContentCard {
	return domain.ContentCard{Type: domain.CardPhotoProof, Title: title, Content: "Upload a photo"}
}

// Mission options
type MissionOption func(*domain.Mission)

func WithCards(cards ...domain.ContentCard) MissionOption {
	return func(m *domain.Mission) {
		m.Cards = cards
	}
}

func WithXPReward(xp int) MissionOption {
	return func(m *domain.Mission) {
		m.XPReward = xp
	}
}

func WithTargetCrops(crops ...string) MissionOption {
	return func(m *domain.Mission) {
		m.TargetCrops = crops
	}
}

func WithCategory(c domain.MissionCategory) MissionOption {
	return func(m *domain.Mission) {
		m.Category = c
	}
}

func WithInactive() MissionOption {
	return func(m *domain.Mission) {
		m.IsActive = false
	}
}

// NewTestMission returns an active soil-health mission with one text card
// and one quiz card unless overridden.
func NewTestMission(title string, opts ...MissionOption) *domain.Mission {
	now := time.Now().UTC()
	m := &domain.Mission{
		ID:                uuid.New().String(),
		Title:             title,
		Description:       title + " description",
		Category:          domain.CategorySoilHealth,
		EstimatedDuration: 10,
		XPReward:          50,
		Cards: []domain.ContentCard{
			TextCard("Intro"),
			QuizCard("Check", 0),
		},
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Progress options
type ProgressOption func(*domain.UserProgress)

func WithCursor(i int) ProgressOption {
	return func(p *domain.UserProgress) {
		p.CurrentCardIndex = i
	}
}

func WithAnswers(answers map[int]int) ProgressOption {
	return func(p *domain.UserProgress) {
		p.QuizAnswers = answers
	}
}

func WithProof(url string) ProgressOption {
	return func(p *domain.UserProgress) {
		p.PhotoProofURL = url
	}
}

func WithCompleted(xp int) ProgressOption {
	return func(p *domain.UserProgress) {
		now := time.Now().UTC()
		p.Status = domain.ProgressCompleted
		p.CompletedAt = &now
		p.XPEarned = &xp
	}
}

func NewTestProgress(userID, missionID string, opts ...ProgressOption) *domain.UserProgress {
	p := domain.NewProgress(uuid.New().String(), userID, missionID, time.Now().UTC())
	for _, opt := range opts {
		opt(p)
	}
	return p
}
