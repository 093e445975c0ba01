package api

import (
	"time"

	"github.com/alexanderramin/farmquest/internal/domain"
	"github.com/alexanderramin/farmquest/internal/service"
)

type userResponse struct {
	ID                  string     `json:"id"`
	Handle              string     `json:"handle"`
	FullName            string     `json:"full_name"`
	Phone               string     `json:"phone,omitempty"`
	DateOfBirth         string     `json:"date_of_birth,omitempty"`
	Village             string     `json:"village"`
	District            string     `json:"district"`
	State               string     `json:"state"`
	FarmSize            float64    `json:"farm_size"`
	FarmSizeUnit        string     `json:"farm_size_unit"`
	PrimaryCrops        []string   `json:"primary_crops"`
	PreferredLanguage   string     `json:"preferred_language"`
	OnboardingCompleted bool       `json:"onboarding_completed"`
	TotalXP             int        `json:"total_xp"`
	CurrentLevel        int        `json:"current_level"`
	SustainabilityScore int        `json:"sustainability_score"`
	CurrentStreak       int        `json:"current_streak"`
	LongestStreak       int        `json:"longest_streak"`
	LastActivityDate    string     `json:"last_activity_date,omitempty"`
	BadgesEarned        []string   `json:"badges_earned"`
	CreatedAt           time.Time  `json:"created_date"`
	UpdatedAt           *time.Time `json:"updated_date,omitempty"`
}

func toUserResponse(u *domain.User) userResponse {
	resp := userResponse{
		ID:                  u.ID,
		Handle:              u.Handle,
		FullName:            u.FullName,
		Phone:               u.Phone,
		Village:             u.Village,
		District:            u.District,
		State:               u.State,
		FarmSize:            u.FarmSize,
		FarmSizeUnit:        u.FarmSizeUnit,
		PrimaryCrops:        nonNil(u.PrimaryCrops),
		PreferredLanguage:   u.PreferredLanguage,
		OnboardingCompleted: u.OnboardingCompleted,
		TotalXP:             u.TotalXP,
		CurrentLevel:        domain.LevelFor(u.TotalXP),
		SustainabilityScore: u.SustainabilityScore,
		CurrentStreak:       u.CurrentStreak,
		LongestStreak:       u.LongestStreak,
		BadgesEarned:        nonNil(u.BadgesEarned),
		CreatedAt:           u.CreatedAt,
	}
	if u.DateOfBirth != nil {
		resp.DateOfBirth = u.DateOfBirth.Format(domain.DateLayout)
	}
	if u.LastActivityDate != nil {
		resp.LastActivityDate = u.LastActivityDate.Format(domain.DateLayout)
	}
	if !u.UpdatedAt.IsZero() {
		t := u.UpdatedAt
		resp.UpdatedAt = &t
	}
	return resp
}

// profileRequest is the body of PUT /users/me. Absent fields are unchanged.
type profileRequest struct {
	FullName          *string  `json:"full_name"`
	Phone             *string  `json:"phone"`
	DateOfBirth       *string  `json:"date_of_birth"`
	Village           *string  `json:"village"`
	District          *string  `json:"district"`
	State             *string  `json:"state"`
	FarmSize          *float64 `json:"farm_size"`
	FarmSizeUnit      *string  `json:"farm_size_unit"`
	PrimaryCrops      []string `json:"primary_crops"`
	PreferredLanguage *string  `json:"preferred_language"`
}

func (p profileRequest) toPatch() (domain.ProfilePatch, error) {
	patch := domain.ProfilePatch{
		FullName:          p.FullName,
		Phone:             p.Phone,
		Village:           p.Village,
		District:          p.District,
		State:             p.State,
		FarmSize:          p.FarmSize,
		FarmSizeUnit:      p.FarmSizeUnit,
		PrimaryCrops:      p.PrimaryCrops,
		PreferredLanguage: p.PreferredLanguage,
	}
	if p.DateOfBirth != nil {
		dob, err := time.Parse(domain.DateLayout, *p.DateOfBirth)
		if err != nil {
			return patch, &domain.ValidationError{Code: domain.ErrCodeInvalidProfile, Message: "date_of_birth must be YYYY-MM-DD"}
		}
		patch.DateOfBirth = &dob
	}
	return patch, nil
}

type onboardingRequest struct {
	FullName          string   `json:"full_name"`
	Phone             string   `json:"phone"`
	DateOfBirth       string   `json:"date_of_birth"`
	Village           string   `json:"village"`
	District          string   `json:"district"`
	State             string   `json:"state"`
	FarmSize          float64  `json:"farm_size"`
	FarmSizeUnit      string   `json:"farm_size_unit"`
	PrimaryCrops      []string `json:"primary_crops"`
	PreferredLanguage string   `json:"preferred_language"`
}

func (o onboardingRequest) toProfile() (domain.OnboardingProfile, error) {
	profile := domain.OnboardingProfile{
		FullName:          o.FullName,
		Phone:             o.Phone,
		Village:           o.Village,
		District:          o.District,
		State:             o.State,
		FarmSize:          o.FarmSize,
		FarmSizeUnit:      o.FarmSizeUnit,
		PrimaryCrops:      o.PrimaryCrops,
		PreferredLanguage: o.PreferredLanguage,
	}
	if o.DateOfBirth != "" {
		dob, err := time.Parse(domain.DateLayout, o.DateOfBirth)
		if err != nil {
			return profile, &domain.ValidationError{Code: domain.ErrCodeInvalidProfile, Message: "date_of_birth must be YYYY-MM-DD"}
		}
		profile.DateOfBirth = &dob
	}
	return profile, nil
}

// cardResponse omits the correct option so clients cannot read answers off
// the wire.
type cardResponse struct {
	Type        domain.CardType `json:"type"`
	Title       string          `json:"title"`
	Content     string          `json:"content"`
	ImageURL    string          `json:"image_url,omitempty"`
	QuizOptions []string        `json:"quiz_options,omitempty"`
}

func toCardResponse(c domain.ContentCard) cardResponse {
	return cardResponse{
		Type:        c.Type,
		Title:       c.Title,
		Content:     c.Content,
		ImageURL:    c.ImageURL,
		QuizOptions: c.QuizOptions,
	}
}

type missionResponse struct {
	ID                string         `json:"id"`
	Title             string         `json:"title"`
	Description       string         `json:"description"`
	Category          string         `json:"category"`
	EstimatedDuration int            `json:"estimated_duration"`
	XPReward          int            `json:"xp_reward"`
	TargetCrops       []string       `json:"target_crops"`
	IsActive          bool           `json:"is_active"`
	Cards             []cardResponse `json:"content_cards"`
}

func toMissionResponse(m *domain.Mission) missionResponse {
	cards := make([]cardResponse, len(m.Cards))
	for i, c := range m.Cards {
		cards[i] = toCardResponse(c)
	}
	return missionResponse{
		ID:                m.ID,
		Title:             m.Title,
		Description:       m.Description,
		Category:          string(m.Category),
		EstimatedDuration: m.EstimatedDuration,
		XPReward:          m.XPReward,
		TargetCrops:       nonNil(m.TargetCrops),
		IsActive:          m.IsActive,
		Cards:             cards,
	}
}

type progressResponse struct {
	ID               string      `json:"id"`
	UserID           string      `json:"user_id"`
	MissionID        string      `json:"mission_id"`
	Status           string      `json:"status"`
	CurrentCardIndex int         `json:"current_card_index"`
	QuizAnswers      map[int]int `json:"quiz_answers"`
	PhotoProofURL    string      `json:"photo_proof_url,omitempty"`
	CompletedAt      *time.Time  `json:"completed_at,omitempty"`
	XPEarned         *int        `json:"xp_earned,omitempty"`
}

func toProgressResponse(p *domain.UserProgress) progressResponse {
	return progressResponse{
		ID:               p.ID,
		UserID:           p.UserID,
		MissionID:        p.MissionID,
		Status:           string(p.Status),
		CurrentCardIndex: p.CurrentCardIndex,
		QuizAnswers:      p.AnswersCopy(),
		PhotoProofURL:    p.PhotoProofURL,
		CompletedAt:      p.CompletedAt,
		XPEarned:         p.XPEarned,
	}
}

type completionResponse struct {
	XPEarned       int          `json:"xp_earned"`
	Sustainability int          `json:"sustainability"`
	NewBadges      []string     `json:"new_badges"`
	LeveledUp      bool         `json:"leveled_up"`
	User           userResponse `json:"user"`
}

// navigatorResponse is returned by every mission play endpoint.
type navigatorResponse struct {
	State      string              `json:"state"`
	Cursor     int                 `json:"cursor"`
	TotalCards int                 `json:"total_cards"`
	Percent    int                 `json:"percent"`
	Card       cardResponse        `json:"card"`
	Progress   progressResponse    `json:"progress"`
	Completion *completionResponse `json:"completion,omitempty"`
}

func toNavigatorResponse(nav *service.Navigator) navigatorResponse {
	p := nav.Progress()
	resp := navigatorResponse{
		State:      string(nav.State()),
		Cursor:     nav.Cursor(),
		TotalCards: len(nav.Mission().Cards),
		Percent:    nav.Percent(),
		Card:       toCardResponse(nav.Card()),
		Progress:   toProgressResponse(&p),
	}
	if c := nav.Completion(); c != nil {
		resp.Completion = &completionResponse{
			XPEarned:       c.XPEarned,
			Sustainability: c.Sustainability,
			NewBadges:      nonNil(c.NewBadges),
			LeveledUp:      c.LeveledUp,
			User:           toUserResponse(c.User),
		}
	}
	return resp
}

type advanceRequest struct {
	Answers map[int]int `json:"answers"`
}

type proofRequest struct {
	URL string `json:"url"`
}

type dailyBonusResponse struct {
	Granted       bool         `json:"granted"`
	XP            int          `json:"xp"`
	Streak        int          `json:"streak"`
	LongestStreak int          `json:"longest_streak"`
	NewBadges     []string     `json:"new_badges"`
	User          userResponse `json:"user"`
}

func toDailyBonusResponse(res *service.DailyBonusResult) dailyBonusResponse {
	return dailyBonusResponse{
		Granted:       res.Bonus.Granted,
		XP:            res.Bonus.Delta.XP,
		Streak:        res.Bonus.Streak,
		LongestStreak: res.Bonus.LongestStreak,
		NewBadges:     nonNil(res.NewBadges),
		User:          toUserResponse(res.User),
	}
}

type leaderboardEntryResponse struct {
	Rank                int    `json:"rank"`
	Handle              string `json:"handle"`
	FullName            string `json:"full_name"`
	Village             string `json:"village"`
	District            string `json:"district"`
	TotalXP             int    `json:"total_xp"`
	Level               int    `json:"level"`
	SustainabilityScore int    `json:"sustainability_score"`
	CurrentStreak       int    `json:"current_streak"`
	BadgesCount         int    `json:"badges_count"`
	CompletedMissions   int    `json:"completed_missions"`
	IsCurrentUser       bool   `json:"is_current_user"`
}

type leaderboardResponse struct {
	Scope           string                     `json:"scope"`
	CurrentUserRank int                        `json:"current_user_rank"`
	TotalUsers      int                        `json:"total_users"`
	Entries         []leaderboardEntryResponse `json:"entries"`
}

func toLeaderboardResponse(b *domain.Leaderboard) leaderboardResponse {
	entries := make([]leaderboardEntryResponse, len(b.Entries))
	for i, e := range b.Entries {
		entries[i] = leaderboardEntryResponse{
			Rank:                e.Rank,
			Handle:              e.Handle,
			FullName:            e.FullName,
			Village:             e.Village,
			District:            e.District,
			TotalXP:             e.TotalXP,
			Level:               e.Level,
			SustainabilityScore: e.SustainabilityScore,
			CurrentStreak:       e.CurrentStreak,
			BadgesCount:         e.BadgesCount,
			CompletedMissions:   e.CompletedMissions,
			IsCurrentUser:       e.IsCurrentUser,
		}
	}
	return leaderboardResponse{
		Scope:           string(b.Scope),
		CurrentUserRank: b.CurrentUserRank,
		TotalUsers:      b.TotalUsers,
		Entries:         entries,
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
