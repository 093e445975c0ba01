package domain

const (
	BadgeWelcomeFarmer = "welcome_farmer"
	BadgeFirstMission  = "first_mission"
	BadgeStreak5       = "streak_5"
	BadgeEcoWarrior    = "eco_warrior"
	BadgeQuizMaster    = "quiz_master"
)

type BadgeInfo struct {
	Key         string
	Name        string
	Icon        string
	Description string
}

// BadgeCatalog lists every badge in display order.
var BadgeCatalog = []BadgeInfo{
	{BadgeWelcomeFarmer, "Welcome Farmer", "🌱", "For joining FarmQuest"},
	{BadgeFirstMission, "First Mission", "🎯", "For completing your first mission"},
	{BadgeStreak5, "5 Day Streak", "🔥", "For being active 5 days in a row"},
	{BadgeEcoWarrior, "Eco Warrior", "🌿", "For reaching 50+ sustainability score"},
	{BadgeQuizMaster, "Quiz Master", "🧠", "For acing 10 quizzes"},
}

// LookupBadge returns catalogue info for key, falling back to the raw key.
func LookupBadge(key string) BadgeInfo {
	for _, b := range BadgeCatalog {
		if b.Key == key {
			return b
		}
	}
	return BadgeInfo{Key: key, Name: key, Icon: "🏅"}
}

// BadgeStats is the input to badge evaluation.
type BadgeStats struct {
	CompletedMissions   int
	CurrentStreak       int
	SustainabilityScore int
	CorrectQuizzes      int
}

// EarnableBadges returns the badges stats qualify for that u does not hold.
func EarnableBadges(u *User, stats BadgeStats) []string {
	var out []string
	add := func(key string, ok bool) {
		if ok && !u.HasBadge(key) {
			out = append(out, key)
		}
	}
	add(BadgeFirstMission, stats.CompletedMissions >= 1)
	add(BadgeStreak5, stats.CurrentStreak >= 5)
	add(BadgeEcoWarrior, stats.SustainabilityScore >= 50)
	add(BadgeQuizMaster, stats.CorrectQuizzes >= 10)
	return out
}
