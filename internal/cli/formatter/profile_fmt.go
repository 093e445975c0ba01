package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/farmquest/internal/domain"
	"github.com/alexanderramin/farmquest/internal/service"
)

// FormatProfile renders the profile screen. Earned badges are listed first,
// then the ones still locked.
func FormatProfile(stats *service.ProfileStats) string {
	u := stats.User
	var b strings.Builder

	b.WriteString(FormatUserSummary(u) + "\n")

	farm := fmt.Sprintf("%s, %s, %s\n%.1f %s · %s",
		domain.CoalesceStr(u.Village, "?"), domain.CoalesceStr(u.District, "?"), domain.CoalesceStr(u.State, "?"),
		u.FarmSize, u.FarmSizeUnit, Crops(u.PrimaryCrops))
	b.WriteString(RenderBox(domain.CoalesceStr(u.FullName, u.Handle), farm) + "\n\n")

	b.WriteString(Header("Stats") + "\n")
	stat := func(label string, value any) {
		fmt.Fprintf(&b, "  %s %v\n", Dim(fmt.Sprintf("%-18s", label)), value)
	}
	stat("Missions completed", stats.CompletedMissions)
	stat("In progress", stats.InProgress)
	stat("XP from missions", stats.XPFromMissions)
	stat("Correct quizzes", stats.CorrectQuizzes)
	stat("Longest streak", u.LongestStreak)
	if u.LastActivityDate != nil {
		stat("Last active", HumanDate(u.LastActivityDate))
	}

	b.WriteString("\n" + Header("Badges") + "\n")
	for _, badge := range stats.Badges {
		fmt.Fprintf(&b, "  %s %s\n", StyleGreen.Render(badge.Icon+" "+badge.Name), Dim(badge.Description))
	}
	for _, badge := range domain.BadgeCatalog {
		if !u.HasBadge(badge.Key) {
			fmt.Fprintf(&b, "  %s\n", Dim("○ "+badge.Name+" · "+badge.Description))
		}
	}
	return b.String()
}
