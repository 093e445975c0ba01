package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/farmquest/internal/domain"
	"github.com/alexanderramin/farmquest/internal/service"
)

const levelBarWidth = 20

// FormatUserSummary renders the level, XP and streak header of the home
// screen.
func FormatUserSummary(u *domain.User) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s  %s\n", Bold("Namaste, "+u.DisplayName()), Dim("Level "+fmt.Sprint(domain.LevelFor(u.TotalXP))))
	fmt.Fprintf(&b, "%s\n", RenderLevelBar(u.LevelProgress(), domain.XPPerLevel, levelBarWidth))
	fmt.Fprintf(&b, "%s %d day streak   %s %d sustainability   %s %d XP\n",
		StyleSoil.Render("🔥"), u.CurrentStreak,
		StyleLeaf.Render("🌿"), u.SustainabilityScore,
		StyleYellow.Render("★"), u.TotalXP)
	return b.String()
}

// FormatDailyBonus reports the outcome of a daily bonus claim.
func FormatDailyBonus(res *service.DailyBonusResult) string {
	if !res.Bonus.Granted {
		return Dim(fmt.Sprintf("Daily bonus already claimed today. Streak: %d days.", res.Bonus.Streak)) + "\n"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s Daily bonus %s  streak %d (best %d)\n",
		StyleGreen.Render("✔"), FormatXP(res.Bonus.Delta.XP), res.Bonus.Streak, res.Bonus.LongestStreak)
	if len(res.NewBadges) > 0 {
		b.WriteString("New badges: " + BadgeList(res.NewBadges) + "\n")
	}
	return b.String()
}

// FormatHome renders the home screen: greeting, bonus and today's missions.
func FormatHome(u *domain.User, bonus *service.DailyBonusResult, today []service.MissionView) string {
	var b strings.Builder
	b.WriteString(FormatUserSummary(u))
	if bonus != nil {
		b.WriteString("\n" + FormatDailyBonus(bonus))
	}
	b.WriteString("\n" + Header("Today's missions") + "\n")
	if len(today) == 0 {
		b.WriteString(Dim("Nothing left for today. Check back tomorrow!") + "\n")
		return b.String()
	}
	for i, v := range today {
		status := ""
		if v.Status == domain.ProgressInProgress {
			status = " " + StyleYellow.Render(fmt.Sprintf("%d%%", v.Percent))
		}
		fmt.Fprintf(&b, "  %d. %s %s %s%s  %s\n", i+1, Bold(v.Mission.Title), CategoryBadge(v.Mission.Category),
			Dim(FormatMinutes(v.Mission.EstimatedDuration)), status, TruncID(v.Mission.ID))
	}
	return b.String()
}
