package formatter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alexanderramin/farmquest/internal/domain"
	"github.com/alexanderramin/farmquest/internal/service"
)

const missionProgressBarWidth = 10

// FormatMissionList renders a catalogue listing without user progress.
func FormatMissionList(missions []*domain.Mission) string {
	if len(missions) == 0 {
		return Dim("No missions found.") + "\n"
	}
	headers := []string{"ID", "TITLE", "CATEGORY", "TIME", "REWARD", "CARDS"}
	rows := make([][]string, 0, len(missions))
	for _, m := range missions {
		rows = append(rows, []string{
			TruncID(m.ID),
			Bold(m.Title),
			CategoryBadge(m.Category),
			FormatMinutes(m.EstimatedDuration),
			FormatXP(m.XPReward),
			strconv.Itoa(len(m.Cards)),
		})
	}
	return RenderTable(headers, rows)
}

// FormatMissionOverview renders missions alongside the user's status.
func FormatMissionOverview(views []service.MissionView) string {
	if len(views) == 0 {
		return Dim("No missions found.") + "\n"
	}
	headers := []string{"ID", "TITLE", "CATEGORY", "STATUS", "PROGRESS", "REWARD"}
	rows := make([][]string, 0, len(views))
	for _, v := range views {
		rows = append(rows, []string{
			TruncID(v.Mission.ID),
			Bold(v.Mission.Title),
			CategoryBadge(v.Mission.Category),
			ProgressPill(v.Status),
			RenderProgress(float64(v.Percent)/100, missionProgressBarWidth),
			FormatXP(v.Mission.XPReward),
		})
	}
	return RenderTable(headers, rows)
}

// FormatMissionDetail renders one mission with its card outline. Correct
// quiz answers are never shown.
func FormatMissionDetail(m *domain.Mission) string {
	var b strings.Builder
	b.WriteString(Header(m.Title))
	b.WriteString("\n")
	if m.Description != "" {
		b.WriteString(m.Description + "\n")
	}
	b.WriteString("\n")

	meta := [][2]string{
		{"ID", m.ID},
		{"Category", CategoryBadge(m.Category)},
		{"Duration", FormatMinutes(m.EstimatedDuration)},
		{"Reward", FormatXP(m.XPReward)},
		{"Crops", Crops(m.TargetCrops)},
	}
	if !m.IsActive {
		meta = append(meta, [2]string{"Status", StyleRed.Render("retired")})
	}
	for _, kv := range meta {
		fmt.Fprintf(&b, "  %s %s\n", Dim(fmt.Sprintf("%-9s", kv[0])), kv[1])
	}

	b.WriteString("\n" + Bold("Cards") + "\n")
	for i, c := range m.Cards {
		v := c.Variant()
		fmt.Fprintf(&b, "  %2d. %s %s %s\n", i+1, v.Icon(), c.Title, Dim("("+v.Label()+")"))
	}
	return b.String()
}

// FormatCard renders the card at index. selected marks the recorded quiz
// option, if any.
func FormatCard(card domain.ContentCard, index, total int, selected *int) string {
	var b strings.Builder
	v := card.Variant()
	fmt.Fprintf(&b, "%s  %s\n\n", Dim(fmt.Sprintf("Card %d of %d", index+1, total)), StyleHeader.Render(v.Icon()+" "+card.Title))
	if card.Content != "" {
		b.WriteString(card.Content + "\n")
	}
	if card.ImageURL != "" {
		b.WriteString(Dim("image: "+card.ImageURL) + "\n")
	}
	if card.Type == domain.CardQuiz {
		b.WriteString("\n")
		for i, opt := range card.QuizOptions {
			marker := "  "
			line := fmt.Sprintf("%d) %s", i+1, opt)
			if selected != nil && *selected == i {
				marker = StyleGreen.Render("▸ ")
				line = StyleGreen.Render(line)
			}
			b.WriteString("  " + marker + line + "\n")
		}
	}
	if v.NeedsProof() {
		b.WriteString("\n" + StyleYellow.Render("Take a photo of your work to finish this mission.") + "\n")
	}
	return b.String()
}

// FormatNavigator renders the navigator's current position for the
// step-by-step mission commands.
func FormatNavigator(nav *service.Navigator) string {
	var b strings.Builder
	total := len(nav.Mission().Cards)
	fmt.Fprintf(&b, "%s %s\n\n", Bold(nav.Mission().Title), RenderProgress(float64(nav.Percent())/100, missionProgressBarWidth))

	if nav.State() == service.NavCompleted {
		b.WriteString(StyleGreen.Render("✔ Mission complete") + "\n")
		if c := nav.Completion(); c != nil {
			b.WriteString("\n" + FormatCompletion(c))
		}
		return b.String()
	}

	var selected *int
	if opt, ok := nav.Answer(nav.Cursor()); ok {
		selected = &opt
	}
	b.WriteString(FormatCard(nav.Card(), nav.Cursor(), total, selected))
	if nav.State() == service.NavNeedsProof {
		b.WriteString(Dim("Submit proof with: farmquest mission proof "+nav.Mission().ID+" <photo>") + "\n")
	}
	return b.String()
}

// FormatCompletion renders the reward granted on completing a mission.
func FormatCompletion(c *service.CompletionResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s  %s\n", FormatXP(c.XPEarned), StyleLeaf.Render(fmt.Sprintf("+%d sustainability", c.Sustainability)))
	if c.LeveledUp && c.User != nil {
		b.WriteString(StyleHeader.Render(fmt.Sprintf("⬆ Level up! You reached level %d", c.User.CurrentLevel)) + "\n")
	}
	if len(c.NewBadges) > 0 {
		b.WriteString("New badges: " + BadgeList(c.NewBadges) + "\n")
	}
	return b.String()
}

// FormatImportResult summarises a catalogue import.
func FormatImportResult(r *service.ImportResult) string {
	return fmt.Sprintf("%s Imported catalogue: %d created, %d updated, %d cards\n",
		StyleGreen.Render("✔"), r.Created, r.Updated, r.Cards)
}
