package formatter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alexanderramin/farmquest/internal/domain"
)

var rankMedals = map[int]string{1: "🥇", 2: "🥈", 3: "🥉"}

// FormatLeaderboard renders a ranked table with the current user
// highlighted.
func FormatLeaderboard(board *domain.Leaderboard) string {
	var b strings.Builder
	b.WriteString(Header("Leaderboard · "+string(board.Scope)) + "\n")
	if len(board.Entries) == 0 {
		b.WriteString(Dim("No farmers ranked yet.") + "\n")
		return b.String()
	}

	headers := []string{"RANK", "FARMER", "VILLAGE", "LEVEL", "XP", "STREAK", "MISSIONS"}
	rows := make([][]string, 0, len(board.Entries))
	for _, e := range board.Entries {
		rank := strconv.Itoa(e.Rank)
		if medal, ok := rankMedals[e.Rank]; ok {
			rank = medal + " " + rank
		}
		name := domain.CoalesceStr(e.FullName, e.Handle)
		if e.IsCurrentUser {
			name = StyleGreen.Render(name + " (you)")
		}
		rows = append(rows, []string{
			rank, name, e.Village,
			strconv.Itoa(e.Level),
			strconv.Itoa(e.TotalXP),
			strconv.Itoa(e.CurrentStreak),
			strconv.Itoa(e.CompletedMissions),
		})
	}
	b.WriteString(RenderTable(headers, rows))

	if board.CurrentUserRank > 0 {
		fmt.Fprintf(&b, "\nYou are #%d of %d\n", board.CurrentUserRank, board.TotalUsers)
	} else {
		fmt.Fprintf(&b, "\n%s\n", Dim(fmt.Sprintf("%d farmers ranked. Finish onboarding to join.", board.TotalUsers)))
	}
	return b.String()
}
