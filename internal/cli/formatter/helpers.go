package formatter

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/alexanderramin/farmquest/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// RenderBox wraps content in a rounded-border box with an optional title.
func RenderBox(title string, content string) string {
	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorDim).
		Padding(1, 2)

	if title != "" {
		return boxStyle.Render(StyleHeader.Render(strings.ToUpper(title)) + "\n\n" + content)
	}
	return boxStyle.Render(content)
}

// RelativeDayFrom describes a past calendar day relative to now.
func RelativeDayFrom(t time.Time, now time.Time) string {
	days := int(math.Round(domain.CalendarDate(now).Sub(domain.CalendarDate(t)).Hours() / 24))
	switch {
	case days <= 0:
		return "Today"
	case days == 1:
		return "Yesterday"
	case days < 14:
		return fmt.Sprintf("%dd ago", days)
	case days < 60:
		return fmt.Sprintf("%dw ago", days/7)
	default:
		return fmt.Sprintf("%dmo ago", days/30)
	}
}

// HumanDate returns "Jan 2, 2006" or a nil placeholder.
func HumanDate(t *time.Time) string {
	if t == nil {
		return Dim("--")
	}
	return t.Format("Jan 2, 2006")
}

// TruncID returns the first 8 characters of an ID, dimmed.
func TruncID(id string) string {
	if len(id) > 8 {
		id = id[:8]
	}
	return StyleDim.Render(id)
}

// FormatMinutes converts raw minutes into human-friendly format.
func FormatMinutes(min int) string {
	if min <= 0 {
		return "0m"
	}
	h, m := min/60, min%60
	switch {
	case h > 0 && m > 0:
		return fmt.Sprintf("%dh %dm", h, m)
	case h > 0:
		return fmt.Sprintf("%dh", h)
	default:
		return fmt.Sprintf("%dm", m)
	}
}

// FormatXP renders an XP amount with its sign, e.g. "+50 XP".
func FormatXP(xp int) string {
	return StyleYellow.Render(fmt.Sprintf("+%d XP", xp))
}

// BadgeList renders badge keys as icon and name pairs.
func BadgeList(keys []string) string {
	if len(keys) == 0 {
		return Dim("none yet")
	}
	parts := make([]string, len(keys))
	for i, k := range keys {
		b := domain.LookupBadge(k)
		parts[i] = b.Icon + " " + b.Name
	}
	return strings.Join(parts, "  ")
}

// Crops joins crop names or returns a placeholder.
func Crops(crops []string) string {
	if len(crops) == 0 {
		return Dim("all crops")
	}
	return strings.Join(crops, ", ")
}
