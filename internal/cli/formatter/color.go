package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/farmquest/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// Earthy palette: field greens, harvest yellows and soil browns.
var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorLeaf   = lipgloss.Color("#b8bb26")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorRed    = lipgloss.Color("#fb4934")
	ColorBlue   = lipgloss.Color("#83a598")
	ColorSoil   = lipgloss.Color("#d65d0e")
	ColorDim    = lipgloss.Color("#928374")
	ColorFg     = lipgloss.Color("#ebdbb2")
	ColorHeader = lipgloss.Color("#fe8019")
)

var (
	StyleGreen  = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleLeaf   = lipgloss.NewStyle().Foreground(ColorLeaf)
	StyleYellow = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleRed    = lipgloss.NewStyle().Foreground(ColorRed)
	StyleBlue   = lipgloss.NewStyle().Foreground(ColorBlue)
	StyleSoil   = lipgloss.NewStyle().Foreground(ColorSoil)
	StyleDim    = lipgloss.NewStyle().Foreground(ColorDim)
	StyleFg     = lipgloss.NewStyle().Foreground(ColorFg)
	StyleHeader = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	StyleBold   = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)
)

// CategoryStyle returns the accent used for a mission category.
func CategoryStyle(c domain.MissionCategory) lipgloss.Style {
	switch c {
	case domain.CategorySoilHealth, domain.CategoryOrganicFarming:
		return StyleSoil
	case domain.CategoryWaterManagement:
		return StyleBlue
	case domain.CategoryPestControl:
		return StyleRed
	case domain.CategoryCropRotation:
		return StyleLeaf
	case domain.CategoryPostHarvest, domain.CategoryMarketing:
		return StyleYellow
	default:
		return StyleDim
	}
}

// CategoryBadge renders the display name of a category in its accent.
func CategoryBadge(c domain.MissionCategory) string {
	name, ok := domain.CategoryNames[c]
	if !ok {
		name = string(c)
	}
	return CategoryStyle(c).Render(name)
}

// ProgressPill returns a colored indicator for a mission's progress status.
func ProgressPill(status domain.ProgressStatus) string {
	switch status {
	case domain.ProgressCompleted:
		return StyleGreen.Render("✔ Done")
	case domain.ProgressInProgress:
		return StyleYellow.Render("● In progress")
	default:
		return StyleDim.Render("○ New")
	}
}

// Header renders a section header with the orange header style and an underline.
func Header(text string) string {
	upper := strings.ToUpper(text)
	line := strings.Repeat("─", lipgloss.Width(upper))
	return fmt.Sprintf("%s\n%s", StyleHeader.Render(upper), StyleDim.Render(line))
}

func Dim(text string) string {
	return StyleDim.Render(text)
}

func Bold(text string) string {
	return StyleBold.Render(text)
}
