package formatter

import (
	"fmt"
	"strings"
)

const (
	filledBlock = "█"
	emptyBlock  = "░"
)

func clampBar(pct float64, width int) (float64, int) {
	pct = max(0, min(pct, 1))
	return pct, max(width, 2)
}

// RenderProgress renders a bar like [████░░░░] 45%. Green above 66%, yellow
// from 33%, red below.
func RenderProgress(pct float64, width int) string {
	pct, width = clampBar(pct, width)
	filled := min(int(pct*float64(width)), width)
	bar := strings.Repeat(filledBlock, filled) + strings.Repeat(emptyBlock, width-filled)

	style := StyleGreen
	if pct < 0.33 {
		style = StyleRed
	} else if pct < 0.66 {
		style = StyleYellow
	}
	return fmt.Sprintf("[%s] %3.0f%%", style.Render(bar), pct*100)
}

// RenderLevelBar shows XP progress inside the current level.
func RenderLevelBar(levelXP, perLevel, width int) string {
	pct, width := clampBar(float64(levelXP)/float64(max(perLevel, 1)), width)
	filled := min(int(pct*float64(width)), width)
	bar := StyleLeaf.Render(strings.Repeat(filledBlock, filled)) + StyleDim.Render(strings.Repeat(emptyBlock, width-filled))
	return fmt.Sprintf("%s %d/%d XP", bar, levelXP, perLevel)
}
