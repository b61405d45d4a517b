package formatter

import (
	"fmt"
	"strings"
)

const (
	filledBlock = "█"
	emptyBlock  = "░"
)

// RenderProgress renders a bar like [████░░░░]  45% colored by RateColor.
func RenderProgress(pct float64, width int) string {
	if pct < 0 {
		pct = 0
	}
	if pct > 1 {
		pct = 1
	}
	if width < 2 {
		width = 2
	}

	filled := int(pct * float64(width))
	bar := strings.Repeat(filledBlock, filled) + strings.Repeat(emptyBlock, width-filled)
	return fmt.Sprintf("[%s] %3.0f%%", RateColor(pct).Render(bar), pct*100)
}

// Sparkline renders one block per value in [0, 1]. Negative values mark
// days with nothing due and render as a dim dot.
func Sparkline(values []float64) string {
	levels := []rune("▁▂▃▄▅▆▇█")
	var b strings.Builder
	for _, v := range values {
		if v < 0 {
			b.WriteString(StyleDim.Render("·"))
			continue
		}
		if v > 1 {
			v = 1
		}
		idx := int(v * float64(len(levels)-1))
		b.WriteString(RateColor(v).Render(string(levels[idx])))
	}
	return b.String()
}
