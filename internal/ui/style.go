package ui

import (
	"fmt"

	"github.com/fatih/color"
)

// Sprint color functions for building styled strings.
var (
	Bold       = color.New(color.Bold).SprintFunc()
	Dim        = color.New(color.Faint).SprintFunc()
	Cyan       = color.New(color.FgCyan).SprintFunc()
	Green      = color.New(color.FgGreen).SprintFunc()
	Red        = color.New(color.FgRed).SprintFunc()
	Yellow     = color.New(color.FgYellow).SprintFunc()
	Magenta    = color.New(color.FgMagenta).SprintFunc()
	BoldCyan   = color.New(color.Bold, color.FgCyan).SprintFunc()
	BoldGreen  = color.New(color.Bold, color.FgGreen).SprintFunc()
	BoldRed    = color.New(color.Bold, color.FgRed).SprintFunc()
	BoldYellow = color.New(color.Bold, color.FgYellow).SprintFunc()
)

// runColors is a palette of distinct bold colors for differentiating runs.
var runColors = []func(a ...interface{}) string{
	color.New(color.Bold, color.FgMagenta).SprintFunc(),
	BoldCyan,
	BoldYellow,
	BoldGreen,
	color.New(color.Bold, color.FgHiBlue).SprintFunc(),
	color.New(color.Bold, color.FgHiRed).SprintFunc(),
}

// RunPrefix returns a colored [run N] prefix string. Each run id gets a
// distinct color from the palette.
func RunPrefix(runID int) string {
	c := runColors[runID%len(runColors)]
	return Dim("[") + c(fmt.Sprintf("run %d", runID)) + Dim("]")
}

// MilestoneIcon returns a colored marker for a milestone row.
func MilestoneIcon(met, atRisk bool) string {
	switch {
	case met && !atRisk:
		return Green("✓")
	case met && atRisk:
		return Yellow("✓")
	default:
		return Red("✗")
	}
}
