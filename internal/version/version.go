// Package version provides version information and display utilities for
// the rxio command.
package version

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

const (
	// Name of the command.
	Name string = "rxio"
	// Version of RxIo.
	Version string = "1.0.0"
	// Additional information for RxIo.
	Additional string = "Lines at your own pace"
)

var (
	nameStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFD75F")).
			Background(lipgloss.Color("#005FAF"))
	versionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#005FAF")).
			Background(lipgloss.Color("#FFD75F"))
	additionalStyle = lipgloss.NewStyle().
			Underline(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#875FAF"))
)

// String returns a plain text representation of the version information.
func String() string {
	return fmt.Sprintf("%s %v %s", Name, Version, Additional)
}

// PaintedString returns the version information styled for a terminal.
// Without colors it is the same as String.
func PaintedString(colors bool) string {
	if !colors {
		return String()
	}
	return nameStyle.Render(" "+Name+" ") +
		versionStyle.Render(" "+Version+" ") +
		additionalStyle.Render(" "+Additional+" ")
}
