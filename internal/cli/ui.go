package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/configtower/pkg/analysis"
)

// stdout receives all command output. Tests swap it for a buffer.
var stdout io.Writer = os.Stdout

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")  // Teal - primary actions
	colorGreen  = lipgloss.Color("35")  // Green - success
	colorYellow = lipgloss.Color("220") // Amber - warnings
	colorRed    = lipgloss.Color("167") // Soft red - errors
	colorBlue   = lipgloss.Color("75")  // Light blue - suggestions
	colorWhite  = lipgloss.Color("255") // Bright white - values
	colorGray   = lipgloss.Color("245") // Gray - secondary text
	colorDim    = lipgloss.Color("240") // Dim gray - muted text
)

// =============================================================================
// Public Styles
// =============================================================================

var (
	// StyleTitle for main headings.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)

	// StyleHighlight for emphasized values.
	StyleHighlight = lipgloss.NewStyle().Foreground(colorCyan)

	// StyleDim for secondary/muted text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	// StyleValue for data values.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)

	// StyleSuccess for success messages.
	StyleSuccess = lipgloss.NewStyle().Foreground(colorGreen)

	// StyleWarning for warning messages.
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)

	// StyleError for error messages.
	StyleError = lipgloss.NewStyle().Foreground(colorRed)
)

// =============================================================================
// Internal Styles
// =============================================================================

var (
	styleIconSuccess    = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconError      = lipgloss.NewStyle().Foreground(colorRed)
	styleIconWarning    = lipgloss.NewStyle().Foreground(colorYellow)
	styleIconInfo       = lipgloss.NewStyle().Foreground(colorGray)
	styleIconSuggestion = lipgloss.NewStyle().Foreground(colorBlue)

	styleCached   = lipgloss.NewStyle().Foreground(colorGreen)
	styleComputed = lipgloss.NewStyle().Foreground(colorGray)

	styleCommand = lipgloss.NewStyle().Foreground(colorBlue)
)

// =============================================================================
// Icons
// =============================================================================

const (
	iconSuccess    = "✓"
	iconError      = "✗"
	iconWarning    = "!"
	iconInfo       = "›"
	iconSuggestion = "✦"
	iconArrow      = "→"
	iconCached     = "cached"
	iconFresh      = "fresh"
)

// =============================================================================
// Status Output
// =============================================================================

// printSuccess prints a success message.
func printSuccess(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(stdout, styleIconSuccess.Render(iconSuccess)+" "+msg)
}

// printError prints an error message.
func printError(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(stdout, styleIconError.Render(iconError)+" "+msg)
}

// printWarning prints a warning message.
func printWarning(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(stdout, styleIconWarning.Render(iconWarning)+" "+StyleWarning.Render(msg))
}

// printInfo prints an info/status message.
func printInfo(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(stdout, styleIconInfo.Render(iconInfo)+" "+msg)
}

// printDetail prints a detail line (indented).
func printDetail(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(stdout, "  "+StyleDim.Render(msg))
}

// printFile prints a file output line.
func printFile(path string) {
	fmt.Fprintln(stdout, "  "+StyleDim.Render(iconArrow)+" "+StyleValue.Render(path))
}

// printKeyValue prints a labeled value.
func printKeyValue(key, value string) {
	keyStyle := lipgloss.NewStyle().Foreground(colorGray).Width(14)
	fmt.Fprintln(stdout, keyStyle.Render(key)+" "+StyleValue.Render(value))
}

// printHeading prints a section title.
func printHeading(title string) {
	fmt.Fprintln(stdout, StyleTitle.Render(title))
}

// printNextStep prints a suggested next command.
func printNextStep(description, cmd string) {
	fmt.Fprintln(stdout, StyleDim.Render(description+":")+" "+styleCommand.Render(cmd))
}

// printNewline prints an empty line.
func printNewline() {
	fmt.Fprintln(stdout)
}

// =============================================================================
// Stats Display
// =============================================================================

// printStats prints report totals on a single line.
func printStats(nodes, issues, conflicts int, cached bool) {
	parts := []string{
		fmt.Sprintf("%d nodes", nodes),
		fmt.Sprintf("%d issues", issues),
		fmt.Sprintf("%d conflicts", conflicts),
	}

	status := iconFresh
	statusStyle := styleComputed
	if cached {
		status = iconCached
		statusStyle = styleCached
	}

	var b strings.Builder
	b.WriteString("  ")
	for i, part := range parts {
		if i > 0 {
			b.WriteString(StyleDim.Render(" · "))
		}
		b.WriteString(StyleDim.Render(part))
	}
	b.WriteString(StyleDim.Render(" · "))
	b.WriteString(statusStyle.Render(status))
	fmt.Fprintln(stdout, b.String())
}

// =============================================================================
// Diagnostics
// =============================================================================

// severityIcon renders the marker shown in front of an issue.
func severityIcon(s analysis.Severity) string {
	switch s {
	case analysis.SeverityError:
		return styleIconError.Render(iconError)
	case analysis.SeverityWarning:
		return styleIconWarning.Render(iconWarning)
	case analysis.SeveritySuggestion:
		return styleIconSuggestion.Render(iconSuggestion)
	default:
		return styleIconInfo.Render(iconInfo)
	}
}

// healthBadge renders a node's health as a short coloured word.
func healthBadge(h analysis.Health) string {
	switch h {
	case analysis.HealthCritical:
		return StyleError.Render(string(h))
	case analysis.HealthWarning:
		return StyleWarning.Render(string(h))
	default:
		return StyleSuccess.Render(string(h))
	}
}

// printIssue prints one diagnostic with its message and fix on detail lines.
func printIssue(is analysis.Issue) {
	fmt.Fprintf(stdout, "  %s %s %s\n", severityIcon(is.Severity), StyleValue.Render(is.Title), StyleDim.Render("["+is.ID+"]"))
	fmt.Fprintln(stdout, "    "+is.Message)
	if is.Fix != nil {
		fmt.Fprintln(stdout, "    "+StyleDim.Render("fix: ")+styleCommand.Render(is.Fix.Label))
	}
}

// writeJSON prints v as indented JSON.
func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
