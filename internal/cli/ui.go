package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/dungeonforge/pkg/dungeon"
)

// uiOut receives all human-facing status output. Machine output (artifacts
// written to "-") goes straight to stdout instead.
var uiOut io.Writer = os.Stdout

// =============================================================================
// Palette
// =============================================================================

var (
	colorTorch = lipgloss.Color("214") // amber: highlights, corridors
	colorMoss  = lipgloss.Color("35")  // green: success
	colorWater = lipgloss.Color("75")  // blue: commands
	colorBone  = lipgloss.Color("255") // values
	colorAsh   = lipgloss.Color("245") // labels
	colorStone = lipgloss.Color("240") // muted text, walls
)

var (
	// StyleTitle for screen headings.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorTorch)

	// StyleHighlight for IDs and addresses the user may copy.
	StyleHighlight = lipgloss.NewStyle().Foreground(colorTorch)

	StyleDim     = lipgloss.NewStyle().Foreground(colorStone)
	StyleValue   = lipgloss.NewStyle().Foreground(colorBone)
	StyleSuccess = lipgloss.NewStyle().Foreground(colorMoss)
	StyleWarning = lipgloss.NewStyle().Foreground(colorTorch).Bold(true)

	styleLabel   = lipgloss.NewStyle().Foreground(colorAsh).Width(12)
	styleSpinner = lipgloss.NewStyle().Foreground(colorTorch)
	styleCommand = lipgloss.NewStyle().Foreground(colorWater)
)

const (
	iconSuccess = "✓"
	iconInfo    = "›"
	iconArrow   = "→"
	separator   = " · "

	statusCached = "cached"
	statusFresh  = "fresh"
)

// =============================================================================
// Status lines
// =============================================================================

func printSuccess(format string, args ...any) {
	fmt.Fprintln(uiOut, StyleSuccess.Render(iconSuccess)+" "+fmt.Sprintf(format, args...))
}

func printInfo(format string, args ...any) {
	fmt.Fprintln(uiOut, StyleDim.Render(iconInfo)+" "+fmt.Sprintf(format, args...))
}

// printDetail prints an indented, muted line under the previous status line.
func printDetail(format string, args ...any) {
	fmt.Fprintln(uiOut, "  "+StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printFile prints the path of a written artifact.
func printFile(path string) {
	fmt.Fprintln(uiOut, "  "+StyleDim.Render(iconArrow)+" "+StyleValue.Render(path))
}

func printKeyValue(key, value string) {
	fmt.Fprintln(uiOut, styleLabel.Render(key)+" "+StyleValue.Render(value))
}

// printNextStep suggests a follow-up command.
func printNextStep(description, cmd string) {
	fmt.Fprintln(uiOut, StyleDim.Render(description+":")+" "+styleCommand.Render(cmd))
}

// =============================================================================
// Map summaries
// =============================================================================

// printStats prints room, corridor and floor counts on one line, followed by
// whether the map came from the cache.
func printStats(stats dungeon.Stats, cached bool) {
	fmt.Fprintln(uiOut, "  "+statsLine(stats, cached))
}

func statsLine(stats dungeon.Stats, cached bool) string {
	parts := []string{
		plural(stats.Rooms, "room"),
		plural(stats.Corridors, "corridor"),
		fmt.Sprintf("%.0f%% floor", stats.FloorRatio*100),
	}
	for i, p := range parts {
		parts[i] = StyleDim.Render(p)
	}

	status := StyleDim.Render(statusFresh)
	if cached {
		status = StyleSuccess.Render(statusCached)
	}
	return strings.Join(append(parts, status), StyleDim.Render(separator))
}

func plural(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
