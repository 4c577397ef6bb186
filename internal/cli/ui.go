package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/funnel/pkg/funnel/widget"
)

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorCyan  = lipgloss.Color("36")  // Teal - primary actions
	colorGreen = lipgloss.Color("35")  // Green - success
	colorWhite = lipgloss.Color("255") // Bright white - values
	colorGray  = lipgloss.Color("245") // Gray - secondary text
	colorDim   = lipgloss.Color("240") // Dim gray - muted text
)

// =============================================================================
// Styles
// =============================================================================

var (
	// StyleTitle for main headings.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)

	// StyleDim for secondary/muted text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	// StyleValue for data values.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)

	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleHeader      = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	styleCell        = lipgloss.NewStyle().Padding(0, 1)
)

// headerRow is the row index lipgloss tables pass to StyleFunc for headers.
const headerRow = -1

const (
	iconSuccess = "✓"
	iconArrow   = "→"
	iconHidden  = "hidden"
)

// =============================================================================
// Status Output
// =============================================================================

func printSuccess(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, styleIconSuccess.Render(iconSuccess)+" "+fmt.Sprintf(format, args...))
}

// printFile prints a file output line.
func printFile(w io.Writer, path string) {
	fmt.Fprintln(w, "  "+StyleDim.Render(iconArrow)+" "+StyleValue.Render(path))
}

// printKeyValue prints a labeled value.
func printKeyValue(w io.Writer, key, value string) {
	keyStyle := lipgloss.NewStyle().Foreground(colorGray).Width(12)
	fmt.Fprintln(w, keyStyle.Render(key)+" "+StyleValue.Render(value))
}

// =============================================================================
// Layout Table
// =============================================================================

// placementTable renders segments and their label placements.
func placementTable(s widget.Snapshot) string {
	rows := make([][]string, 0, len(s.Segments))
	for i, seg := range s.Segments {
		text, box, conn := "", "", ""
		if i < len(s.Labels) {
			l := s.Labels[i]
			text = l.Text
			box = fmt.Sprintf("%.1f,%.1f %.1fx%.1f", l.Box.X, l.Box.Y, l.Box.Width, l.Box.Height)
			if !l.Visible {
				box = iconHidden
			}
			if l.Connector != nil {
				conn = fmt.Sprintf("%.1f,%.1f %s %.1f,%.1f", l.Connector[0].X, l.Connector[0].Y, iconArrow, l.Connector[1].X, l.Connector[1].Y)
			}
		}
		rows = append(rows, []string{
			strconv.Itoa(i),
			seg.Name,
			strconv.FormatFloat(seg.Value, 'g', -1, 64),
			text,
			box,
			conn,
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("#", "Segment", "Value", "Label", "Box", "Connector").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == headerRow {
				return styleHeader.Padding(0, 1)
			}
			if row < len(rows) && col == 4 && rows[row][col] == iconHidden {
				return styleCell.Foreground(colorDim)
			}
			return styleCell
		})
	return t.Render()
}
