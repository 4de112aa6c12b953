package tui

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	qgerrors "github.com/mrz1836/qgate/internal/errors"
)

// TTYOutput provides styled terminal output.
type TTYOutput struct {
	w        io.Writer
	styles   *OutputStyles
	table    *TableStyles
	lastGate string
}

// NewTTYOutput creates a TTYOutput. It honors NO_COLOR.
func NewTTYOutput(w io.Writer) *TTYOutput {
	CheckNoColor()

	return &TTYOutput{
		w:      w,
		styles: NewOutputStyles(),
		table:  NewTableStyles(),
	}
}

// Success prints a green message with a ✓ icon.
func (o *TTYOutput) Success(msg string) {
	_, _ = fmt.Fprintln(o.w, o.styles.Success.Render("✓ "+msg))
}

// Error prints a red message with a ✗ icon. Known errors are shown with
// their user-facing message and a dim suggested action.
func (o *TTYOutput) Error(err error) {
	message, action := qgerrors.Actionable(err)
	if message != err.Error() {
		message = message + " (" + err.Error() + ")"
	}
	_, _ = fmt.Fprintln(o.w, o.styles.Error.Render("✗ "+message))
	if action != "" {
		_, _ = fmt.Fprintln(o.w, o.styles.Dim.Render("  ▸ Try: "+action))
	}
}

// Warning prints a yellow message with a ⚠ icon.
func (o *TTYOutput) Warning(msg string) {
	_, _ = fmt.Fprintln(o.w, o.styles.Warning.Render("⚠ "+msg))
}

// Info prints a blue message.
func (o *TTYOutput) Info(msg string) {
	_, _ = fmt.Fprintln(o.w, o.styles.Info.Render(msg))
}

// Heading prints a bold section heading preceded by a blank line.
func (o *TTYOutput) Heading(msg string) {
	_, _ = fmt.Fprintln(o.w)
	_, _ = fmt.Fprintln(o.w, o.styles.Heading.Render(msg))
}

// Stage prints a finished step as "  ✓ Type Check", under a heading for
// its gate the first time the gate is seen. Steps that are still running
// only trigger the heading.
func (o *TTYOutput) Stage(gate, step, status string) {
	if gate != o.lastGate {
		o.lastGate = gate
		o.Heading("Gate: " + gate)
	}
	if status == StatusRunning {
		return
	}
	icon := StatusStyle(status).Render(StatusIcon(status))
	_, _ = fmt.Fprintf(o.w, "  %s %s\n", icon, step)
}

// Table prints tabular data with columns aligned by display width, so wide
// runes and emoji in tool output do not break alignment.
func (o *TTYOutput) Table(headers []string, rows [][]string) {
	if len(headers) == 0 {
		return
	}

	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = runewidth.StringWidth(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) {
				widths[i] = max(widths[i], runewidth.StringWidth(cell))
			}
		}
	}

	headerParts := make([]string, 0, len(headers))
	for i, h := range headers {
		headerParts = append(headerParts, o.table.Header.Render(runewidth.FillRight(h, widths[i])))
	}
	_, _ = fmt.Fprintln(o.w, strings.TrimRight(strings.Join(headerParts, "  "), " "))

	for _, row := range rows {
		parts := make([]string, 0, len(headers))
		for i := range headers {
			cell := ""
			if i < len(row) {
				cell = row[i]
			}
			parts = append(parts, o.cellStyle(cell).Render(runewidth.FillRight(cell, widths[i])))
		}
		_, _ = fmt.Fprintln(o.w, strings.TrimRight(strings.Join(parts, "  "), " "))
	}
}

// cellStyle colors PASS/FAIL/SKIP cells.
func (o *TTYOutput) cellStyle(cell string) lipgloss.Style {
	switch cell {
	case StatusPass, StatusFail, StatusSkip:
		return StatusStyle(cell)
	default:
		return o.table.Cell
	}
}

// JSON outputs an arbitrary value as indented JSON.
func (o *TTYOutput) JSON(v any) error {
	encoder := json.NewEncoder(o.w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(v); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

// Ensure TTYOutput implements Output.
var _ Output = (*TTYOutput)(nil)
