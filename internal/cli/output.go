// Package cli provides the command-line interface for the analysis client.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"growtheory/internal/models"
)

// Output handles formatted output for the CLI.
type Output struct {
	writer       io.Writer
	jsonMode     bool
	colorEnabled bool
}

// NewOutput creates a new Output instance.
func NewOutput(cmd *cobra.Command) *Output {
	jsonMode, _ := cmd.Flags().GetBool("json")
	return &Output{
		writer:       cmd.OutOrStdout(),
		jsonMode:     jsonMode,
		colorEnabled: !jsonMode && !color.NoColor && isTerminal(cmd.OutOrStdout()),
	}
}

// isTerminal checks if w is a terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	fileInfo, err := f.Stat()
	if err != nil {
		return false
	}
	return (fileInfo.Mode() & os.ModeCharDevice) != 0
}

// SetColor overrides terminal detection.
func (o *Output) SetColor(enabled bool) {
	o.colorEnabled = enabled && !o.jsonMode
}

// IsJSON returns true if JSON output mode is enabled.
func (o *Output) IsJSON() bool {
	return o.jsonMode
}

// JSON outputs data as JSON.
func (o *Output) JSON(data interface{}) error {
	encoder := json.NewEncoder(o.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

// Println prints a message with newline.
func (o *Output) Println(args ...interface{}) {
	fmt.Fprintln(o.writer, args...)
}

// Printf prints a formatted message.
func (o *Output) Printf(format string, args ...interface{}) {
	fmt.Fprintf(o.writer, format, args...)
}

// Success prints a success message in green.
func (o *Output) Success(format string, args ...interface{}) {
	o.line(color.FgGreen, format, args...)
}

// Error prints an error message in red.
func (o *Output) Error(format string, args ...interface{}) {
	o.line(color.FgRed, format, args...)
}

// Warning prints a warning message in yellow.
func (o *Output) Warning(format string, args ...interface{}) {
	o.line(color.FgYellow, format, args...)
}

// Info prints an info message in cyan.
func (o *Output) Info(format string, args ...interface{}) {
	o.line(color.FgCyan, format, args...)
}

// Bold prints a bold message.
func (o *Output) Bold(format string, args ...interface{}) {
	o.line(color.Bold, format, args...)
}

// Dim prints a dimmed message.
func (o *Output) Dim(format string, args ...interface{}) {
	o.line(color.Faint, format, args...)
}

func (o *Output) line(attr color.Attribute, format string, args ...interface{}) {
	fmt.Fprintln(o.writer, o.paint(fmt.Sprintf(format, args...), attr))
}

// paint applies attrs to text when color is enabled.
func (o *Output) paint(text string, attrs ...color.Attribute) string {
	c := color.New(attrs...)
	if o.colorEnabled {
		c.EnableColor()
	} else {
		c.DisableColor()
	}
	return c.Sprint(text)
}

// Green returns green colored text.
func (o *Output) Green(text string) string { return o.paint(text, color.FgGreen) }

// Red returns red colored text.
func (o *Output) Red(text string) string { return o.paint(text, color.FgRed) }

// Yellow returns yellow colored text.
func (o *Output) Yellow(text string) string { return o.paint(text, color.FgYellow) }

// Cyan returns cyan colored text.
func (o *Output) Cyan(text string) string { return o.paint(text, color.FgCyan) }

// BoldText returns bold text.
func (o *Output) BoldText(text string) string { return o.paint(text, color.Bold) }

// DimText returns dimmed text.
func (o *Output) DimText(text string) string { return o.paint(text, color.Faint) }

// GradeBadge returns the grade colored by its letter.
func (o *Output) GradeBadge(grade string) string {
	if grade == "" {
		grade = "?"
	}
	var fg color.Attribute
	switch GradeClass(grade) {
	case "grade-a":
		fg = color.FgGreen
	case "grade-b":
		fg = color.FgCyan
	case "grade-c":
		fg = color.FgYellow
	default:
		fg = color.FgRed
	}
	return o.paint(" "+grade+" ", fg, color.Bold, color.ReverseVideo)
}

// OutlookBadge returns the outlook colored by direction.
func (o *Output) OutlookBadge(outlook models.Outlook) string {
	switch outlook {
	case models.OutlookBullish:
		return o.Green("▲ BULLISH")
	case models.OutlookBearish:
		return o.Red("▼ BEARISH")
	case models.OutlookNeutral:
		return o.Yellow("● NEUTRAL")
	default:
		return ""
	}
}

// Table represents a simple table for output.
type Table struct {
	headers []string
	rows    [][]string
	output  *Output
}

// NewTable creates a new table.
func NewTable(output *Output, headers ...string) *Table {
	return &Table{
		headers: headers,
		rows:    make([][]string, 0),
		output:  output,
	}
}

// AddRow adds a row to the table.
func (t *Table) AddRow(cells ...string) {
	t.rows = append(t.rows, cells)
}

// Render renders the table.
func (t *Table) Render() {
	if len(t.headers) == 0 {
		return
	}

	widths := make([]int, len(t.headers))
	for i, h := range t.headers {
		widths[i] = displayWidth(h)
	}
	for _, row := range t.rows {
		for i, cell := range row {
			if i < len(widths) {
				if w := displayWidth(cell); w > widths[i] {
					widths[i] = w
				}
			}
		}
	}

	t.printRow(t.headers, widths, true)
	t.printSeparator(widths)
	for _, row := range t.rows {
		t.printRow(row, widths, false)
	}
}

func (t *Table) printRow(cells []string, widths []int, isHeader bool) {
	var parts []string
	for i, cell := range cells {
		if i < len(widths) {
			padding := widths[i] - displayWidth(cell)
			if padding < 0 {
				padding = 0
			}
			padded := cell + strings.Repeat(" ", padding)
			if isHeader {
				padded = t.output.BoldText(padded)
			}
			parts = append(parts, padded)
		}
	}
	t.output.Println(strings.TrimRight(strings.Join(parts, "  "), " "))
}

func (t *Table) printSeparator(widths []int) {
	var parts []string
	for _, w := range widths {
		parts = append(parts, strings.Repeat("─", w))
	}
	t.output.Println(t.output.DimText(strings.Join(parts, "──")))
}

// stripANSI removes ANSI escape sequences from a string.
func stripANSI(s string) string {
	var b strings.Builder
	inEscape := false
	for _, r := range s {
		switch {
		case r == '\x1b':
			inEscape = true
		case inEscape:
			if r == 'm' {
				inEscape = false
			}
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

func displayWidth(s string) int {
	return utf8.RuneCountInString(stripANSI(s))
}

// Box draws a box around content.
func (o *Output) Box(title string, content []string) {
	maxLen := displayWidth(title)
	for _, line := range content {
		if l := displayWidth(line); l > maxLen {
			maxLen = l
		}
	}

	width := maxLen + 4
	border := strings.Repeat("─", width-2)
	edge := o.DimText("│")

	o.Println(o.DimText("┌" + border + "┐"))
	o.Printf("%s %s%s %s\n", edge, o.BoldText(title), strings.Repeat(" ", width-4-displayWidth(title)), edge)
	o.Println(o.DimText("├" + border + "┤"))
	for _, line := range content {
		padding := width - 4 - displayWidth(line)
		o.Printf("%s %s%s %s\n", edge, line, strings.Repeat(" ", padding), edge)
	}
	o.Println(o.DimText("└" + border + "┘"))
}
