package tui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/CaptShanks/msrdoc/internal/parser"
)

// ForceColor makes lipgloss emit colors even when the output is not a TTY
// (for piping into less -R).
func ForceColor() {
	lipgloss.SetColorProfile(termenv.TrueColor)
}

// PrintReport writes the report with colors (non-interactive mode)
func PrintReport(w io.Writer, report *parser.Report) {
	fmt.Fprintln(w, headerStyle.Render(reportTitle(report)))
	fmt.Fprintln(w, summaryLine(report))
	fmt.Fprintln(w)

	for _, row := range report.Rows {
		fmt.Fprintln(w, rowLine(row))
	}
}

func reportTitle(report *parser.Report) string {
	if report.Path == "" {
		return fmt.Sprintf("MSR addresses (lines %d-%d)", report.Start, report.End)
	}
	return fmt.Sprintf("MSR addresses in %s (lines %d-%d)", report.Path, report.Start, report.End)
}

// summaryLine renders "N addresses from M rows, K families".
func summaryLine(report *parser.Report) string {
	return fmt.Sprintf("%s addresses from %s rows, %s families",
		singleStyle.Render(fmt.Sprintf("%d", report.Len())),
		rangeStyle.Render(fmt.Sprintf("%d", len(report.Rows))),
		familyStyle.Render(fmt.Sprintf("%d", len(report.Families))),
	)
}

// rowLine renders one data row: symbol, addresses, count and source line.
func rowLine(row parser.Row) string {
	return fmt.Sprintf("%s %s %s",
		KindSymbol(row.Token.Kind),
		KindStyle(row.Token.Kind).Render(rowAddress(row)),
		mutedStyle.Render(rowDetail(row)),
	)
}

// rowAddress is the plain address text of a row.
func rowAddress(row parser.Row) string {
	switch row.Token.Kind {
	case parser.KindRange:
		return parser.FormatAddress(row.Token.Low) + "-" + parser.FormatAddress(row.Token.High)
	case parser.KindFamily:
		return parser.FormatAddress(row.Token.Low) + "+n"
	default:
		return parser.FormatAddress(row.Token.Low)
	}
}

// rowDetail describes a row's size and source line.
func rowDetail(row parser.Row) string {
	switch row.Token.Kind {
	case parser.KindRange:
		if row.Count() == 0 {
			return fmt.Sprintf("(reversed range, line %d)", row.Line)
		}
		return fmt.Sprintf("(%d registers, line %d)", row.Count(), row.Line)
	case parser.KindFamily:
		return fmt.Sprintf("(family, line %d)", row.Line)
	default:
		return fmt.Sprintf("(line %d)", row.Line)
	}
}
