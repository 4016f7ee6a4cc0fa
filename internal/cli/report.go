package cli

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/deprep/pkg/deps"
	"github.com/matzehuels/deprep/pkg/errors"
)

// renderReport prints the up-to-date and outdated sections of a report,
// followed by the dependencies that could not be resolved.
func renderReport(w io.Writer, location string, r *deps.Report) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, StyleTitle.Render(location))

	failures := r.Failures()
	if r.Len() == 0 && len(failures) == 0 {
		fmt.Fprintln(w, StyleDim.Render("No dependencies to check"))
		return
	}

	if satisfied := r.Satisfied(); len(satisfied) > 0 {
		printSection(w, iconSuccess, "Up to date", len(satisfied))
		fmt.Fprintln(w, resultTable(satisfied, false))
	}
	if outdated := r.Outdated(); len(outdated) > 0 {
		printSection(w, iconWarning, "Outdated", len(outdated))
		fmt.Fprintln(w, resultTable(outdated, true))
	}
	if len(failures) > 0 {
		printSection(w, iconError, "Unresolved", len(failures))
		for _, f := range failures {
			fmt.Fprintf(w, "  %s %s %s\n", StyleValue.Render(f.Name), StyleDim.Render(f.From), StyleError.Render(failureReason(f)))
		}
	}
}

func resultTable(results []deps.Result, withChange bool) string {
	headers := []string{"Package", "Declared", "Latest"}
	if withChange {
		headers = append(headers, "Change")
	}

	rows := make([][]string, 0, len(results))
	for _, r := range results {
		row := []string{r.Name, r.From, r.To}
		if withChange {
			row = append(row, string(r.Change))
		}
		rows = append(rows, row)
	}

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(styleBorder).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return styleHeader
			case withChange && col == 3 && row >= 0 && row < len(results):
				return changeStyles[results[row].Change].Padding(0, 1)
			default:
				return styleCell
			}
		}).
		String()
}

func failureReason(f deps.Failure) string {
	if code := f.Code(); code != "" {
		return fmt.Sprintf("%s: %s", code, errors.UserMessage(f.Err))
	}
	return f.Err.Error()
}
