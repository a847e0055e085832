package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/pmezard/go-difflib/difflib"
	"github.com/spf13/cobra"
	m "smite.dev/pkg/smite/internal/model"
)

// SimpleUI implements UI using cobra Command's output writer. With JSON
// enabled the final report is machine-readable and progress is suppressed.
type SimpleUI struct {
	cmd  *cobra.Command
	json bool
}

// NewSimpleUI creates a new SimpleUI.
func NewSimpleUI(cmd *cobra.Command, jsonOutput bool) *SimpleUI {
	return &SimpleUI{cmd: cmd, json: jsonOutput}
}

// Start initializes the UI.
func (s *SimpleUI) Start(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return nil
}

// Progress prints one line per classified mutant. Only wired up when
// incremental progress was requested.
func (s *SimpleUI) Progress(done, total uint64) {
	s.printf("Tested mutant %d/%d\n", done, total)
}

// Close finalizes the UI.
func (s *SimpleUI) Close(ctx context.Context) {
	if err := ctx.Err(); err != nil {
		return
	}
}

// DisplayMutants prints the generated mutant list without evaluating it.
func (s *SimpleUI) DisplayMutants(mutants []m.Mutant) error {
	if s.json {
		return s.printJSON(mutantListJSON(mutants))
	}

	var tableBuffer bytes.Buffer

	table := tablewriter.NewWriter(&tableBuffer)
	table.SetHeader([]string{"File", "Location", "Kind", "Original", "Mutant"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetColumnAlignment([]int{
		tablewriter.ALIGN_LEFT,
		tablewriter.ALIGN_RIGHT,
		tablewriter.ALIGN_LEFT,
		tablewriter.ALIGN_LEFT,
		tablewriter.ALIGN_LEFT,
	})

	for _, mutant := range mutants {
		table.Append([]string{
			string(mutant.Path),
			fmt.Sprintf("%d:%d", mutant.Line, mutant.Column),
			string(mutant.Mutation.Kind()),
			truncate(mutant.Original, 40),
			truncate(mutant.Mutation.Text(), 40),
		})
	}

	table.SetFooter([]string{"Total", fmt.Sprintf("%d", len(mutants)), "", "", ""})
	table.Render()

	s.printf("\n%s", tableBuffer.String())

	return nil
}

// DisplayRunReport prints the outcome table, the survived mutant diffs and
// the score line, or the whole report as JSON.
func (s *SimpleUI) DisplayRunReport(report m.RunReport, survived []m.Result) error {
	if s.json {
		return s.printJSON(report)
	}

	s.printf("\n%s", renderSummaryTable(report.Summary))
	s.printSurvived(survived)

	summary := report.Summary
	s.printf("\nMutation Score: %.1f%% (%d/%d mutants killed); %.1fs\n",
		summary.MutationScore,
		summary.Killed,
		summary.Killed+summary.Survived,
		summary.DurationSecs,
	)

	return nil
}

func renderSummaryTable(summary m.Summary) string {
	var tableBuffer bytes.Buffer

	percentage := func(count uint64) string {
		if summary.Total == 0 {
			return "0.0%"
		}

		return fmt.Sprintf("%.1f%%", float64(count)/float64(summary.Total)*100)
	}

	table := tablewriter.NewWriter(&tableBuffer)
	table.SetHeader([]string{"Status", "Count", "%"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetColumnAlignment([]int{tablewriter.ALIGN_LEFT, tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_RIGHT})

	for _, row := range []struct {
		outcome m.Outcome
		count   uint64
	}{
		{m.Killed, summary.Killed},
		{m.Survived, summary.Survived},
		{m.Invalid, summary.Invalid},
		{m.Skipped, summary.Skipped},
	} {
		table.Append([]string{row.outcome.String(), fmt.Sprintf("%d", row.count), percentage(row.count)})
	}

	table.SetFooter([]string{"Total", fmt.Sprintf("%d", summary.Total), ""})
	table.Render()

	return tableBuffer.String()
}

// printSurvived shows a unified diff of every survived mutant's line so the
// missing test coverage is obvious from the output alone.
func (s *SimpleUI) printSurvived(survived []m.Result) {
	if len(survived) == 0 {
		return
	}

	s.printf("\nSurvived mutants:\n")

	for _, result := range survived {
		mutant := result.Mutant
		s.printf("\n%s:%d:%d (%s)\n", mutant.Path, mutant.Line, mutant.Column, mutant.Mutation.Kind())

		diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
			A:       difflib.SplitLines(mutant.SourceLine),
			B:       difflib.SplitLines(MutatedLine(mutant)),
			Context: 0,
		})
		if err != nil {
			s.printf("  - %s\n  + %s\n", mutant.SourceLine, MutatedLine(mutant))
			continue
		}

		for _, line := range strings.Split(diff, "\n") {
			if strings.HasPrefix(line, "-") || strings.HasPrefix(line, "+") {
				s.printf("  %s\n", line)
			}
		}
	}
}

// MutatedLine applies a mutant's edit to its recorded source line.
func MutatedLine(mutant m.Mutant) string {
	col := mutant.Column - 1
	if col < 0 || col > len(mutant.SourceLine) {
		return mutant.SourceLine
	}

	end := col + len(mutant.Original)
	if end > len(mutant.SourceLine) {
		end = len(mutant.SourceLine)
	}

	return mutant.SourceLine[:col] + mutant.Mutation.Text() + mutant.SourceLine[end:]
}

type mutantJSON struct {
	File     string `json:"file"`
	Line     int    `json:"line"`
	Column   int    `json:"column"`
	Kind     string `json:"kind"`
	Original string `json:"original"`
	Mutant   string `json:"mutant"`
}

func mutantListJSON(mutants []m.Mutant) []mutantJSON {
	list := make([]mutantJSON, 0, len(mutants))

	for _, mutant := range mutants {
		list = append(list, mutantJSON{
			File:     string(mutant.Path),
			Line:     mutant.Line,
			Column:   mutant.Column,
			Kind:     string(mutant.Mutation.Kind()),
			Original: mutant.Original,
			Mutant:   mutant.Mutation.Text(),
		})
	}

	return list
}

// printJSON emits a single-line document so consumers can treat each report
// as one record.
func (s *SimpleUI) printJSON(v any) error {
	encoded, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}

	s.printf("%s\n", encoded)

	return nil
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}

	return s[:max-3] + "..."
}

func (s *SimpleUI) printf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(s.cmd.OutOrStdout(), format, args...)
}
