package controller

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	m "smite.dev/pkg/smite/internal/model"
)

// TUI implements UI with a Bubble Tea progress bar while mutants are being
// evaluated. The final report is rendered through SimpleUI once the bar is
// torn down, so piped output and terminal output agree.
type TUI struct {
	simple   *SimpleUI
	program  *tea.Program
	finished chan struct{}
}

// NewTUI creates a new TUI writing to the command's output.
func NewTUI(cmd *cobra.Command) *TUI {
	return &TUI{
		simple:   NewSimpleUI(cmd, false),
		finished: make(chan struct{}),
	}
}

// Start launches the progress display.
func (t *TUI) Start(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	model := newRunModel(0)
	t.program = tea.NewProgram(model, tea.WithOutput(t.simple.cmd.OutOrStdout()))

	go func() {
		defer close(t.finished)

		if _, err := t.program.Run(); err != nil {
			// The run continues without a bar; results still print on Close.
			return
		}
	}()

	return nil
}

// Progress advances the bar.
func (t *TUI) Progress(done, total uint64) {
	if t.program != nil {
		t.program.Send(progressMsg{done: done, total: total})
	}
}

// Close tears the bar down and waits for the terminal to be restored.
func (t *TUI) Close(_ context.Context) {
	if t.program == nil {
		return
	}

	t.program.Quit()
	<-t.finished
}

// DisplayMutants prints the generated mutant list.
func (t *TUI) DisplayMutants(mutants []m.Mutant) error {
	return t.simple.DisplayMutants(mutants)
}

// DisplayRunReport prints the final report after the bar is gone.
func (t *TUI) DisplayRunReport(report m.RunReport, survived []m.Result) error {
	return t.simple.DisplayRunReport(report, survived)
}

type progressMsg struct {
	done  uint64
	total uint64
}

var labelStyle = lipgloss.NewStyle().Bold(true)

// runModel is the Bubble Tea model behind the progress bar.
type runModel struct {
	bar   progress.Model
	done  uint64
	total uint64
}

func newRunModel(total uint64) runModel {
	return runModel{
		bar:   progress.New(progress.WithDefaultGradient()),
		total: total,
	}
}

func (rm runModel) Init() tea.Cmd {
	return nil
}

func (rm runModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		width := msg.Width - 24
		if width < 10 {
			width = 10
		}

		rm.bar.Width = width

		return rm, nil
	case progressMsg:
		rm.done = msg.done
		rm.total = msg.total

		percent := 0.0
		if rm.total > 0 {
			percent = float64(rm.done) / float64(rm.total)
		}

		return rm, rm.bar.SetPercent(percent)
	case progress.FrameMsg:
		barModel, cmd := rm.bar.Update(msg)
		if bar, ok := barModel.(progress.Model); ok {
			rm.bar = bar
		}

		return rm, cmd
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return rm, tea.Quit
		}

		return rm, nil
	default:
		return rm, nil
	}
}

func (rm runModel) View() string {
	label := labelStyle.Render(fmt.Sprintf("Mutants %d/%d", rm.done, rm.total))

	return fmt.Sprintf("%s %s\n", label, rm.bar.View())
}
