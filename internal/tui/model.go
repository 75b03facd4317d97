package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"reqbench/internal/runner"
	"reqbench/internal/tui/components"
	"reqbench/internal/tui/styles"
)

type updateMsg runner.ClientUpdate

type doneMsg struct {
	results []*runner.ClientResult
	err     error
}

type Model struct {
	Runner   *runner.Runner
	Updates  runner.StatsUpdateChan
	Progress progress.Model
	Table    table.Model
	Trace    components.Sparkline

	ctx    context.Context
	cancel context.CancelFunc

	StartTime time.Time
	Finished  int
	Done      bool
	Results   []*runner.ClientResult
	Err       error

	Width  int
	Height int
}

func NewModel(ctx context.Context, r *runner.Runner, updates runner.StatsUpdateChan) Model {
	ctx, cancel := context.WithCancel(ctx)

	columns := []table.Column{
		{Title: "Thread", Width: 8},
		{Title: "Runtime (ms)", Width: 14},
		{Title: "Avg (µs)", Width: 12},
		{Title: "Max (µs)", Width: 12},
		{Title: "Std (µs)", Width: 12},
		{Title: "Req/s", Width: 12},
	}
	t := table.New(
		table.WithColumns(columns),
		table.WithHeight(min(r.Cfg.Clients+1, 12)),
	)
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(styles.ColorSubtle).
		BorderBottom(true).
		Bold(false)
	t.SetStyles(s)

	return Model{
		Runner:    r,
		Updates:   updates,
		Progress:  progress.New(progress.WithDefaultGradient()),
		Table:     t,
		Trace:     components.NewSparkline(40, "Latency trace, last thread (µs)", styles.Warn),
		ctx:       ctx,
		cancel:    cancel,
		StartTime: time.Now(),
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.runCmd(), waitForUpdate(m.ctx, m.Updates))
}

func (m Model) runCmd() tea.Cmd {
	r, ctx := m.Runner, m.ctx
	return func() tea.Msg {
		res, err := r.Run(ctx)
		return doneMsg{results: res, err: err}
	}
}

// waitForUpdate yields the next client update. It gives up once ctx is done,
// since a failed run delivers fewer updates than there are clients.
func waitForUpdate(ctx context.Context, sub runner.StatsUpdateChan) tea.Cmd {
	return func() tea.Msg {
		select {
		case u := <-sub:
			return updateMsg(u)
		case <-ctx.Done():
			return nil
		}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.Progress.Width = msg.Width - 4
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.cancel()
			return m, tea.Quit
		case "q", "enter":
			if m.Done {
				m.cancel()
				return m, tea.Quit
			}
		}
		return m, nil

	case updateMsg:
		if m.Done {
			return m, nil
		}
		m.Finished++
		m.Table.SetRows(append(m.Table.Rows(), clientRow(msg.Result)))
		pct := float64(m.Finished) / float64(m.Runner.Cfg.Clients)
		cmds := []tea.Cmd{m.Progress.SetPercent(pct)}
		if m.Finished < m.Runner.Cfg.Clients {
			cmds = append(cmds, waitForUpdate(m.ctx, m.Updates))
		}
		return m, tea.Batch(cmds...)

	case doneMsg:
		m.Done = true
		m.Results = msg.results
		m.Err = msg.err
		// Releases a pending waitForUpdate; the runner has returned.
		m.cancel()
		if msg.err == nil && len(msg.results) > 0 {
			m.Finished = len(msg.results)
			m.Table.SetRows(resultRows(msg.results))
			for _, v := range msg.results[len(msg.results)-1].Samples {
				m.Trace.Add(uint64(v / 1000))
			}
		}
		return m, m.Progress.SetPercent(1.0)

	case progress.FrameMsg:
		progressModel, cmd := m.Progress.Update(msg)
		m.Progress = progressModel.(progress.Model)
		return m, cmd
	}

	return m, nil
}

func (m Model) View() string {
	s := strings.Builder{}
	cfg := m.Runner.Cfg

	s.WriteString(styles.Title.Render("🚀 reqbench"))
	s.WriteString("\n")
	s.WriteString(fmt.Sprintf("Endpoint: %s\n", cfg.Endpoint))
	s.WriteString(styles.Subtle.Render(fmt.Sprintf(
		"Clients: %d | Runs: %d | Elapsed: %s",
		cfg.Clients, cfg.Runs, time.Since(m.StartTime).Round(time.Millisecond),
	)))
	s.WriteString("\n\n")

	s.WriteString(m.Progress.View())
	s.WriteString("\n")
	s.WriteString(styles.Value.Render(fmt.Sprintf("%d/%d threads finished", m.Finished, cfg.Clients)))
	s.WriteString("\n\n")

	s.WriteString(styles.Box.Render(m.Table.View()))
	s.WriteString("\n")

	switch {
	case m.Err != nil:
		s.WriteString(styles.Error.Render("Run failed: " + m.Err.Error()))
		s.WriteString("\n")
	case m.Done:
		s.WriteString(styles.Box.Render(m.Trace.View()))
		s.WriteString("\n")
	}

	if m.Done {
		s.WriteString(styles.RenderKey("q", "Quit and write results"))
	} else {
		s.WriteString(styles.RenderKey("ctrl+c", "Abort"))
	}
	s.WriteString("\n")
	return s.String()
}

func clientRow(r *runner.ClientResult) table.Row {
	return table.Row{
		fmt.Sprintf("%d", r.ID),
		fmt.Sprintf("%.3f", r.Runtime/1e6),
		fmt.Sprintf("%.1f", r.AvgLatency/1e3),
		fmt.Sprintf("%.1f", r.MaxLatency/1e3),
		fmt.Sprintf("%.1f", r.StdLatency/1e3),
		fmt.Sprintf("%.1f", r.ReqSec),
	}
}

// resultRows lists clients in index order, replacing the completion-order rows.
func resultRows(results []*runner.ClientResult) []table.Row {
	rows := make([]table.Row, 0, len(results))
	for _, r := range results {
		rows = append(rows, clientRow(r))
	}
	return rows
}

// Run shows live progress while r runs and returns its results once the user quits.
func Run(ctx context.Context, r *runner.Runner) ([]*runner.ClientResult, error) {
	if r.Updates == nil {
		r.Updates = make(runner.StatsUpdateChan, r.Cfg.Clients)
	}
	m := NewModel(ctx, r, r.Updates)
	final, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	if err != nil {
		return nil, fmt.Errorf("tui: %w", err)
	}
	return final.(Model).Outcome()
}

// Outcome reports the run's results, or an error when it failed or the user
// quit before it finished.
func (m Model) Outcome() ([]*runner.ClientResult, error) {
	if !m.Done {
		return nil, errors.New("run aborted")
	}
	return m.Results, m.Err
}
