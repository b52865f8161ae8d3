package ui

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/pwr/internal/models"
	"github.com/desertthunder/pwr/internal/pipeline"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	RunningView ViewState = iota
	ResultView
)

// RunFunc executes the pipeline and returns its result. The UI runs it on
// its own goroutine and treats the event channel closing as completion.
type RunFunc func(ctx context.Context) (*models.PowerRankingResult, error)

// stageProgress tallies item outcomes for one stage as events arrive.
type stageProgress struct {
	processed int
	failed    int
	skipped   int
}

// Model represents the TUI application state.
type Model struct {
	ctx    context.Context
	view   ViewState
	run    RunFunc
	events *pipeline.ChannelObserver

	width  int
	height int

	spinner     spinner.Model
	stage       string
	stages      map[string]*stageProgress
	lastMessage string

	result *models.PowerRankingResult
	err    error

	help help.Model
	keys keyMap
}

// keyMap defines the key bindings for the TUI.
type keyMap struct {
	quit key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.quit}}
}

type eventMsg pipeline.PipelineEvent

type runCompleteMsg struct {
	result *models.PowerRankingResult
	err    error
}

// NewModel creates a new TUI model. The observer must already be attached
// to the pipeline so events reach the channel; run is started by Init.
func NewModel(ctx context.Context, run RunFunc, events *pipeline.ChannelObserver) *Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = styles.title

	return &Model{
		ctx:     ctx,
		view:    RunningView,
		run:     run,
		events:  events,
		spinner: s,
		stages:  make(map[string]*stageProgress),
		help:    help.New(),
		keys:    newKeyMap(),
	}
}

// Init starts the pipeline run and begins consuming events.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.startRun(), m.waitForEvent())
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case eventMsg:
		m.applyEvent(pipeline.PipelineEvent(msg))
		return m, m.waitForEvent()

	case runCompleteMsg:
		m.result = msg.result
		m.err = msg.err
		m.view = ResultView
		return m, nil
	}

	return m, nil
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	switch m.view {
	case RunningView:
		return m.renderRunning()
	case ResultView:
		return m.renderResult()
	default:
		return ""
	}
}

// Err returns the run error, if any, after the program exits.
func (m *Model) Err() error { return m.err }

// Result returns the ranking result after the program exits.
func (m *Model) Result() *models.PowerRankingResult { return m.result }

func (m *Model) applyEvent(event pipeline.PipelineEvent) {
	if event.Stage != "" {
		m.stage = event.Stage
	}
	if event.Message != "" {
		m.lastMessage = event.Message
	}

	switch event.Type {
	case pipeline.ItemCompleted:
		m.progressFor(event.Stage).processed++
	case pipeline.ItemFailed:
		m.progressFor(event.Stage).failed++
	case pipeline.ItemSkipped:
		m.progressFor(event.Stage).skipped++
	}
}

func (m *Model) progressFor(stage string) *stageProgress {
	p, ok := m.stages[stage]
	if !ok {
		p = &stageProgress{}
		m.stages[stage] = p
	}
	return p
}

func (m *Model) startRun() tea.Cmd {
	resultChan := make(chan runCompleteMsg, 1)

	go func() {
		result, err := m.run(m.ctx)
		resultChan <- runCompleteMsg{result: result, err: err}
		m.events.Close()
	}()

	return func() tea.Msg {
		return <-resultChan
	}
}

func (m *Model) waitForEvent() tea.Cmd {
	return func() tea.Msg {
		event, ok := <-m.events.C
		if !ok {
			return nil
		}
		return eventMsg(event)
	}
}

func (m *Model) renderRunning() string {
	title := styles.title.Render("Power Ranking Pipeline")

	var b strings.Builder
	b.WriteString(title)
	b.WriteString("\n\n")

	stage := m.stage
	if stage == "" {
		stage = "starting"
	}
	b.WriteString(fmt.Sprintf("%s %s\n\n", m.spinner.View(), stage))

	for _, name := range stageOrder(m.stages) {
		p := m.stages[name]
		line := fmt.Sprintf("  %-8s %d done", name, p.processed)
		if p.failed > 0 {
			line += styles.warn.Render(fmt.Sprintf("  %d failed", p.failed))
		}
		if p.skipped > 0 {
			line += styles.help.Render(fmt.Sprintf("  %d skipped", p.skipped))
		}
		b.WriteString(line + "\n")
	}

	if m.lastMessage != "" {
		b.WriteString("\n" + styles.help.Render(m.lastMessage) + "\n")
	}

	b.WriteString("\n" + m.help.ShortHelpView(m.keys.ShortHelp()))
	return b.String()
}

func (m *Model) renderResult() string {
	if m.err != nil {
		return styles.err.Render(fmt.Sprintf("Pipeline failed: %v\n\nPress q to quit", m.err))
	}

	title := styles.ok.Render("✓ Pipeline Complete")

	var info string
	if m.result != nil {
		info = fmt.Sprintf("\nTracks ranked: %d", m.result.TotalTracks())
		limit := 5
		if m.result.TotalTracks() < limit {
			limit = m.result.TotalTracks()
		}
		for rank := 1; rank <= limit; rank++ {
			r := m.result.GetByRank(rank)
			info += fmt.Sprintf("\n  %d. %s - %s (%.4f)", r.Rank, r.Track.PrimaryArtist(), r.Track.Title, r.TotalScore)
		}
	} else {
		info = "\nNo ranking produced; selected stages wrote their repositories."
	}

	helpView := m.help.ShortHelpView(m.keys.ShortHelp())
	return fmt.Sprintf("%s\n%s\n\n%s", title, info, helpView)
}

func stageOrder(stages map[string]*stageProgress) []string {
	known := []string{pipeline.StageExtract, pipeline.StageEnrich, pipeline.StageRank}

	var out []string
	for _, name := range known {
		if _, ok := stages[name]; ok {
			out = append(out, name)
		}
	}

	var extra []string
	for name := range stages {
		if name != "" && !contains(known, name) {
			extra = append(extra, name)
		}
	}
	sort.Strings(extra)
	return append(out, extra...)
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
