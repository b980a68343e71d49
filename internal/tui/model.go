package tui

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	apperrors "github.com/agbru/racecoord/internal/errors"
	"github.com/agbru/racecoord/internal/metrics"
	"github.com/agbru/racecoord/internal/orchestration"
	"github.com/agbru/racecoord/internal/sysmon"
)

// Layout constants for the board.
const (
	headerHeight          = 1
	minBodyHeight         = 6
	LogsPanelWidthPercent = 55
	refreshInterval       = 250 * time.Millisecond
)

// Options describes the races the board will run.
type Options struct {
	Tasks   []string
	Timeout time.Duration
	Variant string
	Version string
}

// raceState holds the fields that belong to the race currently shown.
type raceState struct {
	ctx        context.Context
	cancel     context.CancelFunc
	generation uint64
	round      int
	resolved   bool
	outcome    orchestration.Outcome
	settled    bool
	exitCode   int
}

// Model is the root bubbletea model of the race board.
type Model struct {
	header  HeaderModel
	lanes   LanesModel
	logs    LogsModel
	metrics MetricsModel
	footer  FooterModel
	keymap  KeyMap

	raceState

	width  int
	height int

	parentCtx context.Context
	start     RaceStarter
	ref       *programRef
}

// NewModel creates the board model. The first race starts in Init.
func NewModel(parentCtx context.Context, start RaceStarter, opts Options) Model {
	ctx, cancel := context.WithCancel(parentCtx)
	keymap := DefaultKeyMap()
	return Model{
		header:  NewHeaderModel(opts.Version, opts.Variant),
		lanes:   NewLanesModel(opts.Tasks, opts.Timeout),
		logs:    NewLogsModel(),
		metrics: NewMetricsModel(),
		footer:  NewFooterModel(keymap),
		keymap:  keymap,
		raceState: raceState{
			ctx:      ctx,
			cancel:   cancel,
			round:    1,
			exitCode: apperrors.ExitErrorCanceled,
		},
		parentCtx: parentCtx,
		start:     start,
		ref:       &programRef{},
	}
}

// ExitCode returns the exit code for the last race shown: the outcome's code
// once it resolved, the canceled code before that.
func (m Model) ExitCode() int { return m.exitCode }

// Init starts the first race and the refresh loop.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		tickCmd(),
		sampleMemStatsCmd(),
		startRaceCmd(m.ref, m.ctx, m.start, m.round, m.generation),
		watchContextCmd(m.parentCtx),
	)
}

// Update handles all incoming messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.header.SetWidth(m.width)
		m.footer.SetWidth(m.width)
		m.logs.SetPageSize(m.bodyHeight() - 3)
		return m, nil

	case RaceStartedMsg:
		if msg.Generation != m.generation {
			return m, nil
		}
		m.header.SetRace(msg.ID, msg.Round)
		return m, nil

	case EventMsg:
		if msg.Generation != m.generation {
			return m, nil
		}
		m.observe(msg.Event)
		return m, nil

	case RaceSettledMsg:
		if msg.Generation != m.generation {
			return m, nil
		}
		m.settled = true
		m.footer.SetStatus(statusSettled)
		m.logs.AddLine(dimStyle.Render("all tasks finished"))
		return m, nil

	case RaceErrorMsg:
		if msg.Generation != m.generation {
			return m, nil
		}
		m.logs.AddLine(logErrorStyle.Render(fmt.Sprintf("cannot start race: %v", msg.Err)))
		m.footer.SetStatus(statusFailed)
		m.exitCode = apperrors.ExitErrorConfig
		return m, nil

	case TickMsg:
		return m, tea.Batch(sampleMemStatsCmd(), sampleSysStatsCmd(), tickCmd())

	case MemStatsMsg:
		m.metrics.UpdateMemStats(msg)
		return m, nil

	case SysStatsMsg:
		m.metrics.UpdateSysStats(msg)
		return m, nil

	case ContextCancelledMsg:
		m.cancel()
		return m, tea.Quit
	}
	return m, nil
}

// observe applies an event of the current race.
func (m *Model) observe(ev orchestration.Event) {
	m.lanes.Observe(ev)
	m.logs.AddEvent(ev)
	if ev.Kind == orchestration.EventResolved {
		m.resolved = true
		m.outcome = ev.Outcome
		m.exitCode = orchestration.ExitCodeFor(ev.Outcome)
		m.header.SetResolved(ev.Elapsed)
		if !m.settled {
			m.footer.SetStatus(statusDecided)
		}
	}
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keymap.Quit):
		m.cancel()
		return m, tea.Quit

	case key.Matches(msg, m.keymap.Rerun):
		return m.rerun()

	case key.Matches(msg, m.keymap.Help):
		m.footer.ToggleHelp()
		return m, nil

	case key.Matches(msg, m.keymap.Up):
		m.logs.ScrollUp(1)
	case key.Matches(msg, m.keymap.Down):
		m.logs.ScrollDown(1)
	case key.Matches(msg, m.keymap.PageUp):
		m.logs.PageUp()
	case key.Matches(msg, m.keymap.PageDown):
		m.logs.PageDown()
	}
	return m, nil
}

// rerun abandons the race on screen and starts the next round. Messages from
// the abandoned race are dropped by their generation.
func (m Model) rerun() (tea.Model, tea.Cmd) {
	m.cancel()
	m.generation++
	m.round++
	m.ctx, m.cancel = context.WithCancel(m.parentCtx)

	m.resolved = false
	m.settled = false
	m.outcome = orchestration.Outcome{}
	m.exitCode = apperrors.ExitErrorCanceled

	m.header.Reset()
	m.lanes.Reset()
	m.logs.Reset()
	m.footer.SetStatus(statusRacing)

	return m, startRaceCmd(m.ref, m.ctx, m.start, m.round, m.generation)
}

func (m Model) bodyHeight() int {
	return max(m.height-headerHeight-lipgloss.Height(m.footer.View()), minBodyHeight)
}

// View renders the entire board.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Initializing..."
	}

	body := m.bodyHeight()
	logsWidth := m.width * LogsPanelWidthPercent / 100
	rightWidth := m.width - logsWidth
	lanesHeight := min(m.lanes.Height(), body-minBodyHeight/2)
	metricsHeight := body - lanesHeight

	right := lipgloss.JoinVertical(lipgloss.Left,
		m.lanes.View(rightWidth, lanesHeight),
		m.metrics.View(rightWidth, metricsHeight))
	main := lipgloss.JoinHorizontal(lipgloss.Top,
		m.logs.View(logsWidth, lipgloss.Height(right)),
		right)

	return lipgloss.JoinVertical(lipgloss.Left, m.header.View(), main, m.footer.View())
}

// Run shows the board until the user quits or ctx ends, and returns the exit
// code of the last race shown.
func Run(ctx context.Context, start RaceStarter, opts Options) int {
	initStyles()

	model := NewModel(ctx, start, opts)
	defer model.cancel()

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	model.ref.SetProgram(p)

	finalModel, err := p.Run()
	if final, ok := finalModel.(Model); ok {
		final.cancel()
		if err == nil {
			return final.ExitCode()
		}
	}
	if err != nil && ctx.Err() != nil {
		return apperrors.ExitErrorCanceled
	}
	if err != nil {
		return apperrors.ExitErrorGeneric
	}
	return apperrors.ExitSuccess
}

// tickCmd schedules the next refresh.
func tickCmd() tea.Cmd {
	return tea.Tick(refreshInterval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// sampleMemStatsCmd reads the process memory snapshot.
func sampleMemStatsCmd() tea.Cmd {
	return func() tea.Msg {
		return MemStatsMsg(metrics.ReadMemory())
	}
}

// sampleSysStatsCmd samples host CPU and memory usage.
func sampleSysStatsCmd() tea.Cmd {
	return func() tea.Msg {
		return SysStatsMsg(sysmon.Sample())
	}
}

// watchContextCmd waits for the parent context to end.
func watchContextCmd(ctx context.Context) tea.Cmd {
	return func() tea.Msg {
		<-ctx.Done()
		return ContextCancelledMsg{Err: ctx.Err()}
	}
}
