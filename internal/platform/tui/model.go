package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-life/internal/config"
	"github.com/vovakirdan/tui-life/internal/core"
	"github.com/vovakirdan/tui-life/internal/life"
	"github.com/vovakirdan/tui-life/internal/registry"
	"github.com/vovakirdan/tui-life/internal/sink"
	"github.com/vovakirdan/tui-life/internal/storage"
)

// chromeRows is the number of terminal rows not used by the grid:
// box border top and bottom, status line and help line.
const chromeRows = 4

// Options configures a simulation model.
type Options struct {
	Variant    registry.Variant
	Config     config.Sim
	Store      *storage.Store // may be nil
	Logger     *log.Logger    // nil uses log.Default()
	PatternDir string
	Runtime    core.RuntimeConfig
	// Embedded makes Back end the simulation and hand control to the
	// enclosing menu instead of being ignored.
	Embedded bool
}

// Model is the Bubble Tea model running one simulation.
type Model struct {
	opts     Options
	universe *life.Universe
	view     *sink.Terminal
	census   *sink.Census
	screen   *core.Screen
	keys     KeyMap
	help     help.Model
	rt       core.RuntimeConfig

	paused     bool
	extinct    bool
	saved      bool // Whether the current run has been saved
	quitting   bool
	backToMenu bool
}

// NewModel creates a model and builds its universe. Zero grid extents in
// the config are fitted to the terminal for planar variants.
func NewModel(opts Options) (Model, error) {
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	// Tick rate: runtime override, then variant preference, then config.
	rt := opts.Runtime
	if rt.TickRate == 0 {
		rt.TickRate = opts.Variant.TickRate
	}
	if rt.TickRate == 0 {
		rt.TickRate = opts.Config.TickRate
	}
	rt.TickRate = core.ClampTickRate(rt.TickRate)
	opts.Config = FitGrid(opts.Config, opts.Variant, rt.ScreenW, rt.ScreenH)

	u, err := opts.Variant.NewUniverse(opts.Config, opts.PatternDir)
	if err != nil {
		return Model{}, err
	}

	h := help.New()
	h.ShowAll = false
	h.Width = rt.ScreenW

	m := Model{
		opts:     opts,
		universe: u,
		view:     sink.NewTerminal(),
		census:   sink.NewCensus(opts.Config.SampleEvery),
		screen:   core.NewScreen(rt.ScreenW, core.Max(rt.ScreenH-2, 0)),
		keys:     DefaultKeyMap(),
		help:     h,
		rt:       rt,
	}
	m.census.Seed(u.Current().Population())
	return m, nil
}

// FitGrid fills zero grid extents of a planar variant from the terminal
// size. Unknown terminal sizes leave the variant defaults in place.
func FitGrid(cfg config.Sim, v registry.Variant, screenW, screenH int) config.Sim {
	if v.Dims.Rank() != 2 || cfg.Grid.Depth > 1 {
		return cfg
	}
	if cfg.Grid.Width == 0 && screenW > 2 {
		cfg.Grid.Width = screenW - 2
	}
	if cfg.Grid.Height == 0 && screenH > chromeRows {
		cfg.Grid.Height = screenH - chromeRows
	}
	return cfg
}

// Init starts the tick loop.
func (m Model) Init() tea.Cmd {
	return tickCmd(m.rt.TickRate)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.rt.ScreenW = msg.Width
		m.rt.ScreenH = msg.Height
		m.screen.Resize(msg.Width, core.Max(msg.Height-2, 0))
		m.help.Width = msg.Width
		return m, nil

	case TickMsg:
		return m.handleTick()
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.String() == "ctrl+s":
		m.saveScreenshot()
		return m, nil
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	case key.Matches(msg, m.keys.Back):
		if m.opts.Embedded {
			m.saveRun()
			m.backToMenu = true
			return m, tea.Quit
		}
		return m, nil
	}

	switch m.keys.MapKey(msg) {
	case core.ActionQuit:
		m.saveRun()
		m.quitting = true
		return m, tea.Quit
	case core.ActionPause:
		m.paused = !m.paused
	case core.ActionStep:
		if m.paused {
			m.advance()
		}
	case core.ActionReset:
		m.restart(true)
	case core.ActionReseed:
		m.restart(false)
	case core.ActionFaster:
		m.rt.TickRate = core.ClampTickRate(m.rt.TickRate * 2)
	case core.ActionSlower:
		m.rt.TickRate = core.ClampTickRate(m.rt.TickRate / 2)
	case core.ActionLayerUp:
		m.view.ShiftLayer(1, m.universe.Dims().D())
	case core.ActionLayerDown:
		m.view.ShiftLayer(-1, m.universe.Dims().D())
	}

	return m, nil
}

// handleTick processes simulation ticks.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	if m.quitting || m.backToMenu {
		return m, nil
	}
	if !m.paused {
		m.advance()
	}
	// Continue ticking
	return m, tickCmd(m.rt.TickRate)
}

// advance runs one generation. A universe that dies out without a spark
// source cannot recover, so it pauses.
func (m *Model) advance() {
	stats := m.universe.Tick(nil)
	m.census.Record(stats)
	if stats.Population == 0 && m.universe.Options().Spark.Mode == life.SparkOff {
		m.extinct = true
		m.paused = true
	}
}

// restart saves the current run and starts a new one. replay keeps the
// current seed; otherwise a fresh seed is drawn.
func (m *Model) restart(replay bool) {
	m.saveRun()

	var (
		u   *life.Universe
		err error
	)
	if replay {
		u, err = m.opts.Variant.Replay(m.opts.Config, m.opts.PatternDir, m.universe.Seed())
	} else {
		cfg := m.opts.Config
		cfg.Seed = 0
		u, err = m.opts.Variant.NewUniverse(cfg, m.opts.PatternDir)
	}
	if err != nil {
		m.opts.Logger.Error("cannot restart simulation", "variant", m.opts.Variant.ID, "error", err)
		return
	}

	m.universe = u
	m.census.Reset()
	m.census.Seed(u.Current().Population())
	m.saved = false
	m.extinct = false
}

// saveRun records the current run once. Best effort: failures are logged
// and the simulation continues.
func (m *Model) saveRun() {
	if m.saved || m.opts.Store == nil || m.universe.Generation() == 0 {
		return
	}
	m.saved = true

	opts := m.universe.Options()
	id, err := m.opts.Store.SaveRun(storage.Run{
		Variant:         m.opts.Variant.ID,
		Seed:            m.universe.Seed(),
		Dims:            opts.Dims.String(),
		Topology:        opts.Topology.String(),
		Spark:           opts.Spark.String(),
		Generations:     m.universe.Generation(),
		FinalPopulation: m.universe.Current().Population(),
		PeakPopulation:  m.census.Peak(),
	})
	if err != nil {
		m.opts.Logger.Warn("could not save run", "variant", m.opts.Variant.ID, "error", err)
		return
	}
	if err := m.opts.Store.SaveSamples(id, m.census.Samples()); err != nil {
		m.opts.Logger.Warn("could not save samples", "run", id, "error", err)
	}
}

// saveScreenshot saves the current grid view to a text file.
func (m *Model) saveScreenshot() {
	m.draw()

	dir := filepath.Join(config.DataDir(), "screenshots")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		m.opts.Logger.Warn("could not create screenshot directory", "error", err)
		return
	}

	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("%s_%s_gen%d.txt", m.opts.Variant.ID, timestamp, m.universe.Generation())
	path := filepath.Join(dir, filename)

	if err := os.WriteFile(path, []byte(m.screen.String()), 0o600); err != nil {
		m.opts.Logger.Warn("could not save screenshot", "path", path, "error", err)
	}
}

// draw renders the grid, inside a box, into the screen buffer.
func (m Model) draw() {
	m.screen.Clear()
	area := core.NewRect(0, 0, m.screen.Width(), m.screen.Height())
	if area.W < 3 || area.H < 3 {
		return
	}
	m.screen.DrawBox(area, core.ColorGray)
	m.view.Draw(m.screen, area.Inset(1), m.universe.Current(), m.universe.Generation())
}

// statusLine describes the running simulation.
func (m Model) statusLine() string {
	last := m.census.Last()
	parts := []string{
		titleStyle.Render(m.opts.Variant.Title),
		fmt.Sprintf("gen %d", m.universe.Generation()),
		fmt.Sprintf("pop %d", m.universe.Current().Population()),
		fmt.Sprintf("peak %d", m.census.Peak()),
		fmt.Sprintf("+%d -%d", last.Born, last.Died),
		fmt.Sprintf("%d tps", m.rt.TickRate),
		fmt.Sprintf("seed %d", m.universe.Seed()),
	}
	if d := m.universe.Dims().D(); d > 1 {
		parts = append(parts, fmt.Sprintf("layer %d/%d", m.view.Layer()+1, d))
	}
	line := statusStyle.Render(strings.Join(parts, "  "))
	switch {
	case m.extinct:
		line += "  " + pausedStyle.Render("EXTINCT")
	case m.paused:
		line += "  " + pausedStyle.Render("PAUSED")
	}
	return line
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting || m.backToMenu {
		return ""
	}

	m.draw()

	var b strings.Builder
	b.WriteString(RenderScreen(m.screen))
	b.WriteString("\n")
	b.WriteString(m.statusLine())
	b.WriteString("\n")
	b.WriteString(helpStyle.Render(m.help.View(m.keys)))
	return b.String()
}

// Universe returns the running universe.
func (m Model) Universe() *life.Universe {
	return m.universe
}

// Census returns the population census of the current run.
func (m Model) Census() *sink.Census {
	return m.census
}

// Paused reports whether ticking is suspended.
func (m Model) Paused() bool {
	return m.paused
}

// TickRate returns the current ticks per second.
func (m Model) TickRate() int {
	return m.rt.TickRate
}

// IsQuitting returns true if user requested to quit entirely.
func (m Model) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if user requested to go back to menu.
func (m Model) BackToMenu() bool {
	return m.backToMenu
}

// Run starts the Bubble Tea program for one simulation.
func Run(opts Options) error {
	model, err := NewModel(opts)
	if err != nil {
		return err
	}

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(), // Use alternate screen buffer
	)

	_, err = p.Run()
	return err
}
