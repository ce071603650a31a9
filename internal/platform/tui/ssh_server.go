package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/bubbletea"

	"github.com/vovakirdan/tui-life/internal/config"
	"github.com/vovakirdan/tui-life/internal/core"
	"github.com/vovakirdan/tui-life/internal/registry"
	"github.com/vovakirdan/tui-life/internal/shared"
	"github.com/vovakirdan/tui-life/internal/storage"
)

// SSHServerConfig holds configuration for the SSH server.
type SSHServerConfig struct {
	// Address is the host:port to listen on (e.g., ":23235").
	Address string

	// HostKeyPath is the path to the host key file.
	// If empty, a key will be auto-generated at ~/.life/host_key.
	HostKeyPath string

	// DBPath is the path to the run history database.
	DBPath string

	// IdleTimeout is how long to wait before closing idle connections.
	IdleTimeout time.Duration

	// Sim is the simulation config every session starts from.
	Sim config.Sim

	// PatternDir is searched for pattern files named in Sim.
	PatternDir string

	// Hub configures the shared rooms sessions can create and join.
	Hub shared.HubConfig
}

// DefaultSSHServerConfig returns a config with sensible defaults.
func DefaultSSHServerConfig() SSHServerConfig {
	return SSHServerConfig{
		Address:     ":23235",
		DBPath:      storage.DefaultPath,
		IdleTimeout: 30 * time.Minute,
		Sim:         config.DefaultSim(),
		PatternDir:  filepath.Join(config.DataDir(), "patterns"),
		Hub:         shared.DefaultHubConfig(),
	}
}

// SSHServer wraps a Wish SSH server hosting one simulation per session,
// plus shared rooms that several sessions watch together.
type SSHServer struct {
	config SSHServerConfig
	server *ssh.Server
	store  *storage.Store
	hub    *shared.Hub
	logger *log.Logger
}

// NewSSHServer creates a new SSH server with the given configuration.
// A nil logger gets a timestamped stderr logger.
func NewSSHServer(cfg SSHServerConfig, logger *log.Logger) (*SSHServer, error) {
	if logger == nil {
		logger = log.NewWithOptions(os.Stderr, log.Options{
			ReportTimestamp: true,
			Prefix:          "life-ssh",
		})
	}

	// Open storage
	store, err := storage.Open(cfg.DBPath)
	if err != nil {
		logger.Warn("could not open run database", "error", err)
		// Continue without storage
		store = nil
	}

	hub := shared.NewHub(cfg.Hub, cfg.Sim, cfg.PatternDir, logger.With("component", "shared"))
	if store != nil {
		hub.SetRunSaver(store)
	}

	srv := &SSHServer{
		config: cfg,
		store:  store,
		hub:    hub,
		logger: logger,
	}

	// Resolve host key path
	hostKeyPath := cfg.HostKeyPath
	if hostKeyPath == "" {
		hostKeyPath = filepath.Join(config.DataDir(), "host_key")
	}

	// Ensure host key directory exists
	hostKeyDir := filepath.Dir(hostKeyPath)
	if mkdirErr := os.MkdirAll(hostKeyDir, 0o700); mkdirErr != nil {
		return nil, fmt.Errorf("cannot create host key directory: %w", mkdirErr)
	}

	// Create Wish server options
	opts := []ssh.Option{
		wish.WithAddress(cfg.Address),
		wish.WithHostKeyPath(hostKeyPath),
		wish.WithIdleTimeout(cfg.IdleTimeout),
		wish.WithMiddleware(
			bubbletea.Middleware(srv.teaHandler),
			srv.loggingMiddleware,
		),
	}

	// Create the server
	server, err := wish.NewServer(opts...)
	if err != nil {
		if store != nil {
			store.Close()
		}
		return nil, fmt.Errorf("cannot create SSH server: %w", err)
	}

	srv.server = server
	hub.Start()
	return srv, nil
}

// teaHandler creates a Bubble Tea program for each SSH session.
func (s *SSHServer) teaHandler(sshSession ssh.Session) (tea.Model, []tea.ProgramOption) {
	pty, _, ok := sshSession.Pty()
	if !ok {
		s.logger.Warn("no PTY requested", "user", sshSession.User())
		return nil, nil
	}

	rt := core.RuntimeConfig{
		ScreenW: pty.Window.Width,
		ScreenH: pty.Window.Height,
	}

	model := NewSessionModel(SessionOptions{
		Store:      s.store,
		Logger:     s.logger.With("user", sshSession.User()),
		Sim:        s.config.Sim,
		PatternDir: s.config.PatternDir,
		Runtime:    rt,
		Hub:        s.hub,
		ViewerID:   sshSession.User() + "@" + sshSession.RemoteAddr().String(),
		Context:    sshSession.Context(),
	})

	return model, []tea.ProgramOption{
		tea.WithAltScreen(),
	}
}

// loggingMiddleware logs SSH session events.
func (s *SSHServer) loggingMiddleware(next ssh.Handler) ssh.Handler {
	return func(sshSession ssh.Session) {
		s.logger.Info("session started",
			"user", sshSession.User(),
			"remote", sshSession.RemoteAddr().String(),
		)
		next(sshSession)
		s.logger.Info("session ended",
			"user", sshSession.User(),
			"remote", sshSession.RemoteAddr().String(),
		)
	}
}

// ListenAndServe starts the SSH server and blocks until shutdown.
func (s *SSHServer) ListenAndServe() error {
	s.logger.Info("starting SSH server", "address", s.config.Address)

	// Setup signal handling for graceful shutdown
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			s.logger.Error("server error", "error", err)
		}
	}()

	<-done
	s.logger.Info("shutting down...")
	return s.Shutdown()
}

// Shutdown gracefully stops the server.
func (s *SSHServer) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Rooms write their runs before the store closes.
	s.hub.Stop()
	if s.store != nil {
		s.store.Close()
	}

	return s.server.Shutdown(ctx)
}

// Addr returns the server's listen address string.
func (s *SSHServer) Addr() string {
	return s.config.Address
}

// SessionOptions configures a SessionModel.
type SessionOptions struct {
	Store      *storage.Store
	Logger     *log.Logger
	Sim        config.Sim
	PatternDir string
	Runtime    core.RuntimeConfig

	// Hub enables shared rooms; nil hides them.
	Hub      *shared.Hub
	ViewerID string
	// Context ends the session's shared room viewers when done; may be nil.
	Context context.Context
}

type sessionScreen int

const (
	screenMenu sessionScreen = iota
	screenSim
	screenHistory
	screenShared
)

// SessionModel manages the full session flow: menu -> simulation -> menu,
// with the run history and shared rooms reachable from the menu.
// This is the top-level model used for SSH sessions.
type SessionModel struct {
	opts      SessionOptions
	screen    sessionScreen
	menu      MenuModel
	sim       *Model
	history   *HistoryModel
	shared    *SharedModel
	viewerSeq int
	notice    string
	quitting  bool
}

// NewSessionModel creates a new session model.
func NewSessionModel(opts SessionOptions) SessionModel {
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	m := SessionModel{opts: opts}
	m.menu = m.newMenu()
	return m
}

func (m SessionModel) newMenu() MenuModel {
	menu := NewMenuModel(m.opts.Runtime)
	if m.opts.Hub != nil {
		menu = menu.WithSharing()
	}
	return menu
}

// Init initializes the session.
func (m SessionModel) Init() tea.Cmd {
	return m.menu.Init()
}

// Update handles messages for the session.
func (m SessionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Handle window resize globally
	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		m.opts.Runtime.ScreenW = wsm.Width
		m.opts.Runtime.ScreenH = wsm.Height
	}

	switch m.screen {
	case screenSim:
		return m.updateSim(msg)
	case screenHistory:
		return m.updateHistory(msg)
	case screenShared:
		return m.updateShared(msg)
	}
	return m.updateMenu(msg)
}

// updateMenu handles updates when in menu mode.
func (m SessionModel) updateMenu(msg tea.Msg) (tea.Model, tea.Cmd) {
	newMenu, cmd := m.menu.Update(msg)
	if menuModel, ok := newMenu.(MenuModel); ok {
		m.menu = menuModel
	}

	// Check if user quit
	if m.menu.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}

	if m.menu.WantsHistory() {
		history := NewHistoryModel(m.opts.Store, m.opts.Runtime.ScreenW, m.opts.Runtime.ScreenH)
		m.history = &history
		m.screen = screenHistory
		return m, m.history.Init()
	}

	if m.menu.WantsShared() && m.opts.Hub != nil {
		return m.openShared(*m.menu.Selected())
	}

	// Check if a variant was selected
	if selected := m.menu.Selected(); selected != nil {
		variant, err := registry.Lookup(selected.ID)
		if err != nil {
			// Shouldn't happen since menu only shows registered variants
			return m.backToMenu(err.Error())
		}

		sim, err := NewModel(Options{
			Variant:    variant,
			Config:     m.opts.Sim,
			Store:      m.opts.Store,
			Logger:     m.opts.Logger,
			PatternDir: m.opts.PatternDir,
			Runtime:    m.menu.Config(), // Possibly updated by resize
			Embedded:   true,
		})
		if err != nil {
			m.opts.Logger.Error("cannot start simulation", "variant", variant.ID, "error", err)
			return m.backToMenu(fmt.Sprintf("cannot start %s: %v", variant.Title, err))
		}
		m.opts.Logger.Info("simulation started", "variant", variant.ID, "seed", sim.Universe().Seed())

		m.sim = &sim
		m.screen = screenSim
		m.notice = ""
		return m, m.sim.Init()
	}

	return m, cmd
}

// updateSim handles updates when a simulation is running.
func (m SessionModel) updateSim(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, cmd := m.sim.Update(msg)
	if simModel, ok := newModel.(Model); ok {
		m.sim = &simModel
	}

	if m.sim.BackToMenu() {
		m.opts.Logger.Info("simulation ended", "generations", m.sim.Universe().Generation())
		return m.backToMenu("")
	}

	// Check if user quit entirely
	if m.sim.IsQuitting() {
		m.opts.Logger.Info("simulation ended", "generations", m.sim.Universe().Generation())
		m.quitting = true
		return m, tea.Quit
	}

	return m, cmd
}

// updateHistory handles updates when the run history is shown.
func (m SessionModel) updateHistory(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, cmd := m.history.Update(msg)
	if historyModel, ok := newModel.(HistoryModel); ok {
		m.history = &historyModel
	}

	if m.history.IsGoingBack() {
		return m.backToMenu("")
	}
	if m.history.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}

	return m, cmd
}

// openShared starts the shared room flow with a fresh viewer. The viewer
// is closed when the flow ends or the SSH session goes away.
func (m SessionModel) openShared(variant registry.VariantInfo) (tea.Model, tea.Cmd) {
	m.viewerSeq++
	viewer := shared.NewChannelViewer(shared.ViewerID(fmt.Sprintf("%s#%d", m.opts.ViewerID, m.viewerSeq)), 16)
	if ctx := m.opts.Context; ctx != nil {
		go func() {
			select {
			case <-ctx.Done():
				viewer.Close()
			case <-viewer.Done():
			}
		}()
	}

	sm := NewSharedModel(m.opts.Hub, viewer, variant, m.opts.Runtime.ScreenW, m.opts.Runtime.ScreenH)
	m.shared = &sm
	m.screen = screenShared
	m.notice = ""
	return m, m.shared.Init()
}

// updateShared handles updates while in the shared room flow.
func (m SessionModel) updateShared(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, cmd := m.shared.Update(msg)
	if sharedModel, ok := newModel.(SharedModel); ok {
		m.shared = &sharedModel
	}

	if m.shared.BackToMenu() {
		return m.backToMenu("")
	}
	if m.shared.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}

	return m, cmd
}

func (m SessionModel) backToMenu(notice string) (tea.Model, tea.Cmd) {
	m.screen = screenMenu
	m.sim = nil
	m.history = nil
	m.shared = nil
	m.notice = notice
	m.menu = m.newMenu()
	return m, m.menu.Init()
}

// View renders the current view.
func (m SessionModel) View() string {
	if m.quitting {
		return ""
	}

	switch m.screen {
	case screenSim:
		return m.sim.View()
	case screenHistory:
		return m.history.View()
	case screenShared:
		return m.shared.View()
	}

	if m.notice != "" {
		return m.menu.View() + "\n" + centerText(pausedStyle.Render(m.notice), m.opts.Runtime.ScreenW)
	}
	return m.menu.View()
}
