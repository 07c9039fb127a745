package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/bubbletea"

	"github.com/vovakirdan/hexfall/internal/config"
	"github.com/vovakirdan/hexfall/internal/core"
	"github.com/vovakirdan/hexfall/internal/registry"
	"github.com/vovakirdan/hexfall/internal/storage"
)

// SSHServerConfig holds configuration for the SSH server.
type SSHServerConfig struct {
	// Address is the host:port to listen on (e.g., ":23234").
	Address string

	// HostKeyPath is the path to the host key file.
	// If empty, a key will be auto-generated at ~/.hexfall/host_key.
	HostKeyPath string

	// IdleTimeout is how long to wait before closing idle connections.
	IdleTimeout time.Duration

	// Game is the rule set every remote game starts from.
	Game       config.HexfallConfig
	Difficulty config.DifficultyPreset

	// Store records remote runs. May be nil.
	Store *storage.Store

	Logger *log.Logger
}

// DefaultSSHServerConfig returns a config with sensible defaults.
func DefaultSSHServerConfig() SSHServerConfig {
	return SSHServerConfig{
		Address:     ":23234",
		IdleTimeout: 30 * time.Minute,
		Game:        config.DefaultHexfallConfig(),
	}
}

// SSHServer hosts hexfall games over SSH with Wish.
type SSHServer struct {
	config SSHServerConfig
	server *ssh.Server
	logger *log.Logger
}

// NewSSHServer creates a new SSH server with the given configuration.
func NewSSHServer(cfg SSHServerConfig) (*SSHServer, error) {
	if err := cfg.Game.Validate(); err != nil {
		return nil, fmt.Errorf("ssh: %w", err)
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.NewWithOptions(os.Stderr, log.Options{
			ReportTimestamp: true,
			Prefix:          "hexfall-ssh",
		})
	}

	srv := &SSHServer{
		config: cfg,
		logger: logger,
	}

	hostKeyPath := cfg.HostKeyPath
	if hostKeyPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("cannot get home directory: %w", err)
		}
		hostKeyPath = filepath.Join(home, ".hexfall", "host_key")
	}
	if err := os.MkdirAll(filepath.Dir(hostKeyPath), 0o700); err != nil {
		return nil, fmt.Errorf("cannot create host key directory: %w", err)
	}

	server, err := wish.NewServer(
		wish.WithAddress(cfg.Address),
		wish.WithHostKeyPath(hostKeyPath),
		wish.WithIdleTimeout(cfg.IdleTimeout),
		wish.WithMiddleware(
			bubbletea.Middleware(srv.teaHandler),
			srv.loggingMiddleware,
		),
	)
	if err != nil {
		return nil, fmt.Errorf("cannot create SSH server: %w", err)
	}

	srv.server = server
	return srv, nil
}

// teaHandler creates a Bubble Tea program for each SSH session. A board ID
// passed as the SSH command skips the menu.
func (s *SSHServer) teaHandler(sshSession ssh.Session) (tea.Model, []tea.ProgramOption) {
	pty, _, ok := sshSession.Pty()
	if !ok {
		s.logger.Warn("no PTY requested", "user", sshSession.User())
		return nil, nil
	}

	rt := core.RuntimeConfig{
		ScreenW:  pty.Window.Width,
		ScreenH:  pty.Window.Height,
		TickRate: 60,
	}
	model := NewSessionModel(s.config.Game, s.config.Difficulty, s.config.Store, rt, s.logger.With("user", sshSession.User()))

	if args := sshSession.Command(); len(args) > 0 {
		if err := model.startGame(args[0]); err != nil {
			s.logger.Warn("cannot start board", "board", args[0], "err", err)
		}
	}

	go func() {
		<-sshSession.Context().Done()
		model.Close()
	}()

	return model, []tea.ProgramOption{
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
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

// ListenAndServe starts the SSH server and blocks until an interrupt.
func (s *SSHServer) ListenAndServe() error {
	s.logger.Info("starting SSH server", "address", s.config.Address)

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

// Shutdown gracefully stops the server. The store stays open; its owner closes it.
func (s *SSHServer) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.server.Shutdown(ctx)
}

// Addr returns the server's listen address string.
func (s *SSHServer) Addr() string {
	return s.config.Address
}

// sessionLink lets the SSH handler release whichever game is running when
// the client disconnects. It is shared with the program goroutine.
type sessionLink struct {
	mu     sync.Mutex
	bridge *bridge
	closed bool
}

func (l *sessionLink) attach(b *bridge) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.bridge = b
	if l.closed {
		b.Close()
	}
}

func (l *sessionLink) close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.closed = true
	if l.bridge != nil {
		l.bridge.Close()
	}
}

// SessionModel manages one remote player: menu -> game or scoreboard -> menu.
type SessionModel struct {
	game     config.HexfallConfig
	preset   config.DifficultyPreset
	store    *storage.Store
	runtime  core.RuntimeConfig
	logger   *log.Logger
	menu     MenuModel
	current  *Model
	scores   *ScoreboardModel
	link     *sessionLink
	inGame   bool
	quitting bool
}

// NewSessionModel creates a session that starts on the board menu.
func NewSessionModel(game config.HexfallConfig, preset config.DifficultyPreset, store *storage.Store, rt core.RuntimeConfig, logger *log.Logger) *SessionModel {
	return &SessionModel{
		game:    game,
		preset:  preset,
		store:   store,
		runtime: rt,
		logger:  logger,
		menu:    NewMenuModel(store, rt),
		link:    &sessionLink{},
	}
}

// Close releases the running game and any game started afterwards. It is
// safe to call from another goroutine.
func (m *SessionModel) Close() {
	m.link.close()
}

func (m *SessionModel) startGame(boardID string) error {
	board, err := registry.Lookup(boardID)
	if err != nil {
		return err
	}
	game, err := NewModel(Options{
		Config:     m.game,
		Board:      board,
		Difficulty: m.preset,
		Runtime:    m.runtime,
		Store:      m.store,
		Logger:     m.logger,
	})
	if err != nil {
		return err
	}
	m.current = &game
	m.link.attach(game.bridge)
	m.inGame = true
	return nil
}

// Init starts the menu, or the game when one was picked up front.
func (m *SessionModel) Init() tea.Cmd {
	if m.inGame {
		return m.current.Init()
	}
	return m.menu.Init()
}

// Update handles messages for the session.
func (m *SessionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		m.runtime.ScreenW = wsm.Width
		m.runtime.ScreenH = wsm.Height
	}

	switch {
	case m.inGame:
		return m.updateGame(msg)
	case m.scores != nil:
		return m.updateScores(msg)
	}
	return m.updateMenu(msg)
}

func (m *SessionModel) updateMenu(msg tea.Msg) (tea.Model, tea.Cmd) {
	if _, ok := msg.(TickMsg); ok {
		return m, nil
	}

	next, cmd := m.menu.Update(msg)
	if menu, ok := next.(MenuModel); ok {
		m.menu = menu
	}

	if m.menu.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}

	if selected := m.menu.Selected(); selected != nil {
		if err := m.startGame(selected.BoardID); err != nil {
			m.logger.Error("cannot start board", "board", selected.BoardID, "err", err)
			m.menu = NewMenuModel(m.store, m.runtime)
			return m, nil
		}
		return m, m.current.Init()
	}

	// The menu quits its program to hand over; here the session stays open.
	if m.menu.WantsScoreboard() {
		scores := NewScoreboardModel(m.store, m.runtime.ScreenW, m.runtime.ScreenH)
		m.scores = &scores
		return m, m.scores.Init()
	}

	return m, cmd
}

func (m *SessionModel) updateScores(msg tea.Msg) (tea.Model, tea.Cmd) {
	if _, ok := msg.(TickMsg); ok {
		return m, nil
	}

	next, cmd := m.scores.Update(msg)
	if scores, ok := next.(ScoreboardModel); ok {
		*m.scores = scores
	}

	switch {
	case m.scores.IsQuitting():
		m.quitting = true
		return m, tea.Quit
	case m.scores.IsGoingBack():
		m.scores = nil
		m.menu = NewMenuModel(m.store, m.runtime)
		return m, m.menu.Init()
	}
	return m, cmd
}

func (m *SessionModel) updateGame(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.current.Update(msg)
	if game, ok := next.(Model); ok {
		*m.current = game
	}

	// Leaving a game returns to the menu instead of closing the connection.
	if m.current.Quitting() {
		m.current.Close()
		m.current = nil
		m.inGame = false
		m.menu = NewMenuModel(m.store, m.runtime)
		return m, m.menu.Init()
	}

	return m, cmd
}

// View renders the current view.
func (m *SessionModel) View() string {
	if m.quitting {
		return ""
	}
	switch {
	case m.inGame:
		return m.current.View()
	case m.scores != nil:
		return m.scores.View()
	}
	return m.menu.View()
}
