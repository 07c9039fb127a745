package tui

import (
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/hexfall/internal/config"
	"github.com/vovakirdan/hexfall/internal/core"
	"github.com/vovakirdan/hexfall/internal/hex"
	"github.com/vovakirdan/hexfall/internal/registry"
	"github.com/vovakirdan/hexfall/internal/session"
	"github.com/vovakirdan/hexfall/internal/storage"
)

// Options configures a game screen.
type Options struct {
	Config config.HexfallConfig
	Board  registry.Board
	// Difficulty is applied after the board variant. Empty keeps Config.
	Difficulty config.DifficultyPreset
	Runtime    core.RuntimeConfig
	Store      *storage.Store // optional
	Logger     *log.Logger
}

// helpRows is the space kept below the board for the help view.
const helpRows = 4

// moveDoneMsg is sent when a rotation has been fully resolved.
type moveDoneMsg struct {
	out session.Outcome
	err error
}

// cursor is the keyboard selection: a piece and one of its corners.
type cursor struct {
	col, row int
	corner   hex.Corner
}

// Model is the Bubble Tea model for a hexfall game.
type Model struct {
	opts   Options
	sess   *session.Session
	bridge *bridge
	anim   *Animator
	screen *core.Screen
	layout layout
	keys   *KeyMapper
	help   help.Model

	cursor   cursor
	press    *core.Vec2
	pressX   int
	pressY   int
	score    int
	high     int
	moving   bool
	over     bool
	status   string
	quitting bool
}

// NewModel creates a game model with a fresh session.
func NewModel(opts Options) (Model, error) {
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	if opts.Runtime.TickRate <= 0 {
		opts.Runtime.TickRate = core.DefaultConfig().TickRate
	}
	opts.Board.Apply(&opts.Config)
	config.ApplyPreset(&opts.Config, opts.Difficulty)

	m := Model{
		opts:   opts,
		screen: core.NewScreen(opts.Runtime.ScreenW, max(opts.Runtime.ScreenH-helpRows, 1)),
		keys:   NewKeyMapper(),
		help:   help.New(),
		cursor: cursor{col: opts.Config.Board.Width / 2, row: opts.Config.Board.Height / 2, corner: hex.TopRight},
	}
	m.bridge = newBridge()
	if err := m.start(opts.Runtime.Seed); err != nil {
		return Model{}, err
	}
	return m, nil
}

// Close releases a session blocked on the model. Call it when the program
// ends without a quit key, for example when an SSH client disconnects.
func (m Model) Close() {
	m.bridge.Close()
}

// Quitting reports whether the player asked to leave the game.
func (m Model) Quitting() bool {
	return m.quitting
}

// start replaces the session with a new one.
func (m *Model) start(seed int64) error {
	if seed == 0 {
		seed = core.RuntimeConfig{}.ResolvedSeed()
	}

	sopts := []session.Option{
		session.WithPresenter(m.bridge),
		session.WithListener(m.bridge),
		session.WithLogger(m.opts.Logger),
		session.WithSeed(seed),
	}
	m.high = 0
	if m.opts.Store != nil {
		sopts = append(sopts, session.WithScoreBook(m.opts.Store.Book(m.opts.Board.ID)))
		if best, err := m.opts.Store.HighScore(m.opts.Board.ID); err == nil {
			m.high = best
		} else {
			m.opts.Logger.Warn("read high score", "board", m.opts.Board.ID, "err", err)
		}
	}

	sess, err := session.New(m.opts.Config, sopts...)
	if err != nil {
		return fmt.Errorf("tui: %w", err)
	}
	m.opts.Logger.Info("session started", "board", m.opts.Board.ID, "seed", seed)

	m.sess = sess
	if m.anim == nil {
		m.anim = NewAnimator(m.opts.Config.Animation, sess.Pieces())
	} else {
		m.anim.Reset(sess.Pieces())
	}
	m.layout = newLayout(m.screen.Width(), sess.Bounds())
	m.score = 0
	m.moving = false
	m.over = false
	m.press = nil
	m.status = "Select a group and rotate it"
	m.selectCursor()
	return nil
}

// Init starts listening to the session and the animation tick loop.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.bridge.listen(), tickCmd(m.opts.Runtime.TickRate))
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.WindowSizeMsg:
		m.opts.Runtime.ScreenW = msg.Width
		m.opts.Runtime.ScreenH = msg.Height
		m.screen.Resize(msg.Width, max(msg.Height-helpRows, 1))
		m.layout = newLayout(msg.Width, m.sess.Bounds())
		m.help.Width = msg.Width
		return m, nil

	case TickMsg:
		m.anim.Step(m.opts.Runtime.FrameDuration().Seconds())
		return m, tickCmd(m.opts.Runtime.TickRate)

	case batchMsg:
		m.anim.Play(msg.batch, msg.done)
		return m, m.bridge.listen()

	case scoreMsg:
		m.score = int(msg)
		return m, m.bridge.listen()

	case gameOverMsg:
		m.over = true
		m.score = msg.final
		m.high = msg.high
		m.status = "No more moves"
		if m.sess.Reason() == session.ReasonHazard {
			m.status = "A bomb went off"
		}
		return m, m.bridge.listen()

	case moveDoneMsg:
		return m.handleMoveDone(msg)
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	action, isQuit := m.keys.MapKey(msg)
	if isQuit {
		m.quitting = true
		m.bridge.Close()
		m.anim.Finish()
		return m, tea.Quit
	}

	w, h := m.opts.Config.Board.Width, m.opts.Config.Board.Height
	switch action {
	case core.ActionUp:
		m.cursor.row = core.Clamp(m.cursor.row+1, 0, h-1)
		m.selectCursor()
	case core.ActionDown:
		m.cursor.row = core.Clamp(m.cursor.row-1, 0, h-1)
		m.selectCursor()
	case core.ActionLeft:
		m.cursor.col = core.Clamp(m.cursor.col-1, 0, w-1)
		m.selectCursor()
	case core.ActionRight:
		m.cursor.col = core.Clamp(m.cursor.col+1, 0, w-1)
		m.selectCursor()
	case core.ActionCycleCorner:
		m.cursor.corner = m.cursor.corner.Next()
		m.selectCursor()
	case core.ActionRotateCW:
		return m.rotate(true)
	case core.ActionRotateCCW:
		return m.rotate(false)
	case core.ActionRestart:
		if m.over {
			if err := m.start(0); err != nil {
				m.status = err.Error()
			}
		}
	case core.ActionHelp:
		m.help.ShowAll = !m.help.ShowAll
	}
	return m, nil
}

// handleMouse turns a left-button press and release into a tap or a swipe.
func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if msg.Button != tea.MouseButtonLeft && msg.Action != tea.MouseActionRelease {
		return m, nil
	}

	switch msg.Action {
	case tea.MouseActionPress:
		p := m.layout.toBoard(msg.X, msg.Y)
		m.press = &p
		m.pressX, m.pressY = msg.X, msg.Y

	case tea.MouseActionRelease:
		if m.press == nil {
			return m, nil
		}
		press := *m.press
		m.press = nil

		drag := math.Hypot(float64(msg.X-m.pressX), float64(msg.Y-m.pressY))
		if drag < m.opts.Config.Input.SwipeThreshold {
			sel, ok, err := m.sess.Tap(press)
			if err != nil {
				return m, nil
			}
			if ok {
				m.cursor = cursor{col: sel.Col, row: sel.Row, corner: sel.Corner}
			}
			return m, nil
		}
		if m.moving || m.over {
			return m, nil
		}
		release := m.layout.toBoard(msg.X, msg.Y)
		m.moving = true
		sess := m.sess
		return m, func() tea.Msg {
			out, err := sess.Swipe(press, release)
			return moveDoneMsg{out: out, err: err}
		}
	}
	return m, nil
}

func (m Model) rotate(clockwise bool) (tea.Model, tea.Cmd) {
	if m.moving || m.over {
		return m, nil
	}
	m.moving = true
	sess := m.sess
	return m, func() tea.Msg {
		out, err := sess.Rotate(clockwise)
		return moveDoneMsg{out: out, err: err}
	}
}

func (m Model) handleMoveDone(msg moveDoneMsg) (tea.Model, tea.Cmd) {
	m.moving = false
	switch {
	case errors.Is(msg.err, session.ErrNoSelection):
		m.status = "Select a group first"
	case msg.err != nil, msg.out.GameOver:
		// The game-over message sets the status.
	case !msg.out.Matched:
		m.status = "No match"
	case msg.out.Cascades > 0:
		m.status = fmt.Sprintf("+%d  cascade x%d", msg.out.Gained, msg.out.Cascades)
	default:
		m.status = fmt.Sprintf("+%d", msg.out.Gained)
	}
	if msg.out.Defused > 0 {
		m.status += "  bomb defused"
	}
	if sel, ok := m.sess.Selection(); ok {
		m.cursor = cursor{col: sel.Col, row: sel.Row, corner: sel.Corner}
	}
	return m, nil
}

// selectCursor asks the session to select the group under the cursor.
func (m *Model) selectCursor() {
	if _, _, err := m.sess.Select(m.cursor.col, m.cursor.row, m.cursor.corner); err != nil {
		m.opts.Logger.Debug("select ignored", "err", err)
	}
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var sel *session.Selection
	if s, ok := m.sess.Selection(); ok {
		sel = &s
	}
	drawGame(m.screen, m.layout, m.anim.Sprites(), sel, hud{
		title:  m.opts.Board.Title,
		score:  m.score,
		high:   max(m.high, m.score),
		moves:  m.sess.Snapshot().Moves,
		bombs:  len(m.sess.Hazards()),
		status: m.status,
		over:   m.over,
	})

	helpStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241")).PaddingLeft(1)
	return lipgloss.JoinVertical(lipgloss.Left,
		RenderScreen(m.screen),
		helpStyle.Render(m.help.View(m.keys.Keys())),
	)
}

// Run starts the Bubble Tea program for one board.
func Run(opts Options) error {
	model, err := NewModel(opts)
	if err != nil {
		return err
	}

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	_, err = p.Run()
	model.Close()
	return err
}
