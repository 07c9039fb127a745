package tui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/hexfall/internal/session"
)

// batchMsg carries a batch from the session goroutine to the UI loop.
type batchMsg struct {
	batch session.Batch
	done  chan struct{}
}

// scoreMsg reports a score change.
type scoreMsg int

// gameOverMsg reports the end of a session.
type gameOverMsg struct {
	final, high int
}

// bridge connects sessions to the UI loop. It is the session's Presenter
// and Listener: both forward to a channel the model reads with listen. One
// bridge serves every session a model starts.
type bridge struct {
	msgs      chan tea.Msg
	closed    chan struct{}
	closeOnce sync.Once
}

func newBridge() *bridge {
	return &bridge{
		msgs:   make(chan tea.Msg),
		closed: make(chan struct{}),
	}
}

// Present implements session.Presenter. The returned channel also closes
// when the bridge is closed, so a session never outlives its program.
func (b *bridge) Present(batch session.Batch) <-chan struct{} {
	done := make(chan struct{})
	select {
	case b.msgs <- batchMsg{batch: batch, done: done}:
	case <-b.closed:
		return b.closed
	}

	out := make(chan struct{})
	go func() {
		select {
		case <-done:
		case <-b.closed:
		}
		close(out)
	}()
	return out
}

// ScoreChanged implements session.Listener.
func (b *bridge) ScoreChanged(score int) {
	b.send(scoreMsg(score))
}

// GameOver implements session.Listener.
func (b *bridge) GameOver(final, high int) {
	b.send(gameOverMsg{final: final, high: high})
}

func (b *bridge) send(msg tea.Msg) {
	select {
	case b.msgs <- msg:
	case <-b.closed:
	}
}

// listen waits for the next message from the session.
func (b *bridge) listen() tea.Cmd {
	return func() tea.Msg {
		select {
		case msg := <-b.msgs:
			return msg
		case <-b.closed:
			return nil
		}
	}
}

// Close releases a session blocked on the bridge. Batches presented after
// Close complete immediately.
func (b *bridge) Close() {
	b.closeOnce.Do(func() { close(b.closed) })
}

var (
	_ session.Presenter = (*bridge)(nil)
	_ session.Listener  = (*bridge)(nil)
)
