package tui

import (
	"testing"
	"time"

	"github.com/vovakirdan/hexfall/internal/session"
)

func TestBridgeDeliversBatches(t *testing.T) {
	b := newBridge()
	batch := session.Batch{Phase: session.FillingBlanks}

	result := make(chan (<-chan struct{}), 1)
	go func() { result <- b.Present(batch) }()

	msg, ok := b.listen()().(batchMsg)
	if !ok {
		t.Fatal("listen should return the presented batch")
	}
	if msg.batch.Phase != session.FillingBlanks {
		t.Errorf("batch phase = %v, expected %v", msg.batch.Phase, session.FillingBlanks)
	}

	wait := <-result
	if closed(wait) {
		t.Fatal("Present should wait for the animation")
	}
	close(msg.done)

	select {
	case <-wait:
	case <-time.After(time.Second):
		t.Fatal("Present wait did not end after done closed")
	}
}

func TestBridgeForwardsEvents(t *testing.T) {
	b := newBridge()

	go b.ScoreChanged(45)
	if got, ok := b.listen()().(scoreMsg); !ok || int(got) != 45 {
		t.Errorf("listen() = %v, expected score 45", got)
	}

	go b.GameOver(45, 100)
	if got, ok := b.listen()().(gameOverMsg); !ok || got.final != 45 || got.high != 100 {
		t.Errorf("listen() = %+v, expected game over 45/100", got)
	}
}

func TestBridgeCloseReleasesSession(t *testing.T) {
	b := newBridge()

	result := make(chan (<-chan struct{}), 1)
	go func() { result <- b.Present(session.Batch{}) }()
	msg := b.listen()().(batchMsg)
	wait := <-result

	b.Close()
	b.Close() // second close is a no-op

	select {
	case <-wait:
	case <-time.After(time.Second):
		t.Fatal("Close should release a waiting session")
	}
	if closed(msg.done) {
		t.Error("Close should not close the animator's channel")
	}

	if !closed(b.Present(session.Batch{})) {
		t.Error("Present after Close should not block")
	}
	if b.listen()() != nil {
		t.Error("listen after Close should return nil")
	}
	b.ScoreChanged(1) // must not block
}
