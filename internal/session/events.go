package session

// Listener receives session events. Calls happen on the goroutine driving
// the session, never while the session holds its lock, so a listener may
// call back into the session.
type Listener interface {
	ScoreChanged(score int)
	GameOver(final, high int)
}

// ListenerFuncs adapts plain functions to Listener; nil fields are skipped.
type ListenerFuncs struct {
	OnScore    func(score int)
	OnGameOver func(final, high int)
}

// ScoreChanged implements Listener.
func (l ListenerFuncs) ScoreChanged(score int) {
	if l.OnScore != nil {
		l.OnScore(score)
	}
}

// GameOver implements Listener.
func (l ListenerFuncs) GameOver(final, high int) {
	if l.OnGameOver != nil {
		l.OnGameOver(final, high)
	}
}

// RunSummary describes a finished session.
type RunSummary struct {
	Score      int
	Moves      int
	MaxCascade int
	Reason     EndReason
	Seed       int64
}

// ScoreBook persists results. HighScore is read before Record stores the
// finished run.
type ScoreBook interface {
	HighScore() (int, error)
	Record(run RunSummary) error
}
