package core

// Action represents a semantic input, abstracted from physical key presses.
type Action int

const (
	ActionNone        Action = iota
	ActionUp                 // Up arrow, K - move the cursor up a row
	ActionDown               // Down arrow, J - move the cursor down a row
	ActionLeft               // Left arrow, H - move the cursor one column left
	ActionRight              // Right arrow, L - move the cursor one column right
	ActionCycleCorner        // Tab, Space - select the next corner group around the cursor
	ActionRotateCW           // X, E - rotate the selection clockwise
	ActionRotateCCW          // Z, Q - rotate the selection counterclockwise
	ActionRestart            // R - start a new session after game over
	ActionHelp               // ? - toggle the full help view
	ActionQuit               // Ctrl+C, Esc - leave the game
)

// String returns a human-readable name for the action.
func (a Action) String() string {
	switch a {
	case ActionNone:
		return "None"
	case ActionUp:
		return "Up"
	case ActionDown:
		return "Down"
	case ActionLeft:
		return "Left"
	case ActionRight:
		return "Right"
	case ActionCycleCorner:
		return "CycleCorner"
	case ActionRotateCW:
		return "RotateCW"
	case ActionRotateCCW:
		return "RotateCCW"
	case ActionRestart:
		return "Restart"
	case ActionHelp:
		return "Help"
	case ActionQuit:
		return "Quit"
	default:
		return "Unknown"
	}
}
