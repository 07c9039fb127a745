package session

// Phase is a state of the resolution state machine.
type Phase int

const (
	Idle Phase = iota
	Selecting
	RotationProbe
	CosmeticSpin
	Resolving
	FillingBlanks
	CascadeCheck
	HazardTick
	DeadlockCheck
	GameOver
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Selecting:
		return "selecting"
	case RotationProbe:
		return "rotation-probe"
	case CosmeticSpin:
		return "cosmetic-spin"
	case Resolving:
		return "resolving"
	case FillingBlanks:
		return "filling-blanks"
	case CascadeCheck:
		return "cascade-check"
	case HazardTick:
		return "hazard-tick"
	case DeadlockCheck:
		return "deadlock-check"
	case GameOver:
		return "game-over"
	default:
		return "unknown"
	}
}

// EndReason says why a session ended.
type EndReason string

const (
	ReasonNone     EndReason = ""
	ReasonHazard   EndReason = "hazard"
	ReasonDeadlock EndReason = "deadlock"
)
