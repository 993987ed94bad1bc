package workout

// Phase is the current stage of a session. Exactly one is current.
type Phase int

const (
	PhaseIdle Phase = iota
	PhasePrepare
	PhaseActive
	PhaseRest
	PhasePaused
	PhaseCompleted
)

var phaseNames = map[Phase]string{
	PhaseIdle:      "idle",
	PhasePrepare:   "prepare",
	PhaseActive:    "active",
	PhaseRest:      "rest",
	PhasePaused:    "paused",
	PhaseCompleted: "completed",
}

func (p Phase) String() string {
	if name, ok := phaseNames[p]; ok {
		return name
	}
	return "unknown"
}

// Running reports whether the phase advances on tick.
func (p Phase) Running() bool {
	return p == PhasePrepare || p == PhaseActive || p == PhaseRest
}

// Startable reports whether start begins a new session from this phase.
func (p Phase) Startable() bool {
	return p == PhaseIdle || p == PhaseCompleted
}
