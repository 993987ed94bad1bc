package workout

// Project maps a session position to a 0-100 display progress within the
// current phase. It has no side effects.
//
// For PhasePaused the running phase is guessed from currentTime: round 0
// with at most PrepareTime left reads as prepare, anything up to ActiveTime
// reads as active, the rest as rest. The guess is wrong for a rest phase
// paused with fewer seconds left than ActiveTime; Machine.Progress avoids
// this by projecting with the phase it paused from.
func Project(phase Phase, currentTime, currentRound int, s Settings) float64 {
	switch phase {
	case PhasePrepare:
		return fraction(PrepareTime, currentTime)
	case PhaseActive:
		return fraction(s.ActiveTime, currentTime)
	case PhaseRest:
		return fraction(s.RestTime, currentTime)
	case PhasePaused:
		switch {
		case currentRound == 0 && currentTime <= PrepareTime:
			return fraction(PrepareTime, currentTime)
		case currentTime <= s.ActiveTime:
			return fraction(s.ActiveTime, currentTime)
		default:
			return fraction(s.RestTime, currentTime)
		}
	}
	return 0
}

func fraction(total, remaining int) float64 {
	if total <= 0 {
		return 0
	}
	p := float64(total-remaining) / float64(total) * 100
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}
