package workout

import (
	"math"
	"sort"
)

// Jump cue window. No cues in the first leadIn seconds of a round, and the
// final stretch is reserved for the thirty-second alert.
const (
	leadIn         = 15
	plainReserve   = 30
	burnReserve    = 35
	minCueSpacing  = 5
	maxCueAttempts = 50
	jitterFraction = 0.25
	seedMultiplier = 12345
	lcgMultiplier  = 9301
	lcgIncrement   = 49297
	lcgModulus     = 233280
	minCountBasis  = 60
)

// lcg is the linear congruential generator the cue times are drawn from.
// It must stay bit-for-bit stable: schedules are reproduced from the round
// number alone.
type lcg struct {
	seed int64
}

func newLCG(round int) *lcg {
	seed := (int64(round) * seedMultiplier) % lcgModulus
	if seed < 0 {
		seed += lcgModulus
	}
	return &lcg{seed: seed}
}

// next returns a value in [0, 1).
func (g *lcg) next() float64 {
	g.seed = (g.seed*lcgMultiplier + lcgIncrement) % lcgModulus
	return float64(g.seed) / lcgModulus
}

// Window returns the inclusive bounds, in seconds remaining, inside which
// jump cues may fire. The window is empty when hi <= lo.
func Window(activeTime int, burnAlert bool) (lo, hi int) {
	lo = plainReserve
	if burnAlert {
		lo = burnReserve
	}
	return lo, activeTime - leadIn
}

// CueCount maps an intensity and window size to the number of cues per round.
func CueCount(intensity Intensity, windowSize int) int {
	basis := windowSize
	if basis < minCountBasis {
		basis = minCountBasis
	}
	switch intensity {
	case IntensityLow:
		return clampInt(basis/120, 1, 2)
	case IntensityHigh:
		return clampInt(basis/40, 3, 6)
	default:
		return clampInt(basis/60, 2, 4)
	}
}

// JumpTimes returns the seconds-remaining values at which jump cues fire in
// the given 1-based round, sorted descending. The result depends only on its
// arguments.
func JumpTimes(round, activeTime int, intensity Intensity, burnAlert bool) []int {
	lo, hi := Window(activeTime, burnAlert)
	if hi <= lo {
		return nil
	}

	count := CueCount(intensity, hi-lo)
	width := float64(hi-lo) / float64(count+1)
	rng := newLCG(round)

	times := make([]int, 0, count)
	for i := 1; i <= count; i++ {
		anchor := float64(lo) + float64(i)*width

		best, bestGap := lo, -1
		for attempt := 0; attempt < maxCueAttempts; attempt++ {
			offset := (rng.next()*2 - 1) * jitterFraction * width
			t := clampInt(int(math.Floor(anchor+offset)), lo, hi)
			gap := nearestGap(times, t)
			if gap > bestGap {
				best, bestGap = t, gap
			}
			if gap >= minCueSpacing {
				break
			}
		}
		if bestGap == 0 {
			continue
		}
		times = append(times, best)
	}

	sort.Sort(sort.Reverse(sort.IntSlice(times)))
	return times
}

func nearestGap(times []int, t int) int {
	gap := math.MaxInt
	for _, existing := range times {
		d := existing - t
		if d < 0 {
			d = -d
		}
		if d < gap {
			gap = d
		}
	}
	return gap
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Schedule maps a 1-based round number to its jump cue times.
type Schedule map[int][]int

// BuildSchedule computes jump cue times for rounds 1..Cycles.
func BuildSchedule(s Settings) Schedule {
	sched := make(Schedule, s.Cycles)
	for round := 1; round <= s.Cycles; round++ {
		sched[round] = JumpTimes(round, s.ActiveTime, s.JumpIntensity, s.ThirtySecondAlert)
	}
	return sched
}

// Fires reports whether a jump cue is scheduled at remaining seconds in round.
func (s Schedule) Fires(round, remaining int) bool {
	for _, t := range s[round] {
		if t == remaining {
			return true
		}
	}
	return false
}

// Round returns a copy of the cue times for round.
func (s Schedule) Round(round int) []int {
	return append([]int(nil), s[round]...)
}

// Rounds returns the scheduled round numbers in ascending order.
func (s Schedule) Rounds() []int {
	rounds := make([]int, 0, len(s))
	for r := range s {
		rounds = append(rounds, r)
	}
	sort.Ints(rounds)
	return rounds
}

func (s Schedule) clone() Schedule {
	out := make(Schedule, len(s))
	for r, times := range s {
		out[r] = append([]int(nil), times...)
	}
	return out
}
