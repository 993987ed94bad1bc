package workout

import (
	"errors"
	"fmt"
	"strings"
)

// Intensity controls how many jump cues are scheduled per round.
type Intensity string

const (
	IntensityLow    Intensity = "low"
	IntensityMedium Intensity = "medium"
	IntensityHigh   Intensity = "high"
)

var ErrInvalidIntensity = errors.New("invalid jump intensity")

// Intensities lists every intensity in ascending order.
var Intensities = []Intensity{IntensityLow, IntensityMedium, IntensityHigh}

// ParseIntensity accepts low, medium or high in any case.
func ParseIntensity(s string) (Intensity, error) {
	switch Intensity(strings.ToLower(strings.TrimSpace(s))) {
	case IntensityLow:
		return IntensityLow, nil
	case IntensityMedium:
		return IntensityMedium, nil
	case IntensityHigh:
		return IntensityHigh, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidIntensity, s)
}

func (i Intensity) valid() bool {
	return i == IntensityLow || i == IntensityMedium || i == IntensityHigh
}

const (
	MinCycles = 1
	MaxCycles = 50

	// PrepareTime is the fixed countdown before the first round.
	PrepareTime = 10
)

// Settings is an immutable snapshot of the workout configuration.
// Durations are whole seconds.
type Settings struct {
	ActiveTime        int       `json:"activeTime"`
	RestTime          int       `json:"restTime"`
	Cycles            int       `json:"cycles"`
	ThirtySecondAlert bool      `json:"thirtySecondAlert"`
	JumpAlert         bool      `json:"jumpAlert"`
	JumpIntensity     Intensity `json:"jumpIntensity"`
}

// DefaultSettings returns 4:00 work, 1:00 rest, 10 rounds.
func DefaultSettings() Settings {
	return Settings{
		ActiveTime:        240,
		RestTime:          60,
		Cycles:            10,
		ThirtySecondAlert: true,
		JumpAlert:         true,
		JumpIntensity:     IntensityMedium,
	}
}

// Normalize clamps every field into its valid range: durations are floored
// to one second, cycles are bounded to [MinCycles, MaxCycles] and an
// unknown intensity falls back to medium.
func (s Settings) Normalize() Settings {
	if s.ActiveTime < 1 {
		s.ActiveTime = 1
	}
	if s.RestTime < 1 {
		s.RestTime = 1
	}
	if s.Cycles < MinCycles {
		s.Cycles = MinCycles
	}
	if s.Cycles > MaxCycles {
		s.Cycles = MaxCycles
	}
	if !s.JumpIntensity.valid() {
		s.JumpIntensity = IntensityMedium
	}
	return s
}

// TotalDuration is the number of ticks from start to completion.
func (s Settings) TotalDuration() int {
	return PrepareTime + s.Cycles*(s.ActiveTime+s.RestTime) - s.RestTime
}

// scheduleKey holds the fields the cue schedule depends on.
type scheduleKey struct {
	activeTime int
	cycles     int
	jumpAlert  bool
	intensity  Intensity
	burnAlert  bool
}

func (s Settings) scheduleKey() scheduleKey {
	return scheduleKey{
		activeTime: s.ActiveTime,
		cycles:     s.Cycles,
		jumpAlert:  s.JumpAlert,
		intensity:  s.JumpIntensity,
		burnAlert:  s.ThirtySecondAlert,
	}
}

// Patch is a partial settings update. Nil fields are left unchanged.
type Patch struct {
	ActiveTime        *int
	RestTime          *int
	Cycles            *int
	ThirtySecondAlert *bool
	JumpAlert         *bool
	JumpIntensity     *Intensity
}

// Apply merges p into s and normalizes the result.
func (s Settings) Apply(p Patch) Settings {
	if p.ActiveTime != nil {
		s.ActiveTime = *p.ActiveTime
	}
	if p.RestTime != nil {
		s.RestTime = *p.RestTime
	}
	if p.Cycles != nil {
		s.Cycles = *p.Cycles
	}
	if p.ThirtySecondAlert != nil {
		s.ThirtySecondAlert = *p.ThirtySecondAlert
	}
	if p.JumpAlert != nil {
		s.JumpAlert = *p.JumpAlert
	}
	if p.JumpIntensity != nil {
		s.JumpIntensity = *p.JumpIntensity
	}
	return s.Normalize()
}

// Replace builds a patch that overwrites every field with the values of s.
func Replace(s Settings) Patch {
	return Patch{
		ActiveTime:        &s.ActiveTime,
		RestTime:          &s.RestTime,
		Cycles:            &s.Cycles,
		ThirtySecondAlert: &s.ThirtySecondAlert,
		JumpAlert:         &s.JumpAlert,
		JumpIntensity:     &s.JumpIntensity,
	}
}

// Empty reports whether the patch changes nothing.
func (p Patch) Empty() bool {
	return p.ActiveTime == nil && p.RestTime == nil && p.Cycles == nil &&
		p.ThirtySecondAlert == nil && p.JumpAlert == nil && p.JumpIntensity == nil
}
