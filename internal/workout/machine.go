package workout

import (
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const thirtySecondMark = 30

// Machine is the workout state machine. It owns the session state and is
// not safe for concurrent use; callers serialize access (see runner.Runner).
// Transitions never perform I/O. Tick returns the effects for the caller to
// carry out.
type Machine struct {
	settings Settings

	phase       Phase
	resumePhase Phase
	clock       Clock
	round       int // 0-based
	cycles      int // rounds in the current session

	schedule    Schedule
	scheduleFor scheduleKey

	startedAt time.Time
	now       func() time.Time
	newID     func() string
	log       zerolog.Logger
}

// Option configures a Machine.
type Option func(*Machine)

// WithClock overrides the wall clock used to time completed workouts.
func WithClock(now func() time.Time) Option {
	return func(m *Machine) { m.now = now }
}

// WithIDGenerator overrides how history record ids are generated.
func WithIDGenerator(newID func() string) Option {
	return func(m *Machine) { m.newID = newID }
}

func WithLogger(log zerolog.Logger) Option {
	return func(m *Machine) { m.log = log }
}

// NewMachine returns an idle machine with normalized settings s.
func NewMachine(s Settings, opts ...Option) *Machine {
	m := &Machine{
		settings: s.Normalize(),
		phase:    PhaseIdle,
		now:      time.Now,
		newID:    uuid.NewString,
		log:      zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.log = m.log.With().Str("component", "workout").Logger()
	m.cycles = m.settings.Cycles
	m.refreshSchedule()
	return m
}

// Start begins a new session from idle or completed, or resumes a paused
// one. It reports whether the phase changed.
func (m *Machine) Start() bool {
	switch {
	case m.phase.Startable():
		m.refreshSchedule()
		m.cycles = m.settings.Cycles
		m.phase = PhasePrepare
		m.resumePhase = PhaseIdle
		m.round = 0
		m.clock.Reset(PrepareTime)
		m.startedAt = m.now()
		return true
	case m.phase == PhasePaused:
		m.phase = m.resumePhase
		if !m.phase.Running() {
			m.phase = inferPhase(m.clock.Remaining(), m.round, m.settings)
		}
		m.resumePhase = PhaseIdle
		return true
	}
	return false
}

// inferPhase guesses the running phase from the countdown. Only used when
// the pre-pause phase was lost.
func inferPhase(remaining, round int, s Settings) Phase {
	switch {
	case round == 0 && remaining <= PrepareTime:
		return PhasePrepare
	case remaining <= s.ActiveTime:
		return PhaseActive
	default:
		return PhaseRest
	}
}

// Pause freezes a running session. It reports whether the phase changed.
func (m *Machine) Pause() bool {
	if !m.phase.Running() {
		return false
	}
	m.resumePhase = m.phase
	m.phase = PhasePaused
	return true
}

// Reset returns to idle from any phase.
func (m *Machine) Reset() {
	m.phase = PhaseIdle
	m.resumePhase = PhaseIdle
	m.round = 0
	m.clock.Reset(0)
	m.cycles = m.settings.Cycles
	m.refreshSchedule()
}

// UpdateSettings merges p into the current settings and returns the result.
// The round count and cue schedule only change while no session is in
// progress; a running session keeps the ones it started with.
func (m *Machine) UpdateSettings(p Patch) Settings {
	m.settings = m.settings.Apply(p)
	if m.phase.Startable() {
		m.cycles = m.settings.Cycles
		m.refreshSchedule()
	}
	return m.settings
}

func (m *Machine) refreshSchedule() {
	key := m.settings.scheduleKey()
	if m.schedule != nil && key == m.scheduleFor {
		return
	}
	m.schedule = BuildSchedule(m.settings)
	m.scheduleFor = key
}

// Tick advances the session by one second. Cues are evaluated against the
// remaining time before the decrement; on expiry the machine moves to the
// next phase. Ticks outside prepare, active and rest do nothing.
func (m *Machine) Tick() []Effect {
	if _, known := phaseNames[m.phase]; !known {
		m.log.Error().Int("phase", int(m.phase)).Msg("unknown phase, resetting to idle")
		m.Reset()
		return nil
	}
	if !m.phase.Running() {
		return nil
	}

	remaining := m.clock.Remaining()
	effects := m.cues(remaining)
	if !m.clock.Tick() {
		return effects
	}
	return append(effects, m.advance()...)
}

func (m *Machine) cues(remaining int) []Effect {
	var effects []Effect
	if m.phase == PhaseActive {
		if remaining == m.halfwayMark() {
			effects = append(effects, PlayCue{Name: CueHalfway})
		}
		if m.settings.ThirtySecondAlert && remaining == thirtySecondMark {
			effects = append(effects, PlayCue{Name: CueThirtySecond, Volume: thirtySecondVolume})
		}
		if m.settings.JumpAlert && m.schedule.Fires(m.round+1, remaining) {
			effects = append(effects, PlayCue{Name: CueJump, Volume: jumpVolume})
		}
	}
	if remaining >= 1 && remaining <= 3 {
		effects = append(effects, PlayCue{Name: CueCountdown})
	}
	return effects
}

// halfwayMark is the midpoint of the active phase, or of the part before the
// thirty-second alert when that alert is on.
func (m *Machine) halfwayMark() int {
	if m.settings.ThirtySecondAlert {
		return (m.settings.ActiveTime + thirtySecondMark) / 2
	}
	return m.settings.ActiveTime / 2
}

func (m *Machine) advance() []Effect {
	switch m.phase {
	case PhasePrepare:
		m.phase = PhaseActive
		m.clock.Reset(m.settings.ActiveTime)
		return []Effect{PlayCue{Name: CueEnd1}}

	case PhaseActive:
		finished := m.round + 1
		effects := []Effect{PlayCue{Name: EndCue(finished)}}
		if finished < m.cycles {
			m.phase = PhaseRest
			m.clock.Reset(m.settings.RestTime)
			return effects
		}
		m.phase = PhaseCompleted
		m.clock.Reset(0)
		return append(effects, RecordHistory{Record: m.historyRecord(finished)})

	case PhaseRest:
		m.round++
		m.phase = PhaseActive
		m.clock.Reset(m.settings.ActiveTime)
		return []Effect{PlayCue{Name: CueEnd2}}
	}
	return nil
}

func (m *Machine) historyRecord(completed int) HistoryRecord {
	now := m.now()
	settings := m.settings
	settings.Cycles = m.cycles
	return HistoryRecord{
		ID:              m.newID(),
		Date:            now,
		Settings:        settings,
		CompletedRounds: completed,
		TotalTime:       now.Sub(m.startedAt).Truncate(time.Second),
	}
}

func (m *Machine) Phase() Phase       { return m.phase }
func (m *Machine) CurrentTime() int   { return m.clock.Remaining() }
func (m *Machine) CurrentRound() int  { return m.round }
func (m *Machine) TotalRounds() int   { return m.cycles }
func (m *Machine) Settings() Settings { return m.settings }
func (m *Machine) Schedule() Schedule { return m.schedule.clone() }

// Progress is the 0-100 progress through the current phase. A paused
// session reports the progress of the phase it was paused in.
func (m *Machine) Progress() float64 {
	phase := m.phase
	if phase == PhasePaused && m.resumePhase.Running() {
		phase = m.resumePhase
	}
	return Project(phase, m.clock.Remaining(), m.round, m.settings)
}

// Snapshot is a read-only copy of the session state for renderers.
type Snapshot struct {
	Phase        Phase
	PausedFrom   Phase
	CurrentTime  int
	CurrentRound int
	TotalRounds  int
	Progress     float64
	Settings     Settings
}

func (m *Machine) Snapshot() Snapshot {
	return Snapshot{
		Phase:        m.phase,
		PausedFrom:   m.resumePhase,
		CurrentTime:  m.clock.Remaining(),
		CurrentRound: m.round,
		TotalRounds:  m.cycles,
		Progress:     m.Progress(),
		Settings:     m.settings,
	}
}
