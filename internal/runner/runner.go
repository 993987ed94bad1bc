// Package runner drives a workout.Machine with a single ticker and carries
// out the effects each tick produces.
package runner

import (
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/sadopc/warrior/internal/audio"
	"github.com/sadopc/warrior/internal/workout"
)

// SettingsStore loads and saves the workout settings record.
type SettingsStore interface {
	LoadSettings() (workout.Settings, bool, error)
	SaveSettings(workout.Settings) error
}

// HistoryStore records completed workouts.
type HistoryStore interface {
	AppendHistory(workout.HistoryRecord) error
}

// Config contains runtime options for a Runner.
type Config struct {
	TickInterval time.Duration
	// QueueSize bounds the pending cue and persistence queues.
	QueueSize int
}

type Option func(*Runner)

func WithSettingsStore(s SettingsStore) Option {
	return func(r *Runner) { r.settings = s }
}

func WithHistoryStore(h HistoryStore) Option {
	return func(r *Runner) { r.history = h }
}

func WithSink(s audio.Sink) Option {
	return func(r *Runner) { r.sink = s }
}

func WithLogger(log zerolog.Logger) Option {
	return func(r *Runner) { r.log = log }
}

// WithMachineOptions passes options through to the underlying machine.
func WithMachineOptions(opts ...workout.Option) Option {
	return func(r *Runner) { r.machineOpts = append(r.machineOpts, opts...) }
}

type job struct {
	op  string
	run func() error
}

// Runner owns a Machine and the one goroutine allowed to tick it. All
// methods are safe for concurrent use.
type Runner struct {
	mu          sync.Mutex
	options     Config
	machine     *workout.Machine
	machineOpts []workout.Option
	settings    SettingsStore
	history     HistoryStore
	sink        audio.Sink
	log         zerolog.Logger

	stopCh chan struct{} // nil while no driver runs
	subs   []chan workout.Snapshot
	cues   chan workout.PlayCue
	jobs   chan job
	closed bool
	wg     sync.WaitGroup
}

// New builds a Runner. Settings come from the settings store when one is
// configured and holds a record, otherwise the defaults are used.
func New(options Config, opts ...Option) *Runner {
	if options.TickInterval <= 0 {
		options.TickInterval = time.Second
	}
	if options.QueueSize <= 0 {
		options.QueueSize = 64
	}

	r := &Runner{
		options: options,
		log:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	base := r.log
	r.log = base.With().Str("component", "runner").Logger()

	machineOpts := append([]workout.Option{workout.WithLogger(base)}, r.machineOpts...)
	r.machine = workout.NewMachine(r.loadSettings(), machineOpts...)
	r.cues = make(chan workout.PlayCue, options.QueueSize)
	r.jobs = make(chan job, options.QueueSize)

	r.wg.Add(2)
	go r.playCues()
	go r.persist()
	return r
}

func (r *Runner) loadSettings() workout.Settings {
	if r.settings == nil {
		return workout.DefaultSettings()
	}
	s, ok, err := r.settings.LoadSettings()
	if err != nil {
		r.log.Warn().Err(err).Msg("load settings, using defaults")
		return workout.DefaultSettings()
	}
	if !ok {
		return workout.DefaultSettings()
	}
	return s
}

// Start begins or resumes a session and makes sure exactly one driver is
// ticking. It reports whether the phase changed.
func (r *Runner) Start() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return false
	}

	changed := r.machine.Start()
	if r.machine.Phase().Running() && r.stopCh == nil {
		r.stopCh = make(chan struct{})
		go r.drive(r.stopCh)
	}
	if changed {
		r.log.Info().Str("phase", r.machine.Phase().String()).Msg("session started")
		r.publishLocked()
	}
	return changed
}

// Pause stops the driver before returning; no tick lands after it.
func (r *Runner) Pause() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	changed := r.machine.Pause()
	r.haltLocked()
	if changed {
		r.log.Info().Int("remaining", r.machine.CurrentTime()).Msg("session paused")
		r.publishLocked()
	}
	return changed
}

// Reset stops the driver and returns the machine to idle. No history is
// written for an aborted session.
func (r *Runner) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.haltLocked()
	r.machine.Reset()
	r.publishLocked()
}

// UpdateSettings applies p and queues the merged settings for saving.
func (r *Runner) UpdateSettings(p workout.Patch) workout.Settings {
	r.mu.Lock()
	defer r.mu.Unlock()

	s := r.machine.UpdateSettings(p)
	if r.settings != nil {
		store := r.settings
		r.enqueueLocked(job{op: "save settings", run: func() error { return store.SaveSettings(s) }})
	}
	r.publishLocked()
	return s
}

// Snapshot returns the current session state.
func (r *Runner) Snapshot() workout.Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.machine.Snapshot()
}

// Schedule returns the cue schedule the machine is using.
func (r *Runner) Schedule() workout.Schedule {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.machine.Schedule()
}

// Subscribe registers an observer that receives a snapshot after every tick
// and control action. Slow observers miss snapshots instead of blocking.
func (r *Runner) Subscribe(buffer int) <-chan workout.Snapshot {
	if buffer <= 0 {
		buffer = 1
	}
	ch := make(chan workout.Snapshot, buffer)
	r.mu.Lock()
	if r.closed {
		close(ch)
	} else {
		r.subs = append(r.subs, ch)
	}
	r.mu.Unlock()
	return ch
}

// Close stops the driver, closes subscriptions and waits for queued cues
// and writes to finish.
func (r *Runner) Close() {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	r.closed = true
	r.haltLocked()
	for _, ch := range r.subs {
		close(ch)
	}
	r.subs = nil
	close(r.cues)
	close(r.jobs)
	r.mu.Unlock()

	r.wg.Wait()
}

func (r *Runner) drive(stop chan struct{}) {
	ticker := time.NewTicker(r.options.TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			if !r.tick(stop) {
				return
			}
		}
	}
}

func (r *Runner) tick(stop chan struct{}) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	// A driver that lost the lock race to Pause or Reset must not tick.
	if r.stopCh != stop {
		return false
	}
	r.performLocked(r.machine.Tick())
	r.publishLocked()

	if !r.machine.Phase().Running() {
		r.haltLocked()
		return false
	}
	return true
}

func (r *Runner) haltLocked() {
	if r.stopCh != nil {
		close(r.stopCh)
		r.stopCh = nil
	}
}

func (r *Runner) performLocked(effects []workout.Effect) {
	for _, e := range effects {
		switch e := e.(type) {
		case workout.PlayCue:
			if r.sink == nil {
				continue
			}
			select {
			case r.cues <- e:
			default:
				r.log.Warn().Str("cue", e.Name).Msg("cue queue full, dropping cue")
			}
		case workout.RecordHistory:
			rec := e.Record
			r.log.Info().
				Str("id", rec.ID).
				Int("rounds", rec.CompletedRounds).
				Dur("total", rec.TotalTime).
				Msg("workout completed")
			if r.history != nil {
				history := r.history
				r.enqueueLocked(job{op: "append history", run: func() error { return history.AppendHistory(rec) }})
			}
		}
	}
}

func (r *Runner) enqueueLocked(j job) {
	if r.closed {
		return
	}
	select {
	case r.jobs <- j:
	default:
		r.log.Warn().Str("op", j.op).Msg("persistence queue full, dropping write")
	}
}

func (r *Runner) publishLocked() {
	snap := r.machine.Snapshot()
	for _, ch := range r.subs {
		select {
		case ch <- snap:
		default:
		}
	}
}

func (r *Runner) playCues() {
	defer r.wg.Done()
	for c := range r.cues {
		r.play(c)
	}
}

func (r *Runner) play(c workout.PlayCue) {
	defer func() {
		if v := recover(); v != nil {
			r.log.Warn().Interface("panic", v).Str("cue", c.Name).Msg("cue sink panicked")
		}
	}()
	r.sink.Play(c.Name, c.Volume)
}

func (r *Runner) persist() {
	defer r.wg.Done()
	for j := range r.jobs {
		if err := j.run(); err != nil {
			r.log.Warn().Err(err).Str("op", j.op).Msg("persistence failed")
		}
	}
}
