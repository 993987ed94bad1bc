package audio

import (
	"io"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/sadopc/warrior/internal/workout"
)

// DefaultVolume is used when a cue does not ask for its own volume.
const DefaultVolume = 0.7

// Sink plays named cues. Play must return promptly; failures are the
// sink's own business.
type Sink interface {
	Play(name string, volume float64)
}

// Func adapts a function to a Sink.
type Func func(name string, volume float64)

func (f Func) Play(name string, volume float64) { f(name, volume) }

// Multi plays every cue on each sink in order.
type Multi []Sink

func (m Multi) Play(name string, volume float64) {
	for _, s := range m {
		if s != nil {
			s.Play(name, volume)
		}
	}
}

// Cue is a played cue as seen by queue and recorder sinks.
type Cue struct {
	Name   string
	Volume float64
	At     time.Time
}

// bells is how many terminal bells each cue rings.
var bells = map[string]int{
	workout.CueEnd1:         1,
	workout.CueEnd2:         2,
	workout.CueEnd3:         3,
	workout.CueCountdown:    1,
	workout.CueHalfway:      2,
	workout.CueThirtySecond: 3,
	workout.CueJump:         1,
}

// Player rings the terminal bell for each cue. It holds a master volume and
// an enabled flag; a cue at zero effective volume is silent.
type Player struct {
	mu      sync.Mutex
	out     io.Writer
	volume  float64
	enabled bool
	log     zerolog.Logger
}

func NewPlayer(out io.Writer, log zerolog.Logger) *Player {
	return &Player{
		out:     out,
		volume:  DefaultVolume,
		enabled: true,
		log:     log.With().Str("component", "audio").Logger(),
	}
}

func (p *Player) Play(name string, volume float64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.enabled || p.out == nil {
		return
	}
	count, ok := bells[name]
	if !ok {
		p.log.Debug().Str("cue", name).Msg("unknown cue")
		return
	}
	if volume <= 0 {
		volume = p.volume
	}
	if volume <= 0 {
		return
	}
	if _, err := io.WriteString(p.out, strings.Repeat("\a", count)); err != nil {
		p.log.Warn().Err(err).Str("cue", name).Msg("play cue")
		return
	}
	p.log.Debug().Str("cue", name).Float64("volume", volume).Msg("cue played")
}

// SetVolume sets the master volume, clamped to [0,1].
func (p *Player) SetVolume(v float64) {
	if v < 0 {
		v = 0
	}
	if v > 1 {
		v = 1
	}
	p.mu.Lock()
	p.volume = v
	p.mu.Unlock()
}

func (p *Player) Volume() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.volume
}

func (p *Player) SetEnabled(enabled bool) {
	p.mu.Lock()
	p.enabled = enabled
	p.mu.Unlock()
}

func (p *Player) Enabled() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.enabled
}

// Queue hands cues to a consumer over a buffered channel. When the buffer
// is full the cue is dropped rather than blocking the caller.
type Queue struct {
	ch chan Cue
}

func NewQueue(size int) *Queue {
	if size <= 0 {
		size = 1
	}
	return &Queue{ch: make(chan Cue, size)}
}

func (q *Queue) Play(name string, volume float64) {
	select {
	case q.ch <- Cue{Name: name, Volume: volume, At: time.Now()}:
	default:
	}
}

// C returns the channel cues are delivered on.
func (q *Queue) C() <-chan Cue {
	return q.ch
}

// Recorder keeps every cue it is asked to play.
type Recorder struct {
	mu   sync.Mutex
	cues []Cue
}

func (r *Recorder) Play(name string, volume float64) {
	r.mu.Lock()
	r.cues = append(r.cues, Cue{Name: name, Volume: volume, At: time.Now()})
	r.mu.Unlock()
}

func (r *Recorder) Cues() []Cue {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Cue(nil), r.cues...)
}

func (r *Recorder) Names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	names := make([]string, len(r.cues))
	for i, c := range r.cues {
		names[i] = c.Name
	}
	return names
}
