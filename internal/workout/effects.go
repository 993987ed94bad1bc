package workout

import "time"

// Cue names understood by audio sinks.
const (
	CueEnd1         = "end1"
	CueEnd2         = "end2"
	CueEnd3         = "end3"
	CueCountdown    = "anticipation"
	CueHalfway      = "halfway"
	CueThirtySecond = "thirty_second"
	CueJump         = "jump"
)

// Cue volumes. Zero means the sink's own volume.
const (
	thirtySecondVolume = 0.4
	jumpVolume         = 0.6
)

// CueNames lists every cue a machine can request.
var CueNames = []string{CueEnd1, CueEnd2, CueEnd3, CueCountdown, CueHalfway, CueThirtySecond, CueJump}

// EndCue returns the cue played when the given 1-based round ends. Every
// third round gets end3, every other even round end2, the rest end1.
func EndCue(round int) string {
	if round%3 == 0 {
		return CueEnd3
	}
	if round%2 == 0 {
		return CueEnd2
	}
	return CueEnd1
}

// Effect is a side effect requested by a state transition. The machine
// never performs effects itself; the driver executes them after the
// transition.
type Effect interface {
	effect()
}

// PlayCue asks the audio sink to play a cue. Volume is in [0,1]; zero means
// the sink default.
type PlayCue struct {
	Name   string
	Volume float64
}

// RecordHistory asks the history store to append a completed workout.
type RecordHistory struct {
	Record HistoryRecord
}

func (PlayCue) effect()       {}
func (RecordHistory) effect() {}

// HistoryRecord describes a workout that ran to natural completion.
type HistoryRecord struct {
	ID              string
	Date            time.Time
	Settings        Settings
	CompletedRounds int
	TotalTime       time.Duration
}
