package audio

import (
	"bytes"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sadopc/warrior/internal/workout"
)

func TestPlayerRingsBells(t *testing.T) {
	var buf bytes.Buffer
	p := NewPlayer(&buf, zerolog.Nop())

	p.Play(workout.CueEnd3, 0)
	assert.Equal(t, "\a\a\a", buf.String())

	buf.Reset()
	p.Play(workout.CueJump, 0.6)
	assert.Equal(t, "\a", buf.String())
}

func TestPlayerEveryCueKnown(t *testing.T) {
	for _, name := range workout.CueNames {
		var buf bytes.Buffer
		NewPlayer(&buf, zerolog.Nop()).Play(name, 0)
		assert.NotEmpty(t, buf.String(), name)
	}
}

func TestPlayerIgnoresUnknownCue(t *testing.T) {
	var buf bytes.Buffer
	NewPlayer(&buf, zerolog.Nop()).Play("kazoo", 0)
	assert.Empty(t, buf.String())
}

func TestPlayerDisabled(t *testing.T) {
	var buf bytes.Buffer
	p := NewPlayer(&buf, zerolog.Nop())
	p.SetEnabled(false)
	assert.False(t, p.Enabled())

	p.Play(workout.CueHalfway, 0)
	assert.Empty(t, buf.String())
}

func TestPlayerVolume(t *testing.T) {
	var buf bytes.Buffer
	p := NewPlayer(&buf, zerolog.Nop())
	assert.Equal(t, DefaultVolume, p.Volume())

	p.SetVolume(2)
	assert.Equal(t, 1.0, p.Volume())
	p.SetVolume(-1)
	assert.Equal(t, 0.0, p.Volume())

	p.Play(workout.CueHalfway, 0)
	assert.Empty(t, buf.String(), "muted master volume silences default-volume cues")

	p.Play(workout.CueJump, 0.6)
	assert.Equal(t, "\a", buf.String(), "an explicit cue volume overrides the master volume")
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("tty gone") }

func TestPlayerSwallowsWriteErrors(t *testing.T) {
	p := NewPlayer(failingWriter{}, zerolog.Nop())
	assert.NotPanics(t, func() { p.Play(workout.CueEnd1, 0) })
}

func TestQueueDropsWhenFull(t *testing.T) {
	q := NewQueue(2)
	q.Play("a", 0)
	q.Play("b", 0.5)
	q.Play("c", 0)

	require.Len(t, q.C(), 2)
	first := <-q.C()
	second := <-q.C()
	assert.Equal(t, "a", first.Name)
	assert.Equal(t, "b", second.Name)
	assert.Equal(t, 0.5, second.Volume)
}

func TestMultiAndFunc(t *testing.T) {
	rec := &Recorder{}
	var got []string
	m := Multi{rec, nil, Func(func(name string, _ float64) { got = append(got, name) })}

	m.Play(workout.CueHalfway, 0)
	m.Play(workout.CueJump, 0.6)

	assert.Equal(t, []string{workout.CueHalfway, workout.CueJump}, rec.Names())
	assert.Equal(t, []string{workout.CueHalfway, workout.CueJump}, got)
	assert.Equal(t, 0.6, rec.Cues()[1].Volume)
}
