package cli

import (
	"fmt"

	"github.com/sadopc/warrior/internal/workout"
	"github.com/spf13/pflag"
)

// settingsFlags are the workout overrides shared by run, schedule,
// preset save and settings set. Only flags the user changed end up in the
// patch.
type settingsFlags struct {
	active    string
	rest      string
	cycles    int
	intensity string
	thirty    bool
	jump      bool
}

func (f *settingsFlags) register(fs *pflag.FlagSet) {
	fs.StringVar(&f.active, "active", "", "active time (mm:ss or seconds)")
	fs.StringVar(&f.rest, "rest", "", "rest time (mm:ss or seconds)")
	fs.IntVar(&f.cycles, "cycles", 0, "number of rounds")
	fs.StringVar(&f.intensity, "intensity", "", "jump intensity: low, medium or high")
	fs.BoolVar(&f.thirty, "thirty-second", true, "play the thirty-second alert")
	fs.BoolVar(&f.jump, "jump", true, "play jump cues")
}

func (f *settingsFlags) patch(fs *pflag.FlagSet) (workout.Patch, error) {
	var p workout.Patch
	if fs.Changed("active") {
		secs, err := workout.ParseClock(f.active)
		if err != nil {
			return p, fmt.Errorf("--active: %w", err)
		}
		p.ActiveTime = &secs
	}
	if fs.Changed("rest") {
		secs, err := workout.ParseClock(f.rest)
		if err != nil {
			return p, fmt.Errorf("--rest: %w", err)
		}
		p.RestTime = &secs
	}
	if fs.Changed("cycles") {
		cycles := f.cycles
		p.Cycles = &cycles
	}
	if fs.Changed("intensity") {
		in, err := workout.ParseIntensity(f.intensity)
		if err != nil {
			return p, fmt.Errorf("--intensity: %w", err)
		}
		p.JumpIntensity = &in
	}
	if fs.Changed("thirty-second") {
		v := f.thirty
		p.ThirtySecondAlert = &v
	}
	if fs.Changed("jump") {
		v := f.jump
		p.JumpAlert = &v
	}
	return p, nil
}
