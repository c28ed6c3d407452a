package shrink

import (
	"fmt"
	"sort"
)

// Defaults for Options.
const (
	DefaultInitialQuality        = 85
	DefaultMinQuality            = 10
	DefaultMaxDimension          = 4000
	DefaultSecondaryMaxDimension = 2000
)

// QualityStep lowers quality by Step while the current quality is above Above.
type QualityStep struct {
	Above int
	Step  int
}

// Schedule is an ordered list of quality steps. The first entry whose Above
// is below the current quality applies; if none does, the last entry's Step
// is used.
type Schedule []QualityStep

// DefaultSchedule steps quality down by 5 above 70, by 10 above 50 and by
// 15 below that.
var DefaultSchedule = Schedule{
	{Above: 70, Step: 5},
	{Above: 50, Step: 10},
	{Above: 0, Step: 15},
}

// Next returns the quality to try after q.
func (s Schedule) Next(q int) int {
	for _, st := range s {
		if q > st.Above {
			return q - st.Step
		}
	}
	return q - s[len(s)-1].Step
}

// Qualities lists every quality the search visits from initial down to floor.
func (s Schedule) Qualities(initial, floor int) []int {
	var out []int
	for q := initial; q >= floor; q = s.Next(q) {
		out = append(out, q)
	}
	return out
}

func (s Schedule) validate() error {
	if len(s) == 0 {
		return fmt.Errorf("%w: empty quality schedule", ErrInvalidOptions)
	}
	for i, st := range s {
		if st.Step <= 0 {
			return fmt.Errorf("%w: schedule[%d] step %d must be positive", ErrInvalidOptions, i, st.Step)
		}
	}
	if !sort.SliceIsSorted(s, func(i, j int) bool { return s[i].Above > s[j].Above }) {
		return fmt.Errorf("%w: schedule thresholds must be descending", ErrInvalidOptions)
	}
	return nil
}

// Options tunes the size-constrained search.
type Options struct {
	// InitialQuality is the first quality tried (1-100).
	InitialQuality int
	// MinQuality is the lowest quality tried, and the quality of the
	// fallback attempt at reduced resolution.
	MinQuality int
	// MaxDimension caps the longest side before the first attempt.
	MaxDimension int
	// SecondaryMaxDimension caps the longest side for the fallback attempt.
	SecondaryMaxDimension int
	// Schedule controls how quality decreases between attempts.
	Schedule Schedule
	// OnAttempt, if set, is called after every encode attempt.
	OnAttempt func(Attempt)
}

// DefaultOptions returns Options with the documented defaults.
func DefaultOptions() Options {
	return Options{
		InitialQuality:        DefaultInitialQuality,
		MinQuality:            DefaultMinQuality,
		MaxDimension:          DefaultMaxDimension,
		SecondaryMaxDimension: DefaultSecondaryMaxDimension,
		Schedule:              DefaultSchedule,
	}
}

// Validate checks that the options describe a usable search.
func (o Options) Validate() error {
	if o.MinQuality < 1 || o.MinQuality > 100 {
		return fmt.Errorf("%w: min quality %d out of range 1-100", ErrInvalidOptions, o.MinQuality)
	}
	if o.InitialQuality < o.MinQuality || o.InitialQuality > 100 {
		return fmt.Errorf("%w: initial quality %d out of range %d-100", ErrInvalidOptions, o.InitialQuality, o.MinQuality)
	}
	if o.MaxDimension < 1 {
		return fmt.Errorf("%w: max dimension %d", ErrInvalidOptions, o.MaxDimension)
	}
	if o.SecondaryMaxDimension < 1 {
		return fmt.Errorf("%w: secondary max dimension %d", ErrInvalidOptions, o.SecondaryMaxDimension)
	}
	return o.Schedule.validate()
}
