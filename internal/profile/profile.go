package profile

import (
	"sort"

	"github.com/AnyUserName/webpfit/internal/shrink"
)

// Profile is a named size budget plus search parameters.
type Profile struct {
	Name                  string
	Budget                int // maximum output bytes
	InitialQuality        int
	MinQuality            int
	MaxDimension          int
	SecondaryMaxDimension int
}

// DefaultName is used when no profile is requested.
const DefaultName = "default"

// Built-in profiles.
var profiles = map[string]Profile{
	DefaultName: {
		Name:                  DefaultName,
		Budget:                5 << 20,
		InitialQuality:        shrink.DefaultInitialQuality,
		MinQuality:            shrink.DefaultMinQuality,
		MaxDimension:          shrink.DefaultMaxDimension,
		SecondaryMaxDimension: shrink.DefaultSecondaryMaxDimension,
	},
	"web": {
		Name:                  "web",
		Budget:                1 << 20,
		InitialQuality:        82,
		MinQuality:            10,
		MaxDimension:          2560,
		SecondaryMaxDimension: 1280,
	},
	"thumbnail": {
		Name:                  "thumbnail",
		Budget:                150 << 10,
		InitialQuality:        80,
		MinQuality:            10,
		MaxDimension:          1024,
		SecondaryMaxDimension: 512,
	},
}

// Get returns a profile by name. Falls back to the default profile if unknown.
func Get(name string) Profile {
	if p, ok := profiles[name]; ok {
		return p
	}
	p := profiles[DefaultName]
	p.Name = name // preserve requested name
	return p
}

// Lookup returns a profile by name and whether it is built in.
func Lookup(name string) (Profile, bool) {
	p, ok := profiles[name]
	return p, ok
}

// Names returns the built-in profile names, sorted.
func Names() []string {
	names := make([]string, 0, len(profiles))
	for n := range profiles {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Options converts the profile into search options with the default quality
// schedule.
func (p Profile) Options() shrink.Options {
	opts := shrink.DefaultOptions()
	opts.InitialQuality = p.InitialQuality
	opts.MinQuality = p.MinQuality
	opts.MaxDimension = p.MaxDimension
	opts.SecondaryMaxDimension = p.SecondaryMaxDimension
	return opts
}
