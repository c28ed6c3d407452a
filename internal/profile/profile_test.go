package profile

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/AnyUserName/webpfit/internal/shrink"
)

func TestDefaultProfile(t *testing.T) {
	p := Get(DefaultName)
	assert.Equal(t, 5242880, p.Budget)

	opts := p.Options()
	assert.Equal(t, 85, opts.InitialQuality)
	assert.Equal(t, 10, opts.MinQuality)
	assert.Equal(t, 4000, opts.MaxDimension)
	assert.Equal(t, 2000, opts.SecondaryMaxDimension)
	assert.Equal(t, shrink.DefaultSchedule, opts.Schedule)
}

func TestGetUnknownFallsBack(t *testing.T) {
	p := Get("nope")
	assert.Equal(t, "nope", p.Name)
	assert.Equal(t, Get(DefaultName).Budget, p.Budget)

	_, ok := Lookup("nope")
	assert.False(t, ok)
}

func TestBuiltinProfilesAreValid(t *testing.T) {
	assert.Equal(t, []string{"default", "thumbnail", "web"}, Names())
	for _, name := range Names() {
		p, ok := Lookup(name)
		assert.True(t, ok)
		assert.Positive(t, p.Budget, name)
		assert.NoError(t, p.Options().Validate(), name)
		assert.Less(t, p.SecondaryMaxDimension, p.MaxDimension, name)
	}
}
