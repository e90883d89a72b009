package logger

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSettingsWildcardOverride(t *testing.T) {
	s := NewSettings(true, nil)
	s.SetEndpointEnabled("/api/events/*", false)

	assert.False(t, s.EnabledForURI("/api/events/1"))
	assert.False(t, s.EnabledForURI("/api/events/search"))
	// The bare collection path is not covered by the wildcard.
	assert.True(t, s.EnabledForURI("/api/events"))
	assert.True(t, s.EnabledForURI("/api/users"))
}

func TestSettingsExactOverrideWinsOverWildcard(t *testing.T) {
	s := NewSettings(true, nil)
	s.SetEndpointEnabled("/api/events/*", false)
	s.SetEndpointEnabled("/api/events/special", true)

	assert.True(t, s.EnabledForURI("/api/events/special"))
	assert.False(t, s.EnabledForURI("/api/events/other"))
}

func TestSettingsGlobalFallback(t *testing.T) {
	s := NewSettings(false, nil)
	assert.False(t, s.EnabledForURI("/api/anything"))

	s.SetGlobalEnabled(true)
	assert.True(t, s.EnabledForURI("/api/anything"))

	// An override is honored even when global logging is off.
	s.SetGlobalEnabled(false)
	s.SetEndpointEnabled("/api/debug", true)
	assert.True(t, s.EnabledForURI("/api/debug"))
}

func TestSettingsSeededFromConfig(t *testing.T) {
	s := NewSettings(true, map[string]bool{"/api/events": false})
	assert.False(t, s.EnabledForURI("/api/events"))
	assert.True(t, s.EnabledForURI("/api/events/1"))
}

func TestSettingsReset(t *testing.T) {
	s := NewSettings(false, map[string]bool{"/api/events/*": false})
	s.Reset()

	assert.True(t, s.GlobalEnabled())
	assert.Empty(t, s.EndpointSettings())
	assert.True(t, s.EnabledForURI("/api/events/1"))
}

func TestSettingsConcurrentAccess(t *testing.T) {
	s := NewSettings(true, nil)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			s.SetEndpointEnabled(fmt.Sprintf("/api/p%d/*", i), i%2 == 0)
			s.SetGlobalEnabled(i%2 == 0)
		}(i)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				s.EnabledForURI(fmt.Sprintf("/api/p%d/x", i))
			}
		}(i)
	}
	wg.Wait()
}
