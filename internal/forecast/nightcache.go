package forecast

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/maypok86/otter/v2"

	"github.com/litescript/ls-nightwatch/internal/astro"
	"github.com/litescript/ls-nightwatch/internal/sky"
)

const (
	// NightCacheSize bounds the number of memoized night envelopes.
	NightCacheSize = 4096

	// NightCacheTTL is how long a night envelope stays cached. Envelopes are
	// deterministic, so the TTL only bounds memory held by a long-lived server.
	NightCacheTTL = 6 * time.Hour
)

// NightCache memoizes sky.ComputeNightInfo per (date, location). It is safe
// for concurrent use.
type NightCache struct {
	cache  *otter.Cache[string, sky.NightInfo]
	hits   atomic.Int64
	misses atomic.Int64
}

// NewNightCache creates an empty cache.
func NewNightCache() *NightCache {
	return &NightCache{
		cache: otter.Must(&otter.Options[string, sky.NightInfo]{
			MaximumSize:      NightCacheSize,
			ExpiryCalculator: otter.ExpiryWriting[string, sky.NightInfo](NightCacheTTL),
		}),
	}
}

// nightKey identifies a night by its local date (including zone offset) and
// the observer position to the precision that affects the envelope.
func nightKey(date time.Time, obs astro.Observer) string {
	return fmt.Sprintf("%s|%.4f|%.4f|%.0f", date.Format(time.RFC3339), obs.LatDeg, obs.LonDeg, obs.ElevationM)
}

// Get returns the envelope for date at obs, computing it on a miss.
func (c *NightCache) Get(date time.Time, obs astro.Observer) (sky.NightInfo, error) {
	key := nightKey(date, obs)
	if night, ok := c.cache.GetIfPresent(key); ok {
		c.hits.Add(1)
		return night, nil
	}
	c.misses.Add(1)

	night, err := sky.ComputeNightInfo(date, obs)
	if err != nil {
		return sky.NightInfo{}, err
	}
	c.cache.Set(key, night)
	return night, nil
}

// Stats returns the hit and miss counts since creation.
func (c *NightCache) Stats() (hits, misses int64) {
	return c.hits.Load(), c.misses.Load()
}
