package web

import (
	"time"

	"github.com/puzpuzpuz/xsync/v3"
)

// TimeZoneConverter renders stored UTC instants in a user's zone. Location
// lookups hit the tzdata file on disk, so resolved zones are cached.
type TimeZoneConverter struct {
	locations *xsync.MapOf[string, *time.Location]
}

// NewTimeZoneConverter builds a converter with an empty location cache.
func NewTimeZoneConverter() *TimeZoneConverter {
	return &TimeZoneConverter{locations: xsync.NewMapOf[string, *time.Location]()}
}

// Convert shifts t into the named IANA zone, keeping UTC when the name is
// empty or unknown.
func (c *TimeZoneConverter) Convert(t time.Time, zone string) time.Time {
	loc, ok := c.location(zone)
	if !ok {
		return t.UTC()
	}
	return t.In(loc)
}

// Offset returns the zone's UTC offset at the given instant, like "-05:00".
func (c *TimeZoneConverter) Offset(t time.Time, zone string) string {
	return c.Convert(t, zone).Format("-07:00")
}

// IsValidZone reports whether the name resolves to an IANA zone.
func (c *TimeZoneConverter) IsValidZone(zone string) bool {
	_, ok := c.location(zone)
	return ok
}

func (c *TimeZoneConverter) location(zone string) (*time.Location, bool) {
	if zone == "" {
		return nil, false
	}
	loc, ok := c.locations.Load(zone)
	if !ok {
		parsed, err := time.LoadLocation(zone)
		if err != nil {
			return nil, false
		}
		loc, _ = c.locations.LoadOrStore(zone, parsed)
	}
	return loc, true
}
