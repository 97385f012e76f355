package insights

import (
	"time"

	"goalwise/api/models"
)

// mountainZone is the fixed UTC-6 reference zone for the
// once-per-calendar-day regeneration rule.
var mountainZone = time.FixedZone("UTC-6", -6*60*60)

// MountainDate formats t as a calendar date in the reference zone.
func MountainDate(t time.Time) string {
	return t.In(mountainZone).Format("2006-01-02")
}

// Fresh reports whether a stored record can be served instead of
// regenerating: the record must exist, carry the same data hash, and
// have been written on the same Mountain calendar day as now.
func Fresh(rec *models.InsightRecord, hash string, now time.Time) bool {
	if rec == nil || rec.Insights == nil {
		return false
	}
	return rec.DataHash == hash && MountainDate(rec.LastUpdated) == MountainDate(now)
}
