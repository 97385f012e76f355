package insights

import (
	"testing"
	"time"

	"goalwise/api/models"
)

func TestMountainDate(t *testing.T) {
	tests := []struct {
		name string
		in   time.Time
		want string
	}{
		{"before UTC-6 midnight", time.Date(2026, 3, 1, 5, 59, 0, 0, time.UTC), "2026-02-28"},
		{"at UTC-6 midnight", time.Date(2026, 3, 1, 6, 0, 0, 0, time.UTC), "2026-03-01"},
		{"midday", time.Date(2026, 8, 15, 18, 0, 0, 0, time.UTC), "2026-08-15"},
	}

	for _, tt := range tests {
		if got := MountainDate(tt.in); got != tt.want {
			t.Errorf("%s: MountainDate(%v) = %s, want %s", tt.name, tt.in, got, tt.want)
		}
	}
}

func TestFresh(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	hash := "abc123"
	payload := &models.InsightPayload{Kind: models.InsightKindTips, Tips: []string{"x"}}

	rec := &models.InsightRecord{
		UserID:      "u1",
		Insights:    payload,
		DataHash:    hash,
		LastUpdated: now.Add(-time.Hour),
	}

	if !Fresh(rec, hash, now) {
		t.Fatal("same hash and same Mountain day should be fresh")
	}
	if Fresh(nil, hash, now) {
		t.Fatal("nil record should never be fresh")
	}
	if Fresh(&models.InsightRecord{DataHash: hash, LastUpdated: now}, hash, now) {
		t.Fatal("record without insights should never be fresh")
	}
	if Fresh(rec, "different", now) {
		t.Fatal("hash mismatch should force regeneration")
	}
}

func TestFreshCrossesMountainMidnight(t *testing.T) {
	hash := "abc123"
	payload := &models.InsightPayload{Kind: models.InsightKindTips, Tips: []string{"x"}}

	// Written 05:00 UTC (Feb 28 in UTC-6); checked 12:00 UTC the same UTC
	// day (Mar 1 in UTC-6). Only 7 hours apart but a new calendar day.
	rec := &models.InsightRecord{
		Insights:    payload,
		DataHash:    hash,
		LastUpdated: time.Date(2026, 3, 1, 5, 0, 0, 0, time.UTC),
	}
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	if Fresh(rec, hash, now) {
		t.Fatal("record from the previous Mountain calendar day should be stale")
	}
}
