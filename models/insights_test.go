package models

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestInsightPayloadMarshalTips(t *testing.T) {
	payload := &InsightPayload{
		Kind: InsightKindTips,
		Tips: []string{"Pay off the card", "Build a buffer"},
	}

	data, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("Marshal returned error: %v", err)
	}
	want := `{"tips":["Pay off the card","Build a buffer"]}`
	if string(data) != want {
		t.Fatalf("got %s, want %s", data, want)
	}
}

func TestInsightPayloadMarshalCoaching(t *testing.T) {
	payload := &InsightPayload{
		Kind:        InsightKindCoaching,
		Summary:     "Solid month.",
		ActionItems: []string{"Cut dining out"},
		NextSteps:   []string{"Review goals"},
	}

	data, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("Marshal returned error: %v", err)
	}
	want := `{"summary":"Solid month.","actionItems":["Cut dining out"],"nextSteps":["Review goals"]}`
	if string(data) != want {
		t.Fatalf("got %s, want %s", data, want)
	}
}

func TestInsightRecordMarshal(t *testing.T) {
	rec := InsightRecord{
		UserID:      "u1",
		Insights:    &InsightPayload{Kind: InsightKindTips, Tips: []string{"x"}},
		DataHash:    "abc",
		LastUpdated: time.Date(2026, 8, 31, 15, 0, 0, 0, time.UTC),
	}

	data, err := json.Marshal(rec)
	if err != nil {
		t.Fatalf("Marshal returned error: %v", err)
	}
	if !strings.Contains(string(data), `"insights":{"tips":["x"]}`) {
		t.Fatalf("record should embed the tier-shaped payload, got %s", data)
	}
}
