package models

import (
	"encoding/json"
	"time"
)

type InsightKind string

const (
	InsightKindTips     InsightKind = "tips"
	InsightKindCoaching InsightKind = "coaching"
)

// InsightPayload is the tier-shaped result of a successful generation:
// a list of short tips for growth users, or a coaching summary with
// action items for premium users. insights.Sanitize is the single
// construction point; a payload whose shape does not match the
// requesting tier never gets built.
type InsightPayload struct {
	Kind        InsightKind `json:"-" bson:"kind"`
	Tips        []string    `json:"-" bson:"tips,omitempty"`
	Summary     string      `json:"-" bson:"summary,omitempty"`
	ActionItems []string    `json:"-" bson:"action_items,omitempty"`
	NextSteps   []string    `json:"-" bson:"next_steps,omitempty"`
}

func (p *InsightPayload) MarshalJSON() ([]byte, error) {
	switch p.Kind {
	case InsightKindTips:
		return json.Marshal(struct {
			Tips []string `json:"tips"`
		}{Tips: p.Tips})
	case InsightKindCoaching:
		return json.Marshal(struct {
			Summary     string   `json:"summary"`
			ActionItems []string `json:"actionItems"`
			NextSteps   []string `json:"nextSteps"`
		}{
			Summary:     p.Summary,
			ActionItems: p.ActionItems,
			NextSteps:   p.NextSteps,
		})
	}
	return []byte("null"), nil
}

// InsightRecord is the per-user insight cache entry. One record per
// user, replaced wholesale on every regeneration (last write wins).
type InsightRecord struct {
	UserID      string          `json:"user_id" bson:"user_id"`
	Insights    *InsightPayload `json:"insights" bson:"insights"`
	DataHash    string          `json:"data_hash" bson:"data_hash"`
	LastUpdated time.Time       `json:"last_updated" bson:"last_updated"`
}
