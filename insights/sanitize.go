package insights

import (
	"strings"

	"goalwise/api/models"
)

// Sanitize validates and coerces a parsed model response into the shape
// the requesting tier expects. A shape mismatch is not an error: it
// yields nil, meaning the output could not be trusted for this tier and
// nothing is shown or cached.
func Sanitize(value any, plan models.SubscriptionPlan) *models.InsightPayload {
	if plan == models.PlanPremium {
		return sanitizeCoaching(value)
	}
	return sanitizeTips(value)
}

func sanitizeCoaching(value any) *models.InsightPayload {
	obj, ok := value.(map[string]any)
	if !ok {
		return nil
	}

	summary, ok := obj["summary"].(string)
	if !ok || strings.TrimSpace(summary) == "" {
		return nil
	}
	if !truthy(obj["actionItems"]) || !truthy(obj["nextSteps"]) {
		return nil
	}

	return &models.InsightPayload{
		Kind:        models.InsightKindCoaching,
		Summary:     strings.TrimSpace(summary),
		ActionItems: stringList(obj["actionItems"]),
		NextSteps:   stringList(obj["nextSteps"]),
	}
}

func sanitizeTips(value any) *models.InsightPayload {
	arr, ok := value.([]any)
	if !ok {
		return nil
	}

	tips := make([]string, 0, len(arr))
	for _, entry := range arr {
		obj, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		tip, ok := obj["tip"].(string)
		if !ok {
			continue
		}
		tip = strings.TrimSpace(tip)
		if tip == "" {
			continue
		}
		tips = append(tips, tip)
	}

	return &models.InsightPayload{Kind: models.InsightKindTips, Tips: tips}
}

// stringList coerces a decoded JSON value into trimmed strings; anything
// that is not an array yields an empty list.
func stringList(value any) []string {
	arr, ok := value.([]any)
	if !ok {
		return []string{}
	}
	out := make([]string, 0, len(arr))
	for _, entry := range arr {
		s, ok := entry.(string)
		if !ok {
			continue
		}
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		out = append(out, s)
	}
	return out
}

// truthy mirrors the loose presence check the UI applies to model output.
func truthy(value any) bool {
	switch v := value.(type) {
	case nil:
		return false
	case bool:
		return v
	case string:
		return v != ""
	case float64:
		return v != 0
	default:
		return true
	}
}
