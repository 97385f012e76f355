package insights

import (
	"encoding/json"
	"fmt"

	"goalwise/api/models"
)

const basicPromptFormat = `You are a budgeting assistant for the Goalwise app. Analyze the user's budget, goals and recent transactions.

Budget Items:
%s

Goals:
%s

Transactions:
%s

Return exactly three short, practical tips for allocating extra income. Prioritize paying off debt first, then building an emergency fund, then other savings or investment goals. Each tip must be at most 160 characters.

Respond with ONLY a JSON array in this exact format and nothing else:
[{"tip": "..."}, {"tip": "..."}, {"tip": "..."}]`

const coachPromptFormat = `You are a personal finance coach for the Goalwise app.%s Review the user's full financial picture.

Budget Items:
%s

Goals:
%s

Transactions:
%s

Write a personalized coaching plan. Prioritize paying off debt first, then building an emergency fund, then other savings or investment goals. Keep the whole plan under 300 words.

Respond with ONLY a JSON object in this exact format, with no markdown and no other text:
{"summary": "...", "actionItems": ["..."], "nextSteps": ["..."]}`

// BuildPrompt renders the tier template with the snapshot embedded as
// formatted JSON. Premium users get the coach template, everyone else
// the three-tip template.
func BuildPrompt(plan models.SubscriptionPlan, snapshot models.FinancialSnapshot, name string) string {
	budget := formatSection(snapshot.BudgetItems)
	goals := formatSection(snapshot.Goals)
	transactions := formatSection(snapshot.Transactions)

	if plan == models.PlanPremium {
		greeting := ""
		if name != "" {
			greeting = fmt.Sprintf(" The user's name is %s; open the summary with a brief personal greeting.", name)
		}
		return fmt.Sprintf(coachPromptFormat, greeting, budget, goals, transactions)
	}

	return fmt.Sprintf(basicPromptFormat, budget, goals, transactions)
}

func formatSection(v any) string {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "[]"
	}
	return string(data)
}
