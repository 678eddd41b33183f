package model

import "strings"

// Plan is an internal entitlement plan.
type Plan string

const (
	PlanFree    Plan = "free"
	PlanStarter Plan = "starter"
	PlanPro     Plan = "pro"
	PlanMax     Plan = "max"
	PlanPremium Plan = "premium"
	PlanCredits Plan = "credits"
)

// FreeWordLimit is the monthly word limit for users without an entitlement.
const FreeWordLimit = 1000

var planWordLimits = map[Plan]int{
	PlanStarter: 15000,
	PlanPro:     60000,
	PlanMax:     150000,
	PlanPremium: 150000,
	PlanCredits: 60000,
}

// ParsePlan normalises a plan name. Unknown names map to PlanFree.
func ParsePlan(s string) Plan {
	p := Plan(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := planWordLimits[p]; ok {
		return p
	}
	return PlanFree
}

// WordLimit returns the monthly word limit granted by the plan.
func (p Plan) WordLimit() int {
	if limit, ok := planWordLimits[p]; ok {
		return limit
	}
	return FreeWordLimit
}
