package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPlanWordLimits(t *testing.T) {
	tests := map[string]int{
		"starter": 15000,
		"pro":     60000,
		"max":     150000,
		"premium": 150000,
		"credits": 60000,
		"free":    1000,
		"":        1000,
		"unknown": 1000,
		" PRO ":   60000,
	}
	for name, want := range tests {
		assert.Equal(t, want, ParsePlan(name).WordLimit(), "plan %q", name)
	}
}

func TestUsageEntryAddKeepsTotal(t *testing.T) {
	e := &UsageLedgerEntry{}
	e.Add(ToolHumanizer, 100)
	e.Add(ToolDetector, 50)
	e.Add(ToolParaphraser, 7)
	e.Add(ToolType("bogus"), 1000)

	assert.Equal(t, 157, e.TotalWords)
	sum := 0
	for _, tool := range ToolTypes {
		sum += e.ToolWords(tool)
	}
	assert.Equal(t, e.TotalWords, sum)
}

func TestPeriodOfUsesUTC(t *testing.T) {
	loc := time.FixedZone("UTC+10", 10*60*60)
	local := time.Date(2026, 11, 1, 5, 0, 0, 0, loc) // still October 31 in UTC

	assert.Equal(t, Period{Month: 10, Year: 2026}, PeriodOf(local))
}
