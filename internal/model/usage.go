package model

import (
	"errors"
	"time"
)

// ToolType identifies one of the word-consuming text tools.
type ToolType string

const (
	ToolHumanizer   ToolType = "humanizer"
	ToolDetector    ToolType = "detector"
	ToolSummariser  ToolType = "summariser"
	ToolParaphraser ToolType = "paraphraser"
)

// ErrUnknownTool is returned wherever a usage operation names a tool without a ledger column.
var ErrUnknownTool = errors.New("unknown tool")

// ToolTypes lists every tool in display order.
var ToolTypes = []ToolType{ToolHumanizer, ToolDetector, ToolSummariser, ToolParaphraser}

// Valid reports whether t is a known tool.
func (t ToolType) Valid() bool {
	switch t {
	case ToolHumanizer, ToolDetector, ToolSummariser, ToolParaphraser:
		return true
	}
	return false
}

// UsageLedgerEntry is one user's word consumption for a calendar month (UTC).
type UsageLedgerEntry struct {
	UserID           string    `db:"user_id" json:"user_id"`
	Month            int       `db:"month" json:"month"`
	Year             int       `db:"year" json:"year"`
	TotalWords       int       `db:"total_words" json:"total_words"`
	HumanizerWords   int       `db:"humanizer_words" json:"humanizer_words"`
	DetectorWords    int       `db:"detector_words" json:"detector_words"`
	SummariserWords  int       `db:"summariser_words" json:"summariser_words"`
	ParaphraserWords int       `db:"paraphraser_words" json:"paraphraser_words"`
	CreatedAt        time.Time `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time `db:"updated_at" json:"updated_at"`
}

// ToolWords returns the counter for a single tool.
func (e *UsageLedgerEntry) ToolWords(t ToolType) int {
	switch t {
	case ToolHumanizer:
		return e.HumanizerWords
	case ToolDetector:
		return e.DetectorWords
	case ToolSummariser:
		return e.SummariserWords
	case ToolParaphraser:
		return e.ParaphraserWords
	}
	return 0
}

// Add applies an increment in memory, keeping TotalWords equal to the per-tool sum.
func (e *UsageLedgerEntry) Add(t ToolType, words int) {
	switch t {
	case ToolHumanizer:
		e.HumanizerWords += words
	case ToolDetector:
		e.DetectorWords += words
	case ToolSummariser:
		e.SummariserWords += words
	case ToolParaphraser:
		e.ParaphraserWords += words
	default:
		return
	}
	e.TotalWords += words
}

// Period is a calendar month in UTC.
type Period struct {
	Month int
	Year  int
}

// PeriodOf returns the UTC calendar month containing t.
func PeriodOf(t time.Time) Period {
	u := t.UTC()
	return Period{Month: int(u.Month()), Year: u.Year()}
}
