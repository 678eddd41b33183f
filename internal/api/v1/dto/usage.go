package dto

import "wordflow/internal/model"

// QuotaCheckRequest asks whether wordCount more words fit this month.
type QuotaCheckRequest struct {
	WordCount int `json:"wordCount" validate:"required,min=1"`
}

type UsageHistoryEntryDTO struct {
	Month       int `json:"month"`
	Year        int `json:"year"`
	TotalWords  int `json:"totalWords"`
	Humanizer   int `json:"humanizer"`
	Detector    int `json:"detector"`
	Summariser  int `json:"summariser"`
	Paraphraser int `json:"paraphraser"`
}

func NewUsageHistoryEntry(e *model.UsageLedgerEntry) UsageHistoryEntryDTO {
	return UsageHistoryEntryDTO{
		Month:       e.Month,
		Year:        e.Year,
		TotalWords:  e.TotalWords,
		Humanizer:   e.ToolWords(model.ToolHumanizer),
		Detector:    e.ToolWords(model.ToolDetector),
		Summariser:  e.ToolWords(model.ToolSummariser),
		Paraphraser: e.ToolWords(model.ToolParaphraser),
	}
}

type UsageHistoryResponseDTO struct {
	Entries []UsageHistoryEntryDTO `json:"entries"`
}
