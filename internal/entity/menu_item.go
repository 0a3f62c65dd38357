package entity

import (
	"github.com/joseph-ayodele/menuscan/constants"
)

// ClassifiedLine is one OCR line with its classification tag.
type ClassifiedLine struct {
	Index int               `json:"index"`
	Text  string            `json:"text"`
	Tag   constants.LineTag `json:"tag"`
}

// CandidateItem is a (name, price) pair produced by a pairing strategy, before cleanup and filtering.
type CandidateItem struct {
	Name             string   `json:"name"`
	Price            *float64 `json:"price,omitempty"`
	Quantity         int      `json:"quantity"`
	Confidence       float64  `json:"confidence"`
	FoodScore        float64  `json:"food_score"`
	IsLikelyMenuItem bool     `json:"is_likely_menu_item"`
	OriginalLine     string   `json:"original_line"`
}

// ParsedMenuItem is the extraction output. Persistence is the caller's responsibility.
type ParsedMenuItem struct {
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	IsDuplicate bool    `json:"isDuplicate"`
}
