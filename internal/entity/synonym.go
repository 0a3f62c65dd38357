package entity

import (
	"github.com/google/uuid"

	"github.com/joseph-ayodele/menuscan/constants"
)

// MenuItem is a canonical menu entry owned by the storage collaborator.
type MenuItem struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// Synonym maps a single upper-case token to exactly one canonical menu item.
type Synonym struct {
	ID         uuid.UUID `json:"id"`
	Text       string    `json:"synonym"`
	MenuItemID uuid.UUID `json:"menu_item_id"`
}

// SynonymRow is a synonym joined with its canonical item. It is also the exact-lookup result.
type SynonymRow struct {
	SynonymID    uuid.UUID `json:"synonym_id"`
	Synonym      string    `json:"synonym"`
	MenuItemID   uuid.UUID `json:"menu_item_id"`
	MenuItemName string    `json:"menu_item_name"`
}

// SynonymMatch is a transient ranking record.
type SynonymMatch struct {
	MenuItemID     uuid.UUID           `json:"menu_item_id"`
	Name           string              `json:"name"`
	MatchedSynonym string              `json:"matched_synonym"`
	Score          float64             `json:"score"`
	Kind           constants.MatchKind `json:"kind"`
}
