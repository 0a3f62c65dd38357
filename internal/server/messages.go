package server

import (
	"github.com/joseph-ayodele/menuscan/internal/entity"
	"github.com/joseph-ayodele/menuscan/internal/menuparse"
	"github.com/joseph-ayodele/menuscan/internal/synonyms"
)

type ParseReceiptRequest struct {
	Source       string            `json:"source,omitempty"`
	Payload      entity.OCRPayload `json:"payload"`
	IncludeTrace bool              `json:"include_trace,omitempty"`
}

// ParseReceiptResponse flattens the parse result so the wire shape is the extraction contract.
type ParseReceiptResponse struct {
	menuparse.Result
}

type ExportMenuItemsResponse struct {
	Filename string `json:"filename"`
	Rows     int    `json:"rows"`
	Content  []byte `json:"content"`
}

type SearchMenuItemsRequest struct {
	Query string `json:"query"`
}

type SearchMenuItemsResponse struct {
	synonyms.SearchResult
}

type LookupSynonymRequest struct {
	Synonym string `json:"synonym"`
}

type LookupSynonymResponse struct {
	Found bool               `json:"found"`
	Match *entity.SynonymRow `json:"match,omitempty"`
}

type MapSynonymRequest = synonyms.MapRequest

type MapSynonymResponse struct {
	synonyms.MapResult
}

type DeleteSynonymRequest struct {
	SynonymID string `json:"synonym_id"`
}

type DeleteSynonymResponse struct {
	Deleted entity.Synonym `json:"deleted"`
}
