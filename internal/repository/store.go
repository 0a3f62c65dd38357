package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/menuscan/internal/entity"
)

// SynonymStore is the read side of the synonym corpus plus the transaction entry point used by
// the mapper. Lookups return (nil, nil) when nothing matches.
type SynonymStore interface {
	// CandidateSynonyms returns synonym rows that may match query. The result may be a superset;
	// ranking and filtering happen in the resolver.
	CandidateSynonyms(ctx context.Context, query string, threshold float64) ([]entity.SynonymRow, error)
	FindSynonym(ctx context.Context, text string) (*entity.SynonymRow, error)
	ListMenuItems(ctx context.Context) ([]entity.MenuItem, error)
	// InTx runs fn in a single transaction. A non-nil error from fn rolls everything back.
	InTx(ctx context.Context, fn func(tx SynonymTx) error) error
}

// SynonymTx is the write side, only reachable inside InTx.
type SynonymTx interface {
	FindMenuItemByName(ctx context.Context, name string) (*entity.MenuItem, error)
	GetMenuItem(ctx context.Context, id uuid.UUID) (*entity.MenuItem, error)
	CreateMenuItem(ctx context.Context, name string) (*entity.MenuItem, error)
	FindSynonym(ctx context.Context, text string) (*entity.Synonym, error)
	GetSynonym(ctx context.Context, id uuid.UUID) (*entity.Synonym, error)
	CreateSynonym(ctx context.Context, text string, menuItemID uuid.UUID) (*entity.Synonym, error)
	UpdateSynonymTarget(ctx context.Context, id, menuItemID uuid.UUID) error
	DeleteSynonym(ctx context.Context, id uuid.UUID) (bool, error)
}

// MenuItemSink persists parsed menu items for a processed source.
type MenuItemSink interface {
	SaveParsedItems(ctx context.Context, source string, items []entity.ParsedMenuItem) error
}

// Stats are corpus counts reported by dbhealth.
type Stats struct {
	MenuItems   int `json:"menuItems"`
	Synonyms    int `json:"synonyms"`
	ParsedItems int `json:"parsedItems"`
}

// Store is what the commands wire up: the synonym corpus, the parsed-item sink and lifecycle.
type Store interface {
	SynonymStore
	MenuItemSink
	Stats(ctx context.Context) (Stats, error)
	Ping(ctx context.Context) error
	Close()
}
