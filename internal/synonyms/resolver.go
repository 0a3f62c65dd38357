package synonyms

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/menuscan/constants"
	"github.com/joseph-ayodele/menuscan/internal/common"
	"github.com/joseph-ayodele/menuscan/internal/entity"
	"github.com/joseph-ayodele/menuscan/internal/repository"
	"github.com/joseph-ayodele/menuscan/internal/textnorm"
)

// Candidate is one ranked search hit as returned to guests.
type Candidate struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// SearchResult carries the ranked candidates and the per-item match details behind them.
type SearchResult struct {
	Candidates []Candidate           `json:"candidates"`
	Matches    []entity.SynonymMatch `json:"matches,omitempty"`
	Message    string                `json:"message,omitempty"`
}

// Resolver answers ranked synonym searches and exact lookups.
type Resolver struct {
	store     repository.SynonymStore
	minQuery  int
	limit     int
	threshold float64
	logger    *slog.Logger
}

// NewResolver creates a resolver. Zero values in cfg fall back to a 3-rune minimum query, 3
// results and the pg_trgm default threshold.
func NewResolver(store repository.SynonymStore, cfg common.SearchConfig, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	r := &Resolver{
		store:     store,
		minQuery:  cfg.MinQueryLength,
		limit:     cfg.Limit,
		threshold: cfg.SimilarityThreshold,
		logger:    logger,
	}
	if r.minQuery <= 0 {
		r.minQuery = 3
	}
	if r.limit <= 0 {
		r.limit = 3
	}
	if r.threshold <= 0 {
		r.threshold = textnorm.DefaultSimilarityThreshold
	}
	return r
}

// Search ranks canonical items for a free-text query. Prefix, substring and fuzzy matches are
// alternatives: every surfaced row is scored by trigram similarity, rows are collapsed to one per
// menu item and the best scores win regardless of which kind of match surfaced them.
func (r *Resolver) Search(ctx context.Context, query string) (SearchResult, error) {
	q := textnorm.Fold(query)
	if utf8.RuneCountInString(q) < r.minQuery {
		return SearchResult{
			Candidates: []Candidate{},
			Message:    fmt.Sprintf("query must be at least %d characters", r.minQuery),
		}, nil
	}

	rows, err := r.store.CandidateSynonyms(ctx, q, r.threshold)
	if err != nil {
		return SearchResult{}, common.NewAppError(common.CodeStorage, "failed to load synonym candidates", err)
	}

	best := make(map[uuid.UUID]entity.SynonymMatch)
	for _, row := range rows {
		m, ok := r.match(q, row)
		if !ok {
			continue
		}
		if cur, seen := best[m.MenuItemID]; !seen || m.Score > cur.Score {
			best[m.MenuItemID] = m
		}
	}

	matches := make([]entity.SynonymMatch, 0, len(best))
	for _, m := range best {
		matches = append(matches, m)
	}
	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Score != matches[j].Score {
			return matches[i].Score > matches[j].Score
		}
		if matches[i].Name != matches[j].Name {
			return matches[i].Name < matches[j].Name
		}
		return matches[i].MenuItemID.String() < matches[j].MenuItemID.String()
	})
	if len(matches) > r.limit {
		matches = matches[:r.limit]
	}

	res := SearchResult{Candidates: make([]Candidate, len(matches)), Matches: matches}
	for i, m := range matches {
		res.Candidates[i] = Candidate{ID: m.MenuItemID, Name: m.Name}
	}
	if len(matches) == 0 {
		res.Message = "no matching menu items"
	}
	r.logger.Debug("synonym search", "query", q, "rows", len(rows), "results", len(matches))
	return res, nil
}

// match classifies one corpus row against the upper-cased query.
func (r *Resolver) match(q string, row entity.SynonymRow) (entity.SynonymMatch, bool) {
	text := textnorm.Fold(row.Synonym)
	score := textnorm.Similarity(q, text)

	var kind constants.MatchKind
	switch {
	case text == q:
		kind = constants.MatchExact
	case strings.HasPrefix(text, q):
		kind = constants.MatchPrefix
	case strings.Contains(text, q):
		kind = constants.MatchSubstring
	case score >= r.threshold:
		kind = constants.MatchFuzzy
	default:
		return entity.SynonymMatch{}, false
	}
	return entity.SynonymMatch{
		MenuItemID:     row.MenuItemID,
		Name:           row.MenuItemName,
		MatchedSynonym: row.Synonym,
		Score:          score,
		Kind:           kind,
	}, true
}

// Lookup returns the synonym whose folded text equals the folded token, or nil.
func (r *Resolver) Lookup(ctx context.Context, token string) (*entity.SynonymRow, error) {
	v := common.NewValidator().Field("synonym", token, common.NonEmpty, common.SingleToken)
	if v.HasErrors() {
		return nil, v.AppError()
	}
	row, err := r.store.FindSynonym(ctx, textnorm.Fold(token))
	if err != nil {
		return nil, common.NewAppError(common.CodeStorage, "failed to look up synonym", err)
	}
	return row, nil
}
