package repository

import (
	"context"
	"log/slog"
	"maps"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/menuscan/internal/entity"
)

type memoryState struct {
	items      map[uuid.UUID]entity.MenuItem
	itemByName map[string]uuid.UUID
	synonyms   map[uuid.UUID]entity.Synonym
	synByText  map[string]uuid.UUID
	parsed     int
}

func (s *memoryState) clone() *memoryState {
	return &memoryState{
		items:      maps.Clone(s.items),
		itemByName: maps.Clone(s.itemByName),
		synonyms:   maps.Clone(s.synonyms),
		synByText:  maps.Clone(s.synByText),
		parsed:     s.parsed,
	}
}

// MemoryStore keeps the corpus in process. Transactions hold the write lock for their whole
// duration and work on a copy that replaces the state only when fn succeeds.
type MemoryStore struct {
	mu     sync.RWMutex
	state  *memoryState
	logger *slog.Logger
}

func NewMemoryStore(logger *slog.Logger) *MemoryStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &MemoryStore{
		state: &memoryState{
			items:      map[uuid.UUID]entity.MenuItem{},
			itemByName: map[string]uuid.UUID{},
			synonyms:   map[uuid.UUID]entity.Synonym{},
			synByText:  map[string]uuid.UUID{},
		},
		logger: logger,
	}
}

func foldKey(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

func (m *MemoryStore) CandidateSynonyms(_ context.Context, _ string, _ float64) ([]entity.SynonymRow, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rows := make([]entity.SynonymRow, 0, len(m.state.synonyms))
	for _, syn := range m.state.synonyms {
		rows = append(rows, m.state.row(syn))
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Synonym < rows[j].Synonym })
	return rows, nil
}

func (m *MemoryStore) FindSynonym(_ context.Context, text string) (*entity.SynonymRow, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	id, ok := m.state.synByText[foldKey(text)]
	if !ok {
		return nil, nil
	}
	row := m.state.row(m.state.synonyms[id])
	return &row, nil
}

func (m *MemoryStore) ListMenuItems(_ context.Context) ([]entity.MenuItem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	items := make([]entity.MenuItem, 0, len(m.state.items))
	for _, it := range m.state.items {
		items = append(items, it)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Name < items[j].Name })
	return items, nil
}

func (m *MemoryStore) InTx(ctx context.Context, fn func(tx SynonymTx) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	work := m.state.clone()
	if err := fn(&memoryTx{state: work}); err != nil {
		m.logger.Debug("memory tx rolled back", "error", err)
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	m.state = work
	return nil
}

func (m *MemoryStore) SaveParsedItems(_ context.Context, source string, items []entity.ParsedMenuItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.parsed += len(items)
	m.logger.Debug("parsed items stored", "source", source, "count", len(items))
	return nil
}

func (m *MemoryStore) Stats(_ context.Context) (Stats, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return Stats{MenuItems: len(m.state.items), Synonyms: len(m.state.synonyms), ParsedItems: m.state.parsed}, nil
}

func (m *MemoryStore) Ping(context.Context) error { return nil }

func (m *MemoryStore) Close() {}

func (s *memoryState) row(syn entity.Synonym) entity.SynonymRow {
	return entity.SynonymRow{
		SynonymID:    syn.ID,
		Synonym:      syn.Text,
		MenuItemID:   syn.MenuItemID,
		MenuItemName: s.items[syn.MenuItemID].Name,
	}
}

type memoryTx struct {
	state *memoryState
}

func (t *memoryTx) FindMenuItemByName(_ context.Context, name string) (*entity.MenuItem, error) {
	id, ok := t.state.itemByName[foldKey(name)]
	if !ok {
		return nil, nil
	}
	it := t.state.items[id]
	return &it, nil
}

func (t *memoryTx) GetMenuItem(_ context.Context, id uuid.UUID) (*entity.MenuItem, error) {
	it, ok := t.state.items[id]
	if !ok {
		return nil, nil
	}
	return &it, nil
}

func (t *memoryTx) CreateMenuItem(_ context.Context, name string) (*entity.MenuItem, error) {
	key := foldKey(name)
	if _, exists := t.state.itemByName[key]; exists {
		return nil, ErrDuplicate
	}
	it := entity.MenuItem{ID: uuid.New(), Name: strings.TrimSpace(name)}
	t.state.items[it.ID] = it
	t.state.itemByName[key] = it.ID
	return &it, nil
}

func (t *memoryTx) FindSynonym(_ context.Context, text string) (*entity.Synonym, error) {
	id, ok := t.state.synByText[foldKey(text)]
	if !ok {
		return nil, nil
	}
	syn := t.state.synonyms[id]
	return &syn, nil
}

func (t *memoryTx) GetSynonym(_ context.Context, id uuid.UUID) (*entity.Synonym, error) {
	syn, ok := t.state.synonyms[id]
	if !ok {
		return nil, nil
	}
	return &syn, nil
}

func (t *memoryTx) CreateSynonym(_ context.Context, text string, menuItemID uuid.UUID) (*entity.Synonym, error) {
	key := foldKey(text)
	if _, exists := t.state.synByText[key]; exists {
		return nil, ErrDuplicate
	}
	if _, ok := t.state.items[menuItemID]; !ok {
		return nil, ErrMissingReference
	}
	syn := entity.Synonym{ID: uuid.New(), Text: key, MenuItemID: menuItemID}
	t.state.synonyms[syn.ID] = syn
	t.state.synByText[key] = syn.ID
	return &syn, nil
}

func (t *memoryTx) UpdateSynonymTarget(_ context.Context, id, menuItemID uuid.UUID) error {
	syn, ok := t.state.synonyms[id]
	if !ok {
		return ErrNoRows
	}
	if _, ok := t.state.items[menuItemID]; !ok {
		return ErrMissingReference
	}
	syn.MenuItemID = menuItemID
	t.state.synonyms[id] = syn
	return nil
}

func (t *memoryTx) DeleteSynonym(_ context.Context, id uuid.UUID) (bool, error) {
	syn, ok := t.state.synonyms[id]
	if !ok {
		return false, nil
	}
	delete(t.state.synonyms, id)
	delete(t.state.synByText, foldKey(syn.Text))
	return true, nil
}
