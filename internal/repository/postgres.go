package repository

import (
	"context"
	_ "embed"
	"errors"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/joseph-ayodele/menuscan/internal/entity"
)

//go:embed migrations/postgres.sql
var postgresSchema string

// candidateLimit bounds the rows the database hands to the resolver for one query.
const candidateLimit = 50

// PostgresStore is the synonym corpus on PostgreSQL. Candidate prefiltering uses pg_trgm.
type PostgresStore struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

func NewPostgresStore(pool *pgxpool.Pool, logger *slog.Logger) *PostgresStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresStore{pool: pool, logger: logger}
}

// Migrate applies the schema. It is idempotent.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, postgresSchema); err != nil {
		s.logger.Error("failed to apply schema", "error", err)
		return err
	}
	return nil
}

const pgCandidateSQL = `
SELECT s.id, s.text, m.id, m.name
FROM synonyms s
JOIN menu_items m ON m.id = s.menu_item_id
WHERE strpos(upper(s.text), $1) > 0
   OR similarity(upper(s.text), $1) >= $2
ORDER BY similarity(upper(s.text), $1) DESC, m.name, s.id
LIMIT $3`

func (s *PostgresStore) CandidateSynonyms(ctx context.Context, query string, threshold float64) ([]entity.SynonymRow, error) {
	rows, err := s.pool.Query(ctx, pgCandidateSQL, strings.ToUpper(query), threshold, candidateLimit)
	if err != nil {
		s.logger.Error("failed to query synonym candidates", "query", query, "error", err)
		return nil, err
	}
	defer rows.Close()

	var out []entity.SynonymRow
	for rows.Next() {
		var r entity.SynonymRow
		if err := rows.Scan(&r.SynonymID, &r.Synonym, &r.MenuItemID, &r.MenuItemName); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *PostgresStore) FindSynonym(ctx context.Context, text string) (*entity.SynonymRow, error) {
	var r entity.SynonymRow
	err := s.pool.QueryRow(ctx, `
SELECT s.id, s.text, m.id, m.name
FROM synonyms s
JOIN menu_items m ON m.id = s.menu_item_id
WHERE upper(s.text) = upper($1)`, strings.TrimSpace(text)).
		Scan(&r.SynonymID, &r.Synonym, &r.MenuItemID, &r.MenuItemName)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		s.logger.Error("failed to look up synonym", "synonym", text, "error", err)
		return nil, err
	}
	return &r, nil
}

func (s *PostgresStore) ListMenuItems(ctx context.Context) ([]entity.MenuItem, error) {
	rows, err := s.pool.Query(ctx, `SELECT id, name FROM menu_items ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []entity.MenuItem
	for rows.Next() {
		var it entity.MenuItem
		if err := rows.Scan(&it.ID, &it.Name); err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

func (s *PostgresStore) InTx(ctx context.Context, fn func(tx SynonymTx) error) error {
	return pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		return fn(&pgTx{tx: tx})
	})
}

func (s *PostgresStore) SaveParsedItems(ctx context.Context, source string, items []entity.ParsedMenuItem) error {
	if len(items) == 0 {
		return nil
	}
	rows := make([][]any, len(items))
	for i, it := range items {
		rows[i] = []any{uuid.New(), source, it.Name, it.Price, it.IsDuplicate}
	}
	n, err := s.pool.CopyFrom(ctx,
		pgx.Identifier{"parsed_menu_items"},
		[]string{"id", "source", "name", "price", "is_duplicate"},
		pgx.CopyFromRows(rows),
	)
	if err != nil {
		s.logger.Error("failed to store parsed items", "source", source, "error", err)
		return err
	}
	s.logger.Debug("parsed items stored", "source", source, "count", n)
	return nil
}

func (s *PostgresStore) Stats(ctx context.Context) (Stats, error) {
	var st Stats
	err := s.pool.QueryRow(ctx, `
SELECT (SELECT count(*) FROM menu_items),
       (SELECT count(*) FROM synonyms),
       (SELECT count(*) FROM parsed_menu_items)`).Scan(&st.MenuItems, &st.Synonyms, &st.ParsedItems)
	return st, err
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func (s *PostgresStore) Close() {
	Close(s.pool, s.logger)
}

type pgTx struct {
	tx pgx.Tx
}

func (t *pgTx) scanItem(row pgx.Row) (*entity.MenuItem, error) {
	var it entity.MenuItem
	err := row.Scan(&it.ID, &it.Name)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &it, nil
}

func (t *pgTx) scanSynonym(row pgx.Row) (*entity.Synonym, error) {
	var syn entity.Synonym
	err := row.Scan(&syn.ID, &syn.Text, &syn.MenuItemID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &syn, nil
}

func (t *pgTx) FindMenuItemByName(ctx context.Context, name string) (*entity.MenuItem, error) {
	return t.scanItem(t.tx.QueryRow(ctx,
		`SELECT id, name FROM menu_items WHERE upper(name) = upper($1)`, strings.TrimSpace(name)))
}

func (t *pgTx) GetMenuItem(ctx context.Context, id uuid.UUID) (*entity.MenuItem, error) {
	return t.scanItem(t.tx.QueryRow(ctx, `SELECT id, name FROM menu_items WHERE id = $1`, id))
}

func (t *pgTx) CreateMenuItem(ctx context.Context, name string) (*entity.MenuItem, error) {
	it := entity.MenuItem{ID: uuid.New(), Name: strings.TrimSpace(name)}
	if _, err := t.tx.Exec(ctx, `INSERT INTO menu_items (id, name) VALUES ($1, $2)`, it.ID, it.Name); err != nil {
		return nil, translateError(err)
	}
	return &it, nil
}

func (t *pgTx) FindSynonym(ctx context.Context, text string) (*entity.Synonym, error) {
	return t.scanSynonym(t.tx.QueryRow(ctx,
		`SELECT id, text, menu_item_id FROM synonyms WHERE upper(text) = upper($1) FOR UPDATE`, strings.TrimSpace(text)))
}

func (t *pgTx) GetSynonym(ctx context.Context, id uuid.UUID) (*entity.Synonym, error) {
	return t.scanSynonym(t.tx.QueryRow(ctx,
		`SELECT id, text, menu_item_id FROM synonyms WHERE id = $1 FOR UPDATE`, id))
}

func (t *pgTx) CreateSynonym(ctx context.Context, text string, menuItemID uuid.UUID) (*entity.Synonym, error) {
	syn := entity.Synonym{ID: uuid.New(), Text: strings.ToUpper(strings.TrimSpace(text)), MenuItemID: menuItemID}
	_, err := t.tx.Exec(ctx,
		`INSERT INTO synonyms (id, text, menu_item_id) VALUES ($1, $2, $3)`, syn.ID, syn.Text, syn.MenuItemID)
	if err != nil {
		return nil, translateError(err)
	}
	return &syn, nil
}

func (t *pgTx) UpdateSynonymTarget(ctx context.Context, id, menuItemID uuid.UUID) error {
	tag, err := t.tx.Exec(ctx,
		`UPDATE synonyms SET menu_item_id = $2, updated_at = now() WHERE id = $1`, id, menuItemID)
	if err != nil {
		return translateError(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNoRows
	}
	return nil
}

func (t *pgTx) DeleteSynonym(ctx context.Context, id uuid.UUID) (bool, error) {
	tag, err := t.tx.Exec(ctx, `DELETE FROM synonyms WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}
