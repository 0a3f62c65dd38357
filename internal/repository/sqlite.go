package repository

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"log/slog"
	"strings"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/joseph-ayodele/menuscan/internal/entity"
)

//go:embed migrations/sqlite.sql
var sqliteSchema string

const (
	tableMenuItems   = "menu_items"
	tableSynonyms    = "synonyms"
	tableParsedItems = "parsed_menu_items"
)

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// SQLiteStore is the embedded synonym corpus. Queries are built with the ent SQL builder.
type SQLiteStore struct {
	db     *sql.DB
	b      *entsql.DialectBuilder
	logger *slog.Logger
}

// OpenSQLite opens (and migrates) a SQLite database at dsn. A single connection is used so that
// in-memory databases survive between calls and writers are serialized.
func OpenSQLite(ctx context.Context, dsn string, logger *slog.Logger) (*SQLiteStore, error) {
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("opening sqlite database", "dsn", dsn)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	s := &SQLiteStore{db: db, b: entsql.Dialect(dialect.SQLite), logger: logger}
	if err := s.migrate(ctx); err != nil {
		_ = db.Close()
		logger.Error("failed to migrate sqlite database", "error", err)
		return nil, err
	}
	return s, nil
}

func (s *SQLiteStore) migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
		return err
	}
	for _, stmt := range strings.Split(sqliteSchema, ";") {
		if strings.TrimSpace(stmt) == "" {
			continue
		}
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

// synonymRows selects synonyms joined with their items. The synonyms table is aliased "s".
func (s *SQLiteStore) synonymRows() (*entsql.Selector, *entsql.SelectTable) {
	syn := s.b.Table(tableSynonyms).As("s")
	item := s.b.Table(tableMenuItems).As("m")
	sel := s.b.Select(syn.C("id"), syn.C("text"), item.C("id"), item.C("name")).
		From(syn).
		Join(item).On(syn.C("menu_item_id"), item.C("id"))
	return sel, syn
}

func scanSynonymRows(rows *sql.Rows) ([]entity.SynonymRow, error) {
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

// CandidateSynonyms returns every synonym; SQLite has no trigram index so ranking is left to
// the resolver.
func (s *SQLiteStore) CandidateSynonyms(ctx context.Context, query string, _ float64) ([]entity.SynonymRow, error) {
	sel, syn := s.synonymRows()
	q, args := sel.OrderBy(syn.C("text")).Query()
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		s.logger.Error("failed to query synonym candidates", "query", query, "error", err)
		return nil, err
	}
	return scanSynonymRows(rows)
}

func (s *SQLiteStore) FindSynonym(ctx context.Context, text string) (*entity.SynonymRow, error) {
	sel, _ := s.synonymRows()
	q, args := sel.
		Where(entsql.ExprP("upper(s.text) = upper(?)", strings.TrimSpace(text))).
		Limit(1).
		Query()
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		s.logger.Error("failed to look up synonym", "synonym", text, "error", err)
		return nil, err
	}
	found, err := scanSynonymRows(rows)
	if err != nil || len(found) == 0 {
		return nil, err
	}
	return &found[0], nil
}

func (s *SQLiteStore) ListMenuItems(ctx context.Context) ([]entity.MenuItem, error) {
	q, args := s.b.Select("id", "name").From(s.b.Table(tableMenuItems)).OrderBy("name").Query()
	rows, err := s.db.QueryContext(ctx, q, args...)
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

func (s *SQLiteStore) InTx(ctx context.Context, fn func(tx SynonymTx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(&sqliteTx{q: tx, b: s.b}); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			s.logger.Error("failed to roll back transaction", "error", rbErr)
		}
		return err
	}
	return tx.Commit()
}

func (s *SQLiteStore) SaveParsedItems(ctx context.Context, source string, items []entity.ParsedMenuItem) error {
	if len(items) == 0 {
		return nil
	}
	ins := s.b.Insert(tableParsedItems).Columns("id", "source", "name", "price", "is_duplicate")
	for _, it := range items {
		ins.Values(uuid.New(), source, it.Name, it.Price, it.IsDuplicate)
	}
	q, args := ins.Query()
	if _, err := s.db.ExecContext(ctx, q, args...); err != nil {
		s.logger.Error("failed to store parsed items", "source", source, "error", err)
		return err
	}
	s.logger.Debug("parsed items stored", "source", source, "count", len(items))
	return nil
}

func (s *SQLiteStore) count(ctx context.Context, table string) (int, error) {
	q, args := s.b.Select(entsql.Count("*")).From(s.b.Table(table)).Query()
	var n int
	err := s.db.QueryRowContext(ctx, q, args...).Scan(&n)
	return n, err
}

func (s *SQLiteStore) Stats(ctx context.Context) (Stats, error) {
	var st Stats
	var err error
	if st.MenuItems, err = s.count(ctx, tableMenuItems); err != nil {
		return st, err
	}
	if st.Synonyms, err = s.count(ctx, tableSynonyms); err != nil {
		return st, err
	}
	st.ParsedItems, err = s.count(ctx, tableParsedItems)
	return st, err
}

func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *SQLiteStore) Close() {
	if err := s.db.Close(); err != nil {
		s.logger.Error("failed to close sqlite database", "error", err)
	}
}

type sqliteTx struct {
	q querier
	b *entsql.DialectBuilder
}

func (t *sqliteTx) menuItem(ctx context.Context, where *entsql.Predicate) (*entity.MenuItem, error) {
	q, args := t.b.Select("id", "name").From(t.b.Table(tableMenuItems)).Where(where).Limit(1).Query()
	var it entity.MenuItem
	err := t.q.QueryRowContext(ctx, q, args...).Scan(&it.ID, &it.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &it, nil
}

func (t *sqliteTx) synonym(ctx context.Context, where *entsql.Predicate) (*entity.Synonym, error) {
	q, args := t.b.Select("id", "text", "menu_item_id").From(t.b.Table(tableSynonyms)).Where(where).Limit(1).Query()
	var syn entity.Synonym
	err := t.q.QueryRowContext(ctx, q, args...).Scan(&syn.ID, &syn.Text, &syn.MenuItemID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &syn, nil
}

func (t *sqliteTx) FindMenuItemByName(ctx context.Context, name string) (*entity.MenuItem, error) {
	return t.menuItem(ctx, entsql.ExprP("upper(name) = upper(?)", strings.TrimSpace(name)))
}

func (t *sqliteTx) GetMenuItem(ctx context.Context, id uuid.UUID) (*entity.MenuItem, error) {
	return t.menuItem(ctx, entsql.EQ("id", id.String()))
}

func (t *sqliteTx) CreateMenuItem(ctx context.Context, name string) (*entity.MenuItem, error) {
	it := entity.MenuItem{ID: uuid.New(), Name: strings.TrimSpace(name)}
	q, args := t.b.Insert(tableMenuItems).Columns("id", "name").Values(it.ID.String(), it.Name).Query()
	if _, err := t.q.ExecContext(ctx, q, args...); err != nil {
		return nil, translateError(err)
	}
	return &it, nil
}

func (t *sqliteTx) FindSynonym(ctx context.Context, text string) (*entity.Synonym, error) {
	return t.synonym(ctx, entsql.ExprP("upper(text) = upper(?)", strings.TrimSpace(text)))
}

func (t *sqliteTx) GetSynonym(ctx context.Context, id uuid.UUID) (*entity.Synonym, error) {
	return t.synonym(ctx, entsql.EQ("id", id.String()))
}

func (t *sqliteTx) CreateSynonym(ctx context.Context, text string, menuItemID uuid.UUID) (*entity.Synonym, error) {
	syn := entity.Synonym{ID: uuid.New(), Text: strings.ToUpper(strings.TrimSpace(text)), MenuItemID: menuItemID}
	q, args := t.b.Insert(tableSynonyms).
		Columns("id", "text", "menu_item_id").
		Values(syn.ID.String(), syn.Text, syn.MenuItemID.String()).
		Query()
	if _, err := t.q.ExecContext(ctx, q, args...); err != nil {
		return nil, translateError(err)
	}
	return &syn, nil
}

func (t *sqliteTx) UpdateSynonymTarget(ctx context.Context, id, menuItemID uuid.UUID) error {
	q, args := t.b.Update(tableSynonyms).
		Set("menu_item_id", menuItemID.String()).
		Set("updated_at", time.Now().UTC().Format(time.RFC3339Nano)).
		Where(entsql.EQ("id", id.String())).
		Query()
	res, err := t.q.ExecContext(ctx, q, args...)
	if err != nil {
		return translateError(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNoRows
	}
	return nil
}

func (t *sqliteTx) DeleteSynonym(ctx context.Context, id uuid.UUID) (bool, error) {
	q, args := t.b.Delete(tableSynonyms).Where(entsql.EQ("id", id.String())).Query()
	res, err := t.q.ExecContext(ctx, q, args...)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}
