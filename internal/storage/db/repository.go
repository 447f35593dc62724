package db

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/JJeris/blendio/internal/domain"

	"github.com/google/uuid"
)

// Filter selects rows for Fetch. Only one field is honored, in priority
// order ID, Limit, Key. The zero Filter returns every row.
type Filter struct {
	ID    string
	Limit int
	Key   string // natural key: path or argument string
}

type scanner interface {
	Scan(dest ...any) error
}

// table describes how one entity type maps onto its table
type table[T any] struct {
	name    string   // table name
	entity  string   // human readable, used in errors
	key     string   // natural key column (UNIQUE)
	columns []string // mutable columns, excluding id and timestamps
	record  func(*T) *domain.Record
	values  func(*T) []any // values for columns, same order
	dests   func(*T) []any // scan destinations for columns, same order
}

// Repository is the generic store for one entity type
type Repository[T any] struct {
	db  *DB
	t   table[T]
	now func() time.Time
}

func newRepository[T any](d *DB, t table[T]) *Repository[T] {
	return &Repository[T]{db: d, t: t, now: time.Now}
}

// SetClock replaces the time source used for timestamps
func (r *Repository[T]) SetClock(now func() time.Time) {
	r.now = now
}

// Entity returns the human readable entity name
func (r *Repository[T]) Entity() string {
	return r.t.entity
}

func (r *Repository[T]) selectList() string {
	return "id, " + strings.Join(r.t.columns, ", ") + ", created, modified, accessed"
}

// Insert persists a new row. A row with the same natural key already present
// makes this a silent no-op. Only when a row was written does e get its id
// (a new UUID unless one was set) and timestamps; after a conflict e is left
// as it was.
func (r *Repository[T]) Insert(ctx context.Context, e *T) error {
	rec := r.t.record(e)
	id := rec.ID
	if id == "" {
		id = uuid.New().String()
	}
	now := r.now().UTC()

	cols := r.selectList()
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(r.t.columns)+4), ", ")

	args := make([]any, 0, len(r.t.columns)+4)
	args = append(args, id)
	args = append(args, r.t.values(e)...)
	args = append(args, formatTime(now), formatTime(now), formatTime(now))

	query := fmt.Sprintf(`INSERT INTO %s (%s) VALUES (%s) ON CONFLICT(%s) DO NOTHING`,
		r.t.name, cols, placeholders, r.t.key)
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return domain.E(domain.KindStorage, "inserting "+r.t.entity, err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return nil
	}
	rec.ID = id
	rec.Created, rec.Modified, rec.Accessed = now, now, now
	return nil
}

// Fetch returns the rows selected by f, never nil.
func (r *Repository[T]) Fetch(ctx context.Context, f Filter) ([]T, error) {
	query := fmt.Sprintf("SELECT %s FROM %s", r.selectList(), r.t.name)
	var args []any
	switch {
	case f.ID != "":
		query += " WHERE id = ?"
		args = append(args, f.ID)
	case f.Limit > 0:
		query += " LIMIT ?"
		args = append(args, f.Limit)
	case f.Key != "":
		query += fmt.Sprintf(" WHERE %s = ?", r.t.key)
		args = append(args, f.Key)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, domain.E(domain.KindStorage, "querying "+r.t.entity, err)
	}
	defer rows.Close()

	items := []T{}
	for rows.Next() {
		var item T
		if err := r.scan(rows, &item); err != nil {
			return nil, domain.E(domain.KindStorage, "scanning "+r.t.entity, err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.E(domain.KindStorage, "iterating "+r.t.entity, err)
	}
	return items, nil
}

func (r *Repository[T]) scan(s scanner, item *T) error {
	rec := r.t.record(item)
	var created, modified, accessed string

	dests := make([]any, 0, len(r.t.columns)+4)
	dests = append(dests, &rec.ID)
	dests = append(dests, r.t.dests(item)...)
	dests = append(dests, &created, &modified, &accessed)
	if err := s.Scan(dests...); err != nil {
		return err
	}

	rec.Created = parseTime(created)
	rec.Modified = parseTime(modified)
	rec.Accessed = parseTime(accessed)
	return nil
}

// Get returns the row with the given id or a NotFound error.
func (r *Repository[T]) Get(ctx context.Context, id string) (*T, error) {
	if id == "" {
		return nil, domain.NotFound(r.t.entity, id)
	}
	items, err := r.Fetch(ctx, Filter{ID: id})
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, domain.NotFound(r.t.entity, id)
	}
	return &items[0], nil
}

// ByKey returns the row with the given natural key, or nil if none exists.
func (r *Repository[T]) ByKey(ctx context.Context, key string) (*T, error) {
	if key == "" {
		return nil, nil
	}
	items, err := r.Fetch(ctx, Filter{Key: key})
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, nil
	}
	return &items[0], nil
}

// Update overwrites every mutable column of the row identified by e's ID and
// refreshes its modified and accessed timestamps. Returns a NotFound error
// when no row has that ID.
func (r *Repository[T]) Update(ctx context.Context, e *T) error {
	rec := r.t.record(e)
	now := r.now().UTC()

	sets := make([]string, 0, len(r.t.columns)+2)
	for _, c := range r.t.columns {
		sets = append(sets, c+" = ?")
	}
	sets = append(sets, "modified = ?", "accessed = ?")

	args := make([]any, 0, len(r.t.columns)+3)
	args = append(args, r.t.values(e)...)
	args = append(args, formatTime(now), formatTime(now), rec.ID)

	query := fmt.Sprintf("UPDATE %s SET %s WHERE id = ?", r.t.name, strings.Join(sets, ", "))
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return domain.E(domain.KindStorage, "updating "+r.t.entity, err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.NotFound(r.t.entity, rec.ID)
	}

	rec.Modified, rec.Accessed = now, now
	return nil
}

// Delete removes the row. A missing id is not an error.
func (r *Repository[T]) Delete(ctx context.Context, id string) error {
	query := fmt.Sprintf("DELETE FROM %s WHERE id = ?", r.t.name)
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return domain.E(domain.KindStorage, "deleting "+r.t.entity, err)
	}
	return nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// parseTime accepts our own format and SQLite's CURRENT_TIMESTAMP format.
func parseTime(s string) time.Time {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t
	}
	if t, err := time.Parse(time.DateTime, s); err == nil {
		return t
	}
	return time.Time{}
}

// optional scans a nullable TEXT column into a string, NULL becoming "".
type optional struct {
	s *string
}

func (o optional) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*o.s = ""
	case string:
		*o.s = v
	case []byte:
		*o.s = string(v)
	default:
		return fmt.Errorf("unsupported type %T for text column", src)
	}
	return nil
}

// nullable stores an empty string as NULL.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
