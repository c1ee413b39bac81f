// Package storage persists generated journals into a local SQLite archive.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/Jeff-002/SlackToJournal/internal/domain"
	"github.com/Jeff-002/SlackToJournal/internal/ports"
)

const schema = `
CREATE TABLE IF NOT EXISTS journal_entries (
    id              TEXT PRIMARY KEY,
    kind            TEXT NOT NULL,
    period_start    INTEGER NOT NULL,
    period_end      INTEGER NOT NULL,
    message_count   INTEGER NOT NULL DEFAULT 0,
    content         TEXT NOT NULL,
    export_location TEXT NOT NULL DEFAULT '',
    created_at      INTEGER NOT NULL,
    UNIQUE (kind, period_start)
)`

// Open opens (creating if needed) the archive database at path.
func Open(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return db, nil
}

// SQLiteRepository archives generated journal entries.
type SQLiteRepository struct {
	db *sql.DB
}

var _ ports.JournalRepository = (*SQLiteRepository)(nil)

// NewSQLiteRepository wires a sql.DB implementation.
func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// SaveEntry upserts the generated journal snapshot for its period.
func (r *SQLiteRepository) SaveEntry(ctx context.Context, entry domain.JournalEntry) error {
	if r.db == nil {
		return nil
	}

	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}

	query, args, err := sq.Insert("journal_entries").
		Columns("id", "kind", "period_start", "period_end",
			"message_count", "content", "export_location", "created_at").
		Values(entry.ID, string(entry.Kind), entry.PeriodStart.Unix(), entry.PeriodEnd.Unix(),
			entry.MessageCount, entry.Content, entry.ExportLocation, entry.CreatedAt.Unix()).
		Suffix(`ON CONFLICT (kind, period_start) DO UPDATE SET
            message_count = excluded.message_count,
            content = excluded.content,
            export_location = excluded.export_location,
            created_at = excluded.created_at`).
		ToSql()
	if err != nil {
		return fmt.Errorf("build upsert: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert entry: %w", err)
	}
	return nil
}

// FindByPeriod returns the archived entry for a period start, or nil.
func (r *SQLiteRepository) FindByPeriod(ctx context.Context, kind domain.PeriodKind, start time.Time) (*domain.JournalEntry, error) {
	if r.db == nil {
		return nil, nil
	}

	query, args, err := sq.Select(entryColumns()...).
		From("journal_entries").
		Where(sq.Eq{"kind": string(kind), "period_start": start.Unix()}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	entry, err := scanEntry(r.db.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query entry: %w", err)
	}
	return &entry, nil
}

// ListRecent returns the newest archived entries, most recent first.
func (r *SQLiteRepository) ListRecent(ctx context.Context, limit int) ([]domain.JournalEntry, error) {
	if r.db == nil {
		return nil, nil
	}
	if limit <= 0 {
		limit = 10
	}

	query, args, err := sq.Select(entryColumns()...).
		From("journal_entries").
		OrderBy("created_at DESC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query entries: %w", err)
	}
	defer rows.Close()

	var entries []domain.JournalEntry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}
	return entries, nil
}

func entryColumns() []string {
	return []string{"id", "kind", "period_start", "period_end",
		"message_count", "content", "export_location", "created_at"}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (domain.JournalEntry, error) {
	var (
		entry                           domain.JournalEntry
		kind                            string
		periodStart, periodEnd, created int64
	)
	if err := row.Scan(&entry.ID, &kind, &periodStart, &periodEnd,
		&entry.MessageCount, &entry.Content, &entry.ExportLocation, &created); err != nil {
		return domain.JournalEntry{}, err
	}
	entry.Kind = domain.PeriodKind(kind)
	entry.PeriodStart = time.Unix(periodStart, 0)
	entry.PeriodEnd = time.Unix(periodEnd, 0)
	entry.CreatedAt = time.Unix(created, 0)
	return entry, nil
}
