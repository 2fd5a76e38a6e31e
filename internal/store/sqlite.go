package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"courseforge/internal/content"
	"courseforge/internal/pagemap"
)

// SQLiteStore is the on-disk ContentStore. Page mappings and metadata
// are stored as JSON columns; the text itself is a plain column so it
// can be queried directly.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (or creates) the store at dbPath, enables WAL mode
// and creates the schema idempotently.
func OpenSQLite(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys=ON",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to execute %s: %w", p, err)
		}
	}

	schema := `CREATE TABLE IF NOT EXISTS contents (
		id           TEXT PRIMARY KEY,
		file_name    TEXT NOT NULL,
		mime_type    TEXT DEFAULT '',
		text         TEXT NOT NULL,
		page_count   INTEGER,
		is_estimated INTEGER NOT NULL DEFAULT 0,
		page_mapping TEXT,
		metadata     TEXT,
		created_at   DATETIME DEFAULT CURRENT_TIMESTAMP
	)`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create contents table: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error { return s.db.Close() }

func (s *SQLiteStore) Put(ctx context.Context, c *content.ExtractedContent) (*Record, error) {
	id := uuid.New().String()
	now := time.Now().UTC()

	mappingJSON, err := json.Marshal(c.PageMapping)
	if err != nil {
		return nil, fmt.Errorf("failed to encode page mapping: %w", err)
	}
	metaJSON, err := json.Marshal(c.Metadata)
	if err != nil {
		return nil, fmt.Errorf("failed to encode metadata: %w", err)
	}

	var pageCount sql.NullInt64
	if c.PageCount != nil {
		pageCount = sql.NullInt64{Int64: int64(*c.PageCount), Valid: true}
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO contents (id, file_name, mime_type, text, page_count, is_estimated, page_mapping, metadata, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, c.SourceFileName, c.MimeType, c.Text, pageCount, boolInt(c.IsEstimated), string(mappingJSON), string(metaJSON), now)
	if err != nil {
		return nil, fmt.Errorf("failed to insert content record: %w", err)
	}

	return &Record{ID: id, Content: c, CreatedAt: now}, nil
}

func (s *SQLiteStore) Get(ctx context.Context, id string) (*Record, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, file_name, mime_type, text, page_count, is_estimated, page_mapping, metadata, created_at
		 FROM contents WHERE id = ?`, id)
	rec, err := scanRecord(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	return rec, err
}

func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM contents WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete content record: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLiteStore) List(ctx context.Context) ([]*Record, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, file_name, mime_type, text, page_count, is_estimated, page_mapping, metadata, created_at
		 FROM contents ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list content records: %w", err)
	}
	defer rows.Close()

	var records []*Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (*Record, error) {
	var (
		rec         Record
		c           content.ExtractedContent
		pageCount   sql.NullInt64
		isEstimated int
		mappingJSON string
		metaJSON    string
	)
	err := row.Scan(&rec.ID, &c.SourceFileName, &c.MimeType, &c.Text,
		&pageCount, &isEstimated, &mappingJSON, &metaJSON, &rec.CreatedAt)
	if err != nil {
		return nil, err
	}

	if pageCount.Valid {
		v := int(pageCount.Int64)
		c.PageCount = &v
	}
	c.IsEstimated = isEstimated != 0

	if mappingJSON != "" && mappingJSON != "null" {
		var mapping []pagemap.PageSlice
		if err := json.Unmarshal([]byte(mappingJSON), &mapping); err != nil {
			return nil, fmt.Errorf("failed to decode page mapping: %w", err)
		}
		c.PageMapping = mapping
	}
	if metaJSON != "" && metaJSON != "null" {
		if err := json.Unmarshal([]byte(metaJSON), &c.Metadata); err != nil {
			return nil, fmt.Errorf("failed to decode metadata: %w", err)
		}
	}

	rec.Content = &c
	return &rec, nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
