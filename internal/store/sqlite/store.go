// Package sqlite loads index snapshots from an embedded SQLite database, the
// format the offline embedding step writes for larger corpora where a single
// JSON file becomes unwieldy.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/rix-ai/research-rag/internal/models"
)

const schema = `
CREATE TABLE IF NOT EXISTS snapshot_meta (
    key   TEXT PRIMARY KEY,
    value TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS documents (
    id         TEXT PRIMARY KEY,
    text       TEXT NOT NULL,
    embedding  TEXT NOT NULL,
    title      TEXT NOT NULL DEFAULT '',
    authors    TEXT NOT NULL DEFAULT '[]',
    category   TEXT NOT NULL DEFAULT '',
    year       INTEGER NOT NULL DEFAULT 0,
    source_url TEXT NOT NULL DEFAULT ''
);
`

// Store reads and writes snapshot databases. The query path only ever reads;
// writing exists so tests and the offline tooling can produce fixtures.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) a snapshot database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening snapshot db %s: %w", path, err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing snapshot schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Dimension returns the embedding dimensionality recorded in the snapshot.
func (s *Store) Dimension(ctx context.Context) (int, error) {
	var value string
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM snapshot_meta WHERE key = 'dimension'`).Scan(&value)
	if err == sql.ErrNoRows {
		return 0, fmt.Errorf("snapshot db missing dimension metadata")
	}
	if err != nil {
		return 0, err
	}
	var dim int
	if _, err := fmt.Sscanf(value, "%d", &dim); err != nil || dim <= 0 {
		return 0, fmt.Errorf("snapshot db has invalid dimension %q", value)
	}
	return dim, nil
}

// LoadDocuments reads every document in the snapshot. Embeddings are stored
// as JSON arrays, matching what the offline embedding step emits.
func (s *Store) LoadDocuments(ctx context.Context) ([]models.Document, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, text, embedding, title, authors, category, year, source_url
		 FROM documents ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("reading snapshot documents: %w", err)
	}
	defer rows.Close()

	var docs []models.Document
	for rows.Next() {
		var (
			doc           models.Document
			embeddingJSON string
			authorsJSON   string
		)
		if err := rows.Scan(&doc.ID, &doc.Text, &embeddingJSON,
			&doc.Metadata.Title, &authorsJSON, &doc.Metadata.Category,
			&doc.Metadata.Year, &doc.Metadata.SourceURL); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(embeddingJSON), &doc.Embedding); err != nil {
			return nil, fmt.Errorf("document %q: decoding embedding: %w", doc.ID, err)
		}
		if err := json.Unmarshal([]byte(authorsJSON), &doc.Metadata.Authors); err != nil {
			return nil, fmt.Errorf("document %q: decoding authors: %w", doc.ID, err)
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

// WriteSnapshot replaces the snapshot contents with the given documents.
func (s *Store) WriteSnapshot(ctx context.Context, dimension int, docs []models.Document) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM documents`); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT OR REPLACE INTO snapshot_meta (key, value) VALUES ('dimension', ?)`,
		fmt.Sprintf("%d", dimension)); err != nil {
		return err
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO documents (id, text, embedding, title, authors, category, year, source_url)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, doc := range docs {
		if len(doc.Embedding) != dimension {
			return fmt.Errorf("document %q has dimension %d, snapshot declares %d",
				doc.ID, len(doc.Embedding), dimension)
		}
		embeddingJSON, err := json.Marshal(doc.Embedding)
		if err != nil {
			return err
		}
		authors := doc.Metadata.Authors
		if authors == nil {
			authors = []string{}
		}
		authorsJSON, err := json.Marshal(authors)
		if err != nil {
			return err
		}
		if _, err := stmt.ExecContext(ctx, doc.ID, doc.Text, string(embeddingJSON),
			doc.Metadata.Title, string(authorsJSON), doc.Metadata.Category,
			doc.Metadata.Year, doc.Metadata.SourceURL); err != nil {
			return fmt.Errorf("inserting document %q: %w", doc.ID, err)
		}
	}

	return tx.Commit()
}
