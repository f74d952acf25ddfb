// Package storage persists published texts in SQLite. It supports both
// the pure Go driver (default) and the CGO driver (cgo_sqlite build
// tag); use Open instead of sql.Open so the right driver is selected.
//
// Republishing a text goes through ApplyDocument, which aligns the new
// document against the stored blocks and updates rows in place wherever
// possible, so block row identity survives a republish.
package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/zeebo/blake3"

	"github.com/sahitya-io/grantha/core/align"
	"github.com/sahitya-io/grantha/core/publish"
)

// DriverType identifies the compiled-in implementation: "purego" or
// "cgo".
func DriverType() string {
	return driverType
}

// IsCGO reports whether the CGO driver is in use.
func IsCGO() bool {
	return driverType == "cgo"
}

const schema = `
CREATE TABLE IF NOT EXISTS texts (
	id     TEXT PRIMARY KEY,
	slug   TEXT NOT NULL UNIQUE,
	title  TEXT NOT NULL,
	author TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS sections (
	id       TEXT PRIMARY KEY,
	text_id  TEXT NOT NULL REFERENCES texts(id) ON DELETE CASCADE,
	slug     TEXT NOT NULL,
	title    TEXT NOT NULL DEFAULT '',
	position INTEGER NOT NULL,
	UNIQUE (text_id, slug)
);

CREATE TABLE IF NOT EXISTS blocks (
	id         TEXT PRIMARY KEY,
	text_id    TEXT NOT NULL REFERENCES texts(id) ON DELETE CASCADE,
	section_id TEXT NOT NULL REFERENCES sections(id) ON DELETE CASCADE,
	slug       TEXT NOT NULL,
	xml        TEXT NOT NULL,
	hash       TEXT NOT NULL,
	page_id    INTEGER NOT NULL,
	position   INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS blocks_by_text ON blocks (text_id, position);
`

// Store wraps the database handle.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the database at path and applies the
// schema. Use ":memory:" for an in-memory store.
func Open(path string) (*Store, error) {
	db, err := sql.Open(driverName, path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	if path == ":memory:" {
		// The pool would otherwise hand out fresh empty databases.
		db.SetMaxOpenConns(1)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Text is one published text.
type Text struct {
	ID     string
	Slug   string
	Title  string
	Author string
}

// BlockRow is one stored block.
type BlockRow struct {
	ID        string
	SectionID string
	Slug      string
	XML       string
	Hash      string
	PageID    int
	Position  int
}

// hashXML fingerprints a block fragment, used to skip no-op updates on
// republish.
func hashXML(xml string) string {
	sum := blake3.Sum256([]byte(xml))
	return fmt.Sprintf("%x", sum)
}

// UpsertText creates or updates the text record for slug and returns it.
func (s *Store) UpsertText(ctx context.Context, slug, title, author string) (Text, error) {
	var t Text
	err := s.db.QueryRowContext(ctx,
		`SELECT id, slug, title, author FROM texts WHERE slug = ?`, slug,
	).Scan(&t.ID, &t.Slug, &t.Title, &t.Author)
	switch {
	case err == sql.ErrNoRows:
		t = Text{ID: uuid.NewString(), Slug: slug, Title: title, Author: author}
		_, err = s.db.ExecContext(ctx,
			`INSERT INTO texts (id, slug, title, author) VALUES (?, ?, ?, ?)`,
			t.ID, t.Slug, t.Title, t.Author)
		return t, err
	case err != nil:
		return Text{}, err
	}
	if t.Title != title || t.Author != author {
		if _, err := s.db.ExecContext(ctx,
			`UPDATE texts SET title = ?, author = ? WHERE id = ?`, title, author, t.ID); err != nil {
			return Text{}, err
		}
		t.Title, t.Author = title, author
	}
	return t, nil
}

// TextBySlug fetches a text record.
func (s *Store) TextBySlug(ctx context.Context, slug string) (Text, error) {
	var t Text
	err := s.db.QueryRowContext(ctx,
		`SELECT id, slug, title, author FROM texts WHERE slug = ?`, slug,
	).Scan(&t.ID, &t.Slug, &t.Title, &t.Author)
	return t, err
}

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// Blocks returns a text's stored blocks in publication order.
func (s *Store) Blocks(ctx context.Context, textID string) ([]BlockRow, error) {
	return queryBlocks(ctx, s.db, textID)
}

func queryBlocks(ctx context.Context, q querier, textID string) ([]BlockRow, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT id, section_id, slug, xml, hash, page_id, position
		 FROM blocks WHERE text_id = ? ORDER BY position`, textID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []BlockRow
	for rows.Next() {
		var b BlockRow
		if err := rows.Scan(&b.ID, &b.SectionID, &b.Slug, &b.XML, &b.Hash, &b.PageID, &b.Position); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// ApplyStats summarizes what one ApplyDocument call did.
type ApplyStats struct {
	Inserted  int
	Updated   int
	Deleted   int
	Unchanged int
}

// ApplyDocument replaces a text's content with a freshly assembled
// document inside one transaction. Stored blocks are aligned against the
// new blocks by fragment content: aligned rows are updated in place
// (keeping their ids), unmatched old rows are deleted, unmatched new
// blocks are inserted. Rows whose fragment hash, slug, and section are
// unchanged are left untouched.
func (s *Store) ApplyDocument(ctx context.Context, textID string, doc *publish.Document) (ApplyStats, error) {
	var stats ApplyStats

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return stats, err
	}
	defer tx.Rollback()

	sectionIDs, err := syncSections(ctx, tx, textID, doc)
	if err != nil {
		return stats, err
	}

	existing, err := queryBlocks(ctx, tx, textID)
	if err != nil {
		return stats, err
	}

	type newBlock struct {
		publish.Block
		sectionID string
	}
	var incoming []newBlock
	for _, section := range doc.Sections {
		for _, b := range section.Blocks {
			incoming = append(incoming, newBlock{Block: b, sectionID: sectionIDs[section.Slug]})
		}
	}

	oldXMLs := make([]string, len(existing))
	for i, b := range existing {
		oldXMLs[i] = b.XML
	}
	newXMLs := make([]string, len(incoming))
	for i, b := range incoming {
		newXMLs[i] = b.XML
	}

	position := 0
	for _, pair := range align.Pairs(oldXMLs, newXMLs) {
		switch {
		case pair.Old >= 0 && pair.New >= 0:
			position++
			old := existing[pair.Old]
			nb := incoming[pair.New]
			hash := hashXML(nb.XML)
			if old.Hash == hash && old.Slug == nb.Slug &&
				old.SectionID == nb.sectionID && old.Position == position && old.PageID == nb.PageID {
				stats.Unchanged++
				continue
			}
			if _, err := tx.ExecContext(ctx,
				`UPDATE blocks SET section_id = ?, slug = ?, xml = ?, hash = ?, page_id = ?, position = ?
				 WHERE id = ?`,
				nb.sectionID, nb.Slug, nb.XML, hash, nb.PageID, position, old.ID); err != nil {
				return stats, err
			}
			stats.Updated++
		case pair.Old >= 0:
			if _, err := tx.ExecContext(ctx,
				`DELETE FROM blocks WHERE id = ?`, existing[pair.Old].ID); err != nil {
				return stats, err
			}
			stats.Deleted++
		default:
			position++
			nb := incoming[pair.New]
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO blocks (id, text_id, section_id, slug, xml, hash, page_id, position)
				 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
				uuid.NewString(), textID, nb.sectionID, nb.Slug, nb.XML,
				hashXML(nb.XML), nb.PageID, position); err != nil {
				return stats, err
			}
			stats.Inserted++
		}
	}

	if err := tx.Commit(); err != nil {
		return stats, err
	}
	return stats, nil
}

// syncSections reconciles a text's stored sections with the document's,
// returning section ids keyed by slug.
func syncSections(ctx context.Context, tx *sql.Tx, textID string, doc *publish.Document) (map[string]string, error) {
	rows, err := tx.QueryContext(ctx,
		`SELECT id, slug FROM sections WHERE text_id = ?`, textID)
	if err != nil {
		return nil, err
	}
	existing := make(map[string]string)
	for rows.Next() {
		var id, slug string
		if err := rows.Scan(&id, &slug); err != nil {
			rows.Close()
			return nil, err
		}
		existing[slug] = id
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	ids := make(map[string]string)
	for i, section := range doc.Sections {
		id, ok := existing[section.Slug]
		if ok {
			if _, err := tx.ExecContext(ctx,
				`UPDATE sections SET title = ?, position = ? WHERE id = ?`,
				section.Title, i+1, id); err != nil {
				return nil, err
			}
			delete(existing, section.Slug)
		} else {
			id = uuid.NewString()
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO sections (id, text_id, slug, title, position) VALUES (?, ?, ?, ?, ?)`,
				id, textID, section.Slug, section.Title, i+1); err != nil {
				return nil, err
			}
		}
		ids[section.Slug] = id
	}

	for _, id := range existing {
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM sections WHERE id = ?`, id); err != nil {
			return nil, err
		}
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM blocks WHERE section_id = ?`, id); err != nil {
			return nil, err
		}
	}
	return ids, nil
}
