// Copyright 2026 Sitesmith Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package sitestore persists websites, content types, components, and
// content entries in SQLite. The store doubles as the transaction manager
// for tool execution and as the catalog backing dynamic context building.
package sitestore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	_ "github.com/sitesmith-labs/anvil/internal/sqlitedriver" // registers "sqlite3" driver
	"github.com/sitesmith-labs/anvil/pkg/contenttype"
	"github.com/sitesmith-labs/anvil/pkg/toolkit"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// Website is a stored website record.
type Website struct {
	ID        string
	Name      string
	CreatedAt time.Time
}

// Entry is a stored content entry.
type Entry struct {
	ID        string
	WebsiteID string
	TypeName  string
	Values    map[string]interface{}
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Store is a SQLite-backed persistence layer.
type Store struct {
	db     *sql.DB
	logger *zap.Logger
}

// Open opens (or creates) the database at path and initializes the schema.
func Open(path string, logger *zap.Logger) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open database %q: %w", path, err)
	}

	// WAL for concurrent readers, busy timeout for lock contention.
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 10000",
		"PRAGMA foreign_keys = ON",
	} {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply %q: %w", pragma, err)
		}
	}

	s := &Store{db: db, logger: logger}
	if err := s.initSchema(); err != nil {
		_ = db.Close()
		return nil, err
	}

	logger.Debug("site store opened", zap.String("path", path))
	return s, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) initSchema() error {
	schema := `
		CREATE TABLE IF NOT EXISTS websites (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			created_at INTEGER NOT NULL
		);

		CREATE TABLE IF NOT EXISTS content_types (
			website_id TEXT NOT NULL REFERENCES websites(id) ON DELETE CASCADE,
			name TEXT NOT NULL,
			category TEXT NOT NULL,
			fields_json TEXT NOT NULL,
			relationships_json TEXT NOT NULL,
			created_at INTEGER NOT NULL,
			PRIMARY KEY (website_id, name)
		);

		CREATE TABLE IF NOT EXISTS components (
			website_id TEXT NOT NULL REFERENCES websites(id) ON DELETE CASCADE,
			name TEXT NOT NULL,
			purpose TEXT NOT NULL,
			PRIMARY KEY (website_id, name)
		);

		CREATE TABLE IF NOT EXISTS content_entries (
			id TEXT PRIMARY KEY,
			website_id TEXT NOT NULL REFERENCES websites(id) ON DELETE CASCADE,
			type_name TEXT NOT NULL,
			values_json TEXT NOT NULL,
			created_at INTEGER NOT NULL,
			updated_at INTEGER NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_content_entries_website_type
			ON content_entries(website_id, type_name);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("initialize schema: %w", err)
	}
	return nil
}

// WithTransaction runs fn inside a database transaction, committing when fn
// returns nil and rolling back otherwise. The toolkit.Tx handed to fn is a
// *sql.Tx.
func (s *Store) WithTransaction(ctx context.Context, fn func(tx toolkit.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			s.logger.Warn("rollback failed", zap.Error(rbErr))
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// querier is the read/write surface shared by *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// unwrap resolves a toolkit.Tx to a querier, falling back to the plain
// connection when no transaction is in flight.
func (s *Store) unwrap(tx toolkit.Tx) (querier, error) {
	if tx == nil {
		return s.db, nil
	}
	sqlTx, ok := tx.(*sql.Tx)
	if !ok {
		return nil, fmt.Errorf("unexpected transaction handle %T", tx)
	}
	return sqlTx, nil
}

// CreateWebsite inserts a new website and returns its record.
func (s *Store) CreateWebsite(ctx context.Context, tx toolkit.Tx, name string) (*Website, error) {
	q, err := s.unwrap(tx)
	if err != nil {
		return nil, err
	}
	w := &Website{
		ID:        uuid.NewString(),
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}
	_, err = q.ExecContext(ctx,
		"INSERT INTO websites (id, name, created_at) VALUES (?, ?, ?)",
		w.ID, w.Name, w.CreatedAt.Unix())
	if err != nil {
		return nil, fmt.Errorf("create website %q: %w", name, err)
	}
	return w, nil
}

// GetWebsite fetches a website by id.
func (s *Store) GetWebsite(ctx context.Context, id string) (*Website, error) {
	var (
		w         Website
		createdAt int64
	)
	err := s.db.QueryRowContext(ctx,
		"SELECT id, name, created_at FROM websites WHERE id = ?", id).
		Scan(&w.ID, &w.Name, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("website %q: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get website %q: %w", id, err)
	}
	w.CreatedAt = time.Unix(createdAt, 0).UTC()
	return &w, nil
}

// DeleteWebsite removes a website. Content types, components, and entries
// cascade.
func (s *Store) DeleteWebsite(ctx context.Context, tx toolkit.Tx, id string) error {
	q, err := s.unwrap(tx)
	if err != nil {
		return err
	}
	res, err := q.ExecContext(ctx, "DELETE FROM websites WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete website %q: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("website %q: %w", id, ErrNotFound)
	}
	return nil
}

// SaveContentType upserts a content type definition for a website.
func (s *Store) SaveContentType(ctx context.Context, tx toolkit.Tx, websiteID string, def contenttype.Definition) error {
	q, err := s.unwrap(tx)
	if err != nil {
		return err
	}
	fieldsJSON, err := json.Marshal(def.Fields)
	if err != nil {
		return fmt.Errorf("marshal fields for %q: %w", def.Name, err)
	}
	relsJSON, err := json.Marshal(def.Relationships)
	if err != nil {
		return fmt.Errorf("marshal relationships for %q: %w", def.Name, err)
	}
	_, err = q.ExecContext(ctx, `
		INSERT INTO content_types (website_id, name, category, fields_json, relationships_json, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (website_id, name) DO UPDATE SET
			category = excluded.category,
			fields_json = excluded.fields_json,
			relationships_json = excluded.relationships_json`,
		websiteID, def.Name, string(def.Category), string(fieldsJSON), string(relsJSON), time.Now().Unix())
	if err != nil {
		return fmt.Errorf("save content type %q: %w", def.Name, err)
	}
	return nil
}

// LoadContentTypes returns all content types for a website in creation
// order.
func (s *Store) LoadContentTypes(ctx context.Context, websiteID string) ([]contenttype.Definition, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT name, category, fields_json, relationships_json
		FROM content_types WHERE website_id = ?
		ORDER BY created_at, name`, websiteID)
	if err != nil {
		return nil, fmt.Errorf("load content types for %q: %w", websiteID, err)
	}
	defer func() { _ = rows.Close() }()

	var defs []contenttype.Definition
	for rows.Next() {
		var (
			def        contenttype.Definition
			category   string
			fieldsJSON string
			relsJSON   string
		)
		if err := rows.Scan(&def.Name, &category, &fieldsJSON, &relsJSON); err != nil {
			return nil, fmt.Errorf("scan content type: %w", err)
		}
		def.Category = contenttype.Category(category)
		if err := json.Unmarshal([]byte(fieldsJSON), &def.Fields); err != nil {
			return nil, fmt.Errorf("unmarshal fields for %q: %w", def.Name, err)
		}
		if err := json.Unmarshal([]byte(relsJSON), &def.Relationships); err != nil {
			return nil, fmt.Errorf("unmarshal relationships for %q: %w", def.Name, err)
		}
		defs = append(defs, def)
	}
	return defs, rows.Err()
}

// GetContentType fetches one content type by name.
func (s *Store) GetContentType(ctx context.Context, websiteID, name string) (*contenttype.Definition, error) {
	defs, err := s.LoadContentTypes(ctx, websiteID)
	if err != nil {
		return nil, err
	}
	for i := range defs {
		if defs[i].Name == name {
			return &defs[i], nil
		}
	}
	return nil, fmt.Errorf("content type %q: %w", name, ErrNotFound)
}

// SaveComponent upserts a reusable component.
func (s *Store) SaveComponent(ctx context.Context, tx toolkit.Tx, websiteID string, c contenttype.Component) error {
	q, err := s.unwrap(tx)
	if err != nil {
		return err
	}
	_, err = q.ExecContext(ctx, `
		INSERT INTO components (website_id, name, purpose) VALUES (?, ?, ?)
		ON CONFLICT (website_id, name) DO UPDATE SET purpose = excluded.purpose`,
		websiteID, c.Name, c.Purpose)
	if err != nil {
		return fmt.Errorf("save component %q: %w", c.Name, err)
	}
	return nil
}

// LoadReusableComponents returns all components for a website.
func (s *Store) LoadReusableComponents(ctx context.Context, websiteID string) ([]contenttype.Component, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT name, purpose FROM components WHERE website_id = ? ORDER BY name", websiteID)
	if err != nil {
		return nil, fmt.Errorf("load components for %q: %w", websiteID, err)
	}
	defer func() { _ = rows.Close() }()

	var components []contenttype.Component
	for rows.Next() {
		var c contenttype.Component
		if err := rows.Scan(&c.Name, &c.Purpose); err != nil {
			return nil, fmt.Errorf("scan component: %w", err)
		}
		components = append(components, c)
	}
	return components, rows.Err()
}

// CreateEntry inserts a content entry for an existing content type.
func (s *Store) CreateEntry(ctx context.Context, tx toolkit.Tx, websiteID, typeName string, values map[string]interface{}) (*Entry, error) {
	q, err := s.unwrap(tx)
	if err != nil {
		return nil, err
	}
	valuesJSON, err := json.Marshal(values)
	if err != nil {
		return nil, fmt.Errorf("marshal entry values: %w", err)
	}
	now := time.Now().UTC()
	e := &Entry{
		ID:        uuid.NewString(),
		WebsiteID: websiteID,
		TypeName:  typeName,
		Values:    values,
		CreatedAt: now,
		UpdatedAt: now,
	}
	_, err = q.ExecContext(ctx, `
		INSERT INTO content_entries (id, website_id, type_name, values_json, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		e.ID, e.WebsiteID, e.TypeName, string(valuesJSON), now.Unix(), now.Unix())
	if err != nil {
		return nil, fmt.Errorf("create entry for %q: %w", typeName, err)
	}
	return e, nil
}

// UpdateEntry replaces an entry's values.
func (s *Store) UpdateEntry(ctx context.Context, tx toolkit.Tx, id string, values map[string]interface{}) error {
	q, err := s.unwrap(tx)
	if err != nil {
		return err
	}
	valuesJSON, err := json.Marshal(values)
	if err != nil {
		return fmt.Errorf("marshal entry values: %w", err)
	}
	res, err := q.ExecContext(ctx,
		"UPDATE content_entries SET values_json = ?, updated_at = ? WHERE id = ?",
		string(valuesJSON), time.Now().Unix(), id)
	if err != nil {
		return fmt.Errorf("update entry %q: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("entry %q: %w", id, ErrNotFound)
	}
	return nil
}

// DeleteEntry removes an entry.
func (s *Store) DeleteEntry(ctx context.Context, tx toolkit.Tx, id string) error {
	q, err := s.unwrap(tx)
	if err != nil {
		return err
	}
	res, err := q.ExecContext(ctx, "DELETE FROM content_entries WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete entry %q: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("entry %q: %w", id, ErrNotFound)
	}
	return nil
}

// GetEntry fetches a content entry by id.
func (s *Store) GetEntry(ctx context.Context, id string) (*Entry, error) {
	var (
		e          Entry
		valuesJSON string
		createdAt  int64
		updatedAt  int64
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT id, website_id, type_name, values_json, created_at, updated_at
		FROM content_entries WHERE id = ?`, id).
		Scan(&e.ID, &e.WebsiteID, &e.TypeName, &valuesJSON, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("entry %q: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get entry %q: %w", id, err)
	}
	if err := json.Unmarshal([]byte(valuesJSON), &e.Values); err != nil {
		return nil, fmt.Errorf("unmarshal entry values for %q: %w", id, err)
	}
	e.CreatedAt = time.Unix(createdAt, 0).UTC()
	e.UpdatedAt = time.Unix(updatedAt, 0).UTC()
	return &e, nil
}
