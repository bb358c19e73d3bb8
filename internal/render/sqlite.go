package render

import (
	"database/sql"
	"fmt"
	"os"

	_ "modernc.org/sqlite"

	"depscope/internal/errors"
	"depscope/internal/graph"
)

// SaveSQLite exports the graph to a SQLite database. The database is a
// write-only artifact, rebuilt from scratch on every run; nothing in the
// analyzer ever reads it back.
func (r *Renderer) SaveSQLite(path string) error {
	if err := r.writeDatabase(path); err != nil {
		return errors.NewDepscopeError(errors.RenderFailed,
			"failed to export SQLite database: "+path, err, nil, nil)
	}
	r.logger.Info("output written", "path", path, "format", "sqlite")
	return nil
}

func (r *Renderer) writeDatabase(path string) error {
	// Always start clean; stale rows from a previous run must not survive.
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove existing database: %w", err)
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer conn.Close()

	pragmas := []string{
		"PRAGMA journal_mode=OFF",
		"PRAGMA synchronous=OFF",
		"PRAGMA foreign_keys=ON",
	}
	for _, pragma := range pragmas {
		if _, err := conn.Exec(pragma); err != nil {
			return fmt.Errorf("failed to set pragma: %w", err)
		}
	}

	schema := `
		CREATE TABLE files (
			path TEXT PRIMARY KEY,
			imports_count INTEGER NOT NULL,
			imported_by_count INTEGER NOT NULL,
			external_count INTEGER NOT NULL
		);

		CREATE TABLE edges (
			from_path TEXT NOT NULL REFERENCES files(path),
			to_path TEXT NOT NULL REFERENCES files(path),
			PRIMARY KEY (from_path, to_path)
		);

		CREATE TABLE externals (
			from_path TEXT NOT NULL REFERENCES files(path),
			module TEXT NOT NULL,
			PRIMARY KEY (from_path, module)
		);
	`
	if _, err := conn.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	tx, err := conn.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	insertFile, err := tx.Prepare("INSERT INTO files (path, imports_count, imported_by_count, external_count) VALUES (?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("failed to prepare file insert: %w", err)
	}
	defer insertFile.Close()

	insertEdge, err := tx.Prepare("INSERT INTO edges (from_path, to_path) VALUES (?, ?)")
	if err != nil {
		return fmt.Errorf("failed to prepare edge insert: %w", err)
	}
	defer insertEdge.Close()

	insertExternal, err := tx.Prepare("INSERT INTO externals (from_path, module) VALUES (?, ?)")
	if err != nil {
		return fmt.Errorf("failed to prepare external insert: %w", err)
	}
	defer insertExternal.Close()

	paths := r.sortedNodePaths()
	for _, path := range paths {
		node := r.graph.Nodes[path]
		rel := r.graph.RelPath(path)
		if _, err := insertFile.Exec(rel, len(node.Imports), len(node.ImportedBy), len(node.Externals)); err != nil {
			return fmt.Errorf("failed to insert file %s: %w", rel, err)
		}
	}
	for _, path := range paths {
		rel := r.graph.RelPath(path)
		for _, to := range graph.SortedKeys(r.graph.Nodes[path].Imports) {
			if _, err := insertEdge.Exec(rel, r.graph.RelPath(to)); err != nil {
				return fmt.Errorf("failed to insert edge %s: %w", rel, err)
			}
		}
		for _, module := range graph.SortedKeys(r.graph.Nodes[path].Externals) {
			if _, err := insertExternal.Exec(rel, module); err != nil {
				return fmt.Errorf("failed to insert external %s: %w", rel, err)
			}
		}
	}

	return tx.Commit()
}
