package db

import (
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/qustavo/dotsql"
)

//go:embed queries/*.sql
var queriesFS embed.FS

// Queries resolves named SQL statements from the embedded queries/ tree.
// dotsql owns the name-to-statement index; statements are written with ?
// placeholders and rebound per driver, so one statement file serves both
// sqlite and postgres.
type Queries struct {
	dot *dotsql.DotSql
	db  *sqlx.DB
}

// LoadQueries concatenates every embedded .sql file and indexes its named
// statements ("create-template", "list-templates", ...).
func LoadQueries(db *sqlx.DB) (*Queries, error) {
	var combined strings.Builder
	err := fs.WalkDir(queriesFS, "queries", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || filepath.Ext(path) != ".sql" {
			return nil
		}
		content, err := queriesFS.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}
		combined.Write(content)
		combined.WriteByte('\n')
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load query files: %w", err)
	}

	dot, err := dotsql.LoadFromString(combined.String())
	if err != nil {
		return nil, fmt.Errorf("failed to parse queries: %w", err)
	}
	return &Queries{dot: dot, db: db}, nil
}

// raw looks up a named statement rebound for the active driver.
func (q *Queries) raw(name string) (string, error) {
	stmt, err := q.dot.Raw(name)
	if err != nil {
		return "", fmt.Errorf("query not found: %s", name)
	}
	return q.db.Rebind(stmt), nil
}

// Exec runs a named statement.
func (q *Queries) Exec(name string, args ...any) (sql.Result, error) {
	stmt, err := q.raw(name)
	if err != nil {
		return nil, err
	}
	return q.db.Exec(stmt, args...)
}

// Get scans a single row into dest.
func (q *Queries) Get(name string, dest any, args ...any) error {
	stmt, err := q.raw(name)
	if err != nil {
		return err
	}
	return q.db.Get(dest, stmt, args...)
}

// Select scans all rows into the dest slice.
func (q *Queries) Select(name string, dest any, args ...any) error {
	stmt, err := q.raw(name)
	if err != nil {
		return err
	}
	return q.db.Select(dest, stmt, args...)
}
