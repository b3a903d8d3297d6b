package db

import (
	"crypto/sha256"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/pkanduri1/fabric-transform/migrations"
)

// MigrationStatus represents the state of a single migration.
type MigrationStatus struct {
	ID          string
	Checksum    string
	Applied     bool
	AppliedAt   *time.Time
	ExecutionMs int64
}

// migrationFile is one embedded migration, identified by its base filename.
type migrationFile struct {
	Name     string
	Checksum string
	SQL      string
}

// MigrateUp applies every pending migration for the connected driver, in
// filename order, each inside its own transaction. Applied migrations are
// verified against their recorded SHA256 checksum first; an edited file
// that has already run aborts the whole operation.
func MigrateUp(db *sqlx.DB) error {
	files, err := loadMigrations(db.DriverName())
	if err != nil {
		return err
	}

	if err := ensureMigrationsTable(db); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	applied, err := appliedChecksums(db)
	if err != nil {
		return fmt.Errorf("failed to query applied migrations: %w", err)
	}
	if err := verifyChecksums(files, applied); err != nil {
		return fmt.Errorf("migration checksum validation failed: %w", err)
	}

	for _, f := range files {
		if _, done := applied[f.Name]; done {
			continue
		}

		start := time.Now()

		// One transaction per migration: if recording fails the schema
		// change rolls back with it, so reruns stay consistent.
		tx, err := db.Beginx()
		if err != nil {
			return fmt.Errorf("failed to begin transaction for migration %s: %w", f.Name, err)
		}
		if err := runStatements(tx, f.SQL); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to apply migration %s: %w", f.Name, err)
		}
		if err := recordMigration(tx, f, time.Since(start)); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to record migration %s: %w", f.Name, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("failed to commit migration %s: %w", f.Name, err)
		}
	}

	return nil
}

// MigrateStatus returns the status of all migrations, applied and pending.
func MigrateStatus(db *sqlx.DB) ([]MigrationStatus, error) {
	files, err := loadMigrations(db.DriverName())
	if err != nil {
		return nil, err
	}

	if err := ensureMigrationsTable(db); err != nil {
		return nil, fmt.Errorf("failed to create migrations table: %w", err)
	}

	rows, err := db.Queryx("SELECT migration_id, checksum, applied_at, execution_ms FROM migrations")
	if err != nil {
		return nil, fmt.Errorf("failed to query migrations: %w", err)
	}
	defer rows.Close()

	applied := make(map[string]MigrationStatus)
	for rows.Next() {
		var status MigrationStatus
		if err := rows.Scan(&status.ID, &status.Checksum, &status.AppliedAt, &status.ExecutionMs); err != nil {
			return nil, err
		}
		status.Applied = true
		applied[status.ID] = status
	}

	statuses := make([]MigrationStatus, 0, len(files))
	for _, f := range files {
		if s, ok := applied[f.Name]; ok {
			statuses = append(statuses, s)
			continue
		}
		statuses = append(statuses, MigrationStatus{ID: f.Name, Checksum: f.Checksum})
	}

	return statuses, nil
}

// loadMigrations reads the embedded migration directory for a driver and
// returns its files sorted by name, each with a SHA256 checksum.
func loadMigrations(driver string) ([]migrationFile, error) {
	var fsys fs.FS
	var dir string
	switch driver {
	case "sqlite3":
		fsys, dir = migrations.SqliteMigrations, "sqlite"
	case "postgres":
		fsys, dir = migrations.PostgresMigrations, "postgres"
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", driver)
	}

	var files []migrationFile
	err := fs.WalkDir(fsys, dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".sql") {
			return nil
		}
		content, err := fs.ReadFile(fsys, path)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}
		files = append(files, migrationFile{
			Name:     filepath.Base(path),
			Checksum: fmt.Sprintf("%x", sha256.Sum256(content)),
			SQL:      string(content),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse migrations: %w", err)
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].Name < files[j].Name
	})
	return files, nil
}

func ensureMigrationsTable(db *sqlx.DB) error {
	createSQL := `
		CREATE TABLE IF NOT EXISTS migrations (
			migration_id TEXT PRIMARY KEY,
			checksum TEXT NOT NULL,
			applied_at TIMESTAMP WITHOUT TIME ZONE NOT NULL,
			execution_ms INTEGER NOT NULL
		)
	`
	if db.DriverName() == "sqlite3" {
		createSQL = `
			CREATE TABLE IF NOT EXISTS migrations (
				migration_id TEXT PRIMARY KEY,
				checksum TEXT NOT NULL,
				applied_at TEXT NOT NULL,
				execution_ms INTEGER NOT NULL,
				CHECK (applied_at LIKE '____-__-__T__:__:__Z')
			)
		`
	}
	_, err := db.Exec(createSQL)
	return err
}

// appliedChecksums returns migration_id -> checksum for every applied
// migration. Doubles as the applied set for the pending scan.
func appliedChecksums(db *sqlx.DB) (map[string]string, error) {
	rows, err := db.Queryx("SELECT migration_id, checksum FROM migrations")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	applied := make(map[string]string)
	for rows.Next() {
		var id, checksum string
		if err := rows.Scan(&id, &checksum); err != nil {
			return nil, err
		}
		applied[id] = checksum
	}
	return applied, nil
}

// verifyChecksums rejects applied migrations whose embedded file changed or
// disappeared.
func verifyChecksums(files []migrationFile, applied map[string]string) error {
	embedded := make(map[string]string, len(files))
	for _, f := range files {
		embedded[f.Name] = f.Checksum
	}
	for id, got := range applied {
		want, ok := embedded[id]
		if !ok {
			return fmt.Errorf("migration %s exists in database but not in embedded files", id)
		}
		if got != want {
			return fmt.Errorf("checksum mismatch for migration %s: expected %s, got %s", id, want, got)
		}
	}
	return nil
}

// runStatements executes one migration file statement by statement.
// lib/pq rejects multiple statements per Exec, so the file is split on
// semicolons; chunks that are empty or open with a comment are skipped.
func runStatements(tx *sqlx.Tx, sqlText string) error {
	for _, stmt := range strings.Split(sqlText, ";") {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" || strings.HasPrefix(stmt, "--") {
			continue
		}
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("statement failed: %w", err)
		}
	}
	return nil
}

func recordMigration(tx *sqlx.Tx, f migrationFile, duration time.Duration) error {
	now := time.Now().UTC()
	// sqlite stores the timestamp as an RFC3339 string, postgres natively.
	var appliedAt any = now
	if tx.DriverName() == "sqlite3" {
		appliedAt = now.Format(time.RFC3339)
	}
	stmt := tx.Rebind("INSERT INTO migrations (migration_id, checksum, applied_at, execution_ms) VALUES (?, ?, ?, ?)")
	_, err := tx.Exec(stmt, f.Name, f.Checksum, appliedAt, duration.Milliseconds())
	return err
}
