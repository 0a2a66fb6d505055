package psql

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/Aesmazing/Boko-Hacks-2025/server/bsql"
)

// Migration is one versioned schema change, parsed from a
// "{version}_{name}.sql" file with "-- +migrate Up" / "-- +migrate
// Down" sections.
type Migration struct {
	Version string
	Name    string
	UpSQL   string
	DownSQL string
}

// MigrateUp applies every pending migration in version order.
func MigrateUp(db *bsql.DB, migrationsPath string) error {
	if err := createMigrationsTable(db); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	applied, err := appliedVersions(db)
	if err != nil {
		return fmt.Errorf("failed to get applied migrations: %w", err)
	}

	migrations, err := loadMigrations(migrationsPath)
	if err != nil {
		return fmt.Errorf("failed to load migrations: %w", err)
	}

	appliedSet := make(map[string]bool, len(applied))
	for _, v := range applied {
		appliedSet[v] = true
	}

	for _, m := range migrations {
		if appliedSet[m.Version] {
			continue
		}

		fmt.Printf("Applying migration %s: %s\n", m.Version, m.Name)

		if _, err := db.Exec(m.UpSQL); err != nil {
			return fmt.Errorf("failed to apply migration %s: %w", m.Version, err)
		}

		if _, err := db.Exec(
			"INSERT INTO schema_migrations (version, name) VALUES ($1, $2)",
			m.Version, m.Name,
		); err != nil {
			return fmt.Errorf("failed to record migration %s: %w", m.Version, err)
		}
	}

	return nil
}

// MigrateDown rolls back the most recent migrations, newest first.
func MigrateDown(db *bsql.DB, migrationsPath string, steps int) error {
	applied, err := appliedVersions(db)
	if err != nil {
		return fmt.Errorf("failed to get applied migrations: %w", err)
	}

	if len(applied) == 0 {
		fmt.Println("No migrations to rollback")
		return nil
	}

	migrations, err := loadMigrations(migrationsPath)
	if err != nil {
		return fmt.Errorf("failed to load migrations: %w", err)
	}

	byVersion := make(map[string]*Migration, len(migrations))
	for _, m := range migrations {
		byVersion[m.Version] = m
	}

	count := 0
	for i := len(applied) - 1; i >= 0 && count < steps; i-- {
		m, ok := byVersion[applied[i]]
		if !ok || m.DownSQL == "" {
			fmt.Printf("Warning: no down migration for %s, skipping\n", applied[i])
			continue
		}

		fmt.Printf("Rolling back migration %s: %s\n", m.Version, m.Name)

		if _, err := db.Exec(m.DownSQL); err != nil {
			return fmt.Errorf("failed to rollback migration %s: %w", m.Version, err)
		}

		if _, err := db.Exec("DELETE FROM schema_migrations WHERE version = $1", m.Version); err != nil {
			return fmt.Errorf("failed to remove migration record %s: %w", m.Version, err)
		}

		count++
	}

	return nil
}

// MigrationStatus prints applied/pending state per migration file.
func MigrationStatus(db *bsql.DB, migrationsPath string) error {
	if err := createMigrationsTable(db); err != nil {
		return err
	}

	applied, err := appliedVersions(db)
	if err != nil {
		return err
	}
	appliedSet := make(map[string]bool, len(applied))
	for _, v := range applied {
		appliedSet[v] = true
	}

	migrations, err := loadMigrations(migrationsPath)
	if err != nil {
		return err
	}

	fmt.Println("Migration Status:")
	fmt.Println("=================")
	for _, m := range migrations {
		status := "Pending"
		if appliedSet[m.Version] {
			status = "Applied"
		}
		fmt.Printf("[%s] %s - %s\n", status, m.Version, m.Name)
	}

	return nil
}

// GenerateMigration writes a timestamped migration skeleton.
func GenerateMigration(migrationsPath, name string) error {
	if err := os.MkdirAll(migrationsPath, 0o755); err != nil {
		return err
	}

	version := time.Now().Format("20060102150405")
	fileName := fmt.Sprintf("%s_%s.sql", version, strings.ReplaceAll(name, " ", "_"))
	content := "-- +migrate Up\n\n\n-- +migrate Down\n"

	filePath := filepath.Join(migrationsPath, fileName)
	if err := os.WriteFile(filePath, []byte(content), 0o644); err != nil {
		return err
	}

	fmt.Printf("Created migration: %s\n", filePath)
	return nil
}

func createMigrationsTable(db *bsql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version VARCHAR(255) PRIMARY KEY,
			name VARCHAR(255),
			applied_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
		)
	`)
	return err
}

func appliedVersions(db *bsql.DB) ([]string, error) {
	rows, err := db.Query("SELECT version FROM schema_migrations ORDER BY version")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var versions []string
	for rows.Next() {
		var version string
		if err := rows.Scan(&version); err != nil {
			return nil, err
		}
		versions = append(versions, version)
	}
	return versions, rows.Err()
}

func loadMigrations(path string) ([]*Migration, error) {
	files, err := os.ReadDir(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var migrations []*Migration
	for _, file := range files {
		if file.IsDir() || !strings.HasSuffix(file.Name(), ".sql") {
			continue
		}

		m, err := parseMigrationFile(filepath.Join(path, file.Name()))
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", file.Name(), err)
		}
		migrations = append(migrations, m)
	}

	sort.Slice(migrations, func(i, j int) bool {
		return migrations[i].Version < migrations[j].Version
	})

	return migrations, nil
}

func parseMigrationFile(filePath string) (*Migration, error) {
	content, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}

	fileName := filepath.Base(filePath)
	parts := strings.SplitN(fileName, "_", 2)
	if len(parts) < 2 {
		return nil, fmt.Errorf("invalid migration file name: %s", fileName)
	}

	version := parts[0]
	name := strings.ReplaceAll(strings.TrimSuffix(parts[1], ".sql"), "_", " ")

	contentStr := string(content)
	upSQL := ""
	downSQL := ""

	upIdx := strings.Index(contentStr, "-- +migrate Up")
	downIdx := strings.Index(contentStr, "-- +migrate Down")

	if upIdx != -1 {
		start := upIdx + len("-- +migrate Up")
		end := len(contentStr)
		if downIdx != -1 && downIdx > upIdx {
			end = downIdx
		}
		upSQL = strings.TrimSpace(contentStr[start:end])
	}

	if downIdx != -1 {
		downSQL = strings.TrimSpace(contentStr[downIdx+len("-- +migrate Down"):])
	}

	return &Migration{
		Version: version,
		Name:    name,
		UpSQL:   upSQL,
		DownSQL: downSQL,
	}, nil
}
