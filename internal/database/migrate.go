package database

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// LoadMigrations reads all .surql files from dir in lexical order,
// skipping seed.surql. Each file becomes one migration batch.
func LoadMigrations(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading migrations dir: %w", err)
	}

	var files []string
	for _, e := range entries {
		name := e.Name()
		if strings.HasSuffix(name, ".surql") && name != "seed.surql" {
			files = append(files, name)
		}
	}
	sort.Strings(files)

	migrations := make([]string, 0, len(files))
	for _, name := range files {
		content, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", name, err)
		}
		migrations = append(migrations, string(content))
	}

	return migrations, nil
}

// Migrate applies all migrations from dir against db. Statements are
// idempotent DEFINE statements, so reapplying on startup is safe.
func Migrate(ctx context.Context, db Database, dir string) error {
	migrations, err := LoadMigrations(dir)
	if err != nil {
		return err
	}

	for i, mig := range migrations {
		if err := db.Execute(ctx, mig, nil); err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}

	return nil
}
