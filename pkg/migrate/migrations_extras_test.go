package migrate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/menuvivo/menuvivo-backend/pkg/migrate"
)

func TestExtrasMigrationContainsConstraints(t *testing.T) {
	matches, err := filepath.Glob(filepath.Join("migrations", "*_create_extras_tables.sql"))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no extras migration file found")
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	content := string(data)

	checks := []string{
		"CREATE TYPE selection_type AS ENUM",
		"CREATE TABLE IF NOT EXISTS extra_groups",
		"CREATE TABLE IF NOT EXISTS product_extras",
		"CREATE TABLE IF NOT EXISTS product_extra_group_assignments",
		"CREATE TABLE IF NOT EXISTS product_group_overrides",
		"CHECK (max_selections IS NULL OR max_selections >= min_selections)",
		"CHECK ((group_id IS NULL) <> (menu_item_id IS NULL))",
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_assignment_product_group",
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_override_product_group",
		"DROP TYPE IF EXISTS selection_type",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestMigrationDirValidates(t *testing.T) {
	if err := migrate.ValidateDir("migrations"); err != nil {
		t.Fatalf("migrations dir should validate: %v", err)
	}
}
