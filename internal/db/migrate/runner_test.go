package migrate

import (
	"io/fs"
	"strings"
	"testing"

	"tracking-catalog/backend/internal/db"
)

func TestRun_EmptyDSN(t *testing.T) {
	err := Run("", "up")
	if err == nil {
		t.Fatal("Run with empty DSN should fail")
	}
	if !strings.Contains(err.Error(), "DATABASE_URL") {
		t.Errorf("error should point at DATABASE_URL, got %q", err.Error())
	}
}

func TestRun_InvalidDirection(t *testing.T) {
	for _, direction := range []string{"", "sideways", "UP", "upp"} {
		err := Run("postgres://localhost/catalog", direction)
		if err == nil {
			t.Fatalf("Run(%q) should fail", direction)
		}
		if !strings.Contains(err.Error(), "direction must be up or down") {
			t.Errorf("Run(%q) error = %q, want direction message", direction, err.Error())
		}
	}
}

// The runner reads migrations from db.MigrationFS; if the embed directive or a
// rename drops a file, Run fails at startup in every environment. Pin the
// catalog and audit_logs migrations here.
func TestMigrationFS_EmbedsCatalogMigrations(t *testing.T) {
	entries, err := fs.ReadDir(db.MigrationFS, "migrations")
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}

	names := make(map[string]bool, len(entries))
	for _, e := range entries {
		names[e.Name()] = true
	}

	for _, want := range []string{"0001_catalog", "0002_audit_logs"} {
		if !names[want+".up.sql"] {
			t.Errorf("missing %s.up.sql", want)
		}
		if !names[want+".down.sql"] {
			t.Errorf("missing %s.down.sql", want)
		}
	}

	// Every up migration needs a down counterpart or Run("down") breaks midway.
	for name := range names {
		if base, ok := strings.CutSuffix(name, ".up.sql"); ok && !names[base+".down.sql"] {
			t.Errorf("%s has no matching down migration", name)
		}
	}
}
