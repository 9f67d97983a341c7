package migrate

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

var sqlFileRe = regexp.MustCompile(`^(\d{14})_[a-z0-9_]+\.sql$`)

// ValidateDir checks migration filenames and goose SQL markers without
// touching a database, so it can run in CI before any deploy.
func ValidateDir(dir string) error {
	if dir == "" {
		return fmt.Errorf("dir is required")
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("read dir %q: %w", dir, err)
	}

	seen := map[string]string{} // version -> filename
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".sql") {
			continue
		}

		m := sqlFileRe.FindStringSubmatch(name)
		if m == nil {
			return fmt.Errorf("invalid migration filename %q (expected YYYYMMDDHHMMSS_name.sql)", name)
		}
		version := m[1]
		if prev, ok := seen[version]; ok {
			return fmt.Errorf("duplicate migration version %s in %q and %q", version, prev, name)
		}
		seen[version] = name

		if err := validateMarkers(dir, name); err != nil {
			return err
		}
	}
	return nil
}

func validateMarkers(dir, name string) error {
	full := filepath.Join(dir, name)
	b, err := os.ReadFile(full)
	if err != nil {
		return fmt.Errorf("read file %q: %w", full, err)
	}

	txt := string(b)
	for _, marker := range []string{"-- +goose Up", "-- +goose Down"} {
		if !strings.Contains(txt, marker) {
			return fmt.Errorf("migration %q missing %q", name, marker)
		}
	}

	begins := strings.Count(txt, "-- +goose StatementBegin")
	ends := strings.Count(txt, "-- +goose StatementEnd")
	if begins != ends {
		return fmt.Errorf("migration %q has %d StatementBegin but %d StatementEnd", name, begins, ends)
	}
	return nil
}
