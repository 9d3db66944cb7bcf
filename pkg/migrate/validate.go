package migrate

import (
	"fmt"
	"io/fs"
	"os"
	"path"
	"regexp"
	"sort"
	"strings"
)

var sqlFileRe = regexp.MustCompile(`^(\d{14})_[a-z0-9_]+\.sql$`)

// ValidateDir checks migration filenames and goose headers in one directory.
func ValidateDir(dir string) error {
	if dir == "" {
		return fmt.Errorf("dir is required")
	}
	_, err := versionsIn(os.DirFS(dir), ".")
	return err
}

// Validate checks every dialect directory below root and that each version
// exists for all dialects.
func Validate(root string) error {
	if root == "" {
		return fmt.Errorf("dir is required")
	}
	return validateTree(os.DirFS(root), ".")
}

// ValidateEmbedded runs Validate against the migrations compiled into the binary.
func ValidateEmbedded() error {
	return validateTree(migrationsFS, "migrations")
}

func validateTree(fsys fs.FS, root string) error {
	var reference []string
	var referenceDialect string
	for _, dialect := range Dialects() {
		versions, err := versionsIn(fsys, path.Join(root, dialect))
		if err != nil {
			return fmt.Errorf("%s: %w", dialect, err)
		}
		if reference == nil {
			reference, referenceDialect = versions, dialect
			continue
		}
		if missing := difference(reference, versions); len(missing) > 0 {
			return fmt.Errorf("%s is missing versions %s present in %s", dialect, strings.Join(missing, ", "), referenceDialect)
		}
		if missing := difference(versions, reference); len(missing) > 0 {
			return fmt.Errorf("%s is missing versions %s present in %s", referenceDialect, strings.Join(missing, ", "), dialect)
		}
	}
	return nil
}

// versionsIn returns the sorted versions found in dir.
func versionsIn(fsys fs.FS, dir string) ([]string, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("read dir %q: %w", dir, err)
	}

	seen := map[string]string{} // version -> filename
	versions := []string{}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if !strings.HasSuffix(name, ".sql") {
			continue
		}

		m := sqlFileRe.FindStringSubmatch(name)
		if m == nil {
			return nil, fmt.Errorf("invalid migration filename %q (expected YYYYMMDDHHMMSS_name.sql)", name)
		}
		version := m[1]
		if prev, ok := seen[version]; ok {
			return nil, fmt.Errorf("duplicate migration version %s in %q and %q", version, prev, name)
		}
		seen[version] = name
		versions = append(versions, version)

		b, err := fs.ReadFile(fsys, path.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("read file %q: %w", name, err)
		}
		txt := string(b)
		if !strings.Contains(txt, "-- +goose Up") {
			return nil, fmt.Errorf("migration %q missing \"-- +goose Up\"", name)
		}
		if !strings.Contains(txt, "-- +goose Down") {
			return nil, fmt.Errorf("migration %q missing \"-- +goose Down\"", name)
		}
	}
	sort.Strings(versions)
	return versions, nil
}

func difference(a, b []string) []string {
	in := make(map[string]struct{}, len(b))
	for _, v := range b {
		in[v] = struct{}{}
	}
	var out []string
	for _, v := range a {
		if _, ok := in[v]; !ok {
			out = append(out, v)
		}
	}
	return out
}
