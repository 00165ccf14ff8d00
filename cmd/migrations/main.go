package main

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	_ "github.com/lib/pq"
	"github.com/vncsmyrnk/election/internal/config"
)

var basePath = filepath.Join(".", "internal", "adapters", "repository", "postgres", "migrations")

// Usage: migrations [name] [flags]
//
// With a name, runs the single file matching it (e.g. "000001_init.down").
// Without one, runs every *.up.sql in order.
func main() {
	var name string
	args := os.Args[1:]
	if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		name, args = args[0], args[1:]
	}

	cfg, err := config.Load(args)
	if err != nil {
		log.Fatal(err)
	}

	db, err := sql.Open("postgres", cfg.Postgres.DSN())
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	files, err := migrationFiles(basePath, name)
	if err != nil {
		log.Fatal(err)
	}

	for _, f := range files {
		content, err := os.ReadFile(filepath.Join(basePath, f))
		if err != nil {
			log.Fatal(err)
		}
		if _, err := db.Exec(string(content)); err != nil {
			log.Fatalf("Failed to execute %s: %v", f, err)
		}
		fmt.Printf("Migration %s executed successfully.\n", f)
	}
}

func migrationFiles(basePath string, name string) ([]string, error) {
	entries, err := os.ReadDir(basePath)
	if err != nil {
		return nil, err
	}

	var pattern *regexp.Regexp
	if name != "" {
		pattern = regexp.MustCompile(fmt.Sprintf(`^.*%s\.sql$`, regexp.QuoteMeta(name)))
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch {
		case pattern != nil && pattern.MatchString(e.Name()):
			return []string{e.Name()}, nil
		case pattern == nil && strings.HasSuffix(e.Name(), ".up.sql"):
			files = append(files, e.Name())
		}
	}

	if pattern != nil {
		return nil, fmt.Errorf("migration file %q not found", name)
	}
	sort.Strings(files)
	return files, nil
}
