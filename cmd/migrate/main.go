package main

import (
	"context"
	"flag"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"sweetshop/internal/config"
	"sweetshop/internal/db"
)

// Applies every migrations/*.sql file in filename-sort order. Each file runs
// once per invocation and there is no applied-migrations ledger; guarding
// against re-runs is the operator's job.
func main() {
	dir := flag.String("dir", "migrations", "directory containing .sql migration files")
	flag.Parse()

	cfg := config.Load()
	gateway := db.New(cfg)

	ctx := context.Background()
	gormDB, err := gateway.DB(ctx)
	if err != nil {
		log.Fatalf("connect database: %v", err)
	}

	files, err := migrationFiles(*dir)
	if err != nil {
		log.Fatalf("read migrations: %v", err)
	}
	log.Printf("found %d migration file(s)", len(files))

	for _, file := range files {
		sql, err := os.ReadFile(file)
		if err != nil {
			log.Fatalf("read %s: %v", file, err)
		}

		log.Printf("running migration: %s", filepath.Base(file))
		if err := gormDB.WithContext(ctx).Exec(string(sql)).Error; err != nil {
			log.Fatalf("migration %s failed: %v", filepath.Base(file), err)
		}
	}

	log.Println("all migrations completed")
}

func migrationFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".sql") {
			continue
		}
		files = append(files, filepath.Join(dir, entry.Name()))
	}
	sort.Strings(files)
	return files, nil
}
