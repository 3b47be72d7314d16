package main

import (
	"context"
	"log"
	"os"

	"capability-dashboard/pkg/config"

	"github.com/pressly/goose/v3"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// Usage: migrate [up|down|status|version] [dir]
func main() {
	command := "up"
	if len(os.Args) > 1 {
		command = os.Args[1]
	}
	dir := "migrations"
	if len(os.Args) > 2 {
		dir = os.Args[2]
	}

	cfg := config.New()

	db, err := goose.OpenDBWithDriver("pgx", cfg.Postgres.DSN)
	if err != nil {
		log.Fatalf("goose: failed to open DB: %v", err)
	}
	defer db.Close()

	if err := goose.RunContext(context.Background(), command, db, dir); err != nil {
		log.Fatalf("goose %s: %v", command, err)
	}
}
