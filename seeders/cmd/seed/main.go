package main

import (
	"capability-dashboard/pkg/config"
	"capability-dashboard/pkg/database/postgresql"
	"capability-dashboard/seeders"
)

func main() {
	cfg := config.New()

	db := postgresql.ConnectDB(cfg.Postgres.DSN)
	defer db.Close()

	seeders.SeedRolesAndAdmin(db)
}
