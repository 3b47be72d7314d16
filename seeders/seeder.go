package seeders

import (
	"context"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"
)

// SeedRolesAndAdmin installs the default roles and the bootstrap super
// admin account. Safe to run repeatedly.
func SeedRolesAndAdmin(db *pgxpool.Pool) {
	ctx := context.Background()

	if err := seedRoles(ctx, db); err != nil {
		log.Fatalf("failed to seed roles: %v", err)
	}
	if err := seedSuperAdmin(ctx, db); err != nil {
		log.Fatalf("failed to seed super admin: %v", err)
	}
	log.Println("seeding complete")
}
