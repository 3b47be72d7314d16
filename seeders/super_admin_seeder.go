package seeders

import (
	"context"
	"log"
	"os"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"
)

// seedSuperAdmin creates the bootstrap account that can log in before the
// first HR sync has run. The sync pipeline never overwrites rows flagged
// is_super_admin, so the local password hash survives.
func seedSuperAdmin(ctx context.Context, db *pgxpool.Pool) error {
	email := os.Getenv("SUPER_ADMIN_EMAIL")
	if email == "" {
		email = "admin@localhost"
	}
	password := os.Getenv("SUPER_ADMIN_PASSWORD")
	if password == "" {
		password = "ChangeMe123!"
	}

	var exists bool
	if err := db.QueryRow(ctx, "SELECT EXISTS(SELECT 1 FROM employees WHERE email = $1)", email).Scan(&exists); err != nil {
		return err
	}
	if exists {
		log.Println("  - super admin already present, skipping")
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	_, err = db.Exec(ctx, `
		INSERT INTO employees (id, name, email, user_name, password_hash, is_super_admin)
		VALUES ($1, 'Super Admin', $2, 'superadmin', $3, TRUE)`,
		uuid.NewString(), email, string(hash))
	if err != nil {
		return err
	}
	log.Printf("  - super admin %q created", email)
	return nil
}
