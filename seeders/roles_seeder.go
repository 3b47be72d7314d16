package seeders

import (
	"context"
	"encoding/json"
	"log"

	"capability-dashboard/internal/authz"

	"github.com/jackc/pgx/v5/pgxpool"
)

type roleSeed struct {
	name        string
	description string
	permissions []string
}

var defaultRoles = []roleSeed{
	{
		name:        "Administrator",
		description: "Full access to every module",
		permissions: authz.All,
	},
	{
		name:        "HR Officer",
		description: "Maintains achievements, targets and master data",
		permissions: []string{
			authz.DashboardView,
			authz.AchievementsView, authz.AchievementsCreate, authz.AchievementsUpdate, authz.AchievementsDelete,
			authz.TargetsView, authz.TargetsManage,
			authz.MasterDataView, authz.MasterDataManage,
			authz.SyncRun, authz.SyncLogsView,
			authz.ReportsView,
		},
	},
	{
		name:        "Viewer",
		description: "Read-only dashboard and report access",
		permissions: []string{
			authz.DashboardView,
			authz.AchievementsView,
			authz.TargetsView,
			authz.MasterDataView,
			authz.ReportsView,
		},
	},
}

func seedRoles(ctx context.Context, db *pgxpool.Pool) error {
	for _, role := range defaultRoles {
		serialized, err := json.Marshal(role.permissions)
		if err != nil {
			return err
		}
		_, err = db.Exec(ctx, `
			INSERT INTO roles (role_name, permissions, description)
			VALUES ($1, $2, $3)
			ON CONFLICT (role_name) DO UPDATE
			SET permissions = EXCLUDED.permissions, description = EXCLUDED.description, updated_at = NOW()`,
			role.name, string(serialized), role.description)
		if err != nil {
			return err
		}
		log.Printf("  - role %q seeded", role.name)
	}
	return nil
}
