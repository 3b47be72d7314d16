package repositories

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"capability-dashboard/internal/entities"
	apperrors "capability-dashboard/pkg/errors"
	"capability-dashboard/pkg/types"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const userRoleTable = "user_roles"

var userRoleAllowedSortFields = map[string]string{
	"id":            "ur.id",
	"employee_name": "e.name",
	"role_name":     "r.role_name",
	"created_at":    "ur.created_at",
}

type UserRoleRepositoryInterface interface {
	GetUserRoles(ctx context.Context, filter types.Filter) ([]entities.UserRoleWithNames, uint64, error)
	AssignRole(ctx context.Context, employeeID string, roleID int64) (*entities.UserRole, error)
	RemoveAssignment(ctx context.Context, id int64) (string, error)
	AssignmentExists(ctx context.Context, employeeID string, roleID int64) (bool, error)
	ListEmployeeIDsByRole(ctx context.Context, roleID int64) ([]string, error)
}

type UserRoleRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewUserRoleRepository(storage *pgxpool.Pool, logger *zap.Logger) UserRoleRepositoryInterface {
	return &UserRoleRepository{storage: storage, logger: logger}
}

func (r *UserRoleRepository) GetUserRoles(ctx context.Context, filter types.Filter) ([]entities.UserRoleWithNames, uint64, error) {
	base := sq.Select().
		From(userRoleTable + " ur").
		Join("employees e ON e.id = ur.employee_id").
		Join("roles r ON r.id = ur.role_id").
		PlaceholderFormat(sq.Dollar)
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		base = base.Where(sq.Or{
			sq.ILike{"e.name": pattern},
			sq.ILike{"r.role_name": pattern},
		})
	}
	if employeeID, ok := filter.Filter["employee_id"]; ok {
		base = base.Where(sq.Eq{"ur.employee_id": fmt.Sprintf("%v", employeeID)})
	}

	countQuery, countArgs, err := base.Columns("COUNT(*)").ToSql()
	if err != nil {
		return nil, 0, err
	}
	var total uint64
	if err := r.storage.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []entities.UserRoleWithNames{}, 0, nil
	}

	b := base.Columns(
		"ur.id", "ur.employee_id", "ur.role_id", "ur.created_at",
		"e.name AS employee_name", "r.role_name",
	)
	b = applySort(b, filter.Sort, userRoleAllowedSortFields, "ur.id ASC")
	if filter.WithPagination {
		b = b.Limit(uint64(filter.Limit)).Offset(uint64(filter.Offset))
	}
	query, args, err := b.ToSql()
	if err != nil {
		return nil, 0, err
	}
	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	assignments, err := pgx.CollectRows(rows, pgx.RowToStructByName[entities.UserRoleWithNames])
	if err != nil {
		return nil, 0, fmt.Errorf("collect user roles: %w", err)
	}
	return assignments, total, nil
}

func (r *UserRoleRepository) AssignRole(ctx context.Context, employeeID string, roleID int64) (*entities.UserRole, error) {
	query := `
		INSERT INTO user_roles (employee_id, role_id)
		VALUES ($1, $2)
		RETURNING id, employee_id, role_id, created_at`
	var ur entities.UserRole
	err := r.storage.QueryRow(ctx, query, employeeID, roleID).Scan(&ur.ID, &ur.EmployeeID, &ur.RoleID, &ur.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &ur, nil
}

// RemoveAssignment deletes the row and reports which employee it belonged
// to so the caller can drop that employee's cached permissions.
func (r *UserRoleRepository) RemoveAssignment(ctx context.Context, id int64) (string, error) {
	var employeeID string
	err := r.storage.QueryRow(ctx, `DELETE FROM user_roles WHERE id = $1 RETURNING employee_id`, id).Scan(&employeeID)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", apperrors.ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return employeeID, nil
}

// ListEmployeeIDsByRole is used when a role changes and every holder's
// cached permissions must be dropped.
func (r *UserRoleRepository) ListEmployeeIDsByRole(ctx context.Context, roleID int64) ([]string, error) {
	rows, err := r.storage.Query(ctx, `SELECT employee_id FROM user_roles WHERE role_id = $1`, roleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *UserRoleRepository) AssignmentExists(ctx context.Context, employeeID string, roleID int64) (bool, error) {
	var exists bool
	err := r.storage.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM user_roles WHERE employee_id = $1 AND role_id = $2)`,
		employeeID, roleID).Scan(&exists)
	return exists, err
}
