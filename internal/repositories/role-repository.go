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

const roleTable = "roles"

const roleFields = "id, role_name, permissions, description, created_at, updated_at"

var roleAllowedSortFields = map[string]string{"id": "r.id", "role_name": "r.role_name", "created_at": "r.created_at"}

type RoleRepositoryInterface interface {
	GetRoles(ctx context.Context, filter types.Filter) ([]entities.Role, uint64, error)
	FindRole(ctx context.Context, id int64) (*entities.Role, error)
	CreateRole(ctx context.Context, role entities.Role) (*entities.Role, error)
	UpdateRole(ctx context.Context, id int64, roleName *string, permissions *string, description *string) (*entities.Role, error)
	DeleteRole(ctx context.Context, id int64) error
	FindRolesByEmployee(ctx context.Context, employeeID string) ([]entities.Role, error)
}

type RoleRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewRoleRepository(storage *pgxpool.Pool, logger *zap.Logger) RoleRepositoryInterface {
	return &RoleRepository{storage: storage, logger: logger}
}

func scanRole(row pgx.Row) (*entities.Role, error) {
	var role entities.Role
	err := row.Scan(&role.ID, &role.RoleName, &role.Permissions, &role.Description, &role.CreatedAt, &role.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan role: %w", err)
	}
	return &role, nil
}

func (r *RoleRepository) GetRoles(ctx context.Context, filter types.Filter) ([]entities.Role, uint64, error) {
	countBuilder := sq.Select("COUNT(*)").From(roleTable + " r").PlaceholderFormat(sq.Dollar)
	listBuilder := sq.Select(
		"r.id", "r.role_name", "r.permissions", "r.description", "r.created_at", "r.updated_at",
	).From(roleTable + " r").PlaceholderFormat(sq.Dollar)
	if filter.Search != "" {
		condition := sq.ILike{"r.role_name": "%" + filter.Search + "%"}
		countBuilder = countBuilder.Where(condition)
		listBuilder = listBuilder.Where(condition)
	}

	countQuery, countArgs, err := countBuilder.ToSql()
	if err != nil {
		return nil, 0, err
	}
	var total uint64
	if err := r.storage.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []entities.Role{}, 0, nil
	}

	listBuilder = applySort(listBuilder, filter.Sort, roleAllowedSortFields, "r.id ASC")
	if filter.WithPagination {
		listBuilder = listBuilder.Limit(uint64(filter.Limit)).Offset(uint64(filter.Offset))
	}
	query, args, err := listBuilder.ToSql()
	if err != nil {
		return nil, 0, err
	}
	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	roles := make([]entities.Role, 0)
	for rows.Next() {
		role, err := scanRole(rows)
		if err != nil {
			return nil, 0, err
		}
		roles = append(roles, *role)
	}
	return roles, total, rows.Err()
}

func (r *RoleRepository) FindRole(ctx context.Context, id int64) (*entities.Role, error) {
	query := fmt.Sprintf(`SELECT %s FROM roles WHERE id = $1`, roleFields)
	return scanRole(r.storage.QueryRow(ctx, query, id))
}

func (r *RoleRepository) CreateRole(ctx context.Context, role entities.Role) (*entities.Role, error) {
	query := fmt.Sprintf(`
		INSERT INTO roles (role_name, permissions, description)
		VALUES ($1, $2, $3)
		RETURNING %s`, roleFields)
	return scanRole(r.storage.QueryRow(ctx, query, role.RoleName, role.Permissions, role.Description))
}

func (r *RoleRepository) UpdateRole(ctx context.Context, id int64, roleName *string, permissions *string, description *string) (*entities.Role, error) {
	updateBuilder := sq.Update(roleTable).
		PlaceholderFormat(sq.Dollar).
		Where(sq.Eq{"id": id}).
		Set("updated_at", sq.Expr("NOW()"))
	hasChanges := false
	if roleName != nil {
		updateBuilder = updateBuilder.Set("role_name", *roleName)
		hasChanges = true
	}
	if permissions != nil {
		updateBuilder = updateBuilder.Set("permissions", *permissions)
		hasChanges = true
	}
	if description != nil {
		updateBuilder = updateBuilder.Set("description", *description)
		hasChanges = true
	}
	if !hasChanges {
		return r.FindRole(ctx, id)
	}
	query, args, err := updateBuilder.Suffix("RETURNING " + roleFields).ToSql()
	if err != nil {
		return nil, err
	}
	return scanRole(r.storage.QueryRow(ctx, query, args...))
}

func (r *RoleRepository) DeleteRole(ctx context.Context, id int64) error {
	result, err := r.storage.Exec(ctx, `DELETE FROM roles WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// FindRolesByEmployee returns every role assigned to the employee; the
// permission service merges their permission lists.
func (r *RoleRepository) FindRolesByEmployee(ctx context.Context, employeeID string) ([]entities.Role, error) {
	query := `
		SELECT r.id, r.role_name, r.permissions, r.description, r.created_at, r.updated_at
		FROM roles r
		JOIN user_roles ur ON ur.role_id = r.id
		WHERE ur.employee_id = $1
		ORDER BY r.id`
	rows, err := r.storage.Query(ctx, query, employeeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	roles := make([]entities.Role, 0)
	for rows.Next() {
		role, err := scanRole(rows)
		if err != nil {
			return nil, err
		}
		roles = append(roles, *role)
	}
	return roles, rows.Err()
}
