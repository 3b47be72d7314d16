package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"

	"capability-dashboard/internal/dto"
	"capability-dashboard/internal/entities"
	apperrors "capability-dashboard/pkg/errors"
	"capability-dashboard/pkg/types"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const departmentTable = "departments"

const departmentFields = "id, description, parent_id, is_department, created_at, updated_at"

var (
	departmentAllowedFilterFields = map[string]string{"is_department": "d.is_department", "parent_id": "d.parent_id"}
	departmentAllowedSortFields   = map[string]string{"id": "d.id", "description": "d.description", "created_at": "d.created_at"}
)

type DepartmentRepositoryInterface interface {
	GetDepartments(ctx context.Context, filter types.Filter) ([]entities.Department, uint64, error)
	FindDepartment(ctx context.Context, id string) (*entities.Department, error)
	CreateDepartment(ctx context.Context, department entities.Department) (*entities.Department, error)
	UpdateDepartment(ctx context.Context, id string, payload dto.UpdateDepartmentDTO) (*entities.Department, error)
	SaveDepartment(ctx context.Context, tx pgx.Tx, department entities.Department) error
	DeleteDepartment(ctx context.Context, id string) error
	ListDepartmentIDs(ctx context.Context) (map[string]struct{}, error)
}

type DepartmentRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewDepartmentRepository(storage *pgxpool.Pool, logger *zap.Logger) DepartmentRepositoryInterface {
	return &DepartmentRepository{storage: storage, logger: logger}
}

func scanDepartment(row pgx.Row) (*entities.Department, error) {
	var d entities.Department
	err := row.Scan(&d.ID, &d.Description, &d.ParentID, &d.IsDepartment, &d.CreatedAt, &d.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan department: %w", err)
	}
	return &d, nil
}

func (r *DepartmentRepository) buildFilterQuery(filter types.Filter) sq.SelectBuilder {
	b := sq.Select().From(departmentTable + " d").PlaceholderFormat(sq.Dollar)
	if filter.Search != "" {
		b = b.Where(sq.Or{
			sq.ILike{"d.description": "%" + filter.Search + "%"},
			sq.ILike{"d.id": "%" + filter.Search + "%"},
		})
	}
	for key, value := range filter.Filter {
		if dbColumn, ok := departmentAllowedFilterFields[key]; ok {
			items := strings.Split(fmt.Sprintf("%v", value), ",")
			if len(items) > 1 {
				b = b.Where(sq.Eq{dbColumn: items})
			} else {
				b = b.Where(sq.Eq{dbColumn: value})
			}
		}
	}
	return b
}

func (r *DepartmentRepository) GetDepartments(ctx context.Context, filter types.Filter) ([]entities.Department, uint64, error) {
	countQuery, countArgs, err := r.buildFilterQuery(filter).Columns("COUNT(*)").ToSql()
	if err != nil {
		return nil, 0, err
	}
	var total uint64
	if err := r.storage.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []entities.Department{}, 0, nil
	}

	b := r.buildFilterQuery(filter).Columns(
		"d.id", "d.description", "d.parent_id", "d.is_department", "d.created_at", "d.updated_at",
	)
	b = applySort(b, filter.Sort, departmentAllowedSortFields, "d.id ASC")
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
	defer rows.Close()

	departments := make([]entities.Department, 0, filter.Limit)
	for rows.Next() {
		d, err := scanDepartment(rows)
		if err != nil {
			return nil, 0, err
		}
		departments = append(departments, *d)
	}
	return departments, total, rows.Err()
}

func (r *DepartmentRepository) FindDepartment(ctx context.Context, id string) (*entities.Department, error) {
	query := fmt.Sprintf(`SELECT %s FROM departments WHERE id = $1`, departmentFields)
	return scanDepartment(r.storage.QueryRow(ctx, query, id))
}

func (r *DepartmentRepository) CreateDepartment(ctx context.Context, department entities.Department) (*entities.Department, error) {
	query := fmt.Sprintf(`
		INSERT INTO departments (id, description, parent_id, is_department)
		VALUES ($1, $2, $3, $4)
		RETURNING %s`, departmentFields)
	return scanDepartment(r.storage.QueryRow(ctx, query,
		department.ID, department.Description, department.ParentID, department.IsDepartment))
}

func (r *DepartmentRepository) UpdateDepartment(ctx context.Context, id string, payload dto.UpdateDepartmentDTO) (*entities.Department, error) {
	updateBuilder := sq.Update(departmentTable).
		PlaceholderFormat(sq.Dollar).
		Where(sq.Eq{"id": id}).
		Set("updated_at", sq.Expr("NOW()"))
	hasChanges := false
	if payload.Description != nil {
		updateBuilder = updateBuilder.Set("description", *payload.Description)
		hasChanges = true
	}
	if payload.ParentID.Valid {
		updateBuilder = updateBuilder.Set("parent_id", payload.ParentID.String)
		hasChanges = true
	}
	if payload.IsDepartment != nil {
		updateBuilder = updateBuilder.Set("is_department", *payload.IsDepartment)
		hasChanges = true
	}
	if !hasChanges {
		return r.FindDepartment(ctx, id)
	}
	query, args, err := updateBuilder.Suffix("RETURNING " + departmentFields).ToSql()
	if err != nil {
		return nil, err
	}
	return scanDepartment(r.storage.QueryRow(ctx, query, args...))
}

// SaveDepartment performs a full-field update of an existing row. Used by
// the sync writer after it has decided between insert and update.
func (r *DepartmentRepository) SaveDepartment(ctx context.Context, tx pgx.Tx, department entities.Department) error {
	var q querier = r.storage
	if tx != nil {
		q = tx
	}
	query := `
		UPDATE departments
		SET description = $2, parent_id = $3, is_department = $4, updated_at = NOW()
		WHERE id = $1`
	tag, err := q.Exec(ctx, query, department.ID, department.Description, department.ParentID, department.IsDepartment)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		insert := `
			INSERT INTO departments (id, description, parent_id, is_department)
			VALUES ($1, $2, $3, $4)`
		_, err = q.Exec(ctx, insert, department.ID, department.Description, department.ParentID, department.IsDepartment)
	}
	return err
}

func (r *DepartmentRepository) DeleteDepartment(ctx context.Context, id string) error {
	var refs int
	if err := r.storage.QueryRow(ctx, `SELECT COUNT(*) FROM targets WHERE department_id = $1`, id).Scan(&refs); err != nil {
		return err
	}
	if refs > 0 {
		return apperrors.NewBadRequestError("department is referenced by targets and cannot be deleted", nil)
	}
	result, err := r.storage.Exec(ctx, `DELETE FROM departments WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// ListDepartmentIDs returns the current set of department codes. The sync
// writer uses it to resolve references before persisting.
func (r *DepartmentRepository) ListDepartmentIDs(ctx context.Context) (map[string]struct{}, error) {
	rows, err := r.storage.Query(ctx, `SELECT id FROM departments`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := make(map[string]struct{})
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids[id] = struct{}{}
	}
	return ids, rows.Err()
}
