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

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const employeeTable = "employees"

const employeeFields = `id, name, email, user_name, nip, phone_number, department_id, position_id,
	password_hash, gcg, gcg_admin, code_of_conduct, conflict_of_interest,
	code_of_conduct_dt, conflict_of_interest_dt, is_tkjp,
	normalized_user_name, normalized_email, email_confirmed,
	security_stamp, concurrency_stamp, phone_number_confirmed,
	two_factor_enabled, lockout_end, lockout_enabled, access_failed_count,
	is_super_admin, created_at, updated_at`

var (
	employeeAllowedFilterFields = map[string]string{
		"department_id":  "e.department_id",
		"position_id":    "e.position_id",
		"is_tkjp":        "e.is_tkjp",
		"is_super_admin": "e.is_super_admin",
	}
	employeeAllowedSortFields = map[string]string{
		"name":       "e.name",
		"email":      "e.email",
		"created_at": "e.created_at",
	}
)

type EmployeeRepositoryInterface interface {
	GetEmployees(ctx context.Context, filter types.Filter) ([]entities.Employee, uint64, error)
	FindEmployee(ctx context.Context, id string) (*entities.Employee, error)
	FindEmployeeByLogin(ctx context.Context, login string) (*entities.Employee, error)
	CreateEmployee(ctx context.Context, payload dto.CreateEmployeeDTO) (*entities.Employee, error)
	UpdateEmployee(ctx context.Context, id string, payload dto.UpdateEmployeeDTO) (*entities.Employee, error)
	SaveEmployee(ctx context.Context, tx pgx.Tx, employee entities.Employee) error
	DeleteEmployee(ctx context.Context, id string) error
}

type EmployeeRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewEmployeeRepository(storage *pgxpool.Pool, logger *zap.Logger) EmployeeRepositoryInterface {
	return &EmployeeRepository{storage: storage, logger: logger}
}

func (r *EmployeeRepository) buildFilterQuery(filter types.Filter) sq.SelectBuilder {
	b := sq.Select().From(employeeTable + " e").PlaceholderFormat(sq.Dollar)
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		b = b.Where(sq.Or{
			sq.ILike{"e.name": pattern},
			sq.ILike{"e.email": pattern},
			sq.ILike{"e.user_name": pattern},
		})
	}
	for key, value := range filter.Filter {
		if dbColumn, ok := employeeAllowedFilterFields[key]; ok {
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

func (r *EmployeeRepository) GetEmployees(ctx context.Context, filter types.Filter) ([]entities.Employee, uint64, error) {
	countQuery, countArgs, err := r.buildFilterQuery(filter).Columns("COUNT(*)").ToSql()
	if err != nil {
		return nil, 0, err
	}
	var total uint64
	if err := r.storage.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []entities.Employee{}, 0, nil
	}

	b := r.buildFilterQuery(filter).Columns("e.*")
	b = applySort(b, filter.Sort, employeeAllowedSortFields, "e.name ASC")
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
	employees, err := pgx.CollectRows(rows, pgx.RowToStructByName[entities.Employee])
	if err != nil {
		return nil, 0, fmt.Errorf("collect employees: %w", err)
	}
	return employees, total, nil
}

func (r *EmployeeRepository) findOne(ctx context.Context, condition sq.Sqlizer) (*entities.Employee, error) {
	query, args, err := sq.Select("e.*").
		From(employeeTable + " e").
		Where(condition).
		Limit(1).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	employee, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[entities.Employee])
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan employee: %w", err)
	}
	return &employee, nil
}

func (r *EmployeeRepository) FindEmployee(ctx context.Context, id string) (*entities.Employee, error) {
	return r.findOne(ctx, sq.Eq{"e.id": id})
}

// FindEmployeeByLogin matches the identifier a user typed at login against
// email, username or display name.
func (r *EmployeeRepository) FindEmployeeByLogin(ctx context.Context, login string) (*entities.Employee, error) {
	return r.findOne(ctx, sq.Or{
		sq.Eq{"LOWER(e.email)": strings.ToLower(login)},
		sq.Eq{"LOWER(e.user_name)": strings.ToLower(login)},
		sq.Eq{"LOWER(e.name)": strings.ToLower(login)},
	})
}

func (r *EmployeeRepository) CreateEmployee(ctx context.Context, payload dto.CreateEmployeeDTO) (*entities.Employee, error) {
	id := uuid.NewString()
	query := fmt.Sprintf(`
		INSERT INTO employees (id, name, email, user_name, nip, phone_number, department_id, position_id, is_tkjp)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING %s`, employeeFields)
	rows, err := r.storage.Query(ctx, query,
		id, payload.Name, payload.Email, payload.UserName,
		payload.NIP.Ptr(), payload.PhoneNumber.Ptr(),
		payload.DepartmentID.Ptr(), payload.PositionID.Ptr(), payload.IsTKJP)
	if err != nil {
		return nil, err
	}
	employee, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[entities.Employee])
	if err != nil {
		return nil, fmt.Errorf("scan employee: %w", err)
	}
	return &employee, nil
}

func (r *EmployeeRepository) UpdateEmployee(ctx context.Context, id string, payload dto.UpdateEmployeeDTO) (*entities.Employee, error) {
	updateBuilder := sq.Update(employeeTable).
		PlaceholderFormat(sq.Dollar).
		Where(sq.Eq{"id": id}).
		Set("updated_at", sq.Expr("NOW()"))
	hasChanges := false
	if payload.Name != nil {
		updateBuilder = updateBuilder.Set("name", *payload.Name)
		hasChanges = true
	}
	if payload.Email != nil {
		updateBuilder = updateBuilder.Set("email", *payload.Email)
		hasChanges = true
	}
	if payload.UserName != nil {
		updateBuilder = updateBuilder.Set("user_name", *payload.UserName)
		hasChanges = true
	}
	if payload.NIP.Valid {
		updateBuilder = updateBuilder.Set("nip", payload.NIP.String)
		hasChanges = true
	}
	if payload.PhoneNumber.Valid {
		updateBuilder = updateBuilder.Set("phone_number", payload.PhoneNumber.String)
		hasChanges = true
	}
	if payload.DepartmentID.Valid {
		updateBuilder = updateBuilder.Set("department_id", payload.DepartmentID.String)
		hasChanges = true
	}
	if payload.PositionID.Valid {
		updateBuilder = updateBuilder.Set("position_id", payload.PositionID.Int64)
		hasChanges = true
	}
	if payload.IsTKJP != nil {
		updateBuilder = updateBuilder.Set("is_tkjp", *payload.IsTKJP)
		hasChanges = true
	}
	if !hasChanges {
		return r.FindEmployee(ctx, id)
	}
	query, args, err := updateBuilder.Suffix("RETURNING " + employeeFields).ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	employee, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[entities.Employee])
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan employee: %w", err)
	}
	return &employee, nil
}

// SaveEmployee performs a full-field update of an existing row, inserting
// when the id is not present yet. The sync writer owns the decision of
// which rows reach this method; is_super_admin is written as given.
func (r *EmployeeRepository) SaveEmployee(ctx context.Context, tx pgx.Tx, employee entities.Employee) error {
	var q querier = r.storage
	if tx != nil {
		q = tx
	}
	update := `
		UPDATE employees SET
			name = $2, email = $3, user_name = $4, nip = $5, phone_number = $6,
			department_id = $7, position_id = $8, password_hash = $9,
			gcg = $10, gcg_admin = $11, code_of_conduct = $12, conflict_of_interest = $13,
			code_of_conduct_dt = $14, conflict_of_interest_dt = $15, is_tkjp = $16,
			normalized_user_name = $17, normalized_email = $18, email_confirmed = $19,
			security_stamp = $20, concurrency_stamp = $21, phone_number_confirmed = $22,
			two_factor_enabled = $23, lockout_end = $24, lockout_enabled = $25,
			access_failed_count = $26, is_super_admin = $27, updated_at = NOW()
		WHERE id = $1`
	args := []interface{}{
		employee.ID, employee.Name, employee.Email, employee.UserName, employee.NIP, employee.PhoneNumber,
		employee.DepartmentID, employee.PositionID, employee.PasswordHash,
		employee.GCG, employee.GCGAdmin, employee.CodeOfConduct, employee.ConflictOfInterest,
		employee.CodeOfConductDt, employee.ConflictOfInterestDt, employee.IsTKJP,
		employee.NormalizedUserName, employee.NormalizedEmail, employee.EmailConfirmed,
		employee.SecurityStamp, employee.ConcurrencyStamp, employee.PhoneNumberConfirmed,
		employee.TwoFactorEnabled, employee.LockoutEnd, employee.LockoutEnabled,
		employee.AccessFailedCount, employee.IsSuperAdmin,
	}
	tag, err := q.Exec(ctx, update, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		insert := `
			INSERT INTO employees (
				id, name, email, user_name, nip, phone_number,
				department_id, position_id, password_hash,
				gcg, gcg_admin, code_of_conduct, conflict_of_interest,
				code_of_conduct_dt, conflict_of_interest_dt, is_tkjp,
				normalized_user_name, normalized_email, email_confirmed,
				security_stamp, concurrency_stamp, phone_number_confirmed,
				two_factor_enabled, lockout_end, lockout_enabled,
				access_failed_count, is_super_admin
			) VALUES (
				$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14,
				$15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26, $27
			)`
		_, err = q.Exec(ctx, insert, args...)
	}
	return err
}

func (r *EmployeeRepository) DeleteEmployee(ctx context.Context, id string) error {
	result, err := r.storage.Exec(ctx, `DELETE FROM employees WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
