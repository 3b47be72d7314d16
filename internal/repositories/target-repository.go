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

const targetTable = "targets"

const targetFields = "id, department_id, year, certification_target, learning_hours_target, created_at, updated_at"

var (
	targetAllowedFilterFields = map[string]string{"department_id": "t.department_id", "year": "t.year"}
	targetAllowedSortFields   = map[string]string{"year": "t.year", "department_id": "t.department_id", "created_at": "t.created_at"}
)

type TargetRepositoryInterface interface {
	GetTargets(ctx context.Context, filter types.Filter) ([]entities.TargetWithDepartment, uint64, error)
	FindTarget(ctx context.Context, id int64) (*entities.Target, error)
	FindTargetByDepartmentYear(ctx context.Context, departmentID string, year int) (*entities.Target, error)
	ListTargetsByYear(ctx context.Context, year int) ([]entities.TargetWithDepartment, error)
	CreateTarget(ctx context.Context, payload dto.CreateTargetDTO) (*entities.Target, error)
	UpdateTarget(ctx context.Context, id int64, payload dto.UpdateTargetDTO) (*entities.Target, error)
	DeleteTarget(ctx context.Context, id int64) error
}

type TargetRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewTargetRepository(storage *pgxpool.Pool, logger *zap.Logger) TargetRepositoryInterface {
	return &TargetRepository{storage: storage, logger: logger}
}

func scanTarget(row pgx.Row) (*entities.Target, error) {
	var t entities.Target
	err := row.Scan(&t.ID, &t.DepartmentID, &t.Year, &t.CertificationTarget, &t.LearningHoursTarget, &t.CreatedAt, &t.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan target: %w", err)
	}
	return &t, nil
}

func (r *TargetRepository) buildFilterQuery(filter types.Filter) sq.SelectBuilder {
	b := sq.Select().
		From(targetTable + " t").
		LeftJoin("departments d ON d.id = t.department_id").
		PlaceholderFormat(sq.Dollar)
	if filter.Search != "" {
		b = b.Where(sq.ILike{"d.description": "%" + filter.Search + "%"})
	}
	for key, value := range filter.Filter {
		if dbColumn, ok := targetAllowedFilterFields[key]; ok {
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

func (r *TargetRepository) GetTargets(ctx context.Context, filter types.Filter) ([]entities.TargetWithDepartment, uint64, error) {
	countQuery, countArgs, err := r.buildFilterQuery(filter).Columns("COUNT(*)").ToSql()
	if err != nil {
		return nil, 0, err
	}
	var total uint64
	if err := r.storage.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []entities.TargetWithDepartment{}, 0, nil
	}

	b := r.buildFilterQuery(filter).Columns(
		"t.id", "t.department_id", "t.year", "t.certification_target", "t.learning_hours_target",
		"t.created_at", "t.updated_at", "d.description AS department_name",
	)
	b = applySort(b, filter.Sort, targetAllowedSortFields, "t.year DESC, t.department_id ASC")
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
	targets, err := pgx.CollectRows(rows, pgx.RowToStructByName[entities.TargetWithDepartment])
	if err != nil {
		return nil, 0, fmt.Errorf("collect targets: %w", err)
	}
	return targets, total, nil
}

func (r *TargetRepository) FindTarget(ctx context.Context, id int64) (*entities.Target, error) {
	query := fmt.Sprintf(`SELECT %s FROM targets WHERE id = $1`, targetFields)
	return scanTarget(r.storage.QueryRow(ctx, query, id))
}

func (r *TargetRepository) FindTargetByDepartmentYear(ctx context.Context, departmentID string, year int) (*entities.Target, error) {
	query := fmt.Sprintf(`SELECT %s FROM targets WHERE department_id = $1 AND year = $2`, targetFields)
	return scanTarget(r.storage.QueryRow(ctx, query, departmentID, year))
}

func (r *TargetRepository) ListTargetsByYear(ctx context.Context, year int) ([]entities.TargetWithDepartment, error) {
	query := `
		SELECT t.id, t.department_id, t.year, t.certification_target, t.learning_hours_target,
			t.created_at, t.updated_at, d.description AS department_name
		FROM targets t
		LEFT JOIN departments d ON d.id = t.department_id
		WHERE t.year = $1
		ORDER BY t.department_id`
	rows, err := r.storage.Query(ctx, query, year)
	if err != nil {
		return nil, err
	}
	targets, err := pgx.CollectRows(rows, pgx.RowToStructByName[entities.TargetWithDepartment])
	if err != nil {
		return nil, fmt.Errorf("collect targets: %w", err)
	}
	return targets, nil
}

func (r *TargetRepository) CreateTarget(ctx context.Context, payload dto.CreateTargetDTO) (*entities.Target, error) {
	query := fmt.Sprintf(`
		INSERT INTO targets (department_id, year, certification_target, learning_hours_target)
		VALUES ($1, $2, $3, $4)
		RETURNING %s`, targetFields)
	return scanTarget(r.storage.QueryRow(ctx, query,
		payload.DepartmentID, payload.Year, payload.CertificationTarget, payload.LearningHoursTarget))
}

func (r *TargetRepository) UpdateTarget(ctx context.Context, id int64, payload dto.UpdateTargetDTO) (*entities.Target, error) {
	updateBuilder := sq.Update(targetTable).
		PlaceholderFormat(sq.Dollar).
		Where(sq.Eq{"id": id}).
		Set("updated_at", sq.Expr("NOW()"))
	hasChanges := false
	if payload.CertificationTarget != nil {
		updateBuilder = updateBuilder.Set("certification_target", *payload.CertificationTarget)
		hasChanges = true
	}
	if payload.LearningHoursTarget != nil {
		updateBuilder = updateBuilder.Set("learning_hours_target", *payload.LearningHoursTarget)
		hasChanges = true
	}
	if !hasChanges {
		return r.FindTarget(ctx, id)
	}
	query, args, err := updateBuilder.Suffix("RETURNING " + targetFields).ToSql()
	if err != nil {
		return nil, err
	}
	return scanTarget(r.storage.QueryRow(ctx, query, args...))
}

func (r *TargetRepository) DeleteTarget(ctx context.Context, id int64) error {
	result, err := r.storage.Exec(ctx, `DELETE FROM targets WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
