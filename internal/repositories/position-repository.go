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

const positionTable = "positions"

const positionFields = `id, description, department_id, parent_id,
	is_mitra, is_officer, is_manager, is_vp, is_director, is_commissioner,
	is_secretary, is_driver, is_security, is_intern, deleted, created_at, updated_at`

var (
	positionAllowedFilterFields = map[string]string{
		"department_id": "p.department_id",
		"deleted":       "p.deleted",
		"is_manager":    "p.is_manager",
		"is_officer":    "p.is_officer",
	}
	positionAllowedSortFields = map[string]string{"id": "p.id", "description": "p.description", "created_at": "p.created_at"}
)

type PositionRepositoryInterface interface {
	GetPositions(ctx context.Context, filter types.Filter) ([]entities.Position, uint64, error)
	FindPosition(ctx context.Context, id int64) (*entities.Position, error)
	CreatePosition(ctx context.Context, position entities.Position) (*entities.Position, error)
	UpdatePosition(ctx context.Context, id int64, payload dto.UpdatePositionDTO) (*entities.Position, error)
	SavePosition(ctx context.Context, tx pgx.Tx, position entities.Position) error
	DeletePosition(ctx context.Context, id int64) error
	ListPositionIDs(ctx context.Context) (map[int64]struct{}, error)
}

type PositionRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewPositionRepository(storage *pgxpool.Pool, logger *zap.Logger) PositionRepositoryInterface {
	return &PositionRepository{storage: storage, logger: logger}
}

func scanPosition(row pgx.Row) (*entities.Position, error) {
	var p entities.Position
	err := row.Scan(
		&p.ID, &p.Description, &p.DepartmentID, &p.ParentID,
		&p.IsMitra, &p.IsOfficer, &p.IsManager, &p.IsVP, &p.IsDirector, &p.IsCommissioner,
		&p.IsSecretary, &p.IsDriver, &p.IsSecurity, &p.IsIntern, &p.Deleted,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan position: %w", err)
	}
	return &p, nil
}

func (r *PositionRepository) buildFilterQuery(filter types.Filter) sq.SelectBuilder {
	b := sq.Select().From(positionTable + " p").PlaceholderFormat(sq.Dollar)
	if filter.Search != "" {
		b = b.Where(sq.ILike{"p.description": "%" + filter.Search + "%"})
	}
	for key, value := range filter.Filter {
		if dbColumn, ok := positionAllowedFilterFields[key]; ok {
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

func (r *PositionRepository) GetPositions(ctx context.Context, filter types.Filter) ([]entities.Position, uint64, error) {
	countQuery, countArgs, err := r.buildFilterQuery(filter).Columns("COUNT(*)").ToSql()
	if err != nil {
		return nil, 0, err
	}
	var total uint64
	if err := r.storage.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []entities.Position{}, 0, nil
	}

	b := r.buildFilterQuery(filter).Columns(
		"p.id", "p.description", "p.department_id", "p.parent_id",
		"p.is_mitra", "p.is_officer", "p.is_manager", "p.is_vp", "p.is_director", "p.is_commissioner",
		"p.is_secretary", "p.is_driver", "p.is_security", "p.is_intern", "p.deleted",
		"p.created_at", "p.updated_at",
	)
	b = applySort(b, filter.Sort, positionAllowedSortFields, "p.id ASC")
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

	positions := make([]entities.Position, 0, filter.Limit)
	for rows.Next() {
		p, err := scanPosition(rows)
		if err != nil {
			return nil, 0, err
		}
		positions = append(positions, *p)
	}
	return positions, total, rows.Err()
}

func (r *PositionRepository) FindPosition(ctx context.Context, id int64) (*entities.Position, error) {
	query := fmt.Sprintf(`SELECT %s FROM positions WHERE id = $1`, positionFields)
	return scanPosition(r.storage.QueryRow(ctx, query, id))
}

func (r *PositionRepository) CreatePosition(ctx context.Context, position entities.Position) (*entities.Position, error) {
	query := fmt.Sprintf(`
		INSERT INTO positions (
			id, description, department_id, parent_id,
			is_mitra, is_officer, is_manager, is_vp, is_director, is_commissioner,
			is_secretary, is_driver, is_security, is_intern, deleted
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING %s`, positionFields)
	return scanPosition(r.storage.QueryRow(ctx, query,
		position.ID, position.Description, position.DepartmentID, position.ParentID,
		position.IsMitra, position.IsOfficer, position.IsManager, position.IsVP, position.IsDirector,
		position.IsCommissioner, position.IsSecretary, position.IsDriver, position.IsSecurity,
		position.IsIntern, position.Deleted))
}

func (r *PositionRepository) UpdatePosition(ctx context.Context, id int64, payload dto.UpdatePositionDTO) (*entities.Position, error) {
	updateBuilder := sq.Update(positionTable).
		PlaceholderFormat(sq.Dollar).
		Where(sq.Eq{"id": id}).
		Set("updated_at", sq.Expr("NOW()"))
	hasChanges := false
	if payload.Description != nil {
		updateBuilder = updateBuilder.Set("description", *payload.Description)
		hasChanges = true
	}
	if payload.DepartmentID.Valid {
		updateBuilder = updateBuilder.Set("department_id", payload.DepartmentID.String)
		hasChanges = true
	}
	if payload.ParentID.Valid {
		updateBuilder = updateBuilder.Set("parent_id", payload.ParentID.Int64)
		hasChanges = true
	}
	boolFields := map[string]*bool{
		"is_mitra":        payload.IsMitra,
		"is_officer":      payload.IsOfficer,
		"is_manager":      payload.IsManager,
		"is_vp":           payload.IsVP,
		"is_director":     payload.IsDirector,
		"is_commissioner": payload.IsCommissioner,
		"is_secretary":    payload.IsSecretary,
		"is_driver":       payload.IsDriver,
		"is_security":     payload.IsSecurity,
		"is_intern":       payload.IsIntern,
		"deleted":         payload.Deleted,
	}
	for column, value := range boolFields {
		if value != nil {
			updateBuilder = updateBuilder.Set(column, *value)
			hasChanges = true
		}
	}
	if !hasChanges {
		return r.FindPosition(ctx, id)
	}
	query, args, err := updateBuilder.Suffix("RETURNING " + positionFields).ToSql()
	if err != nil {
		return nil, err
	}
	return scanPosition(r.storage.QueryRow(ctx, query, args...))
}

// SavePosition performs a full-field update of an existing row, inserting
// when the id is not present yet. Used by the sync writer.
func (r *PositionRepository) SavePosition(ctx context.Context, tx pgx.Tx, position entities.Position) error {
	var q querier = r.storage
	if tx != nil {
		q = tx
	}
	update := `
		UPDATE positions SET
			description = $2, department_id = $3, parent_id = $4,
			is_mitra = $5, is_officer = $6, is_manager = $7, is_vp = $8, is_director = $9,
			is_commissioner = $10, is_secretary = $11, is_driver = $12, is_security = $13,
			is_intern = $14, deleted = $15, updated_at = NOW()
		WHERE id = $1`
	args := []interface{}{
		position.ID, position.Description, position.DepartmentID, position.ParentID,
		position.IsMitra, position.IsOfficer, position.IsManager, position.IsVP, position.IsDirector,
		position.IsCommissioner, position.IsSecretary, position.IsDriver, position.IsSecurity,
		position.IsIntern, position.Deleted,
	}
	tag, err := q.Exec(ctx, update, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		insert := `
			INSERT INTO positions (
				id, description, department_id, parent_id,
				is_mitra, is_officer, is_manager, is_vp, is_director, is_commissioner,
				is_secretary, is_driver, is_security, is_intern, deleted
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`
		_, err = q.Exec(ctx, insert, args...)
	}
	return err
}

func (r *PositionRepository) DeletePosition(ctx context.Context, id int64) error {
	result, err := r.storage.Exec(ctx, `DELETE FROM positions WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PositionRepository) ListPositionIDs(ctx context.Context) (map[int64]struct{}, error) {
	rows, err := r.storage.Query(ctx, `SELECT id FROM positions`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := make(map[int64]struct{})
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids[id] = struct{}{}
	}
	return ids, rows.Err()
}
