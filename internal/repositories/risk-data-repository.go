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

const riskDataTable = "risk_data"

const riskDataFields = "id, name, value, category, created_at, updated_at"

var (
	riskDataAllowedFilterFields = map[string]string{"category": "rd.category"}
	riskDataAllowedSortFields   = map[string]string{"id": "rd.id", "name": "rd.name", "value": "rd.value", "created_at": "rd.created_at"}
)

type RiskDataRepositoryInterface interface {
	GetRiskData(ctx context.Context, filter types.Filter) ([]entities.RiskData, uint64, error)
	FindRiskData(ctx context.Context, id int64) (*entities.RiskData, error)
	CreateRiskData(ctx context.Context, payload dto.CreateRiskDataDTO) (*entities.RiskData, error)
	UpdateRiskData(ctx context.Context, id int64, payload dto.UpdateRiskDataDTO) (*entities.RiskData, error)
	DeleteRiskData(ctx context.Context, id int64) error
	GetStats(ctx context.Context) (*types.RiskDataStats, error)
	GetMonthlyChart(ctx context.Context) ([]types.ChartPoint, error)
	GetCategoryChart(ctx context.Context) ([]types.ChartPoint, error)
}

type RiskDataRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewRiskDataRepository(storage *pgxpool.Pool, logger *zap.Logger) RiskDataRepositoryInterface {
	return &RiskDataRepository{storage: storage, logger: logger}
}

func scanRiskData(row pgx.Row) (*entities.RiskData, error) {
	var rd entities.RiskData
	err := row.Scan(&rd.ID, &rd.Name, &rd.Value, &rd.Category, &rd.CreatedAt, &rd.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan risk data: %w", err)
	}
	return &rd, nil
}

func (r *RiskDataRepository) buildFilterQuery(filter types.Filter) sq.SelectBuilder {
	b := sq.Select().From(riskDataTable + " rd").PlaceholderFormat(sq.Dollar)
	if filter.Search != "" {
		b = b.Where(sq.ILike{"rd.name": "%" + filter.Search + "%"})
	}
	for key, value := range filter.Filter {
		if dbColumn, ok := riskDataAllowedFilterFields[key]; ok {
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

func (r *RiskDataRepository) GetRiskData(ctx context.Context, filter types.Filter) ([]entities.RiskData, uint64, error) {
	countQuery, countArgs, err := r.buildFilterQuery(filter).Columns("COUNT(*)").ToSql()
	if err != nil {
		return nil, 0, err
	}
	var total uint64
	if err := r.storage.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []entities.RiskData{}, 0, nil
	}

	b := r.buildFilterQuery(filter).Columns(
		"rd.id", "rd.name", "rd.value", "rd.category", "rd.created_at", "rd.updated_at",
	)
	b = applySort(b, filter.Sort, riskDataAllowedSortFields, "rd.created_at DESC")
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

	records := make([]entities.RiskData, 0, filter.Limit)
	for rows.Next() {
		rd, err := scanRiskData(rows)
		if err != nil {
			return nil, 0, err
		}
		records = append(records, *rd)
	}
	return records, total, rows.Err()
}

func (r *RiskDataRepository) FindRiskData(ctx context.Context, id int64) (*entities.RiskData, error) {
	query := fmt.Sprintf(`SELECT %s FROM risk_data WHERE id = $1`, riskDataFields)
	return scanRiskData(r.storage.QueryRow(ctx, query, id))
}

func (r *RiskDataRepository) CreateRiskData(ctx context.Context, payload dto.CreateRiskDataDTO) (*entities.RiskData, error) {
	query := fmt.Sprintf(`
		INSERT INTO risk_data (name, value, category)
		VALUES ($1, $2, $3)
		RETURNING %s`, riskDataFields)
	return scanRiskData(r.storage.QueryRow(ctx, query, payload.Name, payload.Value, payload.Category))
}

func (r *RiskDataRepository) UpdateRiskData(ctx context.Context, id int64, payload dto.UpdateRiskDataDTO) (*entities.RiskData, error) {
	updateBuilder := sq.Update(riskDataTable).
		PlaceholderFormat(sq.Dollar).
		Where(sq.Eq{"id": id}).
		Set("updated_at", sq.Expr("NOW()"))
	hasChanges := false
	if payload.Name != nil {
		updateBuilder = updateBuilder.Set("name", *payload.Name)
		hasChanges = true
	}
	if payload.Value != nil {
		updateBuilder = updateBuilder.Set("value", *payload.Value)
		hasChanges = true
	}
	if payload.Category != nil {
		updateBuilder = updateBuilder.Set("category", *payload.Category)
		hasChanges = true
	}
	if !hasChanges {
		return r.FindRiskData(ctx, id)
	}
	query, args, err := updateBuilder.Suffix("RETURNING " + riskDataFields).ToSql()
	if err != nil {
		return nil, err
	}
	return scanRiskData(r.storage.QueryRow(ctx, query, args...))
}

func (r *RiskDataRepository) DeleteRiskData(ctx context.Context, id int64) error {
	result, err := r.storage.Exec(ctx, `DELETE FROM risk_data WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *RiskDataRepository) GetStats(ctx context.Context) (*types.RiskDataStats, error) {
	query := `
		SELECT
			COUNT(*) AS total_records,
			COALESCE(SUM(value), 0) AS total_value,
			COALESCE(AVG(value), 0) AS average_value,
			COALESCE(MAX(value), 0) AS max_value,
			COALESCE(MIN(value), 0) AS min_value
		FROM risk_data`
	stats := &types.RiskDataStats{}
	err := r.storage.QueryRow(ctx, query).Scan(
		&stats.TotalRecords, &stats.TotalValue, &stats.AverageValue, &stats.MaxValue, &stats.MinValue,
	)
	return stats, err
}

// GetMonthlyChart sums values per month over the last half year.
func (r *RiskDataRepository) GetMonthlyChart(ctx context.Context) ([]types.ChartPoint, error) {
	query := `
		SELECT to_char(created_at, 'Mon YYYY') AS name, SUM(value) AS value
		FROM risk_data
		WHERE created_at >= NOW() - INTERVAL '6 months'
		GROUP BY to_char(created_at, 'Mon YYYY'), date_trunc('month', created_at)
		ORDER BY date_trunc('month', created_at)`
	return r.collectChart(ctx, query)
}

func (r *RiskDataRepository) GetCategoryChart(ctx context.Context) ([]types.ChartPoint, error) {
	query := `
		SELECT category AS name, COUNT(id)::float8 AS value
		FROM risk_data
		GROUP BY category
		ORDER BY category`
	return r.collectChart(ctx, query)
}

func (r *RiskDataRepository) collectChart(ctx context.Context, query string) ([]types.ChartPoint, error) {
	rows, err := r.storage.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	points := make([]types.ChartPoint, 0)
	for rows.Next() {
		var p types.ChartPoint
		if err := rows.Scan(&p.Name, &p.Value); err != nil {
			return nil, err
		}
		points = append(points, p)
	}
	return points, rows.Err()
}
