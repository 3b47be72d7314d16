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

const achievementTable = "achievements"

const achievementFields = `id, topic, type, value, organizer, employee_id,
	date_start, date_end, valid_until, input_by_name, input_by_id, created_at`

var (
	achievementAllowedFilterFields = map[string]string{
		"type":          "a.type",
		"employee_id":   "a.employee_id",
		"organizer":     "a.organizer",
		"department_id": "e.department_id",
	}
	achievementAllowedSortFields = map[string]string{
		"id":         "a.id",
		"topic":      "a.topic",
		"value":      "a.value",
		"created_at": "a.created_at",
		"date_start": "a.date_start",
	}
)

type AchievementRepositoryInterface interface {
	GetAchievements(ctx context.Context, filter types.Filter) ([]entities.AchievementWithEmployee, uint64, error)
	FindAchievement(ctx context.Context, id int64) (*entities.Achievement, error)
	CreateAchievement(ctx context.Context, achievement entities.Achievement) (*entities.Achievement, error)
	UpdateAchievement(ctx context.Context, id int64, payload dto.UpdateAchievementDTO) (*entities.Achievement, error)
	DeleteAchievement(ctx context.Context, id int64) error
	ListForReport(ctx context.Context, year int, departmentID string) ([]entities.AchievementWithEmployee, error)
}

type AchievementRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewAchievementRepository(storage *pgxpool.Pool, logger *zap.Logger) AchievementRepositoryInterface {
	return &AchievementRepository{storage: storage, logger: logger}
}

func scanAchievement(row pgx.Row) (*entities.Achievement, error) {
	var a entities.Achievement
	err := row.Scan(
		&a.ID, &a.Topic, &a.Type, &a.Value, &a.Organizer, &a.EmployeeID,
		&a.DateStart, &a.DateEnd, &a.ValidUntil, &a.InputByName, &a.InputByID, &a.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan achievement: %w", err)
	}
	return &a, nil
}

func (r *AchievementRepository) buildFilterQuery(filter types.Filter) sq.SelectBuilder {
	b := sq.Select().
		From(achievementTable + " a").
		Join("employees e ON e.id = a.employee_id").
		LeftJoin("departments d ON d.id = e.department_id").
		PlaceholderFormat(sq.Dollar)
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		b = b.Where(sq.Or{
			sq.ILike{"a.topic": pattern},
			sq.ILike{"a.organizer": pattern},
			sq.ILike{"e.name": pattern},
		})
	}
	for key, value := range filter.Filter {
		if dbColumn, ok := achievementAllowedFilterFields[key]; ok {
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

func (r *AchievementRepository) GetAchievements(ctx context.Context, filter types.Filter) ([]entities.AchievementWithEmployee, uint64, error) {
	countQuery, countArgs, err := r.buildFilterQuery(filter).Columns("COUNT(*)").ToSql()
	if err != nil {
		return nil, 0, err
	}
	var total uint64
	if err := r.storage.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []entities.AchievementWithEmployee{}, 0, nil
	}

	b := r.buildFilterQuery(filter).Columns(
		"a.id", "a.topic", "a.type", "a.value", "a.organizer", "a.employee_id",
		"a.date_start", "a.date_end", "a.valid_until", "a.input_by_name", "a.input_by_id", "a.created_at",
		"e.name AS employee_name", "e.department_id", "d.description AS department_name",
	)
	b = applySort(b, filter.Sort, achievementAllowedSortFields, "a.created_at DESC")
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
	items, err := pgx.CollectRows(rows, pgx.RowToStructByName[entities.AchievementWithEmployee])
	if err != nil {
		return nil, 0, fmt.Errorf("collect achievements: %w", err)
	}
	return items, total, nil
}

func (r *AchievementRepository) FindAchievement(ctx context.Context, id int64) (*entities.Achievement, error) {
	query := fmt.Sprintf(`SELECT %s FROM achievements WHERE id = $1`, achievementFields)
	return scanAchievement(r.storage.QueryRow(ctx, query, id))
}

func (r *AchievementRepository) CreateAchievement(ctx context.Context, achievement entities.Achievement) (*entities.Achievement, error) {
	query := fmt.Sprintf(`
		INSERT INTO achievements (
			topic, type, value, organizer, employee_id,
			date_start, date_end, valid_until, input_by_name, input_by_id
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING %s`, achievementFields)
	return scanAchievement(r.storage.QueryRow(ctx, query,
		achievement.Topic, achievement.Type, achievement.Value, achievement.Organizer, achievement.EmployeeID,
		achievement.DateStart, achievement.DateEnd, achievement.ValidUntil,
		achievement.InputByName, achievement.InputByID))
}

func (r *AchievementRepository) UpdateAchievement(ctx context.Context, id int64, payload dto.UpdateAchievementDTO) (*entities.Achievement, error) {
	updateBuilder := sq.Update(achievementTable).
		PlaceholderFormat(sq.Dollar).
		Where(sq.Eq{"id": id})
	hasChanges := false
	if payload.Topic != nil {
		updateBuilder = updateBuilder.Set("topic", *payload.Topic)
		hasChanges = true
	}
	if payload.Type != nil {
		updateBuilder = updateBuilder.Set("type", *payload.Type)
		hasChanges = true
	}
	if payload.Value != nil {
		updateBuilder = updateBuilder.Set("value", *payload.Value)
		hasChanges = true
	}
	if payload.Organizer.Valid {
		updateBuilder = updateBuilder.Set("organizer", payload.Organizer.String)
		hasChanges = true
	}
	if payload.EmployeeID != nil {
		updateBuilder = updateBuilder.Set("employee_id", *payload.EmployeeID)
		hasChanges = true
	}
	if payload.DateStart.Valid {
		updateBuilder = updateBuilder.Set("date_start", payload.DateStart.Time)
		hasChanges = true
	}
	if payload.DateEnd.Valid {
		updateBuilder = updateBuilder.Set("date_end", payload.DateEnd.Time)
		hasChanges = true
	}
	if payload.ValidUntil.Valid {
		updateBuilder = updateBuilder.Set("valid_until", payload.ValidUntil.Time)
		hasChanges = true
	}
	if !hasChanges {
		return r.FindAchievement(ctx, id)
	}
	query, args, err := updateBuilder.Suffix("RETURNING " + achievementFields).ToSql()
	if err != nil {
		return nil, err
	}
	return scanAchievement(r.storage.QueryRow(ctx, query, args...))
}

func (r *AchievementRepository) DeleteAchievement(ctx context.Context, id int64) error {
	result, err := r.storage.Exec(ctx, `DELETE FROM achievements WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// ListForReport returns the flat joined rows for the yearly export,
// optionally restricted to one department.
func (r *AchievementRepository) ListForReport(ctx context.Context, year int, departmentID string) ([]entities.AchievementWithEmployee, error) {
	b := sq.Select(
		"a.id", "a.topic", "a.type", "a.value", "a.organizer", "a.employee_id",
		"a.date_start", "a.date_end", "a.valid_until", "a.input_by_name", "a.input_by_id", "a.created_at",
		"e.name AS employee_name", "e.department_id", "d.description AS department_name",
	).
		From(achievementTable+" a").
		Join("employees e ON e.id = a.employee_id").
		LeftJoin("departments d ON d.id = e.department_id").
		Where("EXTRACT(YEAR FROM a.created_at) = ?", year).
		OrderBy("d.description ASC", "e.name ASC", "a.created_at ASC").
		PlaceholderFormat(sq.Dollar)
	if departmentID != "" {
		b = b.Where(sq.Eq{"e.department_id": departmentID})
	}
	query, args, err := b.ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	items, err := pgx.CollectRows(rows, pgx.RowToStructByName[entities.AchievementWithEmployee])
	if err != nil {
		return nil, fmt.Errorf("collect report rows: %w", err)
	}
	return items, nil
}
