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

const syncLogTable = "sync_logs"

const syncLogFields = `id, sync_type, status, synced_by, source_ip,
	departments_count, positions_count, employees_count, error_message, synced_at`

type SyncLogRepositoryInterface interface {
	InsertSyncLog(ctx context.Context, log entities.SyncLog) (*entities.SyncLog, error)
	GetSyncLogs(ctx context.Context, filter types.Filter) ([]entities.SyncLog, uint64, error)
	LastSyncLog(ctx context.Context, syncType string) (*entities.SyncLog, error)
}

type SyncLogRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewSyncLogRepository(storage *pgxpool.Pool, logger *zap.Logger) SyncLogRepositoryInterface {
	return &SyncLogRepository{storage: storage, logger: logger}
}

func scanSyncLog(row pgx.Row) (*entities.SyncLog, error) {
	var l entities.SyncLog
	err := row.Scan(
		&l.ID, &l.SyncType, &l.Status, &l.SyncedBy, &l.SourceIP,
		&l.DepartmentsCount, &l.PositionsCount, &l.EmployeesCount, &l.ErrorMessage, &l.SyncedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan sync log: %w", err)
	}
	return &l, nil
}

func (r *SyncLogRepository) InsertSyncLog(ctx context.Context, log entities.SyncLog) (*entities.SyncLog, error) {
	query := fmt.Sprintf(`
		INSERT INTO sync_logs (
			sync_type, status, synced_by, source_ip,
			departments_count, positions_count, employees_count, error_message
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING %s`, syncLogFields)
	return scanSyncLog(r.storage.QueryRow(ctx, query,
		log.SyncType, log.Status, log.SyncedBy, log.SourceIP,
		log.DepartmentsCount, log.PositionsCount, log.EmployeesCount, log.ErrorMessage))
}

func (r *SyncLogRepository) GetSyncLogs(ctx context.Context, filter types.Filter) ([]entities.SyncLog, uint64, error) {
	base := sq.Select().From(syncLogTable + " sl").PlaceholderFormat(sq.Dollar)
	if syncType, ok := filter.Filter["sync_type"]; ok {
		base = base.Where(sq.Eq{"sl.sync_type": fmt.Sprintf("%v", syncType)})
	}
	if status, ok := filter.Filter["status"]; ok {
		base = base.Where(sq.Eq{"sl.status": fmt.Sprintf("%v", status)})
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
		return []entities.SyncLog{}, 0, nil
	}

	b := base.Columns(
		"sl.id", "sl.sync_type", "sl.status", "sl.synced_by", "sl.source_ip",
		"sl.departments_count", "sl.positions_count", "sl.employees_count", "sl.error_message", "sl.synced_at",
	).OrderBy("sl.synced_at DESC")
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

	logs := make([]entities.SyncLog, 0, filter.Limit)
	for rows.Next() {
		l, err := scanSyncLog(rows)
		if err != nil {
			return nil, 0, err
		}
		logs = append(logs, *l)
	}
	return logs, total, rows.Err()
}

// LastSyncLog returns the most recent run, optionally restricted to one
// sync type.
func (r *SyncLogRepository) LastSyncLog(ctx context.Context, syncType string) (*entities.SyncLog, error) {
	b := sq.Select(
		"id", "sync_type", "status", "synced_by", "source_ip",
		"departments_count", "positions_count", "employees_count", "error_message", "synced_at",
	).From(syncLogTable).
		OrderBy("synced_at DESC").
		Limit(1).
		PlaceholderFormat(sq.Dollar)
	if syncType != "" {
		b = b.Where(sq.Eq{"sync_type": syncType})
	}
	query, args, err := b.ToSql()
	if err != nil {
		return nil, err
	}
	return scanSyncLog(r.storage.QueryRow(ctx, query, args...))
}
