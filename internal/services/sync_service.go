package services

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"capability-dashboard/internal/dto"
	"capability-dashboard/internal/entities"
	"capability-dashboard/internal/extapi"
	"capability-dashboard/internal/repositories"
	syncpkg "capability-dashboard/internal/sync"
	apperrors "capability-dashboard/pkg/errors"
	"capability-dashboard/pkg/types"
)

// syncWriter is the slice of the sync handler the orchestrator uses.
type syncWriter interface {
	UpsertDepartments(ctx context.Context, payload []dto.ExternalDepartmentDTO) (int, error)
	UpsertPositions(ctx context.Context, payload []dto.ExternalPositionDTO) (int, error)
	UpsertEmployees(ctx context.Context, payload []dto.ExternalEmployeeDTO) (int, error)
}

var _ syncWriter = (*syncpkg.Handler)(nil)

// SyncService orchestrates master-data synchronization runs. Every run,
// whatever its outcome, is recorded as exactly one sync log row.
type SyncService struct {
	client  extapi.ClientInterface
	writer  syncWriter
	logRepo repositories.SyncLogRepositoryInterface
	logger  *zap.Logger
}

func NewSyncService(
	client extapi.ClientInterface,
	writer syncWriter,
	logRepo repositories.SyncLogRepositoryInterface,
	logger *zap.Logger,
) *SyncService {
	return &SyncService{client: client, writer: writer, logRepo: logRepo, logger: logger}
}

func (s *SyncService) writeLog(ctx context.Context, log entities.SyncLog) {
	if log.SyncedBy == "" {
		log.SyncedBy = "System"
	}
	if _, err := s.logRepo.InsertSyncLog(ctx, log); err != nil {
		s.logger.Error("failed to write sync log", zap.Error(err), zap.String("sync_type", log.SyncType))
	}
}

func result(log entities.SyncLog) *dto.SyncResultDTO {
	message := ""
	if log.ErrorMessage != nil {
		message = *log.ErrorMessage
	}
	return &dto.SyncResultDTO{
		Status:           log.Status,
		DepartmentsCount: log.DepartmentsCount,
		PositionsCount:   log.PositionsCount,
		EmployeesCount:   log.EmployeesCount,
		ErrorMessage:     message,
		SyncedAt:         time.Now().Format(time.RFC3339),
	}
}

func errMessagePtr(b *strings.Builder) *string {
	if b.Len() == 0 {
		return nil
	}
	msg := strings.TrimSpace(b.String())
	return &msg
}

// SyncAll runs the three phases strictly in order: departments, then
// positions, then employees. A department failure aborts the run; a
// position or employee fetch failure downgrades the run to partial and
// the remaining phases continue. An error escaping an upsert loop fails
// the run.
func (s *SyncService) SyncAll(ctx context.Context, syncedBy string, sourceIP string) (*dto.SyncResultDTO, error) {
	log := entities.SyncLog{
		SyncType: entities.SyncTypeAll,
		Status:   entities.SyncStatusSuccess,
		SyncedBy: syncedBy,
		SourceIP: strPtr(sourceIP),
	}
	var errMsg strings.Builder

	s.logger.Info("starting full synchronization",
		zap.String("synced_by", syncedBy),
		zap.String("source_ip", sourceIP))

	// Phase 1: departments. Positions and employees resolve their
	// references against this phase's result, so a failure here aborts
	// everything.
	departments, err := s.client.FetchDepartments(ctx)
	if err != nil {
		s.logger.Error("department fetch failed, aborting sync", zap.Error(err))
		errMsg.WriteString("Failed to sync departments: " + err.Error())
		log.Status = entities.SyncStatusFailed
		log.ErrorMessage = errMessagePtr(&errMsg)
		s.writeLog(ctx, log)
		return nil, apperrors.NewHttpError(500, "failed to sync departments", err, nil)
	}
	log.DepartmentsCount, err = s.writer.UpsertDepartments(ctx, departments)
	if err != nil {
		return s.failRun(ctx, log, &errMsg, "departments upsert failed", err)
	}
	s.logger.Info("departments synced", zap.Int("count", log.DepartmentsCount))

	// Phase 2: positions. A fetch failure downgrades to partial.
	positions, err := s.client.FetchPositions(ctx)
	if err != nil {
		s.logger.Warn("position fetch failed, continuing", zap.Error(err))
		log.Status = entities.SyncStatusPartial
		errMsg.WriteString("Failed to sync positions. ")
	} else {
		log.PositionsCount, err = s.writer.UpsertPositions(ctx, positions)
		if err != nil {
			return s.failRun(ctx, log, &errMsg, "positions upsert failed", err)
		}
		s.logger.Info("positions synced", zap.Int("count", log.PositionsCount))
	}

	// Phase 3: employees. Same rules as positions.
	employees, err := s.client.FetchEmployees(ctx)
	if err != nil {
		s.logger.Warn("employee fetch failed", zap.Error(err))
		log.Status = entities.SyncStatusPartial
		errMsg.WriteString("Failed to sync employees. ")
	} else {
		log.EmployeesCount, err = s.writer.UpsertEmployees(ctx, employees)
		if err != nil {
			return s.failRun(ctx, log, &errMsg, "employees upsert failed", err)
		}
		s.logger.Info("employees synced", zap.Int("count", log.EmployeesCount))
	}

	log.ErrorMessage = errMessagePtr(&errMsg)
	s.writeLog(ctx, log)
	return result(log), nil
}

func (s *SyncService) failRun(ctx context.Context, log entities.SyncLog, errMsg *strings.Builder, message string, err error) (*dto.SyncResultDTO, error) {
	s.logger.Error(message, zap.Error(err))
	errMsg.WriteString(message + ": " + err.Error())
	log.Status = entities.SyncStatusFailed
	log.ErrorMessage = errMessagePtr(errMsg)
	s.writeLog(ctx, log)
	return nil, apperrors.NewHttpError(500, message, err, nil)
}

// SyncDepartments runs the department phase alone.
func (s *SyncService) SyncDepartments(ctx context.Context, syncedBy string, sourceIP string) (*dto.SyncResultDTO, error) {
	return s.syncSingle(ctx, entities.SyncTypeDepartments, syncedBy, sourceIP, func(ctx context.Context, log *entities.SyncLog) error {
		payload, err := s.client.FetchDepartments(ctx)
		if err != nil {
			return err
		}
		log.DepartmentsCount, err = s.writer.UpsertDepartments(ctx, payload)
		return err
	})
}

// SyncPositions runs the position phase alone.
func (s *SyncService) SyncPositions(ctx context.Context, syncedBy string, sourceIP string) (*dto.SyncResultDTO, error) {
	return s.syncSingle(ctx, entities.SyncTypePositions, syncedBy, sourceIP, func(ctx context.Context, log *entities.SyncLog) error {
		payload, err := s.client.FetchPositions(ctx)
		if err != nil {
			return err
		}
		log.PositionsCount, err = s.writer.UpsertPositions(ctx, payload)
		return err
	})
}

// SyncEmployees runs the employee phase alone.
func (s *SyncService) SyncEmployees(ctx context.Context, syncedBy string, sourceIP string) (*dto.SyncResultDTO, error) {
	return s.syncSingle(ctx, entities.SyncTypeEmployees, syncedBy, sourceIP, func(ctx context.Context, log *entities.SyncLog) error {
		payload, err := s.client.FetchEmployees(ctx)
		if err != nil {
			return err
		}
		log.EmployeesCount, err = s.writer.UpsertEmployees(ctx, payload)
		return err
	})
}

func (s *SyncService) syncSingle(ctx context.Context, syncType, syncedBy, sourceIP string, phase func(context.Context, *entities.SyncLog) error) (*dto.SyncResultDTO, error) {
	log := entities.SyncLog{
		SyncType: syncType,
		Status:   entities.SyncStatusSuccess,
		SyncedBy: syncedBy,
		SourceIP: strPtr(sourceIP),
	}
	if err := phase(ctx, &log); err != nil {
		s.logger.Error("sync phase failed", zap.String("sync_type", syncType), zap.Error(err))
		message := "failed to sync " + syncType + ": " + err.Error()
		log.Status = entities.SyncStatusFailed
		log.ErrorMessage = &message
		s.writeLog(ctx, log)
		return nil, apperrors.NewHttpError(500, "failed to sync "+syncType, err, nil)
	}
	s.writeLog(ctx, log)
	return result(log), nil
}

// TestConnection checks the upstream is reachable and accepting the
// configured credentials.
func (s *SyncService) TestConnection(ctx context.Context) *dto.SyncConnectionTestDTO {
	if err := s.client.TestConnection(ctx); err != nil {
		return &dto.SyncConnectionTestDTO{Reachable: false, Message: err.Error()}
	}
	return &dto.SyncConnectionTestDTO{Reachable: true, Message: "API connection successful"}
}

func (s *SyncService) GetSyncLogs(ctx context.Context, filter types.Filter) ([]entities.SyncLog, uint64, error) {
	return s.logRepo.GetSyncLogs(ctx, filter)
}

func (s *SyncService) GetLastSync(ctx context.Context, syncType string) (*entities.SyncLog, error) {
	return s.logRepo.LastSyncLog(ctx, syncType)
}

func strPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
