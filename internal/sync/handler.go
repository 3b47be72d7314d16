package sync

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"capability-dashboard/internal/dto"
	"capability-dashboard/internal/entities"
	apperrors "capability-dashboard/pkg/errors"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// Narrow views of the repositories; the handler only needs lookup and
// save primitives, which keeps it trivially fakeable in tests.

type departmentStore interface {
	ListDepartmentIDs(ctx context.Context) (map[string]struct{}, error)
	SaveDepartment(ctx context.Context, tx pgx.Tx, department entities.Department) error
}

type positionStore interface {
	ListPositionIDs(ctx context.Context) (map[int64]struct{}, error)
	SavePosition(ctx context.Context, tx pgx.Tx, position entities.Position) error
}

type employeeStore interface {
	FindEmployee(ctx context.Context, id string) (*entities.Employee, error)
	SaveEmployee(ctx context.Context, tx pgx.Tx, employee entities.Employee) error
}

type txRunner interface {
	RunInTransaction(ctx context.Context, fn func(tx pgx.Tx) error) error
}

// Handler persists the payloads fetched from the external HR system.
// Each entity is written through an explicit find-then-save upsert so
// every row passes the same referential checks regardless of whether it
// is new or updated. A batch is one transaction: a failed row rolls the
// whole batch back.
type Handler struct {
	tx          txRunner
	departments departmentStore
	positions   positionStore
	employees   employeeStore
	logger      *zap.Logger
}

func NewHandler(tx txRunner, departments departmentStore, positions positionStore, employees employeeStore, logger *zap.Logger) *Handler {
	return &Handler{
		tx:          tx,
		departments: departments,
		positions:   positions,
		employees:   employees,
		logger:      logger,
	}
}

// UpsertDepartments writes the department payload and returns the number
// of rows persisted. Departments carry no references to validate.
func (h *Handler) UpsertDepartments(ctx context.Context, payload []dto.ExternalDepartmentDTO) (int, error) {
	count := 0
	err := h.tx.RunInTransaction(ctx, func(tx pgx.Tx) error {
		for _, item := range payload {
			if item.DepartmentID == "" {
				h.logger.Warn("skipping department without id", zap.String("description", item.Deskripsi))
				continue
			}
			department := entities.Department{
				ID:           item.DepartmentID,
				Description:  item.Deskripsi,
				ParentID:     item.Induk,
				IsDepartment: strings.EqualFold(item.IsDepartment, "Y"),
			}
			if err := h.departments.SaveDepartment(ctx, tx, department); err != nil {
				return err
			}
			count++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return count, nil
}

// UpsertPositions writes the position payload. Department references are
// resolved against the current local department set; unknown codes are
// persisted as NULL with a warning rather than rejecting the row.
func (h *Handler) UpsertPositions(ctx context.Context, payload []dto.ExternalPositionDTO) (int, error) {
	validDepartments, err := h.departments.ListDepartmentIDs(ctx)
	if err != nil {
		return 0, err
	}

	count := 0
	err = h.tx.RunInTransaction(ctx, func(tx pgx.Tx) error {
		for _, item := range payload {
			if item.JabatanID == 0 {
				h.logger.Warn("skipping position without id", zap.String("description", item.Deskripsi))
				continue
			}
			position := entities.Position{
				ID:             item.JabatanID,
				Description:    item.Deskripsi,
				DepartmentID:   h.resolveDepartment(item.Department, validDepartments, "position", strconv.FormatInt(item.JabatanID, 10)),
				ParentID:       item.JabatanParentID,
				IsMitra:        item.IsMitra,
				IsOfficer:      item.IsOfficer,
				IsManager:      item.IsManager,
				IsVP:           item.IsVp,
				IsDirector:     item.IsDirector,
				IsCommissioner: item.IsCommissioner,
				IsSecretary:    item.IsSecretary,
				IsDriver:       item.IsDriver,
				IsSecurity:     item.IsSecurity,
				IsIntern:       item.IsIntern,
				Deleted:        item.Del,
			}
			if err := h.positions.SavePosition(ctx, tx, position); err != nil {
				return err
			}
			count++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return count, nil
}

// UpsertEmployees writes the employee payload. Rows whose local
// counterpart is a super admin are skipped entirely, and every row that
// is written has is_super_admin forced to false, so sync can never grant
// or overwrite elevated access.
func (h *Handler) UpsertEmployees(ctx context.Context, payload []dto.ExternalEmployeeDTO) (int, error) {
	validDepartments, err := h.departments.ListDepartmentIDs(ctx)
	if err != nil {
		return 0, err
	}
	validPositions, err := h.positions.ListPositionIDs(ctx)
	if err != nil {
		return 0, err
	}

	count := 0
	err = h.tx.RunInTransaction(ctx, func(tx pgx.Tx) error {
		for _, item := range payload {
			if item.ID == "" {
				h.logger.Warn("skipping employee without id", zap.String("name", item.Name))
				continue
			}

			existing, err := h.employees.FindEmployee(ctx, item.ID)
			if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
				return err
			}
			if existing != nil && existing.IsSuperAdmin {
				h.logger.Warn("skipping super admin employee",
					zap.String("id", existing.ID),
					zap.String("name", existing.Name))
				continue
			}

			lockoutEnabled := true
			if item.LockoutEnabled != nil {
				lockoutEnabled = *item.LockoutEnabled
			}

			employee := entities.Employee{
				ID:                   item.ID,
				Name:                 item.Name,
				Email:                item.Email,
				UserName:             item.UserName,
				NIP:                  item.NIP,
				PhoneNumber:          item.PhoneNumber,
				DepartmentID:         h.resolveDepartment(item.Department, validDepartments, "employee", item.ID),
				PositionID:           h.resolvePosition(item.Jabatan, validPositions, item.ID),
				PasswordHash:         item.PasswordHash,
				GCG:                  item.GCG,
				GCGAdmin:             item.GCGAdmin,
				CodeOfConduct:        item.CodeOfConduct,
				ConflictOfInterest:   item.ConflictOfInterest,
				CodeOfConductDt:      item.CodeOfConductDt,
				ConflictOfInterestDt: item.ConflictOfInterestDt,
				IsTKJP:               item.IsTkjp,
				NormalizedUserName:   item.NormalizedUserName,
				NormalizedEmail:      item.NormalizedEmail,
				EmailConfirmed:       item.EmailConfirmed,
				SecurityStamp:        item.SecurityStamp,
				ConcurrencyStamp:     item.ConcurrencyStamp,
				PhoneNumberConfirmed: item.PhoneNumberConfirmed,
				TwoFactorEnabled:     item.TwoFactorEnabled,
				LockoutEnd:           item.LockoutEnd,
				LockoutEnabled:       lockoutEnabled,
				AccessFailedCount:    item.AccessFailedCount,
				IsSuperAdmin:         false,
			}
			if err := h.employees.SaveEmployee(ctx, tx, employee); err != nil {
				return err
			}
			count++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (h *Handler) resolveDepartment(ref *string, valid map[string]struct{}, owner, ownerID string) *string {
	if ref == nil || *ref == "" {
		return nil
	}
	if _, ok := valid[*ref]; ok {
		return ref
	}
	h.logger.Warn("unknown department reference, storing NULL",
		zap.String("department_id", *ref),
		zap.String("entity", owner),
		zap.String("entity_id", ownerID))
	return nil
}

func (h *Handler) resolvePosition(ref *int64, valid map[int64]struct{}, employeeID string) *int64 {
	if ref == nil || *ref == 0 {
		return nil
	}
	if _, ok := valid[*ref]; ok {
		return ref
	}
	h.logger.Warn("unknown position reference, storing NULL",
		zap.Int64("position_id", *ref),
		zap.String("employee_id", employeeID))
	return nil
}
