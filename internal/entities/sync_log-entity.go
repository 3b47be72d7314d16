package entities

import "time"

// Sync run types.
const (
	SyncTypeAll         = "all"
	SyncTypeDepartments = "departments"
	SyncTypePositions   = "positions"
	SyncTypeEmployees   = "employees"
)

// Sync run outcomes.
const (
	SyncStatusSuccess = "success"
	SyncStatusPartial = "partial"
	SyncStatusFailed  = "failed"
)

// SyncLog is the append-only audit record: exactly one row per sync
// invocation, never updated or deleted by the application.
type SyncLog struct {
	ID               int64     `json:"id" db:"id"`
	SyncType         string    `json:"sync_type" db:"sync_type"`
	Status           string    `json:"status" db:"status"`
	SyncedBy         string    `json:"synced_by" db:"synced_by"`
	SourceIP         *string   `json:"source_ip" db:"source_ip"`
	DepartmentsCount int       `json:"departments_count" db:"departments_count"`
	PositionsCount   int       `json:"positions_count" db:"positions_count"`
	EmployeesCount   int       `json:"employees_count" db:"employees_count"`
	ErrorMessage     *string   `json:"error_message" db:"error_message"`
	SyncedAt         time.Time `json:"synced_at" db:"synced_at"`
}
