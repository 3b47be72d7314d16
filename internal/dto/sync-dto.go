package dto

import "time"

// Payload shapes as delivered by the external HR master-data API.
// Field names follow the upstream JSON contract, not our own conventions.

type ExternalDepartmentDTO struct {
	DepartmentID string  `json:"departmentID"`
	Deskripsi    string  `json:"deskripsi"`
	Induk        *string `json:"induk"`
	IsDepartment string  `json:"isDepartment"`
}

type ExternalPositionDTO struct {
	JabatanID       int64   `json:"jabatanID"`
	Deskripsi       string  `json:"deskripsi"`
	Department      *string `json:"department"`
	JabatanParentID *int64  `json:"jabatanParentID"`
	IsMitra         bool    `json:"isMitra"`
	IsOfficer       bool    `json:"isOfficer"`
	IsManager       bool    `json:"isManager"`
	IsVp            bool    `json:"isVp"`
	IsDirector      bool    `json:"isDirector"`
	IsCommissioner  bool    `json:"isCommissioner"`
	IsSecretary     bool    `json:"isSecretary"`
	IsDriver        bool    `json:"isDriver"`
	IsSecurity      bool    `json:"isSecurity"`
	IsIntern        bool    `json:"isIntern"`
	Del             bool    `json:"del"`
}

type ExternalEmployeeDTO struct {
	ID                   string     `json:"id"`
	Name                 string     `json:"name"`
	Email                string     `json:"email"`
	UserName             string     `json:"userName"`
	NIP                  *string    `json:"nip"`
	Department           *string    `json:"department"`
	Jabatan              *int64     `json:"jabatan"`
	PasswordHash         *string    `json:"passwordHash"`
	GCG                  bool       `json:"gcg"`
	GCGAdmin             bool       `json:"gcgAdmin"`
	CodeOfConduct        bool       `json:"codeOfConduct"`
	ConflictOfInterest   bool       `json:"conflictOfInterest"`
	CodeOfConductDt      *time.Time `json:"codeOfConductDt"`
	ConflictOfInterestDt *time.Time `json:"conflictOfInterestDt"`
	IsTkjp               bool       `json:"isTkjp"`
	NormalizedUserName   *string    `json:"normalizedUserName"`
	NormalizedEmail      *string    `json:"normalizedEmail"`
	EmailConfirmed       bool       `json:"emailConfirmed"`
	SecurityStamp        *string    `json:"securityStamp"`
	ConcurrencyStamp     *string    `json:"concurrencyStamp"`
	PhoneNumber          *string    `json:"phoneNumber"`
	PhoneNumberConfirmed bool       `json:"phoneNumberConfirmed"`
	TwoFactorEnabled     bool       `json:"twoFactorEnabled"`
	LockoutEnd           *time.Time `json:"lockoutEnd"`
	LockoutEnabled       *bool      `json:"lockoutEnabled"`
	AccessFailedCount    int        `json:"accessFailedCount"`
}

type SyncResultDTO struct {
	Status           string `json:"status"`
	DepartmentsCount int    `json:"departments_count"`
	PositionsCount   int    `json:"positions_count"`
	EmployeesCount   int    `json:"employees_count"`
	ErrorMessage     string `json:"error_message,omitempty"`
	SyncedAt         string `json:"synced_at"`
}

type SyncConnectionTestDTO struct {
	Reachable bool   `json:"reachable"`
	Message   string `json:"message"`
}
