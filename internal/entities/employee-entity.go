package entities

import "time"

// Employee mirrors the external HR system's user record plus local
// bookkeeping. IsSuperAdmin marks records the sync pipeline must never
// overwrite.
type Employee struct {
	ID           string  `json:"id" db:"id"`
	Name         string  `json:"name" db:"name"`
	Email        string  `json:"email" db:"email"`
	UserName     string  `json:"user_name" db:"user_name"`
	NIP          *string `json:"nip" db:"nip"`
	PhoneNumber  *string `json:"phone_number" db:"phone_number"`
	DepartmentID *string `json:"department_id" db:"department_id"`
	PositionID   *int64  `json:"position_id" db:"position_id"`
	PasswordHash *string `json:"-" db:"password_hash"`

	// Compliance acknowledgment flags.
	GCG                  bool       `json:"gcg" db:"gcg"`
	GCGAdmin             bool       `json:"gcg_admin" db:"gcg_admin"`
	CodeOfConduct        bool       `json:"code_of_conduct" db:"code_of_conduct"`
	ConflictOfInterest   bool       `json:"conflict_of_interest" db:"conflict_of_interest"`
	CodeOfConductDt      *time.Time `json:"code_of_conduct_dt" db:"code_of_conduct_dt"`
	ConflictOfInterestDt *time.Time `json:"conflict_of_interest_dt" db:"conflict_of_interest_dt"`
	IsTKJP               bool       `json:"is_tkjp" db:"is_tkjp"`

	// Identity bookkeeping mirrored from upstream.
	NormalizedUserName   *string    `json:"normalized_user_name" db:"normalized_user_name"`
	NormalizedEmail      *string    `json:"normalized_email" db:"normalized_email"`
	EmailConfirmed       bool       `json:"email_confirmed" db:"email_confirmed"`
	SecurityStamp        *string    `json:"-" db:"security_stamp"`
	ConcurrencyStamp     *string    `json:"-" db:"concurrency_stamp"`
	PhoneNumberConfirmed bool       `json:"phone_number_confirmed" db:"phone_number_confirmed"`
	TwoFactorEnabled     bool       `json:"two_factor_enabled" db:"two_factor_enabled"`
	LockoutEnd           *time.Time `json:"lockout_end" db:"lockout_end"`
	LockoutEnabled       bool       `json:"lockout_enabled" db:"lockout_enabled"`
	AccessFailedCount    int        `json:"access_failed_count" db:"access_failed_count"`

	IsSuperAdmin bool      `json:"is_super_admin" db:"is_super_admin"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}
