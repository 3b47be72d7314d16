package entities

import "time"

// Position mirrors the external HR system's jabatan reference. The id is
// assigned upstream, not locally.
type Position struct {
	ID           int64   `json:"id" db:"id"`
	Description  string  `json:"description" db:"description"`
	DepartmentID *string `json:"department_id" db:"department_id"`
	ParentID     *int64  `json:"parent_id" db:"parent_id"`

	// Role classification flags, carried verbatim from upstream.
	IsMitra        bool `json:"is_mitra" db:"is_mitra"`
	IsOfficer      bool `json:"is_officer" db:"is_officer"`
	IsManager      bool `json:"is_manager" db:"is_manager"`
	IsVP           bool `json:"is_vp" db:"is_vp"`
	IsDirector     bool `json:"is_director" db:"is_director"`
	IsCommissioner bool `json:"is_commissioner" db:"is_commissioner"`
	IsSecretary    bool `json:"is_secretary" db:"is_secretary"`
	IsDriver       bool `json:"is_driver" db:"is_driver"`
	IsSecurity     bool `json:"is_security" db:"is_security"`
	IsIntern       bool `json:"is_intern" db:"is_intern"`

	Deleted   bool      `json:"deleted" db:"deleted"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
