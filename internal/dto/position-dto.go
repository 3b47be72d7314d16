package dto

import "github.com/aarondl/null/v8"

type CreatePositionDTO struct {
	ID           int64       `json:"id" validate:"required"`
	Description  string      `json:"description" validate:"required"`
	DepartmentID null.String `json:"department_id"`
	ParentID     null.Int64  `json:"parent_id"`

	IsMitra        bool `json:"is_mitra"`
	IsOfficer      bool `json:"is_officer"`
	IsManager      bool `json:"is_manager"`
	IsVP           bool `json:"is_vp"`
	IsDirector     bool `json:"is_director"`
	IsCommissioner bool `json:"is_commissioner"`
	IsSecretary    bool `json:"is_secretary"`
	IsDriver       bool `json:"is_driver"`
	IsSecurity     bool `json:"is_security"`
	IsIntern       bool `json:"is_intern"`
}

type UpdatePositionDTO struct {
	Description  *string     `json:"description"`
	DepartmentID null.String `json:"department_id"`
	ParentID     null.Int64  `json:"parent_id"`

	IsMitra        *bool `json:"is_mitra"`
	IsOfficer      *bool `json:"is_officer"`
	IsManager      *bool `json:"is_manager"`
	IsVP           *bool `json:"is_vp"`
	IsDirector     *bool `json:"is_director"`
	IsCommissioner *bool `json:"is_commissioner"`
	IsSecretary    *bool `json:"is_secretary"`
	IsDriver       *bool `json:"is_driver"`
	IsSecurity     *bool `json:"is_security"`
	IsIntern       *bool `json:"is_intern"`
	Deleted        *bool `json:"deleted"`
}
