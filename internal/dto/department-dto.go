package dto

import "github.com/aarondl/null/v8"

type CreateDepartmentDTO struct {
	ID           string      `json:"id" validate:"required,max=10"`
	Description  string      `json:"description" validate:"required"`
	ParentID     null.String `json:"parent_id"`
	IsDepartment bool        `json:"is_department"`
}

type UpdateDepartmentDTO struct {
	Description  *string     `json:"description"`
	ParentID     null.String `json:"parent_id"`
	IsDepartment *bool       `json:"is_department"`
}
