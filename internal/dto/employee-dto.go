package dto

import "github.com/aarondl/null/v8"

type CreateEmployeeDTO struct {
	Name         string      `json:"name" validate:"required"`
	Email        string      `json:"email" validate:"required,email"`
	UserName     string      `json:"user_name" validate:"required"`
	NIP          null.String `json:"nip"`
	PhoneNumber  null.String `json:"phone_number"`
	DepartmentID null.String `json:"department_id"`
	PositionID   null.Int64  `json:"position_id"`
	IsTKJP       bool        `json:"is_tkjp"`
}

type UpdateEmployeeDTO struct {
	Name         *string     `json:"name"`
	Email        *string     `json:"email" validate:"omitempty,email"`
	UserName     *string     `json:"user_name"`
	NIP          null.String `json:"nip"`
	PhoneNumber  null.String `json:"phone_number"`
	DepartmentID null.String `json:"department_id"`
	PositionID   null.Int64  `json:"position_id"`
	IsTKJP       *bool       `json:"is_tkjp"`
}
