package dto

import "github.com/aarondl/null/v8"

type CreateRoleDTO struct {
	RoleName    string      `json:"role_name" validate:"required"`
	Permissions []string    `json:"permissions" validate:"required,min=1"`
	Description null.String `json:"description"`
}

type UpdateRoleDTO struct {
	RoleName    *string     `json:"role_name"`
	Permissions []string    `json:"permissions"`
	Description null.String `json:"description"`
}

type RoleResponseDTO struct {
	ID          int64    `json:"id"`
	RoleName    string   `json:"role_name"`
	Permissions []string `json:"permissions"`
	Description *string  `json:"description"`
}
