package dto

type AssignRoleDTO struct {
	EmployeeID string `json:"employee_id" validate:"required,uuid"`
	RoleID     int64  `json:"role_id" validate:"required"`
}
