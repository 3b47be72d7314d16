package entities

import "time"

// Role stores its permission names as a serialized JSON array string in
// the permissions column; parsing happens once at the auth boundary.
type Role struct {
	ID          int64     `json:"id" db:"id"`
	RoleName    string    `json:"role_name" db:"role_name"`
	Permissions string    `json:"-" db:"permissions"`
	Description *string   `json:"description" db:"description"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

type UserRole struct {
	ID         int64     `json:"id" db:"id"`
	EmployeeID string    `json:"employee_id" db:"employee_id"`
	RoleID     int64     `json:"role_id" db:"role_id"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

// UserRoleWithNames is the joined row the access management screen lists.
type UserRoleWithNames struct {
	UserRole
	EmployeeName string `json:"employee_name" db:"employee_name"`
	RoleName     string `json:"role_name" db:"role_name"`
}
