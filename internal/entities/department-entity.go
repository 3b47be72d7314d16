package entities

import "time"

// Department mirrors the external HR system's department reference.
// The primary key is the external natural string code.
type Department struct {
	ID           string    `json:"id" db:"id"`
	Description  string    `json:"description" db:"description"`
	ParentID     *string   `json:"parent_id" db:"parent_id"`
	IsDepartment bool      `json:"is_department" db:"is_department"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}
