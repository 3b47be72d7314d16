package entities

import "time"

// Target is the annual goal of one department: how many certifications
// and learning hours its employees should accumulate. (department_id,
// year) is unique.
type Target struct {
	ID                  int64     `json:"id" db:"id"`
	DepartmentID        string    `json:"department_id" db:"department_id"`
	Year                int       `json:"year" db:"year"`
	CertificationTarget int       `json:"certification_target" db:"certification_target"`
	LearningHoursTarget int       `json:"learning_hours_target" db:"learning_hours_target"`
	CreatedAt           time.Time `json:"created_at" db:"created_at"`
	UpdatedAt           time.Time `json:"updated_at" db:"updated_at"`
}

// TargetWithDepartment carries department info for the settings screen.
type TargetWithDepartment struct {
	Target
	DepartmentName *string `json:"department_name" db:"department_name"`
}
