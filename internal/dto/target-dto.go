package dto

type CreateTargetDTO struct {
	DepartmentID        string `json:"department_id" validate:"required"`
	Year                int    `json:"year" validate:"required,gte=2000,lte=2100"`
	CertificationTarget int    `json:"certification_target" validate:"gte=0"`
	LearningHoursTarget int    `json:"learning_hours_target" validate:"gte=0"`
}

type UpdateTargetDTO struct {
	CertificationTarget *int `json:"certification_target" validate:"omitempty,gte=0"`
	LearningHoursTarget *int `json:"learning_hours_target" validate:"omitempty,gte=0"`
}
