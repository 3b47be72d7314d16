package dto

import "github.com/aarondl/null/v8"

type CreateAchievementDTO struct {
	Topic      string      `json:"topic" validate:"required"`
	Type       int         `json:"type" validate:"required,oneof=1 2"`
	Value      int         `json:"value" validate:"required,gt=0"`
	Organizer  null.String `json:"organizer"`
	EmployeeID string      `json:"employee_id" validate:"required,uuid"`
	DateStart  null.Time   `json:"date_start"`
	DateEnd    null.Time   `json:"date_end"`
	ValidUntil null.Time   `json:"valid_until"`
}

type UpdateAchievementDTO struct {
	Topic      *string     `json:"topic"`
	Type       *int        `json:"type" validate:"omitempty,oneof=1 2"`
	Value      *int        `json:"value" validate:"omitempty,gt=0"`
	Organizer  null.String `json:"organizer"`
	EmployeeID *string     `json:"employee_id" validate:"omitempty,uuid"`
	DateStart  null.Time   `json:"date_start"`
	DateEnd    null.Time   `json:"date_end"`
	ValidUntil null.Time   `json:"valid_until"`
}
