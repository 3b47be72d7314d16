package dto

type CreateRiskDataDTO struct {
	Name     string  `json:"name" validate:"required"`
	Value    float64 `json:"value" validate:"required"`
	Category string  `json:"category" validate:"required"`
}

type UpdateRiskDataDTO struct {
	Name     *string  `json:"name"`
	Value    *float64 `json:"value"`
	Category *string  `json:"category"`
}
