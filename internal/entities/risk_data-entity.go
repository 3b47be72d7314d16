package entities

import "time"

// RiskData backs the legacy admin data screen and the basic dashboard
// stats endpoint.
type RiskData struct {
	ID        int64     `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Value     float64   `json:"value" db:"value"`
	Category  string    `json:"category" db:"category"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
