package model

import "time"

type WeightRange struct {
	Id        int       `json:"id,omitempty"`
	Label     string    `json:"value" validate:"required,max=20"`
	MinimumKg float64   `json:"min" validate:"min=0"`
	CreatedAt time.Time `json:"-"`
}
