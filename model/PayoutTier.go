package model

import "time"

type PayoutTier struct {
	Id        int       `json:"id,omitempty"`
	Min       int       `json:"min" validate:"required,min=1"`
	Max       *int      `json:"max"`
	RatePerKg float64   `json:"rate" validate:"min=0"`
	CreatedAt time.Time `json:"-"`
}
