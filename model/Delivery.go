package model

import "time"

type Delivery struct {
	Id             int        `json:"id"`
	Customer       Customer   `json:"customer"`
	Driver         Driver     `json:"driver"`
	EstimatedRange string     `json:"estimated_range"`
	DeliveredKg    float64    `json:"delivered_kg"`
	NetKg          *float64   `json:"net_kg"`
	RatePerKg      *float64   `json:"rate_per_kg"`
	PayoutAmount   *int64     `json:"payout_amount"`
	Status         string     `json:"status"`
	CompletedAt    time.Time  `json:"completed_at"`
	SettledAt      *time.Time `json:"settled_at"`
}
