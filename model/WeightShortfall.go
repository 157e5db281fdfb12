package model

import "time"

type WeightShortfall struct {
	Id             int        `json:"id"`
	CustomerId     int        `json:"userId"`
	DeliveryId     int        `json:"deliveryId"`
	EstimatedRange string     `json:"estimatedRangeLabel"`
	MinimumKg      float64    `json:"minimumWeightKg"`
	DeliveredKg    float64    `json:"deliveredWeightKg"`
	ShortfallKg    float64    `json:"shortfallAmount"`
	RemainingKg    float64    `json:"remainingKg"`
	IsDeducted     bool       `json:"isDeducted"`
	CreatedAt      time.Time  `json:"createdAt"`
	DeductedAt     *time.Time `json:"deductedAt"`
}
