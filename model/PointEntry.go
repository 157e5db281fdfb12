package model

import "time"

type PointEntry struct {
	Id          int       `json:"id"`
	DriverId    int       `json:"driver_id"`
	Amount      int       `json:"amount"`
	Description string    `json:"description"`
	Source      string    `json:"source"`
	DeliveryId  *int      `json:"delivery_id"`
	OperatorId  *int      `json:"operator_id"`
	CreatedAt   time.Time `json:"created_at"`
}
