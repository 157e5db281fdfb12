package model

import "time"

type Transactions struct {
	Id              int       `json:"id"`
	DriverId        int       `json:"driver_id"`
	Amount          int64     `json:"amount"`
	TransactionType string    `json:"transaction_type"`
	Description     string    `json:"description"`
	RefNo           string    `json:"ref_no"`
	BalanceAfter    int64     `json:"balance_after"`
	InitiatedBy     string    `json:"initiated_by"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"created_at"`
}
