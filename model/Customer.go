package model

import "time"

type Customer struct {
	Id        int       `json:"id"`
	Names     string    `json:"names"`
	Phone     string    `json:"phone"`
	Status    string    `json:"status,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"-"`
}
