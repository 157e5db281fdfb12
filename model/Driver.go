package model

import "time"

type Driver struct {
	Id        int       `json:"id"`
	Names     string    `json:"names"`
	Phone     string    `json:"phone"`
	Balance   int64     `json:"balance"`
	Points    int       `json:"points,omitempty"`
	Status    string    `json:"status,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"-"`
}

type EligibleDriver struct {
	UserId    int    `json:"userId"`
	UserName  string `json:"userName"`
	UserPhone string `json:"userPhone"`
	Points    int    `json:"points"`
}
