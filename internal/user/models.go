package user

import "time"

type User struct {
	ID        string    `json:"id"`
	CardID    string    `json:"cardId"`
	Name      string    `json:"name"`
	Weight    float64   `json:"weight"`
	Gender    string    `json:"gender"`
	CreatedAt time.Time `json:"createdAt"`
}

type RegisterRequest struct {
	CardID string   `json:"cardId"`
	Name   string   `json:"name"`
	Weight *float64 `json:"weight"`
	Gender string   `json:"gender"`
}
