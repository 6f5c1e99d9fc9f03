package models

import "time"

// UserRegistered событие о новом пользователе.
type UserRegistered struct {
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	Country      string    `json:"country"`
	RegisteredAt time.Time `json:"registered_at"`
}

// NominationCreated событие о добавленной пользователем номинации.
type NominationCreated struct {
	Nomination
	CreatedAt time.Time `json:"created_at"`
}
