package models

import "time"

// Session серверная сессия, привязанная к одному пользователю.
type Session struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	ExpiresAt time.Time `json:"expires_at"`
}
