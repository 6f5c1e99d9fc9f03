// Package models содержит доменные структуры приложения: пользователя,
// сессию, заявку на номинацию и табличный результат запроса.
package models

import "time"

// Gender допустимые значения пола пользователя.
const (
	GenderMale   = "M"
	GenderFemale = "F"
)

// User представляет зарегистрированного пользователя системы.
type User struct {
	Username     string    // Имя пользователя, первичный ключ
	Email        string    // Электронная почта, уникальна
	Gender       string    // M или F
	Birthdate    time.Time // Дата рождения
	Country      string    // Страна
	PasswordHash string    // bcrypt-хэш, открытый пароль не хранится
}
