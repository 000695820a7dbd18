package model

import (
	"time"

	"github.com/google/uuid"
)

type UserType string

const (
	UserTypeStudent UserType = "student"
	UserTypeTeacher UserType = "teacher"
	UserTypeSponsor UserType = "sponsor"
	UserTypeAdmin   UserType = "admin"
)

type User struct {
	ID           uuid.UUID `json:"id"`
	TelegramID   int64     `json:"telegram_id"`
	Username     string    `json:"username"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	LanguageCode string    `json:"language_code"`
	UserType     UserType  `json:"user_type"`
	CreatedAt    time.Time `json:"created_at"`
}

// IsAdmin checks if user manages the studio
func (u *User) IsAdmin() bool {
	return u.UserType == UserTypeAdmin
}

// IsTeacher checks if user teaches classes
func (u *User) IsTeacher() bool {
	return u.UserType == UserTypeTeacher
}
