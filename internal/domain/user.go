package domain

import "time"

// User is owned by the auth collaborator. The core only reads it, except for
// TelegramChatID, which the bot stores when a chat is linked.
type User struct {
	ID             int64     `gorm:"primaryKey" json:"id"`
	Email          string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email" validate:"required,email"`
	PasswordHash   string    `gorm:"type:varchar(255);not null" json:"-"`
	FirstName      string    `gorm:"type:varchar(100)" json:"first_name"`
	LastName       string    `gorm:"type:varchar(100)" json:"last_name"`
	IsStaff        bool      `gorm:"not null;default:false" json:"is_staff"`
	TelegramChatID *int64    `gorm:"uniqueIndex" json:"-"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func (User) TableName() string { return "users" }

func (u *User) FullName() string {
	if u.FirstName == "" && u.LastName == "" {
		return u.Email
	}
	return u.FirstName + " " + u.LastName
}
