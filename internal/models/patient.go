package models

import "time"

// Patient is looked up by normalized phone, which acts as the natural key.
// PasswordHash is empty for patients created by the admin without a login.
type Patient struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Name         string `gorm:"size:100;not null" json:"name"`
	Phone        string `gorm:"size:20;uniqueIndex;not null" json:"phone"`
	PasswordHash string `gorm:"size:255" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
