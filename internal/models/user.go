// Package models contains data structures for the application's domain models.
package models

import "time"

// User is a registered account. Favorites is not a column; it is filled from
// the favorites relation when a profile is requested.
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Username  string    `gorm:"size:64;not null;uniqueIndex:idx_users_username" json:"username"`
	Email     string    `gorm:"size:255;not null;uniqueIndex:idx_users_email" json:"email"`
	Password  string    `gorm:"not null" json:"-"`
	IsAdmin   bool      `gorm:"not null;default:false" json:"is_admin"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
	Favorites []Outfit  `gorm:"-" json:"favorites"`
}
