// Package model defines the persisted entities of the user panel.
package model

import "time"

// Authorization levels. Tokens carry the level verbatim, so renaming a
// value invalidates outstanding sessions.
const (
	LevelUser      = "User"
	LevelAdmin     = "Admin"
	LevelSuperUser = "SuperUser"
)

// Statuses an account can be in.
const (
	StatusActive   = "Active"
	StatusInactive = "Inactive"
)

// User is an account record. Password may carry a raw password on the way
// in; only PasswordHash is ever persisted or compared.
type User struct {
	Id             int       `json:"id" gorm:"primaryKey;autoIncrement"`
	Username       string    `json:"username" gorm:"uniqueIndex;not null"`
	Email          string    `json:"email" gorm:"uniqueIndex;not null"`
	Password       string    `json:"-" gorm:"-"`
	PasswordHash   string    `json:"-" gorm:"column:password_hash;not null"`
	Level          string    `json:"level" gorm:"column:user_level;not null;default:User"`
	Status         string    `json:"status" gorm:"not null;default:Active"`
	ProfilePicture string    `json:"-" gorm:"column:profile_picture"` // base64, opaque
	CreatedAt      time.Time `json:"createdAt"`
}

// ValidLevel reports whether level is one of the closed level set.
func ValidLevel(level string) bool {
	switch level {
	case LevelUser, LevelAdmin, LevelSuperUser:
		return true
	}
	return false
}
