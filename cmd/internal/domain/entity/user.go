package entity

import "strings"

type Role string

const (
	RoleAdmin   Role = "admin"
	RoleDoctor  Role = "doctor"
	RolePatient Role = "patient"
)

// NormalizeRole maps a raw role to one of the known roles.
// Anything unrecognized (including the empty string) becomes RolePatient.
func NormalizeRole(raw string) Role {
	switch Role(strings.ToLower(strings.TrimSpace(raw))) {
	case RoleAdmin:
		return RoleAdmin
	case RoleDoctor:
		return RoleDoctor
	default:
		return RolePatient
	}
}

type User struct {
	ID           int    `gorm:"primaryKey"`
	Name         string `gorm:"not null"`
	Email        string `gorm:"not null;uniqueIndex"` // Always stored lower-cased
	PasswordHash string `gorm:"not null"`
	Role         Role   `gorm:"not null;index"`
	Specialty    *string
	CreatedAt    int64 `gorm:"not null"`
	UpdatedAt    int64 `gorm:"not null"`
}
