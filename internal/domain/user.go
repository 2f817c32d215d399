package domain

import "time"

// UserRole enumerates back-office access levels.
type UserRole string

const (
	UserRoleAdmin   UserRole = "ADMIN"
	UserRoleAgent   UserRole = "AGENT"
	UserRolePartner UserRole = "PARTNER"
)

// UserStatus enumerates account states.
type UserStatus string

const (
	UserStatusActive   UserStatus = "ACTIVE"
	UserStatusDisabled UserStatus = "DISABLED"
)

// User is a back-office operator. AssignedPartner scopes partner
// accounts to tickets whose company name matches; nil means head
// office with full visibility.
type User struct {
	ID              string
	Name            string
	Email           string
	PasswordHash    string
	Role            UserRole
	AssignedPartner *string
	Status          UserStatus
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
