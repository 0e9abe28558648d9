package model

import (
	"time"
)

// User is a platform account. Role here is the platform role (admin manages
// templates/teams, user goes through the request workflow); workflow roles
// per team live on TeamMember.
type User struct {
	ID        string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Username  string    `gorm:"type:varchar(100);not null;uniqueIndex" json:"username"`
	Password  string    `gorm:"type:varchar(200);not null" json:"-"`
	FullName  string    `gorm:"type:varchar(200)" json:"full_name"`
	Email     string    `gorm:"type:varchar(200)" json:"email"`
	Role      string    `gorm:"type:varchar(20);default:user" json:"role"` // admin, user
	Status    string    `gorm:"type:varchar(20);default:active" json:"status"` // active, disabled
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

// LoginRequest is the login payload.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// RegisterRequest is the account creation payload.
type RegisterRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required,min=8"`
	FullName string `json:"full_name"`
	Email    string `json:"email"`
}

// LoginResponse carries the signed token plus the account it belongs to.
type LoginResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}
