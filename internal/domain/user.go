package domain

import (
	"strings"
	"time"
)

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

const (
	DefaultAvatar = "https://picsum.photos/200"
	DefaultBio    = "Hello World!"
)

type User struct {
	UserID       string    `json:"id" dynamodbav:"user_id"`
	Username     string    `json:"username" dynamodbav:"username"`
	Email        string    `json:"email" dynamodbav:"email"`
	PasswordHash string    `json:"-" dynamodbav:"password_hash"`
	FirstName    string    `json:"firstName" dynamodbav:"first_name"`
	LastName     string    `json:"lastName" dynamodbav:"last_name"`
	Role         string    `json:"role" dynamodbav:"role"`
	IsVerified   bool      `json:"isVerified" dynamodbav:"is_verified"`
	Avatar       string    `json:"avatar" dynamodbav:"avatar"`
	Bio          string    `json:"bio" dynamodbav:"bio"`
	CreatedAt    time.Time `json:"createdAt" dynamodbav:"created_at"`
	UpdatedAt    time.Time `json:"updatedAt" dynamodbav:"updated_at"`
}

// FullName joins first and last name, trimming the gap when either is empty.
func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

func (u *User) IsAdmin() bool { return u.Role == RoleAdmin }

type CreateUserRequest struct {
	Username  string `json:"username" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName"`
	Password  string `json:"password" validate:"required,min=8,max=72"`
}

type UpdateUserRequest struct {
	Username  *string `json:"username" validate:"omitempty,min=1"`
	Email     *string `json:"email" validate:"omitempty,email"`
	FirstName *string `json:"firstName" validate:"omitempty,min=1"`
	LastName  *string `json:"lastName"`
	Avatar    *string `json:"avatar" validate:"omitempty,url"`
	Bio       *string `json:"bio"`
	Password  *string `json:"password" validate:"omitempty,min=8,max=72"`
}
