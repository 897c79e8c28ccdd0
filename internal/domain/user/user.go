package user

import (
	"context"
	"time"

	"junqo/internal/common"
)

type Type string

const (
	TypeStudent Type = "STUDENT"
	TypeCompany Type = "COMPANY"
	TypeSchool  Type = "SCHOOL"
	TypeAdmin   Type = "ADMIN"
)

func ValidType(t Type) bool {
	switch t {
	case TypeStudent, TypeCompany, TypeSchool, TypeAdmin:
		return true
	default:
		return false
	}
}

type User struct {
	ID           common.UUID `json:"id"`
	Email        string      `json:"email"`
	PasswordHash string      `json:"-"`
	Type         Type        `json:"type"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}

type Repository interface {
	Create(ctx context.Context, u User) (*User, error)
	GetByID(ctx context.Context, id common.UUID) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
}
