package domain

import (
	"context"
	"time"
)

// User represents a registered user of the application.
type User struct {
	ID           int64
	Name         string
	Email        string
	Phone        string // empty when not provided
	PasswordHash string
	ProfilePhoto []byte // raw JPEG bytes; nil when no photo is stored
	CreatedAt    time.Time
}

// UserUpdate carries the fields of a profile update. ProfilePhoto and
// PasswordHash are only written when non-nil/non-empty.
type UserUpdate struct {
	Name         string
	Email        string
	Phone        string
	ProfilePhoto []byte
	PasswordHash string
}

// UserRepository defines persistence operations for users.
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id int64) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	Update(ctx context.Context, id int64, update UserUpdate) error
	// Delete removes the user and all of their todos in one transaction.
	Delete(ctx context.Context, id int64) error
}
