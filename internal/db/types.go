package db

import (
	"time"

	"github.com/google/uuid"
)

// User represents a row in the users table, including auth fields.
type User struct {
	ID           uuid.UUID
	Name         string
	Email        string
	Phone        string
	PasswordHash string
	PasswordSet  bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ApplicationInsert is the input for creating an application record at
// batch-dispatch time.
type ApplicationInsert struct {
	UserID          uuid.UUID
	JobID           string
	JobTitle        string
	CompanyName     string
	JobURL          string
	Status          string
	Notes           string
	Salary          string
	Location        string
	JobType         string
	ApplicationData map[string]any
}

// ProfileUpsert is the input for upserting a user's profile row before
// dispatch.
type ProfileUpsert struct {
	UserID    uuid.UUID
	FullName  string
	Email     string
	Phone     string
	Location  string
	Portfolio string
	LinkedIn  string
	CV        any
}
