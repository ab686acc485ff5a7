package models

import (
	"database/sql"
	"time"
)

const (
	RoleSeller = "seller"
	RoleAdmin  = "admin"
)

type User struct {
	ID             string         `db:"id"`
	FirstName      string         `db:"first_name"`
	LastName       string         `db:"last_name"`
	Email          string         `db:"email"`
	PhoneNumber    sql.NullString `db:"phone_number"`
	Role           string         `db:"role"`
	Status         string         `db:"status"`
	HashedPassword string         `db:"hashed_password"`
	CreatedAt      time.Time      `db:"created_at"`
	DeletedAt      sql.NullTime   `db:"deleted_at"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}
