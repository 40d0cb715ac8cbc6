package model

import "github.com/deppfellow/questions/internal/validation"

// User is a row of the users table.
type User struct {
	ID    int64  `db:"id" json:"id"`
	FName string `db:"fname" json:"fname" validate:"required"`
	LName string `db:"lname" json:"lname" validate:"required"`
}

func (u *User) IsPersisted() bool { return u.ID != 0 }

func (u *User) Validate() error { return validation.Struct(u) }
