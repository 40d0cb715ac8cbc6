package model

import "github.com/deppfellow/questions/internal/validation"

// Question is a row of the questions table. UserID is the author.
type Question struct {
	ID     int64  `db:"id" json:"id"`
	Title  string `db:"title" json:"title" validate:"required"`
	Body   string `db:"body" json:"body" validate:"required"`
	UserID int64  `db:"user_id" json:"user_id" validate:"required,gt=0"`
}

func (q *Question) IsPersisted() bool { return q.ID != 0 }

func (q *Question) Validate() error { return validation.Struct(q) }
