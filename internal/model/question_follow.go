package model

import "github.com/deppfellow/questions/internal/validation"

// QuestionFollow is an edge of the users <-> questions "follows" relation.
// Duplicate edges are allowed.
type QuestionFollow struct {
	ID         int64 `db:"id" json:"id"`
	QuestionID int64 `db:"question_id" json:"question_id" validate:"required,gt=0"`
	UserID     int64 `db:"user_id" json:"user_id" validate:"required,gt=0"`
}

func (f *QuestionFollow) IsPersisted() bool { return f.ID != 0 }

func (f *QuestionFollow) Validate() error { return validation.Struct(f) }
