package model

import "github.com/deppfellow/questions/internal/validation"

// QuestionLike is an edge of the users <-> questions "likes" relation.
// Duplicate edges are allowed.
type QuestionLike struct {
	ID         int64 `db:"id" json:"id"`
	QuestionID int64 `db:"question_id" json:"question_id" validate:"required,gt=0"`
	UserID     int64 `db:"user_id" json:"user_id" validate:"required,gt=0"`
}

func (l *QuestionLike) IsPersisted() bool { return l.ID != 0 }

func (l *QuestionLike) Validate() error { return validation.Struct(l) }
