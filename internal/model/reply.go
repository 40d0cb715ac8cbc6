package model

import "github.com/deppfellow/questions/internal/validation"

// Reply is a row of the replies table.
//
// ParentID is nil for a top-level reply. Replies of one question form a tree
// through ParentID; see Thread for walking it.
type Reply struct {
	ID         int64  `db:"id" json:"id"`
	Body       string `db:"body" json:"body" validate:"required"`
	UserID     int64  `db:"user_id" json:"user_id" validate:"required,gt=0"`
	ParentID   *int64 `db:"parent_id" json:"parent_id,omitempty" validate:"omitempty,gt=0"`
	QuestionID int64  `db:"question_id" json:"question_id" validate:"required,gt=0"`
}

func (r *Reply) IsPersisted() bool { return r.ID != 0 }

// IsTopLevel reports whether the reply answers the question directly.
func (r *Reply) IsTopLevel() bool { return r.ParentID == nil }

// Validate checks the tags and rejects a reply that names itself as parent.
func (r *Reply) Validate() error {
	if err := validation.Struct(r); err != nil {
		return err
	}
	if r.ParentID != nil && r.ID != 0 && *r.ParentID == r.ID {
		return validation.CustomValidationErrors{{
			Field:   "parent_id",
			Message: "cannot reference the reply itself",
		}}
	}
	return nil
}
