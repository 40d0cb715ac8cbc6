package repository

import (
	"context"

	"github.com/deppfellow/questions/internal/database"
	"github.com/deppfellow/questions/internal/model"
	"github.com/deppfellow/questions/internal/validation"
)

const repliesTable = "replies"

type replyRepository struct {
	db database.Querier
}

// NewReplyRepository returns the replies repository backed by db.
func NewReplyRepository(db database.Querier) ReplyRepository {
	return &replyRepository{db: db}
}

var _ ReplyRepository = (*replyRepository)(nil)

func (r *replyRepository) FindByID(ctx context.Context, id int64) (*model.Reply, error) {
	return findOne[model.Reply](ctx, r.db, "reply", repliesTable, id, `
		SELECT
			id, body, user_id, parent_id, question_id
		FROM
			replies
		WHERE
			id = $1
	`)
}

// FindByQuestionID returns every reply to the question, at any depth.
func (r *replyRepository) FindByQuestionID(ctx context.Context, questionID int64) ([]model.Reply, error) {
	return findAll[model.Reply](ctx, r.db, repliesTable, `
		SELECT
			id, body, user_id, parent_id, question_id
		FROM
			replies
		WHERE
			question_id = $1
		ORDER BY
			id
	`, questionID)
}

// FindByUserID returns the replies written by userID.
func (r *replyRepository) FindByUserID(ctx context.Context, userID int64) ([]model.Reply, error) {
	return findAll[model.Reply](ctx, r.db, repliesTable, `
		SELECT
			id, body, user_id, parent_id, question_id
		FROM
			replies
		WHERE
			user_id = $1
		ORDER BY
			id
	`, userID)
}

// FindByParentID returns the direct children of parentID. A row that names
// itself as parent is excluded.
func (r *replyRepository) FindByParentID(ctx context.Context, parentID int64) ([]model.Reply, error) {
	return findAll[model.Reply](ctx, r.db, repliesTable, `
		SELECT
			id, body, user_id, parent_id, question_id
		FROM
			replies
		WHERE
			parent_id = $1 AND id <> $1
		ORDER BY
			id
	`, parentID)
}

func (r *replyRepository) Save(ctx context.Context, reply *model.Reply) error {
	if err := validation.Check(reply); err != nil {
		return err
	}

	if reply.IsPersisted() {
		return update(ctx, r.db, "reply", repliesTable, reply.ID, `
			UPDATE
				replies
			SET
				body = $1, user_id = $2, parent_id = $3, question_id = $4
			WHERE
				id = $5
		`, reply.Body, reply.UserID, reply.ParentID, reply.QuestionID, reply.ID)
	}

	id, err := insert(ctx, r.db, repliesTable, `
		INSERT INTO
			replies (body, user_id, parent_id, question_id)
		VALUES
			($1, $2, $3, $4)
		RETURNING id
	`, reply.Body, reply.UserID, reply.ParentID, reply.QuestionID)
	if err != nil {
		return err
	}
	reply.ID = id
	return nil
}
