package repository

import (
	"context"

	"github.com/deppfellow/questions/internal/database"
	"github.com/deppfellow/questions/internal/model"
	"github.com/deppfellow/questions/internal/validation"
)

const questionsTable = "questions"

type questionRepository struct {
	db database.Querier
}

// NewQuestionRepository returns the questions repository backed by db.
func NewQuestionRepository(db database.Querier) QuestionRepository {
	return &questionRepository{db: db}
}

var _ QuestionRepository = (*questionRepository)(nil)

func (r *questionRepository) FindByID(ctx context.Context, id int64) (*model.Question, error) {
	return findOne[model.Question](ctx, r.db, "question", questionsTable, id, `
		SELECT
			id, title, body, user_id
		FROM
			questions
		WHERE
			id = $1
	`)
}

// FindByAuthorID returns the questions written by userID.
func (r *questionRepository) FindByAuthorID(ctx context.Context, userID int64) ([]model.Question, error) {
	return findAll[model.Question](ctx, r.db, questionsTable, `
		SELECT
			id, title, body, user_id
		FROM
			questions
		WHERE
			user_id = $1
		ORDER BY
			id
	`, userID)
}

func (r *questionRepository) Save(ctx context.Context, q *model.Question) error {
	if err := validation.Check(q); err != nil {
		return err
	}

	if q.IsPersisted() {
		return update(ctx, r.db, "question", questionsTable, q.ID, `
			UPDATE
				questions
			SET
				title = $1, body = $2, user_id = $3
			WHERE
				id = $4
		`, q.Title, q.Body, q.UserID, q.ID)
	}

	id, err := insert(ctx, r.db, questionsTable, `
		INSERT INTO
			questions (title, body, user_id)
		VALUES
			($1, $2, $3)
		RETURNING id
	`, q.Title, q.Body, q.UserID)
	if err != nil {
		return err
	}
	q.ID = id
	return nil
}
