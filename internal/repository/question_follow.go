package repository

import (
	"context"

	"github.com/deppfellow/questions/internal/database"
	"github.com/deppfellow/questions/internal/model"
	"github.com/deppfellow/questions/internal/validation"
)

const questionFollowsTable = "question_follows"

type questionFollowRepository struct {
	db database.Querier
}

// NewQuestionFollowRepository returns the question_follows repository backed by db.
func NewQuestionFollowRepository(db database.Querier) QuestionFollowRepository {
	return &questionFollowRepository{db: db}
}

var _ QuestionFollowRepository = (*questionFollowRepository)(nil)

func (r *questionFollowRepository) FindByID(ctx context.Context, id int64) (*model.QuestionFollow, error) {
	return findOne[model.QuestionFollow](ctx, r.db, "question follow", questionFollowsTable, id, `
		SELECT
			id, question_id, user_id
		FROM
			question_follows
		WHERE
			id = $1
	`)
}

func (r *questionFollowRepository) Save(ctx context.Context, f *model.QuestionFollow) error {
	if err := validation.Check(f); err != nil {
		return err
	}

	if f.IsPersisted() {
		return update(ctx, r.db, "question follow", questionFollowsTable, f.ID, `
			UPDATE
				question_follows
			SET
				question_id = $1, user_id = $2
			WHERE
				id = $3
		`, f.QuestionID, f.UserID, f.ID)
	}

	id, err := insert(ctx, r.db, questionFollowsTable, `
		INSERT INTO
			question_follows (question_id, user_id)
		VALUES
			($1, $2)
		RETURNING id
	`, f.QuestionID, f.UserID)
	if err != nil {
		return err
	}
	f.ID = id
	return nil
}

// FollowersForQuestion returns one user per follow edge of the question.
// Only the users projection (id, fname, lname) is selected.
func (r *questionFollowRepository) FollowersForQuestion(ctx context.Context, questionID int64) ([]model.User, error) {
	return findAll[model.User](ctx, r.db, questionFollowsTable, `
		SELECT
			users.id, users.fname, users.lname
		FROM
			question_follows
		JOIN
			users ON users.id = question_follows.user_id
		WHERE
			question_follows.question_id = $1
		ORDER BY
			question_follows.id
	`, questionID)
}

// FollowedQuestionsForUser returns one question per follow edge of the user.
func (r *questionFollowRepository) FollowedQuestionsForUser(ctx context.Context, userID int64) ([]model.Question, error) {
	return findAll[model.Question](ctx, r.db, questionFollowsTable, `
		SELECT
			questions.id, questions.title, questions.body, questions.user_id
		FROM
			question_follows
		JOIN
			questions ON questions.id = question_follows.question_id
		WHERE
			question_follows.user_id = $1
		ORDER BY
			question_follows.id
	`, userID)
}

// MostFollowedQuestions returns up to n questions ordered by follow count,
// highest first. Equal counts are ordered by question id. Questions without
// followers never rank.
func (r *questionFollowRepository) MostFollowedQuestions(ctx context.Context, n int) ([]model.Question, error) {
	if err := checkLimit(n); err != nil {
		return nil, err
	}

	return findAll[model.Question](ctx, r.db, questionFollowsTable, `
		SELECT
			questions.id, questions.title, questions.body, questions.user_id
		FROM
			questions
		JOIN
			question_follows ON questions.id = question_follows.question_id
		GROUP BY
			questions.id
		ORDER BY
			COUNT(*) DESC, questions.id ASC
		LIMIT
			$1
	`, n)
}

func (r *questionFollowRepository) NumFollowersForQuestion(ctx context.Context, questionID int64) (int64, error) {
	return count(ctx, r.db, questionFollowsTable, `
		SELECT
			COUNT(*)
		FROM
			question_follows
		WHERE
			question_id = $1
	`, questionID)
}
