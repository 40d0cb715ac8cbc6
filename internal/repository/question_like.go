package repository

import (
	"context"

	"github.com/deppfellow/questions/internal/database"
	"github.com/deppfellow/questions/internal/model"
	"github.com/deppfellow/questions/internal/sqlerr"
	"github.com/deppfellow/questions/internal/validation"
)

const questionLikesTable = "question_likes"

type questionLikeRepository struct {
	db database.Querier
}

// NewQuestionLikeRepository returns the question_likes repository backed by db.
func NewQuestionLikeRepository(db database.Querier) QuestionLikeRepository {
	return &questionLikeRepository{db: db}
}

var _ QuestionLikeRepository = (*questionLikeRepository)(nil)

func (r *questionLikeRepository) FindByID(ctx context.Context, id int64) (*model.QuestionLike, error) {
	return findOne[model.QuestionLike](ctx, r.db, "question like", questionLikesTable, id, `
		SELECT
			id, question_id, user_id
		FROM
			question_likes
		WHERE
			id = $1
	`)
}

func (r *questionLikeRepository) Save(ctx context.Context, l *model.QuestionLike) error {
	if err := validation.Check(l); err != nil {
		return err
	}

	if l.IsPersisted() {
		return update(ctx, r.db, "question like", questionLikesTable, l.ID, `
			UPDATE
				question_likes
			SET
				question_id = $1, user_id = $2
			WHERE
				id = $3
		`, l.QuestionID, l.UserID, l.ID)
	}

	id, err := insert(ctx, r.db, questionLikesTable, `
		INSERT INTO
			question_likes (question_id, user_id)
		VALUES
			($1, $2)
		RETURNING id
	`, l.QuestionID, l.UserID)
	if err != nil {
		return err
	}
	l.ID = id
	return nil
}

// LikersForQuestion returns one user per like edge of the question.
func (r *questionLikeRepository) LikersForQuestion(ctx context.Context, questionID int64) ([]model.User, error) {
	return findAll[model.User](ctx, r.db, questionLikesTable, `
		SELECT
			users.id, users.fname, users.lname
		FROM
			question_likes
		JOIN
			users ON users.id = question_likes.user_id
		WHERE
			question_likes.question_id = $1
		ORDER BY
			question_likes.id
	`, questionID)
}

// LikedQuestionsForUser returns one question per like edge of the user.
func (r *questionLikeRepository) LikedQuestionsForUser(ctx context.Context, userID int64) ([]model.Question, error) {
	return findAll[model.Question](ctx, r.db, questionLikesTable, `
		SELECT
			questions.id, questions.title, questions.body, questions.user_id
		FROM
			question_likes
		JOIN
			questions ON questions.id = question_likes.question_id
		WHERE
			question_likes.user_id = $1
		ORDER BY
			question_likes.id
	`, userID)
}

// MostLikedQuestions returns up to n questions ordered by like count,
// highest first, ties by question id.
func (r *questionLikeRepository) MostLikedQuestions(ctx context.Context, n int) ([]model.Question, error) {
	if err := checkLimit(n); err != nil {
		return nil, err
	}

	return findAll[model.Question](ctx, r.db, questionLikesTable, `
		SELECT
			questions.id, questions.title, questions.body, questions.user_id
		FROM
			question_likes
		JOIN
			questions ON questions.id = question_likes.question_id
		GROUP BY
			questions.id
		ORDER BY
			COUNT(*) DESC, questions.id ASC
		LIMIT
			$1
	`, n)
}

func (r *questionLikeRepository) NumLikesForQuestion(ctx context.Context, questionID int64) (int64, error) {
	return count(ctx, r.db, questionLikesTable, `
		SELECT
			COUNT(*)
		FROM
			question_likes
		WHERE
			question_id = $1
	`, questionID)
}

// KarmaForUser tallies like rows over all of the user's questions and the
// number of questions. The LEFT JOIN keeps questions without likes in the
// denominator.
func (r *questionLikeRepository) KarmaForUser(ctx context.Context, userID int64) (model.Karma, error) {
	var k model.Karma
	err := r.db.QueryRow(ctx, `
		SELECT
			COUNT(question_likes.id), COUNT(DISTINCT questions.id)
		FROM
			questions
		LEFT JOIN
			question_likes ON questions.id = question_likes.question_id
		WHERE
			questions.user_id = $1
	`, userID).Scan(&k.Likes, &k.Questions)
	if err != nil {
		return model.Karma{}, sqlerr.HandleError(err, questionLikesTable)
	}
	return k, nil
}
