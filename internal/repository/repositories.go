package repository

import (
	"context"

	"github.com/deppfellow/questions/internal/database"
	"github.com/deppfellow/questions/internal/model"
)

// UserRepository persists users.
type UserRepository interface {
	Repository[model.User]
	FindByName(ctx context.Context, fname, lname string) ([]model.User, error)
}

// QuestionRepository persists questions.
type QuestionRepository interface {
	Repository[model.Question]
	FindByAuthorID(ctx context.Context, userID int64) ([]model.Question, error)
}

// ReplyRepository persists replies and walks the reply tree one level at a time.
type ReplyRepository interface {
	Repository[model.Reply]
	FindByQuestionID(ctx context.Context, questionID int64) ([]model.Reply, error)
	FindByUserID(ctx context.Context, userID int64) ([]model.Reply, error)
	FindByParentID(ctx context.Context, parentID int64) ([]model.Reply, error)
}

// QuestionFollowRepository persists follow edges and resolves the relation.
type QuestionFollowRepository interface {
	Repository[model.QuestionFollow]
	FollowersForQuestion(ctx context.Context, questionID int64) ([]model.User, error)
	FollowedQuestionsForUser(ctx context.Context, userID int64) ([]model.Question, error)
	MostFollowedQuestions(ctx context.Context, n int) ([]model.Question, error)
	NumFollowersForQuestion(ctx context.Context, questionID int64) (int64, error)
}

// QuestionLikeRepository persists like edges, resolves the relation and
// computes like-based aggregates.
type QuestionLikeRepository interface {
	Repository[model.QuestionLike]
	LikersForQuestion(ctx context.Context, questionID int64) ([]model.User, error)
	LikedQuestionsForUser(ctx context.Context, userID int64) ([]model.Question, error)
	MostLikedQuestions(ctx context.Context, n int) ([]model.Question, error)
	NumLikesForQuestion(ctx context.Context, questionID int64) (int64, error)
	KarmaForUser(ctx context.Context, userID int64) (model.Karma, error)
}

// Repositories is a container for all repository instances.
//
// Fields are interfaces so that services can be exercised against other
// implementations.
type Repositories struct {
	Users     UserRepository
	Questions QuestionRepository
	Replies   ReplyRepository
	Follows   QuestionFollowRepository
	Likes     QuestionLikeRepository
}

// NewRepositories builds every repository on the same store handle.
//
// db is usually the shared pool (server.DB.Pool) but may be a pgx.Tx when a
// caller wants several saves to commit together.
func NewRepositories(db database.Querier) *Repositories {
	return &Repositories{
		Users:     NewUserRepository(db),
		Questions: NewQuestionRepository(db),
		Replies:   NewReplyRepository(db),
		Follows:   NewQuestionFollowRepository(db),
		Likes:     NewQuestionLikeRepository(db),
	}
}
