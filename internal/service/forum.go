package service

import (
	"context"

	"github.com/deppfellow/questions/internal/errs"
	"github.com/deppfellow/questions/internal/model"
	"github.com/deppfellow/questions/internal/repository"
	"github.com/rs/zerolog"
)

// ForumService resolves relationships between entities and computes the
// forum's aggregates. Nothing is cached; every call goes to the store.
type ForumService struct {
	repos  *repository.Repositories
	logger *zerolog.Logger
}

func NewForumService(logger *zerolog.Logger, repos *repository.Repositories) *ForumService {
	return &ForumService{
		repos:  repos,
		logger: logger,
	}
}

func (s *ForumService) User(ctx context.Context, id int64) (*model.User, error) {
	return s.repos.Users.FindByID(ctx, id)
}

func (s *ForumService) Question(ctx context.Context, id int64) (*model.Question, error) {
	return s.repos.Questions.FindByID(ctx, id)
}

// AuthorOfQuestion returns the user who asked q.
func (s *ForumService) AuthorOfQuestion(ctx context.Context, q *model.Question) (*model.User, error) {
	s.logger.Debug().
		Str("operation", "author_of_question").
		Int64("question_id", q.ID).
		Int64("user_id", q.UserID).
		Msg("resolving author")

	return s.repos.Users.FindByID(ctx, q.UserID)
}

// AuthorOfReply returns the user who wrote r.
func (s *ForumService) AuthorOfReply(ctx context.Context, r *model.Reply) (*model.User, error) {
	s.logger.Debug().
		Str("operation", "author_of_reply").
		Int64("reply_id", r.ID).
		Int64("user_id", r.UserID).
		Msg("resolving author")

	return s.repos.Users.FindByID(ctx, r.UserID)
}

// QuestionOfReply returns the question r belongs to.
func (s *ForumService) QuestionOfReply(ctx context.Context, r *model.Reply) (*model.Question, error) {
	return s.repos.Questions.FindByID(ctx, r.QuestionID)
}

// RepliesOf returns every reply to q, at any depth, in creation order.
func (s *ForumService) RepliesOf(ctx context.Context, q *model.Question) ([]model.Reply, error) {
	return s.repos.Replies.FindByQuestionID(ctx, q.ID)
}

// ChildRepliesOf returns the direct children of r. A reply that was never
// saved cannot have children, so no query is made for it.
func (s *ForumService) ChildRepliesOf(ctx context.Context, r *model.Reply) ([]model.Reply, error) {
	if !r.IsPersisted() {
		return []model.Reply{}, nil
	}

	children, err := s.repos.Replies.FindByParentID(ctx, r.ID)
	if err != nil {
		return nil, err
	}

	s.logger.Debug().
		Str("operation", "child_replies").
		Int64("reply_id", r.ID).
		Int("count", len(children)).
		Msg("resolved child replies")

	return children, nil
}

// ParentReplyOf returns the reply r answers. Top-level replies, and replies
// that name themselves as parent, have no parent and yield errs.ErrNotFound.
func (s *ForumService) ParentReplyOf(ctx context.Context, r *model.Reply) (*model.Reply, error) {
	if r.IsTopLevel() || *r.ParentID == r.ID {
		code := "PARENT_REPLY_NOT_FOUND"
		return nil, errs.NewNotFoundError("reply has no parent reply", &code)
	}
	return s.repos.Replies.FindByID(ctx, *r.ParentID)
}

// ThreadOf loads all replies to q in one query and indexes them as a tree.
func (s *ForumService) ThreadOf(ctx context.Context, q *model.Question) (*model.Thread, error) {
	replies, err := s.repos.Replies.FindByQuestionID(ctx, q.ID)
	if err != nil {
		return nil, err
	}
	return model.NewThread(q.ID, replies), nil
}

func (s *ForumService) AuthoredQuestions(ctx context.Context, u *model.User) ([]model.Question, error) {
	return s.repos.Questions.FindByAuthorID(ctx, u.ID)
}

func (s *ForumService) AuthoredReplies(ctx context.Context, u *model.User) ([]model.Reply, error) {
	return s.repos.Replies.FindByUserID(ctx, u.ID)
}

// FollowersOf returns one user per follow row of q.
func (s *ForumService) FollowersOf(ctx context.Context, q *model.Question) ([]model.User, error) {
	return s.repos.Follows.FollowersForQuestion(ctx, q.ID)
}

// FollowedQuestionsOf returns one question per follow row of u.
func (s *ForumService) FollowedQuestionsOf(ctx context.Context, u *model.User) ([]model.Question, error) {
	return s.repos.Follows.FollowedQuestionsForUser(ctx, u.ID)
}

// LikersOf returns one user per like row of q.
func (s *ForumService) LikersOf(ctx context.Context, q *model.Question) ([]model.User, error) {
	return s.repos.Likes.LikersForQuestion(ctx, q.ID)
}

// LikedQuestionsOf returns one question per like row of u.
func (s *ForumService) LikedQuestionsOf(ctx context.Context, u *model.User) ([]model.Question, error) {
	return s.repos.Likes.LikedQuestionsForUser(ctx, u.ID)
}

// MostFollowed returns the n questions with the most followers.
func (s *ForumService) MostFollowed(ctx context.Context, n int) ([]model.Question, error) {
	questions, err := s.repos.Follows.MostFollowedQuestions(ctx, n)
	if err != nil {
		return nil, err
	}

	s.logger.Debug().
		Str("operation", "most_followed").
		Int("limit", n).
		Int("count", len(questions)).
		Msg("ranked questions")

	return questions, nil
}

// MostLiked returns the n questions with the most likes.
func (s *ForumService) MostLiked(ctx context.Context, n int) ([]model.Question, error) {
	questions, err := s.repos.Likes.MostLikedQuestions(ctx, n)
	if err != nil {
		return nil, err
	}

	s.logger.Debug().
		Str("operation", "most_liked").
		Int("limit", n).
		Int("count", len(questions)).
		Msg("ranked questions")

	return questions, nil
}

func (s *ForumService) NumLikes(ctx context.Context, q *model.Question) (int64, error) {
	return s.repos.Likes.NumLikesForQuestion(ctx, q.ID)
}

func (s *ForumService) NumFollowers(ctx context.Context, q *model.Question) (int64, error) {
	return s.repos.Follows.NumFollowersForQuestion(ctx, q.ID)
}

// AverageKarma returns the mean number of likes across the questions u
// authored. ok is false when u has no questions.
func (s *ForumService) AverageKarma(ctx context.Context, u *model.User) (avg float64, ok bool, err error) {
	k, err := s.Karma(ctx, u)
	if err != nil {
		return 0, false, err
	}
	avg, ok = k.Average()
	return avg, ok, nil
}

// Karma returns the raw tally behind AverageKarma.
func (s *ForumService) Karma(ctx context.Context, u *model.User) (model.Karma, error) {
	k, err := s.repos.Likes.KarmaForUser(ctx, u.ID)
	if err != nil {
		return model.Karma{}, err
	}

	s.logger.Debug().
		Str("operation", "karma").
		Int64("user_id", u.ID).
		Int64("likes", k.Likes).
		Int64("questions", k.Questions).
		Msg("computed karma")

	return k, nil
}
