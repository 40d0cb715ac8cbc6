package service

import (
	"context"
	"errors"
	"testing"

	"github.com/deppfellow/questions/internal/errs"
	"github.com/deppfellow/questions/internal/model"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type forumFixture struct {
	ctx   context.Context
	store *memStore
	svc   *ForumService
}

func newForumFixture(t *testing.T) *forumFixture {
	t.Helper()
	store := newMemStore()
	logger := zerolog.Nop()
	return &forumFixture{
		ctx:   context.Background(),
		store: store,
		svc:   NewForumService(&logger, store.repositories()),
	}
}

func (f *forumFixture) user(t *testing.T, fname, lname string) *model.User {
	t.Helper()
	u := &model.User{FName: fname, LName: lname}
	require.NoError(t, f.svc.repos.Users.Save(f.ctx, u))
	return u
}

func (f *forumFixture) question(t *testing.T, author *model.User, title string) *model.Question {
	t.Helper()
	q := &model.Question{Title: title, Body: title, UserID: author.ID}
	require.NoError(t, f.svc.repos.Questions.Save(f.ctx, q))
	return q
}

func (f *forumFixture) reply(t *testing.T, q *model.Question, author *model.User, parent *model.Reply) *model.Reply {
	t.Helper()
	r := &model.Reply{Body: "re", UserID: author.ID, QuestionID: q.ID}
	if parent != nil {
		r.ParentID = &parent.ID
	}
	require.NoError(t, f.svc.repos.Replies.Save(f.ctx, r))
	return r
}

func (f *forumFixture) like(t *testing.T, q *model.Question, u *model.User, times int) {
	t.Helper()
	for i := 0; i < times; i++ {
		require.NoError(t, f.svc.repos.Likes.Save(f.ctx, &model.QuestionLike{QuestionID: q.ID, UserID: u.ID}))
	}
}

func (f *forumFixture) follow(t *testing.T, q *model.Question, u *model.User) {
	t.Helper()
	require.NoError(t, f.svc.repos.Follows.Save(f.ctx, &model.QuestionFollow{QuestionID: q.ID, UserID: u.ID}))
}

func ids[T any](rows []T, id func(T) int64) []int64 {
	out := make([]int64, 0, len(rows))
	for _, r := range rows {
		out = append(out, id(r))
	}
	return out
}

func qid(q model.Question) int64 { return q.ID }
func uid(u model.User) int64     { return u.ID }
func rid(r model.Reply) int64    { return r.ID }

func TestAuthors(t *testing.T) {
	f := newForumFixture(t)
	ada := f.user(t, "Ada", "Lovelace")
	alan := f.user(t, "Alan", "Turing")
	q := f.question(t, ada, "Engines")
	r := f.reply(t, q, alan, nil)

	author, err := f.svc.AuthorOfQuestion(f.ctx, q)
	require.NoError(t, err)
	assert.Equal(t, *ada, *author)

	author, err = f.svc.AuthorOfReply(f.ctx, r)
	require.NoError(t, err)
	assert.Equal(t, *alan, *author)

	question, err := f.svc.QuestionOfReply(f.ctx, r)
	require.NoError(t, err)
	assert.Equal(t, *q, *question)
}

func TestAuthorMissing(t *testing.T) {
	f := newForumFixture(t)

	_, err := f.svc.AuthorOfQuestion(f.ctx, &model.Question{ID: 1, Title: "t", Body: "b", UserID: 99})
	assert.True(t, errors.Is(err, errs.ErrNotFound))
}

func TestAuthoredContent(t *testing.T) {
	f := newForumFixture(t)
	ada := f.user(t, "Ada", "Lovelace")
	alan := f.user(t, "Alan", "Turing")
	q1 := f.question(t, ada, "Q1")
	q2 := f.question(t, alan, "Q2")
	r1 := f.reply(t, q2, ada, nil)
	f.reply(t, q1, alan, nil)

	questions, err := f.svc.AuthoredQuestions(f.ctx, ada)
	require.NoError(t, err)
	assert.Equal(t, []int64{q1.ID}, ids(questions, qid))

	replies, err := f.svc.AuthoredReplies(f.ctx, ada)
	require.NoError(t, err)
	assert.Equal(t, []int64{r1.ID}, ids(replies, rid))

	nobody := &model.User{ID: 404}
	questions, err = f.svc.AuthoredQuestions(f.ctx, nobody)
	require.NoError(t, err)
	assert.NotNil(t, questions)
	assert.Empty(t, questions)
}

func TestReplyNavigation(t *testing.T) {
	f := newForumFixture(t)
	u := f.user(t, "Ada", "Lovelace")
	q := f.question(t, u, "Trees")
	root := f.reply(t, q, u, nil)
	a := f.reply(t, q, u, root)
	b := f.reply(t, q, u, root)
	aa := f.reply(t, q, u, a)

	all, err := f.svc.RepliesOf(f.ctx, q)
	require.NoError(t, err)
	assert.Equal(t, []int64{root.ID, a.ID, b.ID, aa.ID}, ids(all, rid))

	children, err := f.svc.ChildRepliesOf(f.ctx, root)
	require.NoError(t, err)
	assert.Equal(t, []int64{a.ID, b.ID}, ids(children, rid))

	children, err = f.svc.ChildRepliesOf(f.ctx, aa)
	require.NoError(t, err)
	assert.Empty(t, children)

	parent, err := f.svc.ParentReplyOf(f.ctx, aa)
	require.NoError(t, err)
	assert.Equal(t, *a, *parent)

	_, err = f.svc.ParentReplyOf(f.ctx, root)
	assert.True(t, errors.Is(err, errs.ErrNotFound))
}

func TestParentReplyOfTopLevelSkipsStore(t *testing.T) {
	f := newForumFixture(t)
	u := f.user(t, "Ada", "Lovelace")
	q := f.question(t, u, "Roots")
	root := f.reply(t, q, u, nil)
	require.True(t, root.IsTopLevel())

	before := f.store.queries
	_, err := f.svc.ParentReplyOf(f.ctx, root)

	var appErr *errs.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "PARENT_REPLY_NOT_FOUND", appErr.Code)
	assert.Equal(t, before, f.store.queries)
}

func TestChildRepliesOfTransientReply(t *testing.T) {
	f := newForumFixture(t)

	before := f.store.queries
	children, err := f.svc.ChildRepliesOf(f.ctx, &model.Reply{Body: "draft", UserID: 1, QuestionID: 1})
	require.NoError(t, err)
	assert.NotNil(t, children)
	assert.Empty(t, children)
	assert.Equal(t, before, f.store.queries)
}

func TestSelfParentedReply(t *testing.T) {
	f := newForumFixture(t)
	u := f.user(t, "Ada", "Lovelace")
	q := f.question(t, u, "Loops")
	r := f.reply(t, q, u, nil)
	r.ParentID = &r.ID
	f.store.replies[r.ID] = *r

	_, err := f.svc.ParentReplyOf(f.ctx, r)
	assert.True(t, errors.Is(err, errs.ErrNotFound))

	children, err := f.svc.ChildRepliesOf(f.ctx, r)
	require.NoError(t, err)
	assert.Empty(t, children)
}

func TestParentReplyMissingRow(t *testing.T) {
	f := newForumFixture(t)
	missing := int64(77)

	_, err := f.svc.ParentReplyOf(f.ctx, &model.Reply{ID: 3, Body: "x", UserID: 1, QuestionID: 1, ParentID: &missing})
	assert.True(t, errors.Is(err, errs.ErrNotFound))
}

func TestThreadOf(t *testing.T) {
	f := newForumFixture(t)
	u := f.user(t, "Ada", "Lovelace")
	q := f.question(t, u, "Trees")
	other := f.question(t, u, "Other")
	root := f.reply(t, q, u, nil)
	child := f.reply(t, q, u, root)
	f.reply(t, other, u, nil)

	before := f.store.queries
	th, err := f.svc.ThreadOf(f.ctx, q)
	require.NoError(t, err)
	assert.Equal(t, before+1, f.store.queries)

	assert.Equal(t, q.ID, th.QuestionID)
	assert.Equal(t, 2, th.Len())
	assert.Equal(t, []int64{root.ID}, ids(th.Roots(), rid))
	assert.Equal(t, []int64{child.ID}, ids(th.Children(root.ID), rid))
}

func TestFollowsAndLikes(t *testing.T) {
	f := newForumFixture(t)
	ada := f.user(t, "Ada", "Lovelace")
	alan := f.user(t, "Alan", "Turing")
	q1 := f.question(t, ada, "Q1")
	q2 := f.question(t, ada, "Q2")

	f.follow(t, q1, alan)
	f.follow(t, q1, ada)
	f.follow(t, q2, alan)
	f.like(t, q2, alan, 1)

	followers, err := f.svc.FollowersOf(f.ctx, q1)
	require.NoError(t, err)
	assert.Equal(t, []int64{alan.ID, ada.ID}, ids(followers, uid))

	followed, err := f.svc.FollowedQuestionsOf(f.ctx, alan)
	require.NoError(t, err)
	assert.Equal(t, []int64{q1.ID, q2.ID}, ids(followed, qid))

	likers, err := f.svc.LikersOf(f.ctx, q2)
	require.NoError(t, err)
	assert.Equal(t, []int64{alan.ID}, ids(likers, uid))

	liked, err := f.svc.LikedQuestionsOf(f.ctx, ada)
	require.NoError(t, err)
	assert.Empty(t, liked)

	n, err := f.svc.NumFollowers(f.ctx, q1)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	n, err = f.svc.NumLikes(f.ctx, q1)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestMostLiked(t *testing.T) {
	f := newForumFixture(t)
	u := f.user(t, "Ada", "Lovelace")
	q1 := f.question(t, u, "Q1")
	q2 := f.question(t, u, "Q2")
	q3 := f.question(t, u, "Q3")
	f.like(t, q1, u, 3)
	f.like(t, q2, u, 5)
	f.like(t, q3, u, 1)

	top, err := f.svc.MostLiked(f.ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, []int64{q2.ID, q1.ID}, ids(top, qid))

	top, err = f.svc.MostLiked(f.ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, top)

	_, err = f.svc.MostLiked(f.ctx, -1)
	assert.True(t, errors.Is(err, errs.ErrValidation))
}

func TestMostFollowedTies(t *testing.T) {
	f := newForumFixture(t)
	u := f.user(t, "Ada", "Lovelace")
	q1 := f.question(t, u, "Q1")
	q2 := f.question(t, u, "Q2")
	f.follow(t, q2, u)
	f.follow(t, q1, u)

	top, err := f.svc.MostFollowed(f.ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, []int64{q1.ID, q2.ID}, ids(top, qid))
}

func TestAverageKarma(t *testing.T) {
	f := newForumFixture(t)
	author := f.user(t, "Ada", "Lovelace")
	fan := f.user(t, "Alan", "Turing")
	q1 := f.question(t, author, "Q1")
	f.question(t, author, "Q2")
	f.like(t, q1, fan, 2)

	avg, ok, err := f.svc.AverageKarma(f.ctx, author)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 1.0, avg)

	avg, ok, err = f.svc.AverageKarma(f.ctx, fan)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Zero(t, avg)

	k, err := f.svc.Karma(f.ctx, author)
	require.NoError(t, err)
	assert.Equal(t, model.Karma{Likes: 2, Questions: 2}, k)
}
