package service

import (
	"context"
	"sort"

	"github.com/deppfellow/questions/internal/errs"
	"github.com/deppfellow/questions/internal/model"
	"github.com/deppfellow/questions/internal/repository"
)

// memStore is an in-memory stand-in for the five repositories. It follows
// the same conventions as the SQL ones: misses are errs.ErrNotFound, lists
// are never nil, and results come back in id order.
type memStore struct {
	users     map[int64]model.User
	questions map[int64]model.Question
	replies   map[int64]model.Reply
	follows   map[int64]model.QuestionFollow
	likes     map[int64]model.QuestionLike
	nextID    int64
	queries   int
}

func newMemStore() *memStore {
	return &memStore{
		users:     map[int64]model.User{},
		questions: map[int64]model.Question{},
		replies:   map[int64]model.Reply{},
		follows:   map[int64]model.QuestionFollow{},
		likes:     map[int64]model.QuestionLike{},
	}
}

func (m *memStore) repositories() *repository.Repositories {
	return &repository.Repositories{
		Users:     memUsers{m},
		Questions: memQuestions{m},
		Replies:   memReplies{m},
		Follows:   memFollows{m},
		Likes:     memLikes{m},
	}
}

func (m *memStore) id(current int64) int64 {
	if current != 0 {
		return current
	}
	m.nextID++
	return m.nextID
}

func sortedKeys[T any](rows map[int64]T) []int64 {
	keys := make([]int64, 0, len(rows))
	for k := range rows {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

func filter[T any](m *memStore, rows map[int64]T, keep func(T) bool) []T {
	m.queries++
	out := []T{}
	for _, k := range sortedKeys(rows) {
		if keep(rows[k]) {
			out = append(out, rows[k])
		}
	}
	return out
}

func lookup[T any](m *memStore, rows map[int64]T, entity string, id int64) (*T, error) {
	m.queries++
	row, ok := rows[id]
	if !ok {
		return nil, errs.NotFound(entity, id)
	}
	return &row, nil
}

// rank orders question ids by edge count, highest first, ties by id.
func rank(m *memStore, edges []int64, n int) ([]model.Question, error) {
	m.queries++
	if n < 0 {
		return nil, errs.NewValidationError("Validation failed", []errs.FieldError{{Field: "limit", Error: "must be at least 0"}})
	}

	counts := map[int64]int{}
	for _, q := range edges {
		counts[q]++
	}
	ids := make([]int64, 0, len(counts))
	for id := range counts {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		if counts[ids[i]] != counts[ids[j]] {
			return counts[ids[i]] > counts[ids[j]]
		}
		return ids[i] < ids[j]
	})
	if len(ids) > n {
		ids = ids[:n]
	}

	out := []model.Question{}
	for _, id := range ids {
		out = append(out, m.questions[id])
	}
	return out, nil
}

type memUsers struct{ m *memStore }

func (r memUsers) FindByID(_ context.Context, id int64) (*model.User, error) {
	return lookup(r.m, r.m.users, "user", id)
}

func (r memUsers) Save(_ context.Context, u *model.User) error {
	u.ID = r.m.id(u.ID)
	r.m.users[u.ID] = *u
	return nil
}

func (r memUsers) FindByName(_ context.Context, fname, lname string) ([]model.User, error) {
	return filter(r.m, r.m.users, func(u model.User) bool { return u.FName == fname && u.LName == lname }), nil
}

type memQuestions struct{ m *memStore }

func (r memQuestions) FindByID(_ context.Context, id int64) (*model.Question, error) {
	return lookup(r.m, r.m.questions, "question", id)
}

func (r memQuestions) Save(_ context.Context, q *model.Question) error {
	q.ID = r.m.id(q.ID)
	r.m.questions[q.ID] = *q
	return nil
}

func (r memQuestions) FindByAuthorID(_ context.Context, userID int64) ([]model.Question, error) {
	return filter(r.m, r.m.questions, func(q model.Question) bool { return q.UserID == userID }), nil
}

type memReplies struct{ m *memStore }

func (r memReplies) FindByID(_ context.Context, id int64) (*model.Reply, error) {
	return lookup(r.m, r.m.replies, "reply", id)
}

func (r memReplies) Save(_ context.Context, reply *model.Reply) error {
	reply.ID = r.m.id(reply.ID)
	r.m.replies[reply.ID] = *reply
	return nil
}

func (r memReplies) FindByQuestionID(_ context.Context, questionID int64) ([]model.Reply, error) {
	return filter(r.m, r.m.replies, func(reply model.Reply) bool { return reply.QuestionID == questionID }), nil
}

func (r memReplies) FindByUserID(_ context.Context, userID int64) ([]model.Reply, error) {
	return filter(r.m, r.m.replies, func(reply model.Reply) bool { return reply.UserID == userID }), nil
}

func (r memReplies) FindByParentID(_ context.Context, parentID int64) ([]model.Reply, error) {
	return filter(r.m, r.m.replies, func(reply model.Reply) bool {
		return reply.ParentID != nil && *reply.ParentID == parentID && reply.ID != parentID
	}), nil
}

type memFollows struct{ m *memStore }

func (r memFollows) FindByID(_ context.Context, id int64) (*model.QuestionFollow, error) {
	return lookup(r.m, r.m.follows, "question follow", id)
}

func (r memFollows) Save(_ context.Context, f *model.QuestionFollow) error {
	f.ID = r.m.id(f.ID)
	r.m.follows[f.ID] = *f
	return nil
}

func (r memFollows) FollowersForQuestion(_ context.Context, questionID int64) ([]model.User, error) {
	edges := filter(r.m, r.m.follows, func(f model.QuestionFollow) bool { return f.QuestionID == questionID })
	out := []model.User{}
	for _, e := range edges {
		out = append(out, r.m.users[e.UserID])
	}
	return out, nil
}

func (r memFollows) FollowedQuestionsForUser(_ context.Context, userID int64) ([]model.Question, error) {
	edges := filter(r.m, r.m.follows, func(f model.QuestionFollow) bool { return f.UserID == userID })
	out := []model.Question{}
	for _, e := range edges {
		out = append(out, r.m.questions[e.QuestionID])
	}
	return out, nil
}

func (r memFollows) MostFollowedQuestions(_ context.Context, n int) ([]model.Question, error) {
	var edges []int64
	for _, f := range r.m.follows {
		edges = append(edges, f.QuestionID)
	}
	return rank(r.m, edges, n)
}

func (r memFollows) NumFollowersForQuestion(_ context.Context, questionID int64) (int64, error) {
	edges := filter(r.m, r.m.follows, func(f model.QuestionFollow) bool { return f.QuestionID == questionID })
	return int64(len(edges)), nil
}

type memLikes struct{ m *memStore }

func (r memLikes) FindByID(_ context.Context, id int64) (*model.QuestionLike, error) {
	return lookup(r.m, r.m.likes, "question like", id)
}

func (r memLikes) Save(_ context.Context, l *model.QuestionLike) error {
	l.ID = r.m.id(l.ID)
	r.m.likes[l.ID] = *l
	return nil
}

func (r memLikes) LikersForQuestion(_ context.Context, questionID int64) ([]model.User, error) {
	edges := filter(r.m, r.m.likes, func(l model.QuestionLike) bool { return l.QuestionID == questionID })
	out := []model.User{}
	for _, e := range edges {
		out = append(out, r.m.users[e.UserID])
	}
	return out, nil
}

func (r memLikes) LikedQuestionsForUser(_ context.Context, userID int64) ([]model.Question, error) {
	edges := filter(r.m, r.m.likes, func(l model.QuestionLike) bool { return l.UserID == userID })
	out := []model.Question{}
	for _, e := range edges {
		out = append(out, r.m.questions[e.QuestionID])
	}
	return out, nil
}

func (r memLikes) MostLikedQuestions(_ context.Context, n int) ([]model.Question, error) {
	var edges []int64
	for _, l := range r.m.likes {
		edges = append(edges, l.QuestionID)
	}
	return rank(r.m, edges, n)
}

func (r memLikes) NumLikesForQuestion(_ context.Context, questionID int64) (int64, error) {
	edges := filter(r.m, r.m.likes, func(l model.QuestionLike) bool { return l.QuestionID == questionID })
	return int64(len(edges)), nil
}

func (r memLikes) KarmaForUser(_ context.Context, userID int64) (model.Karma, error) {
	r.m.queries++
	var k model.Karma
	for _, q := range r.m.questions {
		if q.UserID != userID {
			continue
		}
		k.Questions++
		for _, l := range r.m.likes {
			if l.QuestionID == q.ID {
				k.Likes++
			}
		}
	}
	return k, nil
}
