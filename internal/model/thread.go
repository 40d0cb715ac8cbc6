package model

import "sort"

// Thread is an arena of the replies to one question, indexed by id.
//
// Parent and child links are resolved through ids, never pointers. A reply
// whose parent is itself, or whose parent is not in the arena, is treated as
// a root so that every reply stays reachable and no walk can loop.
type Thread struct {
	QuestionID int64

	replies  map[int64]Reply
	children map[int64][]int64
	roots    []int64
}

// NewThread indexes replies. Order within each level is ascending id, which
// is creation order for store-assigned ids.
func NewThread(questionID int64, replies []Reply) *Thread {
	t := &Thread{
		QuestionID: questionID,
		replies:    make(map[int64]Reply, len(replies)),
		children:   make(map[int64][]int64),
	}

	for _, r := range replies {
		t.replies[r.ID] = r
	}

	for id, r := range t.replies {
		if parent, ok := t.parentID(r); ok {
			t.children[parent] = append(t.children[parent], id)
		} else {
			t.roots = append(t.roots, id)
		}
	}

	sortIDs(t.roots)
	for _, ids := range t.children {
		sortIDs(ids)
	}
	return t
}

// parentID returns the in-arena parent of r, if any.
func (t *Thread) parentID(r Reply) (int64, bool) {
	if r.ParentID == nil || *r.ParentID == r.ID {
		return 0, false
	}
	if _, ok := t.replies[*r.ParentID]; !ok {
		return 0, false
	}
	return *r.ParentID, true
}

// Len is the number of replies in the thread.
func (t *Thread) Len() int { return len(t.replies) }

// Get returns the reply with id.
func (t *Thread) Get(id int64) (Reply, bool) {
	r, ok := t.replies[id]
	return r, ok
}

// Roots returns the top-level replies.
func (t *Thread) Roots() []Reply {
	return t.collect(t.roots)
}

// Children returns the direct children of the reply with id. It never
// includes the reply itself.
func (t *Thread) Children(id int64) []Reply {
	return t.collect(t.children[id])
}

// Parent returns the parent of the reply with id.
func (t *Thread) Parent(id int64) (Reply, bool) {
	r, ok := t.replies[id]
	if !ok {
		return Reply{}, false
	}
	parent, ok := t.parentID(r)
	if !ok {
		return Reply{}, false
	}
	return t.replies[parent], true
}

// Walk visits every reply depth-first, parents before children. depth is 0
// for roots. Returning false from fn stops the walk.
//
// Replies caught in a parent cycle are unreachable from the roots; they are
// visited afterwards as extra roots so that Walk still covers the arena.
func (t *Thread) Walk(fn func(r Reply, depth int) bool) {
	visited := make(map[int64]bool, len(t.replies))

	var visit func(id int64, depth int) bool
	visit = func(id int64, depth int) bool {
		if visited[id] {
			return true
		}
		visited[id] = true
		if !fn(t.replies[id], depth) {
			return false
		}
		for _, child := range t.children[id] {
			if !visit(child, depth+1) {
				return false
			}
		}
		return true
	}

	for _, id := range t.roots {
		if !visit(id, 0) {
			return
		}
	}

	if len(visited) == len(t.replies) {
		return
	}

	rest := make([]int64, 0, len(t.replies)-len(visited))
	for id := range t.replies {
		if !visited[id] {
			rest = append(rest, id)
		}
	}
	sortIDs(rest)
	for _, id := range rest {
		if !visit(id, 0) {
			return
		}
	}
}

func (t *Thread) collect(ids []int64) []Reply {
	out := make([]Reply, 0, len(ids))
	for _, id := range ids {
		out = append(out, t.replies[id])
	}
	return out
}

func sortIDs(ids []int64) {
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
}
