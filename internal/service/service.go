// Package service contains the caller-facing forum operations.
//
// It sits on top of the repository layer. Every relationship traversal and
// aggregate a caller can ask for (the author of a question, the replies
// under a reply, the most liked questions, a user's average karma) is a
// ForumService method that delegates to one or two repository queries.
package service
