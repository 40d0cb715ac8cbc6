package service

import (
	"github.com/deppfellow/questions/internal/repository"
	"github.com/deppfellow/questions/internal/server"
)

type Services struct {
	Forum *ForumService
}

func NewService(s *server.Server, repos *repository.Repositories) (*Services, error) {
	forumService := NewForumService(s.Logger, repos)

	return &Services{
		Forum: forumService,
	}, nil
}
