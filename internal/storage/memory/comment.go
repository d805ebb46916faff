package memory

import (
	"context"
	"sync"

	"github.com/VitaminP8/graphql-basics/graph/model"
	"github.com/VitaminP8/graphql-basics/internal/log"
	"github.com/pkg/errors"
)

type CommentMemoryStorage struct {
	mu       sync.RWMutex
	comments []*model.Comment
}

func NewCommentMemoryStorage(comments ...*model.Comment) *CommentMemoryStorage {
	return &CommentMemoryStorage{
		comments: append([]*model.Comment(nil), comments...),
	}
}

func (s *CommentMemoryStorage) AddComment(ctx context.Context, comment *model.Comment) error {
	if comment == nil {
		return errors.New("comment is nil")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, c := range s.comments {
		if c.ID == comment.ID {
			return errors.Errorf("comment with ID %s already exists", comment.ID)
		}
	}

	s.comments = append(s.comments, comment)
	log.FromContext(ctx).V(2).Info("comment stored", "id", comment.ID, "post", comment.PostID, "total", len(s.comments))

	return nil
}

func (s *CommentMemoryStorage) GetAllComments() []*model.Comment {
	s.mu.RLock()
	defer s.mu.RUnlock()

	comments := make([]*model.Comment, len(s.comments))
	copy(comments, s.comments)
	return comments
}

func (s *CommentMemoryStorage) GetCommentsByPost(postID string) []*model.Comment {
	return s.filter(func(c *model.Comment) bool { return c.PostID == postID })
}

func (s *CommentMemoryStorage) GetCommentsByAuthor(userID string) []*model.Comment {
	return s.filter(func(c *model.Comment) bool { return c.AuthorID == userID })
}

func (s *CommentMemoryStorage) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.comments)
}

func (s *CommentMemoryStorage) filter(match func(c *model.Comment) bool) []*model.Comment {
	s.mu.RLock()
	defer s.mu.RUnlock()

	comments := []*model.Comment{}
	for _, c := range s.comments {
		if match(c) {
			comments = append(comments, c)
		}
	}
	return comments
}
