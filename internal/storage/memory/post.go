package memory

import (
	"context"
	"sync"

	"github.com/VitaminP8/graphql-basics/graph/model"
	"github.com/VitaminP8/graphql-basics/internal/log"
	"github.com/pkg/errors"
)

type PostMemoryStorage struct {
	mu    sync.RWMutex
	posts []*model.Post
}

func NewPostMemoryStorage(posts ...*model.Post) *PostMemoryStorage {
	return &PostMemoryStorage{
		posts: append([]*model.Post(nil), posts...),
	}
}

func (s *PostMemoryStorage) AddPost(ctx context.Context, post *model.Post) error {
	if post == nil {
		return errors.New("post is nil")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, p := range s.posts {
		if p.ID == post.ID {
			return errors.Errorf("post with ID %s already exists", post.ID)
		}
	}

	s.posts = append(s.posts, post)
	log.FromContext(ctx).V(2).Info("post stored", "id", post.ID, "total", len(s.posts))

	return nil
}

func (s *PostMemoryStorage) GetAllPosts() []*model.Post {
	s.mu.RLock()
	defer s.mu.RUnlock()

	posts := make([]*model.Post, len(s.posts))
	copy(posts, s.posts)
	return posts
}

func (s *PostMemoryStorage) GetPostByID(id string) *model.Post {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, p := range s.posts {
		if p.ID == id {
			return p
		}
	}
	return nil
}

func (s *PostMemoryStorage) GetPostsByAuthor(userID string) []*model.Post {
	s.mu.RLock()
	defer s.mu.RUnlock()

	posts := []*model.Post{}
	for _, p := range s.posts {
		if p.AuthorID == userID {
			posts = append(posts, p)
		}
	}
	return posts
}

func (s *PostMemoryStorage) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.posts)
}
