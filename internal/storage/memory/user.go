package memory

import (
	"context"
	"sync"

	"github.com/VitaminP8/graphql-basics/graph/model"
	"github.com/VitaminP8/graphql-basics/internal/log"
	"github.com/pkg/errors"
)

// UserMemoryStorage хранит пользователей в порядке добавления.
// Мьютекс защищает только сам слайс: проверка уникальности email и добавление
// выполняются резолвером раздельно и не сериализуются между запросами.
type UserMemoryStorage struct {
	mu    sync.RWMutex
	users []*model.User
}

func NewUserMemoryStorage(users ...*model.User) *UserMemoryStorage {
	return &UserMemoryStorage{
		users: append([]*model.User(nil), users...),
	}
}

func (s *UserMemoryStorage) AddUser(ctx context.Context, user *model.User) error {
	if user == nil {
		return errors.New("user is nil")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.ID == user.ID {
			return errors.Errorf("user with ID %s already exists", user.ID)
		}
	}

	s.users = append(s.users, user)
	log.FromContext(ctx).V(2).Info("user stored", "id", user.ID, "total", len(s.users))

	return nil
}

func (s *UserMemoryStorage) GetAllUsers() []*model.User {
	s.mu.RLock()
	defer s.mu.RUnlock()

	users := make([]*model.User, len(s.users))
	copy(users, s.users)
	return users
}

func (s *UserMemoryStorage) GetUserByID(id string) *model.User {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.ID == id {
			return u
		}
	}
	return nil
}

// GetUserByEmail ищет точное (регистрозависимое) совпадение email
func (s *UserMemoryStorage) GetUserByEmail(email string) *model.User {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.Email == email {
			return u
		}
	}
	return nil
}

func (s *UserMemoryStorage) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.users)
}
