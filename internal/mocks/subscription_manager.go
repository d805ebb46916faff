package mocks

import (
	"sync"

	"github.com/VitaminP8/graphql-basics/graph/model"
)

// MockSubscriptionManager запоминает опубликованные комментарии для проверок в тестах
type MockSubscriptionManager struct {
	mu            sync.Mutex
	subs          map[string][]chan *model.Comment
	notifications map[string][]*model.Comment
}

func NewMockSubscriptionManager() *MockSubscriptionManager {
	return &MockSubscriptionManager{
		subs:          make(map[string][]chan *model.Comment),
		notifications: make(map[string][]*model.Comment),
	}
}

func (m *MockSubscriptionManager) Subscribe(postID string) (<-chan *model.Comment, func()) {
	m.mu.Lock()
	defer m.mu.Unlock()

	// большой буфер: в тестах никто не читает канал конкурентно с Publish
	ch := make(chan *model.Comment, 16)
	m.subs[postID] = append(m.subs[postID], ch)

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			m.mu.Lock()
			defer m.mu.Unlock()
			subscribers := m.subs[postID]
			for i, sub := range subscribers {
				if sub == ch {
					m.subs[postID] = append(subscribers[:i], subscribers[i+1:]...)
					break
				}
			}
			close(ch)
		})
	}

	return ch, cancel
}

func (m *MockSubscriptionManager) Publish(postID string, comment *model.Comment) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, sub := range m.subs[postID] {
		select {
		case sub <- comment:
		default:
		}
	}

	m.notifications[postID] = append(m.notifications[postID], comment)
}

// GetNotificationsForPost возвращает все уведомления для конкретного поста
func (m *MockSubscriptionManager) GetNotificationsForPost(postID string) []*model.Comment {
	m.mu.Lock()
	defer m.mu.Unlock()

	return append([]*model.Comment(nil), m.notifications[postID]...)
}

// Subscribers количество активных подписок на пост
func (m *MockSubscriptionManager) Subscribers(postID string) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return len(m.subs[postID])
}
