package subscription

import (
	"sync"
	"time"

	"github.com/VitaminP8/graphql-basics/graph/model"
)

const defaultPublishTimeout = 500 * time.Millisecond

type SubscriptionManager struct {
	mu             sync.Mutex
	subs           map[string][]chan *model.Comment // postID -> список каналов подписчиков
	publishTimeout time.Duration
}

func NewSubscriptionManager() *SubscriptionManager {
	return &SubscriptionManager{
		subs:           make(map[string][]chan *model.Comment),
		publishTimeout: defaultPublishTimeout,
	}
}

func (m *SubscriptionManager) Subscribe(postID string) (<-chan *model.Comment, func()) {
	m.mu.Lock()
	defer m.mu.Unlock()

	ch := make(chan *model.Comment, 1) // Буфер 1, чтобы не блокировался писатель

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
			if len(m.subs[postID]) == 0 {
				delete(m.subs, postID)
			}
			close(ch)
		})
	}

	return ch, cancel
}

// Publish отправляет комментарий всем подписчикам поста.
// Медленный подписчик ждёт не дольше publishTimeout, после чего комментарий для него теряется.
func (m *SubscriptionManager) Publish(postID string, comment *model.Comment) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, sub := range m.subs[postID] {
		select {
		case sub <- comment:
		case <-time.After(m.publishTimeout):
		}
	}
}

// Subscribers количество активных подписчиков поста
func (m *SubscriptionManager) Subscribers(postID string) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return len(m.subs[postID])
}
