package subscription

import "github.com/VitaminP8/graphql-basics/graph/model"

// Manager рассылает новые комментарии подписчикам поста
type Manager interface {
	Subscribe(postID string) (<-chan *model.Comment, func())
	Publish(postID string, comment *model.Comment)
}
