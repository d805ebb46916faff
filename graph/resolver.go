package graph

import (
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/VitaminP8/graphql-basics/internal/comment"
	"github.com/VitaminP8/graphql-basics/internal/post"
	"github.com/VitaminP8/graphql-basics/internal/subscription"
	"github.com/VitaminP8/graphql-basics/internal/user"
)

// Resolver служит корневой точкой для всех резолверов.
// Хранилища внедряются снаружи, поэтому каждый тест может работать со своим набором данных.
type Resolver struct {
	UserStore           user.UserStorage
	PostStore           post.PostStorage
	CommentStore        comment.CommentStorage
	SubscriptionManager subscription.Manager

	// NewID генерирует идентификаторы новых записей, по умолчанию UUID v4
	NewID func() string
}

// ErrSubscriptionsDisabled возвращается подпиской, если резолвер собран без SubscriptionManager
var ErrSubscriptionsDisabled = errors.New("subscriptions are not configured")

func (r *Resolver) newID() string {
	if r.NewID != nil {
		return r.NewID()
	}
	return uuid.NewString()
}

func (r *Resolver) Comment() CommentResolver           { return &commentResolver{r} }
func (r *Resolver) Mutation() MutationResolver         { return &mutationResolver{r} }
func (r *Resolver) Post() PostResolver                 { return &postResolver{r} }
func (r *Resolver) Query() QueryResolver               { return &queryResolver{r} }
func (r *Resolver) Subscription() SubscriptionResolver { return &subscriptionResolver{r} }
func (r *Resolver) User() UserResolver                 { return &userResolver{r} }

type commentResolver struct{ *Resolver }
type mutationResolver struct{ *Resolver }
type postResolver struct{ *Resolver }
type queryResolver struct{ *Resolver }
type subscriptionResolver struct{ *Resolver }
type userResolver struct{ *Resolver }
