package post

import (
	"context"

	"github.com/VitaminP8/graphql-basics/graph/model"
)

type PostStorage interface {
	AddPost(ctx context.Context, post *model.Post) error
	GetAllPosts() []*model.Post
	GetPostByID(id string) *model.Post
	GetPostsByAuthor(userID string) []*model.Post
	Count() int
}
