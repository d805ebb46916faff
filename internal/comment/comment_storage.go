package comment

import (
	"context"

	"github.com/VitaminP8/graphql-basics/graph/model"
)

type CommentStorage interface {
	AddComment(ctx context.Context, comment *model.Comment) error
	GetAllComments() []*model.Comment
	GetCommentsByPost(postID string) []*model.Comment
	GetCommentsByAuthor(userID string) []*model.Comment
	Count() int
}
