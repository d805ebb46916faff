package graph

import (
	"context"
	"strings"

	"github.com/VitaminP8/graphql-basics/graph/model"
	"github.com/VitaminP8/graphql-basics/internal/apperr"
	"github.com/VitaminP8/graphql-basics/internal/log"
)

// Author is the resolver for the author field.
func (r *commentResolver) Author(ctx context.Context, obj *model.Comment) (*model.User, error) {
	return r.UserStore.GetUserByID(obj.AuthorID), nil
}

// Post is the resolver for the post field.
func (r *commentResolver) Post(ctx context.Context, obj *model.Comment) (*model.Post, error) {
	return r.PostStore.GetPostByID(obj.PostID), nil
}

// CreateUser is the resolver for the createUser field.
func (r *mutationResolver) CreateUser(ctx context.Context, data model.CreateUserInput) (*model.User, error) {
	if r.UserStore.GetUserByEmail(data.Email) != nil {
		return nil, apperr.ErrEmailTaken
	}

	user := model.NewUser(r.newID(), data)
	if err := r.UserStore.AddUser(ctx, user); err != nil {
		return nil, err
	}

	log.FromContext(ctx).V(1).Info("user created", "id", user.ID)
	return user, nil
}

// CreatePost is the resolver for the createPost field.
func (r *mutationResolver) CreatePost(ctx context.Context, post model.CreatePostInput) (*model.Post, error) {
	if r.UserStore.GetUserByID(post.Author) == nil {
		return nil, apperr.ErrUserNotFound
	}

	created := model.NewPost(r.newID(), post)
	if err := r.PostStore.AddPost(ctx, created); err != nil {
		return nil, err
	}

	log.FromContext(ctx).V(1).Info("post created", "id", created.ID, "author", created.AuthorID)
	return created, nil
}

// CreateComment is the resolver for the createComment field.
func (r *mutationResolver) CreateComment(ctx context.Context, data model.CreateCommentInput) (*model.Comment, error) {
	userExists := r.UserStore.GetUserByID(data.Author) != nil
	post := r.PostStore.GetPostByID(data.Post)
	if !userExists || post == nil || !post.Published {
		return nil, apperr.ErrUserOrPostNotFound
	}

	comment := model.NewComment(r.newID(), data)
	if err := r.CommentStore.AddComment(ctx, comment); err != nil {
		return nil, err
	}

	if r.SubscriptionManager != nil {
		r.SubscriptionManager.Publish(comment.PostID, comment)
	}

	log.FromContext(ctx).V(1).Info("comment created", "id", comment.ID, "post", comment.PostID)
	return comment, nil
}

// Author is the resolver for the author field.
func (r *postResolver) Author(ctx context.Context, obj *model.Post) (*model.User, error) {
	return r.UserStore.GetUserByID(obj.AuthorID), nil
}

// Comments is the resolver for the comments field.
func (r *postResolver) Comments(ctx context.Context, obj *model.Post) ([]*model.Comment, error) {
	return r.CommentStore.GetCommentsByPost(obj.ID), nil
}

// Users is the resolver for the users field.
func (r *queryResolver) Users(ctx context.Context, query *string) ([]*model.User, error) {
	users := r.UserStore.GetAllUsers()
	if query == nil || *query == "" {
		return users, nil
	}

	filtered := []*model.User{}
	for _, u := range users {
		if containsFold(u.Name, *query) {
			filtered = append(filtered, u)
		}
	}
	return filtered, nil
}

// Posts is the resolver for the posts field.
func (r *queryResolver) Posts(ctx context.Context, query *string) ([]*model.Post, error) {
	posts := r.PostStore.GetAllPosts()
	if query == nil || *query == "" {
		return posts, nil
	}

	filtered := []*model.Post{}
	for _, p := range posts {
		if containsFold(p.Title, *query) || containsFold(p.Body, *query) {
			filtered = append(filtered, p)
		}
	}
	return filtered, nil
}

// Comments is the resolver for the comments field.
func (r *queryResolver) Comments(ctx context.Context) ([]*model.Comment, error) {
	return r.CommentStore.GetAllComments(), nil
}

// Me is the resolver for the me field.
// Заглушка: пользователя нет в хранилище, поэтому его посты и комментарии всегда пустые.
func (r *queryResolver) Me(ctx context.Context) (*model.User, error) {
	return &model.User{
		ID:    "123098",
		Name:  "Carla",
		Email: "carla@email.com",
	}, nil
}

// Post is the resolver for the post field.
// Заглушка без автора: запрос post { author } нарушает non-null и вернет ошибку.
func (r *queryResolver) Post(ctx context.Context) (*model.Post, error) {
	return &model.Post{
		ID:        "092",
		Title:     "Graphql 181",
		Body:      "",
		Published: false,
	}, nil
}

// CommentAdded is the resolver for the commentAdded field.
func (r *subscriptionResolver) CommentAdded(ctx context.Context, postID string) (<-chan *model.Comment, error) {
	if r.SubscriptionManager == nil {
		return nil, ErrSubscriptionsDisabled
	}
	if r.PostStore.GetPostByID(postID) == nil {
		return nil, apperr.ErrPostNotFound
	}

	ch, cancel := r.SubscriptionManager.Subscribe(postID)
	go func() {
		<-ctx.Done()
		cancel()
	}()

	log.FromContext(ctx).V(1).Info("subscribed to comments", "post", postID)
	return ch, nil
}

// Posts is the resolver for the posts field.
func (r *userResolver) Posts(ctx context.Context, obj *model.User) ([]*model.Post, error) {
	return r.PostStore.GetPostsByAuthor(obj.ID), nil
}

// Comments is the resolver for the comments field.
func (r *userResolver) Comments(ctx context.Context, obj *model.User) ([]*model.Comment, error) {
	return r.CommentStore.GetCommentsByAuthor(obj.ID), nil
}

// containsFold сообщает, входит ли substr в s без учета регистра
func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
