package user

import (
	"context"

	"github.com/VitaminP8/graphql-basics/graph/model"
)

type UserStorage interface {
	AddUser(ctx context.Context, user *model.User) error
	GetAllUsers() []*model.User
	GetUserByID(id string) *model.User
	GetUserByEmail(email string) *model.User
	Count() int
}
