package graph

import (
	"context"
	"math"

	"github.com/99designs/gqlgen/graphql"
	"github.com/pkg/errors"
	"github.com/vektah/gqlparser/v2/ast"

	"github.com/VitaminP8/graphql-basics/graph/model"
	"github.com/VitaminP8/graphql-basics/internal/apperr"
)

func (ec *executionContext) _Query(ctx context.Context, sel ast.SelectionSet) graphql.Marshaler {
	return ec.object(ctx, nil, "Query", sel, func(ctx context.Context, field graphql.CollectedField, path ast.Path) graphql.Marshaler {
		args := field.ArgumentMap(ec.Variables)

		switch field.Name {
		case "users":
			query, err := unmarshalOptString(args["query"])
			if err != nil {
				ec.addError(ctx, path, field, err)
				return graphql.Null
			}
			users, err := ec.resolvers.Query().Users(ctx, query)
			if err != nil {
				ec.addError(ctx, path, field, err)
				return graphql.Null
			}
			return ec.userList(ctx, path, field, users)

		case "posts":
			query, err := unmarshalOptString(args["query"])
			if err != nil {
				ec.addError(ctx, path, field, err)
				return graphql.Null
			}
			posts, err := ec.resolvers.Query().Posts(ctx, query)
			if err != nil {
				ec.addError(ctx, path, field, err)
				return graphql.Null
			}
			return ec.postList(ctx, path, field, posts)

		case "comments":
			comments, err := ec.resolvers.Query().Comments(ctx)
			if err != nil {
				ec.addError(ctx, path, field, err)
				return graphql.Null
			}
			return ec.commentList(ctx, path, field, comments)

		case "me":
			user, err := ec.resolvers.Query().Me(ctx)
			if err != nil {
				ec.addError(ctx, path, field, err)
				return graphql.Null
			}
			return ec._User(ctx, path, field.Selections, user)

		case "post":
			post, err := ec.resolvers.Query().Post(ctx)
			if err != nil {
				ec.addError(ctx, path, field, err)
				return graphql.Null
			}
			return ec._Post(ctx, path, field.Selections, post)

		case "__schema":
			return ec.introspectSchema(ctx, path, field)

		case "__type":
			return ec.introspectType(ctx, path, field)

		default:
			return ec.unknownField(ctx, path, field)
		}
	})
}

func (ec *executionContext) _Mutation(ctx context.Context, sel ast.SelectionSet) graphql.Marshaler {
	return ec.object(ctx, nil, "Mutation", sel, func(ctx context.Context, field graphql.CollectedField, path ast.Path) graphql.Marshaler {
		args := field.ArgumentMap(ec.Variables)

		switch field.Name {
		case "createUser":
			data, err := unmarshalCreateUserInput(args["data"])
			if err != nil {
				ec.addError(ctx, path, field, err)
				return graphql.Null
			}
			user, err := ec.resolvers.Mutation().CreateUser(ctx, data)
			if err != nil {
				ec.addError(ctx, path, field, err)
				return graphql.Null
			}
			return ec._User(ctx, path, field.Selections, user)

		case "createPost":
			input, err := unmarshalCreatePostInput(args["post"])
			if err != nil {
				ec.addError(ctx, path, field, err)
				return graphql.Null
			}
			post, err := ec.resolvers.Mutation().CreatePost(ctx, input)
			if err != nil {
				ec.addError(ctx, path, field, err)
				return graphql.Null
			}
			return ec._Post(ctx, path, field.Selections, post)

		case "createComment":
			data, err := unmarshalCreateCommentInput(args["data"])
			if err != nil {
				ec.addError(ctx, path, field, err)
				return graphql.Null
			}
			comment, err := ec.resolvers.Mutation().CreateComment(ctx, data)
			if err != nil {
				ec.addError(ctx, path, field, err)
				return graphql.Null
			}
			return ec._Comment(ctx, path, field.Selections, comment)

		default:
			return ec.unknownField(ctx, path, field)
		}
	})
}

// _Subscription подписывается на единственное корневое поле и возвращает функцию,
// отдающую следующее событие. nil из этой функции означает конец потока.
func (ec *executionContext) _Subscription(ctx context.Context, sel ast.SelectionSet) (next func(ctx context.Context) graphql.Marshaler) {
	fields := graphql.CollectFields(ec.OperationContext, sel, []string{"Subscription"})
	if len(fields) != 1 {
		graphql.AddErrorf(ctx, "must subscribe to exactly one stream")
		return nil
	}

	field := fields[0]
	path := ast.Path{ast.PathName(field.Alias)}

	defer func() {
		if r := recover(); r != nil {
			ec.addError(ctx, path, field, graphql.DefaultRecover(ctx, r))
			next = nil
		}
	}()

	switch field.Name {
	case "commentAdded":
		args := field.ArgumentMap(ec.Variables)
		postID, err := graphql.UnmarshalID(args["postId"])
		if err != nil {
			ec.addError(ctx, path, field, err)
			return nil
		}

		ch, err := ec.resolvers.Subscription().CommentAdded(ctx, postID)
		if err != nil {
			ec.addError(ctx, path, field, err)
			return nil
		}

		return func(ctx context.Context) graphql.Marshaler {
			select {
			case comment, ok := <-ch:
				if !ok {
					return nil
				}
				value := ec._Comment(ctx, path, field.Selections, comment)
				if value == graphql.Null {
					ec.nullViolation(ctx, path, field)
					return graphql.Null
				}
				out := &resultObject{}
				out.add(field.Alias, value)
				return out
			case <-ctx.Done():
				return nil
			}
		}

	default:
		ec.unknownField(ctx, path, field)
		return nil
	}
}

func (ec *executionContext) _User(ctx context.Context, path ast.Path, sel ast.SelectionSet, obj *model.User) graphql.Marshaler {
	if obj == nil {
		return graphql.Null
	}

	return ec.object(ctx, path, "User", sel, func(ctx context.Context, field graphql.CollectedField, path ast.Path) graphql.Marshaler {
		switch field.Name {
		case "id":
			return graphql.MarshalID(obj.ID)
		case "name":
			return graphql.MarshalString(obj.Name)
		case "email":
			return graphql.MarshalString(obj.Email)
		case "age":
			if obj.Age == nil {
				return graphql.Null
			}
			return graphql.MarshalInt(*obj.Age)

		case "posts":
			posts, err := ec.resolvers.User().Posts(ctx, obj)
			if err != nil {
				ec.addError(ctx, path, field, err)
				return graphql.Null
			}
			return ec.postList(ctx, path, field, posts)

		case "comments":
			comments, err := ec.resolvers.User().Comments(ctx, obj)
			if err != nil {
				ec.addError(ctx, path, field, err)
				return graphql.Null
			}
			return ec.commentList(ctx, path, field, comments)

		default:
			return ec.unknownField(ctx, path, field)
		}
	})
}

func (ec *executionContext) _Post(ctx context.Context, path ast.Path, sel ast.SelectionSet, obj *model.Post) graphql.Marshaler {
	if obj == nil {
		return graphql.Null
	}

	return ec.object(ctx, path, "Post", sel, func(ctx context.Context, field graphql.CollectedField, path ast.Path) graphql.Marshaler {
		switch field.Name {
		case "id":
			return graphql.MarshalID(obj.ID)
		case "title":
			return graphql.MarshalString(obj.Title)
		case "body":
			return graphql.MarshalString(obj.Body)
		case "published":
			return graphql.MarshalBoolean(obj.Published)

		case "author":
			user, err := ec.resolvers.Post().Author(ctx, obj)
			if err != nil {
				ec.addError(ctx, path, field, err)
				return graphql.Null
			}
			return ec._User(ctx, path, field.Selections, user)

		case "comments":
			comments, err := ec.resolvers.Post().Comments(ctx, obj)
			if err != nil {
				ec.addError(ctx, path, field, err)
				return graphql.Null
			}
			return ec.commentList(ctx, path, field, comments)

		default:
			return ec.unknownField(ctx, path, field)
		}
	})
}

func (ec *executionContext) _Comment(ctx context.Context, path ast.Path, sel ast.SelectionSet, obj *model.Comment) graphql.Marshaler {
	if obj == nil {
		return graphql.Null
	}

	return ec.object(ctx, path, "Comment", sel, func(ctx context.Context, field graphql.CollectedField, path ast.Path) graphql.Marshaler {
		switch field.Name {
		case "id":
			return graphql.MarshalID(obj.ID)
		case "text":
			return graphql.MarshalString(obj.Text)

		case "author":
			user, err := ec.resolvers.Comment().Author(ctx, obj)
			if err != nil {
				ec.addError(ctx, path, field, err)
				return graphql.Null
			}
			return ec._User(ctx, path, field.Selections, user)

		case "post":
			post, err := ec.resolvers.Comment().Post(ctx, obj)
			if err != nil {
				ec.addError(ctx, path, field, err)
				return graphql.Null
			}
			return ec._Post(ctx, path, field.Selections, post)

		default:
			return ec.unknownField(ctx, path, field)
		}
	})
}

func (ec *executionContext) userList(ctx context.Context, path ast.Path, field graphql.CollectedField, users []*model.User) graphql.Marshaler {
	return ec.list(ctx, path, field, len(users), func(ctx context.Context, i int, path ast.Path) graphql.Marshaler {
		return ec._User(ctx, path, field.Selections, users[i])
	})
}

func (ec *executionContext) postList(ctx context.Context, path ast.Path, field graphql.CollectedField, posts []*model.Post) graphql.Marshaler {
	return ec.list(ctx, path, field, len(posts), func(ctx context.Context, i int, path ast.Path) graphql.Marshaler {
		return ec._Post(ctx, path, field.Selections, posts[i])
	})
}

func (ec *executionContext) commentList(ctx context.Context, path ast.Path, field graphql.CollectedField, comments []*model.Comment) graphql.Marshaler {
	return ec.list(ctx, path, field, len(comments), func(ctx context.Context, i int, path ast.Path) graphql.Marshaler {
		return ec._Comment(ctx, path, field.Selections, comments[i])
	})
}

func unmarshalOptString(v interface{}) (*string, error) {
	if v == nil {
		return nil, nil
	}
	s, err := graphql.UnmarshalString(v)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func inputObject(typeName string, v interface{}) (map[string]interface{}, error) {
	m, ok := v.(map[string]interface{})
	if !ok {
		return nil, errors.Errorf("%s must be an object, got %T", typeName, v)
	}
	return m, nil
}

func unmarshalCreateUserInput(v interface{}) (model.CreateUserInput, error) {
	var it model.CreateUserInput
	m, err := inputObject("CreateUserInput", v)
	if err != nil {
		return it, err
	}

	if it.Name, err = graphql.UnmarshalString(m["name"]); err != nil {
		return it, errors.Wrap(err, "CreateUserInput.name")
	}
	if it.Email, err = graphql.UnmarshalString(m["email"]); err != nil {
		return it, errors.Wrap(err, "CreateUserInput.email")
	}
	if raw, ok := m["age"]; ok && raw != nil {
		age, err := graphql.UnmarshalInt64(raw)
		if err != nil {
			return it, errors.Wrap(err, "CreateUserInput.age")
		}
		// Int в GraphQL 32-битный, большие литералы gqlparser пропускает
		if age < math.MinInt32 || age > math.MaxInt32 {
			return it, errors.Wrapf(apperr.ErrAgeOutOfRange, "CreateUserInput.age: %d", age)
		}
		v := int(age)
		it.Age = &v
	}

	return it, nil
}

func unmarshalCreatePostInput(v interface{}) (model.CreatePostInput, error) {
	var it model.CreatePostInput
	m, err := inputObject("CreatePostInput", v)
	if err != nil {
		return it, err
	}

	if it.Title, err = graphql.UnmarshalString(m["title"]); err != nil {
		return it, errors.Wrap(err, "CreatePostInput.title")
	}
	if it.Body, err = graphql.UnmarshalString(m["body"]); err != nil {
		return it, errors.Wrap(err, "CreatePostInput.body")
	}
	if it.Published, err = graphql.UnmarshalBoolean(m["published"]); err != nil {
		return it, errors.Wrap(err, "CreatePostInput.published")
	}
	if it.Author, err = graphql.UnmarshalID(m["author"]); err != nil {
		return it, errors.Wrap(err, "CreatePostInput.author")
	}

	return it, nil
}

func unmarshalCreateCommentInput(v interface{}) (model.CreateCommentInput, error) {
	var it model.CreateCommentInput
	m, err := inputObject("CreateCommentInput", v)
	if err != nil {
		return it, err
	}

	if it.Text, err = graphql.UnmarshalString(m["text"]); err != nil {
		return it, errors.Wrap(err, "CreateCommentInput.text")
	}
	if it.Author, err = graphql.UnmarshalID(m["author"]); err != nil {
		return it, errors.Wrap(err, "CreateCommentInput.author")
	}
	if it.Post, err = graphql.UnmarshalID(m["post"]); err != nil {
		return it, errors.Wrap(err, "CreateCommentInput.post")
	}

	return it, nil
}
