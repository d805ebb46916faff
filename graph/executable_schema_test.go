package graph

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/99designs/gqlgen/client"
	"github.com/99designs/gqlgen/graphql/handler"
	"github.com/MakeNowJust/heredoc/v2"
	"github.com/go-logr/logr/testr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/VitaminP8/graphql-basics/internal/apperr"
	"github.com/VitaminP8/graphql-basics/internal/log"
	"github.com/VitaminP8/graphql-basics/internal/storage/memory"
	"github.com/VitaminP8/graphql-basics/internal/subscription"
)

type responseError struct {
	Message    string                 `json:"message"`
	Path       []interface{}          `json:"path"`
	Extensions map[string]interface{} `json:"extensions"`
}

// newTestClient поднимает полный HTTP handler поверх свежего seed
func newTestClient(t *testing.T) (*client.Client, *Resolver, *subscription.SubscriptionManager) {
	t.Helper()

	seed, err := memory.DefaultSeed()
	require.NoError(t, err)

	users, posts, comments := memory.NewStorages(seed)
	subscriptionManager := subscription.NewSubscriptionManager()

	resolver := &Resolver{
		UserStore:           users,
		PostStore:           posts,
		CommentStore:        comments,
		SubscriptionManager: subscriptionManager,
	}

	srv := handler.NewDefaultServer(NewExecutableSchema(Config{Resolvers: resolver}))
	srv.SetErrorPresenter(ErrorPresenter)

	return client.New(log.Middleware(testr.New(t), srv)), resolver, subscriptionManager
}

func rawPost(t *testing.T, c *client.Client, query string, options ...client.Option) (string, []responseError) {
	t.Helper()

	resp, err := c.RawPost(query, options...)
	require.NoError(t, err)

	data, err := json.Marshal(resp.Data)
	require.NoError(t, err)

	var errs []responseError
	if len(resp.Errors) > 0 {
		require.NoError(t, json.Unmarshal(resp.Errors, &errs))
	}
	return string(data), errs
}

func TestExecutableSchema_Queries(t *testing.T) {
	c, _, _ := newTestClient(t)

	t.Run("Users with nested posts and comments", func(t *testing.T) {
		var resp struct {
			Users []struct {
				Name     string
				Age      *int
				Posts    []struct{ ID string }
				Comments []struct{ Text string }
			}
		}
		c.MustPost(heredoc.Doc(`
			query {
				users {
					name
					age
					posts { id }
					comments { text }
				}
			}
		`), &resp)

		require.Len(t, resp.Users, 3)
		assert.Equal(t, "Carla", resp.Users[0].Name)
		require.NotNil(t, resp.Users[0].Age)
		assert.Equal(t, 26, *resp.Users[0].Age)
		assert.Len(t, resp.Users[0].Posts, 2)
		assert.Len(t, resp.Users[0].Comments, 2)
		assert.Nil(t, resp.Users[1].Age)
		assert.Equal(t, "Goodbye", resp.Users[2].Comments[0].Text)
	})

	t.Run("Search through variables and fragments", func(t *testing.T) {
		var resp struct {
			Users []struct{ Name string }
			Posts []struct{ Title string }
		}
		c.MustPost(heredoc.Doc(`
			query Search($user: String, $post: String) {
				users(query: $user) { ...userFields }
				posts(query: $post) { title }
			}

			fragment userFields on User {
				name
			}
		`), &resp, client.Var("user", "car"), client.Var("post", "graphql"))

		require.Len(t, resp.Users, 1)
		assert.Equal(t, "Carla", resp.Users[0].Name)
		require.Len(t, resp.Posts, 2)
		assert.Equal(t, "GraphQL 101", resp.Posts[0].Title)
		assert.Equal(t, "GraphQL 201", resp.Posts[1].Title)
	})

	t.Run("Aliases and typename", func(t *testing.T) {
		data, errs := rawPost(t, c, `{ comments { text who: author { name } __typename } }`)
		assert.Empty(t, errs)
		assert.JSONEq(t, heredoc.Doc(`
			{"comments": [
				{"text": "Hi", "who": {"name": "Carla"}, "__typename": "Comment"},
				{"text": "Bye", "who": {"name": "Maria"}, "__typename": "Comment"},
				{"text": "Goodbye", "who": {"name": "Hector"}, "__typename": "Comment"},
				{"text": "Goodbye2", "who": {"name": "Carla"}, "__typename": "Comment"}
			]}
		`), data)
	})

	t.Run("Skip and include directives", func(t *testing.T) {
		data, errs := rawPost(t, c, `query($on: Boolean!) { me { id name @skip(if: $on) email @include(if: $on) } }`, client.Var("on", true))
		assert.Empty(t, errs)
		assert.JSONEq(t, `{"me": {"id": "123098", "email": "carla@email.com"}}`, data)
	})

	t.Run("Reads are idempotent", func(t *testing.T) {
		query := `{ users { id } posts { id comments { id } } comments { id post { id } } }`
		first, errs := rawPost(t, c, query)
		require.Empty(t, errs)
		second, errs := rawPost(t, c, query)
		require.Empty(t, errs)
		assert.Equal(t, first, second)
	})

	t.Run("Me stub has no posts", func(t *testing.T) {
		data, errs := rawPost(t, c, `{ me { name posts { id } comments { id } } }`)
		assert.Empty(t, errs)
		assert.JSONEq(t, `{"me": {"name": "Carla", "posts": [], "comments": []}}`, data)
	})

	t.Run("Post stub author violates non-null", func(t *testing.T) {
		data, errs := rawPost(t, c, `{ post { id author { name } } }`)
		assert.Equal(t, "null", data)
		require.Len(t, errs, 1)
		assert.Equal(t, "must not be null", errs[0].Message)
		assert.Equal(t, []interface{}{"post", "author"}, errs[0].Path)
	})

	t.Run("Post stub without author", func(t *testing.T) {
		data, errs := rawPost(t, c, `{ post { id title body published comments { id } } }`)
		assert.Empty(t, errs)
		assert.JSONEq(t, `{"post": {"id": "092", "title": "Graphql 181", "body": "", "published": false, "comments": []}}`, data)
	})
}

func TestExecutableSchema_Mutations(t *testing.T) {
	c, resolver, _ := newTestClient(t)

	t.Run("Create user then list four users", func(t *testing.T) {
		var created struct {
			CreateUser struct {
				ID    string
				Name  string
				Email string
				Age   *int
			}
		}
		c.MustPost(heredoc.Doc(`
			mutation($data: CreateUserInput!) {
				createUser(data: $data) { id name email age }
			}
		`), &created, client.Var("data", map[string]interface{}{
			"name":  "Zoe",
			"email": "zoe@email.com",
		}))

		assert.NotEmpty(t, created.CreateUser.ID)
		assert.Equal(t, "Zoe", created.CreateUser.Name)
		assert.Nil(t, created.CreateUser.Age)

		var resp struct {
			Users []struct{ Name string }
		}
		c.MustPost(`{ users { name } }`, &resp)
		require.Len(t, resp.Users, 4)
		assert.Equal(t, "Zoe", resp.Users[3].Name)
	})

	t.Run("Email taken is a validation error", func(t *testing.T) {
		data, errs := rawPost(t, c, `mutation { createUser(data: {name: "Carla 2", email: "carla@email.com", age: 40}) { id } }`)
		assert.Equal(t, "null", data)
		require.Len(t, errs, 1)
		assert.Equal(t, "Email taken", errs[0].Message)
		assert.Equal(t, []interface{}{"createUser"}, errs[0].Path)
		assert.Equal(t, "VALIDATION_ERROR", errs[0].Extensions["code"])
		assert.Equal(t, 4, resolver.UserStore.Count())
	})

	t.Run("Create post for unknown author", func(t *testing.T) {
		data, errs := rawPost(t, c, `mutation { createPost(post: {title: "t", body: "b", published: true, author: "999"}) { id } }`)
		assert.Equal(t, "null", data)
		require.Len(t, errs, 1)
		assert.Equal(t, "User not found", errs[0].Message)
		assert.Equal(t, "NOT_FOUND", errs[0].Extensions["code"])
		assert.Equal(t, 3, resolver.PostStore.Count())
	})

	t.Run("Create post resolves its author", func(t *testing.T) {
		var resp struct {
			CreatePost struct {
				Title     string
				Published bool
				Author    struct{ Name string }
				Comments  []struct{ ID string }
			}
		}
		c.MustPost(`mutation { createPost(post: {title: "Draft", body: "", published: false, author: "2"}) { title published author { name } comments { id } } }`, &resp)

		assert.Equal(t, "Draft", resp.CreatePost.Title)
		assert.False(t, resp.CreatePost.Published)
		assert.Equal(t, "Maria", resp.CreatePost.Author.Name)
		assert.Empty(t, resp.CreatePost.Comments)
	})

	t.Run("Comment on unpublished post fails", func(t *testing.T) {
		data, errs := rawPost(t, c, `mutation { createComment(data: {text: "x", author: "1", post: "11"}) { id } }`)
		assert.Equal(t, "null", data)
		require.Len(t, errs, 1)
		assert.Equal(t, "Unable to find user and post", errs[0].Message)
		assert.Equal(t, "VALIDATION_ERROR", errs[0].Extensions["code"])

		var resp struct {
			Comments []struct{ ID string }
		}
		c.MustPost(`{ comments { id } }`, &resp)
		assert.Len(t, resp.Comments, 4)
	})

	t.Run("Created comment round-trips through relationships", func(t *testing.T) {
		var resp struct {
			CreateComment struct {
				ID     string
				Text   string
				Author struct {
					Name     string
					Comments []struct{ ID string }
				}
				Post struct {
					ID       string
					Comments []struct{ ID string }
				}
			}
		}
		c.MustPost(heredoc.Doc(`
			mutation {
				createComment(data: {text: "Great read", author: "3", post: "10"}) {
					id
					text
					author { name comments { id } }
					post { id comments { id } }
				}
			}
		`), &resp)

		comment := resp.CreateComment
		assert.Equal(t, "Great read", comment.Text)
		assert.Equal(t, "Hector", comment.Author.Name)
		assert.Equal(t, "10", comment.Post.ID)

		var postComments []string
		for _, pc := range comment.Post.Comments {
			postComments = append(postComments, pc.ID)
		}
		assert.Equal(t, []string{"102", "105", comment.ID}, postComments)

		var authorComments []string
		for _, ac := range comment.Author.Comments {
			authorComments = append(authorComments, ac.ID)
		}
		assert.Equal(t, []string{"104", comment.ID}, authorComments)
	})

	t.Run("Invalid argument type is rejected before execution", func(t *testing.T) {
		// ошибка валидации документа приходит с HTTP 422, клиент возвращает ее как error
		_, err := c.RawPost(`mutation { createUser(data: {name: "x"}) { id } }`)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "was not provided")
		assert.Equal(t, 4, resolver.UserStore.Count())
	})

	t.Run("Age outside Int range is a validation error", func(t *testing.T) {
		data, errs := rawPost(t, c, `mutation { createUser(data: {name: "Old", email: "old@email.com", age: 99999999999}) { id age } }`)
		assert.Equal(t, "null", data)
		require.Len(t, errs, 1)
		assert.Contains(t, errs[0].Message, "Age out of range")
		assert.Equal(t, []interface{}{"createUser"}, errs[0].Path)
		assert.Equal(t, "VALIDATION_ERROR", errs[0].Extensions["code"])
		assert.Equal(t, 4, resolver.UserStore.Count())
	})
}

func TestUnmarshalCreateUserInput_Age(t *testing.T) {
	tests := []struct {
		name    string
		age     interface{}
		want    *int
		wantErr error
	}{
		{name: "Missing age", age: nil},
		{name: "Regular age", age: int64(30), want: intPtr(30)},
		{name: "Upper bound", age: json.Number("2147483647"), want: intPtr(2147483647)},
		{name: "Lower bound", age: int64(-2147483648), want: intPtr(-2147483648)},
		{name: "Too large", age: int64(2147483648), wantErr: apperr.ErrAgeOutOfRange},
		{name: "Too small", age: json.Number("-99999999999"), wantErr: apperr.ErrAgeOutOfRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := map[string]interface{}{"name": "Zoe", "email": "zoe@email.com"}
			if tt.age != nil {
				in["age"] = tt.age
			}

			got, err := unmarshalCreateUserInput(in)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Age)
		})
	}
}

func TestExecutableSchema_Introspection(t *testing.T) {
	c, _, _ := newTestClient(t)

	t.Run("Schema lists the domain types", func(t *testing.T) {
		var resp struct {
			Schema struct {
				QueryType        struct{ Name string }
				MutationType     struct{ Name string }
				SubscriptionType struct{ Name string }
				Types            []struct {
					Name string
					Kind string
				}
			} `json:"__schema"`
		}
		c.MustPost(`{ __schema { queryType { name } mutationType { name } subscriptionType { name } types { name kind } } }`, &resp)

		assert.Equal(t, "Query", resp.Schema.QueryType.Name)
		assert.Equal(t, "Mutation", resp.Schema.MutationType.Name)
		assert.Equal(t, "Subscription", resp.Schema.SubscriptionType.Name)

		kinds := map[string]string{}
		for _, typ := range resp.Schema.Types {
			kinds[typ.Name] = typ.Kind
		}
		assert.Equal(t, "OBJECT", kinds["User"])
		assert.Equal(t, "OBJECT", kinds["Post"])
		assert.Equal(t, "OBJECT", kinds["Comment"])
		assert.Equal(t, "INPUT_OBJECT", kinds["CreateUserInput"])
		assert.Equal(t, "SCALAR", kinds["ID"])
		assert.Equal(t, "ENUM", kinds["__TypeKind"])
	})

	t.Run("Type reports wrapped field types", func(t *testing.T) {
		data, errs := rawPost(t, c, heredoc.Doc(`
			{
				__type(name: "Post") {
					name
					fields {
						name
						type { kind name ofType { kind name ofType { kind name } } }
					}
				}
			}
		`))
		require.Empty(t, errs)
		assert.Contains(t, data, `{"name":"author","type":{"kind":"NON_NULL","name":null,"ofType":{"kind":"OBJECT","name":"User","ofType":null}}}`)
		assert.Contains(t, data, `{"name":"comments","type":{"kind":"NON_NULL","name":null,"ofType":{"kind":"LIST","name":null,"ofType":{"kind":"NON_NULL","name":null}}}}`)
	})

	t.Run("Query fields hide meta fields", func(t *testing.T) {
		var resp struct {
			Type struct {
				Fields []struct{ Name string }
			} `json:"__type"`
		}
		c.MustPost(`{ __type(name: "Query") { fields { name } } }`, &resp)

		var names []string
		for _, f := range resp.Type.Fields {
			names = append(names, f.Name)
		}
		assert.Equal(t, []string{"users", "posts", "comments", "me", "post"}, names)
	})

	t.Run("Input fields and arguments", func(t *testing.T) {
		data, errs := rawPost(t, c, `{ __type(name: "CreateUserInput") { kind fields { name } inputFields { name defaultValue type { kind } } } }`)
		require.Empty(t, errs)
		assert.JSONEq(t, heredoc.Doc(`
			{"__type": {
				"kind": "INPUT_OBJECT",
				"fields": null,
				"inputFields": [
					{"name": "name", "defaultValue": null, "type": {"kind": "NON_NULL"}},
					{"name": "email", "defaultValue": null, "type": {"kind": "NON_NULL"}},
					{"name": "age", "defaultValue": null, "type": {"kind": "SCALAR"}}
				]
			}}
		`), data)
	})

	t.Run("Directives and their arguments", func(t *testing.T) {
		var resp struct {
			Schema struct {
				Directives []struct {
					Name         string
					Locations    []string
					IsRepeatable bool
					Args         []struct {
						Name string
						Type struct {
							Kind   string
							OfType struct{ Name string }
						}
					}
				}
			} `json:"__schema"`
		}
		c.MustPost(`{ __schema { directives { name locations isRepeatable args { name type { kind ofType { name } } } } } }`, &resp)

		var names []string
		for _, d := range resp.Schema.Directives {
			names = append(names, d.Name)
			if d.Name != "skip" {
				continue
			}
			assert.Equal(t, []string{"FIELD", "FRAGMENT_SPREAD", "INLINE_FRAGMENT"}, d.Locations)
			assert.False(t, d.IsRepeatable)
			require.Len(t, d.Args, 1)
			assert.Equal(t, "if", d.Args[0].Name)
			assert.Equal(t, "NON_NULL", d.Args[0].Type.Kind)
			assert.Equal(t, "Boolean", d.Args[0].Type.OfType.Name)
		}
		assert.Subset(t, names, []string{"deprecated", "include", "skip", "specifiedBy"})
	})

	t.Run("Field arguments and scalar details", func(t *testing.T) {
		data, errs := rawPost(t, c, heredoc.Doc(`
			{
				__type(name: "Subscription") {
					fields { name isDeprecated deprecationReason args { name type { kind ofType { name } } } }
					interfaces { name }
					enumValues { name }
				}
				string: __type(name: "String") { kind specifiedByURL fields { name } }
			}
		`))
		require.Empty(t, errs)
		assert.JSONEq(t, heredoc.Doc(`
			{
				"__type": {
					"fields": [{
						"name": "commentAdded",
						"isDeprecated": false,
						"deprecationReason": null,
						"args": [{"name": "postId", "type": {"kind": "NON_NULL", "ofType": {"name": "ID"}}}]
					}],
					"interfaces": [],
					"enumValues": null
				},
				"string": {"kind": "SCALAR", "specifiedByURL": null, "fields": null}
			}
		`), data)
	})

	t.Run("Unknown type is null", func(t *testing.T) {
		data, errs := rawPost(t, c, `{ __type(name: "Nope") { name } }`)
		assert.Empty(t, errs)
		assert.JSONEq(t, `{"__type": null}`, data)
	})
}

func TestExecutableSchema_Subscription(t *testing.T) {
	c, _, subscriptionManager := newTestClient(t)

	sub := c.Websocket(`subscription { commentAdded(postId: "12") { id text author { name } } }`)
	defer sub.Close()

	require.Eventually(t, func() bool {
		return subscriptionManager.Subscribers("12") == 1
	}, time.Second, 10*time.Millisecond)

	var created struct {
		CreateComment struct{ ID string }
	}
	c.MustPost(`mutation { createComment(data: {text: "Live", author: "1", post: "12"}) { id } }`, &created)
	require.NotEmpty(t, created.CreateComment.ID)

	var resp struct {
		CommentAdded struct {
			ID     string
			Text   string
			Author struct{ Name string }
		}
	}
	require.NoError(t, sub.Next(&resp))
	assert.Equal(t, created.CreateComment.ID, resp.CommentAdded.ID)
	assert.Equal(t, "Live", resp.CommentAdded.Text)
	assert.Equal(t, "Carla", resp.CommentAdded.Author.Name)
}
