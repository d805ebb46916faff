package graph

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"io"

	"github.com/99designs/gqlgen/graphql"
	"github.com/vektah/gqlparser/v2"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/gqlerror"

	"github.com/VitaminP8/graphql-basics/graph/model"
)

//go:embed schema.graphqls
var sourceSchema string

var parsedSchema = gqlparser.MustLoadSchema(&ast.Source{
	Name:    "schema.graphqls",
	Input:   sourceSchema,
	BuiltIn: false,
})

var _ graphql.ExecutableSchema = (*executableSchema)(nil)

type Config struct {
	Resolvers ResolverRoot
}

type ResolverRoot interface {
	Comment() CommentResolver
	Mutation() MutationResolver
	Post() PostResolver
	Query() QueryResolver
	Subscription() SubscriptionResolver
	User() UserResolver
}

type CommentResolver interface {
	Author(ctx context.Context, obj *model.Comment) (*model.User, error)
	Post(ctx context.Context, obj *model.Comment) (*model.Post, error)
}

type MutationResolver interface {
	CreateUser(ctx context.Context, data model.CreateUserInput) (*model.User, error)
	CreatePost(ctx context.Context, post model.CreatePostInput) (*model.Post, error)
	CreateComment(ctx context.Context, data model.CreateCommentInput) (*model.Comment, error)
}

type PostResolver interface {
	Author(ctx context.Context, obj *model.Post) (*model.User, error)
	Comments(ctx context.Context, obj *model.Post) ([]*model.Comment, error)
}

type QueryResolver interface {
	Users(ctx context.Context, query *string) ([]*model.User, error)
	Posts(ctx context.Context, query *string) ([]*model.Post, error)
	Comments(ctx context.Context) ([]*model.Comment, error)
	Me(ctx context.Context) (*model.User, error)
	Post(ctx context.Context) (*model.Post, error)
}

type SubscriptionResolver interface {
	CommentAdded(ctx context.Context, postID string) (<-chan *model.Comment, error)
}

type UserResolver interface {
	Posts(ctx context.Context, obj *model.User) ([]*model.Post, error)
	Comments(ctx context.Context, obj *model.User) ([]*model.Comment, error)
}

// NewExecutableSchema связывает SDL из schema.graphqls с резолверами.
// Результат подходит для handler.NewDefaultServer и executor.New.
func NewExecutableSchema(cfg Config) graphql.ExecutableSchema {
	return &executableSchema{
		resolvers: cfg.Resolvers,
		schema:    parsedSchema,
	}
}

type executableSchema struct {
	resolvers ResolverRoot
	schema    *ast.Schema
}

func (e *executableSchema) Schema() *ast.Schema {
	return e.schema
}

func (e *executableSchema) Complexity(typeName, fieldName string, childComplexity int, args map[string]interface{}) (int, bool) {
	return 0, false
}

func (e *executableSchema) Exec(ctx context.Context) graphql.ResponseHandler {
	oc := graphql.GetOperationContext(ctx)
	ec := &executionContext{
		OperationContext: oc,
		resolvers:        e.resolvers,
		schema:           e.schema,
	}

	switch oc.Operation.Operation {
	case ast.Query, ast.Mutation:
		root := ec._Query
		if oc.Operation.Operation == ast.Mutation {
			root = ec._Mutation
		}

		first := true
		return func(ctx context.Context) *graphql.Response {
			if !first {
				return nil
			}
			first = false

			data := root(ctx, oc.Operation.SelectionSet)
			var buf bytes.Buffer
			data.MarshalGQL(&buf)

			return &graphql.Response{Data: buf.Bytes()}
		}

	case ast.Subscription:
		next := ec._Subscription(ctx, oc.Operation.SelectionSet)
		if next == nil {
			return graphql.OneShot(&graphql.Response{Data: []byte("null")})
		}

		return func(ctx context.Context) *graphql.Response {
			ec.errPaths = nil

			data := next(ctx)
			if data == nil {
				return nil
			}
			var buf bytes.Buffer
			data.MarshalGQL(&buf)

			return &graphql.Response{Data: buf.Bytes()}
		}

	default:
		return graphql.OneShot(graphql.ErrorResponse(ctx, "unsupported GraphQL operation"))
	}
}

// executionContext обходит selection set одной операции.
// Поля выполняются последовательно в порядке документа, поэтому мутации сериализованы.
type executionContext struct {
	*graphql.OperationContext

	resolvers ResolverRoot
	schema    *ast.Schema

	// пути, по которым уже записаны ошибки, чтобы не дублировать "must not be null"
	errPaths []ast.Path
}

type fieldFunc func(ctx context.Context, field graphql.CollectedField, path ast.Path) graphql.Marshaler

// object собирает значение объектного типа; null в non-null поле обнуляет весь объект
func (ec *executionContext) object(ctx context.Context, path ast.Path, typeName string, sel ast.SelectionSet, resolve fieldFunc) graphql.Marshaler {
	fields := graphql.CollectFields(ec.OperationContext, sel, []string{typeName})

	out := &resultObject{}
	invalid := false
	for _, field := range fields {
		fieldPath := appendPath(path, ast.PathName(field.Alias))

		var value graphql.Marshaler
		if field.Name == "__typename" {
			value = graphql.MarshalString(typeName)
		} else {
			value = ec.resolveSafely(ctx, field, fieldPath, resolve)
		}

		if value == graphql.Null && isNonNull(field.Definition) {
			ec.nullViolation(ctx, fieldPath, field)
			invalid = true
		}
		out.add(field.Alias, value)
	}

	if invalid {
		return graphql.Null
	}
	return out
}

func (ec *executionContext) resolveSafely(ctx context.Context, field graphql.CollectedField, path ast.Path, resolve fieldFunc) (ret graphql.Marshaler) {
	defer func() {
		if r := recover(); r != nil {
			ec.addError(ctx, path, field, graphql.DefaultRecover(ctx, r))
			ret = graphql.Null
		}
	}()

	return resolve(ctx, field, path)
}

// list собирает список; null в элементе non-null списка обнуляет весь список
func (ec *executionContext) list(ctx context.Context, path ast.Path, field graphql.CollectedField, n int, item func(ctx context.Context, i int, path ast.Path) graphql.Marshaler) graphql.Marshaler {
	itemNonNull := field.Definition != nil && field.Definition.Type != nil && isNonNullType(field.Definition.Type.Elem)

	out := make(graphql.Array, n)
	for i := 0; i < n; i++ {
		itemPath := appendPath(path, ast.PathIndex(i))
		value := item(ctx, i, itemPath)
		if value == graphql.Null && itemNonNull {
			ec.nullViolation(ctx, itemPath, field)
			return graphql.Null
		}
		out[i] = value
	}
	return out
}

func (ec *executionContext) addError(ctx context.Context, path ast.Path, field graphql.CollectedField, err error) {
	gqlErr := &gqlerror.Error{
		Err:     err,
		Message: err.Error(),
	}
	var existing *gqlerror.Error
	if errors.As(err, &existing) {
		copied := *existing
		gqlErr = &copied
	}
	if gqlErr.Path == nil {
		gqlErr.Path = path
	}
	if len(gqlErr.Locations) == 0 && field.Field != nil && field.Position != nil {
		gqlErr.Locations = []gqlerror.Location{{
			Line:   field.Position.Line,
			Column: field.Position.Column,
		}}
	}

	ec.errPaths = append(ec.errPaths, path)
	graphql.AddError(ctx, gqlErr)
}

func (ec *executionContext) nullViolation(ctx context.Context, path ast.Path, field graphql.CollectedField) {
	for _, p := range ec.errPaths {
		if hasPathPrefix(p, path) {
			return
		}
	}
	ec.addError(ctx, path, field, errors.New("must not be null"))
}

func (ec *executionContext) unknownField(ctx context.Context, path ast.Path, field graphql.CollectedField) graphql.Marshaler {
	ec.addError(ctx, path, field, gqlerror.Errorf("unknown field %q", field.Name))
	return graphql.Null
}

func isNonNull(def *ast.FieldDefinition) bool {
	return def != nil && isNonNullType(def.Type)
}

func isNonNullType(t *ast.Type) bool {
	return t != nil && t.NonNull
}

func appendPath(path ast.Path, elem ast.PathElement) ast.Path {
	out := make(ast.Path, len(path), len(path)+1)
	copy(out, path)
	return append(out, elem)
}

func hasPathPrefix(path, prefix ast.Path) bool {
	if len(path) < len(prefix) {
		return false
	}
	for i := range prefix {
		if path[i] != prefix[i] {
			return false
		}
	}
	return true
}

// resultObject JSON-объект с сохранением порядка полей из запроса
type resultObject struct {
	keys   []string
	values []graphql.Marshaler
}

func (o *resultObject) add(key string, value graphql.Marshaler) {
	o.keys = append(o.keys, key)
	o.values = append(o.values, value)
}

func (o *resultObject) MarshalGQL(w io.Writer) {
	io.WriteString(w, "{")
	for i, key := range o.keys {
		if i != 0 {
			io.WriteString(w, ",")
		}
		graphql.MarshalString(key).MarshalGQL(w)
		io.WriteString(w, ":")
		o.values[i].MarshalGQL(w)
	}
	io.WriteString(w, "}")
}
