package graph

import (
	"context"

	"github.com/99designs/gqlgen/graphql"
	"github.com/vektah/gqlparser/v2/gqlerror"

	"github.com/VitaminP8/graphql-basics/internal/apperr"
)

// ErrorPresenter дополняет ошибки предметной области кодом в extensions.code,
// остальные ошибки отдаются как есть.
func ErrorPresenter(ctx context.Context, err error) *gqlerror.Error {
	gqlErr := graphql.DefaultErrorPresenter(ctx, err)

	kind := apperr.KindOf(err)
	if kind == apperr.KindUnknown {
		return gqlErr
	}

	if gqlErr.Extensions == nil {
		gqlErr.Extensions = map[string]interface{}{}
	}
	gqlErr.Extensions["code"] = kind.Code()
	return gqlErr
}
