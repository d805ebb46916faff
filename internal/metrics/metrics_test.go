package metrics

import (
	"context"
	"testing"

	"github.com/99designs/gqlgen/graphql"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/gqlerror"
)

type fixedCounter int

func (c fixedCounter) Count() int { return int(c) }

func operationContext(op ast.Operation) context.Context {
	return graphql.WithOperationContext(context.Background(), &graphql.OperationContext{
		Operation: &ast.OperationDefinition{Operation: op},
	})
}

func TestMetrics_InterceptResponse(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	ok := func(ctx context.Context) *graphql.Response {
		return &graphql.Response{Data: []byte(`{}`)}
	}
	failed := func(ctx context.Context) *graphql.Response {
		return &graphql.Response{Errors: gqlerror.List{gqlerror.Errorf("Email taken")}}
	}

	m.InterceptResponse(operationContext(ast.Query), ok)
	m.InterceptResponse(operationContext(ast.Query), ok)
	m.InterceptResponse(operationContext(ast.Mutation), failed)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.operations.WithLabelValues("query", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.operations.WithLabelValues("mutation", "error")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.operations.WithLabelValues("mutation", "ok")))

	t.Run("End of stream is not counted", func(t *testing.T) {
		resp := m.InterceptResponse(operationContext(ast.Subscription), func(ctx context.Context) *graphql.Response {
			return nil
		})
		assert.Nil(t, resp)
		assert.Equal(t, 0.0, testutil.ToFloat64(m.operations.WithLabelValues("subscription", "ok")))
	})
}

func TestRegisterStoreGauges(t *testing.T) {
	reg := prometheus.NewRegistry()
	RegisterStoreGauges(reg, map[string]Counter{
		"users":    fixedCounter(3),
		"posts":    fixedCounter(3),
		"comments": fixedCounter(4),
	})

	count, err := testutil.GatherAndCount(reg, "graphql_basics_store_records")
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}
