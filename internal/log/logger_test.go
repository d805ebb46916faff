package log

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-logr/logr"
	"github.com/go-logr/logr/testr"
	"github.com/stretchr/testify/assert"
)

func TestFromContext(t *testing.T) {
	t.Run("Returns discard logger when context is empty", func(t *testing.T) {
		logger := FromContext(context.Background())
		assert.Nil(t, logger.GetSink())
	})

	t.Run("Returns stored logger", func(t *testing.T) {
		logger := testr.New(t)
		ctx := WithLogger(context.Background(), logger)

		assert.NotNil(t, FromContext(ctx).GetSink())
	})
}

func TestMiddleware(t *testing.T) {
	var got logr.Logger
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = FromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})

	rec := httptest.NewRecorder()
	Middleware(testr.New(t), next).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/query", nil))

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.NotNil(t, got.GetSink())
}
