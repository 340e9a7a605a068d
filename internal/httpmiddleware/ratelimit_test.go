package httpmiddleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestSimpleTokenBucketExhausts(t *testing.T) {
	l := NewSimpleTokenBucket(3, 3)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		assert.True(t, l.Allow(ctx, "1.2.3.4"), "request %d within capacity", i)
	}
	assert.False(t, l.Allow(ctx, "1.2.3.4"), "capacity exhausted")
	assert.True(t, l.Allow(ctx, "5.6.7.8"), "limits are per key")
}

func TestRateLimitMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RateLimit(NewSimpleTokenBucket(1, 1)))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	first := httptest.NewRecorder()
	r.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, first.Code)

	second := httptest.NewRecorder()
	r.ServeHTTP(second, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
}
