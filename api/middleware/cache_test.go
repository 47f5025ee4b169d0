package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/modastore/storefront-backend/pkg/redis"
)

type memoryCacheStore struct {
	values map[string]string
}

func (s *memoryCacheStore) Get(_ context.Context, key string) (string, error) {
	if v, ok := s.values[key]; ok {
		return v, nil
	}
	return "", redis.ErrCacheMiss
}

func (s *memoryCacheStore) Set(_ context.Context, key string, value any, _ time.Duration) error {
	if s.values == nil {
		s.values = map[string]string{}
	}
	s.values[key] = value.(string)
	return nil
}

func (s *memoryCacheStore) CacheKey(parts ...string) string {
	return "cache:" + strings.Join(parts, ":")
}

func TestResponseCache(t *testing.T) {
	t.Run("second hit served from cache", func(t *testing.T) {
		store := &memoryCacheStore{}
		calls := 0
		handler := ResponseCache("catalog", store, time.Minute, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls++
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"data":{"items":[]}}`))
		}))

		first := httptest.NewRecorder()
		handler.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/api/v1/products", nil))
		require.Equal(t, http.StatusOK, first.Code)
		assert.Equal(t, "MISS", first.Header().Get("X-Cache"))

		second := httptest.NewRecorder()
		handler.ServeHTTP(second, httptest.NewRequest(http.MethodGet, "/api/v1/products", nil))
		require.Equal(t, http.StatusOK, second.Code)
		assert.Equal(t, "HIT", second.Header().Get("X-Cache"))
		assert.Equal(t, first.Body.String(), second.Body.String())
		assert.Equal(t, 1, calls)
	})

	t.Run("query string is part of the key", func(t *testing.T) {
		store := &memoryCacheStore{}
		handler := ResponseCache("catalog", store, time.Minute, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(r.URL.RawQuery))
		}))

		pageOne := httptest.NewRecorder()
		handler.ServeHTTP(pageOne, httptest.NewRequest(http.MethodGet, "/api/v1/products?page=1", nil))
		pageTwo := httptest.NewRecorder()
		handler.ServeHTTP(pageTwo, httptest.NewRequest(http.MethodGet, "/api/v1/products?page=2", nil))

		assert.NotEqual(t, pageOne.Body.String(), pageTwo.Body.String())
	})

	t.Run("user scope separates private payloads", func(t *testing.T) {
		store := &memoryCacheStore{}
		handler := ResponseCache("cart", store, time.Minute, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("cart-for-" + UserIDFromContext(r.Context())))
		}))

		reqA := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
		reqA = reqA.WithContext(WithUserID(reqA.Context(), "user-a"))
		recA := httptest.NewRecorder()
		handler.ServeHTTP(recA, reqA)

		reqB := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
		reqB = reqB.WithContext(WithUserID(reqB.Context(), "user-b"))
		recB := httptest.NewRecorder()
		handler.ServeHTTP(recB, reqB)

		assert.Equal(t, "cart-for-user-a", recA.Body.String())
		assert.Equal(t, "cart-for-user-b", recB.Body.String())
	})

	t.Run("errors are not cached", func(t *testing.T) {
		store := &memoryCacheStore{}
		status := http.StatusServiceUnavailable
		handler := ResponseCache("catalog", store, time.Minute, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
			w.Write([]byte("boom"))
		}))

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/products", nil))
		require.Equal(t, http.StatusServiceUnavailable, rec.Code)

		status = http.StatusOK
		recovered := httptest.NewRecorder()
		handler.ServeHTTP(recovered, httptest.NewRequest(http.MethodGet, "/api/v1/products", nil))
		assert.Equal(t, "MISS", recovered.Header().Get("X-Cache"))
	})

	t.Run("non-GET bypasses cache", func(t *testing.T) {
		store := &memoryCacheStore{}
		calls := 0
		handler := ResponseCache("cart", store, time.Minute, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls++
			w.WriteHeader(http.StatusOK)
		}))

		for i := 0; i < 2; i++ {
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/cart/add_item", nil))
			require.Equal(t, http.StatusOK, rec.Code)
		}
		assert.Equal(t, 2, calls)
	})
}
