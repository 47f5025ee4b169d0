package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type memoryLimiterStore struct {
	counts map[string]int64
	err    error
}

func (s *memoryLimiterStore) IncrWithTTL(_ context.Context, key string, _ time.Duration) (int64, error) {
	if s.err != nil {
		return 0, s.err
	}
	if s.counts == nil {
		s.counts = map[string]int64{}
	}
	s.counts[key]++
	return s.counts[key], nil
}

func TestRateLimit(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	t.Run("allows under the limit then blocks", func(t *testing.T) {
		store := &memoryLimiterStore{}
		policy := NewRateLimitPolicy("login", time.Minute, 2)
		handler := RateLimit(policy, store, nil)(next)

		for i := 0; i < 2; i++ {
			req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", nil)
			req.RemoteAddr = "198.51.100.9:4411"
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			assert.Equal(t, http.StatusOK, rec.Code)
		}

		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", nil)
		req.RemoteAddr = "198.51.100.9:4411"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	})

	t.Run("counts per client ip", func(t *testing.T) {
		store := &memoryLimiterStore{}
		policy := NewRateLimitPolicy("login", time.Minute, 1)
		handler := RateLimit(policy, store, nil)(next)

		first := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", nil)
		first.RemoteAddr = "198.51.100.1:1000"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, first)
		assert.Equal(t, http.StatusOK, rec.Code)

		second := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", nil)
		second.RemoteAddr = "198.51.100.2:1000"
		rec = httptest.NewRecorder()
		handler.ServeHTTP(rec, second)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("honours forwarded-for header", func(t *testing.T) {
		store := &memoryLimiterStore{}
		policy := NewRateLimitPolicy("login", time.Minute, 1)
		handler := RateLimit(policy, store, nil)(next)

		for i, want := range []int{http.StatusOK, http.StatusTooManyRequests} {
			req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", nil)
			req.RemoteAddr = "10.0.0.1:1000"
			req.Header.Set("X-Forwarded-For", "203.0.113.50, 10.0.0.1")
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			assert.Equal(t, want, rec.Code, "request %d", i)
		}
	})

	t.Run("disabled policy passes everything through", func(t *testing.T) {
		handler := RateLimit(NewRateLimitPolicy("login", 0, 0), &memoryLimiterStore{}, nil)(next)
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}
