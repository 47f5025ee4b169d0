package middleware

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/modastore/storefront-backend/pkg/logger"
	"github.com/modastore/storefront-backend/pkg/redis"
)

type cacheStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	CacheKey(parts ...string) string
}

type cacheRecorder struct {
	http.ResponseWriter
	status int
	body   bytes.Buffer
}

func (r *cacheRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *cacheRecorder) Write(p []byte) (int, error) {
	r.body.Write(p)
	return r.ResponseWriter.Write(p)
}

// ResponseCache serves GET responses from Redis for the supplied TTL. Keys are
// scoped per authenticated user so shared shelves and private payloads never
// collide.
func ResponseCache(scope string, store cacheStore, ttl time.Duration, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if store == nil || ttl <= 0 {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet {
				next.ServeHTTP(w, r)
				return
			}

			ctx := r.Context()
			key := store.CacheKey(scope, cacheKeySuffix(r))

			if cached, err := store.Get(ctx, key); err == nil {
				w.Header().Set("Content-Type", "application/json")
				w.Header().Set("X-Cache", "HIT")
				w.WriteHeader(http.StatusOK)
				_, _ = w.Write([]byte(cached))
				return
			} else if !errors.Is(err, redis.ErrCacheMiss) && logg != nil {
				logCtx := logg.WithField(ctx, "cache_key", key)
				logg.Warn(logCtx, "response_cache.read_failed")
			}

			rec := &cacheRecorder{ResponseWriter: w}
			w.Header().Set("X-Cache", "MISS")
			next.ServeHTTP(rec, r)

			if rec.status == 0 {
				rec.status = http.StatusOK
			}
			if rec.status == http.StatusOK && rec.body.Len() > 0 {
				if err := store.Set(ctx, key, rec.body.String(), ttl); err != nil && logg != nil {
					logCtx := logg.WithField(ctx, "cache_key", key)
					logg.Warn(logCtx, "response_cache.write_failed")
				}
			}
		})
	}
}

func cacheKeySuffix(r *http.Request) string {
	parts := []string{r.URL.Path}

	query := r.URL.Query()
	keys := make([]string, 0, len(query))
	for k := range query {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		parts = append(parts, k+"="+strings.Join(query[k], ","))
	}

	if userID := UserIDFromContext(r.Context()); userID != "" {
		parts = append(parts, "u:"+userID)
	}
	return strings.Join(parts, "|")
}
