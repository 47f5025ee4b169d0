package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgauth "github.com/modastore/storefront-backend/pkg/auth"
	"github.com/modastore/storefront-backend/pkg/config"
)

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "unit-test-secret",
		Issuer:            "storefront-test",
		ExpirationMinutes: 15,
	}
}

func mintToken(t *testing.T, cfg config.JWTConfig, userID uuid.UUID, isStaff bool) string {
	t.Helper()
	token, err := pkgauth.MintAccessToken(cfg, time.Now(), pkgauth.AccessTokenPayload{
		UserID:  userID,
		Email:   "shopper@example.com",
		IsStaff: isStaff,
	})
	require.NoError(t, err)
	return token
}

func TestAuthMiddleware(t *testing.T) {
	cfg := testJWTConfig()
	userID := uuid.New()

	handler := func(gotUserID *string, gotStaff *bool) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			*gotUserID = UserIDFromContext(r.Context())
			*gotStaff = IsStaffFromContext(r.Context())
			w.WriteHeader(http.StatusOK)
		})
	}

	t.Run("valid token seeds context", func(t *testing.T) {
		var gotUserID string
		var gotStaff bool
		req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
		req.Header.Set("Authorization", "Bearer "+mintToken(t, cfg, userID, true))
		rec := httptest.NewRecorder()

		Auth(cfg, nil)(handler(&gotUserID, &gotStaff)).ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, userID.String(), gotUserID)
		assert.True(t, gotStaff)
	})

	t.Run("missing header rejected", func(t *testing.T) {
		var gotUserID string
		var gotStaff bool
		req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
		rec := httptest.NewRecorder()

		Auth(cfg, nil)(handler(&gotUserID, &gotStaff)).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("garbage token rejected", func(t *testing.T) {
		var gotUserID string
		var gotStaff bool
		req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
		req.Header.Set("Authorization", "Bearer not-a-jwt")
		rec := httptest.NewRecorder()

		Auth(cfg, nil)(handler(&gotUserID, &gotStaff)).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("token signed with another secret rejected", func(t *testing.T) {
		other := cfg
		other.Secret = "other-secret"
		var gotUserID string
		var gotStaff bool
		req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
		req.Header.Set("Authorization", "Bearer "+mintToken(t, other, userID, false))
		rec := httptest.NewRecorder()

		Auth(cfg, nil)(handler(&gotUserID, &gotStaff)).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestRequireStaff(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	t.Run("staff passes", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/categories", nil)
		req = req.WithContext(WithIsStaff(req.Context(), true))
		rec := httptest.NewRecorder()

		RequireStaff(nil)(next).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("non-staff forbidden", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/categories", nil)
		req = req.WithContext(WithUserID(req.Context(), uuid.NewString()))
		rec := httptest.NewRecorder()

		RequireStaff(nil)(next).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}
