package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	authsvc "github.com/modastore/storefront-backend/internal/auth"
	usersvc "github.com/modastore/storefront-backend/internal/users"
	pkgerrors "github.com/modastore/storefront-backend/pkg/errors"
)

type stubAuthService struct {
	registerErr error
	loginErr    error
	lastReg     authsvc.RegisterRequest
	lastLogin   authsvc.LoginRequest
}

func (s *stubAuthService) Register(_ context.Context, req authsvc.RegisterRequest) (*usersvc.UserDTO, error) {
	s.lastReg = req
	if s.registerErr != nil {
		return nil, s.registerErr
	}
	return &usersvc.UserDTO{ID: uuid.New(), Email: req.Email, Username: req.Username}, nil
}

func (s *stubAuthService) Login(_ context.Context, req authsvc.LoginRequest) (*authsvc.LoginResponse, error) {
	s.lastLogin = req
	if s.loginErr != nil {
		return nil, s.loginErr
	}
	return &authsvc.LoginResponse{AccessToken: "token"}, nil
}

func TestAuthRegister(t *testing.T) {
	t.Run("creates the account", func(t *testing.T) {
		stub := &stubAuthService{}
		body := `{"email":"shopper@example.com","username":"shopper","password":"s3cret-pass"}`
		rec := httptest.NewRecorder()
		AuthRegister(stub, nil).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", strings.NewReader(body)))

		require.Equal(t, http.StatusCreated, rec.Code)
		assert.Equal(t, "shopper@example.com", stub.lastReg.Email)
	})

	t.Run("short password rejected before the service runs", func(t *testing.T) {
		stub := &stubAuthService{}
		body := `{"email":"shopper@example.com","username":"shopper","password":"short"}`
		rec := httptest.NewRecorder()
		AuthRegister(stub, nil).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", strings.NewReader(body)))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Empty(t, stub.lastReg.Email)
	})

	t.Run("duplicate email conflict", func(t *testing.T) {
		stub := &stubAuthService{registerErr: pkgerrors.New(pkgerrors.CodeConflict, "email or username already in use")}
		body := `{"email":"shopper@example.com","username":"shopper","password":"s3cret-pass"}`
		rec := httptest.NewRecorder()
		AuthRegister(stub, nil).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", strings.NewReader(body)))

		assert.Equal(t, http.StatusConflict, rec.Code)
	})
}

func TestAuthLogin(t *testing.T) {
	t.Run("captures the client ip", func(t *testing.T) {
		stub := &stubAuthService{}
		body := `{"email":"shopper@example.com","password":"s3cret-pass"}`
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(body))
		req.Header.Set("X-Forwarded-For", "203.0.113.7")
		rec := httptest.NewRecorder()
		AuthLogin(stub, nil).ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		require.NotNil(t, stub.lastLogin.IPAddress)
		assert.Equal(t, "203.0.113.7", *stub.lastLogin.IPAddress)
	})

	t.Run("bad credentials stay unauthorized", func(t *testing.T) {
		stub := &stubAuthService{loginErr: pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")}
		body := `{"email":"shopper@example.com","password":"wrong-pass"}`
		rec := httptest.NewRecorder()
		AuthLogin(stub, nil).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(body)))

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("missing email rejected", func(t *testing.T) {
		stub := &stubAuthService{}
		rec := httptest.NewRecorder()
		AuthLogin(stub, nil).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(`{"password":"s3cret-pass"}`)))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
