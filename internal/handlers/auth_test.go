package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"TASKDECK_BACK-END/internal/config"
	"TASKDECK_BACK-END/internal/dto"
	"TASKDECK_BACK-END/internal/middleware"
	"TASKDECK_BACK-END/internal/models"
	"TASKDECK_BACK-END/internal/store"
)

func testConfig() *config.Config {
	return &config.Config{
		JWT: config.JWTConfig{
			Secret:         "test-secret",
			AccessTokenTTL: 24 * time.Hour,
			ResetTokenTTL:  10 * time.Minute,
		},
	}
}

func TestRegister_Success(t *testing.T) {
	usersMock := new(userStoreMock)
	usersMock.On("CreateUser", mock.Anything, "alice@example.com", mock.AnythingOfType("string")).Return(
		models.User{ID: 1, Email: "alice@example.com", CreatedAt: time.Now(), UpdatedAt: time.Now()},
		nil,
	).Once()
	handler := NewAuthHandler(usersMock, testConfig())

	req := httptest.NewRequest(http.MethodPost, "/api/auth/register",
		strings.NewReader(`{"email":"alice@example.com","password":"secret123"}`))
	rec := httptest.NewRecorder()

	handler.Register(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)

	var got dto.RegisterResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Equal(t, int64(1), got.ID)
	require.Equal(t, "alice@example.com", got.Email)

	// No token on registration.
	var raw map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &raw))
	require.NotContains(t, raw, "token")

	// The stored value must be a bcrypt hash, never the plaintext.
	storedHash := usersMock.Calls[0].Arguments.String(2)
	require.NotEqual(t, "secret123", storedHash)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(storedHash), []byte("secret123")))
	usersMock.AssertExpectations(t)
}

func TestRegister_MissingFields(t *testing.T) {
	handler := NewAuthHandler(new(userStoreMock), testConfig())

	req := httptest.NewRequest(http.MethodPost, "/api/auth/register",
		strings.NewReader(`{"email":"alice@example.com"}`))
	rec := httptest.NewRecorder()

	handler.Register(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	usersMock := new(userStoreMock)
	usersMock.On("CreateUser", mock.Anything, "alice@example.com", mock.AnythingOfType("string")).Return(
		models.User{}, store.ErrDuplicateEmail,
	).Once()
	handler := NewAuthHandler(usersMock, testConfig())

	req := httptest.NewRequest(http.MethodPost, "/api/auth/register",
		strings.NewReader(`{"email":"alice@example.com","password":"secret123"}`))
	rec := httptest.NewRecorder()

	handler.Register(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	usersMock.AssertExpectations(t)
}

func TestLogin_Success(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.DefaultCost)
	require.NoError(t, err)

	usersMock := new(userStoreMock)
	usersMock.On("GetUserByEmail", mock.Anything, "alice@example.com").Return(
		models.User{ID: 1, Email: "alice@example.com", PasswordHash: string(hash)},
		nil,
	).Once()
	cfg := testConfig()
	handler := NewAuthHandler(usersMock, cfg)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login",
		strings.NewReader(`{"email":"alice@example.com","password":"secret123"}`))
	rec := httptest.NewRecorder()

	handler.Login(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var got dto.LoginResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Equal(t, "alice@example.com", got.Email)

	claims, err := middleware.ValidateToken(got.Token, &cfg.JWT)
	require.NoError(t, err)
	require.Equal(t, int64(1), claims.UserID)
	require.Equal(t, "alice@example.com", claims.Email)
	usersMock.AssertExpectations(t)
}

func TestLogin_WrongPasswordAndUnknownEmailAnswerTheSame(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.DefaultCost)
	require.NoError(t, err)

	usersMock := new(userStoreMock)
	usersMock.On("GetUserByEmail", mock.Anything, "alice@example.com").Return(
		models.User{ID: 1, Email: "alice@example.com", PasswordHash: string(hash)},
		nil,
	).Once()
	usersMock.On("GetUserByEmail", mock.Anything, "nobody@example.com").Return(
		models.User{}, store.ErrNotFound,
	).Once()
	handler := NewAuthHandler(usersMock, testConfig())

	wrongPassword := httptest.NewRecorder()
	handler.Login(wrongPassword, httptest.NewRequest(http.MethodPost, "/api/auth/login",
		strings.NewReader(`{"email":"alice@example.com","password":"wrong"}`)))

	unknownEmail := httptest.NewRecorder()
	handler.Login(unknownEmail, httptest.NewRequest(http.MethodPost, "/api/auth/login",
		strings.NewReader(`{"email":"nobody@example.com","password":"secret123"}`)))

	require.Equal(t, http.StatusUnauthorized, wrongPassword.Code)
	require.Equal(t, http.StatusUnauthorized, unknownEmail.Code)
	// The response must not reveal which of the two failed.
	require.JSONEq(t, wrongPassword.Body.String(), unknownEmail.Body.String())
	usersMock.AssertExpectations(t)
}

func TestLogin_MissingFields(t *testing.T) {
	handler := NewAuthHandler(new(userStoreMock), testConfig())

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login",
		strings.NewReader(`{"email":"alice@example.com"}`))
	rec := httptest.NewRecorder()

	handler.Login(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetProfile_Success(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	usersMock := new(userStoreMock)
	usersMock.On("GetUserByID", mock.Anything, int64(1)).Return(
		models.User{ID: 1, Email: "alice@example.com", CreatedAt: now, UpdatedAt: now},
		nil,
	).Once()
	handler := NewAuthHandler(usersMock, testConfig())

	req := authedRequest(http.MethodGet, "/api/auth/profile", "", 1, "alice@example.com")
	rec := httptest.NewRecorder()

	handler.GetProfile(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var got dto.UserResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Equal(t, int64(1), got.ID)
	require.Equal(t, "alice@example.com", got.Email)
	require.Equal(t, "2026-03-01T12:00:00Z", got.CreatedAt)
	usersMock.AssertExpectations(t)
}
