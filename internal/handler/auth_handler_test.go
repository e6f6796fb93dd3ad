package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/xxxsen/mauth/internal/middleware"
	"github.com/xxxsen/mauth/internal/model"
	appErr "github.com/xxxsen/mauth/internal/pkg/errors"
	"github.com/xxxsen/mauth/internal/service"
)

type fakeStore struct {
	users map[string]*model.User
}

func newFakeStore() *fakeStore {
	return &fakeStore{users: make(map[string]*model.User)}
}

func (m *fakeStore) Create(_ context.Context, user *model.User) error {
	for _, u := range m.users {
		if u.Email == user.Email {
			return appErr.ErrConflict
		}
	}
	cp := *user
	m.users[user.ID] = &cp
	return nil
}

func (m *fakeStore) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, appErr.ErrNotFound
}

func (m *fakeStore) GetByID(_ context.Context, userID string) (*model.User, error) {
	u, ok := m.users[userID]
	if !ok {
		return nil, appErr.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *fakeStore) SetVerifyOTP(_ context.Context, userID, code string, expiresAt, mtime int64) error {
	u, ok := m.users[userID]
	if !ok {
		return appErr.ErrNotFound
	}
	u.VerifyOTP, u.VerifyOTPExpiresAt, u.Mtime = code, expiresAt, mtime
	return nil
}

func (m *fakeStore) MarkVerified(_ context.Context, userID string, mtime int64) error {
	u, ok := m.users[userID]
	if !ok {
		return appErr.ErrNotFound
	}
	u.IsVerified, u.VerifyOTP, u.VerifyOTPExpiresAt, u.Mtime = true, "", 0, mtime
	return nil
}

func (m *fakeStore) SetResetOTP(_ context.Context, userID, code string, expiresAt, mtime int64) error {
	u, ok := m.users[userID]
	if !ok {
		return appErr.ErrNotFound
	}
	u.ResetOTP, u.ResetOTPExpiresAt, u.Mtime = code, expiresAt, mtime
	return nil
}

func (m *fakeStore) UpdatePassword(_ context.Context, userID, passwordHash string, mtime int64) error {
	u, ok := m.users[userID]
	if !ok {
		return appErr.ErrNotFound
	}
	u.PasswordHash, u.ResetOTP, u.ResetOTPExpiresAt, u.Mtime = passwordHash, "", 0, mtime
	return nil
}

type fakeSender struct {
	lastBody string
}

func (f *fakeSender) Send(to, subject, body string) error {
	f.lastBody = body
	return nil
}

func (f *fakeSender) SendHTML(to, subject, body string) error {
	f.lastBody = body
	return nil
}

func (f *fakeSender) lastCode() string {
	return regexp.MustCompile(`\d{6}`).FindString(f.lastBody)
}

type envelope struct {
	Success  bool           `json:"success"`
	Message  string         `json:"message"`
	UserData map[string]any `json:"userData"`
}

func setupRouter(t *testing.T) (http.Handler, *fakeStore, *fakeSender) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := newFakeStore()
	sender := &fakeSender{}
	jwtSecret := []byte("test-secret")
	authService := service.NewAuthService(store, sender, jwtSecret, 7*24*time.Hour)
	userService := service.NewUserService(store)

	deps := RouterDeps{
		Auth:      NewAuthHandler(authService, CookieConfig{Secure: false, MaxAge: 7 * 24 * time.Hour}),
		User:      NewUserHandler(userService),
		JWTSecret: jwtSecret,
	}

	engine := gin.New()
	engine.Use(middleware.RequestID(), middleware.CORS(nil))
	RegisterRoutes(engine.Group("/api"), deps)
	return engine, store, sender
}

func doJSON(t *testing.T, h http.Handler, method, path string, body interface{}, cookie *http.Cookie) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return rec, env
}

func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == middleware.SessionCookie {
			return c
		}
	}
	t.Fatal("no session cookie in response")
	return nil
}

func register(t *testing.T, h http.Handler, name, email, pw string) *http.Cookie {
	t.Helper()
	rec, env := doJSON(t, h, http.MethodPost, "/api/auth/register", gin.H{
		"name": name, "email": email, "password": pw,
	}, nil)
	require.True(t, env.Success)
	return sessionCookie(t, rec)
}

func TestRegister(t *testing.T) {
	h, _, _ := setupRouter(t)

	rec, env := doJSON(t, h, http.MethodPost, "/api/auth/register", gin.H{
		"name": "Ann", "email": "ann@x.com", "password": "pw123",
	}, nil)
	require.True(t, env.Success)
	cookie := sessionCookie(t, rec)
	require.NotEmpty(t, cookie.Value)
	require.True(t, cookie.HttpOnly)
	require.Positive(t, cookie.MaxAge)

	_, env = doJSON(t, h, http.MethodPost, "/api/auth/register", gin.H{
		"name": "Ann2", "email": "ann@x.com", "password": "pw456",
	}, nil)
	require.False(t, env.Success)
	require.Equal(t, "User already exists", env.Message)

	_, env = doJSON(t, h, http.MethodPost, "/api/auth/register", gin.H{
		"email": "short@x.com",
	}, nil)
	require.False(t, env.Success)
	require.Equal(t, "Missing details", env.Message)
}

func TestRegister_ProductionCookie(t *testing.T) {
	gin.SetMode(gin.TestMode)
	store := newFakeStore()
	jwtSecret := []byte("test-secret")
	authService := service.NewAuthService(store, &fakeSender{}, jwtSecret, 7*24*time.Hour)

	deps := RouterDeps{
		Auth:      NewAuthHandler(authService, CookieConfig{Secure: true, MaxAge: 7 * 24 * time.Hour}),
		User:      NewUserHandler(service.NewUserService(store)),
		JWTSecret: jwtSecret,
	}
	engine := gin.New()
	RegisterRoutes(engine.Group("/api"), deps)

	rec, env := doJSON(t, engine, http.MethodPost, "/api/auth/register", gin.H{
		"name": "Ann", "email": "ann@x.com", "password": "pw123",
	}, nil)
	require.True(t, env.Success)

	cookie := sessionCookie(t, rec)
	require.True(t, cookie.Secure)
	require.True(t, cookie.HttpOnly)
	require.Equal(t, http.SameSiteNoneMode, cookie.SameSite)

	rec, env = doJSON(t, engine, http.MethodPost, "/api/auth/logout", nil, nil)
	require.True(t, env.Success)
	cleared := sessionCookie(t, rec)
	require.True(t, cleared.Secure)
	require.Equal(t, http.SameSiteNoneMode, cleared.SameSite)
	require.Empty(t, cleared.Value)
}

func TestLogin(t *testing.T) {
	h, _, _ := setupRouter(t)
	register(t, h, "Ann", "ann@x.com", "pw123")

	_, env := doJSON(t, h, http.MethodPost, "/api/auth/login", gin.H{
		"email": "nobody@x.com", "password": "pw123",
	}, nil)
	require.False(t, env.Success)
	require.Equal(t, "Invalid email", env.Message)

	_, env = doJSON(t, h, http.MethodPost, "/api/auth/login", gin.H{
		"email": "ann@x.com", "password": "wrong",
	}, nil)
	require.False(t, env.Success)
	require.Equal(t, "Invalid Password", env.Message)

	rec, env := doJSON(t, h, http.MethodPost, "/api/auth/login", gin.H{
		"email": "ann@x.com", "password": "pw123",
	}, nil)
	require.True(t, env.Success)
	require.NotEmpty(t, sessionCookie(t, rec).Value)
}

func TestSessionRequiredRoutes(t *testing.T) {
	h, _, _ := setupRouter(t)
	cookie := register(t, h, "Ann", "ann@x.com", "pw123")

	_, env := doJSON(t, h, http.MethodGet, "/api/auth/is-authenticated", nil, nil)
	require.False(t, env.Success)
	require.Equal(t, "Not Authorized. Login Again", env.Message)

	_, env = doJSON(t, h, http.MethodGet, "/api/auth/is-authenticated", nil, &http.Cookie{
		Name: middleware.SessionCookie, Value: "garbage",
	})
	require.False(t, env.Success)

	_, env = doJSON(t, h, http.MethodGet, "/api/auth/is-authenticated", nil, cookie)
	require.True(t, env.Success)

	_, env = doJSON(t, h, http.MethodGet, "/api/user/data", nil, cookie)
	require.True(t, env.Success)
	require.Equal(t, "Ann", env.UserData["name"])
	require.Equal(t, false, env.UserData["isAccountVerified"])
}

func TestLogout(t *testing.T) {
	h, _, _ := setupRouter(t)
	register(t, h, "Ann", "ann@x.com", "pw123")

	rec, env := doJSON(t, h, http.MethodPost, "/api/auth/logout", nil, nil)
	require.True(t, env.Success)
	require.Equal(t, "Logged Out", env.Message)
	cleared := sessionCookie(t, rec)
	require.Empty(t, cleared.Value)
	require.Negative(t, cleared.MaxAge)
}

func TestVerifyAccountFlow(t *testing.T) {
	h, store, sender := setupRouter(t)
	cookie := register(t, h, "Ann", "ann@x.com", "pw123")
	user, err := store.GetByEmail(context.Background(), "ann@x.com")
	require.NoError(t, err)

	_, env := doJSON(t, h, http.MethodPost, "/api/auth/send-verify-otp", nil, cookie)
	require.True(t, env.Success)
	require.Equal(t, "Verification OTP sent on email", env.Message)
	code := sender.lastCode()
	require.Len(t, code, 6)

	wrong := "000000"
	if code == wrong {
		wrong = "000001"
	}
	_, env = doJSON(t, h, http.MethodPost, "/api/auth/verify-account", gin.H{
		"userId": user.ID, "otp": wrong,
	}, nil)
	require.False(t, env.Success)
	require.Equal(t, "Invalid OTP", env.Message)

	_, env = doJSON(t, h, http.MethodPost, "/api/auth/verify-account", gin.H{
		"userId": user.ID, "otp": code,
	}, nil)
	require.True(t, env.Success)
	require.Equal(t, "Email verified successfully", env.Message)

	_, env = doJSON(t, h, http.MethodGet, "/api/user/data", nil, cookie)
	require.True(t, env.Success)
	require.Equal(t, true, env.UserData["isAccountVerified"])

	// code is consumed; asking again while verified is refused
	_, env = doJSON(t, h, http.MethodPost, "/api/auth/send-verify-otp", nil, cookie)
	require.False(t, env.Success)
	require.Equal(t, "Account already verified", env.Message)
}

func TestResetPasswordFlow(t *testing.T) {
	h, _, sender := setupRouter(t)
	register(t, h, "Ann", "ann@x.com", "pw123")

	_, env := doJSON(t, h, http.MethodPost, "/api/auth/send-reset-otp", gin.H{
		"email": "nobody@x.com",
	}, nil)
	require.False(t, env.Success)
	require.Equal(t, "User not found", env.Message)

	_, env = doJSON(t, h, http.MethodPost, "/api/auth/send-reset-otp", gin.H{
		"email": "ann@x.com",
	}, nil)
	require.True(t, env.Success)
	require.Equal(t, "Reset OTP sent to your email", env.Message)
	code := sender.lastCode()

	_, env = doJSON(t, h, http.MethodPost, "/api/auth/reset-password", gin.H{
		"email": "ann@x.com", "otp": code, "newPassword": "newpw",
	}, nil)
	require.True(t, env.Success)
	require.Equal(t, "Password has been reset successfully", env.Message)

	_, env = doJSON(t, h, http.MethodPost, "/api/auth/login", gin.H{
		"email": "ann@x.com", "password": "pw123",
	}, nil)
	require.False(t, env.Success)

	_, env = doJSON(t, h, http.MethodPost, "/api/auth/login", gin.H{
		"email": "ann@x.com", "password": "newpw",
	}, nil)
	require.True(t, env.Success)
}
