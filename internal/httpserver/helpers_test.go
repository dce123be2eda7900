package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/instasoft/devatshop/internal/logging"
	"github.com/instasoft/devatshop/internal/mail"
	"github.com/instasoft/devatshop/internal/models"
	"github.com/instasoft/devatshop/internal/repo"
	"github.com/instasoft/devatshop/internal/service"
	"github.com/instasoft/devatshop/internal/tokens"
)

type recordingSender struct {
	mu   sync.Mutex
	sent []mail.Message
	err  error
}

func (r *recordingSender) Send(msg mail.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.sent = append(r.sent, msg)
	return nil
}

func (r *recordingSender) messages() []mail.Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]mail.Message(nil), r.sent...)
}

type testEnv struct {
	T       *testing.T
	E       *echo.Echo
	DB      *gorm.DB
	Repo    *repo.GormRepo
	Tokens  *tokens.Service
	Auth    *AuthHTTP
	Account *AccountHTTP
	Sender  *recordingSender
	Mail    *mail.Queue
}

func initTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed to connect to in-memory db")

	require.NoError(t, db.AutoMigrate(&models.User{}, &models.CartItem{}, &models.Payment{}),
		"failed to migrate tables")

	return db
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := initTestDB(t)
	gormRepo := &repo.GormRepo{DB: db}

	tokenSvc := tokens.New(tokens.Config{
		AccessSecret:  []byte("test-access-secret"),
		RefreshSecret: []byte("test-refresh-secret"),
		ResetSecret:   []byte("test-reset-secret"),
	})

	sender := &recordingSender{}
	queue := mail.NewQueue(sender, logging.New("error"), 8)
	queue.Start(context.Background())
	t.Cleanup(queue.Close)

	cookies := CookieOptions{Secure: true, SameSite: http.SameSiteLaxMode}

	env := &testEnv{
		T:      t,
		E:      echo.New(),
		DB:     db,
		Repo:   gormRepo,
		Tokens: tokenSvc,
		Sender: sender,
		Mail:   queue,
	}
	env.Auth = &AuthHTTP{
		Svc: &service.AuthService{
			Repo:   gormRepo,
			Tokens: tokenSvc,
		},
		Cookies: cookies,
	}
	env.Account = &AccountHTTP{
		Svc: &service.AccountService{
			Repo:      gormRepo,
			Tokens:    tokenSvc,
			Mail:      queue,
			ClientURL: "https://shop.example.com",
		},
	}

	return env
}

func (env *testEnv) doJSONRequest(method, path string, body any, cookies ...*http.Cookie) (*httptest.ResponseRecorder, echo.Context) {
	var buf bytes.Buffer
	if body != nil {
		require.NoError(env.T, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)

	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	rec := httptest.NewRecorder()
	c := env.E.NewContext(req, rec)
	return rec, c
}

func (env *testEnv) register(name, email, password string) (string, *http.Cookie) {
	env.T.Helper()

	rec, c := env.doJSONRequest(http.MethodPost, "/user/register", map[string]string{
		"name":     name,
		"email":    email,
		"password": password,
	})
	require.NoError(env.T, env.Auth.Register(c))
	require.Equal(env.T, http.StatusOK, rec.Code)

	var resp struct {
		AccessToken string `json:"access_token"`
	}
	require.NoError(env.T, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(env.T, resp.AccessToken)

	return resp.AccessToken, refreshCookie(env.T, rec)
}

func refreshCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()

	for _, ck := range rec.Result().Cookies() {
		if ck.Name == refreshCookieName {
			return ck
		}
	}
	return nil
}

func authedContext(env *testEnv, method, path string, body any, userID uint) (*httptest.ResponseRecorder, echo.Context) {
	rec, c := env.doJSONRequest(method, path, body)
	c.Set("user_id", userID)
	return rec, c
}
