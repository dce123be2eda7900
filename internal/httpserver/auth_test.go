package httpserver

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/instasoft/devatshop/internal/tokens"
)

func TestRegister(t *testing.T) {
	env := newTestEnv(t)

	access, refresh := env.register("test user", "test@example.com", "password")

	userID, err := env.Tokens.VerifyAccess(access)
	require.NoError(t, err)
	require.NotZero(t, userID)

	require.NotNil(t, refresh, "expected refresh cookie to be set")
	assert.Equal(t, RefreshCookiePath, refresh.Path)
	assert.True(t, refresh.HttpOnly)

	refreshUserID, err := env.Tokens.VerifyRefresh(refresh.Value)
	require.NoError(t, err)
	assert.Equal(t, userID, refreshUserID)
}

func TestRegister_WeakPassword(t *testing.T) {
	env := newTestEnv(t)

	_, c := env.doJSONRequest(http.MethodPost, "/user/register", map[string]string{
		"name":     "test user",
		"email":    "weak@example.com",
		"password": "12345",
	})

	err := env.Auth.Register(c)
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok, "expected HTTPError")
	assert.Equal(t, http.StatusBadRequest, he.Code)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	env := newTestEnv(t)

	env.register("test user", "dup@example.com", "password")

	_, c := env.doJSONRequest(http.MethodPost, "/user/register", map[string]string{
		"name":     "someone else",
		"email":    "dup@example.com",
		"password": "another-valid-password",
	})

	err := env.Auth.Register(c)
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok, "expected HTTPError")
	assert.Equal(t, http.StatusBadRequest, he.Code)
	assert.Equal(t, "the email already exists", he.Message)
}

func TestLogin(t *testing.T) {
	env := newTestEnv(t)
	env.register("test user", "login@example.com", "password")

	rec, c := env.doJSONRequest(http.MethodPost, "/user/login", map[string]string{
		"email":    "login@example.com",
		"password": "password",
	})
	require.NoError(t, env.Auth.Login(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		AccessToken string `json:"access_token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.AccessToken)

	_, err := env.Tokens.VerifyAccess(resp.AccessToken)
	require.NoError(t, err)

	ck := refreshCookie(t, rec)
	require.NotNil(t, ck)
	_, err = env.Tokens.VerifyRefresh(ck.Value)
	require.NoError(t, err)
}

func TestLogin_WrongPassword(t *testing.T) {
	env := newTestEnv(t)
	env.register("test user", "login@example.com", "password")

	_, c := env.doJSONRequest(http.MethodPost, "/user/login", map[string]string{
		"email":    "login@example.com",
		"password": "not-the-password",
	})

	err := env.Auth.Login(c)
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok, "expected HTTPError")
	assert.Equal(t, http.StatusBadRequest, he.Code)
}

func TestLogin_UnknownEmail(t *testing.T) {
	env := newTestEnv(t)

	_, c := env.doJSONRequest(http.MethodPost, "/user/login", map[string]string{
		"email":    "nobody@example.com",
		"password": "password",
	})

	err := env.Auth.Login(c)
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok, "expected HTTPError")
	assert.Equal(t, http.StatusBadRequest, he.Code)
}

func TestRefresh_MintsAccessWithoutRotating(t *testing.T) {
	env := newTestEnv(t)

	access, refresh := env.register("test user", "refresh@example.com", "password")
	userID, err := env.Tokens.VerifyAccess(access)
	require.NoError(t, err)

	rec, c := env.doJSONRequest(http.MethodPost, "/user/refresh_token", nil, refresh)
	require.NoError(t, env.Auth.Refresh(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		AccessToken string `json:"access_token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.AccessToken)

	newUserID, err := env.Tokens.VerifyAccess(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, userID, newUserID)

	assert.Nil(t, refreshCookie(t, rec), "refresh cookie must not be rotated")
}

func TestRefresh_MissingTamperedExpiredAllAnswerTheSame(t *testing.T) {
	env := newTestEnv(t)

	_, refresh := env.register("test user", "same@example.com", "password")

	_, cMissing := env.doJSONRequest(http.MethodPost, "/user/refresh_token", nil)
	errMissing := env.Auth.Refresh(cMissing)

	tampered := *refresh
	tampered.Value = refresh.Value[:len(refresh.Value)-4] + "AAAA"
	_, cTampered := env.doJSONRequest(http.MethodPost, "/user/refresh_token", nil, &tampered)
	errTampered := env.Auth.Refresh(cTampered)

	expiredSvc := tokens.New(tokens.Config{
		AccessSecret:  []byte("test-access-secret"),
		RefreshSecret: []byte("test-refresh-secret"),
		ResetSecret:   []byte("test-reset-secret"),
		RefreshTTL:    -time.Minute,
	})
	expiredToken, _, err := expiredSvc.IssueRefresh(1)
	require.NoError(t, err)
	_, cExpired := env.doJSONRequest(http.MethodPost, "/user/refresh_token", nil,
		&http.Cookie{Name: refreshCookieName, Value: expiredToken})
	errExpired := env.Auth.Refresh(cExpired)

	for _, err := range []error{errMissing, errTampered, errExpired} {
		he, ok := err.(*echo.HTTPError)
		require.True(t, ok, "expected HTTPError")
		assert.Equal(t, http.StatusBadRequest, he.Code)
		assert.Equal(t, "please login or register", he.Message)
	}
}

func TestRefresh_AccessTokenRejectedAsRefresh(t *testing.T) {
	env := newTestEnv(t)

	access, _ := env.register("test user", "cross@example.com", "password")

	_, c := env.doJSONRequest(http.MethodPost, "/user/refresh_token", nil,
		&http.Cookie{Name: refreshCookieName, Value: access})

	err := env.Auth.Refresh(c)
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok, "expected HTTPError")
	assert.Equal(t, http.StatusBadRequest, he.Code)
}

func TestLogOutClearsCookie(t *testing.T) {
	env := newTestEnv(t)

	env.register("test user", "logout@example.com", "password")

	rec, c := env.doJSONRequest(http.MethodPost, "/user/logout", nil)
	require.NoError(t, env.Auth.LogOut(c))
	require.Equal(t, http.StatusOK, rec.Code)

	ck := refreshCookie(t, rec)
	require.NotNil(t, ck)
	assert.Empty(t, ck.Value)
	assert.True(t, ck.MaxAge < 0 || ck.Expires.Before(time.Now()))

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "logged out", resp["msg"])

	// A client that honored the cleared cookie has nothing left to present.
	_, cRefresh := env.doJSONRequest(http.MethodPost, "/user/refresh_token", nil)
	err := env.Auth.Refresh(cRefresh)
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok, "expected HTTPError")
	assert.Equal(t, http.StatusBadRequest, he.Code)
}

func TestRegister_ResponseOmitsPasswordDigest(t *testing.T) {
	env := newTestEnv(t)

	rec, c := env.doJSONRequest(http.MethodPost, "/user/register", map[string]string{
		"name":     "test user",
		"email":    "omit@example.com",
		"password": "password",
	})
	require.NoError(t, env.Auth.Register(c))

	body := rec.Body.String()
	assert.False(t, strings.Contains(body, "password"), "response must not echo credentials")
}
