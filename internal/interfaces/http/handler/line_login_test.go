package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	applinking "github.com/lineshop/backend/internal/application/linking"
	"github.com/lineshop/backend/internal/domain/linking"
	"github.com/lineshop/backend/internal/infrastructure/config"
)

type stubLinkRepo struct{}

func (stubLinkRepo) FindByUserID(context.Context, uuid.UUID) (*linking.LineLink, error) {
	return nil, linking.ErrLinkNotFound
}

func (stubLinkRepo) FindByLineUserID(context.Context, string) (*linking.LineLink, error) {
	return nil, linking.ErrLinkNotFound
}

func (stubLinkRepo) List(context.Context, int) ([]linking.LineLink, error) {
	return nil, nil
}

func (stubLinkRepo) CountLinked(context.Context) (int64, error) {
	return 0, nil
}

func (stubLinkRepo) Upsert(context.Context, *linking.LineLink) error {
	return nil
}

func (stubLinkRepo) DeleteByUserID(context.Context, uuid.UUID) error {
	return nil
}

func (stubLinkRepo) DeleteOrphans(context.Context) (int64, error) {
	return 0, nil
}

func newLoginRouter(cfg config.LineConfig) *gin.Engine {
	gin.SetMode(gin.TestMode)
	svc := applinking.NewLoginService(cfg, stubLinkRepo{}, nil, nil, nil, nil, zap.NewNop())
	h := NewLineLoginHandler(cfg, svc)

	engine := gin.New()
	engine.GET("/line/login/nonce", h.Nonce)
	engine.POST("/line/login", h.Login)
	return engine
}

func postLogin(t *testing.T, engine *gin.Engine, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	form.Set("nonce", "aabbccdd")
	req := httptest.NewRequest(http.MethodPost, "/line/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.AddCookie(&http.Cookie{Name: "line_login_nonce", Value: "aabbccdd"})
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	return rec
}

func TestLoginDisabledReturns404(t *testing.T) {
	engine := newLoginRouter(config.LineConfig{LoginEnabled: false})

	rec := postLogin(t, engine, url.Values{"line_user_id": {"U1"}})

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestLoginMissingLineUserIDReturns400(t *testing.T) {
	engine := newLoginRouter(config.LineConfig{LoginEnabled: true})

	rec := postLogin(t, engine, url.Values{})

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var resp struct {
		Success bool `json:"success"`
		Error   *struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "MISSING_LINE_USER_ID", resp.Error.Code)
}

func TestLoginWithoutNonceReturns403(t *testing.T) {
	engine := newLoginRouter(config.LineConfig{LoginEnabled: true})

	form := url.Values{"line_user_id": {"U1"}}
	req := httptest.NewRequest(http.MethodPost, "/line/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)

	var resp struct {
		Error *struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, "INVALID_NONCE", resp.Error.Code)
}

func TestNonceIssuesCookie(t *testing.T) {
	engine := newLoginRouter(config.LineConfig{LoginEnabled: true})

	req := httptest.NewRequest(http.MethodGet, "/line/login/nonce", nil)
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data struct {
			Nonce string `json:"nonce"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.Data.Nonce, 32)

	var cookie *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == "line_login_nonce" {
			cookie = c
		}
	}
	require.NotNil(t, cookie)
	assert.Equal(t, resp.Data.Nonce, cookie.Value)
}

func TestNonceCookieSecureOverHTTPS(t *testing.T) {
	engine := newLoginRouter(config.LineConfig{LoginEnabled: true})

	req := httptest.NewRequest(http.MethodGet, "/line/login/nonce", nil)
	req.Header.Set("X-Forwarded-Proto", "https")
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var cookie *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == "line_login_nonce" {
			cookie = c
		}
	}
	require.NotNil(t, cookie)
	assert.True(t, cookie.Secure)
}

func TestNonceDisabledReturns404(t *testing.T) {
	engine := newLoginRouter(config.LineConfig{LoginEnabled: false})

	req := httptest.NewRequest(http.MethodGet, "/line/login/nonce", nil)
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestLoginRegistrationRequiredFlag(t *testing.T) {
	engine := newLoginRouter(config.LineConfig{LoginEnabled: true, AutoCreateUser: false})

	rec := postLogin(t, engine, url.Values{"line_user_id": {"Unew"}})

	assert.Equal(t, http.StatusForbidden, rec.Code)

	var resp struct {
		Success bool `json:"success"`
		Data    *struct {
			RequireRegistration bool `json:"require_registration"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	require.NotNil(t, resp.Data)
	assert.True(t, resp.Data.RequireRegistration)
}
