package handler

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	applinking "github.com/lineshop/backend/internal/application/linking"
	"github.com/lineshop/backend/internal/infrastructure/config"
	"github.com/lineshop/backend/internal/interfaces/http/dto"
)

const nonceCookieName = "line_login_nonce"

// LineLoginHandler serves the LIFF login endpoint.
type LineLoginHandler struct {
	BaseHandler
	cfg   config.LineConfig
	login *applinking.LoginService
}

// NewLineLoginHandler creates a new LineLoginHandler
func NewLineLoginHandler(cfg config.LineConfig, login *applinking.LoginService) *LineLoginHandler {
	return &LineLoginHandler{cfg: cfg, login: login}
}

type lineLoginRequest struct {
	LineUserID  string `form:"line_user_id"`
	DisplayName string `form:"line_display_name"`
	PictureURL  string `form:"line_picture_url"`
	Email       string `form:"line_email"`
	AccessToken string `form:"access_token"`
	RedirectTo  string `form:"redirect_to"`
	Nonce       string `form:"nonce"`
}

// Nonce handles GET /line/login/nonce. It issues a single-use token the
// LIFF page must echo back in the login form, double-submitted via a
// cookie so a cross-site form post cannot forge the login.
func (h *LineLoginHandler) Nonce(c *gin.Context) {
	if !h.cfg.LoginEnabled {
		h.NotFound(c, "not found")
		return
	}

	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		h.InternalError(c, "failed to issue nonce")
		return
	}
	nonce := hex.EncodeToString(buf)

	c.SetCookie(nonceCookieName, nonce, 600, "/", "", secureRequest(c), true)
	h.Success(c, gin.H{"nonce": nonce})
}

// secureRequest reports whether the request arrived over HTTPS, either
// directly or via a TLS-terminating proxy.
func secureRequest(c *gin.Context) bool {
	return c.Request.TLS != nil || c.GetHeader("X-Forwarded-Proto") == "https"
}

// Login handles POST /line/login
func (h *LineLoginHandler) Login(c *gin.Context) {
	var req lineLoginRequest
	if err := c.ShouldBind(&req); err != nil {
		h.BadRequest(c, "invalid login request")
		return
	}

	if !h.nonceValid(c, req.Nonce) {
		h.ErrorWithCode(c, "INVALID_NONCE", "login nonce missing or expired")
		return
	}

	result, err := h.login.Login(c.Request.Context(), applinking.LoginInput{
		LineUserID:  req.LineUserID,
		DisplayName: req.DisplayName,
		PictureURL:  req.PictureURL,
		Email:       req.Email,
		AccessToken: req.AccessToken,
		RedirectTo:  req.RedirectTo,
	})
	if err != nil {
		h.loginError(c, err)
		return
	}

	c.SetCookie(nonceCookieName, "", -1, "/", "", secureRequest(c), true)
	h.Success(c, result)
}

func (h *LineLoginHandler) nonceValid(c *gin.Context, nonce string) bool {
	cookie, err := c.Cookie(nonceCookieName)
	if err != nil || cookie == "" || nonce == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(cookie), []byte(nonce)) == 1
}

func (h *LineLoginHandler) loginError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, applinking.ErrLoginDisabled):
		// Indistinguishable from a missing route when the feature is off
		h.NotFound(c, "not found")
	case errors.Is(err, applinking.ErrMissingLineUserID):
		h.ErrorWithCode(c, applinking.ErrMissingLineUserID.Code, applinking.ErrMissingLineUserID.Message)
	case errors.Is(err, applinking.ErrTokenInvalid):
		h.ErrorWithCode(c, applinking.ErrTokenInvalid.Code, applinking.ErrTokenInvalid.Message)
	case errors.Is(err, applinking.ErrRegistrationRequired):
		resp := dto.NewErrorResponse(applinking.ErrRegistrationRequired.Code, applinking.ErrRegistrationRequired.Message)
		resp.Data = dto.LoginFailureData{RequireRegistration: true}
		c.JSON(http.StatusForbidden, resp)
	case errors.Is(err, applinking.ErrAccountCreation):
		h.ErrorWithCode(c, applinking.ErrAccountCreation.Code, applinking.ErrAccountCreation.Message)
	default:
		h.InternalError(c, "login failed")
	}
}
