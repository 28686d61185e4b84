package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	applinking "github.com/lineshop/backend/internal/application/linking"
	"github.com/lineshop/backend/internal/application/notify"
	"github.com/lineshop/backend/internal/domain/linking"
	"github.com/lineshop/backend/internal/infrastructure/line"
)

const defaultLinkListLimit = 100

// LineAdminHandler serves the back-office LINE integration endpoints.
type LineAdminHandler struct {
	BaseHandler
	admin    *applinking.AdminService
	notifier *notify.Notifier
}

// NewLineAdminHandler creates a new LineAdminHandler
func NewLineAdminHandler(admin *applinking.AdminService, notifier *notify.Notifier) *LineAdminHandler {
	return &LineAdminHandler{admin: admin, notifier: notifier}
}

// VerifyToken handles POST /admin/line/verify-token
func (h *LineAdminHandler) VerifyToken(c *gin.Context) {
	info, err := h.notifier.VerifyChannelToken(c.Request.Context())
	if err != nil {
		switch {
		case errors.Is(err, line.ErrNotConfigured):
			h.ErrorWithCode(c, "NOT_CONFIGURED", "channel access token is not configured")
		case errors.Is(err, line.ErrTokenInvalid):
			h.Unauthorized(c, "channel access token rejected by LINE")
		default:
			h.InternalError(c, "token verification failed")
		}
		return
	}
	h.Success(c, info)
}

type testMessageRequest struct {
	LineUserID string `json:"line_user_id" binding:"required"`
	Text       string `json:"text"`
}

// TestMessage handles POST /admin/line/test-message
func (h *LineAdminHandler) TestMessage(c *gin.Context) {
	var req testMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "line_user_id is required")
		return
	}

	var err error
	if req.Text != "" {
		err = h.notifier.SendTestText(c.Request.Context(), req.LineUserID, req.Text)
	} else {
		err = h.notifier.SendTestMessage(c.Request.Context(), req.LineUserID)
	}
	if err != nil {
		var apiErr *line.APIError
		switch {
		case errors.Is(err, line.ErrNotConfigured):
			h.ErrorWithCode(c, "NOT_CONFIGURED", "channel access token is not configured")
		case errors.As(err, &apiErr):
			h.Error(c, apiErr.Status, "LINE_API_ERROR", apiErr.Hint)
		default:
			h.InternalError(c, "failed to send test message")
		}
		return
	}

	h.Success(c, gin.H{"delivered": true})
}

// InspectLink handles GET /admin/line/links/:user_id
func (h *LineAdminHandler) InspectLink(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("user_id"))
	if err != nil {
		h.BadRequest(c, "invalid user ID")
		return
	}

	inspection, err := h.admin.InspectLink(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, linking.ErrLinkNotFound) {
			h.NotFound(c, "link not found")
			return
		}
		h.InternalError(c, "failed to inspect link")
		return
	}
	h.Success(c, inspection)
}

// ListLinks handles GET /admin/line/links
func (h *LineAdminHandler) ListLinks(c *gin.Context) {
	limit := defaultLinkListLimit
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			h.BadRequest(c, "limit must be a non-negative integer")
			return
		}
		limit = parsed
	}

	result, err := h.admin.ListLinks(c.Request.Context(), limit)
	if err != nil {
		h.InternalError(c, "failed to list links")
		return
	}
	h.Success(c, result)
}

// Unlink handles DELETE /admin/line/links/:user_id
func (h *LineAdminHandler) Unlink(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("user_id"))
	if err != nil {
		h.BadRequest(c, "invalid user ID")
		return
	}

	if err := h.admin.Unlink(c.Request.Context(), userID); err != nil {
		if errors.Is(err, linking.ErrLinkNotFound) {
			h.NotFound(c, "link not found")
			return
		}
		h.InternalError(c, "failed to unlink account")
		return
	}
	h.Success(c, gin.H{"unlinked": true})
}

// Backfill handles POST /admin/line/backfill
func (h *LineAdminHandler) Backfill(c *gin.Context) {
	result, err := h.admin.BackfillSink(c.Request.Context())
	if err != nil {
		h.InternalError(c, "backfill failed")
		return
	}
	h.Success(c, result)
}
