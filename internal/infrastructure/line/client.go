package line

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/lineshop/backend/internal/domain/notification"
)

const (
	defaultAPIBaseURL = "https://api.line.me"

	// maxResponseSize limits response body reads
	maxResponseSize = 1 * 1024 * 1024
)

// Config holds the channel credentials and timeouts for the messaging API.
type Config struct {
	ChannelAccessToken string
	APIBaseURL         string
	PushTimeout        time.Duration
	VerifyTimeout      time.Duration
}

func (c *Config) applyDefaults() {
	if c.APIBaseURL == "" {
		c.APIBaseURL = defaultAPIBaseURL
	}
	if c.PushTimeout <= 0 {
		c.PushTimeout = 15 * time.Second
	}
	if c.VerifyTimeout <= 0 {
		c.VerifyTimeout = 10 * time.Second
	}
}

// Client talks to the LINE Messaging API.
type Client struct {
	config       Config
	pushClient   *http.Client
	verifyClient *http.Client
	logger       *zap.Logger
}

// NewClient creates a messaging API client. An empty access token is
// allowed; pushes fail with ErrNotConfigured until one is set.
func NewClient(config Config, logger *zap.Logger) *Client {
	config.applyDefaults()
	return &Client{
		config:       config,
		pushClient:   &http.Client{Timeout: config.PushTimeout},
		verifyClient: &http.Client{Timeout: config.VerifyTimeout},
		logger:       logger,
	}
}

// Configured reports whether a channel access token is present.
func (c *Client) Configured() bool {
	return c.config.ChannelAccessToken != ""
}

type pushRequest struct {
	To       string        `json:"to"`
	Messages []pushMessage `json:"messages"`
}

type pushMessage struct {
	Type     string               `json:"type"`
	Text     string               `json:"text,omitempty"`
	AltText  string               `json:"altText,omitempty"`
	Contents *notification.Bubble `json:"contents,omitempty"`
}

// PushFlex sends a flex bubble to a single user.
func (c *Client) PushFlex(ctx context.Context, lineUserID, altText string, bubble *notification.Bubble) error {
	if !c.Configured() {
		return ErrNotConfigured
	}
	if lineUserID == "" {
		return ErrMissingRecipient
	}
	if bubble == nil {
		return ErrEmptyPayload
	}

	payload := pushRequest{
		To: lineUserID,
		Messages: []pushMessage{
			{Type: "flex", AltText: altText, Contents: bubble},
		},
	}
	return c.push(ctx, lineUserID, payload)
}

// PushText sends a plain text message to a single user.
func (c *Client) PushText(ctx context.Context, lineUserID, text string) error {
	if !c.Configured() {
		return ErrNotConfigured
	}
	if lineUserID == "" {
		return ErrMissingRecipient
	}
	if text == "" {
		return ErrEmptyPayload
	}

	payload := pushRequest{
		To:       lineUserID,
		Messages: []pushMessage{{Type: "text", Text: text}},
	}
	return c.push(ctx, lineUserID, payload)
}

func (c *Client) push(ctx context.Context, lineUserID string, payload pushRequest) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("line: marshal push request: %w", err)
	}

	url := c.config.APIBaseURL + "/v2/bot/message/push"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("line: build push request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.config.ChannelAccessToken)

	resp, err := c.pushClient.Do(req)
	if err != nil {
		return &TransportError{Op: "push message", Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return &TransportError{Op: "read push response", Err: err}
	}

	if resp.StatusCode >= 400 {
		apiErr := newAPIError(resp.StatusCode, string(respBody))
		c.logger.Warn("LINE push rejected",
			zap.String("line_user_id", lineUserID),
			zap.Int("status", resp.StatusCode),
			zap.String("hint", apiErr.Hint))
		return apiErr
	}

	c.logger.Debug("LINE push delivered", zap.String("line_user_id", lineUserID))
	return nil
}

type profileResponse struct {
	UserID      string `json:"userId"`
	DisplayName string `json:"displayName"`
	PictureURL  string `json:"pictureUrl"`
}

// Profile is the subset of a LINE user profile the service consumes.
type Profile struct {
	UserID      string
	DisplayName string
	PictureURL  string
}

// VerifyAccessToken checks a user access token by fetching the profile
// it grants and confirming it belongs to the claimed user. It returns
// the profile when valid so callers can refresh cached display data.
func (c *Client) VerifyAccessToken(ctx context.Context, accessToken, lineUserID string) (*Profile, error) {
	if accessToken == "" || lineUserID == "" {
		return nil, ErrTokenInvalid
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.config.APIBaseURL+"/v2/profile", nil)
	if err != nil {
		return nil, fmt.Errorf("line: build profile request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := c.verifyClient.Do(req)
	if err != nil {
		return nil, &TransportError{Op: "verify access token", Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, &TransportError{Op: "read profile response", Err: err}
	}

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return nil, ErrTokenInvalid
	}
	if resp.StatusCode >= 400 {
		return nil, newAPIError(resp.StatusCode, string(respBody))
	}

	var profile profileResponse
	if err := json.Unmarshal(respBody, &profile); err != nil {
		return nil, fmt.Errorf("line: decode profile response: %w", err)
	}
	if profile.UserID != lineUserID {
		c.logger.Warn("access token belongs to a different user",
			zap.String("claimed", lineUserID),
			zap.String("actual", profile.UserID))
		return nil, ErrTokenInvalid
	}

	return &Profile{
		UserID:      profile.UserID,
		DisplayName: profile.DisplayName,
		PictureURL:  profile.PictureURL,
	}, nil
}

// BotInfo describes the channel bot behind the configured token.
type BotInfo struct {
	UserID      string `json:"userId"`
	BasicID     string `json:"basicId"`
	DisplayName string `json:"displayName"`
}

// VerifyChannelToken confirms the configured channel access token is
// accepted by the platform and returns the bot it authenticates.
func (c *Client) VerifyChannelToken(ctx context.Context) (*BotInfo, error) {
	if !c.Configured() {
		return nil, ErrNotConfigured
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.config.APIBaseURL+"/v2/bot/info", nil)
	if err != nil {
		return nil, fmt.Errorf("line: build bot info request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.config.ChannelAccessToken)

	resp, err := c.verifyClient.Do(req)
	if err != nil {
		return nil, &TransportError{Op: "verify channel token", Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, &TransportError{Op: "read bot info response", Err: err}
	}

	if resp.StatusCode == http.StatusUnauthorized {
		return nil, ErrTokenInvalid
	}
	if resp.StatusCode >= 400 {
		return nil, newAPIError(resp.StatusCode, string(respBody))
	}

	var info BotInfo
	if err := json.Unmarshal(respBody, &info); err != nil {
		return nil, fmt.Errorf("line: decode bot info response: %w", err)
	}
	return &info, nil
}
