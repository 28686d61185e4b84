package line

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/lineshop/backend/internal/domain/notification"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := NewClient(Config{
		ChannelAccessToken: "test-channel-token",
		APIBaseURL:         server.URL,
	}, zap.NewNop())
	return client, server
}

func TestPushFlex(t *testing.T) {
	var captured struct {
		To       string `json:"to"`
		Messages []struct {
			Type    string `json:"type"`
			AltText string `json:"altText"`
		} `json:"messages"`
	}
	var auth string

	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v2/bot/message/push", r.URL.Path)
		auth = r.Header.Get("Authorization")
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &captured))
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("{}"))
	})

	err := client.PushFlex(context.Background(), "U1234", "訂單建立成功通知", notification.TestMessage())
	require.NoError(t, err)

	assert.Equal(t, "Bearer test-channel-token", auth)
	assert.Equal(t, "U1234", captured.To)
	require.Len(t, captured.Messages, 1)
	assert.Equal(t, "flex", captured.Messages[0].Type)
	assert.Equal(t, "訂單建立成功通知", captured.Messages[0].AltText)
}

func TestPushFlexValidation(t *testing.T) {
	unconfigured := NewClient(Config{}, zap.NewNop())
	err := unconfigured.PushFlex(context.Background(), "U1", "alt", notification.TestMessage())
	assert.ErrorIs(t, err, ErrNotConfigured)

	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request expected")
	})

	err = client.PushFlex(context.Background(), "", "alt", notification.TestMessage())
	assert.ErrorIs(t, err, ErrMissingRecipient)

	err = client.PushFlex(context.Background(), "U1", "alt", nil)
	assert.ErrorIs(t, err, ErrEmptyPayload)
}

func TestPushTextAPIError(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"message":"Not found"}`))
	})

	err := client.PushText(context.Background(), "Ugone", "hello")
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
	assert.Contains(t, apiErr.Hint, "friend")
}

func TestVerifyAccessToken(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v2/profile", r.URL.Path)
		assert.Equal(t, "Bearer user-access-token", r.Header.Get("Authorization"))
		json.NewEncoder(w).Encode(map[string]string{
			"userId":      "U1234",
			"displayName": "小明",
			"pictureUrl":  "https://profile.line-scdn.net/abc",
		})
	})

	profile, err := client.VerifyAccessToken(context.Background(), "user-access-token", "U1234")
	require.NoError(t, err)
	assert.Equal(t, "小明", profile.DisplayName)
	assert.Equal(t, "https://profile.line-scdn.net/abc", profile.PictureURL)
}

func TestVerifyAccessTokenMismatch(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"userId": "Uother"})
	})

	_, err := client.VerifyAccessToken(context.Background(), "user-access-token", "U1234")
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestVerifyAccessTokenRejected(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	_, err := client.VerifyAccessToken(context.Background(), "expired", "U1234")
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestVerifyChannelToken(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v2/bot/info", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]string{
			"userId":      "Ubot",
			"basicId":     "@lineshop",
			"displayName": "LineShop 小幫手",
		})
	})

	info, err := client.VerifyChannelToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "@lineshop", info.BasicID)
}

func TestVerifyChannelTokenInvalid(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	_, err := client.VerifyChannelToken(context.Background())
	assert.ErrorIs(t, err, ErrTokenInvalid)
}
