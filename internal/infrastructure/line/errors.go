package line

import (
	"errors"
	"fmt"
)

var (
	// ErrNotConfigured indicates the channel access token is missing.
	ErrNotConfigured = errors.New("line: channel access token is not configured")
	// ErrMissingRecipient indicates a push was attempted without a target user.
	ErrMissingRecipient = errors.New("line: recipient LINE user ID is empty")
	// ErrEmptyPayload indicates a push was attempted without any message content.
	ErrEmptyPayload = errors.New("line: message payload is empty")
	// ErrTokenInvalid indicates the platform rejected the presented token.
	ErrTokenInvalid = errors.New("line: token rejected by platform")
)

// TransportError wraps network-level failures reaching the platform.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("line: %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// APIError is a non-2xx response from the LINE platform.
type APIError struct {
	Status int
	Body   string
	Hint   string
}

func (e *APIError) Error() string {
	if e.Hint != "" {
		return fmt.Sprintf("line: API returned HTTP %d (%s): %s", e.Status, e.Hint, e.Body)
	}
	return fmt.Sprintf("line: API returned HTTP %d: %s", e.Status, e.Body)
}

var statusHints = map[int]string{
	400: "malformed request or invalid user ID",
	401: "channel access token invalid or expired",
	403: "bot lacks permission, check channel settings",
	404: "user has not added the bot as a friend",
	429: "rate limited, retry later",
	500: "platform internal error",
	503: "platform temporarily unavailable",
}

func newAPIError(status int, body string) *APIError {
	return &APIError{Status: status, Body: body, Hint: statusHints[status]}
}
