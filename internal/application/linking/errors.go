package linking

import "github.com/lineshop/backend/internal/domain/shared"

var (
	// ErrLoginDisabled indicates LINE login is turned off.
	ErrLoginDisabled = shared.NewDomainError("LINE_LOGIN_DISABLED", "LINE login is not enabled")
	// ErrMissingLineUserID indicates the login request lacked a LINE user ID.
	ErrMissingLineUserID = shared.NewDomainError("MISSING_LINE_USER_ID", "LINE user ID is required")
	// ErrTokenInvalid indicates access token verification failed.
	ErrTokenInvalid = shared.NewDomainError("TOKEN_INVALID", "LINE access token verification failed")
	// ErrRegistrationRequired indicates no account is linked and auto
	// provisioning is disabled.
	ErrRegistrationRequired = shared.NewDomainError("REGISTRATION_REQUIRED", "No linked account, registration required")
	// ErrAccountCreation indicates account provisioning or linking failed.
	ErrAccountCreation = shared.NewDomainError("ACCOUNT_CREATION_FAILED", "Failed to create or link account")
)
