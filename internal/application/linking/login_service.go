package linking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/lineshop/backend/internal/domain/identity"
	"github.com/lineshop/backend/internal/domain/linking"
	"github.com/lineshop/backend/internal/domain/shared"
	"github.com/lineshop/backend/internal/infrastructure/auth"
	"github.com/lineshop/backend/internal/infrastructure/config"
	"github.com/lineshop/backend/internal/infrastructure/line"
)

const (
	usernamePrefix     = "line_"
	usernameIDMaxChars = 20
	placeholderDomain  = "line.local"
)

// AccessTokenVerifier checks a user access token against the platform.
type AccessTokenVerifier interface {
	VerifyAccessToken(ctx context.Context, accessToken, lineUserID string) (*line.Profile, error)
}

// SessionIssuer mints login session tokens.
type SessionIssuer interface {
	IssueSession(userID uuid.UUID, username string) (*auth.Session, error)
}

// LoginService handles LIFF-based login and account linking.
type LoginService struct {
	cfg      config.LineConfig
	links    linking.LinkRepository
	users    identity.UserRepository
	sink     linking.ProfileSink
	verifier AccessTokenVerifier
	sessions SessionIssuer
	logger   *zap.Logger
	now      func() time.Time
}

// NewLoginService creates a new LoginService. The profile sink may be
// nil when no secondary store is configured.
func NewLoginService(
	cfg config.LineConfig,
	links linking.LinkRepository,
	users identity.UserRepository,
	sink linking.ProfileSink,
	verifier AccessTokenVerifier,
	sessions SessionIssuer,
	logger *zap.Logger,
) *LoginService {
	return &LoginService{
		cfg:      cfg,
		links:    links,
		users:    users,
		sink:     sink,
		verifier: verifier,
		sessions: sessions,
		logger:   logger,
		now:      time.Now,
	}
}

// Login authenticates a LINE user, creating and linking a store account
// when permitted. The returned result carries a session token and the
// post-login redirect target.
func (s *LoginService) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	if !s.cfg.LoginEnabled {
		return nil, ErrLoginDisabled
	}
	if input.LineUserID == "" {
		return nil, ErrMissingLineUserID
	}

	if s.cfg.VerifyToken {
		profile, err := s.verifier.VerifyAccessToken(ctx, input.AccessToken, input.LineUserID)
		if err != nil {
			s.logger.Warn("access token verification failed",
				zap.String("line_user_id", input.LineUserID),
				zap.Error(err))
			return nil, ErrTokenInvalid
		}
		// Verified profile data wins over the submitted form fields
		if profile.DisplayName != "" {
			input.DisplayName = profile.DisplayName
		}
		if profile.PictureURL != "" {
			input.PictureURL = profile.PictureURL
		}
	}

	user, created, err := s.resolveUser(ctx, input)
	if err != nil {
		return nil, err
	}

	if err := s.saveLink(ctx, user.ID, input); err != nil {
		return nil, err
	}

	s.refreshUserProfile(ctx, user, input)

	user.RecordLogin()
	if err := s.users.Update(ctx, user); err != nil {
		s.logger.Warn("failed to record login time",
			zap.String("user_id", user.ID.String()),
			zap.Error(err))
	}

	session, err := s.sessions.IssueSession(user.ID, user.Username)
	if err != nil {
		return nil, fmt.Errorf("issue session: %w", err)
	}

	s.logger.Info("LINE login completed",
		zap.String("user_id", user.ID.String()),
		zap.String("line_user_id", input.LineUserID),
		zap.Bool("created", created))

	return &LoginResult{
		UserID:      user.ID,
		Username:    user.Username,
		DisplayName: user.GetDisplayNameOrUsername(),
		Created:     created,
		Session:     session,
		RedirectURL: s.redirectTarget(input.RedirectTo),
	}, nil
}

// redirectTarget resolves the post-login destination. Caller overrides
// are limited to site-relative paths to keep redirects on this host.
func (s *LoginService) redirectTarget(override string) string {
	if strings.HasPrefix(override, "/") && !strings.HasPrefix(override, "//") {
		return override
	}
	return s.cfg.RedirectURL
}

// resolveUser finds the account linked to the LINE user, provisioning
// one when allowed.
func (s *LoginService) resolveUser(ctx context.Context, input LoginInput) (*identity.User, bool, error) {
	link, err := s.links.FindByLineUserID(ctx, input.LineUserID)
	if err == nil {
		user, err := s.users.FindByID(ctx, link.UserID)
		if err == nil {
			return user, false, nil
		}
		if !errors.Is(err, shared.ErrNotFound) {
			return nil, false, err
		}
		// Stale link pointing at a deleted account, drop it and re-provision
		s.logger.Warn("removing orphaned link",
			zap.String("line_user_id", input.LineUserID),
			zap.String("user_id", link.UserID.String()))
		if err := s.links.DeleteByUserID(ctx, link.UserID); err != nil && !errors.Is(err, linking.ErrLinkNotFound) {
			return nil, false, err
		}
	} else if !errors.Is(err, linking.ErrLinkNotFound) {
		return nil, false, err
	}

	if !s.cfg.AutoCreateUser {
		return nil, false, ErrRegistrationRequired
	}

	user, err := s.provisionUser(ctx, input)
	if err != nil {
		return nil, false, err
	}
	return user, true, nil
}

func (s *LoginService) provisionUser(ctx context.Context, input LoginInput) (*identity.User, error) {
	username := deriveUsername(input.LineUserID)

	// A previous run may have created the account without completing the link
	existing, err := s.users.FindByUsername(ctx, username)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	lineID := strings.ToLower(input.LineUserID)
	email := fmt.Sprintf("%s%s@%s", usernamePrefix, lineID, placeholderDomain)
	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		email = fmt.Sprintf("%s%s_%d@%s", usernamePrefix, lineID, s.now().Unix(), placeholderDomain)
	} else if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	user, err := identity.NewProvisionedUser(username, email)
	if err != nil {
		s.logger.Error("failed to build provisioned user",
			zap.String("line_user_id", input.LineUserID),
			zap.Error(err))
		return nil, ErrAccountCreation
	}
	if input.DisplayName != "" {
		if err := user.SetDisplayName(input.DisplayName); err != nil {
			s.logger.Warn("rejected display name", zap.Error(err))
		}
	}

	if err := s.users.Create(ctx, user); err != nil {
		s.logger.Error("failed to create user",
			zap.String("username", username),
			zap.Error(err))
		return nil, ErrAccountCreation
	}
	return user, nil
}

func (s *LoginService) saveLink(ctx context.Context, userID uuid.UUID, input LoginInput) error {
	link, err := linking.NewLineLink(userID, input.LineUserID, input.DisplayName, input.PictureURL)
	if err != nil {
		return ErrAccountCreation
	}

	if err := s.links.Upsert(ctx, link); err != nil {
		if errors.Is(err, linking.ErrLinkConflict) {
			s.logger.Warn("LINE account already claimed by another user",
				zap.String("line_user_id", input.LineUserID))
			return ErrAccountCreation
		}
		return err
	}

	if s.sink != nil {
		if err := s.sink.MirrorProfile(ctx, userID, input.LineUserID, input.DisplayName, input.PictureURL); err != nil {
			// Mirror is best effort, the canonical link is already saved
			s.logger.Warn("profile sink write failed",
				zap.String("user_id", userID.String()),
				zap.Error(err))
		}
	}
	return nil
}

// refreshUserProfile applies verified profile data to the account.
// A submitted email is only trusted when token verification confirmed
// the login, and never steals an address another account uses.
func (s *LoginService) refreshUserProfile(ctx context.Context, user *identity.User, input LoginInput) {
	changed := false

	if input.DisplayName != "" && user.DisplayName != input.DisplayName {
		if err := user.SetDisplayName(input.DisplayName); err == nil {
			changed = true
		}
	}
	if input.PictureURL != "" && user.AvatarURL != input.PictureURL {
		if err := user.SetAvatarURL(input.PictureURL); err == nil {
			changed = true
		}
	}
	if input.Email != "" && s.cfg.VerifyToken && user.Email != input.Email {
		owner, err := s.users.FindByEmail(ctx, input.Email)
		available := errors.Is(err, shared.ErrNotFound) || (err == nil && owner.ID == user.ID)
		if available {
			if err := user.SetEmail(input.Email); err == nil {
				changed = true
			}
		}
	}

	if changed {
		if err := s.users.Update(ctx, user); err != nil {
			s.logger.Warn("failed to refresh user profile",
				zap.String("user_id", user.ID.String()),
				zap.Error(err))
		}
	}
}

// deriveUsername builds a stable handle from a LINE user ID. Handles
// are lowercased to match the identity package's normalization.
func deriveUsername(lineUserID string) string {
	id := lineUserID
	if len(id) > usernameIDMaxChars {
		id = id[:usernameIDMaxChars]
	}
	return usernamePrefix + strings.ToLower(id)
}
