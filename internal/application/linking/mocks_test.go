package linking

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/lineshop/backend/internal/domain/identity"
	"github.com/lineshop/backend/internal/domain/linking"
	"github.com/lineshop/backend/internal/infrastructure/auth"
	"github.com/lineshop/backend/internal/infrastructure/line"
)

// MockLinkRepository is a mock implementation of linking.LinkRepository
type MockLinkRepository struct {
	mock.Mock
}

func (m *MockLinkRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*linking.LineLink, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*linking.LineLink), args.Error(1)
}

func (m *MockLinkRepository) FindByLineUserID(ctx context.Context, lineUserID string) (*linking.LineLink, error) {
	args := m.Called(ctx, lineUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*linking.LineLink), args.Error(1)
}

func (m *MockLinkRepository) List(ctx context.Context, limit int) ([]linking.LineLink, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]linking.LineLink), args.Error(1)
}

func (m *MockLinkRepository) CountLinked(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockLinkRepository) Upsert(ctx context.Context, link *linking.LineLink) error {
	args := m.Called(ctx, link)
	return args.Error(0)
}

func (m *MockLinkRepository) DeleteByUserID(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockLinkRepository) DeleteOrphans(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// MockUserRepository is a mock implementation of identity.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindByUsername(ctx context.Context, username string) (*identity.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*identity.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) Create(ctx context.Context, user *identity.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Update(ctx context.Context, user *identity.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

// MockProfileSink is a mock implementation of linking.ProfileSink
type MockProfileSink struct {
	mock.Mock
}

func (m *MockProfileSink) MirrorProfile(ctx context.Context, userID uuid.UUID, lineUserID, displayName, pictureURL string) error {
	args := m.Called(ctx, userID, lineUserID, displayName, pictureURL)
	return args.Error(0)
}

func (m *MockProfileSink) ReadMirroredID(ctx context.Context, userID uuid.UUID) (string, error) {
	args := m.Called(ctx, userID)
	return args.String(0), args.Error(1)
}

// MockAccessTokenVerifier is a mock implementation of AccessTokenVerifier
type MockAccessTokenVerifier struct {
	mock.Mock
}

func (m *MockAccessTokenVerifier) VerifyAccessToken(ctx context.Context, accessToken, lineUserID string) (*line.Profile, error) {
	args := m.Called(ctx, accessToken, lineUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*line.Profile), args.Error(1)
}

// MockSessionIssuer is a mock implementation of SessionIssuer
type MockSessionIssuer struct {
	mock.Mock
}

func (m *MockSessionIssuer) IssueSession(userID uuid.UUID, username string) (*auth.Session, error) {
	args := m.Called(userID, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*auth.Session), args.Error(1)
}
