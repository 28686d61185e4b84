package notify

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/lineshop/backend/internal/domain/linking"
	"github.com/lineshop/backend/internal/domain/notification"
	"github.com/lineshop/backend/internal/domain/trade"
	"github.com/lineshop/backend/internal/infrastructure/config"
	"github.com/lineshop/backend/internal/infrastructure/line"
)

// MockLinkReader is a mock implementation of linking.LinkReader
type MockLinkReader struct {
	mock.Mock
}

func (m *MockLinkReader) FindByUserID(ctx context.Context, userID uuid.UUID) (*linking.LineLink, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*linking.LineLink), args.Error(1)
}

func (m *MockLinkReader) FindByLineUserID(ctx context.Context, lineUserID string) (*linking.LineLink, error) {
	args := m.Called(ctx, lineUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*linking.LineLink), args.Error(1)
}

func (m *MockLinkReader) List(ctx context.Context, limit int) ([]linking.LineLink, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]linking.LineLink), args.Error(1)
}

func (m *MockLinkReader) CountLinked(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// MockPusher is a mock implementation of MessagePusher
type MockPusher struct {
	mock.Mock
}

func (m *MockPusher) PushFlex(ctx context.Context, lineUserID, altText string, bubble *notification.Bubble) error {
	args := m.Called(ctx, lineUserID, altText, bubble)
	return args.Error(0)
}

func (m *MockPusher) PushText(ctx context.Context, lineUserID, text string) error {
	args := m.Called(ctx, lineUserID, text)
	return args.Error(0)
}

func (m *MockPusher) VerifyChannelToken(ctx context.Context) (*line.BotInfo, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*line.BotInfo), args.Error(1)
}

// MockNoteWriter is a mock implementation of trade.OrderNoteWriter
type MockNoteWriter struct {
	mock.Mock
}

func (m *MockNoteWriter) AddOrderNote(ctx context.Context, orderID uuid.UUID, note string) error {
	args := m.Called(ctx, orderID, note)
	return args.Error(0)
}

func notifierConfig() config.LineConfig {
	return config.LineConfig{
		EnableOrderNotification: true,
		EnabledStatuses:         []string{"processing", "completed", "cancelled"},
	}
}

func newNotifier(cfg config.LineConfig) (*Notifier, *MockLinkReader, *MockPusher, *MockNoteWriter) {
	links := new(MockLinkReader)
	pusher := new(MockPusher)
	notes := new(MockNoteWriter)
	return NewNotifier(cfg, links, pusher, notes, zap.NewNop()), links, pusher, notes
}

func sampleOrder() *trade.OrderSnapshot {
	return &trade.OrderSnapshot{
		ID:         uuid.New(),
		Number:     "1001",
		CustomerID: uuid.New(),
		Items:      []trade.OrderItem{{Name: "Widget", Quantity: 2}},
		Total:      decimal.NewFromInt(500),
		Currency:   "TWD",
		Status:     trade.OrderStatusPending,
	}
}

func sampleLink(t *testing.T, userID uuid.UUID) *linking.LineLink {
	t.Helper()
	link, err := linking.NewLineLink(userID, "U1234", "小明", "")
	require.NoError(t, err)
	return link
}

func TestOnOrderCreated(t *testing.T) {
	svc, links, pusher, notes := newNotifier(notifierConfig())
	order := sampleOrder()

	links.On("FindByUserID", mock.Anything, order.CustomerID).Return(sampleLink(t, order.CustomerID), nil)
	pusher.On("PushFlex", mock.Anything, "U1234", "訂單建立成功通知", mock.Anything).Return(nil)
	notes.On("AddOrderNote", mock.Anything, order.ID, "LINE 訂單建立通知已發送").Return(nil)

	err := svc.OnOrderCreated(context.Background(), order)

	assert.NoError(t, err)
	pusher.AssertExpectations(t)
	notes.AssertExpectations(t)
}

func TestOnOrderCreatedDisabled(t *testing.T) {
	cfg := notifierConfig()
	cfg.EnableOrderNotification = false
	svc, _, pusher, _ := newNotifier(cfg)

	err := svc.OnOrderCreated(context.Background(), sampleOrder())

	assert.NoError(t, err)
	pusher.AssertNotCalled(t, "PushFlex", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestOnOrderCreatedGuestOrder(t *testing.T) {
	svc, _, pusher, _ := newNotifier(notifierConfig())
	order := sampleOrder()
	order.CustomerID = uuid.Nil

	err := svc.OnOrderCreated(context.Background(), order)

	assert.NoError(t, err)
	pusher.AssertNotCalled(t, "PushFlex", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestOnOrderCreatedUnlinkedCustomer(t *testing.T) {
	svc, links, pusher, _ := newNotifier(notifierConfig())
	order := sampleOrder()

	links.On("FindByUserID", mock.Anything, order.CustomerID).Return(nil, linking.ErrLinkNotFound)

	err := svc.OnOrderCreated(context.Background(), order)

	assert.NoError(t, err)
	pusher.AssertNotCalled(t, "PushFlex", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestOnOrderCreatedPushFailureRecordsNote(t *testing.T) {
	svc, links, pusher, notes := newNotifier(notifierConfig())
	order := sampleOrder()

	links.On("FindByUserID", mock.Anything, order.CustomerID).Return(sampleLink(t, order.CustomerID), nil)
	pusher.On("PushFlex", mock.Anything, "U1234", mock.Anything, mock.Anything).Return(assert.AnError)
	notes.On("AddOrderNote", mock.Anything, order.ID, mock.MatchedBy(func(note string) bool {
		return len(note) > 0 && note != "LINE 訂單建立通知已發送"
	})).Return(nil)

	err := svc.OnOrderCreated(context.Background(), order)

	assert.Error(t, err)
	notes.AssertExpectations(t)
}

func TestOnOrderStatusChanged(t *testing.T) {
	svc, links, pusher, notes := newNotifier(notifierConfig())
	order := sampleOrder()

	links.On("FindByUserID", mock.Anything, order.CustomerID).Return(sampleLink(t, order.CustomerID), nil)
	pusher.On("PushFlex", mock.Anything, "U1234", "訂單狀態更新通知", mock.Anything).Return(nil)
	notes.On("AddOrderNote", mock.Anything, order.ID, "LINE 訂單狀態更新通知已發送").Return(nil)

	err := svc.OnOrderStatusChanged(context.Background(), order, trade.OrderStatusCompleted)

	assert.NoError(t, err)
	pusher.AssertExpectations(t)
}

func TestOnOrderStatusChangedFilteredStatus(t *testing.T) {
	svc, _, pusher, _ := newNotifier(notifierConfig())

	err := svc.OnOrderStatusChanged(context.Background(), sampleOrder(), trade.OrderStatusRefunded)

	assert.NoError(t, err)
	pusher.AssertNotCalled(t, "PushFlex", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestOnOrderCreatedNoteFailureIsNotFatal(t *testing.T) {
	svc, links, pusher, notes := newNotifier(notifierConfig())
	order := sampleOrder()

	links.On("FindByUserID", mock.Anything, order.CustomerID).Return(sampleLink(t, order.CustomerID), nil)
	pusher.On("PushFlex", mock.Anything, "U1234", mock.Anything, mock.Anything).Return(nil)
	notes.On("AddOrderNote", mock.Anything, order.ID, mock.Anything).Return(assert.AnError)

	err := svc.OnOrderCreated(context.Background(), order)

	assert.NoError(t, err)
}

func TestSendTestMessage(t *testing.T) {
	svc, _, pusher, _ := newNotifier(notifierConfig())

	pusher.On("PushFlex", mock.Anything, "Uadmin", "LINE 通知測試訊息", mock.Anything).Return(nil)

	assert.NoError(t, svc.SendTestMessage(context.Background(), "Uadmin"))
	pusher.AssertExpectations(t)
}

func TestSendTestText(t *testing.T) {
	svc, _, pusher, _ := newNotifier(notifierConfig())

	pusher.On("PushText", mock.Anything, "Uadmin", "哈囉").Return(nil)

	assert.NoError(t, svc.SendTestText(context.Background(), "Uadmin", "哈囉"))
	pusher.AssertExpectations(t)
}

func TestVerifyChannelToken(t *testing.T) {
	svc, _, pusher, _ := newNotifier(notifierConfig())

	pusher.On("VerifyChannelToken", mock.Anything).Return(&line.BotInfo{BasicID: "@lineshop"}, nil)

	info, err := svc.VerifyChannelToken(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "@lineshop", info.BasicID)
}
