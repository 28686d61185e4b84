package notify

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/lineshop/backend/internal/domain/linking"
	"github.com/lineshop/backend/internal/domain/notification"
	"github.com/lineshop/backend/internal/domain/trade"
	"github.com/lineshop/backend/internal/infrastructure/config"
	"github.com/lineshop/backend/internal/infrastructure/line"
)

const (
	altTextOrderCreated  = "訂單建立成功通知"
	altTextStatusChanged = "訂單狀態更新通知"
	altTextTestMessage   = "LINE 通知測試訊息"
)

// MessagePusher delivers messages through the LINE platform.
type MessagePusher interface {
	PushFlex(ctx context.Context, lineUserID, altText string, bubble *notification.Bubble) error
	PushText(ctx context.Context, lineUserID, text string) error
	VerifyChannelToken(ctx context.Context) (*line.BotInfo, error)
}

// Notifier pushes order lifecycle notifications to linked LINE accounts.
type Notifier struct {
	cfg    config.LineConfig
	links  linking.LinkReader
	pusher MessagePusher
	notes  trade.OrderNoteWriter
	logger *zap.Logger
}

// NewNotifier creates a new Notifier
func NewNotifier(
	cfg config.LineConfig,
	links linking.LinkReader,
	pusher MessagePusher,
	notes trade.OrderNoteWriter,
	logger *zap.Logger,
) *Notifier {
	return &Notifier{
		cfg:    cfg,
		links:  links,
		pusher: pusher,
		notes:  notes,
		logger: logger,
	}
}

// OnOrderCreated sends the order confirmation message. Orders placed by
// guests or by accounts without a link are skipped silently.
func (n *Notifier) OnOrderCreated(ctx context.Context, order *trade.OrderSnapshot) error {
	if !n.cfg.EnableOrderNotification {
		n.logger.Debug("order notifications disabled", zap.String("order", order.Number))
		return nil
	}

	lineUserID, ok := n.recipientFor(ctx, order)
	if !ok {
		return nil
	}

	bubble := notification.OrderCreatedMessage(order)
	if err := n.pusher.PushFlex(ctx, lineUserID, altTextOrderCreated, bubble); err != nil {
		n.logger.Error("order created notification failed",
			zap.String("order", order.Number),
			zap.Error(err))
		n.recordNote(ctx, order, fmt.Sprintf("LINE 訂單建立通知發送失敗: %v", err))
		return err
	}

	n.recordNote(ctx, order, "LINE 訂單建立通知已發送")
	return nil
}

// OnOrderStatusChanged sends a status update message when the new
// status is in the configured allow list.
func (n *Notifier) OnOrderStatusChanged(ctx context.Context, order *trade.OrderSnapshot, newStatus trade.OrderStatus) error {
	if !n.cfg.StatusEnabled(string(newStatus)) {
		n.logger.Debug("status not in notification list",
			zap.String("order", order.Number),
			zap.String("status", string(newStatus)))
		return nil
	}

	lineUserID, ok := n.recipientFor(ctx, order)
	if !ok {
		return nil
	}

	bubble := notification.StatusChangedMessage(order, newStatus)
	if err := n.pusher.PushFlex(ctx, lineUserID, altTextStatusChanged, bubble); err != nil {
		n.logger.Error("status change notification failed",
			zap.String("order", order.Number),
			zap.String("status", string(newStatus)),
			zap.Error(err))
		n.recordNote(ctx, order, fmt.Sprintf("LINE 訂單狀態更新通知發送失敗: %v", err))
		return err
	}

	n.recordNote(ctx, order, "LINE 訂單狀態更新通知已發送")
	return nil
}

// SendTestMessage pushes a canned confirmation bubble so operators can
// verify the channel end to end.
func (n *Notifier) SendTestMessage(ctx context.Context, lineUserID string) error {
	return n.pusher.PushFlex(ctx, lineUserID, altTextTestMessage, notification.TestMessage())
}

// SendTestText pushes a plain text message, for checking delivery
// without the flex rendering in the way.
func (n *Notifier) SendTestText(ctx context.Context, lineUserID, text string) error {
	return n.pusher.PushText(ctx, lineUserID, text)
}

// VerifyChannelToken checks the configured channel access token.
func (n *Notifier) VerifyChannelToken(ctx context.Context) (*line.BotInfo, error) {
	return n.pusher.VerifyChannelToken(ctx)
}

// recipientFor resolves the LINE user ID for an order's customer.
func (n *Notifier) recipientFor(ctx context.Context, order *trade.OrderSnapshot) (string, bool) {
	if order.IsGuest() {
		n.logger.Info("skipping guest order", zap.String("order", order.Number))
		return "", false
	}

	link, err := n.links.FindByUserID(ctx, order.CustomerID)
	if err != nil {
		if errors.Is(err, linking.ErrLinkNotFound) {
			n.logger.Info("customer has no linked LINE account",
				zap.String("order", order.Number),
				zap.String("customer_id", order.CustomerID.String()))
		} else {
			n.logger.Error("link lookup failed",
				zap.String("order", order.Number),
				zap.Error(err))
		}
		return "", false
	}
	return link.LineUserID, true
}

// recordNote annotates the order; a note failure never masks the
// delivery outcome.
func (n *Notifier) recordNote(ctx context.Context, order *trade.OrderSnapshot, note string) {
	if n.notes == nil {
		return
	}
	if err := n.notes.AddOrderNote(ctx, order.ID, note); err != nil {
		n.logger.Warn("failed to record order note",
			zap.String("order", order.Number),
			zap.Error(err))
	}
}
