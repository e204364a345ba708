package bot

import (
	"context"
	"log/slog"

	"github.com/promoplay/tictactoe-backend/internal/service"
)

// Noop stands in for the Telegram collaborator when no bot token is
// configured. Notifications are logged and discarded.
type Noop struct {
	logger *slog.Logger
}

func NewNoop(logger *slog.Logger) *Noop {
	return &Noop{logger: logger.With("component", "noop_notifier")}
}

func (that *Noop) Notify(_ context.Context, chatID string, kind service.NotificationKind, _ string) error {
	that.logger.Debug("notification discarded, telegram disabled", "chat_id", chatID, "kind", string(kind))

	return nil
}
