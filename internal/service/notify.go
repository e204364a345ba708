package service

import "context"

type NotificationKind string

const (
	NotifyWin     NotificationKind = "win"
	NotifyLose    NotificationKind = "lose"
	NotifyDraw    NotificationKind = "draw"
	NotifyNewCode NotificationKind = "new_code"
)

// Notifier delivers out-of-band game notifications. Implementations are
// best-effort: the gameplay flow logs delivery failures and moves on,
// it never fails a move because a notification could not be sent.
type Notifier interface {
	Notify(ctx context.Context, chatID string, kind NotificationKind, payload string) error
}
