package entity

import "time"

// PlayerTelegramLink maps a player id to the Telegram chat that receives
// game notifications. One active chat per player, overwritten on update.
type PlayerTelegramLink struct {
	PlayerID       string    `json:"player_id"`
	TelegramChatID string    `json:"telegram_chat_id"`
	CreatedAt      time.Time `json:"created_at"`
	LastUpdated    time.Time `json:"last_updated"`
}
