package entity

import "time"

// PromoCode is the single-use reward minted when a player wins a game.
// At most one code exists per game; Used flips false to true exactly once.
type PromoCode struct {
	ID              int64      `json:"id"`
	Code            string     `json:"code"`
	GameID          int64      `json:"game_id"`
	DiscountPercent int        `json:"discount_percent"`
	Used            bool       `json:"used"`
	CreatedAt       time.Time  `json:"created_at"`
	UsedAt          *time.Time `json:"used_at,omitempty"`
}
