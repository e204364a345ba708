package rest

import (
	"github.com/promoplay/tictactoe-backend/internal/entity"
	"github.com/promoplay/tictactoe-backend/internal/service"
)

type newGameRequest struct {
	PlayerID       string `json:"player_id"`
	TelegramChatID string `json:"telegram_chat_id"`
}

type moveRequest struct {
	GameID int64 `json:"game_id"`
	Row    int   `json:"row"`
	Column int   `json:"column"`
}

type moveResponse struct {
	Success      bool                  `json:"success"`
	Message      string                `json:"message,omitempty"`
	Game         *entity.Game          `json:"game,omitempty"`
	ComputerMove *service.ComputerMove `json:"computer_move,omitempty"`
	PromoCode    string                `json:"promo_code,omitempty"`
}

type promoCheckResponse struct {
	Code  string `json:"code"`
	Valid bool   `json:"valid"`
}

type promoUseResponse struct {
	Code    string `json:"code"`
	Success bool   `json:"success"`
}

type errorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
