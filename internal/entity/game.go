package entity

import (
	"fmt"
	"time"

	"github.com/promoplay/tictactoe-backend/internal/apperror"
)

const (
	StatusInProgress  = "in_progress"
	StatusPlayerWon   = "player_won"
	StatusComputerWon = "computer_won"
	StatusDraw        = "draw"
	StatusAbandoned   = "abandoned"
)

// Game is one session of a player-vs-computer match. The board is owned
// exclusively by the session; status transitions go through Finish and
// PassTurn so a terminal game can never be mutated again.
type Game struct {
	ID             int64      `json:"id"`
	PlayerID       string     `json:"player_id"`
	TelegramChatID string     `json:"telegram_chat_id,omitempty"`
	Board          Board      `json:"board"`
	Turn           string     `json:"current_player"`
	Status         string     `json:"status"`
	PromoCode      string     `json:"promo_code,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	FinishedAt     *time.Time `json:"finished_at,omitempty"`
}

func NewGame(playerID, telegramChatID string) *Game {
	return &Game{
		PlayerID:       playerID,
		TelegramChatID: telegramChatID,
		Turn:           PlayerMark,
		Status:         StatusInProgress,
		CreatedAt:      time.Now().UTC(),
	}
}

func (that *Game) IsInProgress() bool {
	return that.Status == StatusInProgress
}

func (that *Game) IsFinished() bool {
	switch that.Status {
	case StatusPlayerWon, StatusComputerWon, StatusDraw, StatusAbandoned:
		return true
	default:
		return false
	}
}

// Finish moves the game into a terminal status and stamps FinishedAt.
// Only an in-progress game may finish, and only into a terminal status.
func (that *Game) Finish(status string, at time.Time) error {
	if !that.IsInProgress() {
		return fmt.Errorf("%w: game %d is %s", apperror.ErrGameFinished, that.ID, that.Status)
	}

	switch status {
	case StatusPlayerWon, StatusComputerWon, StatusDraw, StatusAbandoned:
	default:
		return fmt.Errorf("%w: %q is not terminal", apperror.ErrUnknownStatus, status)
	}

	finishedAt := at.UTC()
	that.Status = status
	that.FinishedAt = &finishedAt
	that.Turn = EmptyCell

	return nil
}

// PassTurn hands the move to the given mark. Terminal games keep their turn frozen.
func (that *Game) PassTurn(mark string) error {
	if !that.IsInProgress() {
		return fmt.Errorf("%w: game %d is %s", apperror.ErrGameFinished, that.ID, that.Status)
	}

	that.Turn = mark

	return nil
}

// Duration is how long the game ran; zero until the game finishes.
func (that *Game) Duration() time.Duration {
	if that.FinishedAt == nil {
		return 0
	}

	return that.FinishedAt.Sub(that.CreatedAt)
}
