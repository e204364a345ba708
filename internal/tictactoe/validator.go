package tictactoe

import (
	"fmt"

	"github.com/promoplay/tictactoe-backend/internal/apperror"
	"github.com/promoplay/tictactoe-backend/internal/entity"
)

// ValidateMove checks a proposed player move against the game state.
// It has no side effects: the caller performs the board mutation only
// after validation succeeds. Only player moves arrive from outside;
// computer moves are internal and never validated here.
func ValidateMove(game *entity.Game, row, col int) error {
	if !game.IsInProgress() {
		return fmt.Errorf("%w: game %d is %s", apperror.ErrGameFinished, game.ID, game.Status)
	}

	if game.Turn != entity.PlayerMark {
		return apperror.ErrNotYourTurn
	}

	if row < 0 || row >= entity.BoardSize || col < 0 || col >= entity.BoardSize {
		return fmt.Errorf("%w: (%d, %d)", apperror.ErrCellOutOfRange, row, col)
	}

	if game.Board.Get(row, col) != entity.EmptyCell {
		return apperror.ErrCellOccupied
	}

	return nil
}
