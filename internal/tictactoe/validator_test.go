package tictactoe

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/promoplay/tictactoe-backend/internal/apperror"
	"github.com/promoplay/tictactoe-backend/internal/entity"
)

func TestValidateMove(t *testing.T) {
	t.Run("Accepts a move on a free cell on the player's turn", func(t *testing.T) {
		// Given: a fresh in-progress game
		game := entity.NewGame("p1", "")

		// Then: a move to any free cell validates, without side effects
		require.NoError(t, ValidateMove(game, 0, 0))
		assert.Equal(t, entity.EmptyCell, game.Board.Get(0, 0))
		assert.Equal(t, 0, game.Board.OccupiedCount())
	})

	t.Run("Rejects a move against a finished game", func(t *testing.T) {
		// Given: a game in every terminal status
		for _, status := range []string{
			entity.StatusPlayerWon,
			entity.StatusComputerWon,
			entity.StatusDraw,
			entity.StatusAbandoned,
		} {
			game := entity.NewGame("p1", "")
			game.Status = status

			// Then: the move is rejected as an invalid state
			assert.ErrorIs(t, ValidateMove(game, 0, 0), apperror.ErrGameFinished, status)
		}
	})

	t.Run("Rejects a move when it is the computer's turn", func(t *testing.T) {
		// Given: a game with the computer to move
		game := entity.NewGame("p1", "")
		require.NoError(t, game.PassTurn(entity.ComputerMark))

		// Then: the externally submitted move is rejected
		assert.ErrorIs(t, ValidateMove(game, 0, 0), apperror.ErrNotYourTurn)
	})

	t.Run("Rejects out-of-range coordinates", func(t *testing.T) {
		// Given: a fresh game
		game := entity.NewGame("p1", "")

		// Then: each out-of-range coordinate pair is rejected
		for _, move := range [][2]int{{-1, 0}, {0, 3}, {3, 3}, {0, -1}, {3, 0}} {
			assert.ErrorIs(t, ValidateMove(game, move[0], move[1]), apperror.ErrCellOutOfRange)
		}
	})

	t.Run("Rejects a move on an occupied cell", func(t *testing.T) {
		// Given: a game with a mark at (1,1)
		game := entity.NewGame("p1", "")
		game.Board.Set(1, 1, entity.ComputerMark)

		// Then: the occupied cell is rejected
		assert.ErrorIs(t, ValidateMove(game, 1, 1), apperror.ErrCellOccupied)
	})

	t.Run("Status is checked before turn, turn before range, range before occupancy", func(t *testing.T) {
		// Given: a finished game with the computer to move and an occupied target
		game := entity.NewGame("p1", "")
		game.Board.Set(0, 0, entity.PlayerMark)
		game.Turn = entity.ComputerMark
		game.Status = entity.StatusDraw

		// Then: the invalid state wins over every later check
		assert.ErrorIs(t, ValidateMove(game, 0, 0), apperror.ErrGameFinished)

		// And: with the game in progress the turn check comes next
		game.Status = entity.StatusInProgress
		assert.ErrorIs(t, ValidateMove(game, -1, 0), apperror.ErrNotYourTurn)

		// And: on the player's turn the range check precedes occupancy
		game.Turn = entity.PlayerMark
		assert.ErrorIs(t, ValidateMove(game, -1, 0), apperror.ErrCellOutOfRange)
		assert.ErrorIs(t, ValidateMove(game, 0, 0), apperror.ErrCellOccupied)
	})
}
