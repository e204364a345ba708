package tictactoe

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/promoplay/tictactoe-backend/internal/entity"
)

// boardOf builds a board from nine marks given row-major.
func boardOf(cells [9]string) entity.Board {
	var board entity.Board
	for i, cell := range cells {
		board[i/entity.BoardSize][i%entity.BoardSize] = cell
	}

	return board
}

func TestHasWin(t *testing.T) {
	const (
		X = entity.PlayerMark
		O = entity.ComputerMark
		e = entity.EmptyCell
	)

	t.Run("Detects each of the eight winning triples", func(t *testing.T) {
		// Given: one board per triple, fully occupied by the player
		winningBoards := map[string][9]string{
			"top row":       {X, X, X, e, e, e, e, e, e},
			"middle row":    {e, e, e, X, X, X, e, e, e},
			"bottom row":    {e, e, e, e, e, e, X, X, X},
			"left column":   {X, e, e, X, e, e, X, e, e},
			"middle column": {e, X, e, e, X, e, e, X, e},
			"right column":  {e, e, X, e, e, X, e, e, X},
			"main diagonal": {X, e, e, e, X, e, e, e, X},
			"anti diagonal": {e, e, X, e, X, e, X, e, e},
		}

		for name, cells := range winningBoards {
			t.Run(name, func(t *testing.T) {
				board := boardOf(cells)

				// Then: the triple wins for its mark and only its mark
				assert.True(t, HasWin(board, X))
				assert.False(t, HasWin(board, O))
			})
		}
	})

	t.Run("Detects a computer win", func(t *testing.T) {
		board := boardOf([9]string{O, O, O, X, X, e, e, e, X})
		assert.True(t, HasWin(board, O))
	})

	t.Run("No false positive on a full board without a triple", func(t *testing.T) {
		// Given: a legal draw board
		board := boardOf([9]string{
			O, X, O,
			X, X, O,
			X, O, X,
		})

		// Then: neither mark has a win
		assert.False(t, HasWin(board, X))
		assert.False(t, HasWin(board, O))
	})

	t.Run("Empty mark never matches", func(t *testing.T) {
		var board entity.Board
		assert.False(t, HasWin(board, entity.EmptyCell))
	})
}

func TestIsDraw(t *testing.T) {
	const (
		X = entity.PlayerMark
		O = entity.ComputerMark
		e = entity.EmptyCell
	)

	t.Run("A full board without a winner is a draw", func(t *testing.T) {
		board := boardOf([9]string{
			O, X, O,
			X, X, O,
			X, O, X,
		})

		assert.True(t, IsDraw(board))
	})

	t.Run("A board with free cells is not a draw", func(t *testing.T) {
		board := boardOf([9]string{X, O, e, e, e, e, e, e, e})
		assert.False(t, IsDraw(board))
	})

	t.Run("A full board with a winner is not a draw", func(t *testing.T) {
		// Given: a board filled exactly on the winning move
		board := boardOf([9]string{
			X, X, X,
			O, O, X,
			X, O, O,
		})

		assert.False(t, IsDraw(board))
		assert.True(t, HasWin(board, X))
	})
}
