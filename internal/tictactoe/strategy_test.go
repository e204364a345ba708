package tictactoe

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/promoplay/tictactoe-backend/internal/entity"
)

func TestChooseMove(t *testing.T) {
	const (
		X = entity.PlayerMark
		O = entity.ComputerMark
		e = entity.EmptyCell
	)

	t.Run("Takes the winning cell over a pending block", func(t *testing.T) {
		// Given: the computer can win at (0,0) while the player
		// threatens to win at (1,1)
		board := boardOf([9]string{
			e, O, O,
			X, e, X,
			e, e, e,
		})

		// When: choosing a move
		row, col := ChooseMove(board)

		// Then: winning beats blocking
		assert.Equal(t, 0, row)
		assert.Equal(t, 0, col)
	})

	t.Run("Blocks the player's winning cell exactly", func(t *testing.T) {
		// Given: only a block is available at (0,2)
		board := boardOf([9]string{
			X, X, e,
			e, e, e,
			e, e, O,
		})

		// When: choosing a move
		row, col := ChooseMove(board)

		// Then: the block cell is chosen
		assert.Equal(t, 0, row)
		assert.Equal(t, 2, col)
	})

	t.Run("Picks the first winning cell in row-major scan order", func(t *testing.T) {
		// Given: the computer can complete several lines; (0,2) comes
		// first in scan order
		board := boardOf([9]string{
			O, O, e,
			O, O, e,
			X, X, e,
		})

		row, col := ChooseMove(board)

		assert.Equal(t, 0, row)
		assert.Equal(t, 2, col)
	})

	t.Run("Takes the center on an empty board", func(t *testing.T) {
		var board entity.Board

		row, col := ChooseMove(board)

		assert.Equal(t, 1, row)
		assert.Equal(t, 1, col)
	})

	t.Run("Takes the center when nothing is at stake", func(t *testing.T) {
		// Given: a single player mark in a corner, no threats
		board := boardOf([9]string{
			X, e, e,
			e, e, e,
			e, e, e,
		})

		row, col := ChooseMove(board)

		assert.Equal(t, 1, row)
		assert.Equal(t, 1, col)
	})

	t.Run("Falls back to corners in the fixed order", func(t *testing.T) {
		// Given: the center is taken and no threats exist
		board := boardOf([9]string{
			e, e, e,
			e, X, e,
			e, e, e,
		})

		row, col := ChooseMove(board)
		assert.Equal(t, 0, row)
		assert.Equal(t, 0, col)

		// And: with (0,0) gone the next corner in order is (0,2)
		board.Set(0, 0, O)

		row, col = ChooseMove(board)
		assert.Equal(t, 0, row)
		assert.Equal(t, 2, col)
	})

	t.Run("Random fallback picks a free cell", func(t *testing.T) {
		// Given: center and all corners taken, no winning placement for
		// either side, one free cell left
		board := boardOf([9]string{
			O, X, O,
			X, X, O,
			e, O, X,
		})

		// When: choosing a move repeatedly
		for i := 0; i < 20; i++ {
			row, col := ChooseMove(board)

			// Then: the only free cell is always chosen
			assert.Equal(t, 2, row)
			assert.Equal(t, 0, col)
		}
	})

	t.Run("Never mutates the board it evaluates", func(t *testing.T) {
		// Given: a board with a block available
		board := boardOf([9]string{
			X, X, e,
			e, O, e,
			e, e, e,
		})
		before := board

		// When: choosing a move
		ChooseMove(board)

		// Then: the input board is untouched
		assert.Equal(t, before, board)
	})
}
