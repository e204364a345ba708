package tictactoe

import (
	"crypto/rand"
	"math/big"

	"github.com/promoplay/tictactoe-backend/internal/entity"
)

// corners in the fixed preference order of the strategy ladder.
var corners = [4][2]int{{0, 0}, {0, 2}, {2, 0}, {2, 2}}

// ChooseMove picks the computer's next cell. It must only be called while
// the game is in progress with at least one empty cell. The priority
// ladder, first match wins:
//
//  1. win now (first winning cell in row-major scan order)
//  2. block the player's winning cell (same scan)
//  3. center
//  4. first free corner in order (0,0) (0,2) (2,0) (2,2)
//  5. a uniformly random free cell
func ChooseMove(board entity.Board) (int, int) {
	if row, col, ok := findWinningCell(board, entity.ComputerMark); ok {
		return row, col
	}

	if row, col, ok := findWinningCell(board, entity.PlayerMark); ok {
		return row, col
	}

	if board.Get(1, 1) == entity.EmptyCell {
		return 1, 1
	}

	for _, corner := range corners {
		if board.Get(corner[0], corner[1]) == entity.EmptyCell {
			return corner[0], corner[1]
		}
	}

	return randomFreeCell(board)
}

// findWinningCell scans row-major for an empty cell that would complete a
// triple for mark. Candidates are evaluated on a clone so the caller's
// board is never touched.
func findWinningCell(board entity.Board, mark string) (int, int, bool) {
	for row := 0; row < entity.BoardSize; row++ {
		for col := 0; col < entity.BoardSize; col++ {
			if board.Get(row, col) != entity.EmptyCell {
				continue
			}

			candidate := board.Clone()
			candidate.Set(row, col, mark)

			if HasWin(candidate, mark) {
				return row, col, true
			}
		}
	}

	return 0, 0, false
}

// randomFreeCell rejection-samples until it hits an empty cell.
func randomFreeCell(board entity.Board) (int, int) {
	for {
		row := randomCoordinate()
		col := randomCoordinate()

		if board.Get(row, col) == entity.EmptyCell {
			return row, col
		}
	}
}

func randomCoordinate() int {
	n, err := rand.Int(rand.Reader, big.NewInt(entity.BoardSize))
	if err != nil {
		panic("failed to read random source: " + err.Error())
	}

	return int(n.Int64())
}
