package tictactoe

import "github.com/promoplay/tictactoe-backend/internal/entity"

// WinCombos are the eight winning triples over the board flattened row-major:
// three rows, three columns, two diagonals.
var WinCombos = [][3]int{
	{0, 1, 2},
	{3, 4, 5},
	{6, 7, 8},
	{0, 3, 6},
	{1, 4, 7},
	{2, 5, 8},
	{0, 4, 8},
	{2, 4, 6},
}

// HasWin reports whether mark fully occupies at least one winning triple.
// EmptyCell never matches.
func HasWin(board entity.Board, mark string) bool {
	if mark == entity.EmptyCell {
		return false
	}

	flat := board.Flatten()
	for _, combo := range WinCombos {
		if flat[combo[0]] == mark && flat[combo[1]] == mark && flat[combo[2]] == mark {
			return true
		}
	}

	return false
}

// IsDraw reports whether the board is full with no winner. Callers must
// check HasWin first: a board can fill up exactly on the winning move.
func IsDraw(board entity.Board) bool {
	if !board.IsFull() {
		return false
	}

	return !HasWin(board, entity.PlayerMark) && !HasWin(board, entity.ComputerMark)
}
