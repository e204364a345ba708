package entity

import "fmt"

const (
	PlayerMark   = "X"
	ComputerMark = "O"

	EmptyCell = ""

	BoardSize = 3
)

// Board is a 3x3 grid of cell marks. The zero value is an empty board.
// It serializes as a 3x3 array of strings with EmptyCell for free cells.
type Board [BoardSize][BoardSize]string

// Get returns the mark at (row, col). Out-of-range coordinates are a
// programming error: callers must bounds-check user input first.
func (that *Board) Get(row, col int) string {
	if row < 0 || row >= BoardSize || col < 0 || col >= BoardSize {
		panic(fmt.Sprintf("board cell out of range: (%d, %d)", row, col))
	}

	return that[row][col]
}

// Set places mark at (row, col), same contract as Get.
func (that *Board) Set(row, col int, mark string) {
	if row < 0 || row >= BoardSize || col < 0 || col >= BoardSize {
		panic(fmt.Sprintf("board cell out of range: (%d, %d)", row, col))
	}

	that[row][col] = mark
}

func (that *Board) IsFull() bool {
	return that.OccupiedCount() == BoardSize*BoardSize
}

func (that *Board) OccupiedCount() int {
	count := 0
	for _, row := range that {
		for _, cell := range row {
			if cell != EmptyCell {
				count++
			}
		}
	}

	return count
}

// Clone returns an independent copy of the board.
func (that *Board) Clone() Board {
	return *that
}

// Flatten returns the cells row-major as a flat slice of 9 marks.
func (that *Board) Flatten() [BoardSize * BoardSize]string {
	var flat [BoardSize * BoardSize]string

	for row := 0; row < BoardSize; row++ {
		for col := 0; col < BoardSize; col++ {
			flat[row*BoardSize+col] = that[row][col]
		}
	}

	return flat
}
