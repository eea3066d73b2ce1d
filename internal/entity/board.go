package entity

import (
	"fmt"

	"github.com/rocketscienceinc/tictactoe-impossible/internal/apperror"
)

const (
	MarkEmpty Mark = ""
	MarkX     Mark = "X"
	MarkO     Mark = "O"
)

// BoardSize - number of cells on the 3x3 board.
const BoardSize = 9

// Lines - the 8 winning triples in scan order: rows, columns, then the two diagonals.
var Lines = [8]Line{
	{0, 1, 2},
	{3, 4, 5},
	{6, 7, 8},
	{0, 3, 6},
	{1, 4, 7},
	{2, 5, 8},
	{0, 4, 8},
	{2, 4, 6},
}

// Mark - content of a single cell.
type Mark string

// Line - three board indices forming a win.
type Line [3]int

// Board - cells in row-major order (0,1,2 / 3,4,5 / 6,7,8).
type Board [BoardSize]Mark

func (that Mark) IsValid() bool {
	return that == MarkX || that == MarkO
}

// IsValidCell - a mark that may sit in a cell, empty included.
func (that Mark) IsValidCell() bool {
	return that == MarkEmpty || that.IsValid()
}

// Opponent - returns the other mark, empty stays empty.
func (that Mark) Opponent() Mark {
	switch that {
	case MarkX:
		return MarkO
	case MarkO:
		return MarkX
	default:
		return MarkEmpty
	}
}

func (that Mark) String() string {
	if that == MarkEmpty {
		return "-"
	}
	return string(that)
}

func (that *Board) IsEmptyCell(cell int) bool {
	return that[cell] == MarkEmpty
}

// EmptyCells - indices of empty cells in ascending order.
func (that *Board) EmptyCells() []int {
	cells := make([]int, 0, BoardSize)
	for i, mark := range that {
		if mark == MarkEmpty {
			cells = append(cells, i)
		}
	}

	return cells
}

func (that *Board) IsFull() bool {
	for _, mark := range that {
		if mark == MarkEmpty {
			return false
		}
	}

	return true
}

// Swapped - returns a copy of the board with X and O exchanged.
func (that Board) Swapped() Board {
	for i, mark := range that {
		that[i] = mark.Opponent()
	}

	return that
}

// IsValidCell - reports whether cell is a board index.
func IsValidCell(cell int) bool {
	return cell >= 0 && cell < BoardSize
}

// NewBoard - builds a board from exactly BoardSize cells, each empty, X or O.
func NewBoard(cells []Mark) (Board, error) {
	var board Board

	if len(cells) != BoardSize {
		return board, fmt.Errorf("%w: %d cells, want %d", apperror.ErrInvalidBoard, len(cells), BoardSize)
	}

	for i, mark := range cells {
		if !mark.IsValidCell() {
			return board, fmt.Errorf("%w: cell %d holds %q", apperror.ErrInvalidBoard, i, string(mark))
		}
		board[i] = mark
	}

	return board, nil
}
