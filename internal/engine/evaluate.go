// Package engine holds the tic-tac-toe rules: win/draw detection and the exhaustive
// minimax search used by the computer opponent. Every function here is pure and works
// on a board value, so callers never observe intermediate search state.
package engine

import "github.com/rocketscienceinc/tictactoe-impossible/internal/entity"

// Evaluate - returns the first complete line in scan order with its mark, a draw when the
// board is full, otherwise no result.
func Evaluate(board entity.Board) entity.Outcome {
	if mark, line, ok := completedLine(&board); ok {
		return entity.Win(mark, line)
	}

	if board.IsFull() {
		return entity.Draw()
	}

	return entity.NoResult()
}

func completedLine(board *entity.Board) (entity.Mark, entity.Line, bool) {
	for _, line := range entity.Lines {
		a, b, c := board[line[0]], board[line[1]], board[line[2]]
		if a != entity.MarkEmpty && a == b && b == c {
			return a, line, true
		}
	}

	return entity.MarkEmpty, entity.Line{}, false
}
