package engine

import "github.com/rocketscienceinc/tictactoe-impossible/internal/entity"

const (
	// NoMove - cell returned when the board has no empty cell.
	NoMove = -1

	winScore = 10
)

// Move - a suggested cell with its minimax value for the moving side.
type Move struct {
	Cell  int `json:"cell"`
	Score int `json:"score"`
}

// BestMove - keeps the fixed convention: the search maximizes for O and minimizes for X.
// Callers whose computer plays X canonicalize the board first, see Canonicalize.
func BestMove(board entity.Board) (int, bool) {
	return BestMoveFor(board, entity.MarkO)
}

// BestMoveFor - best cell for mark to play on board.
func BestMoveFor(board entity.Board, mark entity.Mark) (int, bool) {
	move, ok := Analyze(board, mark)
	return move.Cell, ok
}

// Analyze - runs full-depth minimax with mark as the maximizing side. Cells are tried in
// ascending order and only a strictly greater value replaces the current choice, so the
// first cell wins ties. Returns NoMove and false on a full board.
func Analyze(board entity.Board, mark entity.Mark) (Move, bool) {
	best := Move{Cell: NoMove}

	// board is a private copy, the search places and removes marks on it in place
	for cell := range board {
		if board[cell] != entity.MarkEmpty {
			continue
		}

		board[cell] = mark
		score := minimax(&board, 0, false, mark)
		board[cell] = entity.MarkEmpty

		if best.Cell == NoMove || score > best.Score {
			best = Move{Cell: cell, Score: score}
		}
	}

	return best, best.Cell != NoMove
}

// Canonicalize - maps the board to the fixed convention where the computer plays O.
func Canonicalize(board entity.Board, computer entity.Mark) entity.Board {
	if computer == entity.MarkX {
		return board.Swapped()
	}
	return board
}

// minimax - depth-aware value of board for maxMark: faster wins and slower losses score higher.
func minimax(board *entity.Board, depth int, maximizing bool, maxMark entity.Mark) int {
	if winner, _, ok := completedLine(board); ok {
		if winner == maxMark {
			return winScore - depth
		}
		return depth - winScore
	}

	if board.IsFull() {
		return 0
	}

	mark := maxMark
	if !maximizing {
		mark = maxMark.Opponent()
	}

	best := 0
	found := false
	for cell := range board {
		if board[cell] != entity.MarkEmpty {
			continue
		}

		board[cell] = mark
		score := minimax(board, depth+1, !maximizing, maxMark)
		board[cell] = entity.MarkEmpty

		if !found || (maximizing && score > best) || (!maximizing && score < best) {
			best = score
			found = true
		}
	}

	return best
}
