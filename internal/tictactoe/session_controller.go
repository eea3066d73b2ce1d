package tictactoe

import (
	"fmt"
	"time"

	"github.com/rocketscienceinc/tictactoe-impossible/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-impossible/internal/engine"
	"github.com/rocketscienceinc/tictactoe-impossible/internal/entity"
)

// MakeTurn - places mark into cell and updates the outcome, scores and turn.
func MakeTurn(session *entity.Session, mark entity.Mark, cell int) error {
	if session.IsFinished() {
		return apperror.ErrGameFinished
	}

	if err := validateMove(session, mark, cell); err != nil {
		return fmt.Errorf("invalid turn: %w", err)
	}

	session.Board[cell] = mark
	session.Started = true
	updateSessionStatus(session, mark)

	return nil
}

// ComputerTurn - plays the search's choice for the computer and returns the chosen cell.
func ComputerTurn(session *entity.Session) (int, error) {
	if !session.IsComputerTurn() {
		return engine.NoMove, apperror.ErrNotComputerTurn
	}

	mark := session.ComputerMark()

	cell, ok := engine.BestMoveFor(session.Board, mark)
	if !ok {
		return engine.NoMove, apperror.ErrNoMoveAvailable
	}

	if err := MakeTurn(session, mark, cell); err != nil {
		return engine.NoMove, fmt.Errorf("computer failed to make turn: %w", err)
	}

	return cell, nil
}

// Hint - best move for the side on turn.
func Hint(session *entity.Session) (engine.Move, error) {
	if session.IsFinished() {
		return engine.Move{Cell: engine.NoMove}, apperror.ErrGameFinished
	}

	move, ok := engine.Analyze(session.Board, session.Turn)
	if !ok {
		return move, apperror.ErrNoMoveAvailable
	}

	return move, nil
}

// Restart - clears the board, X moves first and the human plays X again. Scores are kept.
func Restart(session *entity.Session) {
	resetBoard(session)
	session.HumanMark = entity.MarkX
	session.Started = false
}

// SetMode - switches the mode, which also zeroes the scores and restarts.
func SetMode(session *entity.Session, mode string) error {
	if !entity.IsValidMode(mode) {
		return fmt.Errorf("%w: %q", apperror.ErrInvalidMode, mode)
	}

	session.Mode = mode
	session.Scores = entity.Scores{}
	Restart(session)

	return nil
}

// SetHumanMark - the human picks a side against the computer, which starts a fresh board.
// With O chosen the computer is on turn afterwards.
func SetHumanMark(session *entity.Session, mark entity.Mark) error {
	if !mark.IsValid() {
		return fmt.Errorf("%w: %q", apperror.ErrInvalidMark, mark)
	}

	if !session.IsWithComputer() || session.IsFinished() {
		return apperror.ErrMarkSelectLocked
	}

	resetBoard(session)
	session.HumanMark = mark
	session.Started = true

	return nil
}

func validateMove(session *entity.Session, mark entity.Mark, cell int) error {
	if !entity.IsValidCell(cell) {
		return fmt.Errorf("%w: cell %d", apperror.ErrInvalidCell, cell)
	}

	if session.Turn != mark {
		return apperror.ErrNotYourTurn
	}

	if !session.Board.IsEmptyCell(cell) {
		return apperror.ErrCellOccupied
	}

	return nil
}

func updateSessionStatus(session *entity.Session, mark entity.Mark) {
	session.Outcome = engine.Evaluate(session.Board)
	session.UpdatedAt = time.Now()

	if session.Outcome.IsTerminal() {
		session.AddScore(session.Outcome)
		return
	}

	session.Turn = mark.Opponent()
}

func resetBoard(session *entity.Session) {
	session.Board = entity.Board{}
	session.Turn = entity.MarkX
	session.Outcome = entity.NoResult()
	session.UpdatedAt = time.Now()
}
