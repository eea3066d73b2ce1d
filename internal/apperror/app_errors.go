package apperror

import "errors"

var (
	ErrGameFinished     = errors.New("game is already finished")
	ErrNotYourTurn      = errors.New("it's not your turn")
	ErrNotComputerTurn  = errors.New("it's not the computer's turn")
	ErrCellOccupied     = errors.New("cell is already occupied")
	ErrInvalidCell      = errors.New("invalid cell index")
	ErrInvalidMark      = errors.New("invalid mark")
	ErrInvalidBoard     = errors.New("invalid board")
	ErrInvalidMode      = errors.New("invalid game mode")
	ErrNoMoveAvailable  = errors.New("no move available")
	ErrSessionNotFound  = errors.New("session not found")
	ErrSessionConflict  = errors.New("session was changed by another request")
	ErrMarkSelectLocked = errors.New("mark can only be selected against the computer before the game is over")
)

// Root - the innermost error of a wrapping chain, usually one of the sentinels above.
func Root(err error) error {
	for {
		next := errors.Unwrap(err)
		if next == nil {
			return err
		}
		err = next
	}
}
