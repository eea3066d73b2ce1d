package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	petname "github.com/dustinkirkland/golang-petname"
	"github.com/google/uuid"

	"github.com/rocketscienceinc/tictactoe-impossible/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-impossible/internal/engine"
	"github.com/rocketscienceinc/tictactoe-impossible/internal/entity"
	"github.com/rocketscienceinc/tictactoe-impossible/internal/tictactoe"
)

const computerNickname = "computer"

type sessionRepo interface {
	CreateOrUpdate(ctx context.Context, session *entity.Session) error
	GetByID(ctx context.Context, id string) (*entity.Session, error)
	DeleteByID(ctx context.Context, id string) error
}

type GameManager struct {
	logger      *slog.Logger
	sessionRepo sessionRepo
	locks       *sessionLocks

	computerDelay time.Duration
}

func NewGameManager(logger *slog.Logger, sessionRepo sessionRepo, computerDelay time.Duration) *GameManager {
	return &GameManager{
		logger: logger.With("component", "game_manager"),

		sessionRepo:   sessionRepo,
		locks:         newSessionLocks(),
		computerDelay: computerDelay,
	}
}

func (that *GameManager) CreateSession(ctx context.Context, mode string) (*entity.Session, error) {
	if mode == "" {
		mode = entity.ModeImpossible
	}

	if !entity.IsValidMode(mode) {
		return nil, fmt.Errorf("%w: %q", apperror.ErrInvalidMode, mode)
	}

	session := entity.NewSession(uuid.NewString(), mode)
	assignNicknames(session)

	if err := that.sessionRepo.CreateOrUpdate(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	that.logger.Debug("session created", "sessionID", session.ID, "mode", mode)

	return session, nil
}

func (that *GameManager) GetSession(ctx context.Context, id string) (*entity.Session, error) {
	session, err := that.sessionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	return session, nil
}

func (that *GameManager) DeleteSession(ctx context.Context, id string) error {
	if err := that.sessionRepo.DeleteByID(ctx, id); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	return nil
}

// MakeTurn - places the mark of the side on turn. Against the computer only the human
// may call it, and the computer replies within the same call.
func (that *GameManager) MakeTurn(ctx context.Context, id string, cell int) (*entity.Session, error) {
	return that.update(ctx, id, func(session *entity.Session) error {
		mark := session.Turn
		if session.IsWithComputer() {
			if session.IsComputerTurn() {
				return apperror.ErrNotYourTurn
			}
			mark = session.HumanMark
		}

		if err := tictactoe.MakeTurn(session, mark, cell); err != nil {
			return fmt.Errorf("failed to make turn: %w", err)
		}

		return that.replyIfComputerTurn(ctx, session)
	})
}

// ComputerTurn - lets the computer move when it is on turn.
func (that *GameManager) ComputerTurn(ctx context.Context, id string) (*entity.Session, error) {
	return that.update(ctx, id, func(session *entity.Session) error {
		if !session.IsComputerTurn() {
			return apperror.ErrNotComputerTurn
		}

		return that.replyIfComputerTurn(ctx, session)
	})
}

// SelectMark - the human picks a side against the computer. Picking O lets the computer open.
func (that *GameManager) SelectMark(ctx context.Context, id string, mark entity.Mark) (*entity.Session, error) {
	return that.update(ctx, id, func(session *entity.Session) error {
		if err := tictactoe.SetHumanMark(session, mark); err != nil {
			return fmt.Errorf("failed to select mark: %w", err)
		}
		assignNicknames(session)

		return that.replyIfComputerTurn(ctx, session)
	})
}

func (that *GameManager) SetMode(ctx context.Context, id, mode string) (*entity.Session, error) {
	return that.update(ctx, id, func(session *entity.Session) error {
		if err := tictactoe.SetMode(session, mode); err != nil {
			return fmt.Errorf("failed to set mode: %w", err)
		}
		assignNicknames(session)

		return nil
	})
}

func (that *GameManager) Restart(ctx context.Context, id string) (*entity.Session, error) {
	return that.update(ctx, id, func(session *entity.Session) error {
		tictactoe.Restart(session)
		assignNicknames(session)

		return nil
	})
}

// Hint - the search's choice for the side on turn.
func (that *GameManager) Hint(ctx context.Context, id string) (engine.Move, error) {
	session, err := that.GetSession(ctx, id)
	if err != nil {
		return engine.Move{Cell: engine.NoMove}, err
	}

	move, err := tictactoe.Hint(session)
	if err != nil {
		return move, fmt.Errorf("failed to get hint: %w", err)
	}

	return move, nil
}

func (that *GameManager) replyIfComputerTurn(ctx context.Context, session *entity.Session) error {
	if !session.IsComputerTurn() {
		return nil
	}

	log := that.logger.With("method", "replyIfComputerTurn", "sessionID", session.ID)

	if err := that.wait(ctx); err != nil {
		return fmt.Errorf("computer turn interrupted: %w", err)
	}

	cell, err := tictactoe.ComputerTurn(session)
	if err != nil {
		return fmt.Errorf("computer failed to make turn: %w", err)
	}

	log.Debug("computer moved", "cell", cell, "mark", session.ComputerMark())

	return nil
}

func (that *GameManager) wait(ctx context.Context) error {
	if that.computerDelay <= 0 {
		return nil
	}

	timer := time.NewTimer(that.computerDelay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// update - runs change on the stored session and writes it back while holding the
// session's lock, so overlapping requests on one session apply one after another.
func (that *GameManager) update(
	ctx context.Context, id string, change func(session *entity.Session) error,
) (*entity.Session, error) {
	unlock, err := that.locks.lock(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to lock session: %w", err)
	}
	defer unlock()

	session, err := that.GetSession(ctx, id)
	if err != nil {
		return nil, err
	}

	if err = change(session); err != nil {
		return nil, err
	}

	if err = that.updateSession(ctx, session); err != nil {
		return nil, err
	}

	return session, nil
}

func (that *GameManager) updateSession(ctx context.Context, session *entity.Session) error {
	if err := that.sessionRepo.CreateOrUpdate(ctx, session); err != nil {
		return fmt.Errorf("failed to update session: %w", err)
	}

	if session.IsFinished() {
		that.logger.Info("game finished",
			"sessionID", session.ID,
			"result", session.Outcome.Result,
			"winner", session.Outcome.Winner,
		)
	}

	return nil
}

// assignNicknames - random names for human seats, the computer keeps its own.
func assignNicknames(session *entity.Session) {
	if session.Nicknames.X == "" || session.Nicknames.X == computerNickname {
		session.Nicknames.X = petname.Generate(2, "-")
	}
	if session.Nicknames.O == "" || session.Nicknames.O == computerNickname {
		session.Nicknames.O = petname.Generate(2, "-")
	}

	switch session.ComputerMark() {
	case entity.MarkX:
		session.Nicknames.X = computerNickname
	case entity.MarkO:
		session.Nicknames.O = computerNickname
	}
}

// IsClientError - errors caused by the request rather than the server.
func IsClientError(err error) bool {
	for _, target := range []error{
		apperror.ErrInvalidCell,
		apperror.ErrInvalidMark,
		apperror.ErrInvalidMode,
		apperror.ErrInvalidBoard,
		apperror.ErrCellOccupied,
		apperror.ErrNotYourTurn,
		apperror.ErrNotComputerTurn,
		apperror.ErrGameFinished,
		apperror.ErrMarkSelectLocked,
		apperror.ErrSessionNotFound,
		apperror.ErrSessionConflict,
		apperror.ErrNoMoveAvailable,
	} {
		if errors.Is(err, target) {
			return true
		}
	}

	return false
}
