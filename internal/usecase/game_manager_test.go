package usecase

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-impossible/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-impossible/internal/entity"
	"github.com/rocketscienceinc/tictactoe-impossible/internal/repository"
)

var errRedisDown = errors.New("redis down")

type mockSessionRepo struct {
	mock.Mock
}

func (that *mockSessionRepo) CreateOrUpdate(ctx context.Context, session *entity.Session) error {
	args := that.Called(ctx, session)
	return args.Error(0)
}

func (that *mockSessionRepo) GetByID(ctx context.Context, id string) (*entity.Session, error) {
	args := that.Called(ctx, id)

	session, _ := args.Get(0).(*entity.Session)
	return session, args.Error(1)
}

func (that *mockSessionRepo) DeleteByID(ctx context.Context, id string) error {
	args := that.Called(ctx, id)
	return args.Error(0)
}

func newLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func newManager() *GameManager {
	return NewGameManager(newLogger(), repository.NewMemorySessionRepository(time.Minute), 0)
}

func TestGameManager_CreateSession(t *testing.T) {
	ctx := context.Background()

	t.Run("Stores a new impossible session by default", func(t *testing.T) {
		// Given: a repository accepting any session
		repo := &mockSessionRepo{}
		repo.On("CreateOrUpdate", mock.Anything, mock.AnythingOfType("*entity.Session")).Return(nil).Once()
		manager := NewGameManager(newLogger(), repo, 0)

		// When: creating a session without a mode
		session, err := manager.CreateSession(ctx, "")

		// Then: an impossible session with an id and nicknames is returned
		require.NoError(t, err)
		assert.NotEmpty(t, session.ID)
		assert.Equal(t, entity.ModeImpossible, session.Mode)
		assert.NotEmpty(t, session.Nicknames.X)
		assert.Equal(t, computerNickname, session.Nicknames.O)
		repo.AssertExpectations(t)
	})

	t.Run("Rejects an unknown mode", func(t *testing.T) {
		repo := &mockSessionRepo{}
		manager := NewGameManager(newLogger(), repo, 0)

		_, err := manager.CreateSession(ctx, "easy")

		require.ErrorIs(t, err, apperror.ErrInvalidMode)
		repo.AssertNotCalled(t, "CreateOrUpdate", mock.Anything, mock.Anything)
	})

	t.Run("Returns storage errors", func(t *testing.T) {
		repo := &mockSessionRepo{}
		repo.On("CreateOrUpdate", mock.Anything, mock.Anything).Return(errRedisDown).Once()
		manager := NewGameManager(newLogger(), repo, 0)

		session, err := manager.CreateSession(ctx, entity.ModeFriend)

		require.ErrorIs(t, err, errRedisDown)
		assert.Nil(t, session)
	})
}

func TestGameManager_MakeTurn(t *testing.T) {
	ctx := context.Background()

	t.Run("Computer answers the human in the same call", func(t *testing.T) {
		// Given: a new game against the computer
		manager := newManager()
		session, err := manager.CreateSession(ctx, entity.ModeImpossible)
		require.NoError(t, err)

		// When: the human plays the center
		session, err = manager.MakeTurn(ctx, session.ID, 4)

		// Then: the computer has answered and the human is on turn again
		require.NoError(t, err)
		assert.Len(t, session.Board.EmptyCells(), 7)
		assert.Equal(t, entity.MarkX, session.Turn)

		// And: the stored session matches
		stored, err := manager.GetSession(ctx, session.ID)
		require.NoError(t, err)
		assert.Equal(t, session.Board, stored.Board)
	})

	t.Run("Friend mode alternates marks", func(t *testing.T) {
		manager := newManager()
		session, err := manager.CreateSession(ctx, entity.ModeFriend)
		require.NoError(t, err)

		session, err = manager.MakeTurn(ctx, session.ID, 0)
		require.NoError(t, err)
		session, err = manager.MakeTurn(ctx, session.ID, 1)
		require.NoError(t, err)

		assert.Equal(t, entity.MarkX, session.Board[0])
		assert.Equal(t, entity.MarkO, session.Board[1])
		assert.Equal(t, entity.MarkX, session.Turn)
	})

	t.Run("Rejects occupied cell", func(t *testing.T) {
		manager := newManager()
		session, err := manager.CreateSession(ctx, entity.ModeFriend)
		require.NoError(t, err)
		_, err = manager.MakeTurn(ctx, session.ID, 0)
		require.NoError(t, err)

		_, err = manager.MakeTurn(ctx, session.ID, 0)

		require.ErrorIs(t, err, apperror.ErrCellOccupied)
		assert.True(t, IsClientError(err))
	})

	t.Run("Unknown session", func(t *testing.T) {
		manager := newManager()

		_, err := manager.MakeTurn(ctx, "missing", 0)

		require.ErrorIs(t, err, apperror.ErrSessionNotFound)
	})

	t.Run("The human cannot win", func(t *testing.T) {
		// Given: a game against the computer
		manager := newManager()
		session, err := manager.CreateSession(ctx, entity.ModeImpossible)
		require.NoError(t, err)

		// When: the human keeps playing the highest empty cell
		for !session.IsFinished() {
			empty := session.Board.EmptyCells()
			session, err = manager.MakeTurn(ctx, session.ID, empty[len(empty)-1])
			require.NoError(t, err)
		}

		// Then: the computer won or drew
		assert.NotEqual(t, entity.MarkX, session.Outcome.Winner)
		assert.Equal(t, 0, session.Scores.X)

		// And: further turns are refused
		_, err = manager.MakeTurn(ctx, session.ID, 0)
		assert.ErrorIs(t, err, apperror.ErrGameFinished)
	})
}

func TestGameManager_SelectMark(t *testing.T) {
	ctx := context.Background()

	t.Run("Computer opens when the human picks O", func(t *testing.T) {
		manager := newManager()
		session, err := manager.CreateSession(ctx, entity.ModeImpossible)
		require.NoError(t, err)

		session, err = manager.SelectMark(ctx, session.ID, entity.MarkO)

		require.NoError(t, err)
		assert.Equal(t, entity.MarkO, session.HumanMark)
		assert.Equal(t, entity.MarkO, session.Turn)
		assert.Len(t, session.Board.EmptyCells(), 8)
		assert.Equal(t, computerNickname, session.Nicknames.X)
		assert.NotEqual(t, computerNickname, session.Nicknames.O)
	})

	t.Run("Friend mode refuses mark selection", func(t *testing.T) {
		manager := newManager()
		session, err := manager.CreateSession(ctx, entity.ModeFriend)
		require.NoError(t, err)

		_, err = manager.SelectMark(ctx, session.ID, entity.MarkO)

		assert.ErrorIs(t, err, apperror.ErrMarkSelectLocked)
	})
}

func TestGameManager_ComputerTurn(t *testing.T) {
	ctx := context.Background()

	t.Run("Refused when the human is on turn", func(t *testing.T) {
		manager := newManager()
		session, err := manager.CreateSession(ctx, entity.ModeImpossible)
		require.NoError(t, err)

		_, err = manager.ComputerTurn(ctx, session.ID)

		assert.ErrorIs(t, err, apperror.ErrNotComputerTurn)
	})

	t.Run("Cancelled context interrupts the delay", func(t *testing.T) {
		// Given: a stored session where the computer is on turn
		repo := repository.NewMemorySessionRepository(time.Minute)
		session := entity.NewSession("1", entity.ModeImpossible)
		session.HumanMark = entity.MarkO
		session.Started = true
		require.NoError(t, repo.CreateOrUpdate(context.Background(), session))

		manager := NewGameManager(newLogger(), repo, time.Hour)
		cancelled, cancel := context.WithCancel(context.Background())
		cancel()

		// When: asking the computer to move with a cancelled context
		_, err := manager.ComputerTurn(cancelled, session.ID)

		// Then: the wait is interrupted
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestGameManager_RestartAndMode(t *testing.T) {
	ctx := context.Background()
	manager := newManager()

	session, err := manager.CreateSession(ctx, entity.ModeFriend)
	require.NoError(t, err)
	for _, cell := range []int{0, 3, 1, 4, 2} {
		session, err = manager.MakeTurn(ctx, session.ID, cell)
		require.NoError(t, err)
	}
	require.Equal(t, entity.Scores{X: 1}, session.Scores)

	// restart keeps scores
	session, err = manager.Restart(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.Board{}, session.Board)
	assert.Equal(t, entity.Scores{X: 1}, session.Scores)

	// mode switch zeroes them
	session, err = manager.SetMode(ctx, session.ID, entity.ModeImpossible)
	require.NoError(t, err)
	assert.Equal(t, entity.Scores{}, session.Scores)
	assert.Equal(t, computerNickname, session.Nicknames.O)

	_, err = manager.SetMode(ctx, session.ID, "easy")
	assert.ErrorIs(t, err, apperror.ErrInvalidMode)
}

func TestGameManager_Hint(t *testing.T) {
	ctx := context.Background()
	manager := newManager()

	session, err := manager.CreateSession(ctx, entity.ModeFriend)
	require.NoError(t, err)
	for _, cell := range []int{0, 4, 1} {
		_, err = manager.MakeTurn(ctx, session.ID, cell)
		require.NoError(t, err)
	}

	move, err := manager.Hint(ctx, session.ID)

	require.NoError(t, err)
	assert.Equal(t, 2, move.Cell)
}

func TestGameManager_DeleteSession(t *testing.T) {
	ctx := context.Background()
	manager := newManager()

	session, err := manager.CreateSession(ctx, entity.ModeFriend)
	require.NoError(t, err)

	require.NoError(t, manager.DeleteSession(ctx, session.ID))

	_, err = manager.GetSession(ctx, session.ID)
	assert.ErrorIs(t, err, apperror.ErrSessionNotFound)
}

func TestGameManager_OverlappingRequests(t *testing.T) {
	ctx := context.Background()

	t.Run("Overlapping turns on one session are both applied", func(t *testing.T) {
		// Given: a game against a computer that takes a while to answer
		manager := NewGameManager(newLogger(), repository.NewMemorySessionRepository(time.Minute), 50*time.Millisecond)
		session, err := manager.CreateSession(ctx, entity.ModeImpossible)
		require.NoError(t, err)

		// When: two turns arrive at the same time
		var wg sync.WaitGroup
		errs := make([]error, 2)
		for i, cell := range []int{0, 8} {
			i, cell := i, cell
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, errs[i] = manager.MakeTurn(ctx, session.ID, cell)
			}()
		}
		wg.Wait()

		// Then: both succeed and both moves and both replies are on the stored board
		require.NoError(t, errs[0])
		require.NoError(t, errs[1])

		stored, err := manager.GetSession(ctx, session.ID)
		require.NoError(t, err)

		x, o, e := entity.MarkX, entity.MarkO, entity.MarkEmpty
		assert.Equal(t, entity.Board{x, o, e, e, o, e, e, e, x}, stored.Board)
		assert.Equal(t, entity.MarkX, stored.Turn)
		assert.Equal(t, int64(3), stored.Version)

		// And: no lock is left behind
		assert.Zero(t, manager.locks.len())
	})

	t.Run("A waiting request gives up when its context ends", func(t *testing.T) {
		// Given: a session another request is working on
		manager := newManager()
		session, err := manager.CreateSession(ctx, entity.ModeFriend)
		require.NoError(t, err)

		unlock, err := manager.locks.lock(ctx, session.ID)
		require.NoError(t, err)

		// When: a turn waits with a short deadline
		waitCtx, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
		defer cancel()
		_, err = manager.MakeTurn(waitCtx, session.ID, 0)

		// Then: it fails without touching the board
		require.ErrorIs(t, err, context.DeadlineExceeded)
		unlock()

		stored, err := manager.GetSession(ctx, session.ID)
		require.NoError(t, err)
		assert.Equal(t, entity.Board{}, stored.Board)
		assert.Zero(t, manager.locks.len())
	})

	t.Run("Stale write from another instance is reported", func(t *testing.T) {
		// Given: a store that refuses the write as stale
		repo := &mockSessionRepo{}
		repo.On("GetByID", mock.Anything, "1").Return(entity.NewSession("1", entity.ModeFriend), nil).Once()
		repo.On("CreateOrUpdate", mock.Anything, mock.Anything).Return(apperror.ErrSessionConflict).Once()
		manager := NewGameManager(newLogger(), repo, 0)

		// When: making a turn
		_, err := manager.MakeTurn(ctx, "1", 0)

		// Then: the conflict reaches the caller as a client error
		require.ErrorIs(t, err, apperror.ErrSessionConflict)
		assert.True(t, IsClientError(err))
		repo.AssertExpectations(t)
	})
}
