// Package terminal plays a session over a plain text stream: a local tty or an SSH channel.
package terminal

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	petname "github.com/dustinkirkland/golang-petname"
	"github.com/muesli/termenv"

	"github.com/rocketscienceinc/tictactoe-impossible/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-impossible/internal/entity"
	"github.com/rocketscienceinc/tictactoe-impossible/internal/tictactoe"
)

const help = "1-9 place | r restart | m mode | x/o pick side | h hint | q quit"

const (
	colorX    = "#FC5185"
	colorO    = "#364F6B"
	colorLine = "#5C8374"
)

type Game struct {
	logger  *slog.Logger
	player  string
	in      io.Reader
	out     *termenv.Output
	session *entity.Session

	status string
}

// NewGame - a fresh impossible-mode session for player. An empty player gets a random nickname.
func NewGame(logger *slog.Logger, in io.Reader, out *termenv.Output, player string) *Game {
	if player == "" {
		player = petname.Generate(2, "-")
	}

	game := &Game{
		logger:  logger.With("component", "terminal", "player", player),
		player:  player,
		in:      in,
		out:     out,
		session: entity.NewSession(player, entity.ModeImpossible),
		status:  help,
	}
	game.seatNicknames()

	return game
}

// Run - reads one command per line until q, end of input or ctx is done.
func (that *Game) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	lines := make(chan string)
	readErr := make(chan error, 1)

	go func() {
		defer close(lines)

		scanner := bufio.NewScanner(that.in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		readErr <- scanner.Err()
	}()

	that.render()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case line, ok := <-lines:
			if !ok {
				select {
				case err := <-readErr:
					return err
				default:
					return nil
				}
			}

			if quit := that.handle(strings.ToLower(strings.TrimSpace(line))); quit {
				that.print("bye\n")
				return nil
			}

			that.render()
		}
	}
}

func (that *Game) handle(command string) bool {
	var err error

	switch command {
	case "":
		return false
	case "q", "quit", "exit":
		return true
	case "r":
		tictactoe.Restart(that.session)
		that.seatNicknames()
		that.status = "new game"
	case "m":
		err = that.toggleMode()
	case "x", "o":
		err = that.pickSide(entity.Mark(strings.ToUpper(command)))
	case "h":
		err = that.hint()
	default:
		err = that.play(command)
	}

	if err != nil {
		that.status = "! " + err.Error()
		that.logger.Debug("command rejected", "command", command, "error", err)
	}

	return false
}

func (that *Game) play(command string) error {
	n, err := strconv.Atoi(command)
	if err != nil {
		return fmt.Errorf("unknown command %q, %s", command, help)
	}

	mark := that.session.Turn
	if that.session.IsWithComputer() {
		mark = that.session.HumanMark
	}

	if err = tictactoe.MakeTurn(that.session, mark, n-1); err != nil {
		return apperror.Root(err)
	}

	that.status = fmt.Sprintf("%s played %d", mark, n)

	return that.computerReply()
}

func (that *Game) pickSide(mark entity.Mark) error {
	if err := tictactoe.SetHumanMark(that.session, mark); err != nil {
		return err
	}

	that.seatNicknames()
	that.status = "you play " + string(mark)

	return that.computerReply()
}

func (that *Game) toggleMode() error {
	mode := entity.ModeFriend
	if !that.session.IsWithComputer() {
		mode = entity.ModeImpossible
	}

	if err := tictactoe.SetMode(that.session, mode); err != nil {
		return err
	}

	that.seatNicknames()
	that.status = "mode " + mode

	return nil
}

func (that *Game) hint() error {
	move, err := tictactoe.Hint(that.session)
	if err != nil {
		return err
	}

	that.status = fmt.Sprintf("hint: %d (score %d)", move.Cell+1, move.Score)

	return nil
}

func (that *Game) computerReply() error {
	if !that.session.IsComputerTurn() {
		return nil
	}

	cell, err := tictactoe.ComputerTurn(that.session)
	if err != nil {
		if errors.Is(err, apperror.ErrNoMoveAvailable) {
			return nil
		}
		return err
	}

	that.status += fmt.Sprintf(", computer played %d", cell+1)

	return nil
}

// seatNicknames - the player's name goes to the human seat, the other seat is the computer or a guest.
func (that *Game) seatNicknames() {
	other := "guest"
	if that.session.IsWithComputer() {
		other = "computer"
	}

	if that.session.IsWithComputer() && that.session.HumanMark == entity.MarkO {
		that.session.Nicknames = entity.Nicknames{X: other, O: that.player}
		return
	}

	that.session.Nicknames = entity.Nicknames{X: that.player, O: other}
}
