package terminal

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/rocketscienceinc/tictactoe-impossible/internal/entity"
)

const rowSeparator = "---+---+---"

func (that *Game) render() {
	var b strings.Builder

	b.WriteString("\n")
	for row := 0; row < 3; row++ {
		cells := make([]string, 3)
		for col := 0; col < 3; col++ {
			cells[col] = " " + that.cell(row*3+col) + " "
		}
		b.WriteString(strings.Join(cells, "|"))
		b.WriteString("\n")
		if row < 2 {
			b.WriteString(rowSeparator + "\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(that.scoreLine())
	b.WriteString("\n")
	b.WriteString(that.turnLine())
	b.WriteString("\n")
	b.WriteString(that.status)
	b.WriteString("\n> ")

	that.print(b.String())
}

func (that *Game) cell(index int) string {
	mark := that.session.Board[index]

	if mark == entity.MarkEmpty {
		return that.out.String(strconv.Itoa(index + 1)).Faint().String()
	}

	style := that.out.String(string(mark)).Bold()
	switch {
	case that.onWinningLine(index):
		style = style.Foreground(that.out.Color(colorLine)).Reverse()
	case mark == entity.MarkX:
		style = style.Foreground(that.out.Color(colorX))
	default:
		style = style.Foreground(that.out.Color(colorO))
	}

	return style.String()
}

func (that *Game) onWinningLine(index int) bool {
	line := that.session.Outcome.Line
	if line == nil {
		return false
	}

	for _, cell := range line {
		if cell == index {
			return true
		}
	}

	return false
}

func (that *Game) scoreLine() string {
	s := that.session
	return fmt.Sprintf("X %s %d : %d %s O   draws %d", s.Nicknames.X, s.Scores.X, s.Scores.O, s.Nicknames.O, s.Scores.Draws)
}

func (that *Game) turnLine() string {
	s := that.session

	switch {
	case s.Outcome.IsWin():
		return fmt.Sprintf("game over, %s wins", s.Outcome.Winner)
	case s.Outcome.IsDraw():
		return "game over, draw"
	case s.IsWithComputer() && !s.Started:
		return fmt.Sprintf("mode %s, pick x/o or start playing", s.Mode)
	default:
		return fmt.Sprintf("mode %s, %s to move", s.Mode, s.Turn)
	}
}

func (that *Game) print(s string) {
	if _, err := that.out.WriteString(s); err != nil {
		that.logger.Error("failed to write output", "error", err)
	}
}
