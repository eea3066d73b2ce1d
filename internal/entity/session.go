package entity

import "time"

const (
	ModeFriend     = "friend"
	ModeImpossible = "impossible"
)

// Scores - wins per mark plus drawn games.
type Scores struct {
	X     int `json:"x"`
	O     int `json:"o"`
	Draws int `json:"draws"`
}

type Nicknames struct {
	X string `json:"x"`
	O string `json:"o"`
}

// Session - state of one table: the board, whose turn it is and the running score.
type Session struct {
	ID        string    `json:"id"`
	Board     Board     `json:"board"`
	Turn      Mark      `json:"turn"`
	Mode      string    `json:"mode"`
	HumanMark Mark      `json:"human_mark"`
	Scores    Scores    `json:"scores"`
	Started   bool      `json:"started"`
	Outcome   Outcome   `json:"outcome"`
	Nicknames Nicknames `json:"nicknames"`
	UpdatedAt time.Time `json:"updated_at"`

	// Version - bumped by the store on every write, a stale copy cannot overwrite a newer one.
	Version int64 `json:"version"`
}

func NewSession(id, mode string) *Session {
	return &Session{
		ID:        id,
		Turn:      MarkX,
		Mode:      mode,
		HumanMark: MarkX,
		Outcome:   NoResult(),
		UpdatedAt: time.Now(),
	}
}

func IsValidMode(mode string) bool {
	return mode == ModeFriend || mode == ModeImpossible
}

func (that *Session) IsFinished() bool {
	return that.Outcome.IsTerminal()
}

func (that *Session) IsWithComputer() bool {
	return that.Mode == ModeImpossible
}

// ComputerMark - mark played by the computer, empty in friend mode.
func (that *Session) ComputerMark() Mark {
	if !that.IsWithComputer() {
		return MarkEmpty
	}
	return that.HumanMark.Opponent()
}

// IsComputerTurn - the computer has to move next.
func (that *Session) IsComputerTurn() bool {
	return that.IsWithComputer() && that.Started && !that.IsFinished() && that.Turn != that.HumanMark
}

func (that *Session) AddScore(outcome Outcome) {
	switch {
	case outcome.IsDraw():
		that.Scores.Draws++
	case outcome.Winner == MarkX:
		that.Scores.X++
	case outcome.Winner == MarkO:
		that.Scores.O++
	}
}
