package entity

const (
	ResultNone = "none"
	ResultWin  = "win"
	ResultDraw = "draw"
)

// Outcome - result of evaluating a board.
type Outcome struct {
	Result string `json:"result"`
	Winner Mark   `json:"winner,omitempty"`
	Line   *Line  `json:"line,omitempty"`
}

func NoResult() Outcome {
	return Outcome{Result: ResultNone}
}

func Win(mark Mark, line Line) Outcome {
	return Outcome{Result: ResultWin, Winner: mark, Line: &line}
}

func Draw() Outcome {
	return Outcome{Result: ResultDraw}
}

func (that Outcome) IsWin() bool {
	return that.Result == ResultWin
}

func (that Outcome) IsDraw() bool {
	return that.Result == ResultDraw
}

// IsTerminal - the game is over, either won or drawn.
func (that Outcome) IsTerminal() bool {
	return that.IsWin() || that.IsDraw()
}
