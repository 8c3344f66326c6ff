package lesson

import (
	"time"

	"math-teacher/api/internal/solver"
	"math-teacher/api/internal/solver/types"
)

// Token identifies the operation an asynchronous result belongs to. Generation changes on every
// submit and language change; Narration changes whenever the running narration is replaced.
type Token struct {
	Generation uint64
	Narration  uint64
}

// Event is an input to Machine.Handle.
type Event interface{ event() }

// Submit asks for a new solve of the given problem.
type Submit struct {
	Text  string
	Image string
}

type SolveFailed struct {
	Token Token
	Err   error
}

// SolutionReady carries a parsed solution back from the solve call.
type SolutionReady struct {
	Token    Token
	Solution types.Solution
}

type NarrationDone struct {
	Token Token
}

// StartBoard is the user pressing the whiteboard start button.
type StartBoard struct{}

type BoardTick struct {
	Token Token
}

type SetLanguage struct {
	Lang types.Language
}

type ToggleLanguage struct{}

func (Submit) event()         {}
func (SolveFailed) event()    {}
func (SolutionReady) event()  {}
func (NarrationDone) event()  {}
func (StartBoard) event()     {}
func (BoardTick) event()      {}
func (SetLanguage) event()    {}
func (ToggleLanguage) event() {}

// Effect is work the caller must perform for the machine.
type Effect interface{ effect() }

// Solve calls the engine; the result comes back as SolutionReady or SolveFailed with Token.
type Solve struct {
	Token   Token
	Request solver.Request
}

// Narrate speaks Script to the end and then reports NarrationDone with Token.
type Narrate struct {
	Token  Token
	Script string
	Lang   types.Language
}

// ScheduleReveal delivers BoardTick with Token after After.
type ScheduleReveal struct {
	Token Token
	After time.Duration
}

// Cancel aborts in-flight work of the flagged kinds.
type Cancel struct {
	Solve     bool
	Narration bool
	Board     bool
}

var CancelAll = Cancel{Solve: true, Narration: true, Board: true}

func (Solve) effect()          {}
func (Narrate) effect()        {}
func (ScheduleReveal) effect() {}
func (Cancel) effect()         {}
