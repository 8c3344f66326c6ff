package lesson

import "math-teacher/api/internal/solver/types"

// Snapshot is a copy of the machine state for rendering.
type Snapshot struct {
	Status   Status
	Lang     types.Language
	Solution *types.Solution
	Headline string
	Badge    string
	Error    string

	Board        []types.WhiteboardStep // visible lines
	BoardTotal   int
	BoardStarted bool
	BoardDone    bool
}

func (m *Machine) Snapshot() Snapshot {
	s := Snapshot{
		Status:       m.status,
		Lang:         m.lang,
		Error:        m.errMsg,
		Board:        m.board.Visible(),
		BoardTotal:   m.board.Len(),
		BoardStarted: !m.board.Idle(),
		BoardDone:    m.board.Done(),
	}
	if m.solution != nil {
		sol := *m.solution
		s.Solution = &sol
		s.Headline, s.Badge = types.SplitFinalResult(sol.FinalResult)
	}
	return s
}
