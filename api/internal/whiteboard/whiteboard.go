// Package whiteboard reveals the board lines of a solution one at a time.
package whiteboard

import (
	"context"
	"errors"
	"time"

	"math-teacher/api/internal/solver/types"
)

const DefaultInterval = 2500 * time.Millisecond

var (
	ErrEmptyBoard     = errors.New("whiteboard has no steps")
	ErrAlreadyStarted = errors.New("whiteboard already started")
)

type state int

const (
	idle state = iota
	running
	done
)

// Reveal describes one revealed line.
type Reveal struct {
	Index int
	Step  types.WhiteboardStep
	// Last is set only on the reveal that completes the board.
	Last bool
}

// Animator is not safe for concurrent use.
type Animator struct {
	steps   []types.WhiteboardStep
	visible int
	st      state
}

func New(steps []types.WhiteboardStep) *Animator {
	a := &Animator{}
	a.Reset(steps)
	return a
}

// Reset loads a new board and returns to idle with nothing visible.
func (a *Animator) Reset(steps []types.WhiteboardStep) {
	a.steps = append([]types.WhiteboardStep(nil), steps...)
	a.visible = 0
	a.st = idle
}

func (a *Animator) Start() error {
	if a.st != idle {
		return ErrAlreadyStarted
	}
	if len(a.steps) == 0 {
		return ErrEmptyBoard
	}
	a.st = running
	return nil
}

// Reveal exposes the next line. ok is false when the board is not running.
func (a *Animator) Reveal() (Reveal, bool) {
	if a.st != running {
		return Reveal{}, false
	}
	r := Reveal{Index: a.visible, Step: a.steps[a.visible]}
	a.visible++
	if a.visible == len(a.steps) {
		r.Last = true
		a.st = done
	}
	return r, true
}

func (a *Animator) Visible() []types.WhiteboardStep {
	return append([]types.WhiteboardStep(nil), a.steps[:a.visible]...)
}

func (a *Animator) Len() int      { return len(a.steps) }
func (a *Animator) Idle() bool    { return a.st == idle }
func (a *Animator) Running() bool { return a.st == running }
func (a *Animator) Done() bool    { return a.st == done }

// Play starts the board and reveals a line every interval until the last one or ctx ends.
func (a *Animator) Play(ctx context.Context, interval time.Duration, onReveal func(Reveal)) error {
	if err := a.Start(); err != nil {
		return err
	}
	if interval <= 0 {
		interval = DefaultInterval
	}
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
			r, ok := a.Reveal()
			if !ok {
				return nil
			}
			if onReveal != nil {
				onReveal(r)
			}
			if r.Last {
				return nil
			}
		}
	}
}
