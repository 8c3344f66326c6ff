package lesson

import (
	"context"
	"time"

	"math-teacher/api/internal/solver"
	"math-teacher/api/internal/solver/types"
)

type (
	SolveFunc   func(ctx context.Context, req solver.Request) (types.Solution, error)
	NarrateFunc func(ctx context.Context, script string, lang types.Language)
	// ObserveFunc is called on the runner goroutine after every handled event, before its effects run.
	ObserveFunc func(ev Event, s Snapshot)
)

// Runner owns a Machine and executes its effects. All events, including results of the
// goroutines it starts, go through one channel and are handled by Run in arrival order.
type Runner struct {
	m       *Machine
	solve   SolveFunc
	narrate NarrateFunc
	observe ObserveFunc

	events chan Event
	done   chan struct{}

	cancelSolve  context.CancelFunc
	cancelNarr   context.CancelFunc
	revealTimer  *time.Timer
	solveTimeout time.Duration
}

func NewRunner(m *Machine, solve SolveFunc, narrate NarrateFunc, observe ObserveFunc) *Runner {
	return &Runner{
		m:       m,
		solve:   solve,
		narrate: narrate,
		observe: observe,
		events:  make(chan Event, 16),
		done:    make(chan struct{}),
	}
}

// WithSolveTimeout bounds each solve call; zero means only the Run context applies.
func (r *Runner) WithSolveTimeout(d time.Duration) *Runner {
	r.solveTimeout = d
	return r
}

// Send queues ev. It returns false once the runner has stopped.
func (r *Runner) Send(ev Event) bool {
	select {
	case <-r.done:
		return false
	default:
	}
	select {
	case r.events <- ev:
		return true
	case <-r.done:
		return false
	}
}

// Run processes events until ctx is done.
func (r *Runner) Run(ctx context.Context) error {
	defer close(r.done)
	defer r.exec(ctx, CancelAll)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev := <-r.events:
			effs := r.m.Handle(ev)
			if r.observe != nil {
				r.observe(ev, r.m.Snapshot())
			}
			for _, eff := range effs {
				r.exec(ctx, eff)
			}
		}
	}
}

func (r *Runner) exec(ctx context.Context, eff Effect) {
	switch e := eff.(type) {
	case Cancel:
		if e.Solve && r.cancelSolve != nil {
			r.cancelSolve()
			r.cancelSolve = nil
		}
		if e.Narration && r.cancelNarr != nil {
			r.cancelNarr()
			r.cancelNarr = nil
		}
		if e.Board && r.revealTimer != nil {
			r.revealTimer.Stop()
			r.revealTimer = nil
		}

	case Solve:
		var (
			sctx   context.Context
			cancel context.CancelFunc
		)
		if r.solveTimeout > 0 {
			sctx, cancel = context.WithTimeout(ctx, r.solveTimeout)
		} else {
			sctx, cancel = context.WithCancel(ctx)
		}
		r.cancelSolve = cancel
		go func() {
			defer cancel()
			sol, err := r.solve(sctx, e.Request)
			if err != nil {
				r.Send(SolveFailed{Token: e.Token, Err: err})
				return
			}
			r.Send(SolutionReady{Token: e.Token, Solution: sol})
		}()

	case Narrate:
		nctx, cancel := context.WithCancel(ctx)
		r.cancelNarr = cancel
		go func() {
			defer cancel()
			r.narrate(nctx, e.Script, e.Lang)
			r.Send(NarrationDone{Token: e.Token})
		}()

	case ScheduleReveal:
		r.revealTimer = time.AfterFunc(e.After, func() {
			r.Send(BoardTick{Token: e.Token})
		})
	}
}
