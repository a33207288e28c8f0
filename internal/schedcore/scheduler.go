package schedcore

import (
	"context"
	"time"
)

// Switcher is the host-provided context-switch primitive. Implementations
// hand control to target's Context and block until the target yields back
// to the scheduler (via sleep, exit, or preemption) — the same contract
// proc.c's swtch() has. schedcore never inspects Context itself.
type Switcher interface {
	Switch(target *Process)
}

// EnforceBudget, when true, kills a process once ElapsedTime reaches
// ExecTime. Optional and off by default: the reference scheduler
// increments ElapsedTime but never enforces it.
//
// TickInterval paces the selection loop. The real kernel is driven by
// timer-interrupt hardware, not modeled here; this is the injectable
// stand-in, defaulting to 10ms, following a ticker-driven periodic-pass
// shape.
type SchedulerConfig struct {
	EnforceBudget bool
	TickInterval  time.Duration
}

// Scheduler runs one selection loop per CPU over a shared Table. Each CPU
// constructs its own Scheduler sharing the same *Table and Switcher.
type Scheduler struct {
	table  *Table
	sw     Switcher
	cfg    SchedulerConfig
	clock  *TickCounter
	onTick func(cand *Process)
}

// NewScheduler builds a per-CPU selection loop. onTick, if non-nil, is
// called (outside the table lock) after each selection with the process
// that was granted the tick — used to publish TableTick events. clock, if
// non-nil, is advanced once per tick; CPUs sharing a Table typically share
// a single clock too.
func NewScheduler(table *Table, sw Switcher, cfg SchedulerConfig, clock *TickCounter, onTick func(*Process)) *Scheduler {
	if cfg.TickInterval <= 0 {
		cfg.TickInterval = 10 * time.Millisecond
	}
	return &Scheduler{table: table, sw: sw, cfg: cfg, clock: clock, onTick: onTick}
}

// Run executes the selection loop until ctx is cancelled. Each tick:
// acquire table_lock, scan for a Runnable candidate, refine it per policy,
// grant one tick, release table_lock, then switch; table_lock is not held
// while Switch runs. An idle tick (nothing Runnable) still advances the
// clock and loops.
func (s *Scheduler) Run(ctx context.Context) {
	ticker := time.NewTicker(s.cfg.TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if s.clock != nil {
				s.clock.Advance()
			}

			cand, ok := s.selectOne()
			if !ok {
				continue
			}

			s.sw.Switch(cand)

			if s.onTick != nil {
				s.onTick(cand)
			}
		}
	}
}

// selectOne performs one full table scan: find the first Runnable process,
// then refine the choice per its policy. Returns false if no process is
// Runnable.
func (s *Scheduler) selectOne() (*Process, bool) {
	s.table.mu.Lock()
	defer s.table.mu.Unlock()

	t := s.table
	var cand *Process
	for i := range t.procs {
		if t.procs[i].State == Runnable {
			cand = &t.procs[i]
			break
		}
	}
	if cand == nil {
		return nil, false
	}

	switch cand.Policy {
	case PolicyEDF:
		for i := range t.procs {
			q := &t.procs[i]
			if q.State != Runnable {
				continue
			}
			if q.Deadline < cand.Deadline || (q.Deadline == cand.Deadline && q.PID < cand.PID) {
				cand = q
			}
		}
	case PolicyRM:
		for i := range t.procs {
			q := &t.procs[i]
			if q.State != Runnable {
				continue
			}
			if q.Priority < cand.Priority || (q.Priority == cand.Priority && q.PID < cand.PID) {
				cand = q
			}
		}
	default:
		// PolicyNone: round-robin, first-found, run as-is.
	}

	cand.ElapsedTime++
	if s.cfg.EnforceBudget && cand.ElapsedTime >= cand.ExecTime {
		cand.Killed = true
	}

	cand.State = Running
	return cand, true
}
