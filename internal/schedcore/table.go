// Package schedcore implements the real-time process table, the EDF/RM
// admission controller, and the per-CPU selection loop for the teaching
// kernel's scheduler. It has no dependency on an actual kernel: the trap
// dispatcher, context switch, and timer hardware are injected by the host.
package schedcore

import (
	"sync"

	"github.com/google/uuid"
)

// State is one of the six process states the host kernel's process
// descriptor can be in.
type State int

const (
	Unused State = iota
	Embryo
	Sleeping
	Runnable
	Running
	Zombie
)

func (s State) String() string {
	switch s {
	case Unused:
		return "unused"
	case Embryo:
		return "embryo"
	case Sleeping:
		return "sleeping"
	case Runnable:
		return "runnable"
	case Running:
		return "running"
	case Zombie:
		return "zombie"
	default:
		return "unknown"
	}
}

// Policy is the scheduling policy a process has been admitted under.
type Policy int

const (
	// PolicyNone is the initial policy: the process is scheduled
	// round-robin, first-found, on every tick.
	PolicyNone Policy = iota
	PolicyEDF
	PolicyRM
)

func (p Policy) String() string {
	switch p {
	case PolicyEDF:
		return "edf"
	case PolicyRM:
		return "rm"
	default:
		return "none"
	}
}

// Process is one slot of the fixed-size process table. All fields are
// mutated only while the owning Table's lock is held, except Context and
// Chan which are host/kernel-managed handoff values this package never
// interprets.
type Process struct {
	PID  int
	Name string
	// CorrelationID tags every event/audit row emitted for this process.
	// It has no effect on any scheduling decision.
	CorrelationID uuid.UUID

	State  State
	Policy Policy

	Deadline     uint64
	ExecTime     uint64
	ElapsedTime  uint64
	Rate         uint64
	Priority     int
	ArrivalTime  uint64
	Killed       bool

	ParentPID int
	Chan      interface{} // sleep channel identity, set by Sleep/Wakeup

	// Context is an opaque handoff value the host context-switch routine
	// uses to resume this process. schedcore never dereferences it.
	Context interface{}
}

// resetRT resets a descriptor's real-time fields to the defaults a freshly
// forked Embryo carries.
func (p *Process) resetRT() {
	p.Policy = PolicyNone
	p.Priority = 1
	p.ExecTime = 1
	p.Deadline = 0
	p.ElapsedTime = 0
	p.Rate = 0
	p.ArrivalTime = 0
	p.Killed = false
}

// Table is the fixed-size, singly-locked process table. One instance is
// shared by every CPU's selection loop.
type Table struct {
	mu sync.Mutex

	procs  []Process
	nproc  int
	nextPID int

	// utilEDF is aggregate EDF utilization in percent-utilization units
	// (0-100). utilRM is aggregate RM utilization in milli-utilization
	// units (x1000). Guarded by mu exactly like the rest of the table.
	utilEDF int
	utilRM  int
}

// NewTable allocates a table with nproc slots (typically 64, the teaching
// kernel's N_PROC). All slots start Unused.
func NewTable(nproc int) *Table {
	return &Table{
		procs:   make([]Process, nproc),
		nproc:   nproc,
		nextPID: 1,
	}
}

// NProc returns the fixed slot count.
func (t *Table) NProc() int { return t.nproc }

// Alloc finds an Unused slot, marks it Embryo with the default RT fields,
// and assigns it the next pid. Returns nil if the table is full, mirroring
// proc.c's allocproc returning 0.
func (t *Table) Alloc(name string, parentPID int) *Process {
	t.mu.Lock()
	defer t.mu.Unlock()

	for i := range t.procs {
		if t.procs[i].State == Unused {
			p := &t.procs[i]
			p.PID = t.nextPID
			t.nextPID++
			p.Name = name
			p.CorrelationID = uuid.New()
			p.ParentPID = parentPID
			p.State = Embryo
			p.resetRT()
			return p
		}
	}
	return nil
}

// Finalize transitions an Embryo to Runnable once the host fork routine has
// finished setting up its address space.
func (t *Table) Finalize(pid int) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	p := t.find(pid)
	if p == nil {
		return false
	}
	p.State = Runnable
	return true
}

// Release clears a Zombie slot back to Unused, making it reusable. Mirrors
// proc.c's wait() cleanup.
func (t *Table) Release(pid int) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	p := t.find(pid)
	if p == nil || p.State != Zombie {
		return false
	}
	*p = Process{}
	return true
}

// find locates a descriptor by pid. Caller must hold mu. Linear scan is
// acceptable given N_PROC <= 64.
func (t *Table) find(pid int) *Process {
	for i := range t.procs {
		if t.procs[i].State != Unused && t.procs[i].PID == pid {
			return &t.procs[i]
		}
	}
	return nil
}

// Get returns a copy of the descriptor for pid, for read-only inspection
// (e.g. the monitor surface). The bool is false if pid is not allocated.
func (t *Table) Get(pid int) (Process, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	p := t.find(pid)
	if p == nil {
		return Process{}, false
	}
	return *p, true
}

// Utilization returns the current aggregate utilization counters.
func (t *Table) Utilization() (utilEDF, utilRM int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.utilEDF, t.utilRM
}

// AdmittedRM counts processes currently admitted under PolicyRM, for the
// schedmetrics report. The RMCountActual admission mode counts the same
// way under the already-held lock (countRMLocked); the default
// RMCountPIDProxy mode uses pid-2 instead.
func (t *Table) AdmittedRM() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	n := 0
	for i := range t.procs {
		if t.procs[i].State != Unused && t.procs[i].Policy == PolicyRM {
			n++
		}
	}
	return n
}

// Snapshot returns the printinfo-equivalent view: every non-Unused,
// non-Embryo, non-Zombie descriptor, matching proc.c's printinfo() filter
// (Sleeping, Running, Runnable only).
func (t *Table) Snapshot() []Process {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make([]Process, 0, t.nproc)
	for i := range t.procs {
		switch t.procs[i].State {
		case Sleeping, Running, Runnable:
			out = append(out, t.procs[i])
		}
	}
	return out
}
