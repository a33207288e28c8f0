package schedcore

// Kernel bundles a Table with the config needed to service the real-time
// syscall surface: set_deadline, set_exec_time, set_rate, set_policy,
// printinfo. It is the thing a syscall dispatcher (supplied by the host
// kernel, not modeled here) would hold one instance of, process-wide.
type Kernel struct {
	Table *Table
	Clock Clock
	RMCountMode RMCountMode

	// OnDecision, if set, is invoked outside the table lock after every
	// SetPolicy call, whether accepted or rejected.
	OnDecision func(AdmissionDecision)
}

// NewKernel wires a Table to a Clock for syscall dispatch.
func NewKernel(table *Table, clock Clock) *Kernel {
	return &Kernel{Table: table, Clock: clock, RMCountMode: RMCountPIDProxy}
}

// SetDeadline overwrites deadline with no validation. Returns 0 on
// success, -22 (Einval) if pid is not found.
func (k *Kernel) SetDeadline(pid int, deadline uint64) int {
	t := k.Table
	t.mu.Lock()
	defer t.mu.Unlock()

	p := t.find(pid)
	if p == nil {
		return -22
	}
	p.Deadline = deadline
	return 0
}

// SetExecTime overwrites exec_time with no validation.
func (k *Kernel) SetExecTime(pid int, execTime uint64) int {
	t := k.Table
	t.mu.Lock()
	defer t.mu.Unlock()

	p := t.find(pid)
	if p == nil {
		return -22
	}
	p.ExecTime = execTime
	return 0
}

// SetRate overwrites rate and recomputes priority via RatePriority.
func (k *Kernel) SetRate(pid int, rate uint64) int {
	t := k.Table
	t.mu.Lock()
	defer t.mu.Unlock()

	p := t.find(pid)
	if p == nil {
		return -22
	}
	p.Rate = rate
	p.Priority = RatePriority(rate)
	return 0
}

// SetPolicy runs admission and returns 0 on acceptance, -22 on rejection
// (the target is also killed) or unknown pid. Must be called after
// SetExecTime/SetDeadline/SetRate, since admission reads their final
// values — calling it earlier admits against stale/default fields.
func (k *Kernel) SetPolicy(pid int, policy Policy) int {
	now := uint64(0)
	if k.Clock != nil {
		now = k.Clock.Now()
	}

	decision, err := k.Table.SetPolicy(pid, policy, now, k.RMCountMode)
	if k.OnDecision != nil {
		k.OnDecision(decision)
	}
	if err != nil {
		return -22
	}
	return 0
}

// PrintInfo returns the printinfo-equivalent snapshot. The real syscall
// dumps to the console and returns 22; console rendering isn't modeled
// here, so the caller renders the snapshot itself (the monitor surface
// renders it as JSON).
func (k *Kernel) PrintInfo() (snapshot []Process, code int) {
	return k.Table.Snapshot(), 22
}
