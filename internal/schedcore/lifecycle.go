package schedcore

// Lifecycle implements the process state-machine glue: fork, exit, wait,
// kill, sleep, wakeup. It operates on the shared Table; the host kernel is
// responsible for the VM/fd/trap side effects these hooks don't model.
type Lifecycle struct {
	table *Table
	// initPID is the designated reparent target for orphaned children on
	// exit, mirroring proc.c's initproc.
	initPID int
}

func NewLifecycle(table *Table, initPID int) *Lifecycle {
	return &Lifecycle{table: table, initPID: initPID}
}

// Fork allocates a child Embryo, finalizes it to Runnable, and returns its
// pid. Returns 0 if the table has no free slot (host translates this to
// fork() returning -1).
func (l *Lifecycle) Fork(name string, parentPID int) int {
	p := l.table.Alloc(name, parentPID)
	if p == nil {
		return 0
	}
	pid := p.PID
	l.table.Finalize(pid)
	return pid
}

// Exit transitions curPID to Zombie, wakes a parent sleeping in Wait, and
// reparents curPID's children to initPID — mirroring proc.c's exit().
func (l *Lifecycle) Exit(curPID int) {
	t := l.table
	t.mu.Lock()
	defer t.mu.Unlock()

	cur := t.find(curPID)
	if cur == nil {
		return
	}

	for i := range t.procs {
		p := &t.procs[i]
		if p.State == Unused {
			continue
		}
		if p.ParentPID == curPID {
			p.ParentPID = l.initPID
		}
	}

	l.wakeupLocked(cur.ParentPID)
	cur.State = Zombie
}

// Wait reaps the first Zombie child of parentPID, releasing its slot. The
// bool is false if parentPID has no children at all (host then sleeps the
// caller on itself — Sleep(parentPID, parentPID) — if it does have
// children but none are Zombie yet; Exit wakes that channel identity when
// a child exits, mirroring proc.c's wakeup1(curproc->parent) paired with
// wait()'s sleep(curproc, ...)).
func (l *Lifecycle) Wait(parentPID int) (pid int, hasChildren bool) {
	t := l.table
	t.mu.Lock()
	defer t.mu.Unlock()

	for i := range t.procs {
		p := &t.procs[i]
		if p.State == Unused || p.ParentPID != parentPID {
			continue
		}
		hasChildren = true
		if p.State == Zombie {
			pid = p.PID
			*p = Process{}
			return pid, true
		}
	}
	return 0, hasChildren
}

// Kill marks pid killed and, if it is Sleeping, promotes it to Runnable so
// the kill is observable on its next scheduling.
func (l *Lifecycle) Kill(pid int) bool {
	t := l.table
	t.mu.Lock()
	defer t.mu.Unlock()

	p := t.find(pid)
	if p == nil {
		return false
	}
	p.Killed = true
	if p.State == Sleeping {
		p.State = Runnable
	}
	return true
}

// Sleep transitions pid to Sleeping on chan. The caller (the process
// itself, conceptually) is expected to context-switch to the scheduler
// immediately after; schedcore models only the table-state half of
// proc.c's sleep().
func (l *Lifecycle) Sleep(pid int, chan_ interface{}) bool {
	t := l.table
	t.mu.Lock()
	defer t.mu.Unlock()

	p := t.find(pid)
	if p == nil {
		return false
	}
	p.Chan = chan_
	p.State = Sleeping
	return true
}

// Wakeup promotes every Sleeping descriptor waiting on chan to Runnable.
func (l *Lifecycle) Wakeup(chan_ interface{}) {
	t := l.table
	t.mu.Lock()
	defer t.mu.Unlock()
	l.wakeupLocked(chan_)
}

// wakeupLocked is Wakeup's body for callers that already hold t.mu (Exit
// uses this to wake a parent blocked in Wait without double-locking).
func (l *Lifecycle) wakeupLocked(chan_ interface{}) {
	t := l.table
	for i := range t.procs {
		p := &t.procs[i]
		if p.State == Sleeping && p.Chan == chan_ {
			p.State = Runnable
		}
	}
}
