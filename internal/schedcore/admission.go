package schedcore

import "errors"

// ErrInvalid is returned (as -22, Einval, at the syscall boundary) for an
// unknown pid or a rejected admission.
var ErrInvalid = errors.New("einval")

// llTable is the tabulated Liu-Layland bound LL(n), in milli-utilization
// units, for n = 1..64. The entries follow 1000 * n*(2^(1/n)-1) to within
// one unit; some sit one below its rounded value (for example LL(36)=699
// and LL(64)=696). These are fixed, observable admission-contract values —
// never recomputed at runtime.
// Values past the table are clamped to LL(64).
var llTable = [65]int{
	0, // unused index 0
	1000, 828, 779, 756, 743, 734, 728, 724, 720, 717, // 1-10
	715, 713, 711, 710, 709, 708, 707, 706, 705, 705, // 11-20
	704, 704, 703, 703, 702, 702, 702, 701, 701, 701, // 21-30
	700, 700, 700, 700, 700, 699, 699, 699, 699, 699, // 31-40
	699, 698, 698, 698, 698, 698, 698, 698, 698, 697, // 41-50
	697, 697, 697, 697, 697, 697, 697, 697, 697, 697, // 51-60
	697, 697, 696, 696, // 61-64
}

// llBound returns LL(n) for the Liu-Layland RM schedulability test, clamped
// at n>=64 to 696.
func llBound(n int) int {
	if n < 1 {
		n = 1
	}
	if n >= 64 {
		return llTable[64]
	}
	return llTable[n]
}

// RMCountMode selects how the admission controller counts the number of
// RM-admitted processes for the Liu-Layland lookup.
type RMCountMode int

const (
	// RMCountPIDProxy reproduces proc.c's n = pid-2 proxy, bugs included:
	// the process count used for the lookup tracks pid allocation order,
	// not the number of processes actually admitted under RM.
	RMCountPIDProxy RMCountMode = iota
	// RMCountActual uses the number of currently-admitted RM processes,
	// the behavior n = pid-2 was meant to approximate.
	RMCountActual
)

// AdmissionDecision is returned by SetPolicy for the caller to publish as
// an event / audit row (outside the table lock).
type AdmissionDecision struct {
	PID       int
	Policy    Policy
	Accepted  bool
	UtilEDF   int
	UtilRM    int
}

// SetPolicy runs the admission controller for pid under the requested
// policy and returns the outcome. now is the current tick, recorded as
// ArrivalTime on RM acceptance. countMode controls the n used in the RM
// Liu-Layland lookup.
//
// On EDF rejection or RM rejection the target is killed (Killed=true,
// State=Zombie) and ErrInvalid is returned; the table lock is held for the
// whole decision.
func (t *Table) SetPolicy(pid int, policy Policy, now uint64, countMode RMCountMode) (AdmissionDecision, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	p := t.find(pid)
	if p == nil {
		return AdmissionDecision{}, ErrInvalid
	}

	switch policy {
	case PolicyEDF:
		return t.admitEDF(p)
	case PolicyRM:
		return t.admitRM(p, now, countMode)
	default:
		return AdmissionDecision{}, ErrInvalid
	}
}

// admitEDF implements the EDF admission test. Caller holds mu.
func (t *Table) admitEDF(p *Process) (AdmissionDecision, error) {
	var u int
	if p.Deadline > 0 {
		u = int((100 * p.ExecTime) / p.Deadline)
	}

	t.utilEDF += u
	if t.utilEDF >= 100 {
		t.utilEDF -= u
		p.Killed = true
		p.State = Zombie
		return AdmissionDecision{PID: p.PID, Policy: PolicyEDF, Accepted: false, UtilEDF: t.utilEDF, UtilRM: t.utilRM}, ErrInvalid
	}

	p.Policy = PolicyEDF
	return AdmissionDecision{PID: p.PID, Policy: PolicyEDF, Accepted: true, UtilEDF: t.utilEDF, UtilRM: t.utilRM}, nil
}

// admitRM implements the RM admission test, including the source-faithful
// RM-count proxy. Caller holds mu.
func (t *Table) admitRM(p *Process, now uint64, countMode RMCountMode) (AdmissionDecision, error) {
	u := int(p.ExecTime) * int(p.Rate) * 10
	temp := t.utilRM + u

	var n int
	switch countMode {
	case RMCountActual:
		n = t.countRMLocked() + 1
	default:
		n = p.PID - 2
	}

	bound := llBound(n)
	if temp <= bound {
		t.utilRM = temp
		p.ArrivalTime = now
		p.Policy = PolicyRM
		return AdmissionDecision{PID: p.PID, Policy: PolicyRM, Accepted: true, UtilEDF: t.utilEDF, UtilRM: t.utilRM}, nil
	}

	p.Killed = true
	p.State = Zombie
	return AdmissionDecision{PID: p.PID, Policy: PolicyRM, Accepted: false, UtilEDF: t.utilEDF, UtilRM: t.utilRM}, ErrInvalid
}

// countRMLocked counts currently-admitted RM processes. Caller holds mu.
func (t *Table) countRMLocked() int {
	n := 0
	for i := range t.procs {
		if t.procs[i].State != Unused && t.procs[i].Policy == PolicyRM {
			n++
		}
	}
	return n
}
