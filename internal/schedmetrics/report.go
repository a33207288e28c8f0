// Package schedmetrics reports process-table utilization as fixed-point
// percentages, using decimal wrappers so utilization math never touches
// float64 on its way out to an operator's dashboard.
package schedmetrics

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/coursework/rtkernel/internal/schedcore"
)

// Report is a point-in-time snapshot of table-wide scheduling pressure.
type Report struct {
	NProc          int
	Admitted       int
	RunningOrReady int
	UtilEDFPct     decimal.Decimal
	UtilRMPct      decimal.Decimal
	RMAdmittedN    int
}

// hundred is reused to avoid repeated decimal.NewFromInt allocation.
var hundred = decimal.NewFromInt(100)

// Collect builds a Report from a live Table snapshot. util_edf is already
// an integer percentage and util_rm an integer milli-utilization (per
// mille); this wraps util_edf as is and divides util_rm by 10 to give
// percentages, leaving the underlying admission math untouched.
func Collect(t *schedcore.Table) Report {
	edf, rm := t.Utilization()

	snap := t.Snapshot()
	running := 0
	for _, p := range snap {
		if p.State == schedcore.Running || p.State == schedcore.Runnable {
			running++
		}
	}

	return Report{
		NProc:          t.NProc(),
		Admitted:       len(snap),
		RunningOrReady: running,
		UtilEDFPct:     decimal.NewFromInt(int64(edf)),
		UtilRMPct:      decimal.NewFromInt(int64(rm)).Div(decimal.NewFromInt(10)),
		RMAdmittedN:    t.AdmittedRM(),
	}
}

// String renders a one-line human-readable summary with fixed-precision
// formatting.
func (r Report) String() string {
	return fmt.Sprintf(
		"procs=%d/%d util_edf=%s%% util_rm=%s%% rm_admitted=%d",
		r.Admitted, r.NProc, r.UtilEDFPct.StringFixed(0), r.UtilRMPct.StringFixed(1), r.RMAdmittedN,
	)
}
