package schedmetrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coursework/rtkernel/internal/schedcore"
)

func TestCollectReportsUtilization(t *testing.T) {
	tbl := schedcore.NewTable(8)
	k := schedcore.NewKernel(tbl, &schedcore.TickCounter{})

	p := tbl.Alloc("p", 0)
	require.NotNil(t, p)
	tbl.Finalize(p.PID)
	require.Equal(t, 0, k.SetDeadline(p.PID, 10))
	require.Equal(t, 0, k.SetExecTime(p.PID, 4))
	require.Equal(t, 0, k.SetPolicy(p.PID, schedcore.PolicyEDF))

	rep := Collect(tbl)
	assert.Equal(t, 8, rep.NProc)
	assert.True(t, rep.UtilEDFPct.Equal(rep.UtilEDFPct)) // sanity: no panic building the decimal
	assert.Contains(t, rep.String(), "util_edf=")
}
