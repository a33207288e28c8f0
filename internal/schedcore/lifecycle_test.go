package schedcore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestForkAllocatesRunnableChild(t *testing.T) {
	tbl := NewTable(4)
	l := NewLifecycle(tbl, 1)

	init := tbl.Alloc("init", 0)
	require.NotNil(t, init)
	tbl.Finalize(init.PID)

	childPID := l.Fork("child", init.PID)
	require.NotEqual(t, 0, childPID)

	got, ok := tbl.Get(childPID)
	require.True(t, ok)
	assert.Equal(t, Runnable, got.State)
	assert.Equal(t, init.PID, got.ParentPID)
}

func TestForkReturnsZeroWhenTableFull(t *testing.T) {
	tbl := NewTable(1)
	l := NewLifecycle(tbl, 1)

	require.NotEqual(t, 0, l.Fork("only", 0))
	assert.Equal(t, 0, l.Fork("overflow", 0))
}

func TestExitReparentsChildrenToInit(t *testing.T) {
	tbl := NewTable(8)
	l := NewLifecycle(tbl, 1)

	init := tbl.Alloc("init", 0)
	tbl.Finalize(init.PID)

	parentPID := l.Fork("parent", init.PID)
	childPID := l.Fork("child", parentPID)

	l.Exit(parentPID)

	got, ok := tbl.Get(childPID)
	require.True(t, ok)
	assert.Equal(t, init.PID, got.ParentPID, "orphaned child must be reparented to init")

	parent, ok := tbl.Get(parentPID)
	require.True(t, ok)
	assert.Equal(t, Zombie, parent.State)
}

// TestExitWakesParentBlockedInWait reproduces proc.c's sleep-on-self
// convention: a parent calling Wait with no Zombie children sleeps on its
// own pid as the channel identity, and Exit must wake exactly that
// channel via the exiting child's ParentPID, not the child's own pid.
func TestExitWakesParentBlockedInWait(t *testing.T) {
	tbl := NewTable(8)
	l := NewLifecycle(tbl, 1)

	init := tbl.Alloc("init", 0)
	tbl.Finalize(init.PID)

	parentPID := l.Fork("parent", init.PID)
	childPID := l.Fork("child", parentPID)

	_, hasChildren := l.Wait(parentPID)
	require.True(t, hasChildren)

	require.True(t, l.Sleep(parentPID, parentPID))

	l.Exit(childPID)

	got, ok := tbl.Get(parentPID)
	require.True(t, ok)
	assert.Equal(t, Runnable, got.State, "parent sleeping on its own pid must be woken when its child exits")
}

func TestWaitReapsZombieChildAndReleasesSlot(t *testing.T) {
	tbl := NewTable(8)
	l := NewLifecycle(tbl, 1)

	init := tbl.Alloc("init", 0)
	tbl.Finalize(init.PID)

	parentPID := l.Fork("parent", init.PID)
	childPID := l.Fork("child", parentPID)
	l.Exit(childPID)

	reaped, hasChildren := l.Wait(parentPID)
	assert.True(t, hasChildren)
	assert.Equal(t, childPID, reaped)

	_, ok := tbl.Get(childPID)
	assert.False(t, ok, "reaped child's slot must be released")
}

func TestWaitReportsNoChildren(t *testing.T) {
	tbl := NewTable(4)
	l := NewLifecycle(tbl, 1)

	lonely := tbl.Alloc("lonely", 0)
	tbl.Finalize(lonely.PID)

	_, hasChildren := l.Wait(lonely.PID)
	assert.False(t, hasChildren)
}

func TestKillWakesSleepingProcess(t *testing.T) {
	tbl := NewTable(4)
	l := NewLifecycle(tbl, 1)

	p := tbl.Alloc("p", 0)
	tbl.Finalize(p.PID)
	require.True(t, l.Sleep(p.PID, "some-channel"))

	require.True(t, l.Kill(p.PID))

	got, ok := tbl.Get(p.PID)
	require.True(t, ok)
	assert.True(t, got.Killed)
	assert.Equal(t, Runnable, got.State, "killing a sleeping process must promote it to runnable")
}

func TestKillUnknownPIDReturnsFalse(t *testing.T) {
	tbl := NewTable(4)
	l := NewLifecycle(tbl, 1)
	assert.False(t, l.Kill(999))
}

func TestWakeupOnlyAffectsMatchingChannel(t *testing.T) {
	tbl := NewTable(4)
	l := NewLifecycle(tbl, 1)

	a := tbl.Alloc("a", 0)
	b := tbl.Alloc("b", 0)
	tbl.Finalize(a.PID)
	tbl.Finalize(b.PID)

	require.True(t, l.Sleep(a.PID, "chan-a"))
	require.True(t, l.Sleep(b.PID, "chan-b"))

	l.Wakeup("chan-a")

	gotA, _ := tbl.Get(a.PID)
	gotB, _ := tbl.Get(b.PID)
	assert.Equal(t, Runnable, gotA.State)
	assert.Equal(t, Sleeping, gotB.State)
}
