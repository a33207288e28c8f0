package schedcore

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTickCounterAdvanceIsMonotonic(t *testing.T) {
	c := &TickCounter{}
	assert.EqualValues(t, 0, c.Now())
	assert.EqualValues(t, 1, c.Advance())
	assert.EqualValues(t, 2, c.Advance())
	assert.EqualValues(t, 2, c.Now())
}

func TestTickCounterConcurrentAdvance(t *testing.T) {
	c := &TickCounter{}
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.Advance()
		}()
	}
	wg.Wait()
	assert.EqualValues(t, 100, c.Now())
}

func TestFixedClockAlwaysReportsSameValue(t *testing.T) {
	c := FixedClock(42)
	assert.EqualValues(t, 42, c.Now())
	assert.EqualValues(t, 42, c.Now())
}
