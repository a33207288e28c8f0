package schedcore

import "testing"

func TestRatePriority(t *testing.T) {
	cases := []struct {
		rate uint64
		want int
	}{
		{1, 3},
		{10, 3},
		{20, 2},
		{30, 1},
		{100, 1}, // clamped
	}

	for _, c := range cases {
		if got := RatePriority(c.rate); got != c.want {
			t.Errorf("RatePriority(%d) = %d, want %d", c.rate, got, c.want)
		}
	}
}
