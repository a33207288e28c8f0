package schedcore

// RatePriority maps a declared RM rate to its static priority. Larger rate
// -> smaller priority number -> more urgent. Clamped to a minimum of 1.
// Ported directly from proc.c's rate():
//
//	priority_temp = (90 - 3*rate + 28) / 29
//	if priority_temp < 1 { priority = 1 } else { priority = priority_temp }
//
// Integer division truncates toward zero in both Go and C for this
// formula's range, so the ports agree bit-for-bit.
func RatePriority(rate uint64) int {
	p := (90 - 3*int(rate) + 28) / 29
	if p < 1 {
		return 1
	}
	return p
}
