package queue

import "time"

// backoffDelay returns the delay before the next attempt. The delay doubles
// with each completed attempt and is capped: base * 2^(attempts-1).
func backoffDelay(base, cap time.Duration, attempts int) time.Duration {
	if attempts < 1 {
		attempts = 1
	}
	d := base
	for i := 1; i < attempts; i++ {
		d *= 2
		if d >= cap || d <= 0 {
			return cap
		}
	}
	if d > cap {
		return cap
	}
	return d
}
