package buzzer

import "time"

// Sleeper suspends the calling goroutine, other goroutines keep running
type Sleeper interface {
	Sleep(d time.Duration)
}

// SystemSleeper sleeps with time.Sleep. Durations are whole milliseconds
// and the runtime timer wakes up no sooner than asked, typically within
// a millisecond on linux, later under load. There is no sub-millisecond precision.
type SystemSleeper struct{}

func (SystemSleeper) Sleep(d time.Duration) {
	time.Sleep(d)
}

func msDuration(v uint32) time.Duration {
	return time.Duration(v) * time.Millisecond
}
