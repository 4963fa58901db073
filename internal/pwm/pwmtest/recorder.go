// pwmtest provides a fake pwm.Driver which records every call
package pwmtest

import (
	"errors"
	"fmt"
	"time"

	"code.sztanpet.net/zvpsz/piezo/internal/pwm"
)

// Operations recorded by the Recorder
const (
	OpConfigure    = "Configure"
	OpSetFrequency = "SetFrequency"
	OpPause        = "Pause"
	OpResume       = "Resume"
	OpSleep        = "Sleep"
)

var ErrInjected = errors.New("injected failure")

// Call is a single recorded call, Arg is the frequency for Configure
// and SetFrequency, the duration in ms for Sleep and 0 otherwise.
type Call struct {
	Op  string
	Arg uint64
}

func (c Call) String() string {
	if c.Arg == 0 {
		return c.Op
	}
	return fmt.Sprintf("%v(%v)", c.Op, c.Arg)
}

// Recorder is a pwm.Driver and a sleeper, it keeps an ordered log of calls.
// Sleeping returns immediately.
type Recorder struct {
	Calls []Call

	counts map[string]int
	fail   map[string]int
}

func New() *Recorder {
	return &Recorder{
		counts: map[string]int{},
		fail:   map[string]int{},
	}
}

// FailOn makes the nth (1-based, counted from now) call of op fail with ErrInjected.
// Failed calls are still recorded.
func (r *Recorder) FailOn(op string, nth int) {
	r.fail[op] = r.counts[op] + nth
}

// Reset clears the call log and counters, pending failures are dropped
func (r *Recorder) Reset() {
	r.Calls = nil
	r.counts = map[string]int{}
	r.fail = map[string]int{}
}

// Count is the number of calls of op since the last Reset
func (r *Recorder) Count(op string) int {
	return r.counts[op]
}

func (r *Recorder) record(op string, arg uint64) error {
	r.Calls = append(r.Calls, Call{Op: op, Arg: arg})
	r.counts[op]++

	if n, ok := r.fail[op]; ok && n == r.counts[op] {
		delete(r.fail, op)
		return fmt.Errorf("%v: %w", op, ErrInjected)
	}

	return nil
}

func (r *Recorder) Configure(c pwm.Channel, t pwm.Timer, hz uint32, duty uint32, pin pwm.Pin) error {
	return r.record(OpConfigure, uint64(hz))
}

func (r *Recorder) SetFrequency(t pwm.Timer, hz uint32) error {
	return r.record(OpSetFrequency, uint64(hz))
}

func (r *Recorder) Pause(t pwm.Timer) error {
	return r.record(OpPause, 0)
}

func (r *Recorder) Resume(t pwm.Timer) error {
	return r.record(OpResume, 0)
}

func (r *Recorder) Sleep(d time.Duration) {
	_ = r.record(OpSleep, uint64(d/time.Millisecond))
}
