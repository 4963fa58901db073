// pwm drives a square wave on a hardware timer for a piezo buzzer.
// A Timer generates the frequency, one or more Channels route it to a Pin.
package pwm

import (
	"strconv"

	"github.com/juju/loggo"
)

var logger = loggo.GetLogger("main.pwm")

type (
	Channel int
	Timer   int
	Pin     string
)

func (c Channel) String() string { return "channel " + strconv.Itoa(int(c)) }
func (t Timer) String() string   { return "timer " + strconv.Itoa(int(t)) }

// DutyResolution is the number of bits of duty resolution.
// Higher resolutions limit the highest frequency some timers can produce.
const DutyResolution = 15

const (
	MaxDuty  uint32 = 1 << DutyResolution
	HalfDuty uint32 = MaxDuty / 2
)

// Driver is the hardware boundary used by the buzzer.
// Implementations are not safe for concurrent use.
type Driver interface {
	// Configure sets up timer at hz and routes it through channel to pin with the given duty,
	// the output starts oscillating immediately
	Configure(channel Channel, timer Timer, hz uint32, duty uint32, pin Pin) error
	// SetFrequency reprograms the timer, a paused timer stays paused
	SetFrequency(timer Timer, hz uint32) error
	Pause(timer Timer) error
	Resume(timer Timer) error
}

// periodNs converts hz to a period in nanoseconds
func periodNs(hz uint32) uint64 {
	return 1e9 / uint64(hz)
}

// dutyNs scales duty (out of MaxDuty) to a fraction of period
func dutyNs(period uint64, duty uint32) uint64 {
	if duty > MaxDuty {
		duty = MaxDuty
	}
	return period * uint64(duty) / uint64(MaxDuty)
}
