package pwm

import (
	"fmt"
	"sort"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/host/v3"
)

// Periph drives pins through periph.io, which picks the best available
// PWM implementation for the board (hardware PWM where the SoC has it).
// A Timer groups pins that share a frequency.
type Periph struct {
	lookup func(name string) gpio.PinOut
	timers map[Timer]*periphTimer
}

type periphTimer struct {
	freq    physic.Frequency
	running bool
	outs    map[Channel]*periphOut
}

type periphOut struct {
	pin  gpio.PinOut
	duty gpio.Duty
}

// NewPeriph initializes the periph.io host drivers
func NewPeriph() (*Periph, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("periph host init: %w", err)
	}

	return newPeriph(func(name string) gpio.PinOut {
		p := gpioreg.ByName(name)
		if p == nil {
			return nil
		}
		return p
	}), nil
}

func newPeriph(lookup func(name string) gpio.PinOut) *Periph {
	return &Periph{
		lookup: lookup,
		timers: map[Timer]*periphTimer{},
	}
}

func hertz(hz uint32) physic.Frequency {
	return physic.Frequency(hz) * physic.Hertz
}

// periphDuty rescales duty from MaxDuty to gpio.DutyMax
func periphDuty(duty uint32) gpio.Duty {
	if duty > MaxDuty {
		duty = MaxDuty
	}
	return gpio.Duty(uint64(duty) * uint64(gpio.DutyMax) / uint64(MaxDuty))
}

func (p *Periph) Configure(c Channel, t Timer, hz uint32, duty uint32, pin Pin) error {
	if hz == 0 {
		return ErrZeroFrequency
	}

	out := p.lookup(string(pin))
	if out == nil {
		return fmt.Errorf("failed to find pin %q", pin)
	}

	tm, ok := p.timers[t]
	if !ok {
		tm = &periphTimer{outs: map[Channel]*periphOut{}}
		p.timers[t] = tm
	}

	logger.Debugf("configuring %v %v at %vHz on %v", t, c, hz, out)
	tm.outs[c] = &periphOut{pin: out, duty: periphDuty(duty)}
	tm.freq = hertz(hz)
	tm.running = true

	return tm.apply()
}

func (p *Periph) timer(t Timer) (*periphTimer, error) {
	tm, ok := p.timers[t]
	if !ok {
		return nil, fmt.Errorf("%v is not configured", t)
	}
	return tm, nil
}

func (p *Periph) SetFrequency(t Timer, hz uint32) error {
	if hz == 0 {
		return ErrZeroFrequency
	}

	tm, err := p.timer(t)
	if err != nil {
		return err
	}

	tm.freq = hertz(hz)
	if !tm.running {
		// applied on the next Resume
		return nil
	}

	return tm.apply()
}

func (p *Periph) Pause(t Timer) error {
	tm, err := p.timer(t)
	if err != nil {
		return err
	}

	for _, c := range tm.sortedChannels() {
		if err := tm.outs[c].pin.Out(gpio.Low); err != nil {
			return fmt.Errorf("pause %v: %w", tm.outs[c].pin, err)
		}
	}

	tm.running = false
	return nil
}

func (p *Periph) Resume(t Timer) error {
	tm, err := p.timer(t)
	if err != nil {
		return err
	}

	if err := tm.apply(); err != nil {
		return err
	}

	tm.running = true
	return nil
}

// Close halts every configured pin
func (p *Periph) Close() error {
	var firstErr error
	for t, tm := range p.timers {
		for _, c := range tm.sortedChannels() {
			if err := tm.outs[c].pin.Halt(); err != nil && firstErr == nil {
				firstErr = err
			}
		}
		delete(p.timers, t)
	}

	return firstErr
}

func (tm *periphTimer) apply() error {
	for _, c := range tm.sortedChannels() {
		o := tm.outs[c]
		if err := o.pin.PWM(o.duty, tm.freq); err != nil {
			return fmt.Errorf("pwm %v at %v: %w", o.pin, tm.freq, err)
		}
	}

	return nil
}

func (tm *periphTimer) sortedChannels() []Channel {
	channels := make([]Channel, 0, len(tm.outs))
	for c := range tm.outs {
		channels = append(channels, c)
	}
	sort.Slice(channels, func(i, j int) bool { return channels[i] < channels[j] })

	return channels
}
