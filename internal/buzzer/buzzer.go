// buzzer plays tones and melodies on a piezo buzzer driven by a pwm timer.
//
// A Buzzer is owned by a single goroutine, it does no locking of its own.
// The channel and timer it is given must not be shared with another Buzzer.
package buzzer

import (
	"fmt"
	"io"

	"code.sztanpet.net/zvpsz/piezo/internal/config"
	"code.sztanpet.net/zvpsz/piezo/internal/pwm"
	"code.sztanpet.net/zvpsz/piezo/internal/tone"
	"github.com/juju/loggo"
)

var logger = loggo.GetLogger("main.buzzer")

// InitialFrequency is the frequency the timer is configured with, in Hz
const InitialFrequency uint32 = 440

type Buzzer struct {
	drv     pwm.Driver
	channel pwm.Channel
	timer   pwm.Timer
	sleeper Sleeper
	legato  bool

	playing bool
	freq    uint32
}

type Option func(*Buzzer)

// WithSleeper replaces the SystemSleeper used by the timed operations
func WithSleeper(s Sleeper) Option {
	return func(b *Buzzer) {
		b.sleeper = s
	}
}

// WithLegato skips reprogramming the timer when the frequency does not change.
// Repeated notes are then tied together instead of struck again, because
// reprogramming the timer is what produces the short gap between them.
func WithLegato(legato bool) Option {
	return func(b *Buzzer) {
		b.legato = legato
	}
}

// Init configures the timer at InitialFrequency with a 50% duty cycle,
// and pauses it. The returned Buzzer is paused.
func Init(drv pwm.Driver, c pwm.Channel, t pwm.Timer, pin pwm.Pin, opts ...Option) (*Buzzer, error) {
	if drv == nil {
		return nil, fmt.Errorf("nil pwm driver: %w", ErrInvalidArgument)
	}

	b := &Buzzer{
		drv:     drv,
		channel: c,
		timer:   t,
		sleeper: SystemSleeper{},
		freq:    InitialFrequency,
	}
	for _, opt := range opts {
		opt(b)
	}

	if err := drv.Configure(c, t, b.freq, pwm.HalfDuty, pin); err != nil {
		return nil, fmt.Errorf("configure %v %v: %w: %w", t, c, ErrHardware, err)
	}

	// pause the timer so the sound doesn't play
	if err := drv.Pause(t); err != nil {
		return nil, fmt.Errorf("pause %v: %w: %w", t, ErrHardware, err)
	}

	logger.Debugf("buzzer on %v %v pin %q initialized", t, c, pin)
	return b, nil
}

// New creates the pwm driver selected by cfg and initializes a Buzzer on it
func New(cfg *config.Config) (*Buzzer, error) {
	var drv pwm.Driver
	switch cfg.Backend {
	case config.BackendPeriph:
		p, err := pwm.NewPeriph()
		if err != nil {
			return nil, err
		}
		drv = p
	case config.BackendSpeaker:
		s, err := pwm.NewSpeaker()
		if err != nil {
			return nil, err
		}
		drv = s
	default:
		drv = pwm.NewSysfs(cfg.SysfsBase)
	}

	return Init(
		drv,
		pwm.Channel(cfg.Channel),
		pwm.Timer(cfg.Timer),
		pwm.Pin(cfg.Pin),
		WithLegato(cfg.Legato),
	)
}

// Close silences the buzzer and releases the driver when it holds resources.
// The Buzzer must not be used afterwards.
func (b *Buzzer) Close() error {
	if b == nil {
		return ErrInvalidArgument
	}

	err := b.Pause()
	if c, ok := b.drv.(io.Closer); ok {
		if cerr := c.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close driver: %w: %w", ErrHardware, cerr)
		}
	}

	return err
}

// Play resumes the timer, it is a no-op when already playing
func (b *Buzzer) Play() error {
	if b == nil {
		return ErrInvalidArgument
	}
	if b.playing {
		return nil
	}

	if err := b.drv.Resume(b.timer); err != nil {
		return fmt.Errorf("resume %v: %w: %w", b.timer, ErrHardware, err)
	}

	b.playing = true
	return nil
}

// Pause stops the timer, it is a no-op when already paused
func (b *Buzzer) Pause() error {
	if b == nil {
		return ErrInvalidArgument
	}
	if !b.playing {
		return nil
	}

	if err := b.drv.Pause(b.timer); err != nil {
		return fmt.Errorf("pause %v: %w: %w", b.timer, ErrHardware, err)
	}

	b.playing = false
	return nil
}

func (b *Buzzer) IsPlaying() bool {
	if b == nil {
		return false
	}
	return b.playing
}

// SetFrequency reprograms the timer to hz without changing the play state.
// The timer is reprogrammed even when hz is the current frequency, unless
// the Buzzer was created WithLegato.
func (b *Buzzer) SetFrequency(hz uint32) error {
	if b == nil || hz == 0 {
		return ErrInvalidArgument
	}
	if b.legato && hz == b.freq {
		return nil
	}

	if err := b.drv.SetFrequency(b.timer, hz); err != nil {
		return fmt.Errorf("set %v to %vHz: %w: %w", b.timer, hz, ErrHardware, err)
	}

	b.freq = hz
	return nil
}

// Frequency is the last successfully set frequency in Hz
func (b *Buzzer) Frequency() uint32 {
	if b == nil {
		return 0
	}
	return b.freq
}

// SetNote sets the frequency to note at octave, truncated to whole Hz.
// A Rest has no frequency and is rejected.
func (b *Buzzer) SetNote(n tone.Note, o tone.Octave) error {
	if b == nil {
		return ErrInvalidArgument
	}

	if err := b.SetFrequency(uint32(tone.Frequency(n, o))); err != nil {
		return fmt.Errorf("set note %v%d: %w", n, o, err)
	}

	return nil
}
