package pwm

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strconv"

	"code.sztanpet.net/zvpsz/piezo/internal/file"
)

// DefaultSysfsBase is where the linux pwm driver exposes its chips.
// more info: blog.oddbit.com/post/2017-09-26-some-notes-on-pwm-on-the-raspberry-pi
const DefaultSysfsBase = "/sys/class/pwm"

var ErrZeroFrequency = errors.New("frequency must be above 0 Hz")

// Sysfs uses the linux pwm driver, a Timer is a pwmchip and a Channel is
// one of its pwm outputs. Pin routing is done by the device tree, the
// pin given to Configure is only logged.
type Sysfs struct {
	base      string
	chips     map[Timer]*sysfsChip
	writeFile func(path, value string) error
}

type sysfsChip struct {
	period   uint64
	channels map[Channel]uint32 // duty per channel
}

func NewSysfs(base string) *Sysfs {
	if base == "" {
		base = DefaultSysfsBase
	}

	return &Sysfs{
		base:      base,
		chips:     map[Timer]*sysfsChip{},
		writeFile: file.WriteString,
	}
}

func (s *Sysfs) chipPath(t Timer) string {
	return filepath.Join(s.base, "pwmchip"+strconv.Itoa(int(t)))
}

func (s *Sysfs) channelPath(t Timer, c Channel, attr string) string {
	return filepath.Join(s.chipPath(t), "pwm"+strconv.Itoa(int(c)), attr)
}

func (s *Sysfs) write(t Timer, c Channel, attr string, value string) error {
	path := s.channelPath(t, c, attr)
	if err := s.writeFile(path, value); err != nil {
		return fmt.Errorf("write %q to %v: %w", value, path, err)
	}

	return nil
}

func (s *Sysfs) export(t Timer, c Channel) error {
	// already exported?
	if file.Exists(filepath.Join(s.chipPath(t), "pwm"+strconv.Itoa(int(c)))) {
		return nil
	}

	path := filepath.Join(s.chipPath(t), "export")
	if err := s.writeFile(path, strconv.Itoa(int(c))); err != nil {
		return fmt.Errorf("failed to export %v of %v: %w", c, t, err)
	}

	return nil
}

func (s *Sysfs) Configure(c Channel, t Timer, hz uint32, duty uint32, pin Pin) error {
	if hz == 0 {
		return ErrZeroFrequency
	}
	if duty > MaxDuty {
		duty = MaxDuty
	}

	logger.Debugf("configuring %v %v at %vHz, duty %v/%v, pin %q", t, c, hz, duty, MaxDuty, pin)
	if err := s.export(t, c); err != nil {
		return err
	}

	chip, ok := s.chips[t]
	if !ok {
		chip = &sysfsChip{channels: map[Channel]uint32{}}
		s.chips[t] = chip
	}

	// duty can never be above the period, zero it before touching the period
	period := periodNs(hz)
	if err := s.write(t, c, "enable", "0"); err != nil {
		return err
	}
	if err := s.write(t, c, "duty_cycle", "0"); err != nil {
		return err
	}
	if err := s.write(t, c, "period", strconv.FormatUint(period, 10)); err != nil {
		return err
	}
	if err := s.write(t, c, "duty_cycle", strconv.FormatUint(dutyNs(period, duty), 10)); err != nil {
		return err
	}
	if err := s.write(t, c, "polarity", "normal"); err != nil {
		return err
	}

	chip.channels[c] = duty

	// other channels of the chip follow the new period
	if chip.period != 0 && chip.period != period {
		if err := s.setPeriod(t, chip, period); err != nil {
			return err
		}
	}
	chip.period = period

	return s.Resume(t)
}

func (s *Sysfs) SetFrequency(t Timer, hz uint32) error {
	if hz == 0 {
		return ErrZeroFrequency
	}

	chip, ok := s.chips[t]
	if !ok {
		return fmt.Errorf("%v is not configured", t)
	}

	if err := s.setPeriod(t, chip, periodNs(hz)); err != nil {
		return err
	}

	logger.Tracef("%v set to %vHz", t, hz)
	return nil
}

// setPeriod rewrites period and duty of every channel on the chip.
// The kernel rejects a duty above the period, so when shrinking
// the duty is written first, when growing the period is.
func (s *Sysfs) setPeriod(t Timer, chip *sysfsChip, period uint64) error {
	for _, c := range chip.sortedChannels() {
		p := strconv.FormatUint(period, 10)
		d := strconv.FormatUint(dutyNs(period, chip.channels[c]), 10)

		first, second := []string{"period", p}, []string{"duty_cycle", d}
		if period < chip.period {
			first, second = second, first
		}

		if err := s.write(t, c, first[0], first[1]); err != nil {
			return err
		}
		if err := s.write(t, c, second[0], second[1]); err != nil {
			return err
		}
	}

	chip.period = period
	return nil
}

func (s *Sysfs) Pause(t Timer) error {
	return s.enable(t, false)
}

func (s *Sysfs) Resume(t Timer) error {
	return s.enable(t, true)
}

func (s *Sysfs) enable(t Timer, on bool) error {
	chip, ok := s.chips[t]
	if !ok {
		return fmt.Errorf("%v is not configured", t)
	}

	value := "0"
	if on {
		value = "1"
	}

	for _, c := range chip.sortedChannels() {
		if err := s.write(t, c, "enable", value); err != nil {
			return err
		}
	}

	return nil
}

// Close disables and unexports every configured channel
func (s *Sysfs) Close() error {
	var firstErr error
	for t, chip := range s.chips {
		for _, c := range chip.sortedChannels() {
			_ = s.write(t, c, "enable", "0")

			path := filepath.Join(s.chipPath(t), "unexport")
			err := s.writeFile(path, strconv.Itoa(int(c)))
			if err != nil && firstErr == nil {
				firstErr = fmt.Errorf("failed to unexport %v of %v: %w", c, t, err)
			}
		}
		delete(s.chips, t)
	}

	return firstErr
}

func (c *sysfsChip) sortedChannels() []Channel {
	channels := make([]Channel, 0, len(c.channels))
	for ch := range c.channels {
		channels = append(channels, ch)
	}
	sort.Slice(channels, func(i, j int) bool { return channels[i] < channels[j] })

	return channels
}
