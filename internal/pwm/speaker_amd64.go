//go:build amd64

package pwm

import (
	"fmt"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/speaker"
)

const speakerSampleRate = beep.SampleRate(44100)

// Speaker plays the buzzer through the sound card, for development
// machines without a pwm peripheral. Each Timer is its own square wave.
type Speaker struct {
	waves map[Timer]*squareWave
}

func NewSpeaker() (*Speaker, error) {
	err := speaker.Init(speakerSampleRate, speakerSampleRate.N(50*time.Millisecond))
	if err != nil {
		return nil, fmt.Errorf("speaker init: %w", err)
	}

	return &Speaker{waves: map[Timer]*squareWave{}}, nil
}

func (s *Speaker) Configure(c Channel, t Timer, hz uint32, duty uint32, pin Pin) error {
	if hz == 0 {
		return ErrZeroFrequency
	}

	logger.Debugf("configuring %v %v at %vHz on the speaker, ignoring pin %q", t, c, hz, pin)
	speaker.Lock()
	w, ok := s.waves[t]
	if ok {
		w.configure(hz, duty)
		w.playing = true
	}
	speaker.Unlock()

	if !ok {
		w = newSquareWave(speakerSampleRate, hz, duty)
		w.playing = true
		s.waves[t] = w
		speaker.Play(w)
	}

	return nil
}

func (s *Speaker) wave(t Timer) (*squareWave, error) {
	w, ok := s.waves[t]
	if !ok {
		return nil, fmt.Errorf("%v is not configured", t)
	}
	return w, nil
}

func (s *Speaker) SetFrequency(t Timer, hz uint32) error {
	if hz == 0 {
		return ErrZeroFrequency
	}

	w, err := s.wave(t)
	if err != nil {
		return err
	}

	speaker.Lock()
	w.freq = float64(hz)
	// restart the period, like a reprogrammed timer would
	w.phase = 0
	speaker.Unlock()

	return nil
}

func (s *Speaker) Pause(t Timer) error {
	return s.setPlaying(t, false)
}

func (s *Speaker) Resume(t Timer) error {
	return s.setPlaying(t, true)
}

func (s *Speaker) setPlaying(t Timer, on bool) error {
	w, err := s.wave(t)
	if err != nil {
		return err
	}

	speaker.Lock()
	w.playing = on
	speaker.Unlock()

	return nil
}

func (s *Speaker) Close() error {
	speaker.Clear()
	s.waves = map[Timer]*squareWave{}
	return nil
}
