package pwm

import (
	"math"

	"github.com/gopxl/beep/v2"
)

// squareWave is a beep.Streamer imitating a pwm output, it streams
// silence while paused so the speaker keeps a steady clock.
type squareWave struct {
	sr      beep.SampleRate
	freq    float64
	duty    float64 // fraction of the period spent high
	phase   float64 // position in the current period, [0, 1)
	playing bool
}

// amplitude keeps the square wave from clipping when several timers are mixed
const amplitude = 0.3

func newSquareWave(sr beep.SampleRate, hz uint32, duty uint32) *squareWave {
	w := &squareWave{sr: sr}
	w.configure(hz, duty)
	return w
}

// configure sets frequency and duty, the caller holds the speaker lock once streaming
func (w *squareWave) configure(hz uint32, duty uint32) {
	if duty > MaxDuty {
		duty = MaxDuty
	}

	w.freq = float64(hz)
	w.duty = float64(duty) / float64(MaxDuty)
}

func (w *squareWave) Stream(samples [][2]float64) (n int, ok bool) {
	step := w.freq / float64(w.sr)
	for i := range samples {
		var v float64
		if w.playing {
			v = -amplitude
			if w.phase < w.duty {
				v = amplitude
			}
		}
		samples[i][0], samples[i][1] = v, v

		w.phase += step
		w.phase -= math.Floor(w.phase)
	}

	return len(samples), true
}

func (w *squareWave) Err() error {
	return nil
}
