package buzzer

import (
	"testing"

	"code.sztanpet.net/zvpsz/piezo/internal/pwm/pwmtest"
	"code.sztanpet.net/zvpsz/piezo/internal/tone"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type call = pwmtest.Call

func newTestBuzzer(t *testing.T, opts ...Option) (*Buzzer, *pwmtest.Recorder) {
	t.Helper()

	rec := pwmtest.New()
	b, err := Init(rec, 0, 0, "GPIO13", append([]Option{WithSleeper(rec)}, opts...)...)
	require.NoError(t, err)
	require.Equal(t, []call{
		{Op: pwmtest.OpConfigure, Arg: 440},
		{Op: pwmtest.OpPause},
	}, rec.Calls)

	rec.Reset()
	return b, rec
}

func TestInit(t *testing.T) {
	b, _ := newTestBuzzer(t)

	assert.False(t, b.IsPlaying())
	assert.Equal(t, InitialFrequency, b.Frequency())
}

func TestInitFailure(t *testing.T) {
	rec := pwmtest.New()
	rec.FailOn(pwmtest.OpConfigure, 1)
	_, err := Init(rec, 0, 0, "")
	assert.ErrorIs(t, err, ErrHardware)
	assert.ErrorIs(t, err, pwmtest.ErrInjected)

	rec = pwmtest.New()
	rec.FailOn(pwmtest.OpPause, 1)
	_, err = Init(rec, 0, 0, "")
	assert.ErrorIs(t, err, ErrHardware)

	_, err = Init(nil, 0, 0, "")
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestPlayIsIdempotent(t *testing.T) {
	b, rec := newTestBuzzer(t)

	require.NoError(t, b.Play())
	require.NoError(t, b.Play())
	assert.True(t, b.IsPlaying())
	assert.Equal(t, 1, rec.Count(pwmtest.OpResume))
}

func TestPauseIsIdempotent(t *testing.T) {
	b, rec := newTestBuzzer(t)

	// already paused after Init
	require.NoError(t, b.Pause())
	assert.Zero(t, rec.Count(pwmtest.OpPause))

	require.NoError(t, b.Play())
	require.NoError(t, b.Pause())
	require.NoError(t, b.Pause())
	assert.False(t, b.IsPlaying())
	assert.Equal(t, 1, rec.Count(pwmtest.OpPause))
}

func TestPlayPauseFailureKeepsState(t *testing.T) {
	b, rec := newTestBuzzer(t)

	rec.FailOn(pwmtest.OpResume, 1)
	assert.ErrorIs(t, b.Play(), ErrHardware)
	assert.False(t, b.IsPlaying())

	require.NoError(t, b.Play())
	assert.True(t, b.IsPlaying())

	rec.FailOn(pwmtest.OpPause, 1)
	assert.ErrorIs(t, b.Pause(), ErrHardware)
	assert.True(t, b.IsPlaying())
}

func TestSetFrequency(t *testing.T) {
	b, rec := newTestBuzzer(t)

	assert.ErrorIs(t, b.SetFrequency(0), ErrInvalidArgument)
	assert.Equal(t, InitialFrequency, b.Frequency())
	assert.Empty(t, rec.Calls)

	require.NoError(t, b.SetFrequency(880))
	require.NoError(t, b.SetFrequency(880))
	assert.Equal(t, uint32(880), b.Frequency())
	// the same frequency is reprogrammed so the note is struck again
	assert.Equal(t, 2, rec.Count(pwmtest.OpSetFrequency))
	assert.False(t, b.IsPlaying(), "frequency changes must not start playback")

	rec.FailOn(pwmtest.OpSetFrequency, 1)
	assert.ErrorIs(t, b.SetFrequency(1000), ErrHardware)
	assert.Equal(t, uint32(880), b.Frequency())
}

func TestSetFrequencyLegato(t *testing.T) {
	b, rec := newTestBuzzer(t, WithLegato(true))

	require.NoError(t, b.SetFrequency(InitialFrequency))
	require.NoError(t, b.SetFrequency(880))
	require.NoError(t, b.SetFrequency(880))
	assert.Equal(t, []call{{Op: pwmtest.OpSetFrequency, Arg: 880}}, rec.Calls)
}

func TestSetNote(t *testing.T) {
	b, rec := newTestBuzzer(t)

	require.NoError(t, b.SetNote(tone.A, 4))
	assert.Equal(t, uint32(440), b.Frequency())

	// 4186 / 16 = 261.625, truncated
	require.NoError(t, b.SetNote(tone.C, 4))
	assert.Equal(t, uint32(261), b.Frequency())

	// octaves above 8 are clamped
	require.NoError(t, b.SetNote(tone.B, 12))
	assert.Equal(t, uint32(7902), b.Frequency())

	assert.ErrorIs(t, b.SetNote(tone.Rest, 4), ErrInvalidArgument)
	assert.Equal(t, 3, rec.Count(pwmtest.OpSetFrequency))
}

func TestPlayForMs(t *testing.T) {
	b, rec := newTestBuzzer(t)

	require.NoError(t, b.PlayForMs(150))
	assert.Equal(t, []call{
		{Op: pwmtest.OpResume},
		{Op: pwmtest.OpSleep, Arg: 150},
		{Op: pwmtest.OpPause},
	}, rec.Calls)
	assert.False(t, b.IsPlaying())

	rec.Reset()
	rec.FailOn(pwmtest.OpResume, 1)
	assert.ErrorIs(t, b.PlayForMs(150), ErrHardware)
	assert.Zero(t, rec.Count(pwmtest.OpSleep), "must not sleep when playing failed")
}

func TestRestForMsRestoresPlaying(t *testing.T) {
	b, rec := newTestBuzzer(t)
	require.NoError(t, b.Play())
	rec.Reset()

	require.NoError(t, b.RestForMs(100))
	assert.Equal(t, []call{
		{Op: pwmtest.OpPause},
		{Op: pwmtest.OpSleep, Arg: 100},
		{Op: pwmtest.OpResume},
	}, rec.Calls)
	assert.True(t, b.IsPlaying())
	assert.Equal(t, InitialFrequency, b.Frequency())
}

func TestRestForMsWhilePaused(t *testing.T) {
	b, rec := newTestBuzzer(t)

	require.NoError(t, b.RestForMs(100))
	assert.Equal(t, []call{{Op: pwmtest.OpSleep, Arg: 100}}, rec.Calls)
	assert.False(t, b.IsPlaying())
}

func TestRestForMsPauseFailure(t *testing.T) {
	b, rec := newTestBuzzer(t)
	require.NoError(t, b.Play())

	rec.FailOn(pwmtest.OpPause, 1)
	assert.ErrorIs(t, b.RestForMs(100), ErrHardware)
	assert.Zero(t, rec.Count(pwmtest.OpSleep))
	assert.True(t, b.IsPlaying())
}

func TestPlayNote(t *testing.T) {
	b, rec := newTestBuzzer(t)

	require.NoError(t, b.PlayNote(tone.MusicalNote{Note: tone.A, Octave: 4, Type: tone.Quaver}, 120))
	assert.Equal(t, []call{
		{Op: pwmtest.OpSetFrequency, Arg: 440},
		{Op: pwmtest.OpResume},
		{Op: pwmtest.OpSleep, Arg: 250},
		{Op: pwmtest.OpPause},
	}, rec.Calls)

	assert.ErrorIs(t, b.PlayNote(tone.MusicalNote{Note: tone.A, Octave: 4, Type: tone.Quaver}, 0), ErrInvalidArgument)
}

func TestPlayNoteForMs(t *testing.T) {
	b, rec := newTestBuzzer(t)

	require.NoError(t, b.PlayNoteForMs(tone.E, 5, 40))
	assert.Equal(t, []call{
		{Op: pwmtest.OpSetFrequency, Arg: 659},
		{Op: pwmtest.OpResume},
		{Op: pwmtest.OpSleep, Arg: 40},
		{Op: pwmtest.OpPause},
	}, rec.Calls)

	assert.ErrorIs(t, b.PlayNoteForMs(tone.Rest, 5, 40), ErrInvalidArgument)
}

func TestPlayMelodyEndToEnd(t *testing.T) {
	b, rec := newTestBuzzer(t)

	melody := tone.Melody{
		{Note: tone.C, Octave: 4, Type: tone.Crotchet},
		{Note: tone.Rest, Type: tone.Crotchet},
	}
	require.NoError(t, b.PlayMelody(melody, 60))

	// the rest pauses an already paused buzzer, which never reaches the driver
	assert.Equal(t, []call{
		{Op: pwmtest.OpSetFrequency, Arg: 261},
		{Op: pwmtest.OpResume},
		{Op: pwmtest.OpSleep, Arg: 1000},
		{Op: pwmtest.OpPause},
		{Op: pwmtest.OpSleep, Arg: 1000},
	}, rec.Calls)
}

func TestPlayMelodyStopsAtFirstFailure(t *testing.T) {
	b, rec := newTestBuzzer(t)

	melody := tone.Melody{
		{Note: tone.C, Octave: 4, Type: tone.Quaver},
		{Note: tone.D, Octave: 4, Type: tone.Quaver},
		{Note: tone.E, Octave: 4, Type: tone.Quaver},
		{Note: tone.F, Octave: 4, Type: tone.Quaver},
		{Note: tone.G, Octave: 4, Type: tone.Quaver},
	}
	rec.FailOn(pwmtest.OpSetFrequency, 3)

	err := b.PlayMelody(melody, 120)
	require.ErrorIs(t, err, ErrHardware)
	assert.Contains(t, err.Error(), "note 3 of 5")

	assert.Equal(t, 3, rec.Count(pwmtest.OpSetFrequency))
	assert.Equal(t, 2, rec.Count(pwmtest.OpResume))
	assert.Equal(t, 2, rec.Count(pwmtest.OpSleep))
	// left at the last frequency that was set successfully
	assert.Equal(t, uint32(293), b.Frequency())
}

func TestPlayMelodyZeroBPM(t *testing.T) {
	b, rec := newTestBuzzer(t)

	assert.ErrorIs(t, b.PlayMelody(tone.TestMelody(), 0), ErrInvalidArgument)
	assert.ErrorIs(t, b.PlayTestMelody(0), ErrInvalidArgument)
	assert.Empty(t, rec.Calls)
}

func TestPlayTestMelody(t *testing.T) {
	b, rec := newTestBuzzer(t)

	require.NoError(t, b.PlayTestMelody(60))
	assert.Equal(t, 25, rec.Count(pwmtest.OpSetFrequency))
	assert.Equal(t, 25, rec.Count(pwmtest.OpResume))
	assert.Equal(t, 25, rec.Count(pwmtest.OpPause))

	var slept uint64
	for _, c := range rec.Calls {
		if c.Op == pwmtest.OpSleep {
			slept += c.Arg
		}
	}
	assert.Equal(t, uint64(24000), slept)
	assert.False(t, b.IsPlaying())
}

func TestNilBuzzer(t *testing.T) {
	var b *Buzzer

	assert.ErrorIs(t, b.Play(), ErrInvalidArgument)
	assert.ErrorIs(t, b.Pause(), ErrInvalidArgument)
	assert.False(t, b.IsPlaying())
	assert.ErrorIs(t, b.SetFrequency(440), ErrInvalidArgument)
	assert.Zero(t, b.Frequency())
	assert.ErrorIs(t, b.SetNote(tone.A, 4), ErrInvalidArgument)
	assert.ErrorIs(t, b.PlayForMs(10), ErrInvalidArgument)
	assert.ErrorIs(t, b.RestForMs(10), ErrInvalidArgument)
	assert.ErrorIs(t, b.PlayNote(tone.MusicalNote{Note: tone.A, Octave: 4, Type: tone.Crotchet}, 60), ErrInvalidArgument)
	assert.ErrorIs(t, b.PlayNoteForMs(tone.A, 4, 10), ErrInvalidArgument)
	assert.ErrorIs(t, b.PlayMelody(nil, 60), ErrInvalidArgument)
	assert.ErrorIs(t, b.Close(), ErrInvalidArgument)
}

type closingRecorder struct {
	*pwmtest.Recorder
	closed int
}

func (c *closingRecorder) Close() error {
	c.closed++
	return nil
}

func TestClose(t *testing.T) {
	rec := &closingRecorder{Recorder: pwmtest.New()}
	b, err := Init(rec, 0, 0, "", WithSleeper(rec))
	require.NoError(t, err)
	require.NoError(t, b.Play())
	rec.Reset()

	require.NoError(t, b.Close())
	assert.Equal(t, []call{{Op: pwmtest.OpPause}}, rec.Calls)
	assert.Equal(t, 1, rec.closed)
}
