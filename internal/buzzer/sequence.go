package buzzer

import (
	"fmt"

	"code.sztanpet.net/zvpsz/piezo/internal/tone"
)

// PlayForMs plays the current frequency for ms milliseconds, then pauses.
func (b *Buzzer) PlayForMs(ms uint32) error {
	if err := b.Play(); err != nil {
		return err
	}

	b.sleeper.Sleep(msDuration(ms))
	return b.Pause()
}

// RestForMs is silent for ms milliseconds, then returns to playing if the
// buzzer was playing before. The frequency is left alone.
func (b *Buzzer) RestForMs(ms uint32) error {
	if b == nil {
		return ErrInvalidArgument
	}

	wasPlaying := b.playing
	if err := b.Pause(); err != nil {
		return err
	}

	b.sleeper.Sleep(msDuration(ms))

	if wasPlaying {
		return b.Play()
	}
	return nil
}

// PlayNote plays a single note of a melody at bpm, rests are silent
func (b *Buzzer) PlayNote(n tone.MusicalNote, bpm uint32) error {
	if b == nil || bpm == 0 {
		return ErrInvalidArgument
	}

	// a rest has no frequency, it keeps the current one
	if n.Note != tone.Rest {
		if err := b.SetNote(n.Note, n.Octave); err != nil {
			return err
		}
	}

	d := tone.DurationMs(n.Type, bpm)
	logger.Tracef("playing %v for %vms", n, d)

	if n.Note == tone.Rest {
		return b.RestForMs(d)
	}
	return b.PlayForMs(d)
}

// PlayNoteForMs sets note at octave and plays it for ms milliseconds
func (b *Buzzer) PlayNoteForMs(n tone.Note, o tone.Octave, ms uint32) error {
	if err := b.SetNote(n, o); err != nil {
		return err
	}

	return b.PlayForMs(ms)
}

// PlayMelody plays every note of m in order at bpm. It stops at the first
// failing note, the notes already played are not undone.
func (b *Buzzer) PlayMelody(m tone.Melody, bpm uint32) error {
	if b == nil || bpm == 0 {
		return ErrInvalidArgument
	}

	for i, n := range m {
		if err := b.PlayNote(n, bpm); err != nil {
			return fmt.Errorf("note %d of %d (%v): %w", i+1, len(m), n, err)
		}
	}

	return nil
}

// PlayTestMelody plays tone.TestMelody at bpm
func (b *Buzzer) PlayTestMelody(bpm uint32) error {
	return b.PlayMelody(tone.TestMelody(), bpm)
}
