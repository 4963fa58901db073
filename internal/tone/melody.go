package tone

import (
	"fmt"
	"strconv"
	"strings"
)

// MusicalNote is a single unit of a melody
type MusicalNote struct {
	Note   Note
	Octave Octave
	Type   NoteType
}

func (m MusicalNote) String() string {
	if m.Note == Rest {
		return "R:" + m.Type.String()
	}
	return fmt.Sprintf("%v%d:%v", m.Note, m.Octave, m.Type)
}

// Frequency of the note in Hz, 0 for rests
func (m MusicalNote) Frequency() float64 {
	return Frequency(m.Note, m.Octave)
}

// Melody is played in order, first to last
type Melody []MusicalNote

func (m Melody) String() string {
	parts := make([]string, len(m))
	for i, n := range m {
		parts[i] = n.String()
	}
	return strings.Join(parts, " ")
}

// DurationMs is the total length of the melody at bpm
func (m Melody) DurationMs(bpm uint32) uint32 {
	var total uint32
	for _, n := range m {
		total += DurationMs(n.Type, bpm)
	}
	return total
}

// ParseMusicalNote parses the form printed by MusicalNote.String,
// eg. "C#4:crotchet", "Bb3:quaver." or "R:minim". The note type defaults to a crotchet.
func ParseMusicalNote(s string) (MusicalNote, error) {
	pitch, typ := s, ""
	if ix := strings.IndexByte(s, ':'); ix != -1 {
		pitch, typ = s[:ix], s[ix+1:]
	}

	m := MusicalNote{Type: Crotchet}
	if typ != "" {
		t, err := ParseNoteType(typ)
		if err != nil {
			return m, fmt.Errorf("%q: %w", s, err)
		}
		m.Type = t
	}

	pitch = strings.TrimSpace(pitch)
	// split the trailing octave digits from the pitch name
	ix := len(pitch)
	for ix > 0 && pitch[ix-1] >= '0' && pitch[ix-1] <= '9' {
		ix--
	}

	n, err := ParseNote(pitch[:ix])
	if err != nil {
		return m, fmt.Errorf("%q: %w", s, err)
	}
	m.Note = n

	if ix == len(pitch) {
		if n != Rest {
			return m, fmt.Errorf("%q: missing octave", s)
		}
		return m, nil
	}

	o, err := strconv.ParseUint(pitch[ix:], 10, 8)
	if err != nil || Octave(o) > MaxOctave {
		return m, fmt.Errorf("%q: octave must be between 0 and %d", s, MaxOctave)
	}
	m.Octave = Octave(o)

	return m, nil
}

// ParseMelody parses a whitespace or comma separated list of notes
func ParseMelody(s string) (Melody, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n' || r == '\r'
	})

	m := make(Melody, 0, len(fields))
	for i, f := range fields {
		n, err := ParseMusicalNote(f)
		if err != nil {
			return nil, fmt.Errorf("note %d: %w", i+1, err)
		}
		m = append(m, n)
	}

	return m, nil
}

// TestMelody is a well known 25 note tune used to check that a buzzer works
func TestMelody() Melody {
	return Melody{
		{C, 4, QuaverDotted},
		{C, 4, Semiquaver},
		{D, 4, Crotchet},
		{C, 4, Crotchet},
		{F, 4, Crotchet},
		{E, 4, Minim},
		{C, 4, QuaverDotted},
		{C, 4, Semiquaver},
		{D, 4, Crotchet},
		{C, 4, Crotchet},
		{G, 4, Crotchet},
		{F, 4, Minim},
		{C, 4, QuaverDotted},
		{C, 4, Semiquaver},
		{C, 5, Crotchet},
		{A, 4, Crotchet},
		{F, 4, Crotchet},
		{E, 4, Crotchet},
		{D, 4, Crotchet},
		{ASharp, 4, QuaverDotted},
		{ASharp, 4, Semiquaver},
		{A, 4, Crotchet},
		{F, 4, Crotchet},
		{G, 4, Crotchet},
		{F, 4, Minim},
	}
}
