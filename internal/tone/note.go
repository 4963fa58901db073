// tone converts musical notes to frequencies and note types to durations
package tone

import (
	"fmt"
	"strings"
)

// Note is one of the 12 pitch classes, or Rest
type Note int

const (
	C Note = iota
	CSharp
	D
	DSharp
	E
	F
	FSharp
	G
	GSharp
	A
	ASharp
	B
	numNotes

	// Rest has no pitch, the buzzer is silenced for its duration
	Rest
)

// Octave of a note, 0 to MaxOctave
type Octave uint8

const MaxOctave Octave = 8

var noteNames = [numNotes]string{
	"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B",
}

// flats are accepted when parsing, but always printed as sharps
var flats = map[string]Note{
	"DB": CSharp,
	"EB": DSharp,
	"GB": FSharp,
	"AB": GSharp,
	"BB": ASharp,
}

func (n Note) String() string {
	if n == Rest {
		return "R"
	}
	if n < 0 || n >= numNotes {
		return fmt.Sprintf("Note(%d)", int(n))
	}
	return noteNames[n]
}

// Pitched reports whether n is one of the 12 pitch classes
func (n Note) Pitched() bool {
	return n >= 0 && n < numNotes
}

// ParseNote parses a pitch name like "C", "f#" or "Bb", or "R"/"rest" for a rest.
func ParseNote(s string) (Note, error) {
	u := strings.ToUpper(strings.TrimSpace(s))
	switch u {
	case "R", "REST":
		return Rest, nil
	}

	if n, ok := flats[u]; ok {
		return n, nil
	}

	for i, name := range noteNames {
		if name == u {
			return Note(i), nil
		}
	}

	return Rest, fmt.Errorf("unknown note %q", s)
}
