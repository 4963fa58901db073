package tone

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// NoteType is the duration of a note in eighths of a beat, a beat being one crotchet.
type NoteType uint32

const (
	Semiquaver       NoteType = 2
	SemiquaverDotted NoteType = 3
	Quaver           NoteType = 4
	QuaverDotted     NoteType = 6
	Crotchet         NoteType = 8
	CrotchetDotted   NoteType = 12
	Minim            NoteType = 16
	MinimDotted      NoteType = 24
	Semibreve        NoteType = 32
	SemibreveDotted  NoteType = 48
)

// pulseDivisions is how many parts a beat is divided into before multiplying by the NoteType
const pulseDivisions = 8

const msPerMinute = 60000

// MaxNoteType is the longest raw weight ParseNoteType accepts, four dotted semibreves
const MaxNoteType = 4 * SemibreveDotted

var noteTypeNames = map[NoteType]string{
	Semiquaver:       "semiquaver",
	SemiquaverDotted: "semiquaver.",
	Quaver:           "quaver",
	QuaverDotted:     "quaver.",
	Crotchet:         "crotchet",
	CrotchetDotted:   "crotchet.",
	Minim:            "minim",
	MinimDotted:      "minim.",
	Semibreve:        "semibreve",
	SemibreveDotted:  "semibreve.",
}

func (t NoteType) String() string {
	if name, ok := noteTypeNames[t]; ok {
		return name
	}
	return strconv.FormatUint(uint64(t), 10)
}

// ParseNoteType accepts the names printed by NoteType.String (a trailing '.'
// marks a dotted note) or a raw weight in eighths of a beat, up to MaxNoteType.
func ParseNoteType(s string) (NoteType, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for t, name := range noteTypeNames {
		if name == s {
			return t, nil
		}
	}

	w, err := strconv.ParseUint(s, 10, 32)
	if err != nil || w == 0 {
		return 0, fmt.Errorf("unknown note type %q", s)
	}
	if w > uint64(MaxNoteType) {
		return 0, fmt.Errorf("note type %q is longer than %v", s, uint64(MaxNoteType))
	}

	return NoteType(w), nil
}

// DurationMs converts a note type to milliseconds at the given tempo.
// Integer division is used throughout, a bpm of 0 returns 0.
// Durations that don't fit a uint32 saturate at math.MaxUint32.
func DurationMs(t NoteType, bpm uint32) uint32 {
	if bpm == 0 {
		return 0
	}

	msPerBeat := uint64(msPerMinute / bpm)
	ms := msPerBeat * uint64(t) / pulseDivisions
	if ms > math.MaxUint32 {
		return math.MaxUint32
	}
	return uint32(ms)
}
