package main

import (
	"code.sztanpet.net/zvpsz/piezo/internal/input"
	"code.sztanpet.net/zvpsz/piezo/internal/tone"
)

// the home row is the white keys, the row above it the black ones
var keys = map[rune]tone.Note{
	'a': tone.C,
	'w': tone.CSharp,
	's': tone.D,
	'e': tone.DSharp,
	'd': tone.E,
	'f': tone.F,
	't': tone.FSharp,
	'g': tone.G,
	'y': tone.GSharp,
	'h': tone.A,
	'u': tone.ASharp,
	'j': tone.B,
}

// 'k' is the C of the next octave
const nextC = 'k'

type piano struct {
	octave tone.Octave
	typ    tone.NoteType
}

// press handles a key, it returns the note to play if the key is one
func (p *piano) press(r rune) (tone.MusicalNote, bool) {
	switch r {
	case 'z', input.KeyArrowDown:
		if p.octave > 0 {
			p.octave--
		}
		return tone.MusicalNote{}, false
	case 'x', input.KeyArrowUp:
		if p.octave < tone.MaxOctave {
			p.octave++
		}
		return tone.MusicalNote{}, false
	case nextC:
		if p.octave == tone.MaxOctave {
			return tone.MusicalNote{}, false
		}
		return tone.MusicalNote{Note: tone.C, Octave: p.octave + 1, Type: p.typ}, true
	}

	n, ok := keys[r]
	if !ok {
		return tone.MusicalNote{}, false
	}

	return tone.MusicalNote{Note: n, Octave: p.octave, Type: p.typ}, true
}
