package tone

// baseFreq holds the octave 8 frequency of each pitch class in Hz,
// lower octaves are derived by halving.
var baseFreq = [numNotes]float64{
	4186, // C
	4435, // C#
	4699, // D
	4978, // D#
	5274, // E
	5588, // F
	5920, // F#
	6272, // G
	6645, // G#
	7040, // A
	7459, // A#
	7902, // B
}

// Frequency returns the frequency of note at octave in Hz.
// Octaves above MaxOctave are clamped, a Rest or unknown note returns 0.
func Frequency(n Note, o Octave) float64 {
	if !n.Pitched() {
		return 0
	}
	if o > MaxOctave {
		o = MaxOctave
	}

	divider := float64(uint(1) << (MaxOctave - o))
	return baseFreq[n] / divider
}
