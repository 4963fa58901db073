// command parses the text commands accepted over telegram
package command

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"code.sztanpet.net/zvpsz/piezo/internal/tone"
)

type Kind int

const (
	Help Kind = iota
	PlayTest
	PlayScore
	PlayNotes
	PlayFrequency
	Rest
)

func (k Kind) String() string {
	switch k {
	case Help:
		return "help"
	case PlayTest:
		return "play test"
	case PlayScore:
		return "play score"
	case PlayNotes:
		return "notes"
	case PlayFrequency:
		return "freq"
	case Rest:
		return "rest"
	default:
		return "Kind(" + strconv.Itoa(int(k)) + ")"
	}
}

const Usage = `commands:
  play test [bpm]          plays the test melody
  play <score> [bpm]       plays a score from the score directory
  note <notes...> [bpm=N]  plays notes like C#4:crotchet R:quaver
  freq <hz> <ms>           plays a frequency for ms milliseconds
  rest <ms>                stays silent for ms milliseconds
  help                     shows this message`

var ErrUsage = errors.New("invalid command")

// Command is a parsed request, BPM is 0 when the default tempo should be used
type Command struct {
	Kind   Kind
	Score  string
	Melody tone.Melody
	Hz     uint32
	Ms     uint32
	BPM    uint32
}

func (c Command) String() string {
	switch c.Kind {
	case PlayScore:
		return fmt.Sprintf("play %v at %v bpm", c.Score, c.BPM)
	case PlayTest:
		return fmt.Sprintf("play test at %v bpm", c.BPM)
	case PlayNotes:
		return fmt.Sprintf("note %v at %v bpm", c.Melody, c.BPM)
	case PlayFrequency:
		return fmt.Sprintf("freq %vHz for %vms", c.Hz, c.Ms)
	case Rest:
		return fmt.Sprintf("rest %vms", c.Ms)
	default:
		return c.Kind.String()
	}
}

func usageErr(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %v\n%v", ErrUsage, fmt.Sprintf(format, args...), Usage)
}

// Parse parses text like "/play test 90" or "note@piezobot C4 E4 G4 bpm=60".
func Parse(text string) (Command, error) {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return Command{}, usageErr("empty command")
	}

	name := strings.ToLower(strings.TrimPrefix(fields[0], "/"))
	// commands in groups are suffixed with the bot's name
	if ix := strings.IndexByte(name, '@'); ix != -1 {
		name = name[:ix]
	}
	args := fields[1:]

	switch name {
	case "help", "start":
		return Command{Kind: Help}, nil

	case "play":
		if len(args) == 0 || len(args) > 2 {
			return Command{}, usageErr("play needs a score name and an optional bpm")
		}
		c := Command{Kind: PlayScore, Score: args[0]}
		if args[0] == "test" {
			c.Kind = PlayTest
			c.Score = ""
		}
		if len(args) == 2 {
			bpm, err := parsePositive("bpm", args[1])
			if err != nil {
				return Command{}, err
			}
			c.BPM = bpm
		}
		return c, nil

	case "note", "notes":
		c := Command{Kind: PlayNotes}
		if n := len(args); n > 0 && strings.HasPrefix(strings.ToLower(args[n-1]), "bpm=") {
			bpm, err := parsePositive("bpm", args[n-1][len("bpm="):])
			if err != nil {
				return Command{}, err
			}
			c.BPM = bpm
			args = args[:n-1]
		}
		if len(args) == 0 {
			return Command{}, usageErr("note needs at least one note")
		}
		m, err := tone.ParseMelody(strings.Join(args, " "))
		if err != nil {
			return Command{}, usageErr("%v", err)
		}
		c.Melody = m
		return c, nil

	case "freq":
		if len(args) != 2 {
			return Command{}, usageErr("freq needs a frequency and a duration")
		}
		hz, err := parsePositive("frequency", args[0])
		if err != nil {
			return Command{}, err
		}
		ms, err := parsePositive("duration", args[1])
		if err != nil {
			return Command{}, err
		}
		return Command{Kind: PlayFrequency, Hz: hz, Ms: ms}, nil

	case "rest":
		if len(args) != 1 {
			return Command{}, usageErr("rest needs a duration")
		}
		ms, err := parsePositive("duration", args[0])
		if err != nil {
			return Command{}, err
		}
		return Command{Kind: Rest, Ms: ms}, nil
	}

	return Command{}, usageErr("unknown command %q", fields[0])
}

func parsePositive(what, s string) (uint32, error) {
	v, err := strconv.ParseUint(s, 10, 32)
	if err != nil || v == 0 {
		return 0, usageErr("%v must be a number above 0, got %q", what, s)
	}
	return uint32(v), nil
}
