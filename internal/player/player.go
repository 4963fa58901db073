// player executes commands on a buzzer one at a time, from a single goroutine
package player

import (
	"context"
	"fmt"
	"strings"

	"code.sztanpet.net/zvpsz/piezo/internal/command"
	"code.sztanpet.net/zvpsz/piezo/internal/score"
	"code.sztanpet.net/zvpsz/piezo/internal/tone"
	"github.com/juju/loggo"
)

var logger = loggo.GetLogger("main.player")

// QueueSize is how many commands can wait while another one plays
var QueueSize = 8

// Buzzer is the subset of *buzzer.Buzzer the player needs
type Buzzer interface {
	PlayMelody(m tone.Melody, bpm uint32) error
	PlayTestMelody(bpm uint32) error
	SetFrequency(hz uint32) error
	PlayForMs(ms uint32) error
	RestForMs(ms uint32) error
}

// Reply receives the outcome of a command, it is called from the player goroutine
type Reply func(text string)

type request struct {
	cmd   command.Command
	reply Reply
}

type Player struct {
	buzzer    Buzzer
	scorePath string
	bpm       uint32
	queue     chan request
}

// New creates a Player, bpm is used for commands without a tempo of their own
func New(b Buzzer, scorePath string, bpm uint32) *Player {
	return &Player{
		buzzer:    b,
		scorePath: scorePath,
		bpm:       bpm,
		queue:     make(chan request, QueueSize),
	}
}

// Submit queues cmd without blocking, false is returned when the queue is full.
// reply may be nil.
func (p *Player) Submit(cmd command.Command, reply Reply) bool {
	select {
	case p.queue <- request{cmd: cmd, reply: reply}:
		return true
	default:
		logger.Warningf("Submit: queue full, dropping %v", cmd)
		return false
	}
}

// Run executes queued commands until ctx is cancelled. A command that
// already started always plays to the end.
func (p *Player) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			logger.Infof("Run: context cancelled, exiting")
			return nil

		case req := <-p.queue:
			text, err := p.Execute(req.cmd)
			if err != nil {
				logger.Warningf("%v failed: %v", req.cmd, err)
				text = fmt.Sprintf("%v failed: %v", req.cmd, err)
			}
			if req.reply != nil && text != "" {
				req.reply(text)
			}
		}
	}
}

// Execute runs cmd synchronously, the returned text is meant for the user
func (p *Player) Execute(cmd command.Command) (string, error) {
	bpm := cmd.BPM
	if bpm == 0 {
		bpm = p.bpm
	}

	switch cmd.Kind {
	case command.Help:
		names, err := score.List(p.scorePath)
		if err != nil || len(names) == 0 {
			return command.Usage, nil
		}
		return command.Usage + "\nscores: " + strings.Join(names, ", "), nil

	case command.PlayTest:
		return "", p.buzzer.PlayTestMelody(bpm)

	case command.PlayScore:
		s, err := score.Find(p.scorePath, cmd.Score)
		if err != nil {
			return "", err
		}
		if cmd.BPM == 0 {
			bpm = s.BPM
		}
		logger.Infof("playing %v, %d notes at %v bpm", s.Name, len(s.Melody), bpm)
		return "", p.buzzer.PlayMelody(s.Melody, bpm)

	case command.PlayNotes:
		return "", p.buzzer.PlayMelody(cmd.Melody, bpm)

	case command.PlayFrequency:
		if err := p.buzzer.SetFrequency(cmd.Hz); err != nil {
			return "", err
		}
		return "", p.buzzer.PlayForMs(cmd.Ms)

	case command.Rest:
		return "", p.buzzer.RestForMs(cmd.Ms)
	}

	return "", fmt.Errorf("unhandled command %v", cmd.Kind)
}
