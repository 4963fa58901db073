package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"code.sztanpet.net/zvpsz/piezo/internal/buzzer"
	"code.sztanpet.net/zvpsz/piezo/internal/config"
	"code.sztanpet.net/zvpsz/piezo/internal/file"
	"code.sztanpet.net/zvpsz/piezo/internal/logwriter"
	"code.sztanpet.net/zvpsz/piezo/internal/score"
	"github.com/juju/loggo"
)

var logger = loggo.GetLogger("melody")

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "usage: %v <score name or file>...\n", os.Args[0])
		os.Exit(2)
	}

	cfg := config.Get(false)
	if err := logwriter.Setup(nil, cfg); err != nil {
		fmt.Fprintf(os.Stderr, "logwriter setup failed: %v\n", err)
		os.Exit(1)
	}

	scores := make([]*score.Score, 0, len(os.Args)-1)
	for _, arg := range os.Args[1:] {
		s, err := load(cfg, arg)
		if err != nil {
			logger.Criticalf("%v", err)
			os.Exit(1)
		}
		scores = append(scores, s)
	}

	b, err := buzzer.New(cfg)
	if err != nil {
		logger.Criticalf("failed to initialize buzzer: %v", err)
		os.Exit(1)
	}
	defer b.Close()

	// a melody always plays to its end, a signal only stops the ones after it
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	for _, s := range scores {
		if ctx.Err() != nil {
			logger.Infof("interrupted, skipping %v", s.Name)
			continue
		}

		logger.Infof("playing %v, %d notes at %v bpm", s.Name, len(s.Melody), s.BPM)
		if err := b.PlayMelody(s.Melody, s.BPM); err != nil {
			logger.Errorf("%v: %v", s.Name, err)
			return
		}
	}
}

// load reads arg as a file when it exists, otherwise as a name in the score directory
func load(cfg *config.Config, arg string) (*score.Score, error) {
	if file.Exists(arg) {
		return score.Load(arg)
	}
	return score.Find(cfg.ScorePath, arg)
}
