package main

import (
	"context"
	"fmt"
	"os"

	"code.sztanpet.net/zvpsz/piezo/internal/buzzer"
	"code.sztanpet.net/zvpsz/piezo/internal/config"
	"code.sztanpet.net/zvpsz/piezo/internal/input"
	"code.sztanpet.net/zvpsz/piezo/internal/logwriter"
	"code.sztanpet.net/zvpsz/piezo/internal/tone"
	"github.com/juju/loggo"
)

var logger = loggo.GetLogger("keyboard-piano")

func main() {
	cfg := config.Get(false)
	if err := logwriter.Setup(nil, cfg); err != nil {
		fmt.Fprintf(os.Stderr, "logwriter setup failed: %v\n", err)
		os.Exit(1)
	}

	b, err := buzzer.New(cfg)
	if err != nil {
		logger.Criticalf("failed to initialize buzzer: %v", err)
		os.Exit(1)
	}
	defer b.Close()

	in, err := input.New(context.Background())
	if err != nil {
		logger.Criticalf("tty open error: %v", err)
		return
	}
	defer in.Close()

	fmt.Print("keys a-k play, w e t y u are sharps, z/x change octave, ctrl+d exits\r\n")
	p := &piano{octave: 4, typ: tone.Quaver}
	for {
		r, err := in.ReadRune()
		if err != nil {
			logger.Debugf("read rune error: %v", err)
			continue
		}

		// raw mode swallows ctrl+c, so both keys exit
		if r == input.KeyEndTransmission || r == input.KeyInterrupt {
			return
		}

		n, ok := p.press(r)
		if !ok {
			continue
		}

		fmt.Printf("%v\r\n", n)
		if err := b.PlayNote(n, cfg.BPM); err != nil {
			logger.Warningf("play %v: %v", n, err)
		}
	}
}
