package main

import (
	"fmt"
	"os"

	"code.sztanpet.net/zvpsz/piezo/internal/buzzer"
	"code.sztanpet.net/zvpsz/piezo/internal/config"
)

func main() {
	cfg := config.Get(false)

	b, err := buzzer.New(cfg)
	if err != nil {
		fmt.Printf("buzzer err: %v\n", err)
		os.Exit(1)
	}
	defer b.Close()

	fmt.Printf("playing the test melody at %v bpm\n", cfg.BPM)
	if err := b.PlayTestMelody(cfg.BPM); err != nil {
		fmt.Printf("play err: %v\n", err)
		b.Close()
		os.Exit(1)
	}
}
