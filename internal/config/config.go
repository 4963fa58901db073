package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/juju/loggo"
)

var logger = loggo.GetLogger("main.config")

// Backends selectable with PWM_BACKEND
const (
	BackendSysfs   = "sysfs"
	BackendPeriph  = "periph"
	BackendSpeaker = "speaker"
)

type Config struct {
	StatePath string
	LogSpec   string

	Backend   string
	SysfsBase string
	Timer     int
	Channel   int
	Pin       string
	BPM       uint32
	Legato    bool
	ScorePath string

	TelegramToken     string
	TelegramChannelID int64
}

// Get reads the config from the environment, exiting on invalid values.
// STATE_PATH is only enforced when requireState is set, otherwise it defaults to the temp dir.
func Get(requireState bool) *Config {
	cfg, err := Parse(os.Getenv)
	if err != nil {
		logger.Criticalf("%v", err)
		os.Exit(1)
	}

	if cfg.StatePath == "" {
		if requireState {
			logger.Criticalf("Empty STATE_PATH env var!")
			os.Exit(1)
		}
		cfg.StatePath = os.TempDir()
		if cfg.ScorePath == "" {
			cfg.ScorePath = filepath.Join(cfg.StatePath, "scores")
		}
	}

	return cfg
}

// Parse builds a Config from getenv, STATE_PATH is left empty if unset
func Parse(getenv func(string) string) (*Config, error) {
	cfg := &Config{
		StatePath: getenv("STATE_PATH"),
		LogSpec:   getenv("LOG_SPEC"),
		Backend:   getenv("PWM_BACKEND"),
		SysfsBase: getenv("PWM_SYSFS_BASE"),
		Pin:       getenv("BUZZER_PIN"),
		ScorePath: getenv("SCORE_PATH"),
		BPM:       120,
	}

	if cfg.LogSpec == "" {
		cfg.LogSpec = "<root>=INFO"
	}

	switch cfg.Backend {
	case "":
		cfg.Backend = BackendSysfs
	case BackendSysfs, BackendSpeaker:
	case BackendPeriph:
		if cfg.Pin == "" {
			return nil, fmt.Errorf("Empty BUZZER_PIN env var, required by the %v backend!", BackendPeriph)
		}
	default:
		return nil, fmt.Errorf("Unknown PWM_BACKEND %q!", cfg.Backend)
	}

	var err error
	if cfg.Timer, err = parseInt(getenv, "PWM_TIMER"); err != nil {
		return nil, err
	}
	if cfg.Channel, err = parseInt(getenv, "PWM_CHANNEL"); err != nil {
		return nil, err
	}

	if bpm := getenv("BUZZER_BPM"); bpm != "" {
		v, err := strconv.ParseUint(bpm, 10, 32)
		if err != nil || v == 0 {
			return nil, fmt.Errorf("Failed parsing BUZZER_BPM env var, must be above 0!")
		}
		cfg.BPM = uint32(v)
	}

	if legato := getenv("BUZZER_LEGATO"); legato != "" {
		cfg.Legato, err = strconv.ParseBool(legato)
		if err != nil {
			return nil, fmt.Errorf("Failed parsing BUZZER_LEGATO env var!")
		}
	}

	if cfg.ScorePath == "" && cfg.StatePath != "" {
		cfg.ScorePath = filepath.Join(cfg.StatePath, "scores")
	}

	cfg.TelegramToken = getenv("TELEGRAM_TOKEN")
	cid := getenv("TELEGRAM_CHANNELID")
	switch {
	case cfg.TelegramToken == "" && cid == "":
		// telegram is optional
	case cfg.TelegramToken == "" || cid == "":
		return nil, fmt.Errorf("TELEGRAM_TOKEN and TELEGRAM_CHANNELID env vars must be set together!")
	default:
		cfg.TelegramChannelID, err = strconv.ParseInt(cid, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("Failed parsing TELEGRAM_CHANNELID env var!")
		}
	}

	return cfg, nil
}

// HasTelegram reports whether remote logging and commands are configured
func (c *Config) HasTelegram() bool {
	return c.TelegramToken != ""
}

func parseInt(getenv func(string) string, name string) (int, error) {
	v := getenv(name)
	if v == "" {
		return 0, nil
	}

	i, err := strconv.Atoi(v)
	if err != nil || i < 0 {
		return 0, fmt.Errorf("Failed parsing %v env var!", name)
	}

	return i, nil
}
