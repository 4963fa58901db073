package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"code.sztanpet.net/zvpsz/piezo/internal/buzzer"
	"code.sztanpet.net/zvpsz/piezo/internal/command"
	"code.sztanpet.net/zvpsz/piezo/internal/config"
	"code.sztanpet.net/zvpsz/piezo/internal/logwriter"
	"code.sztanpet.net/zvpsz/piezo/internal/player"
	"code.sztanpet.net/zvpsz/piezo/internal/telegram"
	"code.sztanpet.net/zvpsz/piezo/internal/tone"
	"github.com/juju/loggo"
	"golang.org/x/sync/errgroup"
)

type app struct {
	ctx    context.Context
	exit   context.CancelFunc
	cfg    *config.Config
	bot    *telegram.Bot
	buzzer *buzzer.Buzzer
	player *player.Player
}

var logger = loggo.GetLogger("buzzerd")

// startupJingle is played once the daemon is ready
var startupJingle = tone.Melody{
	{Note: tone.C, Octave: 6, Type: tone.Semiquaver},
	{Note: tone.E, Octave: 6, Type: tone.Semiquaver},
	{Note: tone.G, Octave: 6, Type: tone.Quaver},
}

func main() {
	cfg := config.Get(true)
	ctx, exit := context.WithCancel(context.Background())
	a := &app{
		ctx:  ctx,
		exit: exit,
		cfg:  cfg,
	}

	// logging sends messages to telegram, so it depends on it
	a.setupTelegram()
	a.setupLogging()
	a.handleSignals()
	a.setupBuzzer()
	defer func() {
		if err := a.buzzer.Close(); err != nil {
			logger.Warningf("buzzer close error: %v", err)
		}
	}()

	// serialized access to the buzzer, nothing else touches it from here on
	a.player = player.New(a.buzzer, cfg.ScorePath, cfg.BPM)
	a.player.Submit(command.Command{Kind: command.PlayNotes, Melody: startupJingle, BPM: cfg.BPM}, nil)

	g, gctx := errgroup.WithContext(a.ctx)
	g.Go(func() error {
		return a.player.Run(gctx)
	})
	if a.bot != nil {
		g.Go(func() error {
			// losing remote control is not a reason to stop playing
			if err := a.bot.HandleUpdates(a.onMessage, true); err != nil {
				logger.Warningf("telegram updates stopped: %v", err)
			}
			return nil
		})
	}

	logger.Infof("buzzerd started, %v backend on timer %d channel %d", cfg.Backend, cfg.Timer, cfg.Channel)
	if err := g.Wait(); err != nil {
		logger.Errorf("exiting with error: %v", err)
	}

	// give the log writer a moment to flush to telegram
	time.Sleep(250 * time.Millisecond)
}

func (a *app) handleSignals() {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
	go func(c chan os.Signal) {
		s := <-c
		// exit unconditionally on any signal
		logger.Warningf("Got signal: %s, exiting cleanly", s)
		a.exit()
	}(c)
}

func (a *app) setupLogging() {
	if err := logwriter.Setup(a.bot, a.cfg); err != nil {
		logger.Criticalf("logwriter setup failed: %v", err)
		os.Exit(1)
	}
}

func (a *app) setupTelegram() {
	if !a.cfg.HasTelegram() {
		return
	}

	bot, err := telegram.New(a.ctx, a.cfg.TelegramToken, a.cfg.TelegramChannelID)
	if err != nil {
		// not fatal, the buzzer works without remote control
		logger.Warningf("telegram setup failed: %v", err)
		return
	}

	a.bot = bot
}

func (a *app) setupBuzzer() {
	b, err := buzzer.New(a.cfg)
	if err != nil {
		logger.Criticalf("failed to initialize buzzer: %v", err)
		os.Exit(1)
	}

	a.buzzer = b
}

// onMessage handles text received over telegram
func (a *app) onMessage(msg string) {
	cmd, err := command.Parse(msg)
	if err != nil {
		a.reply(err.Error())
		return
	}

	logger.Debugf("received %v", cmd)
	if !a.player.Submit(cmd, a.reply) {
		a.reply("busy, try again later")
	}
}

func (a *app) reply(text string) {
	go func() {
		if err := a.bot.Send(text, true); err != nil {
			logger.Debugf("reply failed: %v", err)
		}
	}()
}
