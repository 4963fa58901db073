package logwriter

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"code.sztanpet.net/zvpsz/piezo/internal/config"
	"code.sztanpet.net/zvpsz/piezo/internal/file"
	"code.sztanpet.net/zvpsz/piezo/internal/telegram"
	"github.com/juju/loggo"
)

type sender interface {
	Send(txt string, disableNotification bool) error
}

type writer struct {
	path   string
	echo   io.Writer
	bot    sender
	botErr io.Writer
}

// Setup replaces the default loggo writer with one appending to
// <STATE_PATH>/<binary>.log, echoing to stderr, and forwarding to bot when it isn't nil.
func Setup(bot *telegram.Bot, cfg *config.Config) error {
	path, err := os.Executable()
	if err != nil {
		return fmt.Errorf("os.Executable() failed: %w", err)
	}

	w := &writer{
		path:   filepath.Join(cfg.StatePath, filepath.Base(path)+".log"),
		echo:   os.Stderr,
		botErr: os.Stderr,
	}
	// a nil *Bot in the interface would not compare equal to nil
	if bot != nil {
		w.bot = bot
	}

	_, _ = loggo.RemoveWriter("default")
	if err := loggo.RegisterWriter("default", w); err != nil {
		return err
	}

	return loggo.ConfigureLoggers(cfg.LogSpec)
}

func (w *writer) Write(e loggo.Entry) {
	line := w.formatEntry(e)

	fp := e.Filename
	ix := strings.Index(e.Filename, "piezo/")
	if ix != -1 {
		fp = fp[ix+len("piezo/"):]
	}

	l := fmt.Sprintf("%v%v:%v %v\n",
		e.Timestamp.Format("[2006-01-02 15:04:05] "),
		fp, e.Line,
		line,
	)
	if w.echo != nil {
		_, _ = io.WriteString(w.echo, l)
	}
	if err := file.Append(w.path, []byte(l)); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to write log file: %v\n", err)
	}

	if w.bot == nil {
		return
	}

	go func() {
		needNotification := e.Level >= loggo.WARNING
		err := w.bot.Send(line, !needNotification)
		if err != nil && w.botErr != nil {
			fmt.Fprintf(w.botErr, "%v bot send error: %v\n", e.Timestamp.Format("[2006-01-02 15:04:05]"), err)
		}
	}()
}

func (w *writer) formatEntry(e loggo.Entry) string {
	// who can remember the order of the levels right?
	// indicate the level like T1 for TRACE D2 for debug, etc
	return fmt.Sprintf(
		"[%v%v|%v:%v:%v] %v",
		string(e.Level.String()[0]),
		int(e.Level),
		e.Module,
		filepath.Base(e.Filename),
		e.Line,
		e.Message,
	)
}
