package logwriter

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/juju/loggo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sent struct {
	txt    string
	silent bool
}

type fakeBot chan sent

func (b fakeBot) Send(txt string, disableNotification bool) error {
	b <- sent{txt, disableNotification}
	return nil
}

func entry(level loggo.Level, msg string) loggo.Entry {
	return loggo.Entry{
		Level:     level,
		Module:    "main.buzzer",
		Filename:  "/home/build/piezo/internal/buzzer/buzzer.go",
		Line:      42,
		Timestamp: time.Date(2021, 5, 12, 10, 4, 5, 0, time.UTC),
		Message:   msg,
	}
}

func TestFormatEntry(t *testing.T) {
	w := &writer{}
	assert.Equal(t, "[W4|main.buzzer:buzzer.go:42] pause failed", w.formatEntry(entry(loggo.WARNING, "pause failed")))
	assert.Equal(t, "[T1|main.buzzer:buzzer.go:42] x", w.formatEntry(entry(loggo.TRACE, "x")))
}

func TestWrite(t *testing.T) {
	var echo bytes.Buffer
	bot := make(fakeBot, 2)
	w := &writer{
		path: filepath.Join(t.TempDir(), "buzzerd.log"),
		echo: &echo,
		bot:  bot,
	}

	w.Write(entry(loggo.INFO, "started"))
	w.Write(entry(loggo.ERROR, "timer gone"))

	b, err := os.ReadFile(w.path)
	require.NoError(t, err)
	want := "[2021-05-12 10:04:05] internal/buzzer/buzzer.go:42 [I3|main.buzzer:buzzer.go:42] started\n" +
		"[2021-05-12 10:04:05] internal/buzzer/buzzer.go:42 [E5|main.buzzer:buzzer.go:42] timer gone\n"
	assert.Equal(t, want, string(b))
	assert.Equal(t, want, echo.String())

	// sends happen in the background, in any order
	got := map[string]bool{}
	for i := 0; i < 2; i++ {
		select {
		case s := <-bot:
			got[s.txt] = s.silent
		case <-time.After(5 * time.Second):
			t.Fatal("nothing sent to the bot")
		}
	}
	assert.Equal(t, map[string]bool{
		"[I3|main.buzzer:buzzer.go:42] started":    true,
		"[E5|main.buzzer:buzzer.go:42] timer gone": false,
	}, got)
}
