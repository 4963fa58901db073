package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func env(vars map[string]string) func(string) string {
	return func(k string) string { return vars[k] }
}

func TestParseDefaults(t *testing.T) {
	cfg, err := Parse(env(nil))
	require.NoError(t, err)

	assert.Equal(t, BackendSysfs, cfg.Backend)
	assert.Equal(t, uint32(120), cfg.BPM)
	assert.Equal(t, 0, cfg.Timer)
	assert.Equal(t, 0, cfg.Channel)
	assert.False(t, cfg.Legato)
	assert.Equal(t, "<root>=INFO", cfg.LogSpec)
	assert.Empty(t, cfg.StatePath)
	assert.Empty(t, cfg.ScorePath)
	assert.False(t, cfg.HasTelegram())
}

func TestParseFull(t *testing.T) {
	cfg, err := Parse(env(map[string]string{
		"STATE_PATH":         "/var/lib/buzzer",
		"PWM_BACKEND":        "periph",
		"BUZZER_PIN":         "GPIO13",
		"PWM_TIMER":          "1",
		"PWM_CHANNEL":        "2",
		"BUZZER_BPM":         "90",
		"BUZZER_LEGATO":      "true",
		"TELEGRAM_TOKEN":     "123:abc",
		"TELEGRAM_CHANNELID": "-1001234",
		"LOG_SPEC":           "main.pwm=TRACE",
	}))
	require.NoError(t, err)

	assert.Equal(t, BackendPeriph, cfg.Backend)
	assert.Equal(t, "GPIO13", cfg.Pin)
	assert.Equal(t, 1, cfg.Timer)
	assert.Equal(t, 2, cfg.Channel)
	assert.Equal(t, uint32(90), cfg.BPM)
	assert.True(t, cfg.Legato)
	assert.Equal(t, filepath.Join("/var/lib/buzzer", "scores"), cfg.ScorePath)
	assert.True(t, cfg.HasTelegram())
	assert.Equal(t, int64(-1001234), cfg.TelegramChannelID)
	assert.Equal(t, "main.pwm=TRACE", cfg.LogSpec)
}

func TestParseErrors(t *testing.T) {
	tests := map[string]map[string]string{
		"zero bpm":         {"BUZZER_BPM": "0"},
		"bad bpm":          {"BUZZER_BPM": "fast"},
		"negative timer":   {"PWM_TIMER": "-1"},
		"bad channel":      {"PWM_CHANNEL": "a"},
		"unknown backend":  {"PWM_BACKEND": "ledc"},
		"periph needs pin": {"PWM_BACKEND": "periph"},
		"bad legato":       {"BUZZER_LEGATO": "sometimes"},
		"token only":       {"TELEGRAM_TOKEN": "123:abc"},
		"bad channel id":   {"TELEGRAM_TOKEN": "123:abc", "TELEGRAM_CHANNELID": "x"},
		"channel id only":  {"TELEGRAM_CHANNELID": "1"},
	}

	for name, vars := range tests {
		_, err := Parse(env(vars))
		assert.Error(t, err, name)
	}
}
