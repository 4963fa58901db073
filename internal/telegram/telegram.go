package telegram

import (
	"context"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api"
	"golang.org/x/time/rate"
)

// MaxSendDurr configures the limiter to send at most 1 message per MaxSendDurr
var MaxSendDurr = 500 * time.Millisecond

// https://github.com/yagop/node-telegram-bot-api/issues/165
const maxMessageSize = 4096

// maxParts caps how many messages a single Send is split into
const maxParts = 9

type Bot struct {
	ctx       context.Context
	channelID int64
	api       *tgbotapi.BotAPI
	limiter   *rate.Limiter
}

func New(ctx context.Context, token string, channelID int64) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}

	return &Bot{
		ctx:       ctx,
		channelID: channelID,
		api:       api,
		// limit message spam to once every MaxSendDurr
		limiter: rate.NewLimiter(rate.Every(MaxSendDurr), 1),
	}, nil
}

// Send sends a message to the channel, optionally sending notifications depending on disableNotification.
// Long messages are split, internally ratelimited to once every MaxSendDurr.
func (t *Bot) Send(txt string, disableNotification bool) error {
	for _, part := range split(txt) {
		if err := t.limiter.Wait(t.ctx); err != nil {
			return err
		}

		msg := tgbotapi.NewMessage(t.channelID, part)
		msg.DisableNotification = disableNotification
		if _, err := t.api.Send(msg); err != nil {
			return err
		}
	}

	return nil
}

// split cuts txt on rune boundaries into messages telegram accepts,
// numbering them when there is more than one.
// Anything past maxParts messages is dropped.
func split(txt string) []string {
	if len(txt) <= maxMessageSize {
		return []string{txt}
	}

	// room for the " (n)" postfix
	const chunk = maxMessageSize - len(" (9)")
	var parts []string
	for i := 1; len(txt) > 0 && i <= maxParts; i++ {
		end := chunk
		if len(txt) < end {
			end = len(txt)
		}
		// never cut a rune in half, telegram wants valid utf-8
		for end > 0 && end < len(txt) && !utf8.RuneStart(txt[end]) {
			end--
		}
		parts = append(parts, txt[:end]+" ("+strconv.Itoa(i)+")")
		txt = txt[end:]
	}

	return parts
}

// HandleUpdates receives bot events, and calls callback with messages posted to the channel.
// Text from other chats, and commands addressed to other bots, are dropped.
// old bot events are replayed on calling the method, except when onlyNewUpdates is true
func (t *Bot) HandleUpdates(callback func(msg string), onlyNewUpdates bool) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates, err := t.api.GetUpdatesChan(u)
	if err != nil {
		return err
	}
	if onlyNewUpdates {
		updates.Clear()
	}

	for {
		select {
		case <-t.ctx.Done():
			return nil
		case u, ok := <-updates:
			if !ok {
				return nil
			}

			for _, m := range []*tgbotapi.Message{
				u.Message,
				u.EditedMessage,
				u.ChannelPost,
				u.EditedChannelPost,
			} {
				if t.accept(m) {
					callback(m.Text)
				}
			}
		}
	}
}

// accept reports whether m should reach the callback
func (t *Bot) accept(m *tgbotapi.Message) bool {
	if m == nil || m.Text == "" || m.Chat == nil || m.Chat.ID != t.channelID {
		return false
	}

	fields := strings.Fields(m.Text)
	if len(fields) == 0 {
		return false
	}
	if strings.Contains(fields[0], "@") && !t.SelfMessage(m.Text) {
		return false
	}

	return true
}

// SelfMessage reports whether txt is a command addressed to the bot, like "/play@piezobot"
func (t *Bot) SelfMessage(txt string) bool {
	fields := strings.Fields(txt)
	if len(fields) == 0 {
		return false
	}

	ix := strings.IndexByte(fields[0], '@')
	return ix != -1 && strings.EqualFold(fields[0][ix+1:], t.api.Self.UserName)
}
