package listener

import (
	"context"
	"strings"

	"alphawatch/internal/storage"
	kit "alphawatch/internal/transport"
	"alphawatch/pkg/logx"
)

const (
	welcomeText = "👋 You're in! New Binance Alpha listings will be announced here."
	alreadyText = "You're already subscribed. Sit tight — announcements land here automatically."
	helpText    = "I watch the Binance Alpha catalog and announce newly listed tokens.\n\n" +
		"/start — subscribe this chat\n" +
		"/help — this message"
	storeFailText = "Something went wrong saving your subscription. Please try again in a moment."
)

// Listener consumes inbound updates and registers the sender as a
// subscriber. Messaging the bot at all counts as consent: the original bot
// announced to every chat that had ever contacted it.
type Listener struct {
	store   storage.Store
	adapter kit.Adapter
	log     logx.Logger
}

func New(store storage.Store, adapter kit.Adapter, log logx.Logger) *Listener {
	if log.IsZero() {
		log = logx.Nop()
	}
	return &Listener{store: store, adapter: adapter, log: log}
}

// Run drains updates until ctx is canceled or the channel closes.
// A bad update never stops the listener.
func (l *Listener) Run(ctx context.Context, updates <-chan kit.Update) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case up, ok := <-updates:
			if !ok {
				return nil
			}
			l.handle(ctx, up)
		}
	}
}

func (l *Listener) handle(ctx context.Context, up kit.Update) {
	m := up.Message
	if m == nil || m.ChatID == 0 {
		return
	}

	switch command(m.Text) {
	case "/start":
		added, err := l.store.AddSubscriber(ctx, m.ChatID)
		if err != nil {
			l.log.Error("subscriber add failed", logx.Int64("chat_id", m.ChatID), logx.Err(err))
			l.reply(ctx, m.ChatID, storeFailText)
			return
		}
		if added {
			l.log.Info("subscriber added", logx.Int64("chat_id", m.ChatID), logx.String("username", m.FromUsername))
			l.reply(ctx, m.ChatID, welcomeText)
		} else {
			l.reply(ctx, m.ChatID, alreadyText)
		}
	case "/help":
		l.reply(ctx, m.ChatID, helpText)
	default:
		// Unknown text still subscribes the chat, then explains itself.
		added, err := l.store.AddSubscriber(ctx, m.ChatID)
		if err != nil {
			l.log.Error("subscriber add failed", logx.Int64("chat_id", m.ChatID), logx.Err(err))
		} else if added {
			l.log.Info("subscriber added", logx.Int64("chat_id", m.ChatID), logx.String("username", m.FromUsername))
		}
		l.reply(ctx, m.ChatID, helpText)
	}
}

func (l *Listener) reply(ctx context.Context, chatID int64, text string) {
	_, err := l.adapter.SendText(ctx, kit.ChatTarget{ChatID: chatID}, text, &kit.SendOptions{DisablePreview: true})
	if err != nil {
		l.log.Warn("reply failed", logx.Int64("chat_id", chatID), logx.Err(err))
	}
}

// command extracts a leading /command, dropping any @botname suffix.
func command(text string) string {
	fields := strings.Fields(text)
	if len(fields) == 0 || !strings.HasPrefix(fields[0], "/") {
		return ""
	}
	cmd := strings.ToLower(fields[0])
	if i := strings.IndexByte(cmd, '@'); i >= 0 {
		cmd = cmd[:i]
	}
	return cmd
}
