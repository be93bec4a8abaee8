package notify

import (
	"context"

	"alphawatch/internal/storage"
	kit "alphawatch/internal/transport"
	"alphawatch/pkg/logx"
)

// Report records per-broadcast delivery counts. Observability only; failed
// recipients are not retried.
type Report struct {
	Total  int
	Sent   int
	Failed int
}

// Broadcaster fans one announcement out to every subscriber.
type Broadcaster struct {
	store   storage.Store
	adapter kit.Adapter
	log     logx.Logger
}

func NewBroadcaster(store storage.Store, adapter kit.Adapter, log logx.Logger) *Broadcaster {
	if log.IsZero() {
		log = logx.Nop()
	}
	return &Broadcaster{store: store, adapter: adapter, log: log}
}

// Broadcast reads the subscriber set fresh (so chats subscribed mid-run are
// reachable) and attempts delivery to each one independently. A failed send
// is logged and counted but never aborts delivery to the rest.
func (b *Broadcaster) Broadcast(ctx context.Context, text string) (Report, error) {
	subs, err := b.store.Subscribers(ctx)
	if err != nil {
		return Report{}, err
	}

	rep := Report{Total: len(subs)}
	opt := &kit.SendOptions{ParseMode: "HTML", DisablePreview: true}
	for _, id := range subs {
		if _, err := b.adapter.SendText(ctx, kit.ChatTarget{ChatID: id}, text, opt); err != nil {
			rep.Failed++
			b.log.Warn("announcement delivery failed", logx.Int64("chat_id", id), logx.Err(err))
			continue
		}
		rep.Sent++
	}

	if rep.Failed > 0 {
		b.log.Warn("broadcast finished with failures", logx.Int("total", rep.Total), logx.Int("sent", rep.Sent), logx.Int("failed", rep.Failed))
	} else {
		b.log.Info("broadcast finished", logx.Int("total", rep.Total), logx.Int("sent", rep.Sent))
	}
	return rep, nil
}
