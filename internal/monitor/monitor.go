package monitor

import (
	"context"
	"runtime/debug"
	"time"

	"alphawatch/internal/catalog"
	"alphawatch/internal/notify"
	"alphawatch/pkg/logx"
)

type State int

const (
	// StateSeeding: no baseline yet; the first successful fetch is adopted
	// silently so existing listings are not announced as new.
	StateSeeding State = iota
	StateWatching
)

func (s State) String() string {
	if s == StateSeeding {
		return "seeding"
	}
	return "watching"
}

// Fetcher yields the current catalog snapshot.
type Fetcher interface {
	Fetch(ctx context.Context) (catalog.Snapshot, error)
}

// Broadcaster delivers one rendered announcement to all subscribers.
type Broadcaster interface {
	Broadcast(ctx context.Context, text string) (notify.Report, error)
}

// Monitor runs the fetch → diff → announce → advance cycle on a schedule.
// The previous snapshot is owned exclusively by the monitor goroutine.
type Monitor struct {
	fetcher Fetcher
	caster  Broadcaster
	render  func(catalog.Entry) string
	sched   Schedule
	log     logx.Logger

	state State
	prev  catalog.Snapshot
}

func New(fetcher Fetcher, caster Broadcaster, sched Schedule, log logx.Logger) *Monitor {
	if log.IsZero() {
		log = logx.Nop()
	}
	return &Monitor{
		fetcher: fetcher,
		caster:  caster,
		render:  notify.Render,
		sched:   sched,
		log:     log,
		state:   StateSeeding,
	}
}

// Run loops until ctx is canceled. Cycles never overlap: each one fully
// completes, including all broadcasts, before the next sleep starts. A bad
// cycle is logged and skipped, never fatal.
func (m *Monitor) Run(ctx context.Context) error {
	m.log.Info("monitor started", logx.String("schedule", m.sched.Source))

	for {
		m.cycle(ctx)

		wait := time.Until(m.sched.Next(time.Now()))
		if wait < 0 {
			wait = 0
		}
		tmr := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			if !tmr.Stop() {
				<-tmr.C
			}
			m.log.Info("monitor stopped")
			return ctx.Err()
		case <-tmr.C:
		}
	}
}

// cycle is the outermost recovery point: whatever goes wrong inside one
// iteration, the loop keeps running.
func (m *Monitor) cycle(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			m.log.Error("panic in monitor cycle; skipping", logx.Any("panic", r), logx.String("stack", string(debug.Stack())))
		}
	}()
	m.runCycle(ctx)
}

func (m *Monitor) runCycle(ctx context.Context) {
	snap, err := m.fetcher.Fetch(ctx)
	if err != nil {
		// No new information this cycle; the stored snapshot stays put.
		m.log.Warn("catalog fetch failed; skipping cycle", logx.Err(err))
		return
	}
	m.log.Debug("catalog fetched", logx.Int("entries", len(snap)))

	if m.state == StateSeeding {
		m.prev = snap
		m.state = StateWatching
		m.log.Info("baseline seeded", logx.Int("entries", len(snap)))
		return
	}

	res := catalog.Diff(m.prev, snap)
	if res.Changed {
		// Removal-only changes land here with new=0: logged, nothing announced.
		m.log.Info("catalog changed", logx.Int("new", len(res.New)), logx.Int("prev", len(m.prev)), logx.Int("cur", len(snap)))
		m.announce(ctx, res.New)
	} else {
		m.log.Debug("catalog unchanged", logx.Int("entries", len(snap)))
	}

	// The baseline advances on every successful fetch, announced or not.
	m.prev = snap
}

// announce delivers new entries in catalog order, one entry's full broadcast
// completing before the next begins. It recovers panics locally so a bad
// entry never blocks the snapshot advance in runCycle.
func (m *Monitor) announce(ctx context.Context, entries []catalog.Entry) {
	defer func() {
		if r := recover(); r != nil {
			m.log.Error("panic while announcing", logx.Any("panic", r), logx.String("stack", string(debug.Stack())))
		}
	}()

	for _, e := range entries {
		text := m.render(e)
		rep, err := m.caster.Broadcast(ctx, text)
		if err != nil {
			m.log.Error("broadcast failed", logx.String("token", e.ID), logx.Err(err))
			continue
		}
		m.log.Info("new listing announced",
			logx.String("token", e.ID),
			logx.String("symbol", e.Symbol),
			logx.Int("sent", rep.Sent),
			logx.Int("failed", rep.Failed),
		)
	}
}
