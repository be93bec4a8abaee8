package monitor

import (
	"context"
	"errors"
	"strings"
	"testing"

	"alphawatch/internal/catalog"
	"alphawatch/internal/notify"
	"alphawatch/pkg/logx"
)

type fakeFetcher struct {
	snaps []catalog.Snapshot
	errs  []error
	calls int
}

func (f *fakeFetcher) Fetch(ctx context.Context) (catalog.Snapshot, error) {
	i := f.calls
	f.calls++
	if i < len(f.errs) && f.errs[i] != nil {
		return nil, f.errs[i]
	}
	if i < len(f.snaps) {
		return f.snaps[i], nil
	}
	return nil, errors.New("no more snapshots scripted")
}

type fakeCaster struct {
	texts []string
	err   error
}

func (f *fakeCaster) Broadcast(ctx context.Context, text string) (notify.Report, error) {
	if f.err != nil {
		return notify.Report{}, f.err
	}
	f.texts = append(f.texts, text)
	return notify.Report{Total: 1, Sent: 1}, nil
}

func newTestMonitor(f Fetcher, c Broadcaster) *Monitor {
	return New(f, c, Schedule{Kind: SpecInterval, Every: 0, Source: "duration"}, logx.Nop())
}

func TestSeedingNeverBroadcasts(t *testing.T) {
	t.Parallel()
	fetcher := &fakeFetcher{snaps: []catalog.Snapshot{{{ID: "A"}, {ID: "B"}}}}
	caster := &fakeCaster{}
	m := newTestMonitor(fetcher, caster)

	m.cycle(context.Background())

	if len(caster.texts) != 0 {
		t.Fatalf("seeding cycle broadcast %d messages, want 0", len(caster.texts))
	}
	if m.state != StateWatching {
		t.Fatalf("state = %v, want watching", m.state)
	}
	if len(m.prev) != 2 {
		t.Fatalf("baseline size = %d, want 2", len(m.prev))
	}
}

func TestNewEntryAnnounced(t *testing.T) {
	t.Parallel()
	fetcher := &fakeFetcher{snaps: []catalog.Snapshot{
		{{ID: "A"}},
		{{ID: "A"}, {ID: "B", Name: "Beta", Symbol: "BTA", Price: "0.5", TGELive: true}},
	}}
	caster := &fakeCaster{}
	m := newTestMonitor(fetcher, caster)
	ctx := context.Background()

	m.cycle(ctx) // seed
	m.cycle(ctx)

	if len(caster.texts) != 1 {
		t.Fatalf("broadcast %d messages, want 1", len(caster.texts))
	}
	text := caster.texts[0]
	for _, want := range []string{"Beta", "BTA", "B", "0.5", "Yes"} {
		if !strings.Contains(text, want) {
			t.Fatalf("announcement missing %q:\n%s", want, text)
		}
	}
}

func TestRemovalOnlyDoesNotBroadcastButAdvances(t *testing.T) {
	t.Parallel()
	fetcher := &fakeFetcher{snaps: []catalog.Snapshot{
		{{ID: "A"}, {ID: "B"}},
		{{ID: "A"}}, // B removed: changed, zero new entries
		{{ID: "A"}, {ID: "B"}},
	}}
	caster := &fakeCaster{}
	m := newTestMonitor(fetcher, caster)
	ctx := context.Background()

	m.cycle(ctx) // seed [A B]
	m.cycle(ctx) // removal
	if len(caster.texts) != 0 {
		t.Fatalf("removal-only cycle broadcast %d messages, want 0", len(caster.texts))
	}

	// The baseline advanced to [A], so B coming back counts as new again.
	m.cycle(ctx)
	if len(caster.texts) != 1 {
		t.Fatalf("re-added entry broadcast %d messages, want 1", len(caster.texts))
	}
}

func TestFetchErrorSkipsCycleAndKeepsBaseline(t *testing.T) {
	t.Parallel()
	fetcher := &fakeFetcher{
		snaps: []catalog.Snapshot{
			{{ID: "A"}},
			nil, // replaced by error
			{{ID: "A"}, {ID: "B"}},
		},
		errs: []error{nil, catalog.ErrFetch, nil},
	}
	caster := &fakeCaster{}
	m := newTestMonitor(fetcher, caster)
	ctx := context.Background()

	m.cycle(ctx) // seed [A]
	m.cycle(ctx) // fetch fails: baseline untouched, still watching
	if m.state != StateWatching {
		t.Fatalf("state after failed fetch = %v, want watching", m.state)
	}
	if len(m.prev) != 1 {
		t.Fatalf("baseline mutated by failed fetch: %v", m.prev)
	}

	// The surviving baseline means only B is new on the next good fetch.
	m.cycle(ctx)
	if len(caster.texts) != 1 {
		t.Fatalf("broadcast %d messages, want 1", len(caster.texts))
	}
}

func TestBroadcastErrorStillAdvancesSnapshot(t *testing.T) {
	t.Parallel()
	fetcher := &fakeFetcher{snaps: []catalog.Snapshot{
		{{ID: "A"}},
		{{ID: "A"}, {ID: "B"}},
		{{ID: "A"}, {ID: "B"}},
	}}
	caster := &fakeCaster{err: errors.New("transport down")}
	m := newTestMonitor(fetcher, caster)
	ctx := context.Background()

	m.cycle(ctx) // seed
	m.cycle(ctx) // announce fails, snapshot still advances

	// With the advanced baseline, the same catalog is no longer "new":
	// the failed announcement is not replayed.
	caster.err = nil
	m.cycle(ctx)
	if len(caster.texts) != 0 {
		t.Fatalf("failed announcement was replayed: %v", caster.texts)
	}
}

func TestDuplicateNewIDAnnouncedPerOccurrence(t *testing.T) {
	t.Parallel()
	fetcher := &fakeFetcher{snaps: []catalog.Snapshot{
		{{ID: "A"}},
		{{ID: "A"}, {ID: "B"}, {ID: "B"}},
	}}
	caster := &fakeCaster{}
	m := newTestMonitor(fetcher, caster)
	ctx := context.Background()

	m.cycle(ctx)
	m.cycle(ctx)
	if len(caster.texts) != 2 {
		t.Fatalf("broadcast %d messages, want 2 (one per occurrence)", len(caster.texts))
	}
}

func TestAnnouncementsFollowCatalogOrder(t *testing.T) {
	t.Parallel()
	fetcher := &fakeFetcher{snaps: []catalog.Snapshot{
		{{ID: "M"}},
		{{ID: "Z", Symbol: "ZZZ"}, {ID: "M"}, {ID: "A", Symbol: "AAA"}},
	}}
	caster := &fakeCaster{}
	m := newTestMonitor(fetcher, caster)
	ctx := context.Background()

	m.cycle(ctx)
	m.cycle(ctx)
	if len(caster.texts) != 2 {
		t.Fatalf("broadcast %d messages, want 2", len(caster.texts))
	}
	if !strings.Contains(caster.texts[0], "ZZZ") || !strings.Contains(caster.texts[1], "AAA") {
		t.Fatalf("announcements out of catalog order: %v", caster.texts)
	}
}
