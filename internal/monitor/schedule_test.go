package monitor

import (
	"testing"
	"time"
)

func TestParseScheduleVariants(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name   string
		raw    string
		kind   SpecKind
		source string
		every  time.Duration
	}{
		{name: "duration", raw: "10s", kind: SpecInterval, source: "duration", every: 10 * time.Second},
		{name: "prefixed interval", raw: "interval:2m", kind: SpecInterval, source: "duration", every: 2 * time.Minute},
		{name: "cron", raw: "*/5 * * * *", kind: SpecCron, source: "cron"},
		{name: "prefixed cron", raw: "cron:0 9 * * *", kind: SpecCron, source: "cron"},
		{name: "whitespace tolerated", raw: "  30s ", kind: SpecInterval, source: "duration", every: 30 * time.Second},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := ParseSchedule(tt.raw)
			if err != nil {
				t.Fatalf("ParseSchedule(%q) error: %v", tt.raw, err)
			}
			if got.Kind != tt.kind {
				t.Fatalf("Kind = %v, want %v", got.Kind, tt.kind)
			}
			if got.Source != tt.source {
				t.Fatalf("Source = %s, want %s", got.Source, tt.source)
			}
			if tt.kind == SpecInterval && got.Every != tt.every {
				t.Fatalf("Every = %v, want %v", got.Every, tt.every)
			}
		})
	}
}

func TestParseScheduleInvalid(t *testing.T) {
	t.Parallel()
	for _, raw := range []string{"", "not-a-schedule", "cron:bogus", "interval:-5s", "0s"} {
		if _, err := ParseSchedule(raw); err == nil {
			t.Fatalf("ParseSchedule(%q): expected error", raw)
		}
	}
}

func TestScheduleNext(t *testing.T) {
	t.Parallel()
	base := time.Date(2026, 8, 25, 10, 2, 0, 0, time.UTC)

	iv, err := ParseSchedule("10s")
	if err != nil {
		t.Fatalf("ParseSchedule: %v", err)
	}
	if got := iv.Next(base); !got.Equal(base.Add(10 * time.Second)) {
		t.Fatalf("interval Next = %v, want %v", got, base.Add(10*time.Second))
	}

	cr, err := ParseSchedule("*/5 * * * *")
	if err != nil {
		t.Fatalf("ParseSchedule: %v", err)
	}
	if got := cr.Next(base); !got.Equal(time.Date(2026, 8, 25, 10, 5, 0, 0, time.UTC)) {
		t.Fatalf("cron Next = %v, want 10:05", got)
	}
}
