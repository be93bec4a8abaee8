package monitor

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
)

type SpecKind int

const (
	SpecInterval SpecKind = iota
	SpecCron
)

// Schedule decides when the next poll cycle fires. It is parsed once at
// startup from either a Go duration ("10s", "2m") or a standard 5-field
// cron expression ("*/5 * * * *"), optionally prefixed "interval:"/"cron:".
type Schedule struct {
	Kind   SpecKind
	Every  time.Duration
	Cron   cron.Schedule
	Source string // "duration" or "cron", for logs
}

func ParseSchedule(raw string) (Schedule, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return Schedule{}, errors.New("empty schedule")
	}

	if rest, ok := strings.CutPrefix(s, "cron:"); ok {
		return parseCron(rest)
	}
	if rest, ok := strings.CutPrefix(s, "interval:"); ok {
		return parseInterval(rest)
	}

	// Bare 5-field specs are cron; everything else tries duration first.
	if len(strings.Fields(s)) == 5 {
		return parseCron(s)
	}
	if sched, err := parseInterval(s); err == nil {
		return sched, nil
	}
	return Schedule{}, fmt.Errorf("not a duration or cron spec: %q", raw)
}

func parseCron(s string) (Schedule, error) {
	sched, err := cron.ParseStandard(strings.TrimSpace(s))
	if err != nil {
		return Schedule{}, fmt.Errorf("invalid cron spec %q: %w", s, err)
	}
	return Schedule{Kind: SpecCron, Cron: sched, Source: "cron"}, nil
}

func parseInterval(s string) (Schedule, error) {
	d, err := time.ParseDuration(strings.TrimSpace(s))
	if err != nil {
		return Schedule{}, fmt.Errorf("invalid interval %q: %w", s, err)
	}
	if d <= 0 {
		return Schedule{}, fmt.Errorf("interval must be > 0, got %q", s)
	}
	return Schedule{Kind: SpecInterval, Every: d, Source: "duration"}, nil
}

// Next returns the time the cycle after from should start.
func (s Schedule) Next(from time.Time) time.Time {
	if s.Kind == SpecCron && s.Cron != nil {
		return s.Cron.Next(from)
	}
	return from.Add(s.Every)
}
