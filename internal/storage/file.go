package storage

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"alphawatch/pkg/logx"
)

// fileStore is the dependency-free persistence backend.
//
// The whole subscriber set lives in one JSON file. Every change rewrites the
// file via tmp+rename, so a crash mid-write leaves the previous file intact
// and readers never observe a partial write.
type fileStore struct {
	log logx.Logger

	mu     sync.Mutex
	path   string
	subs   map[int64]struct{}
	closed bool
}

func openFile(cfg Config, log logx.Logger) (Store, error) {
	path := strings.TrimSpace(cfg.Path)
	if path == "" {
		return nil, errors.New("storage.path is required for file driver")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	subs := map[int64]struct{}{}
	if err := loadSubscriberFile(path, subs); err != nil {
		return nil, err
	}

	log.Debug("subscriber file loaded", logx.String("path", path), logx.Int("count", len(subs)))
	return &fileStore{log: log, path: path, subs: subs}, nil
}

func loadSubscriberFile(path string, out map[int64]struct{}) error {
	b, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		// First run; an absent file is an empty set, not an error.
		return nil
	}
	if err != nil {
		return err
	}
	var ids []int64
	if err := json.Unmarshal(b, &ids); err != nil {
		return err
	}
	for _, id := range ids {
		out[id] = struct{}{}
	}
	return nil
}

func (s *fileStore) Subscribers(ctx context.Context) ([]int64, error) {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, ErrClosed
	}
	ids := make([]int64, 0, len(s.subs))
	for id := range s.subs {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

func (s *fileStore) AddSubscriber(ctx context.Context, id int64) (bool, error) {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false, ErrClosed
	}
	if _, ok := s.subs[id]; ok {
		return false, nil
	}
	s.subs[id] = struct{}{}
	if err := s.persistLocked(); err != nil {
		// Keep durable and in-memory state consistent on failure.
		delete(s.subs, id)
		return false, err
	}
	return true, nil
}

func (s *fileStore) persistLocked() error {
	ids := make([]int64, 0, len(s.subs))
	for id := range s.subs {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	b, err := json.Marshal(ids)
	if err != nil {
		return err
	}

	tmp := s.path + ".tmp"
	f, err := os.OpenFile(tmp, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o600)
	if err != nil {
		return err
	}
	if _, err := f.Write(append(b, '\n')); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}

func (s *fileStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}
