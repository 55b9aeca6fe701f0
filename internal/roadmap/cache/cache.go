// Package cache holds finished roadmaps keyed by a profile fingerprint. Entries never expire;
// they are removed only by Clear.
package cache

import (
	"context"
	"strconv"
	"strings"
	"sync"
)

// GoalsPrefixLen is how much of the free-text goals takes part in the fingerprint.
const GoalsPrefixLen = 30

// Store keeps encoded roadmaps. Implementations must be safe for concurrent use.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
	Len(ctx context.Context) (int, error)
	Keys(ctx context.Context) ([]string, error)
	Clear(ctx context.Context) error
}

// Fields are the profile attributes that distinguish one cached roadmap from another.
type Fields struct {
	RoadmapName string
	Domain      string
	Language    string
	Framework   string
	SkillLevel  string
	Hours       int
	Goals       string
}

// Fingerprint joins the fields with "|", lowercased, with each whitespace run replaced by "_".
// Only the first GoalsPrefixLen characters of the goals count.
func Fingerprint(f Fields) string {
	goals := []rune(strings.TrimSpace(f.Goals))
	if len(goals) > GoalsPrefixLen {
		goals = goals[:GoalsPrefixLen]
	}
	parts := []string{
		f.RoadmapName,
		f.Domain,
		f.Language,
		f.Framework,
		f.SkillLevel,
		strconv.Itoa(f.Hours),
		string(goals),
	}
	for i, p := range parts {
		parts[i] = strings.Join(strings.Fields(strings.ToLower(p)), "_")
	}
	return strings.Join(parts, "|")
}

// MemoryStore is the per-process store. Its size is unbounded.
type MemoryStore struct {
	mu    sync.RWMutex
	items map[string][]byte
	order []string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{items: map[string][]byte{}}
}

func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.items[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), v...), true, nil
}

func (s *MemoryStore) Set(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[key]; !ok {
		s.order = append(s.order, key)
	}
	s.items[key] = append([]byte(nil), value...)
	return nil
}

func (s *MemoryStore) Len(context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items), nil
}

// Keys returns fingerprints in insertion order.
func (s *MemoryStore) Keys(context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.order...), nil
}

func (s *MemoryStore) Clear(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = map[string][]byte{}
	s.order = nil
	return nil
}
