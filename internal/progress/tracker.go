// Package progress tracks the phase of in-flight verification submissions so
// the UI can poll a status bar. Snapshots are advisory and expire; losing one
// never affects verification itself.
package progress

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Submission phases.
const (
	PhaseNormalizing = "normalizing"
	PhaseSubmitting  = "submitting"
	PhaseCompleted   = "completed"
	PhaseFailed      = "failed"
)

// Snapshot is the current state of one submission.
type Snapshot struct {
	ID        string `json:"id"`
	Phase     string `json:"phase"`
	Processed int    `json:"processed"`
	Total     int    `json:"total"`
	Message   string `json:"message,omitempty"`
	UpdatedAt string `json:"updatedAt"`
}

// Tracker stores and retrieves submission snapshots.
type Tracker interface {
	Set(ctx context.Context, snap Snapshot) error
	Get(ctx context.Context, id string) (Snapshot, bool, error)
}

const keyPrefix = "verify:progress:"

// RedisTracker keeps snapshots in Redis with a TTL, so status survives
// server restarts and is shared across instances.
type RedisTracker struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisTracker creates a tracker backed by the given Redis client.
// A zero ttl defaults to one hour.
func NewRedisTracker(client *redis.Client, ttl time.Duration) *RedisTracker {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &RedisTracker{client: client, ttl: ttl}
}

func (t *RedisTracker) Set(ctx context.Context, snap Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to marshal progress snapshot: %w", err)
	}
	if err := t.client.Set(ctx, keyPrefix+snap.ID, data, t.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store progress snapshot: %w", err)
	}
	return nil
}

func (t *RedisTracker) Get(ctx context.Context, id string) (Snapshot, bool, error) {
	data, err := t.client.Get(ctx, keyPrefix+id).Bytes()
	if err == redis.Nil {
		return Snapshot{}, false, nil
	}
	if err != nil {
		return Snapshot{}, false, fmt.Errorf("failed to read progress snapshot: %w", err)
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return Snapshot{}, false, fmt.Errorf("failed to unmarshal progress snapshot: %w", err)
	}
	return snap, true, nil
}

// MemoryTracker keeps snapshots in process memory. Used when Redis is not
// configured; snapshots are lost on restart.
type MemoryTracker struct {
	mu    sync.RWMutex
	snaps map[string]Snapshot
}

func NewMemoryTracker() *MemoryTracker {
	return &MemoryTracker{snaps: make(map[string]Snapshot)}
}

func (t *MemoryTracker) Set(_ context.Context, snap Snapshot) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.snaps[snap.ID] = snap
	return nil
}

func (t *MemoryTracker) Get(_ context.Context, id string) (Snapshot, bool, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	snap, ok := t.snaps[id]
	return snap, ok, nil
}

// Stamp fills in UpdatedAt and returns the snapshot, for use at Set sites.
func Stamp(snap Snapshot) Snapshot {
	snap.UpdatedAt = time.Now().UTC().Format(time.RFC3339)
	return snap
}
