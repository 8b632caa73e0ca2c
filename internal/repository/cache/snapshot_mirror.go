package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"fiberops-assistant-be/pkg/projectdata"

	"github.com/redis/go-redis/v9"
)

const DefaultSnapshotKey = "fiberops:projectdata:snapshot"

var ErrMirrorEmpty = errors.New("no mirrored snapshot")

// SnapshotMirror stores the last good snapshot in Redis as JSON.
type SnapshotMirror struct {
	rdb *redis.Client
	key string
	ttl time.Duration
}

func NewSnapshotMirror(rdb *redis.Client, key string, ttl time.Duration) *SnapshotMirror {
	if key == "" {
		key = DefaultSnapshotKey
	}
	return &SnapshotMirror{rdb: rdb, key: key, ttl: ttl}
}

func (m *SnapshotMirror) Save(ctx context.Context, snap *projectdata.Snapshot) error {
	data, err := EncodeSnapshot(snap)
	if err != nil {
		return err
	}
	if err := m.rdb.Set(ctx, m.key, data, m.ttl).Err(); err != nil {
		return fmt.Errorf("mirror snapshot to redis: %w", err)
	}
	return nil
}

func (m *SnapshotMirror) Load(ctx context.Context) (*projectdata.Snapshot, error) {
	data, err := m.rdb.Get(ctx, m.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrMirrorEmpty
	}
	if err != nil {
		return nil, fmt.Errorf("read mirrored snapshot: %w", err)
	}
	return DecodeSnapshot(data)
}

func EncodeSnapshot(snap *projectdata.Snapshot) ([]byte, error) {
	if snap == nil {
		return nil, errors.New("nil snapshot")
	}
	data, err := json.Marshal(snap)
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	return data, nil
}

func DecodeSnapshot(data []byte) (*projectdata.Snapshot, error) {
	var snap projectdata.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	if len(snap.Projects) == 0 {
		return nil, fmt.Errorf("decode snapshot: %w", ErrMirrorEmpty)
	}
	return &snap, nil
}
