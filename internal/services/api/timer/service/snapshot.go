package service

import (
	"context"
	"encoding/json"

	"gutlog/internal/core/timer"
	"gutlog/internal/modkit/repokit"
	perr "gutlog/internal/platform/errors"
)

const snapshotKeyPrefix = "timer:snapshot:"

// kvSnapshots adapts the platform key-value seam to the engine's
// SnapshotStore, one key per user
type kvSnapshots struct {
	kv  repokit.KeyValue
	key string
}

func newKVSnapshots(kv repokit.KeyValue, userID string) kvSnapshots {
	return kvSnapshots{kv: kv, key: snapshotKeyPrefix + userID}
}

func (s kvSnapshots) Load(ctx context.Context) (timer.Snapshot, bool, error) {
	raw, ok, err := s.kv.Get(ctx, s.key)
	if err != nil {
		return timer.Snapshot{}, false, perr.Wrap(err, perr.ErrorCodeUnavailable, "load timer snapshot")
	}
	if !ok {
		return timer.Snapshot{}, false, nil
	}
	var snap timer.Snapshot
	if err := json.Unmarshal([]byte(raw), &snap); err != nil {
		// an unreadable snapshot is as good as none, drop it
		_ = s.kv.Remove(ctx, s.key)
		return timer.Snapshot{}, false, nil
	}
	return snap, true, nil
}

func (s kvSnapshots) Save(ctx context.Context, snap timer.Snapshot) error {
	raw, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	// a restart only honors snapshots inside the stale threshold, so let
	// the store expire them on the same schedule
	if err := s.kv.Set(ctx, s.key, string(raw), timer.RestartStaleThreshold); err != nil {
		return perr.Wrap(err, perr.ErrorCodeUnavailable, "save timer snapshot")
	}
	return nil
}

func (s kvSnapshots) Clear(ctx context.Context) error {
	if err := s.kv.Remove(ctx, s.key); err != nil {
		return perr.Wrap(err, perr.ErrorCodeUnavailable, "clear timer snapshot")
	}
	return nil
}
