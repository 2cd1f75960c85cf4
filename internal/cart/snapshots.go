package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	pkgredis "github.com/exactmatch/storefront/pkg/redis"
)

// FileSnapshots keeps the cart snapshot in a JSON file, the closest
// equivalent of the browser's local storage slot.
type FileSnapshots struct {
	path string
}

func NewFileSnapshots(path string) (*FileSnapshots, error) {
	if path == "" {
		return nil, fmt.Errorf("snapshot path required")
	}
	return &FileSnapshots{path: path}, nil
}

func (f *FileSnapshots) Load(_ context.Context) (State, error) {
	payload, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return State{}, ErrNoSnapshot
		}
		return State{}, fmt.Errorf("read snapshot: %w", err)
	}

	var state State
	if err := json.Unmarshal(payload, &state); err != nil {
		return State{}, fmt.Errorf("decode snapshot: %w", err)
	}
	return state, nil
}

func (f *FileSnapshots) Save(_ context.Context, state State) error {
	payload, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	// Write-then-rename so a crash mid-write cannot corrupt the slot.
	tmp := f.path + ".tmp"
	if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
		return fmt.Errorf("ensure snapshot dir: %w", err)
	}
	if err := os.WriteFile(tmp, payload, 0o644); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		return fmt.Errorf("replace snapshot: %w", err)
	}
	return nil
}

type snapshotClient interface {
	GetSnapshot(ctx context.Context, slot string) ([]byte, error)
	SetSnapshot(ctx context.Context, slot string, payload []byte) error
}

// RedisSnapshots keeps the cart snapshot in a redis slot so it survives
// host restarts and can be shared by several gateway instances.
type RedisSnapshots struct {
	client snapshotClient
	slot   string
}

func NewRedisSnapshots(client snapshotClient, slot string) (*RedisSnapshots, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client required")
	}
	if slot == "" {
		return nil, fmt.Errorf("snapshot slot required")
	}
	return &RedisSnapshots{client: client, slot: slot}, nil
}

func (r *RedisSnapshots) Load(ctx context.Context) (State, error) {
	payload, err := r.client.GetSnapshot(ctx, r.slot)
	if err != nil {
		if errors.Is(err, pkgredis.ErrNoSnapshot) {
			return State{}, ErrNoSnapshot
		}
		return State{}, err
	}

	var state State
	if err := json.Unmarshal(payload, &state); err != nil {
		return State{}, fmt.Errorf("decode snapshot: %w", err)
	}
	return state, nil
}

func (r *RedisSnapshots) Save(ctx context.Context, state State) error {
	payload, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	return r.client.SetSnapshot(ctx, r.slot, payload)
}
