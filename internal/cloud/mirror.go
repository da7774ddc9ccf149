// Package cloud mirrors whole subject collections to a remote store keyed
// by email. Sync is replace-not-merge: each upload overwrites whatever the
// key held before.
package cloud

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/lmendes/studytrack/internal/logger"
	"github.com/lmendes/studytrack/internal/models"
)

// ErrNotFound is returned when no snapshot exists for an email.
var ErrNotFound = errors.New("cloud: no data for email")

// Snapshot is one user's mirrored collection.
type Snapshot struct {
	Email    string           `json:"email"`
	Subjects []models.Subject `json:"subjects"`
	Contact  models.Contact   `json:"contact"`
	LastSync time.Time        `json:"last_sync"`
}

// MirrorStore is the cloud-sync collaborator contract: replace-all by
// email, fetch by email, delete by email. Emails are case-insensitive.
type MirrorStore interface {
	Put(ctx context.Context, snapshot Snapshot) error
	Fetch(ctx context.Context, email string) (*Snapshot, error)
	Delete(ctx context.Context, email string) error
	Ping(ctx context.Context) error
}

const keyPrefix = "studytrack:userdata:"

type redisMirror struct {
	client *redis.Client
	log    *logger.Logger
}

// NewRedisMirror creates a MirrorStore backed by Redis.
func NewRedisMirror(addr string) MirrorStore {
	return &redisMirror{
		client: redis.NewClient(&redis.Options{Addr: addr}),
		log:    logger.Default().WithPrefix("cloud"),
	}
}

func mirrorKey(email string) string {
	return keyPrefix + strings.ToLower(strings.TrimSpace(email))
}

func (m *redisMirror) Put(ctx context.Context, snapshot Snapshot) error {
	log := logger.FromContext(ctx).WithPrefix("cloud")

	snapshot.Email = strings.ToLower(strings.TrimSpace(snapshot.Email))
	snapshot.LastSync = time.Now().UTC()

	raw, err := json.Marshal(snapshot)
	if err != nil {
		return err
	}
	if err := m.client.Set(ctx, mirrorKey(snapshot.Email), raw, 0).Err(); err != nil {
		log.Error("failed to store snapshot: %v", err)
		return err
	}
	log.Info("synced %d subjects to cloud for %s", len(snapshot.Subjects), snapshot.Email)
	return nil
}

func (m *redisMirror) Fetch(ctx context.Context, email string) (*Snapshot, error) {
	log := logger.FromContext(ctx).WithPrefix("cloud")

	raw, err := m.client.Get(ctx, mirrorKey(email)).Bytes()
	if errors.Is(err, redis.Nil) {
		log.Debug("no cloud data for %s", email)
		return nil, ErrNotFound
	}
	if err != nil {
		log.Error("failed to fetch snapshot: %v", err)
		return nil, err
	}

	var snapshot Snapshot
	if err := json.Unmarshal(raw, &snapshot); err != nil {
		log.Error("failed to decode snapshot: %v", err)
		return nil, err
	}
	log.Info("loaded %d subjects from cloud for %s", len(snapshot.Subjects), email)
	return &snapshot, nil
}

func (m *redisMirror) Delete(ctx context.Context, email string) error {
	log := logger.FromContext(ctx).WithPrefix("cloud")

	deleted, err := m.client.Del(ctx, mirrorKey(email)).Result()
	if err != nil {
		log.Error("failed to delete snapshot: %v", err)
		return err
	}
	if deleted == 0 {
		return ErrNotFound
	}
	log.Info("deleted cloud data for %s", email)
	return nil
}

func (m *redisMirror) Ping(ctx context.Context) error {
	return m.client.Ping(ctx).Err()
}
