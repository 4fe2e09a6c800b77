package outbox

import (
    "context"
    "encoding/json"
    "fmt"
    "time"

    "github.com/redis/go-redis/v9"
)

// RedisStore is a Store backed by Redis, giving the queue durability
// across client restarts.  Entry order lives in a list of IDs and the
// payloads in a hash keyed by ID, so a crash between "server accepted"
// and "entry deleted" leaves the entry queued (at-least-once delivery,
// at-most-once deletion).
type RedisStore struct {
    rdb    *redis.Client
    prefix string
}

// NewRedisStore returns a RedisStore namespacing its keys with prefix
// (one queue per device/user, e.g. "outbox:42").
func NewRedisStore(rdb *redis.Client, prefix string) *RedisStore {
    return &RedisStore{rdb: rdb, prefix: prefix}
}

func (s *RedisStore) idKey() string      { return s.prefix + ":next_id" }
func (s *RedisStore) queueKey() string   { return s.prefix + ":queue" }
func (s *RedisStore) entriesKey() string { return s.prefix + ":entries" }

func (s *RedisStore) add(ctx context.Context, e Entry) (uint64, error) {
    id, err := s.rdb.Incr(ctx, s.idKey()).Uint64()
    if err != nil {
        return 0, err
    }
    e.ID = id
    e.EnqueuedAt = time.Now().UTC()
    raw, err := json.Marshal(e)
    if err != nil {
        return 0, err
    }
    field := fmt.Sprintf("%d", id)
    pipe := s.rdb.TxPipeline()
    pipe.HSet(ctx, s.entriesKey(), field, raw)
    pipe.RPush(ctx, s.queueKey(), field)
    if _, err := pipe.Exec(ctx); err != nil {
        return 0, err
    }
    return id, nil
}

func (s *RedisStore) AddCleaning(ctx context.Context, c PendingCleaning) (uint64, error) {
    return s.add(ctx, Entry{Cleaning: &c})
}

func (s *RedisStore) AddIncident(ctx context.Context, i PendingIncident) (uint64, error) {
    return s.add(ctx, Entry{Incident: &i})
}

func (s *RedisStore) Unsynced(ctx context.Context) ([]Entry, error) {
    fields, err := s.rdb.LRange(ctx, s.queueKey(), 0, -1).Result()
    if err != nil {
        return nil, err
    }
    if len(fields) == 0 {
        return []Entry{}, nil
    }
    raws, err := s.rdb.HMGet(ctx, s.entriesKey(), fields...).Result()
    if err != nil {
        return nil, err
    }
    entries := make([]Entry, 0, len(raws))
    for _, raw := range raws {
        str, ok := raw.(string)
        if !ok {
            continue // payload already deleted; the list is cleaned lazily
        }
        var e Entry
        if err := json.Unmarshal([]byte(str), &e); err != nil {
            continue
        }
        entries = append(entries, e)
    }
    return entries, nil
}

func (s *RedisStore) Delete(ctx context.Context, id uint64) error {
    field := fmt.Sprintf("%d", id)
    pipe := s.rdb.TxPipeline()
    pipe.HDel(ctx, s.entriesKey(), field)
    pipe.LRem(ctx, s.queueKey(), 1, field)
    _, err := pipe.Exec(ctx)
    return err
}
