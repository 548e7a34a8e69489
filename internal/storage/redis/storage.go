package redis

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mcoot/encounterlog/internal/model"
	"github.com/mcoot/encounterlog/internal/storage"
)

// Storage is a Redis-backed implementation of the storage interface
type Storage struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &Storage{
		client: client,
		cfg:    cfg,
	}, nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	return &Storage{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

func (s *Storage) SaveEncounter(ctx context.Context, e *model.Encounter) error {
	if e.ID == 0 {
		id, err := s.client.Incr(ctx, encounterSeqKey()).Result()
		if err != nil {
			return err
		}
		e.ID = model.EncounterID(id)
	}

	data, err := json.Marshal(e)
	if err != nil {
		return err
	}

	// Use pipeline for atomic save + index update
	pipe := s.client.TxPipeline()
	pipe.Set(ctx, encounterKey(e.ID), data, s.cfg.EncounterTTL)
	pipe.ZAdd(ctx, encounterIndexKey(), redis.Z{
		Score:  float64(e.FightStart.UnixMilli()),
		Member: strconv.FormatInt(int64(e.ID), 10),
	})
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetEncounter(ctx context.Context, id model.EncounterID) (*model.Encounter, error) {
	data, err := s.client.Get(ctx, encounterKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrEncounterNotFound
		}
		return nil, err
	}

	var e model.Encounter
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, err
	}
	return &e, nil
}

func (s *Storage) DeleteEncounter(ctx context.Context, id model.EncounterID) error {
	pipe := s.client.TxPipeline()
	pipe.Del(ctx, encounterKey(id))
	pipe.ZRem(ctx, encounterIndexKey(), strconv.FormatInt(int64(id), 10))
	_, err := pipe.Exec(ctx)
	return err
}

func (s *Storage) ListEncounters(ctx context.Context, filter storage.ListFilter) ([]*model.Encounter, error) {
	// Without filters the index can be paged directly
	start, stop := int64(0), int64(-1)
	unfiltered := filter.Boss == "" && filter.Search == "" && !filter.FavoritesOnly
	if unfiltered {
		start = int64(filter.Offset)
		if filter.Limit > 0 {
			stop = start + int64(filter.Limit) - 1
		}
	}

	ids, err := s.client.ZRevRange(ctx, encounterIndexKey(), start, stop).Result()
	if err != nil {
		return nil, err
	}

	encounters, err := s.loadEncounters(ctx, ids)
	if err != nil {
		return nil, err
	}
	if unfiltered {
		return encounters, nil
	}

	filtered := make([]*model.Encounter, 0, len(encounters))
	for _, e := range encounters {
		if filter.Matches(e) {
			filtered = append(filtered, e)
		}
	}
	return storage.Page(filtered, filter), nil
}

// loadEncounters fetches encounters by ID with MGET, pruning index entries
// whose encounter has expired
func (s *Storage) loadEncounters(ctx context.Context, ids []string) ([]*model.Encounter, error) {
	if len(ids) == 0 {
		return []*model.Encounter{}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		n, err := strconv.ParseInt(id, 10, 64)
		if err != nil {
			return nil, err
		}
		keys[i] = encounterKey(model.EncounterID(n))
	}

	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	var expired []any
	encounters := make([]*model.Encounter, 0, len(values))
	for i, val := range values {
		str, ok := val.(string)
		if !ok {
			expired = append(expired, ids[i])
			continue
		}
		var e model.Encounter
		if err := json.Unmarshal([]byte(str), &e); err != nil {
			continue // Skip invalid data
		}
		encounters = append(encounters, &e)
	}

	if len(expired) > 0 {
		if err := s.client.ZRem(ctx, encounterIndexKey(), expired...).Err(); err != nil {
			return nil, err
		}
	}

	return encounters, nil
}

func (s *Storage) SetFavorite(ctx context.Context, id model.EncounterID, favorite bool) error {
	e, err := s.GetEncounter(ctx, id)
	if err != nil {
		return err
	}
	e.Favorite = favorite

	data, err := json.Marshal(e)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, encounterKey(id), data, redis.KeepTTL).Err()
}
