package models

import (
	"context"

	"github.com/carrierx/settlement/rating-engine/config/redis"
)

// FlagStore accumulates partner billing periods that received newly rated
// usage, so the invoicing side knows which aggregates to refresh. Backed by
// a redis set; flagging the same period twice is a no-op.
type FlagStore struct {
	name    string
	context context.Context
	db      *redis.RedisDB
}

type Flagger interface {
	Flag(value string) error
}

func NewFlagStore(ctx context.Context, redis *redis.RedisDB, name string) *FlagStore {
	return &FlagStore{
		name:    name,
		context: ctx,
		db:      redis,
	}
}

func (store *FlagStore) Flag(value string) error {
	result := store.db.Client.SAdd(store.context, store.name, value)
	if err := result.Err(); err != nil {
		return err
	}

	return nil
}

func (store *FlagStore) Close() error {
	return store.db.Client.Close()
}
