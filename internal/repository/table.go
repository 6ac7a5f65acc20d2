package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rocketscienceinc/gridgames-backend/internal/apperror"
	"github.com/rocketscienceinc/gridgames-backend/internal/entity"
)

const maxUpdateRetries = 5

var ErrTooManyConflicts = errors.New("too many concurrent updates")

// UpdateFunc mutates a table in place; an error aborts the update.
type UpdateFunc func(table *entity.Table) error

type TableRepository interface {
	CreateOrUpdate(ctx context.Context, table *entity.Table) error
	GetByID(ctx context.Context, id string) (*entity.Table, error)
	Update(ctx context.Context, id string, fn UpdateFunc) (*entity.Table, error)
	DeleteByID(ctx context.Context, id string) error
}

// getter is satisfied by both *redis.Client and *redis.Tx.
type getter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

type dbTable struct {
	client *redis.Client
	ttl    time.Duration
}

// NewTableRepository stores tables in redis. Every write refreshes the key's
// ttl, so an abandoned table disappears with its session.
func NewTableRepository(client *redis.Client, ttl time.Duration) TableRepository {
	return &dbTable{
		client: client,
		ttl:    ttl,
	}
}

func tableKey(id string) string {
	return "table:" + id
}

func (that *dbTable) CreateOrUpdate(ctx context.Context, table *entity.Table) error {
	tableJSON, err := json.Marshal(table)
	if err != nil {
		return fmt.Errorf("could not marshal table: %w", err)
	}

	if err = that.client.Set(ctx, tableKey(table.ID), tableJSON, that.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set table: %w", err)
	}

	return nil
}

func (that *dbTable) GetByID(ctx context.Context, id string) (*entity.Table, error) {
	return that.get(ctx, that.client, id)
}

// Update runs fn inside an optimistic transaction: if the key changes between
// the read and the write, the whole read-modify-write is retried.
func (that *dbTable) Update(ctx context.Context, id string, fn UpdateFunc) (*entity.Table, error) {
	key := tableKey(id)

	var updated *entity.Table
	txf := func(tx *redis.Tx) error {
		table, err := that.get(ctx, tx, id)
		if err != nil {
			return err
		}

		if err = fn(table); err != nil {
			return err
		}

		tableJSON, err := json.Marshal(table)
		if err != nil {
			return fmt.Errorf("could not marshal table: %w", err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, tableJSON, that.ttl)
			return nil
		})
		if err != nil {
			return err
		}

		updated = table
		return nil
	}

	for range maxUpdateRetries {
		err := that.client.Watch(ctx, txf, key)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		if err != nil {
			return nil, err
		}

		return updated, nil
	}

	return nil, fmt.Errorf("%w: table %s", ErrTooManyConflicts, id)
}

func (that *dbTable) DeleteByID(ctx context.Context, id string) error {
	deleted, err := that.client.Del(ctx, tableKey(id)).Result()
	if err != nil {
		return fmt.Errorf("failed to delete table by ID: %w", err)
	}

	if deleted == 0 {
		return apperror.ErrTableNotFound
	}

	return nil
}

func (that *dbTable) get(ctx context.Context, client getter, id string) (*entity.Table, error) {
	response, err := client.Get(ctx, tableKey(id)).Result()

	if errors.Is(err, redis.Nil) {
		return nil, apperror.ErrTableNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get table by ID: %w", err)
	}

	var existingTable entity.Table
	if err = json.Unmarshal([]byte(response), &existingTable); err != nil {
		return nil, fmt.Errorf("failed to unmarshal table: %w", err)
	}

	return &existingTable, nil
}
