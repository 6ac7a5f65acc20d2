package repository

import (
	"context"
	"sync"
	"time"

	"github.com/rocketscienceinc/gridgames-backend/internal/apperror"
	"github.com/rocketscienceinc/gridgames-backend/internal/entity"
)

type memoryEntry struct {
	table     *entity.Table
	expiresAt time.Time
}

type memoryTable struct {
	mu        sync.RWMutex
	tables    map[string]memoryEntry
	ttl       time.Duration
	now       func() time.Time
	lastSweep time.Time
}

// NewMemoryTableRepository keeps tables in process memory. Stored and returned
// tables are copies, so callers never share a board with the store.
//
// Like the redis store, every write refreshes the table's ttl and a table left
// alone for longer is gone. A ttl of zero keeps tables until they are deleted.
func NewMemoryTableRepository(ttl time.Duration) TableRepository {
	return newMemoryTable(ttl, time.Now)
}

func newMemoryTable(ttl time.Duration, now func() time.Time) *memoryTable {
	return &memoryTable{
		tables:    make(map[string]memoryEntry),
		ttl:       ttl,
		now:       now,
		lastSweep: now(),
	}
}

func (that *memoryTable) CreateOrUpdate(_ context.Context, table *entity.Table) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	now := that.now()
	that.sweep(now)
	that.store(now, table)

	return nil
}

func (that *memoryTable) GetByID(_ context.Context, id string) (*entity.Table, error) {
	that.mu.RLock()
	entry, ok := that.tables[id]
	that.mu.RUnlock()

	if !ok {
		return nil, apperror.ErrTableNotFound
	}

	if that.expired(entry, that.now()) {
		that.mu.Lock()
		that.evict(id)
		that.mu.Unlock()

		return nil, apperror.ErrTableNotFound
	}

	return entry.table.Clone(), nil
}

func (that *memoryTable) Update(_ context.Context, id string, fn UpdateFunc) (*entity.Table, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	now := that.now()

	entry, ok := that.lookup(id, now)
	if !ok {
		return nil, apperror.ErrTableNotFound
	}

	table := entry.table.Clone()
	if err := fn(table); err != nil {
		return nil, err
	}

	that.store(now, table)

	return table, nil
}

func (that *memoryTable) DeleteByID(_ context.Context, id string) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	if _, ok := that.lookup(id, that.now()); !ok {
		return apperror.ErrTableNotFound
	}

	delete(that.tables, id)

	return nil
}

func (that *memoryTable) store(now time.Time, table *entity.Table) {
	entry := memoryEntry{table: table.Clone()}
	if that.ttl > 0 {
		entry.expiresAt = now.Add(that.ttl)
	}

	that.tables[table.ID] = entry
}

// lookup returns a live entry and drops an expired one. Callers hold the write lock.
func (that *memoryTable) lookup(id string, now time.Time) (memoryEntry, bool) {
	entry, ok := that.tables[id]
	if !ok {
		return memoryEntry{}, false
	}

	if that.expired(entry, now) {
		delete(that.tables, id)
		return memoryEntry{}, false
	}

	return entry, true
}

// evict drops id if it is still expired, since a writer may have refreshed it
// between the read and the write lock.
func (that *memoryTable) evict(id string) {
	if entry, ok := that.tables[id]; ok && that.expired(entry, that.now()) {
		delete(that.tables, id)
	}
}

// sweep drops every expired table, at most once per ttl.
func (that *memoryTable) sweep(now time.Time) {
	if that.ttl <= 0 || now.Sub(that.lastSweep) < that.ttl {
		return
	}

	for id, entry := range that.tables {
		if that.expired(entry, now) {
			delete(that.tables, id)
		}
	}

	that.lastSweep = now
}

func (that *memoryTable) expired(entry memoryEntry, now time.Time) bool {
	return !entry.expiresAt.IsZero() && !now.Before(entry.expiresAt)
}

// size counts held tables, expired ones included until they are swept.
func (that *memoryTable) size() int {
	that.mu.RLock()
	defer that.mu.RUnlock()

	return len(that.tables)
}
