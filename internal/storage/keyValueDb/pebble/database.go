package pebble

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/cockroachdb/pebble"
	"github.com/cockroachdb/pebble/bloom"

	"github.com/yflink/linkswap/internal/storage/keyValueDb"
)

// Options tunes the pebble instance. Zero values fall back to defaults
// suitable for the ledger's point-lookup heavy workload.
type Options struct {
	// CacheSize is the block cache budget in bytes.
	CacheSize int64
	// Sync forces every write through the WAL fsync path.
	Sync bool
}

const defaultCacheSize = 128 << 20

// DB wraps a pebble database behind the keyValueDb interface.
type DB struct {
	db   *pebble.DB
	sync bool
}

// Open opens (creating if missing) a pebble database at path.
func Open(path string, opts Options) (*DB, error) {
	if err := os.MkdirAll(path, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create directory %s: %w", path, err)
	}

	cacheSize := opts.CacheSize
	if cacheSize <= 0 {
		cacheSize = defaultCacheSize
	}

	pebbleOpts := &pebble.Options{
		Cache:  pebble.NewCache(cacheSize),
		Levels: make([]pebble.LevelOptions, 7),
	}
	// Point lookups by hashed key dominate; bloom filters on every
	// level keep them off disk.
	for i := range pebbleOpts.Levels {
		pebbleOpts.Levels[i] = pebble.LevelOptions{
			FilterPolicy: bloom.FilterPolicy(10),
			FilterType:   pebble.TableFilter,
		}
	}

	db, err := pebble.Open(path, pebbleOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to open pebble at %s: %w", path, err)
	}
	return &DB{db: db, sync: opts.Sync}, nil
}

func (p *DB) writeOpt() *pebble.WriteOptions {
	if p.sync {
		return pebble.Sync
	}
	return pebble.NoSync
}

func (p *DB) Read(ctx context.Context, key []byte) ([]byte, error) {
	if p.db == nil {
		return nil, keyValueDb.ErrDBClosed
	}

	val, closer, err := p.db.Get(key)
	if err != nil {
		if errors.Is(err, pebble.ErrNotFound) {
			return nil, keyValueDb.ErrKeyNotFound
		}
		return nil, err
	}
	defer closer.Close()

	valCopy := make([]byte, len(val))
	copy(valCopy, val)
	return valCopy, nil
}

func (p *DB) Has(ctx context.Context, key []byte) (bool, error) {
	if p.db == nil {
		return false, keyValueDb.ErrDBClosed
	}
	_, closer, err := p.db.Get(key)
	if err != nil {
		if errors.Is(err, pebble.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	closer.Close()
	return true, nil
}

func (p *DB) Write(ctx context.Context, key, value []byte) error {
	if p.db == nil {
		return keyValueDb.ErrDBClosed
	}
	return p.db.Set(key, value, p.writeOpt())
}

func (p *DB) Delete(ctx context.Context, key []byte) error {
	if p.db == nil {
		return keyValueDb.ErrDBClosed
	}
	return p.db.Delete(key, p.writeOpt())
}

func (p *DB) Batch(ctx context.Context, ops []keyValueDb.BatchOperation) error {
	if p.db == nil {
		return keyValueDb.ErrDBClosed
	}

	batch := p.db.NewBatch()
	defer batch.Close()

	for _, op := range ops {
		switch op.Type {
		case keyValueDb.BatchPut:
			if err := batch.Set(op.Key, op.Value, nil); err != nil {
				return err
			}
		case keyValueDb.BatchDelete:
			if err := batch.Delete(op.Key, nil); err != nil {
				return err
			}
		default:
			return fmt.Errorf("%w: unknown operation type %d", keyValueDb.ErrBatchOperationFailed, op.Type)
		}
	}

	return batch.Commit(p.writeOpt())
}

func (p *DB) Close() error {
	if p.db == nil {
		return nil
	}
	err := p.db.Close()
	p.db = nil
	return err
}

type iterator struct {
	iter *pebble.Iterator

	start, end []byte
	started    bool
	current    struct {
		key, value []byte
	}
}

func (p *DB) Iterator(ctx context.Context, start, end []byte) (keyValueDb.Iterator, error) {
	if p.db == nil {
		return nil, keyValueDb.ErrDBClosed
	}

	iter, err := p.db.NewIter(&pebble.IterOptions{
		LowerBound: start,
		UpperBound: end,
	})
	if err != nil {
		return nil, err
	}

	return &iterator{iter: iter, start: start, end: end}, nil
}

func (it *iterator) Next() bool {
	if !it.started {
		it.started = true
		if it.start == nil {
			it.iter.First()
		} else {
			it.iter.SeekGE(it.start)
		}
	} else {
		it.iter.Next()
	}

	if !it.iter.Valid() {
		return false
	}

	key := it.iter.Key()
	if it.end != nil && bytes.Compare(key, it.end) >= 0 {
		return false
	}

	it.current.key = append([]byte(nil), key...)
	it.current.value = append([]byte(nil), it.iter.Value()...)
	return true
}

func (it *iterator) Key() []byte {
	return it.current.key
}

func (it *iterator) Value() []byte {
	return it.current.value
}

func (it *iterator) Error() error {
	return it.iter.Error()
}

func (it *iterator) Close() error {
	return it.iter.Close()
}
