package memory

import (
	"bytes"
	"context"
	"sort"
	"sync"

	"github.com/yflink/linkswap/internal/storage/keyValueDb"
)

// DB is an in-memory keyValueDb implementation used by tests and by
// ephemeral single-process deployments.
type DB struct {
	mu     sync.RWMutex
	data   map[string][]byte
	closed bool
}

// New creates an empty in-memory database.
func New() *DB {
	return &DB{data: make(map[string][]byte)}
}

func (m *DB) Read(ctx context.Context, key []byte) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return nil, keyValueDb.ErrDBClosed
	}
	val, ok := m.data[string(key)]
	if !ok {
		return nil, keyValueDb.ErrKeyNotFound
	}
	return append([]byte(nil), val...), nil
}

func (m *DB) Has(ctx context.Context, key []byte) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return false, keyValueDb.ErrDBClosed
	}
	_, ok := m.data[string(key)]
	return ok, nil
}

func (m *DB) Write(ctx context.Context, key, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return keyValueDb.ErrDBClosed
	}
	m.data[string(key)] = append([]byte(nil), value...)
	return nil
}

func (m *DB) Delete(ctx context.Context, key []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return keyValueDb.ErrDBClosed
	}
	delete(m.data, string(key))
	return nil
}

func (m *DB) Batch(ctx context.Context, ops []keyValueDb.BatchOperation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return keyValueDb.ErrDBClosed
	}
	for _, op := range ops {
		switch op.Type {
		case keyValueDb.BatchPut:
			m.data[string(op.Key)] = append([]byte(nil), op.Value...)
		case keyValueDb.BatchDelete:
			delete(m.data, string(op.Key))
		default:
			return keyValueDb.ErrBatchOperationFailed
		}
	}
	return nil
}

func (m *DB) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	m.data = make(map[string][]byte)
	return nil
}

type entry struct {
	key   []byte
	value []byte
}

type iterator struct {
	entries []entry
	pos     int
}

// Iterator takes a sorted snapshot of all keys in [start, end); nil
// bounds are open.
func (m *DB) Iterator(ctx context.Context, start, end []byte) (keyValueDb.Iterator, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return nil, keyValueDb.ErrDBClosed
	}

	it := &iterator{pos: -1}
	for key, val := range m.data {
		k := []byte(key)
		if start != nil && bytes.Compare(k, start) < 0 {
			continue
		}
		if end != nil && bytes.Compare(k, end) >= 0 {
			continue
		}
		it.entries = append(it.entries, entry{
			key:   k,
			value: append([]byte(nil), val...),
		})
	}
	sort.Slice(it.entries, func(i, j int) bool {
		return bytes.Compare(it.entries[i].key, it.entries[j].key) < 0
	})
	return it, nil
}

func (it *iterator) Next() bool {
	if it.pos+1 >= len(it.entries) {
		return false
	}
	it.pos++
	return true
}

func (it *iterator) Key() []byte {
	return it.entries[it.pos].key
}

func (it *iterator) Value() []byte {
	return it.entries[it.pos].value
}

func (it *iterator) Error() error { return nil }

func (it *iterator) Close() error { return nil }
