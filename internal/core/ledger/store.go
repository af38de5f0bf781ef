package ledger

import (
	"context"
	"errors"
	"fmt"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/yflink/linkswap/internal/core/state"
	"github.com/yflink/linkswap/internal/storage/compression"
	"github.com/yflink/linkswap/internal/storage/keyValueDb"
)

var (
	// ErrEntryExists is returned when inserting over an existing entry.
	ErrEntryExists = errors.New("ledger entry already exists")

	// ErrEntryNotFound is returned when updating or erasing a missing entry.
	ErrEntryNotFound = errors.New("ledger entry not found")
)

const defaultCacheEntries = 4096

// Store is the persistent ledger state table. It implements the view
// interface the transaction engine applies against, backed by a
// key-value database with an LRU cache of decompressed payloads in
// front of it.
type Store struct {
	mu    sync.RWMutex
	db    keyValueDb.DB
	cache *lru.Cache[state.Keylet, []byte]
	comp  compression.Compressor
}

// Option configures a Store.
type Option func(*storeConfig)

type storeConfig struct {
	cacheEntries int
	compressor   string
}

// WithCacheEntries sets the number of entries held in the read cache.
func WithCacheEntries(n int) Option {
	return func(c *storeConfig) { c.cacheEntries = n }
}

// WithCompressor selects the payload compressor by name.
func WithCompressor(name string) Option {
	return func(c *storeConfig) { c.compressor = name }
}

// NewStore creates a ledger store over db.
func NewStore(db keyValueDb.DB, opts ...Option) (*Store, error) {
	cfg := &storeConfig{cacheEntries: defaultCacheEntries, compressor: "lz4"}
	for _, opt := range opts {
		opt(cfg)
	}

	cache, err := lru.New[state.Keylet, []byte](cfg.cacheEntries)
	if err != nil {
		return nil, fmt.Errorf("failed to create entry cache: %w", err)
	}
	comp, err := compression.Get(cfg.compressor)
	if err != nil {
		return nil, err
	}

	return &Store{db: db, cache: cache, comp: comp}, nil
}

// dbKey prefixes the 32-byte index with the entry space so unrelated
// entry families never collide and range scans stay grouped.
func dbKey(k state.Keylet) []byte {
	key := make([]byte, 33)
	key[0] = byte(k.Type)
	copy(key[1:], k.Key[:])
	return key
}

// Read returns the entry payload, or nil when it does not exist.
func (s *Store) Read(k state.Keylet) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if data, ok := s.cache.Get(k); ok {
		return append([]byte(nil), data...), nil
	}

	raw, err := s.db.Read(context.Background(), dbKey(k))
	if err != nil {
		if errors.Is(err, keyValueDb.ErrKeyNotFound) {
			return nil, nil
		}
		return nil, err
	}
	data, err := s.comp.Decompress(raw)
	if err != nil {
		return nil, fmt.Errorf("corrupt entry %s: %w", k.Type, err)
	}
	s.cache.Add(k, data)
	return append([]byte(nil), data...), nil
}

// Exists reports whether the entry exists.
func (s *Store) Exists(k state.Keylet) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.cache.Contains(k) {
		return true, nil
	}
	return s.db.Has(context.Background(), dbKey(k))
}

// Insert adds a new entry. It fails when the entry already exists.
func (s *Store) Insert(k state.Keylet, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	exists, err := s.has(k)
	if err != nil {
		return err
	}
	if exists {
		return ErrEntryExists
	}
	return s.put(k, data)
}

// Update modifies an existing entry. It fails when the entry is missing.
func (s *Store) Update(k state.Keylet, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	exists, err := s.has(k)
	if err != nil {
		return err
	}
	if !exists {
		return ErrEntryNotFound
	}
	return s.put(k, data)
}

// Erase removes an entry. It fails when the entry is missing.
func (s *Store) Erase(k state.Keylet) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	exists, err := s.has(k)
	if err != nil {
		return err
	}
	if !exists {
		return ErrEntryNotFound
	}
	s.cache.Remove(k)
	return s.db.Delete(context.Background(), dbKey(k))
}

// ForEach iterates over all entries. Iteration stops early when fn
// returns false.
func (s *Store) ForEach(fn func(key [32]byte, data []byte) bool) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	iter, err := s.db.Iterator(context.Background(), nil, nil)
	if err != nil {
		return err
	}
	defer iter.Close()

	for iter.Next() {
		raw := iter.Key()
		if len(raw) != 33 {
			continue
		}
		var key [32]byte
		copy(key[:], raw[1:])

		data, err := s.comp.Decompress(iter.Value())
		if err != nil {
			return fmt.Errorf("corrupt entry at %x: %w", key, err)
		}
		if !fn(key, data) {
			break
		}
	}
	return iter.Error()
}

// Close releases the underlying database.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache.Purge()
	return s.db.Close()
}

func (s *Store) has(k state.Keylet) (bool, error) {
	if s.cache.Contains(k) {
		return true, nil
	}
	return s.db.Has(context.Background(), dbKey(k))
}

func (s *Store) put(k state.Keylet, data []byte) error {
	compressed, err := s.comp.Compress(data)
	if err != nil {
		return err
	}
	if err := s.db.Write(context.Background(), dbKey(k), compressed); err != nil {
		return err
	}
	s.cache.Add(k, append([]byte(nil), data...))
	return nil
}
