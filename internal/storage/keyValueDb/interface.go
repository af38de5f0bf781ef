package keyValueDb

import (
	"context"
)

// DB defines the basic operations any keyValueDb implementation must support
type DB interface {
	// Read returns the value stored under key
	Read(ctx context.Context, key []byte) ([]byte, error)
	// Has reports whether key exists without reading the value
	Has(ctx context.Context, key []byte) (bool, error)
	Write(ctx context.Context, key []byte, value []byte) error
	Delete(ctx context.Context, key []byte) error

	// Batch applies a group of writes atomically
	Batch(ctx context.Context, ops []BatchOperation) error
	// Iterator traverses keys in [start, end); nil bounds are open
	Iterator(ctx context.Context, start, end []byte) (Iterator, error)

	Close() error
}

// Iterator allows traversing over keyValueDb entries
type Iterator interface {
	Next() bool
	Key() []byte
	Value() []byte
	Error() error
	Close() error
}

// BatchOperation represents a single operation in a batch
type BatchOperation struct {
	Type  BatchOpType
	Key   []byte
	Value []byte
}

type BatchOpType int

const (
	BatchPut BatchOpType = iota
	BatchDelete
)
