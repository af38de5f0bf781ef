package tx

import (
	"bytes"
	"fmt"

	"github.com/yflink/linkswap/internal/core/state"
)

// Action represents the type of modification to a ledger entry
type Action int

const (
	// ActionCache means the entry was read but not modified
	ActionCache Action = iota
	// ActionInsert means a new entry was created
	ActionInsert
	// ActionModify means an existing entry was modified
	ActionModify
	// ActionErase means an entry was deleted
	ActionErase
)

// TrackedEntry represents a ledger entry being tracked for changes
type TrackedEntry struct {
	Action   Action
	Original []byte // Original state (nil for inserts)
	Current  []byte // Current state
}

// ApplyStateTable wraps a LedgerView and buffers all modifications.
// A transaction applies against the table; only on success are the
// buffered changes flushed to the base view, so a failing transaction
// leaves the ledger untouched.
type ApplyStateTable struct {
	base  LedgerView
	items map[state.Keylet]*TrackedEntry
}

// NewApplyStateTable creates a new ApplyStateTable wrapping the given base view
func NewApplyStateTable(base LedgerView) *ApplyStateTable {
	return &ApplyStateTable{
		base:  base,
		items: make(map[state.Keylet]*TrackedEntry),
	}
}

// Read reads a ledger entry, tracking it as cached
func (t *ApplyStateTable) Read(k state.Keylet) ([]byte, error) {
	if entry, exists := t.items[k]; exists {
		if entry.Action == ActionErase {
			return nil, nil
		}
		return entry.Current, nil
	}

	data, err := t.base.Read(k)
	if err != nil {
		return nil, err
	}

	// Only track entries that exist in the base
	if data != nil {
		t.items[k] = &TrackedEntry{
			Action:   ActionCache,
			Original: data,
			Current:  data,
		}
	}

	return data, nil
}

// Exists checks if an entry exists
func (t *ApplyStateTable) Exists(k state.Keylet) (bool, error) {
	if entry, exists := t.items[k]; exists {
		return entry.Action != ActionErase, nil
	}
	return t.base.Exists(k)
}

// Insert adds a new entry
func (t *ApplyStateTable) Insert(k state.Keylet, data []byte) error {
	if entry, exists := t.items[k]; exists {
		if entry.Action != ActionErase {
			return fmt.Errorf("entry already exists")
		}
		// Re-inserting a deleted entry becomes a modify
		entry.Action = ActionModify
		entry.Current = data
		return nil
	}

	exists, err := t.base.Exists(k)
	if err != nil {
		return err
	}
	if exists {
		return fmt.Errorf("entry already exists")
	}

	t.items[k] = &TrackedEntry{
		Action:   ActionInsert,
		Original: nil,
		Current:  data,
	}

	return nil
}

// Update modifies an existing entry
func (t *ApplyStateTable) Update(k state.Keylet, data []byte) error {
	if entry, exists := t.items[k]; exists {
		if entry.Action == ActionErase {
			return fmt.Errorf("entry not found (deleted)")
		}
		if entry.Action == ActionCache {
			entry.Action = ActionModify
		}
		// For insert, keep it as insert with new data
		entry.Current = data
		return nil
	}

	original, err := t.base.Read(k)
	if err != nil {
		return err
	}

	t.items[k] = &TrackedEntry{
		Action:   ActionModify,
		Original: original,
		Current:  data,
	}

	return nil
}

// Erase removes an entry
func (t *ApplyStateTable) Erase(k state.Keylet) error {
	if entry, exists := t.items[k]; exists {
		if entry.Action == ActionErase {
			return fmt.Errorf("entry already deleted")
		}
		if entry.Action == ActionInsert {
			// Inserting then deleting = no change, remove from tracking
			delete(t.items, k)
			return nil
		}
		entry.Action = ActionErase
		return nil
	}

	original, err := t.base.Read(k)
	if err != nil {
		return err
	}

	t.items[k] = &TrackedEntry{
		Action:   ActionErase,
		Original: original,
		Current:  original,
	}

	return nil
}

// ForEach iterates over all state entries in the base view
func (t *ApplyStateTable) ForEach(fn func(key [32]byte, data []byte) bool) error {
	return t.base.ForEach(fn)
}

// Apply flushes all buffered changes to the base view.
func (t *ApplyStateTable) Apply() error {
	for k, entry := range t.items {
		switch entry.Action {
		case ActionCache:
			continue

		case ActionInsert:
			if err := t.base.Insert(k, entry.Current); err != nil {
				return err
			}

		case ActionModify:
			// Skip if no actual change
			if bytes.Equal(entry.Original, entry.Current) {
				continue
			}
			if err := t.base.Update(k, entry.Current); err != nil {
				return err
			}

		case ActionErase:
			if err := t.base.Erase(k); err != nil {
				return err
			}
		}
	}
	return nil
}
