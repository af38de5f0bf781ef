package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yflink/linkswap/internal/storage/keyValueDb"
)

func TestReadWriteDelete(t *testing.T) {
	db := New()
	ctx := context.Background()

	_, err := db.Read(ctx, []byte("missing"))
	require.ErrorIs(t, err, keyValueDb.ErrKeyNotFound)

	require.NoError(t, db.Write(ctx, []byte("k"), []byte("v")))

	got, err := db.Read(ctx, []byte("k"))
	require.NoError(t, err)
	require.Equal(t, []byte("v"), got)

	has, err := db.Has(ctx, []byte("k"))
	require.NoError(t, err)
	require.True(t, has)

	// Reads return copies.
	got[0] = 'X'
	again, err := db.Read(ctx, []byte("k"))
	require.NoError(t, err)
	require.Equal(t, []byte("v"), again)

	require.NoError(t, db.Delete(ctx, []byte("k")))
	has, err = db.Has(ctx, []byte("k"))
	require.NoError(t, err)
	require.False(t, has)

	// Deleting a missing key is not an error.
	require.NoError(t, db.Delete(ctx, []byte("k")))
}

func TestWriteDetachesFromCaller(t *testing.T) {
	db := New()
	ctx := context.Background()

	val := []byte("v1")
	require.NoError(t, db.Write(ctx, []byte("k"), val))
	val[0] = 'X'

	got, err := db.Read(ctx, []byte("k"))
	require.NoError(t, err)
	require.Equal(t, []byte("v1"), got)
}

func TestBatch(t *testing.T) {
	db := New()
	ctx := context.Background()

	require.NoError(t, db.Write(ctx, []byte("old"), []byte("x")))

	require.NoError(t, db.Batch(ctx, []keyValueDb.BatchOperation{
		{Type: keyValueDb.BatchPut, Key: []byte("a"), Value: []byte("1")},
		{Type: keyValueDb.BatchPut, Key: []byte("b"), Value: []byte("2")},
		{Type: keyValueDb.BatchDelete, Key: []byte("old")},
	}))

	got, err := db.Read(ctx, []byte("a"))
	require.NoError(t, err)
	require.Equal(t, []byte("1"), got)

	got, err = db.Read(ctx, []byte("b"))
	require.NoError(t, err)
	require.Equal(t, []byte("2"), got)

	_, err = db.Read(ctx, []byte("old"))
	require.ErrorIs(t, err, keyValueDb.ErrKeyNotFound)
}

func TestIterator(t *testing.T) {
	db := New()
	ctx := context.Background()

	for _, k := range []string{"d", "b", "a", "c"} {
		require.NoError(t, db.Write(ctx, []byte(k), []byte("v"+k)))
	}

	collect := func(start, end []byte) []string {
		iter, err := db.Iterator(ctx, start, end)
		require.NoError(t, err)
		defer iter.Close()

		var keys []string
		for iter.Next() {
			keys = append(keys, string(iter.Key()))
			require.Equal(t, "v"+string(iter.Key()), string(iter.Value()))
		}
		require.NoError(t, iter.Error())
		return keys
	}

	require.Equal(t, []string{"a", "b", "c", "d"}, collect(nil, nil))
	require.Equal(t, []string{"b", "c"}, collect([]byte("b"), []byte("d")))
	require.Equal(t, []string{"c", "d"}, collect([]byte("c"), nil))
	require.Nil(t, collect([]byte("x"), nil))
}

func TestIteratorSnapshot(t *testing.T) {
	db := New()
	ctx := context.Background()

	require.NoError(t, db.Write(ctx, []byte("a"), []byte("1")))

	iter, err := db.Iterator(ctx, nil, nil)
	require.NoError(t, err)
	defer iter.Close()

	// Writes after the snapshot are not observed.
	require.NoError(t, db.Write(ctx, []byte("b"), []byte("2")))

	var keys []string
	for iter.Next() {
		keys = append(keys, string(iter.Key()))
	}
	require.Equal(t, []string{"a"}, keys)
}

func TestClosedDb(t *testing.T) {
	db := New()
	ctx := context.Background()

	require.NoError(t, db.Write(ctx, []byte("k"), []byte("v")))
	require.NoError(t, db.Close())

	_, err := db.Read(ctx, []byte("k"))
	require.ErrorIs(t, err, keyValueDb.ErrDBClosed)

	_, err = db.Has(ctx, []byte("k"))
	require.ErrorIs(t, err, keyValueDb.ErrDBClosed)

	require.ErrorIs(t, db.Write(ctx, []byte("k"), []byte("v")), keyValueDb.ErrDBClosed)
	require.ErrorIs(t, db.Delete(ctx, []byte("k")), keyValueDb.ErrDBClosed)
	require.ErrorIs(t, db.Batch(ctx, nil), keyValueDb.ErrDBClosed)

	_, err = db.Iterator(ctx, nil, nil)
	require.ErrorIs(t, err, keyValueDb.ErrDBClosed)
}
