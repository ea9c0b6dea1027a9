package fuel

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryLedgerRecordList(t *testing.T) {
	l := NewMemoryLedger()
	ctx := context.Background()
	e, err := l.Record(ctx, Entry{TruckID: "t1", Liters: 35, Cost: 525, Location: AutoLocation})
	require.NoError(t, err)
	assert.NotEmpty(t, e.ID)
	assert.False(t, e.CreatedAt.IsZero())

	_, err = l.Record(ctx, Entry{TruckID: "t2", Liters: 10, CreatedAt: time.Now().Add(-time.Hour)})
	require.NoError(t, err)

	out, err := l.List(ctx, Query{TruckID: "t1"})
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, e, out[0])

	all, _ := l.List(ctx, Query{})
	require.Len(t, all, 2)
	assert.Equal(t, "t2", all[0].TruckID)

	recent, _ := l.List(ctx, Query{Start: time.Now().Add(-time.Minute)})
	assert.Len(t, recent, 1)
}

func TestMemoryLedgerRejectsInvalid(t *testing.T) {
	l := NewMemoryLedger()
	_, err := l.Record(context.Background(), Entry{TruckID: "t1"})
	assert.ErrorIs(t, err, ErrInvalidEntry)
	_, err = l.Record(context.Background(), Entry{Liters: 5})
	assert.ErrorIs(t, err, ErrInvalidEntry)
}
