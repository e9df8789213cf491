package eventlog_test

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcmexdev/foodnow-connect-demo/internal/eventlog"
)

func TestAppendAndList(t *testing.T) {
	b := eventlog.NewBuffer(10)

	first := b.Append(eventlog.LevelStripe, "Creating PaymentIntent", map[string]any{"amount": 3000})
	b.Append(eventlog.LevelSuccess, "PaymentIntent created", nil)

	entries := b.List()
	require.Len(t, entries, 2)
	assert.Equal(t, first.ID, entries[0].ID)
	assert.Equal(t, eventlog.LevelStripe, entries[0].Level)
	assert.Equal(t, "PaymentIntent created", entries[1].Message)
	assert.NotEqual(t, entries[0].ID, entries[1].ID)
	assert.False(t, entries[0].Timestamp.IsZero())
}

func TestEvictsOldestOverCapacity(t *testing.T) {
	b := eventlog.NewBuffer(3)
	for i := 0; i < 5; i++ {
		b.Append(eventlog.LevelInfo, fmt.Sprintf("entry %d", i), nil)
	}

	entries := b.List()
	require.Len(t, entries, 3)
	assert.Equal(t, "entry 2", entries[0].Message)
	assert.Equal(t, "entry 4", entries[2].Message)
	assert.Equal(t, 3, b.Count())
}

func TestDefaultCapacity(t *testing.T) {
	b := eventlog.NewBuffer(0)
	for i := 0; i < eventlog.DefaultCapacity+7; i++ {
		b.Append(eventlog.LevelInfo, "x", nil)
	}
	assert.Equal(t, eventlog.DefaultCapacity, b.Count())
}

func TestListIsASnapshot(t *testing.T) {
	b := eventlog.NewBuffer(5)
	b.Append(eventlog.LevelInfo, "one", nil)

	snapshot := b.List()
	b.Append(eventlog.LevelInfo, "two", nil)
	snapshot[0].Message = "mutated"

	entries := b.List()
	require.Len(t, snapshot, 1)
	assert.Equal(t, "one", entries[0].Message)
}

func TestClear(t *testing.T) {
	b := eventlog.NewBuffer(5)
	b.Append(eventlog.LevelError, "boom", nil)
	b.Clear()

	assert.Equal(t, 0, b.Count())
	assert.Empty(t, b.List())

	b.Append(eventlog.LevelInfo, "after clear", nil)
	assert.Equal(t, 1, b.Count())
}

func TestConcurrentAppends(t *testing.T) {
	b := eventlog.NewBuffer(50)

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				b.Append(eventlog.LevelInfo, "concurrent", nil)
			}
		}()
	}
	wg.Wait()

	entries := b.List()
	require.Len(t, entries, 50)
	for _, e := range entries {
		assert.NotEmpty(t, e.ID)
		assert.Equal(t, "concurrent", e.Message)
	}
}

func TestParseLevel(t *testing.T) {
	for _, s := range []string{"info", "success", "error", "stripe", "simulation"} {
		l, err := eventlog.ParseLevel(s)
		require.NoError(t, err)
		assert.Equal(t, eventlog.Level(s), l)
	}

	_, err := eventlog.ParseLevel("debug")
	assert.Error(t, err)
}
