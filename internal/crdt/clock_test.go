package crdt

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLamportClock(t *testing.T) {
	clock := NewLamportClock()

	require.NotNil(t, clock)
	assert.Equal(t, int64(0), clock.Now(), "Initial counter should be 0")
	assert.NotEmpty(t, clock.NodeID(), "NodeID should not be empty")
	assert.NotEqual(t, clock.NodeID(), NewLamportClock().NodeID())
}

func TestNewLamportClockWithNodeID(t *testing.T) {
	clock := NewLamportClockWithNodeID("backend-1")
	assert.Equal(t, "backend-1", clock.NodeID())
}

func TestLamportClock_Tick(t *testing.T) {
	clock := NewLamportClock()

	var previous int64
	for i := 0; i < 100; i++ {
		current := clock.Tick()
		assert.Greater(t, current, previous, "Tick should always increase")
		previous = current
	}
	assert.Equal(t, int64(100), clock.Now())
}

func TestLamportClock_Witness(t *testing.T) {
	tests := []struct {
		name     string
		local    int64
		remote   int64
		expected int64
	}{
		{name: "remote ahead", local: 5, remote: 10, expected: 11},
		{name: "local ahead", local: 10, remote: 5, expected: 11},
		{name: "equal", local: 7, remote: 7, expected: 8},
		{name: "remote zero", local: 0, remote: 0, expected: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clock := NewLamportClock()
			clock.Restore(tt.local)
			assert.Equal(t, tt.expected, clock.Witness(tt.remote))
		})
	}
}

func TestLamportClock_RestoreNeverMovesBack(t *testing.T) {
	clock := NewLamportClock()
	clock.Restore(50)
	clock.Restore(10)
	assert.Equal(t, int64(50), clock.Now())
}

func TestLamportClock_Concurrent(t *testing.T) {
	clock := NewLamportClock()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				clock.Tick()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(1000), clock.Now())
}
