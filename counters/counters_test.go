package counters

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFieldNamesRoundTrip(t *testing.T) {
	for _, f := range Fields() {
		name := f.String()
		require.NotEqual(t, "unknown", name, "field %d has no name", f)

		got, ok := FieldByName(name)
		assert.True(t, ok)
		assert.Equal(t, f, got)
	}
}

func TestUnknownFieldReadsZero(t *testing.T) {
	s := NewSet()
	s.Add(Iterations, 10)

	assert.Zero(t, s.Load(Field(-1)))
	assert.Zero(t, s.Load(numFields))
	assert.Zero(t, s.Add(numFields, 5))
	assert.Zero(t, ReadField(s, "no_such_counter"))
	assert.Zero(t, ReadField(nil, "iterations"))
	assert.Equal(t, uint64(10), ReadField(s, "iterations"))
}

func TestConcurrentIncrements(t *testing.T) {
	const (
		workers = 16
		perWork = 1000
	)

	s := NewSet()

	var wg sync.WaitGroup

	for range workers {
		wg.Go(func() {
			for range perWork {
				s.Inc(Iterations)
				s.Add(CPUInstructions, 3)
			}
		})
	}

	wg.Wait()

	assert.Equal(t, uint64(workers*perWork), s.Load(Iterations))
	assert.Equal(t, uint64(workers*perWork*3), s.Load(CPUInstructions))
}

func TestStoreMax(t *testing.T) {
	s := NewSet()

	s.StoreMax(DynFileBestSize, 100)
	s.StoreMax(DynFileBestSize, 50)
	assert.Equal(t, uint64(100), s.Load(DynFileBestSize))

	s.StoreMax(DynFileBestSize, 200)
	assert.Equal(t, uint64(200), s.Load(DynFileBestSize))

	s.Store(DynFileBestSize, 1)
	assert.Equal(t, uint64(1), s.Load(DynFileBestSize))
}

func TestTake(t *testing.T) {
	s := NewSet()

	for i, f := range Fields() {
		s.Store(f, uint64(i+1))
	}

	snap := Take(s)

	assert.Equal(t, uint64(Iterations+1), snap.Iterations)
	assert.Equal(t, uint64(Timeouts+1), snap.Timeouts)
	assert.Equal(t, uint64(DynFileBestSize+1), snap.DynFileBestSize)
	assert.Equal(t, uint64(IPTBlocks+1), snap.Hardware.IPTBlocks)
	assert.Equal(t, uint64(CustomCounter+1), snap.Hardware.Custom)
	assert.Equal(t, uint64(SanCovTotalBlocks+1), snap.SanCov.TotalBlocks)
	assert.Equal(t, uint64(SanCovCrashes+1), snap.SanCov.Crashes)

	assert.Equal(t, Snapshot{}, Take(nil))
}
