/****************************************************************************
BSD 3-Clause License

Copyright (c) 2021, 🍀☀🌕🌥 🌊
All rights reserved.
****************************************************************************/

package pool

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPool_AllocGrowsOneChunkAtATime(t *testing.T) {
	p := New(16, 4)
	blocks := make([]Block, 0, 4)
	for i := 0; i < 4; i++ {
		b, err := p.Alloc()
		require.NoError(t, err)
		blocks = append(blocks, b)
	}
	require.Equal(t, 1, p.Stats().ChunkCount)

	_, err := p.Alloc()
	require.NoError(t, err)
	require.Equal(t, 2, p.Stats().ChunkCount)
}

func TestPool_FreeReturnsBlockToFreeList(t *testing.T) {
	p := New(8, 2)
	b1, _ := p.Alloc()
	p.Free(b1)

	stats := p.Stats()
	require.Equal(t, 0, stats.AllocatedBlocks)
	require.Equal(t, 2, stats.FreeCount)
}

func TestPool_AllocatedCountEqualsAllocsMinusFrees(t *testing.T) {
	p := New(8, 4)
	var allocs []Block
	for i := 0; i < 10; i++ {
		b, err := p.Alloc()
		require.NoError(t, err)
		allocs = append(allocs, b)
	}
	for i := 0; i < 3; i++ {
		p.Free(allocs[i])
	}
	require.Equal(t, 7, p.Stats().AllocatedBlocks)
}

func TestPool_ConcurrentAllocFreeNoDoubleGrant(t *testing.T) {
	p := New(32, 8)
	const n = 200
	seen := make(chan Block, n)
	var wg sync.WaitGroup

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			b, err := p.Alloc()
			require.NoError(t, err)
			seen <- b
		}()
	}
	wg.Wait()
	close(seen)

	ids := make(map[int]int)
	for b := range seen {
		ids[b.ID]++
	}
	for id, count := range ids {
		require.Equal(t, 1, count, "block %d granted more than once concurrently", id)
	}
}
