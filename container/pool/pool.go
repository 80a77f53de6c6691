/****************************************************************************
BSD 3-Clause License

Copyright (c) 2021, 🍀☀🌕🌥 🌊
All rights reserved.
****************************************************************************/

// Package pool implements the fixed-block memory allocator described in
// §4.7: chunks of contiguous blocks, an intrusive free list threaded
// through unused blocks, and a single mutex guarding both. No library in
// the retrieved pack implements this allocator shape (DESIGN.md justifies
// the stdlib-only choice); the manual byte-slice bookkeeping follows the
// teacher's comfort with hand-rolled binary layout seen in
// container/values/array_value.go and bytes_value.go.
package pool

import (
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/kcenon/typedkv/container/errs"
)

// Log is the logger pool exhaustion/misconfiguration is reported through;
// production code defaults to the standard logrus logger (§4.10), matching
// container/codec's logging convention.
var Log logrus.FieldLogger = logrus.StandardLogger()

// Pool is a fixed-block allocator. Blocks are fixed at blockSize bytes;
// chunks hold blocksPerChunk blocks each and are appended on demand.
type Pool struct {
	mu             sync.Mutex
	blockSize      int
	blocksPerChunk int
	chunks         [][]byte
	freeHead       int32 // index into the flat block-id space; -1 means empty
	blockOwner     []int // which chunk each block-id belongs to, for stats
	allocated      int
	free           int
}

const noFreeBlock = -1

// New creates a pool with the given block size and blocks-per-chunk.
// blockSize must be at least 4: the free-list threads a 4-byte next-pointer
// through each free block's own bytes, and Alloc rejects anything smaller.
func New(blockSize, blocksPerChunk int) *Pool {
	return &Pool{
		blockSize:      blockSize,
		blocksPerChunk: blocksPerChunk,
		freeHead:       noFreeBlock,
	}
}

// block-id layout: each block-id maps to a chunk index and an offset
// within that chunk. The first 4 bytes of each free block store the
// next-pointer (as a block-id, -1 terminated), per the intrusive free-list
// design — no separate metadata array for the list itself.

func (p *Pool) blockBytes(id int) []byte {
	chunkIdx := id / p.blocksPerChunk
	offset := (id % p.blocksPerChunk) * p.blockSize
	return p.chunks[chunkIdx][offset : offset+p.blockSize]
}

func (p *Pool) growChunk() error {
	chunk := make([]byte, p.blockSize*p.blocksPerChunk)
	chunkIdx := len(p.chunks)
	p.chunks = append(p.chunks, chunk)

	base := chunkIdx * p.blocksPerChunk
	for i := 0; i < p.blocksPerChunk; i++ {
		id := base + i
		next := int32(noFreeBlock)
		if i+1 < p.blocksPerChunk {
			next = int32(id + 1)
		} else {
			next = int32(p.freeHead)
		}
		putInt32(p.blockBytes(id), next)
	}
	p.freeHead = int32(base)
	p.free += p.blocksPerChunk
	return nil
}

func putInt32(b []byte, v int32) {
	u := uint32(v)
	b[0] = byte(u)
	b[1] = byte(u >> 8)
	b[2] = byte(u >> 16)
	b[3] = byte(u >> 24)
}

func getInt32(b []byte) int32 {
	return int32(uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24)
}

// Block is a handle to an allocated block; ID is opaque and only meaningful
// to the Pool that issued it.
type Block struct {
	ID   int
	Data []byte
}

// Alloc pops the head of the free list, growing by one chunk if empty.
func (p *Pool) Alloc() (Block, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.freeHead == noFreeBlock {
		if p.blockSize < 4 || p.blocksPerChunk <= 0 {
			err := errs.NewAllocationFailed("pool", "invalid block configuration")
			Log.WithFields(logrus.Fields{"component": "pool", "op": "Alloc", "err": err}).Error("pool misconfigured")
			return Block{}, err
		}
		if err := p.growChunk(); err != nil {
			Log.WithFields(logrus.Fields{"component": "pool", "op": "Alloc", "err": err}).Error("chunk growth failed")
			return Block{}, err
		}
	}

	id := int(p.freeHead)
	data := p.blockBytes(id)
	p.freeHead = getInt32(data)
	p.free--
	p.allocated++

	for i := range data {
		data[i] = 0
	}
	return Block{ID: id, Data: data}, nil
}

// Free pushes a block back onto the head of the free list.
func (p *Pool) Free(b Block) {
	p.mu.Lock()
	defer p.mu.Unlock()

	data := p.blockBytes(b.ID)
	putInt32(data, p.freeHead)
	p.freeHead = int32(b.ID)
	p.allocated--
	p.free++
}

// Stats is the on-demand snapshot of pool bookkeeping (§4.7).
type Stats struct {
	ChunkCount      int
	AllocatedBlocks int
	TotalCapacity   int
	FreeCount       int
}

// Stats computes the current pool statistics.
func (p *Pool) Stats() Stats {
	p.mu.Lock()
	defer p.mu.Unlock()

	return Stats{
		ChunkCount:      len(p.chunks),
		AllocatedBlocks: p.allocated,
		TotalCapacity:   len(p.chunks) * p.blocksPerChunk,
		FreeCount:       p.free,
	}
}
