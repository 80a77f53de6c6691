/****************************************************************************
BSD 3-Clause License

Copyright (c) 2021, 🍀☀🌕🌥 🌊
All rights reserved.
****************************************************************************/

package storage

import "github.com/kcenon/typedkv/container/core"

// HashIndexed keeps the teacher's value_store.go map-based lookup (O(1)
// average Get) but adds a parallel insertion-ordered vector so duplicate
// keys are preserved and iteration stays in insertion order, which a bare
// map cannot offer. The index records the first matching slot for each key.
type HashIndexed struct {
	entries []entry
	index   map[string]int // key -> index of first matching entry
}

// NewHashIndexed creates an empty hash-indexed policy.
func NewHashIndexed() *HashIndexed {
	return &HashIndexed{
		entries: make([]entry, 0),
		index:   make(map[string]int),
	}
}

// NewHashIndexedFromValueStore seeds a hash-indexed policy from an existing
// ValueStore, preserving none of its map's iteration order guarantees (it
// has none) but giving every existing ValueStore-based caller a path onto
// the order-preserving, duplicate-aware policy.
func NewHashIndexedFromValueStore(vs *core.ValueStore) *HashIndexed {
	p := NewHashIndexed()
	vs.Range(func(key string, v core.Value) bool {
		p.Set(key, v)
		return true
	})
	return p
}

func (p *HashIndexed) Set(key string, v core.Value) {
	if _, exists := p.index[key]; !exists {
		p.index[key] = len(p.entries)
	}
	p.entries = append(p.entries, entry{key, v})
}

func (p *HashIndexed) Replace(key string, v core.Value) bool {
	i, ok := p.index[key]
	if !ok {
		return false
	}
	p.entries[i].value = v
	return true
}

func (p *HashIndexed) Get(key string) (core.Value, bool) {
	i, ok := p.index[key]
	if !ok {
		return nil, false
	}
	return p.entries[i].value, true
}

func (p *HashIndexed) GetAll(key string) []core.Value {
	result := make([]core.Value, 0)
	for _, e := range p.entries {
		if e.key == key {
			result = append(result, e.value)
		}
	}
	return result
}

func (p *HashIndexed) Contains(key string) bool {
	_, ok := p.index[key]
	return ok
}

func (p *HashIndexed) Remove(key string) int {
	kept := make([]entry, 0, len(p.entries))
	removed := 0
	for _, e := range p.entries {
		if e.key == key {
			removed++
			continue
		}
		kept = append(kept, e)
	}
	p.entries = kept
	p.rebuildIndex()
	return removed
}

func (p *HashIndexed) rebuildIndex() {
	p.index = make(map[string]int, len(p.entries))
	for i, e := range p.entries {
		if _, exists := p.index[e.key]; !exists {
			p.index[e.key] = i
		}
	}
}

func (p *HashIndexed) Clear() {
	p.entries = make([]entry, 0)
	p.index = make(map[string]int)
}

func (p *HashIndexed) Len() int { return len(p.entries) }

func (p *HashIndexed) IsEmpty() bool { return len(p.entries) == 0 }

func (p *HashIndexed) Reserve(n int) {
	if n > cap(p.entries) {
		grown := make([]entry, len(p.entries), n)
		copy(grown, p.entries)
		p.entries = grown
	}
}

func (p *HashIndexed) Keys() []string {
	keys := make([]string, len(p.entries))
	for i, e := range p.entries {
		keys[i] = e.key
	}
	return keys
}

func (p *HashIndexed) Values() []core.Value {
	vals := make([]core.Value, len(p.entries))
	for i, e := range p.entries {
		vals[i] = e.value
	}
	return vals
}
