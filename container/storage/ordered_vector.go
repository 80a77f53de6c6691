/****************************************************************************
BSD 3-Clause License

Copyright (c) 2021, 🍀☀🌕🌥 🌊
All rights reserved.
****************************************************************************/

package storage

import "github.com/kcenon/typedkv/container/core"

type entry struct {
	key   string
	value core.Value
}

// OrderedVector is the default storage policy: an append-only slice with
// O(n) lookup, mirroring the teacher's ValueContainer.units scan pattern
// (container/core/container.go AddValue/GetValue/RemoveValue).
type OrderedVector struct {
	entries []entry
}

// NewOrderedVector creates an empty ordered-vector policy.
func NewOrderedVector() *OrderedVector {
	return &OrderedVector{entries: make([]entry, 0)}
}

func (p *OrderedVector) Set(key string, v core.Value) {
	p.entries = append(p.entries, entry{key, v})
}

func (p *OrderedVector) Replace(key string, v core.Value) bool {
	for i := range p.entries {
		if p.entries[i].key == key {
			p.entries[i].value = v
			return true
		}
	}
	return false
}

func (p *OrderedVector) Get(key string) (core.Value, bool) {
	for _, e := range p.entries {
		if e.key == key {
			return e.value, true
		}
	}
	return nil, false
}

func (p *OrderedVector) GetAll(key string) []core.Value {
	result := make([]core.Value, 0)
	for _, e := range p.entries {
		if e.key == key {
			result = append(result, e.value)
		}
	}
	return result
}

func (p *OrderedVector) Contains(key string) bool {
	_, ok := p.Get(key)
	return ok
}

func (p *OrderedVector) Remove(key string) int {
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
	return removed
}

func (p *OrderedVector) Clear() {
	p.entries = make([]entry, 0)
}

func (p *OrderedVector) Len() int { return len(p.entries) }

func (p *OrderedVector) IsEmpty() bool { return len(p.entries) == 0 }

func (p *OrderedVector) Reserve(n int) {
	if n <= cap(p.entries) {
		return
	}
	grown := make([]entry, len(p.entries), n)
	copy(grown, p.entries)
	p.entries = grown
}

func (p *OrderedVector) Keys() []string {
	keys := make([]string, len(p.entries))
	for i, e := range p.entries {
		keys[i] = e.key
	}
	return keys
}

func (p *OrderedVector) Values() []core.Value {
	vals := make([]core.Value, len(p.entries))
	for i, e := range p.entries {
		vals[i] = e.value
	}
	return vals
}
