/****************************************************************************
BSD 3-Clause License

Copyright (c) 2021, 🍀☀🌕🌥 🌊
All rights reserved.
****************************************************************************/

// Package storage implements the container's pluggable storage policies
// (§4.4): ordered-vector (default), hash-indexed, and type-restricted.
// Grounded on the teacher's container/core/value_store.go (single
// map-backed store, generalized here into the hash-indexed policy) and
// container/core/container.go (units []Value slice-scan pattern,
// generalized into the ordered-vector policy).
package storage

import "github.com/kcenon/typedkv/container/core"

// Policy is the common contract every storage policy satisfies. All
// policies preserve insertion order on iteration and allow duplicate keys
// under Set; Replace overwrites the first match instead of appending.
type Policy interface {
	Set(key string, v core.Value)
	Replace(key string, v core.Value) bool
	Get(key string) (core.Value, bool)
	GetAll(key string) []core.Value
	Contains(key string) bool
	Remove(key string) int
	Clear()
	Len() int
	IsEmpty() bool
	Reserve(n int)
	Keys() []string
	Values() []core.Value
}
