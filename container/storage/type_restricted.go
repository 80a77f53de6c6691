/****************************************************************************
BSD 3-Clause License

Copyright (c) 2021, 🍀☀🌕🌥 🌊
All rights reserved.
****************************************************************************/

package storage

import (
	"github.com/kcenon/typedkv/container/core"
	"github.com/kcenon/typedkv/container/errs"
)

// TypeRestricted wraps another policy and rejects any value whose
// ValueType isn't in the constructor-time allowlist. No teacher precedent
// for this exists; it follows the general Go idiom of a constructor-time
// allowlist check, as seen across validator-style constructors in the
// retrieved pack.
type TypeRestricted struct {
	inner   Policy
	allowed map[core.ValueType]bool
}

// NewTypeRestricted wraps inner, permitting only the given types.
func NewTypeRestricted(inner Policy, allowedTypes ...core.ValueType) *TypeRestricted {
	allowed := make(map[core.ValueType]bool, len(allowedTypes))
	for _, t := range allowedTypes {
		allowed[t] = true
	}
	return &TypeRestricted{inner: inner, allowed: allowed}
}

// SetChecked is the error-returning counterpart to Set; Set itself silently
// no-ops on a disallowed type to satisfy the Policy interface, so callers
// that need the violation surfaced should use SetChecked.
func (p *TypeRestricted) SetChecked(key string, v core.Value) error {
	if !p.allowed[v.Type()] {
		return errs.NewTypeConstraintViolated("storage.type_restricted", key)
	}
	p.inner.Set(key, v)
	return nil
}

func (p *TypeRestricted) Set(key string, v core.Value) {
	_ = p.SetChecked(key, v)
}

func (p *TypeRestricted) Replace(key string, v core.Value) bool {
	if !p.allowed[v.Type()] {
		return false
	}
	return p.inner.Replace(key, v)
}

func (p *TypeRestricted) Get(key string) (core.Value, bool)   { return p.inner.Get(key) }
func (p *TypeRestricted) GetAll(key string) []core.Value      { return p.inner.GetAll(key) }
func (p *TypeRestricted) Contains(key string) bool             { return p.inner.Contains(key) }
func (p *TypeRestricted) Remove(key string) int                { return p.inner.Remove(key) }
func (p *TypeRestricted) Clear()                                { p.inner.Clear() }
func (p *TypeRestricted) Len() int                              { return p.inner.Len() }
func (p *TypeRestricted) IsEmpty() bool                         { return p.inner.IsEmpty() }
func (p *TypeRestricted) Reserve(n int)                         { p.inner.Reserve(n) }
func (p *TypeRestricted) Keys() []string                        { return p.inner.Keys() }
func (p *TypeRestricted) Values() []core.Value                  { return p.inner.Values() }
