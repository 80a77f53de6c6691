/****************************************************************************
BSD 3-Clause License

Copyright (c) 2021, 🍀☀🌕🌥 🌊
All rights reserved.
****************************************************************************/

// Package di provides dependency injection support for the container system.
// It defines standard interfaces and providers for integration with Go DI frameworks
// such as Google Wire and Uber Dig.
//
// Example usage with Google Wire:
//
//	// wire.go
//	//go:build wireinject
//	// +build wireinject
//
//	package main
//
//	import (
//	    "github.com/google/wire"
//	    "github.com/kcenon/typedkv/container/di"
//	)
//
//	func InitializeApp() (*App, error) {
//	    wire.Build(di.ProviderSet, NewApp)
//	    return nil, nil
//	}
//
// Example usage with Uber Dig:
//
//	container := dig.New()
//	container.Provide(di.NewContainerFactory)
package di

import (
	"github.com/kcenon/typedkv/container/core"
	"github.com/kcenon/typedkv/container/messaging"
	"github.com/kcenon/typedkv/container/metrics"
	"github.com/kcenon/typedkv/container/pool"
	"github.com/kcenon/typedkv/container/schema"
	"github.com/kcenon/typedkv/container/snapshot"
	"github.com/kcenon/typedkv/container/storage"
)

// ContainerFactory defines the interface for creating ValueContainer instances.
// This interface allows for easy mocking in tests and provides a standard
// abstraction for container creation across the application.
type ContainerFactory interface {
	// NewContainer creates a new empty ValueContainer.
	NewContainer() *core.ValueContainer

	// NewContainerWithType creates a ValueContainer with the specified message type.
	NewContainerWithType(messageType string) *core.ValueContainer

	// NewContainerWithTarget creates a ValueContainer with target information.
	NewContainerWithTarget(targetID, targetSubID, messageType string) *core.ValueContainer

	// NewContainerFull creates a ValueContainer with full header information.
	NewContainerFull(sourceID, sourceSubID, targetID, targetSubID, messageType string) *core.ValueContainer

	// NewBuilder creates a new ContainerBuilder for fluent container construction.
	NewBuilder() *messaging.ContainerBuilder

	// NewContainerWithPolicy creates a ValueContainer backed by policy
	// instead of the default insertion-ordered slice (§3.2/§4.4), so a
	// Wire-assembled application can get hash-indexed or type-restricted
	// lookup through the container itself rather than only through a
	// standalone storage.Policy.
	NewContainerWithPolicy(policy storage.Policy, messageType string) *core.ValueContainer
}

// DefaultContainerFactory is the default implementation of ContainerFactory.
// It creates ValueContainer instances using the standard constructors from the core package.
type DefaultContainerFactory struct{}

// NewContainerFactory creates a new ContainerFactory instance.
// This is the provider function for dependency injection frameworks.
func NewContainerFactory() ContainerFactory {
	return &DefaultContainerFactory{}
}

// NewContainer creates a new empty ValueContainer.
func (f *DefaultContainerFactory) NewContainer() *core.ValueContainer {
	return core.NewValueContainer()
}

// NewContainerWithType creates a ValueContainer with the specified message type.
func (f *DefaultContainerFactory) NewContainerWithType(messageType string) *core.ValueContainer {
	return core.NewValueContainerWithType(messageType)
}

// NewContainerWithTarget creates a ValueContainer with target information.
func (f *DefaultContainerFactory) NewContainerWithTarget(targetID, targetSubID, messageType string) *core.ValueContainer {
	return core.NewValueContainerWithTarget(targetID, targetSubID, messageType)
}

// NewContainerFull creates a ValueContainer with full header information.
func (f *DefaultContainerFactory) NewContainerFull(sourceID, sourceSubID, targetID, targetSubID, messageType string) *core.ValueContainer {
	return core.NewValueContainerFull(sourceID, sourceSubID, targetID, targetSubID, messageType)
}

// NewBuilder creates a new ContainerBuilder for fluent container construction.
func (f *DefaultContainerFactory) NewBuilder() *messaging.ContainerBuilder {
	return messaging.NewContainerBuilder()
}

// NewContainerWithPolicy creates a ValueContainer routed through policy.
func (f *DefaultContainerFactory) NewContainerWithPolicy(policy storage.Policy, messageType string) *core.ValueContainer {
	return core.NewValueContainerWithPolicy(policy, messageType)
}

// NewOrderedVectorPolicy is the provider for the default, order-preserving
// storage policy (§4.4).
func NewOrderedVectorPolicy() storage.Policy {
	return storage.NewOrderedVector()
}

// NewHashIndexedPolicy is the provider for the O(1)-average storage policy.
func NewHashIndexedPolicy() storage.Policy {
	return storage.NewHashIndexed()
}

// NewSchemaBuilder is the provider for a fresh, empty schema builder; callers
// chain Require/Optional/... on the returned value before calling Build.
func NewSchemaBuilder() *schema.Builder {
	return schema.NewBuilder()
}

// NewMemoryPool is the provider for the process-wide fixed-block allocator
// (§4.7), sized for 256-byte blocks in chunks of 64.
func NewMemoryPool() *pool.Pool {
	return pool.New(256, 64)
}

// NewMetricsRegistry is the provider for a container's metrics bookkeeping
// (§4.9/§4.11).
func NewMetricsRegistry() *metrics.Registry {
	return metrics.New()
}

// NewSnapshotStore is the provider for the lock-free epoch-based reader
// (§4.8) backing a container's concurrent read path.
func NewSnapshotStore() *snapshot.Store {
	return snapshot.NewStore()
}
