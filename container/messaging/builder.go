/****************************************************************************
BSD 3-Clause License

Copyright (c) 2021, 🍀☀🌕🌥 🌊
All rights reserved.
****************************************************************************/

// Package messaging provides a fluent builder API for constructing ValueContainer instances.
package messaging

import (
	"github.com/kcenon/typedkv/container/codec"
	"github.com/kcenon/typedkv/container/core"
	"github.com/kcenon/typedkv/container/schema"
)

// ContainerBuilder provides a fluent API for constructing ValueContainer instances.
// It allows chaining method calls to configure various container properties
// before building the final container.
//
// Example usage:
//
//	container, err := messaging.NewContainerBuilder().
//	    WithSource("client", "1").
//	    WithTarget("server", "main").
//	    WithType("request").
//	    Build()
type ContainerBuilder struct {
	sourceID    string
	sourceSubID string
	targetID    string
	targetSubID string
	messageType string
	values      []core.Value
	threadSafe  bool
	schema      *schema.Schema
}

// NewContainerBuilder creates a new ContainerBuilder instance.
func NewContainerBuilder() *ContainerBuilder {
	return &ContainerBuilder{
		values: make([]core.Value, 0),
	}
}

// WithSource sets the source ID and sub ID for the container.
// Returns the builder for method chaining.
func (b *ContainerBuilder) WithSource(id, subID string) *ContainerBuilder {
	b.sourceID = id
	b.sourceSubID = subID
	return b
}

// WithTarget sets the target ID and sub ID for the container.
// Returns the builder for method chaining.
func (b *ContainerBuilder) WithTarget(id, subID string) *ContainerBuilder {
	b.targetID = id
	b.targetSubID = subID
	return b
}

// WithType sets the message type for the container.
// Returns the builder for method chaining.
func (b *ContainerBuilder) WithType(msgType string) *ContainerBuilder {
	b.messageType = msgType
	return b
}

// WithValues adds values to the container.
// Returns the builder for method chaining.
func (b *ContainerBuilder) WithValues(values ...core.Value) *ContainerBuilder {
	b.values = append(b.values, values...)
	return b
}

// WithThreadSafe enables thread-safe mode for the container.
// Returns the builder for method chaining.
func (b *ContainerBuilder) WithThreadSafe(enabled bool) *ContainerBuilder {
	b.threadSafe = enabled
	return b
}

// WithSchema attaches a validation schema; Build runs it against the
// accumulated values before constructing the container, returning the
// first violation as an error instead of producing an invalid container.
func (b *ContainerBuilder) WithSchema(s *schema.Schema) *ContainerBuilder {
	b.schema = s
	return b
}

// Build creates a new ValueContainer with the configured properties.
// Returns the constructed container and any error encountered.
func (b *ContainerBuilder) Build() (*core.ValueContainer, error) {
	if b.schema != nil {
		if err := b.schema.Validate(b.values); err != nil {
			return nil, err
		}
	}

	container := core.NewValueContainerFull(
		b.sourceID,
		b.sourceSubID,
		b.targetID,
		b.targetSubID,
		b.messageType,
		b.values...,
	)

	if b.threadSafe {
		container.EnableThreadSafe()
	}

	return container, nil
}

// EncodeBinary serializes c via the canonical binary wire codec (§4.2),
// carrying the container's header fields across. withCRC appends a CRC32
// trailer for integrity checking on decode.
func EncodeBinary(c *core.ValueContainer, withCRC bool) ([]byte, error) {
	return codec.EncodeBinary(headerOf(c), c.Values(), withCRC)
}

// DecodeBinary parses data produced by EncodeBinary into a fresh
// ValueContainer.
func DecodeBinary(data []byte) (*core.ValueContainer, error) {
	h, vals, err := codec.DecodeBinary(data)
	if err != nil {
		return nil, err
	}
	return containerFrom(h, vals), nil
}

// EncodeJSON serializes c via the §4.3 JSON document codec.
func EncodeJSON(c *core.ValueContainer) (string, error) {
	return codec.EncodeJSON(headerOf(c), c.Values())
}

// DecodeJSON parses a document produced by EncodeJSON into a fresh
// ValueContainer.
func DecodeJSON(data string) (*core.ValueContainer, error) {
	h, vals, err := codec.DecodeJSON(data)
	if err != nil {
		return nil, err
	}
	return containerFrom(h, vals), nil
}

// EncodeXML serializes c via the §4.3 XML document codec.
func EncodeXML(c *core.ValueContainer) (string, error) {
	return codec.EncodeXML(headerOf(c), c.Values())
}

// DecodeXML parses a document produced by EncodeXML into a fresh
// ValueContainer.
func DecodeXML(data string) (*core.ValueContainer, error) {
	h, vals, err := codec.DecodeXML(data)
	if err != nil {
		return nil, err
	}
	return containerFrom(h, vals), nil
}

func headerOf(c *core.ValueContainer) codec.Header {
	return codec.Header{
		SourceID:    c.SourceID(),
		SourceSubID: c.SourceSubID(),
		TargetID:    c.TargetID(),
		TargetSubID: c.TargetSubID(),
		MessageType: c.MessageType(),
	}
}

func containerFrom(h codec.Header, vals []core.Value) *core.ValueContainer {
	return core.NewValueContainerFull(h.SourceID, h.SourceSubID, h.TargetID, h.TargetSubID, h.MessageType, vals...)
}
