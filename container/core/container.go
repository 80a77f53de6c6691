/****************************************************************************
BSD 3-Clause License

Copyright (c) 2021, 🍀☀🌕🌥 🌊
All rights reserved.
****************************************************************************/

package core

import (
	"encoding/json"
	"encoding/xml"
	"fmt"
	"os"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/kcenon/typedkv/container/errs"
	"github.com/kcenon/typedkv/container/metrics"
)

// StoragePolicy is the container's storage-policy seam (spec.md §3.2,
// SPEC_FULL.md §4.4/§4.5): a container constructed with a policy routes its
// get/set/contains/remove operations through it instead of the default
// insertion-ordered slice scan, so callers can get hash-indexed O(1) lookup
// or type restriction through the container itself. Fixed at construction
// per §3.2 — there is no setter. Matches container/storage.Policy's method
// set structurally; core cannot import container/storage (storage imports
// core), so the seam is this local interface rather than a direct type.
type StoragePolicy interface {
	Set(key string, v Value)
	Replace(key string, v Value) bool
	Get(key string) (Value, bool)
	GetAll(key string) []Value
	Contains(key string) bool
	Remove(key string) int
	Clear()
	Len() int
	IsEmpty() bool
	Reserve(n int)
	Keys() []string
	Values() []Value
}

// ValueFactory reconstructs a concrete Value from its type code, raw data
// payload, and (for the container/array variants) already-reconstructed
// children. core cannot construct concrete values itself — container/values
// imports core, not the reverse — so FromMessagePack (§4.14) resolves one
// through this registry instead. RegisterValueFactory is called from
// container/values's init(), the same factory-inversion value_store.go's
// DeserializeBinary takes as an explicit parameter, just wired once at
// program start rather than threaded through every call site.
type ValueFactory func(name string, vtype ValueType, data []byte, children []Value) (Value, error)

var valueFactory ValueFactory

// RegisterValueFactory installs f as the reconstruction function used by
// FromMessagePack. Not safe to call concurrently with deserialization; it
// is meant to run once, from an init() at program start.
func RegisterValueFactory(f ValueFactory) {
	valueFactory = f
}

// ValueContainer represents a message container with header and values
type ValueContainer struct {
	// Header fields
	sourceID    string
	sourceSubID string
	targetID    string
	targetSubID string
	messageType string
	version     string

	// Values — used directly when policy is nil (the default, teacher-
	// compatible behavior); when policy is set, it is the source of truth
	// and units is left empty.
	units  []Value
	policy StoragePolicy

	// metrics records read/write/serialize/deserialize/copy/move counters
	// (§4.9, C9) when attached; nil means no-op (RecordOp itself also
	// no-ops when the registry is disabled).
	metrics *metrics.Registry

	// Thread safety
	mu         sync.RWMutex
	threadSafe bool
}

// NewValueContainer creates a new empty container
func NewValueContainer() *ValueContainer {
	return &ValueContainer{
		version: "1.0.0.0",
		units:   make([]Value, 0),
	}
}

// NewValueContainerWithType creates a container with message type
func NewValueContainerWithType(messageType string, units ...Value) *ValueContainer {
	return &ValueContainer{
		messageType: messageType,
		version:     "1.0.0.0",
		units:       units,
	}
}

// NewValueContainerWithTarget creates a container with target info
func NewValueContainerWithTarget(targetID, targetSubID, messageType string, units ...Value) *ValueContainer {
	return &ValueContainer{
		targetID:    targetID,
		targetSubID: targetSubID,
		messageType: messageType,
		version:     "1.0.0.0",
		units:       units,
	}
}

// NewValueContainerFull creates a container with full header
func NewValueContainerFull(sourceID, sourceSubID, targetID, targetSubID, messageType string, units ...Value) *ValueContainer {
	return &ValueContainer{
		sourceID:    sourceID,
		sourceSubID: sourceSubID,
		targetID:    targetID,
		targetSubID: targetSubID,
		messageType: messageType,
		version:     "1.0.0.0",
		units:       units,
	}
}

// NewValueContainerWithPolicy creates a container whose get/set/contains/
// remove operations are routed through policy instead of the default
// insertion-ordered slice scan (spec.md §3.2: the storage policy is fixed
// at construction and affects lookup cost for the container's lifetime).
func NewValueContainerWithPolicy(policy StoragePolicy, messageType string, units ...Value) *ValueContainer {
	c := &ValueContainer{
		messageType: messageType,
		version:     "1.0.0.0",
		policy:      policy,
	}
	for _, u := range units {
		c.AddValue(u)
	}
	return c
}

// EnableMetrics attaches reg so subsequent operations record read/write/
// serialize/deserialize/copy/move counters (§4.9, C9). Passing nil detaches
// metrics recording. Hooks no-op whenever no registry is attached, and
// Registry.RecordOp itself no-ops whenever the attached registry is
// disabled, so metrics collection never costs more than a nil check and a
// time.Since when switched off.
func (c *ValueContainer) EnableMetrics(reg *metrics.Registry) {
	c.metrics = reg
}

func (c *ValueContainer) recordOp(kind metrics.Kind, start time.Time) {
	if c.metrics == nil {
		return
	}
	c.metrics.RecordOp(kind, time.Since(start))
}

// EnableThreadSafe enables thread-safe mode
func (c *ValueContainer) EnableThreadSafe() {
	c.threadSafe = true
}

// DisableThreadSafe disables thread-safe mode
func (c *ValueContainer) DisableThreadSafe() {
	c.threadSafe = false
}

// IsThreadSafe returns whether thread-safe mode is enabled
func (c *ValueContainer) IsThreadSafe() bool {
	return c.threadSafe
}

// SetSource sets the source ID and sub ID
func (c *ValueContainer) SetSource(sourceID, sourceSubID string) {
	if c.threadSafe {
		c.mu.Lock()
		defer c.mu.Unlock()
	}
	c.sourceID = sourceID
	c.sourceSubID = sourceSubID
}

// SetTarget sets the target ID and sub ID
func (c *ValueContainer) SetTarget(targetID, targetSubID string) {
	if c.threadSafe {
		c.mu.Lock()
		defer c.mu.Unlock()
	}
	c.targetID = targetID
	c.targetSubID = targetSubID
}

// SetMessageType sets the message type
func (c *ValueContainer) SetMessageType(messageType string) {
	if c.threadSafe {
		c.mu.Lock()
		defer c.mu.Unlock()
	}
	c.messageType = messageType
}

// SwapHeader swaps source and target. Spec counts this as a "move"
// operation for metrics purposes (§4.9, C9): it relocates the container's
// routing data in place rather than copying or reading it.
func (c *ValueContainer) SwapHeader() {
	start := time.Now()
	c.sourceID, c.targetID = c.targetID, c.sourceID
	c.sourceSubID, c.targetSubID = c.targetSubID, c.sourceSubID
	c.recordOp(metrics.KindMove, start)
}

// Accessors
func (c *ValueContainer) SourceID() string    { return c.sourceID }
func (c *ValueContainer) SourceSubID() string { return c.sourceSubID }
func (c *ValueContainer) TargetID() string    { return c.targetID }
func (c *ValueContainer) TargetSubID() string { return c.targetSubID }
func (c *ValueContainer) MessageType() string { return c.messageType }
func (c *ValueContainer) Version() string     { return c.version }

// Values returns every value currently held, in insertion order, whether
// backed by the default slice or by a storage policy.
func (c *ValueContainer) Values() []Value {
	if c.policy != nil {
		return c.policy.Values()
	}
	return c.units
}

// AddValue adds a value to the container, through the storage policy when
// one is attached (§3.2/§4.4) or the default slice otherwise.
func (c *ValueContainer) AddValue(value Value) {
	start := time.Now()
	if c.threadSafe {
		c.mu.Lock()
		defer c.mu.Unlock()
	}
	if c.policy != nil {
		c.policy.Set(value.Name(), value)
	} else {
		c.units = append(c.units, value)
	}
	c.recordOp(metrics.KindWrite, start)
}

// RemoveValue removes all values with the given name.
func (c *ValueContainer) RemoveValue(name string) {
	start := time.Now()
	if c.threadSafe {
		c.mu.Lock()
		defer c.mu.Unlock()
	}
	if c.policy != nil {
		c.policy.Remove(name)
	} else {
		newUnits := make([]Value, 0)
		for _, unit := range c.units {
			if unit.Name() != name {
				newUnits = append(newUnits, unit)
			}
		}
		c.units = newUnits
	}
	c.recordOp(metrics.KindWrite, start)
}

// GetValue gets the value at index among those named name (0 for the
// first match), through the storage policy when one is attached.
func (c *ValueContainer) GetValue(name string, index int) Value {
	start := time.Now()
	if c.threadSafe {
		c.mu.RLock()
		defer c.mu.RUnlock()
	}
	defer c.recordOp(metrics.KindRead, start)

	if c.policy != nil {
		matches := c.policy.GetAll(name)
		if index < len(matches) {
			return matches[index]
		}
		return NewBaseValue("", NullValue, nil)
	}

	count := 0
	for _, unit := range c.units {
		if unit.Name() == name {
			if count == index {
				return unit
			}
			count++
		}
	}
	return NewBaseValue("", NullValue, nil)
}

// GetValues gets all values with the given name.
func (c *ValueContainer) GetValues(name string) []Value {
	start := time.Now()
	defer c.recordOp(metrics.KindRead, start)

	if c.policy != nil {
		return c.policy.GetAll(name)
	}
	result := make([]Value, 0)
	for _, unit := range c.units {
		if unit.Name() == name {
			result = append(result, unit)
		}
	}
	return result
}

// Contains reports whether a value named name is present, through the
// storage policy when one is attached (the hash-indexed policy answers
// this in O(1) average rather than the default's O(n) scan).
func (c *ValueContainer) Contains(name string) bool {
	start := time.Now()
	if c.threadSafe {
		c.mu.RLock()
		defer c.mu.RUnlock()
	}
	defer c.recordOp(metrics.KindRead, start)
	if c.policy != nil {
		return c.policy.Contains(name)
	}
	for _, unit := range c.units {
		if unit.Name() == name {
			return true
		}
	}
	return false
}

// ClearValues removes all values.
func (c *ValueContainer) ClearValues() {
	start := time.Now()
	defer c.recordOp(metrics.KindWrite, start)
	if c.policy != nil {
		c.policy.Clear()
		return
	}
	c.units = make([]Value, 0)
}

// Copy creates a copy of this container. The copy always uses the default
// slice storage: a storage policy is fixed at construction (§3.2), so a
// copy cannot silently inherit one without re-constructing through
// NewValueContainerWithPolicy.
func (c *ValueContainer) Copy(containingValues bool) *ValueContainer {
	start := time.Now()
	newContainer := &ValueContainer{
		sourceID:    c.sourceID,
		sourceSubID: c.sourceSubID,
		targetID:    c.targetID,
		targetSubID: c.targetSubID,
		messageType: c.messageType,
		version:     c.version,
		units:       make([]Value, 0),
	}

	if containingValues {
		src := c.Values()
		newContainer.units = make([]Value, len(src))
		copy(newContainer.units, src)
	}

	c.recordOp(metrics.KindCopy, start)
	return newContainer
}

// SetAll adds every value in vals, locking once for the whole batch instead
// of once per value (§4.5 batch operations), through the storage policy
// when one is attached.
func (c *ValueContainer) SetAll(vals []Value) {
	start := time.Now()
	if c.threadSafe {
		c.mu.Lock()
		defer c.mu.Unlock()
	}
	if c.policy != nil {
		for _, v := range vals {
			c.policy.Set(v.Name(), v)
		}
	} else {
		c.units = append(c.units, vals...)
	}
	c.recordOp(metrics.KindWrite, start)
}

// GetBatch returns, for each name in names and in the same order, the first
// matching value or nil if absent.
func (c *ValueContainer) GetBatch(names []string) []Value {
	start := time.Now()
	if c.threadSafe {
		c.mu.RLock()
		defer c.mu.RUnlock()
	}
	defer c.recordOp(metrics.KindRead, start)

	out := make([]Value, len(names))
	if c.policy != nil {
		for i, name := range names {
			if v, ok := c.policy.Get(name); ok {
				out[i] = v
			}
		}
		return out
	}
	for i, name := range names {
		for _, unit := range c.units {
			if unit.Name() == name {
				out[i] = unit
				break
			}
		}
	}
	return out
}

// ContainsBatch reports, for each name in names and in the same order,
// whether a value with that name is present.
func (c *ValueContainer) ContainsBatch(names []string) []bool {
	start := time.Now()
	if c.threadSafe {
		c.mu.RLock()
		defer c.mu.RUnlock()
	}
	defer c.recordOp(metrics.KindRead, start)
	out := make([]bool, len(names))
	if c.policy != nil {
		for i, name := range names {
			out[i] = c.policy.Contains(name)
		}
		return out
	}
	for i, name := range names {
		for _, unit := range c.units {
			if unit.Name() == name {
				out[i] = true
				break
			}
		}
	}
	return out
}

// RemoveBatch removes every value whose name appears in names and returns
// the total number of values removed.
func (c *ValueContainer) RemoveBatch(names []string) int {
	start := time.Now()
	if c.threadSafe {
		c.mu.Lock()
		defer c.mu.Unlock()
	}
	defer c.recordOp(metrics.KindWrite, start)

	if c.policy != nil {
		removed := 0
		for _, n := range names {
			removed += c.policy.Remove(n)
		}
		return removed
	}

	remove := make(map[string]bool, len(names))
	for _, n := range names {
		remove[n] = true
	}
	newUnits := make([]Value, 0, len(c.units))
	removed := 0
	for _, unit := range c.units {
		if remove[unit.Name()] {
			removed++
			continue
		}
		newUnits = append(newUnits, unit)
	}
	c.units = newUnits
	return removed
}

// BulkInsert atomically appends vals after checking a single precondition
// via allowed, which receives the full proposed final slice and reports
// whether the insert may proceed (e.g. a type-restriction or uniqueness
// check). If allowed is nil the insert always proceeds.
func (c *ValueContainer) BulkInsert(vals []Value, allowed func([]Value) bool) error {
	start := time.Now()
	if c.threadSafe {
		c.mu.Lock()
		defer c.mu.Unlock()
	}
	proposed := append(append([]Value{}, c.Values()...), vals...)
	if allowed != nil && !allowed(proposed) {
		return errs.NewInvalidValue("container.bulk_insert", "rejected by precondition")
	}
	if c.policy != nil {
		for _, v := range vals {
			c.policy.Set(v.Name(), v)
		}
	} else {
		c.units = proposed
	}
	c.recordOp(metrics.KindWrite, start)
	return nil
}

// UpdateIf replaces the first value named name with newValue only if the
// existing value's Data() matches expected byte-for-byte, returning true on
// success (a compare-and-swap over a single named slot).
func (c *ValueContainer) UpdateIf(name string, expected []byte, newValue Value) bool {
	start := time.Now()
	if c.threadSafe {
		c.mu.Lock()
		defer c.mu.Unlock()
	}

	if c.policy != nil {
		existing, ok := c.policy.Get(name)
		if !ok || string(existing.Data()) != string(expected) {
			return false
		}
		c.policy.Replace(name, newValue)
		c.recordOp(metrics.KindWrite, start)
		return true
	}

	for i, unit := range c.units {
		if unit.Name() != name {
			continue
		}
		if string(unit.Data()) != string(expected) {
			return false
		}
		c.units[i] = newValue
		c.recordOp(metrics.KindWrite, start)
		return true
	}
	return false
}

// Clone generalizes Copy to recurse into nested container/array children
// when deep is true, detecting cycles via pointer identity and refusing to
// clone a self-referential graph (SPEC_FULL.md §9) rather than looping
// forever. Like Copy, the clone always uses default slice storage.
func (c *ValueContainer) Clone(deep bool) (*ValueContainer, error) {
	// Copy(false) already records one KindCopy sample for the header-only
	// construction below; Clone doesn't add a second sample on top of it.
	newContainer := c.Copy(false)
	src := c.Values()
	if !deep {
		newContainer.units = append([]Value{}, src...)
		return newContainer, nil
	}

	visited := make(map[uintptr]bool)
	cloned := make([]Value, len(src))
	for i, unit := range src {
		cv, err := cloneValue(unit, visited)
		if err != nil {
			return nil, err
		}
		cloned[i] = cv
	}
	newContainer.units = cloned
	return newContainer, nil
}

func identityOf(v Value) (uintptr, bool) {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Ptr || rv.IsNil() {
		return 0, false
	}
	return rv.Pointer(), true
}

// cloneValue deep-copies v, recursing into container/array children. Plain
// leaf values carry no outgoing references and no generic constructor, so
// they are returned as-is; only types implementing ChildBuilder (container,
// array) are rebuilt with cloned children.
func cloneValue(v Value, visited map[uintptr]bool) (Value, error) {
	builder, ok := v.(ChildBuilder)
	if !ok {
		return v, nil
	}

	id, idOk := identityOf(v)
	if idOk {
		if visited[id] {
			return nil, errs.NewReferenceNotSupported("container.clone")
		}
		visited[id] = true
		defer delete(visited, id)
	}

	children := v.Children()
	clonedChildren := make([]Value, len(children))
	for i, child := range children {
		cc, err := cloneValue(child, visited)
		if err != nil {
			return nil, err
		}
		clonedChildren[i] = cc
	}

	return builder.WithChildren(clonedChildren), nil
}

// Serialize renders the header and each value's own Serialize() form,
// pipe/newline-joined. This is a one-way diagnostic format: unlike the
// binary (§4.2), MessagePack (§4.14), JSON, and XML encodings, it carries
// no type tags a reader could use to rebuild values, so Deserialize only
// recovers the header.
func (c *ValueContainer) Serialize() (string, error) {
	start := time.Now()
	defer c.recordOp(metrics.KindSerialize, start)

	header := fmt.Sprintf("%s|%s|%s|%s|%s|%s",
		c.sourceID, c.sourceSubID, c.targetID, c.targetSubID,
		c.messageType, c.version)

	src := c.Values()
	valueStrs := make([]string, len(src))
	for i, unit := range src {
		valStr, err := unit.Serialize()
		if err != nil {
			return "", err
		}
		valueStrs[i] = valStr
	}

	data := strings.Join(valueStrs, "|")
	return fmt.Sprintf("%s\n%s", header, data), nil
}

// SerializeArray serializes the container to byte array
func (c *ValueContainer) SerializeArray() ([]byte, error) {
	str, err := c.Serialize()
	if err != nil {
		return nil, err
	}
	return []byte(str), nil
}

// Deserialize restores the header fields written by Serialize. The value
// line Serialize emits carries no type tags, so it cannot be rebuilt into
// values here; use ToMessagePack/FromMessagePack or the binary codec (C2)
// for a round-trip that includes values.
func (c *ValueContainer) Deserialize(data string) error {
	start := time.Now()
	defer c.recordOp(metrics.KindDeserialize, start)

	lines := strings.Split(data, "\n")
	if len(lines) < 1 {
		return fmt.Errorf("invalid data format")
	}

	headerParts := strings.Split(lines[0], "|")
	if len(headerParts) >= 6 {
		c.sourceID = headerParts[0]
		c.sourceSubID = headerParts[1]
		c.targetID = headerParts[2]
		c.targetSubID = headerParts[3]
		c.messageType = headerParts[4]
		c.version = headerParts[5]
	}

	return nil
}

// DeserializeArray deserializes from byte array
func (c *ValueContainer) DeserializeArray(data []byte) error {
	return c.Deserialize(string(data))
}

// ToXML converts to XML representation
func (c *ValueContainer) ToXML() (string, error) {
	start := time.Now()
	defer c.recordOp(metrics.KindSerialize, start)

	type XMLContainer struct {
		XMLName     xml.Name `xml:"container"`
		SourceID    string   `xml:"source_id"`
		SourceSubID string   `xml:"source_sub_id"`
		TargetID    string   `xml:"target_id"`
		TargetSubID string   `xml:"target_sub_id"`
		MessageType string   `xml:"message_type"`
		Version     string   `xml:"version"`
		Values      []string `xml:"values>value"`
	}

	xmlCont := XMLContainer{
		SourceID:    c.sourceID,
		SourceSubID: c.sourceSubID,
		TargetID:    c.targetID,
		TargetSubID: c.targetSubID,
		MessageType: c.messageType,
		Version:     c.version,
		Values:      make([]string, 0),
	}

	for _, unit := range c.Values() {
		unitXML, err := unit.ToXML()
		if err != nil {
			return "", err
		}
		xmlCont.Values = append(xmlCont.Values, unitXML)
	}

	data, err := xml.MarshalIndent(xmlCont, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// ToJSON converts to JSON representation
func (c *ValueContainer) ToJSON() (string, error) {
	start := time.Now()
	defer c.recordOp(metrics.KindSerialize, start)

	jsonCont := map[string]interface{}{
		"source_id":     c.sourceID,
		"source_sub_id": c.sourceSubID,
		"target_id":     c.targetID,
		"target_sub_id": c.targetSubID,
		"message_type":  c.messageType,
		"version":       c.version,
		"values":        make([]map[string]interface{}, 0),
	}

	values := make([]map[string]interface{}, 0)
	for _, unit := range c.Values() {
		unitJSON, err := unit.ToJSON()
		if err != nil {
			return "", err
		}
		var unitMap map[string]interface{}
		if err := json.Unmarshal([]byte(unitJSON), &unitMap); err != nil {
			return "", err
		}
		values = append(values, unitMap)
	}
	jsonCont["values"] = values

	data, err := json.MarshalIndent(jsonCont, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// valueToMPMap converts v into the recursive map shape ToMessagePack embeds
// per value: name, numeric type code, raw Data() payload, and (only for
// the container/array variants) a nested "children" list built the same
// way — round-tripping the full 16-variant value algebra (§4.14) rather
// than the teacher's original map-only, values-less encoding.
func valueToMPMap(v Value) map[string]interface{} {
	m := map[string]interface{}{
		"name": v.Name(),
		"type": int(v.Type()),
		"data": v.Data(),
	}
	if kids := v.Children(); len(kids) > 0 {
		children := make([]map[string]interface{}, len(kids))
		for i, kid := range kids {
			children[i] = valueToMPMap(kid)
		}
		m["children"] = children
	}
	return m
}

// mpMapToValue is valueToMPMap's inverse, resolving concrete values through
// the registered ValueFactory.
func mpMapToValue(m map[string]interface{}) (Value, error) {
	name, _ := m["name"].(string)

	typeNum, ok := toInt64(m["type"])
	if !ok {
		return nil, errs.NewDeserializeFailed("container.from_messagepack", "value missing type code")
	}

	var children []Value
	if rawChildren, ok := m["children"].([]interface{}); ok {
		children = make([]Value, 0, len(rawChildren))
		for _, rc := range rawChildren {
			cm, ok := rc.(map[string]interface{})
			if !ok {
				return nil, errs.NewDeserializeFailed("container.from_messagepack", "malformed child value")
			}
			cv, err := mpMapToValue(cm)
			if err != nil {
				return nil, err
			}
			children = append(children, cv)
		}
	}

	if valueFactory == nil {
		return nil, errs.NewDeserializeFailed("container.from_messagepack",
			"no value factory registered; import container/values")
	}
	return valueFactory(name, ValueType(typeNum), toBytesValue(m["data"]), children)
}

// toInt64 normalizes the handful of numeric shapes msgpack.Unmarshal can
// hand back for an interface{} field (int64, uint64, float64 depending on
// the encoded magnitude) into an int64.
func toInt64(v interface{}) (int64, bool) {
	switch n := v.(type) {
	case int64:
		return n, true
	case uint64:
		return int64(n), true
	case int:
		return int64(n), true
	case float64:
		return int64(n), true
	default:
		return 0, false
	}
}

// toBytesValue normalizes a decoded "data" field back to a byte slice; a
// nil or missing field (e.g. NullValue) becomes an empty slice.
func toBytesValue(v interface{}) []byte {
	switch b := v.(type) {
	case []byte:
		return b
	case string:
		return []byte(b)
	default:
		return nil
	}
}

// ToMessagePack serializes to MessagePack binary format, an interchange
// format supplemental to the binary/JSON/XML codecs (§4.14).
func (c *ValueContainer) ToMessagePack() ([]byte, error) {
	start := time.Now()
	defer c.recordOp(metrics.KindSerialize, start)

	src := c.Values()
	values := make([]map[string]interface{}, len(src))
	for i, unit := range src {
		values[i] = valueToMPMap(unit)
	}

	mpData := map[string]interface{}{
		"source_id":     c.sourceID,
		"source_sub_id": c.sourceSubID,
		"target_id":     c.targetID,
		"target_sub_id": c.targetSubID,
		"message_type":  c.messageType,
		"version":       c.version,
		"values":        values,
	}

	return msgpack.Marshal(mpData)
}

// FromMessagePack deserializes from MessagePack binary format, reconstructing
// every value through the registered ValueFactory (§4.14) rather than
// dropping them.
func (c *ValueContainer) FromMessagePack(data []byte) error {
	start := time.Now()
	defer c.recordOp(metrics.KindDeserialize, start)

	var mpData map[string]interface{}
	if err := msgpack.Unmarshal(data, &mpData); err != nil {
		return err
	}

	// Extract header fields
	if val, ok := mpData["source_id"].(string); ok {
		c.sourceID = val
	}
	if val, ok := mpData["source_sub_id"].(string); ok {
		c.sourceSubID = val
	}
	if val, ok := mpData["target_id"].(string); ok {
		c.targetID = val
	}
	if val, ok := mpData["target_sub_id"].(string); ok {
		c.targetSubID = val
	}
	if val, ok := mpData["message_type"].(string); ok {
		c.messageType = val
	}
	if val, ok := mpData["version"].(string); ok {
		c.version = val
	}

	rawValues, _ := mpData["values"].([]interface{})
	units := make([]Value, 0, len(rawValues))
	for _, rv := range rawValues {
		vm, ok := rv.(map[string]interface{})
		if !ok {
			return errs.NewDeserializeFailed("container.from_messagepack", "malformed value entry")
		}
		v, err := mpMapToValue(vm)
		if err != nil {
			return err
		}
		units = append(units, v)
	}

	if c.threadSafe {
		c.mu.Lock()
		defer c.mu.Unlock()
	}
	if c.policy != nil {
		c.policy.Clear()
		for _, v := range units {
			c.policy.Set(v.Name(), v)
		}
	} else {
		c.units = units
	}

	return nil
}

// SaveToFile saves the container to a file
func (c *ValueContainer) SaveToFile(filePath string) error {
	data, err := c.SerializeArray()
	if err != nil {
		return fmt.Errorf("serialization failed: %w", err)
	}

	if err := os.WriteFile(filePath, data, 0644); err != nil {
		return fmt.Errorf("file write failed: %w", err)
	}

	return nil
}

// LoadFromFile loads the container from a file
func (c *ValueContainer) LoadFromFile(filePath string) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return fmt.Errorf("file read failed: %w", err)
	}

	if err := c.DeserializeArray(data); err != nil {
		return fmt.Errorf("deserialization failed: %w", err)
	}

	return nil
}

// SaveToFileMessagePack saves the container to a file in MessagePack format
func (c *ValueContainer) SaveToFileMessagePack(filePath string) error {
	data, err := c.ToMessagePack()
	if err != nil {
		return fmt.Errorf("messagepack serialization failed: %w", err)
	}

	if err := os.WriteFile(filePath, data, 0644); err != nil {
		return fmt.Errorf("file write failed: %w", err)
	}

	return nil
}

// LoadFromFileMessagePack loads the container from a MessagePack file
func (c *ValueContainer) LoadFromFileMessagePack(filePath string) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return fmt.Errorf("file read failed: %w", err)
	}

	if err := c.FromMessagePack(data); err != nil {
		return fmt.Errorf("messagepack deserialization failed: %w", err)
	}

	return nil
}

// SaveToFileJSON saves the container to a JSON file
func (c *ValueContainer) SaveToFileJSON(filePath string) error {
	jsonStr, err := c.ToJSON()
	if err != nil {
		return fmt.Errorf("json serialization failed: %w", err)
	}

	if err := os.WriteFile(filePath, []byte(jsonStr), 0644); err != nil {
		return fmt.Errorf("file write failed: %w", err)
	}

	return nil
}

// SaveToFileXML saves the container to an XML file
func (c *ValueContainer) SaveToFileXML(filePath string) error {
	xmlStr, err := c.ToXML()
	if err != nil {
		return fmt.Errorf("xml serialization failed: %w", err)
	}

	if err := os.WriteFile(filePath, []byte(xmlStr), 0644); err != nil {
		return fmt.Errorf("file write failed: %w", err)
	}

	return nil
}
