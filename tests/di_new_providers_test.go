package tests

import (
	"testing"

	"github.com/kcenon/typedkv/container/core"
	"github.com/kcenon/typedkv/container/di"
	"github.com/kcenon/typedkv/container/values"
)

func TestNewOrderedVectorPolicyIsUsable(t *testing.T) {
	p := di.NewOrderedVectorPolicy()
	p.Set("k", values.NewInt32Value("k", 1))

	if !p.Contains("k") {
		t.Error("expected policy to contain 'k' after Set")
	}
}

func TestNewHashIndexedPolicyIsUsable(t *testing.T) {
	p := di.NewHashIndexedPolicy()
	p.Set("k", values.NewInt32Value("k", 1))

	got, ok := p.Get("k")
	if !ok || got.Name() != "k" {
		t.Error("expected hash-indexed policy Get to find 'k'")
	}
}

func TestNewSchemaBuilderProducesUsableSchema(t *testing.T) {
	s := di.NewSchemaBuilder().Require("name", core.StringValue).Build()
	if err := s.Validate(nil); err == nil {
		t.Error("expected schema validation to fail on missing required field")
	}
}

func TestNewMemoryPoolAllocatesBlocks(t *testing.T) {
	p := di.NewMemoryPool()
	b, err := p.Alloc()
	if err != nil {
		t.Fatalf("Alloc failed: %v", err)
	}
	if len(b.Data) != 256 {
		t.Errorf("expected 256-byte block, got %d", len(b.Data))
	}
}

func TestNewMetricsRegistryStartsEmpty(t *testing.T) {
	r := di.NewMetricsRegistry()
	snap := r.Snapshot()
	if snap.Counts == nil {
		t.Fatal("expected Snapshot to return a non-nil Counts map")
	}
}

func TestNewSnapshotStoreStartsAtEpochZero(t *testing.T) {
	s := di.NewSnapshotStore()
	if s.Current().Epoch() != 0 {
		t.Errorf("expected fresh store at epoch 0, got %d", s.Current().Epoch())
	}
}
