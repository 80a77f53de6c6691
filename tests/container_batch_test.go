package tests

import (
	"testing"

	"github.com/kcenon/typedkv/container/core"
	"github.com/kcenon/typedkv/container/values"
)

func TestContainerSetAllAndGetBatch(t *testing.T) {
	c := core.NewValueContainer()
	c.SetAll([]core.Value{
		values.NewInt32Value("a", 1),
		values.NewInt32Value("b", 2),
		values.NewInt32Value("c", 3),
	})

	got := c.GetBatch([]string{"b", "missing", "a"})
	if got[0] == nil || got[0].Name() != "b" {
		t.Errorf("expected 'b' at index 0, got %v", got[0])
	}
	if got[1] != nil {
		t.Errorf("expected nil for missing key, got %v", got[1])
	}
	if got[2] == nil || got[2].Name() != "a" {
		t.Errorf("expected 'a' at index 2, got %v", got[2])
	}
}

func TestContainerContainsBatch(t *testing.T) {
	c := core.NewValueContainer()
	c.AddValue(values.NewStringValue("x", "1"))

	got := c.ContainsBatch([]string{"x", "y"})
	if !got[0] || got[1] {
		t.Errorf("unexpected ContainsBatch result: %v", got)
	}
}

func TestContainerRemoveBatch(t *testing.T) {
	c := core.NewValueContainer()
	c.SetAll([]core.Value{
		values.NewInt32Value("a", 1),
		values.NewInt32Value("b", 2),
		values.NewInt32Value("a", 9),
	})

	removed := c.RemoveBatch([]string{"a"})
	if removed != 2 {
		t.Errorf("expected 2 removed, got %d", removed)
	}
	if len(c.Values()) != 1 {
		t.Errorf("expected 1 remaining value, got %d", len(c.Values()))
	}
}

func TestContainerBulkInsertRejectsOnPrecondition(t *testing.T) {
	c := core.NewValueContainer()
	err := c.BulkInsert([]core.Value{values.NewInt32Value("n", 1)}, func(all []core.Value) bool {
		return len(all) <= 0
	})
	if err == nil {
		t.Fatal("expected BulkInsert to reject, got nil error")
	}
	if len(c.Values()) != 0 {
		t.Errorf("expected no values inserted after rejection, got %d", len(c.Values()))
	}
}

func TestContainerUpdateIfSucceedsOnMatch(t *testing.T) {
	c := core.NewValueContainer()
	original := values.NewInt32Value("n", 1)
	c.AddValue(original)

	ok := c.UpdateIf("n", original.Data(), values.NewInt32Value("n", 2))
	if !ok {
		t.Fatal("expected UpdateIf to succeed")
	}
	got := c.GetValue("n", 0)
	v, _ := got.ToInt32()
	if v != 2 {
		t.Errorf("expected updated value 2, got %d", v)
	}
}

func TestContainerUpdateIfFailsOnMismatch(t *testing.T) {
	c := core.NewValueContainer()
	c.AddValue(values.NewInt32Value("n", 1))

	ok := c.UpdateIf("n", []byte{0xFF}, values.NewInt32Value("n", 2))
	if ok {
		t.Fatal("expected UpdateIf to fail on mismatched expected value")
	}
}

func TestContainerCloneShallowDoesNotAliasSlice(t *testing.T) {
	c := core.NewValueContainer()
	c.AddValue(values.NewInt32Value("n", 1))

	clone, err := c.Clone(false)
	if err != nil {
		t.Fatalf("Clone failed: %v", err)
	}
	clone.AddValue(values.NewInt32Value("m", 2))

	if len(c.Values()) != 1 {
		t.Errorf("expected original container untouched, got %d values", len(c.Values()))
	}
	if len(clone.Values()) != 2 {
		t.Errorf("expected clone to have 2 values, got %d", len(clone.Values()))
	}
}

func TestContainerCloneDeepRecursesIntoNestedContainer(t *testing.T) {
	inner := values.NewContainerValue("inner")
	inner.AddChild(values.NewStringValue("leaf", "hi"))

	c := core.NewValueContainer()
	c.AddValue(inner)

	clone, err := c.Clone(true)
	if err != nil {
		t.Fatalf("Clone(true) failed: %v", err)
	}

	clonedInner := clone.GetValue("inner", 0)
	if clonedInner.ChildCount() != 1 {
		t.Errorf("expected cloned inner container to have 1 child, got %d", clonedInner.ChildCount())
	}

	clonedInner.AddChild(values.NewStringValue("new-leaf", "bye"))
	if inner.ChildCount() != 1 {
		t.Errorf("expected original inner container unaffected by clone mutation, got %d children", inner.ChildCount())
	}
}

func TestContainerCloneDeepDetectsCycle(t *testing.T) {
	cyclic := values.NewContainerValue("cyclic")
	cyclic.AddChild(cyclic)

	c := core.NewValueContainer()
	c.AddValue(cyclic)

	if _, err := c.Clone(true); err == nil {
		t.Fatal("expected Clone(true) to reject a self-referential container")
	}
}
