package cache

import (
	"testing"
	"time"
)

func TestLRUGetSet(t *testing.T) {
	c := NewLRU(0)
	c.Set(NamespaceMX, "example.com", []string{"mx1.example.com"}, time.Hour)

	v, ok := c.Get(NamespaceMX, "example.com")
	if !ok {
		t.Fatal("expected hit after set")
	}
	if hosts, ok := v.([]string); !ok || len(hosts) != 1 {
		t.Fatalf("unexpected value: %#v", v)
	}

	if _, ok := c.Get(NamespaceMX, "missing.com"); ok {
		t.Fatal("expected miss for unseen key")
	}
}

func TestLRUExpiry(t *testing.T) {
	c := NewLRU(0)
	c.Set(NamespaceDomainValid, "example.com", true, time.Millisecond)
	time.Sleep(5 * time.Millisecond)

	if _, ok := c.Get(NamespaceDomainValid, "example.com"); ok {
		t.Fatal("expected expired entry to be a miss")
	}
}

func TestLRUEviction(t *testing.T) {
	c := NewLRU(2)
	c.Set(NamespaceFree, "a.com", true, time.Hour)
	c.Set(NamespaceFree, "b.com", true, time.Hour)
	c.Set(NamespaceFree, "c.com", true, time.Hour) // evicts a.com (LRU)

	if _, ok := c.Get(NamespaceFree, "a.com"); ok {
		t.Fatal("expected a.com to be evicted")
	}
	if _, ok := c.Get(NamespaceFree, "b.com"); !ok {
		t.Fatal("expected b.com to survive")
	}
	if _, ok := c.Get(NamespaceFree, "c.com"); !ok {
		t.Fatal("expected c.com to survive")
	}
}

func TestLRUNamespaceIsolation(t *testing.T) {
	c := NewLRU(0)
	c.Set(NamespaceMX, "example.com", "mx-value", time.Hour)
	c.Set(NamespaceFree, "example.com", "free-value", time.Hour)

	mx, _ := c.Get(NamespaceMX, "example.com")
	free, _ := c.Get(NamespaceFree, "example.com")
	if mx == free {
		t.Fatal("namespaces must not share key space")
	}
}

func TestLRUDeleteAndClear(t *testing.T) {
	c := NewLRU(0)
	c.Set(NamespaceWHOIS, "example.com", "record", time.Hour)

	if !c.Delete(NamespaceWHOIS, "example.com") {
		t.Fatal("expected delete to report true for existing key")
	}
	if c.Delete(NamespaceWHOIS, "example.com") {
		t.Fatal("expected second delete to report false")
	}

	c.Set(NamespaceWHOIS, "other.com", "record", time.Hour)
	c.Clear()
	if c.Has(NamespaceWHOIS, "other.com") {
		t.Fatal("expected Clear to remove all entries")
	}
}
