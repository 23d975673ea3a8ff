package verifier

import (
	"testing"

	"github.com/reachmail/verifier/cache"
)

func TestMiscClassifierDisposableAndFree(t *testing.T) {
	c := cache.NewLRU(0)
	m := NewMiscClassifier(c)

	res := m.Classify("someone", "mailinator.com")
	if !res.Disposable {
		t.Fatal("expected mailinator.com to be classified disposable")
	}
	if res.Free {
		t.Fatal("did not expect mailinator.com to be classified free")
	}

	res = m.Classify("someone", "gmail.com")
	if res.Disposable {
		t.Fatal("did not expect gmail.com to be classified disposable")
	}
	if !res.Free {
		t.Fatal("expected gmail.com to be classified free")
	}
}

func TestMiscClassifierFlexibleInput(t *testing.T) {
	m := NewMiscClassifier(nil)
	if !m.IsDisposable("someone@mailinator.com") {
		t.Fatal("expected IsDisposable to extract the domain from a full address")
	}
	if !m.IsDisposable("mailinator.com") {
		t.Fatal("expected IsDisposable to accept a bare domain")
	}
}

func TestMiscClassifierRoleAccount(t *testing.T) {
	m := NewMiscClassifier(nil)

	if !m.Classify("admin", "example.com").RoleAccount {
		t.Fatal("expected admin@ to be a role account")
	}
	if m.Classify("jane.doe", "example.com").RoleAccount {
		t.Fatal("did not expect jane.doe@ to be a role account")
	}
}

func TestMiscClassifierCachesMiss(t *testing.T) {
	c := cache.NewLRU(0)
	m := NewMiscClassifier(c)

	m.Classify("x", "neither-disposable-nor-free.example")
	v, ok := c.Get(cache.NamespaceDisposable, cache.Key("neither-disposable-nor-free.example"))
	if !ok {
		t.Fatal("expected a negative classification to still be cached")
	}
	if b, ok := v.(bool); !ok || b {
		t.Fatalf("expected cached miss to be false, got %#v", v)
	}
}

func TestStaticSetReplace(t *testing.T) {
	s := newStaticSet([]string{"a.com"})
	if !s.Contains("a.com") {
		t.Fatal("expected a.com in initial set")
	}
	s.Replace([]string{"b.com"})
	if s.Contains("a.com") {
		t.Fatal("expected a.com removed after replace")
	}
	if !s.Contains("b.com") {
		t.Fatal("expected b.com present after replace")
	}
}
