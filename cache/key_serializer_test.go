package cache

import (
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestSerializeKeyBasicShape(t *testing.T) {
	ks := NewDefaultKeySerializer()

	id := uuid.New()
	key := ks.SerializeKey("persona", "id", id)
	want := "persona::id::" + id.String()
	if key != want {
		t.Errorf("key = %q, want %q", key, want)
	}
}

func TestSerializeKeyIsDeterministic(t *testing.T) {
	ks := NewDefaultKeySerializer()

	a := ks.SerializeKey("persona", "paged", "anon", 2, 20, "name", true)
	b := ks.SerializeKey("persona", "paged", "anon", 2, 20, "name", true)
	if a != b {
		t.Errorf("same args produced different keys: %q vs %q", a, b)
	}

	c := ks.SerializeKey("persona", "paged", "anon", 3, 20, "name", true)
	if a == c {
		t.Error("different args must produce different keys")
	}
}

func TestSerializeKeyMapOrderIndependent(t *testing.T) {
	ks := NewDefaultKeySerializer()

	// Map iteration order varies; serialized form must not.
	m := map[string]int{"a": 1, "b": 2, "c": 3}
	first := ks.SerializeKey("persona", "filter", m)
	for i := 0; i < 20; i++ {
		if got := ks.SerializeKey("persona", "filter", m); got != first {
			t.Fatalf("key changed across serializations: %q vs %q", got, first)
		}
	}
}

func TestSerializeKeyLongKeysCollapseToDigest(t *testing.T) {
	ks := NewDefaultKeySerializer()

	key := ks.SerializeKey("persona", "search", strings.Repeat("x", 500))
	if len(key) > maxKeyLength {
		t.Errorf("len(key) = %d, want <= %d", len(key), maxKeyLength)
	}
	if !strings.HasPrefix(key, "persona::search::h:") {
		t.Errorf("digest key %q should keep namespace and method", key)
	}
}

func TestSerializeKeyNilAndFuncArgs(t *testing.T) {
	ks := NewDefaultKeySerializer()

	if got := ks.SerializeKey("persona", "all", nil); got != "persona::all::nil" {
		t.Errorf("nil arg key = %q", got)
	}

	fn := func() {}
	a := ks.SerializeKey("persona", "paged", fn)
	b := ks.SerializeKey("persona", "paged", fn)
	if a != b {
		t.Error("same func value must serialize identically")
	}
}
