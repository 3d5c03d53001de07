package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestCacheRoundTrip(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "cache")
	ck, err := MakeCacheKey(dir, "scene", 1.5, []int{1, 2})
	if err != nil {
		t.Fatal(err)
	}
	var got []float64
	if ck.Load(&got) {
		t.Fatal("loaded from an empty cache")
	}
	want := []float64{0.5, 0.25}
	if err := ck.Save(want); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if !ck.Load(&got) || len(got) != 2 || got[0] != 0.5 || got[1] != 0.25 {
		t.Errorf("got %v, want %v", got, want)
	}

	// Only the final entry remains in the directory.
	ents, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(ents) != 1 || ents[0].Name() != ck.key {
		t.Errorf("got cache entries %v, want just %s", ents, ck.key)
	}
}

func TestCacheKeyDistinct(t *testing.T) {
	a, _ := MakeCacheKey("d", "scene", 1.5)
	b, _ := MakeCacheKey("d", "scene", 1.5)
	c, _ := MakeCacheKey("d", "scene", 2.5)
	if a.key != b.key {
		t.Error("same inputs gave different keys")
	}
	if a.key == c.key {
		t.Error("different inputs gave the same key")
	}
}

func TestCacheDisabled(t *testing.T) {
	ck, err := MakeCacheKey("", "x")
	if err != nil {
		t.Fatal(err)
	}
	if err := ck.Save(1); err != nil {
		t.Errorf("Save with caching disabled: %v", err)
	}
	var v int
	if ck.Load(&v) {
		t.Error("Load with caching disabled succeeded")
	}
}

func TestCacheKeyUnencodable(t *testing.T) {
	if _, err := MakeCacheKey("d", func() {}); err == nil {
		t.Error("MakeCacheKey of a func succeeded")
	}
}
