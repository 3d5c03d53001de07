package main

import (
	"crypto/sha256"
	"encoding/gob"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
)

// cacheVersion changes whenever the meaning of cached results does.
const cacheVersion = "sunlight-v2"

type CacheKey struct {
	dir, key string
}

// MakeCacheKey hashes args into a key for an entry in dir. If dir is
// empty, the key never loads and saving is a no-op.
func MakeCacheKey(dir string, args ...any) (*CacheKey, error) {
	h := sha256.New()

	enc := gob.NewEncoder(h)
	for _, arg := range args {
		if err := enc.Encode(arg); err != nil {
			return nil, fmt.Errorf("encoding cache key: %w", err)
		}
	}

	return &CacheKey{dir, hex.EncodeToString(h.Sum(nil))}, nil
}

func (ck *CacheKey) path() string {
	return filepath.Join(ck.dir, ck.key)
}

func (ck *CacheKey) Load(out any) bool {
	if ck.dir == "" {
		return false
	}
	f, err := os.Open(ck.path())
	if err != nil {
		return false
	}
	defer f.Close()
	dec := gob.NewDecoder(f)
	if dec.Decode(out) != nil {
		return false
	}
	return true
}

func (ck *CacheKey) Save(val any) error {
	if ck.dir == "" {
		return nil
	}
	if err := os.MkdirAll(ck.dir, 0777); err != nil {
		return err
	}
	// Write to a temporary file so a partial write is never loaded.
	f, err := os.CreateTemp(ck.dir, ck.key+".*")
	if err != nil {
		return err
	}
	defer os.Remove(f.Name())
	if err := gob.NewEncoder(f).Encode(val); err != nil {
		f.Close()
		return fmt.Errorf("encoding cache value: %w", err)
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(f.Name(), ck.path())
}
