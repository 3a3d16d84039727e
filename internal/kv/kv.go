// Package kv provides a process-wide key-value namespace for opaque blobs.
//
// The namespace holds a small number of logical keys, each mapping to a full
// list-valued blob that callers read and write wholesale. There is no schema
// versioning; a missing key reads as absent and callers treat it as an empty
// collection.
package kv

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Namespace is the storage contract for opaque keyed blobs.
type Namespace interface {
	// Get returns the blob stored under key, and whether the key exists.
	Get(key string) ([]byte, bool, error)
	// Set stores the blob under key, replacing any previous value.
	Set(key string, value []byte) error
	// Delete removes a key. Deleting an absent key is not an error.
	Delete(key string) error
}

// FileNamespace persists the namespace as a single JSON file mapping keys to
// raw blobs. Access is mutex-guarded for in-process use; there is no
// cross-process locking.
type FileNamespace struct {
	filePath string
	mu       sync.Mutex
	entries  map[string]json.RawMessage
	loaded   bool
}

// NewFileNamespace creates a namespace backed by the given file. The file is
// created lazily on first write.
func NewFileNamespace(filePath string) *FileNamespace {
	return &FileNamespace{
		filePath: filePath,
		entries:  make(map[string]json.RawMessage),
	}
}

// load reads the backing file into memory once. A missing file is an empty
// namespace; a corrupted file starts fresh rather than failing every call.
// A transient read error does NOT latch the loaded flag: the next call
// retries, and no write can happen over data that was never read.
func (n *FileNamespace) load() error {
	if n.loaded {
		return nil
	}

	data, err := os.ReadFile(n.filePath)
	if os.IsNotExist(err) {
		n.loaded = true
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read namespace file: %w", err)
	}

	entries := make(map[string]json.RawMessage)
	if err := json.Unmarshal(data, &entries); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: namespace file %s is corrupted, starting fresh: %v\n", n.filePath, err)
		n.loaded = true
		return nil
	}
	n.entries = entries
	n.loaded = true
	return nil
}

// save writes the whole namespace back to disk.
func (n *FileNamespace) save() error {
	if err := os.MkdirAll(filepath.Dir(n.filePath), 0755); err != nil {
		return fmt.Errorf("failed to create namespace directory: %w", err)
	}

	data, err := json.MarshalIndent(n.entries, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal namespace: %w", err)
	}

	if err := os.WriteFile(n.filePath, data, 0644); err != nil {
		return fmt.Errorf("failed to write namespace file: %w", err)
	}
	return nil
}

// Get returns the blob stored under key.
func (n *FileNamespace) Get(key string) ([]byte, bool, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if err := n.load(); err != nil {
		return nil, false, err
	}
	value, ok := n.entries[key]
	if !ok {
		return nil, false, nil
	}
	return value, true, nil
}

// Set stores the blob under key and persists the namespace.
func (n *FileNamespace) Set(key string, value []byte) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if err := n.load(); err != nil {
		return err
	}
	n.entries[key] = json.RawMessage(value)
	return n.save()
}

// Delete removes key and persists the namespace when the key existed.
func (n *FileNamespace) Delete(key string) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if err := n.load(); err != nil {
		return err
	}
	if _, ok := n.entries[key]; !ok {
		return nil
	}
	delete(n.entries, key)
	return n.save()
}
