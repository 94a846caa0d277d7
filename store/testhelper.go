// ABOUTME: Test utilities for creating isolated KV stores
// ABOUTME: Uses temporary directories so parallel tests never share badger state

package store

import (
	"os"
	"path/filepath"
	"testing"
)

// NewTestKV returns a KV rooted in a fresh temp directory. The cleanup
// function should be deferred to close badger and remove the directory.
func NewTestKV(t *testing.T) (*KV, func()) {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "marquee-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}

	kv := Open(filepath.Join(tmpDir, "store"))
	if kv.Degraded() {
		_ = os.RemoveAll(tmpDir)
		t.Fatalf("Failed to open badger in %s", tmpDir)
	}

	cleanup := func() {
		if err := kv.Close(); err != nil {
			t.Logf("Warning: failed to close test store: %v", err)
		}
		if err := os.RemoveAll(tmpDir); err != nil {
			t.Logf("Warning: failed to remove temp directory %s: %v", tmpDir, err)
		}
	}

	return kv, cleanup
}
