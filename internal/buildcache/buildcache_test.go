package buildcache

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/dejanradmanovic/kargo-core/internal/fingerprint"
)

func TestParseSizeValues(t *testing.T) {
	cases := []struct {
		in   string
		want uint64
	}{
		{"10GB", 10 * 1000 * 1000 * 1000},
		{"500MB", 500 * 1000 * 1000},
		{"1024", 1024},
	}
	for _, c := range cases {
		cache := New(t.TempDir(), c.in)
		if cache.maxBytes != c.want {
			t.Errorf("New(%q).maxBytes = %d, want %d", c.in, cache.maxBytes, c.want)
		}
	}
}

func TestCachePutAndRestore(t *testing.T) {
	tmp := t.TempDir()
	cache := New(filepath.Join(tmp, "cache"), "")
	fp := fingerprint.Fingerprint{Hash: "abc123"}

	srcDir := filepath.Join(tmp, "classes")
	if err := os.MkdirAll(srcDir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(srcDir, "Main.class"), []byte("bytecode"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	if err := cache.Put(fp, srcDir); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if cache.Get(fp) == "" {
		t.Fatal("expected Get to find the cached entry")
	}

	restoreDir := filepath.Join(tmp, "restored")
	ok, err := cache.Restore(fp, restoreDir)
	if err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if !ok {
		t.Fatal("expected Restore to succeed")
	}
	if _, err := os.Stat(filepath.Join(restoreDir, "Main.class")); err != nil {
		t.Fatalf("expected restored file, got: %v", err)
	}
}

func TestIncrementalSizeTracking(t *testing.T) {
	tmp := t.TempDir()
	cache := New(filepath.Join(tmp, "cache"), "")

	srcDir := filepath.Join(tmp, "classes")
	if err := os.MkdirAll(srcDir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(srcDir, "Main.class"), []byte("bytecode"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	fp := fingerprint.Fingerprint{Hash: "size_test"}
	if err := cache.Put(fp, srcDir); err != nil {
		t.Fatalf("Put: %v", err)
	}

	tracked, ok := cache.readTrackedSize()
	if !ok || tracked == 0 {
		t.Fatalf("expected nonzero tracked size, got %d (ok=%v)", tracked, ok)
	}
	if actual := dirSize(cache.root); tracked != actual {
		t.Errorf("tracked size %d != actual %d", tracked, actual)
	}
}

func TestRebuildSizeRecovers(t *testing.T) {
	tmp := t.TempDir()
	cache := New(filepath.Join(tmp, "cache"), "")

	srcDir := filepath.Join(tmp, "classes")
	if err := os.MkdirAll(srcDir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(srcDir, "A.class"), []byte("aaaa"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	fp := fingerprint.Fingerprint{Hash: "rebuild"}
	if err := cache.Put(fp, srcDir); err != nil {
		t.Fatalf("Put: %v", err)
	}

	cache.writeTrackedSize(999999)
	if tracked, _ := cache.readTrackedSize(); tracked != 999999 {
		t.Fatalf("expected corrupted tracked size, got %d", tracked)
	}

	correct := cache.RebuildSize()
	if correct >= 999999 {
		t.Fatalf("expected rebuilt size < 999999, got %d", correct)
	}
	if tracked, _ := cache.readTrackedSize(); tracked != correct {
		t.Errorf("tracked size %d != rebuilt %d", tracked, correct)
	}
}

func TestEvictionRemovesOldestEntryFirst(t *testing.T) {
	tmp := t.TempDir()
	cache := New(filepath.Join(tmp, "cache"), "1024")

	makeEntry := func(hash string, size int) fingerprint.Fingerprint {
		fp := fingerprint.Fingerprint{Hash: hash}
		dir := filepath.Join(tmp, hash)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(filepath.Join(dir, "data.bin"), make([]byte, size), 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
		if err := cache.Put(fp, dir); err != nil {
			t.Fatalf("Put: %v", err)
		}
		return fp
	}

	first := makeEntry("old", 600)
	// Backdate the oldest entry's marker so it's evicted before "new".
	if err := os.WriteFile(filepath.Join(cache.entryDir(first), markerFile), []byte("1"), 0o644); err != nil {
		t.Fatalf("write marker: %v", err)
	}
	second := makeEntry("new", 600)

	if cache.Get(first) != "" {
		t.Error("expected oldest entry to be evicted")
	}
	if cache.Get(second) == "" {
		t.Error("expected newest entry to survive eviction")
	}
}
