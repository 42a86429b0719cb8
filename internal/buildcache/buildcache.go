// Package buildcache implements a content-addressed local build-output
// cache: compiled artifacts are stored under their build fingerprint
// hash and restored verbatim on a cache hit instead of recompiling.
// Total size is tracked incrementally in a sidecar file so eviction
// decisions don't require a full-tree walk on every put.
package buildcache

import (
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/dejanradmanovic/kargo-core/internal/fingerprint"
	"github.com/dejanradmanovic/kargo-core/internal/kargoerr"
)

const (
	sizeFile   = ".kargo-cache-size"
	markerFile = ".kargo-cache-marker"
)

// Cache is a filesystem-backed build cache with LRU eviction under a
// byte budget.
type Cache struct {
	root     string
	maxBytes uint64
}

// New creates a build cache rooted at root, with maxSize parsed as a
// human-readable byte budget (e.g. "10GB", "500MB"); an empty string
// defaults to 10 GiB.
func New(root, maxSize string) *Cache {
	if maxSize == "" {
		maxSize = "10GiB"
	}
	maxBytes, err := humanize.ParseBytes(maxSize)
	if err != nil {
		maxBytes = 10 * 1024 * 1024 * 1024
	}
	return &Cache{root: root, maxBytes: maxBytes}
}

// DefaultPath returns the default build-cache location under the
// user's kargo home directory.
func DefaultPath(kargoHome string) string {
	return filepath.Join(kargoHome, "build-cache")
}

// Get returns the cache entry directory for fp, refreshing its LRU
// marker, or "" if no entry is cached.
func (c *Cache) Get(fp fingerprint.Fingerprint) string {
	entryDir := c.entryDir(fp)
	info, err := os.Stat(entryDir)
	if err != nil || !info.IsDir() {
		return ""
	}
	_ = os.WriteFile(filepath.Join(entryDir, markerFile), []byte(nowEpoch()), 0o644)
	return entryDir
}

// Put stores classesDir's contents in the cache under fp's key,
// replacing any existing entry, and evicts the oldest entries if the
// cache now exceeds its byte budget.
func (c *Cache) Put(fp fingerprint.Fingerprint, classesDir string) error {
	entryDir := c.entryDir(fp)

	if info, err := os.Stat(entryDir); err == nil && info.IsDir() {
		oldSize := dirSize(entryDir)
		_ = os.RemoveAll(entryDir)
		c.adjustTrackedSize(-int64(oldSize))
	}

	if err := copyDirRecursive(classesDir, entryDir); err != nil {
		return err
	}
	_ = os.WriteFile(filepath.Join(entryDir, markerFile), []byte(nowEpoch()), 0o644)

	c.adjustTrackedSize(int64(dirSize(entryDir)))
	c.evictIfNeeded()
	return nil
}

// Restore copies fp's cached artifacts into targetDir, reporting false
// if no entry was cached.
func (c *Cache) Restore(fp fingerprint.Fingerprint, targetDir string) (bool, error) {
	entryDir := c.Get(fp)
	if entryDir == "" {
		return false, nil
	}
	if err := copyDirRecursive(entryDir, targetDir); err != nil {
		return false, err
	}
	_ = os.Remove(filepath.Join(targetDir, markerFile))
	return true, nil
}

// Size returns the cache's total tracked size in bytes, recovering by
// a full-tree walk if the tracked-size file is missing or corrupt.
func (c *Cache) Size() uint64 {
	if size, ok := c.readTrackedSize(); ok {
		return size
	}
	actual := dirSize(c.root)
	c.writeTrackedSize(actual)
	return actual
}

// EntryCount returns the number of cached entries.
func (c *Cache) EntryCount() int {
	info, err := os.Stat(c.root)
	if err != nil || !info.IsDir() {
		return 0
	}
	entries, err := os.ReadDir(c.root)
	if err != nil {
		return 0
	}
	count := 0
	for _, e := range entries {
		if e.IsDir() {
			count++
		}
	}
	return count
}

// Clean removes every cached entry and returns the size freed.
func (c *Cache) Clean() (uint64, error) {
	size := c.Size()
	if info, err := os.Stat(c.root); err == nil && info.IsDir() {
		if err := os.RemoveAll(c.root); err != nil {
			return 0, kargoerr.Wrap(kargoerr.KindIO, err, "removing build cache %s", c.root)
		}
	}
	return size, nil
}

// RebuildSize recomputes the tracked size from a full walk of the cache
// tree, for recovery when the sidecar size file is suspected corrupt.
func (c *Cache) RebuildSize() uint64 {
	actual := dirSize(c.root)
	c.writeTrackedSize(actual)
	return actual
}

func (c *Cache) entryDir(fp fingerprint.Fingerprint) string {
	return filepath.Join(c.root, fp.Hash)
}

func (c *Cache) sizeFilePath() string { return filepath.Join(c.root, sizeFile) }

func (c *Cache) readTrackedSize() (uint64, bool) {
	data, err := os.ReadFile(c.sizeFilePath())
	if err != nil {
		return 0, false
	}
	size, err := strconv.ParseUint(strings.TrimSpace(string(data)), 10, 64)
	if err != nil {
		return 0, false
	}
	return size, true
}

func (c *Cache) writeTrackedSize(size uint64) {
	_ = os.MkdirAll(c.root, 0o755)
	_ = os.WriteFile(c.sizeFilePath(), []byte(strconv.FormatUint(size, 10)), 0o644)
}

func (c *Cache) adjustTrackedSize(delta int64) {
	current, _ := c.readTrackedSize()
	var next uint64
	if delta >= 0 {
		next = current + uint64(delta)
	} else {
		shrink := uint64(-delta)
		if shrink > current {
			next = 0
		} else {
			next = current - shrink
		}
	}
	c.writeTrackedSize(next)
}

func (c *Cache) evictIfNeeded() {
	currentSize := c.Size()
	if currentSize <= c.maxBytes {
		return
	}

	entries, err := os.ReadDir(c.root)
	if err != nil {
		return
	}

	type entryAge struct {
		path string
		ts   uint64
	}
	var dirs []entryAge
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		path := filepath.Join(c.root, e.Name())
		marker, err := os.ReadFile(filepath.Join(path, markerFile))
		ts := uint64(0)
		if err == nil {
			if parsed, err := strconv.ParseUint(strings.TrimSpace(string(marker)), 10, 64); err == nil {
				ts = parsed
			}
		}
		dirs = append(dirs, entryAge{path, ts})
	}

	sort.Slice(dirs, func(i, j int) bool { return dirs[i].ts < dirs[j].ts })

	for _, d := range dirs {
		if currentSize <= c.maxBytes {
			break
		}
		entrySize := dirSize(d.path)
		_ = os.RemoveAll(d.path)
		if entrySize > currentSize {
			currentSize = 0
		} else {
			currentSize -= entrySize
		}
	}

	c.writeTrackedSize(currentSize)
}

func nowEpoch() string {
	return strconv.FormatInt(time.Now().Unix(), 10)
}

func copyDirRecursive(src, dst string) error {
	if err := os.MkdirAll(dst, 0o755); err != nil {
		return kargoerr.Wrap(kargoerr.KindIO, err, "creating %s", dst)
	}
	entries, err := os.ReadDir(src)
	if err != nil {
		return kargoerr.Wrap(kargoerr.KindIO, err, "reading %s", src)
	}
	for _, entry := range entries {
		path := filepath.Join(src, entry.Name())
		dest := filepath.Join(dst, entry.Name())
		if entry.IsDir() {
			if err := copyDirRecursive(path, dest); err != nil {
				return err
			}
			continue
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return kargoerr.Wrap(kargoerr.KindIO, err, "reading %s", path)
		}
		if err := os.WriteFile(dest, data, 0o644); err != nil {
			return kargoerr.Wrap(kargoerr.KindIO, err, "writing %s", dest)
		}
	}
	return nil
}

// dirSize computes a directory's total size in bytes, excluding the
// sidecar size-tracking file itself.
func dirSize(path string) uint64 {
	var total uint64
	entries, err := os.ReadDir(path)
	if err != nil {
		return 0
	}
	for _, entry := range entries {
		p := filepath.Join(path, entry.Name())
		if entry.IsDir() {
			total += dirSize(p)
			continue
		}
		if entry.Name() == sizeFile {
			continue
		}
		if info, err := entry.Info(); err == nil {
			total += uint64(info.Size())
		}
	}
	return total
}
