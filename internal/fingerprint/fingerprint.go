package fingerprint

import (
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/dejanradmanovic/kargo-core/internal/kargoerr"
)

// Fingerprint is a computed build fingerprint.
type Fingerprint struct {
	Hash string
}

// Compute derives a SHA-256 fingerprint over every input that should
// trigger a rebuild when it changes: the unit's identity, the Kotlin
// version, compiler arguments, classpath jar names, source file
// contents, and annotation-processor jar names.
func Compute(unit Unit, kotlinVersion string) Fingerprint {
	h := sha256.New()

	fmt.Fprintf(h, "unit:%s\n", unit.Name)
	fmt.Fprintf(h, "kotlin:%s\n", kotlinVersion)
	fmt.Fprintf(h, "target:%s\n", unit.Target)
	fmt.Fprintf(h, "test:%v\n", unit.IsTest)

	args := append([]string{}, unit.CompilerArgs...)
	sort.Strings(args)
	for _, arg := range args {
		fmt.Fprintf(h, "arg:%s\n", arg)
	}

	cp := fileNames(unit.Classpath)
	sort.Strings(cp)
	for _, jar := range cp {
		fmt.Fprintf(h, "cp:%s\n", jar)
	}

	sources := unit.AllSources()
	sort.Strings(sources)
	for _, src := range sources {
		content, err := os.ReadFile(src)
		if err != nil {
			continue
		}
		fileHash := sha256.Sum256(content)
		fmt.Fprintf(h, "src:%s:%x\n", src, fileHash)
	}

	procJars := fileNames(unit.ProcessorJars)
	sort.Strings(procJars)
	for _, jar := range procJars {
		fmt.Fprintf(h, "proc:%s\n", jar)
	}

	return Fingerprint{Hash: fmt.Sprintf("%x", h.Sum(nil))}
}

func fileNames(paths []string) []string {
	names := make([]string, 0, len(paths))
	for _, p := range paths {
		names = append(names, filepath.Base(p))
	}
	return names
}

// MaxMtime returns the newest modification time (epoch seconds) across
// a unit's declared and generated source files, or 0 if none have
// metadata.
func MaxMtime(unit Unit) uint64 {
	var max uint64
	for _, src := range unit.Sources {
		if info, err := os.Stat(src); err == nil {
			if secs := uint64(info.ModTime().Unix()); secs > max {
				max = secs
			}
		}
	}
	for _, dir := range unit.GeneratedSources {
		if m := dirMaxMtime(dir); m > max {
			max = m
		}
	}
	return max
}

func dirMaxMtime(dir string) uint64 {
	var max uint64
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0
	}
	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())
		if entry.IsDir() {
			if m := dirMaxMtime(path); m > max {
				max = m
			}
			continue
		}
		if info, err := entry.Info(); err == nil {
			if secs := uint64(info.ModTime().Unix()); secs > max {
				max = secs
			}
		}
	}
	return max
}

func mtimePath(fpDir, unitName string) string {
	return filepath.Join(fpDir, unitName+".mtime")
}

// LoadMtime loads the previously stored mtime and source count for a
// unit. The second return value is false if no marker exists.
func LoadMtime(fpDir, unitName string) (mtime uint64, count int, ok bool) {
	data, err := os.ReadFile(mtimePath(fpDir, unitName))
	if err != nil {
		return 0, 0, false
	}
	if _, err := fmt.Sscanf(string(data), "%d %d", &mtime, &count); err == nil {
		return mtime, count, true
	}
	if _, err := fmt.Sscanf(string(data), "%d", &mtime); err == nil {
		return mtime, 0, true
	}
	return 0, 0, false
}

// SaveMtime writes the mtime marker for a unit after a successful build.
func SaveMtime(fpDir, unitName string, mtime uint64, sourceCount int) error {
	if err := os.MkdirAll(fpDir, 0o755); err != nil {
		return kargoerr.Wrap(kargoerr.KindIO, err, "creating fingerprint directory %s", fpDir)
	}
	path := mtimePath(fpDir, unitName)
	content := fmt.Sprintf("%d %d", mtime, sourceCount)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return kargoerr.Wrap(kargoerr.KindIO, err, "writing mtime marker %s", path)
	}
	return nil
}

func fingerprintPath(fpDir, unitName string) string {
	return filepath.Join(fpDir, unitName+".txt")
}

// Load reads a previously stored fingerprint, if any.
func Load(fpDir, unitName string) (Fingerprint, bool) {
	data, err := os.ReadFile(fingerprintPath(fpDir, unitName))
	if err != nil {
		return Fingerprint{}, false
	}
	return Fingerprint{Hash: strings.TrimSpace(string(data))}, true
}

// Save writes a fingerprint to disk.
func Save(fpDir, unitName string, fp Fingerprint) error {
	if err := os.MkdirAll(fpDir, 0o755); err != nil {
		return kargoerr.Wrap(kargoerr.KindIO, err, "creating fingerprint directory %s", fpDir)
	}
	path := fingerprintPath(fpDir, unitName)
	if err := os.WriteFile(path, []byte(fp.Hash), 0o644); err != nil {
		return kargoerr.Wrap(kargoerr.KindIO, err, "writing fingerprint %s", path)
	}
	return nil
}

func dirExists(dir string) bool {
	info, err := os.Stat(dir)
	return err == nil && info.IsDir()
}
