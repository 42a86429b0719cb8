package annotation

import (
	"os"
	"path/filepath"

	"github.com/dejanradmanovic/kargo-core/internal/fingerprint"
)

// apMarkerSuffix distinguishes the AP pre-pass's mtime marker from the
// unit's own fingerprint.Unit marker in the same directory.
const apMarkerSuffix = ".ap"

// maxInputMtime returns the newest modification time (epoch seconds)
// across a unit's sources, its processor jars, and the manifest file
// that configures annotation processing, so any of the three can
// invalidate a previously skipped pre-pass.
func maxInputMtime(sources, processorJars []string, manifestPath string) uint64 {
	var max uint64
	bump := func(path string) {
		if info, err := os.Stat(path); err == nil {
			if secs := uint64(info.ModTime().Unix()); secs > max {
				max = secs
			}
		}
	}
	for _, s := range sources {
		bump(s)
	}
	for _, j := range processorJars {
		bump(j)
	}
	if manifestPath != "" {
		bump(manifestPath)
	}
	return max
}

// ShouldSkip reports whether the annotation-processing pre-pass can be
// skipped for unitName: nothing relevant has changed since the mtime
// marker from the last run that actually executed it.
func ShouldSkip(fpDir, unitName string, sources, processorJars []string, manifestPath string) bool {
	stored, _, ok := fingerprint.LoadMtime(fpDir, unitName+apMarkerSuffix)
	if !ok {
		return false
	}
	return maxInputMtime(sources, processorJars, manifestPath) <= stored
}

// MarkRan records the mtime marker after a pre-pass run so the next
// build can consider skipping it via ShouldSkip.
func MarkRan(fpDir, unitName string, sources, processorJars []string, manifestPath string) error {
	mtime := maxInputMtime(sources, processorJars, manifestPath)
	return fingerprint.SaveMtime(fpDir, unitName+apMarkerSuffix, mtime, len(sources))
}

// generatedSourceDirs returns the standard KSP/KAPT generated-source
// roots under a unit's generated directory, filtered to ones that exist.
func generatedSourceDirs(generatedDir string) []string {
	candidates := []string{
		filepath.Join(generatedDir, "ksp", "kotlin"),
		filepath.Join(generatedDir, "kapt", "sources"),
	}
	var existing []string
	for _, dir := range candidates {
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			existing = append(existing, dir)
		}
	}
	return existing
}
