// Package fingerprint implements the two-tier incremental-compilation
// change detector: a fast mtime+source-count pre-check, and a full
// SHA-256 content fingerprint over a compilation unit's inputs when the
// fast path can't rule out a change. Markers live under
// .kargo/fingerprints/<target>/<profile>/ so the build/ output
// directory holds only compiled artifacts.
package fingerprint

import (
	"path/filepath"

	"github.com/dejanradmanovic/kargo-core/internal/sourceset"
)

// Unit is one compiler invocation's worth of inputs: sources, classpath,
// compiler arguments, and anything else whose change should trigger a
// rebuild.
type Unit struct {
	Name             string
	Target           string
	Sources          []string
	ResourceDirs     []string
	Classpath        []string
	OutputDir        string
	CompilerArgs     []string
	IsTest           bool
	GeneratedSources []string
	ProcessorJars    []string
}

// HasSources reports whether this unit has anything to compile.
func (u Unit) HasSources() bool {
	if len(u.Sources) > 0 {
		return true
	}
	for _, dir := range u.GeneratedSources {
		if dirExists(dir) {
			return true
		}
	}
	return false
}

// AllSources returns the unit's declared sources plus every file
// recursively collected from its generated-source directories (KSP,
// KAPT, BuildConfig output).
func (u Unit) AllSources() []string {
	all := append([]string{}, u.Sources...)
	for _, dir := range u.GeneratedSources {
		if dirExists(dir) {
			all = append(all, sourceset.CollectKotlinFiles([]string{dir})...)
		}
	}
	return all
}

// StorageDir is the fingerprint directory for a project/target/profile
// triple: <project>/.kargo/fingerprints/<target>/<profile>.
func StorageDir(projectDir, target, profile string) string {
	return filepath.Join(projectDir, ".kargo", "fingerprints", target, profile)
}
