// Package sourceset discovers and models Kotlin source sets: the
// single-target (src/main/kotlin) and Kotlin Multiplatform
// (src/commonMain/kotlin, src/jvmMain/kotlin, ...) project layouts, the
// standard KMP intermediate-source-set hierarchy, and recursive
// .kt/.java file collection for the compiler front end.
package sourceset

import (
	"os"
	"path/filepath"
)

// SourceSet is a single Kotlin compilation unit's input: one or more
// Kotlin/resource directories, and the names of the source sets it
// depends on (commonMain, etc.).
type SourceSet struct {
	Name         string
	KotlinDirs   []string
	ResourceDirs []string
	DependsOn    []string
}

// New creates a source set with conventional directories under baseDir:
// <baseDir>/<name>/kotlin and <baseDir>/<name>/resources.
func New(name, baseDir string) SourceSet {
	return SourceSet{
		Name:         name,
		KotlinDirs:   []string{filepath.Join(baseDir, name, "kotlin")},
		ResourceDirs: []string{filepath.Join(baseDir, name, "resources")},
	}
}

// WithDependsOn records a dependency on another source set and returns
// the receiver for chaining.
func (s SourceSet) WithDependsOn(parent string) SourceSet {
	for _, existing := range s.DependsOn {
		if existing == parent {
			return s
		}
	}
	s.DependsOn = append(s.DependsOn, parent)
	return s
}

// Exists reports whether any of this source set's Kotlin directories
// exist on disk.
func (s SourceSet) Exists() bool {
	for _, dir := range s.KotlinDirs {
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			return true
		}
	}
	return false
}
