package orchestrator

import (
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"github.com/dejanradmanovic/kargo-core/internal/artifactcache"
	"github.com/dejanradmanovic/kargo-core/internal/manifest"
)

// Classpath is the assembled set of JARs needed to compile and test a
// unit, split by the role each JAR plays.
type Classpath struct {
	// CompileJars are needed to compile main sources.
	CompileJars []string
	// TestJars are needed to compile and run test sources; it already
	// includes CompileJars.
	TestJars []string
	// ProcessorJars are annotation-processor JARs (ksp/kapt), needed
	// only while running the processor, never on the output classpath.
	ProcessorJars []string
}

// STDLIBJars lists the Kotlin stdlib JARs every compilation needs.
var STDLIBJars = []string{
	"kotlin-stdlib.jar",
	"annotations-13.0.jar",
	"kotlin-annotations-jvm.jar",
}

// STDLIBRuntimeJars lists the JDK-variant stdlib JARs needed at runtime.
var STDLIBRuntimeJars = []string{
	"kotlin-stdlib.jar",
	"kotlin-stdlib-jdk8.jar",
	"kotlin-stdlib-jdk7.jar",
}

// Assemble builds a Classpath from the lockfile, resolving each locked
// package to its cached JAR and bucketing it by scope: compile (or
// unset scope) goes on the compile classpath, test goes on the test
// classpath only, and ksp/kapt are kept separate as processor JARs.
func Assemble(lockfile *manifest.Lockfile, cache *artifactcache.Cache) Classpath {
	var compileJars, testOnlyJars, processorJars []string

	for _, pkg := range lockfile.Package {
		jarPath := cache.GetJar(artifactcache.Coordinate{
			Group:    pkg.Group,
			Artifact: pkg.Name,
			Version:  pkg.Version,
		}, "")
		if jarPath == "" {
			continue
		}

		scope := pkg.Scope
		if scope == "" {
			scope = "compile"
		}

		switch scope {
		case "test":
			testOnlyJars = append(testOnlyJars, jarPath)
		case "ksp", "kapt":
			processorJars = append(processorJars, jarPath)
		default:
			compileJars = append(compileJars, jarPath)
		}
	}

	sort.Strings(compileJars)
	sort.Strings(testOnlyJars)
	sort.Strings(processorJars)

	testJars := make([]string, 0, len(compileJars)+len(testOnlyJars))
	testJars = append(testJars, compileJars...)
	testJars = append(testJars, testOnlyJars...)

	return Classpath{
		CompileJars:   compileJars,
		TestJars:      testJars,
		ProcessorJars: processorJars,
	}
}

// ToClasspathString joins jar paths into a classpath argument using the
// platform-appropriate separator.
func ToClasspathString(jars []string) string {
	return strings.Join(jars, classpathSeparator())
}

// WithStdlib appends the Kotlin stdlib JARs found under kotlinHome/lib
// to jars, deduplicating by filename, and returns a classpath string.
func WithStdlib(jars []string, kotlinHome string) string {
	lib := filepath.Join(kotlinHome, "lib")
	all := append([]string{}, jars...)
	for _, name := range STDLIBJars {
		jar := filepath.Join(lib, name)
		if containsBasename(all, name) {
			continue
		}
		all = append(all, jar)
	}
	return ToClasspathString(all)
}

func containsBasename(jars []string, name string) bool {
	for _, j := range jars {
		if filepath.Base(j) == name {
			return true
		}
	}
	return false
}

func classpathSeparator() string {
	if runtime.GOOS == "windows" {
		return ";"
	}
	return ":"
}
