package sourceset

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/dejanradmanovic/kargo-core/internal/manifest"
)

// Discovered holds a project's discovered source sets, split into main
// and test groups.
type Discovered struct {
	MainSources []SourceSet
	TestSources []SourceSet
}

// Discover finds a project's Kotlin source sets from its manifest and
// on-disk layout. When at most one target is declared and no
// commonMain directory exists, the simple src/main/kotlin layout is
// used; otherwise the KMP layout (src/commonMain/kotlin,
// src/<target>Main/kotlin, ...) is assumed.
func Discover(projectRoot string, m *manifest.Manifest) Discovered {
	src := filepath.Join(projectRoot, "src")

	isMultiplatform := len(m.Targets) > 1
	if !isMultiplatform {
		if info, err := os.Stat(filepath.Join(src, "commonMain")); err == nil && info.IsDir() {
			isMultiplatform = true
		}
	}

	if isMultiplatform {
		return discoverKMP(src, m)
	}
	return discoverSingleTarget(src)
}

func discoverSingleTarget(src string) Discovered {
	main := New("main", src)
	test := New("test", src).WithDependsOn("main")

	return Discovered{
		MainSources: []SourceSet{main},
		TestSources: []SourceSet{test},
	}
}

func discoverKMP(src string, m *manifest.Manifest) Discovered {
	var mainSources, testSources []SourceSet

	mainSources = append(mainSources, New("commonMain", src))
	testSources = append(testSources, New("commonTest", src).WithDependsOn("commonMain"))

	keys := make([]string, 0, len(m.Targets))
	for k := range m.Targets {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		target, ok := ParseKotlinTarget(key)
		if !ok {
			continue
		}
		name := target.SourceSetName()

		targetMain := New(name+"Main", src).WithDependsOn("commonMain")
		targetTest := New(name+"Test", src).
			WithDependsOn("commonTest").
			WithDependsOn(name + "Main")

		mainSources = append(mainSources, targetMain)
		testSources = append(testSources, targetTest)
	}

	return Discovered{MainSources: mainSources, TestSources: testSources}
}

// CollectKotlinFiles recursively collects every .kt and .java file
// under dirs, in sorted order.
func CollectKotlinFiles(dirs []string) []string {
	var files []string
	for _, dir := range dirs {
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			collectFilesRecursive(dir, &files)
		}
	}
	sort.Strings(files)
	return files
}

func collectFilesRecursive(dir string, out *[]string) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return
	}
	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())
		if entry.IsDir() {
			collectFilesRecursive(path, out)
			continue
		}
		ext := filepath.Ext(path)
		if ext == ".kt" || ext == ".java" {
			*out = append(*out, path)
		}
	}
}
