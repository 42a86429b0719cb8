package sourceset

import "sort"

// Hierarchy maps each intermediate or leaf source set name to its
// parent within the standard Kotlin Multiplatform tree. "common" is the
// root and has no parent.
type Hierarchy struct {
	parent map[string]string
}

// Standard builds the standard KMP source set hierarchy:
//
//	common
//	  |-- jvm
//	  |-- android
//	  |-- js
//	  |-- wasmJs
//	  |-- wasmWasi
//	  |-- native
//	        |-- apple
//	        |     |-- ios      -- iosArm64, iosSimulatorArm64, iosX64
//	        |     |-- macos    -- macosArm64, macosX64
//	        |     |-- tvos     -- tvosArm64, tvosSimulatorArm64
//	        |     |-- watchos  -- watchosArm64, watchosSimulatorArm64
//	        |-- linux          -- linuxX64, linuxArm64
//	        |-- mingw          -- mingwX64
//	        |-- androidNative  -- androidNativeArm64, androidNativeX64
func Standard() Hierarchy {
	parent := map[string]string{
		"jvm":      "common",
		"android":  "common",
		"js":       "common",
		"wasmJs":   "common",
		"wasmWasi": "common",
		"native":   "common",

		"apple":         "native",
		"linux":         "native",
		"mingw":         "native",
		"androidNative": "native",

		"ios":     "apple",
		"macos":   "apple",
		"tvos":    "apple",
		"watchos": "apple",

		"iosArm64":          "ios",
		"iosSimulatorArm64": "ios",
		"iosX64":            "ios",

		"macosArm64": "macos",
		"macosX64":   "macos",

		"tvosArm64":          "tvos",
		"tvosSimulatorArm64": "tvos",

		"watchosArm64":          "watchos",
		"watchosSimulatorArm64": "watchos",

		"linuxX64":   "linux",
		"linuxArm64": "linux",

		"mingwX64": "mingw",

		"androidNativeArm64": "androidNative",
		"androidNativeX64":   "androidNative",
	}
	return Hierarchy{parent: parent}
}

// AncestorsOf walks from sourceSet up to "common", returning every
// intermediate source set name from leaf to root. Unknown source sets
// yield an empty slice.
func (h Hierarchy) AncestorsOf(sourceSet string) []string {
	var ancestors []string
	current := sourceSet
	for {
		p, ok := h.parent[current]
		if !ok {
			break
		}
		ancestors = append(ancestors, p)
		current = p
	}
	return ancestors
}

// IntermediatesFor collects the deduplicated, sorted set of
// intermediate source sets needed for a set of leaf targets: the
// "<name>Main"/"<name>Test" directories the build must create.
func (h Hierarchy) IntermediatesFor(sourceSetNames []string) []string {
	seen := map[string]bool{}
	for _, name := range sourceSetNames {
		for _, ancestor := range h.AncestorsOf(name) {
			seen[ancestor] = true
		}
	}
	result := make([]string, 0, len(seen))
	for name := range seen {
		result = append(result, name)
	}
	sort.Strings(result)
	return result
}
