// Package annotation drives KSP and KAPT annotation processing: detecting
// configured processors, running the legacy KSP1/KAPT kotlinc-plugin
// pre-pass, discovering processor service classes inside compiled jars,
// and skipping the pre-pass entirely when nothing relevant has changed
// since the last run.
//
// KSP2 (2.3.0+) is detected by IsStandalone but its standalone toolchain
// is not auto-provisioned here: fetching it means downloading a GitHub
// Releases zip archive rather than a Maven artifact, which doesn't fit
// this package's Maven-shaped cache and repository client. For a project
// pinned to KSP2, NewAPPrePass runs no KSP pass at all; a configured KAPT
// pass still runs.
package annotation

import (
	"sort"

	"github.com/dejanradmanovic/kargo-core/internal/manifest"
)

// ProcessorKind distinguishes the two annotation-processing backends a
// Kargo.toml entry can name.
type ProcessorKind int

const (
	KindKsp ProcessorKind = iota
	KindKapt
)

func (k ProcessorKind) String() string {
	if k == KindKsp {
		return "ksp"
	}
	return "kapt"
}

// ProcessorInfo is one configured annotation processor, resolved to a
// concrete Maven coordinate.
type ProcessorInfo struct {
	Name     string
	Group    string
	Artifact string
	Version  string
	Kind     ProcessorKind
}

// Coordinate returns the processor's Maven coordinate.
func (p ProcessorInfo) Coordinate() manifest.MavenCoordinate {
	return manifest.MavenCoordinate{GroupID: p.Group, ArtifactID: p.Artifact, Version: p.Version}
}

// DetectProcessors resolves every [ksp] and [kapt] entry in m to a
// ProcessorInfo, sorted by name so callers get a stable processing order.
func DetectProcessors(m *manifest.Manifest) []ProcessorInfo {
	var infos []ProcessorInfo
	infos = append(infos, resolveEntries(m, m.Ksp, KindKsp)...)
	infos = append(infos, resolveEntries(m, m.Kapt, KindKapt)...)

	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })
	return infos
}

func resolveEntries(m *manifest.Manifest, entries map[string]manifest.Dependency, kind ProcessorKind) []ProcessorInfo {
	var infos []ProcessorInfo
	for name, dep := range entries {
		coord, ok := manifest.ResolveCoordinate(dep, m)
		if !ok {
			continue
		}
		infos = append(infos, ProcessorInfo{
			Name:     name,
			Group:    coord.GroupID,
			Artifact: coord.ArtifactID,
			Version:  coord.Version,
			Kind:     kind,
		})
	}
	return infos
}

// HasProcessors reports whether the manifest configures any annotation
// processor at all, letting callers skip the AP pre-pass entirely.
func HasProcessors(m *manifest.Manifest) bool {
	return len(m.Ksp) > 0 || len(m.Kapt) > 0
}
