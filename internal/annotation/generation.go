package annotation

import (
	"os"
	"path/filepath"
	"strings"

	goversion "github.com/hashicorp/go-version"

	"github.com/dejanradmanovic/kargo-core/internal/artifactcache"
	"github.com/dejanradmanovic/kargo-core/internal/manifest"
)

const (
	kspGroup              = "com.google.devtools.ksp"
	kspAPIArtifact        = "symbol-processing-api"
	kspCmdlineArtifact    = "symbol-processing-cmdline"
	kspAAArtifact         = "symbol-processing-aa"
	kspCommonDepsArtifact = "symbol-processing-common-deps"

	intellijCoroutinesGroup    = "org.jetbrains.intellij.deps.kotlinx"
	intellijCoroutinesArtifact = "kotlinx-coroutines-core-jvm"

	// intellijCoroutinesDefaultVersion is used when the symbol-processing-aa
	// POM can't be read to discover the coroutines version it depends on.
	intellijCoroutinesDefaultVersion = "1.8.0-intellij-14"
)

// ResolveKspVersion determines which KSP version governs plugin selection:
// an explicit package.ksp-version wins, otherwise it falls back to the
// project's Kotlin compiler version, mirroring resolve_ksp_version.
func ResolveKspVersion(m *manifest.Manifest) string {
	if m.Package.KspVersion != "" {
		return m.Package.KspVersion
	}
	return m.Package.Kotlin
}

// IsStandalone reports whether version names the KSP2 standalone plugin
// format rather than the legacy KSP1 compiler-plugin format.
//
// KSP1 versions carry a "-" separator (kotlinVersion-kspVersion, e.g.
// "2.2.21-2.0.5"). KSP2 versions are bare (e.g. "2.3.0") and standalone
// from 2.3.0 onward.
func IsStandalone(version string) bool {
	if strings.Contains(version, "-") {
		return false
	}
	v, err := goversion.NewVersion(version)
	if err != nil {
		return false
	}
	segments := v.Segments()
	if len(segments) < 2 {
		return false
	}
	major, minor := segments[0], segments[1]
	return major > 2 || (major == 2 && minor >= 3)
}

// AutoProvisionedJars returns the (group, artifact, version) coordinates of
// every KSP toolchain jar that DetectProcessors's resolver does not track,
// so the cache pruner never reclaims them out from under a running build.
func AutoProvisionedJars(kspVersion string, cache *artifactcache.Cache) []artifactcache.Coordinate {
	if kspVersion == "" {
		return nil
	}

	if IsStandalone(kspVersion) {
		return []artifactcache.Coordinate{
			{Group: kspGroup, Artifact: kspAAArtifact, Version: kspVersion},
			{Group: kspGroup, Artifact: kspAPIArtifact, Version: kspVersion},
			{Group: kspGroup, Artifact: kspCommonDepsArtifact, Version: kspVersion},
			{Group: intellijCoroutinesGroup, Artifact: intellijCoroutinesArtifact, Version: resolveCoroutinesVersion(kspVersion, cache)},
		}
	}

	return []artifactcache.Coordinate{
		{Group: kspGroup, Artifact: kspCmdlineArtifact, Version: kspVersion},
		{Group: kspGroup, Artifact: kspAPIArtifact, Version: kspVersion},
	}
}

// resolveCoroutinesVersion reads the cached symbol-processing-aa POM to find
// the IntelliJ coroutines runtime version KSP2 was built against, falling
// back to a known-good default when the POM isn't cached yet.
func resolveCoroutinesVersion(kspVersion string, cache *artifactcache.Cache) string {
	coord := artifactcache.Coordinate{Group: kspGroup, Artifact: kspAAArtifact, Version: kspVersion}
	pomPath := filepath.Join(cache.ArtifactDir(coord), kspAAArtifact+"-"+kspVersion+".pom")
	content, err := os.ReadFile(pomPath)
	if err != nil {
		return intellijCoroutinesDefaultVersion
	}
	if v, ok := extractPomDepVersion(string(content), intellijCoroutinesGroup, intellijCoroutinesArtifact); ok {
		return v
	}
	return intellijCoroutinesDefaultVersion
}

// extractPomDepVersion scans pomXML for a <dependency> block naming group
// and artifact and returns its <version> text.
func extractPomDepVersion(pomXML, group, artifact string) (string, bool) {
	groupTag := "<groupId>" + group + "</groupId>"
	artifactTag := "<artifactId>" + artifact + "</artifactId>"

	for _, chunk := range strings.Split(pomXML, "<dependency>") {
		if !strings.Contains(chunk, groupTag) || !strings.Contains(chunk, artifactTag) {
			continue
		}
		start := strings.Index(chunk, "<version>")
		if start == -1 {
			continue
		}
		rest := chunk[start+len("<version>"):]
		end := strings.Index(rest, "</version>")
		if end == -1 {
			continue
		}
		return rest[:end], true
	}
	return "", false
}
