package orchestrator

import (
	"path/filepath"
	"strconv"
	"strings"

	"github.com/dejanradmanovic/kargo-core/internal/manifest"
)

// BuildEnv is the set of KARGO_* environment variables passed to the
// compiler toolchain and to lifecycle hooks, per the standardized
// build-environment contract.
type BuildEnv struct {
	Vars map[string]string
}

// NewBuildEnv builds the base environment variable set for a
// compilation of targetName under profile.
func NewBuildEnv(m *manifest.Manifest, projectRoot, buildDir, targetName, profile, kotlinVersion, toolchainDir string, jobs int) BuildEnv {
	vars := map[string]string{
		"KARGO_MANIFEST_DIR":  projectRoot,
		"KARGO_PKG_NAME":      m.Package.Name,
		"KARGO_PKG_VERSION":   m.Package.Version,
		"KARGO_BUILD_DIR":     buildDir,
		"KARGO_TARGET":        targetName,
		"KARGO_PROFILE":       profile,
		"KARGO_JOBS":          strconv.Itoa(jobs),
		"KARGO_KOTLIN_VERSION": kotlinVersion,
		"KARGO_TOOLCHAIN_DIR": toolchainDir,
	}

	if major, rest, ok := strings.Cut(m.Package.Version, "."); ok {
		vars["KARGO_PKG_VERSION_MAJOR"] = major
		if minor, patch, ok := strings.Cut(rest, "."); ok {
			vars["KARGO_PKG_VERSION_MINOR"] = minor
			vars["KARGO_PKG_VERSION_PATCH"] = patch
		}
	}

	if m.Package.Description != "" {
		vars["KARGO_PKG_DESCRIPTION"] = m.Package.Description
	}
	if len(m.Package.Authors) > 0 {
		vars["KARGO_PKG_AUTHORS"] = strings.Join(m.Package.Authors, ", ")
	}
	if m.Package.Repository != "" {
		vars["KARGO_PKG_REPOSITORY"] = m.Package.Repository
	}

	return BuildEnv{Vars: vars}
}

// SetVariant records the resolved product-flavor variant and its
// per-dimension values as KARGO_VARIANT / KARGO_FLAVOR_<DIM> entries.
func (e BuildEnv) SetVariant(variantName string, flavorValues map[string]string) {
	e.Vars["KARGO_VARIANT"] = variantName
	for dimension, value := range flavorValues {
		e.Vars["KARGO_FLAVOR_"+strings.ToUpper(dimension)] = value
	}
}

// SetBuildConfig records generated build-config entries as
// KARGO_BUILD_CONFIG_<KEY> environment variables.
func (e BuildEnv) SetBuildConfig(entries map[string]string) {
	for key, value := range entries {
		e.Vars["KARGO_BUILD_CONFIG_"+key] = value
	}
}

// Environ returns the variable set formatted as KEY=VALUE pairs
// suitable for exec.Cmd.Env.
func (e BuildEnv) Environ() []string {
	out := make([]string, 0, len(e.Vars))
	for k, v := range e.Vars {
		out = append(out, k+"="+v)
	}
	return out
}

// CacheDir returns the local dependency cache directory under the
// project root.
func CacheDir(projectRoot string) string {
	return filepath.Join(projectRoot, ".kargo", "dependencies")
}
