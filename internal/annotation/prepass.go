package annotation

import (
	gocontext "context"
	"path/filepath"

	"github.com/dejanradmanovic/kargo-core/internal/artifactcache"
	"github.com/dejanradmanovic/kargo-core/internal/fingerprint"
	"github.com/dejanradmanovic/kargo-core/internal/manifest"
)

// PrePassConfig carries the pieces of build state NewAPPrePass closes
// over, everything the orchestrator's injected APPrePass hook needs but
// that isn't part of a single fingerprint.Unit.
type PrePassConfig struct {
	Manifest       *manifest.Manifest
	ManifestPath   string
	Cache          *artifactcache.Cache
	FingerprintDir string
	KotlinHome     string
	ProjectRoot    string
	KotlincPath    string
}

// NewAPPrePass builds the orchestrator.Request.APPrePass hook: it runs
// legacy KSP1 and KAPT passes ahead of the main compile and folds any
// generated sources and processor jars into the returned unit. KSP2's
// standalone toolchain (2.3.0+) is detected but not auto-provisioned or
// invoked here; see the package doc comment on that gap.
func NewAPPrePass(cfg PrePassConfig) func(gocontext.Context, fingerprint.Unit) (fingerprint.Unit, error) {
	return func(_ gocontext.Context, unit fingerprint.Unit) (fingerprint.Unit, error) {
		processors := DetectProcessors(cfg.Manifest)
		if len(processors) == 0 {
			return unit, nil
		}

		var processorJars []string
		for _, p := range processors {
			coord := artifactcache.Coordinate{Group: p.Group, Artifact: p.Artifact, Version: p.Version}
			if jar := cfg.Cache.GetJar(coord, ""); jar != "" {
				processorJars = append(processorJars, jar)
			}
		}

		generatedDir := filepath.Join(filepath.Dir(unit.OutputDir), "generated", unit.Name)

		if ShouldSkip(cfg.FingerprintDir, unit.Name, unit.Sources, processorJars, cfg.ManifestPath) {
			return withGeneratedDirs(unit, generatedDir), nil
		}

		ac := Context{
			Processors:    processors,
			Cache:         cfg.Cache,
			Sources:       unit.Sources,
			ProcessorJars: processorJars,
			LibraryJars:   unit.Classpath,
			KotlinHome:    cfg.KotlinHome,
			GeneratedDir:  generatedDir,
			CompilerArgs:  unit.CompilerArgs,
		}

		kspVersion := ResolveKspVersion(cfg.Manifest)
		if kspVersion != "" && !IsStandalone(kspVersion) {
			if toolchain, ok := EnsureKsp1Toolchain(cfg.Cache, kspVersion); ok {
				if _, err := RunKsp1Pass(ac, toolchain, cfg.KotlincPath, generatedDir, cfg.ProjectRoot, nil); err != nil {
					return unit, err
				}
			}
		}

		if _, err := RunKaptPass(ac); err != nil {
			return unit, err
		}

		if err := MarkRan(cfg.FingerprintDir, unit.Name, unit.Sources, processorJars, cfg.ManifestPath); err != nil {
			return unit, err
		}

		return withGeneratedDirs(unit, generatedDir), nil
	}
}

func withGeneratedDirs(unit fingerprint.Unit, generatedDir string) fingerprint.Unit {
	dirs := generatedSourceDirs(generatedDir)
	if len(dirs) == 0 {
		return unit
	}
	updated := unit
	updated.GeneratedSources = append(append([]string{}, unit.GeneratedSources...), dirs...)
	return updated
}
