package annotation

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/dejanradmanovic/kargo-core/internal/artifactcache"
	"github.com/dejanradmanovic/kargo-core/internal/kargoerr"
	"github.com/dejanradmanovic/kargo-core/internal/orchestrator"
)

const kspPluginID = "com.google.devtools.ksp.symbol-processing"

// Ksp1Toolchain holds the two compiler-plugin jars a legacy (pre-2.3) KSP
// version runs as, loaded into kotlinc via -Xplugin.
type Ksp1Toolchain struct {
	CmdlineJar string
	APIJar     string
}

// EnsureKsp1Toolchain resolves the symbol-processing-cmdline and
// symbol-processing-api jars for kspVersion from the cache, returning ok
// false if either hasn't been fetched yet.
func EnsureKsp1Toolchain(cache *artifactcache.Cache, kspVersion string) (Ksp1Toolchain, bool) {
	cmdline := cache.GetJar(artifactcache.Coordinate{Group: kspGroup, Artifact: kspCmdlineArtifact, Version: kspVersion}, "")
	api := cache.GetJar(artifactcache.Coordinate{Group: kspGroup, Artifact: kspAPIArtifact, Version: kspVersion}, "")
	if cmdline == "" || api == "" {
		return Ksp1Toolchain{}, false
	}
	return Ksp1Toolchain{CmdlineJar: cmdline, APIJar: api}, true
}

// BuildKsp1Args returns the extra kotlinc arguments that load KSP as a
// compiler plugin for a KSP1-generation pre-pass. The compile output of
// this pass is discarded; only the files KSP writes under
// generatedDir/ksp matter to the caller.
func BuildKsp1Args(ctx Context, toolchain Ksp1Toolchain, generatedDir, projectDir string, options map[string]string) []string {
	kspProcs := ctx.processorsOfKind(KindKsp)
	if len(kspProcs) == 0 {
		return nil
	}

	var procJars []string
	for _, p := range kspProcs {
		coord := artifactcache.Coordinate{Group: p.Group, Artifact: p.Artifact, Version: p.Version}
		if jar := ctx.Cache.GetJar(coord, ""); jar != "" {
			procJars = append(procJars, jar)
		}
	}
	if len(procJars) == 0 {
		return nil
	}
	fullProcJars := appendUnique(procJars, ctx.ProcessorJars)
	procClasspath := orchestrator.ToClasspathString(fullProcJars)

	kspDir := filepath.Join(generatedDir, "ksp")
	kotlinOut := filepath.Join(kspDir, "kotlin")
	javaOut := filepath.Join(kspDir, "java")
	classOut := filepath.Join(kspDir, "classes")
	resourceOut := filepath.Join(kspDir, "resources")
	cachesDir := filepath.Join(kspDir, "caches")
	for _, dir := range []string{kotlinOut, javaOut, classOut, resourceOut, cachesDir} {
		_ = os.MkdirAll(dir, 0o755)
	}

	args := []string{
		"-Xplugin=" + toolchain.CmdlineJar,
		"-Xplugin=" + toolchain.APIJar,
		"-Xallow-no-source-files",
		"-P=plugin:" + kspPluginID + ":apclasspath=" + procClasspath,
		"-P=plugin:" + kspPluginID + ":projectBaseDir=" + projectDir,
		"-P=plugin:" + kspPluginID + ":kotlinOutputDir=" + kotlinOut,
		"-P=plugin:" + kspPluginID + ":javaOutputDir=" + javaOut,
		"-P=plugin:" + kspPluginID + ":classOutputDir=" + classOut,
		"-P=plugin:" + kspPluginID + ":resourceOutputDir=" + resourceOut,
		"-P=plugin:" + kspPluginID + ":kspOutputDir=" + kspDir,
		"-P=plugin:" + kspPluginID + ":cachesDir=" + cachesDir,
		"-P=plugin:" + kspPluginID + ":incremental=false",
	}

	for key, value := range options {
		args = append(args, "-P=plugin:"+kspPluginID+":apoption="+key+"="+value)
	}
	return args
}

// RunKsp1Pass invokes kotlinc with BuildKsp1Args's plugin arguments over
// ctx.Sources, discarding the compiled classes and reporting whether any
// Kotlin files were generated into generatedDir/ksp/kotlin.
func RunKsp1Pass(ctx Context, toolchain Ksp1Toolchain, kotlincBinary, generatedDir, projectDir string, options map[string]string) (bool, error) {
	args := BuildKsp1Args(ctx, toolchain, generatedDir, projectDir, options)
	if len(args) == 0 {
		return false, nil
	}

	throwaway := filepath.Join(generatedDir, "ksp", "ksp1_classes")
	if err := os.MkdirAll(throwaway, 0o755); err != nil {
		return false, kargoerr.Wrap(kargoerr.KindIO, err, "creating KSP1 throwaway output directory")
	}
	args = append(args, "-d", throwaway)

	if len(ctx.LibraryJars) > 0 {
		args = append(args, "-classpath", orchestrator.WithStdlib(ctx.LibraryJars, ctx.KotlinHome))
	}
	args = append(args, ctx.Sources...)

	cmd := exec.CommandContext(context.Background(), kotlincBinary, args...)
	var stdout, stderr strings.Builder
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	runErr := cmd.Run()

	if runErr != nil {
		stderrText := stderr.String()
		hasRealErrors := strings.Contains(stderrText, "e: ") && !strings.Contains(stderrText, "unresolved reference")
		if hasRealErrors {
			return false, kargoerr.Compilation("KSP annotation processing failed: %s", stderrText)
		}
	}

	os.RemoveAll(throwaway)

	kotlinOut := filepath.Join(generatedDir, "ksp", "kotlin")
	return dirHasKotlinFiles(kotlinOut), nil
}

func dirHasKotlinFiles(dir string) bool {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return false
	}
	for _, entry := range entries {
		if entry.IsDir() {
			if dirHasKotlinFiles(filepath.Join(dir, entry.Name())) {
				return true
			}
			continue
		}
		if strings.HasSuffix(entry.Name(), ".kt") {
			return true
		}
	}
	return false
}
