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

const kaptPluginID = "org.jetbrains.kotlin.kapt3"

// RunKaptPass runs KAPT as a pre-build step: it invokes kotlinc with the
// KAPT compiler plugin over every source that doesn't already reference
// generated code, writing generated Java sources to
// <generatedDir>/kapt/sources so the main compile picks them up as an
// extra source root. It reports whether any sources were generated.
func RunKaptPass(ctx Context) (bool, error) {
	kaptProcs := ctx.processorsOfKind(KindKapt)
	if len(kaptProcs) == 0 {
		return false, nil
	}

	var procJars []string
	for _, p := range kaptProcs {
		coord := artifactcache.Coordinate{Group: p.Group, Artifact: p.Artifact, Version: p.Version}
		if jar := ctx.Cache.GetJar(coord, ""); jar != "" {
			procJars = append(procJars, jar)
		}
	}
	if len(procJars) == 0 {
		return false, nil
	}

	kaptPluginJar := filepath.Join(ctx.KotlinHome, "lib", "kotlin-annotation-processing.jar")
	if !fileExists(kaptPluginJar) {
		return false, kargoerr.Toolchain("KAPT plugin jar not found at %s", kaptPluginJar)
	}

	fullProcCP := appendUnique(procJars, ctx.ProcessorJars)
	fullProcCP = appendUnique(fullProcCP, ctx.LibraryJars)
	procClasspath := orchestrator.ToClasspathString(fullProcCP)

	kaptDir := filepath.Join(ctx.GeneratedDir, "kapt")
	generatedSources := filepath.Join(kaptDir, "sources")
	classesDir := filepath.Join(kaptDir, "classes")
	stubsDir := filepath.Join(kaptDir, "stubs")
	for _, dir := range []string{generatedSources, classesDir, stubsDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return false, kargoerr.Wrap(kargoerr.KindIO, err, "creating KAPT directory %s", dir)
		}
	}

	args := []string{
		"-Xplugin=" + kaptPluginJar,
		"-P=plugin:" + kaptPluginID + ":apclasspath=" + procClasspath,
		"-P=plugin:" + kaptPluginID + ":sources=" + generatedSources,
		"-P=plugin:" + kaptPluginID + ":classes=" + classesDir,
		"-P=plugin:" + kaptPluginID + ":stubs=" + stubsDir,
		"-P=plugin:" + kaptPluginID + ":aptMode=stubsAndApt",
	}

	processorClasses, err := DiscoverProcessorClasses(fullProcCP)
	if err != nil {
		return false, kargoerr.Wrap(kargoerr.KindCompilation, err, "discovering KAPT processor classes")
	}
	if len(processorClasses) > 0 {
		args = append(args, "-P=plugin:"+kaptPluginID+":processors="+strings.Join(processorClasses, ","))
	}

	for _, arg := range ctx.CompilerArgs {
		if strings.Contains(arg, "Xplugin") {
			args = append(args, arg)
		}
	}

	kaptCPJars := appendUnique(append([]string{}, ctx.LibraryJars...), ctx.ProcessorJars)
	if len(kaptCPJars) > 0 {
		args = append(args, "-classpath", orchestrator.WithStdlib(kaptCPJars, ctx.KotlinHome))
	}

	throwaway := filepath.Join(kaptDir, "kapt_classes")
	if err := os.MkdirAll(throwaway, 0o755); err != nil {
		return false, kargoerr.Wrap(kargoerr.KindIO, err, "creating KAPT throwaway output directory")
	}
	args = append(args, "-d", throwaway)

	added := 0
	for _, src := range ctx.Sources {
		if !ReferencesGeneratedImports(src) {
			args = append(args, src)
			added++
		}
	}
	if added == 0 {
		return false, nil
	}

	kotlinc := filepath.Join(ctx.KotlinHome, "bin", "kotlinc")
	cmd := exec.CommandContext(context.Background(), kotlinc, args...)
	var stdout, stderr strings.Builder
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	runErr := cmd.Run()

	if runErr != nil {
		stderrText := stderr.String()
		hasRealErrors := strings.Contains(stderrText, "e: ") && !strings.Contains(stderrText, "unresolved reference")
		if hasRealErrors {
			return false, kargoerr.Compilation("KAPT annotation processing failed: %s", stderrText)
		}
	}

	os.RemoveAll(throwaway)
	os.RemoveAll(stubsDir)

	return dirHasJavaFiles(generatedSources), nil
}

func appendUnique(base, extra []string) []string {
	seen := map[string]bool{}
	for _, v := range base {
		seen[v] = true
	}
	out := append([]string{}, base...)
	for _, v := range extra {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func dirHasJavaFiles(dir string) bool {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return false
	}
	for _, entry := range entries {
		if entry.IsDir() {
			if dirHasJavaFiles(filepath.Join(dir, entry.Name())) {
				return true
			}
			continue
		}
		if strings.HasSuffix(entry.Name(), ".java") {
			return true
		}
	}
	return false
}

// ReferencesGeneratedImports is a quick heuristic check on a source file's
// first 40 lines for imports of KSP- or KAPT-generated code, so those
// files can be skipped from the pre-pass to avoid unresolved-reference
// errors for classes that don't exist yet.
func ReferencesGeneratedImports(path string) bool {
	content, err := os.ReadFile(path)
	if err != nil {
		return false
	}

	lines := strings.Split(string(content), "\n")
	if len(lines) > 40 {
		lines = lines[:40]
	}
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if !strings.HasPrefix(trimmed, "import ") {
			continue
		}
		if strings.Contains(trimmed, ".ksp.generated") || strings.Contains(trimmed, ".generated.") {
			return true
		}
		className := trimmed
		if idx := strings.LastIndex(className, "."); idx != -1 {
			className = className[idx+1:]
		}
		className = strings.TrimSuffix(className, ";")
		if strings.HasPrefix(className, "Dagger") {
			return true
		}
	}
	return false
}
