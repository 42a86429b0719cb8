package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-logr/logr"

	"github.com/dejanradmanovic/kargo-core/internal/annotation"
	"github.com/dejanradmanovic/kargo-core/internal/artifactcache"
	"github.com/dejanradmanovic/kargo-core/internal/buildcache"
	"github.com/dejanradmanovic/kargo-core/internal/fingerprint"
	"github.com/dejanradmanovic/kargo-core/internal/logging"
	"github.com/dejanradmanovic/kargo-core/internal/manifest"
	"github.com/dejanradmanovic/kargo-core/internal/orchestrator"
	"github.com/dejanradmanovic/kargo-core/internal/progress"
	"github.com/dejanradmanovic/kargo-core/internal/repository"
	"github.com/dejanradmanovic/kargo-core/internal/resolver"
	"github.com/dejanradmanovic/kargo-core/internal/sourceset"
	"github.com/dejanradmanovic/kargo-core/internal/tracing"
	"github.com/dejanradmanovic/kargo-core/internal/vuln"
)

const (
	exitCompileFailure = 1
	exitVulnFound      = 3
)

var (
	manifestFile   = flag.String("manifest", "Kargo.toml", "path to the project manifest")
	targetName     = flag.String("target", "jvm", "compile target (jvm, android, js, native, ...)")
	profileName    = flag.String("profile", "debug", "build profile")
	kargoHome      = flag.String("kargo-home", defaultKargoHome(), "kargo cache and build-cache home directory")
	cacheMaxSize   = flag.String("build-cache-size", "10GiB", "build cache eviction budget")
	jobs           = flag.Int("jobs", 0, "parallel compiler jobs (0 = NumCPU)")
	logLevel       = flag.Int("verbose", 4, "level for logging output")
	enableJaeger   = flag.Bool("enable-jaeger", false, "enable tracer exports to jaeger endpoint")
	jaegerEndpoint = flag.String("jaeger-endpoint", "http://localhost:14268/api/traces", "jaeger endpoint to collect tracing data")
	scanVulns      = flag.Bool("vuln-scan", false, "query OSV.dev for known vulnerabilities in resolved dependencies")
)

func defaultKargoHome() string {
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".kargo")
	}
	return ".kargo"
}

func main() {
	flag.Parse()

	log := logging.New(*logLevel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	tp, err := tracing.InitTracerProvider(log, tracing.Options{
		EnableJaeger:   *enableJaeger,
		JaegerEndpoint: *jaegerEndpoint,
	})
	if err != nil {
		log.Error(err, "failed to initialize tracing")
		os.Exit(1)
	}
	defer tracing.Shutdown(ctx, log, tp)

	ctx, span := tracing.StartNewSpan(ctx, "main")
	defer span.End()

	m, err := manifest.LoadFile(*manifestFile)
	if err != nil {
		log.Error(err, "unable to load manifest")
		os.Exit(1)
	}
	projectRoot, err := filepath.Abs(filepath.Dir(*manifestFile))
	if err != nil {
		log.Error(err, "unable to resolve project root")
		os.Exit(1)
	}

	reporter := progress.NewBarReporter(os.Stderr)

	repos := repositoriesFor(m)
	client := repository.NewClient()
	cache := artifactcache.New(projectRoot)

	lockfilePath := filepath.Join(projectRoot, "Kargo.lock")
	lockfile, err := manifest.LoadLockfile(lockfilePath)
	if err != nil {
		lockfile = &manifest.Lockfile{}
	}

	reporter.Report(progress.Event{Stage: progress.StageResolving, Message: *manifestFile})
	result, err := resolver.Resolve(ctx, m, repos, cache, lockfile, client)
	if err != nil {
		log.Error(err, "dependency resolution failed")
		os.Exit(1)
	}
	for _, c := range result.Conflicts.Conflicts {
		log.Info("version conflict resolved", "coordinate", c.String())
	}

	newLockfile := lockfileFromResolution(result)
	lockText, err := newLockfile.String()
	if err != nil {
		log.Error(err, "failed to render lockfile")
		os.Exit(1)
	}
	if err := os.WriteFile(lockfilePath, []byte(lockText), 0o644); err != nil {
		log.Error(err, "failed to write lockfile")
		os.Exit(1)
	}

	if *scanVulns {
		if found := runVulnScan(ctx, log, newLockfile); found {
			os.Exit(exitVulnFound)
		}
	}

	target, ok := sourceset.ParseKotlinTarget(*targetName)
	if !ok {
		log.Error(nil, "unknown target", "target", *targetName)
		os.Exit(1)
	}

	discovered := sourceset.Discover(projectRoot, m)
	buildDir := filepath.Join(projectRoot, "build", string(target), *profileName)
	fpDir := fingerprint.StorageDir(projectRoot, string(target), *profileName)
	classpath := orchestrator.Assemble(newLockfile, cache)

	bCache := buildcache.New(buildcache.DefaultPath(*kargoHome), *cacheMaxSize)

	apCfg := annotation.PrePassConfig{
		Manifest:       m,
		ManifestPath:   *manifestFile,
		Cache:          cache,
		FingerprintDir: fpDir,
		KotlinHome:     os.Getenv("KOTLIN_HOME"),
		ProjectRoot:    projectRoot,
		KotlincPath:    "kotlinc",
	}

	failures := 0
	for _, ss := range discovered.MainSources {
		sources := sourceset.CollectKotlinFiles(ss.KotlinDirs)
		if len(sources) == 0 {
			continue
		}

		unit := fingerprint.Unit{
			Name:         ss.Name,
			Target:       string(target),
			Sources:      sources,
			ResourceDirs: ss.ResourceDirs,
			Classpath:    classpath.CompileJars,
			OutputDir:    filepath.Join(buildDir, ss.Name, "classes"),
		}

		reporter.Report(progress.Event{Stage: progress.StageCompiling, Message: ss.Name})
		req := orchestrator.Request{
			Manifest:      m,
			ProjectRoot:   projectRoot,
			BuildDir:      buildDir,
			Target:        target,
			Profile:       *profileName,
			KotlinVersion: m.Package.Kotlin,
			JDKHome:       os.Getenv("JAVA_HOME"),
			ToolchainDir:  filepath.Join(*kargoHome, "toolchains"),
			Jobs:          *jobs,

			FingerprintDir: fpDir,
			Cache:          bCache,
			Unit:           unit,
			APPrePass:      annotation.NewAPPrePass(apCfg),
		}

		out, err := orchestrator.Run(ctx, req)
		if err != nil {
			log.Error(err, "compilation failed", "unit", ss.Name)
			failures++
			continue
		}
		for _, diag := range out.Output.Diagnostics {
			stage := progress.StageCompiling
			if diag.Severity == orchestrator.SeverityWarning {
				stage = progress.StageWarning
			}
			reporter.Report(progress.Event{Stage: stage, Message: fmt.Sprintf("%s:%d: %s", diag.File, diag.Line, diag.Message)})
		}
	}

	if failures > 0 {
		os.Exit(exitCompileFailure)
	}
	fmt.Fprintf(os.Stderr, "build finished (%s/%s)\n", target, *profileName)
}

func repositoriesFor(m *manifest.Manifest) []repository.Repository {
	repos := []repository.Repository{repository.MavenCentral()}
	for name, entry := range m.Repositories {
		repos = append(repos, repository.New(name, entry.URL, entry.Username, entry.Password))
	}
	return repos
}

func lockfileFromResolution(result *resolver.Result) *manifest.Lockfile {
	lf := &manifest.Lockfile{Package: make([]manifest.LockedPackage, 0, len(result.Artifacts))}
	for _, a := range result.Artifacts {
		deps := make([]manifest.LockedDependencyRef, 0, len(a.Dependencies))
		for _, d := range a.Dependencies {
			deps = append(deps, manifest.LockedDependencyRef{Name: d.Artifact, Group: d.Group, Version: d.Version})
		}
		lf.Package = append(lf.Package, manifest.LockedPackage{
			Name:     a.Artifact,
			Group:    a.Group,
			Version:  a.Version,
			Scope:    a.Scope,
			Checksum: a.Checksum,
			Source:   a.Source,
			Deps:     deps,
		})
	}
	return lf
}

// runVulnScan reports every OSV.dev finding for lf's locked packages
// and returns whether any critical-severity finding was found.
func runVulnScan(ctx context.Context, log logr.Logger, lf *manifest.Lockfile) bool {
	pkgs := make([]vuln.Package, 0, len(lf.Package))
	for _, p := range lf.Package {
		pkgs = append(pkgs, vuln.Package{Group: p.Group, Artifact: p.Name, Version: p.Version})
	}

	scanner := vuln.NewScanner()
	findings, err := scanner.Scan(ctx, pkgs)
	if err != nil {
		log.Error(err, "vulnerability scan failed")
		return false
	}

	foundCritical := false
	for _, f := range findings {
		log.Info("vulnerability found", "id", f.ID, "package", f.Package.Group+":"+f.Package.Artifact, "severity", string(f.Severity), "summary", f.Summary)
		if f.Severity == vuln.SeverityCritical {
			foundCritical = true
		}
	}
	return foundCritical
}
