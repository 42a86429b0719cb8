// Package orchestrator drives the build pipeline for one compilation
// unit: build-environment assembly, annotation-processing pre-pass,
// fingerprint-gated compilation with build-cache restore-or-compile,
// and optional packaging. The pre-pass, compile and package stages each
// run inside their own OpenTelemetry span under a root "compile" span.
// Run does not generate a BuildConfig source; RenderBuildConfig is a
// separate helper that Run never calls.
package orchestrator

import (
	"context"
	"runtime"

	"github.com/dejanradmanovic/kargo-core/internal/buildcache"
	"github.com/dejanradmanovic/kargo-core/internal/fingerprint"
	"github.com/dejanradmanovic/kargo-core/internal/kargoerr"
	"github.com/dejanradmanovic/kargo-core/internal/manifest"
	"github.com/dejanradmanovic/kargo-core/internal/sourceset"
	"github.com/dejanradmanovic/kargo-core/internal/tracing"
)

// Request describes one compilation pipeline invocation for a single
// unit.
type Request struct {
	Manifest      *manifest.Manifest
	ProjectRoot   string
	BuildDir      string
	Target        sourceset.KotlinTarget
	Profile       string
	KotlinVersion string
	JavaTarget    string
	JDKHome       string
	ToolchainDir  string
	Toolchain     Toolchain
	Jobs          int

	FingerprintDir string
	Cache          *buildcache.Cache
	Unit           fingerprint.Unit

	// APPrePass runs the annotation-processing pre-pass, returning an
	// updated unit with any extra generated-source directories and
	// processor JARs it produced. When nil, no pre-pass runs.
	APPrePass func(ctx context.Context, unit fingerprint.Unit) (fingerprint.Unit, error)
	// Package, when set, packages the compiled output (e.g. into a
	// JAR) after a successful compile-or-restore.
	Package func(ctx context.Context, classesDir string) error
}

// Result is the outcome of running the pipeline for a Request.
type Result struct {
	Output      CompilationOutput
	FromCache   bool
	Fingerprint fingerprint.Fingerprint
}

// Run executes the pipeline for req.
func Run(ctx context.Context, req Request) (Result, error) {
	ctx, rootSpan := tracing.StartNewSpan(ctx, "compile")
	defer rootSpan.End()

	jobs := req.Jobs
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}
	env := NewBuildEnv(req.Manifest, req.ProjectRoot, req.BuildDir, string(req.Target), req.Profile, req.KotlinVersion, req.ToolchainDir, jobs)

	unit, err := runAPPrePass(ctx, req, req.Unit)
	if err != nil {
		return Result{}, err
	}

	decision := fingerprint.Check(unit, req.FingerprintDir, req.KotlinVersion)
	if decision.UpToDate {
		return Result{Output: CompilationOutput{ClassesDir: unit.OutputDir, Success: true}, FromCache: true}, nil
	}

	if req.Cache != nil {
		if restored, err := req.Cache.Restore(decision.Fingerprint, unit.OutputDir); err == nil && restored {
			if err := fingerprint.MarkComplete(req.FingerprintDir, unit, decision.Fingerprint); err != nil {
				return Result{}, err
			}
			result := Result{Output: CompilationOutput{ClassesDir: unit.OutputDir, Success: true}, FromCache: true, Fingerprint: decision.Fingerprint}
			if req.Package != nil {
				if err := runPackageStage(ctx, req, unit.OutputDir); err != nil {
					return result, err
				}
			}
			return result, nil
		}
	}

	output, err := runCompileStage(ctx, req, unit, env)
	if err != nil {
		return Result{}, err
	}
	if !output.Success {
		return Result{Output: output}, kargoerr.Compilation("compilation of %s failed with %d diagnostic(s)", unit.Name, len(output.Diagnostics))
	}

	if err := fingerprint.MarkComplete(req.FingerprintDir, unit, decision.Fingerprint); err != nil {
		return Result{}, err
	}
	if req.Cache != nil {
		_ = req.Cache.Put(decision.Fingerprint, unit.OutputDir)
	}

	result := Result{Output: output, Fingerprint: decision.Fingerprint}
	if req.Package != nil {
		if err := runPackageStage(ctx, req, unit.OutputDir); err != nil {
			return result, err
		}
	}
	return result, nil
}

func runAPPrePass(ctx context.Context, req Request, unit fingerprint.Unit) (fingerprint.Unit, error) {
	if req.APPrePass == nil {
		return unit, nil
	}
	apCtx, span := tracing.StartNewSpan(ctx, "ap")
	defer span.End()
	updated, err := req.APPrePass(apCtx, unit)
	if err != nil {
		return unit, kargoerr.Wrap(kargoerr.KindCompilation, err, "annotation processing pre-pass for %s", unit.Name)
	}
	return updated, nil
}

func runCompileStage(ctx context.Context, req Request, unit fingerprint.Unit, env BuildEnv) (CompilationOutput, error) {
	compileCtx, span := tracing.StartNewSpan(ctx, "compile")
	defer span.End()

	backend := (CompilerDispatch{}).Resolve(req.Target, req.Toolchain, req.JDKHome, req.JavaTarget)
	output, err := backend.Compile(unit, env)
	if err != nil {
		return CompilationOutput{}, kargoerr.Wrap(kargoerr.KindCompilation, err, "compiling unit %s", unit.Name)
	}
	_ = compileCtx
	return output, nil
}

func runPackageStage(ctx context.Context, req Request, classesDir string) error {
	pkgCtx, span := tracing.StartNewSpan(ctx, "package")
	defer span.End()
	if err := req.Package(pkgCtx, classesDir); err != nil {
		return kargoerr.Wrap(kargoerr.KindCompilation, err, "packaging %s", classesDir)
	}
	return nil
}
