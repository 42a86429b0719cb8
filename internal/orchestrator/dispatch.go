package orchestrator

import (
	"fmt"

	"github.com/dejanradmanovic/kargo-core/internal/fingerprint"
	"github.com/dejanradmanovic/kargo-core/internal/sourceset"
)

// TargetCompiler is implemented by each target-specific compiler
// backend. Adding a new target requires only a new implementor and a
// registration in CompilerDispatch.Resolve; the orchestration pipeline
// never branches on target itself.
type TargetCompiler interface {
	Compile(unit fingerprint.Unit, env BuildEnv) (CompilationOutput, error)
	CheckOnly(unit fingerprint.Unit, env BuildEnv) (CompilationOutput, error)
	Target() sourceset.KotlinTarget
	CompilerBinary(toolchain Toolchain) string
}

// Toolchain is the set of resolved compiler binary locations used by a
// target backend.
type Toolchain struct {
	KotlincJVM    string
	KotlincJS     string
	KotlincNative string
}

// CompilerDispatch resolves the TargetCompiler backend for a given
// target.
type CompilerDispatch struct{}

// Resolve returns the compiler backend appropriate for target.
func (CompilerDispatch) Resolve(target sourceset.KotlinTarget, toolchain Toolchain, jdkHome, javaTarget string) TargetCompiler {
	switch target {
	case sourceset.TargetJvm, sourceset.TargetAndroid:
		return NewJvmCompiler(target, toolchain, jdkHome, javaTarget)
	default:
		return UnsupportedCompiler{target: target}
	}
}

// UnsupportedCompiler is the backend for targets with no compiler
// support yet, such as JS and the native Kotlin/Native family.
type UnsupportedCompiler struct {
	target sourceset.KotlinTarget
}

func (u UnsupportedCompiler) Compile(fingerprint.Unit, BuildEnv) (CompilationOutput, error) {
	return CompilationOutput{}, fmt.Errorf("compilation for target %s is not yet supported; JVM builds are available", u.target)
}

func (u UnsupportedCompiler) CheckOnly(fingerprint.Unit, BuildEnv) (CompilationOutput, error) {
	return CompilationOutput{}, fmt.Errorf("type-checking for target %s is not yet supported; JVM builds are available", u.target)
}

func (u UnsupportedCompiler) Target() sourceset.KotlinTarget { return u.target }

func (u UnsupportedCompiler) CompilerBinary(Toolchain) string { return "unsupported" }
