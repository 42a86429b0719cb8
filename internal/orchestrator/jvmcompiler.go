package orchestrator

import (
	"context"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/dejanradmanovic/kargo-core/internal/fingerprint"
	"github.com/dejanradmanovic/kargo-core/internal/kargoerr"
	"github.com/dejanradmanovic/kargo-core/internal/sourceset"
)

// JvmCompiler invokes kotlinc for the JVM and Android JVM targets.
type JvmCompiler struct {
	target     sourceset.KotlinTarget
	toolchain  Toolchain
	jdkHome    string
	javaTarget string
}

// NewJvmCompiler returns a JvmCompiler backend for target.
func NewJvmCompiler(target sourceset.KotlinTarget, toolchain Toolchain, jdkHome, javaTarget string) *JvmCompiler {
	return &JvmCompiler{target: target, toolchain: toolchain, jdkHome: jdkHome, javaTarget: javaTarget}
}

func (c *JvmCompiler) Target() sourceset.KotlinTarget { return c.target }

func (c *JvmCompiler) CompilerBinary(toolchain Toolchain) string {
	return toolchain.KotlincJVM
}

func (c *JvmCompiler) Compile(unit fingerprint.Unit, env BuildEnv) (CompilationOutput, error) {
	return c.invoke(unit, env, unit.OutputDir)
}

func (c *JvmCompiler) CheckOnly(unit fingerprint.Unit, env BuildEnv) (CompilationOutput, error) {
	tmpOut, err := os.MkdirTemp("", "kargo-check-*")
	if err != nil {
		return CompilationOutput{}, kargoerr.Wrap(kargoerr.KindIO, err, "creating check-only output directory")
	}
	defer os.RemoveAll(tmpOut)
	return c.invoke(unit, env, tmpOut)
}

func (c *JvmCompiler) invoke(unit fingerprint.Unit, env BuildEnv, outputDir string) (CompilationOutput, error) {
	allSources := unit.AllSources()
	if len(allSources) == 0 {
		return CompilationOutput{ClassesDir: outputDir, Success: true}, nil
	}

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return CompilationOutput{}, kargoerr.Wrap(kargoerr.KindIO, err, "creating output directory %s", outputDir)
	}

	args := []string{"-d", outputDir, "-jvm-target", c.javaTarget}
	if len(unit.Classpath) > 0 {
		args = append(args, "-classpath", ToClasspathString(unit.Classpath))
	}
	args = append(args, unit.CompilerArgs...)
	args = append(args, allSources...)

	cmd := exec.CommandContext(context.Background(), c.CompilerBinary(c.toolchain), args...)
	cmd.Env = append(os.Environ(), "JAVA_HOME="+c.jdkHome)
	cmd.Env = append(cmd.Env, env.Environ()...)

	stdout, stderr := runCaptured(cmd)
	diagnostics := parseDiagnostics(stdout, stderr)

	success := cmd.ProcessState != nil && cmd.ProcessState.Success()
	if !success && len(diagnostics) == 0 {
		raw := strings.TrimSpace(stdout + "\n" + stderr)
		if raw != "" {
			diagnostics = append(diagnostics, Diagnostic{Severity: SeverityError, Message: raw})
		}
	}

	return CompilationOutput{ClassesDir: outputDir, Success: success, Diagnostics: diagnostics}, nil
}

func runCaptured(cmd *exec.Cmd) (stdout, stderr string) {
	var outBuf, errBuf strings.Builder
	cmd.Stdout = &outBuf
	cmd.Stderr = &errBuf
	_ = cmd.Run()
	return outBuf.String(), errBuf.String()
}

func parseDiagnostics(stdout, stderr string) []Diagnostic {
	var diagnostics []Diagnostic
	combined := stdout + "\n" + stderr

	for _, line := range strings.Split(combined, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		switch {
		case strings.Contains(trimmed, ": error:"):
			diagnostics = append(diagnostics, parseDiagnosticLine(trimmed, SeverityError, ": error:"))
		case strings.Contains(trimmed, ": warning:"):
			diagnostics = append(diagnostics, parseDiagnosticLine(trimmed, SeverityWarning, ": warning:"))
		case strings.Contains(trimmed, ": info:"):
			diagnostics = append(diagnostics, parseDiagnosticLine(trimmed, SeverityInfo, ": info:"))
		}
	}
	return diagnostics
}

// parseDiagnosticLine parses kotlinc's "file.kt:line:col: severity:
// message" diagnostic format.
func parseDiagnosticLine(line string, severity DiagnosticSeverity, marker string) Diagnostic {
	parts := strings.SplitN(line, marker, 2)
	message := line
	if len(parts) == 2 {
		message = strings.TrimSpace(parts[1])
	}

	var file string
	var lineNum int
	if len(parts) > 0 {
		location := parts[0]
		segments := strings.Split(location, ":")
		if len(segments) >= 2 {
			end := len(segments) - 1
			// Step over a trailing column number in "file:line:col".
			if end >= 2 {
				_, colErr := strconv.Atoi(segments[end])
				_, lineErr := strconv.Atoi(segments[end-1])
				if colErr == nil && lineErr == nil {
					end--
				}
			}
			if n, err := strconv.Atoi(segments[end]); err == nil {
				lineNum = n
				file = strings.Join(segments[:end], ":")
			} else {
				file = location
			}
		}
	}

	return Diagnostic{Severity: severity, Message: message, File: file, Line: lineNum}
}
