package orchestrator

import (
	"testing"

	"github.com/dejanradmanovic/kargo-core/internal/fingerprint"
)

func emptyUnit() fingerprint.Unit {
	return fingerprint.Unit{Name: "main", Target: "jvm"}
}

func TestParseDiagnosticsClassifiesBySeverity(t *testing.T) {
	stdout := "Main.kt:10:5: error: unresolved reference: foo\n" +
		"Main.kt:20:1: warning: unused variable\n"
	stderr := "Util.kt:3:1: info: inlined\n"

	diags := parseDiagnostics(stdout, stderr)
	if len(diags) != 3 {
		t.Fatalf("expected 3 diagnostics, got %d: %+v", len(diags), diags)
	}

	var gotError, gotWarning, gotInfo bool
	for _, d := range diags {
		switch d.Severity {
		case SeverityError:
			gotError = true
			if d.Line != 10 {
				t.Errorf("error diagnostic line = %d, want 10", d.Line)
			}
			if d.Message != "unresolved reference: foo" {
				t.Errorf("error diagnostic message = %q", d.Message)
			}
		case SeverityWarning:
			gotWarning = true
		case SeverityInfo:
			gotInfo = true
		}
	}
	if !gotError || !gotWarning || !gotInfo {
		t.Errorf("missing a severity level among diagnostics: %+v", diags)
	}
}

func TestParseDiagnosticsIgnoresPlainOutputLines(t *testing.T) {
	diags := parseDiagnostics("compiling 3 files\n", "")
	if len(diags) != 0 {
		t.Errorf("expected no diagnostics for plain output, got %+v", diags)
	}
}

func TestJvmCompilerSkipsInvocationWithNoSources(t *testing.T) {
	compiler := NewJvmCompiler("jvm", Toolchain{KotlincJVM: "kotlinc"}, "/jdk", "17")
	unit := fingerprint.Unit{Name: "main", Target: "jvm", OutputDir: t.TempDir()}

	output, err := compiler.Compile(unit, BuildEnv{Vars: map[string]string{}})
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if !output.Success {
		t.Error("expected success for a unit with no sources")
	}
}
