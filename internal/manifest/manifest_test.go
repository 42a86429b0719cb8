package manifest

import "testing"

const sampleToml = `
[package]
name = "test"
version = "0.1.0"
kotlin = "2.3.0"

[dependencies]
coroutines = "org.jetbrains.kotlinx:kotlinx-coroutines-core:1.8.0"
retrofit = { group = "com.squareup.retrofit2", artifact = "retrofit", version = "2.11.0", scope = "compile" }

[repositories]
nexus = { url = "https://nexus.example.com/maven", username = "user", password = "pass" }
`

func TestParseStringBasicFields(t *testing.T) {
	m, err := ParseString(sampleToml)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if m.Package.Name != "test" || m.Package.Kotlin != "2.3.0" {
		t.Fatalf("unexpected package metadata: %+v", m.Package)
	}
}

func TestParseStringShortDependency(t *testing.T) {
	m, err := ParseString(sampleToml)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	dep, ok := m.Dependencies["coroutines"]
	if !ok || dep.Kind != KindShort {
		t.Fatalf("expected a short dependency, got %+v", dep)
	}
	coord, ok := ParseMavenCoordinate(dep.Short)
	if !ok || coord.ArtifactID != "kotlinx-coroutines-core" {
		t.Fatalf("unexpected coordinate: %+v", coord)
	}
}

func TestParseStringDetailedDependency(t *testing.T) {
	m, err := ParseString(sampleToml)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	dep, ok := m.Dependencies["retrofit"]
	if !ok || dep.Kind != KindDetailed {
		t.Fatalf("expected a detailed dependency, got %+v", dep)
	}
	if dep.Detailed.Group != "com.squareup.retrofit2" || dep.Detailed.Version != "2.11.0" {
		t.Fatalf("unexpected detailed dependency: %+v", dep.Detailed)
	}
}

func TestParseStringRepositoryWithAuth(t *testing.T) {
	m, err := ParseString(sampleToml)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	repo, ok := m.Repositories["nexus"]
	if !ok || repo.Username != "user" || repo.Password != "pass" {
		t.Fatalf("unexpected repository entry: %+v", repo)
	}
}

func TestResolveCoordinateShort(t *testing.T) {
	m, err := ParseString(sampleToml)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	coord, ok := ResolveCoordinate(m.Dependencies["coroutines"], m)
	if !ok {
		t.Fatal("expected coordinate resolution to succeed")
	}
	if coord.GroupID != "org.jetbrains.kotlinx" || coord.Version != "1.8.0" {
		t.Fatalf("unexpected coordinate: %+v", coord)
	}
}

func TestInterpolateEnvPrefersOverrides(t *testing.T) {
	got := InterpolateEnv("token=${env:NEXUS_TOKEN}", map[string]string{"NEXUS_TOKEN": "secret"})
	if got != "token=secret" {
		t.Fatalf("expected token=secret, got %q", got)
	}
}

func TestLockfileIsUpToDate(t *testing.T) {
	lf := &Lockfile{Package: []LockedPackage{
		{Name: "kotlinx-coroutines-core", Group: "org.jetbrains.kotlinx", Version: "1.8.0"},
	}}
	declared := []MavenCoordinate{{GroupID: "org.jetbrains.kotlinx", ArtifactID: "kotlinx-coroutines-core", Version: "1.8.0"}}
	if !lf.IsUpToDate(declared) {
		t.Fatal("expected lockfile to be up to date")
	}

	stale := []MavenCoordinate{{GroupID: "org.jetbrains.kotlinx", ArtifactID: "kotlinx-coroutines-core", Version: "1.9.0"}}
	if lf.IsUpToDate(stale) {
		t.Fatal("expected lockfile to be stale for a version mismatch")
	}
}

func TestLockedVersionLookup(t *testing.T) {
	lf := &Lockfile{Package: []LockedPackage{
		{Name: "kotlinx-coroutines-core", Group: "org.jetbrains.kotlinx", Version: "1.8.0"},
	}}
	version, ok := lf.LockedVersion("org.jetbrains.kotlinx", "kotlinx-coroutines-core")
	if !ok || version != "1.8.0" {
		t.Fatalf("expected 1.8.0, got %q ok=%v", version, ok)
	}
}
