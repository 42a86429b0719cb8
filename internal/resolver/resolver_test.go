package resolver

import (
	"testing"

	"github.com/dejanradmanovic/kargo-core/internal/manifest"
)

func TestScopePropagation(t *testing.T) {
	cases := []struct{ parent, dep, want string }{
		{"compile", "compile", "compile"},
		{"compile", "runtime", "runtime"},
		{"runtime", "compile", "runtime"},
		{"test", "compile", "test"},
		{"compile", "provided", "provided"},
	}
	for _, c := range cases {
		if got := PropagateScope(c.parent, c.dep); got != c.want {
			t.Errorf("PropagateScope(%q, %q) = %q, want %q", c.parent, c.dep, got, c.want)
		}
	}
}

func TestResolveShortDep(t *testing.T) {
	dep := manifest.Dependency{Kind: manifest.KindShort, Short: "org.jetbrains.kotlinx:kotlinx-coroutines-core:1.8.0"}
	m, err := manifest.ParseString(`
[package]
name = "test"
version = "0.1.0"
kotlin = "2.3.0"
`)
	if err != nil {
		t.Fatalf("parse manifest: %v", err)
	}

	coord, ok := manifest.ResolveCoordinate(dep, m)
	if !ok {
		t.Fatal("expected coordinate to resolve")
	}
	if coord.GroupID != "org.jetbrains.kotlinx" {
		t.Errorf("GroupID = %q", coord.GroupID)
	}
	if coord.ArtifactID != "kotlinx-coroutines-core" {
		t.Errorf("ArtifactID = %q", coord.ArtifactID)
	}
	if coord.Version != "1.8.0" {
		t.Errorf("Version = %q", coord.Version)
	}
}

func TestLockIndexLookup(t *testing.T) {
	lockfile := &manifest.Lockfile{
		Package: []manifest.LockedPackage{
			{Name: "kotlinx-coroutines-core", Group: "org.jetbrains.kotlinx", Version: "1.8.0"},
		},
	}

	idx := BuildLockIndex(lockfile)
	if got, ok := idx["org.jetbrains.kotlinx:kotlinx-coroutines-core"]; !ok || got != "1.8.0" {
		t.Fatalf("expected locked version 1.8.0, got %q (ok=%v)", got, ok)
	}
}

func TestBuildReposIncludesCentral(t *testing.T) {
	m, err := manifest.ParseString(`
[package]
name = "test"
version = "0.1.0"
kotlin = "2.3.0"
`)
	if err != nil {
		t.Fatalf("parse manifest: %v", err)
	}

	repos := BuildRepos(m)
	if len(repos) == 0 {
		t.Fatal("expected at least one repository")
	}
	found := false
	for _, r := range repos {
		if containsSubstr(r.URL, "maven.apache.org") {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected Maven Central in repo list, got %+v", repos)
	}
}

func TestComputeStaleKeysMarksChangedSubtree(t *testing.T) {
	lockfile := &manifest.Lockfile{
		Package: []manifest.LockedPackage{
			{
				Name: "retrofit", Group: "com.squareup.retrofit2", Version: "2.9.0",
				Deps: []manifest.LockedDependencyRef{
					{Name: "okhttp", Group: "com.squareup.okhttp3", Version: "4.9.0"},
				},
			},
			{Name: "okhttp", Group: "com.squareup.okhttp3", Version: "4.9.0"},
		},
	}

	declared := []manifest.MavenCoordinate{
		{GroupID: "com.squareup.retrofit2", ArtifactID: "retrofit", Version: "2.11.0"},
	}

	stale := ComputeStaleKeys(declared, lockfile)
	if !stale["com.squareup.retrofit2:retrofit"] {
		t.Error("expected changed direct dependency to be stale")
	}
	if !stale["com.squareup.okhttp3:okhttp"] {
		t.Error("expected transitive dependency of a stale package to be stale")
	}
}

func containsSubstr(haystack, needle string) bool {
	for i := 0; i+len(needle) <= len(haystack); i++ {
		if haystack[i:i+len(needle)] == needle {
			return true
		}
	}
	return false
}
