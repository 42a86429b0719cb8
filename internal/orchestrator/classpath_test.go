package orchestrator

import (
	"path/filepath"
	"testing"

	"github.com/dejanradmanovic/kargo-core/internal/artifactcache"
	"github.com/dejanradmanovic/kargo-core/internal/manifest"
)

func TestAssembleBucketsByScope(t *testing.T) {
	tmp := t.TempDir()
	cache := artifactcache.New(tmp)

	put := func(group, artifact, version string) {
		_, err := cache.PutJar(artifactcache.Coordinate{Group: group, Artifact: artifact, Version: version}, "", []byte("jar"))
		if err != nil {
			t.Fatalf("PutJar: %v", err)
		}
	}
	put("org.example", "compilelib", "1.0")
	put("org.example", "testlib", "1.0")
	put("org.example", "kspprocessor", "1.0")

	lock := &manifest.Lockfile{Package: []manifest.LockedPackage{
		{Name: "compilelib", Group: "org.example", Version: "1.0", Scope: "compile"},
		{Name: "testlib", Group: "org.example", Version: "1.0", Scope: "test"},
		{Name: "kspprocessor", Group: "org.example", Version: "1.0", Scope: "ksp"},
	}}

	cp := Assemble(lock, cache)

	if len(cp.CompileJars) != 1 || filepath.Base(cp.CompileJars[0]) == "" {
		t.Fatalf("expected exactly one compile jar, got %v", cp.CompileJars)
	}
	if len(cp.ProcessorJars) != 1 {
		t.Fatalf("expected exactly one processor jar, got %v", cp.ProcessorJars)
	}
	if len(cp.TestJars) != 2 {
		t.Fatalf("expected test jars to include compile+test, got %v", cp.TestJars)
	}
}

func TestToClasspathStringJoinsWithSeparator(t *testing.T) {
	jars := []string{"/a/b.jar", "/c/d.jar"}
	s := ToClasspathString(jars)
	if s != "/a/b.jar"+classpathSeparator()+"/c/d.jar" {
		t.Errorf("unexpected classpath string: %q", s)
	}
}
