package repository

import "testing"

func TestCoordinatePathReplacesDots(t *testing.T) {
	got := CoordinatePath("org.jetbrains.kotlinx", "kotlinx-coroutines-core", "1.8.0")
	want := "org/jetbrains/kotlinx/kotlinx-coroutines-core/1.8.0"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestPomURLFormat(t *testing.T) {
	repo := MavenCentral()
	got := repo.PomURL("org.jetbrains.kotlinx", "kotlinx-coroutines-core", "1.8.0")
	want := "https://repo.maven.apache.org/maven2/org/jetbrains/kotlinx/kotlinx-coroutines-core/1.8.0/kotlinx-coroutines-core-1.8.0.pom"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestJarURLWithClassifier(t *testing.T) {
	repo := MavenCentral()
	got := repo.JarURL("com.example", "my-lib", "1.0", "sources")
	want := "https://repo.maven.apache.org/maven2/com/example/my-lib/1.0/my-lib-1.0-sources.jar"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestJarURLWithoutClassifier(t *testing.T) {
	repo := MavenCentral()
	got := repo.JarURL("com.example", "my-lib", "1.0", "")
	if got[len(got)-len("my-lib-1.0.jar"):] != "my-lib-1.0.jar" {
		t.Fatalf("expected suffix my-lib-1.0.jar, got %q", got)
	}
}

func TestMetadataURLFormat(t *testing.T) {
	repo := MavenCentral()
	got := repo.MetadataURL("org.jetbrains.kotlinx", "kotlinx-coroutines-core")
	want := "https://repo.maven.apache.org/maven2/org/jetbrains/kotlinx/kotlinx-coroutines-core/maven-metadata.xml"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestSnapshotMetadataURLFormat(t *testing.T) {
	repo := MavenCentral()
	got := repo.SnapshotMetadataURL("com.example", "my-lib", "1.0-SNAPSHOT")
	want := "https://repo.maven.apache.org/maven2/com/example/my-lib/1.0-SNAPSHOT/maven-metadata.xml"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestNewTrimsTrailingSlash(t *testing.T) {
	repo := New("test", "https://repo.example.com/maven/", "", "")
	if repo.URL != "https://repo.example.com/maven" {
		t.Fatalf("expected trailing slash trimmed, got %q", repo.URL)
	}
	if repo.HasAuth() {
		t.Fatal("expected no auth configured")
	}
}

func TestHasAuthWithCredentials(t *testing.T) {
	repo := New("nexus", "https://nexus.co/maven", "user", "pass")
	if !repo.HasAuth() {
		t.Fatal("expected auth configured")
	}
	if repo.Username != "user" {
		t.Fatalf("expected username user, got %q", repo.Username)
	}
}
