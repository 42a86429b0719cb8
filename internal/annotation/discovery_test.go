package annotation

import (
	"archive/zip"
	"os"
	"path/filepath"
	"sort"
	"testing"
)

func writeProcessorJar(t *testing.T, path string, classes []string) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	zw := zip.NewWriter(f)
	w, err := zw.Create(processorServicePath)
	if err != nil {
		t.Fatal(err)
	}
	content := "# generated\n"
	for _, c := range classes {
		content += c + "\n"
	}
	if _, err := w.Write([]byte(content)); err != nil {
		t.Fatal(err)
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestDiscoverProcessorClassesReadsServiceFile(t *testing.T) {
	dir := t.TempDir()
	jarPath := filepath.Join(dir, "processor.jar")
	writeProcessorJar(t, jarPath, []string{"com.example.FooProcessor", "com.example.BarProcessor"})

	classes, err := DiscoverProcessorClasses([]string{jarPath})
	if err != nil {
		t.Fatal(err)
	}
	sort.Strings(classes)
	if len(classes) != 2 || classes[0] != "com.example.BarProcessor" || classes[1] != "com.example.FooProcessor" {
		t.Errorf("unexpected classes: %v", classes)
	}
}

func TestDiscoverProcessorClassesDedupsAcrossJars(t *testing.T) {
	dir := t.TempDir()
	jar1 := filepath.Join(dir, "a.jar")
	jar2 := filepath.Join(dir, "b.jar")
	writeProcessorJar(t, jar1, []string{"com.example.FooProcessor"})
	writeProcessorJar(t, jar2, []string{"com.example.FooProcessor", "com.example.BazProcessor"})

	classes, err := DiscoverProcessorClasses([]string{jar1, jar2})
	if err != nil {
		t.Fatal(err)
	}
	if len(classes) != 2 {
		t.Errorf("expected deduped classes, got %v", classes)
	}
}

func TestDiscoverProcessorClassesNoServiceFile(t *testing.T) {
	dir := t.TempDir()
	jarPath := filepath.Join(dir, "empty.jar")
	f, err := os.Create(jarPath)
	if err != nil {
		t.Fatal(err)
	}
	zw := zip.NewWriter(f)
	if _, err := zw.Create("META-INF/MANIFEST.MF"); err != nil {
		t.Fatal(err)
	}
	zw.Close()
	f.Close()

	classes, err := DiscoverProcessorClasses([]string{jarPath})
	if err != nil {
		t.Fatal(err)
	}
	if len(classes) != 0 {
		t.Errorf("expected no classes, got %v", classes)
	}
}
