package annotation

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestShouldSkipFalseWithoutMarker(t *testing.T) {
	fpDir := t.TempDir()
	if ShouldSkip(fpDir, "app", nil, nil, "") {
		t.Error("expected no marker to mean the pre-pass cannot be skipped")
	}
}

func TestMarkRanThenShouldSkipIsTrueUntilSourceChanges(t *testing.T) {
	fpDir := t.TempDir()
	srcDir := t.TempDir()
	src := writeSource(t, srcDir, "Foo.kt", "class Foo\n")

	if err := MarkRan(fpDir, "app", []string{src}, nil, ""); err != nil {
		t.Fatal(err)
	}
	if !ShouldSkip(fpDir, "app", []string{src}, nil, "") {
		t.Error("expected ShouldSkip to be true right after MarkRan")
	}

	future := time.Now().Add(time.Hour)
	if err := os.Chtimes(src, future, future); err != nil {
		t.Fatal(err)
	}
	if ShouldSkip(fpDir, "app", []string{src}, nil, "") {
		t.Error("expected ShouldSkip to be false after the source file changed")
	}
}

func TestGeneratedSourceDirsFiltersToExisting(t *testing.T) {
	base := t.TempDir()
	kspKotlin := filepath.Join(base, "ksp", "kotlin")
	if err := os.MkdirAll(kspKotlin, 0o755); err != nil {
		t.Fatal(err)
	}

	dirs := generatedSourceDirs(base)
	if len(dirs) != 1 || dirs[0] != kspKotlin {
		t.Errorf("expected only the existing ksp/kotlin dir, got %v", dirs)
	}
}
