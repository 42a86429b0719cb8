package fingerprint

import (
	"os"
	"path/filepath"
	"testing"
)

func writeSource(t *testing.T, dir, name, content string) string {
	t.Helper()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return path
}

func TestComputeIsDeterministic(t *testing.T) {
	tmp := t.TempDir()
	src := writeSource(t, tmp, "Main.kt", "fun main() {}")

	unit := Unit{Name: "main", Target: "jvm", Sources: []string{src}}
	a := Compute(unit, "2.3.0")
	b := Compute(unit, "2.3.0")
	if a.Hash != b.Hash {
		t.Fatalf("expected identical fingerprints, got %s vs %s", a.Hash, b.Hash)
	}
}

func TestComputeChangesWithSourceContent(t *testing.T) {
	tmp := t.TempDir()
	src := writeSource(t, tmp, "Main.kt", "fun main() {}")
	unit := Unit{Name: "main", Target: "jvm", Sources: []string{src}}
	before := Compute(unit, "2.3.0")

	writeSource(t, tmp, "Main.kt", "fun main() { println(1) }")
	after := Compute(unit, "2.3.0")

	if before.Hash == after.Hash {
		t.Fatal("expected fingerprint to change after source content changed")
	}
}

func TestComputeChangesWithKotlinVersion(t *testing.T) {
	tmp := t.TempDir()
	src := writeSource(t, tmp, "Main.kt", "fun main() {}")
	unit := Unit{Name: "main", Target: "jvm", Sources: []string{src}}

	a := Compute(unit, "2.3.0")
	b := Compute(unit, "2.4.0")
	if a.Hash == b.Hash {
		t.Fatal("expected fingerprint to change with kotlin version")
	}
}

func TestMtimeMarkerRoundTrip(t *testing.T) {
	tmp := t.TempDir()
	if err := SaveMtime(tmp, "main", 12345, 3); err != nil {
		t.Fatalf("SaveMtime: %v", err)
	}
	mtime, count, ok := LoadMtime(tmp, "main")
	if !ok {
		t.Fatal("expected marker to load")
	}
	if mtime != 12345 || count != 3 {
		t.Errorf("got (%d, %d), want (12345, 3)", mtime, count)
	}
}

func TestLoadMtimeBackwardCompatNoCount(t *testing.T) {
	tmp := t.TempDir()
	path := filepath.Join(tmp, "main.mtime")
	if err := os.WriteFile(path, []byte("999"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	mtime, count, ok := LoadMtime(tmp, "main")
	if !ok {
		t.Fatal("expected legacy marker to load")
	}
	if mtime != 999 || count != 0 {
		t.Errorf("got (%d, %d), want (999, 0)", mtime, count)
	}
}

func TestFingerprintRoundTrip(t *testing.T) {
	tmp := t.TempDir()
	fp := Fingerprint{Hash: "deadbeef"}
	if err := Save(tmp, "main", fp); err != nil {
		t.Fatalf("Save: %v", err)
	}
	loaded, ok := Load(tmp, "main")
	if !ok {
		t.Fatal("expected fingerprint to load")
	}
	if loaded.Hash != fp.Hash {
		t.Errorf("Hash = %q, want %q", loaded.Hash, fp.Hash)
	}
}
