package annotation

import (
	"testing"

	"github.com/dejanradmanovic/kargo-core/internal/manifest"
)

func TestDetectProcessorsResolvesShortAndDetailed(t *testing.T) {
	m := &manifest.Manifest{
		Ksp: map[string]manifest.Dependency{
			"moshi-codegen": {Kind: manifest.KindShort, Short: "com.squareup.moshi:moshi-kotlin-codegen:1.15.0"},
		},
		Kapt: map[string]manifest.Dependency{
			"dagger-compiler": {
				Kind: manifest.KindDetailed,
				Detailed: manifest.DetailedDependency{
					Group: "com.google.dagger", Artifact: "dagger-compiler", Version: "2.51",
				},
			},
		},
	}

	processors := DetectProcessors(m)
	if len(processors) != 2 {
		t.Fatalf("expected 2 processors, got %d", len(processors))
	}

	byName := map[string]ProcessorInfo{}
	for _, p := range processors {
		byName[p.Name] = p
	}

	ksp, ok := byName["moshi-codegen"]
	if !ok || ksp.Kind != KindKsp || ksp.Artifact != "moshi-kotlin-codegen" || ksp.Version != "1.15.0" {
		t.Errorf("unexpected ksp entry: %+v", ksp)
	}

	kapt, ok := byName["dagger-compiler"]
	if !ok || kapt.Kind != KindKapt || kapt.Group != "com.google.dagger" {
		t.Errorf("unexpected kapt entry: %+v", kapt)
	}
}

func TestHasProcessorsFalseWhenEmpty(t *testing.T) {
	m := &manifest.Manifest{}
	if HasProcessors(m) {
		t.Error("expected no processors for an empty manifest")
	}
}
