package orchestrator

import (
	"github.com/cbroglie/mustache"

	"github.com/dejanradmanovic/kargo-core/internal/kargoerr"
	"github.com/dejanradmanovic/kargo-core/internal/manifest"
)

// buildConfigTemplate mirrors the generated-constants object Gradle's
// buildConfig feature emits, scoped down to package metadata and the
// resolved variant's build-config entries.
const buildConfigTemplate = `package {{packageName}}

object BuildConfig {
    const val PACKAGE_NAME: String = "{{packageName}}"
    const val VERSION_NAME: String = "{{versionName}}"
{{#variant}}
    const val VARIANT: String = "{{variant}}"
{{/variant}}
{{#entries}}
    const val {{Key}}: {{KotlinType}} = {{{Literal}}}
{{/entries}}
}
`

// BuildConfigEntry is one generated constant, carrying its Kotlin type
// and already-quoted-if-needed literal so the template stays dumb.
type BuildConfigEntry struct {
	Key        string
	KotlinType string
	Literal    string
}

// RenderBuildConfig renders the synthetic BuildConfig.kt source for m,
// emitted under packageName, for the given variant name (empty when no
// flavors are configured) and generated entries.
func RenderBuildConfig(m *manifest.Manifest, packageName, variant string, entries []BuildConfigEntry) (string, error) {
	ctx := map[string]any{
		"packageName": packageName,
		"versionName": m.Package.Version,
		"variant":     variant,
		"entries":     entries,
	}
	out, err := mustache.Render(buildConfigTemplate, ctx)
	if err != nil {
		return "", kargoerr.Wrap(kargoerr.KindCompilation, err, "rendering BuildConfig template")
	}
	return out, nil
}

// StringEntry builds a BuildConfigEntry for a String constant, quoting
// value for direct template interpolation.
func StringEntry(key, value string) BuildConfigEntry {
	return BuildConfigEntry{Key: key, KotlinType: "String", Literal: `"` + value + `"`}
}

// BoolEntry builds a BuildConfigEntry for a Boolean constant.
func BoolEntry(key string, value bool) BuildConfigEntry {
	literal := "false"
	if value {
		literal = "true"
	}
	return BuildConfigEntry{Key: key, KotlinType: "Boolean", Literal: literal}
}
