// Package manifest implements the Kargo.toml manifest and Kargo.lock
// lockfile data model: parsing, ${env:VAR} interpolation, staleness
// checks, and format-preserving add/remove edits.
package manifest

// Manifest is the parsed representation of a Kargo.toml file.
type Manifest struct {
	Package PackageMetadata `toml:"package"`

	Targets map[string]TargetConfig `toml:"targets,omitempty"`
	Compose *ComposeConfig          `toml:"compose,omitempty"`

	Dependencies    map[string]Dependency `toml:"dependencies,omitempty"`
	DevDependencies map[string]Dependency `toml:"dev-dependencies,omitempty"`
	Ksp             map[string]Dependency `toml:"ksp,omitempty"`
	Kapt            map[string]Dependency `toml:"kapt,omitempty"`

	Target  map[string]TargetDependencies `toml:"target,omitempty"`
	Flavor  map[string]FlavorDependencies `toml:"flavor,omitempty"`
	Plugins map[string]PluginRef          `toml:"plugins,omitempty"`
	Flavors *FlavorConfig                 `toml:"flavors,omitempty"`

	Hooks map[string][]string `toml:"hooks,omitempty"`

	Lint   *LintConfig   `toml:"lint,omitempty"`
	Format *FormatConfig `toml:"format,omitempty"`

	Profile map[string]Profile `toml:"profile,omitempty"`

	Repositories map[string]RepositoryEntry `toml:"repositories,omitempty"`

	Workspace *WorkspaceConfig `toml:"workspace,omitempty"`
	Toolchain *ToolchainConfig `toml:"toolchain,omitempty"`
	Catalog   *CatalogConfig   `toml:"catalog,omitempty"`
	Test      *TestConfig      `toml:"test,omitempty"`
	Signing   *SigningConfig   `toml:"signing,omitempty"`
	Docker    *DockerConfig    `toml:"package.docker,omitempty"`
}

// PackageMetadata is the [package] section: identity and build inputs
// shared by every target in the project.
type PackageMetadata struct {
	Name        string   `toml:"name"`
	Version     string   `toml:"version"`
	Kotlin      string   `toml:"kotlin"`
	KspVersion  string   `toml:"ksp-version,omitempty"`
	Group       string   `toml:"group,omitempty"`
	Description string   `toml:"description,omitempty"`
	Authors     []string `toml:"authors,omitempty"`
	License     string   `toml:"license,omitempty"`
	Repository  string   `toml:"repository,omitempty"`
}

// TargetConfig describes one compile target (jvm, android, js, native, ...).
type TargetConfig struct {
	Kind    string            `toml:"kind,omitempty"`
	Options map[string]string `toml:"options,omitempty"`
}

// ComposeConfig is the [compose] Compose Multiplatform toggle.
type ComposeConfig struct {
	Enabled bool `toml:"enabled"`
}

// TargetDependencies holds per-target dependency overrides from
// [target.<name>.dependencies].
type TargetDependencies struct {
	Dependencies map[string]Dependency `toml:"dependencies,omitempty"`
}

// FlavorDependencies holds per-flavor dependency overrides from
// [flavor.<name>.dependencies].
type FlavorDependencies struct {
	Dependencies map[string]Dependency `toml:"dependencies,omitempty"`
}

// FlavorConfig is the [flavors] product-flavor declaration.
type FlavorConfig struct {
	Dimensions []string `toml:"dimensions,omitempty"`
	Default    string   `toml:"default,omitempty"`
}

// PluginRef is a plugin reference, either a bare ID or a detailed form
// with a pinned version.
type PluginRef struct {
	ID      string
	Version string
}

// LintConfig is the [lint] section.
type LintConfig struct {
	Rules    []string `toml:"rules,omitempty"`
	Severity string   `toml:"severity,omitempty"`
}

// FormatConfig is the [format] section.
type FormatConfig struct {
	Style          string `toml:"style,omitempty"`
	Indent         int    `toml:"indent,omitempty"`
	MaxLineLength  int    `toml:"max-line-length,omitempty"`
}

// Profile is one entry of the [profile.<name>] build-profile table
// (e.g. release optimization flags).
type Profile struct {
	Optimize bool              `toml:"optimize,omitempty"`
	Options  map[string]string `toml:"options,omitempty"`
}

// RepositoryEntry is a Maven repository reference, either a bare URL or
// a detailed form carrying credentials.
type RepositoryEntry struct {
	URL      string
	Auth     string
	Username string
	Password string
}

// WorkspaceConfig is the [workspace] multi-module declaration.
type WorkspaceConfig struct {
	Members []string `toml:"members,omitempty"`
	Exclude []string `toml:"exclude,omitempty"`
}

// ToolchainConfig is the [toolchain] section.
type ToolchainConfig struct {
	JDK          string `toml:"jdk,omitempty"`
	KotlinMirror string `toml:"kotlin-mirror,omitempty"`
	AutoDownload *bool  `toml:"auto-download,omitempty"`
}

// CatalogConfig is the [catalog] version-catalog section.
type CatalogConfig struct {
	Versions  map[string]string            `toml:"versions,omitempty"`
	Libraries map[string]CatalogLibrary    `toml:"libraries,omitempty"`
	Bundles   map[string][]string          `toml:"bundles,omitempty"`
	Plugins   map[string]CatalogPluginEntry `toml:"plugins,omitempty"`
}

// CatalogLibrary is one [catalog.libraries.<id>] entry.
type CatalogLibrary struct {
	Group      string `toml:"group"`
	Artifact   string `toml:"artifact"`
	VersionRef string `toml:"version.ref,omitempty"`
	Version    string `toml:"version,omitempty"`
}

// CatalogPluginEntry is one [catalog.plugins.<id>] entry.
type CatalogPluginEntry struct {
	ID         string `toml:"id"`
	VersionRef string `toml:"version.ref,omitempty"`
}

// TestConfig is the [test] section.
type TestConfig struct {
	Coverage *CoverageConfig `toml:"coverage,omitempty"`
}

// CoverageConfig is the [test.coverage] section.
type CoverageConfig struct {
	Engine   string   `toml:"engine,omitempty"`
	MinLine  int      `toml:"min-line,omitempty"`
	MinBranch int     `toml:"min-branch,omitempty"`
	Exclude  []string `toml:"exclude,omitempty"`
}

// SigningConfig is the [signing] section used by the publish flow.
type SigningConfig struct {
	GPGKey      string `toml:"gpg-key,omitempty"`
	GPGPassword string `toml:"gpg-password,omitempty"`
}

// DockerConfig is the [package.docker] section.
type DockerConfig struct {
	BaseImage  string            `toml:"base-image,omitempty"`
	Ports      []int             `toml:"ports,omitempty"`
	Entrypoint string            `toml:"entrypoint,omitempty"`
	Labels     map[string]string `toml:"labels,omitempty"`
}
