package manifest

import (
	"fmt"
	"strings"
)

// DependencyKind distinguishes the three shapes a Dependency entry can
// take in Kargo.toml.
type DependencyKind int

const (
	// KindShort is a bare "group:artifact:version" string.
	KindShort DependencyKind = iota
	// KindDetailed is a table with explicit group/artifact/version and
	// optional scope/exclusions/classifier.
	KindDetailed
	// KindCatalog references a [catalog.libraries.<id>] entry.
	KindCatalog
)

// Dependency is a dependency specification in Kargo.toml, matching the
// shorthand-string / detailed-table / catalog-reference union the
// manifest format allows for each entry.
type Dependency struct {
	Kind DependencyKind

	Short string

	Detailed DetailedDependency

	Catalog CatalogDependency
}

// DetailedDependency is an explicit group/artifact/version entry with
// optional scope, exclusions, and classifier.
type DetailedDependency struct {
	Group      string
	Artifact   string
	Version    string
	Scope      DependencyScope
	Optional   bool
	Exclusions []Exclusion
	Classifier string
}

// CatalogDependency references a version-catalog library, optionally
// expanding to its whole bundle.
type CatalogDependency struct {
	Catalog string
	Bundle  bool
}

// Exclusion is a transitive dependency to exclude, named by group and
// optionally artifact (an empty artifact excludes the whole group).
type Exclusion struct {
	Group    string
	Artifact string
}

// DependencyScope is a Maven-compatible dependency scope.
type DependencyScope string

const (
	ScopeCompile  DependencyScope = "compile"
	ScopeRuntime  DependencyScope = "runtime"
	ScopeProvided DependencyScope = "provided"
	ScopeTest     DependencyScope = "test"
)

// MavenCoordinate identifies one artifact version.
type MavenCoordinate struct {
	GroupID    string
	ArtifactID string
	Version    string
}

// ParseMavenCoordinate parses "group:artifact:version" shorthand. It
// returns false if s does not have exactly three colon-separated parts.
func ParseMavenCoordinate(s string) (MavenCoordinate, bool) {
	parts := strings.Split(s, ":")
	if len(parts) != 3 {
		return MavenCoordinate{}, false
	}
	return MavenCoordinate{GroupID: parts[0], ArtifactID: parts[1], Version: parts[2]}, true
}

func (c MavenCoordinate) String() string {
	return c.GroupID + ":" + c.ArtifactID + ":" + c.Version
}

// UnmarshalTOML implements toml.Unmarshaler for the Dependency union.
func (d *Dependency) UnmarshalTOML(value interface{}) error {
	switch v := value.(type) {
	case string:
		d.Kind = KindShort
		d.Short = v
		return nil
	case map[string]interface{}:
		if catalog, ok := v["catalog"].(string); ok {
			d.Kind = KindCatalog
			d.Catalog = CatalogDependency{Catalog: catalog}
			if bundle, ok := v["bundle"].(bool); ok {
				d.Catalog.Bundle = bundle
			}
			return nil
		}

		d.Kind = KindDetailed
		dd := DetailedDependency{Scope: ScopeCompile}
		if s, ok := v["group"].(string); ok {
			dd.Group = s
		}
		if s, ok := v["artifact"].(string); ok {
			dd.Artifact = s
		}
		if s, ok := v["version"].(string); ok {
			dd.Version = s
		}
		if s, ok := v["scope"].(string); ok {
			dd.Scope = DependencyScope(s)
		}
		if b, ok := v["optional"].(bool); ok {
			dd.Optional = b
		}
		if s, ok := v["classifier"].(string); ok {
			dd.Classifier = s
		}
		if raw, ok := v["exclusions"].([]interface{}); ok {
			for _, e := range raw {
				if m, ok := e.(map[string]interface{}); ok {
					excl := Exclusion{}
					if g, ok := m["group"].(string); ok {
						excl.Group = g
					}
					if a, ok := m["artifact"].(string); ok {
						excl.Artifact = a
					}
					dd.Exclusions = append(dd.Exclusions, excl)
				}
			}
		}
		d.Detailed = dd
		return nil
	default:
		return fmt.Errorf("manifest: unsupported dependency shape %T", value)
	}
}

// ResolveCoordinate resolves a Dependency entry against its manifest
// context (needed only for catalog references) into a MavenCoordinate,
// mirroring resolve_dep_coordinate's three-way switch.
func ResolveCoordinate(dep Dependency, m *Manifest) (MavenCoordinate, bool) {
	switch dep.Kind {
	case KindShort:
		return ParseMavenCoordinate(dep.Short)
	case KindDetailed:
		return MavenCoordinate{
			GroupID:    dep.Detailed.Group,
			ArtifactID: dep.Detailed.Artifact,
			Version:    dep.Detailed.Version,
		}, true
	case KindCatalog:
		if m.Catalog == nil {
			return MavenCoordinate{}, false
		}
		lib, ok := m.Catalog.Libraries[dep.Catalog.Catalog]
		if !ok {
			return MavenCoordinate{}, false
		}
		version := lib.Version
		if lib.VersionRef != "" {
			version = m.Catalog.Versions[lib.VersionRef]
		}
		return MavenCoordinate{GroupID: lib.Group, ArtifactID: lib.Artifact, Version: version}, true
	default:
		return MavenCoordinate{}, false
	}
}
