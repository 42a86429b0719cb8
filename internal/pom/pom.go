// Package pom implements a streaming (non-DOM) parser for Maven POM
// documents, parent inheritance, and property interpolation, plus a
// separate maven-metadata.xml reader. The POM parser walks
// encoding/xml's token stream directly — mirroring the path-stack state
// machine a quick_xml event loop uses — and never materializes a DOM,
// since POMs can nest arbitrarily and only a handful of paths matter.
package pom

import (
	"encoding/xml"
	"io"
	"strings"

	"github.com/dejanradmanovic/kargo-core/internal/kargoerr"
)

// Exclusion is a transitive dependency to exclude from a resolved edge.
type Exclusion struct {
	GroupID    string
	ArtifactID string
}

// Dependency is one <dependency> entry, from either <dependencies> or
// <dependencyManagement>.
type Dependency struct {
	GroupID    string
	ArtifactID string
	Version    string
	Scope      string
	Type       string
	Classifier string
	Optional   bool
	Exclusions []Exclusion
}

// IsBOMImport reports whether this dependencyManagement entry is a BOM
// import (scope=import, type=pom).
func (d Dependency) IsBOMImport() bool {
	return d.Scope == "import" && d.Type == "pom"
}

// License is one <license> entry.
type License struct {
	Name string
	URL  string
}

// ParentRef is the <parent> reference.
type ParentRef struct {
	GroupID      string
	ArtifactID   string
	Version      string
	RelativePath string
}

// Pom is the parsed project-object-model descriptor.
type Pom struct {
	GroupID    string
	ArtifactID string
	Version    string
	Packaging  string

	Parent *ParentRef

	Properties map[string]string

	Dependencies         []Dependency
	DependencyManagement []Dependency

	Modules  []string
	Licenses []License
}

// EffectiveGroupID returns GroupID, falling back to the parent's.
func (p *Pom) EffectiveGroupID() string {
	if p.GroupID != "" {
		return p.GroupID
	}
	if p.Parent != nil {
		return p.Parent.GroupID
	}
	return ""
}

// EffectiveVersion returns Version, falling back to the parent's.
func (p *Pom) EffectiveVersion() string {
	if p.Version != "" {
		return p.Version
	}
	if p.Parent != nil {
		return p.Parent.Version
	}
	return ""
}

// ManagedVersion looks up a (group, artifact) pair in
// dependencyManagement, used to fill in a dependency's version when
// the <dependencies> entry omits it.
func (p *Pom) ManagedVersion(group, artifact string) (string, bool) {
	for _, d := range p.DependencyManagement {
		if d.GroupID == group && d.ArtifactID == artifact {
			return d.Version, true
		}
	}
	return "", false
}

// Parse streams POM XML from r using a path-based state machine. It
// never builds a DOM: at most one Dependency/Exclusion/License is being
// assembled at any time, keyed by the current element path.
func Parse(r io.Reader) (*Pom, error) {
	pom := &Pom{Properties: map[string]string{}}

	dec := xml.NewDecoder(r)

	var path []string
	var text strings.Builder

	var curDep *Dependency
	var inDepMgmt bool
	var curExclusion *Exclusion
	var curLicense *License
	var curProp string

	pathStr := func() string { return strings.Join(path, "/") }

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, kargoerr.Wrap(kargoerr.KindGeneric, err, "malformed POM XML")
		}

		switch t := tok.(type) {
		case xml.StartElement:
			name := t.Name.Local
			path = append(path, name)
			text.Reset()

			switch pathStr() {
			case "project/dependencyManagement/dependencies":
				inDepMgmt = true
			case "project/dependencyManagement/dependencies/dependency",
				"project/dependencies/dependency":
				curDep = &Dependency{}
			case "project/dependencyManagement/dependencies/dependency/exclusions/exclusion",
				"project/dependencies/dependency/exclusions/exclusion":
				curExclusion = &Exclusion{}
			case "project/licenses/license":
				curLicense = &License{}
			case "project/properties":
				// handled per-child below
			default:
				if len(path) == 3 && path[0] == "project" && path[1] == "properties" {
					curProp = name
				}
			}

		case xml.CharData:
			text.Write(t)

		case xml.EndElement:
			value := strings.TrimSpace(text.String())
			cur := pathStr()

			switch cur {
			case "project/groupId":
				pom.GroupID = value
			case "project/artifactId":
				pom.ArtifactID = value
			case "project/version":
				pom.Version = value
			case "project/packaging":
				pom.Packaging = value
			case "project/modules/module":
				pom.Modules = append(pom.Modules, value)

			case "project/parent/groupId":
				ensureParent(pom)
				pom.Parent.GroupID = value
			case "project/parent/artifactId":
				ensureParent(pom)
				pom.Parent.ArtifactID = value
			case "project/parent/version":
				ensureParent(pom)
				pom.Parent.Version = value
			case "project/parent/relativePath":
				ensureParent(pom)
				pom.Parent.RelativePath = value

			case "project/licenses/license/name":
				if curLicense != nil {
					curLicense.Name = value
				}
			case "project/licenses/license/url":
				if curLicense != nil {
					curLicense.URL = value
				}
			case "project/licenses/license":
				if curLicense != nil {
					pom.Licenses = append(pom.Licenses, *curLicense)
					curLicense = nil
				}

			case "project/dependencyManagement/dependencies":
				inDepMgmt = false

			case "project/dependencyManagement/dependencies/dependency/exclusions/exclusion",
				"project/dependencies/dependency/exclusions/exclusion":
				if curDep != nil && curExclusion != nil {
					curDep.Exclusions = append(curDep.Exclusions, *curExclusion)
				}
				curExclusion = nil

			case "project/dependencyManagement/dependencies/dependency/exclusions/exclusion/groupId",
				"project/dependencies/dependency/exclusions/exclusion/groupId":
				if curExclusion != nil {
					curExclusion.GroupID = value
				}
			case "project/dependencyManagement/dependencies/dependency/exclusions/exclusion/artifactId",
				"project/dependencies/dependency/exclusions/exclusion/artifactId":
				if curExclusion != nil {
					curExclusion.ArtifactID = value
				}

			case "project/dependencyManagement/dependencies/dependency/groupId",
				"project/dependencies/dependency/groupId":
				if curDep != nil {
					curDep.GroupID = value
				}
			case "project/dependencyManagement/dependencies/dependency/artifactId",
				"project/dependencies/dependency/artifactId":
				if curDep != nil {
					curDep.ArtifactID = value
				}
			case "project/dependencyManagement/dependencies/dependency/version",
				"project/dependencies/dependency/version":
				if curDep != nil {
					curDep.Version = value
				}
			case "project/dependencyManagement/dependencies/dependency/scope",
				"project/dependencies/dependency/scope":
				if curDep != nil {
					curDep.Scope = value
				}
			case "project/dependencyManagement/dependencies/dependency/type",
				"project/dependencies/dependency/type":
				if curDep != nil {
					curDep.Type = value
				}
			case "project/dependencyManagement/dependencies/dependency/classifier",
				"project/dependencies/dependency/classifier":
				if curDep != nil {
					curDep.Classifier = value
				}
			case "project/dependencyManagement/dependencies/dependency/optional",
				"project/dependencies/dependency/optional":
				if curDep != nil {
					curDep.Optional = value == "true"
				}

			case "project/dependencyManagement/dependencies/dependency":
				if curDep != nil {
					pom.DependencyManagement = append(pom.DependencyManagement, *curDep)
					curDep = nil
				}
			case "project/dependencies/dependency":
				if curDep != nil {
					pom.Dependencies = append(pom.Dependencies, *curDep)
					curDep = nil
				}

			default:
				if len(path) == 3 && path[0] == "project" && path[1] == "properties" && curProp == name {
					pom.Properties[name] = value
					curProp = ""
				}
			}

			path = path[:len(path)-1]
			text.Reset()
		}
	}

	_ = inDepMgmt // retained for readability at call sites; no separate branch needed beyond above
	return pom, nil
}

func ensureParent(p *Pom) {
	if p.Parent == nil {
		p.Parent = &ParentRef{}
	}
}

// ApplyParent merges parent's properties (child wins on key conflicts)
// and parent's dependencyManagement entries (child wins on
// (group,artifact) key conflicts) into child.
func ApplyParent(child, parent *Pom) {
	if parent == nil {
		return
	}
	if child.Properties == nil {
		child.Properties = map[string]string{}
	}
	for k, v := range parent.Properties {
		if _, exists := child.Properties[k]; !exists {
			child.Properties[k] = v
		}
	}

	existing := map[string]bool{}
	for _, d := range child.DependencyManagement {
		existing[d.GroupID+":"+d.ArtifactID] = true
	}
	for _, d := range parent.DependencyManagement {
		key := d.GroupID + ":" + d.ArtifactID
		if !existing[key] {
			child.DependencyManagement = append(child.DependencyManagement, d)
		}
	}
}
