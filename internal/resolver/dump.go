package resolver

import (
	"encoding/json"
	"sort"
	"strings"

	"gopkg.in/yaml.v2"
)

// Dep is one dependency entry in the report view of a resolved graph,
// deterministically ordered so repeated dumps of the same resolution
// diff cleanly.
type Dep struct {
	Name     string   `json:"name,omitempty" yaml:"name,omitempty"`
	Group    string   `json:"group,omitempty" yaml:"group,omitempty"`
	Version  string   `json:"version,omitempty" yaml:"version,omitempty"`
	Scope    string   `json:"scope,omitempty" yaml:"scope,omitempty"`
	Indirect bool     `json:"indirect,omitempty" yaml:"indirect,omitempty"`
	Labels   []string `json:"labels,omitempty" yaml:"labels,omitempty"`
}

func (d *Dep) sortFields() {
	sort.Strings(d.Labels)
}

func (d Dep) cmpLess(other Dep) bool {
	if d.Group != other.Group {
		return d.Group < other.Group
	}
	if d.Name != other.Name {
		return d.Name < other.Name
	}
	if d.Version != other.Version {
		return d.Version < other.Version
	}
	if d.Scope != other.Scope {
		return d.Scope < other.Scope
	}
	if d.Indirect != other.Indirect {
		return !d.Indirect && other.Indirect
	}
	return strings.Join(d.Labels, ",") < strings.Join(other.Labels, ",")
}

func (d Dep) MarshalYAML() (interface{}, error) {
	d.sortFields()
	return d, nil
}

func (d Dep) MarshalJSON() ([]byte, error) {
	b, err := yaml.Marshal(d)
	if err != nil {
		return b, err
	}
	m := map[string]any{}
	if err := yaml.Unmarshal(b, &m); err != nil {
		return nil, err
	}
	return json.Marshal(m)
}

// DepDAGItem is one node of the dependency DAG dump: a Dep plus the
// children it pulled in.
type DepDAGItem struct {
	Dep       Dep          `yaml:"dep,omitempty" json:"dep,omitempty"`
	AddedDeps []DepDAGItem `yaml:"addedDep,omitempty" json:"addedDep,omitempty"`
}

func (d *DepDAGItem) sortFields() {
	for i := range d.AddedDeps {
		d.AddedDeps[i].sortFields()
	}
	sort.SliceStable(d.AddedDeps, func(i, j int) bool {
		return d.AddedDeps[i].Dep.cmpLess(d.AddedDeps[j].Dep)
	})
}

func (d DepDAGItem) MarshalYAML() (interface{}, error) {
	d.sortFields()
	return d, nil
}

func (d DepDAGItem) MarshalJSON() ([]byte, error) {
	b, err := yaml.Marshal(d)
	if err != nil {
		return b, err
	}
	m := map[string]any{}
	if err := yaml.Unmarshal(b, &m); err != nil {
		return nil, err
	}
	return json.Marshal(m)
}

// Dump renders the resolved graph as a forest of DepDAGItem roots, one
// per direct dependency, for the `kargo tree` / `kargo deps` reporting
// surface.
func Dump(graph *Graph) []DepDAGItem {
	rootEdges := graph.DependenciesOf(graph.root)
	items := make([]DepDAGItem, 0, len(rootEdges))
	for _, e := range rootEdges {
		items = append(items, buildDAGItem(graph, e, map[string]bool{}))
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Dep.cmpLess(items[j].Dep)
	})
	return items
}

func buildDAGItem(graph *Graph, ref EdgeRef, visiting map[string]bool) DepDAGItem {
	node, _ := graph.Find(ref.Key)
	item := DepDAGItem{
		Dep: Dep{
			Name: node.Artifact, Group: node.Group,
			Version: node.Version, Scope: ref.Edge.Scope, Indirect: ref.Edge.Optional,
		},
	}
	if visiting[ref.Key] {
		return item
	}
	visiting[ref.Key] = true
	for _, childRef := range graph.DependenciesOf(ref.Key) {
		child := buildDAGItem(graph, childRef, visiting)
		child.Dep.Indirect = true
		item.AddedDeps = append(item.AddedDeps, child)
	}
	delete(visiting, ref.Key)
	return item
}
