package pom

import (
	"github.com/dlclark/regexp2"
)

// maxInterpolationDepth bounds the fixed-point iteration so a property
// cycle (a -> ${b}, b -> ${a}) terminates instead of looping forever.
const maxInterpolationDepth = 20

// placeholderPattern matches "${...}" placeholders. regexp2 (rather than
// stdlib regexp) is used here because the scanner must tolerate nested
// braces inside an already-substituted value during a later fixed-point
// pass without over-matching across unrelated placeholders on the same
// line — a non-greedy lazy match regexp2 supports directly via "+?".
var placeholderPattern = regexp2.MustCompile(`\$\{([^{}]+?)\}`, regexp2.None)

// Interpolate resolves "${...}" references in value against the POM's
// own fields (project.groupId|artifactId|version|packaging,
// parent.groupId|parent.version) and its properties map, iterating to a
// fixed point with a depth cap.
func (p *Pom) Interpolate(value string) string {
	current := value
	for i := 0; i < maxInterpolationDepth; i++ {
		next, changed := p.substituteOnce(current)
		if !changed {
			return next
		}
		current = next
	}
	return current
}

func (p *Pom) substituteOnce(value string) (string, bool) {
	changed := false
	result := []rune(value)
	offset := 0

	// One pass over the placeholders of value (match indices are rune
	// offsets); substituted text is left for the next pass.
	m, _ := placeholderPattern.FindStringMatch(value)
	for m != nil {
		key := m.GroupByNumber(1).String()
		replacement, ok := p.lookupProperty(key)
		if ok {
			start := m.Index + offset
			repl := []rune(replacement)
			result = append(append(append([]rune{}, result[:start]...), repl...), result[start+m.Length:]...)
			offset += len(repl) - m.Length
			changed = true
		}
		m, _ = placeholderPattern.FindNextMatch(m)
	}

	return string(result), changed
}

func (p *Pom) lookupProperty(key string) (string, bool) {
	switch key {
	case "project.groupId":
		return p.EffectiveGroupID(), true
	case "project.artifactId":
		return p.ArtifactID, true
	case "project.version":
		return p.EffectiveVersion(), true
	case "project.packaging":
		return p.Packaging, true
	case "parent.groupId":
		if p.Parent != nil {
			return p.Parent.GroupID, true
		}
		return "", false
	case "parent.version":
		if p.Parent != nil {
			return p.Parent.Version, true
		}
		return "", false
	}
	if v, ok := p.Properties[key]; ok {
		return v, true
	}
	return "", false
}

// InterpolateAll rewrites every resolvable field and the properties map
// in place, resolving references against the POM itself.
func (p *Pom) InterpolateAll() {
	p.GroupID = p.Interpolate(p.GroupID)
	p.ArtifactID = p.Interpolate(p.ArtifactID)
	p.Version = p.Interpolate(p.Version)
	p.Packaging = p.Interpolate(p.Packaging)

	for k, v := range p.Properties {
		p.Properties[k] = p.Interpolate(v)
	}
	for i := range p.Dependencies {
		p.Dependencies[i].GroupID = p.Interpolate(p.Dependencies[i].GroupID)
		p.Dependencies[i].ArtifactID = p.Interpolate(p.Dependencies[i].ArtifactID)
		p.Dependencies[i].Version = p.Interpolate(p.Dependencies[i].Version)
	}
	for i := range p.DependencyManagement {
		p.DependencyManagement[i].GroupID = p.Interpolate(p.DependencyManagement[i].GroupID)
		p.DependencyManagement[i].ArtifactID = p.Interpolate(p.DependencyManagement[i].ArtifactID)
		p.DependencyManagement[i].Version = p.Interpolate(p.DependencyManagement[i].Version)
	}
}
