package annotation

import "github.com/dejanradmanovic/kargo-core/internal/artifactcache"

// Context is everything a legacy KAPT or KSP1 pre-pass needs to build its
// kotlinc invocation: the processors configured for the unit, the source
// files to process, and the classpaths they see.
type Context struct {
	Processors []ProcessorInfo
	Cache      *artifactcache.Cache

	Sources       []string
	ProcessorJars []string
	LibraryJars   []string
	KotlinHome    string
	GeneratedDir  string
	CompilerArgs  []string
}

// processorsOfKind filters Processors down to one backend.
func (c Context) processorsOfKind(kind ProcessorKind) []ProcessorInfo {
	var out []ProcessorInfo
	for _, p := range c.Processors {
		if p.Kind == kind {
			out = append(out, p)
		}
	}
	return out
}
