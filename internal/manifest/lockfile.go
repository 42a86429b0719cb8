package manifest

import (
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/dejanradmanovic/kargo-core/internal/kargoerr"
)

// Lockfile is the deterministic record of exact resolved dependency
// versions, written to Kargo.lock.
type Lockfile struct {
	Package []LockedPackage `toml:"package"`
}

// LockedPackage is a single locked dependency with its resolved
// coordinates, checksum, and transitive references.
type LockedPackage struct {
	Name     string                `toml:"name"`
	Group    string                `toml:"group"`
	Version  string                `toml:"version"`
	Scope    string                `toml:"scope,omitempty"`
	Checksum string                `toml:"checksum,omitempty"`
	Source   string                `toml:"source,omitempty"`
	Targets  []string              `toml:"targets,omitempty"`
	Deps     []LockedDependencyRef `toml:"dependencies,omitempty"`
}

// LockedDependencyRef references a transitive dependency within the lockfile.
type LockedDependencyRef struct {
	Name    string `toml:"name"`
	Group   string `toml:"group"`
	Version string `toml:"version"`
}

// LoadLockfile reads and parses a Kargo.lock file.
func LoadLockfile(path string) (*Lockfile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, kargoerr.Wrap(kargoerr.KindIO, err, "reading lockfile %s", path)
	}
	var lf Lockfile
	if err := toml.Unmarshal(data, &lf); err != nil {
		return nil, kargoerr.Wrap(kargoerr.KindGeneric, err, "parsing lockfile %s", path)
	}
	return &lf, nil
}

// String renders the lockfile as TOML text.
func (lf *Lockfile) String() (string, error) {
	data, err := toml.Marshal(lf)
	if err != nil {
		return "", kargoerr.Wrap(kargoerr.KindGeneric, err, "marshaling lockfile")
	}
	return string(data), nil
}

// LockedVersion returns the locked version for (group, artifact), if any.
func (lf *Lockfile) LockedVersion(group, artifact string) (string, bool) {
	for _, pkg := range lf.Package {
		if pkg.Group == group && pkg.Name == artifact {
			return pkg.Version, true
		}
	}
	return "", false
}

// IsUpToDate reports whether every declared (group, artifact, version)
// in declared has a matching locked entry at exactly that version.
func (lf *Lockfile) IsUpToDate(declared []MavenCoordinate) bool {
	for _, coord := range declared {
		locked, ok := lf.LockedVersion(coord.GroupID, coord.ArtifactID)
		if !ok || locked != coord.Version {
			return false
		}
	}
	return true
}
