package resolver

import (
	"context"
	"sort"
	"strconv"
	"strings"

	"github.com/dejanradmanovic/kargo-core/internal/artifactcache"
	"github.com/dejanradmanovic/kargo-core/internal/manifest"
	"github.com/dejanradmanovic/kargo-core/internal/pom"
	"github.com/dejanradmanovic/kargo-core/internal/repository"
	"github.com/dejanradmanovic/kargo-core/internal/tracing"
)

// ResolvedArtifact is one resolved artifact with its source repository,
// flattened for lockfile generation.
type ResolvedArtifact struct {
	Group        string
	Artifact     string
	Version      string
	Scope        string
	Source       string
	Checksum     string
	Dependencies []ArtifactRef
}

// ArtifactRef references a dependency within a resolved artifact.
type ArtifactRef struct {
	Group    string
	Artifact string
	Version  string
}

// Result is the output of a full dependency resolution.
type Result struct {
	Graph     *Graph
	Conflicts *ConflictReport
	Artifacts []ResolvedArtifact
	// VersionRequests maps group:artifact to every distinct version
	// requested for it during resolution; more than one entry means a
	// conflict was resolved somewhere in the tree.
	VersionRequests map[string]map[string]bool
}

type queueEntry struct {
	group, artifact, version, scope string
	depth                           int
	parentKey                      string
	exclusions                     map[string]bool
}

// Resolve resolves all dependencies declared in m using BFS-by-depth
// with Maven's nearest-wins strategy.
func Resolve(ctx context.Context, m *manifest.Manifest, repos []repository.Repository, cache *artifactcache.Cache, lockfile *manifest.Lockfile, client *repository.Client) (*Result, error) {
	ctx, resolveSpan := tracing.StartNewSpan(ctx, "resolve")
	defer resolveSpan.End()

	graph := New()
	conflicts := NewConflictReport()

	rootGroup := m.Package.Group
	root := graph.AddNode(Node{Group: rootGroup, Artifact: m.Package.Name, Version: m.Package.Version, Scope: "compile"})
	graph.SetRoot(root.Key())

	type directDep struct {
		coord manifest.MavenCoordinate
		scope string
	}
	var directDeps []directDep

	collect := func(deps map[string]manifest.Dependency, scope string) {
		names := sortedKeys(deps)
		for _, name := range names {
			if coord, ok := manifest.ResolveCoordinate(deps[name], m); ok {
				directDeps = append(directDeps, directDep{coord, scope})
			}
		}
	}
	collect(m.Dependencies, "compile")
	collect(m.DevDependencies, "test")
	for _, tname := range sortedTargetKeys(m.Target) {
		collect(m.Target[tname].Dependencies, "compile")
	}
	collect(m.Ksp, "ksp")
	collect(m.Kapt, "kapt")

	fullLockIndex := BuildLockIndex(lockfile)
	directCoords := make([]manifest.MavenCoordinate, 0, len(directDeps))
	for _, d := range directDeps {
		directCoords = append(directCoords, d.coord)
	}
	staleKeys := ComputeStaleKeys(directCoords, lockfile)

	lockedVersions := map[string]string{}
	for k, v := range fullLockIndex {
		if !staleKeys[k] {
			lockedVersions[k] = v
		}
	}

	directKeys := map[string]bool{}
	for _, d := range directDeps {
		directKeys[d.coord.GroupID+":"+d.coord.ArtifactID] = true
	}

	var queue []queueEntry
	for _, d := range directDeps {
		queue = append(queue, queueEntry{
			group: d.coord.GroupID, artifact: d.coord.ArtifactID, version: d.coord.Version,
			scope: d.scope, depth: 1, exclusions: map[string]bool{},
		})
	}

	resolved := map[string]struct {
		version string
		depth   int
	}{}
	versionRequests := map[string]map[string]bool{}
	pomCache := map[string]*pom.Pom{}

	for len(queue) > 0 {
		currentDepth := queue[0].depth
		var level []queueEntry
		i := 0
		for i < len(queue) && queue[i].depth == currentDepth {
			level = append(level, queue[i])
			i++
		}
		queue = queue[i:]

		toFetch := map[[3]string]bool{}
		for _, e := range level {
			coordKey := [3]string{e.group, e.artifact, e.version}
			k := e.group + ":" + e.artifact + ":" + e.version
			if _, ok := pomCache[k]; !ok {
				toFetch[coordKey] = true
			}
		}
		if len(toFetch) > 0 {
			var coords [][3]string
			for c := range toFetch {
				coords = append(coords, c)
			}
			fetchCtx, fetchSpan := tracing.StartNewSpan(ctx, "fetch")
			fetched, err := repository.FetchAll(fetchCtx, coords, func(ctx context.Context, c [3]string) (*pom.Pom, error) {
				return fetchPomFromRepos(ctx, client, repos, cache, c[0], c[1], c[2])
			})
			fetchSpan.End()
			if err != nil {
				return nil, err
			}
			for idx, c := range coords {
				if fetched[idx] != nil {
					pomCache[c[0]+":"+c[1]+":"+c[2]] = fetched[idx]
				}
			}
		}

		for _, entry := range level {
			key := entry.group + ":" + entry.artifact

			if versionRequests[key] == nil {
				versionRequests[key] = map[string]bool{}
			}
			versionRequests[key][entry.version] = true

			if existing, ok := resolved[key]; ok {
				if existing.depth <= entry.depth {
					if existing.version != entry.version {
						conflicts.Add(VersionConflict{
							Group: entry.group, Artifact: entry.artifact,
							Requested: entry.version, Resolved: existing.version,
							Reason: "nearest wins (depth " + strconv.Itoa(existing.depth) + " vs " + strconv.Itoa(entry.depth) + ")",
						})
					}
					continue
				}
			}
			resolved[key] = struct {
				version string
				depth   int
			}{entry.version, entry.depth}

			node := graph.AddNode(Node{Group: entry.group, Artifact: entry.artifact, Version: entry.version, Scope: entry.scope})

			if entry.parentKey != "" {
				graph.AddEdge(entry.parentKey, node.Key(), Edge{Scope: entry.scope})
			} else {
				graph.AddEdge(root.Key(), node.Key(), Edge{Scope: entry.scope})
			}

			coordKey := entry.group + ":" + entry.artifact + ":" + entry.version
			p, ok := pomCache[coordKey]
			if !ok {
				continue
			}
			p.InterpolateAll()

			for _, dep := range p.Dependencies {
				if dep.Optional {
					continue
				}
				depScope := dep.Scope
				if depScope == "" {
					depScope = "compile"
				}
				if depScope == "test" || depScope == "provided" || depScope == "system" {
					continue
				}

				depKey := dep.GroupID + ":" + dep.ArtifactID
				if entry.exclusions[depKey] || entry.exclusions[dep.GroupID] {
					continue
				}

				version := dep.Version
				if version == "" {
					if managed, ok := p.ManagedVersion(dep.GroupID, dep.ArtifactID); ok {
						version = managed
					}
				}
				if version == "" {
					continue
				}

				if !directKeys[depKey] {
					if locked, ok := lockedVersions[depKey]; ok {
						version = locked
					}
				}

				propagatedScope := PropagateScope(entry.scope, depScope)

				childExclusions := map[string]bool{}
				for k := range entry.exclusions {
					childExclusions[k] = true
				}
				for _, excl := range dep.Exclusions {
					if excl.ArtifactID != "" {
						childExclusions[excl.GroupID+":"+excl.ArtifactID] = true
					} else {
						childExclusions[excl.GroupID] = true
					}
				}

				queue = append(queue, queueEntry{
					group: dep.GroupID, artifact: dep.ArtifactID, version: version,
					scope: propagatedScope, depth: entry.depth + 1,
					parentKey: key, exclusions: childExclusions,
				})
			}
		}
	}

	artifacts := buildArtifactList(graph, repos)

	return &Result{Graph: graph, Conflicts: conflicts, Artifacts: artifacts, VersionRequests: versionRequests}, nil
}

func fetchPomFromRepos(ctx context.Context, client *repository.Client, repos []repository.Repository, cache *artifactcache.Cache, group, artifact, version string) (*pom.Pom, error) {
	coord := artifactcache.Coordinate{Group: group, Artifact: artifact, Version: version}
	for _, repo := range repos {
		p, err := cache.FetchPom(ctx, client, repo, coord)
		if err != nil {
			return nil, err
		}
		if p != nil {
			return p, nil
		}
	}
	return nil, nil
}

// PropagateScope implements Maven's scope propagation table. Processor
// scopes (ksp, kapt) propagate like test: every transitive dependency
// inherits the processor scope so it stays off the runtime classpath.
func PropagateScope(parentScope, depScope string) string {
	switch {
	case parentScope == "compile" && depScope == "compile":
		return "compile"
	case parentScope == "compile" && depScope == "runtime":
		return "runtime"
	case parentScope == "runtime" && depScope == "compile":
		return "runtime"
	case parentScope == "runtime" && depScope == "runtime":
		return "runtime"
	case parentScope == "test":
		return "test"
	case depScope == "test":
		return "test"
	case parentScope == "ksp":
		return "ksp"
	case parentScope == "kapt":
		return "kapt"
	case depScope == "provided":
		return "provided"
	default:
		return "compile"
	}
}

// BuildLockIndex builds a group:artifact -> locked-version lookup from
// a lockfile (nil yields an empty index).
func BuildLockIndex(lockfile *manifest.Lockfile) map[string]string {
	index := map[string]string{}
	if lockfile == nil {
		return index
	}
	for _, pkg := range lockfile.Package {
		index[pkg.Group+":"+pkg.Name] = pkg.Version
	}
	return index
}

// ComputeStaleKeys identifies every lockfile entry whose subtree is
// stale because a direct dependency's declared version no longer
// matches what's locked: it BFS-walks the lockfile's own adjacency list
// from each changed direct dependency, marking every reachable key.
func ComputeStaleKeys(directDeps []manifest.MavenCoordinate, lockfile *manifest.Lockfile) map[string]bool {
	stale := map[string]bool{}
	if lockfile == nil {
		return stale
	}

	children := map[string][]string{}
	for _, pkg := range lockfile.Package {
		key := pkg.Group + ":" + pkg.Name
		var deps []string
		for _, d := range pkg.Deps {
			deps = append(deps, d.Group+":"+d.Name)
		}
		children[key] = deps
	}

	var roots []string
	for _, coord := range directDeps {
		key := coord.GroupID + ":" + coord.ArtifactID
		locked, ok := lockfile.LockedVersion(coord.GroupID, coord.ArtifactID)
		if !ok || locked != coord.Version {
			roots = append(roots, key)
		}
	}

	queue := append([]string{}, roots...)
	for len(queue) > 0 {
		key := queue[0]
		queue = queue[1:]
		if stale[key] {
			continue
		}
		stale[key] = true
		for _, dep := range children[key] {
			if !stale[dep] {
				queue = append(queue, dep)
			}
		}
	}

	return stale
}

func buildArtifactList(graph *Graph, repos []repository.Repository) []ResolvedArtifact {
	source := ""
	if len(repos) > 0 {
		source = repos[0].URL
	}

	artifacts := make([]ResolvedArtifact, 0, len(graph.AllNodes()))
	for _, node := range graph.AllNodes() {
		var deps []ArtifactRef
		for _, e := range graph.DependenciesOf(node.Key()) {
			child, ok := graph.Find(e.Key)
			if !ok {
				continue
			}
			deps = append(deps, ArtifactRef{Group: child.Group, Artifact: child.Artifact, Version: child.Version})
		}
		artifacts = append(artifacts, ResolvedArtifact{
			Group: node.Group, Artifact: node.Artifact, Version: node.Version,
			Scope: node.Scope, Source: source, Dependencies: deps,
		})
	}

	sort.Slice(artifacts, func(i, j int) bool {
		if artifacts[i].Group != artifacts[j].Group {
			return artifacts[i].Group < artifacts[j].Group
		}
		return artifacts[i].Artifact < artifacts[j].Artifact
	})
	return artifacts
}

// BuildRepos builds the repository search list from a manifest, always
// including Maven Central even if the manifest declares none or omits it.
func BuildRepos(m *manifest.Manifest) []repository.Repository {
	var repos []repository.Repository
	for _, name := range sortedRepoKeys(m.Repositories) {
		entry := m.Repositories[name]
		repos = append(repos, repository.New(name, entry.URL, entry.Username, entry.Password))
	}

	hasCentral := false
	for _, r := range repos {
		if strings.Contains(r.URL, "repo.maven.apache.org") {
			hasCentral = true
			break
		}
	}
	if !hasCentral {
		repos = append(repos, repository.MavenCentral())
	}
	return repos
}

func sortedKeys(m map[string]manifest.Dependency) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sortedTargetKeys(m map[string]manifest.TargetDependencies) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sortedRepoKeys(m map[string]manifest.RepositoryEntry) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
