// Package artifactcache implements the project-local Maven artifact
// cache at <project>/.kargo/dependencies, mirroring the standard Maven
// repository directory layout on disk.
package artifactcache

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"go.lsp.dev/uri"

	"github.com/dejanradmanovic/kargo-core/internal/kargoerr"
	"github.com/dejanradmanovic/kargo-core/internal/pom"
	"github.com/dejanradmanovic/kargo-core/internal/repository"
)

// Coordinate identifies one cached artifact version.
type Coordinate struct {
	Group    string
	Artifact string
	Version  string
}

// Cache is a project-local on-disk mirror of a Maven repository's
// directory layout, plus an in-process memoization layer for parsed
// POMs keyed by their canonical file URI.
type Cache struct {
	root string

	mu       sync.Mutex
	pomCache map[uri.URI]*pom.Pom
}

// New creates a Cache rooted at projectRoot/.kargo/dependencies.
func New(projectRoot string) *Cache {
	return &Cache{
		root:     filepath.Join(projectRoot, ".kargo", "dependencies"),
		pomCache: map[uri.URI]*pom.Pom{},
	}
}

// Root returns the cache's root directory.
func (c *Cache) Root() string { return c.root }

// ArtifactDir is the directory holding every file for one coordinate.
func (c *Cache) ArtifactDir(coord Coordinate) string {
	return filepath.Join(c.root, filepath.Join(strings.Split(coord.Group, ".")...), coord.Artifact, coord.Version)
}

func (c *Cache) artifactPath(coord Coordinate, filename string) string {
	return filepath.Join(c.ArtifactDir(coord), filename)
}

func jarFilename(coord Coordinate, classifier string) string {
	if classifier != "" {
		return coord.Artifact + "-" + coord.Version + "-" + classifier + ".jar"
	}
	return coord.Artifact + "-" + coord.Version + ".jar"
}

func pomFilename(coord Coordinate) string {
	return coord.Artifact + "-" + coord.Version + ".pom"
}

// GetJar returns the path to a cached JAR, or "" if it isn't cached.
func (c *Cache) GetJar(coord Coordinate, classifier string) string {
	path := c.artifactPath(coord, jarFilename(coord, classifier))
	if info, err := os.Stat(path); err == nil && !info.IsDir() {
		return path
	}
	return ""
}

// GetPom returns a cached, parsed POM, or nil if it isn't cached. A
// successful parse is memoized by the file's canonical URI so repeated
// lookups of the same coordinate within a resolve don't re-parse XML.
func (c *Cache) GetPom(coord Coordinate) *pom.Pom {
	path := c.artifactPath(coord, pomFilename(coord))
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return nil
	}

	key := uri.File(path)
	c.mu.Lock()
	if cached, ok := c.pomCache[key]; ok {
		c.mu.Unlock()
		return cached
	}
	c.mu.Unlock()

	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer f.Close()

	parsed, err := pom.Parse(f)
	if err != nil {
		return nil
	}

	c.mu.Lock()
	c.pomCache[key] = parsed
	c.mu.Unlock()
	return parsed
}

// Put writes data under the coordinate's artifact directory, creating
// directories as needed, and returns the path it was written to.
func (c *Cache) Put(coord Coordinate, filename string, data []byte) (string, error) {
	dir := c.ArtifactDir(coord)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", kargoerr.Wrap(kargoerr.KindIO, err, "creating cache directory %s", dir)
	}
	path := filepath.Join(dir, filename)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", kargoerr.Wrap(kargoerr.KindIO, err, "writing cache file %s", path)
	}
	return path, nil
}

// PutPom stores a raw POM document in the cache.
func (c *Cache) PutPom(coord Coordinate, pomXML []byte) (string, error) {
	return c.Put(coord, pomFilename(coord), pomXML)
}

// PutJar stores a JAR in the cache.
func (c *Cache) PutJar(coord Coordinate, classifier string, data []byte) (string, error) {
	return c.Put(coord, jarFilename(coord, classifier), data)
}

// HasArtifact reports whether this coordinate's (unclassified) JAR is
// already cached.
func (c *Cache) HasArtifact(coord Coordinate) bool {
	return c.GetJar(coord, "") != ""
}

// FetchPom returns this coordinate's POM, parsing a cached copy if
// present or downloading and caching one via client otherwise. It
// returns (nil, nil) if the coordinate has no POM in repo.
func (c *Cache) FetchPom(ctx context.Context, client *repository.Client, repo repository.Repository, coord Coordinate) (*pom.Pom, error) {
	if cached := c.GetPom(coord); cached != nil {
		return cached, nil
	}

	url := repo.PomURL(coord.Group, coord.Artifact, coord.Version)
	data, ok, err := client.DownloadBytes(ctx, repo, url)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}

	if _, err := c.PutPom(coord, data); err != nil {
		return nil, err
	}

	parsed, err := pom.Parse(strings.NewReader(string(data)))
	if err != nil {
		return nil, kargoerr.Wrap(kargoerr.KindGeneric, err, "parsing cached POM for %s:%s:%s", coord.Group, coord.Artifact, coord.Version)
	}
	return parsed, nil
}

// Prune removes every cached version directory not named in keep,
// along with any directories left empty by that removal, and returns
// the number of version directories removed.
func (c *Cache) Prune(keep map[Coordinate]bool) int {
	if info, err := os.Stat(c.root); err != nil || !info.IsDir() {
		return 0
	}
	removed := 0
	collectVersionDirs(c.root, c.root, keep, &removed)
	return removed
}

func collectVersionDirs(root, current string, keep map[Coordinate]bool, removed *int) {
	entries, err := os.ReadDir(current)
	if err != nil {
		return
	}

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		path := filepath.Join(current, entry.Name())

		if dirHasFiles(path) {
			if coord, ok := reconstructCoordinate(root, path); ok {
				if !keep[coord] {
					os.RemoveAll(path)
					*removed++
				}
			}
			continue
		}

		collectVersionDirs(root, path, keep, removed)
		if dirIsEmpty(path) {
			os.Remove(path)
		}
	}
}

func dirHasFiles(path string) bool {
	entries, err := os.ReadDir(path)
	if err != nil {
		return false
	}
	for _, e := range entries {
		if !e.IsDir() {
			return true
		}
	}
	return false
}

func dirIsEmpty(path string) bool {
	entries, err := os.ReadDir(path)
	return err != nil || len(entries) == 0
}

// reconstructCoordinate derives (group, artifact, version) from a
// version directory's path relative to the cache root:
// <root>/org/jetbrains/kotlin/kotlin-stdlib/2.3.0 becomes
// ("org.jetbrains.kotlin", "kotlin-stdlib", "2.3.0").
func reconstructCoordinate(root, versionDir string) (Coordinate, bool) {
	rel, err := filepath.Rel(root, versionDir)
	if err != nil {
		return Coordinate{}, false
	}
	parts := strings.Split(filepath.ToSlash(rel), "/")
	if len(parts) < 3 {
		return Coordinate{}, false
	}
	version := parts[len(parts)-1]
	artifact := parts[len(parts)-2]
	group := strings.Join(parts[:len(parts)-2], ".")
	return Coordinate{Group: group, Artifact: artifact, Version: version}, true
}

// Size returns the total size of the cache directory in bytes.
func (c *Cache) Size() int64 {
	return dirSize(c.root)
}

func dirSize(path string) int64 {
	var total int64
	entries, err := os.ReadDir(path)
	if err != nil {
		return 0
	}
	for _, entry := range entries {
		full := filepath.Join(path, entry.Name())
		if entry.IsDir() {
			total += dirSize(full)
			continue
		}
		if info, err := entry.Info(); err == nil {
			total += info.Size()
		}
	}
	return total
}
