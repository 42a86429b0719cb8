// Package repository implements the Maven repository protocol client:
// URL layout, authenticated downloads with retry, checksum verification,
// and bounded-concurrency batch fetching.
package repository

import "strings"

// MavenCentralURL is the default Maven Central repository base.
const MavenCentralURL = "https://repo.maven.apache.org/maven2"

// GoogleMavenURL is Google's Maven repository, used for most AndroidX
// and Android Gradle Plugin coordinates.
const GoogleMavenURL = "https://maven.google.com"

// Repository is a configured Maven repository endpoint, with optional
// credentials resolved from the manifest's repository table.
type Repository struct {
	Name     string
	URL      string
	Username string
	Password string
}

// MavenCentral constructs the default Maven Central repository.
func MavenCentral() Repository {
	return Repository{Name: "maven-central", URL: MavenCentralURL}
}

// Google constructs the Google Maven repository.
func Google() Repository {
	return Repository{Name: "google", URL: GoogleMavenURL}
}

// New constructs a Repository from a name, base URL, and optional
// credentials. The trailing slash on url is trimmed so URL building
// never produces a doubled separator.
func New(name, url, username, password string) Repository {
	return Repository{
		Name:     name,
		URL:      strings.TrimRight(url, "/"),
		Username: username,
		Password: password,
	}
}

// HasAuth reports whether this repository carries credentials.
func (r Repository) HasAuth() bool {
	return r.Username != "" || r.Password != ""
}

// CoordinatePath is the standard Maven layout path for a coordinate:
// "org.jetbrains.kotlinx:kotlinx-coroutines-core:1.8.0" becomes
// "org/jetbrains/kotlinx/kotlinx-coroutines-core/1.8.0".
func CoordinatePath(group, artifact, version string) string {
	return strings.ReplaceAll(group, ".", "/") + "/" + artifact + "/" + version
}

func (r Repository) fileURL(group, artifact, version, filename string) string {
	return r.URL + "/" + CoordinatePath(group, artifact, version) + "/" + filename
}

// PomURL is the URL to a coordinate's POM file.
func (r Repository) PomURL(group, artifact, version string) string {
	return r.fileURL(group, artifact, version, artifact+"-"+version+".pom")
}

// JarURL is the URL to a coordinate's JAR file, optionally classified
// (e.g. "sources", "javadoc").
func (r Repository) JarURL(group, artifact, version, classifier string) string {
	filename := artifact + "-" + version
	if classifier != "" {
		filename += "-" + classifier
	}
	return r.fileURL(group, artifact, version, filename+".jar")
}

// MetadataURL is the URL to the artifact-level maven-metadata.xml,
// which lists all published versions.
func (r Repository) MetadataURL(group, artifact string) string {
	return r.URL + "/" + strings.ReplaceAll(group, ".", "/") + "/" + artifact + "/maven-metadata.xml"
}

// SnapshotMetadataURL is the URL to the version-level maven-metadata.xml
// used to resolve a SNAPSHOT version to its timestamped artifact.
func (r Repository) SnapshotMetadataURL(group, artifact, version string) string {
	return r.URL + "/" + CoordinatePath(group, artifact, version) + "/maven-metadata.xml"
}

// ModuleURL is the URL to a coordinate's Gradle Module Metadata file.
func (r Repository) ModuleURL(group, artifact, version string) string {
	return r.fileURL(group, artifact, version, artifact+"-"+version+".module")
}
