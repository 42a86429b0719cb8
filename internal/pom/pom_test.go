package pom

import (
	"strings"
	"testing"
)

func mustParse(t *testing.T, xmlDoc string) *Pom {
	t.Helper()
	p, err := Parse(strings.NewReader(xmlDoc))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	return p
}

func TestParseSimplePom(t *testing.T) {
	p := mustParse(t, `<project>
		<groupId>org.example</groupId>
		<artifactId>lib</artifactId>
		<version>1.0</version>
		<packaging>jar</packaging>
	</project>`)

	if p.GroupID != "org.example" || p.ArtifactID != "lib" || p.Version != "1.0" || p.Packaging != "jar" {
		t.Fatalf("unexpected parse result: %+v", p)
	}
}

func TestPropertyInterpolation(t *testing.T) {
	p := mustParse(t, `<project>
		<groupId>org.example</groupId>
		<artifactId>lib</artifactId>
		<version>1.0</version>
		<properties>
			<kotlin.version>2.3.0</kotlin.version>
		</properties>
	</project>`)

	got := p.Interpolate("${project.groupId}:${project.artifactId}:${kotlin.version}")
	want := "org.example:lib:2.3.0"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestScopeParsing(t *testing.T) {
	p := mustParse(t, `<project>
		<dependencies>
			<dependency>
				<groupId>org.example</groupId>
				<artifactId>lib</artifactId>
				<version>1.0</version>
				<scope>test</scope>
			</dependency>
		</dependencies>
	</project>`)

	if len(p.Dependencies) != 1 || p.Dependencies[0].Scope != "test" {
		t.Fatalf("unexpected dependencies: %+v", p.Dependencies)
	}
}

func TestDependencyManagementAndBOM(t *testing.T) {
	p := mustParse(t, `<project>
		<dependencyManagement>
			<dependencies>
				<dependency>
					<groupId>org.example</groupId>
					<artifactId>bom</artifactId>
					<version>1.0</version>
					<scope>import</scope>
					<type>pom</type>
				</dependency>
			</dependencies>
		</dependencyManagement>
	</project>`)

	if len(p.DependencyManagement) != 1 || !p.DependencyManagement[0].IsBOMImport() {
		t.Fatalf("expected one BOM import entry, got %+v", p.DependencyManagement)
	}
}

func TestParentRefParsing(t *testing.T) {
	p := mustParse(t, `<project>
		<parent>
			<groupId>org.example</groupId>
			<artifactId>parent-pom</artifactId>
			<version>2.0</version>
			<relativePath>../pom.xml</relativePath>
		</parent>
		<artifactId>child</artifactId>
	</project>`)

	if p.Parent == nil || p.Parent.GroupID != "org.example" || p.Parent.Version != "2.0" {
		t.Fatalf("unexpected parent: %+v", p.Parent)
	}
	if p.EffectiveGroupID() != "org.example" {
		t.Fatalf("expected effective groupId to fall back to parent, got %s", p.EffectiveGroupID())
	}
}

func TestExclusionParsing(t *testing.T) {
	p := mustParse(t, `<project>
		<dependencies>
			<dependency>
				<groupId>org.example</groupId>
				<artifactId>a</artifactId>
				<version>1.0</version>
				<exclusions>
					<exclusion>
						<groupId>org.excluded</groupId>
						<artifactId>b</artifactId>
					</exclusion>
				</exclusions>
			</dependency>
		</dependencies>
	</project>`)

	if len(p.Dependencies) != 1 || len(p.Dependencies[0].Exclusions) != 1 {
		t.Fatalf("unexpected exclusions: %+v", p.Dependencies)
	}
	exc := p.Dependencies[0].Exclusions[0]
	if exc.GroupID != "org.excluded" || exc.ArtifactID != "b" {
		t.Fatalf("unexpected exclusion: %+v", exc)
	}
}

func TestLicenseParsing(t *testing.T) {
	p := mustParse(t, `<project>
		<licenses>
			<license>
				<name>Apache-2.0</name>
				<url>https://www.apache.org/licenses/LICENSE-2.0</url>
			</license>
		</licenses>
	</project>`)

	if len(p.Licenses) != 1 || p.Licenses[0].Name != "Apache-2.0" {
		t.Fatalf("unexpected licenses: %+v", p.Licenses)
	}
}

func TestProjectVersionInterpolation(t *testing.T) {
	p := mustParse(t, `<project>
		<groupId>org.example</groupId>
		<artifactId>lib</artifactId>
		<version>1.0</version>
	</project>`)

	got := p.Interpolate("${project.version}")
	if got != "1.0" {
		t.Fatalf("expected 1.0, got %s", got)
	}
}

func TestApplyParentMergesPropertiesChildWins(t *testing.T) {
	child := &Pom{Properties: map[string]string{"a": "child"}}
	parent := &Pom{Properties: map[string]string{"a": "parent", "b": "parent-only"}}

	ApplyParent(child, parent)

	if child.Properties["a"] != "child" {
		t.Fatalf("expected child property to win, got %s", child.Properties["a"])
	}
	if child.Properties["b"] != "parent-only" {
		t.Fatalf("expected parent-only property to be inherited, got %s", child.Properties["b"])
	}
}

func TestApplyParentDependencyManagementChildWins(t *testing.T) {
	child := &Pom{DependencyManagement: []Dependency{
		{GroupID: "org.example", ArtifactID: "lib", Version: "2.0"},
	}}
	parent := &Pom{DependencyManagement: []Dependency{
		{GroupID: "org.example", ArtifactID: "lib", Version: "1.0"},
		{GroupID: "org.example", ArtifactID: "other", Version: "3.0"},
	}}

	ApplyParent(child, parent)

	if len(child.DependencyManagement) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(child.DependencyManagement))
	}
	for _, d := range child.DependencyManagement {
		if d.ArtifactID == "lib" && d.Version != "2.0" {
			t.Fatalf("expected child's lib version to win, got %s", d.Version)
		}
	}
}
