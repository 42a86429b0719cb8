package annotation

import "testing"

func TestIsStandaloneDashVersionsAreLegacy(t *testing.T) {
	if IsStandalone("2.2.21-2.0.5") {
		t.Error("dash-separated version should be legacy KSP1, not standalone")
	}
}

func TestIsStandaloneMajorThreeAndAbove(t *testing.T) {
	if !IsStandalone("3.0.0") {
		t.Error("expected major version 3 to be standalone")
	}
}

func TestIsStandaloneTwoDotThreeBoundary(t *testing.T) {
	if !IsStandalone("2.3.0") {
		t.Error("2.3.0 is the first standalone release")
	}
	if IsStandalone("2.2.99") {
		t.Error("2.2.x predates the standalone cutover")
	}
}

func TestExtractPomDepVersionFindsMatchingDependency(t *testing.T) {
	pom := `<project>
  <dependencies>
    <dependency>
      <groupId>org.jetbrains.intellij.deps.kotlinx</groupId>
      <artifactId>kotlinx-coroutines-core-jvm</artifactId>
      <version>1.8.0-intellij-14</version>
    </dependency>
    <dependency>
      <groupId>other.group</groupId>
      <artifactId>other-artifact</artifactId>
      <version>9.9.9</version>
    </dependency>
  </dependencies>
</project>`

	v, ok := extractPomDepVersion(pom, intellijCoroutinesGroup, intellijCoroutinesArtifact)
	if !ok || v != "1.8.0-intellij-14" {
		t.Errorf("got version=%q ok=%v", v, ok)
	}
}

func TestExtractPomDepVersionMissingDependency(t *testing.T) {
	if _, ok := extractPomDepVersion("<project></project>", intellijCoroutinesGroup, intellijCoroutinesArtifact); ok {
		t.Error("expected no match in an empty POM")
	}
}
