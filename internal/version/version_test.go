package version

import "testing"

func TestBasicOrdering(t *testing.T) {
	v1, v2 := Parse("1.0"), Parse("2.0")
	if !v1.Less(v2) {
		t.Fatalf("expected %s < %s", v1, v2)
	}
}

func TestThreePartOrdering(t *testing.T) {
	v1, v2, v3 := Parse("1.0.0"), Parse("1.0.1"), Parse("1.1.0")
	if !v1.Less(v2) {
		t.Fatalf("expected %s < %s", v1, v2)
	}
	if !v2.Less(v3) {
		t.Fatalf("expected %s < %s", v2, v3)
	}
}

func TestQualifierOrdering(t *testing.T) {
	alpha := Parse("1.0-alpha")
	beta := Parse("1.0-beta")
	rc := Parse("1.0-rc")
	release := Parse("1.0")
	sp := Parse("1.0-sp")

	if !alpha.Less(beta) {
		t.Fatal("alpha should be < beta")
	}
	if !beta.Less(rc) {
		t.Fatal("beta should be < rc")
	}
	if !rc.Less(release) {
		t.Fatal("rc should be < release")
	}
	if !release.Less(sp) {
		t.Fatal("release should be < sp")
	}
}

func TestSnapshotBeforeRelease(t *testing.T) {
	snap := Parse("1.0-SNAPSHOT")
	rel := Parse("1.0")
	if !snap.Less(rel) {
		t.Fatal("snapshot should sort before release")
	}
}

func TestTrailingZerosEqual(t *testing.T) {
	v1, v2 := Parse("1.0"), Parse("1.0.0")
	if !v1.Equal(v2) {
		t.Fatalf("expected %s == %s", v1, v2)
	}
}

func TestNumericVsString(t *testing.T) {
	v1 := Parse("1.0.0")
	v2 := Parse("1.0.0-jre")
	if !v2.Less(v1) {
		t.Fatal("numeric 0 should beat text qualifier")
	}
}

func TestGuavaStyleVersions(t *testing.T) {
	v1, v2 := Parse("31.0-jre"), Parse("32.0-jre")
	if !v1.Less(v2) {
		t.Fatalf("expected %s < %s", v1, v2)
	}
}

func TestIsSnapshot(t *testing.T) {
	v := Parse("1.0-SNAPSHOT")
	if !v.IsSnapshot() {
		t.Fatal("expected snapshot")
	}
	if v.BaseVersion() != "1.0" {
		t.Fatalf("expected base version 1.0, got %s", v.BaseVersion())
	}

	v2 := Parse("1.0.0")
	if v2.IsSnapshot() {
		t.Fatal("expected non-snapshot")
	}
}

func TestVersionRangeInclusive(t *testing.T) {
	r, ok := ParseRange("[1.0,2.0]")
	if !ok {
		t.Fatal("expected a range")
	}
	if !r.Contains(Parse("1.0")) || !r.Contains(Parse("1.5")) || !r.Contains(Parse("2.0")) {
		t.Fatal("expected bounds inclusive")
	}
	if r.Contains(Parse("0.9")) || r.Contains(Parse("2.1")) {
		t.Fatal("expected out-of-range versions excluded")
	}
}

func TestVersionRangeExclusiveUpper(t *testing.T) {
	r, ok := ParseRange("[1.0,2.0)")
	if !ok {
		t.Fatal("expected a range")
	}
	if !r.Contains(Parse("1.0")) || !r.Contains(Parse("1.9.9")) {
		t.Fatal("expected lower bound inclusive, upper exclusive to admit 1.9.9")
	}
	if r.Contains(Parse("2.0")) {
		t.Fatal("expected 2.0 excluded")
	}
}

func TestVersionRangeOpenLower(t *testing.T) {
	r, ok := ParseRange("(,2.0)")
	if !ok {
		t.Fatal("expected a range")
	}
	if !r.Contains(Parse("1.0")) {
		t.Fatal("expected 1.0 contained")
	}
	if r.Contains(Parse("2.0")) {
		t.Fatal("expected 2.0 excluded")
	}
}

func TestVersionRangeExact(t *testing.T) {
	r, ok := ParseRange("[1.5]")
	if !ok {
		t.Fatal("expected a range")
	}
	if !r.Contains(Parse("1.5")) {
		t.Fatal("expected 1.5 contained")
	}
	if r.Contains(Parse("1.4")) || r.Contains(Parse("1.6")) {
		t.Fatal("expected only exact match contained")
	}
}

func TestBareVersionNotARange(t *testing.T) {
	if _, ok := ParseRange("1.0"); ok {
		t.Fatal("bare version must not parse as a range")
	}
}

func TestDisplay(t *testing.T) {
	v := Parse("1.8.0")
	if v.String() != "1.8.0" {
		t.Fatalf("expected 1.8.0, got %s", v.String())
	}
}
