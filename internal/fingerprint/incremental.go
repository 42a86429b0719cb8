package fingerprint

import "os"

// Decision is the outcome of an incremental-compilation check.
type Decision struct {
	// UpToDate is true when inputs haven't changed and compilation can
	// be skipped entirely.
	UpToDate bool
	// Fingerprint is the freshly computed fingerprint; only meaningful
	// when UpToDate is false, since it should be persisted via
	// MarkComplete once the rebuild it triggered succeeds.
	Fingerprint Fingerprint
}

// Check decides whether unit needs to be rebuilt, using the mtime
// fast-path before falling back to a full content fingerprint.
func Check(unit Unit, fpDir, kotlinVersion string) Decision {
	if !dirExists(unit.OutputDir) || dirIsEmpty(unit.OutputDir) {
		return Decision{Fingerprint: Compute(unit, kotlinVersion)}
	}

	currentMtime := MaxMtime(unit)
	currentCount := len(unit.Sources)
	if storedMtime, storedCount, ok := LoadMtime(fpDir, unit.Name); ok {
		countMatches := storedCount == 0 || currentCount == storedCount
		if _, loaded := Load(fpDir, unit.Name); currentMtime <= storedMtime && countMatches && loaded {
			return Decision{UpToDate: true}
		}
	}

	current := Compute(unit, kotlinVersion)
	if stored, ok := Load(fpDir, unit.Name); ok && stored == current {
		_ = SaveMtime(fpDir, unit.Name, currentMtime, currentCount)
		return Decision{UpToDate: true}
	}
	return Decision{Fingerprint: current}
}

// MarkComplete persists the fingerprint and mtime marker after a
// successful compilation.
func MarkComplete(fpDir string, unit Unit, fp Fingerprint) error {
	if err := Save(fpDir, unit.Name, fp); err != nil {
		return err
	}
	return SaveMtime(fpDir, unit.Name, MaxMtime(unit), len(unit.Sources))
}

func dirIsEmpty(dir string) bool {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return true
	}
	return len(entries) == 0
}
