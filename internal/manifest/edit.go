package manifest

import (
	"fmt"
	"strings"
)

// AddDependencyLine inserts `name = "value"` into the [table] section of
// raw Kargo.toml text, preserving every other line's comments and
// whitespace verbatim. If the entry already exists it is replaced in
// place; if [table] doesn't exist yet, it is appended at the end of the
// file with the new entry as its sole member.
func AddDependencyLine(raw, table, name, value string) string {
	lines := strings.Split(raw, "\n")
	header := "[" + table + "]"
	entry := fmt.Sprintf("%s = %q", name, value)

	start, end, found := findTableBody(lines, header)
	if !found {
		if len(raw) > 0 && !strings.HasSuffix(raw, "\n") {
			raw += "\n"
		}
		return raw + "\n" + header + "\n" + entry + "\n"
	}

	for i := start; i < end; i++ {
		if key, _, ok := splitKeyValue(lines[i]); ok && key == name {
			lines[i] = entry
			return strings.Join(lines, "\n")
		}
	}

	out := make([]string, 0, len(lines)+1)
	out = append(out, lines[:end]...)
	out = append(out, entry)
	out = append(out, lines[end:]...)
	return strings.Join(out, "\n")
}

// RemoveDependencyLine deletes the `name = ...` line from [table] in raw
// Kargo.toml text, leaving every other line untouched. It is a no-op if
// the table or key doesn't exist.
func RemoveDependencyLine(raw, table, name string) string {
	lines := strings.Split(raw, "\n")
	header := "[" + table + "]"

	start, end, found := findTableBody(lines, header)
	if !found {
		return raw
	}

	for i := start; i < end; i++ {
		if key, _, ok := splitKeyValue(lines[i]); ok && key == name {
			out := append(append([]string{}, lines[:i]...), lines[i+1:]...)
			return strings.Join(out, "\n")
		}
	}
	return raw
}

// findTableBody locates [header]'s body as a half-open [start, end) line
// range, where start is the line after the header and end is the line
// of the next "[" header (or len(lines) if header is the last table).
func findTableBody(lines []string, header string) (start, end int, found bool) {
	for i, line := range lines {
		if strings.TrimSpace(line) == header {
			start = i + 1
			found = true
			break
		}
	}
	if !found {
		return 0, 0, false
	}
	end = len(lines)
	for i := start; i < len(lines); i++ {
		if strings.HasPrefix(strings.TrimSpace(lines[i]), "[") {
			end = i
			break
		}
	}
	return start, end, true
}

func splitKeyValue(line string) (key, value string, ok bool) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" || strings.HasPrefix(trimmed, "#") {
		return "", "", false
	}
	k, v, found := strings.Cut(trimmed, "=")
	if !found {
		return "", "", false
	}
	return strings.TrimSpace(k), strings.TrimSpace(v), true
}
