package manifest

import (
	"os"
	"strings"
)

// LoadEnvFile loads a .kargo.env file (shell-style KEY=value lines,
// '#' comments, blank lines skipped). A missing file is not an error:
// it simply yields an empty map.
func LoadEnvFile(path string) (map[string]string, error) {
	result := map[string]string{}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return result, nil
		}
		return nil, err
	}

	for _, line := range strings.Split(string(data), "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		key, value, ok := strings.Cut(trimmed, "=")
		if !ok {
			continue
		}
		result[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}
	return result, nil
}

// InterpolateEnv resolves "${env:VAR}" references in input, preferring
// envOverrides (loaded from .kargo.env) over the process environment.
func InterpolateEnv(input string, envOverrides map[string]string) string {
	result := input
	for {
		start := strings.Index(result, "${env:")
		if start == -1 {
			break
		}
		rest := result[start:]
		end := strings.IndexByte(rest, '}')
		if end == -1 {
			break
		}
		end += start

		key := result[start+len("${env:") : end]
		value, ok := envOverrides[key]
		if !ok {
			value = os.Getenv(key)
		}
		result = result[:start] + value + result[end+1:]
	}
	return result
}
