package annotation

import (
	"archive/zip"
	"bufio"
	"io"
	"path/filepath"
	"strings"
)

// processorServicePath is the fixed META-INF entry a jar must carry to
// register an annotation processor via java.util.ServiceLoader.
const processorServicePath = "META-INF/services/javax.annotation.processing.Processor"

// DiscoverProcessorClasses scans jars for META-INF/services registrations
// and returns the fully-qualified processor class names found, in
// encounter order with duplicates removed.
func DiscoverProcessorClasses(jars []string) ([]string, error) {
	var classes []string
	seen := map[string]bool{}

	for _, jarPath := range jars {
		found, err := scanJarForProcessors(jarPath)
		if err != nil {
			return nil, err
		}
		for _, class := range found {
			if seen[class] {
				continue
			}
			seen[class] = true
			classes = append(classes, class)
		}
	}
	return classes, nil
}

func scanJarForProcessors(jarPath string) ([]string, error) {
	reader, err := zip.OpenReader(jarPath)
	if err != nil {
		return nil, err
	}
	defer reader.Close()

	var classes []string
	for _, file := range reader.File {
		match, err := filepath.Match(processorServicePath, file.Name)
		if err != nil {
			return nil, err
		}
		if !match {
			continue
		}

		rc, err := file.Open()
		if err != nil {
			return nil, err
		}
		classes = append(classes, readProcessorClasses(rc)...)
		rc.Close()
	}
	return classes, nil
}

func readProcessorClasses(r io.Reader) []string {
	var classes []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		classes = append(classes, line)
	}
	return classes
}
