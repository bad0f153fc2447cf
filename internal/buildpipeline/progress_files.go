package buildpipeline

import (
	"path/filepath"
	"sort"
	"strings"
)

// DisplayName shortens path relative to baseDir for progress output.
// Paths outside baseDir stay as given.
func DisplayName(path, baseDir string) string {
	if path == "" {
		return path
	}
	clean := filepath.Clean(path)
	base := strings.TrimSpace(baseDir)
	if base != "" {
		if abs, err := filepath.Abs(base); err == nil {
			base = abs
		}
		if abs, err := filepath.Abs(clean); err == nil {
			if rel, err := filepath.Rel(base, abs); err == nil && rel != "." && !strings.HasPrefix(rel, "..") {
				clean = rel
			}
		}
	}
	return filepath.ToSlash(clean)
}

// DisplayNames maps DisplayName over files, dropping empties and
// duplicates, sorted.
func DisplayNames(files []string, baseDir string) []string {
	out := make([]string, 0, len(files))
	seen := make(map[string]struct{}, len(files))
	for _, file := range files {
		if file == "" {
			continue
		}
		name := DisplayName(file, baseDir)
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
