// Package prelude embeds the library modules `use name` falls back to when
// no configured search path provides `name.es`.
package prelude

import (
	"embed"
	"io/fs"
	"path"
	"sort"
	"strings"
)

//go:embed *.es
var preludeFS embed.FS

// FS exposes the embedded modules, one `<name>.es` file each.
func FS() fs.FS {
	return preludeFS
}

// Names lists the embedded modules without their extension.
func Names() []string {
	entries, err := fs.ReadDir(preludeFS, ".")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || path.Ext(e.Name()) != ".es" {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), ".es"))
	}
	sort.Strings(names)
	return names
}
