package demos

import (
	"embed"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

//go:embed *.yaml scripts/*.tengo
var DemosFS embed.FS

// Load reads a demo file, preferring demos/<name> on disk.
func Load(name string) ([]byte, error) {
	clean := cleanDemoPath(name)
	if data, err := os.ReadFile(diskDemoPath(clean)); err == nil {
		return data, nil
	}
	return DemosFS.ReadFile(clean)
}

func LoadScript(name string) ([]byte, error) {
	clean := cleanDemoPath(name)
	if !strings.HasPrefix(clean, "scripts/") {
		clean = "scripts/" + clean
	}
	return Load(clean)
}

// Names lists the embedded demo definitions.
func Names() ([]string, error) {
	matches, err := fs.Glob(DemosFS, "*.yaml")
	if err != nil {
		return nil, err
	}
	sort.Strings(matches)
	return matches, nil
}

func cleanDemoPath(path string) string {
	if path == "" {
		return ""
	}
	s := filepath.ToSlash(path)
	if after, ok := strings.CutPrefix(s, "demos/"); ok {
		return after
	}
	return s
}

func diskDemoPath(clean string) string {
	return filepath.Join("demos", filepath.FromSlash(clean))
}
