package prefabs

import (
	"embed"
	"os"
	"path/filepath"
	"strings"
)

//go:embed scripts/*.tengo
var ScriptsFS embed.FS

//go:embed *.yaml
var PrefabsFS embed.FS

// Dir is where on-disk prefab overrides are looked up.
const Dir = "prefabs"

// Load returns the prefab bytes, preferring a copy on disk so edits show up
// without rebuilding.
func Load(name string) ([]byte, error) {
	clean := cleanPrefabPath(name)
	if data, err := os.ReadFile(diskPath(clean)); err == nil {
		return data, nil
	}
	return PrefabsFS.ReadFile(clean)
}

func LoadScript(name string) ([]byte, error) {
	clean := cleanScriptPath(name)
	if data, err := os.ReadFile(diskPath(clean)); err == nil {
		return data, nil
	}
	return ScriptsFS.ReadFile(clean)
}

func cleanPrefabPath(path string) string {
	if path == "" {
		return ""
	}
	s := filepath.ToSlash(path)
	if idx := strings.LastIndex(s, "/"+Dir+"/"); idx >= 0 {
		s = s[idx+len(Dir)+2:]
	}
	return strings.TrimPrefix(s, Dir+"/")
}

func cleanScriptPath(path string) string {
	s := cleanPrefabPath(path)
	if s == "" {
		return ""
	}
	return "scripts/" + strings.TrimPrefix(s, "scripts/")
}

func diskPath(clean string) string {
	return filepath.Join(Dir, filepath.FromSlash(clean))
}
