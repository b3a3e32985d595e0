package export

import (
	"path"
	"strings"
)

// NormalizeFilename returns a safe download name ending in .pdf. Directory
// components are dropped and an empty name falls back to DefaultFilename.
func NormalizeFilename(name string) string {
	name = strings.TrimSpace(strings.ReplaceAll(name, "\\", "/"))
	if name == "" {
		return DefaultFilename
	}
	name = path.Base(name)
	if name == "." || name == "/" || name == ".." {
		return DefaultFilename
	}
	if !strings.HasSuffix(strings.ToLower(name), ".pdf") {
		name += ".pdf"
	}
	return name
}
