package config

import (
	"os"
	"path/filepath"
	"strings"
)

// expandPath resolves a leading ~ to the user's home directory and expands
// $VAR references. If the home directory cannot be determined the path is
// returned unchanged.
func expandPath(p string) string {
	if p == "" {
		return p
	}

	p = os.ExpandEnv(p)
	if p == "~" {
		if home, err := os.UserHomeDir(); err == nil {
			return home
		}
		return p
	}
	if strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, p[2:])
		}
	}
	return p
}
