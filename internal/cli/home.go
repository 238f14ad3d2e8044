package cli

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/kartew/claude-profiles/internal/ccp/paths"
)

// HomeEnvVar overrides the managed directory, mainly for tests and
// sandboxed setups.
const HomeEnvVar = "CCP_HOME"

// ResolveBaseDir returns the directory holding settings.json, profiles
// and backups. CCP_HOME wins when set, otherwise ~/.claude is used.
func ResolveBaseDir() (string, error) {
	if custom := strings.TrimSpace(os.Getenv(HomeEnvVar)); custom != "" {
		return custom, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, paths.ClaudeDirName), nil
}
