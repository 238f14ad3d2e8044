package paths

import "path/filepath"

// Directory and file name constants for the Claude Code configuration layout.
const (
	ClaudeDirName      = ".claude"
	SettingsFileName   = "settings.json"
	ProfilesDirName    = "profiles"
	BackupsDirName     = "backups"
	CurrentPointerName = ".current"
)

// PathBuilder provides methods to construct profile store paths relative to a
// root configuration directory.
type PathBuilder struct {
	baseDir string
}

// New creates a new PathBuilder rooted at the given configuration directory.
func New(baseDir string) *PathBuilder {
	return &PathBuilder{baseDir: baseDir}
}

// BaseDir returns the root configuration directory.
func (p *PathBuilder) BaseDir() string {
	return p.baseDir
}

// SettingsPath returns the path to the live settings.json file.
func (p *PathBuilder) SettingsPath() string {
	return filepath.Join(p.baseDir, SettingsFileName)
}

// ProfilesDir returns the directory where named profiles are stored.
func (p *PathBuilder) ProfilesDir() string {
	return filepath.Join(p.baseDir, ProfilesDirName)
}

// BackupsDir returns the directory where backups are stored.
func (p *PathBuilder) BackupsDir() string {
	return filepath.Join(p.baseDir, BackupsDirName)
}

// CurrentPointerPath returns the path to the file recording the current
// profile name.
func (p *PathBuilder) CurrentPointerPath() string {
	return filepath.Join(p.ProfilesDir(), CurrentPointerName)
}

// ProfilePath returns the path for a named profile.
func (p *PathBuilder) ProfilePath(name string) string {
	return filepath.Join(p.ProfilesDir(), name+".json")
}

// BackupPath returns the path for a named backup.
func (p *PathBuilder) BackupPath(name string) string {
	return filepath.Join(p.BackupsDir(), name+".json")
}
