package paths

import (
	"path/filepath"
	"testing"
)

func TestPathBuilderLayout(t *testing.T) {
	pb := New("/home/user/.claude")

	tests := []struct {
		name string
		got  string
		want string
	}{
		{"base", pb.BaseDir(), "/home/user/.claude"},
		{"settings", pb.SettingsPath(), "/home/user/.claude/settings.json"},
		{"profiles dir", pb.ProfilesDir(), "/home/user/.claude/profiles"},
		{"backups dir", pb.BackupsDir(), "/home/user/.claude/backups"},
		{"pointer", pb.CurrentPointerPath(), "/home/user/.claude/profiles/.current"},
		{"profile", pb.ProfilePath("work"), "/home/user/.claude/profiles/work.json"},
		{"backup", pb.BackupPath("backup-20240131-154500"), "/home/user/.claude/backups/backup-20240131-154500.json"},
	}
	for _, tc := range tests {
		if tc.got != filepath.FromSlash(tc.want) {
			t.Errorf("%s: got %q, want %q", tc.name, tc.got, tc.want)
		}
	}
}

func TestCurrentPointerLivesInsideProfilesDir(t *testing.T) {
	pb := New("/base")
	if filepath.Dir(pb.CurrentPointerPath()) != pb.ProfilesDir() {
		t.Errorf("pointer %q not under profiles dir %q", pb.CurrentPointerPath(), pb.ProfilesDir())
	}
}
