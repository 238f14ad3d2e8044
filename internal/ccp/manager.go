// Package ccp contains the core logic for managing named Claude Code
// settings profiles: the profile repository, the switch/apply engine that
// projects a profile onto the live settings.json, and backup/restore of the
// live document.
package ccp

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/afero"

	"github.com/kartew/claude-profiles/internal/ccp/backup"
	"github.com/kartew/claude-profiles/internal/ccp/document"
	"github.com/kartew/claude-profiles/internal/ccp/domain"
	"github.com/kartew/claude-profiles/internal/ccp/paths"
	"github.com/kartew/claude-profiles/internal/ccp/profile"
	"github.com/kartew/claude-profiles/internal/ccp/storage"
)

// Manager coordinates the profile repository, the backup service and the
// live settings file. It is the only component that writes settings.json,
// so a single logical projection touches the live file per invocation.
type Manager struct {
	storage  *storage.Storage
	paths    *paths.PathBuilder
	profiles *profile.Repository
	backups  *backup.Service
	logger   *slog.Logger
}

// NewManager creates a Manager over the given filesystem, rooted at the
// configuration directory. A nil logger discards log output.
func NewManager(fs afero.Fs, baseDir string, logger *slog.Logger) (*Manager, error) {
	if fs == nil {
		return nil, errors.New("filesystem cannot be nil")
	}
	if baseDir == "" {
		return nil, errors.New("baseDir cannot be empty")
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	st := storage.New(fs)
	pb := paths.New(baseDir)
	return &Manager{
		storage:  st,
		paths:    pb,
		profiles: profile.New(st, pb, logger),
		backups:  backup.New(st, pb, logger),
		logger:   logger,
	}, nil
}

// FileSystem returns the underlying filesystem.
func (m *Manager) FileSystem() afero.Fs {
	return m.storage.FileSystem()
}

// Paths returns the path builder for the configuration directory.
func (m *Manager) Paths() *paths.PathBuilder {
	return m.paths
}

// Profiles returns the profile repository.
func (m *Manager) Profiles() *profile.Repository {
	return m.profiles
}

// Backups returns the backup service.
func (m *Manager) Backups() *backup.Service {
	return m.backups
}

// InitInfra ensures that the profiles and backups directories exist.
func (m *Manager) InitInfra() error {
	if err := m.profiles.EnsureDir(); err != nil {
		return err
	}
	return m.backups.EnsureDir()
}

// LiveDocument reads and parses the live settings.json. A missing file
// reports os.ErrNotExist wrapped with the path.
func (m *Manager) LiveDocument() (document.Document, error) {
	data, err := m.storage.ReadFile(m.paths.SettingsPath())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", m.paths.SettingsPath(), os.ErrNotExist)
		}
		return nil, fmt.Errorf("failed to read settings: %w", err)
	}
	doc, err := document.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("settings.json: %w", err)
	}
	return doc, nil
}

// projectLive atomically replaces the live settings file with doc.
func (m *Manager) projectLive(doc document.Document) error {
	data, err := doc.Serialize()
	if err != nil {
		return err
	}
	if err := m.storage.WriteFileAtomic(m.paths.SettingsPath(), data); err != nil {
		return fmt.Errorf("failed to write settings: %w", err)
	}
	return nil
}

// Use switches to the named profile: the profile document is projected onto
// the live settings file first, and only then is the current pointer
// committed. A crash between the two steps leaves a stale pointer, which is
// recoverable by re-running Use, never a wrong live file.
func (m *Manager) Use(name string) error {
	doc, err := m.profiles.Load(name)
	if err != nil {
		return err
	}
	if err := m.projectLive(doc); err != nil {
		return err
	}
	if err := m.profiles.SetCurrentName(name); err != nil {
		return err
	}
	m.logger.Info("switched profile", "profile", name)
	return nil
}

// ApplyCurrent re-projects the current profile onto the live settings file.
func (m *Manager) ApplyCurrent() error {
	name, err := m.profiles.CurrentName()
	if err != nil {
		return err
	}
	if name == "" {
		return domain.ErrNoCurrentProfile
	}
	doc, err := m.profiles.Load(name)
	if err != nil {
		return err
	}
	return m.projectLive(doc)
}

// InitResult describes what Init did, for rendering.
type InitResult struct {
	SeededFrom string // "settings" or "empty"
}

// Init seeds the repository with a default profile and makes it current.
// When the live settings file exists its content seeds the profile;
// otherwise an empty document is written both as the profile and as the live
// settings file. An already seeded repository fails with
// domain.ErrAlreadyInitialized unless force is set.
func (m *Manager) Init(force bool) (*InitResult, error) {
	if err := m.InitInfra(); err != nil {
		return nil, err
	}

	seeded, err := m.profiles.Seeded()
	if err != nil {
		return nil, err
	}
	if seeded && !force {
		return nil, domain.ErrAlreadyInitialized
	}

	live, err := m.LiveDocument()
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
		empty := document.New()
		if err := m.projectLive(empty); err != nil {
			return nil, err
		}
		if err := m.profiles.Seed(empty); err != nil {
			return nil, err
		}
		return &InitResult{SeededFrom: "empty"}, nil
	}

	if err := m.profiles.Seed(live); err != nil {
		return nil, err
	}
	return &InitResult{SeededFrom: "settings"}, nil
}

// ResolveProfile maps an optional profile argument to a concrete profile
// name: an empty argument means the current profile, and no current profile
// fails with domain.ErrNoCurrentProfile.
func (m *Manager) ResolveProfile(name string) (string, error) {
	if name != "" {
		return name, nil
	}
	current, err := m.profiles.CurrentName()
	if err != nil {
		return "", err
	}
	if current == "" {
		return "", fmt.Errorf("%w: pass an explicit profile or run 'use' or 'init' first", domain.ErrNoCurrentProfile)
	}
	return current, nil
}

// GetValue resolves a dotted key in the given profile ("" means current).
func (m *Manager) GetValue(profileName, key string) (any, error) {
	name, err := m.ResolveProfile(profileName)
	if err != nil {
		return nil, err
	}
	doc, err := m.profiles.Load(name)
	if err != nil {
		return nil, err
	}
	return doc.Get(key)
}

// SaveAndApply stores the document under the named profile and, when that
// profile is current, immediately re-projects it onto the live settings
// file so the external application sees the change.
func (m *Manager) SaveAndApply(name string, doc document.Document) error {
	if err := m.profiles.Save(name, doc); err != nil {
		return err
	}
	current, err := m.profiles.CurrentName()
	if err != nil {
		return err
	}
	if current == name {
		return m.projectLive(doc)
	}
	return nil
}

// SetValue sets a dotted key in the given profile ("" means current). The
// raw value is decoded as JSON when well-formed, else stored as a string.
func (m *Manager) SetValue(profileName, key, raw string) (string, error) {
	name, err := m.ResolveProfile(profileName)
	if err != nil {
		return "", err
	}
	doc, err := m.profiles.Load(name)
	if err != nil {
		return "", err
	}
	if err := doc.Set(key, document.ParseScalar(raw)); err != nil {
		return "", err
	}
	return name, m.SaveAndApply(name, doc)
}

// UnsetValue removes a dotted key from the given profile ("" means
// current). Removing an absent key is a no-op; the bool reports whether a
// value was removed.
func (m *Manager) UnsetValue(profileName, key string) (string, bool, error) {
	name, err := m.ResolveProfile(profileName)
	if err != nil {
		return "", false, err
	}
	doc, err := m.profiles.Load(name)
	if err != nil {
		return "", false, err
	}
	removed, err := doc.Unset(key)
	if err != nil {
		return "", false, err
	}
	if !removed {
		return name, false, nil
	}
	return name, true, m.SaveAndApply(name, doc)
}

// Export serializes the given profile ("" means current) to w.
func (m *Manager) Export(profileName string, w io.Writer) error {
	name, err := m.ResolveProfile(profileName)
	if err != nil {
		return err
	}
	doc, err := m.profiles.Load(name)
	if err != nil {
		return err
	}
	data, err := doc.Serialize()
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}
	return nil
}

// Import parses a document from r and stores it under the given name.
func (m *Manager) Import(name string, r io.Reader, overwrite bool) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("failed to read import: %w", err)
	}
	doc, err := document.Parse(data)
	if err != nil {
		return err
	}
	if err := m.InitInfra(); err != nil {
		return err
	}
	return m.profiles.Create(name, doc, overwrite)
}

// Diff loads both profiles and returns their structural differences.
func (m *Manager) Diff(nameA, nameB string) ([]document.DiffEntry, error) {
	docA, err := m.profiles.Load(nameA)
	if err != nil {
		return nil, err
	}
	docB, err := m.profiles.Load(nameB)
	if err != nil {
		return nil, err
	}
	return document.Diff(docA, docB), nil
}

// Backup snapshots the live settings document under the given name, or a
// generated timestamp name when name is empty. Returns the snapshot name.
func (m *Manager) Backup(name string) (string, error) {
	live, err := m.LiveDocument()
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("no settings.json found to backup: %w", err)
		}
		return "", err
	}
	return m.backups.Snapshot(live, name)
}

// Restore projects the named snapshot onto the live settings file. The live
// document is snapshotted first under a pre-restore timestamp name, so the
// pre-restore state stays recoverable. The current pointer is deliberately
// left untouched: a restore is point-in-time recovery of the live file, not
// a profile switch.
func (m *Manager) Restore(name string) (string, error) {
	doc, err := m.backups.Load(name)
	if err != nil {
		return "", err
	}

	autoName := ""
	live, err := m.LiveDocument()
	switch {
	case err == nil:
		autoName, err = m.backups.Snapshot(live, m.backups.GenerateName(backup.PreRestorePrefix))
		if err != nil {
			return "", err
		}
	case errors.Is(err, os.ErrNotExist):
		// Nothing to preserve.
	default:
		return "", err
	}

	if err := m.projectLive(doc); err != nil {
		return "", err
	}
	m.logger.Info("restored settings from backup", "backup", name)
	return autoName, nil
}
