// Package backup implements named, immutable snapshots of the live settings
// document. Snapshots are only ever created and restored from, never mutated.
package backup

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/kartew/claude-profiles/internal/ccp/document"
	"github.com/kartew/claude-profiles/internal/ccp/domain"
	"github.com/kartew/claude-profiles/internal/ccp/paths"
	"github.com/kartew/claude-profiles/internal/ccp/storage"
	"github.com/kartew/claude-profiles/internal/ccp/validator"
)

// TimestampFormat renders generated snapshot names so they sort
// chronologically by name.
const TimestampFormat = "20060102-150405"

// Name prefixes for generated snapshots.
const (
	GeneratedPrefix  = "backup"
	PreRestorePrefix = "pre-restore"
)

// Service handles backup snapshot operations.
type Service struct {
	storage   *storage.Storage
	paths     *paths.PathBuilder
	validator *validator.Validator
	now       func() time.Time
	logger    *slog.Logger
}

// New creates a new backup Service.
func New(storage *storage.Storage, paths *paths.PathBuilder, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Service{
		storage:   storage,
		paths:     paths,
		validator: validator.New(),
		now:       time.Now,
		logger:    logger,
	}
}

// SetNow allows overriding the clock for testing.
func (s *Service) SetNow(now func() time.Time) {
	if now == nil {
		s.now = time.Now
		return
	}
	s.now = now
}

// EnsureDir creates the backups directory if it does not exist yet.
func (s *Service) EnsureDir() error {
	if err := s.storage.MkdirAll(s.paths.BackupsDir()); err != nil {
		return fmt.Errorf("failed to create backups directory: %w", err)
	}
	return nil
}

// GenerateName produces a timestamped snapshot name, e.g.
// backup-20240131-154500.
func (s *Service) GenerateName(prefix string) string {
	return prefix + "-" + s.now().Format(TimestampFormat)
}

// Snapshot stores doc under the given name, or under a generated
// backup-YYYYMMDD-HHMMSS name when name is empty. A name collision fails
// with domain.ErrAlreadyExists: snapshots are immutable, so an existing one
// is never overwritten. Two generated names collide only within the same
// second; callers retry or pass an explicit name.
func (s *Service) Snapshot(doc document.Document, name string) (string, error) {
	if name == "" {
		name = s.GenerateName(GeneratedPrefix)
	}
	name, err := s.validator.NormalizeName(name)
	if err != nil {
		return "", err
	}

	if err := s.EnsureDir(); err != nil {
		return "", err
	}

	path := s.paths.BackupPath(name)
	exists, err := s.storage.Exists(path)
	if err != nil {
		return "", fmt.Errorf("failed to inspect backup '%s': %w", name, err)
	}
	if exists {
		return "", fmt.Errorf("backup '%s': %w", name, domain.ErrAlreadyExists)
	}

	data, err := doc.Serialize()
	if err != nil {
		return "", fmt.Errorf("backup '%s': %w", name, err)
	}
	if err := s.storage.WriteFileAtomic(path, data); err != nil {
		return "", fmt.Errorf("failed to write backup '%s': %w", name, err)
	}

	s.logger.Info("backup created", "name", name, "path", path)
	return name, nil
}

// Load reads and parses the named snapshot.
func (s *Service) Load(name string) (document.Document, error) {
	name, err := s.validator.NormalizeName(name)
	if err != nil {
		return nil, err
	}
	data, err := s.storage.ReadFile(s.paths.BackupPath(name))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("backup '%s': %w", name, domain.ErrBackupNotFound)
		}
		return nil, fmt.Errorf("failed to read backup '%s': %w", name, err)
	}
	doc, err := document.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("backup '%s': %w", name, err)
	}
	return doc, nil
}

// Exists checks whether a snapshot with the given name is stored.
func (s *Service) Exists(name string) (bool, error) {
	name, err := s.validator.NormalizeName(name)
	if err != nil {
		return false, err
	}
	return s.storage.Exists(s.paths.BackupPath(name))
}

// List returns the stored snapshot names, sorted lexicographically, which
// orders timestamp-named snapshots chronologically.
func (s *Service) List() ([]string, error) {
	entries, err := s.storage.ReadDir(s.paths.BackupsDir())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read backups directory: %w", err)
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasSuffix(name, ".json") {
			continue
		}
		names = append(names, strings.TrimSuffix(name, ".json"))
	}
	sort.Strings(names)
	return names, nil
}

// Prune removes snapshots whose modification time is older than the given
// duration and returns the number removed.
func (s *Service) Prune(olderThan time.Duration) (int, error) {
	entries, err := s.storage.ReadDir(s.paths.BackupsDir())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to read backups directory: %w", err)
	}
	cutoff := s.now().Add(-olderThan)
	deleted := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if entry.ModTime().Before(cutoff) {
			path := filepath.Join(s.paths.BackupsDir(), entry.Name())
			if err := s.storage.Remove(path); err != nil {
				return deleted, fmt.Errorf("failed to delete backup: %w", err)
			}
			deleted++
			s.logger.Debug("backup pruned", "name", entry.Name())
		}
	}
	return deleted, nil
}
