// Package profile implements the on-disk profile repository: one JSON
// document per profile name plus the current-profile pointer file.
package profile

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"strings"

	"github.com/kartew/claude-profiles/internal/ccp/document"
	"github.com/kartew/claude-profiles/internal/ccp/domain"
	"github.com/kartew/claude-profiles/internal/ccp/paths"
	"github.com/kartew/claude-profiles/internal/ccp/storage"
	"github.com/kartew/claude-profiles/internal/ccp/validator"
)

// DefaultName is the profile seeded by init.
const DefaultName = "default"

// Repository owns the profiles directory and the current-pointer file.
type Repository struct {
	storage   *storage.Storage
	paths     *paths.PathBuilder
	validator *validator.Validator
	logger    *slog.Logger
}

// New creates a new Repository.
func New(storage *storage.Storage, paths *paths.PathBuilder, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Repository{
		storage:   storage,
		paths:     paths,
		validator: validator.New(),
		logger:    logger,
	}
}

// EnsureDir creates the profiles directory if it does not exist yet.
func (r *Repository) EnsureDir() error {
	if err := r.storage.MkdirAll(r.paths.ProfilesDir()); err != nil {
		return fmt.Errorf("failed to create profiles directory: %w", err)
	}
	return nil
}

// List returns the stored profile names, sorted lexicographically.
// A missing profiles directory lists as empty rather than failing.
func (r *Repository) List() ([]string, error) {
	entries, err := r.storage.ReadDir(r.paths.ProfilesDir())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read profiles directory: %w", err)
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

// Exists checks whether a profile with the given name is stored.
func (r *Repository) Exists(name string) (bool, error) {
	name, err := r.validator.NormalizeName(name)
	if err != nil {
		return false, err
	}
	return r.storage.Exists(r.paths.ProfilePath(name))
}

// Load reads and parses the named profile document.
func (r *Repository) Load(name string) (document.Document, error) {
	name, err := r.validator.NormalizeName(name)
	if err != nil {
		return nil, err
	}
	data, err := r.storage.ReadFile(r.paths.ProfilePath(name))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("profile '%s': %w", name, domain.ErrProfileNotFound)
		}
		return nil, fmt.Errorf("failed to read profile '%s': %w", name, err)
	}
	doc, err := document.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("profile '%s': %w", name, err)
	}
	return doc, nil
}

// Save writes the document as the named profile, atomically replacing any
// previous content.
func (r *Repository) Save(name string, doc document.Document) error {
	name, err := r.validator.NormalizeName(name)
	if err != nil {
		return err
	}
	data, err := doc.Serialize()
	if err != nil {
		return fmt.Errorf("profile '%s': %w", name, err)
	}
	if err := r.storage.WriteFileAtomic(r.paths.ProfilePath(name), data); err != nil {
		return fmt.Errorf("failed to write profile '%s': %w", name, err)
	}
	return nil
}

// Create stores a new profile. An existing profile with the same name fails
// with domain.ErrAlreadyExists unless overwrite is set.
func (r *Repository) Create(name string, doc document.Document, overwrite bool) error {
	name, err := r.validator.NormalizeName(name)
	if err != nil {
		return err
	}
	if !overwrite {
		exists, err := r.storage.Exists(r.paths.ProfilePath(name))
		if err != nil {
			return fmt.Errorf("failed to inspect profile '%s': %w", name, err)
		}
		if exists {
			return fmt.Errorf("profile '%s': %w", name, domain.ErrAlreadyExists)
		}
	}
	return r.Save(name, doc)
}

// Delete removes the named profile. If the deleted profile was current, the
// pointer is cleared; no replacement is picked automatically.
func (r *Repository) Delete(name string) error {
	name, err := r.validator.NormalizeName(name)
	if err != nil {
		return err
	}
	path := r.paths.ProfilePath(name)
	exists, err := r.storage.Exists(path)
	if err != nil {
		return fmt.Errorf("failed to inspect profile '%s': %w", name, err)
	}
	if !exists {
		return fmt.Errorf("profile '%s': %w", name, domain.ErrProfileNotFound)
	}
	if err := r.storage.Remove(path); err != nil {
		return fmt.Errorf("failed to delete profile '%s': %w", name, err)
	}

	// A pointer naming the removed profile would self-heal on the next read,
	// but clearing it here keeps the post-delete state unambiguous.
	current, err := r.rawCurrentName()
	if err != nil {
		return err
	}
	if current == name {
		if err := r.ClearCurrent(); err != nil {
			return err
		}
	}
	return nil
}

// Copy duplicates the src profile under dst.
func (r *Repository) Copy(src, dst string, overwrite bool) error {
	doc, err := r.Load(src)
	if err != nil {
		return err
	}
	return r.Create(dst, doc, overwrite)
}

// Rename moves a profile to a new name. The destination is created and
// verified before the source is removed, and the current pointer follows a
// renamed current profile.
func (r *Repository) Rename(oldName, newName string) error {
	oldName, err := r.validator.NormalizeName(oldName)
	if err != nil {
		return err
	}
	doc, err := r.Load(oldName)
	if err != nil {
		return err
	}
	if err := r.Create(newName, doc, false); err != nil {
		return err
	}

	current, err := r.rawCurrentName()
	if err != nil {
		return err
	}
	if current == oldName {
		if err := r.SetCurrentName(newName); err != nil {
			return err
		}
	}

	if err := r.storage.Remove(r.paths.ProfilePath(oldName)); err != nil {
		return fmt.Errorf("failed to remove profile '%s': %w", oldName, err)
	}
	return nil
}

// CurrentName returns the current profile name, or "" when none is set.
// A pointer naming a profile that no longer exists is cleared (self-heal)
// instead of reporting a ghost profile.
func (r *Repository) CurrentName() (string, error) {
	name, err := r.rawCurrentName()
	if err != nil {
		return "", err
	}
	if name == "" {
		return "", nil
	}
	exists, err := r.storage.Exists(r.paths.ProfilePath(name))
	if err != nil {
		return "", fmt.Errorf("failed to inspect profile '%s': %w", name, err)
	}
	if !exists {
		r.logger.Warn("current pointer references a missing profile, clearing",
			"profile", name)
		if err := r.ClearCurrent(); err != nil {
			return "", err
		}
		return "", nil
	}
	return name, nil
}

// SetCurrentName commits the pointer to an existing profile.
func (r *Repository) SetCurrentName(name string) error {
	name, err := r.validator.NormalizeName(name)
	if err != nil {
		return err
	}
	exists, err := r.storage.Exists(r.paths.ProfilePath(name))
	if err != nil {
		return fmt.Errorf("failed to inspect profile '%s': %w", name, err)
	}
	if !exists {
		return fmt.Errorf("profile '%s': %w", name, domain.ErrProfileNotFound)
	}
	if err := r.storage.WriteFileAtomic(r.paths.CurrentPointerPath(), []byte(name+"\n")); err != nil {
		return fmt.Errorf("failed to write current pointer: %w", err)
	}
	return nil
}

// ClearCurrent resets the pointer to no-current.
func (r *Repository) ClearCurrent() error {
	if err := r.storage.WriteFileAtomic(r.paths.CurrentPointerPath(), []byte{}); err != nil {
		return fmt.Errorf("failed to clear current pointer: %w", err)
	}
	return nil
}

// Seeded reports whether any profile is stored yet.
func (r *Repository) Seeded() (bool, error) {
	names, err := r.List()
	if err != nil {
		return false, err
	}
	return len(names) > 0, nil
}

// Seed stores doc as the default profile and makes it current. This is the
// force-seed primitive; the init policy (when to allow it) lives in the
// caller.
func (r *Repository) Seed(doc document.Document) error {
	if err := r.Create(DefaultName, doc, true); err != nil {
		return err
	}
	return r.SetCurrentName(DefaultName)
}

// rawCurrentName reads the pointer file without checking that the named
// profile still exists.
func (r *Repository) rawCurrentName() (string, error) {
	data, err := r.storage.ReadFile(r.paths.CurrentPointerPath())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", nil
		}
		return "", fmt.Errorf("failed to read current pointer: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}
