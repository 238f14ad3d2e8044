package profile

import (
	"errors"
	"testing"

	"github.com/spf13/afero"

	"github.com/kartew/claude-profiles/internal/ccp/document"
	"github.com/kartew/claude-profiles/internal/ccp/domain"
	"github.com/kartew/claude-profiles/internal/ccp/paths"
	"github.com/kartew/claude-profiles/internal/ccp/storage"
)

func newTestRepository(t *testing.T) (*Repository, afero.Fs, *paths.PathBuilder) {
	t.Helper()
	fs := afero.NewMemMapFs()
	pb := paths.New("/home/test/.claude")
	repo := New(storage.New(fs), pb, nil)
	if err := repo.EnsureDir(); err != nil {
		t.Fatalf("EnsureDir: %v", err)
	}
	return repo, fs, pb
}

func testDoc(t *testing.T, data string) document.Document {
	t.Helper()
	doc, err := document.Parse([]byte(data))
	if err != nil {
		t.Fatalf("parse test doc: %v", err)
	}
	return doc
}

func TestCreateAndLoad(t *testing.T) {
	repo, _, _ := newTestRepository(t)

	want := testDoc(t, `{"model": "opus"}`)
	if err := repo.Create("work", want, false); err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := repo.Load("work")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !document.Equal(got, want) {
		t.Error("loaded document differs from stored document")
	}
}

func TestCreate_ExistingFails(t *testing.T) {
	repo, _, _ := newTestRepository(t)

	if err := repo.Create("work", testDoc(t, `{"a": 1}`), false); err != nil {
		t.Fatalf("first Create: %v", err)
	}
	err := repo.Create("work", testDoc(t, `{"a": 2}`), false)
	if !errors.Is(err, domain.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}

	got, err := repo.Load("work")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !document.Equal(got, testDoc(t, `{"a": 1}`)) {
		t.Error("failed create mutated the existing profile")
	}
}

func TestCreate_OverwriteReplaces(t *testing.T) {
	repo, _, _ := newTestRepository(t)

	if err := repo.Create("work", testDoc(t, `{"a": 1}`), false); err != nil {
		t.Fatalf("first Create: %v", err)
	}
	if err := repo.Create("work", testDoc(t, `{"a": 2}`), true); err != nil {
		t.Fatalf("overwrite Create: %v", err)
	}

	got, _ := repo.Load("work")
	if !document.Equal(got, testDoc(t, `{"a": 2}`)) {
		t.Error("overwrite did not replace the profile")
	}
}

func TestLoad_Missing(t *testing.T) {
	repo, _, _ := newTestRepository(t)
	if _, err := repo.Load("nope"); !errors.Is(err, domain.ErrProfileNotFound) {
		t.Fatalf("expected ErrProfileNotFound, got %v", err)
	}
}

func TestLoad_CorruptProfile(t *testing.T) {
	repo, fs, pb := newTestRepository(t)
	if err := afero.WriteFile(fs, pb.ProfilePath("broken"), []byte("{oops"), 0o644); err != nil {
		t.Fatalf("setup: %v", err)
	}
	if _, err := repo.Load("broken"); !errors.Is(err, domain.ErrParse) {
		t.Fatalf("expected ErrParse, got %v", err)
	}
}

func TestList_SortedAndIgnoresPointer(t *testing.T) {
	repo, fs, pb := newTestRepository(t)

	for _, name := range []string{"zeta", "alpha"} {
		if err := repo.Create(name, testDoc(t, `{}`), false); err != nil {
			t.Fatalf("Create %s: %v", name, err)
		}
	}
	if err := repo.SetCurrentName("alpha"); err != nil {
		t.Fatalf("SetCurrentName: %v", err)
	}
	// Stray non-json files are ignored too.
	if err := afero.WriteFile(fs, pb.ProfilesDir()+"/readme.txt", []byte("x"), 0o644); err != nil {
		t.Fatalf("write stray file: %v", err)
	}

	names, err := repo.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(names) != 2 || names[0] != "alpha" || names[1] != "zeta" {
		t.Fatalf("unexpected listing: %v", names)
	}
}

func TestList_MissingDirIsEmpty(t *testing.T) {
	fs := afero.NewMemMapFs()
	repo := New(storage.New(fs), paths.New("/home/test/.claude"), nil)
	names, err := repo.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(names) != 0 {
		t.Fatalf("expected empty listing, got %v", names)
	}
}

func TestCurrentPointerRoundTrip(t *testing.T) {
	repo, _, _ := newTestRepository(t)

	if err := repo.Create("work", testDoc(t, `{}`), false); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := repo.SetCurrentName("work"); err != nil {
		t.Fatalf("SetCurrentName: %v", err)
	}

	current, err := repo.CurrentName()
	if err != nil {
		t.Fatalf("CurrentName: %v", err)
	}
	if current != "work" {
		t.Errorf("expected work, got %q", current)
	}
}

func TestSetCurrentName_MissingProfile(t *testing.T) {
	repo, _, _ := newTestRepository(t)
	if err := repo.SetCurrentName("ghost"); !errors.Is(err, domain.ErrProfileNotFound) {
		t.Fatalf("expected ErrProfileNotFound, got %v", err)
	}
}

func TestCurrentName_NoPointer(t *testing.T) {
	repo, _, _ := newTestRepository(t)
	current, err := repo.CurrentName()
	if err != nil {
		t.Fatalf("CurrentName: %v", err)
	}
	if current != "" {
		t.Errorf("expected empty current, got %q", current)
	}
}

func TestCurrentName_StalePointerSelfHeals(t *testing.T) {
	repo, fs, pb := newTestRepository(t)

	// Pointer names a profile that no longer exists.
	if err := afero.WriteFile(fs, pb.CurrentPointerPath(), []byte("ghost\n"), 0o644); err != nil {
		t.Fatalf("setup: %v", err)
	}

	current, err := repo.CurrentName()
	if err != nil {
		t.Fatalf("CurrentName: %v", err)
	}
	if current != "" {
		t.Errorf("expected empty current, got %q", current)
	}

	// The stale pointer must be cleared on disk.
	data, err := afero.ReadFile(fs, pb.CurrentPointerPath())
	if err != nil {
		t.Fatalf("read pointer: %v", err)
	}
	if len(data) != 0 {
		t.Errorf("pointer not cleared: %q", data)
	}
}

func TestDelete_RemovesProfile(t *testing.T) {
	repo, _, _ := newTestRepository(t)

	if err := repo.Create("work", testDoc(t, `{}`), false); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := repo.Delete("work"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := repo.Load("work"); !errors.Is(err, domain.ErrProfileNotFound) {
		t.Fatalf("expected ErrProfileNotFound after delete, got %v", err)
	}
}

func TestDelete_Missing(t *testing.T) {
	repo, _, _ := newTestRepository(t)
	if err := repo.Delete("nope"); !errors.Is(err, domain.ErrProfileNotFound) {
		t.Fatalf("expected ErrProfileNotFound, got %v", err)
	}
}

func TestDelete_CurrentClearsPointer(t *testing.T) {
	repo, _, _ := newTestRepository(t)

	if err := repo.Create("work", testDoc(t, `{}`), false); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := repo.Create("other", testDoc(t, `{}`), false); err != nil {
		t.Fatalf("Create other: %v", err)
	}
	if err := repo.SetCurrentName("work"); err != nil {
		t.Fatalf("SetCurrentName: %v", err)
	}

	if err := repo.Delete("work"); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	current, err := repo.CurrentName()
	if err != nil {
		t.Fatalf("CurrentName: %v", err)
	}
	if current != "" {
		t.Errorf("deleting the current profile must clear the pointer, got %q", current)
	}
}

func TestDelete_OtherKeepsPointer(t *testing.T) {
	repo, _, _ := newTestRepository(t)

	if err := repo.Create("work", testDoc(t, `{}`), false); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := repo.Create("other", testDoc(t, `{}`), false); err != nil {
		t.Fatalf("Create other: %v", err)
	}
	if err := repo.SetCurrentName("work"); err != nil {
		t.Fatalf("SetCurrentName: %v", err)
	}

	if err := repo.Delete("other"); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	current, _ := repo.CurrentName()
	if current != "work" {
		t.Errorf("expected pointer untouched, got %q", current)
	}
}

func TestCopy(t *testing.T) {
	repo, _, _ := newTestRepository(t)

	if err := repo.Create("src", testDoc(t, `{"a": 1}`), false); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := repo.Copy("src", "dst", false); err != nil {
		t.Fatalf("Copy: %v", err)
	}

	got, err := repo.Load("dst")
	if err != nil {
		t.Fatalf("Load dst: %v", err)
	}
	if !document.Equal(got, testDoc(t, `{"a": 1}`)) {
		t.Error("copy differs from source")
	}

	if err := repo.Copy("src", "dst", false); !errors.Is(err, domain.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestRename_MovesProfile(t *testing.T) {
	repo, _, _ := newTestRepository(t)

	if err := repo.Create("old", testDoc(t, `{"a": 1}`), false); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := repo.Rename("old", "new"); err != nil {
		t.Fatalf("Rename: %v", err)
	}

	if _, err := repo.Load("old"); !errors.Is(err, domain.ErrProfileNotFound) {
		t.Error("source still present after rename")
	}
	got, err := repo.Load("new")
	if err != nil {
		t.Fatalf("Load new: %v", err)
	}
	if !document.Equal(got, testDoc(t, `{"a": 1}`)) {
		t.Error("renamed profile content differs")
	}
}

func TestRename_CurrentFollowsPointer(t *testing.T) {
	repo, _, _ := newTestRepository(t)

	if err := repo.Create("old", testDoc(t, `{}`), false); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := repo.SetCurrentName("old"); err != nil {
		t.Fatalf("SetCurrentName: %v", err)
	}
	if err := repo.Rename("old", "new"); err != nil {
		t.Fatalf("Rename: %v", err)
	}

	current, err := repo.CurrentName()
	if err != nil {
		t.Fatalf("CurrentName: %v", err)
	}
	if current != "new" {
		t.Errorf("pointer did not follow rename, got %q", current)
	}
}

func TestRename_DestinationExists(t *testing.T) {
	repo, _, _ := newTestRepository(t)

	if err := repo.Create("old", testDoc(t, `{"a": 1}`), false); err != nil {
		t.Fatalf("Create old: %v", err)
	}
	if err := repo.Create("new", testDoc(t, `{"a": 2}`), false); err != nil {
		t.Fatalf("Create new: %v", err)
	}

	if err := repo.Rename("old", "new"); !errors.Is(err, domain.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
	// Both profiles must survive the failed rename.
	if _, err := repo.Load("old"); err != nil {
		t.Errorf("source lost on failed rename: %v", err)
	}
	got, _ := repo.Load("new")
	if !document.Equal(got, testDoc(t, `{"a": 2}`)) {
		t.Error("destination mutated on failed rename")
	}
}

func TestSeedAndSeeded(t *testing.T) {
	repo, _, _ := newTestRepository(t)

	seeded, err := repo.Seeded()
	if err != nil {
		t.Fatalf("Seeded: %v", err)
	}
	if seeded {
		t.Error("fresh repository reports seeded")
	}

	if err := repo.Seed(testDoc(t, `{"model": "opus"}`)); err != nil {
		t.Fatalf("Seed: %v", err)
	}

	seeded, _ = repo.Seeded()
	if !seeded {
		t.Error("repository not seeded after Seed")
	}
	current, _ := repo.CurrentName()
	if current != DefaultName {
		t.Errorf("expected current %q, got %q", DefaultName, current)
	}
}

func TestNameValidationIsEnforced(t *testing.T) {
	repo, _, _ := newTestRepository(t)

	for _, name := range []string{"", "../escape", "a/b", ".current"} {
		if err := repo.Create(name, testDoc(t, `{}`), false); err == nil {
			t.Errorf("Create(%q): expected validation error", name)
		}
		if _, err := repo.Load(name); err == nil {
			t.Errorf("Load(%q): expected validation error", name)
		}
		if err := repo.Delete(name); err == nil {
			t.Errorf("Delete(%q): expected validation error", name)
		}
	}
}
