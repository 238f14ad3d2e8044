package backup

import (
	"errors"
	"testing"
	"time"

	"github.com/spf13/afero"

	"github.com/kartew/claude-profiles/internal/ccp/document"
	"github.com/kartew/claude-profiles/internal/ccp/domain"
	"github.com/kartew/claude-profiles/internal/ccp/paths"
	"github.com/kartew/claude-profiles/internal/ccp/storage"
)

func newTestService(t *testing.T) (*Service, afero.Fs, *paths.PathBuilder) {
	t.Helper()
	fs := afero.NewMemMapFs()
	pb := paths.New("/home/test/.claude")
	svc := New(storage.New(fs), pb, nil)
	if err := svc.EnsureDir(); err != nil {
		t.Fatalf("EnsureDir: %v", err)
	}
	return svc, fs, pb
}

func testDoc(t *testing.T, data string) document.Document {
	t.Helper()
	doc, err := document.Parse([]byte(data))
	if err != nil {
		t.Fatalf("parse test doc: %v", err)
	}
	return doc
}

func TestSnapshot_GeneratedName(t *testing.T) {
	svc, fs, pb := newTestService(t)
	svc.SetNow(func() time.Time {
		return time.Date(2024, 1, 31, 15, 45, 0, 0, time.UTC)
	})

	name, err := svc.Snapshot(testDoc(t, `{"a": 1}`), "")
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if name != "backup-20240131-154500" {
		t.Errorf("unexpected generated name: %s", name)
	}

	exists, err := afero.Exists(fs, pb.BackupPath(name))
	if err != nil {
		t.Fatalf("exists: %v", err)
	}
	if !exists {
		t.Error("snapshot file not written")
	}
}

func TestSnapshot_ExplicitName(t *testing.T) {
	svc, _, _ := newTestService(t)

	name, err := svc.Snapshot(testDoc(t, `{"a": 1}`), "before-upgrade")
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if name != "before-upgrade" {
		t.Errorf("unexpected name: %s", name)
	}

	doc, err := svc.Load("before-upgrade")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !document.Equal(doc, testDoc(t, `{"a": 1}`)) {
		t.Error("loaded snapshot differs from stored document")
	}
}

func TestSnapshot_CollisionFails(t *testing.T) {
	svc, _, _ := newTestService(t)

	if _, err := svc.Snapshot(testDoc(t, `{"a": 1}`), "dup"); err != nil {
		t.Fatalf("first Snapshot: %v", err)
	}
	_, err := svc.Snapshot(testDoc(t, `{"a": 2}`), "dup")
	if !errors.Is(err, domain.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}

	// The first snapshot must be untouched.
	doc, err := svc.Load("dup")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !document.Equal(doc, testDoc(t, `{"a": 1}`)) {
		t.Error("collision overwrote the existing snapshot")
	}
}

func TestSnapshot_SameSecondGeneratedNamesCollide(t *testing.T) {
	svc, _, _ := newTestService(t)
	svc.SetNow(func() time.Time {
		return time.Date(2024, 1, 31, 15, 45, 0, 0, time.UTC)
	})

	if _, err := svc.Snapshot(testDoc(t, `{"a": 1}`), ""); err != nil {
		t.Fatalf("first Snapshot: %v", err)
	}
	if _, err := svc.Snapshot(testDoc(t, `{"a": 2}`), ""); !errors.Is(err, domain.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists for same-second snapshot, got %v", err)
	}
}

func TestSnapshot_InvalidName(t *testing.T) {
	svc, _, _ := newTestService(t)
	if _, err := svc.Snapshot(testDoc(t, `{}`), "../escape"); err == nil {
		t.Fatal("expected validation error")
	}
}

func TestLoad_Missing(t *testing.T) {
	svc, _, _ := newTestService(t)
	if _, err := svc.Load("nope"); !errors.Is(err, domain.ErrBackupNotFound) {
		t.Fatalf("expected ErrBackupNotFound, got %v", err)
	}
}

func TestList_SortedAndFiltered(t *testing.T) {
	svc, fs, pb := newTestService(t)

	for _, name := range []string{"zeta", "alpha", "mid"} {
		if _, err := svc.Snapshot(testDoc(t, `{}`), name); err != nil {
			t.Fatalf("Snapshot %s: %v", name, err)
		}
	}
	// Non-json files are ignored.
	if err := afero.WriteFile(fs, pb.BackupsDir()+"/notes.txt", []byte("x"), 0o644); err != nil {
		t.Fatalf("write stray file: %v", err)
	}

	names, err := svc.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(names) != 3 || names[0] != "alpha" || names[1] != "mid" || names[2] != "zeta" {
		t.Fatalf("unexpected listing: %v", names)
	}
}

func TestList_MissingDirIsEmpty(t *testing.T) {
	fs := afero.NewMemMapFs()
	svc := New(storage.New(fs), paths.New("/home/test/.claude"), nil)
	names, err := svc.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(names) != 0 {
		t.Fatalf("expected empty listing, got %v", names)
	}
}

func TestPrune_RemovesOnlyOldSnapshots(t *testing.T) {
	svc, fs, pb := newTestService(t)

	if _, err := svc.Snapshot(testDoc(t, `{}`), "old"); err != nil {
		t.Fatalf("Snapshot old: %v", err)
	}
	if _, err := svc.Snapshot(testDoc(t, `{}`), "fresh"); err != nil {
		t.Fatalf("Snapshot fresh: %v", err)
	}

	past := time.Now().Add(-48 * time.Hour)
	if err := fs.Chtimes(pb.BackupPath("old"), past, past); err != nil {
		t.Fatalf("chtimes: %v", err)
	}

	removed, err := svc.Prune(24 * time.Hour)
	if err != nil {
		t.Fatalf("Prune: %v", err)
	}
	if removed != 1 {
		t.Errorf("expected 1 removed, got %d", removed)
	}

	if ok, _ := svc.Exists("old"); ok {
		t.Error("old snapshot survived prune")
	}
	if ok, _ := svc.Exists("fresh"); !ok {
		t.Error("fresh snapshot was pruned")
	}
}

func TestPrune_EmptyDirIsNoop(t *testing.T) {
	svc, _, _ := newTestService(t)
	removed, err := svc.Prune(time.Hour)
	if err != nil {
		t.Fatalf("Prune: %v", err)
	}
	if removed != 0 {
		t.Errorf("expected 0 removed, got %d", removed)
	}
}
