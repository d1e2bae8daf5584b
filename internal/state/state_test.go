package state

import (
	"os"
	"path/filepath"
	"testing"
)

func TestComputeHash(t *testing.T) {
	tmpDir := t.TempDir()
	file1 := filepath.Join(tmpDir, "a.html")
	file2 := filepath.Join(tmpDir, "b.html")
	file3 := filepath.Join(tmpDir, "a_copy.html")

	os.WriteFile(file1, []byte("<h1>书</h1>"), 0o644)
	os.WriteFile(file2, []byte("<h1>另一本</h1>"), 0o644)
	os.WriteFile(file3, []byte("<h1>书</h1>"), 0o644)

	hash1, err := ComputeHash(file1)
	if err != nil {
		t.Fatalf("ComputeHash failed: %v", err)
	}
	hash2, err := ComputeHash(file2)
	if err != nil {
		t.Fatalf("ComputeHash failed: %v", err)
	}
	hash3, err := ComputeHash(file3)
	if err != nil {
		t.Fatalf("ComputeHash failed: %v", err)
	}

	if hash1 != hash3 {
		t.Errorf("same content should produce same hash: %s != %s", hash1, hash3)
	}
	if hash1 == hash2 {
		t.Error("different content should produce different hash")
	}
	if len(hash1) != 32 {
		t.Errorf("hash should be 32 chars, got %d", len(hash1))
	}
}

func TestComputeHashMissingFile(t *testing.T) {
	if _, err := ComputeHash(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Error("expected error")
	}
}

func TestStore(t *testing.T) {
	store, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	hash := "abcdef1234567890abcdef1234567890"

	if got := store.GetChapter(hash); got != "" {
		t.Errorf("expected empty chapter for unknown hash, got %q", got)
	}

	if err := store.SetChapter(hash, "p12", "第十二章"); err != nil {
		t.Fatalf("SetChapter failed: %v", err)
	}
	if got := store.GetChapter(hash); got != "p12" {
		t.Errorf("expected p12, got %q", got)
	}

	if err := store.Clear(hash); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if got := store.GetChapter(hash); got != "" {
		t.Errorf("expected empty after clear, got %q", got)
	}
}

func TestStorePersistence(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "state")
	hash := "abcdef1234567890abcdef1234567890"

	store1, err := Open(dir)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if err := store1.SetChapter(hash, "p3", "第三章"); err != nil {
		t.Fatal(err)
	}

	store2, err := Open(dir)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if got := store2.GetChapter(hash); got != "p3" {
		t.Errorf("expected p3 from persisted state, got %q", got)
	}
}

func TestStoreCorruptFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, stateFileName), []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	store, err := Open(dir)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if got := store.GetChapter("x"); got != "" {
		t.Errorf("expected empty state, got %q", got)
	}
}
