package state

import (
	"os"
	"path/filepath"
	"testing"
)

func TestComputeHash(t *testing.T) {
	tmpDir := t.TempDir()
	file1 := filepath.Join(tmpDir, "test1.txt")
	file2 := filepath.Join(tmpDir, "test2.txt")
	file3 := filepath.Join(tmpDir, "test1_copy.txt")

	os.WriteFile(file1, []byte("Hello, World!"), 0644)
	os.WriteFile(file2, []byte("Different content"), 0644)
	os.WriteFile(file3, []byte("Hello, World!"), 0644) // Same as file1

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

	// Same content = same hash
	if hash1 != hash3 {
		t.Errorf("Same content should produce same hash: %s != %s", hash1, hash3)
	}
	// Different content = different hash
	if hash1 == hash2 {
		t.Errorf("Different content should produce different hash")
	}
	// Hash should be 32 hex chars
	if len(hash1) != 32 {
		t.Errorf("Hash should be 32 chars, got %d", len(hash1))
	}
}

func TestComputeHashSmallFile(t *testing.T) {
	tmpDir := t.TempDir()
	smallFile := filepath.Join(tmpDir, "small.txt")
	os.WriteFile(smallFile, []byte("tiny"), 0644)

	hash, err := ComputeHash(smallFile)
	if err != nil {
		t.Fatalf("ComputeHash failed on small file: %v", err)
	}
	if len(hash) != 32 {
		t.Errorf("Hash should be 32 chars even for small files, got %d", len(hash))
	}
}

func TestHashTextMatchesFile(t *testing.T) {
	content := "Hello, World!"
	tmpDir := t.TempDir()
	file := filepath.Join(tmpDir, "test.txt")
	os.WriteFile(file, []byte(content), 0644)

	fileHash, err := ComputeHash(file)
	if err != nil {
		t.Fatalf("ComputeHash failed: %v", err)
	}
	if textHash := HashText(content); textHash != fileHash {
		t.Errorf("HashText = %s, ComputeHash = %s, want equal", textHash, fileHash)
	}
}

func TestStore(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("XDG_STATE_HOME", tmpDir)

	store, err := NewStore()
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}

	testHash := "abcdef1234567890abcdef1234567890"

	// Unknown hash reports ok=false
	if _, ok := store.Position(testHash); ok {
		t.Error("expected ok=false for unknown hash")
	}

	// SetPosition/Position roundtrip
	want := Position{Chapter: 3, TokenIndex: 1234}
	if err := store.SetPosition(testHash, want); err != nil {
		t.Fatalf("SetPosition failed: %v", err)
	}
	got, ok := store.Position(testHash)
	if !ok || got != want {
		t.Errorf("Position = %+v, %v, want %+v, true", got, ok, want)
	}

	// Clear removes entry
	if err := store.Clear(testHash); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if _, ok := store.Position(testHash); ok {
		t.Error("expected ok=false after clear")
	}
}

func TestStorePersistence(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("XDG_STATE_HOME", tmpDir)

	testHash := "abcdef1234567890abcdef1234567890"

	store1, err := NewStore()
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}
	store1.SetPosition(testHash, Position{Chapter: 1, TokenIndex: 5678})

	// A new store instance loads the persisted data
	store2, err := NewStore()
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}
	got, ok := store2.Position(testHash)
	if !ok || got.Chapter != 1 || got.TokenIndex != 5678 {
		t.Errorf("persisted position = %+v, %v", got, ok)
	}
}
