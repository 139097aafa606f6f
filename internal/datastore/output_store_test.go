package datastore

import (
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
)

func TestOutputStore_WriteAndReadPrevious(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ranking_latest.txt")
	store := NewOutputStore(path, zerolog.Nop())

	text := "1. Alice — 95 pts\n2. Bob — 88 pts\n"
	if err := store.Write(text); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	got, ok := store.ReadPrevious()
	if !ok {
		t.Fatal("expected previous snapshot to exist")
	}
	if got != text {
		t.Errorf("expected %q, got %q", text, got)
	}
}

func TestOutputStore_Write_Overwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ranking_latest.txt")
	store := NewOutputStore(path, zerolog.Nop())

	if err := store.Write("1. Alice — 95 pts\n"); err != nil {
		t.Fatalf("first Write failed: %v", err)
	}
	if err := store.Write("1. Alice — 97 pts\n"); err != nil {
		t.Fatalf("second Write failed: %v", err)
	}

	got, ok := store.ReadPrevious()
	if !ok {
		t.Fatal("expected previous snapshot to exist")
	}
	if got != "1. Alice — 97 pts\n" {
		t.Errorf("expected overwritten content, got %q", got)
	}
}

func TestOutputStore_ReadPrevious_Missing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.txt")
	store := NewOutputStore(path, zerolog.Nop())

	if _, ok := store.ReadPrevious(); ok {
		t.Error("expected no previous snapshot for missing file")
	}
}
