package asset

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"
)

// TestLibraryAddGet verifies registered sounds are returned by name
func TestLibraryAddGet(t *testing.T) {
	lib := NewLibrary("")
	blip := SoundFromSamples("blip", testRate, constantFrames(10, 0.1))
	lib.Add(blip)
	lib.Add(nil)

	got, err := lib.Get("blip")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got != blip {
		t.Error("Expected registered sound")
	}
	if lib.Len() != 1 {
		t.Errorf("Expected 1 sound, got %d", lib.Len())
	}

	if _, err := lib.Get("missing"); !errors.Is(err, ErrUnknownSound) {
		t.Errorf("Expected ErrUnknownSound, got %v", err)
	}
}

// TestLibraryResolvesFromRoot verifies on-demand decoding and caching
func TestLibraryResolvesFromRoot(t *testing.T) {
	dir := t.TempDir()
	writeWAV(t, filepath.Join(dir, "laser.wav"), testRate, constantFrames(100, 0.2))

	lib := NewLibrary(dir)
	first, err := lib.Get("laser")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if first.Len() != 100 {
		t.Errorf("Expected 100 frames, got %d", first.Len())
	}

	// Cached entry survives file removal
	if err := os.Remove(filepath.Join(dir, "laser.wav")); err != nil {
		t.Fatalf("remove: %v", err)
	}
	second, err := lib.Get("laser")
	if err != nil || second != first {
		t.Errorf("Expected cached sound, got %v (%v)", second, err)
	}

	if _, err := lib.Get("explosion"); !errors.Is(err, ErrUnknownSound) {
		t.Errorf("Expected ErrUnknownSound, got %v", err)
	}
}

// TestLibraryPreload verifies bulk loading skips and reports bad files
func TestLibraryPreload(t *testing.T) {
	dir := t.TempDir()
	writeWAV(t, filepath.Join(dir, "b.wav"), testRate, constantFrames(10, 0.1))
	writeWAV(t, filepath.Join(dir, "a.wav"), testRate, constantFrames(10, 0.1))
	if err := os.WriteFile(filepath.Join(dir, "broken.wav"), []byte("not audio"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	lib := NewLibrary(dir)
	n, err := lib.Preload()
	if n != 2 {
		t.Errorf("Expected 2 loaded, got %d", n)
	}
	if !errors.Is(err, ErrDecode) {
		t.Errorf("Expected ErrDecode for broken file, got %v", err)
	}
	if names := lib.Names(); !slices.Equal(names, []string{"a", "b"}) {
		t.Errorf("Expected [a b], got %v", names)
	}
}

// TestLibraryLoad verifies explicit loads cache by base name and report format errors
func TestLibraryLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "door.wav")
	writeWAV(t, path, testRate, constantFrames(20, 0.3))

	lib := NewLibrary("")
	s, err := lib.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if got, err := lib.Get("door"); err != nil || got != s {
		t.Errorf("Expected cached door, got %v (%v)", got, err)
	}

	if _, err := lib.Load(filepath.Join(dir, "door.flac")); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("Expected ErrUnsupportedFormat, got %v", err)
	}
	if lib.Len() != 1 {
		t.Errorf("Expected 1 sound, got %d", lib.Len())
	}
}
