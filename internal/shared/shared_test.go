package shared

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestGenerateID(t *testing.T) {
	a := GenerateID()
	b := GenerateID()

	if a == b {
		t.Error("GenerateID returned duplicate values")
	}
	if len(a) != 36 {
		t.Errorf("GenerateID() = %q, want uuid format", a)
	}
}

func TestNewRunID(t *testing.T) {
	id := NewRunID()

	parts := strings.Split(id, "_")
	if len(parts) != 3 {
		t.Fatalf("NewRunID() = %q, want timestamp_time_suffix", id)
	}
	if len(parts[0]) != 8 || len(parts[1]) != 6 {
		t.Errorf("timestamp prefix = %q_%q", parts[0], parts[1])
	}
	if len(parts[2]) != 8 {
		t.Errorf("uuid suffix = %q", parts[2])
	}
}

func TestWriteFileAtomic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "out.json")

	if err := WriteFileAtomic(path, []byte("first"), 0644); err != nil {
		t.Fatalf("WriteFileAtomic: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil || string(data) != "first" {
		t.Fatalf("read back = %q, %v", data, err)
	}

	// Overwrite in place.
	if err := WriteFileAtomic(path, []byte("second"), 0644); err != nil {
		t.Fatalf("WriteFileAtomic overwrite: %v", err)
	}
	data, _ = os.ReadFile(path)
	if string(data) != "second" {
		t.Errorf("after overwrite = %q", data)
	}

	// No temp files left behind.
	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("directory holds %d entries after writes", len(entries))
	}
}

func TestNewLoggerDefaultsWriter(t *testing.T) {
	if logger := NewLogger(nil); logger == nil {
		t.Fatal("NewLogger(nil) returned nil")
	}
}
