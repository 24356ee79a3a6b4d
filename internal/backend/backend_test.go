package backend

import (
	"testing"

	"kharcha/internal/config"
)

func TestTypeIsValid(t *testing.T) {
	for _, valid := range []Type{FileBackend, SQLiteBackend, MemoryBackend} {
		if !valid.IsValid() {
			t.Fatalf("%s should be valid", valid)
		}
	}
	if Type("redis").IsValid() {
		t.Fatalf("redis should be invalid")
	}
}

func TestOpenMemory(t *testing.T) {
	result, err := Open(&config.Config{DataBackend: "memory"}, nil)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if result.Store == nil {
		t.Fatalf("nil store")
	}
	if result.Cleanup != nil {
		t.Fatalf("memory backend needs no cleanup")
	}
}

func TestOpenFile(t *testing.T) {
	result, err := Open(&config.Config{DataBackend: "file", DataDir: t.TempDir()}, nil)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if result.Store == nil {
		t.Fatalf("nil store")
	}
}

func TestOpenUnknown(t *testing.T) {
	if _, err := Open(&config.Config{DataBackend: "redis"}, nil); err == nil {
		t.Fatalf("expected error")
	}
}
