package session

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestFileStorage_RoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "session.json")
	s := NewFileStorage(path, nil)

	rec, err := s.Load(ctx)
	if err != nil || !rec.Empty() {
		t.Fatalf("expected empty record for missing file, got %+v,%v", rec, err)
	}

	want := Record{Token: "tok123", RefreshToken: "ref", User: `{"username":"alice"}`}
	if err := s.Save(ctx, want); err != nil {
		t.Fatalf("save: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Fatalf("expected 0600 permissions, got %v", info.Mode().Perm())
	}

	got, err := s.Load(ctx)
	if err != nil || got != want {
		t.Fatalf("expected %+v, got %+v,%v", want, got, err)
	}

	if err := s.Clear(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if err := s.Clear(ctx); err != nil {
		t.Fatalf("clear of missing file should be a no-op, got %v", err)
	}
	if got, _ := s.Load(ctx); !got.Empty() {
		t.Fatalf("expected empty after clear, got %+v", got)
	}
}

func TestFileStorage_Sealed(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "session.bin")
	var key [32]byte
	copy(key[:], bytes.Repeat([]byte{7}, 32))
	s := NewFileStorage(path, &key)

	want := Record{Token: "secret-token", User: `{"username":"alice"}`}
	if err := s.Save(ctx, want); err != nil {
		t.Fatalf("save: %v", err)
	}
	raw, _ := os.ReadFile(path)
	if bytes.Contains(raw, []byte("secret-token")) {
		t.Fatalf("sealed file leaks the token")
	}
	got, err := s.Load(ctx)
	if err != nil || got != want {
		t.Fatalf("expected %+v, got %+v,%v", want, got, err)
	}

	var other [32]byte
	if _, err := NewFileStorage(path, &other).Load(ctx); !errors.Is(err, ErrSealedSession) {
		t.Fatalf("expected ErrSealedSession with wrong key, got %v", err)
	}
}
