package session

import (
	"context"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
)

func TestPgStorage_RoundTrip(t *testing.T) {
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer pool.Close()

	s := NewPgStorage(pool, "test-"+t.Name())
	if err := s.EnsureSchema(ctx); err != nil {
		t.Fatalf("ensure schema: %v", err)
	}
	defer s.Clear(ctx)

	want := Record{Token: "tok", RefreshToken: "ref", User: `{"username":"alice"}`}
	if err := s.Save(ctx, want); err != nil {
		t.Fatalf("save: %v", err)
	}
	want.Token = "tok2"
	if err := s.Save(ctx, want); err != nil {
		t.Fatalf("second save: %v", err)
	}
	got, err := s.Load(ctx)
	if err != nil || got != want {
		t.Fatalf("expected %+v, got %+v,%v", want, got, err)
	}
	if err := s.Clear(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if got, _ := s.Load(ctx); !got.Empty() {
		t.Fatalf("expected empty after clear, got %+v", got)
	}
}
