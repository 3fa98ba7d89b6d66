package session

import (
	"context"
	"errors"
	"testing"

	"github.com/redis/go-redis/v9"
)

type mockRedisHashClient struct {
	data    map[string]map[string]string
	lastKey string
	setErr  error
	getErr  error
	delErr  error
}

func newMockRedisHashClient() *mockRedisHashClient {
	return &mockRedisHashClient{data: make(map[string]map[string]string)}
}

func (m *mockRedisHashClient) HSet(ctx context.Context, key string, values ...interface{}) *redis.IntCmd {
	m.lastKey = key
	cmd := redis.NewIntCmd(ctx)
	if m.setErr != nil {
		cmd.SetErr(m.setErr)
		return cmd
	}
	h, ok := m.data[key]
	if !ok {
		h = make(map[string]string)
		m.data[key] = h
	}
	for i := 0; i+1 < len(values); i += 2 {
		h[values[i].(string)] = values[i+1].(string)
	}
	cmd.SetVal(int64(len(values) / 2))
	return cmd
}

func (m *mockRedisHashClient) HGetAll(ctx context.Context, key string) *redis.MapStringStringCmd {
	m.lastKey = key
	cmd := redis.NewMapStringStringCmd(ctx)
	if m.getErr != nil {
		cmd.SetErr(m.getErr)
		return cmd
	}
	out := make(map[string]string)
	for k, v := range m.data[key] {
		out[k] = v
	}
	cmd.SetVal(out)
	return cmd
}

func (m *mockRedisHashClient) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	cmd := redis.NewIntCmd(ctx)
	if m.delErr != nil {
		cmd.SetErr(m.delErr)
		return cmd
	}
	for _, k := range keys {
		m.lastKey = k
		delete(m.data, k)
	}
	cmd.SetVal(int64(len(keys)))
	return cmd
}

func TestRedisStorage_Basics(t *testing.T) {
	ctx := context.Background()
	mock := newMockRedisHashClient()
	s := newRedisStorage(mock, " laptop ")

	want := Record{Token: "tok", RefreshToken: "ref", User: `{"username":"alice"}`}
	if err := s.Save(ctx, want); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if mock.lastKey != "coursecompare:session:laptop" {
		t.Fatalf("unexpected key %q", mock.lastKey)
	}
	if len(mock.data[mock.lastKey]) != 3 {
		t.Fatalf("expected the three session fields, got %+v", mock.data[mock.lastKey])
	}

	got, err := s.Load(ctx)
	if err != nil || got != want {
		t.Fatalf("expected %+v, got %+v,%v", want, got, err)
	}

	if err := s.Clear(ctx); err != nil {
		t.Fatalf("clear failed: %v", err)
	}
	got, err = s.Load(ctx)
	if err != nil || !got.Empty() {
		t.Fatalf("expected empty after clear, got %+v,%v", got, err)
	}
}

func TestRedisStorage_DefaultProfileAndErrors(t *testing.T) {
	ctx := context.Background()
	mock := &mockRedisHashClient{
		data:   make(map[string]map[string]string),
		setErr: errors.New("set failed"),
		getErr: errors.New("get failed"),
		delErr: errors.New("del failed"),
	}
	s := newRedisStorage(mock, "")
	if s.key != "coursecompare:session:default" {
		t.Fatalf("unexpected default key %q", s.key)
	}
	if err := s.Save(ctx, Record{Token: "t"}); err == nil {
		t.Fatalf("expected save error")
	}
	if _, err := s.Load(ctx); err == nil {
		t.Fatalf("expected load error")
	}
	if err := s.Clear(ctx); err == nil {
		t.Fatalf("expected clear error")
	}
	if NewRedisStorage(nil, "x") != nil {
		t.Fatalf("expected nil storage for nil client")
	}
}
