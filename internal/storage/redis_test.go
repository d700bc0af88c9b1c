package storage

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

type fakeRedis struct {
	data map[string]string
	err  error
}

func (f *fakeRedis) Get(ctx context.Context, key string) *redis.StringCmd {
	if f.err != nil {
		return redis.NewStringResult("", f.err)
	}
	v, ok := f.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (f *fakeRedis) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	if f.err != nil {
		return redis.NewStatusResult("", f.err)
	}
	f.data[key] = string(value.([]byte))
	return redis.NewStatusResult("OK", nil)
}

func TestRedis_ReadWrite(t *testing.T) {
	r := NewRedis(&fakeRedis{data: map[string]string{}})
	ctx := context.Background()

	if _, err := r.Read(ctx, "k"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing: got %v, want ErrNotFound", err)
	}
	if err := r.Write(ctx, "k", []byte(`{"ok":true}`)); err != nil {
		t.Fatalf("write: %v", err)
	}
	got, err := r.Read(ctx, "k")
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(got) != `{"ok":true}` {
		t.Errorf("value: got %s", got)
	}
}

func TestRedis_PropagatesErrors(t *testing.T) {
	r := NewRedis(&fakeRedis{err: errors.New("connection refused")})
	if _, err := r.Read(context.Background(), "k"); err == nil || errors.Is(err, ErrNotFound) {
		t.Errorf("read err: got %v", err)
	}
	if err := r.Write(context.Background(), "k", []byte(`1`)); err == nil {
		t.Error("expected write error")
	}
}
