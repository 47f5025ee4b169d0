package cron

import (
	"context"
	"testing"
	"time"
)

type stubLockStore struct {
	data map[string]string
}

func newStubLockStore() *stubLockStore {
	return &stubLockStore{data: map[string]string{}}
}

func (s *stubLockStore) SetNX(_ context.Context, key string, value any, _ time.Duration) (bool, error) {
	if _, ok := s.data[key]; ok {
		return false, nil
	}
	s.data[key] = value.(string)
	return true, nil
}

func (s *stubLockStore) Get(_ context.Context, key string) (string, error) {
	return s.data[key], nil
}

func (s *stubLockStore) Del(_ context.Context, keys ...string) error {
	for _, key := range keys {
		delete(s.data, key)
	}
	return nil
}

func TestRedisLockAcquireRelease(t *testing.T) {
	ctx := context.Background()
	store := newStubLockStore()

	lock, err := NewRedisLock(store, "sf:lock:cron", time.Minute)
	if err != nil {
		t.Fatalf("construct lock: %v", err)
	}

	ok, err := lock.Acquire(ctx)
	if err != nil || !ok {
		t.Fatalf("expected first acquire to win, ok=%v err=%v", ok, err)
	}

	other, err := NewRedisLock(store, "sf:lock:cron", time.Minute)
	if err != nil {
		t.Fatalf("construct second lock: %v", err)
	}
	ok, err = other.Acquire(ctx)
	if err != nil {
		t.Fatalf("acquire: %v", err)
	}
	if ok {
		t.Fatalf("second holder should not acquire a held lock")
	}

	if err := lock.Release(ctx); err != nil {
		t.Fatalf("release: %v", err)
	}

	ok, err = other.Acquire(ctx)
	if err != nil || !ok {
		t.Fatalf("expected acquire after release, ok=%v err=%v", ok, err)
	}
}

func TestRedisLockReleaseOnlyWhenOwner(t *testing.T) {
	ctx := context.Background()
	store := newStubLockStore()

	first, _ := NewRedisLock(store, "sf:lock:cron", time.Minute)
	second, _ := NewRedisLock(store, "sf:lock:cron", time.Minute)

	if ok, _ := first.Acquire(ctx); !ok {
		t.Fatalf("first acquire should succeed")
	}
	// second never acquired; releasing must not free the first holder's lock
	if err := second.Release(ctx); err != nil {
		t.Fatalf("release: %v", err)
	}
	if ok, _ := second.Acquire(ctx); ok {
		t.Fatalf("lock should still be held by first owner")
	}
}
