package state

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestMemoryStoreRoundTripIsolatesCopies(t *testing.T) {
	t.Parallel()

	store, err := NewMemoryStore()
	if err != nil {
		t.Fatalf("NewMemoryStore() error = %v", err)
	}
	ctx := context.Background()
	st := sampleState(t, "mem-1")
	if err := store.Save(ctx, st); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	st.Cart.Clear()

	loaded, err := store.Load(ctx, "mem-1")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded.Cart.Quantity(testMascara.ID) != 2 {
		t.Fatalf("loaded quantity = %d, want 2", loaded.Cart.Quantity(testMascara.ID))
	}
	if loaded.Gate.Pending == nil || loaded.Gate.Pending.Utterance != "remove the mascara" {
		t.Fatalf("loaded pending = %+v", loaded.Gate.Pending)
	}
	if !loaded.Cart.Items[0].Product.Price.Equal(testMascara.Price) {
		t.Fatalf("loaded price = %s", loaded.Cart.Items[0].Product.Price)
	}

	loaded.Cart.Clear()
	again, err := store.Load(ctx, "mem-1")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if again.Cart.IsEmpty() {
		t.Fatal("mutating a loaded copy leaked into the store")
	}
}

func TestMemoryStoreNotFoundAndDelete(t *testing.T) {
	t.Parallel()

	store, _ := NewMemoryStore()
	ctx := context.Background()

	if _, err := store.Load(ctx, "missing"); !errors.Is(err, ErrStateNotFound) {
		t.Fatalf("Load() error = %v, want ErrStateNotFound", err)
	}

	if err := store.Save(ctx, sampleState(t, "mem-2")); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if err := store.Delete(ctx, "mem-2"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := store.Load(ctx, "mem-2"); !errors.Is(err, ErrStateNotFound) {
		t.Fatalf("Load() after Delete error = %v, want ErrStateNotFound", err)
	}
}

func TestMemoryStoreExpires(t *testing.T) {
	t.Parallel()

	store, _ := NewMemoryStore(WithTTL(time.Minute))
	now := time.Now()
	store.now = func() time.Time { return now }
	ctx := context.Background()

	if err := store.Save(ctx, sampleState(t, "mem-3")); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	now = now.Add(2 * time.Minute)
	if _, err := store.Load(ctx, "mem-3"); !errors.Is(err, ErrStateNotFound) {
		t.Fatalf("Load() error = %v, want ErrStateNotFound after ttl", err)
	}
}

func TestMemoryStoreRejectsInvalid(t *testing.T) {
	t.Parallel()

	store, _ := NewMemoryStore()
	ctx := context.Background()

	if err := store.Save(ctx, nil); !errors.Is(err, ErrNilSessionState) {
		t.Fatalf("Save(nil) error = %v, want ErrNilSessionState", err)
	}
	if _, err := store.Load(ctx, "  "); !errors.Is(err, ErrInvalidSession) {
		t.Fatalf("Load() error = %v, want ErrInvalidSession", err)
	}
	if _, err := NewMemoryStore(WithTTL(-time.Second)); err == nil {
		t.Fatal("NewMemoryStore() with negative ttl expected error")
	}
}
