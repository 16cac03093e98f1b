package redis

import (
	"context"
	"testing"
	"time"
)

func TestSlotGetMissing(t *testing.T) {
	client, mr := newTestRedisClient(t)
	defer mr.Close()
	defer client.Close()

	slot := NewSlot(client, "goexpense:")

	_, found, err := slot.Get(context.Background(), "transactions")
	if err != nil || found {
		t.Fatalf("expected missing key, got found=%v err=%v", found, err)
	}
}

func TestSlotSetAndGet(t *testing.T) {
	client, mr := newTestRedisClient(t)
	defer mr.Close()
	defer client.Close()

	slot := NewSlot(client, "goexpense:")
	ctx := context.Background()

	if err := slot.Set(ctx, "transactions", `[{"id":"1","title":"Salary","amount":20000}]`); err != nil {
		t.Fatalf("set failed: %v", err)
	}

	val, found, err := slot.Get(ctx, "transactions")
	if err != nil || !found {
		t.Fatalf("get failed: found=%v err=%v", found, err)
	}
	if val != `[{"id":"1","title":"Salary","amount":20000}]` {
		t.Fatalf("unexpected value %s", val)
	}

	raw, err := mr.Get("goexpense:transactions")
	if err != nil || raw != val {
		t.Fatalf("expected prefixed key in redis, got %q err=%v", raw, err)
	}

	// values never expire
	mr.FastForward(365 * 24 * time.Hour)
	if _, found, _ := slot.Get(ctx, "transactions"); !found {
		t.Fatalf("expected value to persist")
	}
}

func TestSlotServerDown(t *testing.T) {
	client, mr := newTestRedisClient(t)
	defer client.Close()
	mr.Close()

	slot := NewSlot(client, "")
	if _, _, err := slot.Get(context.Background(), "transactions"); err == nil {
		t.Fatalf("expected error when redis is down")
	}
}
