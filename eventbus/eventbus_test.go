package eventbus

import (
	"context"
	"testing"
)

type testEvent struct{ N int }

func TestPublishSubscribe(t *testing.T) {
	Use(New())
	defer Use(nil)

	var got []int
	unsubscribe := Subscribe(func(ctx context.Context, e testEvent) {
		got = append(got, e.N)
	})

	Publish(context.Background(), testEvent{N: 1})
	Publish(context.Background(), testEvent{N: 2})
	unsubscribe()
	Publish(context.Background(), testEvent{N: 3})

	if len(got) != 2 || got[0] != 1 || got[1] != 2 {
		t.Fatalf("unexpected events: %v", got)
	}
}

func TestPublishSnapshotsHandlers(t *testing.T) {
	Use(New())
	defer Use(nil)

	var calls int
	var unsubscribe func()
	unsubscribe = Subscribe(func(ctx context.Context, e testEvent) {
		calls++
		unsubscribe()
	})

	Publish(context.Background(), testEvent{N: 1})
	Publish(context.Background(), testEvent{N: 2})

	if calls != 1 {
		t.Fatalf("expected one delivery, got %d", calls)
	}
}

func TestPublishWithoutBus(t *testing.T) {
	Use(nil)
	Publish(context.Background(), testEvent{N: 1}) // must not panic
	if unsubscribe := Subscribe(func(context.Context, testEvent) {}); unsubscribe == nil {
		t.Fatal("expected a no-op unsubscribe")
	}
}
