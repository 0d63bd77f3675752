package mq

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"campus-connect/app/event/model"
	"campus-connect/common/messaging"
)

type countingInvalidator struct {
	calls atomic.Int32
	hit   chan struct{}
}

func (c *countingInvalidator) Invalidate(context.Context) error {
	c.calls.Add(1)
	c.hit <- struct{}{}
	return nil
}

func startConsumer(t *testing.T) (*Producer, *countingInvalidator) {
	t.Helper()
	cfg := messaging.DefaultConfig()
	cfg.MaxRetries = 0
	client, err := messaging.NewClient(cfg)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	inv := &countingInvalidator{hit: make(chan struct{}, 16)}
	c := NewConsumer(client, inv)
	go c.Start()
	t.Cleanup(c.Stop)

	select {
	case <-client.Running():
	case <-time.After(3 * time.Second):
		t.Fatal("router did not start")
	}
	return NewProducer(client), inv
}

func waitHit(t *testing.T, inv *countingInvalidator) {
	t.Helper()
	select {
	case <-inv.hit:
	case <-time.After(3 * time.Second):
		t.Fatal("cache was not invalidated")
	}
}

func TestInteractionInvalidatesTrending(t *testing.T) {
	p, inv := startConsumer(t)
	ctx := context.Background()

	p.Interaction(ctx, "e1", "u1", model.ActionRSVP)
	waitHit(t, inv)

	p.EventCreated(ctx, model.Event{ID: "e2", Title: "New"})
	waitHit(t, inv)

	p.EventDeleted(ctx, "e2")
	waitHit(t, inv)
}

func TestNonScoringInteractionIgnored(t *testing.T) {
	p, inv := startConsumer(t)
	ctx := context.Background()

	p.Interaction(ctx, "e1", "u1", model.ActionComment)
	p.Interaction(ctx, "e1", "u1", model.ActionCheckIn)
	p.Interaction(ctx, "e1", "u1", model.ActionLike)
	waitHit(t, inv)

	time.Sleep(100 * time.Millisecond)
	if got := inv.calls.Load(); got != 1 {
		t.Fatalf("invalidations = %d, want 1", got)
	}
}

func TestNilProducerIsSafe(t *testing.T) {
	var p *Producer
	p.Interaction(context.Background(), "e1", "u1", model.ActionLike)
	p.EventCreated(context.Background(), model.Event{})
	p.EventDeleted(context.Background(), "e1")

	if NewProducer(nil) != nil {
		t.Fatal("NewProducer(nil) should return nil")
	}
}
