package messaging

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
)

func TestMemoryClientRoundTrip(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxRetries = 0
	client, err := NewClient(cfg)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	defer client.Close()

	got := make(chan string, 1)
	client.Subscribe(TopicEventInteraction, "test-handler", func(msg *message.Message) error {
		got <- string(msg.Payload)
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = client.Run(ctx) }()

	select {
	case <-client.Running():
	case <-time.After(3 * time.Second):
		t.Fatal("router did not start")
	}

	if err := client.Publish(ctx, TopicEventInteraction, []byte(`{"event_id":"e1"}`)); err != nil {
		t.Fatalf("Publish: %v", err)
	}

	select {
	case payload := <-got:
		if payload != `{"event_id":"e1"}` {
			t.Fatalf("payload = %s", payload)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("message not delivered")
	}
}

func TestUnknownDriver(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Driver = "kafka"
	if _, err := NewClient(cfg); err == nil {
		t.Fatal("expected error for unknown driver")
	}
}

func TestIsRetryable(t *testing.T) {
	boom := errors.New("boom")
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"plain", boom, true},
		{"non-retryable", NewNonRetryableError(boom), false},
		{"wrapped non-retryable", fmt.Errorf("handle: %w", NewNonRetryableError(boom)), false},
		{"invalid payload", fmt.Errorf("decode: %w", ErrInvalidPayload), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsRetryable(tt.err); got != tt.want {
				t.Fatalf("IsRetryable = %v, want %v", got, tt.want)
			}
		})
	}
	if NewNonRetryableError(nil) != nil {
		t.Fatal("wrapping nil should stay nil")
	}
}

func TestNonRetryableIsNotRetried(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxRetries = 3
	cfg.InitialInterval = time.Millisecond
	cfg.MaxInterval = time.Millisecond
	client, err := NewClient(cfg)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	defer client.Close()

	var calls atomic.Int32
	done := make(chan struct{}, 8)
	client.Subscribe(TopicEventDeleted, "bad-payload", func(msg *message.Message) error {
		calls.Add(1)
		done <- struct{}{}
		return NewNonRetryableError(ErrInvalidPayload)
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = client.Run(ctx) }()
	<-client.Running()

	if err := client.Publish(ctx, TopicEventDeleted, []byte(`not json`)); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	select {
	case <-done:
	case <-time.After(3 * time.Second):
		t.Fatal("message not delivered")
	}

	time.Sleep(50 * time.Millisecond)
	if got := calls.Load(); got != 1 {
		t.Fatalf("handler called %d times, want 1", got)
	}
}
