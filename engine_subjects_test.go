package authrank

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestSubjectLookupIsCached(t *testing.T) {
	engine, _, provider := defaultTestEngine(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		subject, err := engine.Subject(ctx, "u1")
		if err != nil {
			t.Fatalf("Subject failed: %v", err)
		}
		if subject.ID != "u1" || subject.Name != "alice" {
			t.Fatalf("unexpected subject: %+v", subject)
		}
	}

	if got := provider.GetCalls(); got != 1 {
		t.Fatalf("expected 1 record-store read, got %d", got)
	}

	snap := engine.MetricsSnapshot()
	if snap.Counters[MetricCacheMiss] != 1 || snap.Counters[MetricCacheHit] != 2 {
		t.Fatalf("expected 1 miss and 2 hits, got miss=%d hit=%d",
			snap.Counters[MetricCacheMiss], snap.Counters[MetricCacheHit])
	}
}

func TestSubjectCacheEntryExpires(t *testing.T) {
	cfg := validTestConfig()
	cfg.Cache.SubjectTTL = 10 * time.Second

	provider := newStubProvider(Subject{ID: "u1", Name: "alice", Score: 300})
	engine, mr := newTestEngine(t, cfg, provider)
	ctx := context.Background()

	if _, err := engine.Subject(ctx, "u1"); err != nil {
		t.Fatalf("Subject failed: %v", err)
	}

	mr.FastForward(11 * time.Second)

	if _, err := engine.Subject(ctx, "u1"); err != nil {
		t.Fatalf("Subject after expiry failed: %v", err)
	}
	if got := provider.GetCalls(); got != 2 {
		t.Fatalf("expected re-read after TTL, got %d reads", got)
	}
}

func TestSubjectUnknownNotFound(t *testing.T) {
	engine, _, _ := defaultTestEngine(t)

	if _, err := engine.Subject(context.Background(), "nobody"); !errors.Is(err, ErrSubjectNotFound) {
		t.Fatalf("expected ErrSubjectNotFound, got %v", err)
	}
}

func TestSubjectLookupFailsOpenWhenCacheDown(t *testing.T) {
	engine, mr, provider := defaultTestEngine(t)
	mr.Close()

	subject, err := engine.Subject(context.Background(), "u1")
	if err != nil {
		t.Fatalf("expected fail-open lookup, got %v", err)
	}
	if subject.Name != "alice" {
		t.Fatalf("unexpected subject: %+v", subject)
	}
	if got := provider.GetCalls(); got != 1 {
		t.Fatalf("expected direct record-store read, got %d", got)
	}

	snap := engine.MetricsSnapshot()
	if snap.Counters[MetricCacheBypass] != 1 {
		t.Fatalf("expected 1 cache bypass, got %d", snap.Counters[MetricCacheBypass])
	}
}
