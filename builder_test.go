package authrank

import (
	"strings"
	"testing"
)

func TestBuildRequiresRedisAndProvider(t *testing.T) {
	if _, err := New().WithConfig(validTestConfig()).Build(); err == nil {
		t.Fatal("expected error without redis client")
	}

	_, client := newTestRedis(t)
	if _, err := New().WithConfig(validTestConfig()).WithRedis(client).Build(); err == nil {
		t.Fatal("expected error without subject provider")
	}
}

func TestBuildRejectsUnparseableExpiration(t *testing.T) {
	_, client := newTestRedis(t)

	cfg := validTestConfig()
	cfg.JWT.AccessExpiration = "3600x"

	_, err := New().
		WithConfig(cfg).
		WithRedis(client).
		WithSubjectProvider(newStubProvider()).
		Build()
	if err == nil {
		t.Fatal("expected startup error for unknown expiration unit")
	}
	if !strings.Contains(err.Error(), "AccessExpiration") {
		t.Fatalf("expected error to name the offending field, got %v", err)
	}
}

func TestBuilderIsSingleUse(t *testing.T) {
	_, client := newTestRedis(t)

	builder := New().
		WithConfig(validTestConfig()).
		WithRedis(client).
		WithSubjectProvider(newStubProvider(Subject{ID: "u1"}))

	engine, err := builder.Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	defer engine.Close()

	if _, err := builder.Build(); err == nil {
		t.Fatal("expected error on second Build")
	}
}

func TestBuildDefaultsApply(t *testing.T) {
	_, client := newTestRedis(t)

	cfg := DefaultConfig()
	cfg.JWT.AccessSecret = []byte("access-secret-for-tests")
	cfg.JWT.RefreshSecret = []byte("refresh-secret-for-tests")

	engine, err := New().
		WithConfig(cfg).
		WithRedis(client).
		WithSubjectProvider(newStubProvider(Subject{ID: "u1"})).
		Build()
	if err != nil {
		t.Fatalf("Build with defaults failed: %v", err)
	}
	defer engine.Close()

	if engine.config.Store.RefreshPrefix != "arf:" {
		t.Fatalf("unexpected refresh prefix %q", engine.config.Store.RefreshPrefix)
	}
	if !engine.metrics.Enabled() {
		t.Fatal("expected metrics enabled by default")
	}
}
