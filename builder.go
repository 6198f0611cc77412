package authrank

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"

	"github.com/moinlabs/authrank/cache"
	"github.com/moinlabs/authrank/jwt"
	"github.com/moinlabs/authrank/store"
)

// Builder assembles an [Engine] from a config, a Redis client, and a
// [SubjectProvider]. A Builder is single-use.
type Builder struct {
	config Config
	redis  redis.UniversalClient

	subjects  SubjectProvider
	auditSink AuditSink

	built bool
}

// New returns a Builder preloaded with [DefaultConfig].
func New() *Builder {
	return &Builder{
		config: defaultConfig(),
	}
}

// WithConfig replaces the entire configuration.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cloneConfig(cfg)
	return b
}

// WithRedis sets the shared key-value store client.
func (b *Builder) WithRedis(client redis.UniversalClient) *Builder {
	b.redis = client
	return b
}

// WithSubjectProvider sets the authoritative record store adapter.
func (b *Builder) WithSubjectProvider(sp SubjectProvider) *Builder {
	b.subjects = sp
	return b
}

// WithAuditSink sets the destination for audit events. Without a sink,
// events are dispatched to a [NoOpSink].
func (b *Builder) WithAuditSink(sink AuditSink) *Builder {
	b.auditSink = sink
	return b
}

// WithMetricsEnabled toggles metric collection.
func (b *Builder) WithMetricsEnabled(enabled bool) *Builder {
	b.config.Metrics.Enabled = enabled
	return b
}

// WithLatencyHistograms toggles the verify-latency histogram.
func (b *Builder) WithLatencyHistograms(enabled bool) *Builder {
	b.config.Metrics.EnableLatencyHistograms = enabled
	return b
}

// Build validates the configuration and wires the engine. Construction is
// allocation-only; no store I/O happens until the first Engine call.
func (b *Builder) Build() (*Engine, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}
	b.built = true

	if b.redis == nil {
		return nil, errors.New("redis client is required")
	}
	if b.subjects == nil {
		return nil, errors.New("subject provider is required")
	}

	cfg := b.config
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	// Validate guarantees both expirations parse.
	accessTTL, _ := ParseExpiration(cfg.JWT.AccessExpiration)
	refreshTTL, _ := ParseExpiration(cfg.JWT.RefreshExpiration)

	manager, err := jwt.NewManager(jwt.Config{
		AccessSecret:  cfg.JWT.AccessSecret,
		RefreshSecret: cfg.JWT.RefreshSecret,
		AccessTTL:     accessTTL,
		RefreshTTL:    refreshTTL,
		Issuer:        cfg.JWT.Issuer,
		Leeway:        cfg.JWT.Leeway,
	})
	if err != nil {
		return nil, err
	}

	engine := &Engine{
		config:     cfg,
		store:      store.New(b.redis),
		jwtManager: manager,
		subjects:   b.subjects,
		audit:      newAuditDispatcher(cfg.Audit, b.auditSink),
		metrics:    NewMetrics(cfg.Metrics),
	}

	engine.cache = cache.New(engine.store, cache.WithHooks(cache.Hooks{
		OnHit:  func(string) { engine.metricInc(MetricCacheHit) },
		OnMiss: func(string) { engine.metricInc(MetricCacheMiss) },
		OnStoreError: func(op, key string, err error) {
			if op == "get" {
				engine.metricInc(MetricCacheBypass)
			}
			engine.auditEmit(context.Background(), AuditEvent{
				EventType: AuditCacheStoreError,
				Error:     err.Error(),
				Metadata:  map[string]string{"op": op, "key": key},
			})
		},
	}))

	engine.getSubject = cache.Wrap(engine.cache, cfg.Cache.SubjectPrefix, cfg.Cache.SubjectTTL,
		func(ctx context.Context, id string) (Subject, error) {
			return engine.subjects.GetSubjectByID(ctx, id)
		})

	return engine, nil
}
