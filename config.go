package authrank

import (
	"errors"
	"fmt"
	"strconv"
	"time"
)

// Config defines a public type used by authrank APIs.
//
// Config instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Config struct {
	JWT     JWTConfig
	Store   StoreConfig
	Cache   CacheConfig
	Audit   AuditConfig
	Metrics MetricsConfig
}

/*
====================================
JWT CONFIG
====================================
*/

// JWTConfig carries the four pieces of signing material: kind-specific
// secrets and kind-specific textual expirations ("900s", "15m", "12h", "7d").
//
// JWTConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type JWTConfig struct {
	AccessSecret      []byte
	RefreshSecret     []byte
	AccessExpiration  string
	RefreshExpiration string
	Issuer            string
	Leeway            time.Duration
}

/*
====================================
STORE CONFIG
====================================
*/

// StoreConfig defines the Redis key layout for refresh records, blacklist
// entries, and the rank index.
//
// StoreConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type StoreConfig struct {
	RefreshPrefix   string
	BlacklistPrefix string
	RankIndex       string
}

/*
====================================
CACHE CONFIG
====================================
*/

// CacheConfig controls the cache-aside layer applied to subject lookups.
//
// CacheConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type CacheConfig struct {
	SubjectPrefix string
	SubjectTTL    time.Duration
}

/*
====================================
AUDIT CONFIG
====================================
*/

// AuditConfig defines a public type used by authrank APIs.
//
// AuditConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type AuditConfig struct {
	Enabled    bool
	BufferSize int
	DropIfFull bool
}

/*
====================================
METRICS CONFIG
====================================
*/

// MetricsConfig defines a public type used by authrank APIs.
//
// MetricsConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type MetricsConfig struct {
	Enabled                 bool
	EnableLatencyHistograms bool
}

// DefaultConfig returns the baseline configuration: 15-minute access
// credentials, 7-day refresh credentials, short key prefixes, and a
// 60-second subject cache. Secrets must still be supplied by the caller.
func DefaultConfig() Config {
	return defaultConfig()
}

func defaultConfig() Config {
	return Config{
		JWT: JWTConfig{
			AccessExpiration:  "15m",
			RefreshExpiration: "7d",
		},
		Store: StoreConfig{
			RefreshPrefix:   "arf:",
			BlacklistPrefix: "abl:",
			RankIndex:       "arank",
		},
		Cache: CacheConfig{
			SubjectPrefix: "asub:",
			SubjectTTL:    60 * time.Second,
		},
		Audit: AuditConfig{
			Enabled:    true,
			BufferSize: 256,
			DropIfFull: true,
		},
		Metrics: MetricsConfig{
			Enabled: true,
		},
	}
}

func cloneConfig(cfg Config) Config {
	out := cfg
	out.JWT.AccessSecret = append([]byte(nil), cfg.JWT.AccessSecret...)
	out.JWT.RefreshSecret = append([]byte(nil), cfg.JWT.RefreshSecret...)
	return out
}

// Validate checks the configuration for startup errors. Unparseable
// expirations are rejected here rather than silently defaulted at runtime.
func (c *Config) Validate() error {
	if len(c.JWT.AccessSecret) == 0 {
		return errors.New("JWT.AccessSecret is required")
	}
	if len(c.JWT.RefreshSecret) == 0 {
		return errors.New("JWT.RefreshSecret is required")
	}
	if _, err := ParseExpiration(c.JWT.AccessExpiration); err != nil {
		return fmt.Errorf("JWT.AccessExpiration: %w", err)
	}
	if _, err := ParseExpiration(c.JWT.RefreshExpiration); err != nil {
		return fmt.Errorf("JWT.RefreshExpiration: %w", err)
	}
	if c.Store.RefreshPrefix == "" || c.Store.BlacklistPrefix == "" {
		return errors.New("Store key prefixes are required")
	}
	if c.Store.RefreshPrefix == c.Store.BlacklistPrefix {
		return errors.New("Store.RefreshPrefix and Store.BlacklistPrefix must differ")
	}
	if c.Store.RankIndex == "" {
		return errors.New("Store.RankIndex is required")
	}
	if c.Cache.SubjectPrefix == "" {
		return errors.New("Cache.SubjectPrefix is required")
	}
	if c.Cache.SubjectTTL <= 0 {
		return errors.New("Cache.SubjectTTL must be positive")
	}
	return nil
}

// ParseExpiration converts a textual duration with suffix s, m, h, or d into
// a time.Duration. An unrecognized suffix is a hard error, not a default:
// silently falling back to an arbitrary lifetime would make a typo in the
// refresh expiration indistinguishable from intent.
func ParseExpiration(expiration string) (time.Duration, error) {
	if len(expiration) < 2 {
		return 0, fmt.Errorf("expiration %q too short, want <number><s|m|h|d>", expiration)
	}

	unit := expiration[len(expiration)-1]
	value, err := strconv.Atoi(expiration[:len(expiration)-1])
	if err != nil {
		return 0, fmt.Errorf("expiration %q has non-numeric value: %v", expiration, err)
	}
	if value <= 0 {
		return 0, fmt.Errorf("expiration %q must be positive", expiration)
	}

	base := time.Duration(value)
	switch unit {
	case 's':
		return base * time.Second, nil
	case 'm':
		return base * time.Minute, nil
	case 'h':
		return base * time.Hour, nil
	case 'd':
		return base * 24 * time.Hour, nil
	default:
		return 0, fmt.Errorf("expiration %q has unknown unit %q, want s, m, h, or d", expiration, string(unit))
	}
}
