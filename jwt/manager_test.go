package jwt

import (
	"errors"
	"testing"
	"time"
)

func newTestManager(t *testing.T, accessTTL, refreshTTL time.Duration) *Manager {
	t.Helper()

	manager, err := NewManager(Config{
		AccessSecret:  []byte("access-secret-for-tests"),
		RefreshSecret: []byte("refresh-secret-for-tests"),
		AccessTTL:     accessTTL,
		RefreshTTL:    refreshTTL,
	})
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}
	return manager
}

func TestNewManagerRejectsBadConfig(t *testing.T) {
	cases := []struct {
		name string
		cfg  Config
	}{
		{"missing secrets", Config{AccessTTL: time.Minute, RefreshTTL: time.Hour}},
		{"zero access ttl", Config{AccessSecret: []byte("a"), RefreshSecret: []byte("r"), RefreshTTL: time.Hour}},
		{"refresh shorter than access", Config{AccessSecret: []byte("a"), RefreshSecret: []byte("r"), AccessTTL: time.Hour, RefreshTTL: time.Minute}},
		{"excessive leeway", Config{AccessSecret: []byte("a"), RefreshSecret: []byte("r"), AccessTTL: time.Minute, RefreshTTL: time.Hour, Leeway: time.Hour}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := NewManager(tc.cfg); err == nil {
				t.Fatal("expected config error")
			}
		})
	}
}

func TestCreateAndParseAccess(t *testing.T) {
	manager := newTestManager(t, 15*time.Minute, 7*24*time.Hour)

	token, err := manager.CreateAccess("u1")
	if err != nil {
		t.Fatalf("CreateAccess failed: %v", err)
	}

	decoded, err := manager.ParseAccess(token)
	if err != nil {
		t.Fatalf("ParseAccess failed: %v", err)
	}
	if decoded.SubjectID != "u1" {
		t.Fatalf("expected subject u1, got %q", decoded.SubjectID)
	}
	if decoded.Kind != KindAccess {
		t.Fatalf("expected kind access, got %q", decoded.Kind)
	}
	if decoded.Expired {
		t.Fatal("fresh token must not be expired")
	}
	if decoded.ExpiresAt.IsZero() || decoded.IssuedAt.IsZero() {
		t.Fatal("expected populated timestamps")
	}
}

func TestParseRejectsWrongKind(t *testing.T) {
	manager := newTestManager(t, 15*time.Minute, 7*24*time.Hour)

	refresh, err := manager.CreateRefresh("u1")
	if err != nil {
		t.Fatalf("CreateRefresh failed: %v", err)
	}

	// Kind-specific secrets reject cross-kind use before the typ claim is
	// even consulted.
	if _, err := manager.ParseAccess(refresh); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for refresh-as-access, got %v", err)
	}
}

func TestParseRejectsWrongKindSharedSecret(t *testing.T) {
	shared := []byte("one-secret-for-both-kinds")
	manager, err := NewManager(Config{
		AccessSecret:  shared,
		RefreshSecret: shared,
		AccessTTL:     15 * time.Minute,
		RefreshTTL:    7 * 24 * time.Hour,
	})
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}

	refresh, err := manager.CreateRefresh("u1")
	if err != nil {
		t.Fatalf("CreateRefresh failed: %v", err)
	}

	if _, err := manager.ParseAccess(refresh); !errors.Is(err, ErrWrongKind) {
		t.Fatalf("expected ErrWrongKind, got %v", err)
	}
}

func TestParseExpiredTokenDecodesWithExpiredFlag(t *testing.T) {
	manager := newTestManager(t, time.Millisecond, time.Hour)

	token, err := manager.CreateAccess("u1")
	if err != nil {
		t.Fatalf("CreateAccess failed: %v", err)
	}

	time.Sleep(5 * time.Millisecond)

	decoded, err := manager.ParseAccess(token)
	if err != nil {
		t.Fatalf("ParseAccess on expired token failed: %v", err)
	}
	if !decoded.Expired {
		t.Fatal("expected Expired=true")
	}
	if decoded.SubjectID != "u1" {
		t.Fatalf("expected subject preserved on expired decode, got %q", decoded.SubjectID)
	}
}

func TestParseRejectsGarbageAndTamperedTokens(t *testing.T) {
	manager := newTestManager(t, 15*time.Minute, 7*24*time.Hour)

	if _, err := manager.ParseAccess("not-a-jwt"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for garbage, got %v", err)
	}

	token, err := manager.CreateAccess("u1")
	if err != nil {
		t.Fatalf("CreateAccess failed: %v", err)
	}
	tampered := token[:len(token)-4] + "AAAA"
	if _, err := manager.ParseAccess(tampered); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for tampered signature, got %v", err)
	}
}
