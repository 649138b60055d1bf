package session

import (
	"errors"
	"testing"
	"time"

	"github.com/angelmondragon/storefront-cart/pkg/config"
)

func newTestCodec(t *testing.T, secret string) *CookieCodec {
	t.Helper()
	codec, err := NewCookieCodec(config.SessionConfig{Secret: secret, Issuer: "storefront", TTL: time.Hour})
	if err != nil {
		t.Fatalf("new codec: %v", err)
	}
	return codec
}

func TestCookieCodecRoundTrip(t *testing.T) {
	codec := newTestCodec(t, "secret")
	value, err := codec.Encode("sess-123")
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	id, err := codec.Decode(value)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if id != "sess-123" {
		t.Fatalf("expected sess-123, got %q", id)
	}
	if codec.MaxAge() != 3600 {
		t.Fatalf("unexpected max age %d", codec.MaxAge())
	}
}

func TestCookieCodecRejectsForeignSignature(t *testing.T) {
	value, err := newTestCodec(t, "other-secret").Encode("sess-123")
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if _, err := newTestCodec(t, "secret").Decode(value); !errors.Is(err, ErrInvalidCookie) {
		t.Fatalf("expected invalid cookie, got %v", err)
	}
	if _, err := newTestCodec(t, "secret").Decode("not-a-jwt"); !errors.Is(err, ErrInvalidCookie) {
		t.Fatalf("expected invalid cookie for garbage, got %v", err)
	}
}

func TestCookieCodecRejectsExpired(t *testing.T) {
	codec := newTestCodec(t, "secret")
	issued := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	codec.now = func() time.Time { return issued }
	value, err := codec.Encode("sess-123")
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	codec.now = func() time.Time { return issued.Add(2 * time.Hour) }
	if _, err := codec.Decode(value); !errors.Is(err, ErrInvalidCookie) {
		t.Fatalf("expected expired cookie to be rejected, got %v", err)
	}
}

func TestNewCookieCodecValidation(t *testing.T) {
	if _, err := NewCookieCodec(config.SessionConfig{Issuer: "x", TTL: time.Hour}); err == nil {
		t.Fatalf("expected error without secret")
	}
	if _, err := NewCookieCodec(config.SessionConfig{Secret: "s", TTL: time.Hour}); err == nil {
		t.Fatalf("expected error without issuer")
	}
	if _, err := NewCookieCodec(config.SessionConfig{Secret: "s", Issuer: "x"}); err == nil {
		t.Fatalf("expected error without ttl")
	}
}
