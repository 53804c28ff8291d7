package token

import (
	"errors"
	"regexp"
	"strings"
	"testing"
	"time"
)

// testSecret is the standard base64 encoding of the unit-test HMAC key.
const testSecret = "dGVzdC1zaWduaW5nLWtleS1mb3ItdW5pdC10ZXN0cw=="

const otherSecret = "YW5vdGhlci1rZXktZW50aXJlbHktZGlmZmVyZW50ISE="

func newTestCodec(t *testing.T, ttl time.Duration) *Codec {
	t.Helper()

	codec, err := NewCodec(Config{Secret: testSecret, TTL: ttl})
	if err != nil {
		t.Fatalf("NewCodec() returned error: %v", err)
	}
	return codec
}

func TestNewCodec(t *testing.T) {
	t.Parallel()

	t.Run("rejects a secret that is not valid base64", func(t *testing.T) {
		t.Parallel()

		if _, err := NewCodec(Config{Secret: "not base64 !!!", TTL: time.Minute}); err == nil {
			t.Fatal("NewCodec() accepted an undecodable secret")
		}
	})

	t.Run("rejects an empty secret", func(t *testing.T) {
		t.Parallel()

		if _, err := NewCodec(Config{Secret: "", TTL: time.Minute}); err == nil {
			t.Fatal("NewCodec() accepted an empty secret")
		}
	})

	t.Run("defaults the TTL when not configured", func(t *testing.T) {
		t.Parallel()

		codec, err := NewCodec(Config{Secret: testSecret})
		if err != nil {
			t.Fatalf("NewCodec() returned error: %v", err)
		}
		if got, want := codec.TTL(), 850000*time.Millisecond; got != want {
			t.Errorf("TTL() = %v, want %v", got, want)
		}
	})
}

func TestCodecRoundTrip(t *testing.T) {
	t.Parallel()

	codec := newTestCodec(t, 850*time.Second)

	t.Run("extracts the minted subject", func(t *testing.T) {
		t.Parallel()

		for _, subject := range []string{"batman@waynecorp.com", "clark_k@dailyplanet.net", "a@b"} {
			minted, err := codec.Mint(subject)
			if err != nil {
				t.Fatalf("Mint(%q) returned error: %v", subject, err)
			}

			got, err := codec.ExtractSubject(minted)
			if err != nil {
				t.Fatalf("ExtractSubject() returned error: %v", err)
			}
			if got != subject {
				t.Errorf("ExtractSubject() = %q, want %q", got, subject)
			}
		}
	})

	t.Run("produces a three-part compact token", func(t *testing.T) {
		t.Parallel()

		minted, err := codec.Mint("batman@waynecorp.com")
		if err != nil {
			t.Fatalf("Mint() returned error: %v", err)
		}
		if matched := regexp.MustCompile(`^[\w-]+\.[\w-]+\.[\w-]+$`).MatchString(minted); !matched {
			t.Errorf("Mint() = %q, not a three-part compact token", minted)
		}
	})

	t.Run("carries issued-at, expiry and the informational claim", func(t *testing.T) {
		t.Parallel()

		issued := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
		frozen := codec.WithClock(func() time.Time { return issued })

		minted, err := frozen.Mint("batman@waynecorp.com")
		if err != nil {
			t.Fatalf("Mint() returned error: %v", err)
		}

		claims, err := frozen.Verify(minted)
		if err != nil {
			t.Fatalf("Verify() returned error: %v", err)
		}
		if !claims.IssuedAt.Time.Equal(issued) {
			t.Errorf("IssuedAt = %v, want %v", claims.IssuedAt.Time, issued)
		}
		if want := issued.Add(850 * time.Second); !claims.ExpiresAt.Time.Equal(want) {
			t.Errorf("ExpiresAt = %v, want %v", claims.ExpiresAt.Time, want)
		}
		if claims.Message == "" {
			t.Error("informational claim is missing")
		}
	})
}

func TestCodecExpiry(t *testing.T) {
	t.Parallel()

	issued := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	ttl := 850 * time.Second
	codec := newTestCodec(t, ttl).WithClock(func() time.Time { return issued })

	minted, err := codec.Mint("batman@waynecorp.com")
	if err != nil {
		t.Fatalf("Mint() returned error: %v", err)
	}

	t.Run("verifies before the expiry instant", func(t *testing.T) {
		t.Parallel()

		early := codec.WithClock(func() time.Time { return issued.Add(ttl - time.Second) })
		if _, err := early.Verify(minted); err != nil {
			t.Errorf("Verify() just before expiry returned error: %v", err)
		}
	})

	t.Run("rejects at and after the expiry instant", func(t *testing.T) {
		t.Parallel()

		for _, offset := range []time.Duration{ttl, ttl + time.Second, 24 * time.Hour} {
			late := codec.WithClock(func() time.Time { return issued.Add(offset) })
			if _, err := late.Verify(minted); !errors.Is(err, ErrInvalidToken) {
				t.Errorf("Verify() at +%v: error = %v, want ErrInvalidToken", offset, err)
			}
		}
	})
}

func TestCodecVerifyRejects(t *testing.T) {
	t.Parallel()

	codec := newTestCodec(t, 850*time.Second)

	minted, err := codec.Mint("batman@waynecorp.com")
	if err != nil {
		t.Fatalf("Mint() returned error: %v", err)
	}

	t.Run("any single-character mutation of the signature", func(t *testing.T) {
		t.Parallel()

		lastDot := strings.LastIndex(minted, ".")
		signature := minted[lastDot+1:]

		for i := range signature {
			mutated := []byte(signature)
			if mutated[i] == 'A' {
				mutated[i] = 'B'
			} else {
				mutated[i] = 'A'
			}
			tampered := minted[:lastDot+1] + string(mutated)
			if tampered == minted {
				continue
			}
			if _, err := codec.Verify(tampered); !errors.Is(err, ErrInvalidToken) {
				t.Fatalf("Verify() accepted a token with signature byte %d mutated", i)
			}
		}
	})

	t.Run("a token signed with a different key", func(t *testing.T) {
		t.Parallel()

		other, err := NewCodec(Config{Secret: otherSecret, TTL: 850 * time.Second})
		if err != nil {
			t.Fatalf("NewCodec() returned error: %v", err)
		}
		foreign, err := other.Mint("batman@waynecorp.com")
		if err != nil {
			t.Fatalf("Mint() returned error: %v", err)
		}
		if _, err := codec.Verify(foreign); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("Verify() error = %v, want ErrInvalidToken", err)
		}
	})

	t.Run("malformed input", func(t *testing.T) {
		t.Parallel()

		for _, input := range []string{"", "garbage", "a.b", "a.b.c.d", "..", "Bearer " + minted} {
			if _, err := codec.Verify(input); !errors.Is(err, ErrInvalidToken) {
				t.Errorf("Verify(%q) error = %v, want ErrInvalidToken", input, err)
			}
		}
	})
}
