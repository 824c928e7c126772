package token

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"strings"
	"testing"
	"time"
)

const testSecret = "test-secret"

func signBody(t *testing.T, body, secret string) string {
	t.Helper()
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(body))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}

func futureExp() int64 {
	return time.Now().Add(time.Hour).UnixMilli()
}

func TestSignVerifyRoundTrip(t *testing.T) {
	payload := Payload{EventID: 42, Email: "guest@example.com", Exp: futureExp()}

	tok, err := Sign(payload, testSecret)
	if err != nil {
		t.Fatalf("Sign returned error: %v", err)
	}
	if strings.Count(tok, ".") != 1 {
		t.Fatalf("token %q should contain exactly one separator", tok)
	}

	got := Verify(tok, testSecret)
	if got == nil {
		t.Fatal("Verify returned nil for a valid token")
	}
	if *got != payload {
		t.Errorf("Verify = %+v, want %+v", *got, payload)
	}
}

func TestVerifyRejectsMalformedStructure(t *testing.T) {
	valid, err := Sign(Payload{EventID: 1, Email: "a@b.c", Exp: futureExp()}, testSecret)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		tok  string
	}{
		{"empty", ""},
		{"no separator", strings.ReplaceAll(valid, ".", "")},
		{"extra separator", valid + ".extra"},
		{"body not base64url", "!!!." + signBody(t, "!!!", testSecret)},
		{"body not json", base64.RawURLEncoding.EncodeToString([]byte("not json")) + "." + signBody(t, base64.RawURLEncoding.EncodeToString([]byte("not json")), testSecret)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Verify(tt.tok, testSecret); got != nil {
				t.Errorf("Verify(%q) = %+v, want nil", tt.tok, got)
			}
		})
	}
}

func TestVerifyRejectsTamperedSignature(t *testing.T) {
	tok, err := Sign(Payload{EventID: 7, Email: "x@y.z", Exp: futureExp()}, testSecret)
	if err != nil {
		t.Fatal(err)
	}
	parts := strings.Split(tok, ".")

	flipped := byte('A')
	if parts[1][0] == 'A' {
		flipped = 'B'
	}
	if got := Verify(parts[0]+"."+string(flipped)+parts[1][1:], testSecret); got != nil {
		t.Errorf("tampered signature accepted: %+v", got)
	}
	if got := Verify(parts[0]+"."+parts[1][:len(parts[1])-2], testSecret); got != nil {
		t.Errorf("truncated signature accepted: %+v", got)
	}
	if got := Verify(tok, "other-secret"); got != nil {
		t.Errorf("wrong secret accepted: %+v", got)
	}
}

func TestVerifyRejectsTamperedBody(t *testing.T) {
	tok, err := Sign(Payload{EventID: 7, Email: "x@y.z", Exp: futureExp()}, testSecret)
	if err != nil {
		t.Fatal(err)
	}
	parts := strings.Split(tok, ".")

	// Re-encode a different event id but keep the original signature.
	forged := base64.RawURLEncoding.EncodeToString([]byte(`{"eventId":8,"email":"x@y.z","exp":` + "9999999999999" + `}`))
	if got := Verify(forged+"."+parts[1], testSecret); got != nil {
		t.Errorf("forged body accepted: %+v", got)
	}
}

func TestVerifyRejectsExpired(t *testing.T) {
	exp := time.Now().Add(-time.Minute).UnixMilli()
	tok, err := Sign(Payload{EventID: 3, Email: "late@example.com", Exp: exp}, testSecret)
	if err != nil {
		t.Fatal(err)
	}
	if got := Verify(tok, testSecret); got != nil {
		t.Errorf("expired token accepted: %+v", got)
	}
}

func TestVerifyExpiryBoundary(t *testing.T) {
	now := time.Now()
	tok, err := Sign(Payload{EventID: 3, Email: "edge@example.com", Exp: now.UnixMilli()}, testSecret)
	if err != nil {
		t.Fatal(err)
	}
	// now == exp is still valid; only now > exp fails.
	if got := verifyAt(tok, testSecret, now); got == nil {
		t.Error("token rejected at its exact expiry instant")
	}
	if got := verifyAt(tok, testSecret, now.Add(time.Millisecond)); got != nil {
		t.Error("token accepted after expiry")
	}
}

func TestVerifyRejectsIncompletePayload(t *testing.T) {
	tests := []struct {
		name string
		json string
	}{
		{"missing eventId", `{"email":"a@b.c","exp":9999999999999}`},
		{"missing email", `{"eventId":1,"exp":9999999999999}`},
		{"missing exp", `{"eventId":1,"email":"a@b.c"}`},
		{"eventId wrong type", `{"eventId":"1","email":"a@b.c","exp":9999999999999}`},
		{"email wrong type", `{"eventId":1,"email":5,"exp":9999999999999}`},
		{"exp wrong type", `{"eventId":1,"email":"a@b.c","exp":"soon"}`},
		{"null fields", `{"eventId":null,"email":null,"exp":null}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := base64.RawURLEncoding.EncodeToString([]byte(tt.json))
			tok := body + "." + signBody(t, body, testSecret)
			if got := Verify(tok, testSecret); got != nil {
				t.Errorf("Verify accepted payload %s: %+v", tt.json, got)
			}
		})
	}
}
