// Package token issues and verifies the signed guest RSVP credential.
//
// Wire format: base64url(JSON payload) + "." + base64url(HMAC-SHA256 signature),
// both segments unpadded. The expiry rides inside the signed payload, so tokens
// are self-expiring and need no server-side storage; the flip side is that a
// token cannot be revoked before its expiry.
package token

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"strings"
	"time"
)

// Payload binds an event and a guest email. Exp is epoch milliseconds.
type Payload struct {
	EventID int64  `json:"eventId"`
	Email   string `json:"email"`
	Exp     int64  `json:"exp"`
}

var encoding = base64.RawURLEncoding

func computeSignature(body, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(body))
	return encoding.EncodeToString(mac.Sum(nil))
}

// Sign serializes the payload and appends its MAC.
func Sign(payload Payload, secret string) (string, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}
	body := encoding.EncodeToString(raw)
	return body + "." + computeSignature(body, secret), nil
}

// Verify returns the payload when the token has exactly two segments, the
// signature matches, the payload carries all required fields, and the token
// has not expired. Any failure yields nil.
func Verify(tok, secret string) *Payload {
	return verifyAt(tok, secret, time.Now())
}

func verifyAt(tok, secret string, now time.Time) *Payload {
	parts := strings.Split(tok, ".")
	if len(parts) != 2 {
		return nil
	}
	body, signature := parts[0], parts[1]

	expected := computeSignature(body, secret)
	// Length pre-check, then constant-time compare.
	if len(signature) != len(expected) {
		return nil
	}
	if !hmac.Equal([]byte(signature), []byte(expected)) {
		return nil
	}

	raw, err := encoding.DecodeString(body)
	if err != nil {
		return nil
	}

	// Decode through pointers so absent fields are distinguishable from
	// zero values; a field of the wrong JSON type fails the unmarshal.
	var decoded struct {
		EventID *int64  `json:"eventId"`
		Email   *string `json:"email"`
		Exp     *int64  `json:"exp"`
	}
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil
	}
	if decoded.EventID == nil || decoded.Email == nil || decoded.Exp == nil {
		return nil
	}
	if now.UnixMilli() > *decoded.Exp {
		return nil
	}

	return &Payload{
		EventID: *decoded.EventID,
		Email:   *decoded.Email,
		Exp:     *decoded.Exp,
	}
}
