// Package accesscode encodes and decodes test access codes.
//
// The wire format is base64("{testId}-{respondentId}-{DDMMYYHHmm}") and must
// stay bit-exact: codes already delivered to respondents have to keep working.
// An optional HMAC-SHA256 tag can be appended ("{code}.{tag}") when a signing
// key is configured; unsigned codes remain accepted so enabling the key does
// not orphan previously issued codes.
package accesscode

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// compactTimeLayout renders DDMMYYHHmm with every field zero-padded.
const compactTimeLayout = "0201061504"

// Sentinel values returned by Decode for any malformed input.
const (
	SentinelID        = -1
	sentinelTimestamp = ""
)

// Decoded is the result of decoding an access code. Decode is total: callers
// must check Valid() instead of handling errors.
type Decoded struct {
	TestID       int
	RespondentID int
	// IssuedAt is the compact DDMMYYHHmm timestamp embedded in the code.
	IssuedAt string
}

// Valid reports whether the decoded triple identifies a real issuance.
func (d Decoded) Valid() bool {
	return d.TestID > 0 && d.RespondentID > 0 && d.IssuedAt != sentinelTimestamp
}

// DisplayTime expands the compact timestamp into "YYYY-MM-DD HH:mm".
// Two-digit years are in the 2000s; the format has no century field.
func (d Decoded) DisplayTime() string {
	if len(d.IssuedAt) != 10 {
		return ""
	}
	s := d.IssuedAt
	return "20" + s[4:6] + "-" + s[2:4] + "-" + s[0:2] + " " + s[6:8] + ":" + s[8:10]
}

// Codec issues and parses access codes. A nil or empty signing key selects
// the plain (unsigned) wire format.
type Codec struct {
	signingKey []byte
}

// New creates a codec. signingKey may be empty to disable tagging.
func New(signingKey string) *Codec {
	var key []byte
	if signingKey != "" {
		key = []byte(signingKey)
	}
	return &Codec{signingKey: key}
}

// FormatCompact renders issuedAt as the compact DDMMYYHHmm string.
func FormatCompact(issuedAt time.Time) string {
	return issuedAt.Format(compactTimeLayout)
}

// Encode builds the access code for a (test, respondent, issuedAt) triple.
func (c *Codec) Encode(testID, respondentID uint, issuedAt time.Time) string {
	plaintext := fmt.Sprintf("%d-%d-%s", testID, respondentID, FormatCompact(issuedAt))
	code := base64.StdEncoding.EncodeToString([]byte(plaintext))
	if len(c.signingKey) == 0 {
		return code
	}
	return code + "." + c.sign(plaintext)
}

// Decode parses an access code. It never fails: malformed input yields the
// sentinel triple {-1, -1, ""}.
func (c *Codec) Decode(code string) Decoded {
	invalid := Decoded{TestID: SentinelID, RespondentID: SentinelID, IssuedAt: sentinelTimestamp}

	body := code
	var tag string
	if idx := strings.IndexByte(code, '.'); idx >= 0 {
		body = code[:idx]
		tag = code[idx+1:]
	}

	raw, err := base64.StdEncoding.DecodeString(body)
	if err != nil {
		return invalid
	}

	plaintext := string(raw)
	parts := strings.Split(plaintext, "-")
	if len(parts) != 3 {
		return invalid
	}

	testID, err := strconv.Atoi(parts[0])
	if err != nil {
		return invalid
	}
	respondentID, err := strconv.Atoi(parts[1])
	if err != nil {
		return invalid
	}
	if !isCompactTimestamp(parts[2]) {
		return invalid
	}

	// A tagged code must verify; an untagged one is accepted for backward
	// compatibility with codes issued before the key was configured.
	if tag != "" {
		if len(c.signingKey) == 0 || !hmac.Equal([]byte(tag), []byte(c.sign(plaintext))) {
			return invalid
		}
	}

	return Decoded{TestID: testID, RespondentID: respondentID, IssuedAt: parts[2]}
}

func (c *Codec) sign(plaintext string) string {
	mac := hmac.New(sha256.New, c.signingKey)
	mac.Write([]byte(plaintext))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}

func isCompactTimestamp(s string) bool {
	if len(s) != 10 {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
