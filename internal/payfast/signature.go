package payfast

import (
	"crypto/md5"
	"encoding/hex"
	"net/url"
	"strings"
)

// SignatureField is the reserved key carrying the integrity digest.
// It is never included in the signable string.
const SignatureField = "signature"

// Field is a single key/value pair of the gateway field map
type Field struct {
	Key   string
	Value string
}

// Fields is an ordered field map. The gateway signs fields in the exact
// order they were constructed, so insertion order is part of the wire
// contract and a plain Go map cannot represent it.
type Fields []Field

// Add appends a field, preserving construction order
func (f *Fields) Add(key, value string) {
	*f = append(*f, Field{Key: key, Value: value})
}

// Get returns the value of the first field with the given key,
// or the empty string if absent
func (f Fields) Get(key string) string {
	for _, field := range f {
		if field.Key == key {
			return field.Value
		}
	}
	return ""
}

// Has reports whether a field with the given key is present
func (f Fields) Has(key string) bool {
	for _, field := range f {
		if field.Key == key {
			return true
		}
	}
	return false
}

// encodeValue percent-encodes a value the way the gateway expects:
// standard URL component encoding with spaces rendered as "+".
// url.QueryEscape already emits "+" for spaces, which is exactly the
// `%20` to `+` substitution the gateway protocol requires.
func encodeValue(value string) string {
	return url.QueryEscape(value)
}

// Canonical builds the signable string: every non-empty field except the
// signature itself, in construction order, as percent-encoded key=value
// pairs joined with "&", followed by the literal passphrase suffix.
func (f Fields) Canonical(passphrase string) string {
	var b strings.Builder
	for _, field := range f {
		if field.Value == "" || field.Key == SignatureField {
			continue
		}
		if b.Len() > 0 {
			b.WriteString("&")
		}
		b.WriteString(field.Key)
		b.WriteString("=")
		b.WriteString(encodeValue(field.Value))
	}
	b.WriteString("&passphrase=")
	b.WriteString(passphrase)
	return b.String()
}

// Sign computes the integrity digest over the canonical form: the MD5 sum
// rendered as lowercase hex. MD5 is fixed by the gateway protocol, not a
// local choice; both sides must produce the identical digest.
func (f Fields) Sign(passphrase string) string {
	sum := md5.Sum([]byte(f.Canonical(passphrase)))
	return hex.EncodeToString(sum[:])
}

// Verify recomputes the digest over all fields except the signature field
// and compares it against the claimed digest with a plain equality check
func (f Fields) Verify(passphrase, claimed string) bool {
	return f.Sign(passphrase) == claimed
}

// Encode renders the full field map, signature included, as a
// percent-encoded query string for the redirect URL
func (f Fields) Encode() string {
	var b strings.Builder
	for i, field := range f {
		if i > 0 {
			b.WriteString("&")
		}
		b.WriteString(field.Key)
		b.WriteString("=")
		b.WriteString(encodeValue(field.Value))
	}
	return b.String()
}
