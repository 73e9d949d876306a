package id

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/cleared-dev/runway/internal/isodate"
)

// Record prefixes.
const (
	PrefixEvent       = "evt"
	PrefixBill        = "bill"
	PrefixAccount     = "acct"
	PrefixTransaction = "tx"
)

// New returns a fresh record ID like "evt_1b4e28ba2fa1".
func New(prefix string) string {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	return prefix + "_" + raw[:12]
}

// Prefix returns the prefix of a record ID, or "" if it has none.
func Prefix(recordID string) string {
	p, _, ok := strings.Cut(recordID, "_")
	if !ok {
		return ""
	}
	return p
}

// FormatInstanceKey returns a key like "evt_1b4e28ba2fa1@2025-01-06"
// identifying one occurrence of an event.
func FormatInstanceKey(baseID, date string) string {
	return baseID + "@" + date
}

// ParseInstanceKey splits an instance key into its event ID and date.
func ParseInstanceKey(key string) (baseID, date string, err error) {
	i := strings.LastIndex(key, "@")
	if i <= 0 {
		return "", "", fmt.Errorf("invalid instance key format: %q", key)
	}
	baseID, date = key[:i], key[i+1:]
	if !isodate.Valid(date) {
		return "", "", fmt.Errorf("invalid date in instance key %q", key)
	}
	return baseID, date, nil
}
