// Package redact removes sensitive substrings from log output before any
// sink can observe them. The only built-in rule redacts MAC addresses,
// keeping the 3-octet organizational prefix and replacing the device-unique
// half with a fixed marker:
//
//	f8:8f:ca:11:22:33 -> f8:8f:ca:<REDACTED>
//
// Redaction is irreversible, stateless and idempotent.
package redact

import "regexp"

// Marker replaces the device-unique half of a redacted MAC address.
const Marker = "<REDACTED>"

// RE2 has no backreferences, so colon- and hyphen-delimited forms are
// separate patterns rather than one pattern with a pinned delimiter.
var (
	macColon  = regexp.MustCompile(`(?i)((?:[0-9A-F]{2}:){3})(?:[0-9A-F]{2}(?::|\b)){3}`)
	macHyphen = regexp.MustCompile(`(?i)((?:[0-9A-F]{2}-){3})(?:[0-9A-F]{2}(?:-|\b)){3}`)
)

// Apply rewrites every MAC-address-shaped substring in s, preserving the
// first three octet groups and replacing the rest with Marker. Input without
// such a substring is returned unchanged. Safe for unsynchronized concurrent
// use.
func Apply(s string) string {
	if !macColon.MatchString(s) && !macHyphen.MatchString(s) {
		return s
	}
	s = macColon.ReplaceAllString(s, "${1}"+Marker)
	return macHyphen.ReplaceAllString(s, "${1}"+Marker)
}
