package dns

import (
	"strings"
)

// ChallengePrefix is the label prepended to a domain to form its DNS-01 record name.
const ChallengePrefix = "_acme-challenge."

// NormalizeName lower-cases a DNS name and strips a trailing dot and a
// leading wildcard label.
// e.g. "*.Example.COM." → "example.com"
func NormalizeName(name string) string {
	return strings.TrimPrefix(NormalizeRecordName(name), "*.")
}

// NormalizeRecordName lower-cases a record name and strips a trailing dot.
// A leading "*." is part of the record name and is kept.
func NormalizeRecordName(name string) string {
	return strings.ToLower(strings.TrimSuffix(name, "."))
}

// ChallengeName returns the TXT record name for validating domain.
// e.g. "example.com" → "_acme-challenge.example.com"
func ChallengeName(domain string) string {
	return ChallengePrefix + NormalizeName(domain)
}

// DomainFromChallengeName is the inverse of ChallengeName. Names without the
// challenge prefix are returned normalized but otherwise unchanged.
func DomainFromChallengeName(name string) string {
	return strings.TrimPrefix(NormalizeName(name), ChallengePrefix)
}

// Unquote strips the literal double quotes some APIs wrap TXT content in.
// e.g. `"abc"` → `abc`
func Unquote(content string) string {
	return strings.Trim(content, `"`)
}
