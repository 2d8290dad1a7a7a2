package dns

import (
	"errors"
	"fmt"
	"strings"
)

// ErrDomainNotManaged is returned when none of the provider's zones owns a domain.
var ErrDomainNotManaged = errors.New("domain not managed by any zone")

// Zone identifies a DNS zone hosted by the provider.
type Zone struct {
	ID   string
	Name string
}

// MatchMode controls how a domain is matched against zone names when no
// zone name equals the domain exactly.
type MatchMode string

const (
	// MatchLabel requires the zone name to end on a label boundary of the
	// domain, so "notexample.com" does not belong to "example.com".
	MatchLabel MatchMode = "label"
	// MatchSuffix is a plain string suffix match. It can attribute a domain
	// to an unrelated zone and only exists for compatibility.
	MatchSuffix MatchMode = "suffix"
)

// ParseMatchMode converts a setting value into a MatchMode. The empty string
// selects MatchLabel.
func ParseMatchMode(s string) (MatchMode, error) {
	switch MatchMode(strings.ToLower(s)) {
	case "", MatchLabel:
		return MatchLabel, nil
	case MatchSuffix:
		return MatchSuffix, nil
	default:
		return "", fmt.Errorf("unknown zone match mode %q (want %q or %q)", s, MatchLabel, MatchSuffix)
	}
}

// ResolveZone picks the zone owning domain. An exact name match wins over a
// suffix match; within each pass the first zone in the given order wins.
func ResolveZone(domain string, zones []Zone, mode MatchMode) (Zone, error) {
	d := NormalizeName(domain)

	for _, z := range zones {
		if NormalizeName(z.Name) == d {
			return z, nil
		}
	}

	for _, z := range zones {
		if mode.matches(d, NormalizeName(z.Name)) {
			return z, nil
		}
	}

	return Zone{}, fmt.Errorf("%w: %s", ErrDomainNotManaged, domain)
}

func (m MatchMode) matches(domain, zone string) bool {
	if zone == "" {
		return false
	}
	if m == MatchSuffix {
		return strings.HasSuffix(domain, zone)
	}
	return strings.HasSuffix(domain, "."+zone)
}
