package acme

import (
	"fmt"
	"strings"

	"github.com/yuriy-kovalchuk/yk-ionos-dns01/internal/dns"
)

// Environment variables set by certbot for manual auth and cleanup hooks.
const (
	EnvCertbotDomain     = "CERTBOT_DOMAIN"
	EnvCertbotValidation = "CERTBOT_VALIDATION"
)

// ChallengeFromRecord builds a challenge from a record name and value, as
// passed by lego's exec provider: `present <fqdn> <value>`.
func ChallengeFromRecord(fqdn, value string, ttl int) (dns.Challenge, error) {
	name := dns.NormalizeRecordName(fqdn)
	if name == "" {
		return dns.Challenge{}, fmt.Errorf("acme: empty record name")
	}
	if value == "" {
		return dns.Challenge{}, fmt.Errorf("acme: empty validation value for %s", fqdn)
	}
	if !strings.HasPrefix(name, dns.ChallengePrefix) {
		return dns.Challenge{}, fmt.Errorf("acme: %q is not a DNS-01 record name", fqdn)
	}
	return dns.Challenge{
		Domain:  dns.DomainFromChallengeName(name),
		Name:    name,
		Content: value,
		TTL:     ttl,
	}, nil
}

// ChallengeFromCertbotEnv builds a challenge from certbot's manual hook
// environment. getenv is usually os.Getenv.
func ChallengeFromCertbotEnv(getenv func(string) string, ttl int) (dns.Challenge, error) {
	domain := getenv(EnvCertbotDomain)
	if domain == "" {
		return dns.Challenge{}, fmt.Errorf("acme: %s is not set", EnvCertbotDomain)
	}
	value := getenv(EnvCertbotValidation)
	if value == "" {
		return dns.Challenge{}, fmt.Errorf("acme: %s is not set", EnvCertbotValidation)
	}
	return dns.Challenge{
		Domain:  dns.NormalizeName(domain),
		Name:    dns.ChallengeName(domain),
		Content: value,
		TTL:     ttl,
	}, nil
}
