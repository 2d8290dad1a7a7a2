package dns

import "context"

// Challenge is one DNS-01 validation request handed over by the ACME client.
type Challenge struct {
	Domain  string // domain being validated, e.g. "example.com"
	Name    string // TXT record name, e.g. "_acme-challenge.example.com"
	Content string // validation value, unquoted
	TTL     int    // 0 = provider default
}

// Provider is the interface that DNS providers must implement.
//
// Perform must leave a TXT record with the challenge content under the
// challenge name. Cleanup removes that specific record and must not fail
// when the record is already gone.
type Provider interface {
	Perform(ctx context.Context, ch Challenge) error
	Cleanup(ctx context.Context, ch Challenge) error
}

// ZoneFinder is implemented by providers that can report which of their
// zones a domain belongs to.
type ZoneFinder interface {
	FindZone(ctx context.Context, domain string) (Zone, error)
}
