// Package acme connects DNS providers to ACME clients: lego's
// challenge.Provider interface and the hook conventions of lego's exec
// provider and certbot's manual mode.
package acme

import (
	"context"
	"fmt"
	"time"

	"github.com/go-acme/lego/v4/challenge"
	"github.com/go-acme/lego/v4/challenge/dns01"
	"github.com/go-acme/lego/v4/platform/config/env"
	"github.com/go-logr/logr"

	"github.com/yuriy-kovalchuk/yk-ionos-dns01/internal/dns"
)

// Environment variables read by NewDefaultConfig.
const (
	envNamespace = "IONOS_"

	EnvTTL                = envNamespace + "TTL"
	EnvPropagationTimeout = envNamespace + "PROPAGATION_TIMEOUT"
	EnvPollingInterval    = envNamespace + "POLLING_INTERVAL"
)

// DefaultPropagationTimeout is how long the ACME client should wait for the
// record to become visible.
const DefaultPropagationTimeout = 120 * time.Second

var _ challenge.ProviderTimeout = (*Solver)(nil)

// Config tunes the challenge records and the timing reported to the ACME client.
// A zero TTL leaves the record TTL to the provider's default.
type Config struct {
	TTL                int
	PropagationTimeout time.Duration
	PollingInterval    time.Duration
}

// NewDefaultConfig returns a Config populated from the environment.
func NewDefaultConfig() *Config {
	return &Config{
		TTL:                env.GetOrDefaultInt(EnvTTL, 0),
		PropagationTimeout: env.GetOrDefaultSecond(EnvPropagationTimeout, DefaultPropagationTimeout),
		PollingInterval:    env.GetOrDefaultSecond(EnvPollingInterval, dns01.DefaultPollingInterval),
	}
}

// Solver adapts a dns.Provider to lego's challenge.Provider.
type Solver struct {
	provider dns.Provider
	config   *Config
	log      logr.Logger
}

// NewSolver returns a Solver publishing challenges through provider. A nil
// config selects NewDefaultConfig.
func NewSolver(provider dns.Provider, config *Config, log logr.Logger) (*Solver, error) {
	if provider == nil {
		return nil, fmt.Errorf("acme: nil DNS provider")
	}
	if config == nil {
		config = NewDefaultConfig()
	}
	if config.TTL < 0 {
		return nil, fmt.Errorf("acme: invalid TTL %d", config.TTL)
	}
	return &Solver{provider: provider, config: config, log: log}, nil
}

// Present publishes the DNS-01 record for domain.
func (s *Solver) Present(domain, token, keyAuth string) error {
	return s.PresentContext(context.Background(), domain, token, keyAuth)
}

// PresentContext is Present bound to ctx.
func (s *Solver) PresentContext(ctx context.Context, domain, token, keyAuth string) error {
	ch := s.challenge(domain, keyAuth)
	s.log.V(1).Info("presenting challenge", "domain", ch.Domain, "name", ch.Name)
	if err := s.provider.Perform(ctx, ch); err != nil {
		return fmt.Errorf("acme: present %s: %w", domain, err)
	}
	return nil
}

// CleanUp removes the DNS-01 record for domain.
func (s *Solver) CleanUp(domain, token, keyAuth string) error {
	return s.CleanUpContext(context.Background(), domain, token, keyAuth)
}

// CleanUpContext is CleanUp bound to ctx.
func (s *Solver) CleanUpContext(ctx context.Context, domain, token, keyAuth string) error {
	ch := s.challenge(domain, keyAuth)
	s.log.V(1).Info("cleaning up challenge", "domain", ch.Domain, "name", ch.Name)
	if err := s.provider.Cleanup(ctx, ch); err != nil {
		return fmt.Errorf("acme: cleanup %s: %w", domain, err)
	}
	return nil
}

// Timeout returns the propagation timeout and polling interval.
func (s *Solver) Timeout() (timeout, interval time.Duration) {
	return s.config.PropagationTimeout, s.config.PollingInterval
}

func (s *Solver) challenge(domain, keyAuth string) dns.Challenge {
	fqdn, value := dns01.GetRecord(domain, keyAuth)
	return dns.Challenge{
		Domain:  dns.NormalizeName(domain),
		Name:    dns.NormalizeRecordName(dns01.UnFqdn(fqdn)),
		Content: value,
		TTL:     s.config.TTL,
	}
}
