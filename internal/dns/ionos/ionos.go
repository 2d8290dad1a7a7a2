package ionos

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-logr/logr"

	"github.com/yuriy-kovalchuk/yk-ionos-dns01/internal/dns"
)

// DefaultTTL is used when neither the challenge nor the settings carry a TTL.
const DefaultTTL = 60

func init() {
	dns.Register("ionos", func(log logr.Logger, settings map[string]string) (dns.Provider, error) {
		return New(log, settings)
	})
}

// Provider implements dns.Provider for the IONOS DNS API.
type Provider struct {
	client     *client
	writer     writer
	writeMode  WriteMode
	zoneMatch  dns.MatchMode
	defaultTTL int
	log        logr.Logger
}

// New creates an IONOS DNS provider from the given settings map.
// Required settings: endpoint, prefix, secret.
// Optional settings: default_ttl (default 60), write_mode ("patch" or
// "records", default "patch"), zone_match ("label" or "suffix", default
// "label"), skip_tls_verify (default false).
func New(log logr.Logger, settings map[string]string) (*Provider, error) {
	endpoint := settings["endpoint"]
	if endpoint == "" {
		return nil, fmt.Errorf("ionos: missing required setting 'endpoint'")
	}
	prefix := settings["prefix"]
	if prefix == "" {
		return nil, fmt.Errorf("ionos: missing required setting 'prefix'")
	}
	secret := settings["secret"]
	if secret == "" {
		return nil, fmt.Errorf("ionos: missing required setting 'secret'")
	}

	defaultTTL := DefaultTTL
	if v := settings["default_ttl"]; v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("ionos: invalid default_ttl %q: %w", v, err)
		}
		if parsed <= 0 {
			return nil, fmt.Errorf("ionos: default_ttl must be positive, got %d", parsed)
		}
		defaultTTL = parsed
	}

	writeMode, err := ParseWriteMode(settings["write_mode"])
	if err != nil {
		return nil, fmt.Errorf("ionos: %w", err)
	}
	zoneMatch, err := dns.ParseMatchMode(settings["zone_match"])
	if err != nil {
		return nil, fmt.Errorf("ionos: %w", err)
	}

	skipVerify := false
	if v := settings["skip_tls_verify"]; v != "" {
		skipVerify, err = strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("ionos: invalid skip_tls_verify %q: %w", v, err)
		}
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	if skipVerify {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
	}

	c := newClient(endpoint, prefix, secret, &http.Client{Transport: transport}, log)
	return &Provider{
		client:     c,
		writer:     newWriter(writeMode, c, log),
		writeMode:  writeMode,
		zoneMatch:  zoneMatch,
		defaultTTL: defaultTTL,
		log:        log,
	}, nil
}

// FindZone returns the zone owning domain. Zones are fetched on every call.
func (p *Provider) FindZone(ctx context.Context, domain string) (dns.Zone, error) {
	zones, err := p.client.listZones(ctx)
	if err != nil {
		return dns.Zone{}, fmt.Errorf("ionos: listing zones: %w", err)
	}
	p.log.V(1).Info("zones found", "count", len(zones))

	candidates := make([]dns.Zone, 0, len(zones))
	for _, z := range zones {
		candidates = append(candidates, z.toDNSZone())
	}
	found, err := dns.ResolveZone(domain, candidates, p.zoneMatch)
	if err != nil {
		return dns.Zone{}, fmt.Errorf("ionos: %w", err)
	}
	p.log.V(1).Info("domain found", "zone", found.Name, "id", found.ID)
	return found, nil
}

// existingTXT returns the TXT records currently published under name.
func (p *Provider) existingTXT(ctx context.Context, zoneID, name string) ([]record, error) {
	zd, err := p.client.getZone(ctx, zoneID)
	if err != nil {
		return nil, fmt.Errorf("ionos: fetching zone %s: %w", zoneID, err)
	}
	return filterTXT(zd.Records, name), nil
}

// Perform makes sure a TXT record with the challenge content exists. It
// issues at most one write call and none if the value is already present.
func (p *Provider) Perform(ctx context.Context, ch dns.Challenge) error {
	p.log.Info("adding TXT record", "domain", ch.Domain, "name", ch.Name)

	z, err := p.FindZone(ctx, ch.Domain)
	if err != nil {
		return err
	}
	existing, err := p.existingTXT(ctx, z.ID, ch.Name)
	if err != nil {
		return err
	}

	if r, ok := findContent(existing, ch.Content); ok {
		p.log.Info("TXT record already present", "name", ch.Name, "id", r.ID)
		return nil
	}

	ttl := ch.TTL
	if ttl <= 0 {
		ttl = p.defaultTTL
	}
	if err := p.writer.add(ctx, z.ID, existing, newTXTRequest(ch.Name, ch.Content, ttl)); err != nil {
		return fmt.Errorf("ionos: %w", err)
	}
	return nil
}

// Cleanup deletes the TXT record carrying the challenge content. A missing
// record is not an error.
func (p *Provider) Cleanup(ctx context.Context, ch dns.Challenge) error {
	p.log.Info("removing TXT record", "domain", ch.Domain, "name", ch.Name)

	z, err := p.FindZone(ctx, ch.Domain)
	if err != nil {
		return err
	}
	existing, err := p.existingTXT(ctx, z.ID, ch.Name)
	if err != nil {
		return err
	}

	r, ok := findContent(existing, ch.Content)
	if !ok {
		p.log.Info("no matching TXT record, nothing to remove", "name", ch.Name)
		return nil
	}

	p.log.V(1).Info("deleting record", "id", r.ID)
	if err := p.client.deleteRecord(ctx, z.ID, r.ID); err != nil {
		return fmt.Errorf("ionos: deleting record %s: %w", r.ID, err)
	}
	p.log.Info("TXT record removed", "name", ch.Name, "id", r.ID)
	return nil
}
