package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/yuriy-kovalchuk/yk-ionos-dns01/internal/acme"
	"github.com/yuriy-kovalchuk/yk-ionos-dns01/internal/config"
	"github.com/yuriy-kovalchuk/yk-ionos-dns01/internal/dns"
)

type hookAction int

const (
	actionPresent hookAction = iota
	actionCleanup
)

func (a hookAction) String() string {
	if a == actionCleanup {
		return "cleanup"
	}
	return "present"
}

const hookArgsHelp = `Arguments select the calling convention:

  <fqdn> <value>             lego exec provider, default mode
  <domain> <token> <keyAuth> lego exec provider, RAW mode
  (none)                     certbot manual hook, reads CERTBOT_DOMAIN and CERTBOT_VALIDATION`

func (c *cli) newPresentCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "present [args]",
		Short: "Create the TXT record for a DNS-01 challenge",
		Long:  "Create the TXT record for a DNS-01 challenge.\n\n" + hookArgsHelp,
		Args:  cobra.RangeArgs(0, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runHook(cmd.Context(), actionPresent, args)
		},
	}
	cmd.Flags().Duration("wait", 0, "time to sleep after the record was created (defaults to propagation_seconds)")
	must(c.v.BindPFlag("wait", cmd.Flags().Lookup("wait")))
	return cmd
}

func (c *cli) newCleanupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cleanup [args]",
		Short: "Remove the TXT record of a DNS-01 challenge",
		Long:  "Remove the TXT record of a DNS-01 challenge. A record that is already gone is not an error.\n\n" + hookArgsHelp,
		Args:  cobra.RangeArgs(0, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runHook(cmd.Context(), actionCleanup, args)
		},
	}
}

func (c *cli) newZoneCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "zone <domain>",
		Short: "Show the zone a domain resolves to",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, _, err := c.loadProvider()
			if err != nil {
				return err
			}
			finder, ok := p.(dns.ZoneFinder)
			if !ok {
				return fmt.Errorf("provider does not support zone lookup")
			}
			z, err := finder.FindZone(contextOrBackground(cmd.Context()), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", z.Name, z.ID)
			return nil
		},
	}
}

// loadProvider reads the config file and creates the configured provider.
func (c *cli) loadProvider() (dns.Provider, *config.ProviderConfig, error) {
	path := c.v.GetString("config")
	cfg, err := config.LoadProviderConfigFromPath(path)
	if err != nil {
		return nil, nil, fmt.Errorf("unable to load provider config: %w", err)
	}
	if open, mode, err := config.GroupOrWorldAccessible(path); err == nil && open {
		c.log.Info("credentials file is accessible by other users", "path", path, "mode", mode.String())
	}
	c.log.V(1).Info("loaded provider config", "path", path, "provider", cfg.Provider)

	p, err := dns.NewProvider(cfg.Provider, c.log.WithName("dns-"+cfg.Provider), cfg.Settings)
	if err != nil {
		return nil, nil, fmt.Errorf("unable to create DNS provider: %w", err)
	}
	return p, cfg, nil
}

// solverConfig merges the config file into the env defaults. TTL precedence
// is the file's ttl, then IONOS_TTL, then the provider's default_ttl.
func (c *cli) solverConfig(cfg *config.ProviderConfig) *acme.Config {
	sc := acme.NewDefaultConfig()
	if cfg.TTL > 0 {
		sc.TTL = cfg.TTL
	}
	if cfg.PropagationSeconds > 0 {
		sc.PropagationTimeout = time.Duration(cfg.PropagationSeconds) * time.Second
	}
	return sc
}

func (c *cli) runHook(ctx context.Context, action hookAction, args []string) error {
	ctx = contextOrBackground(ctx)

	p, cfg, err := c.loadProvider()
	if err != nil {
		return err
	}
	sc := c.solverConfig(cfg)

	switch len(args) {
	case 3:
		solver, err := acme.NewSolver(p, sc, c.log.WithName("acme"))
		if err != nil {
			return err
		}
		if action == actionCleanup {
			err = solver.CleanUpContext(ctx, args[0], args[1], args[2])
		} else {
			err = solver.PresentContext(ctx, args[0], args[1], args[2])
		}
		if err != nil {
			return err
		}
	case 2:
		ch, err := acme.ChallengeFromRecord(args[0], args[1], sc.TTL)
		if err != nil {
			return err
		}
		if err := c.apply(ctx, p, action, ch); err != nil {
			return err
		}
	case 0:
		ch, err := acme.ChallengeFromCertbotEnv(os.Getenv, sc.TTL)
		if err != nil {
			return err
		}
		if err := c.apply(ctx, p, action, ch); err != nil {
			return err
		}
	default:
		return fmt.Errorf("%s: expected 0, 2 or 3 arguments, got %d", action, len(args))
	}

	if action == actionPresent {
		return c.wait(ctx, cfg)
	}
	return nil
}

func (c *cli) apply(ctx context.Context, p dns.Provider, action hookAction, ch dns.Challenge) error {
	if action == actionCleanup {
		return p.Cleanup(ctx, ch)
	}
	return p.Perform(ctx, ch)
}

// wait sleeps after a successful present so the host does not query the
// record before it propagated.
func (c *cli) wait(ctx context.Context, cfg *config.ProviderConfig) error {
	d := c.v.GetDuration("wait")
	if d == 0 {
		d = time.Duration(cfg.PropagationSeconds) * time.Second
	}
	if d <= 0 {
		return nil
	}

	c.log.Info("waiting for propagation", "duration", d.String())
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func contextOrBackground(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return ctx
}
