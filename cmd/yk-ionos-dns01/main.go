package main

import (
	"fmt"
	"os"

	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/yuriy-kovalchuk/yk-ionos-dns01/internal/config"
	_ "github.com/yuriy-kovalchuk/yk-ionos-dns01/internal/dns/providers"
)

var Version = "dev"

const description = "Obtain certificates using a DNS TXT record (if you are using IONOS for DNS)."

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// cli carries state shared by all subcommands of one invocation.
type cli struct {
	v    *viper.Viper
	log  logr.Logger
	sync func()
}

func newRootCmd() *cobra.Command {
	c := &cli{v: viper.New(), log: logr.Discard(), sync: func() {}}

	root := &cobra.Command{
		Use:   "yk-ionos-dns01",
		Short: "DNS-01 challenge hook for the IONOS DNS API",
		Long: description + `

The present and cleanup commands follow the hook conventions of lego's exec
provider (default and RAW mode) and of certbot's --manual-auth-hook and
--manual-cleanup-hook.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.setupLogger()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			c.sync()
		},
	}

	flags := root.PersistentFlags()
	flags.StringP("config", "c", config.DefaultConfigPath, "path to the provider config file (env "+config.EnvConfigPath+")")
	flags.IntP("verbosity", "v", 0, "log verbosity, higher is more verbose")
	flags.Bool("log-json", false, "log JSON instead of console output")

	must(c.v.BindPFlag("config", flags.Lookup("config")))
	must(c.v.BindPFlag("verbosity", flags.Lookup("verbosity")))
	must(c.v.BindPFlag("log-json", flags.Lookup("log-json")))
	must(c.v.BindEnv("config", config.EnvConfigPath))
	must(c.v.BindEnv("verbosity", "IONOS_DNS01_VERBOSITY"))
	must(c.v.BindEnv("log-json", "IONOS_DNS01_LOG_JSON"))

	root.AddCommand(
		c.newPresentCmd(),
		c.newCleanupCmd(),
		c.newZoneCmd(),
		newVersionCmd(),
	)
	return root
}

// setupLogger builds the zap-backed logger. Logs go to stderr so stdout stays
// free for command output.
func (c *cli) setupLogger() error {
	var zc zap.Config
	if c.v.GetBool("log-json") {
		zc = zap.NewProductionConfig()
	} else {
		zc = zap.NewDevelopmentConfig()
	}
	zc.OutputPaths = []string{"stderr"}
	zc.ErrorOutputPaths = []string{"stderr"}
	zc.Level = zap.NewAtomicLevelAt(zapcore.Level(-c.v.GetInt("verbosity")))

	zl, err := zc.Build()
	if err != nil {
		return fmt.Errorf("unable to build logger: %w", err)
	}
	c.sync = func() { _ = zl.Sync() }
	c.log = zapr.NewLogger(zl).WithName("yk-ionos-dns01").WithValues("runId", uuid.New().String())
	return nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "yk-ionos-dns01 %s\n%s\n", Version, description)
		},
	}
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}
