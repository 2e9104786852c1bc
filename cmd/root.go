// Package cmd provides the command-line interface of phpcsutils.
package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"phpcsutils/internal/application/common"
	"phpcsutils/internal/application/common/slogger"
	"phpcsutils/internal/config"
	"phpcsutils/internal/domain/compensation"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// envPrefix prefixes every environment variable read by the CLI, e.g. PHPCSUTILS_ANALYSIS_WORKERS.
const envPrefix = "PHPCSUTILS"

// cli holds the state shared by the commands of one root command.
type cli struct {
	v       *viper.Viper
	cfgFile string
	cfg     *config.Config
}

//nolint:gochecknoglobals // Standard Cobra CLI pattern
var rootCmd = newRootCmd()

// newRootCmd creates the root command with every subcommand attached. Each call has its own
// viper instance so that commands built in tests do not share configuration.
func newRootCmd() *cobra.Command {
	c := &cli{v: viper.New()}
	config.SetDefaults(c.v)

	cmd := &cobra.Command{
		Use:   "phpcsutils",
		Short: "Structural disambiguation of PHP token streams",
		Long: `phpcsutils answers the structural questions a PHP token stream leaves open:

- whether a square bracket opens an array, a destructuring list or an index access
- where an arrow function body ends
- how a bracketed or parenthesized list splits into items
- which construct owns a parenthesis pair
- whether "&" marks a reference or is the bitwise and operator

Older host tokenizers misclassified some of these constructs. Pass --host-version to
compensate for the tokenizer output of a specific host version.`,
		SilenceUsage: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return c.initConfig()
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&c.cfgFile, "config", "", "config file (default: ./configs/config.yaml)")
	flags.String("log-level", "warn", "Log level (debug, info, warn, error)")
	flags.String("log-format", "json", "Log format (json, text)")
	flags.String("host-version", "", "Host tokenizer version to compensate for (empty disables compensation)")
	flags.String("rules", "", "Compensation rules file replacing the embedded table")

	c.bindFlags(flags, map[string]string{
		"log.level":             "log-level",
		"log.format":            "log-format",
		"analysis.host_version": "host-version",
		"analysis.rules_file":   "rules",
	})

	cmd.AddCommand(newInspectCmd(c), newRulesCmd(c), newVersionCmd())
	return cmd
}

// Execute runs the root command. This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func (c *cli) bindFlags(flags *pflag.FlagSet, keys map[string]string) {
	for key, name := range keys {
		if err := c.v.BindPFlag(key, flags.Lookup(name)); err != nil {
			fmt.Fprintf(os.Stderr, "Error binding %s flag: %v\n", name, err)
		}
	}
}

func (c *cli) initConfig() error {
	v := c.v

	if c.cfgFile != "" {
		v.SetConfigFile(c.cfgFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./configs")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("reading config file: %w", err)
		}
		// Config file not found; use defaults and environment
	}

	cfg, err := config.Load(v)
	if err != nil {
		return err
	}
	c.cfg = cfg

	return slogger.Configure(cfg.Log.Logging())
}

// rules returns the compensation table selected by the configuration.
func (c *cli) rules() (*compensation.Table, error) {
	if c.cfg.Analysis.RulesFile == "" {
		return compensation.Default(), nil
	}
	table, err := compensation.Load(c.cfg.Analysis.RulesFile)
	if err != nil {
		return nil, common.WrapServiceError(common.OpLoadRules, c.cfg.Analysis.RulesFile, err)
	}
	return table, nil
}
