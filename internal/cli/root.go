package cli

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/Priyo13o4/n8n-cli-toolkit/internal/config"
	"github.com/Priyo13o4/n8n-cli-toolkit/internal/logger"
)

const version = "0.2.0"

var (
	cfgFile  string
	logLevel string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "n8nctl",
	Short: "n8nctl - n8n node catalog and workflow toolkit",
	Long: `n8nctl builds a queryable catalog of n8n node definitions, answers
search and lookup queries over it, reconciles the catalog against upstream
releases, and manages workflows on a live n8n instance.`,
	Version: version,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.n8nctl/n8nctl.json)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")

	// Version template
	rootCmd.SetVersionTemplate(`{{with .Name}}{{printf "%s " .}}{{end}}{{printf "version %s" .Version}}
`)
}

// GetRootCmd returns the root command for testing
func GetRootCmd() *cobra.Command {
	return rootCmd
}

// GetVersion returns the current version
func GetVersion() string {
	return version
}

// setup loads the configuration and builds a console logger for one
// command invocation.
func setup() (*config.Config, zerolog.Logger, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, zerolog.Nop(), err
	}

	log, err := logger.New(logger.Config{
		Level:   logLevel,
		Console: true,
		Pretty:  true,
	})
	if err != nil {
		return nil, zerolog.Nop(), err
	}

	return cfg, log.GetZerolog(), nil
}
