package cmd

import (
	"os"

	"github.com/bitrise-io/go-utils/log"
	"github.com/bitrise-io/sbom-license-collector/analyzers/sbom"
	"github.com/bitrise-io/sbom-license-collector/registry"
	"github.com/bitrise-io/sbom-license-collector/report"
	"github.com/spf13/cobra"
)

var (
	flagDir     string
	flagConfig  string
	flagFormat  string
	flagVerbose bool
)

// RootCmd reports the licenses of every registered service when called without a subcommand.
var RootCmd = &cobra.Command{
	Use:   "sbom-license-collector",
	Short: "List the licenses declared in the services' SBOMs",
	Long: `Reads the <service>-server-sbom.json SBOM of every registered service
and prints the unique licenses found in the components' license evidence.`,
	Args:              cobra.NoArgs,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
	RunE:              generateReport,
}

func init() {
	RootCmd.PersistentFlags().StringVar(&flagDir, "dir", ".", "Directory of the SBOM files")
	RootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Service registry (YAML), the built-in services are used if not set")
	RootCmd.PersistentFlags().StringVar(&flagFormat, "format", string(report.FormatText), "Output format: text or table")
	RootCmd.PersistentFlags().BoolVar(&flagVerbose, "verbose", false, "Enable debug logs")
}

// Execute routes logs to stderr, so that even flag parsing errors stay off
// the report output, then runs the root command.
func Execute() error {
	log.SetOutWriter(os.Stderr)
	return RootCmd.Execute()
}

func setup(cmd *cobra.Command, args []string) error {
	log.SetOutWriter(os.Stderr)
	log.SetEnableDebugLog(flagVerbose)
	return nil
}

func loadRegistry() (registry.Registry, error) {
	if flagConfig == "" {
		return registry.Default(), nil
	}
	log.Debugf("loading service registry: %s", flagConfig)
	return registry.Load(flagConfig)
}

func generateReport(cmd *cobra.Command, args []string) error {
	format, err := report.ParseFormat(flagFormat)
	if err != nil {
		return err
	}

	reg, err := loadRegistry()
	if err != nil {
		return err
	}

	g := report.Generator{
		Out:      cmd.OutOrStdout(),
		Analyzer: sbom.Analyzer{Dir: flagDir},
		Format:   format,
	}
	return g.Run(reg)
}
