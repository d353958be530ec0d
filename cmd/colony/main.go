package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	configPath      string
	stockPath       string
	consumptionPath string
	colonyPath      string
	scenarioPath    string
	auditDir        string
	verbose         bool
)

var rootCmd = &cobra.Command{
	Use:   "colony",
	Short: "Manage the buildings and resources of a space colony",
	Long: `colony loads a resource stock, a building consumption catalog and an
initial colony layout, then runs an interactive menu for constructing and
demolishing buildings.

Files not given on the command line or in the config are prompted for.`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runColony(runConfig{
			TuningPath:      configPath,
			StockPath:       stockPath,
			ConsumptionPath: consumptionPath,
			ColonyPath:      colonyPath,
			ScenarioPath:    scenarioPath,
			AuditDir:        auditDir,
			Verbose:         verbose,
		}, cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr())
	},
}

var auditCmd = &cobra.Command{
	Use:   "audit [file|dir...]",
	Short: "Print the entries of audit files, or of every audit file in a directory",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return printAudit(cmd.OutOrStdout(), args)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to tuning.yaml")
	rootCmd.Flags().StringVar(&stockPath, "stock", "", "stock file (name quantity per line)")
	rootCmd.Flags().StringVar(&consumptionPath, "consumption", "", "building consumption file")
	rootCmd.Flags().StringVar(&colonyPath, "colony", "", "initial colony file")
	rootCmd.Flags().StringVar(&scenarioPath, "scenario", "", "YAML scenario holding stock, consumption and colony")
	rootCmd.Flags().StringVar(&auditDir, "audit-dir", "", "directory for the compressed audit trail")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	rootCmd.AddCommand(auditCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintln(os.Stderr, "colony:", err)
		}
		os.Exit(1)
	}
}
