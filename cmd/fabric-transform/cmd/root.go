package cmd

import (
	"github.com/spf13/cobra"
)

var (
	configFile string
	dbURL      string
)

var rootCmd = &cobra.Command{
	Use:   "fabric-transform",
	Short: "Fabric batch field transformation engine",
	Long:  `fabric-transform derives output fields from input records using declarative mapping templates: constants, source copies, composite aggregation, and conditional logic with fixed-width formatting.`,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path")
	rootCmd.PersistentFlags().StringVar(&dbURL, "db-url", "", "database connection URL (sqlite://path or postgres://...)")
}

func Execute() error {
	return rootCmd.Execute()
}
