package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	cfgpkg "github.com/datalens-io/datalens/internal/config"
)

var (
	// Global flags (wired to config via loadConfig)
	cfgFile    string
	flagListen string

	// Loaded configuration
	cfg *cfgpkg.Config
)

var rootCmd = &cobra.Command{
	Use:   "datalens",
	Short: "DataLens: upload tabular data and explore it with AI insights",
	Long: `DataLens is a dashboard backend that ingests CSV/JSON uploads into
in-memory datasets and uses a chat-completions provider to generate
insights and answer ad-hoc questions about the data.`,
}

// Execute is the entry point called by main.main()
func Execute() {
	cobra.OnInitialize(loadConfig)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.datalens/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&flagListen, "listen", "", "listen address (overrides config)")
}

func loadConfig() {
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to load config: %v\n", err)
		return
	}
	cfg = c
	if rootCmd.PersistentFlags().Changed("listen") && flagListen != "" {
		cfg.ListenAddr = flagListen
	}
}
