package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// version is set at build time.
var version = "dev"

var (
	noScan  bool
	port    uint16
	verbose bool
	quiet   bool
)

var rootCmd = &cobra.Command{
	Use:     "collectune <collection_path>",
	Short:   "A durable, queryable catalog of an audio file collection",
	Version: version,
	Args:    cobra.ExactArgs(1),
	RunE:    run,
}

func init() {
	rootCmd.Flags().BoolVar(&noScan, "no-scan", false, "start without running a full collection scan")
	rootCmd.Flags().Uint16VarP(&port, "port", "p", 3000, "port to listen on")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "quiet output (errors only)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
