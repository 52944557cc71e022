package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "pathline",
		Short: "Guarded navigation engine for server-driven web apps",
		Long: `Pathline runs an authoritative navigation engine on the server
and mirrors it to connected browsers over WebSocket.

Features:

  • Pattern routing with :params and a catch-all fallback
  • Guard chains with redirect-on-denial
  • Reactive state stores with snapshot persistence
  • Prometheus and OpenTelemetry observers`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		serveCmd(),
		initCmd(),
		versionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}
