package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/DarlingtonDeveloper/listkey/keyer"
	"github.com/DarlingtonDeveloper/listkey/serve"
)

var (
	servePort      int
	serveAuthToken string
	serveHasher    string
	serveProbeWarn int
)

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().IntVarP(&servePort, "port", "p", 8080, "Port to serve on")
	serveCmd.Flags().StringVar(&serveAuthToken, "auth-token", "", "Bearer token required by /api/keys and /ws (empty disables auth)")
	serveCmd.Flags().StringVar(&serveHasher, "hasher", "sha1", "Digest function: sha1 (28-char keys) or xxh3 (24-char keys)")
	serveCmd.Flags().IntVar(&serveProbeWarn, "probe-warn", keyer.DefaultProbeWarn, "Warn when a key needs this many collision suffixes (0 disables)")
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve keys over HTTP and WebSocket",
	Long: `Starts the listkey service.

Example:
  listkey serve                 # Start on port 8080
  listkey serve -p 3000         # Start on port 3000
  LISTKEY_SERVER_AUTH_TOKEN=s listkey serve`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup(cmd)
	if err != nil {
		return err
	}
	defer log.Sync()

	s, err := serve.New(cfg, log)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return s.Run(ctx)
}
