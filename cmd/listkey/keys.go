package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/DarlingtonDeveloper/listkey/fingerprint"
	"github.com/DarlingtonDeveloper/listkey/jsonvalue"
	"github.com/DarlingtonDeveloper/listkey/keyer"
)

// CLI flags for keys command
var (
	keysWithItems bool
	keysHasher    string
	keysProbeWarn int
)

func init() {
	rootCmd.AddCommand(keysCmd)
	rootCmd.AddCommand(fingerprintCmd)

	keysCmd.Flags().BoolVar(&keysWithItems, "with-items", false, "Print a JSON array of {item, key} instead of bare keys")
	keysCmd.Flags().StringVar(&keysHasher, "hasher", "sha1", "Digest function: sha1 (28-char keys) or xxh3 (24-char keys)")
	keysCmd.Flags().IntVar(&keysProbeWarn, "probe-warn", keyer.DefaultProbeWarn, "Warn when a key needs this many collision suffixes (0 disables)")
}

var keysCmd = &cobra.Command{
	Use:   "keys [file]",
	Short: "Print a key for every element of a JSON array",
	Long: `Reads a JSON array from file, or stdin when file is omitted or "-",
and prints one key per element in input order.

Example:
  echo '["1", "2", "2", {"a": 1}]' | listkey keys
  listkey keys --with-items items.json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runKeys,
}

var fingerprintCmd = &cobra.Command{
	Use:   "fingerprint [file]",
	Short: "Print the shallow fingerprint of every element of a JSON array",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runFingerprint,
}

// keyedItem is one element of --with-items output.
type keyedItem struct {
	Item jsonvalue.Value `json:"item"`
	Key  string          `json:"key"`
}

func runKeys(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup(cmd)
	if err != nil {
		return err
	}
	defer log.Sync()

	items, err := readItems(cmd, args)
	if err != nil {
		return err
	}

	k, err := cfg.NewKeyer(log)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if keysWithItems {
		mapped := keyer.Map(k, items, func(item any, key string) keyedItem {
			return keyedItem{Item: jsonvalue.Value{V: item}, Key: key}
		})
		if mapped == nil {
			return nil
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(mapped); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		return nil
	}

	for _, key := range k.Keys(items) {
		if _, err := fmt.Fprintln(out, key); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func runFingerprint(cmd *cobra.Command, args []string) error {
	items, err := readItems(cmd, args)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	for _, item := range items {
		if _, err := fmt.Fprintln(out, fingerprint.Of(item)); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

// readItems decodes the JSON array named by args, or stdin.
func readItems(cmd *cobra.Command, args []string) ([]any, error) {
	var (
		r    io.Reader = cmd.InOrStdin()
		name           = "stdin"
	)
	if len(args) == 1 && args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			return nil, fmt.Errorf("failed to open input: %w", err)
		}
		defer f.Close()
		r, name = f, args[0]
	}

	items, err := jsonvalue.DecodeArray(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", name, err)
	}
	return items, nil
}
