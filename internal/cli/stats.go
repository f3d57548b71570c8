package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/rcliao/qa-keywords/internal/store"
)

func init() {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show entry and value counts, overall or for one scope",
		Run:   runStats,
	}

	cmd.Flags().StringP("scope", "s", "", "Only count entries of this scope")
	cmd.Flags().String("format", "json", "Output format: json or yaml")

	RootCmd.AddCommand(cmd)
}

func runStats(cmd *cobra.Command, args []string) {
	scope, _ := cmd.Flags().GetString("scope")
	format, _ := cmd.Flags().GetString("format")

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	stats, err := s.Stats(cmd.Context(), cfg.DBPath, scope)
	if err != nil {
		exitErr("stats", err)
	}

	if err := writeStats(cmd.OutOrStdout(), format, stats); err != nil {
		exitErr("stats", err)
	}
}

func writeStats(w io.Writer, format string, st *store.Stats) error {
	switch format {
	case "json":
		b, err := json.MarshalIndent(st, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(b))
		return err
	case "yaml":
		return yaml.NewEncoder(w).Encode(st)
	default:
		return fmt.Errorf("unknown format %q (use json or yaml)", format)
	}
}
