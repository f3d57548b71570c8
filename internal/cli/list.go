package cli

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the active keywords of a scope with their replies",
		Run:   runList,
	}

	cmd.Flags().StringP("scope", "s", "", "Scope (required)")
	cmd.Flags().Bool("keys-only", false, "Only output keywords")

	cmd.MarkFlagRequired("scope")

	RootCmd.AddCommand(cmd)
}

func runList(cmd *cobra.Command, args []string) {
	scope, _ := cmd.Flags().GetString("scope")
	keysOnly, _ := cmd.Flags().GetBool("keys-only")

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	idx, err := s.ListScope(cmd.Context(), scope)
	if err != nil {
		exitErr("list", err)
	}

	if keysOnly {
		keys := make([]string, 0, len(idx))
		for kw := range idx {
			keys = append(keys, kw)
		}
		sort.Strings(keys)
		for _, kw := range keys {
			fmt.Fprintln(cmd.OutOrStdout(), kw)
		}
		return
	}

	b, _ := json.MarshalIndent(idx, "", "  ")
	fmt.Fprintln(cmd.OutOrStdout(), string(b))
}
