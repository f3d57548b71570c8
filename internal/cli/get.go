package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "get",
		Short: "Show the replies of a keyword",
		Run:   runGet,
	}

	cmd.Flags().StringP("scope", "s", "", "Scope (required)")
	cmd.Flags().StringP("keyword", "k", "", "Keyword (required)")

	cmd.MarkFlagRequired("scope")
	cmd.MarkFlagRequired("keyword")

	RootCmd.AddCommand(cmd)
}

func runGet(cmd *cobra.Command, args []string) {
	scope, _ := cmd.Flags().GetString("scope")
	keyword, _ := cmd.Flags().GetString("keyword")

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	values, err := s.Get(cmd.Context(), scope, keyword)
	if err != nil {
		exitErr("get", err)
	}

	b, _ := json.MarshalIndent(values, "", "  ")
	fmt.Fprintln(cmd.OutOrStdout(), string(b))
}
