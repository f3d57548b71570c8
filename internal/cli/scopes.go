package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "scopes",
		Short: "List scopes with active keywords",
		Run:   runScopes,
	}

	RootCmd.AddCommand(cmd)
}

func runScopes(cmd *cobra.Command, args []string) {
	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	scopes, err := s.ListScopes(cmd.Context())
	if err != nil {
		exitErr("list scopes", err)
	}

	b, _ := json.MarshalIndent(scopes, "", "  ")
	fmt.Fprintln(cmd.OutOrStdout(), string(b))
}
