package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rcliao/qa-keywords/internal/match"
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "match [message]",
		Short: "Find the keywords contained in a message",
		Long:  "Load the scope's keyword index and report every keyword contained in the message.",
		Args:  cobra.MinimumNArgs(1),
		Run:   runMatch,
	}

	cmd.Flags().StringP("scope", "s", "", "Scope (required)")
	cmd.Flags().Bool("replies", false, "Print only the TEXT replies, one per line")

	cmd.MarkFlagRequired("scope")

	RootCmd.AddCommand(cmd)
}

func runMatch(cmd *cobra.Command, args []string) {
	scope, _ := cmd.Flags().GetString("scope")
	repliesOnly, _ := cmd.Flags().GetBool("replies")
	message := strings.Join(args, " ")

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	idx, err := s.ListScope(cmd.Context(), scope)
	if err != nil {
		exitErr("match", err)
	}
	hits := match.Match(message, idx)

	if repliesOnly {
		for _, h := range hits {
			for _, text := range h.Texts() {
				fmt.Fprintln(cmd.OutOrStdout(), text)
			}
		}
		return
	}

	b, _ := json.MarshalIndent(hits, "", "  ")
	fmt.Fprintln(cmd.OutOrStdout(), string(b))
}
