package cli

import (
	"fmt"
	"strings"

	"github.com/rcliao/qa-keywords/internal/model"
	"github.com/rcliao/qa-keywords/internal/store"
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "update",
		Short: "Change status or priority of a keyword's entries",
		Run:   runUpdate,
	}

	cmd.Flags().StringP("scope", "s", "", "Scope (required)")
	cmd.Flags().StringP("keyword", "k", "", "Keyword (required)")
	cmd.Flags().String("status", "", "New status: ACTIVE, INACTIVE, ARCHIVED")
	cmd.Flags().IntP("priority", "p", 0, "New priority")

	cmd.MarkFlagRequired("scope")
	cmd.MarkFlagRequired("keyword")

	RootCmd.AddCommand(cmd)
}

func runUpdate(cmd *cobra.Command, args []string) {
	scope, _ := cmd.Flags().GetString("scope")
	keyword, _ := cmd.Flags().GetString("keyword")

	p := store.UpdateParams{Scope: scope, Keyword: keyword}
	if cmd.Flags().Changed("status") {
		raw, _ := cmd.Flags().GetString("status")
		status := model.Status(strings.ToUpper(raw))
		p.Status = &status
	}
	if cmd.Flags().Changed("priority") {
		priority, _ := cmd.Flags().GetInt("priority")
		p.Priority = &priority
	}

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	n, err := s.Update(cmd.Context(), p)
	if err != nil {
		exitErr("update", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), `{"ok":true,"scope":%q,"keyword":%q,"affected":%d}`+"\n", scope, keyword, n)
}
