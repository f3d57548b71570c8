package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rcliao/qa-keywords/internal/model"
	"github.com/rcliao/qa-keywords/internal/store"
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "add [reply...]",
		Short: "Add a keyword reply",
		Long:  "Add a keyword with one or more replies. Each positional arg is one reply, in order; with no args the reply is read from stdin.",
		Run:   runAdd,
	}

	cmd.Flags().StringP("scope", "s", "", "Scope, e.g. chat group ID (required)")
	cmd.Flags().StringP("keyword", "k", "", "Keyword (required)")
	cmd.Flags().StringP("type", "t", string(model.ValueText), "Value type: TEXT, IMAGE_URL, FILE_URL, MARKDOWN")
	cmd.Flags().String("match-type", string(model.MatchExact), "Match type: EXACT, FUZZY, REGEX")
	cmd.Flags().String("status", string(model.StatusActive), "Status: ACTIVE, INACTIVE, ARCHIVED")
	cmd.Flags().IntP("priority", "p", 0, "Priority, higher wins")

	cmd.MarkFlagRequired("scope")
	cmd.MarkFlagRequired("keyword")

	RootCmd.AddCommand(cmd)
}

func runAdd(cmd *cobra.Command, args []string) {
	scope, _ := cmd.Flags().GetString("scope")
	keyword, _ := cmd.Flags().GetString("keyword")
	valueType, _ := cmd.Flags().GetString("type")
	matchType, _ := cmd.Flags().GetString("match-type")
	status, _ := cmd.Flags().GetString("status")
	priority, _ := cmd.Flags().GetInt("priority")

	vt := model.ValueType(strings.ToUpper(valueType))
	if !model.ValidValueTypes[vt] {
		exitErr("add", fmt.Errorf("invalid type %q (valid: TEXT, IMAGE_URL, FILE_URL, MARKDOWN)", valueType))
	}
	mt := model.MatchType(strings.ToUpper(matchType))
	if !model.ValidMatchTypes[mt] {
		exitErr("add", fmt.Errorf("invalid match type %q (valid: EXACT, FUZZY, REGEX)", matchType))
	}

	replies := args
	if len(replies) == 0 {
		stat, _ := os.Stdin.Stat()
		if (stat.Mode() & os.ModeCharDevice) == 0 {
			b, err := io.ReadAll(os.Stdin)
			if err != nil {
				exitErr("read stdin", err)
			}
			if reply := strings.TrimSpace(string(b)); reply != "" {
				replies = []string{reply}
			}
		}
	}
	if len(replies) == 0 {
		exitErr("add", fmt.Errorf("at least one reply is required (positional args or stdin)"))
	}

	values := make([]store.ValueInput, 0, len(replies))
	for _, r := range replies {
		values = append(values, store.ValueInput{
			Type:    vt,
			Content: r,
		})
	}

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	id, err := s.Add(cmd.Context(), store.AddParams{
		Scope:     scope,
		Keyword:   keyword,
		Values:    values,
		MatchType: mt,
		Status:    model.Status(strings.ToUpper(status)),
		Priority:  priority,
	})
	if err != nil {
		exitErr("add", err)
	}

	b, _ := json.Marshal(map[string]string{"entry_id": id, "scope": scope, "keyword": keyword})
	fmt.Fprintln(cmd.OutOrStdout(), string(b))
}
