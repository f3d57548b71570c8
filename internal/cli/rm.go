package cli

import (
	"encoding/json"
	"fmt"

	"github.com/rcliao/qa-keywords/internal/store"
	"github.com/spf13/cobra"
)

// outcomeMessages localizes delete outcomes for chat replies.
var outcomeMessages = map[string]map[store.DeleteOutcome]string{
	"en": {
		store.Deleted:  "Keyword deleted",
		store.NotFound: "Keyword not found",
		store.Failed:   "Failed to delete keyword",
	},
	"zh": {
		store.Deleted:  "删除关键词成功",
		store.NotFound: "没有找到要删除的关键词",
		store.Failed:   "删除关键词失败",
	},
}

func outcomeMessage(lang string, o store.DeleteOutcome) string {
	msgs, ok := outcomeMessages[lang]
	if !ok {
		msgs = outcomeMessages["en"]
	}
	return msgs[o]
}

func init() {
	cmd := &cobra.Command{
		Use:   "rm",
		Short: "Delete a keyword and all of its replies",
		Run:   runRm,
	}

	cmd.Flags().StringP("scope", "s", "", "Scope (required)")
	cmd.Flags().StringP("keyword", "k", "", "Keyword (required)")
	cmd.Flags().String("lang", "en", "Message language: en or zh")

	cmd.MarkFlagRequired("scope")
	cmd.MarkFlagRequired("keyword")

	RootCmd.AddCommand(cmd)
}

func runRm(cmd *cobra.Command, args []string) {
	scope, _ := cmd.Flags().GetString("scope")
	keyword, _ := cmd.Flags().GetString("keyword")
	lang, _ := cmd.Flags().GetString("lang")

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	res, err := s.Delete(cmd.Context(), scope, keyword)
	if err != nil {
		exitErr(outcomeMessage(lang, store.Failed), err)
	}

	b, _ := json.Marshal(map[string]interface{}{
		"ok":       res.Outcome == store.Deleted,
		"outcome":  res.Outcome,
		"affected": res.Affected,
		"message":  outcomeMessage(lang, res.Outcome),
	})
	fmt.Fprintln(cmd.OutOrStdout(), string(b))
}
