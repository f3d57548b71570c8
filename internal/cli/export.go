package cli

import (
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export entries with their replies",
		Long:  "Export every entry (any status) with its replies as JSON or YAML. Filter by scope with -s.",
		Run:   runExport,
	}

	cmd.Flags().StringP("scope", "s", "", "Filter by scope")
	cmd.Flags().String("format", "json", "Output format: json or yaml")

	RootCmd.AddCommand(cmd)
}

func runExport(cmd *cobra.Command, args []string) {
	scope, _ := cmd.Flags().GetString("scope")
	format, _ := cmd.Flags().GetString("format")

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	records, err := s.ExportAll(cmd.Context(), scope)
	if err != nil {
		exitErr("export", err)
	}

	if err := encodeRecords(cmd.OutOrStdout(), format, records); err != nil {
		exitErr("export", err)
	}
}
