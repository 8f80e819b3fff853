package commands

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(syncCmd)
}

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Runs one sync of the flights sheet into the calendar.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		services, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer services.Close(ctx)

		processor, err := services.NewSyncProcessor(ctx)
		if err != nil {
			return err
		}
		result, err := processor.Run(ctx)
		if err != nil {
			return err
		}

		t := newTable(cmd.OutOrStdout())
		t.AppendHeader(table.Row{"Rows", "Synced", "Skipped", "Failed"})
		t.AppendRow(table.Row{result.Rows, result.Synced, result.Skipped, result.Failed})
		t.Render()
		return nil
	},
}
