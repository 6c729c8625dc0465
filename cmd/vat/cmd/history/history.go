package history

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"voice-analysis-toolkit/cmd/vat/cmd/cmdutil"
	"voice-analysis-toolkit/internal/app"
	"voice-analysis-toolkit/internal/app/converter/export"
)

var (
	outputFilePath string
	limit          int
)

func init() {
	exportCmd.Flags().StringVarP(&outputFilePath, "outputFilePath", "o", "", "set outputFilePath")
	_ = exportCmd.MarkFlagRequired("outputFilePath")

	listCmd.Flags().IntVarP(&limit, "limit", "n", 20, "number of transcriptions to show")

	Cmd.AddCommand(exportCmd)
	Cmd.AddCommand(listCmd)
}

// Cmd groups the history subcommands
var Cmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect the processing history",
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export all transcriptions and analyses to excel",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := cmdutil.Load(cmd, true)
		if err != nil {
			return err
		}
		defer logger.Sync()

		repo, cleanup, err := app.InitializeHistory(cmd.Context(), cfg, logger)
		if err != nil {
			return err
		}
		defer cleanup()

		transcriptions, err := repo.ListTranscriptions(cmd.Context(), "", 0)
		if err != nil {
			return err
		}
		analyses, err := repo.ListAnalyses(cmd.Context(), "")
		if err != nil {
			return err
		}

		if err := export.ToExcel(transcriptions, analyses, outputFilePath); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "export finished: %d transcriptions, %d analyses, exported file path: %v\n",
			len(transcriptions), len(analyses), outputFilePath)
		return nil
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Show the most recent transcriptions",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := cmdutil.Load(cmd, true)
		if err != nil {
			return err
		}
		defer logger.Sync()

		repo, cleanup, err := app.InitializeHistory(cmd.Context(), cfg, logger)
		if err != nil {
			return err
		}
		defer cleanup()

		records, err := repo.ListTranscriptions(cmd.Context(), "", limit)
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tCREATED\tFILE\tPROVIDER\tDURATION\tRESULT")
		for _, r := range records {
			result := lo.Ellipsis(r.Transcript, 48)
			if r.HasError {
				result = "error: " + r.ErrorMessage
			}
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%.1fs\t%s\n",
				r.ID, r.CreatedAt.Local().Format(time.DateTime), r.FileName, r.Provider, r.AudioDuration, result)
		}
		return w.Flush()
	},
}
