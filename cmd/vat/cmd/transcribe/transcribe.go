package transcribe

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"voice-analysis-toolkit/cmd/vat/cmd/cmdutil"
	"voice-analysis-toolkit/internal/app"
	"voice-analysis-toolkit/internal/app/converter"
)

var (
	outDir   string
	write    bool
	parallel int
	progress bool
)

func init() {
	Cmd.Flags().StringVarP(&outDir, "out-dir", "o", "", "write one .txt transcript per input into this directory")
	Cmd.Flags().BoolVarP(&write, "write", "w", false, "write each transcript next to its input file")
	Cmd.Flags().IntVarP(&parallel, "parallel", "p", 1, "number of files transcribed at once")
	Cmd.Flags().BoolVar(&progress, "progress", false, "show progress bars even when stderr is not a terminal")
}

// Cmd represents the transcribe command
var Cmd = &cobra.Command{
	Use:   "transcribe <audio files...>",
	Short: "Validate and transcribe audio files",
	Long: `Validate and transcribe audio files with the configured provider.

- Files are checked against the same type, size and length limits as uploads
- Transcripts are printed unless --out-dir or --write is given
- Every file is recorded in the history database`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := cmdutil.Load(cmd, true)
		if err != nil {
			return err
		}
		defer logger.Sync()

		if outDir != "" {
			if err := os.MkdirAll(outDir, 0o755); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}
		}

		conv, cleanup, err := app.InitializeConverter(cmd.Context(), cfg, logger, converter.ProgressConfig{
			Enabled: converter.ShouldShowProgress(progress),
			Writer:  cmd.ErrOrStderr(),
		})
		if err != nil {
			return err
		}
		defer cleanup()

		opts := converter.Options{OutDir: outDir, WriteNextToInput: write, Parallel: parallel}
		results, err := conv.ConvertFiles(cmd.Context(), args, opts)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		failed := 0
		for _, r := range results {
			switch {
			case r.Err != nil:
				failed++
				fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", r.Path, r.Err)
			case r.OutputPath != "":
				fmt.Fprintf(out, "%s -> %s\n", r.Path, r.OutputPath)
			default:
				if len(results) > 1 {
					fmt.Fprintf(out, "==> %s <==\n", r.Path)
				}
				fmt.Fprintln(out, r.Transcript)
			}
		}

		if failed > 0 {
			logger.Warn("Some files failed", zap.Int("failed", failed), zap.Int("total", len(results)))
			return fmt.Errorf("%d of %d files failed", failed, len(results))
		}
		return nil
	},
}
