package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"voice-analysis-toolkit/cmd/vat/cmd/analyze"
	"voice-analysis-toolkit/cmd/vat/cmd/cmdutil"
	"voice-analysis-toolkit/cmd/vat/cmd/history"
	"voice-analysis-toolkit/cmd/vat/cmd/providers"
	"voice-analysis-toolkit/cmd/vat/cmd/serve"
	"voice-analysis-toolkit/cmd/vat/cmd/transcribe"
	"voice-analysis-toolkit/cmd/vat/cmd/version"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "vat",
	Short: "Transcribe audio and analyze it with an LLM",
	Long: `Voice Analysis Toolkit transcribes audio files with whisper and
summarizes, classifies the sentiment of, and answers questions about the
transcript using OpenAI, Ollama or Gemini.

- vat serve starts the web UI on port 7860
- vat transcribe and vat analyze do the same work from the terminal
- Processed files are recorded in the history database.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(serve.Cmd)
	rootCmd.AddCommand(transcribe.Cmd)
	rootCmd.AddCommand(analyze.Cmd)
	rootCmd.AddCommand(history.Cmd)
	rootCmd.AddCommand(providers.Cmd)
	rootCmd.AddCommand(version.Cmd)

	rootCmd.PersistentFlags().StringP(cmdutil.ConfigFlag, "c", "", "YAML config file (environment variables and .env are always read)")
	rootCmd.PersistentFlags().BoolP(cmdutil.VerboseFlag, "V", false, "verbose output")
}
