package analyze

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"voice-analysis-toolkit/cmd/vat/cmd/cmdutil"
	"voice-analysis-toolkit/internal/app"
	"voice-analysis-toolkit/internal/app/analysis"
	"voice-analysis-toolkit/internal/app/converter"
	"voice-analysis-toolkit/internal/app/model"
	"voice-analysis-toolkit/internal/config"
)

var (
	task     string
	question string
)

func init() {
	Cmd.Flags().StringVarP(&task, "task", "t", model.TaskSummary, "summary, sentiment or question")
	Cmd.Flags().StringVarP(&question, "question", "q", "", "the question to answer when --task=question")
}

// Cmd represents the analyze command
var Cmd = &cobra.Command{
	Use:   "analyze <audio file | transcript.txt>",
	Short: "Summarize, classify or question a single recording",
	Long: `Run one analysis task over an audio file or an existing .txt transcript.

- Audio files are validated and transcribed first
- Text files are analyzed as they are`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		switch task {
		case model.TaskSummary, model.TaskSentiment:
		case model.TaskQuestion:
			if strings.TrimSpace(question) == "" {
				return fmt.Errorf("--question is required when --task=question")
			}
		default:
			return fmt.Errorf("unknown task %q: must be summary, sentiment or question", task)
		}

		cfg, logger, err := cmdutil.Load(cmd, true)
		if err != nil {
			return err
		}
		defer logger.Sync()

		text, err := transcript(cmd, cfg, logger, args[0])
		if err != nil {
			return err
		}

		analyzer, err := app.InitializeAnalysis(cfg, logger)
		if err != nil {
			return err
		}

		out, err := run(cmd, analyzer, text)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), out)
		return nil
	},
}

func run(cmd *cobra.Command, analyzer *analysis.Service, text string) (string, error) {
	ctx := cmd.Context()
	switch task {
	case model.TaskSentiment:
		return analyzer.Sentiment(ctx, text)
	case model.TaskQuestion:
		return analyzer.AnswerQuestion(ctx, text, question, nil)
	default:
		return analyzer.Summarize(ctx, text)
	}
}

func transcript(cmd *cobra.Command, cfg *config.Config, logger *zap.Logger, path string) (string, error) {
	if strings.EqualFold(filepath.Ext(path), ".txt") {
		data, err := os.ReadFile(path)
		if err != nil {
			return "", err
		}
		text := strings.TrimSpace(string(data))
		if text == "" {
			return "", fmt.Errorf("%s is empty", path)
		}
		return text, nil
	}

	conv, cleanup, err := app.InitializeConverter(cmd.Context(), cfg, logger, converter.ProgressConfig{})
	if err != nil {
		return "", err
	}
	defer cleanup()

	results, err := conv.ConvertFiles(cmd.Context(), []string{path}, converter.Options{Parallel: 1})
	if err != nil {
		return "", err
	}
	if results[0].Err != nil {
		return "", results[0].Err
	}
	return results[0].Transcript, nil
}
