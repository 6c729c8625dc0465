package providers

import (
	"context"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"voice-analysis-toolkit/cmd/vat/cmd/cmdutil"
	"voice-analysis-toolkit/internal/app"
	"voice-analysis-toolkit/internal/app/api/provider"
)

const healthTimeout = 10 * time.Second

// Cmd represents the providers command
var Cmd = &cobra.Command{
	Use:   "providers",
	Short: "List transcription providers and the analysis backend with their health",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := cmdutil.Load(cmd, true)
		if err != nil {
			return err
		}
		defer logger.Sync()

		registry, err := app.ProvideProviderRegistry(cfg, logger)
		if err != nil {
			return err
		}
		backend, err := app.ProvideBackend(cfg, logger)
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), healthTimeout)
		defer cancel()
		health := registry.HealthCheckAll(ctx)

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "KIND\tNAME\tTYPE\tMODEL\tDEFAULT\tLATENCY\tSTATUS")
		for _, name := range registry.ListProviders() {
			p, err := registry.GetProvider(name)
			if err != nil {
				continue
			}
			info := p.GetProviderInfo()
			result := health[name]
			fmt.Fprintf(w, "transcription\t%s\t%s\t%s\t%t\t%s\t%s\n",
				name, info.Type, info.DefaultModel, name == registry.DefaultProviderName(),
				result.Latency.Round(time.Millisecond), status(result.Err))
		}
		start := time.Now()
		backendErr := backend.HealthCheck(ctx)
		fmt.Fprintf(w, "analysis\t%s\t%s\t%s\t%t\t%s\t%s\n",
			backend.Name(), backendType(backend.Name()), backend.Model(), true,
			time.Since(start).Round(time.Millisecond), status(backendErr))
		return w.Flush()
	},
}

func status(err error) string {
	if err != nil {
		return "unhealthy: " + err.Error()
	}
	return "healthy"
}

func backendType(name string) provider.ProviderType {
	if name == "ollama" {
		return provider.ProviderTypeLocal
	}
	return provider.ProviderTypeRemote
}
