package main

import (
	"github.com/spf13/cobra"

	"github.com/jonathan/job-assistant/internal/apiclient"
	"github.com/jonathan/job-assistant/internal/translate"
)

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Show usage counts",
	Long: `Shows total users, resume analyses and answers. With --user, shows only the counts of the
user given by --user-id.`,
	Args: cobra.NoArgs,
	RunE: runMetrics,
}

var metricsUser bool

func init() {
	metricsCmd.Flags().BoolVar(&metricsUser, "user", false, "Show the counts of the --user-id user only")
	rootCmd.AddCommand(metricsCmd)
}

func runMetrics(cmd *cobra.Command, _ []string) error {
	rt, err := newRuntime(cmd)
	if err != nil {
		return err
	}
	defer rt.close()

	if metricsUser {
		metrics, err := rt.client.UserMetrics(cmd.Context())
		if err != nil {
			return translate.Translate(apiclient.OpUserMetrics, err)
		}
		rt.printer.PrintUserMetrics(metrics)
		return nil
	}

	summary, err := rt.client.MetricsSummary(cmd.Context())
	if err != nil {
		return translate.Translate(apiclient.OpMetricsSummary, err)
	}
	rt.printer.PrintMetrics(summary)
	return nil
}
