package main

import (
	"github.com/spf13/cobra"

	"github.com/jonathan/job-assistant/internal/apiclient"
	"github.com/jonathan/job-assistant/internal/translate"
	"github.com/jonathan/job-assistant/internal/types"
)

var answersCmd = &cobra.Command{
	Use:   "answers",
	Short: "List the saved answers of a resume analysis, newest first",
	Args:  cobra.NoArgs,
	RunE:  runAnswers,
}

var (
	answersAnalysisID int64
	answersLimit      int
	answersOffset     int
)

func init() {
	answersCmd.Flags().Int64Var(&answersAnalysisID, "analysis-id", 0, "Resume analysis id (required)")
	answersCmd.Flags().IntVar(&answersLimit, "limit", 0, "Page size (defaults to the configured page size)")
	answersCmd.Flags().IntVar(&answersOffset, "offset", 0, "Number of answers to skip")
	_ = answersCmd.MarkFlagRequired("analysis-id")

	rootCmd.AddCommand(answersCmd)
}

func runAnswers(cmd *cobra.Command, _ []string) error {
	rt, err := newRuntime(cmd)
	if err != nil {
		return err
	}
	defer rt.close()

	opts := types.ListOptions{Limit: rt.cfg.PageSize, Offset: answersOffset}
	if cmd.Flags().Changed("limit") {
		opts.Limit = answersLimit
	}

	items, err := rt.client.ListAnswers(cmd.Context(), answersAnalysisID, opts)
	if err != nil {
		return translate.Translate(apiclient.OpListAnswers, err)
	}
	rt.printer.PrintAnswerList(types.OptionalID(answersAnalysisID), items)
	return nil
}
