package main

import (
	"github.com/spf13/cobra"
)

var deleteAnalysisCmd = &cobra.Command{
	Use:   "delete-analysis <id>",
	Short: "Delete a resume analysis",
	Args:  cobra.ExactArgs(1),
	RunE:  runDeleteAnalysis,
}

var deleteAnswerCmd = &cobra.Command{
	Use:   "delete-answer <id>",
	Short: "Delete a saved answer",
	Args:  cobra.ExactArgs(1),
	RunE:  runDeleteAnswer,
}

func init() {
	rootCmd.AddCommand(deleteAnalysisCmd)
	rootCmd.AddCommand(deleteAnswerCmd)
}

func runDeleteAnalysis(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	rt, err := newRuntime(cmd)
	if err != nil {
		return err
	}
	defer rt.close()

	rt.session.Adopt(id)
	if err := rt.session.DeleteAnalysis(cmd.Context()); err != nil {
		return err
	}
	rt.printer.Success("Deleted resume analysis %d", id)
	return nil
}

func runDeleteAnswer(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	rt, err := newRuntime(cmd)
	if err != nil {
		return err
	}
	defer rt.close()

	if err := rt.session.DeleteAnswer(cmd.Context(), id); err != nil {
		return err
	}
	rt.printer.Success("Deleted answer %d", id)
	return nil
}
