package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze resume text",
	Long: `Submits resume text for analysis and prints the stored summary. The new analysis becomes
the active one and its saved answers are listed.

The text is read from --text, from --text-file, or from stdin when neither is given.`,
	Args: cobra.NoArgs,
	RunE: runAnalyze,
}

var (
	analyzeText     string
	analyzeTextFile string
)

func init() {
	analyzeCmd.Flags().StringVarP(&analyzeText, "text", "t", "", "Resume text (mutually exclusive with --text-file)")
	analyzeCmd.Flags().StringVarP(&analyzeTextFile, "text-file", "f", "", "Path to a resume text file (mutually exclusive with --text)")
	analyzeCmd.MarkFlagsMutuallyExclusive("text", "text-file")

	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, _ []string) error {
	text, err := readResumeText(cmd)
	if err != nil {
		return err
	}

	rt, err := newRuntime(cmd)
	if err != nil {
		return err
	}
	defer rt.close()

	analysis, err := rt.session.Analyze(cmd.Context(), text)
	if err != nil {
		return err
	}
	rt.printer.PrintAnalysis(analysis)

	rt.session.Wait()
	rt.printer.PrintAnswerList(rt.session.Active(), rt.session.Answers())
	return nil
}

func readResumeText(cmd *cobra.Command) (string, error) {
	switch {
	case cmd.Flags().Changed("text"):
		return analyzeText, nil
	case analyzeTextFile != "":
		data, err := os.ReadFile(analyzeTextFile)
		if err != nil {
			return "", fmt.Errorf("failed to read resume file %s: %w", analyzeTextFile, err)
		}
		return string(data), nil
	default:
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("failed to read resume from stdin: %w", err)
		}
		return string(data), nil
	}
}
