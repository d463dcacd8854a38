package main

import (
	"github.com/spf13/cobra"

	"github.com/jonathan/job-assistant/internal/assistant"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate an answer to an interview question",
	Long: `Generates an answer to an interview question. With --analysis-id the question is scoped to
that resume analysis and the analysis's saved answers are listed afterwards.`,
	Args: cobra.NoArgs,
	RunE: runGenerate,
}

var (
	generateQuestion   string
	generateJobTitle   string
	generateCompany    string
	generateAnalysisID int64
)

func init() {
	generateCmd.Flags().StringVarP(&generateQuestion, "question", "q", "", "Interview question (required)")
	generateCmd.Flags().StringVar(&generateJobTitle, "job-title", "", "Target job title")
	generateCmd.Flags().StringVar(&generateCompany, "company", "", "Target company name")
	generateCmd.Flags().Int64Var(&generateAnalysisID, "analysis-id", 0, "Resume analysis to scope the answer to")
	_ = generateCmd.MarkFlagRequired("question")

	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, _ []string) error {
	rt, err := newRuntime(cmd)
	if err != nil {
		return err
	}
	defer rt.close()

	if generateAnalysisID > 0 {
		rt.session.Adopt(generateAnalysisID)
	}

	answer, err := rt.session.Generate(cmd.Context(), assistant.GenerateInput{
		Question:    generateQuestion,
		JobTitle:    generateJobTitle,
		CompanyName: generateCompany,
	})
	if err != nil {
		return err
	}
	rt.printer.PrintAnswer(answer)

	rt.session.Wait()
	if active := rt.session.Active(); active != nil {
		rt.printer.PrintAnswerList(active, rt.session.Answers())
	}
	return nil
}
