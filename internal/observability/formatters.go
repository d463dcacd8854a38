// Package observability provides formatted terminal output for the CLI.
package observability

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/fatih/color"

	"github.com/jonathan/job-assistant/internal/assistant"
	"github.com/jonathan/job-assistant/internal/translate"
	"github.com/jonathan/job-assistant/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 72
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 10
	// previewWidth bounds single-line previews inside lists
	previewWidth = 52
)

var (
	failureColor = color.New(color.FgRed)
	successColor = color.New(color.FgGreen)
	noticeColor  = color.New(color.FgYellow)
)

// Printer handles formatted output
type Printer struct {
	out     io.Writer
	verbose bool
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// WithVerbose returns a copy of the printer that also prints failure causes.
func (p *Printer) WithVerbose(verbose bool) *Printer {
	cp := *p
	cp.verbose = verbose
	return &cp
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %s │\n", pad(title, boxWidth-4))
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		for _, wrapped := range wrap(line, boxWidth-4) {
			fmt.Fprintf(p.out, "│ %s │\n", pad(wrapped, boxWidth-4))
		}
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintStatus outputs the result of the backend status check.
func (p *Printer) PrintStatus(state assistant.StatusState) {
	var sb strings.Builder
	switch state.Phase {
	case assistant.PhaseOK:
		r := state.Report
		sb.WriteString(fmt.Sprintf("Status:       %s\n", r.Status))
		sb.WriteString(fmt.Sprintf("Version:      %s\n", orDash(r.Version)))
		sb.WriteString(fmt.Sprintf("Environment:  %s\n", orDash(r.Environment)))
		sb.WriteString(fmt.Sprintf("LLM provider: %s\n", orDash(r.LLMProvider)))
		sb.WriteString(fmt.Sprintf("Database:     %s", orDash(r.Checks.Database)))
	case assistant.PhasePending:
		sb.WriteString("Checking...")
	default:
		sb.WriteString(fmt.Sprintf("Status: %s", state.Phase))
		if state.Err != nil {
			sb.WriteString("\n" + state.Err.Message())
		}
	}
	p.printBox("BACKEND STATUS", sb.String())
}

// PrintAnalysis outputs a stored resume analysis.
func (p *Printer) PrintAnalysis(analysis *types.ResumeAnalysis) {
	if analysis == nil {
		return
	}

	var sb strings.Builder
	if analysis.ID > 0 {
		sb.WriteString(fmt.Sprintf("Analysis ID: %d\n", analysis.ID))
	}
	sb.WriteString(fmt.Sprintf("Provider:    %s\n", orDash(analysis.Provider)))
	if analysis.CreatedAt != "" {
		sb.WriteString(fmt.Sprintf("Created:     %s\n", analysis.CreatedAt))
	}
	sb.WriteString("\n")
	sb.WriteString(analysis.Summary)

	p.printBox("RESUME ANALYSIS", sb.String())
}

// PrintAnswer outputs a generated answer.
func (p *Printer) PrintAnswer(answer *types.InterviewAnswer) {
	if answer == nil {
		return
	}

	var sb strings.Builder
	if answer.ID > 0 {
		sb.WriteString(fmt.Sprintf("Answer ID: %d\n", answer.ID))
	}
	if answer.ResumeAnalysisID != nil {
		sb.WriteString(fmt.Sprintf("Analysis:  %d\n", *answer.ResumeAnalysisID))
	}
	sb.WriteString(fmt.Sprintf("Provider:  %s\n", orDash(answer.Provider)))
	if answer.CreatedAt != "" {
		sb.WriteString(fmt.Sprintf("Created:   %s\n", answer.CreatedAt))
	}
	sb.WriteString("\n")
	sb.WriteString(answer.Answer)

	p.printBox("GENERATED ANSWER", sb.String())
}

// PrintAnswerList outputs the cached answers for one analysis.
func (p *Printer) PrintAnswerList(analysisID *int64, items []types.AnswerSummary) {
	title := "SAVED ANSWERS"
	if analysisID != nil {
		title = fmt.Sprintf("SAVED ANSWERS (analysis %d)", *analysisID)
	}
	if len(items) == 0 {
		p.printBox(title, "No saved answers.")
		return
	}

	var sb strings.Builder
	count := min(len(items), maxItemsToShow)
	for i := 0; i < count; i++ {
		item := items[i]
		sb.WriteString(fmt.Sprintf("#%d  %s\n", item.ID, truncate(item.Question, previewWidth)))
		sb.WriteString(fmt.Sprintf("     %s\n", truncate(item.Answer, previewWidth)))
		meta := orDash(item.Provider)
		if item.CreatedAt != "" {
			meta += " · " + item.CreatedAt
		}
		sb.WriteString(fmt.Sprintf("     %s\n", meta))
		if i < count-1 {
			sb.WriteString("\n")
		}
	}
	if len(items) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("\n... and %d more answers", len(items)-maxItemsToShow))
	}

	p.printBox(title, strings.TrimSuffix(sb.String(), "\n"))
}

// PrintSession outputs both workflows of a session snapshot.
func (p *Printer) PrintSession(snap assistant.Snapshot) {
	var sb strings.Builder
	if snap.Active != nil {
		sb.WriteString(fmt.Sprintf("Active analysis: %d\n", *snap.Active))
	} else {
		sb.WriteString("Active analysis: none\n")
	}
	if snap.Resume.Summary != "" {
		sb.WriteString(fmt.Sprintf("Summary (%s): %s\n", orDash(snap.Resume.Provider), snap.Resume.Summary))
	}
	if snap.Resume.Err != nil {
		sb.WriteString(fmt.Sprintf("Resume error: %s\n", snap.Resume.Err.Message()))
	}

	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("Job title:  %s\n", orDash(snap.Answer.JobTitle)))
	sb.WriteString(fmt.Sprintf("Company:    %s\n", orDash(snap.Answer.CompanyName)))
	sb.WriteString(fmt.Sprintf("Question:   %s\n", orDash(snap.Answer.Question)))
	if snap.Answer.Answer != "" {
		sb.WriteString(fmt.Sprintf("Answer (%s): %s\n", orDash(snap.Answer.Provider), snap.Answer.Answer))
	}
	if snap.Answer.Err != nil {
		sb.WriteString(fmt.Sprintf("Answer error: %s\n", snap.Answer.Err.Message()))
	}
	sb.WriteString(fmt.Sprintf("Saved answers: %d", len(snap.Cache.Items)))

	p.printBox("SESSION", sb.String())
}

// PrintUser outputs a user record.
func (p *Printer) PrintUser(user *types.User) {
	if user == nil {
		return
	}
	p.printBox("USER", fmt.Sprintf("ID:       %d\nEmail:    %s\nName:     %s\nCreated:  %s",
		user.ID, user.Email, user.FullName, orDash(user.CreatedAt)))
}

// PrintMetrics outputs the usage summary. Per-user counts are shown when present.
func (p *Printer) PrintMetrics(summary *types.MetricsSummary) {
	if summary == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Users:            %d\n", summary.TotalUsers))
	sb.WriteString(fmt.Sprintf("Resume analyses:  %d\n", summary.TotalResumeAnalyses))
	sb.WriteString(fmt.Sprintf("Answers:          %d", summary.TotalAnswers))
	if summary.UserResumeAnalyses != nil {
		sb.WriteString(fmt.Sprintf("\n\nYour analyses:    %d", *summary.UserResumeAnalyses))
	}
	if summary.UserAnswers != nil {
		sb.WriteString(fmt.Sprintf("\nYour answers:     %d", *summary.UserAnswers))
	}
	p.printBox("METRICS", sb.String())
}

// PrintUserMetrics outputs the counts for one user.
func (p *Printer) PrintUserMetrics(metrics *types.UserMetrics) {
	if metrics == nil {
		return
	}
	p.printBox(fmt.Sprintf("METRICS (user %d)", metrics.UserID),
		fmt.Sprintf("Resume analyses:  %d\nAnswers:          %d", metrics.ResumeAnalyses, metrics.Answers))
}

// PrintFailure outputs an error. Translated failures show their user-facing message.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintFailure(err error) {
	if err == nil {
		return
	}
	var f *translate.Failure
	if errors.As(err, &f) {
		msg := f.Message()
		if p.verbose {
			msg = f.Describe()
		}
		failureColor.Fprintf(p.out, "✗ %s\n", msg)
		return
	}
	if errors.Is(err, assistant.ErrBusy) {
		noticeColor.Fprintf(p.out, "… %s\n", err)
		return
	}
	failureColor.Fprintf(p.out, "✗ %v\n", err)
}

// Success outputs a confirmation line.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) Success(format string, args ...any) {
	successColor.Fprintf(p.out, "✓ "+format+"\n", args...)
}

// Notice outputs an informational line.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) Notice(format string, args ...any) {
	noticeColor.Fprintf(p.out, format+"\n", args...)
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

func truncate(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n-3]) + "..."
}

func pad(s string, width int) string {
	if n := utf8.RuneCountInString(s); n < width {
		return s + strings.Repeat(" ", width-n)
	}
	return s
}

// wrap breaks a line on spaces so no piece is wider than width.
// Words longer than width are split.
func wrap(line string, width int) []string {
	if utf8.RuneCountInString(line) <= width {
		return []string{line}
	}

	var out []string
	var cur []rune
	for _, word := range strings.Fields(line) {
		w := []rune(word)
		for len(w) > width {
			if len(cur) > 0 {
				out = append(out, string(cur))
				cur = nil
			}
			out = append(out, string(w[:width]))
			w = w[width:]
		}
		switch {
		case len(cur) == 0:
			cur = w
		case len(cur)+1+len(w) <= width:
			cur = append(append(cur, ' '), w...)
		default:
			out = append(out, string(cur))
			cur = w
		}
	}
	if len(cur) > 0 {
		out = append(out, string(cur))
	}
	return out
}
