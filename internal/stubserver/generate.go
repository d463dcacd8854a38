package stubserver

import (
	"fmt"
	"strings"
)

// Summarize returns the stub resume summary: word and non-empty line counts.
func Summarize(resumeText string) string {
	words := len(strings.Fields(resumeText))
	lines := 0
	for _, line := range strings.Split(resumeText, "\n") {
		if strings.TrimSpace(line) != "" {
			lines++
		}
	}
	return fmt.Sprintf("Basic analysis only. Approximate word count: %d. Non-empty line count: %d.", words, lines)
}

// PlaceholderAnswer returns the stub answer to an interview question.
func PlaceholderAnswer(question, jobTitle, companyName string) string {
	parts := []string{"Question: " + question}
	if jobTitle != "" {
		parts = append(parts, "Target role: "+jobTitle)
	}
	if companyName != "" {
		parts = append(parts, "Company: "+companyName)
	}
	parts = append(parts, "This is a placeholder answer for development purposes, not a final AI-generated response.")
	return strings.Join(parts, " | ")
}
