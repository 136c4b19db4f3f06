package report

import (
	"fmt"
	"io"
	"strings"
)

// MarkdownFormatter writes a summary as Markdown suitable for issues,
// PR descriptions and docs.
type MarkdownFormatter struct{}

// NewMarkdownFormatter creates a Markdown report formatter.
func NewMarkdownFormatter() *MarkdownFormatter {
	return &MarkdownFormatter{}
}

// Format writes the summary as Markdown to the given writer.
func (f *MarkdownFormatter) Format(w io.Writer, summary *Summary) error {
	f.writeHeader(w, summary)
	f.writeSummaryTable(w, summary)
	f.writeIssues(w, summary)
	f.writeEnhancements(w, summary)
	f.writeHosting(w, summary)
	f.writeFooter(w, summary)
	return nil
}

func (f *MarkdownFormatter) writeHeader(w io.Writer, summary *Summary) {
	result := summary.Result
	fmt.Fprintf(w, "# Audit Report — %s/%s\n\n", result.Owner, result.Repo)
	fmt.Fprintf(w, "%s\n\n", summary.Headline)
}

func (f *MarkdownFormatter) writeSummaryTable(w io.Writer, summary *Summary) {
	s := summary.Stats

	fmt.Fprintln(w, "| Metric | Value |")
	fmt.Fprintln(w, "|--------|-------|")
	fmt.Fprintf(w, "| **Issues** | %d (%s) |\n", s.TotalIssues, formatSeverityCounts(s.IssuesBySeverity))
	fmt.Fprintf(w, "| **Enhancements** | %d |\n", s.TotalEnhancements)
	fmt.Fprintf(w, "| **Files Analyzed** | %d |\n", s.TotalFiles)
	if s.AnalyzedLines > 0 {
		fmt.Fprintf(w, "| **Lines Analyzed** | %d |\n", s.AnalyzedLines)
	}
	fmt.Fprintln(w)
}

func (f *MarkdownFormatter) writeIssues(w io.Writer, summary *Summary) {
	issues := summary.Result.Issues
	if len(issues) == 0 {
		fmt.Fprintln(w, "> No issues found — clean repository!")
		fmt.Fprintln(w)
		return
	}

	fmt.Fprintf(w, "## Issues (%d)\n\n", len(issues))

	for _, issue := range issues {
		fmt.Fprintf(w, "<details>\n")
		fmt.Fprintf(w, "<summary><strong>%s</strong> [%s] — <code>%s</code></summary>\n\n",
			issue.Title, strings.ToUpper(string(issue.Severity)), location(issue.File, issue.Line))

		if issue.Description != "" {
			fmt.Fprintf(w, "%s\n\n", issue.Description)
		}
		if issue.Impact != "" {
			fmt.Fprintf(w, "**Impact:** %s\n\n", issue.Impact)
		}
		if issue.Recommendation != "" {
			fmt.Fprintf(w, "**Recommendation:** %s\n\n", issue.Recommendation)
		}
		fmt.Fprintln(w, "</details>")
		fmt.Fprintln(w)
	}
}

func (f *MarkdownFormatter) writeEnhancements(w io.Writer, summary *Summary) {
	enhancements := summary.Result.Enhancements
	if len(enhancements) == 0 {
		return
	}

	fmt.Fprintf(w, "## Enhancements (%d)\n\n", len(enhancements))
	for _, e := range enhancements {
		fmt.Fprintf(w, "- **%s** (%s)", e.Title, e.Type)
		if e.File != "" {
			fmt.Fprintf(w, " — `%s`", location(e.File, e.Line))
		}
		fmt.Fprintln(w)
		if e.Suggestion != "" {
			fmt.Fprintf(w, "  - %s\n", e.Suggestion)
		}
	}
	fmt.Fprintln(w)
}

func (f *MarkdownFormatter) writeHosting(w io.Writer, summary *Summary) {
	hc := summary.Result.HostingConfig
	if hc == nil {
		return
	}

	fmt.Fprintf(w, "## Deployment — %s\n\n", hc.Name)
	for _, cf := range hc.ConfigFiles {
		fmt.Fprintf(w, "- `%s` (%s)\n", cf.Name, cf.Location)
	}
	if len(hc.DeploymentSteps) > 0 {
		fmt.Fprintln(w)
		for _, step := range hc.DeploymentSteps {
			fmt.Fprintf(w, "%s\n", step)
		}
	}
	fmt.Fprintln(w)
}

func (f *MarkdownFormatter) writeFooter(w io.Writer, summary *Summary) {
	fmt.Fprintln(w, "---")
	fmt.Fprintf(w, "*Job: %s | Generated: %s*\n",
		summary.JobID, summary.Timestamp.Format("2006-01-02 15:04:05"))
}
