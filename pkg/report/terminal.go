package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/repoaudit/repoaudit/pkg/audit"
)

// ANSI color codes for terminal output.
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorCyan   = "\033[36m"
	colorBold   = "\033[1m"
	colorDim    = "\033[2m"
)

// TerminalFormatter writes a color-coded summary to a terminal.
type TerminalFormatter struct{}

// NewTerminalFormatter creates a terminal report formatter.
func NewTerminalFormatter() *TerminalFormatter {
	return &TerminalFormatter{}
}

// Format writes the summary to the given writer using ANSI colors.
func (f *TerminalFormatter) Format(w io.Writer, summary *Summary) error {
	f.writeHeader(w, summary)
	f.writeCounts(w, summary)
	f.writeIssues(w, summary)
	f.writeEnhancements(w, summary)
	f.writeFileSuggestions(w, summary)
	f.writeHosting(w, summary)
	f.writeFooter(w, summary)
	return nil
}

func (f *TerminalFormatter) writeHeader(w io.Writer, summary *Summary) {
	fmt.Fprintf(w, "\n%s%s══════════════════════════════════════════%s\n", colorBold, colorCyan, colorReset)
	fmt.Fprintf(w, "%s%s  Repository Audit Report%s\n", colorBold, colorCyan, colorReset)
	fmt.Fprintf(w, "%s%s══════════════════════════════════════════%s\n\n", colorBold, colorCyan, colorReset)
	fmt.Fprintf(w, "  %s\n\n", summary.Headline)
}

func (f *TerminalFormatter) writeCounts(w io.Writer, summary *Summary) {
	s := summary.Stats
	if s.TotalIssues == 0 && s.TotalEnhancements == 0 {
		fmt.Fprintf(w, "  %sNo issues found — clean repository!%s\n\n", colorGreen, colorReset)
		return
	}

	fmt.Fprintf(w, "  %s%d%s issues: %s%d high%s / %s%d medium%s / %s%d low%s\n",
		colorBold, s.TotalIssues, colorReset,
		colorRed, s.IssuesBySeverity.High, colorReset,
		colorYellow, s.IssuesBySeverity.Medium, colorReset,
		colorDim, s.IssuesBySeverity.Low, colorReset)
	fmt.Fprintf(w, "  %s%d%s enhancements: %d performance / %d security / %d maintainability\n\n",
		colorBold, s.TotalEnhancements, colorReset,
		s.EnhancementsByType.Performance,
		s.EnhancementsByType.Security,
		s.EnhancementsByType.Maintainability)
}

func (f *TerminalFormatter) writeIssues(w io.Writer, summary *Summary) {
	issues := summary.Result.Issues
	if len(issues) == 0 {
		return
	}

	// Group issues by severity, high first.
	grouped := make(map[audit.Severity][]audit.Issue)
	for _, issue := range issues {
		grouped[issue.Severity] = append(grouped[issue.Severity], issue)
	}

	for _, sev := range []audit.Severity{audit.SeverityHigh, audit.SeverityMedium, audit.SeverityLow} {
		group, ok := grouped[sev]
		if !ok {
			continue
		}

		color := severityColor(sev)
		label := strings.ToUpper(string(sev))
		fmt.Fprintf(w, "  %s%s── %s (%d) ──%s\n", colorBold, color, label, len(group), colorReset)

		for _, issue := range group {
			fmt.Fprintf(w, "    %s[%s]%s %s\n", color, issue.Type, colorReset, issue.Title)
			fmt.Fprintf(w, "      %s%s%s\n", colorDim, location(issue.File, issue.Line), colorReset)
			if issue.Description != "" {
				fmt.Fprintf(w, "      %s\n", issue.Description)
			}
			if issue.Recommendation != "" {
				fmt.Fprintf(w, "      %s→ %s%s\n", colorCyan, issue.Recommendation, colorReset)
			}
			fmt.Fprintln(w)
		}
	}
}

func (f *TerminalFormatter) writeEnhancements(w io.Writer, summary *Summary) {
	enhancements := summary.Result.Enhancements
	if len(enhancements) == 0 {
		return
	}

	fmt.Fprintf(w, "  %s%s── ENHANCEMENTS (%d) ──%s\n", colorBold, colorCyan, len(enhancements), colorReset)
	for _, e := range enhancements {
		fmt.Fprintf(w, "    %s[%s]%s %s\n", colorCyan, e.Type, colorReset, e.Title)
		if e.File != "" {
			fmt.Fprintf(w, "      %s%s%s\n", colorDim, location(e.File, e.Line), colorReset)
		}
		if e.Suggestion != "" {
			fmt.Fprintf(w, "      %s→ %s%s\n", colorCyan, e.Suggestion, colorReset)
		}
		fmt.Fprintln(w)
	}
}

func (f *TerminalFormatter) writeFileSuggestions(w io.Writer, summary *Summary) {
	suggestions := summary.Result.FileSuggestions
	if len(suggestions) == 0 {
		return
	}

	fmt.Fprintf(w, "  %s── FILES TO UPDATE ──%s\n", colorBold, colorReset)
	for _, fs := range suggestions {
		color := severityColor(fs.Priority)
		fmt.Fprintf(w, "    %s%-8s%s %s (%d issues, %d enhancements)\n",
			color, strings.ToUpper(string(fs.Priority)), colorReset,
			fs.File, fs.IssuesCount, fs.EnhancementsCount)
	}
	fmt.Fprintln(w)
}

func (f *TerminalFormatter) writeHosting(w io.Writer, summary *Summary) {
	hc := summary.Result.HostingConfig
	if hc == nil {
		return
	}

	fmt.Fprintf(w, "  %s── DEPLOYMENT: %s ──%s\n", colorBold, hc.Name, colorReset)
	for _, cf := range hc.ConfigFiles {
		fmt.Fprintf(w, "    %s%s%s (%s)\n", colorCyan, cf.Name, colorReset, cf.Location)
	}
	for _, step := range hc.DeploymentSteps {
		fmt.Fprintf(w, "    %s%s%s\n", colorDim, step, colorReset)
	}
	fmt.Fprintln(w)
}

func (f *TerminalFormatter) writeFooter(w io.Writer, summary *Summary) {
	fmt.Fprintf(w, "  %s%s──────────────────────────────────────────%s\n", colorDim, colorCyan, colorReset)
	fmt.Fprintf(w, "  %sFiles: %d | Job: %s%s\n",
		colorDim, summary.Stats.TotalFiles, summary.JobID, colorReset)
	fmt.Fprintf(w, "  %sGenerated: %s%s\n\n",
		colorDim, summary.Timestamp.Format("2006-01-02 15:04:05"), colorReset)
}

// severityColor returns the ANSI color for a severity level.
func severityColor(s audit.Severity) string {
	switch s {
	case audit.SeverityHigh:
		return colorRed
	case audit.SeverityMedium:
		return colorYellow
	case audit.SeverityLow:
		return colorDim
	default:
		return colorReset
	}
}

// location formats a file/line reference.
func location(file string, line int) string {
	if file == "" {
		return "(repository-wide)"
	}
	if line > 0 {
		return fmt.Sprintf("%s:%d", file, line)
	}
	return file
}
